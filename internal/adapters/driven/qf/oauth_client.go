package qf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OAuthProvider = (*OAuthClient)(nil)

const (
	authPath  = "/oauth2/auth"
	tokenPath = "/oauth2/token"

	// ExchangeTimeout bounds the authorization-code exchange
	ExchangeTimeout = 15 * time.Second
)

// OAuthClient talks to the Quran Foundation authorization server.
type OAuthClient struct {
	qf         domain.QFConfig
	httpClient *http.Client
}

// NewOAuthClient creates a client for the configured environment.
// A nil httpClient gets one with ExchangeTimeout.
func NewOAuthClient(qf domain.QFConfig, httpClient *http.Client) *OAuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: ExchangeTimeout}
	}
	return &OAuthClient{qf: qf, httpClient: httpClient}
}

// config builds the oauth2 configuration for one redirect URI.
// Confidential clients authenticate with HTTP Basic, public clients send client_id in the body.
func (c *OAuthClient) config(redirectURI string) *oauth2.Config {
	authStyle := oauth2.AuthStyleInParams
	if c.qf.IsConfidential() {
		authStyle = oauth2.AuthStyleInHeader
	}

	base := strings.TrimRight(c.qf.AuthBaseURL, "/")
	return &oauth2.Config{
		ClientID:     c.qf.ClientID,
		ClientSecret: c.qf.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       strings.Fields(domain.QFScope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   base + authPath,
			TokenURL:  base + tokenPath,
			AuthStyle: authStyle,
		},
	}
}

// AuthorizationURL builds the authorization endpoint URL with an S256 challenge and nonce.
func (c *OAuthClient) AuthorizationURL(req driven.AuthorizationRequest) string {
	return c.config(req.RedirectURI).AuthCodeURL(req.State,
		oauth2.SetAuthURLParam("nonce", req.Nonce),
		oauth2.SetAuthURLParam("code_challenge", req.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode posts the authorization code and PKCE verifier to the token endpoint.
func (c *OAuthClient) ExchangeCode(ctx context.Context, req driven.CodeExchange) (*domain.TokenSet, error) {
	ctx, cancel := context.WithTimeout(ctx, ExchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config(req.RedirectURI).Exchange(ctx, req.Code, oauth2.VerifierOption(req.CodeVerifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	return tokenSetFrom(token), nil
}

// IDTokenNonce reads the nonce claim without verifying the signature.
// The token came straight from the token endpoint over TLS.
func (c *OAuthClient) IDTokenNonce(idToken string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", false
	}
	nonce, ok := claims["nonce"].(string)
	if !ok || nonce == "" {
		return "", false
	}
	return nonce, true
}

func tokenSetFrom(token *oauth2.Token) *domain.TokenSet {
	set := &domain.TokenSet{AccessToken: token.AccessToken}

	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		set.RefreshToken = &refresh
	}
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		set.IDToken = &idToken
	}
	if expiresIn, ok := extraInt64(token.Extra("expires_in")); ok {
		set.ExpiresIn = &expiresIn
	}

	return set
}

// extraInt64 converts a raw token response field to an integer.
func extraInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
