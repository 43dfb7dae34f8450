package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// Sessions holds per-browser-session OAuth state.
	Sessions driven.WebSessionStore

	// Provider is the Quran Foundation authorization server.
	Provider driven.OAuthProvider

	// QF is the client registration; Login refuses to start without a client id.
	QF domain.QFConfig

	// FrontendURL is where the browser is sent after the callback.
	// Example: "http://localhost:5173"
	FrontendURL string

	Logger *slog.Logger
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	sessions    driven.WebSessionStore
	provider    driven.OAuthProvider
	qf          domain.QFConfig
	frontendURL string
	logger      *slog.Logger
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &oauthService{
		sessions:    cfg.Sessions,
		provider:    cfg.Provider,
		qf:          cfg.QF,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		logger:      logger,
	}
}

// Login generates PKCE credentials, state and nonce, stores them in the
// session and returns the authorization URL.
func (s *oauthService) Login(ctx context.Context, sessionID, redirectURI string) (string, error) {
	if err := s.qf.Validate(); err != nil {
		return "", err
	}

	verifier, err := GenerateVerifier()
	if err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := RandomOpaqueToken(opaqueTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := RandomOpaqueToken(opaqueTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	pending := &domain.PendingAuthorization{
		State:        state,
		Nonce:        nonce,
		CodeVerifier: verifier,
		RedirectURI:  redirectURI,
		CreatedAt:    time.Now(),
	}
	if err := s.putJSON(ctx, sessionID, domain.SessionKeyPendingAuthorization, pending); err != nil {
		return "", fmt.Errorf("save pending authorization: %w", err)
	}

	return s.provider.AuthorizationURL(driven.AuthorizationRequest{
		RedirectURI:   redirectURI,
		State:         state,
		Nonce:         nonce,
		CodeChallenge: DeriveChallenge(verifier),
	}), nil
}

// Callback validates state, exchanges the code and parks the tokens behind
// a one-time exchange code.
func (s *oauthService) Callback(ctx context.Context, sessionID string, req driving.CallbackRequest) *driving.CallbackResult {
	if req.Error != "" {
		s.forgetPending(ctx, sessionID)
		return s.failure(domain.ProviderRedirectReason(req.Error))
	}

	var pending domain.PendingAuthorization
	if err := s.getJSON(ctx, sessionID, domain.SessionKeyPendingAuthorization, &pending); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to load pending authorization", "error", err)
		}
		return s.failure(domain.RedirectInvalidState)
	}

	// A mismatched callback leaves the pending login in place
	if req.State == "" || subtle.ConstantTimeCompare([]byte(req.State), []byte(pending.State)) != 1 {
		s.logger.Warn("oauth callback rejected", "error", driving.ErrOAuthInvalidState)
		return s.failure(domain.RedirectInvalidState)
	}

	if req.Code == "" {
		s.forgetPending(ctx, sessionID)
		s.logger.Warn("oauth callback without code", "error", driving.ErrOAuthExchangeFailed)
		return s.failure(domain.RedirectTokenExchangeFailed)
	}

	tokens, err := s.provider.ExchangeCode(ctx, driven.CodeExchange{
		Code:         req.Code,
		RedirectURI:  pending.RedirectURI,
		CodeVerifier: pending.CodeVerifier,
	})
	if err != nil {
		s.forgetPending(ctx, sessionID)
		s.logger.Warn("oauth token exchange failed", "error", err)
		return s.failure(domain.RedirectTokenExchangeFailed)
	}

	if tokens.IDToken != nil {
		if nonce, ok := s.provider.IDTokenNonce(*tokens.IDToken); ok &&
			subtle.ConstantTimeCompare([]byte(nonce), []byte(pending.Nonce)) != 1 {
			s.forgetPending(ctx, sessionID)
			s.logger.Warn("oauth callback rejected", "error", driving.ErrOAuthInvalidNonce)
			return s.failure(domain.RedirectInvalidNonce)
		}
	}

	code, err := RandomOpaqueToken(exchangeCodeBytes)
	if err != nil {
		s.logger.Error("failed to generate exchange code", "error", err)
		return s.failure(domain.RedirectTokenExchangeFailed)
	}

	if err := s.putJSON(ctx, sessionID, domain.SessionKeyTokens, tokens); err != nil {
		s.logger.Error("failed to store tokens", "error", err)
		return s.failure(domain.RedirectTokenExchangeFailed)
	}
	s.forgetPending(ctx, sessionID)

	ticket := &domain.ExchangeTicket{Code: code, Tokens: tokens}
	if err := s.putJSON(ctx, sessionID, domain.SessionKeyExchangeTicket, ticket); err != nil {
		s.logger.Error("failed to store exchange ticket", "error", err)
		return s.failure(domain.RedirectTokenExchangeFailed)
	}

	return &driving.CallbackResult{
		RedirectURL: s.frontendURL + "/oauth/callback?code=" + url.QueryEscape(code),
	}
}

// Redeem returns the tokens parked behind code and consumes the ticket.
func (s *oauthService) Redeem(ctx context.Context, sessionID, code string) (*domain.TokenSet, error) {
	if code == "" {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	var ticket domain.ExchangeTicket
	if err := s.getJSON(ctx, sessionID, domain.SessionKeyExchangeTicket, &ticket); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, err
	}
	if !codesEqual(code, ticket.Code) {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	// Only the caller whose Take succeeds gets the tokens
	raw, err := s.sessions.Take(ctx, sessionID, domain.SessionKeyExchangeTicket)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	var taken domain.ExchangeTicket
	if err := json.Unmarshal(raw, &taken); err != nil {
		return nil, fmt.Errorf("decode exchange ticket: %w", err)
	}
	if !codesEqual(code, taken.Code) {
		// A newer login replaced the ticket between the read and the take
		if err := s.sessions.Set(ctx, sessionID, domain.SessionKeyExchangeTicket, raw); err != nil {
			s.logger.Error("failed to restore exchange ticket", "error", err)
		}
		return nil, domain.ErrInvalidOrExpiredCode
	}
	if taken.Tokens == nil {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	return taken.Tokens, nil
}

// WhoAmI reports whether the session holds tokens.
func (s *oauthService) WhoAmI(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	var tokens domain.TokenSet
	if err := s.getJSON(ctx, sessionID, domain.SessionKeyTokens, &tokens); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.SessionStatus{Authenticated: false}, nil
		}
		return nil, err
	}

	return &domain.SessionStatus{
		Authenticated: true,
		AccessToken:   tokens.AccessToken,
		IDToken:       tokens.IDToken,
	}, nil
}

// Logout forgets the session tokens and any unredeemed exchange ticket.
func (s *oauthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID, domain.SessionKeyTokens); err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	if err := s.sessions.Delete(ctx, sessionID, domain.SessionKeyExchangeTicket); err != nil {
		return fmt.Errorf("delete exchange ticket: %w", err)
	}
	return nil
}

func (s *oauthService) failure(reason domain.RedirectReason) *driving.CallbackResult {
	return &driving.CallbackResult{
		RedirectURL: s.frontendURL + "/?oauth_error=" + url.QueryEscape(string(reason)),
		Reason:      reason,
	}
}

func (s *oauthService) forgetPending(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID, domain.SessionKeyPendingAuthorization); err != nil {
		s.logger.Warn("failed to delete pending authorization", "error", err)
	}
}

func (s *oauthService) putJSON(ctx context.Context, sessionID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, sessionID, key, data)
}

func (s *oauthService) getJSON(ctx context.Context, sessionID, key string, v any) error {
	data, err := s.sessions.Get(ctx, sessionID, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func codesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
