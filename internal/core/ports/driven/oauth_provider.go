package driven

import (
	"context"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// AuthorizationRequest carries the per-attempt values embedded in the authorization URL.
type AuthorizationRequest struct {
	RedirectURI   string
	State         string
	Nonce         string
	CodeChallenge string
}

// CodeExchange carries the values sent to the token endpoint.
// RedirectURI and CodeVerifier must be the ones stored when the login started.
type CodeExchange struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// OAuthProvider is the external authorization server.
type OAuthProvider interface {
	// AuthorizationURL builds the authorization endpoint URL (S256 PKCE, fixed scope).
	AuthorizationURL(req AuthorizationRequest) string

	// ExchangeCode trades an authorization code for tokens.
	// Any transport failure or non-200 response is returned as an error; no retries.
	ExchangeCode(ctx context.Context, req CodeExchange) (*domain.TokenSet, error)

	// IDTokenNonce reads the nonce claim of a JWT id_token without verifying its signature.
	// ok is false when the token is opaque or carries no nonce.
	IDTokenNonce(idToken string) (nonce string, ok bool)
}
