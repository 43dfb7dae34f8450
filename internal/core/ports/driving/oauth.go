package driving

import (
	"context"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// OAuthService runs the Quran Foundation sign-in for a browser session.
// Every operation is scoped to the opaque session id carried by the session cookie.
type OAuthService interface {
	// Login starts an authorization-code + PKCE flow and returns the URL to redirect the
	// browser to. Any previous pending login for the session is replaced.
	// Returns an error wrapping domain.ErrConfiguration when no client id is set.
	Login(ctx context.Context, sessionID, redirectURI string) (string, error)

	// Callback completes the flow. It always yields a frontend redirect: either the
	// one-time exchange URL on success or an oauth_error URL on failure.
	Callback(ctx context.Context, sessionID string, req CallbackRequest) *CallbackResult

	// Redeem trades the one-time exchange code for the token set. The ticket is consumed.
	// domain.ErrInvalidOrExpiredCode for any mismatch.
	Redeem(ctx context.Context, sessionID, code string) (*domain.TokenSet, error)

	// WhoAmI reports whether the session holds Quran Foundation tokens
	WhoAmI(ctx context.Context, sessionID string) (*domain.SessionStatus, error)

	// Logout forgets the session's tokens. Idempotent.
	Logout(ctx context.Context, sessionID string) error
}

// CallbackRequest represents the OAuth callback from the provider.
// @Description OAuth callback parameters from provider redirect
type CallbackRequest struct {
	// Code is the authorization code from the provider.
	Code string `json:"code" example:"abc123"`

	// State is the CSRF token returned by the provider.
	State string `json:"state" example:"abc123xyz"`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty" example:"access_denied"`
}

// CallbackResult is where the browser is sent after the callback.
type CallbackResult struct {
	// RedirectURL is the frontend URL, carrying either code or oauth_error
	RedirectURL string

	// Reason is empty on success
	Reason domain.RedirectReason
}

// Succeeded reports whether the callback produced an exchange ticket
func (r *CallbackResult) Succeeded() bool {
	return r.Reason == ""
}

// OAuthError represents an OAuth-specific error.
type OAuthError struct {
	Code        string `json:"error" example:"invalid_state"`
	Description string `json:"error_description" example:"The state parameter is invalid or expired"`
}

func (e *OAuthError) Error() string {
	if e.Description != "" {
		return e.Code + ": " + e.Description
	}
	return e.Code
}

// Common OAuth errors
var (
	ErrOAuthInvalidState   = &OAuthError{Code: string(domain.RedirectInvalidState), Description: "The state parameter is invalid or expired"}
	ErrOAuthExchangeFailed = &OAuthError{Code: string(domain.RedirectTokenExchangeFailed), Description: "Failed to exchange authorization code for tokens"}
	ErrOAuthInvalidNonce   = &OAuthError{Code: string(domain.RedirectInvalidNonce), Description: "The id_token nonce does not match the login request"}
)
