package domain

import "time"

// Keys under which OAuth state lives in a browser session.
const (
	SessionKeyPendingAuthorization = "qf_oauth"
	SessionKeyTokens               = "qf_tokens"
	SessionKeyExchangeTicket       = "qf_exchange"
)

// QFScope is the scope requested from the Quran Foundation authorization server.
const QFScope = "openid offline_access user collection"

// PendingAuthorization is the server-held half of an in-flight login.
// It is created when the login starts and consumed exactly once by the callback.
type PendingAuthorization struct {
	State        string    `json:"state"`
	Nonce        string    `json:"nonce"`
	CodeVerifier string    `json:"code_verifier"`
	RedirectURI  string    `json:"redirect_uri"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenSet is the result of a successful authorization-code exchange.
// Optional fields stay nil (and serialize as null) when the provider omits them.
type TokenSet struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	IDToken      *string `json:"id_token"`
	ExpiresIn    *int64  `json:"expires_in"`
}

// ExchangeTicket hands a TokenSet to the frontend across the callback redirect.
// Only Code ever appears in a URL.
type ExchangeTicket struct {
	Code   string    `json:"code"`
	Tokens *TokenSet `json:"tokens"`
}

// RedirectReason is the machine-readable oauth_error value sent to the frontend.
type RedirectReason string

const (
	RedirectInvalidState        RedirectReason = "invalid_state"
	RedirectTokenExchangeFailed RedirectReason = "token_exchange_failed"
	RedirectInvalidNonce        RedirectReason = "invalid_nonce"
)

// ProviderRedirectReason passes an authorization server error through unchanged.
func ProviderRedirectReason(code string) RedirectReason {
	return RedirectReason(code)
}

// SessionStatus is the answer to "am I signed in with Quran Foundation".
// The refresh token is never part of it.
type SessionStatus struct {
	Authenticated bool    `json:"authenticated"`
	AccessToken   string  `json:"access_token,omitempty"`
	IDToken       *string `json:"id_token,omitempty"`
}
