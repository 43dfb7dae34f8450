package mocks

import (
	"context"
	"net/url"
	"sync"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

var _ driven.OAuthProvider = (*MockOAuthProvider)(nil)

// MockOAuthProvider records exchanges and returns a canned result.
type MockOAuthProvider struct {
	mu sync.Mutex

	// AuthBaseURL is the authorization endpoint used by AuthorizationURL
	AuthBaseURL string

	// Tokens is returned by ExchangeCode when Err is nil
	Tokens *domain.TokenSet
	Err    error

	// Nonces maps id_token values to the nonce claim they carry
	Nonces map[string]string

	exchanges []driven.CodeExchange
}

// NewMockOAuthProvider creates a provider that returns tokens on every exchange.
func NewMockOAuthProvider(tokens *domain.TokenSet) *MockOAuthProvider {
	return &MockOAuthProvider{
		AuthBaseURL: "https://auth.example.test/oauth2/auth",
		Tokens:      tokens,
		Nonces:      make(map[string]string),
	}
}

func (m *MockOAuthProvider) AuthorizationURL(req driven.AuthorizationRequest) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("redirect_uri", req.RedirectURI)
	q.Set("scope", domain.QFScope)
	q.Set("state", req.State)
	q.Set("nonce", req.Nonce)
	q.Set("code_challenge", req.CodeChallenge)
	q.Set("code_challenge_method", "S256")
	return m.AuthBaseURL + "?" + q.Encode()
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, req driven.CodeExchange) (*domain.TokenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = append(m.exchanges, req)
	if m.Err != nil {
		return nil, m.Err
	}
	tokens := *m.Tokens
	return &tokens, nil
}

func (m *MockOAuthProvider) IDTokenNonce(idToken string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nonce, ok := m.Nonces[idToken]
	return nonce, ok
}

// ExchangeCount returns how many times ExchangeCode was called
func (m *MockOAuthProvider) ExchangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exchanges)
}

// LastExchange returns the most recent exchange request
func (m *MockOAuthProvider) LastExchange() (driven.CodeExchange, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.exchanges) == 0 {
		return driven.CodeExchange{}, false
	}
	return m.exchanges[len(m.exchanges)-1], true
}
