package mocks

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

var _ driven.AuthAdapter = (*MockAuthAdapter)(nil)

const (
	mockHashPrefix  = "hashed:"
	mockTokenPrefix = "mock."
)

// MockAuthAdapter hashes by prefixing and issues unsigned "mock.<base64 json>" tokens.
type MockAuthAdapter struct {
	// HashErr, when set, is returned by HashPassword
	HashErr error
}

func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

// MockPasswordHash returns the hash MockAuthAdapter stores for password
func MockPasswordHash(password string) string {
	return mockHashPrefix + password
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return MockPasswordHash(password), nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == MockPasswordHash(password)
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return mockTokenPrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	payload, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claims domain.TokenClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}
