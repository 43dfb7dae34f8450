package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

const (
	// verifierBytes yields a 43-character verifier, the RFC 7636 minimum
	verifierBytes = 32

	// opaqueTokenBytes is the entropy of state and nonce values
	opaqueTokenBytes = 16

	// exchangeCodeBytes is the entropy of the one-time exchange code
	exchangeCodeBytes = 32
)

// GenerateVerifier returns a fresh PKCE code verifier.
func GenerateVerifier() (string, error) {
	return RandomOpaqueToken(verifierBytes)
}

// DeriveChallenge returns the S256 code challenge for a verifier.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// RandomOpaqueToken returns byteLength random bytes, base64url encoded without padding.
func RandomOpaqueToken(byteLength int) (string, error) {
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func generateID() string {
	return uuid.NewString()
}
