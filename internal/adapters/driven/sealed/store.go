// Package sealed encrypts browser-session values before they reach a backing store.
package sealed

import (
	"context"

	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Ensure Store implements WebSessionStore
var _ driven.WebSessionStore = (*Store)(nil)

// Store wraps a WebSessionStore and seals every value, bound to its session
// id and key, so tokens are never stored in the clear and a value copied to
// another session or key does not open.
type Store struct {
	inner  driven.WebSessionStore
	cipher *Cipher
}

// NewStore wraps inner
func NewStore(inner driven.WebSessionStore, cipher *Cipher) *Store {
	return &Store{inner: inner, cipher: cipher}
}

func binding(sessionID, key string) []byte {
	return []byte(sessionID + "\x00" + key)
}

func (s *Store) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	blob, err := s.inner.Get(ctx, sessionID, key)
	if err != nil {
		return nil, err
	}
	return s.cipher.Open(blob, binding(sessionID, key))
}

func (s *Store) Set(ctx context.Context, sessionID, key string, value []byte) error {
	blob, err := s.cipher.Seal(value, binding(sessionID, key))
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, sessionID, key, blob)
}

func (s *Store) Delete(ctx context.Context, sessionID, key string) error {
	return s.inner.Delete(ctx, sessionID, key)
}

func (s *Store) Take(ctx context.Context, sessionID, key string) ([]byte, error) {
	blob, err := s.inner.Take(ctx, sessionID, key)
	if err != nil {
		return nil, err
	}
	return s.cipher.Open(blob, binding(sessionID, key))
}
