package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

var _ driven.WebSessionStore = (*MockWebSessionStore)(nil)

// MockWebSessionStore is an in-memory WebSessionStore.
// A single mutex makes every operation atomic.
type MockWebSessionStore struct {
	mu       sync.Mutex
	sessions map[string]map[string][]byte
}

// NewMockWebSessionStore creates a new MockWebSessionStore
func NewMockWebSessionStore() *MockWebSessionStore {
	return &MockWebSessionStore{
		sessions: make(map[string]map[string][]byte),
	}
}

func (m *MockWebSessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.sessions[sessionID][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MockWebSessionStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	values, ok := m.sessions[sessionID]
	if !ok {
		values = make(map[string][]byte)
		m.sessions[sessionID] = values
	}
	values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockWebSessionStore) Delete(ctx context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions[sessionID], key)
	return nil
}

func (m *MockWebSessionStore) Take(ctx context.Context, sessionID, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.sessions[sessionID][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(m.sessions[sessionID], key)
	return value, nil
}

// Has reports whether key is present in the session
func (m *MockWebSessionStore) Has(sessionID, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[sessionID][key]
	return ok
}
