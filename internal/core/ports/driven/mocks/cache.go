package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

var _ driven.Cache = (*MockCache)(nil)

// MockCache is a map-backed Cache that ignores TTLs but records them.
type MockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	sets    int
}

// NewMockCache creates a new MockCache
func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return value, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	m.sets++
	return nil
}

// TTL returns the ttl the key was last stored with
func (m *MockCache) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// SetCount returns the number of Set calls
func (m *MockCache) SetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
