package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.WebSessionStore = (*WebSessionStore)(nil)

const webSessionPrefix = "quran-bff:websession:"

// WebSessionStore implements driven.WebSessionStore with one Redis hash per
// browser session. The hash expires as a whole, ttl after the last write.
type WebSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWebSessionStore creates a new Redis-backed WebSessionStore
func NewWebSessionStore(client *redis.Client, ttl time.Duration) *WebSessionStore {
	return &WebSessionStore{client: client, ttl: ttl}
}

// Get returns the value stored under key
func (s *WebSessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	value, err := s.client.HGet(ctx, webSessionPrefix+sessionID, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session value %s: %w", key, err)
	}
	return value, nil
}

// Set stores value and refreshes the session TTL in one transaction
func (s *WebSessionStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	hash := webSessionPrefix + sessionID

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, hash, key, value)
	pipe.PExpire(ctx, hash, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set session value %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *WebSessionStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, webSessionPrefix+sessionID, key).Err(); err != nil {
		return fmt.Errorf("delete session value %s: %w", key, err)
	}
	return nil
}

// takeScript reads and removes a hash field atomically.
// A missing field returns false, which go-redis reports as redis.Nil.
var takeScript = redis.NewScript(`
	local value = redis.call("hget", KEYS[1], ARGV[1])
	if value then
		redis.call("hdel", KEYS[1], ARGV[1])
	end
	return value
`)

// Take returns and removes the value under key
func (s *WebSessionStore) Take(ctx context.Context, sessionID, key string) ([]byte, error) {
	value, err := takeScript.Run(ctx, s.client, []string{webSessionPrefix + sessionID}, key).Text()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("take session value %s: %w", key, err)
	}
	return []byte(value), nil
}
