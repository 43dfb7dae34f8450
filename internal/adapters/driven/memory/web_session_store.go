package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.WebSessionStore       = (*WebSessionStore)(nil)
	_ driven.ExpiredSessionCleaner = (*WebSessionStore)(nil)
)

type webSession struct {
	values    map[string][]byte
	expiresAt time.Time
}

// WebSessionStore keeps browser sessions in process memory.
// It suits a single instance; state is lost on restart.
type WebSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*webSession
	ttl      time.Duration
	now      func() time.Time
}

// NewWebSessionStore creates an empty store whose sessions live ttl after their last write
func NewWebSessionStore(ttl time.Duration) *WebSessionStore {
	return &WebSessionStore{
		sessions: make(map[string]*webSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// live returns the session if present and unexpired. Caller holds mu.
func (s *WebSessionStore) live(sessionID string) *webSession {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return nil
	}
	return sess
}

func (s *WebSessionStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	value, ok := sess.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *WebSessionStore) Set(_ context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		sess = &webSession{values: make(map[string][]byte)}
		s.sessions[sessionID] = sess
	}
	sess.values[key] = append([]byte(nil), value...)
	sess.expiresAt = s.now().Add(s.ttl)
	return nil
}

func (s *WebSessionStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.live(sessionID); sess != nil {
		delete(sess.values, key)
	}
	return nil
}

func (s *WebSessionStore) Take(_ context.Context, sessionID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(sessionID)
	if sess == nil {
		return nil, domain.ErrNotFound
	}
	value, ok := sess.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(sess.values, key)
	return value, nil
}

// Cleanup drops expired sessions
func (s *WebSessionStore) Cleanup(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed int64
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
