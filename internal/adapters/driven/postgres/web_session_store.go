package postgres

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.WebSessionStore       = (*WebSessionStore)(nil)
	_ driven.ExpiredSessionCleaner = (*WebSessionStore)(nil)
)

// cleanupLockName serialises the expiry sweep across replicas
const cleanupLockName = "web-session-cleanup"

// WebSessionStore implements driven.WebSessionStore using PostgreSQL.
// Each value is one row keyed by (session_id, key). Expired rows are invisible
// to reads and removed by Cleanup.
type WebSessionStore struct {
	db  *DB
	ttl time.Duration
}

// NewWebSessionStore creates a store whose sessions live for ttl after the last write
func NewWebSessionStore(db *DB, ttl time.Duration) *WebSessionStore {
	return &WebSessionStore{db: db, ttl: ttl}
}

// Get returns the value stored under key
func (s *WebSessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	query := `
		SELECT value FROM web_sessions
		WHERE session_id = $1 AND key = $2 AND expires_at > NOW()
	`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts the value and slides the expiry of the whole session
func (s *WebSessionStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	expiresAt := time.Now().Add(s.ttl)

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		upsert := `
			INSERT INTO web_sessions (session_id, key, value, expires_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (session_id, key) DO UPDATE SET
				value = EXCLUDED.value,
				expires_at = EXCLUDED.expires_at
		`
		if _, err := tx.ExecContext(ctx, upsert, sessionID, key, value, expiresAt); err != nil {
			return err
		}

		touch := `UPDATE web_sessions SET expires_at = $2 WHERE session_id = $1 AND expires_at > NOW()`
		_, err := tx.ExecContext(ctx, touch, sessionID, expiresAt)
		return err
	})
}

// Delete removes key
func (s *WebSessionStore) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE session_id = $1 AND key = $2`, sessionID, key)
	return err
}

// Take deletes the row and returns its value in one statement; concurrent
// callers serialise on the row lock and only one sees it.
func (s *WebSessionStore) Take(ctx context.Context, sessionID, key string) ([]byte, error) {
	query := `
		DELETE FROM web_sessions
		WHERE session_id = $1 AND key = $2
		RETURNING value, expires_at
	`

	var (
		value     []byte
		expiresAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, sessionID, key).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !expiresAt.After(time.Now()) {
		return nil, domain.ErrNotFound
	}
	return value, nil
}

// Cleanup removes expired rows. Only one replica sweeps at a time; the others
// return zero without waiting.
func (s *WebSessionStore) Cleanup(ctx context.Context) (int64, error) {
	var removed int64

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		var acquired bool
		if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1)", hashLockName(cleanupLockName)).Scan(&acquired); err != nil {
			return err
		}
		if !acquired {
			return nil
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= NOW()`)
		if err != nil {
			return err
		}
		removed, err = result.RowsAffected()
		return err
	})

	return removed, err
}

// hashLockName converts a lock name to a 64-bit advisory lock key.
// Uses FNV-1a hash for consistent, well-distributed values.
func hashLockName(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("quran-bff:lock:" + name))
	return int64(h.Sum64())
}
