package driven

import "context"

// WebSessionStore keeps server-side values for a browser session.
// The session is identified by the opaque value of the session cookie;
// the browser never sees the stored values.
//
// Every operation on a single key is atomic. Values are opaque bytes.
type WebSessionStore interface {
	// Get returns the value stored under key, or domain.ErrNotFound.
	Get(ctx context.Context, sessionID, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value,
	// and extends the session lifetime.
	Set(ctx context.Context, sessionID, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, sessionID, key string) error

	// Take atomically returns and removes the value under key, or domain.ErrNotFound.
	// Of several concurrent callers at most one receives the value.
	Take(ctx context.Context, sessionID, key string) ([]byte, error)
}

// ExpiredSessionCleaner is implemented by stores that cannot expire entries on their own.
type ExpiredSessionCleaner interface {
	// Cleanup removes expired entries and returns how many were removed.
	Cleanup(ctx context.Context) (int64, error)
}
