package driven

import (
	"context"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// BookmarkStore persists verse bookmarks (PostgreSQL)
type BookmarkStore interface {
	// ListByUser returns a user's bookmarks, newest first
	ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error)

	// GetOrCreate inserts the bookmark unless the user already has one for the verse key.
	// It returns the stored bookmark and whether it was created by this call.
	GetOrCreate(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, bool, error)

	// DeleteByVerseKey removes a user's bookmark; ErrNotFound when none existed
	DeleteByVerseKey(ctx context.Context, userID, verseKey string) error
}
