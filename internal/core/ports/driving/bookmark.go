package driving

import (
	"context"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// BookmarkService manages a user's verse bookmarks
type BookmarkService interface {
	// List returns the user's bookmarks, newest first
	List(ctx context.Context, userID string) ([]*domain.Bookmark, error)

	// Create returns the existing bookmark for the verse key, or a new one.
	// created reports which of the two happened.
	Create(ctx context.Context, userID string, req domain.CreateBookmarkRequest) (bookmark *domain.Bookmark, created bool, err error)

	// Delete removes the bookmark for the verse key; ErrNotFound when absent
	Delete(ctx context.Context, userID, verseKey string) error
}
