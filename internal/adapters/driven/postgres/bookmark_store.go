package postgres

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BookmarkStore = (*BookmarkStore)(nil)

// BookmarkStore implements driven.BookmarkStore using PostgreSQL
type BookmarkStore struct {
	db *DB
}

// NewBookmarkStore creates a new BookmarkStore
func NewBookmarkStore(db *DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// ListByUser returns the user's bookmarks, newest first
func (s *BookmarkStore) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	query := `
		SELECT id, user_id, verse_key, chapter_id, verse_number, text_preview, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := make([]*domain.Bookmark, 0)
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.VerseKey, &b.ChapterID, &b.VerseNumber, &b.TextPreview, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookmarks, nil
}

// GetOrCreate inserts the bookmark unless (user_id, verse_key) already exists.
// An existing bookmark is returned unchanged.
func (s *BookmarkStore) GetOrCreate(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, bool, error) {
	insert := `
		INSERT INTO bookmarks (user_id, verse_key, chapter_id, verse_number, text_preview, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, verse_key) DO NOTHING
		RETURNING id, created_at
	`

	created := *bookmark
	err := s.db.QueryRowContext(ctx, insert,
		bookmark.UserID,
		bookmark.VerseKey,
		bookmark.ChapterID,
		bookmark.VerseNumber,
		bookmark.TextPreview,
		bookmark.CreatedAt,
	).Scan(&created.ID, &created.CreatedAt)
	if err == nil {
		return &created, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	// Conflict: the row already exists
	lookup := `
		SELECT id, user_id, verse_key, chapter_id, verse_number, text_preview, created_at
		FROM bookmarks
		WHERE user_id = $1 AND verse_key = $2
	`
	var existing domain.Bookmark
	err = s.db.QueryRowContext(ctx, lookup, bookmark.UserID, bookmark.VerseKey).Scan(
		&existing.ID,
		&existing.UserID,
		&existing.VerseKey,
		&existing.ChapterID,
		&existing.VerseNumber,
		&existing.TextPreview,
		&existing.CreatedAt,
	)
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// DeleteByVerseKey removes a user's bookmark for the verse
func (s *BookmarkStore) DeleteByVerseKey(ctx context.Context, userID, verseKey string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND verse_key = $2`, userID, verseKey)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
