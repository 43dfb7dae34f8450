package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driving"
)

// Ensure bookmarkService implements BookmarkService
var _ driving.BookmarkService = (*bookmarkService)(nil)

type bookmarkService struct {
	store driven.BookmarkStore
}

// NewBookmarkService creates a new BookmarkService
func NewBookmarkService(store driven.BookmarkStore) driving.BookmarkService {
	return &bookmarkService{store: store}
}

func (s *bookmarkService) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.store.ListByUser(ctx, userID)
}

func (s *bookmarkService) Create(ctx context.Context, userID string, req domain.CreateBookmarkRequest) (*domain.Bookmark, bool, error) {
	if userID == "" {
		return nil, false, domain.ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	return s.store.GetOrCreate(ctx, &domain.Bookmark{
		UserID:      userID,
		VerseKey:    strings.TrimSpace(req.VerseKey),
		ChapterID:   req.ChapterID,
		VerseNumber: req.VerseNumber,
		TextPreview: domain.TruncatePreview(req.TextPreview),
		CreatedAt:   time.Now(),
	})
}

func (s *bookmarkService) Delete(ctx context.Context, userID, verseKey string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if verseKey == "" {
		return domain.ErrNotFound
	}
	return s.store.DeleteByVerseKey(ctx, userID, verseKey)
}
