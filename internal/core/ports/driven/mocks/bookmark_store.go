package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

var _ driven.BookmarkStore = (*MockBookmarkStore)(nil)

// MockBookmarkStore is an in-memory BookmarkStore for testing
type MockBookmarkStore struct {
	mu        sync.Mutex
	nextID    int64
	bookmarks map[string]*domain.Bookmark // userID + "|" + verseKey
}

// NewMockBookmarkStore creates a new MockBookmarkStore
func NewMockBookmarkStore() *MockBookmarkStore {
	return &MockBookmarkStore{
		bookmarks: make(map[string]*domain.Bookmark),
	}
}

func bookmarkKey(userID, verseKey string) string {
	return userID + "|" + verseKey
}

func (m *MockBookmarkStore) ListByUser(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Bookmark, 0)
	for _, b := range m.bookmarks {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockBookmarkStore) GetOrCreate(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := bookmarkKey(bookmark.UserID, bookmark.VerseKey)
	if existing, ok := m.bookmarks[key]; ok {
		return existing, false, nil
	}
	m.nextID++
	stored := *bookmark
	stored.ID = m.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = timeNow()
	}
	m.bookmarks[key] = &stored
	return &stored, true, nil
}

func (m *MockBookmarkStore) DeleteByVerseKey(ctx context.Context, userID, verseKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := bookmarkKey(userID, verseKey)
	if _, ok := m.bookmarks[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookmarks, key)
	return nil
}
