package driving

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// ContentService proxies Quran text, translations and audio metadata.
// Responses are upstream JSON; upstream failures wrap domain.ErrUpstream.
type ContentService interface {
	// Chapters returns the chapter list, served from cache when fresh
	Chapters(ctx context.Context, language string) (json.RawMessage, error)

	Chapter(ctx context.Context, chapterID int, language string) (json.RawMessage, error)

	// VersesByChapter returns a page of verses; with opts.Tajweed set the
	// tajweed-annotated text is merged into each verse when available
	VersesByChapter(ctx context.Context, chapterID int, opts domain.VerseOptions) (json.RawMessage, error)
	VersesByJuz(ctx context.Context, juzNumber int, opts domain.VerseOptions) (json.RawMessage, error)
	VersesByPage(ctx context.Context, pageNumber int, opts domain.VerseOptions) (json.RawMessage, error)
	VerseByKey(ctx context.Context, verseKey string, translations string) (json.RawMessage, error)

	Juzs(ctx context.Context) (json.RawMessage, error)
	Translations(ctx context.Context, language string) (json.RawMessage, error)
	Recitations(ctx context.Context) (json.RawMessage, error)
	Tafsirs(ctx context.Context) (json.RawMessage, error)

	// Tafsir returns tafsir text from Quran Foundation, falling back to quran.com.
	// ErrInvalidInput when the query selects nothing.
	Tafsir(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error)

	// Search runs a full-text search; a blank query returns an empty result
	Search(ctx context.Context, q domain.SearchQuery) (json.RawMessage, error)
}
