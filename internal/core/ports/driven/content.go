package driven

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// ContentAPI is the public Quran content API (api.quran.com v4).
// Responses are returned verbatim.
type ContentAPI interface {
	Chapters(ctx context.Context, language string) (json.RawMessage, error)
	Chapter(ctx context.Context, chapterID int, language string) (json.RawMessage, error)
	VersesByChapter(ctx context.Context, chapterID int, opts domain.VerseOptions) (json.RawMessage, error)
	VersesByJuz(ctx context.Context, juzNumber int, opts domain.VerseOptions) (json.RawMessage, error)
	VersesByPage(ctx context.Context, pageNumber int, opts domain.VerseOptions) (json.RawMessage, error)
	VerseByKey(ctx context.Context, verseKey string, translations string) (json.RawMessage, error)
	Juzs(ctx context.Context) (json.RawMessage, error)
	Translations(ctx context.Context, language string) (json.RawMessage, error)
	Recitations(ctx context.Context) (json.RawMessage, error)
	Tafsirs(ctx context.Context) (json.RawMessage, error)
	TafsirByVerse(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error)
	Search(ctx context.Context, q domain.SearchQuery) (json.RawMessage, error)
}

// FoundationContentAPI is the Quran Foundation content API, authenticated with
// the client-credentials grant.
type FoundationContentAPI interface {
	// Available reports whether client credentials are configured.
	Available() bool

	// UthmaniTajweed returns verses with tajweed-annotated HTML text.
	UthmaniTajweed(ctx context.Context, scope domain.TajweedScope) (json.RawMessage, error)

	// TafsirByVerse returns tafsir text for a verse or chapter.
	TafsirByVerse(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error)
}
