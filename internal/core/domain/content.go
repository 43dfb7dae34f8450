package domain

import "strconv"

// Defaults applied by the content proxy when the caller omits a parameter.
const (
	DefaultLanguage     = "en"
	DefaultTranslations = "131"
	DefaultPage         = 1
	DefaultPerPage      = 20
	DefaultSearchSize   = 20
	MaxMushafPage       = 604
)

// VerseOptions are the pass-through options for verse listings.
type VerseOptions struct {
	Translations string
	Audio        int
	Words        bool
	Tafsirs      string
	Page         int
	PerPage      int
	Tajweed      bool
}

// DefaultVerseOptions returns the options used when a request sets none.
func DefaultVerseOptions() VerseOptions {
	return VerseOptions{
		Translations: DefaultTranslations,
		Audio:        1,
		Page:         DefaultPage,
		PerPage:      DefaultPerPage,
	}
}

// TafsirQuery selects the verses a tafsir is requested for.
type TafsirQuery struct {
	VerseKey      string
	ChapterNumber int
}

// IsEmpty reports whether neither selector is set.
func (q TafsirQuery) IsEmpty() bool {
	return q.VerseKey == "" && q.ChapterNumber == 0
}

// SearchQuery is a full-text search request.
type SearchQuery struct {
	Query    string
	Page     int
	Size     int
	Language string
}

// TajweedScope selects verses for the tajweed-annotated text lookup.
// Exactly one selector is used, in the order chapter, page, verse key.
type TajweedScope struct {
	ChapterNumber int
	PageNumber    int
	JuzNumber     int
	VerseKey      string
}

// Params returns the query parameters for the scope, or nil when no selector is set.
func (s TajweedScope) Params() map[string]string {
	switch {
	case s.ChapterNumber > 0:
		return map[string]string{"chapter_number": strconv.Itoa(s.ChapterNumber)}
	case s.PageNumber > 0:
		return map[string]string{"page_number": strconv.Itoa(s.PageNumber)}
	case s.JuzNumber > 0:
		return map[string]string{"juz_number": strconv.Itoa(s.JuzNumber)}
	case s.VerseKey != "":
		return map[string]string{"verse_key": s.VerseKey}
	default:
		return nil
	}
}
