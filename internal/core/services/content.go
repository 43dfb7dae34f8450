package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driving"
)

// Ensure contentService implements ContentService
var _ driving.ContentService = (*contentService)(nil)

// DefaultChaptersCacheTTL is how long a chapter list stays cached
const DefaultChaptersCacheTTL = 24 * time.Hour

// emptySearchResult is returned for blank queries without calling upstream
var emptySearchResult = json.RawMessage(`{"search":{"query":"","results":[],"total_results":0}}`)

// ContentServiceConfig holds dependencies for the content service.
type ContentServiceConfig struct {
	// Quran is the public content API.
	Quran driven.ContentAPI

	// Foundation serves tajweed text and tafsir; optional.
	Foundation driven.FoundationContentAPI

	// Cache holds chapter lists.
	Cache driven.Cache

	// ChaptersTTL defaults to DefaultChaptersCacheTTL.
	ChaptersTTL time.Duration

	Logger *slog.Logger
}

type contentService struct {
	quran       driven.ContentAPI
	foundation  driven.FoundationContentAPI
	cache       driven.Cache
	chaptersTTL time.Duration
	fills       singleflight.Group
	logger      *slog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(cfg ContentServiceConfig) driving.ContentService {
	ttl := cfg.ChaptersTTL
	if ttl <= 0 {
		ttl = DefaultChaptersCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &contentService{
		quran:       cfg.Quran,
		foundation:  cfg.Foundation,
		cache:       cfg.Cache,
		chaptersTTL: ttl,
		logger:      logger,
	}
}

// Chapters serves the chapter list through a read-through cache.
// Concurrent misses for one language share a single upstream call.
func (s *contentService) Chapters(ctx context.Context, language string) (json.RawMessage, error) {
	language = orDefault(language, domain.DefaultLanguage)
	key := "chapters_" + language

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("chapter cache read failed", "key", key, "error", err)
		}
	}

	v, err, _ := s.fills.Do(key, func() (any, error) {
		data, err := s.quran.Chapters(ctx, language)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, data, s.chaptersTTL); err != nil {
				s.logger.Warn("chapter cache write failed", "key", key, "error", err)
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

func (s *contentService) Chapter(ctx context.Context, chapterID int, language string) (json.RawMessage, error) {
	return s.quran.Chapter(ctx, chapterID, orDefault(language, domain.DefaultLanguage))
}

func (s *contentService) VersesByChapter(ctx context.Context, chapterID int, opts domain.VerseOptions) (json.RawMessage, error) {
	data, err := s.quran.VersesByChapter(ctx, chapterID, opts)
	if err != nil || !opts.Tajweed {
		return data, err
	}
	return s.withTajweed(ctx, data, domain.TajweedScope{ChapterNumber: chapterID}), nil
}

func (s *contentService) VersesByJuz(ctx context.Context, juzNumber int, opts domain.VerseOptions) (json.RawMessage, error) {
	data, err := s.quran.VersesByJuz(ctx, juzNumber, opts)
	if err != nil || !opts.Tajweed {
		return data, err
	}
	return s.withTajweed(ctx, data, domain.TajweedScope{JuzNumber: juzNumber}), nil
}

func (s *contentService) VersesByPage(ctx context.Context, pageNumber int, opts domain.VerseOptions) (json.RawMessage, error) {
	if pageNumber < 1 || pageNumber > domain.MaxMushafPage {
		return nil, domain.ErrInvalidInput
	}
	data, err := s.quran.VersesByPage(ctx, pageNumber, opts)
	if err != nil || !opts.Tajweed {
		return data, err
	}
	return s.withTajweed(ctx, data, domain.TajweedScope{PageNumber: pageNumber}), nil
}

func (s *contentService) VerseByKey(ctx context.Context, verseKey string, translations string) (json.RawMessage, error) {
	return s.quran.VerseByKey(ctx, verseKey, orDefault(translations, domain.DefaultTranslations))
}

func (s *contentService) Juzs(ctx context.Context) (json.RawMessage, error) {
	return s.quran.Juzs(ctx)
}

func (s *contentService) Translations(ctx context.Context, language string) (json.RawMessage, error) {
	return s.quran.Translations(ctx, orDefault(language, domain.DefaultLanguage))
}

func (s *contentService) Recitations(ctx context.Context) (json.RawMessage, error) {
	return s.quran.Recitations(ctx)
}

func (s *contentService) Tafsirs(ctx context.Context) (json.RawMessage, error) {
	return s.quran.Tafsirs(ctx)
}

// Tafsir prefers Quran Foundation and falls back to quran.com on any failure.
func (s *contentService) Tafsir(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error) {
	if q.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}

	if s.foundationAvailable() {
		data, err := s.foundation.TafsirByVerse(ctx, tafsirID, q)
		if err == nil {
			return data, nil
		}
		s.logger.Warn("quran foundation tafsir failed, falling back", "tafsir_id", tafsirID, "error", err)
	}

	return s.quran.TafsirByVerse(ctx, tafsirID, q)
}

func (s *contentService) Search(ctx context.Context, q domain.SearchQuery) (json.RawMessage, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return emptySearchResult, nil
	}
	if q.Page < 1 {
		q.Page = domain.DefaultPage
	}
	if q.Size < 1 {
		q.Size = domain.DefaultSearchSize
	}
	q.Language = orDefault(q.Language, domain.DefaultLanguage)
	return s.quran.Search(ctx, q)
}

func (s *contentService) foundationAvailable() bool {
	return s.foundation != nil && s.foundation.Available()
}

// withTajweed adds text_uthmani_tajweed to each verse. The plain response is
// returned unchanged when tajweed text cannot be fetched.
func (s *contentService) withTajweed(ctx context.Context, data json.RawMessage, scope domain.TajweedScope) json.RawMessage {
	if !s.foundationAvailable() {
		return data
	}

	tajweed, err := s.foundation.UthmaniTajweed(ctx, scope)
	if err != nil {
		s.logger.Warn("tajweed lookup failed", "error", err)
		return data
	}

	merged, err := MergeTajweed(data, tajweed)
	if err != nil {
		s.logger.Warn("tajweed merge failed", "error", err)
		return data
	}
	return merged
}

// MergeTajweed copies text_uthmani_tajweed from the tajweed response into the
// verses of the base response, matching on verse_key.
func MergeTajweed(base, tajweed json.RawMessage) (json.RawMessage, error) {
	byKey := make(map[string]string)
	gjson.GetBytes(tajweed, "verses").ForEach(func(_, verse gjson.Result) bool {
		key := verse.Get("verse_key").String()
		text := verse.Get("text_uthmani_tajweed")
		if key != "" && text.Exists() {
			byKey[key] = text.String()
		}
		return true
	})
	if len(byKey) == 0 {
		return base, nil
	}

	out := []byte(base)
	verses := gjson.GetBytes(out, "verses").Array()
	for i, verse := range verses {
		text, ok := byKey[verse.Get("verse_key").String()]
		if !ok {
			continue
		}
		var err error
		out, err = sjson.SetBytes(out, fmt.Sprintf("verses.%d.text_uthmani_tajweed", i), text)
		if err != nil {
			return nil, fmt.Errorf("set tajweed text: %w", err)
		}
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
