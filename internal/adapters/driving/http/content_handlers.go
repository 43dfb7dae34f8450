package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

// errBadParam marks a query or path parameter that is not a positive integer
var errBadParam = errors.New("bad parameter")

// writeContent writes a proxied response or maps the error
func (s *Server) writeContent(w http.ResponseWriter, r *http.Request, data json.RawMessage, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid request")
		case errors.Is(err, domain.ErrUpstream):
			s.logger.Warn("upstream request failed", "path", r.URL.Path, "error", err, "request_id", GetRequestID(r.Context()))
			writeError(w, http.StatusBadGateway, "upstream request failed")
		default:
			s.logger.Error("content request failed", "path", r.URL.Path, "error", err, "request_id", GetRequestID(r.Context()))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	writeRaw(w, http.StatusOK, data)
}

// positiveInt parses s, returning def when s is empty
func positiveInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errBadParam
	}
	return n, nil
}

// pathInt reads a positive integer path value
func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n < 1 {
		return 0, errBadParam
	}
	return n, nil
}

func queryBool(q url.Values, name string) bool {
	return strings.EqualFold(q.Get(name), "true")
}

// verseOptions reads the verse listing options, applying the defaults
func verseOptions(q url.Values) (domain.VerseOptions, error) {
	opts := domain.DefaultVerseOptions()
	if v := q.Get("translations"); v != "" {
		opts.Translations = v
	}
	if v := q.Get("audio"); v != "" {
		audio, err := strconv.Atoi(v)
		if err != nil || audio < 0 {
			return opts, errBadParam
		}
		opts.Audio = audio
	}
	opts.Words = queryBool(q, "words")
	opts.Tajweed = queryBool(q, "tajweed")
	opts.Tafsirs = q.Get("tafsirs")

	var err error
	if opts.Page, err = positiveInt(q.Get("page"), domain.DefaultPage); err != nil {
		return opts, err
	}
	if opts.PerPage, err = positiveInt(q.Get("per_page"), domain.DefaultPerPage); err != nil {
		return opts, err
	}
	return opts, nil
}

// handleChapters godoc
// @Summary      List chapters
// @Description  All 114 chapters, cached per language for 24 hours
// @Tags         Content
// @Produce      json
// @Param        language  query  string  false  "Language"  default(en)
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /chapters/ [get]
func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	data, err := s.contentService.Chapters(r.Context(), r.URL.Query().Get("language"))
	s.writeContent(w, r, data, err)
}

// handleChapter godoc
// @Summary      Chapter metadata
// @Tags         Content
// @Produce      json
// @Param        id        path   int     true   "Chapter number"
// @Param        language  query  string  false  "Language"  default(en)
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /chapters/{id}/ [get]
func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	data, err := s.contentService.Chapter(r.Context(), id, r.URL.Query().Get("language"))
	s.writeContent(w, r, data, err)
}

// handleVersesByChapter godoc
// @Summary      Verses of a chapter
// @Description  With tajweed=true the tajweed-annotated text is merged in when available
// @Tags         Content
// @Produce      json
// @Param        id            path   int     true   "Chapter number"
// @Param        translations  query  string  false  "Translation ids"  default(131)
// @Param        audio         query  int     false  "Recitation id"    default(1)
// @Param        words         query  bool    false  "Word by word"
// @Param        tafsirs       query  string  false  "Tafsir ids"
// @Param        page          query  int     false  "Page"             default(1)
// @Param        per_page      query  int     false  "Page size"        default(20)
// @Param        tajweed       query  bool    false  "Merge tajweed text"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /chapters/{id}/verses/ [get]
func (s *Server) handleVersesByChapter(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	opts, err := verseOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameter")
		return
	}
	data, err := s.contentService.VersesByChapter(r.Context(), id, opts)
	s.writeContent(w, r, data, err)
}

// handleJuzs godoc
// @Summary      List juzs
// @Tags         Content
// @Produce      json
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /juzs/ [get]
func (s *Server) handleJuzs(w http.ResponseWriter, r *http.Request) {
	data, err := s.contentService.Juzs(r.Context())
	s.writeContent(w, r, data, err)
}

// handleVersesByJuz godoc
// @Summary      Verses of a juz
// @Tags         Content
// @Produce      json
// @Param        number        path   int     true   "Juz number"
// @Param        translations  query  string  false  "Translation ids"  default(131)
// @Param        page          query  int     false  "Page"             default(1)
// @Param        per_page      query  int     false  "Page size"        default(20)
// @Param        tajweed       query  bool    false  "Merge tajweed text"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /juzs/{number}/verses/ [get]
func (s *Server) handleVersesByJuz(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "number")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid juz number")
		return
	}
	opts, err := verseOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameter")
		return
	}
	data, err := s.contentService.VersesByJuz(r.Context(), n, opts)
	s.writeContent(w, r, data, err)
}

// handleVersesByPage godoc
// @Summary      Verses of a mushaf page
// @Tags         Content
// @Produce      json
// @Param        number        path   int     true   "Page number (1-604)"
// @Param        translations  query  string  false  "Translation ids"  default(131)
// @Param        per_page      query  int     false  "Page size"        default(20)
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /pages/{number}/verses/ [get]
func (s *Server) handleVersesByPage(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "number")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page number")
		return
	}
	opts, err := verseOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameter")
		return
	}
	data, err := s.contentService.VersesByPage(r.Context(), n, opts)
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "page number must be between 1 and 604")
		return
	}
	s.writeContent(w, r, data, err)
}

// handleVerseByKey godoc
// @Summary      One verse
// @Tags         Content
// @Produce      json
// @Param        key           path   string  true   "Verse key, e.g. 2:255"
// @Param        translations  query  string  false  "Translation ids"  default(131)
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /verses/by_key/{key}/ [get]
func (s *Server) handleVerseByKey(w http.ResponseWriter, r *http.Request) {
	data, err := s.contentService.VerseByKey(r.Context(), r.PathValue("key"), r.URL.Query().Get("translations"))
	s.writeContent(w, r, data, err)
}

// handleTranslations godoc
// @Summary      Available translations
// @Tags         Content
// @Produce      json
// @Param        language  query  string  false  "Language"  default(en)
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /translations/ [get]
func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	data, err := s.contentService.Translations(r.Context(), r.URL.Query().Get("language"))
	s.writeContent(w, r, data, err)
}

// handleRecitations godoc
// @Summary      Available reciters
// @Tags         Content
// @Produce      json
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /recitations/ [get]
func (s *Server) handleRecitations(w http.ResponseWriter, r *http.Request) {
	data, err := s.contentService.Recitations(r.Context())
	s.writeContent(w, r, data, err)
}

// handleTafsirs godoc
// @Summary      Available tafsirs
// @Tags         Content
// @Produce      json
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /tafsirs/ [get]
func (s *Server) handleTafsirs(w http.ResponseWriter, r *http.Request) {
	data, err := s.contentService.Tafsirs(r.Context())
	s.writeContent(w, r, data, err)
}

// handleTafsir godoc
// @Summary      Tafsir for a verse or chapter
// @Description  Served by Quran Foundation when configured, otherwise by quran.com
// @Tags         Content
// @Produce      json
// @Param        id              path   int     true   "Tafsir id"
// @Param        verse_key       query  string  false  "Verse key"
// @Param        chapter_number  query  int     false  "Chapter number"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /tafsirs/{id}/ [get]
func (s *Server) handleTafsir(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tafsir id")
		return
	}

	q := r.URL.Query()
	query := domain.TafsirQuery{VerseKey: strings.TrimSpace(q.Get("verse_key"))}
	if query.ChapterNumber, err = positiveInt(q.Get("chapter_number"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid chapter_number")
		return
	}
	if query.IsEmpty() {
		writeError(w, http.StatusBadRequest, "verse_key or chapter_number required")
		return
	}

	data, err := s.contentService.Tafsir(r.Context(), id, query)
	s.writeContent(w, r, data, err)
}

// handleSearch godoc
// @Summary      Full-text search
// @Description  A blank query returns an empty result without calling upstream
// @Tags         Content
// @Produce      json
// @Param        q         query  string  false  "Query"
// @Param        page      query  int     false  "Page"       default(1)
// @Param        size      query  int     false  "Page size"  default(20)
// @Param        language  query  string  false  "Language"   default(en)
// @Success      200
// @Failure      502  {object}  ErrorResponse
// @Router       /search/ [get]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := positiveInt(q.Get("page"), domain.DefaultPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := positiveInt(q.Get("size"), domain.DefaultSearchSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid size")
		return
	}

	data, err := s.contentService.Search(r.Context(), domain.SearchQuery{
		Query:    q.Get("q"),
		Page:     page,
		Size:     size,
		Language: q.Get("language"),
	})
	s.writeContent(w, r, data, err)
}
