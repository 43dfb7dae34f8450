package quran

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	retry "github.com/appleboy/go-httpretry"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ContentAPI = (*Client)(nil)

const (
	// DefaultBaseURL is the public quran.com v4 API
	DefaultBaseURL = "https://api.quran.com/api/v4"

	// RequestTimeout bounds one upstream request
	RequestTimeout = 15 * time.Second

	maxResponseBytes = 10 << 20
)

// Client proxies the quran.com v4 API. Response bodies are returned verbatim.
type Client struct {
	baseURL string
	client  *retry.Client
}

// NewClient creates a client for baseURL. A nil httpClient gets one with RequestTimeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: RequestTimeout}
	}
	client, err := retry.NewBackgroundClient(retry.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create retry client: %w", err)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

func (c *Client) Chapters(ctx context.Context, language string) (json.RawMessage, error) {
	return c.get(ctx, "/chapters", url.Values{"language": {language}})
}

func (c *Client) Chapter(ctx context.Context, chapterID int, language string) (json.RawMessage, error) {
	return c.get(ctx, "/chapters/"+strconv.Itoa(chapterID), url.Values{"language": {language}})
}

func (c *Client) VersesByChapter(ctx context.Context, chapterID int, opts domain.VerseOptions) (json.RawMessage, error) {
	return c.get(ctx, "/verses/by_chapter/"+strconv.Itoa(chapterID), verseParams(opts, true))
}

func (c *Client) VersesByJuz(ctx context.Context, juzNumber int, opts domain.VerseOptions) (json.RawMessage, error) {
	return c.get(ctx, "/verses/by_juz/"+strconv.Itoa(juzNumber), verseParams(opts, false))
}

func (c *Client) VersesByPage(ctx context.Context, pageNumber int, opts domain.VerseOptions) (json.RawMessage, error) {
	return c.get(ctx, "/verses/by_page/"+strconv.Itoa(pageNumber), verseParams(opts, true))
}

func (c *Client) VerseByKey(ctx context.Context, verseKey string, translations string) (json.RawMessage, error) {
	return c.get(ctx, "/verses/by_key/"+url.PathEscape(verseKey), url.Values{"translations": {translations}})
}

func (c *Client) Juzs(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/juzs", nil)
}

func (c *Client) Translations(ctx context.Context, language string) (json.RawMessage, error) {
	return c.get(ctx, "/resources/translations", url.Values{"language": {language}})
}

func (c *Client) Recitations(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/resources/recitations", nil)
}

func (c *Client) Tafsirs(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/resources/tafsirs", nil)
}

func (c *Client) TafsirByVerse(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error) {
	params := url.Values{}
	if q.VerseKey != "" {
		params.Set("verse_key", q.VerseKey)
	}
	if q.ChapterNumber > 0 {
		params.Set("chapter_number", strconv.Itoa(q.ChapterNumber))
	}
	return c.get(ctx, "/quran/tafsirs/"+strconv.Itoa(tafsirID), params)
}

func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (json.RawMessage, error) {
	return c.get(ctx, "/search", url.Values{
		"q":        {q.Query},
		"page":     {strconv.Itoa(q.Page)},
		"size":     {strconv.Itoa(q.Size)},
		"language": {q.Language},
	})
}

// verseParams builds the query for verse listings. Juz listings carry no audio or words.
func verseParams(opts domain.VerseOptions, withMedia bool) url.Values {
	fields := "text_uthmani,translations"
	params := url.Values{
		"translations": {opts.Translations},
		"page":         {strconv.Itoa(opts.Page)},
		"per_page":     {strconv.Itoa(opts.PerPage)},
	}
	if withMedia {
		params.Set("audio", strconv.Itoa(opts.Audio))
		params.Set("words", strconv.FormatBool(opts.Words))
		if opts.Words {
			fields += ",words"
		}
		if opts.Tafsirs != "" {
			params.Set("tafsirs", opts.Tafsirs)
		}
	}
	params.Set("fields", fields)
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstream, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %v", domain.ErrUpstream, path, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", domain.ErrUpstream, path)
	}
	return body, nil
}
