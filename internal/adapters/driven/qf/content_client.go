package qf

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
var _ driven.FoundationContentAPI = (*ContentClient)(nil)

const (
	// ContentTimeout bounds one content API request
	ContentTimeout = 15 * time.Second

	tajweedPath = "/content/api/v4/quran/verses/uthmani_tajweed"
	tafsirPath  = "/content/api/v4/quran/tafsirs/"

	maxResponseBytes = 10 << 20
)

// tokenSource is the part of ClientTokenCache the content client needs.
type tokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// ContentClient calls the Quran Foundation content API with a client-credentials token.
type ContentClient struct {
	qf     domain.QFConfig
	tokens tokenSource
	client *retry.Client
}

// NewContentClient creates a content client. A nil httpClient gets one with ContentTimeout.
func NewContentClient(qf domain.QFConfig, tokens *ClientTokenCache, httpClient *http.Client) (*ContentClient, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: ContentTimeout}
	}
	client, err := retry.NewBackgroundClient(retry.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create retry client: %w", err)
	}
	return &ContentClient{qf: qf, tokens: tokens, client: client}, nil
}

// Available reports whether client id and secret are both configured.
func (c *ContentClient) Available() bool {
	return c.qf.HasContentCredentials()
}

// UthmaniTajweed returns verses with tajweed-annotated text for one scope.
func (c *ContentClient) UthmaniTajweed(ctx context.Context, scope domain.TajweedScope) (json.RawMessage, error) {
	params := scope.Params()
	if params == nil {
		return nil, domain.ErrInvalidInput
	}
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return c.get(ctx, tajweedPath, query)
}

// TafsirByVerse returns tafsir text for a verse key or chapter.
func (c *ContentClient) TafsirByVerse(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error) {
	if q.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}
	query := url.Values{}
	if q.VerseKey != "" {
		query.Set("verse_key", q.VerseKey)
	}
	if q.ChapterNumber > 0 {
		query.Set("chapter_number", strconv.Itoa(q.ChapterNumber))
	}
	return c.get(ctx, tafsirPath+strconv.Itoa(tafsirID), query)
}

// get performs an authenticated GET. A 401 drops the cached token and retries once.
func (c *ContentClient) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if !c.Available() {
		return nil, domain.ErrConfiguration
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	status, body, err := c.do(ctx, path, query, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.tokens.Invalidate()
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		status, body, err = c.do(ctx, path, query, token)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: quran foundation %s returned status %d", domain.ErrUpstream, path, status)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: quran foundation %s returned invalid JSON", domain.ErrUpstream, path)
	}
	return body, nil
}

func (c *ContentClient) do(ctx context.Context, path string, query url.Values, token string) (int, []byte, error) {
	endpoint := strings.TrimRight(c.qf.APIBaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-auth-token", token)
	req.Header.Set("x-client-id", c.qf.ClientID)

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}
	return resp.StatusCode, body, nil
}
