package qf

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
)

const (
	// ContentScope is requested for the client-credentials token
	ContentScope = "content"

	// TokenTimeout bounds one client-credentials request
	TokenTimeout = 10 * time.Second

	// expiryBuffer renews tokens this long before they expire
	expiryBuffer = 30 * time.Second

	// defaultTokenLifetime applies when the server omits expires_in
	defaultTokenLifetime = time.Hour
)

// ClientTokenCache holds the client-credentials access token for the content API.
// Concurrent callers that find the cache stale share one token request.
type ClientTokenCache struct {
	cfg        clientcredentials.Config
	httpClient *http.Client

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	flight singleflight.Group
	now    func() time.Time
}

// NewClientTokenCache creates an empty cache for the configured client.
func NewClientTokenCache(qf domain.QFConfig, httpClient *http.Client) *ClientTokenCache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: TokenTimeout}
	}
	return &ClientTokenCache{
		cfg: clientcredentials.Config{
			ClientID:     qf.ClientID,
			ClientSecret: qf.ClientSecret,
			TokenURL:     strings.TrimRight(qf.AuthBaseURL, "/") + tokenPath,
			Scopes:       []string{ContentScope},
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Token returns a cached token, fetching a new one when the cached token
// is missing or within expiryBuffer of expiry.
func (c *ClientTokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	v, err, _ := c.flight.Do("token", func() (any, error) {
		// Another flight may have finished between the check above and here
		if token, ok := c.cached(); ok {
			return token, nil
		}
		return c.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (c *ClientTokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

func (c *ClientTokenCache) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || !c.now().Add(expiryBuffer).Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

func (c *ClientTokenCache) fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, TokenTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.cfg.Token(ctx)
	if err != nil {
		c.Invalidate()
		return "", fmt.Errorf("client credentials token: %w", err)
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = c.now().Add(defaultTokenLifetime)
	}

	c.mu.Lock()
	c.token = token.AccessToken
	c.expiresAt = expiresAt
	c.mu.Unlock()

	return token.AccessToken, nil
}
