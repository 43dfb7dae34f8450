package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/domain"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driving"
)

// Mock services for testing

type mockAuthService struct {
	authenticateFn  func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
	refreshTokenFn  func(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error)
	logoutFn        func(ctx context.Context, token string) error
}

func (m *mockAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *mockAuthService) RefreshToken(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
	if m.refreshTokenFn != nil {
		return m.refreshTokenFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

type mockUserService struct {
	registerFn func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (m *mockUserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

type mockBookmarkService struct {
	listFn   func(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	createFn func(ctx context.Context, userID string, req domain.CreateBookmarkRequest) (*domain.Bookmark, bool, error)
	deleteFn func(ctx context.Context, userID, verseKey string) error
}

func (m *mockBookmarkService) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookmarkService) Create(ctx context.Context, userID string, req domain.CreateBookmarkRequest) (*domain.Bookmark, bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, false, errors.New("not implemented")
}

func (m *mockBookmarkService) Delete(ctx context.Context, userID, verseKey string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, verseKey)
	}
	return nil
}

type mockContentService struct {
	chaptersFn        func(ctx context.Context, language string) (json.RawMessage, error)
	chapterFn         func(ctx context.Context, chapterID int, language string) (json.RawMessage, error)
	versesByChapterFn func(ctx context.Context, chapterID int, opts domain.VerseOptions) (json.RawMessage, error)
	versesByJuzFn     func(ctx context.Context, juzNumber int, opts domain.VerseOptions) (json.RawMessage, error)
	versesByPageFn    func(ctx context.Context, pageNumber int, opts domain.VerseOptions) (json.RawMessage, error)
	verseByKeyFn      func(ctx context.Context, verseKey, translations string) (json.RawMessage, error)
	tafsirFn          func(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error)
	searchFn          func(ctx context.Context, q domain.SearchQuery) (json.RawMessage, error)
	listFn            func(ctx context.Context, resource string) (json.RawMessage, error)
}

func (m *mockContentService) Chapters(ctx context.Context, language string) (json.RawMessage, error) {
	if m.chaptersFn != nil {
		return m.chaptersFn(ctx, language)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) Chapter(ctx context.Context, chapterID int, language string) (json.RawMessage, error) {
	if m.chapterFn != nil {
		return m.chapterFn(ctx, chapterID, language)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) VersesByChapter(ctx context.Context, chapterID int, opts domain.VerseOptions) (json.RawMessage, error) {
	if m.versesByChapterFn != nil {
		return m.versesByChapterFn(ctx, chapterID, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) VersesByJuz(ctx context.Context, juzNumber int, opts domain.VerseOptions) (json.RawMessage, error) {
	if m.versesByJuzFn != nil {
		return m.versesByJuzFn(ctx, juzNumber, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) VersesByPage(ctx context.Context, pageNumber int, opts domain.VerseOptions) (json.RawMessage, error) {
	if m.versesByPageFn != nil {
		return m.versesByPageFn(ctx, pageNumber, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) VerseByKey(ctx context.Context, verseKey, translations string) (json.RawMessage, error) {
	if m.verseByKeyFn != nil {
		return m.verseByKeyFn(ctx, verseKey, translations)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) list(ctx context.Context, resource string) (json.RawMessage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, resource)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) Juzs(ctx context.Context) (json.RawMessage, error) {
	return m.list(ctx, "juzs")
}

func (m *mockContentService) Translations(ctx context.Context, language string) (json.RawMessage, error) {
	return m.list(ctx, "translations:"+language)
}

func (m *mockContentService) Recitations(ctx context.Context) (json.RawMessage, error) {
	return m.list(ctx, "recitations")
}

func (m *mockContentService) Tafsirs(ctx context.Context) (json.RawMessage, error) {
	return m.list(ctx, "tafsirs")
}

func (m *mockContentService) Tafsir(ctx context.Context, tafsirID int, q domain.TafsirQuery) (json.RawMessage, error) {
	if m.tafsirFn != nil {
		return m.tafsirFn(ctx, tafsirID, q)
	}
	return nil, errors.New("not implemented")
}

func (m *mockContentService) Search(ctx context.Context, q domain.SearchQuery) (json.RawMessage, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, errors.New("not implemented")
}

type mockOAuthService struct {
	loginFn    func(ctx context.Context, sessionID, redirectURI string) (string, error)
	callbackFn func(ctx context.Context, sessionID string, req driving.CallbackRequest) *driving.CallbackResult
	redeemFn   func(ctx context.Context, sessionID, code string) (*domain.TokenSet, error)
	whoAmIFn   func(ctx context.Context, sessionID string) (*domain.SessionStatus, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (m *mockOAuthService) Login(ctx context.Context, sessionID, redirectURI string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, sessionID, redirectURI)
	}
	return "", errors.New("not implemented")
}

func (m *mockOAuthService) Callback(ctx context.Context, sessionID string, req driving.CallbackRequest) *driving.CallbackResult {
	if m.callbackFn != nil {
		return m.callbackFn(ctx, sessionID, req)
	}
	return &driving.CallbackResult{RedirectURL: "http://localhost:5173/?oauth_error=invalid_state", Reason: domain.RedirectInvalidState}
}

func (m *mockOAuthService) Redeem(ctx context.Context, sessionID, code string) (*domain.TokenSet, error) {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, sessionID, code)
	}
	return nil, domain.ErrInvalidOrExpiredCode
}

func (m *mockOAuthService) WhoAmI(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	if m.whoAmIFn != nil {
		return m.whoAmIFn(ctx, sessionID)
	}
	return &domain.SessionStatus{}, nil
}

func (m *mockOAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

// Test helpers

type testServices struct {
	auth     *mockAuthService
	user     *mockUserService
	bookmark *mockBookmarkService
	content  *mockContentService
	oauth    *mockOAuthService
}

func newTestServices() *testServices {
	return &testServices{
		auth:     &mockAuthService{},
		user:     &mockUserService{},
		bookmark: &mockBookmarkService{},
		content:  &mockContentService{},
		oauth:    &mockOAuthService{},
	}
}

func (ts *testServices) server(checks map[string]Pinger) *Server {
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, Services{
		Auth:     ts.auth,
		User:     ts.user,
		Bookmark: ts.bookmark,
		Content:  ts.content,
		OAuth:    ts.oauth,
	}, checks)
}

func (ts *testServices) authorize(userID string) {
	ts.auth.validateTokenFn = func(ctx context.Context, token string) (*domain.AuthContext, error) {
		if token != "valid-token" {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.AuthContext{UserID: userID, Email: "reader@example.com", SessionID: "sess-1"}, nil
	}
}

func serve(s *Server, method, target string, body []byte, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func bearer() http.Header {
	return http.Header{"Authorization": []string{"Bearer valid-token"}}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

// Health endpoints

func TestHealthHandler(t *testing.T) {
	s := newTestServices().server(nil)

	rec := serve(s, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expectedChecks map[string]string
	}{
		{
			name:           "no checks",
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{},
		},
		{
			name: "all healthy",
			checks: map[string]Pinger{
				"postgres": PingFunc(func(ctx context.Context) error { return nil }),
				"redis":    PingFunc(func(ctx context.Context) error { return nil }),
			},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name: "redis down",
			checks: map[string]Pinger{
				"postgres": PingFunc(func(ctx context.Context) error { return nil }),
				"redis":    PingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedChecks: map[string]string{"postgres": "ok", "redis": "unavailable"},
		},
		{
			name:           "nil check skipped",
			checks:         map[string]Pinger{"redis": nil},
			expectedStatus: http.StatusOK,
			expectedChecks: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServices().server(tt.checks)

			rec := serve(s, http.MethodGet, "/ready", nil, nil)
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}

			var resp ReadyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Checks) != len(tt.expectedChecks) {
				t.Errorf("expected %d checks, got %v", len(tt.expectedChecks), resp.Checks)
			}
			for name, want := range tt.expectedChecks {
				if resp.Checks[name] != want {
					t.Errorf("check %s: expected %q, got %q", name, want, resp.Checks[name])
				}
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	s := newTestServices().server(nil)

	rec := serve(s, http.MethodGet, "/version", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var resp VersionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", resp.Version)
	}
}

func TestSwaggerHandler(t *testing.T) {
	s := newTestServices().server(nil)

	rec := serve(s, http.MethodGet, "/api/docs/swagger.json", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var doc map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("swagger document is not valid JSON: %v", err)
	}
	if doc["basePath"] != "/api" {
		t.Errorf("expected basePath /api, got %v", doc["basePath"])
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/oauth/exchange/"]; !ok {
		t.Error("expected /oauth/exchange/ in swagger paths")
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"key": "value"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), `"key":"value"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "test error")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "test error" {
		t.Errorf("expected error 'test error', got %q", got)
	}
}

func TestWriteRaw(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRaw(rec, http.StatusOK, json.RawMessage(`{"verses":[]}`))

	if rec.Body.String() != `{"verses":[]}` {
		t.Errorf("expected body written unchanged, got %q", rec.Body.String())
	}
}

// OAuth endpoints

func TestOAuthLogin_Redirects(t *testing.T) {
	ts := newTestServices()
	var gotSession, gotRedirect string
	ts.oauth.loginFn = func(ctx context.Context, sessionID, redirectURI string) (string, error) {
		gotSession, gotRedirect = sessionID, redirectURI
		return "https://oauth2.quran.foundation/oauth2/auth?state=abc", nil
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodGet, "/api/oauth/login/", nil, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://oauth2.quran.foundation/oauth2/auth?state=abc" {
		t.Errorf("unexpected Location %q", loc)
	}
	if gotRedirect != "http://example.com/api/oauth/callback/" {
		t.Errorf("unexpected callback URL %q", gotRedirect)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sessionid" {
		t.Fatalf("expected a sessionid cookie, got %v", cookies)
	}
	if cookies[0].Value != gotSession {
		t.Errorf("expected session %q passed to service, got %q", cookies[0].Value, gotSession)
	}
	if !cookies[0].HttpOnly {
		t.Error("expected HttpOnly session cookie")
	}
}

func TestOAuthLogin_ReusesSessionCookie(t *testing.T) {
	ts := newTestServices()
	var gotSession string
	ts.oauth.loginFn = func(ctx context.Context, sessionID, redirectURI string) (string, error) {
		gotSession = sessionID
		return "https://auth.example/authorize", nil
	}
	s := ts.server(nil)

	const existing = "0123456789abcdef-session"
	rec := serve(s, http.MethodGet, "/api/oauth/login/", nil, http.Header{
		"Cookie": []string{"sessionid=" + existing},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if gotSession != existing {
		t.Errorf("expected session %q, got %q", existing, gotSession)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for an existing session")
	}
}

func TestOAuthLogin_NotConfigured(t *testing.T) {
	ts := newTestServices()
	ts.oauth.loginFn = func(ctx context.Context, sessionID, redirectURI string) (string, error) {
		return "", domain.ErrConfiguration
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodGet, "/api/oauth/login/", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != domain.MissingCredentialsMessage {
		t.Errorf("unexpected error %q", got)
	}
}

func TestOAuthCallback(t *testing.T) {
	ts := newTestServices()
	var got driving.CallbackRequest
	ts.oauth.callbackFn = func(ctx context.Context, sessionID string, req driving.CallbackRequest) *driving.CallbackResult {
		got = req
		return &driving.CallbackResult{RedirectURL: "http://localhost:5173/?code=one-time"}
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodGet, "/api/oauth/callback/?code=auth-code&state=st-1", nil, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://localhost:5173/?code=one-time" {
		t.Errorf("unexpected Location %q", loc)
	}
	if got.Code != "auth-code" || got.State != "st-1" || got.Error != "" {
		t.Errorf("unexpected callback request %+v", got)
	}
}

func TestOAuthCallback_ProviderError(t *testing.T) {
	ts := newTestServices()
	ts.oauth.callbackFn = func(ctx context.Context, sessionID string, req driving.CallbackRequest) *driving.CallbackResult {
		return &driving.CallbackResult{
			RedirectURL: "http://localhost:5173/?oauth_error=" + req.Error,
			Reason:      domain.ProviderRedirectReason(req.Error),
		}
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodGet, "/api/oauth/callback/?error=access_denied", nil, nil)
	if loc := rec.Header().Get("Location"); loc != "http://localhost:5173/?oauth_error=access_denied" {
		t.Errorf("unexpected Location %q", loc)
	}

	metrics := serve(s, http.MethodGet, "/metrics", nil, nil).Body.String()
	if !strings.Contains(metrics, `quran_bff_oauth_callbacks_total{outcome="provider_error"} 1`) {
		t.Errorf("expected provider_error callback metric, got:\n%s", metrics)
	}
}

func TestOAuthExchange(t *testing.T) {
	refresh := "refresh-1"
	ts := newTestServices()
	ts.oauth.redeemFn = func(ctx context.Context, sessionID, code string) (*domain.TokenSet, error) {
		if code != "good-code" {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		return &domain.TokenSet{AccessToken: "access-1", RefreshToken: &refresh}, nil
	}
	s := ts.server(nil)

	t.Run("valid code", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/oauth/exchange/?code=good-code", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["access_token"] != "access-1" || body["refresh_token"] != "refresh-1" {
			t.Errorf("unexpected token set %v", body)
		}
		if v, ok := body["id_token"]; !ok || v != nil {
			t.Errorf("expected id_token null, got %v", v)
		}
	})

	t.Run("invalid code", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/oauth/exchange/?code=bad", nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if got := decodeError(t, rec); got != "Invalid or expired code" {
			t.Errorf("unexpected error %q", got)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/oauth/exchange/", nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestOAuthMe(t *testing.T) {
	t.Run("not signed in", func(t *testing.T) {
		s := newTestServices().server(nil)

		rec := serve(s, http.MethodGet, "/api/oauth/me/", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"authenticated":false}` {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("signed in", func(t *testing.T) {
		ts := newTestServices()
		ts.oauth.whoAmIFn = func(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
			return &domain.SessionStatus{Authenticated: true, AccessToken: "access-1"}, nil
		}
		s := ts.server(nil)

		rec := serve(s, http.MethodGet, "/api/oauth/me/", nil, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		var status domain.SessionStatus
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !status.Authenticated || status.AccessToken != "access-1" {
			t.Errorf("unexpected status %+v", status)
		}
	})

	t.Run("store error", func(t *testing.T) {
		ts := newTestServices()
		ts.oauth.whoAmIFn = func(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
			return nil, errors.New("redis down")
		}
		s := ts.server(nil)

		rec := serve(s, http.MethodGet, "/api/oauth/me/", nil, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})
}

func TestOAuthLogout(t *testing.T) {
	for _, logoutErr := range []error{nil, errors.New("store unavailable")} {
		ts := newTestServices()
		called := false
		ts.oauth.logoutFn = func(ctx context.Context, sessionID string) error {
			called = true
			return logoutErr
		}
		s := ts.server(nil)

		rec := serve(s, http.MethodPost, "/api/oauth/logout/", nil, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if !called {
			t.Error("expected service logout to be called")
		}
	}
}

func TestOAuthLogout_RejectsGet(t *testing.T) {
	s := newTestServices().server(nil)

	rec := serve(s, http.MethodGet, "/api/oauth/logout/", nil, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestCallbackURL(t *testing.T) {
	tests := []struct {
		name     string
		header   http.Header
		expected string
	}{
		{
			name:     "plain http",
			expected: "http://api.example.com/api/oauth/callback/",
		},
		{
			name:     "forwarded proto",
			header:   http.Header{"X-Forwarded-Proto": []string{"https"}},
			expected: "https://api.example.com/api/oauth/callback/",
		},
		{
			name: "forwarded host list",
			header: http.Header{
				"X-Forwarded-Proto": []string{"HTTPS, http"},
				"X-Forwarded-Host":  []string{"quran.example.org, internal:8000"},
			},
			expected: "https://quran.example.org/api/oauth/callback/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://api.example.com/api/oauth/login/", nil)
			for k, v := range tt.header {
				req.Header[k] = v
			}
			if got := callbackURL(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// Local account endpoints

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "created",
			body:           `{"email":"reader@example.com","password":"long-enough","name":"Reader"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "invalid input",
			body:           `{"email":"nope","password":"x"}`,
			err:            domain.ErrInvalidInput,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "duplicate email",
			body:           `{"email":"reader@example.com","password":"long-enough"}`,
			err:            domain.ErrAlreadyExists,
			expectedStatus: http.StatusConflict,
			expectedError:  "email already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			ts.user.registerFn = func(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &domain.User{ID: "user-1", Email: req.Email, Name: req.Name, Active: true, PasswordHash: "secret-hash"}, nil
			}
			s := ts.server(nil)

			rec := serve(s, http.MethodPost, "/api/auth/register/", []byte(tt.body), nil)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedError != "" {
				if got := decodeError(t, rec); got != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, got)
				}
			}
			if rec.Code == http.StatusCreated && strings.Contains(rec.Body.String(), "secret-hash") {
				t.Error("password hash leaked in response")
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	ts := newTestServices()
	var got domain.LoginRequest
	ts.auth.authenticateFn = func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
		got = req
		switch req.Password {
		case "correct-password":
			return &domain.LoginResponse{
				Token:     "jwt",
				ExpiresAt: time.Now().Add(time.Hour),
				User:      &domain.UserSummary{ID: "user-1", Email: req.Email},
			}, nil
		case "disabled":
			return nil, domain.ErrUnauthorized
		default:
			return nil, domain.ErrInvalidCredentials
		}
	}
	s := ts.server(nil)

	t.Run("success", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/auth/token/",
			[]byte(`{"email":"  Reader@Example.COM ","password":"correct-password"}`),
			http.Header{"User-Agent": []string{"test-agent"}, "X-Forwarded-For": []string{"203.0.113.9, 10.0.0.1"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got.Email != "reader@example.com" {
			t.Errorf("expected normalised email, got %q", got.Email)
		}
		if got.UserAgent != "test-agent" || got.IPAddress != "203.0.113.9" {
			t.Errorf("unexpected client details %q %q", got.UserAgent, got.IPAddress)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/auth/token/", []byte(`{"email":"a@b.c","password":"wrong"}`), nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
		if got := decodeError(t, rec); got != "invalid credentials" {
			t.Errorf("unexpected error %q", got)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/auth/token/", []byte(`{"email":"a@b.c","password":"disabled"}`), nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
		if got := decodeError(t, rec); got != "account disabled" {
			t.Errorf("unexpected error %q", got)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/auth/token/", []byte(`invalid`), nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleRefresh(t *testing.T) {
	ts := newTestServices()
	ts.auth.refreshTokenFn = func(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
		if req.RefreshToken == "good" {
			return &domain.LoginResponse{Token: "new-jwt", RefreshToken: "new-refresh"}, nil
		}
		return nil, domain.ErrSessionNotFound
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodPost, "/api/auth/token/refresh/", []byte(`{"refresh_token":"good"}`), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	rec = serve(s, http.MethodPost, "/api/auth/token/refresh/", []byte(`{"refresh_token":"stale"}`), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}

	rec = serve(s, http.MethodPost, "/api/auth/token/refresh/", []byte(`invalid`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleLogout(t *testing.T) {
	ts := newTestServices()
	ts.authorize("user-1")
	var loggedOut string
	ts.auth.logoutFn = func(ctx context.Context, token string) error {
		loggedOut = token
		return nil
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodPost, "/api/auth/logout/", nil, bearer())
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if loggedOut != "valid-token" {
		t.Errorf("expected token 'valid-token' logged out, got %q", loggedOut)
	}
}

func TestHandleGetMe(t *testing.T) {
	ts := newTestServices()
	ts.authorize("user-1")
	ts.user.getFn = func(ctx context.Context, id string) (*domain.User, error) {
		if id != "user-1" {
			return nil, domain.ErrNotFound
		}
		return &domain.User{ID: id, Email: "reader@example.com", Active: true}, nil
	}
	s := ts.server(nil)

	t.Run("without token", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/auth/me/", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("with token", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/auth/me/", nil, bearer())
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var summary domain.UserSummary
		if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if summary.ID != "user-1" {
			t.Errorf("expected user-1, got %q", summary.ID)
		}
	})

	t.Run("user removed", func(t *testing.T) {
		ts.authorize("user-2")
		rec := serve(s, http.MethodGet, "/api/auth/me/", nil, bearer())
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

// Bookmark endpoints

func TestListBookmarks(t *testing.T) {
	ts := newTestServices()
	ts.authorize("user-1")
	s := ts.server(nil)

	rec := serve(s, http.MethodGet, "/api/auth/bookmarks/", nil, bearer())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %q", rec.Body.String())
	}

	ts.bookmark.listFn = func(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
		return []*domain.Bookmark{{ID: 1, UserID: userID, VerseKey: "2:255", ChapterID: 2, VerseNumber: 255}}, nil
	}
	rec = serve(s, http.MethodGet, "/api/auth/bookmarks/", nil, bearer())
	var bookmarks []domain.Bookmark
	if err := json.NewDecoder(rec.Body).Decode(&bookmarks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(bookmarks) != 1 || bookmarks[0].VerseKey != "2:255" {
		t.Errorf("unexpected bookmarks %+v", bookmarks)
	}

	rec = serve(s, http.MethodGet, "/api/auth/bookmarks/", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without token, got %d", rec.Code)
	}
}

func TestCreateBookmark(t *testing.T) {
	ts := newTestServices()
	ts.authorize("user-1")
	existing := map[string]bool{"1:1": true}
	ts.bookmark.createFn = func(ctx context.Context, userID string, req domain.CreateBookmarkRequest) (*domain.Bookmark, bool, error) {
		if err := req.Validate(); err != nil {
			return nil, false, err
		}
		b := &domain.Bookmark{ID: 7, UserID: userID, VerseKey: req.VerseKey, ChapterID: req.ChapterID, VerseNumber: req.VerseNumber}
		return b, !existing[req.VerseKey], nil
	}
	s := ts.server(nil)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"new bookmark", `{"verse_key":"2:255","chapter_id":2,"verse_number":255}`, http.StatusCreated},
		{"existing bookmark", `{"verse_key":"1:1","chapter_id":1,"verse_number":1}`, http.StatusOK},
		{"missing fields", `{"verse_key":"2:255"}`, http.StatusBadRequest},
		{"invalid JSON", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodPost, "/api/auth/bookmarks/create/", []byte(tt.body), bearer())
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestDeleteBookmark(t *testing.T) {
	ts := newTestServices()
	ts.authorize("user-1")
	var gotKey string
	ts.bookmark.deleteFn = func(ctx context.Context, userID, verseKey string) error {
		gotKey = verseKey
		if verseKey != "2:255" {
			return domain.ErrNotFound
		}
		return nil
	}
	s := ts.server(nil)

	rec := serve(s, http.MethodDelete, "/api/auth/bookmarks/2:255/", nil, bearer())
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if gotKey != "2:255" {
		t.Errorf("expected verse key 2:255, got %q", gotKey)
	}

	rec = serve(s, http.MethodDelete, "/api/auth/bookmarks/9:9/", nil, bearer())
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "Not found" {
		t.Errorf("unexpected error %q", got)
	}
}
