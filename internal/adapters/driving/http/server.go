package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/quran-bff/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Services are the driving ports the server exposes
type Services struct {
	Auth     driving.AuthService
	User     driving.UserService
	Bookmark driving.BookmarkService
	Content  driving.ContentService
	OAuth    driving.OAuthService
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	logger     *slog.Logger

	authService     driving.AuthService
	userService     driving.UserService
	bookmarkService driving.BookmarkService
	contentService  driving.ContentService
	oauthService    driving.OAuthService

	sessions SessionCookieConfig
	metrics  *Metrics
	gatherer prometheus.Gatherer

	// Infrastructure
	checks map[string]Pinger
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// AllowedOrigins may send credentialed cross-origin requests (the frontend)
	AllowedOrigins []string

	Session SessionCookieConfig

	// Registry receives the server metrics; a fresh registry is used when nil
	Registry *prometheus.Registry

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		Version:        "dev",
		AllowedOrigins: []string{"http://localhost:5173"},
		Session:        DefaultSessionCookieConfig(),
	}
}

// NewServer creates a new HTTP server. checks are pinged by /ready; nil entries are skipped.
func NewServer(cfg Config, services Services, checks map[string]Pinger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Session.Name == "" {
		cfg.Session = DefaultSessionCookieConfig()
	}

	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		logger:          logger,
		authService:     services.Auth,
		userService:     services.User,
		bookmarkService: services.Bookmark,
		contentService:  services.Content,
		oauthService:    services.OAuth,
		sessions:        cfg.Session,
		metrics:         NewMetrics(registry),
		gatherer:        registry,
		checks:          make(map[string]Pinger),
	}
	for name, check := range checks {
		if check != nil {
			s.checks[name] = check
		}
	}

	s.setupRoutes()

	s.handler = NewRecoveryMiddleware(logger).Handler(
		NewLoggingMiddleware(logger).Handler(
			s.metrics.Handler(
				NewCORSMiddleware(cfg.AllowedOrigins).Handler(s.router))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)
	sessionMiddleware := NewSessionMiddleware(s.sessions)

	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}
	session := func(h http.HandlerFunc) http.Handler {
		return sessionMiddleware.Handler(h)
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.Handle("GET /metrics", s.metrics.Exposition(s.gatherer))
	s.router.HandleFunc("GET /api/docs/swagger.json", s.handleSwagger)

	// Quran Foundation sign-in (browser session cookie)
	s.router.Handle("GET /api/oauth/login/{$}", session(s.handleOAuthLogin))
	s.router.Handle("GET /api/oauth/callback/{$}", session(s.handleOAuthCallback))
	s.router.Handle("GET /api/oauth/exchange/{$}", session(s.handleOAuthExchange))
	s.router.Handle("GET /api/oauth/me/{$}", session(s.handleOAuthMe))
	s.router.Handle("POST /api/oauth/logout/{$}", session(s.handleOAuthLogout))

	// Local accounts
	s.router.HandleFunc("POST /api/auth/register/{$}", s.handleRegister)
	s.router.HandleFunc("POST /api/auth/token/{$}", s.handleLogin)
	s.router.HandleFunc("POST /api/auth/token/refresh/{$}", s.handleRefresh)
	s.router.Handle("POST /api/auth/logout/{$}", authed(s.handleLogout))
	s.router.Handle("GET /api/auth/me/{$}", authed(s.handleGetMe))

	// Bookmarks
	s.router.Handle("GET /api/auth/bookmarks/{$}", authed(s.handleListBookmarks))
	s.router.Handle("POST /api/auth/bookmarks/create/{$}", authed(s.handleCreateBookmark))
	s.router.Handle("DELETE /api/auth/bookmarks/{verse_key}/{$}", authed(s.handleDeleteBookmark))

	// Content proxy (public)
	s.router.HandleFunc("GET /api/chapters/{$}", s.handleChapters)
	s.router.HandleFunc("GET /api/chapters/{id}/{$}", s.handleChapter)
	s.router.HandleFunc("GET /api/chapters/{id}/verses/{$}", s.handleVersesByChapter)
	s.router.HandleFunc("GET /api/juzs/{$}", s.handleJuzs)
	s.router.HandleFunc("GET /api/juzs/{number}/verses/{$}", s.handleVersesByJuz)
	s.router.HandleFunc("GET /api/pages/{number}/verses/{$}", s.handleVersesByPage)
	s.router.HandleFunc("GET /api/verses/by_key/{key}/{$}", s.handleVerseByKey)
	s.router.HandleFunc("GET /api/translations/{$}", s.handleTranslations)
	s.router.HandleFunc("GET /api/recitations/{$}", s.handleRecitations)
	s.router.HandleFunc("GET /api/tafsirs/{$}", s.handleTafsirs)
	s.router.HandleFunc("GET /api/tafsirs/{id}/{$}", s.handleTafsir)
	s.router.HandleFunc("GET /api/search/{$}", s.handleSearch)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
