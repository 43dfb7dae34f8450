package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quran-bff/internal/adapters/driven/auth"
	"github.com/custodia-labs/quran-bff/internal/adapters/driven/memory"
	"github.com/custodia-labs/quran-bff/internal/adapters/driven/postgres"
	"github.com/custodia-labs/quran-bff/internal/adapters/driven/qf"
	"github.com/custodia-labs/quran-bff/internal/adapters/driven/quran"
	redisadapter "github.com/custodia-labs/quran-bff/internal/adapters/driven/redis"
	"github.com/custodia-labs/quran-bff/internal/adapters/driven/sealed"
	"github.com/custodia-labs/quran-bff/internal/adapters/driving/http"
	"github.com/custodia-labs/quran-bff/internal/config"
	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
	"github.com/custodia-labs/quran-bff/internal/core/services"
	"github.com/custodia-labs/quran-bff/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the session janitor",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	log.Printf("quran-bff %s starting", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ===== Initialize PostgreSQL =====
	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return err
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	cleaners := map[string]driven.ExpiredSessionCleaner{}

	// ===== API session store (Redis if available, otherwise PostgreSQL) =====
	var sessionStore driven.SessionStore
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		log.Println("Using Redis session store")
	} else {
		pgSessions := postgres.NewSessionStore(db)
		sessionStore = pgSessions
		cleaners["api_sessions"] = pgSessions
		log.Println("Using PostgreSQL session store")
	}

	// ===== Browser session store =====
	var webSessions driven.WebSessionStore
	switch cfg.SessionBackend {
	case config.BackendRedis:
		webSessions = redisadapter.NewWebSessionStore(redisClient, cfg.SessionTTL)
	case config.BackendMemory:
		store := memory.NewWebSessionStore(cfg.SessionTTL)
		webSessions = store
		cleaners["web_sessions"] = store
	default:
		store := postgres.NewWebSessionStore(db, cfg.SessionTTL)
		webSessions = store
		cleaners["web_sessions"] = store
	}
	if cfg.SessionEncryptionKey != nil {
		cipher, err := sealed.NewCipher(cfg.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("session encryption: %w", err)
		}
		webSessions = sealed.NewStore(webSessions, cipher)
	}
	log.Printf("Browser sessions: backend=%s sealed=%t", cfg.SessionBackend, cfg.SessionEncryptionKey != nil)

	// ===== Content cache =====
	var cache driven.Cache
	if redisClient != nil {
		cache = redisadapter.NewCache(redisClient)
	} else {
		cache = memory.NewCache()
	}

	// ===== Upstream clients =====
	quranClient, err := quran.NewClient(cfg.QuranAPIBase, nil)
	if err != nil {
		return fmt.Errorf("quran client: %w", err)
	}
	contentClient, err := qf.NewContentClient(cfg.QF, qf.NewClientTokenCache(cfg.QF, nil), nil)
	if err != nil {
		return fmt.Errorf("quran foundation client: %w", err)
	}
	if err := cfg.QF.Validate(); err != nil {
		logger.Warn("Quran Foundation sign-in disabled", "error", err)
	}
	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set; using the development secret")
	}

	// ===== Services =====
	authAdapter := auth.NewAdapter(cfg.JWTSecret)
	userStore := postgres.NewUserStore(db)

	svcs := http.Services{
		Auth:     services.NewAuthService(userStore, sessionStore, authAdapter),
		User:     services.NewUserService(userStore, authAdapter),
		Bookmark: services.NewBookmarkService(postgres.NewBookmarkStore(db)),
		Content: services.NewContentService(services.ContentServiceConfig{
			Quran:       quranClient,
			Foundation:  contentClient,
			Cache:       cache,
			ChaptersTTL: cfg.ChaptersCacheTTL,
			Logger:      logger,
		}),
		OAuth: services.NewOAuthService(services.OAuthServiceConfig{
			Sessions:    webSessions,
			Provider:    qf.NewOAuthClient(cfg.QF, nil),
			QF:          cfg.QF,
			FrontendURL: cfg.FrontendURL,
			Logger:      logger,
		}),
	}

	// ===== Janitor =====
	janitor := worker.NewJanitor(worker.JanitorConfig{
		Cleaners: cleaners,
		Interval: cfg.JanitorInterval,
		Logger:   logger,
	})
	janitor.Start(ctx)
	defer janitor.Stop()

	// ===== HTTP server =====
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checks := map[string]http.Pinger{
		"postgres": db,
	}
	if redisClient != nil {
		checks["redis"] = http.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	serverCfg := http.DefaultConfig()
	serverCfg.Host = cfg.Host
	serverCfg.Port = cfg.Port
	serverCfg.Version = version
	serverCfg.AllowedOrigins = []string{cfg.FrontendURL}
	serverCfg.Session = http.SessionCookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
		MaxAge: cfg.SessionTTL,
	}
	serverCfg.Registry = registry
	serverCfg.Logger = logger

	server := http.NewServer(serverCfg, svcs, checks)
	return server.Run(ctx)
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	log.Println("Connecting to PostgreSQL...")
	dbCfg := postgres.DefaultConfig(cfg.Database.URL)
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
	dbCfg.ConnectAttempts = cfg.Database.ConnectAttempts

	db, err := postgres.Connect(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
