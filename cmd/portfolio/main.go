// Package main is the entry point for the portfolio catalog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/github"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/router"
	"portfolio/internal/storage"
	"portfolio/internal/store"
	"portfolio/internal/upload"
)

func main() {
	// Load configuration from the environment (and .env when present).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text elsewhere.
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	// Catalog store: PostgreSQL or in-memory.
	var catalog store.Catalog
	var db *sql.DB
	switch cfg.StoreBackend {
	case config.BackendMemory:
		slog.Warn("using in-memory catalog store, contents are lost on restart")
		catalog = store.NewMemoryStore()
	default:
		db, err = database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		catalog = store.NewCatalogStore(db)
	}

	// Catalog list cache in Valkey (optional).
	var valkeyClient *redis.Client
	if cfg.CacheEnabled() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()

		cc := cache.NewCatalogCache(catalog, valkeyClient, cfg.CatalogCacheTTL)
		if db != nil {
			cc = cc.WithAuditLog(store.NewCacheLogStore(db))
		}
		// Lists cached by a previous process may predate this one's writes.
		cc.InvalidateAll(context.Background())
		catalog = cc
		slog.Info("catalog cache enabled", "ttl", cfg.CatalogCacheTTL.String())
	}

	// Seed demo data in development (no-op if categories already exist).
	if cfg.IsDev() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := store.Seed(ctx, catalog)
		cancel()
		if err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	// Upload side channels. Each is optional; a nil backend answers
	// not_configured. Typed nils must not leak into the interfaces.
	var presigner upload.Presigner
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		presigner = storageClient
		slog.Info("s3 storage configured", "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, icon uploads disabled")
	}

	var committer upload.Committer
	githubClient, err := github.New(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubBranch, cfg.GitHubAPIURL)
	if err != nil {
		slog.Error("failed to initialize github client", "error", err)
		os.Exit(1)
	}
	if githubClient != nil {
		committer = githubClient
		slog.Info("github commits configured",
			"repo", cfg.GitHubOwner+"/"+cfg.GitHubRepo,
			"branch", githubClient.Branch(),
		)
	} else {
		slog.Warn("github not configured, repository commits disabled")
	}

	uploadService := upload.NewService(presigner, committer, cfg.GitHubPathPrefix)

	uploadLimiter := middleware.NewRateLimiter(cfg.UploadRateLimit, cfg.UploadRateWindow)
	defer uploadLimiter.Stop()

	if cfg.AdminKeyHash == "" {
		slog.Warn("ADMIN_KEY_HASH not set, catalog writes are unauthenticated")
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(handlers.NewCatalog(catalog), handlers.NewUploads(uploadService), router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		AdminKeyHash:  cfg.AdminKeyHash,
		UploadLimiter: uploadLimiter,
		Metrics:       cfg.Metrics,
	})

	// WriteTimeout covers the GitHub commit round trip.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
