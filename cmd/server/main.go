// Package main is the entrypoint for the chartgen API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/slidewise/chartgen/internal/api"
	"github.com/slidewise/chartgen/internal/api/handler"
	mw "github.com/slidewise/chartgen/internal/api/middleware"
	"github.com/slidewise/chartgen/internal/api/response"
	"github.com/slidewise/chartgen/internal/cache"
	"github.com/slidewise/chartgen/internal/config"
	"github.com/slidewise/chartgen/internal/generator"
	"github.com/slidewise/chartgen/internal/insight"
	"github.com/slidewise/chartgen/internal/jobs"
	"github.com/slidewise/chartgen/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a development convenience; absence is fine
	_ = godotenv.Load()

	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "insight_provider", cfg.Insight.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Create cache (no-op when Redis is not configured)
	var ca cache.Cache = cache.Noop{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		ca = redisCache
		slog.Info("redis connected")
	}

	// 3. Create object storage uploader
	var uploader storage.Uploader = storage.Disabled{}
	if !cfg.Storage.Disabled {
		minioUploader, err := storage.NewMinioUploader(cfg.Storage)
		if err != nil {
			return fmt.Errorf("create storage client: %w", err)
		}
		if err := minioUploader.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}
		uploader = minioUploader
		slog.Info("object storage ready", "bucket", cfg.Storage.Bucket)
	}

	// 4. Create insight provider and service
	provider, err := insight.NewProvider(cfg.Insight)
	if err != nil {
		return fmt.Errorf("create insight provider: %w", err)
	}
	insights := insight.NewService(provider, ca, cfg.Insight.Timeout)
	slog.Info("insight provider initialized", "provider", provider.Name())

	// 5. Create job registry and start the cleanup sweeper
	registry := jobs.NewRegistry(cfg.Jobs.MaxJobs)
	go registry.RunSweeper(ctx, cfg.Jobs.SweepInterval, cfg.Jobs.Retention)

	// 6. Create generator service
	gen := generator.NewService(registry, insights, uploader)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(ca, 60),

		HealthHandler:     healthHandler(registry, ca, uploader),
		SubmitJobHandler:  handler.NewSubmitJobHandler(gen),
		PollJobHandler:    handler.NewPollJobHandler(registry),
		GenerateHandler:   handler.NewGenerateHandler(gen),
		BatchHandler:      handler.NewBatchHandler(gen),
		ListChartTypes:    handler.ListChartTypes,
		ListAnalyticsType: handler.ListAnalyticsTypes,
		ListLayouts:       handler.ListLayouts,
		ListThemes:        handler.ListThemes,
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks cache and storage connectivity and reports job counts.
func healthHandler(registry *jobs.Registry, ca cache.Cache, uploader storage.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"cache":   "ok",
			"storage": "ok",
		}

		if err := ca.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}
		if err := uploader.Ping(r.Context()); err != nil {
			checks["storage"] = "degraded"
		}

		degraded := checks["cache"] != "ok" || checks["storage"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
			"jobs":     registry.Stats(),
		})
	}
}
