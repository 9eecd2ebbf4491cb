package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"serpco/internal/cache"
	"serpco/internal/config"
	"serpco/internal/handlers"
	"serpco/internal/middleware"
	"serpco/internal/router"
	"serpco/internal/seed"
	"serpco/internal/service"
	"serpco/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, reg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer reg.Close()

	// Populate an empty development database with the built-in sample.
	if cfg.IsDev() {
		if err := seedSample(ctx, db); err != nil {
			return err
		}
	}

	health := handlers.NewHealth().Require("database", db.PingContext)

	// The response cache is optional; the API serves straight from
	// PostgreSQL when Valkey is disabled or unreachable.
	var rc *cache.ResponseCache
	if cfg.CacheEnabled {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, response cache disabled", "error", err)
		} else {
			defer client.Close()
			rc = cache.NewResponseCache(cache.NewValkeyStore(client))
			health.Optional("cache", valkeyCheck(client))
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		defer limiter.Stop()
	}

	svc := service.New(service.StoreRepositories(db))
	r := router.New(router.Deps{
		API:     handlers.NewAPI(svc),
		Health:  health,
		Cache:   rc,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

func valkeyCheck(client *redis.Client) handlers.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// seedSample loads the embedded sample when no category exists yet.
func seedSample(ctx context.Context, db *sql.DB) error {
	n, err := store.NewCategoryStore(db).Count(ctx)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}
	d, err := seed.Sample()
	if err != nil {
		return fmt.Errorf("load sample dataset: %w", err)
	}
	if _, err := seed.New(db).Run(ctx, d); err != nil {
		return fmt.Errorf("seed sample dataset: %w", err)
	}
	return nil
}

// purgeCache drops cached responses after the data changed. A cache that
// is disabled or unreachable has nothing to purge.
func purgeCache(ctx context.Context, cfg *config.Config) {
	if !cfg.CacheEnabled {
		return
	}
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, cache not purged", "error", err)
		return
	}
	defer client.Close()

	n, err := cache.NewResponseCache(cache.NewValkeyStore(client)).Purge(ctx)
	if err != nil {
		slog.Warn("cache purge failed", "error", err)
		return
	}
	slog.Info("response cache purged", "keys", n)
}
