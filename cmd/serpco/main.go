// Package main is the entry point for the serpco directory API. The default
// command serves HTTP; migrate and seed manage the database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"serpco/internal/config"
	"serpco/internal/database"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "serpco",
		Short:         "Read API for the serpco company and content directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			setupLogger(os.Getenv("APP_ENV"))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), seedCmd())
	// Running the bare binary serves, like the container entrypoint expects.
	root.RunE = serve.RunE
	return root
}

// setupLogger installs the default structured logger: JSON in production,
// text otherwise.
func setupLogger(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if env == "production" {
		opts.Level = slog.LevelInfo
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openDatabase loads configuration, connects and migrates. The returned
// registry owns the pool.
func openDatabase() (*config.Config, *database.Registry, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	reg := database.NewRegistry(database.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	db, err := reg.Open(cfg.DSN())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		reg.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return cfg, reg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, reg, _, err := openDatabase()
			if err != nil {
				return err
			}
			defer reg.Close()
			slog.Info("migrations applied")
			return nil
		},
	}
}
