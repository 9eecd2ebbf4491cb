// Package database handles PostgreSQL connection management and migration
// execution using goose. Pools are shared per DSN for the life of the
// process, and migrations are embedded into the binary.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// PoolOptions tunes a connection pool. Zero values fall back to defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
)

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(dsn string) (*sql.DB, error) {
	return ConnectWithOptions(dsn, PoolOptions{})
}

// ConnectWithOptions is Connect with explicit pool settings.
func ConnectWithOptions(dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaultMaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultMaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaultConnMaxLifetime
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Verify the connection is alive.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

// Registry hands out one pool per distinct DSN. Opening a DSN that is
// already open returns the existing pool, so repeated initialization never
// leaks a second pool. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	opts    PoolOptions
	pools   map[string]*sql.DB
	connect func(string, PoolOptions) (*sql.DB, error)
}

// NewRegistry returns an empty registry that opens pools with opts.
func NewRegistry(opts PoolOptions) *Registry {
	return &Registry{
		opts:    opts,
		pools:   make(map[string]*sql.DB),
		connect: ConnectWithOptions,
	}
}

// Open returns the pool for dsn, connecting on first use. Concurrent first
// calls for the same DSN connect exactly once.
func (r *Registry) Open(dsn string) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.pools[dsn]; ok {
		return db, nil
	}
	db, err := r.connect(dsn, r.opts)
	if err != nil {
		return nil, err
	}
	r.pools[dsn] = db
	return db, nil
}

// Len returns the number of open pools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

// Close closes every pool and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for dsn, db := range r.pools {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close pool: %w", err)
		}
		delete(r.pools, dsn)
	}
	return firstErr
}

// Migrate runs all pending goose migrations from the embedded SQL files.
// Migrations are embedded at compile time so no external files are needed
// at runtime.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
