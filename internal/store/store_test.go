// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"serpco/internal/database"
	"serpco/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "serpco")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "serpco")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns prefix with a random suffix, so parallel runs against a
// shared database never collide on unique slugs.
func uniq(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// cleanRows removes rows by slug from table. Junction rows go with them.
func cleanRows(t *testing.T, db *sql.DB, table string, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM "+table+" WHERE slug = $1", slug)
	}
}

func mustCompany(t *testing.T, s *CompanyStore, slug, name string) int64 {
	t.Helper()
	id, _, err := s.Upsert(context.Background(), &models.Company{Slug: slug, Name: name})
	if err != nil {
		t.Fatalf("Upsert company %s: %v", slug, err)
	}
	return id
}

func mustCategory(t *testing.T, s *CategoryStore, entityType, slug, name string) int64 {
	t.Helper()
	id, _, err := s.Upsert(context.Background(), &models.Category{EntityType: entityType, Slug: slug, Name: name})
	if err != nil {
		t.Fatalf("Upsert category %s: %v", slug, err)
	}
	return id
}

func mustTag(t *testing.T, s *TagStore, slug, name string) int64 {
	t.Helper()
	id, _, err := s.Upsert(context.Background(), &models.Tag{Slug: slug, Name: name})
	if err != nil {
		t.Fatalf("Upsert tag %s: %v", slug, err)
	}
	return id
}

func mustPost(t *testing.T, s *PostStore, slug, name string, typ models.PostType) int64 {
	t.Helper()
	id, _, err := s.Upsert(context.Background(), &models.Post{Slug: slug, Name: name, Type: typ})
	if err != nil {
		t.Fatalf("Upsert post %s: %v", slug, err)
	}
	return id
}
