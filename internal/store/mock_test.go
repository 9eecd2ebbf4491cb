package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMock returns a sqlmock-backed *sql.DB. Expectations are matched in any
// order because listings run their two statements concurrently.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var mockTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func companySummaryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "slug", "name", "logo", "excerpt", "domain", "one_liner", "created_at", "updated_at"})
}

func postSummaryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "slug", "name", "type", "image", "author", "excerpt", "featured_image", "created_at", "updated_at"})
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}
