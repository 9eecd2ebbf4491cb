// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides read access to the content directory and the
// conflict-ignoring write primitives used by the seeder.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"serpco/internal/metrics"
	"serpco/internal/models"
	"serpco/internal/query"
)

// ListResult is one page of a filtered listing plus the number of rows
// matching the filter across all pages.
type ListResult[T any] struct {
	Items []T
	Total int
}

type scanner interface{ Scan(...any) error }

// Page is the limit/offset window of a listing. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// orderBy maps a sort option to ORDER BY terms on the given table alias.
// Timestamp sorts fall back to id DESC so pages are stable when rows share
// a timestamp.
func orderBy(alias string, sort models.SortOption) []string {
	switch sort {
	case models.SortNameDesc:
		return []string{alias + ".name DESC"}
	case models.SortRecent:
		return []string{alias + ".created_at DESC", alias + ".id DESC"}
	case models.SortUpdated:
		return []string{alias + ".updated_at DESC", alias + ".id DESC"}
	default:
		return []string{alias + ".name ASC"}
	}
}

// withSearch adds a case-insensitive substring match on column when term is
// not blank.
func withSearch(spec query.Spec, column, term string) query.Spec {
	term = strings.TrimSpace(term)
	if term == "" {
		return spec
	}
	cond, arg := query.ILikeContains(column, term)
	return spec.Where(cond, arg)
}

// runList executes the listing and the count of spec concurrently.
func runList[T any](ctx context.Context, db *sql.DB, entity string, spec query.Spec, scan func(scanner) (T, error)) (*ListResult[T], error) {
	start := time.Now()

	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, args := spec.SQL()
		var err error
		items, err = queryAll(gctx, db, q, args, scan)
		return err
	})
	g.Go(func() error {
		q, args := spec.CountSQL()
		if err := db.QueryRowContext(gctx, q, args...).Scan(&total); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	err := g.Wait()
	metrics.ObserveQuery(entity, "list", start, err)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}
	return &ListResult[T]{Items: items, Total: total}, nil
}

// queryAll runs q and scans every row. It never returns a nil slice on
// success.
func queryAll[T any](ctx context.Context, db *sql.DB, q string, args []any, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// timed runs fn and records its duration under entity/op.
func timed[T any](entity, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.ObserveQuery(entity, op, start, err)
	return v, err
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// idsBySlugs resolves slugs to ids in one query. Unknown slugs are absent
// from the result.
func idsBySlugs(ctx context.Context, db *sql.DB, table string, slugs []string, extra string, extraArgs ...any) (map[string]int64, error) {
	out := make(map[string]int64, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}
	args := make([]any, len(slugs))
	for i, s := range slugs {
		args[i] = s
	}

	spec := query.Select(table, "id", "slug").Where("slug IN ("+placeholders(len(slugs))+")", args...)
	if extra != "" {
		spec = spec.Where(extra, extraArgs...)
	}
	q, qargs := spec.SQL()
	rows, err := db.QueryContext(ctx, q, qargs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			slug string
		)
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, err
		}
		out[slug] = id
	}
	return out, rows.Err()
}

// link inserts junction rows, ignoring pairs that already exist.
func link(ctx context.Context, db *sql.DB, table, left, right string, id int64, others []int64) error {
	if len(others) == 0 {
		return nil
	}
	q := `INSERT INTO ` + table + ` (` + left + `, ` + right + `) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, other := range others {
		if _, err := db.ExecContext(ctx, q, id, other); err != nil {
			return fmt.Errorf("link %s %d -> %d: %w", table, id, other, err)
		}
	}
	return nil
}
