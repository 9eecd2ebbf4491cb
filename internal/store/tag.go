// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"serpco/internal/models"
	"serpco/internal/query"
)

// TagStore manages tags.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// TagFilter selects tags for a listing.
type TagFilter struct {
	Search string
	Sort   models.SortOption
	Page
}

const tagColumns = `t.id, t.slug, t.name, t.created_at, t.updated_at`

func scanTag(row scanner) (models.Tag, error) {
	var t models.Tag
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanTagRef(row scanner) (models.TagRef, error) {
	var t models.TagRef
	err := row.Scan(&t.ID, &t.Name, &t.Slug)
	return t, err
}

// List returns one page of tags matching f, plus the total match count.
func (s *TagStore) List(ctx context.Context, f TagFilter) (*ListResult[models.TagSummary], error) {
	spec := query.Select("tags t", tagColumns).CountKey("t.id")
	spec = withSearch(spec, "t.name", f.Search).
		OrderBy(orderBy("t", f.Sort)...).
		Page(f.Limit, f.Offset)

	return runList(ctx, s.db, "tags", spec, scanTag)
}

// FindBySlug retrieves a tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return timed("tags", "find", func() (*models.Tag, error) {
		row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.slug = $1`, slug)
		t, err := scanTag(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find tag by slug: %w", err)
		}
		return &t, nil
	})
}

// ListForCompany returns the tags of a company, by name.
func (s *TagStore) ListForCompany(ctx context.Context, companyID int64) ([]models.TagRef, error) {
	return s.listRefs(ctx, "company_tags", "company_id", companyID)
}

// ListForPost returns the tags of a post, by name.
func (s *TagStore) ListForPost(ctx context.Context, postID int64) ([]models.TagRef, error) {
	return s.listRefs(ctx, "post_tags", "post_id", postID)
}

func (s *TagStore) listRefs(ctx context.Context, junction, owner string, id int64) ([]models.TagRef, error) {
	return timed("tags", "memberships", func() ([]models.TagRef, error) {
		q, args := query.Select("tags t", "t.id", "t.name", "t.slug").
			Join("INNER JOIN "+junction+" j ON j.tag_id = t.id").
			Where("j."+owner+" = ?", id).
			OrderBy("t.name ASC").
			SQL()
		refs, err := queryAll(ctx, s.db, q, args, scanTagRef)
		if err != nil {
			return nil, fmt.Errorf("list tags for %s: %w", owner, err)
		}
		return refs, nil
	})
}

// Upsert inserts t unless a tag with the same slug exists, and returns the
// id of the stored row.
func (s *TagStore) Upsert(ctx context.Context, t *models.Tag) (id int64, created bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO tags (slug, name) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING RETURNING id`,
		t.Slug, t.Name,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("upsert tag: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM tags WHERE slug = $1`, t.Slug).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("resolve tag id: %w", err)
	}
	return id, false, nil
}

// IDsBySlugs maps tag slugs to ids.
func (s *TagStore) IDsBySlugs(ctx context.Context, slugs []string) (map[string]int64, error) {
	ids, err := idsBySlugs(ctx, s.db, "tags", slugs, "")
	if err != nil {
		return nil, fmt.Errorf("resolve tag slugs: %w", err)
	}
	return ids, nil
}
