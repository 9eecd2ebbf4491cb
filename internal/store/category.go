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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// CategoryFilter selects categories for a listing.
type CategoryFilter struct {
	EntityType string
	Search     string
	Sort       models.SortOption
	Page
}

const categoryColumns = `id, entity_type, slug, name, faqs, buying_guide, created_at, updated_at`

const categorySummaryColumns = `c.id, c.slug, c.name, c.entity_type, c.created_at, c.updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.EntityType, &c.Slug, &c.Name,
		&c.FAQs, &c.BuyingGuide, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCategorySummary(row scanner) (models.CategorySummary, error) {
	var c models.CategorySummary
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.EntityType, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanCategoryRef(row scanner) (models.CategoryRef, error) {
	var c models.CategoryRef
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.EntityType)
	return c, err
}

// List returns one page of categories matching f, plus the total match count.
func (s *CategoryStore) List(ctx context.Context, f CategoryFilter) (*ListResult[models.CategorySummary], error) {
	spec := query.Select("categories c", categorySummaryColumns).CountKey("c.id")
	if f.EntityType != "" {
		spec = spec.Where("c.entity_type = ?", f.EntityType)
	}
	spec = withSearch(spec, "c.name", f.Search).
		OrderBy(orderBy("c", f.Sort)...).
		Page(f.Limit, f.Offset)

	return runList(ctx, s.db, "categories", spec, scanCategorySummary)
}

// FindBySlug retrieves a category by its entity type and slug. Returns nil
// if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, entityType, slug string) (*models.Category, error) {
	return timed("categories", "find", func() (*models.Category, error) {
		row := s.db.QueryRowContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE entity_type = $1 AND slug = $2`,
			entityType, slug)
		c, err := scanCategory(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find category by slug: %w", err)
		}
		return c, nil
	})
}

// ListForCompany returns the categories a company belongs to, by name.
func (s *CategoryStore) ListForCompany(ctx context.Context, companyID int64) ([]models.CategoryRef, error) {
	return s.listRefs(ctx, "company_categories", "company_id", companyID)
}

// ListForPost returns the categories a post belongs to, by name.
func (s *CategoryStore) ListForPost(ctx context.Context, postID int64) ([]models.CategoryRef, error) {
	return s.listRefs(ctx, "post_categories", "post_id", postID)
}

func (s *CategoryStore) listRefs(ctx context.Context, junction, owner string, id int64) ([]models.CategoryRef, error) {
	return timed("categories", "memberships", func() ([]models.CategoryRef, error) {
		q, args := query.Select("categories c", "c.id", "c.name", "c.slug", "c.entity_type").
			Join("INNER JOIN "+junction+" j ON j.category_id = c.id").
			Where("j."+owner+" = ?", id).
			OrderBy("c.name ASC").
			SQL()
		refs, err := queryAll(ctx, s.db, q, args, scanCategoryRef)
		if err != nil {
			return nil, fmt.Errorf("list categories for %s: %w", owner, err)
		}
		return refs, nil
	})
}

// ListForPosts returns the categories of each of the given posts, keyed by
// post id, in one query.
func (s *CategoryStore) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]models.CategoryRef, error) {
	out := make(map[int64][]models.CategoryRef, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	return timed("categories", "memberships_batch", func() (map[int64][]models.CategoryRef, error) {
		q, args := query.Select("categories c", "pc.post_id", "c.id", "c.name", "c.slug", "c.entity_type").
			Join("INNER JOIN post_categories pc ON pc.category_id = c.id").
			Where("pc.post_id IN ("+placeholders(len(postIDs))+")", int64Args(postIDs)...).
			OrderBy("pc.post_id", "c.name ASC").
			SQL()
		rows, err := s.db.QueryContext(ctx, q, args...)
		if err != nil {
			return nil, fmt.Errorf("list categories for posts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				postID int64
				c      models.CategoryRef
			)
			if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &c.EntityType); err != nil {
				return nil, fmt.Errorf("scan post category: %w", err)
			}
			out[postID] = append(out[postID], c)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("list categories for posts: %w", err)
		}
		return out, nil
	})
}

// ListSitemap returns slug and last-modified time for every category of
// the given entity type.
func (s *CategoryStore) ListSitemap(ctx context.Context, entityType string) ([]models.SitemapEntry, error) {
	return timed("categories", "sitemap", func() ([]models.SitemapEntry, error) {
		entries, err := queryAll(ctx, s.db,
			`SELECT slug, updated_at FROM categories WHERE entity_type = $1 ORDER BY slug`,
			[]any{entityType}, scanSitemapEntry)
		if err != nil {
			return nil, fmt.Errorf("list category sitemap: %w", err)
		}
		return entries, nil
	})
}

// Upsert inserts c unless a category with the same entity type and slug
// exists, and returns the id of the stored row. created reports whether a
// row was inserted.
func (s *CategoryStore) Upsert(ctx context.Context, c *models.Category) (id int64, created bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO categories (entity_type, slug, name, faqs, buying_guide)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entity_type, slug) DO NOTHING
		RETURNING id`,
		c.EntityType, c.Slug, c.Name, c.FAQs, c.BuyingGuide,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("upsert category: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE entity_type = $1 AND slug = $2`,
		c.EntityType, c.Slug,
	).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("resolve category id: %w", err)
	}
	return id, false, nil
}

// IDsBySlugs maps the given slugs of one entity type to category ids.
func (s *CategoryStore) IDsBySlugs(ctx context.Context, entityType string, slugs []string) (map[string]int64, error) {
	ids, err := idsBySlugs(ctx, s.db, "categories", slugs, "entity_type = ?", entityType)
	if err != nil {
		return nil, fmt.Errorf("resolve category slugs: %w", err)
	}
	return ids, nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func scanSitemapEntry(row scanner) (models.SitemapEntry, error) {
	var e models.SitemapEntry
	err := row.Scan(&e.Slug, &e.UpdatedAt)
	return e, err
}
