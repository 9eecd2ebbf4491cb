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

// PostStore manages blog and glossary posts.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// PostFilter selects posts for a listing. An empty Type matches both kinds.
type PostFilter struct {
	Type         models.PostType
	CategorySlug string
	TagSlug      string
	Search       string
	Sort         models.SortOption
	Page
}

const postColumns = `id, slug, name, type, image, author, excerpt, featured_image,
	content, video_id, created_at, updated_at`

const postSummaryColumns = `p.id, p.slug, p.name, p.type, p.image, p.author, p.excerpt, p.featured_image, p.created_at, p.updated_at`

// scanPost scans a row into a Post struct.
func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Type, &p.Image, &p.Author, &p.Excerpt,
		&p.FeaturedImage, &p.Content, &p.VideoID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPostSummary(row scanner) (models.PostSummary, error) {
	var p models.PostSummary
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Type, &p.Image, &p.Author, &p.Excerpt,
		&p.FeaturedImage, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// List returns one page of posts matching f, plus the total match count.
func (s *PostStore) List(ctx context.Context, f PostFilter) (*ListResult[models.PostSummary], error) {
	spec := query.Select("posts p", postSummaryColumns).CountKey("p.id")
	if f.Type != "" {
		spec = spec.Where("p.type = ?", string(f.Type))
	}
	if f.CategorySlug != "" {
		spec = spec.
			Join("INNER JOIN post_categories pc ON pc.post_id = p.id").
			Join("INNER JOIN categories cat ON cat.id = pc.category_id").
			Where("cat.slug = ?", f.CategorySlug).
			Where("cat.entity_type = ?", models.EntityTypePost)
	}
	if f.TagSlug != "" {
		spec = spec.
			Join("INNER JOIN post_tags pt ON pt.post_id = p.id").
			Join("INNER JOIN tags t ON t.id = pt.tag_id").
			Where("t.slug = ?", f.TagSlug)
	}
	if spec.HasJoins() {
		spec = spec.Distinct()
	}
	spec = withSearch(spec, "p.name", f.Search).
		OrderBy(orderBy("p", f.Sort)...).
		Page(f.Limit, f.Offset)

	return runList(ctx, s.db, "posts", spec, scanPostSummary)
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return timed("posts", "find", func() (*models.Post, error) {
		row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
		p, err := scanPost(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find post by slug: %w", err)
		}
		return p, nil
	})
}

// ListRelated returns the posts postID points to as related, by name.
func (s *PostStore) ListRelated(ctx context.Context, postID int64) ([]models.PostSummary, error) {
	return s.listVia(ctx, "related",
		"INNER JOIN related_posts rp ON rp.related_post_id = p.id",
		"rp.post_id = ?", postID, 0, "p.name ASC")
}

// ListByCategoryID returns up to limit posts in a category, newest first.
func (s *PostStore) ListByCategoryID(ctx context.Context, categoryID int64, limit int) ([]models.PostSummary, error) {
	return s.listVia(ctx, "by_category",
		"INNER JOIN post_categories pc ON pc.post_id = p.id",
		"pc.category_id = ?", categoryID, limit, orderBy("p", models.SortRecent)...)
}

// ListByTagID returns up to limit posts carrying a tag, newest first.
func (s *PostStore) ListByTagID(ctx context.Context, tagID int64, limit int) ([]models.PostSummary, error) {
	return s.listVia(ctx, "by_tag",
		"INNER JOIN post_tags pt ON pt.post_id = p.id",
		"pt.tag_id = ?", tagID, limit, orderBy("p", models.SortRecent)...)
}

func (s *PostStore) listVia(ctx context.Context, op, join, cond string, id int64, limit int, order ...string) ([]models.PostSummary, error) {
	return timed("posts", op, func() ([]models.PostSummary, error) {
		q, args := query.Select("posts p", postSummaryColumns).
			Join(join).
			Where(cond, id).
			OrderBy(order...).
			Page(limit, 0).
			SQL()
		items, err := queryAll(ctx, s.db, q, args, scanPostSummary)
		if err != nil {
			return nil, fmt.Errorf("list posts %s: %w", op, err)
		}
		return items, nil
	})
}

// ListSitemap returns slug and last-modified time for every post.
func (s *PostStore) ListSitemap(ctx context.Context) ([]models.SitemapEntry, error) {
	return timed("posts", "sitemap", func() ([]models.SitemapEntry, error) {
		entries, err := queryAll(ctx, s.db, `SELECT slug, updated_at FROM posts ORDER BY slug`, nil, scanSitemapEntry)
		if err != nil {
			return nil, fmt.Errorf("list post sitemap: %w", err)
		}
		return entries, nil
	})
}

// Upsert inserts p unless a post with the same slug exists, and returns the
// id of the stored row.
func (s *PostStore) Upsert(ctx context.Context, p *models.Post) (id int64, created bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO posts (slug, name, type, image, author, excerpt, featured_image,
			content, video_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id`,
		p.Slug, p.Name, string(p.Type), p.Image, p.Author, p.Excerpt, p.FeaturedImage,
		p.Content, p.VideoID,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("upsert post: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM posts WHERE slug = $1`, p.Slug).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("resolve post id: %w", err)
	}
	return id, false, nil
}

// IDsBySlugs maps post slugs to ids.
func (s *PostStore) IDsBySlugs(ctx context.Context, slugs []string) (map[string]int64, error) {
	ids, err := idsBySlugs(ctx, s.db, "posts", slugs, "")
	if err != nil {
		return nil, fmt.Errorf("resolve post slugs: %w", err)
	}
	return ids, nil
}

// LinkCategories attaches categories to a post.
func (s *PostStore) LinkCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	return link(ctx, s.db, "post_categories", "post_id", "category_id", postID, categoryIDs)
}

// LinkTags attaches tags to a post.
func (s *PostStore) LinkTags(ctx context.Context, postID int64, tagIDs []int64) error {
	return link(ctx, s.db, "post_tags", "post_id", "tag_id", postID, tagIDs)
}

// LinkRelated records that postID points to each of relatedIDs.
func (s *PostStore) LinkRelated(ctx context.Context, postID int64, relatedIDs []int64) error {
	others := make([]int64, 0, len(relatedIDs))
	for _, id := range relatedIDs {
		if id != postID {
			others = append(others, id)
		}
	}
	return link(ctx, s.db, "related_posts", "post_id", "related_post_id", postID, others)
}
