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

// CompanyStore manages companies and their associations.
type CompanyStore struct {
	db *sql.DB
}

// NewCompanyStore returns a new CompanyStore.
func NewCompanyStore(db *sql.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

// CompanyFilter selects companies for a listing. Category and tag filters
// combine with AND.
type CompanyFilter struct {
	CategorySlug string
	TagSlug      string
	Search       string
	Sort         models.SortOption
	Page
}

const companyColumns = `id, slug, name, logo, domain, excerpt, one_liner, serply_link,
	content, video_id, screenshots, created_at, updated_at`

const companySummaryColumns = `c.id, c.slug, c.name, c.logo, c.excerpt, c.domain, c.one_liner, c.created_at, c.updated_at`

// scanCompany scans a row into a Company struct.
func scanCompany(row scanner) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.Slug, &c.Name, &c.Logo, &c.Domain, &c.Excerpt, &c.OneLiner,
		&c.SerplyLink, &c.Content, &c.VideoID, &c.Screenshots,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCompanySummary(row scanner) (models.CompanySummary, error) {
	var c models.CompanySummary
	err := row.Scan(
		&c.ID, &c.Slug, &c.Name, &c.Logo, &c.Excerpt, &c.Domain, &c.OneLiner,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// List returns one page of companies matching f, plus the total match count.
// A company linked to several matching taxonomy rows is returned once.
func (s *CompanyStore) List(ctx context.Context, f CompanyFilter) (*ListResult[models.CompanySummary], error) {
	spec := query.Select("companies c", companySummaryColumns).CountKey("c.id")
	if f.CategorySlug != "" {
		spec = spec.
			Join("INNER JOIN company_categories cc ON cc.company_id = c.id").
			Join("INNER JOIN categories cat ON cat.id = cc.category_id").
			Where("cat.slug = ?", f.CategorySlug).
			Where("cat.entity_type = ?", models.EntityTypeCompany)
	}
	if f.TagSlug != "" {
		spec = spec.
			Join("INNER JOIN company_tags ct ON ct.company_id = c.id").
			Join("INNER JOIN tags t ON t.id = ct.tag_id").
			Where("t.slug = ?", f.TagSlug)
	}
	if spec.HasJoins() {
		spec = spec.Distinct()
	}
	spec = withSearch(spec, "c.name", f.Search).
		OrderBy(orderBy("c", f.Sort)...).
		Page(f.Limit, f.Offset)

	return runList(ctx, s.db, "companies", spec, scanCompanySummary)
}

// FindBySlug retrieves a company by slug. Returns nil if not found.
func (s *CompanyStore) FindBySlug(ctx context.Context, slug string) (*models.Company, error) {
	return timed("companies", "find", func() (*models.Company, error) {
		row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug)
		c, err := scanCompany(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find company by slug: %w", err)
		}
		return c, nil
	})
}

// ListAlternatives returns the companies suggested as alternatives to
// companyID, by name.
func (s *CompanyStore) ListAlternatives(ctx context.Context, companyID int64) ([]models.CompanySummary, error) {
	return s.listVia(ctx, "alternatives",
		"INNER JOIN company_alternatives ca ON ca.alternative_id = c.id",
		"ca.company_id = ?", companyID, 0)
}

// ListByCategoryID returns up to limit companies in a category, by name.
func (s *CompanyStore) ListByCategoryID(ctx context.Context, categoryID int64, limit int) ([]models.CompanySummary, error) {
	return s.listVia(ctx, "by_category",
		"INNER JOIN company_categories cc ON cc.company_id = c.id",
		"cc.category_id = ?", categoryID, limit)
}

// ListByTagID returns up to limit companies carrying a tag, by name.
func (s *CompanyStore) ListByTagID(ctx context.Context, tagID int64, limit int) ([]models.CompanySummary, error) {
	return s.listVia(ctx, "by_tag",
		"INNER JOIN company_tags ct ON ct.company_id = c.id",
		"ct.tag_id = ?", tagID, limit)
}

func (s *CompanyStore) listVia(ctx context.Context, op, join, cond string, id int64, limit int) ([]models.CompanySummary, error) {
	return timed("companies", op, func() ([]models.CompanySummary, error) {
		q, args := query.Select("companies c", companySummaryColumns).
			Join(join).
			Where(cond, id).
			OrderBy("c.name ASC").
			Page(limit, 0).
			SQL()
		items, err := queryAll(ctx, s.db, q, args, scanCompanySummary)
		if err != nil {
			return nil, fmt.Errorf("list companies %s: %w", op, err)
		}
		return items, nil
	})
}

// ListSitemap returns slug and last-modified time for every company.
func (s *CompanyStore) ListSitemap(ctx context.Context) ([]models.SitemapEntry, error) {
	return timed("companies", "sitemap", func() ([]models.SitemapEntry, error) {
		entries, err := queryAll(ctx, s.db, `SELECT slug, updated_at FROM companies ORDER BY slug`, nil, scanSitemapEntry)
		if err != nil {
			return nil, fmt.Errorf("list company sitemap: %w", err)
		}
		return entries, nil
	})
}

// Upsert inserts c unless a company with the same slug exists, and returns
// the id of the stored row.
func (s *CompanyStore) Upsert(ctx context.Context, c *models.Company) (id int64, created bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO companies (slug, name, logo, domain, excerpt, one_liner, serply_link,
			content, video_id, screenshots)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (slug) DO NOTHING
		RETURNING id`,
		c.Slug, c.Name, c.Logo, c.Domain, c.Excerpt, c.OneLiner, c.SerplyLink,
		c.Content, c.VideoID, c.Screenshots,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("upsert company: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM companies WHERE slug = $1`, c.Slug).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("resolve company id: %w", err)
	}
	return id, false, nil
}

// IDsByDomains maps company domains to ids. Used to resolve alternatives,
// which the source data references by domain.
func (s *CompanyStore) IDsByDomains(ctx context.Context, domains []string) (map[string]int64, error) {
	out := make(map[string]int64, len(domains))
	if len(domains) == 0 {
		return out, nil
	}
	args := make([]any, len(domains))
	for i, d := range domains {
		args[i] = d
	}
	q, qargs := query.Select("companies", "id", "domain").
		Where("domain IN ("+placeholders(len(domains))+")", args...).
		OrderBy("id").
		SQL()
	rows, err := s.db.QueryContext(ctx, q, qargs...)
	if err != nil {
		return nil, fmt.Errorf("resolve company domains: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id     int64
			domain string
		)
		if err := rows.Scan(&id, &domain); err != nil {
			return nil, fmt.Errorf("scan company domain: %w", err)
		}
		// First company wins when a domain is shared.
		if _, ok := out[domain]; !ok {
			out[domain] = id
		}
	}
	return out, rows.Err()
}

// LinkCategories attaches categories to a company.
func (s *CompanyStore) LinkCategories(ctx context.Context, companyID int64, categoryIDs []int64) error {
	return link(ctx, s.db, "company_categories", "company_id", "category_id", companyID, categoryIDs)
}

// LinkTags attaches tags to a company.
func (s *CompanyStore) LinkTags(ctx context.Context, companyID int64, tagIDs []int64) error {
	return link(ctx, s.db, "company_tags", "company_id", "tag_id", companyID, tagIDs)
}

// LinkAlternatives records that companyID suggests each of alternativeIDs.
// Self references are skipped.
func (s *CompanyStore) LinkAlternatives(ctx context.Context, companyID int64, alternativeIDs []int64) error {
	others := make([]int64, 0, len(alternativeIDs))
	for _, id := range alternativeIDs {
		if id != companyID {
			others = append(others, id)
		}
	}
	return link(ctx, s.db, "company_alternatives", "company_id", "alternative_id", companyID, others)
}
