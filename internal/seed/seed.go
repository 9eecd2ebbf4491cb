// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"serpco/internal/models"
	"serpco/internal/slug"
	"serpco/internal/store"
)

// CategoryWriter is the category storage the seeder writes to.
type CategoryWriter interface {
	Upsert(ctx context.Context, c *models.Category) (int64, bool, error)
	IDsBySlugs(ctx context.Context, entityType string, slugs []string) (map[string]int64, error)
}

// TagWriter is the tag storage the seeder writes to.
type TagWriter interface {
	Upsert(ctx context.Context, t *models.Tag) (int64, bool, error)
	IDsBySlugs(ctx context.Context, slugs []string) (map[string]int64, error)
}

// CompanyWriter is the company storage the seeder writes to.
type CompanyWriter interface {
	Upsert(ctx context.Context, c *models.Company) (int64, bool, error)
	IDsByDomains(ctx context.Context, domains []string) (map[string]int64, error)
	LinkCategories(ctx context.Context, companyID int64, categoryIDs []int64) error
	LinkTags(ctx context.Context, companyID int64, tagIDs []int64) error
	LinkAlternatives(ctx context.Context, companyID int64, alternativeIDs []int64) error
}

// PostWriter is the post storage the seeder writes to.
type PostWriter interface {
	Upsert(ctx context.Context, p *models.Post) (int64, bool, error)
	IDsBySlugs(ctx context.Context, slugs []string) (map[string]int64, error)
	LinkCategories(ctx context.Context, postID int64, categoryIDs []int64) error
	LinkTags(ctx context.Context, postID int64, tagIDs []int64) error
	LinkRelated(ctx context.Context, postID int64, relatedIDs []int64) error
}

// Seeder inserts a Dataset. Records that already exist are left untouched,
// so running it twice is harmless.
type Seeder struct {
	Categories CategoryWriter
	Tags       TagWriter
	Companies  CompanyWriter
	Posts      PostWriter
}

// New returns a Seeder writing to the PostgreSQL stores on db.
func New(db *sql.DB) *Seeder {
	return &Seeder{
		Categories: store.NewCategoryStore(db),
		Tags:       store.NewTagStore(db),
		Companies:  store.NewCompanyStore(db),
		Posts:      store.NewPostStore(db),
	}
}

// Counts is the number of records created and already present per kind.
type Counts struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

func (c *Counts) add(created bool) {
	if created {
		c.Created++
	} else {
		c.Existing++
	}
}

// Report summarizes a seeding run. Warnings list references that could not
// be resolved and records that were skipped.
type Report struct {
	Categories Counts   `json:"categories"`
	Tags       Counts   `json:"tags"`
	Companies  Counts   `json:"companies"`
	Posts      Counts   `json:"posts"`
	Links      int      `json:"links"`
	Warnings   []string `json:"warnings"`
}

func (r *Report) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn("seed: " + msg)
	r.Warnings = append(r.Warnings, msg)
}

// Run inserts d in dependency order: categories, tags, companies, posts.
// Associations are linked by slug once their targets exist; company
// alternatives are resolved by domain in a second pass over the companies.
func (s *Seeder) Run(ctx context.Context, d *Dataset) (*Report, error) {
	r := &Report{}

	if err := s.categories(ctx, d.Categories, r); err != nil {
		return r, err
	}
	if err := s.tags(ctx, d.Tags, r); err != nil {
		return r, err
	}

	var companies, posts []EntityRecord
	for _, e := range d.Entities {
		switch e.Module {
		case ModuleCompany:
			companies = append(companies, e)
		case ModulePost:
			posts = append(posts, e)
		default:
			r.warn("entity %q has unknown module %q", e.Slug, e.Module)
		}
	}

	if err := s.companies(ctx, companies, r); err != nil {
		return r, err
	}
	if err := s.posts(ctx, posts, r); err != nil {
		return r, err
	}

	slog.Info("seed complete",
		"categories", r.Categories.Created,
		"tags", r.Tags.Created,
		"companies", r.Companies.Created,
		"posts", r.Posts.Created,
		"links", r.Links,
		"warnings", len(r.Warnings),
	)
	return r, nil
}

func (s *Seeder) categories(ctx context.Context, recs []CategoryRecord, r *Report) error {
	for _, rec := range recs {
		c := &models.Category{
			EntityType:  rec.Module,
			Slug:        slug.Generate(rec.Slug),
			Name:        strings.TrimSpace(rec.Name),
			BuyingGuide: rec.Data.BuyersGuide,
		}
		if c.EntityType != models.EntityTypeCompany && c.EntityType != models.EntityTypePost {
			r.warn("category %q has unknown module %q", rec.Slug, rec.Module)
			continue
		}
		if c.Slug == "" || c.Name == "" {
			r.warn("category %q skipped: missing slug or name", rec.Slug)
			continue
		}
		for _, f := range rec.Data.FAQs {
			c.FAQs = append(c.FAQs, models.FAQ{Question: f.Question, Answer: f.Answer})
		}
		_, created, err := s.Categories.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		r.Categories.add(created)
	}
	return nil
}

func (s *Seeder) tags(ctx context.Context, recs []TagRecord, r *Report) error {
	for _, rec := range recs {
		t := &models.Tag{Slug: slug.Generate(rec.Slug), Name: strings.TrimSpace(rec.Name)}
		if t.Slug == "" || t.Name == "" {
			r.warn("tag %q skipped: missing slug or name", rec.Slug)
			continue
		}
		_, created, err := s.Tags.Upsert(ctx, t)
		if err != nil {
			return fmt.Errorf("seed tag %s: %w", t.Slug, err)
		}
		r.Tags.add(created)
	}
	return nil
}

func (s *Seeder) companies(ctx context.Context, recs []EntityRecord, r *Report) error {
	if len(recs) == 0 {
		return nil
	}
	catIDs, tagIDs, err := s.taxonomy(ctx, models.EntityTypeCompany, recs)
	if err != nil {
		return err
	}

	// Pass 1: insert and link taxonomy; remember who lists alternatives.
	pending := map[int64][]Ref{}
	for _, rec := range recs {
		c := &models.Company{
			Slug:        slug.Generate(rec.Slug),
			Name:        strings.TrimSpace(rec.Name),
			Logo:        rec.Data.Logo,
			Domain:      rec.Data.Domain,
			Excerpt:     rec.Data.Excerpt,
			OneLiner:    rec.Data.OneLiner,
			SerplyLink:  rec.Data.SerplyLink,
			Content:     rec.SingleData.Content,
			VideoID:     rec.SingleData.VideoID,
			Screenshots: models.StringList(rec.SingleData.Screenshots),
		}
		if c.Slug == "" || c.Name == "" {
			r.warn("company %q skipped: missing slug or name", rec.Slug)
			continue
		}
		if c.Screenshots == nil {
			c.Screenshots = models.StringList{}
		}
		id, created, err := s.Companies.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("seed company %s: %w", c.Slug, err)
		}
		r.Companies.add(created)

		if ids := resolve(r, "category", c.Slug, rec.Categories, catIDs); len(ids) > 0 {
			if err := s.Companies.LinkCategories(ctx, id, ids); err != nil {
				return fmt.Errorf("link company %s categories: %w", c.Slug, err)
			}
			r.Links += len(ids)
		}
		if ids := resolve(r, "tag", c.Slug, rec.Topics, tagIDs); len(ids) > 0 {
			if err := s.Companies.LinkTags(ctx, id, ids); err != nil {
				return fmt.Errorf("link company %s tags: %w", c.Slug, err)
			}
			r.Links += len(ids)
		}
		if len(rec.SingleData.Alternatives) > 0 {
			pending[id] = rec.SingleData.Alternatives
		}
	}

	// Pass 2: alternatives reference other companies by domain.
	if len(pending) == 0 {
		return nil
	}
	var domains []string
	for _, alts := range pending {
		for _, a := range alts {
			if a.Domain != "" {
				domains = append(domains, a.Domain)
			}
		}
	}
	byDomain, err := s.Companies.IDsByDomains(ctx, unique(domains))
	if err != nil {
		return err
	}
	for id, alts := range pending {
		var ids []int64
		for _, a := range alts {
			altID, ok := byDomain[a.Domain]
			if !ok {
				r.warn("alternative with domain %q not found", a.Domain)
				continue
			}
			if altID != id {
				ids = append(ids, altID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		if err := s.Companies.LinkAlternatives(ctx, id, ids); err != nil {
			return fmt.Errorf("link company %d alternatives: %w", id, err)
		}
		r.Links += len(ids)
	}
	return nil
}

func (s *Seeder) posts(ctx context.Context, recs []EntityRecord, r *Report) error {
	if len(recs) == 0 {
		return nil
	}
	catIDs, tagIDs, err := s.taxonomy(ctx, models.EntityTypePost, recs)
	if err != nil {
		return err
	}

	type relation struct {
		slug string
		refs []Ref
	}
	postIDs := map[string]int64{}
	related := map[int64]relation{}
	for _, rec := range recs {
		p := &models.Post{
			Slug:          slug.Generate(rec.Slug),
			Name:          strings.TrimSpace(rec.Name),
			Type:          postType(rec),
			Image:         rec.Image,
			Author:        rec.Data.Author,
			Excerpt:       rec.Data.Excerpt,
			FeaturedImage: rec.Data.FeaturedImage,
			Content:       rec.SingleData.Content,
			VideoID:       rec.SingleData.VideoID,
		}
		if p.Slug == "" || p.Name == "" {
			r.warn("post %q skipped: missing slug or name", rec.Slug)
			continue
		}
		if !p.Type.Valid() {
			r.warn("post %q skipped: unknown type %q", p.Slug, p.Type)
			continue
		}
		id, created, err := s.Posts.Upsert(ctx, p)
		if err != nil {
			return fmt.Errorf("seed post %s: %w", p.Slug, err)
		}
		r.Posts.add(created)
		postIDs[p.Slug] = id

		if ids := resolve(r, "category", p.Slug, rec.Categories, catIDs); len(ids) > 0 {
			if err := s.Posts.LinkCategories(ctx, id, ids); err != nil {
				return fmt.Errorf("link post %s categories: %w", p.Slug, err)
			}
			r.Links += len(ids)
		}
		if ids := resolve(r, "tag", p.Slug, rec.Topics, tagIDs); len(ids) > 0 {
			if err := s.Posts.LinkTags(ctx, id, ids); err != nil {
				return fmt.Errorf("link post %s tags: %w", p.Slug, err)
			}
			r.Links += len(ids)
		}
		if len(rec.SingleData.Related) > 0 {
			related[id] = relation{slug: p.Slug, refs: rec.SingleData.Related}
		}
	}

	// Related posts may point at posts from an earlier run, so unresolved
	// slugs are looked up before giving up on them.
	var missing []string
	for _, rel := range related {
		for _, ref := range rel.refs {
			if sl := slug.Generate(ref.Slug); sl != "" {
				if _, ok := postIDs[sl]; !ok {
					missing = append(missing, sl)
				}
			}
		}
	}
	if len(missing) > 0 {
		found, err := s.Posts.IDsBySlugs(ctx, unique(missing))
		if err != nil {
			return err
		}
		for k, v := range found {
			postIDs[k] = v
		}
	}
	for id, rel := range related {
		ids := resolve(r, "related post", rel.slug, rel.refs, postIDs)
		if len(ids) == 0 {
			continue
		}
		if err := s.Posts.LinkRelated(ctx, id, ids); err != nil {
			return fmt.Errorf("link post %s related: %w", rel.slug, err)
		}
		r.Links += len(ids)
	}
	return nil
}

// taxonomy resolves every category (of entityType) and tag slug referenced
// by recs in one lookup each.
func (s *Seeder) taxonomy(ctx context.Context, entityType string, recs []EntityRecord) (cats, tags map[string]int64, err error) {
	var catSlugs, tagSlugs []string
	for _, rec := range recs {
		for _, c := range rec.Categories {
			catSlugs = append(catSlugs, slug.Generate(c.Slug))
		}
		for _, t := range rec.Topics {
			tagSlugs = append(tagSlugs, slug.Generate(t.Slug))
		}
	}
	cats, err = s.Categories.IDsBySlugs(ctx, entityType, unique(catSlugs))
	if err != nil {
		return nil, nil, err
	}
	tags, err = s.Tags.IDsBySlugs(ctx, unique(tagSlugs))
	if err != nil {
		return nil, nil, err
	}
	return cats, tags, nil
}

// resolve maps refs to ids, warning about each one that is unknown.
func resolve(r *Report, kind, owner string, refs []Ref, ids map[string]int64) []int64 {
	var out []int64
	seen := map[int64]bool{}
	for _, ref := range refs {
		id, ok := ids[slug.Generate(ref.Slug)]
		if !ok {
			r.warn("%s %q referenced by %s not found", kind, ref.Slug, owner)
			continue
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// postType reads data.module case-insensitively; glossary is the default.
func postType(rec EntityRecord) models.PostType {
	if rec.Data.Module == nil || strings.TrimSpace(*rec.Data.Module) == "" {
		return models.PostTypeGlossary
	}
	return models.PostType(strings.ToLower(strings.TrimSpace(*rec.Data.Module)))
}

func unique(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := xs[:0:0]
	for _, x := range xs {
		if x != "" && !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
