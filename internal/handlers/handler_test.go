// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: stub repositories behind real services, and a chi router that
// mounts the handlers the way the server does.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"serpco/internal/models"
	"serpco/internal/service"
	"serpco/internal/store"
)

var (
	stamp   = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	errDown = errors.New("connection refused")
)

func strp(s string) *string { return &s }

type stubCategories struct{ err error }

func (s stubCategories) List(_ context.Context, f store.CategoryFilter) (*store.ListResult[models.CategorySummary], error) {
	if s.err != nil {
		return nil, s.err
	}
	items := []models.CategorySummary{
		{ID: 1, Slug: "crm-software", Name: "CRM Software", EntityType: models.EntityTypeCompany, CreatedAt: stamp, UpdatedAt: stamp},
	}
	return &store.ListResult[models.CategorySummary]{Items: items, Total: 1}, nil
}

func (s stubCategories) FindBySlug(_ context.Context, entityType, slug string) (*models.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	if slug != "crm-software" || entityType != models.EntityTypeCompany {
		return nil, nil
	}
	return &models.Category{
		ID: 1, EntityType: entityType, Slug: slug, Name: "CRM Software",
		BuyingGuide: strp("# Choosing a CRM"),
		CreatedAt:   stamp, UpdatedAt: stamp,
	}, nil
}

func (s stubCategories) ListForCompany(context.Context, int64) ([]models.CategoryRef, error) {
	return []models.CategoryRef{{ID: 1, Name: "CRM Software", Slug: "crm-software", EntityType: models.EntityTypeCompany}}, s.err
}

func (s stubCategories) ListForPost(context.Context, int64) ([]models.CategoryRef, error) {
	return nil, s.err
}

func (s stubCategories) ListForPosts(context.Context, []int64) (map[int64][]models.CategoryRef, error) {
	return map[int64][]models.CategoryRef{}, s.err
}

func (s stubCategories) ListSitemap(_ context.Context, entityType string) ([]models.SitemapEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if entityType == models.EntityTypePost {
		return []models.SitemapEntry{{Slug: "guides", UpdatedAt: stamp}}, nil
	}
	return []models.SitemapEntry{{Slug: "crm-software", UpdatedAt: stamp}}, nil
}

type stubCompanies struct{ err error }

var acme = models.CompanySummary{ID: 7, Slug: "acme", Name: "Acme", CreatedAt: stamp, UpdatedAt: stamp}

func (s stubCompanies) List(_ context.Context, f store.CompanyFilter) (*store.ListResult[models.CompanySummary], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &store.ListResult[models.CompanySummary]{Items: []models.CompanySummary{acme}, Total: 30}, nil
}

func (s stubCompanies) FindBySlug(_ context.Context, slug string) (*models.Company, error) {
	if s.err != nil || slug != "acme" {
		return nil, s.err
	}
	return &models.Company{ID: 7, Slug: "acme", Name: "Acme", Content: strp("**Fast** CRM"), CreatedAt: stamp, UpdatedAt: stamp}, nil
}

func (s stubCompanies) ListAlternatives(context.Context, int64) ([]models.CompanySummary, error) {
	return nil, s.err
}

func (s stubCompanies) ListByCategoryID(context.Context, int64, int) ([]models.CompanySummary, error) {
	return []models.CompanySummary{acme}, s.err
}

func (s stubCompanies) ListByTagID(context.Context, int64, int) ([]models.CompanySummary, error) {
	return []models.CompanySummary{acme}, s.err
}

func (s stubCompanies) ListSitemap(context.Context) ([]models.SitemapEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.SitemapEntry{{Slug: "acme", UpdatedAt: stamp}}, nil
}

type stubPosts struct {
	err      error
	lastType models.PostType
}

func (s *stubPosts) List(_ context.Context, f store.PostFilter) (*store.ListResult[models.PostSummary], error) {
	s.lastType = f.Type
	if s.err != nil {
		return nil, s.err
	}
	items := []models.PostSummary{{ID: 3, Slug: "what-is-crm", Name: "What is CRM", Type: models.PostTypeGlossary, CreatedAt: stamp, UpdatedAt: stamp}}
	return &store.ListResult[models.PostSummary]{Items: items, Total: 1}, nil
}

func (s *stubPosts) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	if s.err != nil || slug != "what-is-crm" {
		return nil, s.err
	}
	return &models.Post{ID: 3, Slug: slug, Name: "What is CRM", Type: models.PostTypeGlossary, CreatedAt: stamp, UpdatedAt: stamp}, nil
}

func (s *stubPosts) ListRelated(context.Context, int64) ([]models.PostSummary, error) {
	return nil, s.err
}

func (s *stubPosts) ListByCategoryID(context.Context, int64, int) ([]models.PostSummary, error) {
	return nil, s.err
}

func (s *stubPosts) ListByTagID(context.Context, int64, int) ([]models.PostSummary, error) {
	return nil, s.err
}

func (s *stubPosts) ListSitemap(context.Context) ([]models.SitemapEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.SitemapEntry{{Slug: "what-is-crm", UpdatedAt: stamp}}, nil
}

type stubTags struct{ err error }

func (s stubTags) List(context.Context, store.TagFilter) (*store.ListResult[models.TagSummary], error) {
	if s.err != nil {
		return nil, s.err
	}
	return &store.ListResult[models.TagSummary]{Items: []models.TagSummary{{ID: 2, Slug: "saas", Name: "SaaS"}}, Total: 1}, nil
}

func (s stubTags) FindBySlug(_ context.Context, slug string) (*models.Tag, error) {
	if s.err != nil || slug != "saas" {
		return nil, s.err
	}
	return &models.Tag{ID: 2, Slug: "saas", Name: "SaaS", CreatedAt: stamp, UpdatedAt: stamp}, nil
}

func (s stubTags) ListForCompany(context.Context, int64) ([]models.TagRef, error) {
	return nil, s.err
}

func (s stubTags) ListForPost(context.Context, int64) ([]models.TagRef, error) {
	return nil, s.err
}

// testAPI returns a router over stub repositories that fail with err when
// it is non-nil.
func testAPI(t *testing.T, err error) (http.Handler, *stubPosts) {
	t.Helper()
	posts := &stubPosts{err: err}
	svc := service.New(service.Repositories{
		Categories: stubCategories{err: err},
		Companies:  stubCompanies{err: err},
		Posts:      posts,
		Tags:       stubTags{err: err},
	})
	api := NewAPI(svc)

	r := chi.NewRouter()
	r.Get("/api/categories", api.ListCategories)
	r.Get("/api/categories/{slug}", api.GetCategory)
	r.Get("/api/companies", api.ListCompanies)
	r.Get("/api/companies/search", api.SearchCompanies)
	r.Get("/api/companies/{slug}", api.GetCompany)
	r.Get("/api/posts", api.ListPosts)
	r.Get("/api/posts/search", api.SearchPosts)
	r.Get("/api/posts/{slug}", api.GetPost)
	r.Get("/api/blog", api.ListBlog)
	r.Get("/api/glossary", api.ListGlossary)
	r.Get("/api/tags", api.ListTags)
	r.Get("/api/tags/{slug}", api.GetTag)
	r.Get("/api/__sitemap__/urls/posts", api.SitemapPosts)
	r.Get("/api/__sitemap__/urls/post-categories", api.SitemapPostCategories)
	r.Get("/api/__sitemap__/urls/products", api.SitemapProducts)
	r.Get("/api/__sitemap__/urls/product-categories", api.SitemapProductCategories)
	return r, posts
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}
