// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service is the entry point for reading the directory. Each call
// decodes and validates raw parameters before touching storage, then
// returns either a result or one of *InvalidParamsError, *NotFoundError
// or *InternalError.
package service

import (
	"context"
	"database/sql"

	"serpco/internal/models"
	"serpco/internal/store"
)

// CategoryRepository is the category storage used by the services.
type CategoryRepository interface {
	List(ctx context.Context, f store.CategoryFilter) (*store.ListResult[models.CategorySummary], error)
	FindBySlug(ctx context.Context, entityType, slug string) (*models.Category, error)
	ListForCompany(ctx context.Context, companyID int64) ([]models.CategoryRef, error)
	ListForPost(ctx context.Context, postID int64) ([]models.CategoryRef, error)
	ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]models.CategoryRef, error)
	ListSitemap(ctx context.Context, entityType string) ([]models.SitemapEntry, error)
}

// CompanyRepository is the company storage used by the services.
type CompanyRepository interface {
	List(ctx context.Context, f store.CompanyFilter) (*store.ListResult[models.CompanySummary], error)
	FindBySlug(ctx context.Context, slug string) (*models.Company, error)
	ListAlternatives(ctx context.Context, companyID int64) ([]models.CompanySummary, error)
	ListByCategoryID(ctx context.Context, categoryID int64, limit int) ([]models.CompanySummary, error)
	ListByTagID(ctx context.Context, tagID int64, limit int) ([]models.CompanySummary, error)
	ListSitemap(ctx context.Context) ([]models.SitemapEntry, error)
}

// PostRepository is the post storage used by the services.
type PostRepository interface {
	List(ctx context.Context, f store.PostFilter) (*store.ListResult[models.PostSummary], error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListRelated(ctx context.Context, postID int64) ([]models.PostSummary, error)
	ListByCategoryID(ctx context.Context, categoryID int64, limit int) ([]models.PostSummary, error)
	ListByTagID(ctx context.Context, tagID int64, limit int) ([]models.PostSummary, error)
	ListSitemap(ctx context.Context) ([]models.SitemapEntry, error)
}

// TagRepository is the tag storage used by the services.
type TagRepository interface {
	List(ctx context.Context, f store.TagFilter) (*store.ListResult[models.TagSummary], error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	ListForCompany(ctx context.Context, companyID int64) ([]models.TagRef, error)
	ListForPost(ctx context.Context, postID int64) ([]models.TagRef, error)
}

// Repositories bundles the storage the services read from.
type Repositories struct {
	Categories CategoryRepository
	Companies  CompanyRepository
	Posts      PostRepository
	Tags       TagRepository
}

// StoreRepositories returns repositories backed by PostgreSQL stores.
func StoreRepositories(db *sql.DB) Repositories {
	return Repositories{
		Categories: store.NewCategoryStore(db),
		Companies:  store.NewCompanyStore(db),
		Posts:      store.NewPostStore(db),
		Tags:       store.NewTagStore(db),
	}
}

// Services groups the per-entity services.
type Services struct {
	Categories *CategoryService
	Companies  *CompanyService
	Posts      *PostService
	Tags       *TagService
	Sitemap    *SitemapService
}

// New wires every service to repos.
func New(repos Repositories) *Services {
	return &Services{
		Categories: &CategoryService{repos: repos},
		Companies:  &CompanyService{repos: repos},
		Posts:      &PostService{repos: repos},
		Tags:       &TagService{repos: repos},
		Sitemap:    &SitemapService{repos: repos},
	}
}

func listResponse[T any](items []T, page, limit, total int) *models.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &models.ListResponse[T]{
		Data:       items,
		Pagination: models.NewPagination(page, limit, total),
	}
}

func pageOf(page, limit int) store.Page {
	return store.Page{Limit: limit, Offset: models.Offset(page, limit)}
}

func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
