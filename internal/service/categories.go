// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"serpco/internal/markdown"
	"serpco/internal/models"
	"serpco/internal/store"
)

// CategoryDetail is a category with its hydrated companies and posts.
// Counts are the lengths of the hydrated collections.
type CategoryDetail struct {
	models.Category
	BuyingGuideHTML *string                 `json:"buyingGuideHtml"`
	Companies       []models.CompanySummary `json:"companies"`
	CompanyCount    int                     `json:"companyCount"`
	Posts           []models.PostSummary    `json:"posts"`
	PostCount       int                     `json:"postCount"`
}

// CategoryService lists and resolves categories.
type CategoryService struct {
	repos Repositories
}

// List returns one page of categories.
func (s *CategoryService) List(ctx context.Context, p Params) (*models.ListResponse[models.CategorySummary], error) {
	params, err := decodeCategoryList(p)
	if err != nil {
		return nil, err
	}

	res, err := s.repos.Categories.List(ctx, store.CategoryFilter{
		EntityType: params.EntityType,
		Search:     params.Search,
		Sort:       params.SortBy,
		Page:       pageOf(params.Page, params.Limit),
	})
	if err != nil {
		return nil, internal("fetch categories", err)
	}
	return listResponse(res.Items, params.Page, params.Limit, res.Total), nil
}

// GetBySlug resolves a category within its entity type and hydrates the
// requested collections concurrently.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string, p Params) (*CategoryDetail, error) {
	params, err := decodeCategoryDetail(slug, p)
	if err != nil {
		return nil, err
	}

	cat, err := s.repos.Categories.FindBySlug(ctx, params.EntityType, params.Slug)
	if err != nil {
		return nil, internal("fetch category", err)
	}
	if cat == nil {
		return nil, &NotFoundError{Entity: "Category", Slug: params.Slug}
	}

	detail := &CategoryDetail{
		Category:  *cat,
		Companies: []models.CompanySummary{},
		Posts:     []models.PostSummary{},
	}

	g, gctx := errgroup.WithContext(ctx)
	if params.IncludeCompanies {
		g.Go(func() error {
			companies, err := s.repos.Companies.ListByCategoryID(gctx, cat.ID, params.CompanyLimit)
			detail.Companies = orEmpty(companies)
			return err
		})
	}
	if params.IncludePosts {
		g.Go(func() error {
			posts, err := s.repos.Posts.ListByCategoryID(gctx, cat.ID, params.PostLimit)
			detail.Posts = orEmpty(posts)
			return err
		})
	}
	g.Go(func() error {
		html, err := markdown.Optional(cat.BuyingGuide)
		detail.BuyingGuideHTML = html
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internal("fetch category", err)
	}

	detail.CompanyCount = len(detail.Companies)
	detail.PostCount = len(detail.Posts)
	return detail, nil
}
