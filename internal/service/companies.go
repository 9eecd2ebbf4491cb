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

// CompanyDetail is a company with its taxonomy memberships and the
// companies it suggests as alternatives.
type CompanyDetail struct {
	models.Company
	ContentHTML  *string                 `json:"contentHtml"`
	Categories   []models.CategoryRef    `json:"categories"`
	Tags         []models.TagRef         `json:"tags"`
	Alternatives []models.CompanySummary `json:"alternatives"`
}

// CompanyService lists, searches and resolves companies.
type CompanyService struct {
	repos Repositories
}

// List returns one page of companies. Category and tag filters combine.
func (s *CompanyService) List(ctx context.Context, p Params) (*models.ListResponse[models.CompanySummary], error) {
	params, err := decodeCompanyList(p)
	if err != nil {
		return nil, err
	}

	res, err := s.repos.Companies.List(ctx, store.CompanyFilter{
		CategorySlug: params.Category,
		TagSlug:      params.Tag,
		Search:       params.Search,
		Sort:         params.SortBy,
		Page:         pageOf(params.Page, params.Limit),
	})
	if err != nil {
		return nil, internal("fetch companies", err)
	}
	return listResponse(res.Items, params.Page, params.Limit, res.Total), nil
}

// Search is a name lookup for autocomplete. A blank query returns an empty
// result without touching storage.
func (s *CompanyService) Search(ctx context.Context, p Params) (*models.ListResponse[models.CompanySummary], error) {
	params, err := decodeSearch(p)
	if err != nil {
		return nil, err
	}
	if params.Query == "" {
		return listResponse[models.CompanySummary](nil, 1, params.Limit, 0), nil
	}

	res, err := s.repos.Companies.List(ctx, store.CompanyFilter{
		Search: params.Query,
		Sort:   models.SortNameAsc,
		Page:   store.Page{Limit: params.Limit},
	})
	if err != nil {
		return nil, internal("search companies", err)
	}
	return listResponse(res.Items, 1, params.Limit, res.Total), nil
}

// GetBySlug resolves a company and hydrates categories, tags and
// alternatives concurrently.
func (s *CompanyService) GetBySlug(ctx context.Context, slug string) (*CompanyDetail, error) {
	slug, err := decodeSlug(slug)
	if err != nil {
		return nil, err
	}

	company, err := s.repos.Companies.FindBySlug(ctx, slug)
	if err != nil {
		return nil, internal("fetch company", err)
	}
	if company == nil {
		return nil, &NotFoundError{Entity: "Company", Slug: slug}
	}

	detail := &CompanyDetail{Company: *company}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := s.repos.Categories.ListForCompany(gctx, company.ID)
		detail.Categories = orEmpty(refs)
		return err
	})
	g.Go(func() error {
		refs, err := s.repos.Tags.ListForCompany(gctx, company.ID)
		detail.Tags = orEmpty(refs)
		return err
	})
	g.Go(func() error {
		alts, err := s.repos.Companies.ListAlternatives(gctx, company.ID)
		detail.Alternatives = orEmpty(alts)
		return err
	})
	g.Go(func() error {
		html, err := markdown.Optional(company.Content)
		detail.ContentHTML = html
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internal("fetch company", err)
	}
	return detail, nil
}
