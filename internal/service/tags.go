// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"serpco/internal/models"
	"serpco/internal/store"
)

// TagDetail is a tag with the companies and posts carrying it.
type TagDetail struct {
	models.Tag
	Companies    []models.CompanySummary `json:"companies"`
	CompanyCount int                     `json:"companyCount"`
	Posts        []models.PostSummary    `json:"posts"`
	PostCount    int                     `json:"postCount"`
}

// TagService lists and resolves tags.
type TagService struct {
	repos Repositories
}

// List returns one page of tags.
func (s *TagService) List(ctx context.Context, p Params) (*models.ListResponse[models.TagSummary], error) {
	params, err := decodeTagList(p)
	if err != nil {
		return nil, err
	}

	res, err := s.repos.Tags.List(ctx, store.TagFilter{
		Search: params.Search,
		Sort:   params.SortBy,
		Page:   pageOf(params.Page, params.Limit),
	})
	if err != nil {
		return nil, internal("fetch tags", err)
	}
	return listResponse(res.Items, params.Page, params.Limit, res.Total), nil
}

// GetBySlug resolves a tag and hydrates the requested collections.
func (s *TagService) GetBySlug(ctx context.Context, slug string, p Params) (*TagDetail, error) {
	params, err := decodeTagDetail(slug, p)
	if err != nil {
		return nil, err
	}

	tag, err := s.repos.Tags.FindBySlug(ctx, params.Slug)
	if err != nil {
		return nil, internal("fetch tag", err)
	}
	if tag == nil {
		return nil, &NotFoundError{Entity: "Tag", Slug: params.Slug}
	}

	detail := &TagDetail{
		Tag:       *tag,
		Companies: []models.CompanySummary{},
		Posts:     []models.PostSummary{},
	}
	g, gctx := errgroup.WithContext(ctx)
	if params.IncludeCompanies {
		g.Go(func() error {
			companies, err := s.repos.Companies.ListByTagID(gctx, tag.ID, params.CompanyLimit)
			detail.Companies = orEmpty(companies)
			return err
		})
	}
	if params.IncludePosts {
		g.Go(func() error {
			posts, err := s.repos.Posts.ListByTagID(gctx, tag.ID, params.PostLimit)
			detail.Posts = orEmpty(posts)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, internal("fetch tag", err)
	}

	detail.CompanyCount = len(detail.Companies)
	detail.PostCount = len(detail.Posts)
	return detail, nil
}
