// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"serpco/internal/models"
)

// SitemapURL is one entry of a sitemap source.
type SitemapURL struct {
	Loc     string    `json:"loc"`
	Lastmod time.Time `json:"lastmod"`
}

// SitemapService produces the URL sources consumed by the site's sitemap
// generator.
type SitemapService struct {
	repos Repositories
}

// Posts returns post pages followed by post category pages.
func (s *SitemapService) Posts(ctx context.Context) ([]SitemapURL, error) {
	return s.entitiesWithCategories(ctx, "post sitemap",
		s.repos.Posts.ListSitemap, "/posts/", "",
		models.EntityTypePost, "/posts/category/")
}

// PostCategories returns post category pages.
func (s *SitemapService) PostCategories(ctx context.Context) ([]SitemapURL, error) {
	return s.categories(ctx, models.EntityTypePost, "/posts/category/")
}

// Products returns company review pages followed by product category pages.
func (s *SitemapService) Products(ctx context.Context) ([]SitemapURL, error) {
	return s.entitiesWithCategories(ctx, "product sitemap",
		s.repos.Companies.ListSitemap, "/products/", "/reviews",
		models.EntityTypeCompany, "/products/best/")
}

// ProductCategories returns product category pages.
func (s *SitemapService) ProductCategories(ctx context.Context) ([]SitemapURL, error) {
	return s.categories(ctx, models.EntityTypeCompany, "/products/best/")
}

func (s *SitemapService) categories(ctx context.Context, entityType, prefix string) ([]SitemapURL, error) {
	entries, err := s.repos.Categories.ListSitemap(ctx, entityType)
	if err != nil {
		return nil, internal("fetch "+entityType+" categories for sitemap", err)
	}
	return toURLs(entries, prefix, ""), nil
}

func (s *SitemapService) entitiesWithCategories(
	ctx context.Context,
	op string,
	list func(context.Context) ([]models.SitemapEntry, error),
	prefix, suffix string,
	entityType, categoryPrefix string,
) ([]SitemapURL, error) {
	var entities, cats []models.SitemapEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = list(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.repos.Categories.ListSitemap(gctx, entityType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internal("build "+op, err)
	}

	return append(toURLs(entities, prefix, suffix), toURLs(cats, categoryPrefix, "")...), nil
}

func toURLs(entries []models.SitemapEntry, prefix, suffix string) []SitemapURL {
	urls := make([]SitemapURL, len(entries))
	for i, e := range entries {
		urls[i] = SitemapURL{Loc: prefix + e.Slug + suffix, Lastmod: e.UpdatedAt}
	}
	return urls
}
