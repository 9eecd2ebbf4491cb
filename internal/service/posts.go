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

// PostDetail is a post with its taxonomy memberships and related posts.
type PostDetail struct {
	models.Post
	ContentHTML  *string              `json:"contentHtml"`
	Categories   []models.CategoryRef `json:"categories"`
	Tags         []models.TagRef      `json:"tags"`
	RelatedPosts []models.PostSummary `json:"relatedPosts"`
}

// PostService lists, searches and resolves blog and glossary posts.
type PostService struct {
	repos Repositories
}

// List returns one page of posts, newest first by default. With
// includeCategories each summary carries its categories.
func (s *PostService) List(ctx context.Context, p Params) (*models.ListResponse[models.PostSummary], error) {
	params, err := decodePostList(p)
	if err != nil {
		return nil, err
	}

	res, err := s.repos.Posts.List(ctx, store.PostFilter{
		Type:         params.Type,
		CategorySlug: params.Category,
		TagSlug:      params.Tag,
		Search:       params.Search,
		Sort:         params.SortBy,
		Page:         pageOf(params.Page, params.Limit),
	})
	if err != nil {
		return nil, internal("fetch posts", err)
	}

	if params.IncludeCategories && len(res.Items) > 0 {
		ids := make([]int64, len(res.Items))
		for i, item := range res.Items {
			ids[i] = item.ID
		}
		byPost, err := s.repos.Categories.ListForPosts(ctx, ids)
		if err != nil {
			return nil, internal("fetch posts", err)
		}
		for i := range res.Items {
			res.Items[i].Categories = orEmpty(byPost[res.Items[i].ID])
		}
	}
	return listResponse(res.Items, params.Page, params.Limit, res.Total), nil
}

// ListBlog lists blog posts only, whatever type p asks for.
func (s *PostService) ListBlog(ctx context.Context, p Params) (*models.ListResponse[models.PostSummary], error) {
	return s.List(ctx, p.With("type", string(models.PostTypeBlog)))
}

// ListGlossary lists glossary entries only.
func (s *PostService) ListGlossary(ctx context.Context, p Params) (*models.ListResponse[models.PostSummary], error) {
	return s.List(ctx, p.With("type", string(models.PostTypeGlossary)))
}

// Search is a name lookup for autocomplete, optionally restricted to one
// post type. A blank query returns an empty result.
func (s *PostService) Search(ctx context.Context, p Params) (*models.ListResponse[models.PostSummary], error) {
	params, err := decodeSearch(p)
	if err != nil {
		return nil, err
	}
	if params.Query == "" {
		return listResponse[models.PostSummary](nil, 1, params.Limit, 0), nil
	}

	res, err := s.repos.Posts.List(ctx, store.PostFilter{
		Type:   params.Type,
		Search: params.Query,
		Sort:   models.SortRecent,
		Page:   store.Page{Limit: params.Limit},
	})
	if err != nil {
		return nil, internal("search posts", err)
	}
	return listResponse(res.Items, 1, params.Limit, res.Total), nil
}

// GetBySlug resolves a post and hydrates categories, tags and related
// posts concurrently.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*PostDetail, error) {
	slug, err := decodeSlug(slug)
	if err != nil {
		return nil, err
	}

	post, err := s.repos.Posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, internal("fetch post", err)
	}
	if post == nil {
		return nil, &NotFoundError{Entity: "Post", Slug: slug}
	}

	detail := &PostDetail{Post: *post}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := s.repos.Categories.ListForPost(gctx, post.ID)
		detail.Categories = orEmpty(refs)
		return err
	})
	g.Go(func() error {
		refs, err := s.repos.Tags.ListForPost(gctx, post.ID)
		detail.Tags = orEmpty(refs)
		return err
	})
	g.Go(func() error {
		related, err := s.repos.Posts.ListRelated(gctx, post.ID)
		detail.RelatedPosts = orEmpty(related)
		return err
	})
	g.Go(func() error {
		html, err := markdown.Optional(post.Content)
		detail.ContentHTML = html
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internal("fetch post", err)
	}
	return detail, nil
}
