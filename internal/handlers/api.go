// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the directory API. They
// translate requests into service calls and service outcomes into JSON.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"serpco/internal/service"
)

// API groups the JSON read endpoints for categories, companies, posts,
// tags and the sitemap feeds.
type API struct {
	svc *service.Services
}

// NewAPI creates the API handler group.
func NewAPI(svc *service.Services) *API {
	return &API{svc: svc}
}

// params collects the query string into a service parameter bag.
func params(r *http.Request) service.Params {
	return service.ParamsFromQuery(r.URL.Query())
}

// respond writes v as 200 or maps err.
func respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ListCategories handles GET /api/categories.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Categories.List(r.Context(), params(r))
	respond(w, r, res, err)
}

// GetCategory handles GET /api/categories/{slug}.
func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"), params(r))
	respond(w, r, res, err)
}

// ListCompanies handles GET /api/companies.
func (a *API) ListCompanies(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Companies.List(r.Context(), params(r))
	respond(w, r, res, err)
}

// SearchCompanies handles GET /api/companies/search?q=.
func (a *API) SearchCompanies(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Companies.Search(r.Context(), params(r))
	respond(w, r, res, err)
}

// GetCompany handles GET /api/companies/{slug}.
func (a *API) GetCompany(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Companies.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, res, err)
}

// ListPosts handles GET /api/posts.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Posts.List(r.Context(), params(r))
	respond(w, r, res, err)
}

// SearchPosts handles GET /api/posts/search?q=.
func (a *API) SearchPosts(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Posts.Search(r.Context(), params(r))
	respond(w, r, res, err)
}

// ListBlog handles GET /api/blog.
func (a *API) ListBlog(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Posts.ListBlog(r.Context(), params(r))
	respond(w, r, res, err)
}

// ListGlossary handles GET /api/glossary.
func (a *API) ListGlossary(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Posts.ListGlossary(r.Context(), params(r))
	respond(w, r, res, err)
}

// GetPost handles GET /api/posts/{slug}.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, res, err)
}

// ListTags handles GET /api/tags.
func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Tags.List(r.Context(), params(r))
	respond(w, r, res, err)
}

// GetTag handles GET /api/tags/{slug}.
func (a *API) GetTag(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Tags.GetBySlug(r.Context(), chi.URLParam(r, "slug"), params(r))
	respond(w, r, res, err)
}

// SitemapPosts handles GET /api/__sitemap__/urls/posts.
func (a *API) SitemapPosts(w http.ResponseWriter, r *http.Request) {
	a.sitemap(w, r, a.svc.Sitemap.Posts)
}

// SitemapPostCategories handles GET /api/__sitemap__/urls/post-categories.
func (a *API) SitemapPostCategories(w http.ResponseWriter, r *http.Request) {
	a.sitemap(w, r, a.svc.Sitemap.PostCategories)
}

// SitemapProducts handles GET /api/__sitemap__/urls/products.
func (a *API) SitemapProducts(w http.ResponseWriter, r *http.Request) {
	a.sitemap(w, r, a.svc.Sitemap.Products)
}

// SitemapProductCategories handles GET /api/__sitemap__/urls/product-categories.
func (a *API) SitemapProductCategories(w http.ResponseWriter, r *http.Request) {
	a.sitemap(w, r, a.svc.Sitemap.ProductCategories)
}

// sitemap serves a URL feed. The sitemap generator treats the feeds as
// best effort, so failures degrade to an empty list.
func (a *API) sitemap(w http.ResponseWriter, r *http.Request, feed func(context.Context) ([]service.SitemapURL, error)) {
	urls, err := feed(r.Context())
	if err != nil {
		slog.Error("sitemap feed failed", "error", err, "path", r.URL.Path)
		urls = []service.SitemapURL{}
	}
	writeJSON(w, http.StatusOK, urls)
}
