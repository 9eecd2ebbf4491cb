// Package router sets up all HTTP routes and middleware chains for the
// directory API. Read endpoints live under /api; /health and /metrics sit
// outside the rate limit and the response cache.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"serpco/internal/cache"
	"serpco/internal/handlers"
	"serpco/internal/metrics"
	"serpco/internal/middleware"
)

// Deps are the handlers and optional middleware the router mounts.
// Cache and Limiter may be nil.
type Deps struct {
	API     *handlers.API
	Health  *handlers.Health
	Cache   *cache.ResponseCache
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(metrics.Instrument(routePattern))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Method(http.MethodGet, "/health", d.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	api := d.API
	r.Route("/api", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}

		// Listings.
		r.Group(func(r chi.Router) {
			r.Use(cached(d.Cache, cache.ListPolicy))
			r.Get("/categories", api.ListCategories)
			r.Get("/companies", api.ListCompanies)
			r.Get("/companies/search", api.SearchCompanies)
			r.Get("/posts", api.ListPosts)
			r.Get("/posts/search", api.SearchPosts)
			r.Get("/blog", api.ListBlog)
			r.Get("/glossary", api.ListGlossary)
			r.Get("/tags", api.ListTags)
		})

		// Details.
		r.Group(func(r chi.Router) {
			r.Use(cached(d.Cache, cache.DetailPolicy))
			r.Get("/categories/{slug}", api.GetCategory)
			r.Get("/companies/{slug}", api.GetCompany)
			r.Get("/posts/{slug}", api.GetPost)
			r.Get("/tags/{slug}", api.GetTag)
		})

		// Sitemap feeds answer [] on failure, so they are never cached.
		r.Route("/__sitemap__/urls", func(r chi.Router) {
			r.Get("/posts", api.SitemapPosts)
			r.Get("/post-categories", api.SitemapPostCategories)
			r.Get("/products", api.SitemapProducts)
			r.Get("/product-categories", api.SitemapProductCategories)
		})
	})

	return r
}

// cached returns the response cache middleware for policy, or a pass-through
// when caching is disabled.
func cached(c *cache.ResponseCache, policy cache.Policy) func(http.Handler) http.Handler {
	if c == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return c.Handler(policy)
}

// routePattern labels metrics with the matched chi pattern rather than the
// raw path, so slugs do not explode label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
