// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go caches successful and not-found API responses. An entry is
// fresh for MaxAge; after that, and for StaleWhileRevalidate more, it is
// still served while a single background request refreshes it.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"serpco/internal/metrics"
)

const responseKeyPrefix = "resp:"

// Policy sets the freshness of one class of responses.
type Policy struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
}

var (
	// ListPolicy applies to listing endpoints.
	ListPolicy = Policy{MaxAge: 15 * time.Minute, StaleWhileRevalidate: time.Hour}
	// DetailPolicy applies to single-entity endpoints.
	DetailPolicy = Policy{MaxAge: time.Hour, StaleWhileRevalidate: 24 * time.Hour}
	// NotFoundPolicy applies to 404 responses of any endpoint.
	NotFoundPolicy = Policy{MaxAge: 5 * time.Minute}
)

// CacheControl renders the Cache-Control header for p.
func (p Policy) CacheControl() string {
	v := fmt.Sprintf("public, max-age=%d", int(p.MaxAge.Seconds()))
	if p.StaleWhileRevalidate > 0 {
		v += fmt.Sprintf(", stale-while-revalidate=%d", int(p.StaleWhileRevalidate.Seconds()))
	}
	return v
}

// entry is the stored form of a response.
type entry struct {
	Status      int       `json:"status"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"storedAt"`
	Policy      Policy    `json:"policy"`
}

func (e *entry) age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// ResponseCache is HTTP middleware caching GET responses in a Store.
type ResponseCache struct {
	store   Store
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration // bound on background refreshes
}

// NewResponseCache returns a cache writing to store.
func NewResponseCache(store Store) *ResponseCache {
	return &ResponseCache{store: store, now: time.Now, timeout: 30 * time.Second}
}

// Handler wraps next, caching its 200 responses under policy and its 404
// responses under NotFoundPolicy. Other statuses pass through uncached.
func (c *ResponseCache) Handler(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			key := Key(r)

			if e, ok := c.lookup(r.Context(), key); ok {
				age := e.age(c.now())
				switch {
				case age < e.Policy.MaxAge:
					metrics.CacheLookup("hit")
					write(w, e, "HIT")
					return
				case age < e.Policy.MaxAge+e.Policy.StaleWhileRevalidate:
					metrics.CacheLookup("stale")
					write(w, e, "STALE")
					c.refresh(key, r, next, policy)
					return
				}
			}

			metrics.CacheLookup("miss")
			e := c.fill(key, r, next, policy)
			write(w, e, "MISS")
		})
	}
}

// Purge drops every cached response and returns the number removed.
func (c *ResponseCache) Purge(ctx context.Context) (int, error) {
	return c.store.DeletePrefix(ctx, responseKeyPrefix)
}

// Key derives the cache key from the path and the canonical (sorted)
// query string.
func Key(r *http.Request) string {
	k := responseKeyPrefix + r.URL.Path
	if q := r.URL.Query().Encode(); q != "" {
		k += "?" + q
	}
	return k
}

func (c *ResponseCache) lookup(ctx context.Context, key string) (*entry, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		slog.Warn("response cache entry unreadable", "key", key, "error", err)
		return nil, false
	}
	return &e, true
}

// fill serves r through next, stores the response when cacheable, and
// returns it.
func (c *ResponseCache) fill(key string, r *http.Request, next http.Handler, policy Policy) *entry {
	rec := newRecorder()
	next.ServeHTTP(rec, r)
	e := &entry{
		Status:      rec.status,
		ContentType: rec.header.Get("Content-Type"),
		Body:        rec.body.Bytes(),
		StoredAt:    c.now(),
	}

	switch rec.status {
	case http.StatusOK:
		e.Policy = policy
	case http.StatusNotFound:
		e.Policy = NotFoundPolicy
	default:
		return e
	}

	raw, err := json.Marshal(e)
	if err != nil {
		slog.Warn("response cache encode error", "key", key, "error", err)
		return e
	}
	ttl := e.Policy.MaxAge + e.Policy.StaleWhileRevalidate
	if err := c.store.Set(r.Context(), key, raw, ttl); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
	return e
}

// refresh re-renders key in the background. Concurrent refreshes of one key
// collapse into a single request.
func (c *ResponseCache) refresh(key string, r *http.Request, next http.Handler, policy Policy) {
	ctx, cancel := context.WithTimeout(detach(r.Context()), c.timeout)
	req := r.Clone(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		slog.Debug("response cache refresh", "key", key)
		return c.fill(key, req, next, policy), nil
	})
	go func() {
		defer cancel()
		<-ch
	}()
}

// detach returns a context that outlives the request. The router's route
// context is pooled and reset once the request ends, so URL params are
// copied into a fresh one.
func detach(ctx context.Context) context.Context {
	out := context.WithoutCancel(ctx)
	rctx := chi.RouteContext(ctx)
	if rctx == nil {
		return out
	}
	cp := chi.NewRouteContext()
	cp.RoutePath = rctx.RoutePath
	cp.RouteMethod = rctx.RouteMethod
	cp.RoutePatterns = append(cp.RoutePatterns, rctx.RoutePatterns...)
	cp.URLParams.Keys = append(cp.URLParams.Keys, rctx.URLParams.Keys...)
	cp.URLParams.Values = append(cp.URLParams.Values, rctx.URLParams.Values...)
	return context.WithValue(out, chi.RouteCtxKey, cp)
}

func write(w http.ResponseWriter, e *entry, state string) {
	if e.ContentType != "" {
		w.Header().Set("Content-Type", e.ContentType)
	}
	w.Header().Set("X-Cache", state)
	if e.Policy.MaxAge > 0 {
		w.Header().Set("Cache-Control", e.Policy.CacheControl())
	}
	w.WriteHeader(e.Status)
	w.Write(e.Body)
}

// recorder buffers a response so it can be stored before being written.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func newRecorder() *recorder {
	return &recorder{header: http.Header{}, status: http.StatusOK}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) {
	if r.wrote {
		return
	}
	r.status = code
	r.wrote = true
}

func (r *recorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.body.Write(b)
}
