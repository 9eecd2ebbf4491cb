package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Health reports whether the server's dependencies answer. Required checks
// turn the response into a 503 when they fail; optional ones only report.
type Health struct {
	required map[string]Check
	optional map[string]Check
	timeout  time.Duration
}

// NewHealth creates a Health handler with no checks.
func NewHealth() *Health {
	return &Health{
		required: map[string]Check{},
		optional: map[string]Check{},
		timeout:  2 * time.Second,
	}
}

// Require adds a check whose failure makes the server unhealthy.
func (h *Health) Require(name string, c Check) *Health {
	h.required[name] = c
	return h
}

// Optional adds a check reported without affecting the status.
func (h *Health) Optional(name string, c Check) *Health {
	h.optional[name] = c
	return h
}

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ServeHTTP handles GET /health.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	body := healthBody{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	for name, c := range h.required {
		if err := c(ctx); err != nil {
			slog.Warn("health check failed", "check", name, "error", err)
			body.Checks[name] = "error"
			body.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		body.Checks[name] = "ok"
	}
	for name, c := range h.optional {
		if err := c(ctx); err != nil {
			slog.Warn("health check failed", "check", name, "error", err)
			body.Checks[name] = "degraded"
			continue
		}
		body.Checks[name] = "ok"
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, status, body)
}
