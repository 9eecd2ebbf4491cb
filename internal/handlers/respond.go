// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"serpco/internal/middleware"
	"serpco/internal/service"
)

// errorBody is the envelope of every failed API response.
type errorBody struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError maps a service outcome to its HTTP status. Invalid parameters
// and missing entities are client errors; anything else is logged and
// reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid  *service.InvalidParamsError
		notFound *service.NotFoundError
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody{
			StatusCode:    http.StatusBadRequest,
			StatusMessage: invalid.Error(),
		})
	case errors.As(err, &notFound):
		slog.Debug("not found", "entity", notFound.Entity, "slug", notFound.Slug, "path", r.URL.Path)
		writeJSON(w, http.StatusNotFound, errorBody{
			StatusCode:    http.StatusNotFound,
			StatusMessage: notFound.Entity + " not found",
		})
	default:
		slog.Error("request failed",
			"error", err,
			"request_id", middleware.RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			StatusCode:    http.StatusInternalServerError,
			StatusMessage: "Internal server error",
		})
	}
}

// NotFound answers requests that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{StatusCode: http.StatusNotFound, StatusMessage: "Not found"})
}

// MethodNotAllowed answers requests whose route exists for other methods.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		StatusCode:    http.StatusMethodNotAllowed,
		StatusMessage: "Method not allowed",
	})
}
