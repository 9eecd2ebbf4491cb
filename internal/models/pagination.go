// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Pagination describes one page of a listing. All derived fields are
// computed by NewPagination and stay consistent with Total and Limit.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NewPagination builds the pagination block for a 1-based page. page and
// limit must be positive.
func NewPagination(page, limit, total int) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		HasMore:    Offset(page, limit)+limit < total,
	}
}

// Offset returns the row offset of a 1-based page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// ListResponse is the envelope returned by every listing operation.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SitemapEntry is the minimal projection used to build sitemap URLs.
type SitemapEntry struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}
