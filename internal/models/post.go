// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostType distinguishes blog articles from glossary entries in the posts table.
type PostType string

const (
	PostTypeBlog     PostType = "blog"
	PostTypeGlossary PostType = "glossary"
)

// Valid reports whether t is one of the known post types.
func (t PostType) Valid() bool {
	return t == PostTypeBlog || t == PostTypeGlossary
}

// Post is a blog article or glossary entry.
type Post struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Type          PostType  `json:"type"`
	Image         *string   `json:"image"`
	Author        *string   `json:"author"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featuredImage"`
	Content       *string   `json:"content"`
	VideoID       *string   `json:"videoId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PostSummary is the list-view projection of a Post.
type PostSummary struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Type          PostType  `json:"type"`
	Image         *string   `json:"image"`
	Author        *string   `json:"author"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featuredImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Populated only when a listing asks for categories.
	Categories []CategoryRef `json:"categories,omitempty"`
}

// Summary projects the full record down to its list-view fields.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Type:          p.Type,
		Image:         p.Image,
		Author:        p.Author,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
