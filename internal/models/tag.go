package models

import "time"

// Tag is a flat topic label shared by companies and posts.
type Tag struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TagSummary is the list-view projection of a Tag. Tags carry no long-form
// fields, so the projection matches the record.
type TagSummary = Tag

// TagRef is the membership view of a tag.
type TagRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Summary returns the list-view projection.
func (t *Tag) Summary() TagSummary {
	return *t
}

// Ref returns the membership projection.
func (t *Tag) Ref() TagRef {
	return TagRef{ID: t.ID, Name: t.Name, Slug: t.Slug}
}
