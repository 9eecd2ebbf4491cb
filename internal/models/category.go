// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// EntityTypeCompany and EntityTypePost are the category scopes in use.
// A category slug is only unique within its entity type.
const (
	EntityTypeCompany = "company"
	EntityTypePost    = "post"
)

// Category is a taxonomy node that groups companies or posts. Categories are
// scoped by EntityType; the pair (EntityType, Slug) is unique.
type Category struct {
	ID          int64     `json:"id"`
	EntityType  string    `json:"entityType"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	FAQs        FAQs      `json:"faqs"`
	BuyingGuide *string   `json:"buyingGuide"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategorySummary is the list-view projection of a Category.
type CategorySummary struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	EntityType string    `json:"entityType"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CategoryRef is the membership view returned when listing the categories
// a company or post belongs to.
type CategoryRef struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	EntityType string `json:"entityType"`
}

// Summary projects the full record down to its list-view fields.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{
		ID:         c.ID,
		Slug:       c.Slug,
		Name:       c.Name,
		EntityType: c.EntityType,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// Ref projects the full record down to its membership fields.
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug, EntityType: c.EntityType}
}
