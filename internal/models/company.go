// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Company is a product/vendor listed in the directory. Slugs are globally
// unique. Alternatives and tag memberships live in junction tables and are
// hydrated separately.
type Company struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Logo        *string    `json:"logo"`
	Domain      *string    `json:"domain"`
	Excerpt     *string    `json:"excerpt"`
	OneLiner    *string    `json:"oneLiner"`
	SerplyLink  *string    `json:"serplyLink"`
	Content     *string    `json:"content"`
	VideoID     *string    `json:"videoId"`
	Screenshots StringList `json:"screenshots"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CompanySummary is the list-view projection of a Company. It omits the
// long-form content, video and screenshots.
type CompanySummary struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Logo      *string   `json:"logo"`
	Excerpt   *string   `json:"excerpt"`
	Domain    *string   `json:"domain"`
	OneLiner  *string   `json:"oneLiner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary projects the full record down to its list-view fields.
func (c *Company) Summary() CompanySummary {
	return CompanySummary{
		ID:        c.ID,
		Slug:      c.Slug,
		Name:      c.Name,
		Logo:      c.Logo,
		Excerpt:   c.Excerpt,
		Domain:    c.Domain,
		OneLiner:  c.OneLiner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
