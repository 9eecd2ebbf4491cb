// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SortOption selects the ordering of a listing.
type SortOption string

const (
	SortNameAsc  SortOption = "name-asc"
	SortNameDesc SortOption = "name-desc"
	SortRecent   SortOption = "recent"  // created_at descending
	SortUpdated  SortOption = "updated" // updated_at descending
)

// SortOptions lists every accepted sort value, in display order.
var SortOptions = []SortOption{SortNameAsc, SortNameDesc, SortRecent, SortUpdated}

// Valid reports whether s is one of SortOptions.
func (s SortOption) Valid() bool {
	for _, o := range SortOptions {
		if s == o {
			return true
		}
	}
	return false
}
