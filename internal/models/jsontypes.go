// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FAQ is a single question/answer pair attached to a category.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQs is an ordered list of FAQ entries stored as a JSONB column.
// A NULL column scans to a nil slice.
type FAQs []FAQ

// Scan implements sql.Scanner.
func (f *FAQs) Scan(src any) error {
	return scanJSON(src, f)
}

// Value implements driver.Valuer.
func (f FAQs) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal([]FAQ(f))
}

// StringList is a list of strings stored as a JSONB array (screenshot URLs).
type StringList []string

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	return scanJSON(src, s)
}

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal([]string(s))
}

// scanJSON decodes a JSONB column value into dst. NULL leaves dst untouched.
func scanJSON(src any, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan json: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("scan json: %w", err)
	}
	return nil
}
