// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed loads directory content exported as JSON (categories.json,
// tags.json and entities.json) into the database.
package seed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File names inside a seed directory.
const (
	CategoriesFile = "categories.json"
	TagsFile       = "tags.json"
	EntitiesFile   = "entities.json"
)

// Entity modules in entities.json.
const (
	ModuleCompany = "company"
	ModulePost    = "post"
)

// Ref points at another record by slug, or by domain for alternatives.
type Ref struct {
	Slug   string `json:"slug"`
	Domain string `json:"domain"`
}

// CategoryRecord is one entry of categories.json. Module is the entity type
// the category classifies.
type CategoryRecord struct {
	Module string `json:"module"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Data   struct {
		FAQs        []FAQRecord `json:"faqs"`
		BuyersGuide *string     `json:"buyers_guide"`
	} `json:"data"`
}

// FAQRecord is a question/answer pair of a category.
type FAQRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TagRecord is one entry of tags.json.
type TagRecord struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// EntityRecord is one entry of entities.json, either a company or a post.
type EntityRecord struct {
	Module string  `json:"module"`
	Slug   string  `json:"slug"`
	Name   string  `json:"name"`
	Image  *string `json:"image"`
	Data   struct {
		Logo          *string `json:"logo"`
		Domain        *string `json:"domain"`
		Excerpt       *string `json:"excerpt"`
		OneLiner      *string `json:"oneLiner"`
		SerplyLink    *string `json:"serplyLink"`
		Module        *string `json:"module"` // post type
		Author        *string `json:"author"`
		FeaturedImage *string `json:"featuredImage"`
	} `json:"data"`
	SingleData struct {
		Content      *string  `json:"content"`
		VideoID      *string  `json:"videoId"`
		Screenshots  []string `json:"screenshots"`
		Alternatives []Ref    `json:"alternatives"`
		Related      []Ref    `json:"related"`
	} `json:"single_data"`
	Categories []Ref `json:"categories"`
	Topics     []Ref `json:"topics"`
}

// Dataset is the full content of a seed directory.
type Dataset struct {
	Categories []CategoryRecord
	Tags       []TagRecord
	Entities   []EntityRecord
}

// Empty reports whether the dataset holds no records.
func (d *Dataset) Empty() bool {
	return len(d.Categories) == 0 && len(d.Tags) == 0 && len(d.Entities) == 0
}

// LoadDir reads a dataset from a directory on disk.
func LoadDir(dir string) (*Dataset, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads a dataset from fsys. Missing files count as empty; a
// directory without any of them is an error.
func LoadFS(fsys fs.FS) (*Dataset, error) {
	var (
		d     Dataset
		found int
	)
	for _, f := range []struct {
		name string
		dst  any
	}{
		{CategoriesFile, &d.Categories},
		{TagsFile, &d.Tags},
		{EntitiesFile, &d.Entities},
	} {
		ok, err := readJSON(fsys, f.name, f.dst)
		if err != nil {
			return nil, err
		}
		if ok {
			found++
		}
	}
	if found == 0 {
		return nil, fmt.Errorf("no seed files found (want %s, %s or %s)", CategoriesFile, TagsFile, EntitiesFile)
	}
	return &d, nil
}

func readJSON(fsys fs.FS, name string, dst any) (bool, error) {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

//go:embed sample/*.json
var sampleFS embed.FS

// Sample returns the small built-in dataset used to populate an empty
// development database.
func Sample() (*Dataset, error) {
	sub, err := fs.Sub(sampleFS, "sample")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}
