// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"serpco/internal/models"
)

// Params is an untrusted parameter bag, typically decoded from a query
// string. Values may be strings, numbers or booleans.
type Params map[string]any

// ParamsFromQuery keeps the first value of every query key.
func ParamsFromQuery(q url.Values) Params {
	p := make(Params, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p
}

// With returns a copy of p with key set to v.
func (p Params) With(key string, v any) Params {
	out := make(Params, len(p)+1)
	for k, x := range p {
		out[k] = x
	}
	out[key] = v
	return out
}

// defaultRelate is the default size of a hydrated related collection.
const defaultRelate = 20

// Pages are capped at 1000000 (the page tag below) so that the row offset
// (page-1)*limit stays far inside int range for every limit cap.

// Parameter schemas. The param tag names the query key and is used in
// validation messages.

type categoryListParams struct {
	Page       int               `param:"page" validate:"min=1,max=1000000"`
	Limit      int               `param:"limit" validate:"min=1,max=100"`
	EntityType string            `param:"entityType" validate:"max=50"`
	Search     string            `param:"search" validate:"max=100"`
	SortBy     models.SortOption `param:"sortBy" validate:"oneof=name-asc name-desc recent updated"`
}

type companyListParams struct {
	Page     int               `param:"page" validate:"min=1,max=1000000"`
	Limit    int               `param:"limit" validate:"min=1,max=100"`
	Category string            `param:"category" validate:"max=100"`
	Tag      string            `param:"tag" validate:"max=100"`
	Search   string            `param:"search" validate:"max=100"`
	SortBy   models.SortOption `param:"sortBy" validate:"oneof=name-asc name-desc recent updated"`
}

type postListParams struct {
	Page              int               `param:"page" validate:"min=1,max=1000000"`
	Limit             int               `param:"limit" validate:"min=1,max=200"`
	Type              models.PostType   `param:"type" validate:"omitempty,oneof=blog glossary"`
	Category          string            `param:"category" validate:"max=100"`
	Tag               string            `param:"tag" validate:"max=100"`
	Search            string            `param:"search" validate:"max=100"`
	SortBy            models.SortOption `param:"sortBy" validate:"oneof=name-asc name-desc recent updated"`
	IncludeCategories bool              `param:"includeCategories"`
}

type tagListParams struct {
	Page   int               `param:"page" validate:"min=1,max=1000000"`
	Limit  int               `param:"limit" validate:"min=1,max=150"`
	Search string            `param:"search" validate:"max=100"`
	SortBy models.SortOption `param:"sortBy" validate:"oneof=name-asc name-desc recent updated"`
}

type slugParams struct {
	Slug string `param:"slug" validate:"required,max=100"`
}

type categoryDetailParams struct {
	Slug             string `param:"slug" validate:"required,max=100"`
	EntityType       string `param:"entityType" validate:"required,max=50"`
	CompanyLimit     int    `param:"companyLimit" validate:"min=1,max=50"`
	PostLimit        int    `param:"postLimit" validate:"min=1,max=50"`
	IncludeCompanies bool   `param:"includeCompanies"`
	IncludePosts     bool   `param:"includePosts"`
}

type tagDetailParams struct {
	Slug             string `param:"slug" validate:"required,max=100"`
	CompanyLimit     int    `param:"companyLimit" validate:"min=1,max=50"`
	PostLimit        int    `param:"postLimit" validate:"min=1,max=50"`
	IncludeCompanies bool   `param:"includeCompanies"`
	IncludePosts     bool   `param:"includePosts"`
}

type searchParams struct {
	Query string          `param:"q" validate:"max=100"`
	Type  models.PostType `param:"type" validate:"omitempty,oneof=blog glossary"`
	Limit int             `param:"limit" validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("param"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// decoder coerces raw values and collects every problem it meets, so one
// InvalidParamsError can report all of them.
type decoder struct {
	params   Params
	problems []string
}

func newDecoder(p Params) *decoder {
	return &decoder{params: p}
}

// raw returns the value under key. Nil and blank strings count as absent.
func (d *decoder) raw(key string) (any, bool) {
	v, ok := d.params[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		return s, true
	}
	return v, true
}

func (d *decoder) Int(key string, def int) int {
	v, ok := d.raw(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			d.problems = append(d.problems, key+" must be an integer")
			return def
		}
	case string:
		// Plain decimal only; cast would also take 0x10, 0o7 or 1_000.
		i, err := strconv.Atoi(n)
		if err != nil {
			d.problems = append(d.problems, key+" must be an integer")
			return def
		}
		return i
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		d.problems = append(d.problems, key+" must be an integer")
		return def
	}
	return n
}

func (d *decoder) Bool(key string, def bool) bool {
	v, ok := d.raw(key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		d.problems = append(d.problems, key+" must be a boolean")
		return def
	}
	return b
}

func (d *decoder) String(key string) string {
	v, ok := d.raw(key)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		d.problems = append(d.problems, key+" must be a string")
		return ""
	}
	return strings.TrimSpace(s)
}

func (d *decoder) StringOr(key, def string) string {
	if s := d.String(key); s != "" {
		return s
	}
	return def
}

// finish validates dst and returns an *InvalidParamsError carrying decoding
// and validation problems, or nil.
func (d *decoder) finish(dst any) error {
	problems := d.problems
	if err := validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return internal("validate parameters", err)
		}
		for _, fe := range ves {
			problems = append(problems, describe(fe))
		}
	}
	if len(problems) > 0 {
		return &InvalidParamsError{Problems: problems}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", fe.Field(), fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", fe.Field(), fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fe.Field() + " is invalid"
	}
}

func decodeCategoryList(p Params) (categoryListParams, error) {
	d := newDecoder(p)
	out := categoryListParams{
		Page:       d.Int("page", 1),
		Limit:      d.Int("limit", 50),
		EntityType: d.String("entityType"),
		Search:     d.String("search"),
		SortBy:     models.SortOption(d.StringOr("sortBy", string(models.SortNameAsc))),
	}
	return out, d.finish(&out)
}

func decodeCompanyList(p Params) (companyListParams, error) {
	d := newDecoder(p)
	out := companyListParams{
		Page:     d.Int("page", 1),
		Limit:    d.Int("limit", 24),
		Category: d.String("category"),
		Tag:      d.String("tag"),
		Search:   d.String("search"),
		SortBy:   models.SortOption(d.StringOr("sortBy", string(models.SortNameAsc))),
	}
	return out, d.finish(&out)
}

func decodePostList(p Params) (postListParams, error) {
	d := newDecoder(p)
	out := postListParams{
		Page:              d.Int("page", 1),
		Limit:             d.Int("limit", 24),
		Type:              models.PostType(d.String("type")),
		Category:          d.String("category"),
		Tag:               d.String("tag"),
		Search:            d.String("search"),
		SortBy:            models.SortOption(d.StringOr("sortBy", string(models.SortRecent))),
		IncludeCategories: d.Bool("includeCategories", false),
	}
	return out, d.finish(&out)
}

func decodeTagList(p Params) (tagListParams, error) {
	d := newDecoder(p)
	out := tagListParams{
		Page:   d.Int("page", 1),
		Limit:  d.Int("limit", 50),
		Search: d.String("search"),
		SortBy: models.SortOption(d.StringOr("sortBy", string(models.SortNameAsc))),
	}
	return out, d.finish(&out)
}

func decodeSlug(slug string) (string, error) {
	d := newDecoder(Params{"slug": slug})
	out := slugParams{Slug: d.String("slug")}
	return out.Slug, d.finish(&out)
}

func decodeCategoryDetail(slug string, p Params) (categoryDetailParams, error) {
	d := newDecoder(p.With("slug", slug))
	out := categoryDetailParams{
		Slug:             d.String("slug"),
		EntityType:       d.StringOr("entityType", models.EntityTypeCompany),
		CompanyLimit:     d.Int("companyLimit", defaultRelate),
		PostLimit:        d.Int("postLimit", defaultRelate),
		IncludeCompanies: d.Bool("includeCompanies", true),
		IncludePosts:     d.Bool("includePosts", true),
	}
	return out, d.finish(&out)
}

func decodeTagDetail(slug string, p Params) (tagDetailParams, error) {
	d := newDecoder(p.With("slug", slug))
	out := tagDetailParams{
		Slug:             d.String("slug"),
		CompanyLimit:     d.Int("companyLimit", defaultRelate),
		PostLimit:        d.Int("postLimit", defaultRelate),
		IncludeCompanies: d.Bool("includeCompanies", true),
		IncludePosts:     d.Bool("includePosts", true),
	}
	return out, d.finish(&out)
}

// Quick-search limits are clamped rather than rejected.
const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func decodeSearch(p Params) (searchParams, error) {
	d := newDecoder(p)
	out := searchParams{
		Query: d.StringOr("q", d.String("search")),
		Type:  models.PostType(d.String("type")),
		Limit: d.Int("limit", defaultSearchLimit),
	}
	if out.Limit > maxSearchLimit {
		out.Limit = maxSearchLimit
	}
	return out, d.finish(&out)
}
