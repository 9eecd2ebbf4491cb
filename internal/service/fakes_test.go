package service

import (
	"context"
	"sync"
	"time"

	"serpco/internal/models"
	"serpco/internal/store"
)

// calls counts repository calls by method name. The services fan out
// concurrently, so it is mutex-guarded.
type calls struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *calls) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = map[string]int{}
	}
	c.n[name]++
}

func (c *calls) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

func (c *calls) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.n {
		n += v
	}
	return n
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeDirectory is an in-memory directory. It implements every repository
// interface through the small adapter types below.
type fakeDirectory struct {
	calls *calls
	err   error // returned by every call when set

	categories []models.Category
	companies  []models.Company
	posts      []models.Post
	tags       []models.Tag

	companyCategories map[int64][]int64 // company id -> category ids
	companyTags       map[int64][]int64
	alternatives      map[int64][]int64
	postCategories    map[int64][]int64
	postTags          map[int64][]int64
	related           map[int64][]int64

	lastCompanyFilter store.CompanyFilter
	lastPostFilter    store.PostFilter
	lastCategory      store.CategoryFilter
	lastTagFilter     store.TagFilter
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		calls:             &calls{},
		companyCategories: map[int64][]int64{},
		companyTags:       map[int64][]int64{},
		alternatives:      map[int64][]int64{},
		postCategories:    map[int64][]int64{},
		postTags:          map[int64][]int64{},
		related:           map[int64][]int64{},
	}
}

func (d *fakeDirectory) repos() Repositories {
	return Repositories{
		Categories: fakeCategories{d},
		Companies:  fakeCompanies{d},
		Posts:      fakePosts{d},
		Tags:       fakeTags{d},
	}
}

func contains(ids []int64, id int64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func window[T any](xs []T, p store.Page) []T {
	if p.Offset >= len(xs) {
		return []T{}
	}
	xs = xs[p.Offset:]
	if p.Limit > 0 && p.Limit < len(xs) {
		xs = xs[:p.Limit]
	}
	return xs
}

type fakeCategories struct{ d *fakeDirectory }

func (f fakeCategories) List(_ context.Context, flt store.CategoryFilter) (*store.ListResult[models.CategorySummary], error) {
	f.d.calls.hit("categories.List")
	f.d.lastCategory = flt
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.CategorySummary
	for i := range f.d.categories {
		c := &f.d.categories[i]
		if flt.EntityType == "" || c.EntityType == flt.EntityType {
			out = append(out, c.Summary())
		}
	}
	return &store.ListResult[models.CategorySummary]{Items: window(out, flt.Page), Total: len(out)}, nil
}

func (f fakeCategories) FindBySlug(_ context.Context, entityType, slug string) (*models.Category, error) {
	f.d.calls.hit("categories.FindBySlug")
	if f.d.err != nil {
		return nil, f.d.err
	}
	for _, c := range f.d.categories {
		if c.EntityType == entityType && c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeCategories) refs(ids []int64) []models.CategoryRef {
	var out []models.CategoryRef
	for i := range f.d.categories {
		if contains(ids, f.d.categories[i].ID) {
			out = append(out, f.d.categories[i].Ref())
		}
	}
	return out
}

func (f fakeCategories) ListForCompany(_ context.Context, id int64) ([]models.CategoryRef, error) {
	f.d.calls.hit("categories.ListForCompany")
	if f.d.err != nil {
		return nil, f.d.err
	}
	return f.refs(f.d.companyCategories[id]), nil
}

func (f fakeCategories) ListForPost(_ context.Context, id int64) ([]models.CategoryRef, error) {
	f.d.calls.hit("categories.ListForPost")
	if f.d.err != nil {
		return nil, f.d.err
	}
	return f.refs(f.d.postCategories[id]), nil
}

func (f fakeCategories) ListForPosts(_ context.Context, ids []int64) (map[int64][]models.CategoryRef, error) {
	f.d.calls.hit("categories.ListForPosts")
	if f.d.err != nil {
		return nil, f.d.err
	}
	out := map[int64][]models.CategoryRef{}
	for _, id := range ids {
		if refs := f.refs(f.d.postCategories[id]); len(refs) > 0 {
			out[id] = refs
		}
	}
	return out, nil
}

func (f fakeCategories) ListSitemap(_ context.Context, entityType string) ([]models.SitemapEntry, error) {
	f.d.calls.hit("categories.ListSitemap")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.SitemapEntry
	for _, c := range f.d.categories {
		if c.EntityType == entityType {
			out = append(out, models.SitemapEntry{Slug: c.Slug, UpdatedAt: c.UpdatedAt})
		}
	}
	return out, nil
}

type fakeCompanies struct{ d *fakeDirectory }

func (f fakeCompanies) List(_ context.Context, flt store.CompanyFilter) (*store.ListResult[models.CompanySummary], error) {
	f.d.calls.hit("companies.List")
	f.d.lastCompanyFilter = flt
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.CompanySummary
	for i := range f.d.companies {
		c := &f.d.companies[i]
		if flt.CategorySlug != "" && !f.inCategory(c.ID, flt.CategorySlug) {
			continue
		}
		out = append(out, c.Summary())
	}
	return &store.ListResult[models.CompanySummary]{Items: window(out, flt.Page), Total: len(out)}, nil
}

func (f fakeCompanies) inCategory(companyID int64, slug string) bool {
	for _, c := range f.d.categories {
		if c.Slug == slug && c.EntityType == models.EntityTypeCompany && contains(f.d.companyCategories[companyID], c.ID) {
			return true
		}
	}
	return false
}

func (f fakeCompanies) FindBySlug(_ context.Context, slug string) (*models.Company, error) {
	f.d.calls.hit("companies.FindBySlug")
	if f.d.err != nil {
		return nil, f.d.err
	}
	for _, c := range f.d.companies {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeCompanies) ListAlternatives(_ context.Context, id int64) ([]models.CompanySummary, error) {
	f.d.calls.hit("companies.ListAlternatives")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.CompanySummary
	for i := range f.d.companies {
		if contains(f.d.alternatives[id], f.d.companies[i].ID) {
			out = append(out, f.d.companies[i].Summary())
		}
	}
	return out, nil
}

func (f fakeCompanies) ListByCategoryID(_ context.Context, categoryID int64, limit int) ([]models.CompanySummary, error) {
	f.d.calls.hit("companies.ListByCategoryID")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.CompanySummary
	for i := range f.d.companies {
		if contains(f.d.companyCategories[f.d.companies[i].ID], categoryID) {
			out = append(out, f.d.companies[i].Summary())
		}
	}
	return window(out, store.Page{Limit: limit}), nil
}

func (f fakeCompanies) ListByTagID(_ context.Context, tagID int64, limit int) ([]models.CompanySummary, error) {
	f.d.calls.hit("companies.ListByTagID")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.CompanySummary
	for i := range f.d.companies {
		if contains(f.d.companyTags[f.d.companies[i].ID], tagID) {
			out = append(out, f.d.companies[i].Summary())
		}
	}
	return window(out, store.Page{Limit: limit}), nil
}

func (f fakeCompanies) ListSitemap(_ context.Context) ([]models.SitemapEntry, error) {
	f.d.calls.hit("companies.ListSitemap")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.SitemapEntry
	for _, c := range f.d.companies {
		out = append(out, models.SitemapEntry{Slug: c.Slug, UpdatedAt: c.UpdatedAt})
	}
	return out, nil
}

type fakePosts struct{ d *fakeDirectory }

func (f fakePosts) List(_ context.Context, flt store.PostFilter) (*store.ListResult[models.PostSummary], error) {
	f.d.calls.hit("posts.List")
	f.d.lastPostFilter = flt
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.PostSummary
	for i := range f.d.posts {
		p := &f.d.posts[i]
		if flt.Type == "" || p.Type == flt.Type {
			out = append(out, p.Summary())
		}
	}
	return &store.ListResult[models.PostSummary]{Items: window(out, flt.Page), Total: len(out)}, nil
}

func (f fakePosts) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.d.calls.hit("posts.FindBySlug")
	if f.d.err != nil {
		return nil, f.d.err
	}
	for _, p := range f.d.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (f fakePosts) byIDs(ids []int64) []models.PostSummary {
	var out []models.PostSummary
	for i := range f.d.posts {
		if contains(ids, f.d.posts[i].ID) {
			out = append(out, f.d.posts[i].Summary())
		}
	}
	return out
}

func (f fakePosts) ListRelated(_ context.Context, id int64) ([]models.PostSummary, error) {
	f.d.calls.hit("posts.ListRelated")
	if f.d.err != nil {
		return nil, f.d.err
	}
	return f.byIDs(f.d.related[id]), nil
}

func (f fakePosts) ListByCategoryID(_ context.Context, categoryID int64, limit int) ([]models.PostSummary, error) {
	f.d.calls.hit("posts.ListByCategoryID")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var ids []int64
	for postID, cats := range f.d.postCategories {
		if contains(cats, categoryID) {
			ids = append(ids, postID)
		}
	}
	return window(f.byIDs(ids), store.Page{Limit: limit}), nil
}

func (f fakePosts) ListByTagID(_ context.Context, tagID int64, limit int) ([]models.PostSummary, error) {
	f.d.calls.hit("posts.ListByTagID")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var ids []int64
	for postID, tags := range f.d.postTags {
		if contains(tags, tagID) {
			ids = append(ids, postID)
		}
	}
	return window(f.byIDs(ids), store.Page{Limit: limit}), nil
}

func (f fakePosts) ListSitemap(_ context.Context) ([]models.SitemapEntry, error) {
	f.d.calls.hit("posts.ListSitemap")
	if f.d.err != nil {
		return nil, f.d.err
	}
	var out []models.SitemapEntry
	for _, p := range f.d.posts {
		out = append(out, models.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	return out, nil
}

type fakeTags struct{ d *fakeDirectory }

func (f fakeTags) List(_ context.Context, flt store.TagFilter) (*store.ListResult[models.TagSummary], error) {
	f.d.calls.hit("tags.List")
	f.d.lastTagFilter = flt
	if f.d.err != nil {
		return nil, f.d.err
	}
	return &store.ListResult[models.TagSummary]{Items: window(f.d.tags, flt.Page), Total: len(f.d.tags)}, nil
}

func (f fakeTags) FindBySlug(_ context.Context, slug string) (*models.Tag, error) {
	f.d.calls.hit("tags.FindBySlug")
	if f.d.err != nil {
		return nil, f.d.err
	}
	for _, t := range f.d.tags {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, nil
}

func (f fakeTags) refs(ids []int64) []models.TagRef {
	var out []models.TagRef
	for i := range f.d.tags {
		if contains(ids, f.d.tags[i].ID) {
			out = append(out, f.d.tags[i].Ref())
		}
	}
	return out
}

func (f fakeTags) ListForCompany(_ context.Context, id int64) ([]models.TagRef, error) {
	f.d.calls.hit("tags.ListForCompany")
	if f.d.err != nil {
		return nil, f.d.err
	}
	return f.refs(f.d.companyTags[id]), nil
}

func (f fakeTags) ListForPost(_ context.Context, id int64) ([]models.TagRef, error) {
	f.d.calls.hit("tags.ListForPost")
	if f.d.err != nil {
		return nil, f.d.err
	}
	return f.refs(f.d.postTags[id]), nil
}

// crmDirectory holds category "crm" (company), company A in it, company B
// outside it, a post category, two posts and a tag.
func crmDirectory() *fakeDirectory {
	d := newFakeDirectory()
	guide := "## How to choose a CRM"
	content := "Acme is a **CRM**."
	d.categories = []models.Category{
		{ID: 1, EntityType: models.EntityTypeCompany, Slug: "crm", Name: "CRM", BuyingGuide: &guide, CreatedAt: epoch, UpdatedAt: epoch},
		{ID: 2, EntityType: models.EntityTypePost, Slug: "guides", Name: "Guides", CreatedAt: epoch, UpdatedAt: epoch},
	}
	d.companies = []models.Company{
		{ID: 10, Slug: "a", Name: "A", Content: &content, CreatedAt: epoch, UpdatedAt: epoch},
		{ID: 11, Slug: "b", Name: "B", CreatedAt: epoch, UpdatedAt: epoch},
	}
	d.posts = []models.Post{
		{ID: 20, Slug: "what-is-crm", Name: "What is CRM", Type: models.PostTypeGlossary, CreatedAt: epoch, UpdatedAt: epoch},
		{ID: 21, Slug: "crm-tips", Name: "CRM tips", Type: models.PostTypeBlog, CreatedAt: epoch, UpdatedAt: epoch},
	}
	d.tags = []models.Tag{
		{ID: 30, Slug: "open-source", Name: "Open Source", CreatedAt: epoch, UpdatedAt: epoch},
	}
	d.companyCategories[10] = []int64{1}
	d.companyTags[10] = []int64{30}
	d.alternatives[10] = []int64{11}
	d.postCategories[21] = []int64{2}
	d.postTags[21] = []int64{30}
	d.related[21] = []int64{20}
	return d
}
