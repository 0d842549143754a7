package model

import (
	"strings"
	"time"
)

// Page is a content page addressed by its slash separated path,
// e.g. "docs/cookbook/setup/git".
type Page struct {
	Path      string
	Slug      string
	Template  string
	Title     string
	Body      string
	UpdatedAt time.Time
}

// NewVirtualPage builds a page that only exists at request time.
func NewVirtualPage(slug, template, title string) *Page {
	return &Page{
		Path:      slug,
		Slug:      slug,
		Template:  template,
		Title:     title,
		UpdatedAt: time.Now(),
	}
}

// URL is the site relative address of the page.
func (p *Page) URL() string { return "/" + strings.Trim(p.Path, "/") }

// Parent returns the path of the parent page, "" for top level pages.
func (p *Page) Parent() string {
	i := strings.LastIndex(p.Path, "/")
	if i < 0 {
		return ""
	}
	return p.Path[:i]
}
