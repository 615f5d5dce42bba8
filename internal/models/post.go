package models

import (
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post is a blog article as served by the content API.
type Post struct {
	ID              string     `json:"_id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt,omitempty"`
	Status          Status     `json:"status"`
	Category        *Category  `json:"category,omitempty"`
	Keywords        []string   `json:"keywords"`
	MetaTitle       string     `json:"metaTitle,omitempty"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	CanonicalURL    string     `json:"canonicalUrl,omitempty"`
	OGImage         string     `json:"ogImage,omitempty"`
	Author          string     `json:"author,omitempty"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Publishable reports whether the post may have a public route: it must be
// published, dated, and point at a category with a slug.
func (p *Post) Publishable() bool {
	return p != nil &&
		p.Status == StatusPublished &&
		p.PublishedAt != nil &&
		p.Category != nil && p.Category.Slug != ""
}

// CategoryName returns the category display name or "Uncategorized".
func (p *Post) CategoryName() string {
	if p.Category == nil || p.Category.Name == "" {
		return "Uncategorized"
	}
	return p.Category.Name
}

// PostPayload is the body of POST/PUT /admin/blogs.
type PostPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt,omitempty"`
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords"`
	CanonicalURL    string   `json:"canonicalUrl,omitempty"`
	OGImage         string   `json:"ogImage,omitempty"`
	Category        string   `json:"category"`
	Status          Status   `json:"status"`
}
