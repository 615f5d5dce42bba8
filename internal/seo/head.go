package seo

import (
	"encoding/json"
	"html/template"
	"net/url"
	"strings"
	"time"

	"pencilpost/internal/models"
)

// Site is the site-wide information the <head> needs.
type Site struct {
	Name        string
	URL         string // public origin, no trailing slash
	Description string
}

// Head is what base.html renders into <head>.
type Head struct {
	Title         string
	Description   string
	Keywords      string
	Canonical     string
	Image         string
	OGType        string
	SiteName      string
	Author        string
	PublishedTime string
	TwitterCard   string
	Robots        string
	JSONLD        template.JS
}

// BuildHead expands metadata against the site configuration: titles get the
// "%s | {site}" template and relative URLs become absolute.
func BuildHead(site Site, md models.ResolvedMetadata) Head {
	title := site.Name
	if md.Title != "" && md.Title != site.Name {
		title = md.Title + " | " + site.Name
	}
	description := md.Description
	if description == "" && !md.NoIndex {
		description = site.Description
	}
	robots := "index, follow"
	if md.NoIndex {
		robots = "noindex"
	}

	h := Head{
		Title:       title,
		Description: description,
		Keywords:    strings.Join(md.Keywords, ", "),
		Image:       AbsURL(site.URL, md.SocialImage),
		OGType:      md.OGType,
		SiteName:    site.Name,
		Author:      md.Author,
		TwitterCard: "summary_large_image",
		Robots:      robots,
	}
	if md.CanonicalURL != "" {
		h.Canonical = AbsURL(site.URL, md.CanonicalURL)
	}
	if md.PublishedTime != nil {
		h.PublishedTime = md.PublishedTime.UTC().Format(time.RFC3339)
	}
	return h
}

// AbsURL resolves ref against base. Absolute refs are returned unchanged.
func AbsURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return strings.TrimRight(base, "/") + ref
}

// WebsiteJSONLD returns WebSite structured data for the site.
func WebsiteJSONLD(site Site) template.JS {
	return marshalJSONLD(map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         site.URL + "/",
		"description": site.Description,
	})
}

// BlogPostingJSONLD returns BlogPosting structured data for a post.
func BlogPostingJSONLD(site Site, post *models.Post, md models.ResolvedMetadata) template.JS {
	postURL := AbsURL(site.URL, md.CanonicalURL)
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    md.Title,
		"description": md.Description,
		"image":       AbsURL(site.URL, md.SocialImage),
		"url":         postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
	}
	if post.Author != "" {
		data["author"] = map[string]string{"@type": "Person", "name": post.Author}
	}
	if post.PublishedAt != nil {
		data["datePublished"] = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	if post.UpdatedAt != nil {
		data["dateModified"] = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if len(md.Keywords) > 0 {
		data["keywords"] = strings.Join(md.Keywords, ", ")
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
