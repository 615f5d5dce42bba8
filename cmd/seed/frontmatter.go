package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pencilpost/internal/forms"
	"pencilpost/internal/models"
)

// FrontMatter is the YAML header of an importable markdown file.
type FrontMatter struct {
	Title        string    `yaml:"title"`
	Description  string    `yaml:"description"`
	Excerpt      string    `yaml:"excerpt"`
	Category     string    `yaml:"category"`
	Keywords     []string  `yaml:"keywords"`
	Tags         []string  `yaml:"tags"`
	CanonicalURL string    `yaml:"canonicalUrl"`
	Image        string    `yaml:"image"`
	PublishDate  yaml.Node `yaml:"publishDate"`
	Draft        bool      `yaml:"draft"`
}

// Document is one parsed markdown file.
type Document struct {
	FrontMatter
	Body string
}

var frontMatterRegex = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n?`)

// ParseDocument splits a markdown file into its front matter and body.
func ParseDocument(raw string) (*Document, error) {
	matches := frontMatterRegex.FindStringSubmatch(raw)
	if len(matches) < 2 {
		return nil, fmt.Errorf("no front matter")
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(matches[1]), &doc.FrontMatter); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	doc.Body = strings.TrimSpace(raw[len(matches[0]):])
	if strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("front matter has no title")
	}
	return &doc, nil
}

// Published returns the publish date, accepting a bare date or a timestamp.
func (fm FrontMatter) Published() (time.Time, bool) {
	if fm.PublishDate.Kind != yaml.ScalarNode || fm.PublishDate.Value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, fm.PublishDate.Value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PostDraft maps the document to an editor draft in the given category.
func (d *Document) PostDraft(categoryID string) forms.PostDraft {
	status := models.StatusPublished
	if d.FrontMatter.Draft {
		status = models.StatusDraft
	}
	keywords := d.Keywords
	if len(keywords) == 0 {
		keywords = d.Tags
	}
	return forms.PostDraft{
		Title:           d.Title,
		Content:         d.Body,
		Excerpt:         d.Excerpt,
		MetaDescription: d.Description,
		Keywords:        strings.Join(keywords, ", "),
		CanonicalURL:    d.CanonicalURL,
		OGImage:         d.Image,
		Category:        categoryID,
		Status:          string(status),
	}
}
