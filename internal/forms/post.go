package forms

import (
	"strings"

	"pencilpost/internal/models"
)

// PostDraft is the editor state for a post being created or edited.
type PostDraft struct {
	ID              string `form:"-"`
	Title           string `form:"title" validate:"required,max=200"`
	Content         string `form:"content" validate:"required"`
	Excerpt         string `form:"excerpt" validate:"max=1000"`
	MetaTitle       string `form:"metaTitle" validate:"max=200"`
	MetaDescription string `form:"metaDescription" validate:"max=500"`
	Keywords        string `form:"keywords"`
	CanonicalURL    string `form:"canonicalUrl" validate:"omitempty,url"`
	OGImage         string `form:"ogImage" validate:"omitempty,url|startswith=/"`
	Category        string `form:"category" validate:"required"`
	Status          string `form:"status" validate:"oneof=draft published"`
}

// NewPostDraft is the blank editor: a draft in the first category.
func NewPostDraft(categories []models.Category) PostDraft {
	d := PostDraft{Status: string(models.StatusDraft)}
	if len(categories) > 0 {
		d.Category = categories[0].ID
	}
	return d
}

// FromPost loads an existing post into the editor.
func FromPost(p *models.Post) PostDraft {
	d := PostDraft{
		ID:              p.ID,
		Title:           p.Title,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Keywords:        strings.Join(p.Keywords, ", "),
		CanonicalURL:    p.CanonicalURL,
		OGImage:         p.OGImage,
		Status:          string(p.Status),
	}
	if p.Category != nil {
		d.Category = p.Category.ID
	}
	if d.Status == "" {
		d.Status = string(models.StatusDraft)
	}
	return d
}

// Editing reports whether the draft targets an existing post.
func (d PostDraft) Editing() bool {
	return d.ID != ""
}

func (d PostDraft) trimmed() PostDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Excerpt = strings.TrimSpace(d.Excerpt)
	d.MetaTitle = strings.TrimSpace(d.MetaTitle)
	d.MetaDescription = strings.TrimSpace(d.MetaDescription)
	d.CanonicalURL = strings.TrimSpace(d.CanonicalURL)
	d.OGImage = strings.TrimSpace(d.OGImage)
	d.Category = strings.TrimSpace(d.Category)
	d.Status = strings.TrimSpace(d.Status)
	return d
}

// Validate checks the draft. Failures are errs.ErrValidation with one
// message per offending field.
func (d PostDraft) Validate() error {
	t := d.trimmed()
	t.Content = strings.TrimSpace(t.Content)
	return check(t)
}

// Payload maps the draft to the API body. Blank optional fields are omitted.
func (d PostDraft) Payload() models.PostPayload {
	t := d.trimmed()
	return models.PostPayload{
		Title:           t.Title,
		Content:         d.Content,
		Excerpt:         t.Excerpt,
		MetaTitle:       t.MetaTitle,
		MetaDescription: t.MetaDescription,
		Keywords:        SplitKeywords(d.Keywords),
		CanonicalURL:    t.CanonicalURL,
		OGImage:         t.OGImage,
		Category:        t.Category,
		Status:          models.Status(t.Status),
	}
}
