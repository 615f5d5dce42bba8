package forms

import (
	"strings"

	"github.com/gosimple/slug"

	"pencilpost/internal/models"
)

// CategoryDraft is the editor state for a category.
type CategoryDraft struct {
	ID          string `form:"-"`
	Name        string `form:"name" validate:"required,max=100"`
	Slug        string `form:"slug" validate:"omitempty,slug"`
	Description string `form:"description" validate:"max=500"`
}

// FromCategory loads an existing category into the editor.
func FromCategory(c models.Category) CategoryDraft {
	return CategoryDraft{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func (d CategoryDraft) trimmed() CategoryDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Slug = strings.TrimSpace(d.Slug)
	d.Description = strings.TrimSpace(d.Description)
	return d
}

// Validate checks the draft.
func (d CategoryDraft) Validate() error {
	return check(d.trimmed())
}

// SlugPreview is the slug the category will be saved under.
func (d CategoryDraft) SlugPreview() string {
	t := d.trimmed()
	if t.Slug != "" {
		return t.Slug
	}
	return slug.Make(t.Name)
}

// Payload maps the draft to the API body.
func (d CategoryDraft) Payload() models.CategoryPayload {
	t := d.trimmed()
	return models.CategoryPayload{
		Name:        t.Name,
		Slug:        d.SlugPreview(),
		Description: t.Description,
	}
}
