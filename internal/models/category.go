package models

import (
	"bytes"
	"encoding/json"
)

// Category groups posts. Posts hold a non-owning reference to one.
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts either a populated category object or a bare id
// string, since the admin endpoints do not always populate the reference.
func (c *Category) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = Category{ID: id}
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Category(p)
	return nil
}

// CategoryPayload is the body of POST/PUT /admin/categories.
type CategoryPayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}
