package models

import "fmt"

// PagedResult is one page of an ordered collection plus its counters.
type PagedResult[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
}

// Validate checks the page counters against the invariant
// 1 <= CurrentPage <= TotalPages (when TotalPages >= 1) and the page size.
// A pageSize <= 0 skips the size check.
func (r PagedResult[T]) Validate(pageSize int) error {
	if r.TotalPages < 0 {
		return fmt.Errorf("totalPages %d is negative", r.TotalPages)
	}
	if r.TotalPages >= 1 && (r.CurrentPage < 1 || r.CurrentPage > r.TotalPages) {
		return fmt.Errorf("currentPage %d outside 1..%d", r.CurrentPage, r.TotalPages)
	}
	if r.TotalPages == 0 && len(r.Items) > 0 {
		return fmt.Errorf("totalPages is 0 but %d items returned", len(r.Items))
	}
	if pageSize > 0 && len(r.Items) > pageSize {
		return fmt.Errorf("%d items exceed page size %d", len(r.Items), pageSize)
	}
	return nil
}

// Empty reports whether the page carries no items.
func (r PagedResult[T]) Empty() bool {
	return len(r.Items) == 0
}

// CategoryPage is the payload of GET /categories/{slug}.
type CategoryPage struct {
	Category *Category
	Posts    PagedResult[Post]
}

// AdminUser is the account returned by a successful login.
type AdminUser struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
