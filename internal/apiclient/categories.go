package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"pencilpost/internal/errs"
	"pencilpost/internal/models"
)

// GetCategories lists every category.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var env envelope[[]models.Category]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &env); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	if env.Data == nil {
		return []models.Category{}, nil
	}
	return env.Data, nil
}

type categoryPageData struct {
	Category    *models.Category `json:"category"`
	Blogs       []models.Post    `json:"blogs"`
	CurrentPage *int             `json:"currentPage"`
	TotalPages  *int             `json:"totalPages"`
}

// GetCategoryBySlug returns a category together with one page of its posts.
func (c *Client) GetCategoryBySlug(ctx context.Context, slug string, page, limit int) (*models.CategoryPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var env envelope[*categoryPageData]
	path := "/categories/" + url.PathEscape(slug)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &env); err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	if env.Data == nil || env.Data.Category == nil {
		return nil, errs.NotFound("Category not found")
	}

	posts, err := pagedFrom(env.Data.Blogs, env.Data.CurrentPage, env.Data.TotalPages, limit)
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	return &models.CategoryPage{Category: env.Data.Category, Posts: posts}, nil
}
