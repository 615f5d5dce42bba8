package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pencilpost/internal/errs"
	"pencilpost/internal/models"
)

// ListAdminBlogs returns every post regardless of status.
func (c *Client) ListAdminBlogs(ctx context.Context, token string) ([]models.Post, error) {
	var env envelope[[]models.Post]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/blogs", token: token}, &env); err != nil {
		return nil, fmt.Errorf("list admin blogs: %w", err)
	}
	if env.Data == nil {
		return []models.Post{}, nil
	}
	return env.Data, nil
}

// GetAdminBlog fetches a post by id, drafts included.
func (c *Client) GetAdminBlog(ctx context.Context, token, id string) (*models.Post, error) {
	var env envelope[*models.Post]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/blogs/" + url.PathEscape(id), token: token}, &env); err != nil {
		return nil, fmt.Errorf("get admin blog %s: %w", id, err)
	}
	if env.Data == nil {
		return nil, errs.NotFound("Blog not found")
	}
	return env.Data, nil
}

func (c *Client) CreateBlog(ctx context.Context, token string, payload models.PostPayload) (*models.Post, error) {
	var env envelope[*models.Post]
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/blogs", token: token, body: payload}, &env); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return env.Data, nil
}

func (c *Client) UpdateBlog(ctx context.Context, token, id string, payload models.PostPayload) (*models.Post, error) {
	var env envelope[*models.Post]
	if err := c.do(ctx, request{method: http.MethodPut, path: "/admin/blogs/" + url.PathEscape(id), token: token, body: payload}, &env); err != nil {
		return nil, fmt.Errorf("update blog %s: %w", id, err)
	}
	return env.Data, nil
}

func (c *Client) DeleteBlog(ctx context.Context, token, id string) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: "/admin/blogs/" + url.PathEscape(id), token: token}, nil); err != nil {
		return fmt.Errorf("delete blog %s: %w", id, err)
	}
	return nil
}

func (c *Client) CreateCategory(ctx context.Context, token string, payload models.CategoryPayload) (*models.Category, error) {
	var env envelope[*models.Category]
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/categories", token: token, body: payload}, &env); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return env.Data, nil
}

func (c *Client) UpdateCategory(ctx context.Context, token, id string, payload models.CategoryPayload) (*models.Category, error) {
	var env envelope[*models.Category]
	if err := c.do(ctx, request{method: http.MethodPut, path: "/admin/categories/" + url.PathEscape(id), token: token, body: payload}, &env); err != nil {
		return nil, fmt.Errorf("update category %s: %w", id, err)
	}
	return env.Data, nil
}

func (c *Client) DeleteCategory(ctx context.Context, token, id string) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: "/admin/categories/" + url.PathEscape(id), token: token}, nil); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}
