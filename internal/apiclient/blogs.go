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

// BlogQuery filters GET /blogs.
type BlogQuery struct {
	Page     int
	Limit    int
	Category string
}

func (q BlogQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

// GetBlogs returns one page of published posts.
func (c *Client) GetBlogs(ctx context.Context, q BlogQuery) (models.PagedResult[models.Post], error) {
	var env envelope[[]models.Post]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/blogs", query: q.values()}, &env); err != nil {
		return models.PagedResult[models.Post]{}, fmt.Errorf("get blogs: %w", err)
	}
	page, err := pagedFrom(env.Data, env.CurrentPage, env.TotalPages, q.Limit)
	if err != nil {
		return models.PagedResult[models.Post]{}, fmt.Errorf("get blogs: %w", err)
	}
	return page, nil
}

// GetBlogBySlug returns a single public post. A missing post is errs.ErrNotFound.
func (c *Client) GetBlogBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var env envelope[*models.Post]
	path := "/blogs/" + url.PathEscape(slug)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &env); err != nil {
		return nil, fmt.Errorf("get blog %q: %w", slug, err)
	}
	if env.Data == nil {
		return nil, errs.NotFound("Blog not found")
	}
	return env.Data, nil
}
