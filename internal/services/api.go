package services

import (
	"context"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/models"
)

// ContentAPI is the public, read-only part of the content API.
type ContentAPI interface {
	GetBlogs(ctx context.Context, q apiclient.BlogQuery) (models.PagedResult[models.Post], error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string, page, limit int) (*models.CategoryPage, error)
}

// AdminAPI is the token-protected part of the content API.
type AdminAPI interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	ListAdminBlogs(ctx context.Context, token string) ([]models.Post, error)
	GetAdminBlog(ctx context.Context, token, id string) (*models.Post, error)
	CreateBlog(ctx context.Context, token string, payload models.PostPayload) (*models.Post, error)
	UpdateBlog(ctx context.Context, token, id string, payload models.PostPayload) (*models.Post, error)
	DeleteBlog(ctx context.Context, token, id string) error
	CreateCategory(ctx context.Context, token string, payload models.CategoryPayload) (*models.Category, error)
	UpdateCategory(ctx context.Context, token, id string, payload models.CategoryPayload) (*models.Category, error)
	DeleteCategory(ctx context.Context, token, id string) error
}

// AuthAPI issues and checks admin tokens.
type AuthAPI interface {
	Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.LoginResult, error)
	Verify(ctx context.Context, token string) error
}

// SiteFileAPI serves the generated sitemap and robots files.
type SiteFileAPI interface {
	FetchSiteFile(ctx context.Context, name, accept string) (*apiclient.SiteFile, error)
}

var (
	_ ContentAPI  = (*apiclient.Client)(nil)
	_ AdminAPI    = (*apiclient.Client)(nil)
	_ AuthAPI     = (*apiclient.Client)(nil)
	_ SiteFileAPI = (*apiclient.Client)(nil)
)
