package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pencilpost/internal/forms"
	"pencilpost/internal/models"
)

// AdminService backs the dashboard and editors. Every call takes the
// session token explicitly.
type AdminService struct {
	api AdminAPI
}

func NewAdminService(api AdminAPI) *AdminService {
	return &AdminService{api: api}
}

// Stats are the dashboard counters.
type Stats struct {
	Total      int
	Published  int
	Drafts     int
	Categories int
}

// Dashboard is the full admin list view.
type Dashboard struct {
	Posts      []models.Post
	Categories []models.Category
	Stats      Stats
}

// Dashboard fetches all posts and categories concurrently.
func (s *AdminService) Dashboard(ctx context.Context, token string) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Posts, err = s.api.ListAdminBlogs(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		d.Categories, err = s.api.GetCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.Stats = computeStats(d.Posts, d.Categories)
	return &d, nil
}

func computeStats(posts []models.Post, categories []models.Category) Stats {
	st := Stats{Total: len(posts), Categories: len(categories)}
	for _, p := range posts {
		switch p.Status {
		case models.StatusPublished:
			st.Published++
		case models.StatusDraft:
			st.Drafts++
		}
	}
	return st
}

// Categories lists categories for the editor's select box.
func (s *AdminService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.api.GetCategories(ctx)
}

// Post loads a post for editing, whatever its status.
func (s *AdminService) Post(ctx context.Context, token, id string) (*models.Post, error) {
	return s.api.GetAdminBlog(ctx, token, id)
}

// SavePost validates the draft, then creates or updates the post.
func (s *AdminService) SavePost(ctx context.Context, token string, draft forms.PostDraft) (*models.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	payload := draft.Payload()
	if draft.Editing() {
		post, err := s.api.UpdateBlog(ctx, token, draft.ID, payload)
		if err != nil {
			return nil, fmt.Errorf("update post %s: %w", draft.ID, err)
		}
		log.Info().Str("id", draft.ID).Msg("post updated")
		return post, nil
	}
	post, err := s.api.CreateBlog(ctx, token, payload)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	log.Info().Str("title", payload.Title).Msg("post created")
	return post, nil
}

func (s *AdminService) DeletePost(ctx context.Context, token, id string) error {
	if err := s.api.DeleteBlog(ctx, token, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	log.Info().Str("id", id).Msg("post deleted")
	return nil
}

// SaveCategory validates the draft, then creates or updates the category.
func (s *AdminService) SaveCategory(ctx context.Context, token string, draft forms.CategoryDraft) (*models.Category, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	payload := draft.Payload()
	if draft.ID != "" {
		c, err := s.api.UpdateCategory(ctx, token, draft.ID, payload)
		if err != nil {
			return nil, fmt.Errorf("update category %s: %w", draft.ID, err)
		}
		return c, nil
	}
	c, err := s.api.CreateCategory(ctx, token, payload)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	log.Info().Str("slug", payload.Slug).Msg("category created")
	return c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, token, id string) error {
	if err := s.api.DeleteCategory(ctx, token, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	log.Info().Str("id", id).Msg("category deleted")
	return nil
}
