package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/constants"
	"pencilpost/internal/errs"
	"pencilpost/internal/models"
	"pencilpost/internal/seo"
	"pencilpost/internal/utils"
)

// PostService assembles the public pages.
type PostService struct {
	api  ContentAPI
	site seo.Site
}

func NewPostService(api ContentAPI, site seo.Site) *PostService {
	return &PostService{api: api, site: site}
}

// HomePage is the data behind "/".
type HomePage struct {
	Head  seo.Head
	Cards []utils.PostCard
	Empty *utils.EmptyState
}

// ListPage is the data behind "/blog".
type ListPage struct {
	Head    seo.Head
	Listing utils.Listing
}

// PostPage is the data behind "/blog/:slug".
type PostPage struct {
	Head         seo.Head
	Post         *models.Post
	Body         utils.Rendered
	DateLabel    string
	CategoryHref string
}

// CategoryView is the data behind "/category/:slug".
type CategoryView struct {
	Head     seo.Head
	Category *models.Category
	Listing  utils.Listing
}

// Home lists the latest posts. Fetch failures degrade to the empty state.
func (s *PostService) Home(ctx context.Context) HomePage {
	md := seo.Page("Home - Latest Blog Posts",
		"Discover the latest blog posts on web development, SEO, and technology trends.", "/")
	head := seo.BuildHead(s.site, md)
	head.JSONLD = seo.WebsiteJSONLD(s.site)

	page := HomePage{Head: head, Cards: []utils.PostCard{}}
	result, err := s.api.GetBlogs(ctx, apiclient.BlogQuery{Limit: constants.HomeLatestPosts})
	if err != nil {
		log.Warn().Err(err).Msg("home: fetching latest posts failed")
	} else {
		page.Cards = utils.Cards(result.Items)
	}
	if len(page.Cards) == 0 {
		page.Empty = &utils.EmptyHome
	}
	return page
}

// List builds one page of the blog list, optionally filtered by category
// slug. Posts and categories are fetched concurrently; if either fails the
// page degrades to the empty state.
func (s *PostService) List(ctx context.Context, page int, category string) ListPage {
	if page < 1 {
		page = 1
	}

	var (
		posts      models.PagedResult[models.Post]
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.api.GetBlogs(gctx, apiclient.BlogQuery{Page: page, Limit: constants.BlogPageSize, Category: category})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.api.GetCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Int("page", page).Str("category", category).Msg("blog list: fetch failed, rendering empty state")
		posts = models.PagedResult[models.Post]{Items: []models.Post{}, CurrentPage: 1, TotalPages: 0}
		categories = nil
	}

	canonical := "/blog"
	if category != "" {
		canonical += "?category=" + url.QueryEscape(category)
	}
	md := seo.Page("Blog - All Posts", "Browse all blog posts on web development, SEO, and technology.", canonical)
	return ListPage{
		Head:    seo.BuildHead(s.site, md),
		Listing: utils.AssembleListing(posts, categories, category),
	}
}

// Post renders one published post. Missing and unpublished posts are
// errs.ErrNotFound.
func (s *PostService) Post(ctx context.Context, slug string) (*PostPage, error) {
	post, err := s.api.GetBlogBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Publishable() {
		return nil, errs.NotFound("Blog not found")
	}

	body, err := utils.RenderMarkdown(post.Content)
	if err != nil {
		return nil, fmt.Errorf("render post %s: %w", slug, err)
	}

	md := seo.Resolve(post)
	head := seo.BuildHead(s.site, md)
	head.JSONLD = seo.BlogPostingJSONLD(s.site, post, md)

	return &PostPage{
		Head:         head,
		Post:         post,
		Body:         body,
		DateLabel:    utils.FormatDate(*post.PublishedAt),
		CategoryHref: "/category/" + url.PathEscape(post.Category.Slug),
	}, nil
}

// Category builds one page of a category's posts.
func (s *PostService) Category(ctx context.Context, slug string, page int) (*CategoryView, error) {
	if page < 1 {
		page = 1
	}
	cp, err := s.api.GetCategoryBySlug(ctx, slug, page, constants.CategoryPageSize)
	if err != nil {
		return nil, err
	}
	if cp.Category == nil {
		return nil, errs.NotFound("Category not found")
	}
	return &CategoryView{
		Head:     seo.BuildHead(s.site, seo.ResolveCategory(cp.Category)),
		Category: cp.Category,
		Listing:  utils.AssembleCategoryListing(*cp),
	}, nil
}

// NotFoundHead is the <head> of the 404 page.
func (s *PostService) NotFoundHead() seo.Head {
	return seo.BuildHead(s.site, seo.NotFound())
}

// IsNotFound reports whether err should become a 404 page.
func IsNotFound(err error) bool {
	return errors.Is(err, errs.ErrNotFound)
}
