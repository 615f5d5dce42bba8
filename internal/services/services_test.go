package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/errs"
	"pencilpost/internal/forms"
	"pencilpost/internal/models"
	"pencilpost/internal/seo"
)

var testSite = seo.Site{Name: "SEO Blog", URL: "https://blog.example", Description: "desc"}

// fakeAPI is an in-memory content API.
type fakeAPI struct {
	mu         sync.Mutex
	posts      []models.Post
	categories []models.Category
	blogsErr   error
	catsErr    error
	verifyErr  error
	verifies   atomic.Int32
	files      map[string]string
	lastQuery  apiclient.BlogQuery
	created    []models.PostPayload
}

func (f *fakeAPI) GetBlogs(_ context.Context, q apiclient.BlogQuery) (models.PagedResult[models.Post], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.blogsErr != nil {
		return models.PagedResult[models.Post]{}, f.blogsErr
	}
	var items []models.Post
	for _, p := range f.posts {
		if p.Status != models.StatusPublished {
			continue
		}
		if q.Category != "" && (p.Category == nil || p.Category.Slug != q.Category) {
			continue
		}
		items = append(items, p)
	}
	total := 0
	if len(items) > 0 {
		total = 1
	}
	return models.PagedResult[models.Post]{Items: items, CurrentPage: 1, TotalPages: total}, nil
}

func (f *fakeAPI) GetBlogBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.posts {
		if f.posts[i].Slug == slug {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, errs.NotFound("Blog not found")
}

func (f *fakeAPI) GetCategories(context.Context) ([]models.Category, error) {
	if f.catsErr != nil {
		return nil, f.catsErr
	}
	return f.categories, nil
}

func (f *fakeAPI) GetCategoryBySlug(_ context.Context, slug string, page, _ int) (*models.CategoryPage, error) {
	for i := range f.categories {
		if f.categories[i].Slug == slug {
			c := f.categories[i]
			return &models.CategoryPage{
				Category: &c,
				Posts:    models.PagedResult[models.Post]{Items: []models.Post{}, CurrentPage: page, TotalPages: 0},
			}, nil
		}
	}
	return nil, errs.NotFound("Category not found")
}

func (f *fakeAPI) ListAdminBlogs(context.Context, string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Post(nil), f.posts...), nil
}

func (f *fakeAPI) GetAdminBlog(ctx context.Context, _ string, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errs.NotFound("Blog not found")
}

func (f *fakeAPI) CreateBlog(_ context.Context, _ string, payload models.PostPayload) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, payload)
	return &models.Post{ID: "new", Title: payload.Title}, nil
}

func (f *fakeAPI) UpdateBlog(_ context.Context, _ string, id string, payload models.PostPayload) (*models.Post, error) {
	return &models.Post{ID: id, Title: payload.Title}, nil
}

func (f *fakeAPI) DeleteBlog(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.posts[:0]
	for _, p := range f.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.posts = kept
	return nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, _ string, payload models.CategoryPayload) (*models.Category, error) {
	return &models.Category{ID: "c-new", Name: payload.Name, Slug: payload.Slug}, nil
}

func (f *fakeAPI) UpdateCategory(_ context.Context, _ string, id string, payload models.CategoryPayload) (*models.Category, error) {
	return &models.Category{ID: id, Name: payload.Name, Slug: payload.Slug}, nil
}

func (f *fakeAPI) DeleteCategory(context.Context, string, string) error { return nil }

func (f *fakeAPI) Login(_ context.Context, creds apiclient.Credentials) (*apiclient.LoginResult, error) {
	if creds.Password != "secret" {
		return nil, errs.Auth("Invalid credentials")
	}
	return &apiclient.LoginResult{Token: "tok", User: models.AdminUser{Username: creds.Username}}, nil
}

func (f *fakeAPI) Verify(context.Context, string) error {
	f.verifies.Add(1)
	return f.verifyErr
}

func (f *fakeAPI) FetchSiteFile(_ context.Context, name, accept string) (*apiclient.SiteFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.files[name]
	if !ok {
		return nil, errs.FromStatus(404, "")
	}
	return &apiclient.SiteFile{Body: []byte(body), ContentType: accept}, nil
}

func published(id, slug, cat string) models.Post {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return models.Post{
		ID: id, Title: strings.ToUpper(slug), Slug: slug, Content: "# " + slug,
		Status: models.StatusPublished, PublishedAt: &now,
		Category: &models.Category{ID: "c-" + cat, Name: cat, Slug: cat},
	}
}

func TestPostService_List(t *testing.T) {
	api := &fakeAPI{
		posts:      []models.Post{published("1", "one", "tech")},
		categories: []models.Category{{ID: "c-tech", Name: "tech", Slug: "tech"}, {ID: "c-life", Name: "life", Slug: "life"}},
	}
	svc := NewPostService(api, testSite)

	page := svc.List(context.Background(), 1, "")
	assert.Len(t, page.Listing.Cards, 1)
	assert.Nil(t, page.Listing.Empty)
	assert.Len(t, page.Listing.Filters, 3)
	assert.Equal(t, "Blog - All Posts | SEO Blog", page.Head.Title)

	filtered := svc.List(context.Background(), 1, "life")
	assert.Equal(t, "life", api.lastQuery.Category)
	require.NotNil(t, filtered.Listing.Empty)
	assert.True(t, filtered.Listing.Empty.ShowViewAll)
}

func TestPostService_ListDegradesOnError(t *testing.T) {
	api := &fakeAPI{blogsErr: errs.Validation("missing pagination", nil)}
	svc := NewPostService(api, testSite)

	page := svc.List(context.Background(), 3, "")
	require.NotNil(t, page.Listing.Empty)
	assert.Empty(t, page.Listing.Cards)
	assert.False(t, page.Listing.Pagination.Visible())
	assert.Len(t, page.Listing.Filters, 1)
}

func TestPostService_Home(t *testing.T) {
	api := &fakeAPI{posts: []models.Post{published("1", "one", "tech")}}
	home := NewPostService(api, testSite).Home(context.Background())
	assert.Len(t, home.Cards, 1)
	assert.Nil(t, home.Empty)
	assert.Equal(t, 6, api.lastQuery.Limit)
	assert.Contains(t, string(home.Head.JSONLD), "WebSite")

	api.blogsErr = errs.Network(errors.New("down"), false)
	home = NewPostService(api, testSite).Home(context.Background())
	require.NotNil(t, home.Empty)
	assert.Equal(t, "No posts yet", home.Empty.Title)
}

func TestPostService_Post(t *testing.T) {
	draft := published("2", "wip", "tech")
	draft.Status = models.StatusDraft
	api := &fakeAPI{posts: []models.Post{published("1", "hello", "tech"), draft}}
	svc := NewPostService(api, testSite)

	page, err := svc.Post(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO | SEO Blog", page.Head.Title)
	assert.Equal(t, "https://blog.example/blog/hello", page.Head.Canonical)
	assert.Contains(t, string(page.Body.HTML), `<h1 id="hello">hello</h1>`)
	assert.Equal(t, "/category/tech", page.CategoryHref)
	assert.Equal(t, "January 2, 2024", page.DateLabel)

	_, err = svc.Post(context.Background(), "wip")
	assert.True(t, IsNotFound(err))

	_, err = svc.Post(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestPostService_Category(t *testing.T) {
	api := &fakeAPI{categories: []models.Category{{Name: "Tech", Slug: "tech"}}}
	svc := NewPostService(api, testSite)

	view, err := svc.Category(context.Background(), "tech", 0)
	require.NoError(t, err)
	assert.Equal(t, "Tech - Blog Category | SEO Blog", view.Head.Title)
	require.NotNil(t, view.Listing.Empty)
	assert.Equal(t, "No posts in this category yet", view.Listing.Empty.Title)

	_, err = svc.Category(context.Background(), "nope", 1)
	assert.True(t, IsNotFound(err))
}

func TestAdminService_DashboardAndDelete(t *testing.T) {
	draft := published("2", "wip", "tech")
	draft.Status = models.StatusDraft
	api := &fakeAPI{
		posts:      []models.Post{published("1", "a", "tech"), draft},
		categories: []models.Category{{ID: "c1"}},
	}
	svc := NewAdminService(api)

	d, err := svc.Dashboard(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Published: 1, Drafts: 1, Categories: 1}, d.Stats)

	require.NoError(t, svc.DeletePost(context.Background(), "tok", "1"))
	d, err = svc.Dashboard(context.Background(), "tok")
	require.NoError(t, err)
	for _, p := range d.Posts {
		assert.NotEqual(t, "1", p.ID)
	}
}

func TestAdminService_SavePost(t *testing.T) {
	api := &fakeAPI{}
	svc := NewAdminService(api)

	_, err := svc.SavePost(context.Background(), "tok", forms.PostDraft{})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, api.created)

	draft := forms.PostDraft{Title: "T", Content: "c", Category: "c1", Status: "draft", Keywords: "a, ,b"}
	post, err := svc.SavePost(context.Background(), "tok", draft)
	require.NoError(t, err)
	assert.Equal(t, "new", post.ID)
	require.Len(t, api.created, 1)
	assert.Equal(t, []string{"a", "b"}, api.created[0].Keywords)

	draft.ID = "p7"
	post, err = svc.SavePost(context.Background(), "tok", draft)
	require.NoError(t, err)
	assert.Equal(t, "p7", post.ID)
	assert.Len(t, api.created, 1)
}

func TestAdminService_SaveCategory(t *testing.T) {
	svc := NewAdminService(&fakeAPI{})
	c, err := svc.SaveCategory(context.Background(), "tok", forms.CategoryDraft{Name: "Web Dev"})
	require.NoError(t, err)
	assert.Equal(t, "web-dev", c.Slug)
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(&fakeAPI{})

	_, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, errs.ErrAuth)
	assert.Equal(t, "Invalid credentials", errs.Message(err))

	_, err = svc.Login(context.Background(), "  ", "")
	assert.ErrorIs(t, err, errs.ErrAuth)

	res, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
}

func TestAuthService_CheckSkipsVerifyForExpiredJWT(t *testing.T) {
	api := &fakeAPI{}
	svc := NewAuthService(api)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Check(context.Background(), expired), errs.ErrAuth)
	assert.Equal(t, int32(0), api.verifies.Load())

	assert.NoError(t, svc.Check(context.Background(), "opaque"))
	assert.Equal(t, int32(1), api.verifies.Load())

	api.verifyErr = errs.Auth("Invalid token")
	assert.ErrorIs(t, svc.Check(context.Background(), "opaque"), errs.ErrAuth)
	assert.ErrorIs(t, svc.Check(context.Background(), ""), errs.ErrAuth)
}

func TestSiteService(t *testing.T) {
	api := &fakeAPI{files: map[string]string{SitemapFile: "<urlset/>"}}
	svc := NewSiteService(api, testSite)

	f, err := svc.File(context.Background(), SitemapFile)
	require.NoError(t, err)
	assert.Equal(t, "<urlset/>", string(f.Body))

	robots, err := svc.File(context.Background(), RobotsFile)
	require.NoError(t, err)
	assert.Contains(t, string(robots.Body), "Disallow: /admin/")
	assert.Contains(t, string(robots.Body), "Sitemap: https://blog.example/sitemap.xml")

	// Stale copies survive a failed refresh.
	api.mu.Lock()
	api.files = map[string]string{}
	api.mu.Unlock()
	svc.Refresh(context.Background())
	f, err = svc.File(context.Background(), SitemapFile)
	require.NoError(t, err)
	assert.Equal(t, "<urlset/>", string(f.Body))

	_, err = svc.File(context.Background(), "secrets.txt")
	assert.Error(t, err)
}

func TestSiteService_SitemapUnavailable(t *testing.T) {
	svc := NewSiteService(&fakeAPI{files: map[string]string{}}, testSite)
	_, err := svc.File(context.Background(), SitemapFile)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
