package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pencilpost/internal/apiclient"
	"pencilpost/internal/constants"
	"pencilpost/internal/seo"
	"pencilpost/internal/services"
	"pencilpost/internal/utils"
)

var testSite = seo.Site{Name: "SEO Blog", URL: "https://blog.example", Description: "Notes on building things"}

// createTestRenderer loads the real templates from the project root,
// wherever the test binary runs from.
func createTestRenderer(tb testing.TB) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	_, b, _, ok := runtime.Caller(0)
	require.True(tb, ok, "failed to get current file path")
	// internal/handlers/handlers_test.go -> project root
	templatesDir := filepath.Join(filepath.Dir(b), "..", "..", "templates")

	add := func(name string, files ...string) {
		for i, f := range files {
			files[i] = filepath.Join(templatesDir, f)
		}
		tpl, err := template.ParseFiles(files...)
		require.NoError(tb, err, "parse template %s", name)
		r.Add(name, tpl)
	}

	add("index.html", "base.html", "index.html", "_cards.html")
	add("blog.html", "base.html", "blog.html", "_cards.html", "_pagination.html")
	add("category.html", "base.html", "category.html", "_cards.html", "_pagination.html")
	add("post.html", "base.html", "post.html")
	add("about.html", "base.html", "about.html")
	add("login.html", "base.html", "login.html")
	add("dashboard.html", "base.html", "dashboard.html")
	add("editor.html", "base.html", "editor.html")
	add("404.html", "base.html", "404.html")
	add("error.html", "base.html", "error.html")

	return r
}

// fakeBackend answers the content API routes the frontend uses.
type fakeBackend struct {
	empty      bool
	robotsDown bool
	apiCalls   atomic.Int32
}

const (
	goodToken  = "good-token"
	staleToken = "stale-token"
)

func (f *fakeBackend) post(slug, status string) map[string]any {
	return map[string]any{
		"_id":         "id-" + slug,
		"title":       "Hello World",
		"slug":        slug,
		"content":     "# Intro\n\nHello **there**.\n\n## Details\n\nMore text.",
		"status":      status,
		"category":    map[string]any{"_id": "c1", "name": "Go", "slug": "go"},
		"keywords":    []string{"go", "web"},
		"publishedAt": "2024-03-01T10:00:00Z",
		"updatedAt":   "2024-03-02T10:00:00Z",
	}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.apiCalls.Add(1)
	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	notFound := func() { writeJSON(http.StatusNotFound, map[string]any{"message": "Not found"}) }
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	switch path := strings.TrimPrefix(r.URL.Path, "/api"); {
	case path == "/blogs":
		data := []any{f.post("hello-world", "published")}
		totalPages := 1
		if f.empty || r.URL.Query().Get("category") == "empty" {
			data, totalPages = []any{}, 0
		}
		writeJSON(http.StatusOK, map[string]any{"data": data, "currentPage": 1, "totalPages": totalPages})
	case path == "/blogs/hello-world":
		writeJSON(http.StatusOK, map[string]any{"data": f.post("hello-world", "published")})
	case path == "/blogs/draft-post":
		writeJSON(http.StatusOK, map[string]any{"data": f.post("draft-post", "draft")})
	case path == "/categories":
		writeJSON(http.StatusOK, map[string]any{"data": []any{
			map[string]any{"_id": "c1", "name": "Go", "slug": "go"},
			map[string]any{"_id": "c2", "name": "Empty", "slug": "empty"},
		}})
	case path == "/categories/go":
		writeJSON(http.StatusOK, map[string]any{"data": map[string]any{
			"category":    map[string]any{"_id": "c1", "name": "Go", "slug": "go", "description": "All about Go"},
			"blogs":       []any{f.post("hello-world", "published")},
			"currentPage": 1,
			"totalPages":  1,
		}})
	case path == "/auth/login":
		var creds apiclient.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		switch creds.Password {
		case "secret":
			writeJSON(http.StatusOK, map[string]any{"success": true, "token": goodToken, "user": map[string]any{"username": creds.Username}})
		case "stale":
			writeJSON(http.StatusOK, map[string]any{"success": true, "token": staleToken, "user": map[string]any{"username": creds.Username}})
		default:
			writeJSON(http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		}
	case path == "/admin/verify":
		if bearer != goodToken {
			writeJSON(http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid token"})
			return
		}
		writeJSON(http.StatusOK, map[string]any{"success": true})
	case path == "/admin/blogs" && r.Method == http.MethodGet:
		writeJSON(http.StatusOK, map[string]any{"data": []any{f.post("hello-world", "published"), f.post("draft-post", "draft")}})
	case strings.HasPrefix(path, "/admin/blogs/") && r.Method == http.MethodDelete:
		writeJSON(http.StatusOK, map[string]any{"success": true})
	case path == "/sitemap.xml":
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><urlset><url><loc>https://blog.example/</loc></url></urlset>`))
	case path == "/robots.txt":
		if f.robotsDown {
			writeJSON(http.StatusInternalServerError, map[string]any{"message": "boom"})
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
	default:
		notFound()
	}
}

// setupTestRouter wires the real services and handlers against a fake API.
func setupTestRouter(tb testing.TB, backend *fakeBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend)
	tb.Cleanup(srv.Close)
	api := apiclient.New(srv.URL, 2*time.Second)

	postService := services.NewPostService(api, testSite)
	adminService := services.NewAdminService(api)
	authService := services.NewAuthService(api)
	siteService := services.NewSiteService(api, testSite)

	r := gin.New()
	r.HTMLRender = utils.MinifiedHTML{HTMLRender: createTestRenderer(tb), M: utils.NewMinifier()}
	r.Use(sessions.Sessions(constants.SessionName, cookie.NewStore([]byte("test-secret"))))
	r.Use(SiteMiddleware(testSite))

	NewRouter(postService, adminService, authService, siteService).Register(r)
	return r
}

func get(r http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, password string) []*http.Cookie {
	t.Helper()
	w := postForm(r, "/admin/login", url.Values{"username": {"admin"}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestIndex(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Home - Latest Blog Posts | SEO Blog</title>")
	assert.Contains(t, body, `href="/blog/hello-world"`)
	assert.Contains(t, body, "application/ld+json")
	assert.Contains(t, w.Header().Get("Link"), "rel=preload")
}

func TestIndexEmpty(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{empty: true})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet")
}

func TestBlogList(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/blog")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "All Posts")
	assert.Contains(t, body, `href="/blog?category=go"`)
	assert.Contains(t, body, `href="/blog/hello-world"`)
	assert.Contains(t, body, "March 1, 2024")
	// a single page has no pagination
	assert.NotContains(t, body, `class="pagination"`)
}

func TestBlogListEmptyStates(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})
	filtered := get(r, "/blog?category=empty")
	require.Equal(t, http.StatusOK, filtered.Code)
	assert.Contains(t, filtered.Body.String(), "No posts in this category yet. Try another category!")
	assert.Contains(t, filtered.Body.String(), "View All Posts")

	r = setupTestRouter(t, &fakeBackend{empty: true})
	all := get(r, "/blog")
	require.Equal(t, http.StatusOK, all.Code)
	assert.Contains(t, all.Body.String(), "No blog posts available at the moment. Check back soon!")
	assert.NotContains(t, all.Body.String(), "View All Posts")
}

func TestBlogListIgnoresInvalidCategory(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/blog?category=Not%20A%20Slug")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/blog/hello-world"`)
}

func TestShowPost(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/blog/hello-world")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Hello World | SEO Blog</title>")
	assert.Contains(t, body, `id="intro"`)
	assert.Contains(t, body, `href="#details"`)
	assert.Contains(t, body, "<strong>there</strong>")
	assert.Contains(t, body, `href="/category/go"`)
	assert.Contains(t, body, `content="index, follow"`)
	assert.Contains(t, body, "BlogPosting")
}

func TestShowPostNotFound(t *testing.T) {
	backend := &fakeBackend{}
	r := setupTestRouter(t, backend)

	for _, target := range []string{"/blog/draft-post", "/blog/missing-post"} {
		w := get(r, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Contains(t, w.Body.String(), seo.NotFoundTitle, target)
		assert.Contains(t, w.Body.String(), `content="noindex"`, target)
	}

	before := backend.apiCalls.Load()
	w := get(r, "/blog/Not_A_Slug")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, before, backend.apiCalls.Load(), "invalid slugs never reach the API")
}

func TestCategoryPage(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/category/go")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "All about Go")
	assert.Contains(t, w.Body.String(), `href="/blog/hello-world"`)

	w = get(r, "/category/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoRoute(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSitemap(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, s-maxage=3600, stale-while-revalidate=59", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Type"), "xml")
	assert.Contains(t, w.Body.String(), "<urlset>")
}

func TestRobotsFallback(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{robotsDown: true})

	w := get(r, "/robots.txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /admin/")
	assert.Contains(t, w.Body.String(), "Sitemap: https://blog.example/sitemap.xml")
}

func TestLoginRejected(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := postForm(r, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Empty(t, w.Header().Get("Set-Cookie"), "no session is stored")
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Contains(t, w.Body.String(), `value="admin"`)
}

func TestLoginBlankFields(t *testing.T) {
	backend := &fakeBackend{}
	r := setupTestRouter(t, backend)

	w := postForm(r, "/admin/login", url.Values{"username": {"  "}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Username and password are required")
	assert.Zero(t, backend.apiCalls.Load())
}

func TestAdminGuard(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})

	w := get(r, "/admin")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	// a token the API rejects is dropped from the session
	cookies := login(t, r, "stale")
	w = get(r, "/admin", cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = get(r, "/admin", w.Result().Cookies()...)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminDashboard(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})
	cookies := login(t, r, "secret")

	w := get(r, "/admin", cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Signed in as admin")
	assert.Contains(t, body, `href="/admin/blogs/id-hello-world/edit"`)
	assert.Contains(t, body, `content="noindex"`)

	// logged in visitors skip the login form
	w = get(r, "/admin/login", cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminCreatePostKeepsDraftOnValidationError(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})
	cookies := login(t, r, "secret")

	w := postForm(r, "/admin/blogs", url.Values{
		"content":  {"Body I do not want to lose"},
		"category": {"c1"},
		"status":   {"draft"},
	}, cookies...)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Please fix the highlighted fields")
	assert.Contains(t, body, "title is required")
	assert.Contains(t, body, "Body I do not want to lose")
}

func TestAdminDeletePost(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})
	cookies := login(t, r, "secret")

	w := postForm(r, "/admin/blogs/id-hello-world/delete", nil, cookies...)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	w = get(r, "/admin", w.Result().Cookies()...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Blog deleted successfully!")
}

func TestLogout(t *testing.T) {
	r := setupTestRouter(t, &fakeBackend{})
	cookies := login(t, r, "secret")

	w := postForm(r, "/admin/logout", nil, cookies...)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = get(r, "/admin", w.Result().Cookies()...)
	assert.Equal(t, http.StatusFound, w.Code)
}
