package handlers

import (
	"github.com/gin-gonic/gin"

	"pencilpost/internal/services"
)

// Router groups the page handlers so the server and the tests mount the
// same routes.
type Router struct {
	Blog        *BlogHandler
	Category    *CategoryHandler
	Site        *SiteHandler
	Auth        *AuthHandler
	Admin       *AdminHandler
	AuthService *services.AuthService
	// LoginLimiter throttles POST /admin/login per client IP.
	LoginLimiter *RateLimiter
}

// NewRouter builds every handler from the services.
func NewRouter(posts *services.PostService, admin *services.AdminService, auth *services.AuthService, site *services.SiteService) Router {
	return Router{
		Blog:         NewBlogHandler(posts),
		Category:     NewCategoryHandler(posts),
		Site:         NewSiteHandler(site),
		Auth:         NewAuthHandler(auth),
		Admin:        NewAdminHandler(admin),
		AuthService:  auth,
		LoginLimiter: NewLoginLimiter(),
	}
}

// Register mounts the public pages, the generated site files and the
// guarded admin area.
func (rt Router) Register(r *gin.Engine) {
	r.GET("/", rt.Blog.Index)
	r.GET("/about", rt.Blog.About)
	r.GET("/blog", rt.Blog.List)
	r.GET("/blog/:slug", rt.Blog.ShowPost)
	r.GET("/category/:slug", rt.Category.Show)

	r.GET("/sitemap.xml", rt.Site.Sitemap)
	r.GET("/robots.txt", rt.Site.Robots)

	r.GET("/admin/login", rt.Auth.ShowLoginPage)
	r.POST("/admin/login", LoginRateLimit(rt.LoginLimiter), rt.Auth.Login)
	r.GET("/admin/logout", rt.Auth.Logout)
	r.POST("/admin/logout", rt.Auth.Logout)

	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(rt.AuthService))
	{
		admin.GET("", rt.Admin.Dashboard)
		admin.GET("/blogs/new", rt.Admin.NewPost)
		admin.GET("/blogs/:id/edit", rt.Admin.EditPost)
		admin.POST("/blogs", rt.Admin.CreatePost)
		admin.POST("/blogs/:id", rt.Admin.UpdatePost)
		admin.POST("/blogs/:id/delete", rt.Admin.DeletePost)
		admin.POST("/categories", rt.Admin.CreateCategory)
		admin.POST("/categories/:id", rt.Admin.UpdateCategory)
		admin.POST("/categories/:id/delete", rt.Admin.DeleteCategory)
	}

	r.NoRoute(rt.Blog.NotFound)
}
