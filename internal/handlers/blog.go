package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/seo"
	"pencilpost/internal/services"
)

type BlogHandler struct {
	postService *services.PostService
}

func NewBlogHandler(postService *services.PostService) *BlogHandler {
	return &BlogHandler{postService: postService}
}

func (h *BlogHandler) Index(c *gin.Context) {
	c.Header("Link", `</static/css/style.css>; rel=preload; as=style`)

	page := h.postService.Home(c.Request.Context())
	render(c, http.StatusOK, "index.html", gin.H{
		"Head":     page.Head,
		"Cards":    page.Cards,
		"Empty":    page.Empty,
		"is_index": true,
	})
}

func (h *BlogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	category := c.Query("category")
	if category != "" && !slug.IsSlug(category) {
		category = ""
	}

	list := h.postService.List(c.Request.Context(), page, category)
	render(c, http.StatusOK, "blog.html", gin.H{
		"Head":    list.Head,
		"Listing": list.Listing,
	})
}

func (h *BlogHandler) ShowPost(c *gin.Context) {
	postSlug := c.Param("slug")
	if !slug.IsSlug(postSlug) {
		renderNotFound(c, h.postService.NotFoundHead())
		return
	}

	page, err := h.postService.Post(c.Request.Context(), postSlug)
	if err != nil {
		if services.IsNotFound(err) {
			renderNotFound(c, h.postService.NotFoundHead())
			return
		}
		log.Error().Err(err).Str("slug", postSlug).Msg("failed to load post")
		renderError(c, http.StatusServiceUnavailable, "This post could not be loaded right now. Please try again.")
		return
	}

	render(c, http.StatusOK, "post.html", gin.H{
		"Head": page.Head,
		"Page": page,
	})
}

func (h *BlogHandler) About(c *gin.Context) {
	md := seo.Page("About Us",
		"Learn more about our SEO blog platform and our mission to deliver quality content.", "/about")
	render(c, http.StatusOK, "about.html", gin.H{
		"Head": seo.BuildHead(siteFrom(c), md),
	})
}

func (h *BlogHandler) NotFound(c *gin.Context) {
	renderNotFound(c, h.postService.NotFoundHead())
}
