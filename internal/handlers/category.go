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

type CategoryHandler struct {
	postService *services.PostService
}

func NewCategoryHandler(postService *services.PostService) *CategoryHandler {
	return &CategoryHandler{postService: postService}
}

func (h *CategoryHandler) Show(c *gin.Context) {
	categorySlug := c.Param("slug")
	notFound := seo.BuildHead(siteFrom(c), seo.ResolveCategory(nil))
	if !slug.IsSlug(categorySlug) {
		renderNotFound(c, notFound)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	view, err := h.postService.Category(c.Request.Context(), categorySlug, page)
	if err != nil {
		if services.IsNotFound(err) {
			renderNotFound(c, notFound)
			return
		}
		log.Error().Err(err).Str("slug", categorySlug).Msg("failed to load category")
		renderError(c, http.StatusServiceUnavailable, "This category could not be loaded right now. Please try again.")
		return
	}

	render(c, http.StatusOK, "category.html", gin.H{
		"Head":     view.Head,
		"Category": view.Category,
		"Listing":  view.Listing,
	})
}
