package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/services"
)

// siteFileCacheControl lets shared caches keep the files for an hour.
const siteFileCacheControl = "public, s-maxage=3600, stale-while-revalidate=59"

type SiteHandler struct {
	siteService *services.SiteService
}

func NewSiteHandler(siteService *services.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func (h *SiteHandler) Sitemap(c *gin.Context) {
	h.serve(c, services.SitemapFile, "Error fetching sitemap")
}

func (h *SiteHandler) Robots(c *gin.Context) {
	h.serve(c, services.RobotsFile, "Error fetching robots.txt")
}

func (h *SiteHandler) serve(c *gin.Context, name, failure string) {
	f, err := h.siteService.File(c.Request.Context(), name)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("site file unavailable")
		c.String(http.StatusBadGateway, failure)
		return
	}
	c.Header("Cache-Control", siteFileCacheControl)
	c.Data(http.StatusOK, f.ContentType, f.Body)
}
