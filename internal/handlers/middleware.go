package handlers

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/constants"
	"pencilpost/internal/errs"
	"pencilpost/internal/metrics"
	"pencilpost/internal/seo"
	"pencilpost/internal/services"
	"pencilpost/internal/session"
)

// RequestLogger tags each request with an id, then logs and counts it when
// done.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		metrics.RecordRequest(c.FullPath(), c.Request.Method, status, latency)

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery logs panics and answers with the error page.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Bytes("stack", debug.Stack()).
			Str("request_id", c.GetString(constants.ContextKeyRequestID)).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		renderError(c, http.StatusInternalServerError, "Something went wrong on our side.")
		c.Abort()
	})
}

// SiteMiddleware makes the site information and login status available to
// every template.
func SiteMiddleware(site seo.Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeySite, site)
		c.Set(constants.ContextKeyIsLoggedIn, session.Load(c).Authenticated())
		c.Next()
	}
}

// AuthMiddleware guards the admin pages. No token, or a token the API
// rejects, sends the visitor to the login page. A rejected token is removed
// from the session.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Load(c)
		if !s.Authenticated() {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}

		if err := authService.Check(c.Request.Context(), s.Token); err != nil {
			if errors.Is(err, errs.ErrAuth) {
				log.Info().Err(err).Str("user", s.Username).Msg("admin session rejected")
				endSession(c, s)
				return
			}
			log.Warn().Err(err).Msg("token verification unavailable")
			renderError(c, http.StatusServiceUnavailable, "The content service is unavailable. Please try again.")
			c.Abort()
			return
		}

		session.Attach(c, s)
		c.Next()
	}
}

// endSession clears the credential and sends the visitor to the login page.
func endSession(c *gin.Context, s *session.Session) {
	if err := s.End(); err != nil {
		log.Error().Err(err).Msg("failed to clear admin session")
	}
	c.Redirect(http.StatusFound, "/admin/login")
	c.Abort()
}

// render is a helper function to render templates with common data.
func render(c *gin.Context, status int, templateName string, data gin.H) {
	if site, ok := c.Get(constants.ContextKeySite); ok {
		data["Site"] = site
	}
	if _, ok := data["Head"]; !ok {
		data["Head"] = seo.BuildHead(siteFrom(c), seo.Page("", "", ""))
	}
	isLoggedIn, exists := c.Get(constants.ContextKeyIsLoggedIn)
	if exists {
		data["IsLoggedIn"] = isLoggedIn
	}
	data["Year"] = time.Now().Year()

	c.HTML(status, templateName, data)
}

func renderError(c *gin.Context, status int, message string) {
	md := seo.Page(http.StatusText(status), "", "")
	md.NoIndex = true
	render(c, status, "error.html", gin.H{
		"Head":    seo.BuildHead(siteFrom(c), md),
		"Status":  status,
		"Message": message,
	})
}

func renderNotFound(c *gin.Context, head seo.Head) {
	render(c, http.StatusNotFound, "404.html", gin.H{"Head": head})
}

func siteFrom(c *gin.Context) seo.Site {
	if v, ok := c.Get(constants.ContextKeySite); ok {
		if site, ok := v.(seo.Site); ok {
			return site
		}
	}
	return seo.Site{}
}
