package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/errs"
	"pencilpost/internal/seo"
	"pencilpost/internal/services"
	"pencilpost/internal/session"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) ShowLoginPage(c *gin.Context) {
	if session.Load(c).Authenticated() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	renderLoginPage(c, http.StatusOK, "", "")
}

// Login stores the token only on success. Rejected credentials re-render the
// form with the server's message.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	res, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, errs.ErrAuth) {
			status = http.StatusUnauthorized
		}
		renderLoginPage(c, status, username, errs.Message(err))
		return
	}

	if err := session.Load(c).Begin(res.Token, res.User); err != nil {
		log.Error().Err(err).Msg("failed to save admin session")
		renderLoginPage(c, http.StatusInternalServerError, username, "Could not start your session. Please try again.")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := session.Load(c).End(); err != nil {
		log.Error().Err(err).Msg("failed to clear admin session")
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

func renderLoginPage(c *gin.Context, status int, username, message string) {
	md := seo.Page("Admin Login", "", "")
	md.NoIndex = true
	render(c, status, "login.html", gin.H{
		"Head":     seo.BuildHead(siteFrom(c), md),
		"Username": username,
		"Error":    message,
	})
}
