package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pencilpost/internal/constants"
	"pencilpost/internal/errs"
	"pencilpost/internal/forms"
	"pencilpost/internal/models"
	"pencilpost/internal/seo"
	"pencilpost/internal/services"
	"pencilpost/internal/session"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	h.renderDashboard(c, http.StatusOK, gin.H{})
}

func (h *AdminHandler) NewPost(c *gin.Context) {
	categories, err := h.adminService.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderEditor(c, http.StatusOK, forms.NewPostDraft(categories), categories, forms.ActionState{}, nil)
}

func (h *AdminHandler) EditPost(c *gin.Context) {
	s := session.FromContext(c)
	post, err := h.adminService.Post(c.Request.Context(), s.Token, c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			h.flashError(s, errs.Message(err))
			c.Redirect(http.StatusSeeOther, "/admin")
			return
		}
		h.fail(c, err)
		return
	}
	categories, err := h.adminService.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderEditor(c, http.StatusOK, forms.FromPost(post), categories, forms.ActionState{}, nil)
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	h.savePost(c, "")
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	h.savePost(c, c.Param("id"))
}

// savePost submits the editor. On failure the editor is shown again with the
// draft as typed and the error message; nothing is retried.
func (h *AdminHandler) savePost(c *gin.Context, id string) {
	s := session.FromContext(c)
	var draft forms.PostDraft
	if err := c.ShouldBind(&draft); err != nil {
		renderError(c, http.StatusBadRequest, "The form could not be read.")
		return
	}
	draft.ID = id

	var state forms.ActionState
	_ = state.Start()
	if _, err := h.adminService.SavePost(c.Request.Context(), s.Token, draft); err != nil {
		if errors.Is(err, errs.ErrAuth) {
			endSession(c, s)
			return
		}
		log.Warn().Err(err).Str("id", id).Msg("saving post failed")
		_ = state.Fail(errs.Message(err))

		categories, cerr := h.adminService.Categories(c.Request.Context())
		if cerr != nil {
			categories = []models.Category{}
		}
		h.renderEditor(c, statusFor(err), draft, categories, state, fieldErrors(err))
		return
	}

	message := "Blog created successfully!"
	if draft.Editing() {
		message = "Blog updated successfully!"
	}
	_ = state.Succeed(message)
	h.flashSuccess(s, state.Message)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	s := session.FromContext(c)
	if err := h.adminService.DeletePost(c.Request.Context(), s.Token, c.Param("id")); err != nil {
		if errors.Is(err, errs.ErrAuth) {
			endSession(c, s)
			return
		}
		h.flashError(s, "Error deleting blog: "+errs.Message(err))
	} else {
		h.flashSuccess(s, "Blog deleted successfully!")
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	h.saveCategory(c, "")
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	h.saveCategory(c, c.Param("id"))
}

func (h *AdminHandler) saveCategory(c *gin.Context, id string) {
	s := session.FromContext(c)
	var draft forms.CategoryDraft
	if err := c.ShouldBind(&draft); err != nil {
		renderError(c, http.StatusBadRequest, "The form could not be read.")
		return
	}
	draft.ID = id

	var state forms.ActionState
	_ = state.Start()
	if _, err := h.adminService.SaveCategory(c.Request.Context(), s.Token, draft); err != nil {
		if errors.Is(err, errs.ErrAuth) {
			endSession(c, s)
			return
		}
		log.Warn().Err(err).Str("id", id).Msg("saving category failed")
		_ = state.Fail(errs.Message(err))
		h.renderDashboard(c, statusFor(err), gin.H{
			"CategoryDraft":  draft,
			"CategoryState":  state,
			"CategoryFields": fieldErrors(err),
		})
		return
	}

	message := "Category created successfully!"
	if id != "" {
		message = "Category updated successfully!"
	}
	_ = state.Succeed(message)
	h.flashSuccess(s, state.Message)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	s := session.FromContext(c)
	if err := h.adminService.DeleteCategory(c.Request.Context(), s.Token, c.Param("id")); err != nil {
		if errors.Is(err, errs.ErrAuth) {
			endSession(c, s)
			return
		}
		h.flashError(s, "Error deleting category: "+errs.Message(err))
	} else {
		h.flashSuccess(s, "Category deleted successfully!")
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *AdminHandler) renderDashboard(c *gin.Context, status int, data gin.H) {
	s := session.FromContext(c)
	dashboard, err := h.adminService.Dashboard(c.Request.Context(), s.Token)
	if err != nil {
		h.fail(c, err)
		return
	}

	data["Head"] = adminHead(c, "Admin Dashboard")
	data["Dashboard"] = dashboard
	data["Username"] = s.Username
	data["Flashes"] = s.Flashes(constants.SessionKeySuccessFlash)
	data["Errors"] = s.Flashes(constants.SessionKeyErrorFlash)
	if _, ok := data["CategoryDraft"]; !ok {
		data["CategoryDraft"] = forms.CategoryDraft{}
	}
	render(c, status, "dashboard.html", data)
}

func (h *AdminHandler) renderEditor(c *gin.Context, status int, draft forms.PostDraft, categories []models.Category, state forms.ActionState, fields map[string]string) {
	title := "Create New Blog Post"
	if draft.Editing() {
		title = "Edit Blog Post"
	}
	render(c, status, "editor.html", gin.H{
		"Head":       adminHead(c, title),
		"Title":      title,
		"Draft":      draft,
		"Categories": categories,
		"State":      state,
		"Fields":     fields,
	})
}

// fail handles an error outside a form submission: a rejected token ends
// the session, anything else shows the error page.
func (h *AdminHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrAuth) {
		endSession(c, session.FromContext(c))
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("admin request failed")
	renderError(c, statusFor(err), errs.Message(err))
}

func (h *AdminHandler) flashSuccess(s *session.Session, message string) {
	if err := s.AddFlash(constants.SessionKeySuccessFlash, message); err != nil {
		log.Error().Err(err).Msg("failed to save flash")
	}
}

func (h *AdminHandler) flashError(s *session.Session, message string) {
	if err := s.AddFlash(constants.SessionKeyErrorFlash, message); err != nil {
		log.Error().Err(err).Msg("failed to save flash")
	}
}

func adminHead(c *gin.Context, title string) seo.Head {
	md := seo.Page(title, "", "")
	md.NoIndex = true
	return seo.BuildHead(siteFrom(c), md)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNetwork):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func fieldErrors(err error) map[string]string {
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
