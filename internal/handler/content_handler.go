package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/models"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
	"github.com/tcioe-dev/department-portal-api/pkg/response"
)

type contentService interface {
	List(ctx context.Context, resource string, query url.Values) (json.RawMessage, error)
	FormDefinition(ctx context.Context, slug string) (json.RawMessage, error)
	Alumni(ctx context.Context, year int, program string) ([]models.AlumniYearGroup, error)
	ProgramSubjects(ctx context.Context, programID string) ([]models.SemesterGroup, error)
}

// ContentHandler relays cached CMS content to the public site.
type ContentHandler struct {
	service contentService
}

// NewContentHandler constructs the handler.
func NewContentHandler(service contentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// List relays one whitelisted CMS collection. Each collection is
// registered as its own static route.
// @Summary Relay a CMS content collection
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /content/{resource} [get]
func (h *ContentHandler) List(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := h.service.List(c.Request.Context(), resource, c.Request.URL.Query())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, raw, nil)
	}
}

// Form godoc
// @Summary Fetch a registration form definition
// @Tags Content
// @Produce json
// @Param slug path string true "Form slug"
// @Success 200 {object} response.Envelope
// @Router /forms/{slug} [get]
func (h *ContentHandler) Form(c *gin.Context) {
	raw, err := h.service.FormDefinition(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, raw, nil)
}

// Alumni godoc
// @Summary List alumni grouped by graduation year and program
// @Tags Content
// @Produce json
// @Param year query int false "Graduation year"
// @Param program query string false "Program filter"
// @Success 200 {object} response.Envelope
// @Router /content/alumni [get]
func (h *ContentHandler) Alumni(c *gin.Context) {
	var filter dto.AlumniFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid alumni filter"))
		return
	}
	groups, err := h.service.Alumni(c.Request.Context(), filter.Year, filter.Program)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Subjects godoc
// @Summary List a program's subjects grouped by semester
// @Tags Content
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /content/programs/{id}/subjects [get]
func (h *ContentHandler) Subjects(c *gin.Context) {
	groups, err := h.service.ProgramSubjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// DepartmentSlug godoc
// @Summary Resolve a department code to its site slug
// @Tags Content
// @Produce json
// @Param code path string true "Department code"
// @Success 200 {object} response.Envelope
// @Router /content/departments/{code}/slug [get]
func (h *ContentHandler) DepartmentSlug(c *gin.Context) {
	slug := models.DepartmentSlug(c.Param("code"))
	if slug == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown department code"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"code": c.Param("code"), "slug": slug}, nil)
}
