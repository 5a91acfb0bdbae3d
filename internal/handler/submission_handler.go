package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/service"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
	"github.com/tcioe-dev/department-portal-api/pkg/response"
)

type submissionService interface {
	SubmitProject(ctx context.Context, req dto.ProjectSubmissionRequest, thumbnail, report *service.SubmissionUpload) (*dto.SubmissionReceipt, error)
	SubmitResearch(ctx context.Context, req dto.ResearchSubmissionRequest) (*dto.SubmissionReceipt, error)
	SubmitJournal(ctx context.Context, req dto.JournalSubmissionRequest) (*dto.SubmissionReceipt, error)
	SubmitForm(ctx context.Context, req dto.FormSubmissionRequest) (*dto.SubmissionReceipt, error)
	SubmitContact(ctx context.Context, req dto.ContactRequest) (*dto.SubmissionReceipt, error)
}

// SubmissionHandler accepts the verified submission endpoints.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Project godoc
// @Summary Submit a student project
// @Tags Submissions
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param members formData string true "JSON array of team members"
// @Param otp_session formData string true "Verified session id"
// @Param thumbnail formData file false "Thumbnail image"
// @Param report_file formData file false "Report PDF"
// @Success 201 {object} response.Envelope
// @Router /submissions/project [post]
func (h *SubmissionHandler) Project(c *gin.Context) {
	var req dto.ProjectSubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid project payload"))
		return
	}

	thumbnail, err := formUpload(c, "thumbnail")
	if err != nil {
		response.Error(c, err)
		return
	}
	if thumbnail != nil {
		defer thumbnail.close()
	}
	report, err := formUpload(c, "report_file")
	if err != nil {
		response.Error(c, err)
		return
	}
	if report != nil {
		defer report.close()
	}

	receipt, err := h.service.SubmitProject(c.Request.Context(), req, uploadOrNil(thumbnail), uploadOrNil(report))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Research godoc
// @Summary Submit a research entry
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.ResearchSubmissionRequest true "Research submission"
// @Success 201 {object} response.Envelope
// @Router /submissions/research [post]
func (h *SubmissionHandler) Research(c *gin.Context) {
	var req dto.ResearchSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid research payload"))
		return
	}
	receipt, err := h.service.SubmitResearch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Journal godoc
// @Summary Submit a journal article
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.JournalSubmissionRequest true "Journal submission"
// @Success 201 {object} response.Envelope
// @Router /submissions/journal [post]
func (h *SubmissionHandler) Journal(c *gin.Context) {
	var req dto.JournalSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid journal payload"))
		return
	}
	receipt, err := h.service.SubmitJournal(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Form godoc
// @Summary Submit a registration form response
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.FormSubmissionRequest true "Form response"
// @Success 201 {object} response.Envelope
// @Router /submissions/form [post]
func (h *SubmissionHandler) Form(c *gin.Context) {
	var req dto.FormSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid form payload"))
		return
	}
	receipt, err := h.service.SubmitForm(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

// Contact godoc
// @Summary Send a verified contact message
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.ContactRequest true "Contact message"
// @Success 201 {object} response.Envelope
// @Router /submissions/contact [post]
func (h *SubmissionHandler) Contact(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid contact payload"))
		return
	}
	receipt, err := h.service.SubmitContact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}

type openedUpload struct {
	service.SubmissionUpload
	close func() error
}

// formUpload opens an optional multipart file part. A missing part returns
// nil without error.
func formUpload(c *gin.Context, field string) (*openedUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+field+" upload")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open "+field)
	}
	return &openedUpload{
		SubmissionUpload: service.SubmissionUpload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Content:  src,
		},
		close: src.Close,
	}, nil
}

func uploadOrNil(u *openedUpload) *service.SubmissionUpload {
	if u == nil {
		return nil
	}
	return &u.SubmissionUpload
}
