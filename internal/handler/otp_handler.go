package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/models"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
	"github.com/tcioe-dev/department-portal-api/pkg/response"
)

type otpService interface {
	Request(ctx context.Context, req dto.RequestOTPRequest) (*dto.RequestOTPResponse, error)
	Verify(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyOTPResponse, error)
	Resend(ctx context.Context, req dto.ResendOTPRequest) (*dto.RequestOTPResponse, error)
	Status(ctx context.Context, purpose, email string) (*dto.VerificationStatusResponse, error)
}

// OTPHandler exposes the email verification endpoints the submission
// forms drive.
type OTPHandler struct {
	service otpService
}

// NewOTPHandler constructs the handler.
func NewOTPHandler(service otpService) *OTPHandler {
	return &OTPHandler{service: service}
}

// Request godoc
// @Summary Start an email verification session
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body dto.RequestOTPRequest true "Email and purpose"
// @Success 201 {object} response.Envelope
// @Router /submissions/otp/request [post]
func (h *OTPHandler) Request(c *gin.Context) {
	var req dto.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email and purpose are required"))
		return
	}
	res, err := h.service.Request(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Verify godoc
// @Summary Verify the emailed code
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body dto.VerifyOTPRequest true "Session and code"
// @Success 200 {object} response.Envelope
// @Router /submissions/otp/verify [post]
func (h *OTPHandler) Verify(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email, session and code are required"))
		return
	}
	res, err := h.service.Verify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Resend godoc
// @Summary Resend the verification code under a fresh session
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body dto.ResendOTPRequest true "Session to replace"
// @Success 200 {object} response.Envelope
// @Router /submissions/otp/resend [post]
func (h *OTPHandler) Resend(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "email, session and purpose are required"))
		return
	}
	res, err := h.service.Resend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Status godoc
// @Summary Report whether a fresh verification exists for email+purpose
// @Tags Verification
// @Produce json
// @Param email query string true "Email address"
// @Param purpose query string false "Verification purpose"
// @Param type query string false "Short purpose alias carried by verification links"
// @Success 200 {object} response.Envelope
// @Router /submissions/verification/status [get]
func (h *OTPHandler) Status(c *gin.Context) {
	purpose := c.Query("purpose")
	if purpose == "" {
		// Verification links carry the short form, e.g. ?type=research.
		purpose = string(models.PurposeForType(c.Query("type")))
	}
	res, err := h.service.Status(c.Request.Context(), purpose, c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
