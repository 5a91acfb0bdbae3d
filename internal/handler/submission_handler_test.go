package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/service"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

type submissionServiceMock struct {
	receipt *dto.SubmissionReceipt
	err     error

	lastProject   dto.ProjectSubmissionRequest
	lastThumbnail *service.SubmissionUpload
	lastReport    *service.SubmissionUpload
	lastResearch  dto.ResearchSubmissionRequest
	lastContact   dto.ContactRequest
}

func (m *submissionServiceMock) SubmitProject(ctx context.Context, req dto.ProjectSubmissionRequest, thumbnail, report *service.SubmissionUpload) (*dto.SubmissionReceipt, error) {
	m.lastProject = req
	m.lastThumbnail = thumbnail
	m.lastReport = report
	return m.receipt, m.err
}

func (m *submissionServiceMock) SubmitResearch(ctx context.Context, req dto.ResearchSubmissionRequest) (*dto.SubmissionReceipt, error) {
	m.lastResearch = req
	return m.receipt, m.err
}

func (m *submissionServiceMock) SubmitJournal(ctx context.Context, req dto.JournalSubmissionRequest) (*dto.SubmissionReceipt, error) {
	return m.receipt, m.err
}

func (m *submissionServiceMock) SubmitForm(ctx context.Context, req dto.FormSubmissionRequest) (*dto.SubmissionReceipt, error) {
	return m.receipt, m.err
}

func (m *submissionServiceMock) SubmitContact(ctx context.Context, req dto.ContactRequest) (*dto.SubmissionReceipt, error) {
	m.lastContact = req
	return m.receipt, m.err
}

func projectForm(t *testing.T, sessionID string, withFiles bool) (*bytes.Buffer, string) {
	return projectFormMembers(t, sessionID, `[{"full_name":"Ram Shrestha"}]`, withFiles)
}

// filePartHeader builds a multipart file part header with a real MIME type;
// multipart.Writer.CreateFormFile would label every part application/octet-stream.
func filePartHeader(field, filename, contentType string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	return h
}

func projectFormMembers(t *testing.T, sessionID, members string, withFiles bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := map[string]string{
		"title":              "Smart Irrigation Controller",
		"abstract":           "An IoT controller for drip irrigation.",
		"description":        "ESP32 based controller.",
		"project_type":       "hardware",
		"supervisor_name":    "Dr. Sharma",
		"submitted_by_name":  "Ram Shrestha",
		"submitted_by_email": "ram@example.com",
		"department":         "DOECE",
		"members":            members,
		"otp_session":        sessionID,
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withFiles {
		part, err := w.CreatePart(filePartHeader("thumbnail", "board.png", "image/png"))
		require.NoError(t, err)
		_, err = io.WriteString(part, "png-bytes")
		require.NoError(t, err)

		part, err = w.CreatePart(filePartHeader("report_file", "report.pdf", "application/pdf"))
		require.NoError(t, err)
		_, err = io.WriteString(part, "pdf-bytes")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestSubmissionHandlerProject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{
		receipt: &dto.SubmissionReceipt{ID: "proj-1", Status: "pending", SubmittedAt: "2026-03-14T10:00:00Z"},
	}
	handler := NewSubmissionHandler(mockSvc)

	body, contentType := projectForm(t, "sess-1", true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/project", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Project(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "sess-1", mockSvc.lastProject.OTPSession)
	require.NotNil(t, mockSvc.lastThumbnail)
	assert.Equal(t, "board.png", mockSvc.lastThumbnail.Filename)
	require.NotNil(t, mockSvc.lastReport)
	assert.Equal(t, "report.pdf", mockSvc.lastReport.Filename)

	var envelope struct {
		Data dto.SubmissionReceipt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "proj-1", envelope.Data.ID)
}

func TestSubmissionHandlerProjectWithoutFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{
		receipt: &dto.SubmissionReceipt{ID: "proj-2", Status: "pending"},
	}
	handler := NewSubmissionHandler(mockSvc)

	body, contentType := projectForm(t, "sess-1", false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/project", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Project(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, mockSvc.lastThumbnail)
	assert.Nil(t, mockSvc.lastReport)
}

func TestSubmissionHandlerProjectMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubmissionHandler(&submissionServiceMock{})

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("title", "Incomplete"))
	require.NoError(t, w.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/project", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.Request = req

	handler.Project(c)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmissionHandlerProjectUnverified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{err: appErrors.ErrSessionNotVerified}
	handler := NewSubmissionHandler(mockSvc)

	body, contentType := projectForm(t, "sess-1", false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/project", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Project(c)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "verification is required")
}

func TestSubmissionHandlerResearch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{
		receipt: &dto.SubmissionReceipt{ID: "res-1", Status: "pending"},
	}
	handler := NewSubmissionHandler(mockSvc)

	payload := dto.ResearchSubmissionRequest{
		Title:                 "Microgrid Stability Study",
		Abstract:              "Stability of rural microgrids.",
		Description:           "Field measurements.",
		ResearchType:          "applied",
		Status:                "ongoing",
		PrincipalInvestigator: "Dr. Sharma",
		PIEmail:               "sharma@tcioe.edu.np",
		SubmittedByName:       "Ram Shrestha",
		SubmittedByEmail:      "ram@example.com",
		Department:            "DOECE",
		Participants:          []dto.ParticipantInput{{FullName: "Ram Shrestha"}},
		OTPSession:            "sess-2",
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/research", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Research(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "sess-2", mockSvc.lastResearch.OTPSession)
}

func TestSubmissionHandlerResearchEmptyParticipants(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubmissionHandler(&submissionServiceMock{})

	body := `{"title":"X","abstract":"Y","description":"Z","research_type":"applied","status":"ongoing",
"principal_investigator":"Dr. Sharma","pi_email":"sharma@tcioe.edu.np","submitted_by_name":"Ram",
"submitted_by_email":"ram@example.com","department":"DOECE","participants":[],"otp_session":"sess"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/research", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Research(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmissionHandlerContact(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{
		receipt: &dto.SubmissionReceipt{ID: "msg-1", Status: "pending"},
	}
	handler := NewSubmissionHandler(mockSvc)

	body := `{"name":"Ram Shrestha","email":"ram@example.com","subject":"Transcript request","message":"How do I request one?","otp_session":"sess-5"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/contact", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Contact(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Transcript request", mockSvc.lastContact.Subject)
}
