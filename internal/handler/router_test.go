package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/models"
	"github.com/tcioe-dev/department-portal-api/internal/repository"
	"github.com/tcioe-dev/department-portal-api/internal/service"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
)

type captureMailer struct {
	code string
}

func (m *captureMailer) QueueVerificationCode(email, fullName, code string, purpose models.Purpose, codeTTL time.Duration) error {
	m.code = code
	return nil
}

type memoryProjectStore struct {
	created []*models.ProjectSubmission
}

func (s *memoryProjectStore) Create(ctx context.Context, submission *models.ProjectSubmission) error {
	s.created = append(s.created, submission)
	return nil
}

type memoryResearchStore struct{}

func (s *memoryResearchStore) Create(ctx context.Context, submission *models.ResearchSubmission) error {
	return nil
}

type memoryJournalStore struct{}

func (s *memoryJournalStore) Create(ctx context.Context, submission *models.JournalSubmission) error {
	return nil
}

type memoryFormStore struct{}

func (s *memoryFormStore) CreateResponse(ctx context.Context, resp *models.FormResponse) error {
	return nil
}

func (s *memoryFormStore) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return nil
}

type noopRelay struct{}

func (noopRelay) QueueContactMessage(msg *models.ContactMessage) error { return nil }

type memoryUploads struct{}

func (memoryUploads) SaveStream(filename string, r io.Reader) (string, error) {
	_, err := io.Copy(io.Discard, r)
	return filename, err
}

func (memoryUploads) Delete(string) error { return nil }

func newPortalTestRouter(t *testing.T) (*gin.Engine, *captureMailer, *memoryProjectStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck

	mail := &captureMailer{}
	projects := &memoryProjectStore{}

	otpSvc := service.NewOTPService(
		repository.NewOTPSessionRepository(client, nil),
		repository.NewMailboxRepository(client),
		mail, nil, zap.NewNop(),
		config.OTPConfig{CodeTTL: 10 * time.Minute, VerifiedTTL: 30 * time.Minute, ResendCooldown: time.Minute, MaxAttempts: 5},
	)
	submissionSvc := service.NewSubmissionService(
		projects, &memoryResearchStore{}, &memoryJournalStore{}, &memoryFormStore{},
		otpSvc, noopRelay{}, memoryUploads{},
		validator.New(), nil, zap.NewNop(),
		config.SubmissionsConfig{MaxFileSizeBytes: 1 << 20, AllowedMIMEs: []string{"image/png", "application/pdf"}},
	)

	r := gin.New()
	Routes{
		OTP:        NewOTPHandler(otpSvc),
		Submission: NewSubmissionHandler(submissionSvc),
	}.Register(r, "/api")
	return r, mail, projects
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestVerifiedProjectSubmissionFlow(t *testing.T) {
	r, mail, projects := newPortalTestRouter(t)

	// 1. Request a code.
	w := doJSON(t, r, http.MethodPost, "/api/submissions/otp/request",
		`{"email":"ram@example.com","full_name":"Ram Shrestha","purpose":"project_submission"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var requested struct {
		Data dto.RequestOTPResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requested))
	sessionID := requested.Data.SessionID
	require.NotEmpty(t, sessionID)
	require.Len(t, mail.code, 6)

	// 2. Status before verification reads unverified.
	w = doJSON(t, r, http.MethodGet, "/api/submissions/verification/status?email=ram@example.com&purpose=project_submission", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Data dto.VerificationStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Data.Verified)

	// 3. Verify with the emailed code, decorated the way users paste it.
	w = doJSON(t, r, http.MethodPost, "/api/submissions/otp/verify",
		`{"email":"ram@example.com","otp_code":"code: `+mail.code+`","session_id":"`+sessionID+`","purpose":"project_submission"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var verified struct {
		Data dto.VerifyOTPResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verified))
	assert.True(t, verified.Data.Verified)
	assert.Equal(t, "/submit-project", verified.Data.ReturnPath)

	// 4. Status now reports the verified identity.
	w = doJSON(t, r, http.MethodGet, "/api/submissions/verification/status?email=ram@example.com&purpose=project_submission", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Data.Verified)
	assert.Equal(t, sessionID, status.Data.SessionID)

	// 5. A submit rejected on its payload keeps the verification usable.
	body, contentType := projectFormMembers(t, sessionID, "not-json", false)
	w = httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, "/api/submissions/project", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, projects.created)

	// 6. The corrected retry on the same session is accepted.
	body, contentType = projectForm(t, sessionID, true)
	w = httptest.NewRecorder()
	req, err = http.NewRequest(http.MethodPost, "/api/submissions/project", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, projects.created, 1)
	assert.Equal(t, "ram@example.com", projects.created[0].SubmittedByEmail)

	// 7. The consumed session cannot authorize a second submission.
	body, contentType = projectForm(t, sessionID, false)
	w = httptest.NewRecorder()
	req, err = http.NewRequest(http.MethodPost, "/api/submissions/project", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Len(t, projects.created, 1)

	w = doJSON(t, r, http.MethodGet, "/api/submissions/verification/status?email=ram@example.com&purpose=project_submission", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Data.Verified)
}

func TestWrongPurposeSessionCannotSubmit(t *testing.T) {
	r, mail, projects := newPortalTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/submissions/otp/request",
		`{"email":"ram@example.com","purpose":"research_submission"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var requested struct {
		Data dto.RequestOTPResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requested))

	w = doJSON(t, r, http.MethodPost, "/api/submissions/otp/verify",
		`{"email":"ram@example.com","otp_code":"`+mail.code+`","session_id":"`+requested.Data.SessionID+`","purpose":"research_submission"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// A research-purpose session must not authorize a project submission.
	body, contentType := projectForm(t, requested.Data.SessionID, false)
	rec := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodPost, "/api/submissions/project", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, projects.created)
}
