package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/models"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

type projectStore interface {
	Create(ctx context.Context, submission *models.ProjectSubmission) error
}

type researchStore interface {
	Create(ctx context.Context, submission *models.ResearchSubmission) error
}

type journalStore interface {
	Create(ctx context.Context, submission *models.JournalSubmission) error
}

type formStore interface {
	CreateResponse(ctx context.Context, resp *models.FormResponse) error
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

type sessionConsumer interface {
	Authorize(ctx context.Context, sessionID, email string, purpose models.Purpose) error
	Consume(ctx context.Context, sessionID, email string, purpose models.Purpose) error
}

type contactRelay interface {
	QueueContactMessage(msg *models.ContactMessage) error
}

type uploadStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

// SubmissionUpload carries one multipart file part into the service.
type SubmissionUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.Reader
}

// SubmissionService accepts verified submissions. Every intake path checks
// the caller's OTP session up front and burns it only after the submission
// is stored, so a bad payload or a failed insert leaves the verification
// usable for a retry.
type SubmissionService struct {
	projects  projectStore
	research  researchStore
	journal   journalStore
	forms     formStore
	verifier  sessionConsumer
	relay     contactRelay
	uploads   uploadStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       config.SubmissionsConfig
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	projects projectStore,
	research researchStore,
	journal journalStore,
	forms formStore,
	verifier sessionConsumer,
	relay contactRelay,
	uploads uploadStore,
	validate *validator.Validate,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg config.SubmissionsConfig,
) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		projects:  projects,
		research:  research,
		journal:   journal,
		forms:     forms,
		verifier:  verifier,
		relay:     relay,
		uploads:   uploads,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// SubmitProject accepts a project submission with optional thumbnail and
// report attachments.
func (s *SubmissionService) SubmitProject(ctx context.Context, req dto.ProjectSubmissionRequest, thumbnail, report *SubmissionUpload) (*dto.SubmissionReceipt, error) {
	if err := s.verifier.Authorize(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeProject); err != nil {
		return nil, err
	}

	members, err := parseProjectMembers(req.Members)
	if err != nil {
		return nil, err
	}

	submission := &models.ProjectSubmission{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Abstract:         req.Abstract,
		Description:      req.Description,
		ProjectType:      req.ProjectType,
		SupervisorName:   req.SupervisorName,
		SupervisorEmail:  req.SupervisorEmail,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		AcademicYear:     req.AcademicYear,
		GithubURL:        req.GithubURL,
		DemoURL:          req.DemoURL,
		TechnologiesUsed: req.TechnologiesUsed,
		SubmittedByName:  req.SubmittedByName,
		SubmittedByEmail: NormalizeEmail(req.SubmittedByEmail),
		Department:       req.Department,
		Members:          members,
		OTPSessionID:     req.OTPSession,
		Status:           models.SubmissionPending,
	}

	membersJSON, err := json.Marshal(members)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode members")
	}
	submission.MembersJSON = string(membersJSON)

	if thumbnail != nil {
		path, err := s.storeUpload(submission.ID, "thumbnail", thumbnail, []string{"image/"})
		if err != nil {
			return nil, err
		}
		submission.ThumbnailPath = path
	}
	if report != nil {
		path, err := s.storeUpload(submission.ID, "report", report, []string{"application/pdf"})
		if err != nil {
			return nil, err
		}
		submission.ReportPath = path
	}

	if err := s.projects.Create(ctx, submission); err != nil {
		s.discardUploads(submission.ThumbnailPath, submission.ReportPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit project")
	}
	s.consumeVerification(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeProject)

	s.metrics.RecordSubmission("project")
	return receipt(submission.ID, submission.CreatedAt), nil
}

// SubmitResearch accepts a research submission.
func (s *SubmissionService) SubmitResearch(ctx context.Context, req dto.ResearchSubmissionRequest) (*dto.SubmissionReceipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid research payload")
	}
	if err := s.verifier.Authorize(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeResearch); err != nil {
		return nil, err
	}

	participants, err := filterParticipants(req.Participants)
	if err != nil {
		return nil, err
	}

	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode participants")
	}

	submission := &models.ResearchSubmission{
		ID:                    uuid.NewString(),
		Title:                 req.Title,
		Abstract:              req.Abstract,
		Description:           req.Description,
		ResearchType:          req.ResearchType,
		ResearchStatus:        req.Status,
		PrincipalInvestigator: req.PrincipalInvestigator,
		PIEmail:               NormalizeEmail(req.PIEmail),
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		FundingAgency:         req.FundingAgency,
		FundingAmount:         req.FundingAmount,
		Keywords:              req.Keywords,
		Methodology:           req.Methodology,
		ExpectedOutcomes:      req.ExpectedOutcomes,
		PublicationsURL:       req.PublicationsURL,
		ProjectURL:            req.ProjectURL,
		GithubURL:             req.GithubURL,
		SubmittedByName:       req.SubmittedByName,
		SubmittedByEmail:      NormalizeEmail(req.SubmittedByEmail),
		Department:            req.Department,
		Participants:          participants,
		ParticipantsJSON:      string(participantsJSON),
		OTPSessionID:          req.OTPSession,
		Status:                models.SubmissionPending,
	}

	if err := s.research.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit research")
	}
	s.consumeVerification(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeResearch)

	s.metrics.RecordSubmission("research")
	return receipt(submission.ID, submission.CreatedAt), nil
}

// SubmitJournal accepts a journal article submission.
func (s *SubmissionService) SubmitJournal(ctx context.Context, req dto.JournalSubmissionRequest) (*dto.SubmissionReceipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid journal payload")
	}
	if err := s.verifier.Authorize(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeJournal); err != nil {
		return nil, err
	}

	authors, err := filterAuthors(req.Authors)
	if err != nil {
		return nil, err
	}

	authorsJSON, err := json.Marshal(authors)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode authors")
	}

	submission := &models.JournalSubmission{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Genre:            req.Genre,
		Abstract:         req.Abstract,
		Keywords:         req.Keywords,
		Discipline:       req.Discipline,
		Year:             req.Year,
		Volume:           req.Volume,
		Number:           req.Number,
		Pages:            req.Pages,
		SubmittedByName:  req.SubmittedByName,
		SubmittedByEmail: NormalizeEmail(req.SubmittedByEmail),
		Department:       req.Department,
		Authors:          authors,
		AuthorsJSON:      string(authorsJSON),
		OTPSessionID:     req.OTPSession,
		Status:           models.SubmissionPending,
	}

	if err := s.journal.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit journal article")
	}
	s.consumeVerification(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeJournal)

	s.metrics.RecordSubmission("journal")
	return receipt(submission.ID, submission.CreatedAt), nil
}

// SubmitForm accepts a dynamic registration form response.
func (s *SubmissionService) SubmitForm(ctx context.Context, req dto.FormSubmissionRequest) (*dto.SubmissionReceipt, error) {
	if err := s.verifier.Authorize(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeForm); err != nil {
		return nil, err
	}

	responsesJSON, err := json.Marshal(req.Responses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode responses")
	}

	resp := &models.FormResponse{
		ID:               uuid.NewString(),
		FormSlug:         req.FormSlug,
		ResponsesJSON:    string(responsesJSON),
		SubmittedByName:  req.SubmittedByName,
		SubmittedByEmail: NormalizeEmail(req.SubmittedByEmail),
		OTPSessionID:     req.OTPSession,
	}
	if err := s.forms.CreateResponse(ctx, resp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit form")
	}
	s.consumeVerification(ctx, req.OTPSession, req.SubmittedByEmail, models.PurposeForm)

	s.metrics.RecordSubmission("form")
	return receipt(resp.ID, resp.CreatedAt), nil
}

// SubmitContact accepts a contact message and relays it to the inbox.
func (s *SubmissionService) SubmitContact(ctx context.Context, req dto.ContactRequest) (*dto.SubmissionReceipt, error) {
	if err := s.verifier.Authorize(ctx, req.OTPSession, req.Email, models.PurposeContact); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        NormalizeEmail(req.Email),
		Subject:      req.Subject,
		Message:      req.Message,
		OTPSessionID: req.OTPSession,
	}
	if err := s.forms.CreateContactMessage(ctx, msg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit message")
	}
	s.consumeVerification(ctx, req.OTPSession, req.Email, models.PurposeContact)
	if err := s.relay.QueueContactMessage(msg); err != nil {
		s.logger.Sugar().Errorw("failed to queue contact relay", "message_id", msg.ID, "error", err)
	}

	s.metrics.RecordSubmission("contact")
	return receipt(msg.ID, msg.CreatedAt), nil
}

func (s *SubmissionService) storeUpload(submissionID, kind string, upload *SubmissionUpload, allowedPrefixes []string) (string, error) {
	if s.cfg.MaxFileSizeBytes > 0 && upload.Size > s.cfg.MaxFileSizeBytes {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds the maximum file size", kind))
	}
	if !mimeAllowed(upload.MimeType, allowedPrefixes, s.cfg.AllowedMIMEs) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported %s file type", kind))
	}

	ext := filepath.Ext(upload.Filename)
	rel := filepath.Join("projects", submissionID, kind+ext)
	if _, err := s.uploads.SaveStream(rel, upload.Content); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store "+kind)
	}
	return rel, nil
}

// consumeVerification burns the session behind a stored submission. The
// submission is already persisted at this point, so a consume failure is
// logged rather than surfaced to the caller.
func (s *SubmissionService) consumeVerification(ctx context.Context, sessionID, email string, purpose models.Purpose) {
	if err := s.verifier.Consume(ctx, sessionID, email, purpose); err != nil {
		s.logger.Sugar().Warnw("failed to consume verification session", "session_id", sessionID, "purpose", purpose, "error", err)
	}
}

// discardUploads removes attachments left behind by a submission whose
// database insert failed.
func (s *SubmissionService) discardUploads(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := s.uploads.Delete(path); err != nil {
			s.logger.Sugar().Warnw("failed to discard orphaned upload", "path", path, "error", err)
		}
	}
}

func mimeAllowed(mime string, prefixes, allowList []string) bool {
	if mime == "" {
		return false
	}
	matched := false
	for _, p := range prefixes {
		if strings.HasPrefix(mime, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if len(allowList) == 0 {
		return true
	}
	for _, allowed := range allowList {
		if mime == allowed {
			return true
		}
	}
	return false
}

// parseProjectMembers decodes the JSON members field and applies the row
// rules: the first row must carry a full name; later rows without one are
// dropped silently.
func parseProjectMembers(raw string) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "members must be a JSON array")
	}
	if len(members) == 0 || strings.TrimSpace(members[0].FullName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the first team member requires a full name")
	}

	kept := make([]models.ProjectMember, 0, len(members))
	for _, m := range members {
		if strings.TrimSpace(m.FullName) == "" {
			continue
		}
		kept = append(kept, m)
	}
	return kept, nil
}

// filterParticipants applies the same row rules as parseProjectMembers:
// the first row must carry a full name; later rows without one are dropped.
func filterParticipants(rows []dto.ParticipantInput) ([]models.ResearchParticipant, error) {
	if len(rows) == 0 || strings.TrimSpace(rows[0].FullName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the first participant requires a full name")
	}

	kept := make([]models.ResearchParticipant, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.FullName) == "" {
			continue
		}
		kept = append(kept, models.ResearchParticipant{FullName: r.FullName, Role: r.Role, Email: r.Email})
	}
	return kept, nil
}

func filterAuthors(rows []dto.AuthorInput) ([]models.JournalAuthor, error) {
	if len(rows) == 0 || strings.TrimSpace(rows[0].FullName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the first author requires a full name")
	}

	kept := make([]models.JournalAuthor, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.FullName) == "" {
			continue
		}
		kept = append(kept, models.JournalAuthor{FullName: r.FullName, Affiliation: r.Affiliation, Email: r.Email})
	}
	return kept, nil
}

func receipt(id string, createdAt time.Time) *dto.SubmissionReceipt {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &dto.SubmissionReceipt{
		ID:          id,
		Status:      string(models.SubmissionPending),
		SubmittedAt: createdAt.Format(time.RFC3339),
	}
}
