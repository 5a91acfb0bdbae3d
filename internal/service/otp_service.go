package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tcioe-dev/department-portal-api/internal/dto"
	"github.com/tcioe-dev/department-portal-api/internal/models"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

const otpCodeLength = 6

type otpSessionStore interface {
	Save(ctx context.Context, session *models.OTPSession, ttl time.Duration) error
	Find(ctx context.Context, id string) (*models.OTPSession, error)
	ActiveSessionID(ctx context.Context, purpose models.Purpose, email string) (string, error)
	Delete(ctx context.Context, session *models.OTPSession) error
}

type verificationMailbox interface {
	Put(ctx context.Context, record *models.VerificationRecord, ttl time.Duration) error
	Get(ctx context.Context, purpose models.Purpose, email string) (*models.VerificationRecord, error)
	Delete(ctx context.Context, purpose models.Purpose, email string) error
}

type codeMailer interface {
	QueueVerificationCode(email, fullName, code string, purpose models.Purpose, codeTTL time.Duration) error
}

// OTPService drives the email verification state machine: a session moves
// sent → verified; failed verifies keep it retryable until the attempt cap.
type OTPService struct {
	sessions otpSessionStore
	mailbox  verificationMailbox
	mail     codeMailer
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      config.OTPConfig
	now      func() time.Time
}

// NewOTPService constructs an OTPService instance.
func NewOTPService(sessions otpSessionStore, mailbox verificationMailbox, mail codeMailer, metrics *MetricsService, logger *zap.Logger, cfg config.OTPConfig) *OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 10 * time.Minute
	}
	if cfg.VerifiedTTL <= 0 {
		cfg.VerifiedTTL = 30 * time.Minute
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OTPService{
		sessions: sessions,
		mailbox:  mailbox,
		mail:     mail,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *OTPService) WithClock(now func() time.Time) *OTPService {
	s.now = now
	return s
}

// NormalizeEmail lowercases and trims an address so sessions bind to one
// canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode strips everything but digits and keeps the first six, so a
// pasted string like "code: 48-29-13" still verifies.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
			if b.Len() == otpCodeLength {
				break
			}
		}
	}
	return b.String()
}

// Request starts a new verification session and emails the code. A fresh
// request for an email+purpose pair that already holds a live session is
// subject to the same cooldown as a resend.
func (s *OTPService) Request(ctx context.Context, req dto.RequestOTPRequest) (*dto.RequestOTPResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	if !models.ValidPurpose(req.Purpose) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown verification purpose")
	}
	purpose := models.Purpose(req.Purpose)

	if activeID, err := s.sessions.ActiveSessionID(ctx, purpose, email); err == nil && activeID != "" {
		if active, err := s.sessions.Find(ctx, activeID); err == nil {
			if active.Status != models.OTPStatusVerified && s.now().Before(active.ResendAvailableAt) {
				return nil, appErrors.ErrResendCooldown
			}
		}
	}

	session, code, err := s.issueSession(ctx, email, req.FullName, purpose)
	if err != nil {
		return nil, err
	}

	if err := s.mail.QueueVerificationCode(email, req.FullName, code, purpose, s.cfg.CodeTTL); err != nil {
		s.logger.Sugar().Errorw("failed to queue verification mail", "session_id", session.ID, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unable to send verification code")
	}

	s.metrics.RecordOTPRequest(string(purpose))
	return &dto.RequestOTPResponse{
		SessionID:      session.ID,
		SessionIDAlias: session.ID,
		ExpiresIn:      int(s.cfg.CodeTTL.Seconds()),
		Detail:         "verification code sent",
	}, nil
}

// Verify checks the submitted code against the session. Success marks the
// session verified and posts the verification record to the mailbox; a
// wrong code leaves the session retryable and counts an attempt.
func (s *OTPService) Verify(ctx context.Context, req dto.VerifyOTPRequest) (*dto.VerifyOTPResponse, error) {
	email := NormalizeEmail(req.Email)
	purpose := models.Purpose(req.Purpose)

	code := NormalizeCode(req.OTPCode)
	if len(code) < otpCodeLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enter the full 6-digit code")
	}

	session, err := s.sessions.Find(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Email != email {
		return nil, appErrors.Clone(appErrors.ErrOTPSessionNotFound, "verification session does not match this email")
	}
	if session.Purpose != purpose {
		return nil, appErrors.ErrPurposeMismatch
	}

	now := s.now()
	if session.Status == models.OTPStatusVerified {
		// Idempotent re-verify keeps the original timestamp.
		return s.verifyResponse(session), nil
	}
	if now.After(session.ExpiresAt) {
		s.metrics.RecordOTPVerification(string(purpose), "expired")
		return nil, appErrors.ErrOTPExpired
	}
	if session.Attempts >= s.cfg.MaxAttempts {
		s.metrics.RecordOTPVerification(string(purpose), "attempts_exceeded")
		return nil, appErrors.ErrOTPAttemptsExceeded
	}

	if err := bcrypt.CompareHashAndPassword([]byte(session.CodeHash), []byte(code)); err != nil {
		session.Attempts++
		if saveErr := s.sessions.Save(ctx, session, session.ExpiresAt.Sub(now)); saveErr != nil {
			s.logger.Sugar().Errorw("failed to record otp attempt", "session_id", session.ID, "error", saveErr)
		}
		s.metrics.RecordOTPVerification(string(purpose), "mismatch")
		return nil, appErrors.ErrOTPMismatch
	}

	session.Status = models.OTPStatusVerified
	verifiedAt := now.UTC()
	session.VerifiedAt = &verifiedAt
	if err := s.sessions.Save(ctx, session, s.cfg.VerifiedTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist verification")
	}

	record := &models.VerificationRecord{
		Email:      session.Email,
		SessionID:  session.ID,
		Purpose:    session.Purpose,
		VerifiedAt: verifiedAt,
	}
	if err := s.mailbox.Put(ctx, record, s.cfg.VerifiedTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist verification")
	}

	s.metrics.RecordOTPVerification(string(purpose), "verified")
	return s.verifyResponse(session), nil
}

func (s *OTPService) verifyResponse(session *models.OTPSession) *dto.VerifyOTPResponse {
	var verifiedAtMs int64
	if session.VerifiedAt != nil {
		verifiedAtMs = session.VerifiedAt.UnixMilli()
	}
	return &dto.VerifyOTPResponse{
		Verified:     true,
		ReturnPath:   session.Purpose.ReturnPath(),
		VerifiedAtMs: verifiedAtMs,
	}
}

// Resend replaces the session with a freshly coded one under a new id.
// The old id stops working immediately; callers must adopt the returned id.
func (s *OTPService) Resend(ctx context.Context, req dto.ResendOTPRequest) (*dto.RequestOTPResponse, error) {
	email := NormalizeEmail(req.Email)
	purpose := models.Purpose(req.Purpose)

	session, err := s.sessions.Find(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Email != email || session.Purpose != purpose {
		return nil, appErrors.Clone(appErrors.ErrOTPSessionNotFound, "verification session does not match this request")
	}
	if s.now().Before(session.ResendAvailableAt) {
		return nil, appErrors.ErrResendCooldown
	}

	if err := s.sessions.Delete(ctx, session); err != nil {
		s.logger.Sugar().Warnw("failed to delete replaced otp session", "session_id", session.ID, "error", err)
	}

	replacement, code, err := s.issueSession(ctx, email, session.FullName, purpose)
	if err != nil {
		return nil, err
	}
	if err := s.mail.QueueVerificationCode(email, session.FullName, code, purpose, s.cfg.CodeTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unable to send verification code")
	}

	s.metrics.RecordOTPRequest(string(purpose))
	return &dto.RequestOTPResponse{
		SessionID:      replacement.ID,
		SessionIDAlias: replacement.ID,
		ExpiresIn:      int(s.cfg.CodeTTL.Seconds()),
		Detail:         "verification code resent",
	}, nil
}

// Status reports whether a fresh verification record exists for the
// email+purpose pair. Stale records read as unverified, never as errors.
func (s *OTPService) Status(ctx context.Context, rawPurpose, rawEmail string) (*dto.VerificationStatusResponse, error) {
	email := NormalizeEmail(rawEmail)
	if email == "" || !models.ValidPurpose(rawPurpose) {
		return &dto.VerificationStatusResponse{Verified: false}, nil
	}
	purpose := models.Purpose(rawPurpose)

	record, err := s.mailbox.Get(ctx, purpose, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read verification status")
	}
	if record == nil || !s.recordFresh(record, purpose) {
		return &dto.VerificationStatusResponse{Verified: false}, nil
	}

	return &dto.VerificationStatusResponse{
		Verified:     true,
		Email:        record.Email,
		SessionID:    record.SessionID,
		Purpose:      string(record.Purpose),
		VerifiedAtMs: record.VerifiedAt.UnixMilli(),
		ReturnPath:   record.Purpose.ReturnPath(),
	}, nil
}

// recordFresh reports whether a mailbox record still authorizes submission
// for the given purpose.
func (s *OTPService) recordFresh(record *models.VerificationRecord, purpose models.Purpose) bool {
	if record.Purpose != purpose {
		return false
	}
	return s.now().Sub(record.VerifiedAt) <= s.cfg.VerifiedTTL
}

// Authorize checks that a verified session can back a submission for the
// given email and purpose without burning it. Intakes call it before doing
// any work; a failed submit leaves the session intact for a retry.
func (s *OTPService) Authorize(ctx context.Context, sessionID, rawEmail string, purpose models.Purpose) error {
	_, err := s.consumableSession(ctx, sessionID, rawEmail, purpose)
	return err
}

// Consume burns a verified session once its submission is stored. Both the
// session and the mailbox slot are cleared so the proof cannot authorize a
// second submission.
func (s *OTPService) Consume(ctx context.Context, sessionID, rawEmail string, purpose models.Purpose) error {
	email := NormalizeEmail(rawEmail)

	session, err := s.consumableSession(ctx, sessionID, rawEmail, purpose)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to consume verification session")
	}
	if err := s.mailbox.Delete(ctx, purpose, email); err != nil {
		s.logger.Sugar().Warnw("failed to clear verification mailbox", "email", email, "purpose", purpose, "error", err)
	}
	return nil
}

func (s *OTPService) consumableSession(ctx context.Context, sessionID, rawEmail string, purpose models.Purpose) (*models.OTPSession, error) {
	email := NormalizeEmail(rawEmail)

	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, appErrors.ErrSessionNotVerified
	}
	if session.Email != email {
		return nil, appErrors.ErrSessionNotVerified
	}
	if session.Purpose != purpose {
		return nil, appErrors.ErrPurposeMismatch
	}
	if session.Status != models.OTPStatusVerified || session.VerifiedAt == nil {
		return nil, appErrors.ErrSessionNotVerified
	}
	if s.now().Sub(*session.VerifiedAt) > s.cfg.VerifiedTTL {
		return nil, appErrors.ErrVerificationStale
	}
	return session, nil
}

func (s *OTPService) issueSession(ctx context.Context, email, fullName string, purpose models.Purpose) (*models.OTPSession, string, error) {
	code, err := generateCode()
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash code")
	}

	now := s.now().UTC()
	session := &models.OTPSession{
		ID:                uuid.NewString(),
		Email:             email,
		FullName:          fullName,
		Purpose:           purpose,
		CodeHash:          string(hash),
		Status:            models.OTPStatusSent,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.cfg.CodeTTL),
		ResendAvailableAt: now.Add(s.cfg.ResendCooldown),
	}
	if err := s.sessions.Save(ctx, session, s.cfg.CodeTTL); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store verification session")
	}
	return session, code, nil
}

func generateCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
