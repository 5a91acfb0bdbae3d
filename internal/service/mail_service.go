package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tcioe-dev/department-portal-api/internal/models"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
	"github.com/tcioe-dev/department-portal-api/pkg/jobs"
	"github.com/tcioe-dev/department-portal-api/pkg/mailer"
)

const (
	mailJobVerification = "verification_code"
	mailJobContact      = "contact_message"
)

// MailService dispatches outbound mail through the background job queue so
// SMTP latency never sits on the request path.
type MailService struct {
	mailer mailer.Mailer
	queue  *jobs.Queue
	logger *zap.Logger
	cfg    config.SMTPConfig
	inbox  string
}

// NewMailService constructs the service and its delivery queue.
func NewMailService(m mailer.Mailer, cfg config.SMTPConfig, inbox string, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MailService{mailer: m, logger: logger, cfg: cfg, inbox: inbox}
	s.queue = jobs.NewQueue("mail", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *MailService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the delivery workers.
func (s *MailService) Stop() {
	s.queue.Stop()
}

func (s *MailService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		return fmt.Errorf("mail job %s: unexpected payload type", job.ID)
	}
	return s.mailer.Send(ctx, msg)
}

// QueueVerificationCode enqueues the OTP email for a session.
func (s *MailService) QueueVerificationCode(email, fullName, code string, purpose models.Purpose, codeTTL time.Duration) error {
	greeting := "Hello"
	if fullName != "" {
		greeting = "Hello " + fullName
	}
	body := fmt.Sprintf(`%s,

Your verification code is: %s

Enter this code to verify your email address for your %s. The code expires in %d minutes.

If you did not request this, you can ignore this message.

%s`, greeting, code, purposeLabel(purpose), int(codeTTL.Minutes()), s.cfg.FromName)

	return s.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: mailJobVerification,
		Payload: mailer.Message{
			To:      email,
			Subject: "Your verification code",
			Body:    body,
		},
	})
}

// QueueContactMessage relays a verified contact message to the department inbox.
func (s *MailService) QueueContactMessage(msg *models.ContactMessage) error {
	if s.inbox == "" {
		s.logger.Warn("contact inbox not configured, dropping relay")
		return nil
	}
	body := fmt.Sprintf(`New contact message from the department website.

From: %s <%s>
Subject: %s

%s`, msg.Name, msg.Email, msg.Subject, msg.Message)

	return s.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: mailJobContact,
		Payload: mailer.Message{
			To:      s.inbox,
			Subject: "[Contact] " + msg.Subject,
			Body:    body,
		},
	})
}

func purposeLabel(p models.Purpose) string {
	switch p {
	case models.PurposeResearch:
		return "research submission"
	case models.PurposeJournal:
		return "journal submission"
	case models.PurposeForm:
		return "registration form"
	case models.PurposeContact:
		return "contact message"
	default:
		return "project submission"
	}
}
