package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

// FormRepository provides persistence for dynamic form responses and
// contact messages.
type FormRepository struct {
	db *sqlx.DB
}

// NewFormRepository creates the repository.
func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{db: db}
}

// CreateResponse inserts a registration form response.
func (r *FormRepository) CreateResponse(ctx context.Context, resp *models.FormResponse) error {
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO form_responses (id, form_slug, responses, submitted_by_name, submitted_by_email, otp_session_id, created_at)
VALUES (:id, :form_slug, :responses, :submitted_by_name, :submitted_by_email, :otp_session_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, resp); err != nil {
		return fmt.Errorf("create form response: %w", err)
	}
	return nil
}

// CreateContactMessage inserts a contact message for audit.
func (r *FormRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO contact_messages (id, name, email, subject, message, otp_session_id, created_at)
VALUES (:id, :name, :email, :subject, :message, :otp_session_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}
