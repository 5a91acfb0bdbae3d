package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

// JournalRepository provides persistence for journal article submissions.
type JournalRepository struct {
	db *sqlx.DB
}

// NewJournalRepository creates the repository.
func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create inserts a new journal submission.
func (r *JournalRepository) Create(ctx context.Context, submission *models.JournalSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now
	if submission.Status == "" {
		submission.Status = models.SubmissionPending
	}
	query := `INSERT INTO journal_submissions (id, title, genre, abstract, keywords, discipline, year, volume, number, pages,
submitted_by_name, submitted_by_email, department, authors, otp_session_id, status, created_at, updated_at)
VALUES (:id, :title, :genre, :abstract, :keywords, :discipline, :year, :volume, :number, :pages,
:submitted_by_name, :submitted_by_email, :department, :authors, :otp_session_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create journal submission: %w", err)
	}
	return nil
}
