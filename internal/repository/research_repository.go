package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

// ResearchRepository provides persistence for research submissions.
type ResearchRepository struct {
	db *sqlx.DB
}

// NewResearchRepository creates the repository.
func NewResearchRepository(db *sqlx.DB) *ResearchRepository {
	return &ResearchRepository{db: db}
}

// Create inserts a new research submission.
func (r *ResearchRepository) Create(ctx context.Context, submission *models.ResearchSubmission) error {
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
	query := `INSERT INTO research_submissions (id, title, abstract, description, research_type, research_status,
principal_investigator, pi_email, start_date, end_date, funding_agency, funding_amount, keywords, methodology,
expected_outcomes, publications_url, project_url, github_url, submitted_by_name, submitted_by_email, department,
participants, otp_session_id, status, created_at, updated_at)
VALUES (:id, :title, :abstract, :description, :research_type, :research_status,
:principal_investigator, :pi_email, :start_date, :end_date, :funding_agency, :funding_amount, :keywords, :methodology,
:expected_outcomes, :publications_url, :project_url, :github_url, :submitted_by_name, :submitted_by_email, :department,
:participants, :otp_session_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create research submission: %w", err)
	}
	return nil
}
