package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

// ProjectRepository provides persistence for project submissions.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates the repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project submission.
func (r *ProjectRepository) Create(ctx context.Context, submission *models.ProjectSubmission) error {
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
	query := `INSERT INTO project_submissions (id, title, abstract, description, project_type, supervisor_name, supervisor_email,
start_date, end_date, academic_year, github_url, demo_url, technologies_used, submitted_by_name, submitted_by_email,
department, members, thumbnail_path, report_path, otp_session_id, status, created_at, updated_at)
VALUES (:id, :title, :abstract, :description, :project_type, :supervisor_name, :supervisor_email,
:start_date, :end_date, :academic_year, :github_url, :demo_url, :technologies_used, :submitted_by_name, :submitted_by_email,
:department, :members, :thumbnail_path, :report_path, :otp_session_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create project submission: %w", err)
	}
	return nil
}
