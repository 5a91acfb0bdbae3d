package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

func newSubmissionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProjectRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewProjectRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_submissions")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	submission := &models.ProjectSubmission{
		Title:            "Smart Irrigation Controller",
		Abstract:         "An IoT controller for drip irrigation.",
		Description:      "ESP32 based controller.",
		ProjectType:      "hardware",
		SupervisorName:   "Dr. Sharma",
		SubmittedByName:  "Ram Shrestha",
		SubmittedByEmail: "ram@example.com",
		Department:       "DOECE",
		MembersJSON:      `[{"full_name":"Ram Shrestha"}]`,
		OTPSessionID:     "sess-1",
	}
	require.NoError(t, repo.Create(context.Background(), submission))
	require.NotEmpty(t, submission.ID)
	require.Equal(t, models.SubmissionPending, submission.Status)
	require.False(t, submission.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryCreateWrapsInsertError(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewProjectRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_submissions")).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.ProjectSubmission{Title: "Robot Arm"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "create project submission")
	require.NoError(t, mock.ExpectationsWereMet())
}
