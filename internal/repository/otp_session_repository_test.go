package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcioe-dev/department-portal-api/internal/models"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

func testRedisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck
	return client, s
}

func sampleSession() *models.OTPSession {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &models.OTPSession{
		ID:                "sess-1",
		Email:             "ram@example.com",
		FullName:          "Ram Shrestha",
		Purpose:           models.PurposeProject,
		CodeHash:          "$2a$10$fakehashfakehashfakehashfakehash",
		Status:            models.OTPStatusSent,
		CreatedAt:         now,
		ExpiresAt:         now.Add(10 * time.Minute),
		ResendAvailableAt: now.Add(time.Minute),
	}
}

func TestOTPSessionRepositorySaveAndFind(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewOTPSessionRepository(client, nil)

	session := sampleSession()
	require.NoError(t, repo.Save(context.Background(), session, 10*time.Minute))

	found, err := repo.Find(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.Email, found.Email)
	assert.Equal(t, session.CodeHash, found.CodeHash)
	assert.Equal(t, models.OTPStatusSent, found.Status)
	assert.True(t, session.ExpiresAt.Equal(found.ExpiresAt))

	activeID, err := repo.ActiveSessionID(context.Background(), models.PurposeProject, "ram@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", activeID)
}

func TestOTPSessionRepositoryFindMissing(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewOTPSessionRepository(client, nil)

	_, err := repo.Find(context.Background(), "nope")
	assert.ErrorIs(t, err, appErrors.ErrOTPSessionNotFound)
}

func TestOTPSessionRepositoryExpiry(t *testing.T) {
	client, s := testRedisClient(t)
	repo := NewOTPSessionRepository(client, nil)

	require.NoError(t, repo.Save(context.Background(), sampleSession(), time.Minute))
	s.FastForward(2 * time.Minute)

	_, err := repo.Find(context.Background(), "sess-1")
	assert.ErrorIs(t, err, appErrors.ErrOTPSessionNotFound)

	activeID, err := repo.ActiveSessionID(context.Background(), models.PurposeProject, "ram@example.com")
	require.NoError(t, err)
	assert.Empty(t, activeID)
}

func TestOTPSessionRepositoryDelete(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewOTPSessionRepository(client, nil)

	session := sampleSession()
	require.NoError(t, repo.Save(context.Background(), session, time.Minute))
	require.NoError(t, repo.Delete(context.Background(), session))

	_, err := repo.Find(context.Background(), session.ID)
	assert.ErrorIs(t, err, appErrors.ErrOTPSessionNotFound)

	activeID, err := repo.ActiveSessionID(context.Background(), session.Purpose, session.Email)
	require.NoError(t, err)
	assert.Empty(t, activeID)
}

func TestOTPSessionRepositoryReplacesActiveIndex(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewOTPSessionRepository(client, nil)

	first := sampleSession()
	require.NoError(t, repo.Save(context.Background(), first, time.Minute))

	second := sampleSession()
	second.ID = "sess-2"
	require.NoError(t, repo.Save(context.Background(), second, time.Minute))

	activeID, err := repo.ActiveSessionID(context.Background(), models.PurposeProject, "ram@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sess-2", activeID)
}
