package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

func sampleRecord() *models.VerificationRecord {
	return &models.VerificationRecord{
		Email:      "ram@example.com",
		SessionID:  "sess-1",
		Purpose:    models.PurposeResearch,
		VerifiedAt: time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC),
	}
}

func TestMailboxRepositoryPutAndGet(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewMailboxRepository(client)

	require.NoError(t, repo.Put(context.Background(), sampleRecord(), 30*time.Minute))

	record, err := repo.Get(context.Background(), models.PurposeResearch, "ram@example.com")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "sess-1", record.SessionID)
	assert.True(t, record.VerifiedAt.Equal(sampleRecord().VerifiedAt))
}

func TestMailboxRepositoryEmptySlot(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewMailboxRepository(client)

	record, err := repo.Get(context.Background(), models.PurposeResearch, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestMailboxRepositorySlotIsPerPurpose(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewMailboxRepository(client)

	require.NoError(t, repo.Put(context.Background(), sampleRecord(), 30*time.Minute))

	record, err := repo.Get(context.Background(), models.PurposeProject, "ram@example.com")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestMailboxRepositoryPutReplaces(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewMailboxRepository(client)

	require.NoError(t, repo.Put(context.Background(), sampleRecord(), 30*time.Minute))

	replacement := sampleRecord()
	replacement.SessionID = "sess-2"
	require.NoError(t, repo.Put(context.Background(), replacement, 30*time.Minute))

	record, err := repo.Get(context.Background(), models.PurposeResearch, "ram@example.com")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "sess-2", record.SessionID)
}

func TestMailboxRepositoryDelete(t *testing.T) {
	client, _ := testRedisClient(t)
	repo := NewMailboxRepository(client)

	require.NoError(t, repo.Put(context.Background(), sampleRecord(), 30*time.Minute))
	require.NoError(t, repo.Delete(context.Background(), models.PurposeResearch, "ram@example.com"))

	record, err := repo.Get(context.Background(), models.PurposeResearch, "ram@example.com")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestMailboxRepositoryExpiry(t *testing.T) {
	client, s := testRedisClient(t)
	repo := NewMailboxRepository(client)

	require.NoError(t, repo.Put(context.Background(), sampleRecord(), time.Minute))
	s.FastForward(2 * time.Minute)

	record, err := repo.Get(context.Background(), models.PurposeResearch, "ram@example.com")
	require.NoError(t, err)
	assert.Nil(t, record)
}
