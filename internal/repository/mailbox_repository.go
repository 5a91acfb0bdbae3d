package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tcioe-dev/department-portal-api/internal/models"
)

const mailboxKeyPrefix = "otp:mailbox:"

// MailboxRepository backs the verification mailbox: a single Redis slot per
// purpose+email holding the proof-of-verification record handed from the
// verify step to the originating form.
type MailboxRepository struct {
	client *redis.Client
}

// NewMailboxRepository constructs the repository.
func NewMailboxRepository(client *redis.Client) *MailboxRepository {
	return &MailboxRepository{client: client}
}

func mailboxKey(purpose models.Purpose, email string) string {
	return fmt.Sprintf("%s%s:%s", mailboxKeyPrefix, purpose, email)
}

// Put writes the record, replacing any previous slot contents.
func (r *MailboxRepository) Put(ctx context.Context, record *models.VerificationRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal verification record: %w", err)
	}
	if err := r.client.Set(ctx, mailboxKey(record.Purpose, record.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("put verification record: %w", err)
	}
	return nil
}

// Get reads the slot without consuming it. Returns (nil, nil) when empty.
func (r *MailboxRepository) Get(ctx context.Context, purpose models.Purpose, email string) (*models.VerificationRecord, error) {
	raw, err := r.client.Get(ctx, mailboxKey(purpose, email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification record: %w", err)
	}

	var record models.VerificationRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal verification record: %w", err)
	}
	return &record, nil
}

// Delete clears the slot.
func (r *MailboxRepository) Delete(ctx context.Context, purpose models.Purpose, email string) error {
	if err := r.client.Del(ctx, mailboxKey(purpose, email)).Err(); err != nil {
		return fmt.Errorf("delete verification record: %w", err)
	}
	return nil
}
