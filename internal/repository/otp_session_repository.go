package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tcioe-dev/department-portal-api/internal/models"
	appErrors "github.com/tcioe-dev/department-portal-api/pkg/errors"
)

const (
	sessionKeyPrefix = "otp:session:"
	activeKeyPrefix  = "otp:active:"
)

// OTPSessionRepository persists verification sessions in Redis. Session
// lifetime is enforced by key TTL; the active index lets a new request for
// the same email+purpose replace the previous session.
type OTPSessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewOTPSessionRepository constructs the repository.
func NewOTPSessionRepository(client *redis.Client, logger *zap.Logger) *OTPSessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPSessionRepository{client: client, logger: logger}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func activeKey(purpose models.Purpose, email string) string {
	return fmt.Sprintf("%s%s:%s", activeKeyPrefix, purpose, email)
}

// Save stores the session under its id and marks it as the active session
// for its email+purpose pair.
func (r *OTPSessionRepository) Save(ctx context.Context, session *models.OTPSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal otp session %s: %w", session.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
	pipe.Set(ctx, activeKey(session.Purpose, session.Email), session.ID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save otp session %s: %w", session.ID, err)
	}
	return nil
}

// Find loads a session by id. Missing or expired sessions surface
// ErrOTPSessionNotFound.
func (r *OTPSessionRepository) Find(ctx context.Context, id string) (*models.OTPSession, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrOTPSessionNotFound
		}
		return nil, fmt.Errorf("redis get otp session %s: %w", id, err)
	}

	var session models.OTPSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal otp session %s: %w", id, err)
	}
	return &session, nil
}

// ActiveSessionID returns the id of the live session for the email+purpose
// pair, or empty when none exists.
func (r *OTPSessionRepository) ActiveSessionID(ctx context.Context, purpose models.Purpose, email string) (string, error) {
	id, err := r.client.Get(ctx, activeKey(purpose, email)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis get active otp session: %w", err)
	}
	return id, nil
}

// Delete removes a session and its active index entry.
func (r *OTPSessionRepository) Delete(ctx context.Context, session *models.OTPSession) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(session.ID))
	pipe.Del(ctx, activeKey(session.Purpose, session.Email))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete otp session %s: %w", session.ID, err)
	}
	return nil
}
