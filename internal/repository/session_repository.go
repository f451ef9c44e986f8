package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
)

// Session field keys. Each field is its own string entry so callers can
// mutate one attribute without rewriting the rest; a missing key reads as the
// empty string.
const (
	SessionFieldToken      = "token"
	SessionFieldAdmin      = "is_admin"
	SessionFieldIdentifier = "identifier"
	SessionFieldName       = "name"
	SessionFieldEmail      = "email"
	SessionFieldUserID     = "user_id"
)

var sessionFields = []string{
	SessionFieldToken,
	SessionFieldAdmin,
	SessionFieldIdentifier,
	SessionFieldName,
	SessionFieldEmail,
	SessionFieldUserID,
}

// SessionRepository persists per-session string fields in Redis.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl, logger: logger}
}

func sessionKey(sessionID, field string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, field)
}

// Get reads every session field at once. Absent keys come back as empty
// strings, so a brand-new session id yields the zero session.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (models.Session, error) {
	keys := make([]string, len(sessionFields))
	for i, field := range sessionFields {
		keys[i] = sessionKey(sessionID, field)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return models.Session{}, fmt.Errorf("redis mget session %s: %w", sessionID, err)
	}

	asString := func(i int) string {
		if i >= len(values) || values[i] == nil {
			return ""
		}
		if s, ok := values[i].(string); ok {
			return s
		}
		return ""
	}

	return models.Session{
		Token:          asString(0),
		IsAdmin:        asString(1) == "true",
		UserIdentifier: asString(2),
		UserName:       asString(3),
		UserEmail:      asString(4),
		UserID:         asString(5),
	}, nil
}

// SetFields writes the provided fields in one pipeline so dependents never
// observe a partially-applied mutation.
func (r *SessionRepository) SetFields(ctx context.Context, sessionID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for field, value := range fields {
		pipe.Set(ctx, sessionKey(sessionID, field), value, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set session fields %s: %w", sessionID, err)
	}

	return nil
}

// Clear removes every session field in one pipeline.
func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	pipe := r.client.TxPipeline()
	for _, field := range sessionFields {
		pipe.Del(ctx, sessionKey(sessionID, field))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis clear session %s: %w", sessionID, err)
	}

	return nil
}
