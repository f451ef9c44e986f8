package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

// ViewStateRepository holds ephemeral per-session view plumbing in Redis: the
// accumulated complaint list, the one-shot flash message, and the in-flight
// submit guard.
type ViewStateRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewViewStateRepository constructs a view state repository.
func NewViewStateRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ViewStateRepository {
	return &ViewStateRepository{client: client, ttl: ttl, logger: logger}
}

func listStateKey(sessionID string) string {
	return fmt.Sprintf("viewstate:%s:complaints", sessionID)
}

func flashKey(sessionID string) string {
	return fmt.Sprintf("viewstate:%s:flash", sessionID)
}

func submitKey(sessionID string) string {
	return fmt.Sprintf("viewstate:%s:submit", sessionID)
}

// GetListState retrieves the accumulated list for the session.
func (r *ViewStateRepository) GetListState(ctx context.Context, sessionID string) (models.ListState, error) {
	raw, err := r.client.Get(ctx, listStateKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.ListState{}, appErrors.ErrSessionMiss
		}
		return models.ListState{}, fmt.Errorf("redis get list state %s: %w", sessionID, err)
	}

	var state models.ListState
	if err := json.Unmarshal(raw, &state); err != nil {
		return models.ListState{}, fmt.Errorf("unmarshal list state %s: %w", sessionID, err)
	}

	return state, nil
}

// SetListState stores the accumulated list, replacing any previous value.
func (r *ViewStateRepository) SetListState(ctx context.Context, sessionID string, state models.ListState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal list state %s: %w", sessionID, err)
	}

	if err := r.client.Set(ctx, listStateKey(sessionID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set list state %s: %w", sessionID, err)
	}

	return nil
}

// ClearListState drops the accumulated list, e.g. when the session ends.
func (r *ViewStateRepository) ClearListState(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, listStateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del list state %s: %w", sessionID, err)
	}
	return nil
}

// SetFlash stores a one-shot banner message for the next list view read.
func (r *ViewStateRepository) SetFlash(ctx context.Context, sessionID, message string) error {
	if err := r.client.Set(ctx, flashKey(sessionID), message, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set flash %s: %w", sessionID, err)
	}
	return nil
}

// ConsumeFlash returns and removes the pending flash message, if any.
func (r *ViewStateRepository) ConsumeFlash(ctx context.Context, sessionID string) (string, error) {
	message, err := r.client.GetDel(ctx, flashKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis getdel flash %s: %w", sessionID, err)
	}
	return message, nil
}

// AcquireSubmit takes the per-session submission guard. It returns false when
// a submission is already in flight.
func (r *ViewStateRepository) AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, submitKey(sessionID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx submit guard %s: %w", sessionID, err)
	}
	return ok, nil
}

// ReleaseSubmit frees the submission guard.
func (r *ViewStateRepository) ReleaseSubmit(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, submitKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del submit guard %s: %w", sessionID, err)
	}
	return nil
}
