package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/internal/repository"
)

// SessionRepository abstracts persistence of per-session string fields.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (models.Session, error)
	SetFields(ctx context.Context, sessionID string, fields map[string]string) error
	Clear(ctx context.Context, sessionID string) error
}

// ViewStateCleaner drops per-session view plumbing on sign-out.
type ViewStateCleaner interface {
	ClearListState(ctx context.Context, sessionID string) error
}

// SessionService owns the session store contract: reading the session and
// mutating its fields. The admin flag is forced false on every token change;
// only the auth derivation service may raise it again.
type SessionService struct {
	repo    SessionRepository
	views   ViewStateCleaner
	metrics *MetricsService
	logger  *zap.Logger
}

// NewSessionService constructs a session service.
func NewSessionService(repo SessionRepository, views ViewStateCleaner, metrics *MetricsService, logger *zap.Logger) *SessionService {
	return &SessionService{repo: repo, views: views, metrics: metrics, logger: logger}
}

// Get returns the current session; a never-seen session id yields the zero
// session.
func (s *SessionService) Get(ctx context.Context, sessionID string) (models.Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}
	s.metrics.RecordSessionOp("get")
	return sess, nil
}

// SetToken stores a new token. The admin flag drops to false in the same
// write; it must never be trusted-true for a token that has not been probed.
func (s *SessionService) SetToken(ctx context.Context, sessionID, token string) error {
	err := s.repo.SetFields(ctx, sessionID, map[string]string{
		repository.SessionFieldToken: token,
		repository.SessionFieldAdmin: "false",
	})
	if err != nil {
		return err
	}
	s.metrics.RecordSessionOp("set_token")
	return nil
}

// SetUserIdentifier stores the user-entered identifier shown in the shell.
func (s *SessionService) SetUserIdentifier(ctx context.Context, sessionID, value string) error {
	err := s.repo.SetFields(ctx, sessionID, map[string]string{
		repository.SessionFieldIdentifier: value,
	})
	if err != nil {
		return err
	}
	s.metrics.RecordSessionOp("set_identifier")
	return nil
}

// Clear resets every session field together; dependents never observe a
// half-cleared session. The accumulated list view goes with it so the next
// sign-in starts from an empty list.
func (s *SessionService) Clear(ctx context.Context, sessionID string) error {
	if err := s.repo.Clear(ctx, sessionID); err != nil {
		return err
	}
	if err := s.views.ClearListState(ctx, sessionID); err != nil {
		s.logger.Warn("clear list state failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	s.metrics.RecordSessionOp("clear")
	return nil
}
