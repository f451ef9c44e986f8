package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/internal/repository"
)

// AuthProbeClient is the slice of the upstream client the derivation needs.
type AuthProbeClient interface {
	ProbeAdmin(ctx context.Context, token string) (bool, error)
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
}

// AuthDeriveService derives session attributes from the current token: the
// admin flag via an existence probe against an admin-only endpoint, and the
// display profile via the account endpoint. Every token change bumps a
// per-session generation; a probe started under an older generation discards
// its result instead of writing stale attributes.
type AuthDeriveService struct {
	upstream AuthProbeClient
	repo     SessionRepository
	timeout  time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAuthDeriveService constructs the derivation service.
func NewAuthDeriveService(upstream AuthProbeClient, repo SessionRepository, timeout time.Duration, logger *zap.Logger) *AuthDeriveService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AuthDeriveService{
		upstream:    upstream,
		repo:        repo,
		timeout:     timeout,
		logger:      logger,
		generations: map[string]uint64{},
	}
}

func (s *AuthDeriveService) bump(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[sessionID]++
	return s.generations[sessionID]
}

func (s *AuthDeriveService) isCurrent(sessionID string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[sessionID] == generation
}

// TokenChanged runs both derivations for the session's new token value and
// returns once both have finished. The two checks run concurrently and fail
// independently; callers fire it in a goroutine after mutating the token.
func (s *AuthDeriveService) TokenChanged(ctx context.Context, sessionID, token string) {
	generation := s.bump(sessionID)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.deriveAdmin(ctx, sessionID, token, generation)
	}()
	go func() {
		defer wg.Done()
		s.enrichProfile(ctx, sessionID, token, generation)
	}()
	wg.Wait()
}

// deriveAdmin resolves the admin flag. Absent token means false without a
// request; otherwise only a successful probe response makes it true.
func (s *AuthDeriveService) deriveAdmin(ctx context.Context, sessionID, token string, generation uint64) {
	isAdmin := false
	if token != "" {
		ok, err := s.upstream.ProbeAdmin(ctx, token)
		if err != nil {
			s.logger.Debug("admin probe failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		isAdmin = ok
	}

	if !s.isCurrent(sessionID, generation) {
		return
	}

	err := s.repo.SetFields(ctx, sessionID, map[string]string{
		repository.SessionFieldAdmin: strconv.FormatBool(isAdmin),
	})
	if err != nil {
		s.logger.Warn("persist admin flag failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// enrichProfile resolves name, email and id. Absent token clears them without
// a request; a failed fetch leaves whatever was stored untouched.
func (s *AuthDeriveService) enrichProfile(ctx context.Context, sessionID, token string, generation uint64) {
	if token == "" {
		if !s.isCurrent(sessionID, generation) {
			return
		}
		err := s.repo.SetFields(ctx, sessionID, map[string]string{
			repository.SessionFieldName:   "",
			repository.SessionFieldEmail:  "",
			repository.SessionFieldUserID: "",
		})
		if err != nil {
			s.logger.Warn("clear profile fields failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		return
	}

	profile, err := s.upstream.GetProfile(ctx, token)
	if err != nil {
		s.logger.Debug("profile fetch failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	if !s.isCurrent(sessionID, generation) {
		return
	}

	userID := ""
	if profile.ID != 0 {
		userID = strconv.Itoa(profile.ID)
	}
	err = s.repo.SetFields(ctx, sessionID, map[string]string{
		repository.SessionFieldName:   profile.DisplayName(),
		repository.SessionFieldEmail:  profile.Email,
		repository.SessionFieldUserID: userID,
	})
	if err != nil {
		s.logger.Warn("persist profile fields failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}
