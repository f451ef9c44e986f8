package service

import (
	"context"
	"sync"
	"time"

	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/internal/repository"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	mu     sync.Mutex
	fields map[string]map[string]string
	err    error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{fields: map[string]map[string]string{}}
}

func (f *fakeSessionRepo) Get(_ context.Context, sessionID string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Session{}, f.err
	}
	fields := f.fields[sessionID]
	return models.Session{
		Token:          fields[repository.SessionFieldToken],
		IsAdmin:        fields[repository.SessionFieldAdmin] == "true",
		UserIdentifier: fields[repository.SessionFieldIdentifier],
		UserName:       fields[repository.SessionFieldName],
		UserEmail:      fields[repository.SessionFieldEmail],
		UserID:         fields[repository.SessionFieldUserID],
	}, nil
}

func (f *fakeSessionRepo) SetFields(_ context.Context, sessionID string, fields map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	existing, ok := f.fields[sessionID]
	if !ok {
		existing = map[string]string{}
		f.fields[sessionID] = existing
	}
	for field, value := range fields {
		existing[field] = value
	}
	return nil
}

func (f *fakeSessionRepo) Clear(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.fields, sessionID)
	return nil
}

func (f *fakeSessionRepo) field(sessionID, field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[sessionID][field]
}

func (f *fakeSessionRepo) seedToken(sessionID, token string) {
	_ = f.SetFields(context.Background(), sessionID, map[string]string{repository.SessionFieldToken: token})
}

// fakeViewRepo is an in-memory list state, flash and submit guard store.
type fakeViewRepo struct {
	mu         sync.Mutex
	states     map[string]models.ListState
	flash      map[string]string
	submitHeld map[string]bool
	setErr     error
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{
		states:     map[string]models.ListState{},
		flash:      map[string]string{},
		submitHeld: map[string]bool{},
	}
}

func (f *fakeViewRepo) GetListState(_ context.Context, sessionID string) (models.ListState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.states[sessionID]
	if !ok {
		return models.ListState{}, appErrors.ErrSessionMiss
	}
	return state, nil
}

func (f *fakeViewRepo) SetListState(_ context.Context, sessionID string, state models.ListState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.states[sessionID] = state
	return nil
}

func (f *fakeViewRepo) ClearListState(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, sessionID)
	return nil
}

func (f *fakeViewRepo) ConsumeFlash(_ context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	message := f.flash[sessionID]
	delete(f.flash, sessionID)
	return message, nil
}

func (f *fakeViewRepo) SetFlash(_ context.Context, sessionID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flash[sessionID] = message
	return nil
}

func (f *fakeViewRepo) AcquireSubmit(_ context.Context, sessionID string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitHeld[sessionID] {
		return false, nil
	}
	f.submitHeld[sessionID] = true
	return true, nil
}

func (f *fakeViewRepo) ReleaseSubmit(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitHeld[sessionID] = false
	return nil
}

func (f *fakeViewRepo) pendingFlash(sessionID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flash[sessionID]
}

func (f *fakeViewRepo) guardHeld(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitHeld[sessionID]
}
