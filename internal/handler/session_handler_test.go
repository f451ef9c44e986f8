package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complainthub/portal/internal/middleware"
	"github.com/complainthub/portal/internal/models"
)

type mockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	err      error
}

func newMockSessionManager() *mockSessionManager {
	return &mockSessionManager{sessions: map[string]models.Session{}}
}

func (m *mockSessionManager) Get(_ context.Context, sessionID string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Session{}, m.err
	}
	return m.sessions[sessionID], nil
}

func (m *mockSessionManager) SetToken(_ context.Context, sessionID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	sess := m.sessions[sessionID]
	sess.Token = token
	sess.IsAdmin = false
	m.sessions[sessionID] = sess
	return nil
}

func (m *mockSessionManager) SetUserIdentifier(_ context.Context, sessionID, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.sessions[sessionID]
	sess.UserIdentifier = value
	m.sessions[sessionID] = sess
	return nil
}

func (m *mockSessionManager) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *mockSessionManager) session(sessionID string) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID]
}

type mockDeriver struct {
	mu     sync.Mutex
	tokens []string
}

func (m *mockDeriver) TokenChanged(_ context.Context, _ string, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = append(m.tokens, token)
}

func (m *mockDeriver) derived() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}

func buildSessionRouter(sessions *mockSessionManager, deriver *mockDeriver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, "test-session")
		c.Next()
	})

	h := NewSessionHandler(sessions, deriver)
	router.GET("/session", h.Get)
	router.PUT("/session/token", h.SetToken)
	router.PUT("/session/identifier", h.SetIdentifier)
	router.DELETE("/session", h.Clear)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSessionHandlerGetRedactsToken(t *testing.T) {
	sessions := newMockSessionManager()
	sessions.sessions["test-session"] = models.Session{Token: "secret-token", UserName: "Ada Lovelace"}
	router := buildSessionRouter(sessions, &mockDeriver{})

	req, _ := http.NewRequest(http.MethodGet, "/session", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "secret-token")
	assert.Contains(t, resp.Body.String(), `"signed_in":true`)
	assert.Contains(t, resp.Body.String(), `"user_name":"Ada Lovelace"`)
}

func TestSessionHandlerSetTokenTriggersDerivation(t *testing.T) {
	sessions := newMockSessionManager()
	deriver := &mockDeriver{}
	router := buildSessionRouter(sessions, deriver)

	body, _ := json.Marshal(map[string]string{"token": "fresh-token"})
	req, _ := http.NewRequest(http.MethodPut, "/session/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "fresh-token", sessions.session("test-session").Token)
	assert.False(t, sessions.session("test-session").IsAdmin)

	require.Eventually(t, func() bool {
		return len(deriver.derived()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"fresh-token"}, deriver.derived())
}

func TestSessionHandlerSetTokenRejectsMalformedBody(t *testing.T) {
	router := buildSessionRouter(newMockSessionManager(), &mockDeriver{})

	req, _ := http.NewRequest(http.MethodPut, "/session/token", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "VALIDATION_ERROR")
}

func TestSessionHandlerSetIdentifier(t *testing.T) {
	sessions := newMockSessionManager()
	router := buildSessionRouter(sessions, &mockDeriver{})

	body, _ := json.Marshal(map[string]string{"identifier": "ada@example.com"})
	req, _ := http.NewRequest(http.MethodPut, "/session/identifier", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "ada@example.com", sessions.session("test-session").UserIdentifier)
}

func TestSessionHandlerClearDerivesEmptyToken(t *testing.T) {
	sessions := newMockSessionManager()
	sessions.sessions["test-session"] = models.Session{Token: "secret-token", IsAdmin: true}
	deriver := &mockDeriver{}
	router := buildSessionRouter(sessions, deriver)

	req, _ := http.NewRequest(http.MethodDelete, "/session", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, models.Session{}, sessions.session("test-session"))

	require.Eventually(t, func() bool {
		return len(deriver.derived()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{""}, deriver.derived())
}
