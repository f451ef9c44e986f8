package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/complainthub/portal/internal/middleware"
	"github.com/complainthub/portal/internal/models"
	appErrors "github.com/complainthub/portal/pkg/errors"
	"github.com/complainthub/portal/pkg/response"
)

// SessionManager is the session store contract consumed over HTTP.
type SessionManager interface {
	Get(ctx context.Context, sessionID string) (models.Session, error)
	SetToken(ctx context.Context, sessionID, token string) error
	SetUserIdentifier(ctx context.Context, sessionID, value string) error
	Clear(ctx context.Context, sessionID string) error
}

// AuthDeriver re-derives session attributes whenever the token changes.
type AuthDeriver interface {
	TokenChanged(ctx context.Context, sessionID, token string)
}

// SessionHandler wires the session endpoints to the session service.
type SessionHandler struct {
	sessions SessionManager
	deriver  AuthDeriver
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(sessions SessionManager, deriver AuthDeriver) *SessionHandler {
	return &SessionHandler{sessions: sessions, deriver: deriver}
}

// Get godoc
// @Summary Current session
// @Description Returns the session with the token redacted to its presence
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sess.View())
}

// SetToken godoc
// @Summary Store the upstream bearer token
// @Description Stores the token and re-derives admin flag and profile
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body object true "Token payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /portal/session/token [put]
func (h *SessionHandler) SetToken(c *gin.Context) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}

	sessionID := middleware.SessionID(c)
	if err := h.sessions.SetToken(c.Request.Context(), sessionID, payload.Token); err != nil {
		response.Error(c, err)
		return
	}

	// Derivation runs detached from the request; a later token change
	// supersedes it via the generation guard.
	go h.deriver.TokenChanged(context.Background(), sessionID, payload.Token)

	response.NoContent(c)
}

// SetIdentifier godoc
// @Summary Store the user-entered identifier
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body object true "Identifier payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /portal/session/identifier [put]
func (h *SessionHandler) SetIdentifier(c *gin.Context) {
	var payload struct {
		Identifier string `json:"identifier"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid identifier payload"))
		return
	}

	if err := h.sessions.SetUserIdentifier(c.Request.Context(), middleware.SessionID(c), payload.Identifier); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Clear godoc
// @Summary Sign out
// @Description Clears every session field together
// @Tags Session
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /portal/session [delete]
func (h *SessionHandler) Clear(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := h.sessions.Clear(c.Request.Context(), sessionID); err != nil {
		response.Error(c, err)
		return
	}

	go h.deriver.TokenChanged(context.Background(), sessionID, "")

	response.NoContent(c)
}
