package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/complainthub/portal/internal/middleware"
	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/pkg/response"
)

// NavHandler serves the shell: role-conditional navigation plus the session
// indicator.
type NavHandler struct {
	sessions SessionManager
}

// NewNavHandler creates a new handler.
func NewNavHandler(sessions SessionManager) *NavHandler {
	return &NavHandler{sessions: sessions}
}

// Shell godoc
// @Summary Shell navigation
// @Description Navigation entries and session indicator for the current role
// @Tags Shell
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /portal/nav [get]
func (h *NavHandler) Shell(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	view := models.ShellView{
		Nav: models.NavEntries(sess.SignedIn(), sess.IsAdmin),
		Session: models.SessionIndicator{
			SignedIn:          sess.SignedIn(),
			DisplayIdentifier: sess.DisplayIdentifier(),
		},
	}

	response.JSON(c, http.StatusOK, view)
}
