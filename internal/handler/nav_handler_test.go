package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complainthub/portal/internal/middleware"
	"github.com/complainthub/portal/internal/models"
)

func buildNavRouter(sessions *mockSessionManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, "test-session")
		c.Next()
	})
	router.GET("/nav", NewNavHandler(sessions).Shell)
	return router
}

func TestNavHandlerSignedOut(t *testing.T) {
	router := buildNavRouter(newMockSessionManager())

	req, _ := http.NewRequest(http.MethodGet, "/nav", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"path":"/auth"`)
	assert.Contains(t, resp.Body.String(), `"signed_in":false`)
	assert.NotContains(t, resp.Body.String(), `"path":"/create"`)
}

func TestNavHandlerClient(t *testing.T) {
	sessions := newMockSessionManager()
	sessions.sessions["test-session"] = models.Session{Token: "token", UserEmail: "ada@example.com"}
	router := buildNavRouter(sessions)

	req, _ := http.NewRequest(http.MethodGet, "/nav", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"path":"/my-complaints"`)
	assert.Contains(t, resp.Body.String(), `"path":"/create"`)
	assert.NotContains(t, resp.Body.String(), `"path":"/track"`)
	assert.Contains(t, resp.Body.String(), `"display_identifier":"ada@example.com"`)
}

func TestNavHandlerAdmin(t *testing.T) {
	sessions := newMockSessionManager()
	sessions.sessions["test-session"] = models.Session{Token: "token", IsAdmin: true, UserName: "Root"}
	router := buildNavRouter(sessions)

	req, _ := http.NewRequest(http.MethodGet, "/nav", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"path":"/track"`)
	assert.NotContains(t, resp.Body.String(), `"path":"/my-complaints"`)
	assert.NotContains(t, resp.Body.String(), `"path":"/create"`)
}
