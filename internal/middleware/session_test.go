package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complainthub/portal/pkg/config"
)

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName:   "portal_session",
		CookieSecret: "test-secret",
		CookieTTL:    time.Hour,
	}
}

func buildSessionMiddlewareRouter(cfg config.SessionConfig) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	router := gin.New()
	router.Use(Session(cfg))
	router.GET("/", func(c *gin.Context) {
		seen = SessionID(c)
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestSessionMiddlewareMintsCookieWhenMissing(t *testing.T) {
	cfg := sessionTestConfig()
	router, seen := buildSessionMiddlewareRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.NotEmpty(t, *seen)

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cfg.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestSessionMiddlewareReusesValidCookie(t *testing.T) {
	cfg := sessionTestConfig()
	router, seen := buildSessionMiddlewareRouter(cfg)

	first, _ := http.NewRequest(http.MethodGet, "/", nil)
	firstResp := httptest.NewRecorder()
	router.ServeHTTP(firstResp, first)
	firstID := *seen
	cookies := firstResp.Result().Cookies()
	require.Len(t, cookies, 1)

	second, _ := http.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookies[0])
	secondResp := httptest.NewRecorder()
	router.ServeHTTP(secondResp, second)

	assert.Equal(t, firstID, *seen)
	assert.Empty(t, secondResp.Result().Cookies())
}

func TestSessionMiddlewareRejectsTamperedCookie(t *testing.T) {
	cfg := sessionTestConfig()
	router, seen := buildSessionMiddlewareRouter(cfg)

	first, _ := http.NewRequest(http.MethodGet, "/", nil)
	firstResp := httptest.NewRecorder()
	router.ServeHTTP(firstResp, first)
	firstID := *seen
	cookie := firstResp.Result().Cookies()[0]

	// a cookie signed with a different secret must not be trusted
	otherCfg := cfg
	otherCfg.CookieSecret = "different-secret"
	otherRouter, otherSeen := buildSessionMiddlewareRouter(otherCfg)

	second, _ := http.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	secondResp := httptest.NewRecorder()
	otherRouter.ServeHTTP(secondResp, second)

	require.NotEmpty(t, *otherSeen)
	assert.NotEqual(t, firstID, *otherSeen)
	require.Len(t, secondResp.Result().Cookies(), 1)
}

func TestSessionMiddlewareRejectsGarbageCookie(t *testing.T) {
	cfg := sessionTestConfig()
	router, seen := buildSessionMiddlewareRouter(cfg)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-jwt"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.NotEmpty(t, *seen)
	require.Len(t, resp.Result().Cookies(), 1)
}

func TestSessionIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, SessionID(c))
}
