package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/pkg/config"
)

// ContextSessionKey is the gin context key storing the browser session id.
const ContextSessionKey = "sessionID"

// Session identifies the browser session. The cookie carries only a signed
// session id; all session fields live server-side. A missing or invalid
// cookie mints a fresh session transparently.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	secret := []byte(cfg.CookieSecret)

	return func(c *gin.Context) {
		sessionID := ""
		if raw, err := c.Cookie(cfg.CookieName); err == nil && raw != "" {
			if id, err := parseSessionCookie(raw, secret); err == nil {
				sessionID = id
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			if signed, err := signSessionCookie(sessionID, secret, cfg.CookieTTL); err == nil {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(cfg.CookieName, signed, int(cfg.CookieTTL.Seconds()), "/", "", cfg.CookieSecure, true)
			}
		}

		c.Set(ContextSessionKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session id stored by the Session middleware.
func SessionID(c *gin.Context) string {
	if v, exists := c.Get(ContextSessionKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func parseSessionCookie(raw string, secret []byte) (string, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.SessionID, nil
}

func signSessionCookie(sessionID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := models.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
