package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the portal's view of the current authenticated user: the opaque
// upstream bearer token plus attributes derived from it. All fields are owned
// by the session store; IsAdmin is never true without a successful admin probe
// for the currently-held token.
type Session struct {
	Token          string `json:"token"`
	IsAdmin        bool   `json:"is_admin"`
	UserIdentifier string `json:"user_identifier"`
	UserName       string `json:"user_name"`
	UserEmail      string `json:"user_email"`
	UserID         string `json:"user_id"`
}

// SignedIn reports whether a token is held.
func (s Session) SignedIn() bool {
	return s.Token != ""
}

// DisplayIdentifier picks the friendliest available label for the session
// indicator: name, then email, then the user-entered identifier, then id.
func (s Session) DisplayIdentifier() string {
	for _, candidate := range []string{s.UserName, s.UserEmail, s.UserIdentifier, s.UserID} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// SessionView is the session as exposed over HTTP: the raw token never
// leaves the portal, only its presence does.
type SessionView struct {
	SignedIn       bool   `json:"signed_in"`
	IsAdmin        bool   `json:"is_admin"`
	UserIdentifier string `json:"user_identifier,omitempty"`
	UserName       string `json:"user_name,omitempty"`
	UserEmail      string `json:"user_email,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

// View redacts the session for HTTP responses.
func (s Session) View() SessionView {
	return SessionView{
		SignedIn:       s.SignedIn(),
		IsAdmin:        s.IsAdmin,
		UserIdentifier: s.UserIdentifier,
		UserName:       s.UserName,
		UserEmail:      s.UserEmail,
		UserID:         s.UserID,
	}
}

// SessionClaims is the JWT payload of the browser session cookie. The cookie
// carries only the session id; all session fields live server-side.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Profile is the upstream account payload used for session enrichment.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// DisplayName derives the profile's display name: "first last" trimmed,
// falling back to the username, then to empty.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	return p.Username
}
