package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthState is the coarse login state of the client.
type AuthState int

const (
	// StateUnknown is the transient startup state while the token store
	// is being read.
	StateUnknown AuthState = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	User         *User  `json:"user"`
}

// Session is the in-memory mirror of the persisted auth artifacts that
// the UI consumes reactively.
type Session struct {
	User          *User
	AccessToken   string
	Authenticated bool

	// ExpiresAt is an informational hint parsed from the access token,
	// zero when the token carries no exp claim. Refresh stays reactive;
	// nothing schedules work off this value.
	ExpiresAt time.Time
}

// ExpiresSoon reports whether the token expires within the given window.
// Always false when no expiry is known.
func (s Session) ExpiresSoon(window time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(s.ExpiresAt) < window
}

// TokenExpiry extracts the exp claim from a JWT access token without
// verifying its signature (the client has no verification key; the value
// is a display hint only). The second return is false when the token is
// not a parseable JWT or has no exp claim.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
