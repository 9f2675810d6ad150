package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionObject is the per-connection authentication state. It is created at
// login, destroyed at logout, and never shared across connections.
type SessionObject struct {
	UserID     string     `json:"user_id,omitempty"`
	Remembered bool       `json:"remembered,omitempty"`
	Activated  bool       `json:"activated,omitempty"`
	IssuedAt   *time.Time `json:"issued_at,omitempty"`
}

// AnonymousSession is the identity of a connection before login and after
// logout. Every permission check against it answers false.
func AnonymousSession() *SessionObject {
	return &SessionObject{}
}

func (s *SessionObject) GetUserID() string {
	if s == nil {
		return ""
	}
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.GetUserID())
}

// IsAnonymous reports whether the session identifies nobody.
func (s *SessionObject) IsAnonymous() bool {
	return s == nil || s.UserID == ""
}

// IsActivated reports whether the identity behind the session completed
// account activation. A forced login yields an authenticated session with
// this still false; callers gate everything but the activation views on it.
func (s *SessionObject) IsActivated() bool {
	return s != nil && s.Activated
}

// Clear resets the session to anonymous. Safe to call repeatedly.
func (s *SessionObject) Clear() {
	if s == nil {
		return
	}
	s.UserID = ""
	s.Remembered = false
	s.Activated = false
	s.IssuedAt = nil
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s remembered=%t activated=%t iat=%s",
		s.UserID,
		s.Remembered,
		s.Activated,
		issuedAt,
	)
}
