package identity

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// IdentityStore is the read side of the user table that authentication needs.
type IdentityStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string, remember bool) (*SessionObject, error)
	ForceLogin(user *User, remember bool) *SessionObject
	Logout(session *SessionObject)
}

// TokenIssuer mints purpose-scoped lifecycle tokens.
type TokenIssuer interface {
	Issue(payload TokenPayload, purpose string, ttl time.Duration) (string, error)
}

// TokenVerifier checks a lifecycle token against an expected purpose.
type TokenVerifier interface {
	Verify(raw, purpose string) (TokenPayload, error)
}

// TokenService combines issuance and verification.
type TokenService interface {
	TokenIssuer
	TokenVerifier
}

// Notifier delivers a templated message to a single recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// Config holds identity options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
