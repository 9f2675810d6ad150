package identity

import (
	"context"
)

var userCtxKey = &contextKey{"user"}
var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithSessionContext sets the SessionObject in the given context
func WithSessionContext(r context.Context, session *SessionObject) context.Context {
	return context.WithValue(r, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (*SessionObject, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*SessionObject)
	return raw, ok
}

// Guard is the explicit permission check action handlers call before
// mutating content: ErrNotAuthenticated for anonymous callers,
// ErrPermissionDenied for an authenticated identity whose role lacks the
// bit. The boundary maps these to 401/403 responses.
func Guard(ctx context.Context, p Permission) error {
	user, ok := FromContext(ctx)
	if !ok || user == nil {
		return ErrNotAuthenticated
	}

	if !Can(user, p) {
		return ErrPermissionDenied
	}

	return nil
}

// GuardAdmin is sugar for Guard(ctx, PermissionAdminister).
func GuardAdmin(ctx context.Context) error {
	return Guard(ctx, PermissionAdminister)
}
