package identity_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/skyblog/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	t.Run("expired and invalid are distinguishable", func(t *testing.T) {
		assert.True(t, identity.IsTokenExpiredError(identity.ErrTokenExpired))
		assert.False(t, identity.IsTokenExpiredError(identity.ErrTokenInvalid))

		assert.True(t, identity.IsTokenInvalidError(identity.ErrTokenInvalid))
		assert.False(t, identity.IsTokenInvalidError(identity.ErrTokenExpired))
	})

	t.Run("bad credentials", func(t *testing.T) {
		assert.True(t, identity.IsBadCredentialsError(identity.ErrBadCredentials))
		assert.False(t, identity.IsBadCredentialsError(identity.ErrTokenInvalid))
		assert.False(t, identity.IsBadCredentialsError(errors.New("boom")))
		assert.False(t, identity.IsBadCredentialsError(nil))
	})

	t.Run("wrapped errors keep their text code", func(t *testing.T) {
		wrapped := goerrors.Wrap(identity.ErrTokenExpired, goerrors.CategoryAuth, "outer context")
		assert.True(t, identity.IsTokenExpiredError(wrapped))
	})
}

func TestErrorShape(t *testing.T) {
	t.Run("credential failures never name the failing field", func(t *testing.T) {
		assert.NotContains(t, identity.ErrBadCredentials.Message, "email")
		assert.NotContains(t, identity.ErrBadCredentials.Message, "not found")
	})

	t.Run("expired and invalid share category and code", func(t *testing.T) {
		assert.Equal(t, identity.ErrTokenInvalid.Category, identity.ErrTokenExpired.Category)
		assert.Equal(t, identity.ErrTokenInvalid.Code, identity.ErrTokenExpired.Code)
	})

	t.Run("authz failures map to forbidden", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuthz, identity.ErrPermissionDenied.Category)
		assert.Equal(t, goerrors.CategoryAuth, identity.ErrNotAuthenticated.Category)
	})
}
