package identity_test

import (
	"testing"

	"github.com/skyblog/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := identity.HashPassword("password12345")
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "password12345", hash)

		assert.NoError(t, identity.ComparePasswordAndHash("password12345", hash))
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		_, err := identity.HashPassword("")
		assert.ErrorIs(t, err, identity.ErrNoEmptyString)
	})

	t.Run("two hashes of the same password differ", func(t *testing.T) {
		first, err := identity.HashPassword("password12345")
		require.NoError(t, err)
		second, err := identity.HashPassword("password12345")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := identity.HashPassword("password12345")
	require.NoError(t, err)

	t.Run("mismatch reports bad credentials", func(t *testing.T) {
		err := identity.ComparePasswordAndHash("wrong-password", hash)
		require.Error(t, err)
		assert.True(t, identity.IsBadCredentialsError(err))
	})

	t.Run("garbage hash is an error", func(t *testing.T) {
		err := identity.ComparePasswordAndHash("password12345", "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}
