package identity_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/skyblog/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivateAccountHandler(t *testing.T) {
	ctx := context.Background()
	tokens := testTokenService()

	t.Run("flips the activated flag for a valid token", func(t *testing.T) {
		users := &MockUsers{}
		repo := &fakeRepoManager{users: users, roles: &MockRoles{}}

		userID := uuid.New()
		activated := &identity.User{ID: userID, Username: "pepe", Activated: true}
		users.On("SetActivatedTx", mock.Anything, mock.Anything, userID, true).
			Return(activated, nil).Once()

		token, err := tokens.Issue(identity.TokenPayload{UserID: userID.String()}, identity.PurposeAccountActivation, 0)
		require.NoError(t, err)

		handler := identity.NewActivateAccountHandler(repo, tokens).WithLogger(testLogger{})

		var result *identity.User
		err = handler.Execute(ctx, identity.ActivateAccountMessage{
			Token: token,
			OnResponse: func(user *identity.User) {
				result = user
			},
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Activated)
		users.AssertExpectations(t)
	})

	t.Run("a recovery token cannot activate an account", func(t *testing.T) {
		users := &MockUsers{}
		repo := &fakeRepoManager{users: users, roles: &MockRoles{}}

		token, err := tokens.Issue(identity.TokenPayload{UserID: uuid.NewString()}, identity.PurposeAccountRecovery, 0)
		require.NoError(t, err)

		handler := identity.NewActivateAccountHandler(repo, tokens).WithLogger(testLogger{})

		err = handler.Execute(ctx, identity.ActivateAccountMessage{Token: token})
		require.Error(t, err)
		assert.True(t, identity.IsTokenInvalidError(err))

		// The store is never touched for a bad token.
		users.AssertNotCalled(t, "SetActivatedTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("an expired token leaves the account unactivated", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clocked := identity.NewTokenService([]byte("test-signing-key"), time.Hour, "test-issuer",
			identity.WithTokenClock(func() time.Time { return now }),
		)

		token, err := clocked.Issue(identity.TokenPayload{UserID: uuid.NewString()}, identity.PurposeAccountActivation, time.Minute)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)

		users := &MockUsers{}
		repo := &fakeRepoManager{users: users, roles: &MockRoles{}}
		handler := identity.NewActivateAccountHandler(repo, clocked).WithLogger(testLogger{})

		err = handler.Execute(ctx, identity.ActivateAccountMessage{Token: token})
		require.Error(t, err)
		assert.True(t, identity.IsTokenExpiredError(err))
		users.AssertNotCalled(t, "SetActivatedTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a vanished account reads as an invalid token", func(t *testing.T) {
		userID := uuid.New()

		users := &MockUsers{}
		users.On("SetActivatedTx", mock.Anything, mock.Anything, userID, true).
			Return(nil, repository.NewRecordNotFound()).Once()

		repo := &fakeRepoManager{users: users, roles: &MockRoles{}}

		token, err := tokens.Issue(identity.TokenPayload{UserID: userID.String()}, identity.PurposeAccountActivation, 0)
		require.NoError(t, err)

		handler := identity.NewActivateAccountHandler(repo, tokens).WithLogger(testLogger{})

		err = handler.Execute(ctx, identity.ActivateAccountMessage{Token: token})
		require.Error(t, err)
		assert.True(t, identity.IsTokenInvalidError(err))
	})

	t.Run("a token with a garbage subject is invalid", func(t *testing.T) {
		repo := &fakeRepoManager{users: &MockUsers{}, roles: &MockRoles{}}

		token, err := tokens.Issue(identity.TokenPayload{UserID: "not-a-uuid"}, identity.PurposeAccountActivation, 0)
		require.NoError(t, err)

		handler := identity.NewActivateAccountHandler(repo, tokens).WithLogger(testLogger{})

		err = handler.Execute(ctx, identity.ActivateAccountMessage{Token: token})
		assert.True(t, identity.IsTokenInvalidError(err))
	})
}
