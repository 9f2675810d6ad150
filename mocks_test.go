package identity_test

import (
	"context"
	"database/sql"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/skyblog/go-identity"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements identity.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() identity.Users {
	args := m.Called()
	return args.Get(0).(identity.Users)
}

func (m *MockRepositoryManager) Roles() identity.Roles {
	args := m.Called()
	return args.Get(0).(identity.Roles)
}

// fakeRepoManager runs transaction closures with a zero-value bun.Tx, which
// is all the mocked repositories need, and propagates the closure error the
// way a rolled back transaction would.
type fakeRepoManager struct {
	users identity.Users
	roles identity.Roles
}

func (f *fakeRepoManager) Validate() error { return nil }
func (f *fakeRepoManager) MustValidate()   {}

func (f *fakeRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	var tx bun.Tx
	return fn(ctx, tx)
}

func (f *fakeRepoManager) Users() identity.Users { return f.users }
func (f *fakeRepoManager) Roles() identity.Roles { return f.roles }

// MockUsers implements identity.Users. The embedded repository interface
// covers the generic CRUD surface; only the methods the handlers call are
// stubbed.
type MockUsers struct {
	mock.Mock
	repository.Repository[*identity.User]
}

func (m *MockUsers) FindByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id string) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*identity.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, user *identity.User) (*identity.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// RegisterTx echoes the input user when the expectation returns nil, which
// matches what the real repository does after filling in defaults.
func (m *MockUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *identity.User) (*identity.User, error) {
	args := m.Called(ctx, tx, user)
	if created, ok := args.Get(0).(*identity.User); ok {
		return created, args.Error(1)
	}
	return user, args.Error(1)
}

func (m *MockUsers) SetActivated(ctx context.Context, id uuid.UUID, activated bool) (*identity.User, error) {
	args := m.Called(ctx, id, activated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) SetActivatedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, activated bool) (*identity.User, error) {
	args := m.Called(ctx, tx, id, activated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) UpdateEmailTx(ctx context.Context, tx bun.IDB, id uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUsers) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUsers) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsers) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockRoles implements identity.Roles
type MockRoles struct {
	mock.Mock
	repository.Repository[*identity.Role]
}

func (m *MockRoles) GetByName(ctx context.Context, name string) (*identity.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoles) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*identity.Role, error) {
	args := m.Called(ctx, tx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoles) UpsertByName(ctx context.Context, name string, permissions identity.Permission) (*identity.Role, error) {
	args := m.Called(ctx, name, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoles) UpsertByNameTx(ctx context.Context, tx bun.IDB, name string, permissions identity.Permission) (*identity.Role, error) {
	args := m.Called(ctx, tx, name, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

// MockIdentityStore implements identity.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockIdentityStore) FindByID(ctx context.Context, id string) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

type sentNotification struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// recordingDispatcher captures dispatched notifications for assertions.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (d *recordingDispatcher) Dispatch(to, subject, template string, data map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentNotification{
		To:       to,
		Subject:  subject,
		Template: template,
		Data:     data,
	})
}

func (d *recordingDispatcher) Sent() []sentNotification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]sentNotification, len(d.sent))
	copy(out, d.sent)
	return out
}

// MockContentRemover implements identity.ContentRemover
type MockContentRemover struct {
	mock.Mock
}

func (m *MockContentRemover) RemoveAllForUser(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}
