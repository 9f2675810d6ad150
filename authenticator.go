package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// Auther authenticates credentials against an injected identity store. All
// collaborators arrive through the constructor; there is no process-wide
// registry to reach into.
type Auther struct {
	store        IdentityStore
	tokenService TokenService
	logger       Logger
	now          clockFunc
}

// NewAuthenticator returns a new Authenticator. It fails when the config is
// missing the signing secret, which is the one error that should abort
// startup.
func NewAuthenticator(store IdentityStore, cfg Config) (*Auther, error) {
	if store == nil {
		return nil, goerrors.New("identity store is required", goerrors.CategoryInternal)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return &Auther{
		store:        store,
		tokenService: NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenTTL(), cfg.GetIssuer()),
		logger:       defLogger{},
		now:          defaultClock,
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *Auther) WithClock(clock clockFunc) *Auther {
	if clock != nil {
		s.now = clock
	}
	return s
}

// WithTokenService overrides the token service built from the config.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login resolves the identifier against username or email, compares the
// password hash, and establishes a session. An account that has not been
// activated still gets a session so it can reach the activation views; the
// caller gates every other action on SessionObject.Activated.
func (s *Auther) Login(ctx context.Context, identifier, password string, remember bool) (*SessionObject, error) {
	user, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// Same error as a wrong password: callers learn nothing about
			// which field failed.
			return nil, ErrBadCredentials
		}
		s.logger.Error("login identifier lookup failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}

	if user == nil {
		return nil, ErrBadCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if IsBadCredentialsError(err) {
			return nil, ErrBadCredentials
		}
		s.logger.Error("login password comparison failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare credentials")
	}

	if !user.Activated {
		s.logger.Info("inactive account login", "user_id", user.GetID())
	}

	return s.ForceLogin(user, remember), nil
}

// ForceLogin establishes a session without a credential check. It backs the
// register-then-session flow: a freshly created account is logged in
// immediately so the activation email round trip happens in the same visit.
func (s *Auther) ForceLogin(user *User, remember bool) *SessionObject {
	if user == nil {
		return AnonymousSession()
	}

	now := s.now()
	return &SessionObject{
		UserID:     user.GetID(),
		Remembered: remember,
		Activated:  user.Activated,
		IssuedAt:   &now,
	}
}

// Logout destroys the session. Logging out an anonymous or already cleared
// session is harmless.
func (s *Auther) Logout(session *SessionObject) {
	session.Clear()
}

// UserFromSession loads the full user record behind a session.
func (s *Auther) UserFromSession(ctx context.Context, session *SessionObject) (*User, error) {
	if session.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}

	user, err := s.store.FindByID(ctx, session.GetUserID())
	if err != nil {
		s.logger.Error("user from session lookup failed", "error", err)
		return nil, err
	}

	return user, nil
}

var _ Authenticator = (*Auther)(nil)
