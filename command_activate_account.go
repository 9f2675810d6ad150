package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ActivateAccountMessage struct {
	Token      string `json:"token"`
	OnResponse func(user *User)
}

func (e ActivateAccountMessage) Type() string { return "user.activate" }

// ActivateAccountHandler consumes an account-activation token and flips the
// activated flag. The token is checked for signature, purpose, and expiry
// before any user record is touched; a bad token leaves the account
// unactivated.
type ActivateAccountHandler struct {
	repo   RepositoryManager
	tokens TokenVerifier
	logger Logger
}

// NewActivateAccountHandler creates a handler with sane defaults.
func NewActivateAccountHandler(repo RepositoryManager, tokens TokenVerifier) *ActivateAccountHandler {
	return &ActivateAccountHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ActivateAccountHandler) WithLogger(logger Logger) *ActivateAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account activation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateAccountHandler) execute(ctx context.Context, event ActivateAccountMessage) error {
	payload, err := h.tokens.Verify(event.Token, PurposeAccountActivation)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return ErrTokenInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Re-activating an already active account is a harmless no-op.
		user, err = h.repo.Users().SetActivatedTx(ctx, tx, userID, true)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				// Do not confirm whether the account behind the token exists.
				return ErrTokenInvalid
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account activation transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
