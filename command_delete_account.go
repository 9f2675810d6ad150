package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentRemover cascades the deletion of everything an account owns. The
// blog content subsystem provides the real implementation; posts, comments,
// and likes are not this package's tables.
type ContentRemover interface {
	RemoveAllForUser(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type noopContentRemover struct{}

func (noopContentRemover) RemoveAllForUser(context.Context, bun.IDB, uuid.UUID) error {
	return nil
}

type DeleteAccountMessage struct {
	UserID string `json:"user_id"`
}

func (e DeleteAccountMessage) Type() string { return "user.delete" }

// DeleteAccountHandler removes an identity and its owned content in one
// transaction. No token is involved: this is a direct action by the
// authenticated owner, and the caller destroys the session before invoking
// it.
type DeleteAccountHandler struct {
	repo    RepositoryManager
	content ContentRemover
	logger  Logger
}

// NewDeleteAccountHandler creates a handler with sane defaults.
func NewDeleteAccountHandler(repo RepositoryManager) *DeleteAccountHandler {
	return &DeleteAccountHandler{
		repo:    repo,
		content: noopContentRemover{},
		logger:  defLogger{},
	}
}

// WithContentRemover sets the cascade used for owned content.
func (h *DeleteAccountHandler) WithContentRemover(c ContentRemover) *DeleteAccountHandler {
	if c != nil {
		h.content = c
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *DeleteAccountHandler) WithLogger(logger Logger) *DeleteAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *DeleteAccountHandler) Execute(ctx context.Context, event DeleteAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account deletion")
	default:
		return h.execute(ctx, event)
	}
}

func (h *DeleteAccountHandler) execute(ctx context.Context, event DeleteAccountMessage) error {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return goerrors.New("invalid user id", goerrors.CategoryBadInput)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := h.content.RemoveAllForUser(ctx, tx, userID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove owned content")
		}

		if err := h.repo.Users().RemoveTx(ctx, tx, userID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account deletion transaction failed")
	}

	return nil
}
