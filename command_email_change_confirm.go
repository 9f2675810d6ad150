package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ConfirmEmailChangeMessage struct {
	Token string `json:"token"`
	// CurrentUserID is the identity behind the session visiting the link.
	CurrentUserID string `json:"current_user_id"`
	OnResponse    func(user *User)
}

func (e ConfirmEmailChangeMessage) Type() string { return "user.email_change_confirm" }

// ConfirmEmailChangeHandler consumes a change-email token. On top of
// signature, purpose, and expiry, the user id embedded in the token must
// equal the currently authenticated identity: a token minted for account A
// can never rewrite account B's email, no matter how valid it is.
type ConfirmEmailChangeHandler struct {
	repo   RepositoryManager
	tokens TokenVerifier
	logger Logger
}

// NewConfirmEmailChangeHandler creates a handler with sane defaults.
func NewConfirmEmailChangeHandler(repo RepositoryManager, tokens TokenVerifier) *ConfirmEmailChangeHandler {
	return &ConfirmEmailChangeHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *ConfirmEmailChangeHandler) WithLogger(logger Logger) *ConfirmEmailChangeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ConfirmEmailChangeHandler) Execute(ctx context.Context, event ConfirmEmailChangeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during email change confirmation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ConfirmEmailChangeHandler) execute(ctx context.Context, event ConfirmEmailChangeMessage) error {
	if event.CurrentUserID == "" {
		return ErrNotAuthenticated
	}

	payload, err := h.tokens.Verify(event.Token, PurposeChangeEmail)
	if err != nil {
		return err
	}

	if payload.UserID != event.CurrentUserID {
		h.logger.Warn("email change token does not belong to the acting user",
			"token_user", payload.UserID, "acting_user", event.CurrentUserID)
		return ErrTokenInvalid
	}

	if payload.NewEmail == "" {
		return ErrTokenInvalid
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return ErrTokenInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err = h.repo.Users().UpdateEmailTx(ctx, tx, userID, payload.NewEmail)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update email")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email change transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
