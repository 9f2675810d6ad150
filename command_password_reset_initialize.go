package identity

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset" }

// Validate will run validation rules
func (e InitializePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type InitializePasswordResetResponse struct {
	Success bool `json:"success"`
}

// InitializePasswordResetHandler mints an account-recovery token and mails
// the reset link. An unknown email reports the same success as a known one,
// so the endpoint cannot be used to enumerate accounts.
type InitializePasswordResetHandler struct {
	repo       RepositoryManager
	tokens     TokenIssuer
	dispatcher NotificationDispatcher
	logger     Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager, tokens TokenIssuer) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:       repo,
		tokens:     tokens,
		dispatcher: noopDispatcher{},
		logger:     defLogger{},
	}
}

// WithDispatcher sets the notification dispatcher used for the recovery mail.
func (h *InitializePasswordResetHandler) WithDispatcher(d NotificationDispatcher) *InitializePasswordResetHandler {
	if d != nil {
		h.dispatcher = d
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	resp := &InitializePasswordResetResponse{Success: true}

	user, err := h.repo.Users().FindByIdentifier(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// Report success either way; only the mail differs.
			if event.OnResponse != nil {
				event.OnResponse(resp)
			}
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := h.tokens.Issue(TokenPayload{UserID: user.GetID()}, PurposeAccountRecovery, 0)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue recovery token")
	}

	h.dispatcher.Dispatch(user.Email, "Reset your password", TemplateAccountRecovery, map[string]any{
		"username": user.Username,
		"token":    token,
	})

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
