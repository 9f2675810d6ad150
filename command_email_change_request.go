package identity

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type RequestEmailChangeMessage struct {
	UserID     string `json:"user_id"`
	NewEmail   string `json:"new_email"`
	OnResponse func(resp *RequestEmailChangeResponse)
}

func (e RequestEmailChangeMessage) Type() string { return "user.email_change" }

// Validate will run validation rules
func (e RequestEmailChangeMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.UserID, validation.Required),
		validation.Field(&e.NewEmail, validation.Required, validation.Length(6, 100), is.Email),
	)
}

type RequestEmailChangeResponse struct {
	Sent bool `json:"sent"`
}

// RequestEmailChangeHandler mints a change-email token carrying both the
// acting user id and the requested address, and mails it to the NEW address.
// Nothing changes until the confirmation link is visited.
type RequestEmailChangeHandler struct {
	repo       RepositoryManager
	tokens     TokenIssuer
	dispatcher NotificationDispatcher
	logger     Logger
}

// NewRequestEmailChangeHandler creates a handler with sane defaults.
func NewRequestEmailChangeHandler(repo RepositoryManager, tokens TokenIssuer) *RequestEmailChangeHandler {
	return &RequestEmailChangeHandler{
		repo:       repo,
		tokens:     tokens,
		dispatcher: noopDispatcher{},
		logger:     defLogger{},
	}
}

// WithDispatcher sets the notification dispatcher used for the confirmation mail.
func (h *RequestEmailChangeHandler) WithDispatcher(d NotificationDispatcher) *RequestEmailChangeHandler {
	if d != nil {
		h.dispatcher = d
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RequestEmailChangeHandler) WithLogger(logger Logger) *RequestEmailChangeHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RequestEmailChangeHandler) Execute(ctx context.Context, event RequestEmailChangeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during email change request")
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestEmailChangeHandler) execute(ctx context.Context, event RequestEmailChangeMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid email change payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().FindByID(ctx, event.UserID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for email change")
	}

	token, err := h.tokens.Issue(TokenPayload{
		UserID:   user.GetID(),
		NewEmail: event.NewEmail,
	}, PurposeChangeEmail, 0)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue email change token")
	}

	h.dispatcher.Dispatch(event.NewEmail, "Confirm your email change", TemplateEmailChangeConfirmation, map[string]any{
		"username": user.Username,
		"token":    token,
	})

	if event.OnResponse != nil {
		event.OnResponse(&RequestEmailChangeResponse{Sent: true})
	}

	return nil
}
