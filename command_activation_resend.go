package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type ResendActivationMessage struct {
	UserID     string `json:"user_id"`
	OnResponse func(resp *ResendActivationResponse)
}

func (e ResendActivationMessage) Type() string { return "user.activation_resend" }

type ResendActivationResponse struct {
	Sent             bool `json:"sent"`
	AlreadyActivated bool `json:"already_activated"`
}

// ResendActivationHandler re-issues an activation token for an authenticated
// but inactive account. Each resend gets a fresh TTL; nothing on the user
// record changes.
type ResendActivationHandler struct {
	repo       RepositoryManager
	tokens     TokenIssuer
	dispatcher NotificationDispatcher
	logger     Logger
}

// NewResendActivationHandler creates a handler with sane defaults.
func NewResendActivationHandler(repo RepositoryManager, tokens TokenIssuer) *ResendActivationHandler {
	return &ResendActivationHandler{
		repo:       repo,
		tokens:     tokens,
		dispatcher: noopDispatcher{},
		logger:     defLogger{},
	}
}

// WithDispatcher sets the notification dispatcher used for the activation mail.
func (h *ResendActivationHandler) WithDispatcher(d NotificationDispatcher) *ResendActivationHandler {
	if d != nil {
		h.dispatcher = d
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *ResendActivationHandler) WithLogger(logger Logger) *ResendActivationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ResendActivationHandler) Execute(ctx context.Context, event ResendActivationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during activation resend")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResendActivationHandler) execute(ctx context.Context, event ResendActivationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	resp := &ResendActivationResponse{}

	user, err := h.repo.Users().FindByID(ctx, event.UserID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for activation resend")
	}

	if user.Activated {
		resp.AlreadyActivated = true
		if event.OnResponse != nil {
			event.OnResponse(resp)
		}
		return nil
	}

	token, err := h.tokens.Issue(TokenPayload{UserID: user.GetID()}, PurposeAccountActivation, 0)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue activation token")
	}

	h.dispatcher.Dispatch(user.Email, "Confirm your account", TemplateAccountActivation, map[string]any{
		"username": user.Username,
		"token":    token,
	})

	resp.Sent = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
