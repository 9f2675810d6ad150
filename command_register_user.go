package identity

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	UseHashid  bool
	OnResponse func(user *User)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules. Username is optional: when blank the
// handler derives one from the email local part.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Length(3, 60)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
	)
}

// RegisterUserHandler creates the account in its unactivated state, mints the
// activation token, and fires the welcome notification. The caller receives
// the created user through OnResponse so it can establish the forced session
// right away; no second login step is needed before the activation email
// lands.
type RegisterUserHandler struct {
	repo       RepositoryManager
	tokens     TokenIssuer
	dispatcher NotificationDispatcher
	logger     Logger
}

// NewRegisterUserHandler creates a handler with sane defaults.
func NewRegisterUserHandler(repo RepositoryManager, tokens TokenIssuer) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:       repo,
		tokens:     tokens,
		dispatcher: noopDispatcher{},
		logger:     defLogger{},
	}
}

// WithDispatcher sets the notification dispatcher used for the activation mail.
func (h *RegisterUserHandler) WithDispatcher(d NotificationDispatcher) *RegisterUserHandler {
	if d != nil {
		h.dispatcher = d
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	user := &User{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Username = getUsername(event.Username, event.Email)
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if role, err := h.repo.Roles().GetByNameTx(ctx, tx, RoleNameUser); err == nil {
			user.RoleID = &role.ID
			user.Role = role
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve default role")
		} else {
			h.logger.Warn("default role missing, registering user without role", "role", RoleNameUser)
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	h.sendActivation(user)

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}

func (h *RegisterUserHandler) sendActivation(user *User) {
	token, err := h.tokens.Issue(TokenPayload{UserID: user.GetID()}, PurposeAccountActivation, 0)
	if err != nil {
		h.logger.Error("failed to issue activation token", "error", err, "user_id", user.GetID())
		return
	}

	h.dispatcher.Dispatch(user.Email, "Confirm your account", TemplateAccountActivation, map[string]any{
		"username": user.Username,
		"token":    token,
	})
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
