package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Purpose salts. A token minted for one purpose fails verification against
// any other, which keeps an activation link from being replayed as a
// password-reset link.
const (
	PurposeAccountActivation = "account-activation"
	PurposeAccountRecovery   = "account-recovery"
	PurposeChangeEmail       = "change-email"
)

// TokenPayload is what a lifecycle token carries. NewEmail is only set for
// change-email tokens. IssuedAt lets consumers compare the mint time against
// per-user rotation timestamps.
type TokenPayload struct {
	UserID   string
	NewEmail string
	IssuedAt time.Time
}

// LifecycleClaims is the wire shape of a lifecycle token.
type LifecycleClaims struct {
	jwt.RegisteredClaims
	Purpose  string `json:"pur"`
	NewEmail string `json:"eml,omitempty"`
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	defaultTTL time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceOption customizes token service construction.
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock injects a custom clock (useful for tests).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the logger used by the token service.
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, defaultTTL time.Duration, issuer string, opts ...TokenServiceOption) *TokenServiceImpl {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}

	ts := &TokenServiceImpl{
		signingKey: signingKey,
		defaultTTL: defaultTTL,
		issuer:     issuer,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// Issue mints a purpose-scoped token. A zero or negative ttl uses the
// service default.
func (ts *TokenServiceImpl) Issue(payload TokenPayload, purpose string, ttl time.Duration) (string, error) {
	if payload.UserID == "" {
		return "", goerrors.New("token payload is missing the user id", goerrors.CategoryBadInput)
	}
	if purpose == "" {
		return "", goerrors.New("token purpose must not be empty", goerrors.CategoryBadInput)
	}

	if ttl <= 0 {
		ttl = ts.defaultTTL
	}

	issuedAt := payload.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = ts.now()
	}

	claims := &LifecycleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   payload.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Purpose:  purpose,
		NewEmail: payload.NewEmail,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign lifecycle token")
	}

	return signedString, nil
}

// Verify parses a token string and checks signature, expiry, and purpose.
// It is pure over the input, the signing key, and the clock: no store lookup
// happens here, so a bad token is rejected before any user record is read.
func (ts *TokenServiceImpl) Verify(raw, purpose string) (TokenPayload, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &LifecycleClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token verify encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, ErrTokenExpired
		}
		return TokenPayload{}, goerrors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode)
	}

	claims, ok := token.Claims.(*LifecycleClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token verify could not decode claims")
		return TokenPayload{}, ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		ts.logger.Warn("token purpose mismatch", "want", purpose, "got", claims.Purpose)
		return TokenPayload{}, ErrTokenInvalid
	}

	payload := TokenPayload{
		UserID:   claims.Subject,
		NewEmail: claims.NewEmail,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}

	return payload, nil
}
