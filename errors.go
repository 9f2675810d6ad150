package identity

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeBadCredentials   = "BAD_CREDENTIALS"
	TextCodeTokenInvalid     = "TOKEN_INVALID"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodePermissionDenied = "PERMISSION_DENIED"
	TextCodeNotAuthenticated = "NOT_AUTHENTICATED"
)

// ErrBadCredentials is returned for any failed credential check. The message
// is intentionally generic: it never says whether the identifier or the
// password was wrong, nor whether the identifier exists at all.
var ErrBadCredentials = goerrors.New("wrong username or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid covers bad signatures and purpose mismatches.
var ErrTokenInvalid = goerrors.New("invalid lifecycle token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is a well-signed token past its TTL. It shares the auth
// category and status code with ErrTokenInvalid so callers probing signatures
// cannot tell the two apart from the outside.
var ErrTokenExpired = goerrors.New("lifecycle token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrPermissionDenied is an authenticated identity with an insufficient role.
var ErrPermissionDenied = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(TextCodePermissionDenied).
	WithCode(goerrors.CodeForbidden)

// ErrNotAuthenticated is an anonymous identity attempting a gated action.
var ErrNotAuthenticated = goerrors.New("authentication required", goerrors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenExpired
	}
	return false
}

// IsTokenInvalidError will check for tampered or cross-purpose tokens
func IsTokenInvalidError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTokenInvalid
	}
	return false
}

// IsBadCredentialsError will check for failed credential checks
func IsBadCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeBadCredentials
	}
	return false
}
