package auth

import "github.com/goliatone/go-errors"

const (
	TextCodeMissingToken       = "auth_missing_token"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenInvalid       = "auth_token_invalid"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeAccountNotFound    = "auth_account_not_found"
	TextCodeAdminRequired      = "auth_admin_required"
)

// ErrMissingToken is returned when a request carries no bearer credential.
var ErrMissingToken = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeMissingToken).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the token's expiry has passed.
var ErrTokenExpired = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned for malformed envelopes, bad signatures,
// and claim sets that lack a subject.
var ErrTokenInvalid = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not match. Both cases produce the same message.
var ErrInvalidCredentials = errors.New("incorrect email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound is returned by the admin guard when the token subject
// no longer resolves to a live account.
var ErrAccountNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeNotFound)

// ErrAdminRequired is returned when a valid identity lacks the admin role.
var ErrAdminRequired = errors.New("admin access required", errors.CategoryAuthz).
	WithTextCode(TextCodeAdminRequired).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the verification failure sentinel.
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
