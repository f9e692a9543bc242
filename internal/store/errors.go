package store

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeEmailRegistered  = "store_email_registered"
	TextCodeUserNotFound     = "store_user_not_found"
	TextCodeConfigNotFound   = "store_configuration_not_found"
	TextCodeStoreUnavailable = "store_unavailable"
)

// ErrEmailRegistered is returned when a registration collides with an
// existing email. The unique index is the authoritative backstop; the
// pre-insert check only produces a friendlier fast path.
var ErrEmailRegistered = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailRegistered).
	WithCode(errors.CodeBadRequest)

// ErrUserNotFound is returned when an id or email resolves to no account.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrConfigurationNotFound covers both a nonexistent configuration and one
// owned by another account. Callers cannot tell the two apart.
var ErrConfigurationNotFound = errors.New("configuration not found", errors.CategoryNotFound).
	WithTextCode(TextCodeConfigNotFound).
	WithCode(errors.CodeNotFound)

// ErrUnavailable is returned when the pool cannot produce a connection
// within its wait timeout. Retryable by the caller.
var ErrUnavailable = errors.New("storage temporarily unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(503)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
