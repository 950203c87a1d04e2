// Package apperr defines the error kinds surfaced by the application's
// services and their mapping to HTTP status codes. Services wrap these
// sentinels with %w; controllers and middleware match with errors.Is and
// convert exactly once at the boundary.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredential is returned when a request carries no session
	// cookie, or one that fails signature or claim validation.
	ErrMissingCredential = errors.New("missing or invalid session credential")

	// ErrStaleCredential is returned when a session credential resolves to
	// an account that no longer exists. The credential must be invalidated.
	ErrStaleCredential = errors.New("session references unknown account")

	// ErrStoreUnavailable is a transient infrastructure failure: the
	// connection pool timed out or the store itself is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound covers absent users, pictures and matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSwipe is the unique-constraint violation on a re-swipe.
	// Callers must not retry.
	ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")

	// ErrSelfSwipe rejects a swipe whose target is the swiper.
	ErrSelfSwipe = errors.New("cannot swipe on yourself")

	// ErrInvalidCredentials is a failed password verification.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrValidation is a malformed or incomplete request body.
	ErrValidation = errors.New("invalid request")
)

// Status maps an error to its HTTP status code. Unknown errors are
// treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrSelfSwipe),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrStaleCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateSwipe):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
