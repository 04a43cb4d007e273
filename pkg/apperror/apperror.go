package apperror

import (
	"errors"
	"net/http"
)

// Sentinel errors forming the service error taxonomy. Services wrap these
// with context via fmt.Errorf("%w: ..."); handlers map them to HTTP statuses
// through Status.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("conflict with current state")
	ErrInternal        = errors.New("internal server error")
)

// Status maps a taxonomy error to its HTTP status code. Unknown errors are
// treated as internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
