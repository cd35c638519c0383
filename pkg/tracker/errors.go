package tracker

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the tracker rejected the credential (401/403).
	// The stored credential is kept so the user can inspect and replace it.
	ErrUnauthorized = errors.New("tracker rejected the credential")

	// ErrEmptyResponse means the tracker answered 2xx with a blank body where
	// a body was required.
	ErrEmptyResponse = errors.New("empty response received from tracker")

	// ErrMalformedResponse means the tracker answered 2xx with a body that is
	// not valid JSON.
	ErrMalformedResponse = errors.New("malformed response received from tracker")
)

// StatusError is a non-2xx tracker response other than an authorization
// rejection. It carries the status and raw body text for the user.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tracker returned status %d: %s", e.StatusCode, e.Body)
}

// statusToError classifies a non-2xx response. 401 and 403 are authorization
// failures; everything else is a server-side error with detail attached.
func statusToError(statusCode int, body string) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, statusCode)
	}
	return &StatusError{StatusCode: statusCode, Body: body}
}
