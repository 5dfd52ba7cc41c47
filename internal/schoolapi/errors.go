package schoolapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any StatusError carrying a 401 so callers can
// detect an expired or revoked token with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError indicates the backend could not be reached at all.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("school api unreachable: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError carries a non-success response from the backend. Message is
// taken from the response body's "message" or "detail" field, falling back
// to "HTTP <status>".
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
