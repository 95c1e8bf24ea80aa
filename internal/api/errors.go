package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse is returned when a response body does not match the
// expected schema. A missing field is treated as unknown, never as zero.
var ErrMalformedResponse = errors.New("malformed backend response")

// StatusError is a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d %s: %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}

// UserMessage returns a short text for the status bar.
func (e *StatusError) UserMessage() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return "not authorized, check api_token"
	case e.StatusCode >= 500:
		return fmt.Sprintf("backend unavailable (HTTP %d)", e.StatusCode)
	case e.Message != "":
		return e.Message
	default:
		return http.StatusText(e.StatusCode)
	}
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
