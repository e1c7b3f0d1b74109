package lastfm

import (
	"errors"
	"fmt"
)

// Error represents a Last.fm API error.
//
// The Error type provides structured error information including
// the Last.fm error code and message. It implements error, and
// provides additional methods for retry logic.
type Error struct {
	Code    int    // Last.fm error code
	Message string // Error message from Last.fm
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is checks if the target error is a Last.fm error with the same code.
//
// This allows errors.Is() to work with *Error types.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Temporary returns true if the error is temporary and the request
// should be retried.
//
// The following Last.fm error codes are considered temporary:
//   - 11: Service Offline - temporarily unavailable
//   - 16: Service Temporarily Unavailable
func (e *Error) Temporary() bool {
	switch e.Code {
	case ErrCodeServiceOffline, ErrCodeTempUnavailable:
		return true
	default:
		return false
	}
}

// Common Last.fm error codes.
const (
	ErrCodeInvalidService       = 2
	ErrCodeInvalidMethod        = 3
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidFormat        = 5
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidResourceSpec  = 7
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeSubscribersOnly      = 12
	ErrCodeInvalidSignature     = 13
	ErrCodeUnauthorizedToken    = 14
	ErrCodeExpiredToken         = 15
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// HTTPError is returned when the API answers with a non-success HTTP status
// that carries no Last.fm error document.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("lastfm: unexpected status code: %d %s", e.StatusCode, e.Status)
}

// HydrationError reports an entity whose XML parsed but lacks a field the
// entity cannot exist without, or carries a value that cannot be coerced.
type HydrationError struct {
	Entity string // entity type, e.g. "track"
	Field  string // offending field or tag
	Err    error
}

func (e *HydrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lastfm: %s %s: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("lastfm: %s %s: missing", e.Entity, e.Field)
}

func (e *HydrationError) Unwrap() error {
	return e.Err
}

// Predefined errors for common cases.
var (
	// ErrNoSessionKey is returned when an operation requires authentication
	// but no session key has been set.
	ErrNoSessionKey = errors.New("lastfm: session key required")

	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("lastfm: invalid configuration")

	// ErrInvalidArgument is returned when a required identity field is
	// blank or an argument is outside its allowed set.
	ErrInvalidArgument = errors.New("lastfm: invalid argument")

	// ErrNotSupported is returned by operations that need authenticated
	// calls this client does not implement.
	ErrNotSupported = errors.New("lastfm: operation not supported")

	// ErrMissingRoot is returned when a response lacks the element an
	// operation reads its payload from.
	ErrMissingRoot = errors.New("lastfm: response missing payload element")
)

// argumentError wraps ErrInvalidArgument with the offending field.
func argumentError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, reason)
}

// isRetryableError determines if an error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var lastfmErr *Error
	if errors.As(err, &lastfmErr) {
		return lastfmErr.Temporary()
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}

	return false
}
