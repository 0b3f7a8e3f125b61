// Package apierror defines the typed errors returned by the createsend client
// when the API answers with a non-2xx status.
//
// A 400, 401, 404 or 500 produces an *Error of the matching Kind carrying the
// provider's error Code and Message. Any other status produces KindHTTP with
// only the status attached.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed API call.
type Error struct {
	// Kind classifies the failure by HTTP status.
	Kind Kind `json:"kind"`
	// Status is the HTTP status code of the response.
	Status int `json:"status"`
	// Code is the provider-supplied error code. Zero for KindHTTP or when
	// the response body could not be decoded.
	Code int `json:"code"`
	// Message is the provider-supplied message, or the status text when
	// the body carried none.
	Message string `json:"message"`
	// Cause is the underlying transport error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Kind.carriesBody() {
		return fmt.Sprintf("createsend: %s (HTTP %d): %d: %s", e.Kind, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("createsend: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error of the same Kind, so callers can compare against
// the sentinel values below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
}

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Sentinels for errors.Is.
var (
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrServerError  = &Error{Kind: KindServerError}
	ErrHTTP         = &Error{Kind: KindHTTP}
)

// --- Constructors ---

// BadRequest creates a 400 error.
func BadRequest(code int, message string) *Error {
	return &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized creates a 401 error.
func Unauthorized(code int, message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Code: code, Message: message}
}

// NotFound creates a 404 error.
func NotFound(code int, message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Code: code, Message: message}
}

// ServerError creates a 500 error.
func ServerError(code int, message string) *Error {
	return &Error{Kind: KindServerError, Status: http.StatusInternalServerError, Code: code, Message: message}
}

// HTTPStatus creates a generic error for a status without a dedicated kind.
func HTTPStatus(status int) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: statusText(status)}
}

// --- Predicates ---

// IsBadRequest reports whether err is a 400 API error.
func IsBadRequest(err error) bool { return hasKind(err, KindBadRequest) }

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool { return hasKind(err, KindUnauthorized) }

// IsNotFound reports whether err is a 404 API error.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsServerError reports whether err is a 500 API error.
func IsServerError(err error) bool { return hasKind(err, KindServerError) }

// IsHTTP reports whether err is an API error without a dedicated kind.
func IsHTTP(err error) bool { return hasKind(err, KindHTTP) }

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasKind(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}

func statusText(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("status %d", status)
}
