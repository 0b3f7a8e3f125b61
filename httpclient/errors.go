package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies transport-level failures.
type ErrorCode int

const (
	// ErrCodeTimeout is a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection is a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeRequest means the request could not be built or encoded.
	ErrCodeRequest
	// ErrCodeRedirect is an unfollowed 3xx response.
	ErrCodeRedirect
	// ErrCodeAuth is a 401 or 403 response.
	ErrCodeAuth
	// ErrCodeNotFound is a 404 response.
	ErrCodeNotFound
	// ErrCodeRateLimit is a 429 response.
	ErrCodeRateLimit
	// ErrCodeClient is any other 4xx response.
	ErrCodeClient
	// ErrCodeServer is a 5xx response.
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeRequest:
		return "request"
	case ErrCodeRedirect:
		return "redirect"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is the HTTP status code, 0 when no response was received.
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable reports whether another attempt may succeed.
	Retryable bool
	// Body is the response body, if any.
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a timeout.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a connection failure.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewRequestError reports a request that could not be built.
func NewRequestError(err error) *Error {
	return &Error{Code: ErrCodeRequest, Message: err.Error(), Err: err}
}

// ClassifyStatusCode converts a response status into an error.
// It returns nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	e := &Error{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Body:       body,
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", statusCode)
	}

	switch {
	case statusCode >= 300 && statusCode < 400:
		e.Code = ErrCodeRedirect
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code = ErrCodeRateLimit
		e.Retryable = true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	case statusCode >= 500:
		e.Code = ErrCodeServer
		// A 500 from createsend carries an application error; gateway
		// failures are the transient ones.
		e.Retryable = statusCode != http.StatusInternalServerError
	default:
		e.Code = ErrCodeClient
	}
	return e
}

// IsTimeout checks if err is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if err is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsAuth checks if err is a 401/403 error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsNotFound checks if err is a 404 error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit checks if err is a 429 error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsServerError checks if err is a 5xx error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsRetryable checks if err is marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// IsUpstreamFailure reports whether err says something about the health of
// the API rather than about the request: timeouts, connection failures,
// rate limiting and 5xx responses.
func IsUpstreamFailure(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return err != nil
	}
	switch e.Code {
	case ErrCodeTimeout, ErrCodeConnection, ErrCodeRateLimit, ErrCodeServer:
		return true
	default:
		return false
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
