package httpclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeRequest, "request"},
		{ErrCodeRedirect, "redirect"},
		{ErrCodeAuth, "auth"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeClient, "client"},
		{ErrCodeServer, "server"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 404, Code: ErrCodeNotFound, Message: "Not Found"}
	want := "httpclient: not_found (HTTP 404): Not Found"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	want2 := "httpclient: connection: connection refused"
	if got := e2.Error(); got != want2 {
		t.Errorf("got %q, want %q", got, want2)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	outer := NewConnectionError(inner)
	if !errors.Is(outer, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{301, ErrCodeRedirect, false},
		{302, ErrCodeRedirect, false},
		{400, ErrCodeClient, false},
		{401, ErrCodeAuth, false},
		{403, ErrCodeAuth, false},
		{404, ErrCodeNotFound, false},
		{409, ErrCodeClient, false},
		{429, ErrCodeRateLimit, true},
		{500, ErrCodeServer, false},
		{502, ErrCodeServer, true},
		{503, ErrCodeServer, true},
		{504, ErrCodeServer, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.status), func(t *testing.T) {
			e := ClassifyStatusCode(tt.status, []byte("body"))
			if e == nil {
				t.Fatal("expected error")
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
			if e.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", e.Retryable, tt.retryable)
			}
			if string(e.Body) != "body" {
				t.Errorf("body = %q, want %q", e.Body, "body")
			}
		})
	}
}

func TestClassifyStatusCode_Success(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		if e := ClassifyStatusCode(status, nil); e != nil {
			t.Errorf("status %d: expected nil, got %v", status, e)
		}
	}
}

func TestErrorPredicates(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", ClassifyStatusCode(429, nil))
	if !IsRateLimit(wrapped) {
		t.Error("expected IsRateLimit through wrapping")
	}
	if !IsRetryable(wrapped) {
		t.Error("expected IsRetryable through wrapping")
	}
	if IsNotFound(wrapped) {
		t.Error("did not expect IsNotFound")
	}
	if !IsTimeout(NewTimeoutError(errors.New("deadline"))) {
		t.Error("expected IsTimeout")
	}
	if !IsConnection(NewConnectionError(errors.New("refused"))) {
		t.Error("expected IsConnection")
	}
	if !IsAuth(ClassifyStatusCode(401, nil)) {
		t.Error("expected IsAuth")
	}
	if !IsServerError(ClassifyStatusCode(500, nil)) {
		t.Error("expected IsServerError")
	}
	if IsRetryable(NewRequestError(errors.New("bad"))) {
		t.Error("request errors must not be retryable")
	}
}

func TestIsUpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), true},
		{"timeout", NewTimeoutError(errors.New("t")), true},
		{"server", ClassifyStatusCode(500, nil), true},
		{"rate limit", ClassifyStatusCode(429, nil), true},
		{"bad request", ClassifyStatusCode(400, nil), false},
		{"not found", ClassifyStatusCode(404, nil), false},
		{"auth", ClassifyStatusCode(401, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUpstreamFailure(tt.err); got != tt.want {
				t.Errorf("IsUpstreamFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}
