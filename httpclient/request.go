package httpclient

import (
	"net/http"
	"net/url"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. A full URL is used as is.
	Path string
	// Query holds URL query parameters; repeated keys are kept.
	Query url.Values
	// Headers are request-specific headers, merged over the client defaults.
	Headers map[string]string
	// Body is the request body: io.Reader, []byte, string, or any value that
	// is JSON-encoded. A reader body cannot be replayed by retries.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// RequestID is the X-Request-ID sent with the request.
	RequestID string
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports whether the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}
