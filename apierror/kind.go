package apierror

import "net/http"

// Kind classifies a failed createsend API call.
type Kind string

const (
	// KindBadRequest is a 400 response; the API rejected the request body or parameters.
	KindBadRequest Kind = "BAD_REQUEST"
	// KindUnauthorized is a 401 response; the API key or OAuth token was rejected.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindNotFound is a 404 response.
	KindNotFound Kind = "NOT_FOUND"
	// KindServerError is a 500 response.
	KindServerError Kind = "SERVER_ERROR"
	// KindHTTP is any other non-2xx response.
	KindHTTP Kind = "HTTP_ERROR"
)

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// KindForStatus maps an HTTP status code to its error kind.
// Only 400, 401, 404 and 500 have dedicated kinds.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusInternalServerError:
		return KindServerError
	default:
		return KindHTTP
	}
}

// carriesBody reports whether errors of this kind expose the provider's
// Code and Message.
func (k Kind) carriesBody() bool {
	return k != KindHTTP
}
