package apierror

import (
	"encoding/json"
)

// Response is the error body the createsend API sends with failed requests.
type Response struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

// ParseResponse decodes an error body. It returns nil when the body is empty
// or not a JSON error object.
func ParseResponse(body []byte) *Response {
	if len(body) == 0 {
		return nil
	}
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil
	}
	return &r
}

// FromResponse converts a response status and body into an *Error.
// It returns nil for 2xx statuses.
func FromResponse(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}

	kind := KindForStatus(status)
	if !kind.carriesBody() {
		return HTTPStatus(status)
	}

	e := &Error{Kind: kind, Status: status, Message: statusText(status)}
	if r := ParseResponse(body); r != nil {
		e.Code = r.Code
		if r.Message != "" {
			e.Message = r.Message
		}
	}
	return e
}
