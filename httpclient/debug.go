package httpclient

import (
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/kbukum/createsend/logger"
)

// debugTransport dumps every request and response at debug level.
// Request bodies are restored by httputil, so the wrapped transport still
// sees the full payload.
type debugTransport struct {
	base http.RoundTripper
	log  *logger.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		dt.log.Debug("HTTP request", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.Redacted(),
			"request_dump", redactCredentials(string(reqDump)),
		))
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.Debug("HTTP request failed", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.Redacted(),
			logger.FieldError, err.Error(),
		))
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		dt.log.Debug("HTTP response", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.Redacted(),
			logger.FieldStatusCode, resp.StatusCode,
			"response_dump", string(respDump),
		))
	}
	return resp, nil
}

// redactCredentials masks the Authorization header in a request dump.
func redactCredentials(dump string) string {
	lines := strings.Split(dump, "\r\n")
	for i, line := range lines {
		if line == "" {
			break // end of headers
		}
		if name, _, ok := strings.Cut(line, ":"); ok && strings.EqualFold(name, "Authorization") {
			lines[i] = name + ": [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}
