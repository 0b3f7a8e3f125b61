package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/kbukum/createsend/logger"
	"github.com/kbukum/createsend/observability"
	"github.com/kbukum/createsend/resilience"
)

// Client is an HTTP client with auth, TLS, tracing and optional resilience.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
	cb         *resilience.CircuitBreaker
	rl         *resilience.RateLimiter
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := cfg.Transport
	if base == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.TLS != nil {
			tlsCfg, err := cfg.TLS.Build()
			if err != nil {
				return nil, err
			}
			if tlsCfg != nil {
				transport.TLSClientConfig = tlsCfg
			}
		}
		base = transport
	}
	if cfg.Debug {
		base = &debugTransport{base: base, log: cfg.Logger}
	}

	httpClient := &http.Client{
		Transport: base,
		Timeout:   cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	c := &Client{
		httpClient: httpClient,
		config:     cfg,
		log:        cfg.Logger,
	}

	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		userHook := cbCfg.OnStateChange
		cbCfg.OnStateChange = func(name string, from, to resilience.State) {
			c.log.Warn("circuit breaker state changed", logger.Fields(
				"breaker", name, "from", from.String(), "to", to.String(),
			))
			if userHook != nil {
				userHook(name, from, to)
			}
		}
		c.cb = resilience.NewCircuitBreaker(cbCfg)
	}
	if cfg.RateLimiter != nil {
		c.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}

	return c, nil
}

// Do executes an HTTP request and returns the complete response. For non-2xx
// responses both the response and a classified *Error are returned.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	req.Headers = withRequestID(req.Headers)

	if c.config.Retry == nil || !isIdempotent(req.Method) {
		return c.doOnce(ctx, req, 1)
	}

	cfg := *c.config.Retry
	userHook := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.Warn("retrying request", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.Path,
			logger.FieldRequestID, req.Headers[HeaderRequestID],
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
			"backoff", backoff.String(),
		))
		c.config.Metrics.RecordRetry(ctx, req.Method)
		if userHook != nil {
			userHook(attempt, err, backoff)
		}
	}

	attempt := 0
	return resilience.Retry(ctx, cfg, func() (*Response, error) {
		attempt++
		return c.doOnce(ctx, req, attempt)
	})
}

// Unwrap returns the underlying *http.Client.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// CircuitState returns the circuit breaker state, or StateClosed when no
// breaker is configured.
func (c *Client) CircuitState() resilience.State {
	if c.cb == nil {
		return resilience.StateClosed
	}
	return c.cb.State()
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// doOnce executes a single attempt behind the rate limiter and circuit breaker.
func (c *Client) doOnce(ctx context.Context, req Request, attempt int) (*Response, error) {
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.cb == nil {
		return c.executeRequest(ctx, req, attempt)
	}

	var resp *Response
	err := c.cb.Execute(func() error {
		var execErr error
		resp, execErr = c.executeRequest(ctx, req, attempt)
		return execErr
	})
	return resp, err
}

// executeRequest builds and sends one HTTP request inside a client span.
func (c *Client) executeRequest(ctx context.Context, req Request, attempt int) (*Response, error) {
	requestID := req.Headers[HeaderRequestID]
	start := time.Now()

	ctx, span := observability.StartClientSpan(ctx, "createsend "+req.Method,
		attribute.String(observability.AttrHTTPMethod, req.Method),
		attribute.String(observability.AttrRequestID, requestID),
		attribute.Int(observability.AttrAttempt, attempt),
	)

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}
	target := httpReq.URL.Redacted()
	span.SetAttributes(attribute.String(observability.AttrURLFull, target))
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	c.config.Metrics.RecordRequestStart(ctx)
	finish := func(status int, err error) {
		elapsed := time.Since(start)
		c.config.Metrics.RecordRequestEnd(ctx, req.Method, status, elapsed)
		if status > 0 {
			span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, status))
		}
		fields := logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, target,
			logger.FieldStatusCode, status,
			logger.FieldRequestID, requestID,
			logger.FieldAttempt, attempt,
			logger.FieldDuration, elapsed.Milliseconds(),
		)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				c.config.Metrics.RecordError(ctx, e.Code.String())
			}
			fields[logger.FieldError] = err.Error()
		}
		c.log.Debug("request completed", fields)
		observability.EndSpan(span, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var herr *Error
		if ctx.Err() != nil || isTimeout(err) {
			herr = NewTimeoutError(err)
		} else {
			herr = NewConnectionError(err)
		}
		finish(0, herr)
		return nil, herr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		herr := NewConnectionError(fmt.Errorf("read response body: %w", err))
		finish(resp.StatusCode, herr)
		return nil, herr
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		RequestID:  requestID,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		finish(resp.StatusCode, classErr)
		return result, classErr
	}

	finish(resp.StatusCode, nil)
	return result, nil
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		target = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewRequestError(fmt.Errorf("encode body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, NewRequestError(fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, values := range req.Query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if c.config.UserAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides client-level auth.
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// withRequestID returns a copy of headers carrying an X-Request-ID,
// generating one when absent.
func withRequestID(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	if out[HeaderRequestID] == "" {
		out[HeaderRequestID] = uuid.NewString()
	}
	return out
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
