package createsend

import (
	"errors"
	"net/http"
	"sync"

	"github.com/kbukum/createsend/httpclient"
	"github.com/kbukum/createsend/logger"
	"github.com/kbukum/createsend/observability"
	"github.com/kbukum/createsend/resilience"
	"github.com/kbukum/createsend/version"
)

// basicAuthPassword is the password createsend expects alongside an API key.
const basicAuthPassword = "x"

// ErrClosed is returned by calls made after Close on a client that never
// sent a request.
var ErrClosed = errors.New("createsend: client closed")

// Client talks to the createsend API. It is safe for concurrent use; the
// underlying HTTP adapter is built on first use and shared by all calls.
type Client struct {
	cfg  Config
	opts options
	log  *logger.Logger

	once    sync.Once
	adapter *httpclient.Client
	err     error

	Lists       *ListsService
	Subscribers *SubscribersService
	General     *GeneralService
}

type options struct {
	logger         *logger.Logger
	metrics        *observability.Metrics
	transport      http.RoundTripper
	circuitBreaker *resilience.CircuitBreakerConfig
	rateLimiter    *resilience.RateLimiterConfig
	headers        map[string]string
}

// Option customizes a Client.
type Option func(*options)

// WithLogger sets the logger used for request logs.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records request metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTransport replaces the base HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithCircuitBreaker fails calls fast after repeated upstream failures.
func WithCircuitBreaker(cfg *resilience.CircuitBreakerConfig) Option {
	return func(o *options) { o.circuitBreaker = cfg }
}

// WithRateLimiter throttles calls on the client side.
func WithRateLimiter(cfg *resilience.RateLimiterConfig) Option {
	return func(o *options) { o.rateLimiter = cfg }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// New validates cfg and returns a Client. No connection is made until the
// first call.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = defaultLogger(cfg.LoggingEnabled)
	}

	c := &Client{cfg: cfg, opts: o, log: log}
	c.Lists = &ListsService{client: c}
	c.Subscribers = &SubscribersService{client: c}
	c.General = &GeneralService{client: c}
	return c, nil
}

// Config returns the resolved configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// httpClient returns the shared adapter, building it on first use.
func (c *Client) httpClient() (*httpclient.Client, error) {
	c.once.Do(func() {
		c.adapter, c.err = httpclient.New(c.adapterConfig())
		if c.err == nil {
			c.log.Debug("http adapter created", logger.Fields(
				"endpoint", c.cfg.APIEndpoint,
				"auth", c.auth().Type.String(),
				"retry", c.cfg.Retry.Enabled,
			))
		}
	})
	return c.adapter, c.err
}

func (c *Client) adapterConfig() httpclient.Config {
	userAgent := c.cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	headers := map[string]string{"Accept": "application/json"}
	for k, v := range c.opts.headers {
		headers[k] = v
	}

	return httpclient.Config{
		Name:           "createsend",
		BaseURL:        c.cfg.APIEndpoint,
		Timeout:        c.cfg.Timeout,
		Auth:           c.auth(),
		TLS:            c.cfg.TLS,
		Headers:        headers,
		UserAgent:      userAgent,
		Debug:          c.cfg.LoggingEnabled,
		Retry:          c.cfg.Retry.retryConfig(),
		CircuitBreaker: c.opts.circuitBreaker,
		RateLimiter:    c.opts.rateLimiter,
		Logger:         c.log,
		Metrics:        c.opts.metrics,
		Transport:      c.opts.transport,
	}
}

// auth picks OAuth when a token is configured, otherwise the API key.
func (c *Client) auth() *httpclient.AuthConfig {
	if c.cfg.OAuthToken != "" {
		return httpclient.BearerAuth(c.cfg.OAuthToken)
	}
	return httpclient.BasicAuth(c.cfg.APIKey, basicAuthPassword)
}

// defaultLogger is used when no WithLogger option is given. Request dumps
// are written at debug level, so request logging gets its own debug logger.
func defaultLogger(requestLogging bool) *logger.Logger {
	if !requestLogging {
		return logger.WithComponent("createsend")
	}
	cfg := &logger.Config{Level: "debug", Format: logger.FormatConsole, Output: "stderr", NoColor: true}
	cfg.ApplyDefaults()
	return logger.New(cfg, "createsend").WithComponent("createsend")
}

// Close releases idle connections held by the adapter. A client that was
// never used is marked closed without building one.
func (c *Client) Close() {
	c.once.Do(func() { c.err = ErrClosed })
	if c.adapter != nil {
		c.adapter.Close()
	}
}
