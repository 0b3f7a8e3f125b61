package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/createsend/logger"
	"github.com/kbukum/createsend/observability"
	"github.com/kbukum/createsend/resilience"
)

const (
	defaultTimeout = 30 * time.Second

	// HeaderRequestID carries the per-call request ID. It is reused across
	// retries of the same call.
	HeaderRequestID = "X-Request-ID"
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs and resilience callbacks.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single attempt. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures the transport's TLS settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent is sent on every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// FollowRedirects lets net/http follow 3xx responses. Off by default,
	// in which case a 3xx is returned as an error.
	FollowRedirects bool `yaml:"follow_redirects" mapstructure:"follow_redirects"`

	// Debug dumps every request and response through Logger at debug level.
	Debug bool `yaml:"debug" mapstructure:"debug"`

	// Retry configures retries of idempotent requests. Nil disables retry.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// CircuitBreaker configures a circuit breaker. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter configures client-side rate limiting. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`

	// Logger receives request logs. Defaults to the global logger.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`

	// Metrics records request metrics when set.
	Metrics *observability.Metrics `yaml:"-" mapstructure:"-"`

	// Transport overrides the base transport. Defaults to a clone of
	// http.DefaultTransport.
	Transport http.RoundTripper `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "httpclient"
	}
	if c.Logger == nil {
		c.Logger = logger.WithComponent(c.Name)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: invalid base URL %q", c.BaseURL)
		}
	}
	return c.TLS.Validate()
}

// DefaultRetryConfig returns a retry config that only retries transient
// transport and upstream failures.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultCircuitBreakerConfig returns a circuit breaker config that ignores
// client errors (4xx) when counting failures.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	cfg.IsFailure = IsUpstreamFailure
	return &cfg
}

// DefaultRateLimiterConfig returns a default rate limiter config.
func DefaultRateLimiterConfig(name string) *resilience.RateLimiterConfig {
	cfg := resilience.DefaultRateLimiterConfig(name)
	return &cfg
}
