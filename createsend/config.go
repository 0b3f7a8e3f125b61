package createsend

import (
	"time"

	"github.com/kbukum/createsend/config"
	"github.com/kbukum/createsend/httpclient"
	"github.com/kbukum/createsend/resilience"
)

const (
	// DefaultAPIEndpoint is the production createsend API base URL.
	DefaultAPIEndpoint = "https://api.createsend.com/api/v3.1"

	defaultTimeout = 30 * time.Second
)

// Config configures a Client. Either APIKey or OAuthToken is required.
type Config struct {
	// APIEndpoint is the API base URL.
	APIEndpoint string `yaml:"api_endpoint" mapstructure:"api_endpoint" validate:"required,url"`
	// APIKey is sent as the Basic auth username.
	APIKey string `yaml:"api_key" mapstructure:"api_key" validate:"required_without=OAuthToken"`
	// OAuthToken is sent as a Bearer token and takes precedence over APIKey.
	OAuthToken string `yaml:"oauth_token" mapstructure:"oauth_token"`
	// LoggingEnabled dumps every request and response at debug level.
	LoggingEnabled bool `yaml:"logging_enabled" mapstructure:"logging_enabled"`
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// UserAgent overrides the default createsend-go User-Agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Retry configures retries of idempotent requests.
	Retry RetryConfig `yaml:"retry" mapstructure:"retry"`
	// TLS configures the transport.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// RetryConfig enables retries of GET, PUT and DELETE calls on timeouts,
// connection failures, 429 and gateway errors.
type RetryConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0,lte=10"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gte=0"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.APIEndpoint == "" {
		c.APIEndpoint = DefaultAPIEndpoint
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return config.Validate(c)
}

// retryConfig converts the user-facing settings to the transport's.
// It returns nil when retries are disabled.
func (r RetryConfig) retryConfig() *resilience.RetryConfig {
	if !r.Enabled {
		return nil
	}
	cfg := httpclient.DefaultRetryConfig()
	if r.MaxAttempts > 0 {
		cfg.MaxAttempts = r.MaxAttempts
	}
	if r.InitialBackoff > 0 {
		cfg.InitialBackoff = r.InitialBackoff
	}
	if r.MaxBackoff > 0 {
		cfg.MaxBackoff = r.MaxBackoff
	}
	return cfg
}

// fileConfig is the document shape LoadConfig reads.
type fileConfig struct {
	CreateSend Config `yaml:"createsend" mapstructure:"createsend"`
}

// LoadConfig reads the createsend section from the config file, .env file
// and CREATESEND_* environment variables, then applies defaults and
// validates it.
//
//	CREATESEND_API_KEY, CREATESEND_API_ENDPOINT, CREATESEND_OAUTH_TOKEN,
//	CREATESEND_LOGGING_ENABLED, CREATESEND_TIMEOUT, CREATESEND_RETRY_ENABLED
func LoadConfig(opts ...config.LoaderOption) (Config, error) {
	opts = append([]config.LoaderOption{
		config.WithEnvPrefixes("CREATESEND_"),
		config.WithDefault("createsend.api_endpoint", DefaultAPIEndpoint),
	}, opts...)

	var fc fileConfig
	if err := config.LoadConfig("createsend", &fc, opts...); err != nil {
		return Config{}, err
	}
	cfg := fc.CreateSend
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
