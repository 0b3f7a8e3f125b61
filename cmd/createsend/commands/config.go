package commands

import (
	"github.com/kbukum/createsend/config"
	"github.com/kbukum/createsend/createsend"
)

const appName = "createsend"

// AppConfig is the CLI's configuration document.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	CreateSend           createsend.Config `yaml:"createsend" mapstructure:"createsend"`
}

// ApplyDefaults fills in zero-value fields. Request logging needs the
// logger at debug level to be visible.
func (c *AppConfig) ApplyDefaults() {
	if c.CreateSend.LoggingEnabled {
		c.Logging.Level = "debug"
	}
	c.ServiceConfig.ApplyDefaults()
	c.CreateSend.ApplyDefaults()
}

// Validate checks both sections.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.CreateSend.Validate()
}

func loadConfig(file string) (*AppConfig, error) {
	opts := []config.LoaderOption{
		config.WithEnvPrefixes("CREATESEND_"),
		config.WithDefault("name", appName),
		config.WithDefault("createsend.api_endpoint", createsend.DefaultAPIEndpoint),
	}
	if file != "" {
		opts = append(opts, config.WithConfigFile(file))
	}

	var cfg AppConfig
	if err := config.LoadConfig(appName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
