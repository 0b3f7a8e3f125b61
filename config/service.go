package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/createsend/logger"
	"github.com/kbukum/createsend/observability"
)

// ServiceConfig holds the settings every createsend executable shares.
// Applications embed it next to their own sections:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    CreateSend createsend.Config `yaml:"createsend" mapstructure:"createsend"`
//	}
type ServiceConfig struct {
	Name        string                     `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string                     `yaml:"environment" mapstructure:"environment"`
	Debug       bool                       `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// GetServiceConfig returns the embedded ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills in zero-value fields. Debug forces debug logging.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = observability.DefaultTracerConfig(c.Name).Endpoint
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = observability.DefaultMeterConfig(c.Name).Endpoint
	}
}

// Validate checks the shared settings.
func (c *ServiceConfig) Validate() error {
	if err := Validate(c); err != nil {
		return err
	}
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("config.tracing.sample_rate must be between 0 and 1 (got: %v)", c.Tracing.SampleRate)
	}
	return nil
}
