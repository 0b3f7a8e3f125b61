package bootstrap

import (
	"github.com/kbukum/createsend/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig by value satisfies it through promoted
// methods; types with their own sections override ApplyDefaults and
// Validate to cover them.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    CreateSend createsend.Config `yaml:"createsend" mapstructure:"createsend"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
