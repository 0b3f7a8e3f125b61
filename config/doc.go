// Package config loads createsend configuration from a YAML file, a .env
// file and the process environment, and validates the result with struct
// tags.
//
// Precedence, lowest first: YAML file, .env file, process environment.
// Environment variables map onto nested keys by splitting on underscores,
// so CREATESEND_API_KEY fills createsend.api_key.
//
// # Usage
//
//	var cfg AppConfig
//	if err := config.LoadConfig("createsend", &cfg, config.WithEnvPrefixes("CREATESEND_", "LOG_")); err != nil {
//	    return err
//	}
//	if err := config.Validate(&cfg); err != nil {
//	    return err
//	}
package config
