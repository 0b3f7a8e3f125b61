// Package logger provides structured logging for createsend using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "createsend").WithComponent("httpclient")
//	log.Info("request completed", logger.Fields("status", 200))
package logger
