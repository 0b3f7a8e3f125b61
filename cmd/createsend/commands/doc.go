// Package commands defines the createsend CLI.
//
// Commands
//
//   - systemdate               Print the account's current date and time
//   - clients                  List the clients in the account
//   - countries, timezones     List accepted reference values
//   - lists create|get|update|delete
//   - lists subscribers        Page through a list's subscribers by state
//   - subscribers add|get|update|unsubscribe|delete
//   - health                   Probe the API
//   - version                  Print build information
//
// # Configuration
//
// Settings come from the config file (--config, or the first of
// cmd/createsend/config.yml, config/config.yml, config.yml, createsend.yml,
// ~/.createsend/config.yml), a .env file and CREATESEND_* variables such as
// CREATESEND_API_KEY. The --api-key, --endpoint and --debug flags win over
// all of them. Results are written to stdout as JSON; logs go to stderr.
package commands
