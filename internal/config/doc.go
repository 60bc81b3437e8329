// Package config loads runtime configuration for netkeeper.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and NETKEEPER_* environment
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string               base URL of the portal login API
//	-l string               listen address of the browser console ("" disables it)
//	-history string         path of the sqlite history database ("" disables it)
//	-t int                  portal request timeout (seconds)
//	-log-level string       debug, info, warn, error
//	-log-format string      text or json
//	-log-file string        write the operator log to this file instead of stderr
//	-renew-strategy string  reauthenticate or refresh
//	-renew-failure string   keep or signout
//	-tz string              IANA time zone used to display expiry times
//
// # JSON schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_url": "https://login-api.cmu.ac.th",
//	  "request_timeout": "30s",
//	  "console_addr": "127.0.0.1:8085",
//	  "history_path": "netkeeper.db",
//	  "renew_after": "29m59s",
//	  "tick_interval": "1s",
//	  "renew_strategy": "reauthenticate",
//	  "renew_failure": "keep",
//	  "time_zone": "Asia/Bangkok"
//	}
//
// Invalid input panics during LoadConfig; a bad configuration is fatal.
package config
