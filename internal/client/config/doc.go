// Package config loads runtime configuration for the VetClinic CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the VetClinic REST API
//	-d string   SQLite DSN of the local session store
//	-t int      request timeout (seconds)
//	-e int      credential expiry threshold (seconds)
//	-m string   listen address for the /metrics endpoint (empty disables it)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations accept strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://clinic.example.com/api",
//	  "store_dsn": "vetclinic.db",
//	  "request_timeout": "10s",
//	  "expiry_threshold": "5m",
//	  "metrics_addr": ":9100",
//	  "log_level": "info"
//	}
package config
