// Package config loads runtime configuration for the vcdash CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, usually populated from a .env file by main. See the Env*
//     constants; VCDASH_BACKEND_API falls back to REACT_APP_BACKEND_API.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the backend API
//	-f string     base URL of the web dashboard
//	-s string     session database DSN
//	-t duration   request timeout
//	-rps float    requests per second
//	-burst int    request burst size
//	-v            debug logging
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "backend_api": "https://api.example.com",
//	  "frontend_url": "https://app.example.com",
//	  "session_dsn": "/tmp/vcdash-session.db",
//	  "request_timeout": "30s",
//	  "rps": 10,
//	  "burst": 5,
//	  "verbose": false,
//	  "otlp_endpoint": "localhost:4317"
//	}
//
// Primary API
//
//   - type Config: holds the settings above
//   - func LoadConfig(fs, args) (*Config, error): defaults, env, JSON, then flags
//   - func (*Config) LoadDefaults(): sets sensible defaults
package config
