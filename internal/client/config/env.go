package config

import (
	"strconv"
	"strings"
)

const (
	EnvBackendAPI       = "VCDASH_BACKEND_API"
	EnvLegacyBackendAPI = "REACT_APP_BACKEND_API"
	EnvFrontendURL      = "VCDASH_FRONTEND_URL"
	EnvSessionDSN       = "VCDASH_SESSION_DSN"
	EnvVerbose          = "VCDASH_VERBOSE"
	EnvOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// parseEnv overlays Config with environment variables. The backend address
// falls back to the variable the web dashboard was built with, so an
// existing .env works unchanged.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvBackendAPI); ok {
		cfg.BackendAPI = v
	} else if v, ok := get(EnvLegacyBackendAPI); ok {
		cfg.BackendAPI = v
	}
	if v, ok := get(EnvFrontendURL); ok {
		cfg.FrontendURL = v
	}
	if v, ok := get(EnvSessionDSN); ok {
		cfg.SessionDSN = v
	}
	if v, ok := get(EnvVerbose); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
	if v, ok := get(EnvOTLPEndpoint); ok {
		cfg.OTLPEndpoint = v
	}
}
