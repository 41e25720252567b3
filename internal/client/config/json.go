package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vcdash/internal/flagx"
	"github.com/dmitrijs2005/vcdash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "30s" or as integer nanoseconds. Absent fields keep the value
// of the earlier sources.
type JsonConfig struct {
	BackendAPI     *string         `json:"backend_api"`
	FrontendURL    *string         `json:"frontend_url"`
	SessionDSN     *string         `json:"session_dsn"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	RPS            *float64        `json:"rps"`
	Burst          *int            `json:"burst"`
	Verbose        *bool           `json:"verbose"`
	OTLPEndpoint   *string         `json:"otlp_endpoint"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config among the global arguments. Without either flag it does
// nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(flagx.GlobalArgs(args, boolFlags))
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.BackendAPI, jc.BackendAPI)
	setIf(&cfg.FrontendURL, jc.FrontendURL)
	setIf(&cfg.SessionDSN, jc.SessionDSN)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIf(&cfg.RPS, jc.RPS)
	setIf(&cfg.Burst, jc.Burst)
	setIf(&cfg.Verbose, jc.Verbose)
	setIf(&cfg.OTLPEndpoint, jc.OTLPEndpoint)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
