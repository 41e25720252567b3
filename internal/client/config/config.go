package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/storage"
)

// Config holds runtime settings for the vcdash CLI.
//
// Fields:
//   - BackendAPI: base URL of the REST backend.
//   - FrontendURL: base URL of the web dashboard, used for company links.
//   - SessionDSN: SQLite database holding the session.
//   - RequestTimeout: per-request deadline, 0 disables it.
//   - RPS, Burst: client-side request pacing, RPS 0 disables it.
//   - Verbose: debug logging.
//   - OTLPEndpoint: trace collector, empty disables tracing.
type Config struct {
	BackendAPI     string
	FrontendURL    string
	SessionDSN     string
	RequestTimeout time.Duration
	RPS            float64
	Burst          int
	Verbose        bool
	OTLPEndpoint   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendAPI = "http://localhost:5000"
	c.FrontendURL = "http://localhost:3000"
	c.SessionDSN = storage.DefaultDSN()
	c.RequestTimeout = 30 * time.Second
	c.RPS = 10
	c.Burst = 5
	c.Verbose = false
	c.OTLPEndpoint = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if -c/-config is given) and the global flags
// registered on fs. Later sources take precedence over earlier ones.
//
// args are the program arguments without the program name. Parsing stops at
// the first non-flag argument, leaving the subcommand in fs.Args().
func LoadConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, os.LookupEnv)

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	return cfg, nil
}
