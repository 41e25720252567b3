package config

import "flag"

// boolFlags are the global flags that take no value.
var boolFlags = []string{"-v", "--v"}

// parseFlags registers the global flags on fs, with the values loaded so far
// as defaults, and parses args.
//
// Supported flags:
//
//	-a string     base URL of the backend API
//	-f string     base URL of the web dashboard
//	-s string     session database DSN
//	-t duration   request timeout (0 disables it)
//	-rps float    requests per second (0 disables pacing)
//	-burst int    request burst size
//	-v            debug logging
//	-c, -config   JSON config file (read beforehand by parseJson)
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	var configPath string

	fs.StringVar(&cfg.BackendAPI, "a", cfg.BackendAPI, "base URL of the backend API")
	fs.StringVar(&cfg.FrontendURL, "f", cfg.FrontendURL, "base URL of the web dashboard")
	fs.StringVar(&cfg.SessionDSN, "s", cfg.SessionDSN, "session database DSN")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout (0 disables it)")
	fs.Float64Var(&cfg.RPS, "rps", cfg.RPS, "requests per second (0 disables pacing)")
	fs.IntVar(&cfg.Burst, "burst", cfg.Burst, "request burst size")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")
	fs.StringVar(&configPath, "config", "", "path to JSON config file")
	fs.StringVar(&configPath, "c", "", "path to JSON config file (short)")

	return fs.Parse(args)
}
