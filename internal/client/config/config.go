package config

import "time"

// Config holds runtime settings for the Pass-Manager CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, including the /api prefix.
//   - SessionPollInterval: how often the session watcher asks the server for
//     the remaining session time.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL           string
	SessionPollInterval time.Duration
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000/api"
	c.SessionPollInterval = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args exclude the program name.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
