// Package config handles configuration for the docclient CLI.
package config

// Config holds runtime settings for the docclient CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the portal backend.
//   - Token: session token obtained from a prior login.
type Config struct {
	ServerBaseURL string
	Token         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.Token = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
