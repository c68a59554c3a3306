package config

import "time"

// Config holds runtime settings for the DupliVerse CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - APIKey: project API key sent with every request.
//   - CacheDSN: sqlite DSN for the local state cache.
//   - SyncInterval: period of the background profile re-fetch.
//   - StaleAfter: how old the last sync may be before a foreground
//     transition forces a re-fetch.
//   - FetchTimeout: per-request deadline for profile fetches.
type Config struct {
	ServerURL    string
	APIKey       string
	CacheDSN     string
	SyncInterval time.Duration
	StaleAfter   time.Duration
	FetchTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.APIKey = "dev-anon-key"
	c.CacheDSN = "dupliverse.db"
	c.SyncInterval = 5 * time.Minute
	c.StaleAfter = 2 * time.Minute
	c.FetchTimeout = 15 * time.Second
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
