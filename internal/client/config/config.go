package config

import "time"

// Config holds runtime settings for the HomeQuote client.
//
// Fields:
//   - APIBaseURL: base URL of the REST API (the "/api" prefix is appended
//     by the HTTP client).
//   - RealtimeURL: websocket endpoint for server-push updates. May be empty,
//     in which case realtime features are disabled and screens fall back to
//     manual refresh.
//   - DatabasePath: path of the local SQLite store (credentials and cached
//     lists).
//   - RequestTimeout: per-request timeout for REST calls.
//   - ReconnectAttempts / ReconnectDelay: bounded retry policy for the
//     realtime connection. Retries are deliberately finite.
type Config struct {
	APIBaseURL        string
	RealtimeURL       string
	DatabasePath      string
	RequestTimeout    time.Duration
	ReconnectAttempts uint64
	ReconnectDelay    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RealtimeURL = ""
	c.DatabasePath = "homequote.db"
	c.RequestTimeout = 12 * time.Second
	c.ReconnectAttempts = 5
	c.ReconnectDelay = 3 * time.Second
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
