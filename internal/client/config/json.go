package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/homequote/homequote/internal/flagx"
	"github.com/homequote/homequote/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	RealtimeURL       string         `json:"realtime_url"`
	DatabasePath      string         `json:"database_path"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	ReconnectAttempts *uint64        `json:"reconnect_attempts"`
	ReconnectDelay    timex.Duration `json:"reconnect_delay"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c/-config flags; when absent nothing is loaded. Fields not
// present in the file keep their current values.
//
// Read or unmarshal errors panic; config problems should stop the client
// before it talks to anything.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RealtimeURL != "" {
		cfg.RealtimeURL = jc.RealtimeURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ReconnectAttempts != nil {
		cfg.ReconnectAttempts = *jc.ReconnectAttempts
	}
	if jc.ReconnectDelay.Duration != 0 {
		cfg.ReconnectDelay = time.Duration(jc.ReconnectDelay.Duration)
	}
}
