package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/youverse/dupliverse/internal/flagx"
	"github.com/youverse/dupliverse/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "5m" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerURL    string         `json:"server_url"`
	APIKey       string         `json:"api_key"`
	CacheDSN     string         `json:"cache_dsn"`
	SyncInterval timex.Duration `json:"sync_interval"`
	StaleAfter   timex.Duration `json:"stale_after"`
	FetchTimeout timex.Duration `json:"fetch_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path is resolved from the -c or -config flags via
// flagx.JsonConfigFlags(); when empty no JSON is loaded. Read or
// unmarshal errors panic (caller may recover if desired).
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

	cfg.ServerURL = jc.ServerURL
	cfg.APIKey = jc.APIKey
	cfg.CacheDSN = jc.CacheDSN
	cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	cfg.StaleAfter = time.Duration(jc.StaleAfter.Duration)
	cfg.FetchTimeout = time.Duration(jc.FetchTimeout.Duration)
}
