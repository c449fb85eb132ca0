package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/serenvoice/serenvoice-cli/internal/flagx"
	"github.com/serenvoice/serenvoice-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify timeouts either as strings like
// "15s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	UploadTimeout  timex.Duration `json:"upload_timeout"`
	DataDir        string         `json:"data_dir"`
	Storage        string         `json:"storage"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named
// by the -c/-config flag. No flag means no JSON stage. Read or parse
// errors panic; configuration is resolved before anything else starts,
// so a broken file should stop the program immediately.
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

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.UploadTimeout.Duration > 0 {
		cfg.UploadTimeout = time.Duration(jc.UploadTimeout.Duration)
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.Storage != "" {
		cfg.Storage = jc.Storage
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
