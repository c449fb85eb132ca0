// Package config loads the client's runtime settings. Sources are
// layered, later overriding earlier: built-in defaults, environment
// (including a .env file), a JSON config file (-c/-config), and
// command-line flags.
package config

import "time"

// Storage backend selectors.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config holds runtime settings for the SerenVoice client.
type Config struct {
	// BaseURL is the root of the REST API, e.g. https://api.serenvoice.dev/api.
	BaseURL string

	// RequestTimeout bounds ordinary API calls; UploadTimeout bounds
	// multipart voice uploads, which are slow on purpose.
	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	// DataDir holds the local database, the fallback secrets file and
	// the device key.
	DataDir string

	// Storage picks the token-store backend: StorageSQLite (default)
	// or StorageFile. An empty value means sqlite with automatic
	// fallback to file when the database cannot be opened.
	Storage string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.UploadTimeout = 2 * time.Minute
	c.DataDir = "."
	c.Storage = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
