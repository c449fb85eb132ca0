package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file
// in the working directory is loaded first (missing file is fine; real
// environment variables win over the file, per godotenv semantics).
//
// Recognized variables:
//
//	SERENVOICE_API_URL
//	SERENVOICE_DATA_DIR
//	SERENVOICE_STORAGE          sqlite | file
//	SERENVOICE_LOG_LEVEL        debug | info | warn | error
//	SERENVOICE_REQUEST_TIMEOUT  Go duration, e.g. 20s
//	SERENVOICE_UPLOAD_TIMEOUT   Go duration, e.g. 5m
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SERENVOICE_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SERENVOICE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SERENVOICE_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("SERENVOICE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SERENVOICE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("SERENVOICE_UPLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.UploadTimeout = d
		}
	}
}
