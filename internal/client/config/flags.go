package config

import (
	"flag"
	"os"

	"github.com/serenvoice/serenvoice-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-b string   base URL of the REST API
//	-d string   data directory for local storage
//	-s string   storage backend (sqlite|file)
//	-l string   log level (debug|info|warn|error)
//
// Only these flags are parsed here; os.Args is filtered through
// flagx.FilterArgs so other components' flags do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "base URL of the SerenVoice API")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for local storage")
	fs.StringVar(&cfg.Storage, "s", cfg.Storage, "storage backend (sqlite|file)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
