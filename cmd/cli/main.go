package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/serenvoice/serenvoice-cli/internal/buildinfo"
	"github.com/serenvoice/serenvoice-cli/internal/client/cli"
	"github.com/serenvoice/serenvoice-cli/internal/client/config"
	"github.com/serenvoice/serenvoice-cli/internal/logging"
)

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, logLevel(cfg.LogLevel))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
