// Package cli implements the interactive SerenVoice terminal client: a
// prompt loop dispatching auth, theme and wellness commands over the
// services layer.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/serenvoice/serenvoice-cli/internal/client/api"
	"github.com/serenvoice/serenvoice-cli/internal/client/config"
	"github.com/serenvoice/serenvoice-cli/internal/client/repositories/keyvalue"
	"github.com/serenvoice/serenvoice-cli/internal/client/services"
	"github.com/serenvoice/serenvoice-cli/internal/client/tokenstore"
	"github.com/serenvoice/serenvoice-cli/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	auth     services.AuthService
	wellness services.WellnessService
	theme    *services.ThemeService
	store    *tokenstore.Store
	repo     keyvalue.Repository
	reader   *bufio.Reader
	out      io.Writer
	log      logging.Logger
}

// NewApp wires storage, token store, API client and services, and
// restores any persisted session.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repo, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store := tokenstore.New(repo, log)
	client := api.NewRestClient(cfg.BaseURL, cfg.RequestTimeout, cfg.UploadTimeout, store, log)

	auth := services.NewAuthService(client, store, log)
	auth.Restore(ctx)

	return &App{
		config:   cfg,
		auth:     auth,
		wellness: services.NewWellnessService(client),
		theme:    services.NewThemeService(ctx, store),
		store:    store,
		repo:     repo,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		log:      log,
	}, nil
}

// openStorage selects the keyvalue backend: sqlite unless config forces
// the file adapter or the database cannot be opened.
func openStorage(ctx context.Context, cfg *config.Config, log logging.Logger) (keyvalue.Repository, error) {
	filePath := filepath.Join(cfg.DataDir, "secrets.dat")
	keyPath := filepath.Join(cfg.DataDir, "device.key")

	if cfg.Storage == config.StorageFile {
		return keyvalue.NewFileRepository(filePath, keyPath)
	}

	repo, err := keyvalue.OpenSQLite(ctx, filepath.Join(cfg.DataDir, "serenvoice.db"))
	if err == nil {
		return repo, nil
	}
	if cfg.Storage == config.StorageSQLite {
		return nil, err
	}

	log.Warn(ctx, "sqlite unavailable, falling back to file storage", "error", err)
	return keyvalue.NewFileRepository(filePath, keyPath)
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the storage and the API client.
func (a *App) Close() {
	if err := a.auth.Close(); err != nil {
		a.log.Warn(context.Background(), "closing api client", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn(context.Background(), "closing storage", "error", err)
	}
}

func (a *App) printErr(err error) {
	color.New(color.FgRed).Fprintf(a.out, "error: %v\n", err)
}

func (a *App) printOK(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(a.out, format+"\n", args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
