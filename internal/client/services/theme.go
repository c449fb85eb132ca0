package services

import (
	"context"
	"sync"

	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/client/tokenstore"
)

// ThemeService is the light/dark preference. Every change is persisted
// immediately; the value is install-scoped and survives logout.
type ThemeService struct {
	store *tokenstore.Store

	mu      sync.Mutex
	current models.Theme
}

// NewThemeService loads the persisted preference (defaulting to light
// when nothing is stored).
func NewThemeService(ctx context.Context, store *tokenstore.Store) *ThemeService {
	return &ThemeService{store: store, current: store.Theme(ctx)}
}

func (t *ThemeService) Current() models.Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *ThemeService) IsDark() bool {
	return t.Current().IsDark()
}

// Toggle flips the preference, persists it, and returns the new value.
func (t *ThemeService) Toggle(ctx context.Context) models.Theme {
	t.mu.Lock()
	t.current = t.current.Toggled()
	theme := t.current
	t.mu.Unlock()

	t.store.SetTheme(ctx, theme)
	return theme
}

// Set stores an explicit choice.
func (t *ThemeService) Set(ctx context.Context, dark bool) {
	theme := models.ThemeLight
	if dark {
		theme = models.ThemeDark
	}

	t.mu.Lock()
	t.current = theme
	t.mu.Unlock()

	t.store.SetTheme(ctx, theme)
}
