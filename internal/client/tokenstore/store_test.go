package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/client/repositories/keyvalue"
	"github.com/serenvoice/serenvoice-cli/internal/common"
	"github.com/serenvoice/serenvoice-cli/internal/logging"

	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) (*Store, keyvalue.Repository) {
	t.Helper()
	repo, err := keyvalue.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return New(repo, logging.NewNopLogger()), repo
}

// brokenRepo fails every operation; the store must stay usable anyway.
type brokenRepo struct{}

var errDisk = errors.New("disk on fire")

func (brokenRepo) Get(ctx context.Context, key string) ([]byte, error) { return nil, errDisk }
func (brokenRepo) Set(ctx context.Context, key string, value []byte) error {
	return errDisk
}
func (brokenRepo) SetMany(ctx context.Context, pairs map[string][]byte) error { return errDisk }
func (brokenRepo) Delete(ctx context.Context, key string) error               { return errDisk }
func (brokenRepo) DeleteMany(ctx context.Context, keys []string) error        { return errDisk }
func (brokenRepo) Close() error                                               { return nil }

func TestTokenRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	assert.Empty(t, s.AccessToken(ctx))
	assert.False(t, s.HasValidToken(ctx))

	s.SetAccessToken(ctx, "abc")
	assert.Equal(t, "abc", s.AccessToken(ctx))
	assert.True(t, s.HasValidToken(ctx))

	s.SetRefreshToken(ctx, "xyz")
	assert.Equal(t, "xyz", s.RefreshToken(ctx))

	s.SetSessionID(ctx, "s-1")
	assert.Equal(t, "s-1", s.SessionID(ctx))
}

func TestUserRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	assert.Nil(t, s.User(ctx))

	s.SetUser(ctx, &models.User{ID: 1, Name: "Ana", Role: "usuario"})
	user := s.User(ctx)
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "usuario", user.Role)

	s.RemoveUser(ctx)
	assert.Nil(t, s.User(ctx))
}

func TestUserCorruptCacheReadsAsNil(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, common.KeyUser, []byte("{not json")))
	assert.Nil(t, s.User(ctx))
}

func TestSaveSessionPersistsPairedArtifacts(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.SaveSession(ctx, &models.LoginResult{
		Token:        "abc",
		RefreshToken: "xyz",
		SessionID:    "s-1",
		User:         &models.User{ID: 1, Name: "Ana"},
	})

	assert.Equal(t, "abc", s.AccessToken(ctx))
	assert.Equal(t, "xyz", s.RefreshToken(ctx))
	assert.Equal(t, "s-1", s.SessionID(ctx))
	require.NotNil(t, s.User(ctx))
}

func TestSaveSessionWithoutOptionalFields(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.SaveSession(ctx, &models.LoginResult{Token: "abc", User: &models.User{ID: 1}})

	assert.Equal(t, "abc", s.AccessToken(ctx))
	assert.Empty(t, s.RefreshToken(ctx))
	assert.Empty(t, s.SessionID(ctx))
}

func TestClearTokensKeepsUserAndTheme(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.SaveSession(ctx, &models.LoginResult{
		Token: "abc", RefreshToken: "xyz", SessionID: "s-1",
		User: &models.User{ID: 1, Name: "Ana"},
	})
	s.SetTheme(ctx, models.ThemeDark)

	s.ClearTokens(ctx)

	assert.Empty(t, s.AccessToken(ctx))
	assert.Empty(t, s.RefreshToken(ctx))
	assert.Empty(t, s.SessionID(ctx))
	assert.NotNil(t, s.User(ctx), "ClearTokens keeps the cached user")
	assert.Equal(t, models.ThemeDark, s.Theme(ctx))
}

func TestClearAllKeepsThemeAndInstallID(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.SaveSession(ctx, &models.LoginResult{
		Token: "abc", User: &models.User{ID: 1, Name: "Ana"},
	})
	s.SetTheme(ctx, models.ThemeDark)
	installID := s.InstallID(ctx)

	s.ClearAll(ctx)

	assert.Empty(t, s.AccessToken(ctx))
	assert.Nil(t, s.User(ctx))
	assert.Equal(t, models.ThemeDark, s.Theme(ctx))
	assert.Equal(t, installID, s.InstallID(ctx))
}

func TestThemeDefaultsToLight(t *testing.T) {
	s, _ := newStore(t)
	assert.Equal(t, models.ThemeLight, s.Theme(context.Background()))
}

func TestInstallIDIsStable(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	id := s.InstallID(ctx)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, s.InstallID(ctx))
}

func TestFailOpenOnBrokenStorage(t *testing.T) {
	s := New(brokenRepo{}, logging.NewNopLogger())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		s.SetAccessToken(ctx, "abc")
		s.SaveSession(ctx, &models.LoginResult{Token: "abc"})
		s.ClearTokens(ctx)
		s.ClearAll(ctx)
		s.RemoveUser(ctx)
	})

	assert.Empty(t, s.AccessToken(ctx))
	assert.False(t, s.HasValidToken(ctx))
	assert.Nil(t, s.User(ctx))
	assert.Equal(t, models.ThemeLight, s.Theme(ctx))
}
