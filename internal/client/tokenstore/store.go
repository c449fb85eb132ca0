// Package tokenstore is the secure token store: typed accessors for the
// four session artifacts (access token, refresh token, session id, cached
// user) plus the install-scoped theme preference and install id, on top
// of a keyvalue.Repository.
//
// The store is a fail-open boundary. Reads return the zero value on any
// storage error; writes log and swallow failures. No storage error ever
// propagates into business logic.
package tokenstore

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/client/repositories/keyvalue"
	"github.com/serenvoice/serenvoice-cli/internal/common"
	"github.com/serenvoice/serenvoice-cli/internal/logging"
)

type Store struct {
	repo keyvalue.Repository
	log  logging.Logger
}

func New(repo keyvalue.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "tokenstore")}
}

func (s *Store) get(ctx context.Context, key string) []byte {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Error(ctx, "storage read failed", "key", key, "error", err)
		return nil
	}
	return value
}

func (s *Store) set(ctx context.Context, key string, value []byte) {
	if err := s.repo.Set(ctx, key, value); err != nil {
		s.log.Error(ctx, "storage write failed", "key", key, "error", err)
	}
}

func (s *Store) SetAccessToken(ctx context.Context, token string) {
	s.set(ctx, common.KeyAccessToken, []byte(token))
}

func (s *Store) AccessToken(ctx context.Context) string {
	return string(s.get(ctx, common.KeyAccessToken))
}

// HasValidToken is a presence check only: a non-empty access token. No
// expiry validation happens here.
func (s *Store) HasValidToken(ctx context.Context) bool {
	return s.AccessToken(ctx) != ""
}

func (s *Store) SetRefreshToken(ctx context.Context, token string) {
	s.set(ctx, common.KeyRefreshToken, []byte(token))
}

func (s *Store) RefreshToken(ctx context.Context) string {
	return string(s.get(ctx, common.KeyRefreshToken))
}

func (s *Store) SetSessionID(ctx context.Context, id string) {
	s.set(ctx, common.KeySessionID, []byte(id))
}

func (s *Store) SessionID(ctx context.Context) string {
	return string(s.get(ctx, common.KeySessionID))
}

func (s *Store) SetUser(ctx context.Context, user *models.User) {
	if user == nil {
		s.RemoveUser(ctx)
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		s.log.Error(ctx, "marshaling user failed", "error", err)
		return
	}
	s.set(ctx, common.KeyUser, data)
}

// User returns the cached profile, or nil when it is absent or cannot be
// parsed. A corrupt cache reads as "logged out", never as a crash.
func (s *Store) User(ctx context.Context) *models.User {
	data := s.get(ctx, common.KeyUser)
	if len(data) == 0 {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Error(ctx, "cached user unreadable", "error", err)
		return nil
	}
	return &user
}

func (s *Store) RemoveUser(ctx context.Context) {
	if err := s.repo.Delete(ctx, common.KeyUser); err != nil {
		s.log.Error(ctx, "removing cached user failed", "error", err)
	}
}

// SaveSession persists the artifacts of a successful login together, so
// the token and the cached user are not observed half-written.
func (s *Store) SaveSession(ctx context.Context, res *models.LoginResult) {
	pairs := map[string][]byte{
		common.KeyAccessToken: []byte(res.Token),
	}
	if res.RefreshToken != "" {
		pairs[common.KeyRefreshToken] = []byte(res.RefreshToken)
	}
	if res.SessionID != "" {
		pairs[common.KeySessionID] = []byte(res.SessionID)
	}
	if res.User != nil {
		data, err := json.Marshal(res.User)
		if err != nil {
			s.log.Error(ctx, "marshaling user failed", "error", err)
		} else {
			pairs[common.KeyUser] = data
		}
	}
	if err := s.repo.SetMany(ctx, pairs); err != nil {
		s.log.Error(ctx, "persisting session failed", "error", err)
	}
}

// ClearTokens removes the access token, refresh token and session id but
// keeps the cached user.
func (s *Store) ClearTokens(ctx context.Context) {
	keys := []string{common.KeyAccessToken, common.KeyRefreshToken, common.KeySessionID}
	if err := s.repo.DeleteMany(ctx, keys); err != nil {
		s.log.Error(ctx, "clearing tokens failed", "error", err)
	}
}

// ClearAll removes the whole session: tokens, session id and cached user.
// The theme preference and install id are untouched.
func (s *Store) ClearAll(ctx context.Context) {
	keys := []string{common.KeyAccessToken, common.KeyRefreshToken, common.KeySessionID, common.KeyUser}
	if err := s.repo.DeleteMany(ctx, keys); err != nil {
		s.log.Error(ctx, "clearing session failed", "error", err)
	}
}

func (s *Store) SetTheme(ctx context.Context, theme models.Theme) {
	s.set(ctx, common.KeyTheme, []byte(theme))
}

func (s *Store) Theme(ctx context.Context) models.Theme {
	return models.ParseTheme(string(s.get(ctx, common.KeyTheme)))
}

// InstallID returns the stable per-install identifier, generating and
// persisting one on first call.
func (s *Store) InstallID(ctx context.Context) string {
	if id := s.get(ctx, common.KeyInstallID); len(id) > 0 {
		return string(id)
	}
	id := uuid.NewString()
	s.set(ctx, common.KeyInstallID, []byte(id))
	return id
}
