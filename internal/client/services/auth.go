// Package services contains the application services of the SerenVoice
// client: the auth session controller, the theme preference, and the
// wellness API pass-through.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/serenvoice/serenvoice-cli/internal/client/api"
	"github.com/serenvoice/serenvoice-cli/internal/client/models"
	"github.com/serenvoice/serenvoice-cli/internal/client/tokenstore"
	"github.com/serenvoice/serenvoice-cli/internal/common"
	"github.com/serenvoice/serenvoice-cli/internal/logging"
	"github.com/serenvoice/serenvoice-cli/internal/validatex"
)

// AuthService is the only component that mutates the token store as a
// side effect of a user-facing action. It keeps an in-memory mirror of
// {user, token, authenticated} and publishes every transition to
// subscribers.
//
// Contract:
//   - Login/Register validate input locally and fail fast before any
//     network call.
//   - Logout never fails because of the backend; the local session is
//     cleared unconditionally and the call is idempotent.
//   - UpdateUser merges a partial edit locally; syncing to the backend
//     is the caller's concern.
type AuthService interface {
	Restore(ctx context.Context)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, reg models.Registration) error
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error)

	Session() models.Session
	State() models.AuthState
	IsAuthenticated() bool
	HasRole(role string) bool
	UserRole() string

	// Subscribe registers fn for session transitions and returns an
	// unsubscribe function. fn runs synchronously on the mutating call.
	Subscribe(fn func(models.Session)) func()

	Close() error
}

type authService struct {
	client api.Client
	store  *tokenstore.Store
	log    logging.Logger

	mu      sync.RWMutex
	state   models.AuthState
	session models.Session
	subs    map[int]func(models.Session)
	nextSub int
}

// NewAuthService constructs an AuthService bound to the given API client
// and token store. The state is Unknown until Restore runs.
func NewAuthService(client api.Client, store *tokenstore.Store, log logging.Logger) AuthService {
	return &authService{
		client: client,
		store:  store,
		log:    log.With("component", "auth"),
		state:  models.StateUnknown,
		subs:   map[int]func(models.Session){},
	}
}

// Restore reads the persisted session at startup and resolves the
// Unknown state. Authenticated requires both a non-empty access token
// and a cached user; anything less reads as logged out.
func (a *authService) Restore(ctx context.Context) {
	token := a.store.AccessToken(ctx)
	user := a.store.User(ctx)

	if token == "" || user == nil {
		a.setSession(models.StateUnauthenticated, models.Session{})
		return
	}

	session := models.Session{User: user, AccessToken: token, Authenticated: true}
	if exp, ok := models.TokenExpiry(token); ok {
		session.ExpiresAt = exp
	}
	a.setSession(models.StateAuthenticated, session)
	a.log.Debug(ctx, "session restored", "email", user.Email)
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if !validatex.IsValidEmail(email) {
		return nil, fmt.Errorf("invalid email format: %w", common.ErrValidation)
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("login response carries no user: %w", common.ErrInternal)
	}

	res.User.DeriveRole()

	// Persist first, then flip the in-memory state: a crash in between
	// leaves a restorable session rather than a phantom one.
	a.store.SaveSession(ctx, res)

	session := models.Session{User: res.User, AccessToken: res.Token, Authenticated: true}
	if exp, ok := models.TokenExpiry(res.Token); ok {
		session.ExpiresAt = exp
	}
	a.setSession(models.StateAuthenticated, session)

	a.log.Info(ctx, "logged in", "email", email, "role", res.User.Role)
	return &session, nil
}

func (a *authService) Register(ctx context.Context, reg models.Registration) error {
	if err := validateRegistration(reg); err != nil {
		return err
	}
	// No state change on success: the server requires a separate
	// verification step before the first login.
	return a.client.Register(ctx, reg)
}

func validateRegistration(reg models.Registration) error {
	switch {
	case !validatex.IsValidEmail(reg.Email):
		return fmt.Errorf("invalid email format: %w", common.ErrValidation)
	case !validatex.IsValidName(reg.Name):
		return fmt.Errorf("name must contain letters only: %w", common.ErrValidation)
	case reg.Surname != "" && !validatex.IsValidName(reg.Surname):
		return fmt.Errorf("surname must contain letters only: %w", common.ErrValidation)
	case !validatex.IsValidPassword(reg.Password):
		return fmt.Errorf("password needs at least %d characters with upper, lower and digit: %w", 8, common.ErrValidation)
	case !validatex.IsValidAge(reg.BirthDate):
		return fmt.Errorf("age must be between %d and %d: %w", validatex.MinAge, validatex.MaxAge, common.ErrValidation)
	}
	return nil
}

// Logout clears the in-memory session first, then asks the server to
// close the session (best effort), then wipes the persisted artifacts.
// A backend outage never prevents a local logout.
func (a *authService) Logout(ctx context.Context) error {
	sessionID := a.store.SessionID(ctx)

	a.setSession(models.StateUnauthenticated, models.Session{})

	if sessionID != "" {
		if err := a.client.Logout(ctx, sessionID); err != nil {
			a.log.Warn(ctx, "server-side logout failed", "error", err)
		}
	}

	a.store.ClearAll(ctx)
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	a.mu.Lock()
	if a.session.User == nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("no active session: %w", common.ErrUnauthorized)
	}
	updated := *a.session.User
	updated.Merge(patch)
	a.session.User = &updated
	session := a.session
	a.mu.Unlock()

	a.store.SetUser(ctx, &updated)
	a.notify(session)
	return &updated, nil
}

func (a *authService) Session() models.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

func (a *authService) State() models.AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *authService) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.Authenticated
}

func (a *authService) HasRole(role string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.User.HasRole(role)
}

func (a *authService) UserRole() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session.User == nil {
		return ""
	}
	return a.session.User.Role
}

func (a *authService) Subscribe(fn func(models.Session)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *authService) setSession(state models.AuthState, session models.Session) {
	a.mu.Lock()
	a.state = state
	a.session = session
	a.mu.Unlock()
	a.notify(session)
}

func (a *authService) notify(session models.Session) {
	a.mu.RLock()
	fns := make([]func(models.Session), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.RUnlock()

	for _, fn := range fns {
		fn(session)
	}
}

func (a *authService) Close() error {
	return a.client.Close()
}
