// Package session owns the authentication token and current user profile.
// It restores the session on cold start, keeps the bearer holder and the
// durable token store in lockstep, and converts every failure into a
// display-ready result so callers never see raw errors.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medinventory/medinv/internal/api"
)

// DefaultTipo is the role assigned to new accounts when none is given.
const DefaultTipo = "UsuarioComum"

// Result is the uniform non-throwing outcome of a session operation. Err is
// set only on failure and is always safe to show to the user.
type Result struct {
	Success bool
	User    *User
	Err     string
}

func failure(msg string) Result {
	return Result{Err: msg}
}

func success(u *User) Result {
	return Result{Success: true, User: u}
}

// Config holds configuration for the session manager.
type Config struct {
	// API is the gateway used for all network calls.
	API *api.Client

	// Bearer is the shared token holder read by the gateway. The manager
	// is its single writer.
	Bearer *api.Bearer

	// Store persists the token between runs. Defaults to a FileStore under
	// the user config dir, or a MemoryStore when that cannot be resolved.
	Store TokenStore

	// Logger for session lifecycle logging.
	Logger zerolog.Logger
}

// Manager is the session state machine. A session is valid only while both
// the token and the user profile are present; every code path below
// maintains that invariant.
type Manager struct {
	api    *api.Client
	bearer *api.Bearer
	store  TokenStore
	logger zerolog.Logger

	mu             sync.RWMutex
	token          string
	user           *User
	initializing   bool
	authenticating bool
}

// NewManager creates a session manager. The session starts in the
// initializing state until Restore completes.
func NewManager(cfg Config) *Manager {
	store := cfg.Store
	if store == nil {
		if path, err := DefaultStorePath(); err == nil {
			store = NewFileStore(path)
		} else {
			cfg.Logger.Warn().Err(err).Msg("no config dir, token will not persist")
			store = NewMemoryStore()
		}
	}

	return &Manager{
		api:          cfg.API,
		bearer:       cfg.Bearer,
		store:        store,
		logger:       cfg.Logger,
		initializing: true,
	}
}

// Token returns the current bearer token, or "" when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// CurrentUser returns a copy of the current profile, or nil when anonymous.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// CurrentUserID returns the current user's id, or "" when anonymous.
func (m *Manager) CurrentUserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return ""
	}
	return m.user.ID
}

// IsAuthenticated reports whether both a token and a profile are held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.user != nil
}

// Initializing reports whether the cold-start restore is still in flight.
// Callers must wait for this to turn false before rendering authenticated
// surfaces.
func (m *Manager) Initializing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initializing
}

// Authenticating reports whether a mutating operation is in flight. The flag
// is advisory: callers should disable triggers while it is true, but
// concurrent calls are not rejected.
func (m *Manager) Authenticating() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticating
}

func (m *Manager) beginAuth() {
	m.mu.Lock()
	m.authenticating = true
	m.mu.Unlock()
}

func (m *Manager) endAuth() {
	m.mu.Lock()
	m.authenticating = false
	m.mu.Unlock()
}

// Restore loads a persisted token and resolves it into a full session. A
// token whose profile cannot be fetched is discarded from both memory and
// the store, so the invariant holds whatever the outcome. Restore always
// ends the initializing state.
func (m *Manager) Restore(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.initializing = false
		m.mu.Unlock()
	}()

	stored, err := m.store.Load()
	if err != nil {
		m.logger.Error().Err(err).Msg("loading stored session failed")
		return
	}
	if stored == "" {
		return
	}

	// Attach optimistically so the profile fetch carries the token.
	m.bearer.Set(stored)
	m.mu.Lock()
	m.token = stored
	m.mu.Unlock()

	var user *User
	if err := m.api.JSON(ctx, http.MethodGet, "/users/me", nil, &user); err != nil || user == nil {
		if err != nil {
			m.logger.Warn().Err(err).Msg("stored session rejected, clearing")
		}
		m.discardSession()
		return
	}

	user.Normalize()
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.logger.Info().Str("user_id", user.ID).Msg("session restored")
}

// Login authenticates with the given identifier (username or email) and
// password. A response missing the token or the user is rejected as invalid
// even when the HTTP status was success, and leaves no partial state behind.
func (m *Manager) Login(ctx context.Context, identifier, password string) Result {
	m.beginAuth()
	defer m.endAuth()

	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: strings.TrimSpace(identifier),
		Password: password,
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		User        *User  `json:"user"`
	}
	if err := m.api.JSON(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		m.logger.Warn().Err(err).Msg("login failed")
		return failure(api.ErrorMessage(err))
	}

	if resp.AccessToken == "" || resp.User == nil {
		m.logger.Warn().Msg("login response missing token or user")
		return failure("Invalid authentication response.")
	}
	resp.User.Normalize()

	if err := m.store.Save(resp.AccessToken); err != nil {
		m.logger.Error().Err(err).Msg("persisting token failed")
		return failure("Could not store the session. Try again.")
	}

	m.bearer.Set(resp.AccessToken)
	m.mu.Lock()
	m.token = resp.AccessToken
	m.user = resp.User
	m.mu.Unlock()

	m.logger.Info().Str("user_id", resp.User.ID).Msg("logged in")
	return success(resp.User)
}

// SignupParams are the fields sent to the registration endpoint.
type SignupParams struct {
	Nome     string
	Username string
	Email    string
	Password string
	Tipo     string
}

// Signup registers a new account. It does not log the new user in; callers
// run a separate Login afterwards.
func (m *Manager) Signup(ctx context.Context, p SignupParams) Result {
	m.beginAuth()
	defer m.endAuth()

	tipo := p.Tipo
	if tipo == "" {
		tipo = DefaultTipo
	}

	body := struct {
		Nome     string `json:"nome"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Tipo     string `json:"tipo"`
	}{
		Nome:     strings.TrimSpace(p.Nome),
		Username: strings.TrimSpace(p.Username),
		Email:    p.Email,
		Password: p.Password,
		Tipo:     tipo,
	}

	var resp struct {
		User *User `json:"user"`
	}
	if err := m.api.JSON(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		m.logger.Warn().Err(err).Msg("signup failed")
		return failure(api.ErrorMessage(err))
	}

	resp.User.Normalize()
	return success(resp.User)
}

// Logout clears the session unconditionally. A failure to clear the durable
// store is logged, never surfaced, and the in-memory state is cleared either
// way. Logging out while anonymous is a no-op.
func (m *Manager) Logout() {
	m.discardSession()
}

// discardSession clears the durable store best-effort, detaches the token
// from the gateway and drops the in-memory session.
func (m *Manager) discardSession() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error().Err(err).Msg("clearing stored token failed")
	}
	m.bearer.Clear()
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
}

// ProfileUpdate carries the partial fields of a profile update. Empty fields
// are omitted from the request.
type ProfileUpdate struct {
	Nome     string `json:"nome,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile updates the current user. The returned profile is merged
// into the in-memory user so fields the server did not echo back are
// preserved; an ambiguous update response falls back to re-fetching the
// profile.
func (m *Manager) UpdateProfile(ctx context.Context, updates ProfileUpdate) Result {
	m.beginAuth()
	defer m.endAuth()

	current := m.CurrentUser()
	if current == nil || current.ID == "" {
		return failure("No authenticated user to update.")
	}

	resp, err := m.api.Do(ctx, http.MethodPut, "/users/"+current.ID, updates)
	if err != nil {
		m.logger.Warn().Err(err).Msg("profile update failed")
		return failure(api.ErrorMessage(err))
	}

	updated := decodeUserResponse(resp.Body)
	if updated == nil {
		// Ambiguous response shape: trust the server and re-read.
		if err := m.api.JSON(ctx, http.MethodGet, "/users/me", nil, &updated); err != nil || updated == nil {
			m.logger.Warn().Err(err).Msg("profile re-fetch after update failed")
			return failure("Could not update the profile.")
		}
	}
	updated.Normalize()

	m.mu.Lock()
	if m.user == nil {
		m.user = updated
	} else {
		m.user.Merge(updated)
	}
	merged := *m.user
	m.mu.Unlock()

	return success(&merged)
}

// DeleteAccount deletes the current user on the server and logs out.
func (m *Manager) DeleteAccount(ctx context.Context) Result {
	current := m.CurrentUser()
	if current == nil || current.ID == "" {
		return failure("No authenticated user to delete.")
	}

	m.beginAuth()
	defer m.endAuth()

	if _, err := m.api.Do(ctx, http.MethodDelete, "/users/"+current.ID, nil); err != nil {
		m.logger.Warn().Err(err).Msg("account deletion failed")
		return failure(api.ErrorMessage(err))
	}

	m.Logout()
	return Result{Success: true}
}

// Verify asks the server whether the current token is still accepted. The
// response body is implementation-defined, so only the error matters.
func (m *Manager) Verify(ctx context.Context) error {
	_, err := m.api.Do(ctx, http.MethodGet, "/auth/verify", nil)
	return err
}

// decodeUserResponse accepts either a {user} envelope or a bare user object.
func decodeUserResponse(body []byte) *User {
	var envelope struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.User != nil {
		return envelope.User
	}

	var bare User
	if err := json.Unmarshal(body, &bare); err == nil && bare != (User{}) {
		return &bare
	}
	return nil
}
