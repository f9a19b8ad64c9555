// Package session owns the client's authentication lifecycle: the access
// token and user record, their durable persistence, and the navigation that
// follows a logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/careeriq/internal/logger"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/storage"
	"github.com/jonathan/careeriq/internal/types"
)

// LoginPath is the unauthenticated entry point navigated to on logout.
const LoginPath = "/login"

// Logout reasons recorded in metrics.
const (
	ReasonUser         = "user"
	ReasonUnauthorized = "unauthorized"
)

const storageTimeout = 5 * time.Second

// Navigator moves the client to another route.
type Navigator interface {
	Navigate(path string)
}

// Authenticator exchanges credentials for a token and user record.
type Authenticator interface {
	Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error)
	Signup(ctx context.Context, req types.SignupRequest) (*types.LoginResponse, error)
}

// Options configures a Manager.
type Options struct {
	Navigator Navigator
	Logger    logger.Logger
	Metrics   *observability.Metrics
}

// Manager is the single writer of session state. It is safe for concurrent
// use; readers never observe a token without its user.
type Manager struct {
	mu        sync.RWMutex
	token     string
	user      *types.User
	expiresAt time.Time

	store   storage.Store
	nav     Navigator
	log     logger.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewManager creates an inactive Manager persisting to store.
func NewManager(store storage.Store, opts Options) *Manager {
	return &Manager{
		store:   store,
		nav:     opts.Navigator,
		log:     logger.OrNop(opts.Logger),
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// SetNavigator installs the navigator used by Logout. Routers usually need
// the Manager to exist first, so this is set after construction.
func (m *Manager) SetNavigator(n Navigator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nav = n
}

// IsActive reports whether a token and user are held.
func (m *Manager) IsActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the current access token, or "" when inactive.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the current user record.
func (m *Manager) User() (types.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return types.User{}, false
	}
	return *m.user, true
}

// ExpiresAt returns the token's exp claim when the token is a JWT carrying one.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt, !m.expiresAt.IsZero()
}

// Login activates the session and persists it. The session stays active in
// memory even when persistence fails; the error is returned so callers can
// warn that the login will not survive a restart.
func (m *Manager) Login(ctx context.Context, token string, user types.User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("login: token is empty")
	}
	if user.ID == "" {
		return errors.New("login: user id is empty")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("login: failed to marshal user: %w", err)
	}

	exp, _ := tokenExpiry(token)

	m.mu.Lock()
	m.token = token
	u := user
	m.user = &u
	m.expiresAt = exp
	m.mu.Unlock()

	m.log.Info("session started", map[string]interface{}{"user_id": string(user.ID)})

	if err := m.store.Set(ctx, storage.KeyToken, token); err != nil {
		return &PersistError{Key: storage.KeyToken, Err: err}
	}
	if err := m.store.Set(ctx, storage.KeyUser, string(userJSON)); err != nil {
		return &PersistError{Key: storage.KeyUser, Err: err}
	}
	return nil
}

// PersistError reports that Login activated the session in memory but could
// not write it to storage.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("login: failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Logout ends the session at the user's request.
func (m *Manager) Logout() {
	m.logout(ReasonUser)
}

// InvalidateToken ends the session because the backend rejected tok. It does
// nothing if the session has since moved on to a different token, so a late
// 401 for a replaced token cannot end a newer login.
func (m *Manager) InvalidateToken(tok string) {
	if !m.end(ReasonUnauthorized, func(current string) bool { return current == tok }) {
		m.log.Debug("ignoring rejection of a replaced token", nil)
	}
}

func (m *Manager) logout(reason string) {
	m.end(reason, nil)
}

// end clears memory and storage, then navigates to the login route. When
// match is set it must accept the current token, otherwise nothing happens.
// Repeated calls are harmless; storage is cleared and navigation happens
// every time so no protected view can stay rendered.
func (m *Manager) end(reason string, match func(current string) bool) bool {
	m.mu.Lock()
	if match != nil && !match(m.token) {
		m.mu.Unlock()
		return false
	}
	wasActive := m.token != ""
	m.token = ""
	m.user = nil
	m.expiresAt = time.Time{}
	nav := m.nav
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := m.store.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		m.log.Warn("failed to clear stored session", map[string]interface{}{"error": err.Error()})
	}

	if wasActive {
		m.metrics.ObserveLogout(reason)
		m.log.Info("session ended", map[string]interface{}{"reason": reason})
	}

	if nav != nil {
		nav.Navigate(LoginPath)
	}
	return true
}

// Restore rebuilds the session from storage. Absent values leave the session
// inactive; unusable values, including a corrupt store, are cleared.
// Only storage failures are returned as errors.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Get(ctx, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		m.log.Debug("no stored session", nil)
		return m.clearPartial(ctx)
	}
	if errors.Is(err, storage.ErrCorrupt) {
		m.log.Warn("stored session is corrupt, discarding", map[string]interface{}{"error": err.Error()})
		return m.discard(ctx)
	}
	if err != nil {
		return fmt.Errorf("restore: failed to read token: %w", err)
	}

	rawUser, err := m.store.Get(ctx, storage.KeyUser)
	if errors.Is(err, storage.ErrNotFound) {
		m.log.Warn("stored token has no user record, discarding", nil)
		return m.discard(ctx)
	}
	if err != nil {
		return fmt.Errorf("restore: failed to read user: %w", err)
	}

	var user types.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID == "" {
		m.log.Warn("stored user record is malformed, discarding", nil)
		return m.discard(ctx)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		m.log.Warn("stored token is empty, discarding", nil)
		return m.discard(ctx)
	}

	exp, isJWT := tokenExpiry(token)
	if isJWT && !exp.IsZero() && !exp.After(m.now()) {
		m.log.Info("stored token has expired, discarding", map[string]interface{}{"expired_at": exp.Format(time.RFC3339)})
		return m.discard(ctx)
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.expiresAt = exp
	m.mu.Unlock()

	m.log.Info("session restored", map[string]interface{}{"user_id": string(user.ID)})
	return nil
}

// SignIn validates credentials locally, exchanges them for a token and
// activates the session.
func (m *Manager) SignIn(ctx context.Context, auth Authenticator, req types.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	resp, err := auth.Login(ctx, req)
	if err != nil {
		return err
	}
	return m.Login(ctx, resp.AccessToken, resp.User)
}

// SignUp creates an account and activates the session for it.
func (m *Manager) SignUp(ctx context.Context, auth Authenticator, req types.SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	resp, err := auth.Signup(ctx, req)
	if err != nil {
		return err
	}
	return m.Login(ctx, resp.AccessToken, resp.User)
}

func (m *Manager) discard(ctx context.Context) error {
	if err := m.store.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
		return fmt.Errorf("restore: failed to clear stored session: %w", err)
	}
	return nil
}

// clearPartial removes a user record left without its token.
func (m *Manager) clearPartial(ctx context.Context) error {
	if _, err := m.store.Get(ctx, storage.KeyUser); err == nil {
		m.log.Warn("stored user record has no token, discarding", nil)
		return m.discard(ctx)
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend is the only party that can verify it. Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, true
	}
	return claims.ExpiresAt.Time, true
}
