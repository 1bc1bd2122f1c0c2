// Package session holds the authenticated state of an aidlinkctl run:
// the token pair, the cached account snapshot, and the background
// refresh loop used by long-lived invocations.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/cache"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/config"
)

// RefreshInterval is how often the background loop rotates the access
// token. It sits comfortably under the 300 second token lifetime.
const RefreshInterval = 240 * time.Second

// expiryMargin is how close to expiry a stored access token may be and
// still be adopted without an immediate refresh.
const expiryMargin = 30 * time.Second

// TokenStore abstracts token persistence so tests can run without
// touching the real home directory.
type TokenStore interface {
	Save(data *config.TokenData) error
	Load() (*config.TokenData, error)
	Clear() error
}

// FileTokenStore persists tokens under ~/.aidlinkctl
type FileTokenStore struct{}

func (FileTokenStore) Save(data *config.TokenData) error { return config.SaveToken(data) }
func (FileTokenStore) Load() (*config.TokenData, error)  { return config.LoadToken() }
func (FileTokenStore) Clear() error                      { return config.ClearToken() }

// Manager owns the session lifecycle: login, rehydration from disk,
// periodic refresh and logout. Refresh never leaves a half-valid
// session behind: it either installs a complete new token pair or
// clears everything.
type Manager struct {
	mu     sync.Mutex
	client *client.Client
	tokens TokenStore
	cache  *cache.Store
	user   *client.User
	stop   chan struct{}
}

// NewManager creates a session manager around the given API client.
// A nil token store falls back to the file-based one; the cache store
// may be nil when no snapshot persistence is wanted.
func NewManager(c *client.Client, tokens TokenStore, store *cache.Store) *Manager {
	if tokens == nil {
		tokens = FileTokenStore{}
	}
	return &Manager{
		client: c,
		tokens: tokens,
		cache:  store,
	}
}

// Current returns the account snapshot of the active session, or nil
func (m *Manager) Current() *client.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Login authenticates and persists the resulting session state
func (m *Manager) Login(ctx context.Context, email, password string) (*client.User, error) {
	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.adoptLocked(resp); err != nil {
		return nil, err
	}
	return m.user, nil
}

// Register creates a new account and persists the resulting session
func (m *Manager) Register(ctx context.Context, email, password, name, accountType string) (*client.User, error) {
	resp, err := m.client.Register(ctx, email, password, name, accountType)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.adoptLocked(resp); err != nil {
		return nil, err
	}
	return m.user, nil
}

// Rehydrate restores a previous session from disk. A stored access
// token that is still fresh is adopted as-is; an expired or missing one
// is exchanged via the refresh token. Tokens without a matching account
// snapshot are treated as corrupt state and discarded. Returns nil
// without error when no session is stored.
func (m *Manager) Rehydrate(ctx context.Context) (*client.User, error) {
	tokenData, err := m.tokens.Load()
	if err != nil || tokenData == nil {
		return nil, nil
	}
	if tokenData.AccessToken == "" && tokenData.RefreshToken == "" {
		return nil, nil
	}

	var snapshot *client.User
	if m.cache != nil {
		snapshot, _ = m.cache.LoadUser()
	}
	if snapshot == nil {
		m.mu.Lock()
		m.resetLocked()
		m.mu.Unlock()
		return nil, nil
	}

	m.mu.Lock()
	m.client.Token = tokenData.AccessToken
	m.client.RefreshToken = tokenData.RefreshToken
	m.user = snapshot
	m.mu.Unlock()

	if tokenData.AccessToken != "" && tokenFresh(tokenData.ExpiresAt) {
		return snapshot, nil
	}

	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return m.Current(), nil
}

// Refresh rotates the token pair and persists the new session state.
// Any failure ends the session: either the new pair is adopted in full,
// or every trace of the old one is dropped, never something in between.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.client.RefreshToken
	m.mu.Unlock()

	resp, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		m.mu.Lock()
		m.resetLocked()
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A refresh response carries no user snapshot worth adopting when
	// the session already has one.
	if resp.User.ID == "" && m.user != nil {
		resp.User = *m.user
	}
	return m.adoptLocked(resp)
}

// Logout ends the session. Local state is dropped first so the user is
// logged out even when the server is unreachable; the server-side
// revocation is best effort.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	token := m.client.Token
	m.resetLocked()
	if token != "" {
		m.client.Token = token
	}
	m.mu.Unlock()

	if token != "" {
		_ = m.client.Logout(ctx)
		m.mu.Lock()
		m.client.Token = ""
		m.mu.Unlock()
	}
	return nil
}

// StartAutoRefresh launches the background refresh loop. It stops
// itself when a refresh is rejected.
func (m *Manager) StartAutoRefresh() {
	m.mu.Lock()
	if m.stop != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stop = stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.Refresh(context.Background()); err != nil {
					return
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the background refresh loop
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

// adoptLocked installs a token pair and persists it. Callers hold m.mu.
func (m *Manager) adoptLocked(resp *client.LoginResponse) error {
	m.client.Token = resp.AccessToken
	m.client.RefreshToken = resp.RefreshToken
	user := resp.User
	m.user = &user

	if err := m.tokens.Save(&config.TokenData{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
		ServerURL:    m.client.BaseURL,
		Email:        user.Email,
	}); err != nil {
		return err
	}

	if m.cache != nil {
		if err := m.cache.SaveUser(&user); err != nil {
			return err
		}
	}
	return nil
}

// resetLocked drops all session state. Callers hold m.mu.
func (m *Manager) resetLocked() {
	m.stopLocked()
	m.user = nil
	m.client.Token = ""
	m.client.RefreshToken = ""
	_ = m.tokens.Clear()
	if m.cache != nil {
		_ = m.cache.Clear()
	}
}

// tokenFresh reports whether a stored expiry timestamp is still
// comfortably in the future. Unparseable timestamps count as expired.
func tokenFresh(expiresAt string) bool {
	if expiresAt == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return false
	}
	return time.Now().Add(expiryMargin).Before(t)
}
