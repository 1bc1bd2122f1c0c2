package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/cache"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/config"
)

// memTokenStore keeps tokens in memory so tests never touch the home
// directory.
type memTokenStore struct {
	data *config.TokenData
}

func (s *memTokenStore) Save(d *config.TokenData) error { s.data = d; return nil }

func (s *memTokenStore) Load() (*config.TokenData, error) {
	if s.data == nil {
		return nil, errors.New("no stored token")
	}
	return s.data, nil
}

func (s *memTokenStore) Clear() error { s.data = nil; return nil }

func testCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func loginResponse(accessToken, refreshToken string) client.LoginResponse {
	return client.LoginResponse{
		User: client.User{
			ID:       "u-1",
			Email:    "maria@example.org",
			Name:     "Maria",
			Slug:     "maria",
			Type:     "individual",
			Verified: true,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(300 * time.Second).Format(time.RFC3339),
		ExpiresIn:    300,
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestManager_Login_PersistsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(loginResponse("at-1", "rt-1"))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	tokens := &memTokenStore{}
	store := testCache(t)
	m := NewManager(c, tokens, store)

	user, err := m.Login(context.Background(), "maria@example.org", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Name != "Maria" {
		t.Fatalf("expected user snapshot, got %+v", user)
	}
	if c.Token != "at-1" || c.RefreshToken != "rt-1" {
		t.Errorf("expected client tokens set, got %q / %q", c.Token, c.RefreshToken)
	}
	if tokens.data == nil || tokens.data.AccessToken != "at-1" {
		t.Errorf("expected token persisted, got %+v", tokens.data)
	}
	if tokens.data.Email != "maria@example.org" {
		t.Errorf("expected email persisted, got %q", tokens.data.Email)
	}

	cached, err := store.LoadUser()
	if err != nil {
		t.Fatalf("failed to load cached user: %v", err)
	}
	if cached == nil || cached.ID != "u-1" {
		t.Errorf("expected cached snapshot, got %+v", cached)
	}
}

// =============================================================================
// Rehydrate Tests
// =============================================================================

func TestManager_Rehydrate_NoStoredSession(t *testing.T) {
	c := client.New("http://localhost:1")
	m := NewManager(c, &memTokenStore{}, testCache(t))

	user, err := m.Rehydrate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for no stored session, got %+v", user)
	}
}

func TestManager_Rehydrate_FreshToken_AdoptsWithoutNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network call to %s", r.URL.Path)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	tokens := &memTokenStore{data: &config.TokenData{
		AccessToken:  "at-stored",
		RefreshToken: "rt-stored",
		ExpiresAt:    time.Now().Add(5 * time.Minute).Format(time.RFC3339),
	}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1", Email: "maria@example.org"})
	m := NewManager(c, tokens, store)

	user, err := m.Rehydrate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.ID != "u-1" {
		t.Fatalf("expected adopted snapshot, got %+v", user)
	}
	if c.Token != "at-stored" {
		t.Errorf("expected stored access token adopted, got %q", c.Token)
	}
}

func TestManager_Rehydrate_ExpiredToken_Refreshes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			t.Errorf("expected refresh call, got %s", r.URL.Path)
		}
		var req client.RefreshRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "rt-stored" {
			t.Errorf("expected stored refresh token, got %q", req.RefreshToken)
		}
		json.NewEncoder(w).Encode(loginResponse("at-new", "rt-new"))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	tokens := &memTokenStore{data: &config.TokenData{
		AccessToken:  "at-stale",
		RefreshToken: "rt-stored",
		ExpiresAt:    time.Now().Add(-time.Minute).Format(time.RFC3339),
	}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1"})
	m := NewManager(c, tokens, store)

	user, err := m.Rehydrate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected session after refresh")
	}
	if c.Token != "at-new" || c.RefreshToken != "rt-new" {
		t.Errorf("expected rotated tokens, got %q / %q", c.Token, c.RefreshToken)
	}
	if tokens.data.AccessToken != "at-new" {
		t.Errorf("expected rotated token persisted, got %+v", tokens.data)
	}
}

func TestManager_Rehydrate_RefreshTokenOnly_Refreshes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			t.Errorf("expected refresh call, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(loginResponse("at-new", "rt-new"))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	tokens := &memTokenStore{data: &config.TokenData{
		RefreshToken: "rt-only",
	}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1"})
	m := NewManager(c, tokens, store)

	user, err := m.Rehydrate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected session after refresh-token-only rehydration")
	}
	if c.Token != "at-new" {
		t.Errorf("expected fresh access token, got %q", c.Token)
	}
}

func TestManager_Rehydrate_TokenWithoutSnapshot_Resets(t *testing.T) {
	c := client.New("http://localhost:1")
	tokens := &memTokenStore{data: &config.TokenData{
		AccessToken:  "at-stored",
		RefreshToken: "rt-stored",
		ExpiresAt:    time.Now().Add(5 * time.Minute).Format(time.RFC3339),
	}}
	m := NewManager(c, tokens, testCache(t))

	user, err := m.Rehydrate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil session for orphaned token, got %+v", user)
	}
	if tokens.data != nil {
		t.Errorf("expected orphaned token cleared, got %+v", tokens.data)
	}
	if c.Token != "" {
		t.Errorf("expected client token cleared, got %q", c.Token)
	}
}

// =============================================================================
// Refresh Tests
// =============================================================================

func TestManager_Refresh_RejectedEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(client.ErrorResponse{Error: "unauthorized", Message: "refresh token revoked"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	tokens := &memTokenStore{data: &config.TokenData{AccessToken: "at", RefreshToken: "rt"}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1"})
	c.Token = "at"
	c.RefreshToken = "rt"
	m := NewManager(c, tokens, store)

	err := m.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error for rejected refresh")
	}
	if tokens.data != nil {
		t.Errorf("expected stored token cleared, got %+v", tokens.data)
	}
	if c.Token != "" || c.RefreshToken != "" {
		t.Errorf("expected client tokens cleared, got %q / %q", c.Token, c.RefreshToken)
	}
	if m.Current() != nil {
		t.Error("expected no current user after rejected refresh")
	}
}

func TestManager_Refresh_TransportFailureEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately unreachable

	c := client.New(srv.URL)
	c.Token = "at"
	c.RefreshToken = "rt"
	tokens := &memTokenStore{data: &config.TokenData{AccessToken: "at", RefreshToken: "rt"}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1"})
	m := NewManager(c, tokens, store)

	err := m.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if tokens.data != nil {
		t.Errorf("expected stored token cleared, got %+v", tokens.data)
	}
	if c.Token != "" || c.RefreshToken != "" {
		t.Errorf("expected client tokens cleared, got %q / %q", c.Token, c.RefreshToken)
	}
	cached, _ := store.LoadUser()
	if cached != nil {
		t.Errorf("expected cached snapshot cleared, got %+v", cached)
	}
	if m.Current() != nil {
		t.Error("expected no current user after failed refresh")
	}
}

// =============================================================================
// Logout Tests
// =============================================================================

func TestManager_Logout_RevokesServerSide(t *testing.T) {
	revoked := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			revoked = true
			if got := r.Header.Get("X-Subject-Token"); got != "at" {
				t.Errorf("expected token on logout call, got %q", got)
			}
		}
		w.WriteHeader(498)
		w.Write([]byte(`{"message":"Logout successful"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	c.Token = "at"
	c.RefreshToken = "rt"
	tokens := &memTokenStore{data: &config.TokenData{AccessToken: "at"}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1"})
	m := NewManager(c, tokens, store)

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Error("expected best-effort server-side revocation")
	}
	if tokens.data != nil {
		t.Errorf("expected stored token cleared, got %+v", tokens.data)
	}
	if c.Token != "" {
		t.Errorf("expected client token cleared, got %q", c.Token)
	}
}

func TestManager_Logout_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately unreachable

	c := client.New(srv.URL)
	c.Token = "at"
	tokens := &memTokenStore{data: &config.TokenData{AccessToken: "at"}}
	store := testCache(t)
	store.SaveUser(&client.User{ID: "u-1"})
	m := NewManager(c, tokens, store)

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("logout should be optimistic, got error: %v", err)
	}
	if tokens.data != nil {
		t.Error("expected local token cleared even when server is down")
	}
	cached, _ := store.LoadUser()
	if cached != nil {
		t.Error("expected cached snapshot cleared even when server is down")
	}
}

// =============================================================================
// Auto Refresh Tests
// =============================================================================

func TestRefreshInterval_UnderTokenLifetime(t *testing.T) {
	if RefreshInterval >= 300*time.Second {
		t.Errorf("refresh interval %v must stay under the 300s token lifetime", RefreshInterval)
	}
	if RefreshInterval != 240*time.Second {
		t.Errorf("expected 240s refresh interval, got %v", RefreshInterval)
	}
}

func TestManager_StartAutoRefresh_Idempotent(t *testing.T) {
	c := client.New("http://localhost:1")
	m := NewManager(c, &memTokenStore{}, nil)

	m.StartAutoRefresh()
	m.StartAutoRefresh() // second call must not spawn a second loop
	m.Stop()
	m.Stop() // stopping twice must not panic
}

// =============================================================================
// Token Freshness Tests
// =============================================================================

func TestTokenFresh(t *testing.T) {
	cases := []struct {
		name      string
		expiresAt string
		want      bool
	}{
		{"empty", "", false},
		{"garbage", "not-a-timestamp", false},
		{"expired", time.Now().Add(-time.Minute).Format(time.RFC3339), false},
		{"expiring within margin", time.Now().Add(10 * time.Second).Format(time.RFC3339), false},
		{"fresh", time.Now().Add(5 * time.Minute).Format(time.RFC3339), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tokenFresh(tc.expiresAt); got != tc.want {
				t.Errorf("tokenFresh(%q) = %v, want %v", tc.expiresAt, got, tc.want)
			}
		})
	}
}
