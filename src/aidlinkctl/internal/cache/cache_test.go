package cache

import (
	"path/filepath"
	"testing"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndLoadUser(t *testing.T) {
	store := openTestStore(t)

	user := &client.User{
		ID:       "u-1",
		Email:    "maria@example.org",
		Name:     "Maria",
		Slug:     "maria",
		Type:     "individual",
		Verified: true,
	}
	if err := store.SaveUser(user); err != nil {
		t.Fatalf("failed to save user: %v", err)
	}

	loaded, err := store.LoadUser()
	if err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored user, got nil")
	}
	if loaded.ID != user.ID || loaded.Email != user.Email {
		t.Errorf("loaded user mismatch: got %+v", loaded)
	}
	if !loaded.Verified {
		t.Error("expected verified flag to survive round trip")
	}
}

func TestStore_LoadUser_Empty(t *testing.T) {
	store := openTestStore(t)

	user, err := store.LoadUser()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for empty store, got %+v", user)
	}
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveUser(&client.User{ID: "u-1"}); err != nil {
		t.Fatalf("failed to save user: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	user, err := store.LoadUser()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil after clear, got %+v", user)
	}
}

func TestStore_Clear_Empty(t *testing.T) {
	store := openTestStore(t)
	if err := store.Clear(); err != nil {
		t.Errorf("clearing an empty store should not error: %v", err)
	}
}

func TestStore_SaveUser_Overwrites(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveUser(&client.User{ID: "u-1", Name: "Old"}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := store.SaveUser(&client.User{ID: "u-1", Name: "New"}); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	loaded, err := store.LoadUser()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Name != "New" {
		t.Errorf("expected overwritten snapshot, got %+v", loaded)
	}
}
