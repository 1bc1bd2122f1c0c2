// Package cache stores the logged-in user's account snapshot between
// aidlinkctl invocations.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aidlink/aidlink/src/aidlinkctl/internal/client"
	"github.com/aidlink/aidlink/src/common/paths"
)

const (
	defaultCachePath = "~/.aidlinkctl/cache.db"
	sessionBucket    = "session"
	userKey          = "user"
)

// Store is a small bbolt-backed key-value store for session state
type Store struct {
	db *bbolt.DB
}

// Open opens the cache store at the given path, creating it if needed.
// An empty path uses the default location under ~/.aidlinkctl.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultCachePath
	}
	path = paths.Expand(path)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveUser persists the account snapshot
func (s *Store) SaveUser(user *client.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(userKey), data)
	})
}

// LoadUser returns the stored account snapshot, or nil when none exists
func (s *Store) LoadUser() (*client.User, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(sessionBucket)).Get([]byte(userKey))
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var user client.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse cached user: %w", err)
	}
	return &user, nil
}

// Clear removes the stored account snapshot
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(userKey))
	})
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
