// Package db provides the SQLite data layer for aidlinkd: the connection
// wrapper, per-entity repositories, and schema migrations.
package db

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/paths"
	"github.com/mattn/go-sqlite3"
)

// package-level logger, set via SetLogger
var log *logs.Logger

// SetLogger sets the logger for the db package
func SetLogger(l *logs.Logger) {
	log = l
}

// driverName is the custom sqlite3 driver carrying the unaccent function.
const driverName = "sqlite3_aidlink"

var registerDriverOnce sync.Once

// registerDriver registers a sqlite3 driver variant whose connections expose
// an unaccent() SQL function. Post and organization searches rely on it for
// accent-insensitive matching.
func registerDriver() {
	registerDriverOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("unaccent", Unaccent, true)
			},
		})
	})
}

// Database wraps the SQLite connection shared by all repositories
type Database struct {
	db           *sql.DB
	path         string
	shutdownOnce sync.Once
}

// Config holds the database configuration
type Config struct {
	// Path is the SQLite database file; ":memory:" keeps everything in RAM
	Path string
}

// DefaultConfig returns a default database configuration
func DefaultConfig() Config {
	return Config{
		Path: "~/.aidlinkd/aidlink.db",
	}
}

// New opens (or creates) the database, applies pragmas and runs all
// pending migrations.
func New(cfg Config) (*Database, error) {
	registerDriver()

	path := cfg.Path
	if path != ":memory:" {
		path = paths.Expand(path)
		if err := paths.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; a pool of one connection keeps
	// json_each scans and the custom function on a known connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	database := &Database{
		db:   db,
		path: path,
	}

	return database, nil
}

// DB returns the underlying sql.DB for direct queries
func (d *Database) DB() *sql.DB {
	return d.db
}

// Path returns the database file path
func (d *Database) Path() string {
	return d.path
}

// Shutdown closes the database connection. Safe to call more than once.
func (d *Database) Shutdown() error {
	var shutdownErr error
	d.shutdownOnce.Do(func() {
		if err := d.db.Close(); err != nil {
			shutdownErr = fmt.Errorf("failed to close database: %w", err)
		}
	})
	return shutdownErr
}
