package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// DB wraps the embedded SQLite connection backing the local project store.
type DB struct {
	*sql.DB
	Path string
}

// schemaVersion is the current schema version, tracked via PRAGMA user_version.
const schemaVersion = 1

// New opens (or creates) the SQLite database at path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection keeps every
	// read-modify-write sequence serialized instead of racing for the lock.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Path: path}, nil
}

// Initialize runs schema migrations up to the current version.
func (db *DB) Initialize() error {
	version, err := db.userVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version >= schemaVersion {
		return nil
	}

	log.Printf("📦 Migrating store schema from v%d to v%d", version, schemaVersion)

	if version < 1 {
		if err := db.migrateToV1(); err != nil {
			return fmt.Errorf("failed to run v1 migration: %w", err)
		}
	}

	if err := db.setUserVersion(schemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	log.Println("✅ Store schema up to date")
	return nil
}

// migrateToV1 creates the three record collections plus the bookkeeping
// table. Projects are whole-record JSON documents; clients and favorites are
// flat rows.
func (db *DB) migrateToV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			data       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id         TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			address    TEXT NOT NULL DEFAULT '',
			city       TEXT NOT NULL DEFAULT '',
			notes      TEXT NOT NULL DEFAULT '',
			motivation TEXT NOT NULL DEFAULT '',
			feedback   TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'lead'
		)`,
		`CREATE TABLE IF NOT EXISTS favorite_finishes (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			type         TEXT NOT NULL DEFAULT '',
			image        TEXT NOT NULL DEFAULT '',
			manufacturer TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS store_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) userVersion() (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (db *DB) setUserVersion(version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version))
	return err
}

// GetMeta reads a bookkeeping value; missing keys return "".
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM store_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read meta %q: %w", key, err)
	}
	return value, nil
}

// SetMeta writes a bookkeeping value.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.Exec(
		"INSERT INTO store_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write meta %q: %w", key, err)
	}
	return nil
}
