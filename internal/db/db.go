package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jack22dx/seed/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Init initializes the SQLite database at baseDir/seed.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.seed.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	exportsDir := filepath.Join(baseDir, "exports")
	if err := os.MkdirAll(exportsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}
	_ = os.Chmod(exportsDir, 0700)

	// Pragmas in the DSN apply to every pooled connection.
	dbPath := filepath.Join(baseDir, "seed.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// WithTx runs fn inside a transaction. fn's error (or a commit failure)
// rolls the transaction back and is returned unchanged.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS activities (
		  name_norm  TEXT PRIMARY KEY,
		  name       TEXT NOT NULL,
		  count      INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
		  monday     INTEGER NOT NULL DEFAULT 0,
		  tuesday    INTEGER NOT NULL DEFAULT 0,
		  wednesday  INTEGER NOT NULL DEFAULT 0,
		  thursday   INTEGER NOT NULL DEFAULT 0,
		  friday     INTEGER NOT NULL DEFAULT 0,
		  saturday   INTEGER NOT NULL DEFAULT 0,
		  sunday     INTEGER NOT NULL DEFAULT 0,
		  created_at INTEGER NOT NULL,
		  updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS garden_elements (
		  id            TEXT PRIMARY KEY,
		  activity_norm TEXT NOT NULL,
		  name_norm     TEXT NOT NULL,
		  pos_x         REAL NOT NULL DEFAULT 0,
		  pos_y         REAL NOT NULL DEFAULT 0,
		  scale         REAL NOT NULL DEFAULT 1,
		  is_visible    INTEGER NOT NULL DEFAULT 0,
		  unlocked_at   INTEGER
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_garden_elements_activity_name
		ON garden_elements(activity_norm, name_norm);

		CREATE TABLE IF NOT EXISTS oracle_prompts (
		  type  TEXT NOT NULL,
		  id    INTEGER NOT NULL,
		  level INTEGER NOT NULL,
		  seq   INTEGER NOT NULL,
		  text  TEXT NOT NULL,
		  PRIMARY KEY (type, id)
		);

		CREATE INDEX IF NOT EXISTS idx_oracle_prompts_order
		ON oracle_prompts(type, level, seq);

		CREATE TABLE IF NOT EXISTS oracle_answers (
		  id         TEXT PRIMARY KEY,
		  type       TEXT NOT NULL,
		  prompt_id  INTEGER NOT NULL,
		  tab        TEXT NOT NULL,
		  activity   TEXT NOT NULL,
		  level      INTEGER NOT NULL,
		  answer     TEXT NOT NULL,
		  created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_oracle_answers_type_created
		ON oracle_answers(type, created_at);

		CREATE TABLE IF NOT EXISTS oracle_facts (
		  type TEXT NOT NULL,
		  id   INTEGER NOT NULL,
		  text TEXT NOT NULL,
		  PRIMARY KEY (type, id)
		);

		CREATE TABLE IF NOT EXISTS oracle_tips (
		  type  TEXT NOT NULL,
		  level INTEGER NOT NULL,
		  seq   INTEGER NOT NULL,
		  text  TEXT NOT NULL,
		  PRIMARY KEY (type, level, seq)
		);

		CREATE TABLE IF NOT EXISTS meta (
		  key   TEXT PRIMARY KEY,
		  value TEXT NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
