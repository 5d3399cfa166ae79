// Package db owns the schema and writes for the sqlite report format.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init opens (creating if needed) the report database at path and applies
// migrations. The file is self-contained: rollback journal, no WAL sidecars,
// so it can be renamed into place once closed.
func Init(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(DELETE)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer keeps the report file consistent.
	db.SetMaxOpenConns(1)

	if err := verifyJournalMode(db, "delete"); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: runs, summaries, failures
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS runs (
		  id            TEXT PRIMARY KEY,
		  created_at    INTEGER NOT NULL,
		  locale        TEXT NOT NULL,
		  subject_count INTEGER NOT NULL,
		  failed_count  INTEGER NOT NULL,
		  elapsed_ms    INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS subject_summaries (
		  run_id          TEXT NOT NULL REFERENCES runs(id),
		  position        INTEGER NOT NULL,
		  subject_id      TEXT NOT NULL,
		  total_hours     REAL NOT NULL,
		  sleep_hours     REAL NOT NULL,
		  vigorous_hours  REAL NOT NULL,
		  moderate_hours  REAL NOT NULL,
		  light_hours     REAL NOT NULL,
		  sedentary_hours REAL NOT NULL,
		  PRIMARY KEY (run_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_subject_summaries_subject
		ON subject_summaries(subject_id);

		CREATE TABLE IF NOT EXISTS subject_failures (
		  run_id     TEXT NOT NULL REFERENCES runs(id),
		  subject_id TEXT NOT NULL,
		  code       TEXT NOT NULL,
		  message    TEXT NOT NULL
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

func verifyJournalMode(db *sql.DB, want string) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != want {
		return fmt.Errorf("expected %s journal mode, got %s", want, journalMode)
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
