package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current ledger schema version.
const SchemaVersion = 1

// CreateSchema creates the ledger schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createRunsTable(db); err != nil {
		return fmt.Errorf("creating runs table: %w", err)
	}

	if err := createEntriesTable(db); err != nil {
		return fmt.Errorf("creating entries table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	return nil
}

func createRunsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY NOT NULL,
			archive_path TEXT NOT NULL,
			output_path TEXT NOT NULL,
			min_size_kb REAL NOT NULL,
			extensions_json TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			entries INTEGER NOT NULL DEFAULT 0,
			extracted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

func createEntriesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			document_name TEXT,
			size INTEGER NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			content_id TEXT,
			text_length INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id)
	`)
	return err
}
