package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/praetorian-inc/ziptext/pkg/types"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite (pure Go driver, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddRun records the start of a run.
func (s *SQLiteStore) AddRun(run *types.Run) error {
	extJSON, err := json.Marshal(run.Extensions)
	if err != nil {
		return fmt.Errorf("marshaling extensions: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, archive_path, output_path, min_size_kb, extensions_json, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.ArchivePath,
		run.OutputPath,
		run.MinSizeKB,
		string(extJSON),
		formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	return nil
}

// AddResult appends an entry result to a run.
func (s *SQLiteStore) AddResult(runID string, r types.EntryResult) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (run_id, name, document_name, size, status, reason, content_id, text_length)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		r.Name,
		nullString(r.DocumentName),
		r.Size,
		string(r.Status),
		nullString(r.Reason),
		r.ContentID,
		r.TextLength,
	)
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", r.Name, err)
	}

	return nil
}

// FinishRun records completion time and final counts.
func (s *SQLiteStore) FinishRun(runID string, finishedAt time.Time, counts types.Counts) error {
	res, err := s.db.Exec(`
		UPDATE runs
		SET finished_at = ?, entries = ?, extracted = ?, skipped = ?, failed = ?
		WHERE id = ?
	`,
		formatTime(finishedAt),
		counts.Entries,
		counts.Extracted,
		counts.Skipped,
		counts.Failed,
		runID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}

	return nil
}

const runColumns = `id, archive_path, output_path, min_size_kb, extensions_json, started_at, finished_at, entries, extracted, skipped, failed`

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(runID string) (*types.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return run, err
}

// LatestRun retrieves the most recently started run.
func (s *SQLiteStore) LatestRun() (*types.Run, error) {
	row := s.db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// ListRuns retrieves all runs, most recent first.
func (s *SQLiteStore) ListRuns() ([]*types.Run, error) {
	rows, err := s.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// GetResults retrieves a run's entry results in insertion order.
func (s *SQLiteStore) GetResults(runID string) ([]types.EntryResult, error) {
	rows, err := s.db.Query(`
		SELECT name, document_name, size, status, reason, content_id, text_length
		FROM entries
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var results []types.EntryResult
	for rows.Next() {
		var r types.EntryResult
		var documentName, reason sql.NullString
		var status string

		err := rows.Scan(
			&r.Name,
			&documentName,
			&r.Size,
			&status,
			&reason,
			&r.ContentID,
			&r.TextLength,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		r.Status, err = types.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		r.DocumentName = documentName.String
		r.Reason = reason.String

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return results, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*types.Run, error) {
	var run types.Run
	var extJSON, startedAt string
	var finishedAt sql.NullString

	err := row.Scan(
		&run.ID,
		&run.ArchivePath,
		&run.OutputPath,
		&run.MinSizeKB,
		&extJSON,
		&startedAt,
		&finishedAt,
		&run.Counts.Entries,
		&run.Counts.Extracted,
		&run.Counts.Skipped,
		&run.Counts.Failed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if err := json.Unmarshal([]byte(extJSON), &run.Extensions); err != nil {
		return nil, fmt.Errorf("unmarshaling extensions: %w", err)
	}

	run.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if finishedAt.Valid {
		run.FinishedAt, err = time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
	}

	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
