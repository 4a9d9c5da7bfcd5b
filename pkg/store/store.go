// Package store persists extraction runs and their per-entry results.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// MemoryPath selects the in-memory store.
const MemoryPath = ":memory:"

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Store is a ledger of extraction runs.
// This interface abstracts the backend so the CLI can run with or without a database file.
type Store interface {
	// AddRun records the start of a run. The run ID must be unique.
	AddRun(run *types.Run) error

	// AddResult appends an entry result to a run, preserving insertion order.
	AddResult(runID string, r types.EntryResult) error

	// FinishRun records completion time and final counts.
	FinishRun(runID string, finishedAt time.Time, counts types.Counts) error

	// GetRun retrieves a run by ID.
	GetRun(runID string) (*types.Run, error)

	// LatestRun retrieves the most recently started run.
	LatestRun() (*types.Run, error)

	// ListRuns retrieves all runs, most recent first.
	ListRuns() ([]*types.Run, error)

	// GetResults retrieves a run's entry results in archive order.
	GetResults(runID string) ([]types.EntryResult, error)

	// Close releases the backend.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a non-persistent store (useful for testing).
	Path string
}

// New creates a Store: MemoryStore for ":memory:", SQLite otherwise.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == MemoryPath {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}
