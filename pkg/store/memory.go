package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
// Nothing survives Close; it backs ":memory:" ledgers and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]*types.Run
	order   []string                       // run IDs in insertion order
	results map[string][]types.EntryResult // keyed by run ID
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*types.Run),
		results: make(map[string][]types.EntryResult),
	}
}

// AddRun records the start of a run.
func (m *MemoryStore) AddRun(run *types.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("inserting run: duplicate id %s", run.ID)
	}

	m.runs[run.ID] = cloneRun(run)
	m.order = append(m.order, run.ID)
	return nil
}

// AddResult appends an entry result to a run.
func (m *MemoryStore) AddResult(runID string, r types.EntryResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[runID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}

	m.results[runID] = append(m.results[runID], r)
	return nil
}

// FinishRun records completion time and final counts.
func (m *MemoryStore) FinishRun(runID string, finishedAt time.Time, counts types.Counts) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, exists := m.runs[runID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}

	run.FinishedAt = finishedAt
	run.Counts = counts
	return nil
}

// GetRun retrieves a run by ID.
func (m *MemoryStore) GetRun(runID string) (*types.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, exists := m.runs[runID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}

	return cloneRun(run), nil
}

// LatestRun retrieves the most recently started run.
func (m *MemoryStore) LatestRun() (*types.Run, error) {
	runs, err := m.ListRuns()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return runs[0], nil
}

// ListRuns retrieves all runs, most recent first.
func (m *MemoryStore) ListRuns() ([]*types.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*types.Run, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		runs = append(runs, cloneRun(m.runs[m.order[i]]))
	}

	// Later insertions win ties, matching the SQLite rowid ordering.
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// GetResults retrieves a run's entry results in insertion order.
func (m *MemoryStore) GetResults(runID string) ([]types.EntryResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to avoid external modifications
	src := m.results[runID]
	out := make([]types.EntryResult, len(src))
	copy(out, src)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// cloneRun copies run so callers never share its Extensions slice with the store.
func cloneRun(run *types.Run) *types.Run {
	cp := *run
	cp.Extensions = append([]string(nil), run.Extensions...)
	return &cp
}
