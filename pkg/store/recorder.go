package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// Recorder streams the results of one run into a Store.
type Recorder struct {
	store Store
	run   types.Run
	err   error
	now   func() time.Time
}

// StartRun assigns run an ID if it has none, stamps its start time, and records it.
func StartRun(s Store, run types.Run) (*Recorder, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	if err := s.AddRun(&run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	return &Recorder{store: s, run: run, now: time.Now}, nil
}

// RunID returns the ID of the run being recorded.
func (r *Recorder) RunID() string {
	return r.run.ID
}

// Observe records one entry result. It matches the extract.WithObserver signature;
// the first failure is kept and reported by Err and Finish.
func (r *Recorder) Observe(res types.EntryResult) {
	if r.err != nil {
		return
	}
	if err := r.store.AddResult(r.run.ID, res); err != nil {
		r.err = err
	}
}

// Err returns the first error seen by Observe.
func (r *Recorder) Err() error {
	return r.err
}

// Finish marks the run complete with the final counts.
func (r *Recorder) Finish(counts types.Counts) error {
	if err := r.store.FinishRun(r.run.ID, r.now(), counts); err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if r.err != nil {
		return fmt.Errorf("recording results: %w", r.err)
	}
	return nil
}
