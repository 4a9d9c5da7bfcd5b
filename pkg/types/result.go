package types

import (
	"fmt"
	"time"
)

// Status is the outcome of processing one archive entry.
type Status string

const (
	StatusExtracted        Status = "extracted"
	StatusSkippedExtension Status = "skipped_extension"
	StatusSkippedSize      Status = "skipped_size"
	StatusSkippedExcluded  Status = "skipped_excluded"
	StatusSkippedDirectory Status = "skipped_directory"
	StatusFailed           Status = "failed"
)

// IsSkip reports whether the status is an expected skip rather than a failure.
func (s Status) IsSkip() bool {
	switch s {
	case StatusSkippedExtension, StatusSkippedSize, StatusSkippedExcluded, StatusSkippedDirectory:
		return true
	}
	return false
}

// ParseStatus converts a stored status string back into a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusExtracted, StatusSkippedExtension, StatusSkippedSize,
		StatusSkippedExcluded, StatusSkippedDirectory, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown entry status: %q", s)
}

// EntryResult records what happened to one archive entry.
// Text content is intentionally absent; rows are written and dropped.
type EntryResult struct {
	Name         string    `json:"name"`
	DocumentName string    `json:"document_name,omitempty"`
	Size         int64     `json:"size"`
	Status       Status    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	ContentID    ContentID `json:"content_id,omitzero"`
	TextLength   int       `json:"text_length,omitempty"`
}

// SizeKB returns the entry size in kilobytes.
func (r EntryResult) SizeKB() float64 {
	return float64(r.Size) / 1024
}

// Counts tallies entry results by status.
type Counts struct {
	Entries   int `json:"entries"`
	Extracted int `json:"extracted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Add tallies one status.
func (c *Counts) Add(s Status) {
	c.Entries++
	switch {
	case s == StatusExtracted:
		c.Extracted++
	case s == StatusFailed:
		c.Failed++
	case s.IsSkip():
		c.Skipped++
	}
}

// Summary is the aggregate outcome of one extraction run.
type Summary struct {
	Counts
	ArchivePath string        `json:"archive_path"`
	OutputPath  string        `json:"output_path"`
	Results     []EntryResult `json:"results"`
}

// Add appends a result and updates the counts.
func (s *Summary) Add(r EntryResult) {
	s.Results = append(s.Results, r)
	s.Counts.Add(r.Status)
}

// Failures returns the results whose status is StatusFailed.
func (s *Summary) Failures() []EntryResult {
	var out []EntryResult
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// Run is a persisted record of one extraction run.
type Run struct {
	ID          string    `json:"id"`
	ArchivePath string    `json:"archive_path"`
	OutputPath  string    `json:"output_path"`
	MinSizeKB   float64   `json:"min_size_kb"`
	Extensions  []string  `json:"extensions"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at,omitzero"`
	Counts      Counts    `json:"counts"`
}

// Finished reports whether FinishRun was recorded for this run.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}
