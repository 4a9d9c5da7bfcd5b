package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/ziptext/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every Store implementation.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func sampleRun(id string, started time.Time) *types.Run {
	return &types.Run{
		ID:          id,
		ArchivePath: "/data/archive.zip",
		OutputPath:  "/data/out.csv",
		MinSizeKB:   50,
		Extensions:  []string{".txt", ".md"},
		StartedAt:   started,
	}
}

func TestNew(t *testing.T) {
	s, err := New(Config{Path: MemoryPath})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	require.NoError(t, s.Close())

	s, err = New(Config{Path: filepath.Join(t.TempDir(), "ledger.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = New(Config{Path: ""})
	assert.ErrorContains(t, err, "path is required")
}

func TestStore_RunLifecycle(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC)
	finished := started.Add(3 * time.Second)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			require.NoError(t, s.AddRun(sampleRun("run-1", started)))

			results := []types.EntryResult{
				{
					Name:         "docs/readme.md",
					DocumentName: "readme.md",
					Size:         60 * 1024,
					Status:       types.StatusExtracted,
					ContentID:    types.ComputeContentID([]byte("readme")),
					TextLength:   60 * 1024,
				},
				{Name: "notes.txt", Size: 10 * 1024, Status: types.StatusSkippedSize, Reason: "size 10.00 KB is not above 50 KB"},
				{Name: "img.png", Size: 200 * 1024, Status: types.StatusSkippedExtension},
			}

			// Act
			for _, r := range results {
				require.NoError(t, s.AddResult("run-1", r))
			}
			counts := types.Counts{Entries: 3, Extracted: 1, Skipped: 2}
			require.NoError(t, s.FinishRun("run-1", finished, counts))

			// Assert
			run, err := s.GetRun("run-1")
			require.NoError(t, err)
			assert.Equal(t, "/data/archive.zip", run.ArchivePath)
			assert.Equal(t, "/data/out.csv", run.OutputPath)
			assert.Equal(t, 50.0, run.MinSizeKB)
			assert.Equal(t, []string{".txt", ".md"}, run.Extensions)
			assert.True(t, started.Equal(run.StartedAt))
			assert.True(t, finished.Equal(run.FinishedAt))
			assert.True(t, run.Finished())
			assert.Equal(t, counts, run.Counts)

			got, err := s.GetResults("run-1")
			require.NoError(t, err)
			assert.Equal(t, results, got)
		})
	}
}

func TestStore_LatestAndList(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.LatestRun()
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.AddRun(sampleRun("older", base)))
			require.NoError(t, s.AddRun(sampleRun("newest", base.Add(2*time.Minute))))
			require.NoError(t, s.AddRun(sampleRun("middle", base.Add(time.Minute))))

			latest, err := s.LatestRun()
			require.NoError(t, err)
			assert.Equal(t, "newest", latest.ID)
			assert.False(t, latest.Finished())

			runs, err := s.ListRuns()
			require.NoError(t, err)
			require.Len(t, runs, 3)
			assert.Equal(t, "newest", runs[0].ID)
			assert.Equal(t, "middle", runs[1].ID)
			assert.Equal(t, "older", runs[2].ID)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetRun("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			err = s.FinishRun("missing", time.Now(), types.Counts{})
			assert.ErrorIs(t, err, ErrNotFound)

			results, err := s.GetResults("missing")
			require.NoError(t, err)
			assert.Empty(t, results)
		})
	}
}

func TestStore_DuplicateRun(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.AddRun(sampleRun("dup", time.Now())))
			assert.Error(t, s.AddRun(sampleRun("dup", time.Now())))
		})
	}
}

func TestStore_ReturnedRunsAreCopies(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.AddRun(sampleRun("run-1", time.Now())))

			got, err := s.GetRun("run-1")
			require.NoError(t, err)
			got.Extensions[0] = ".changed"

			listed, err := s.ListRuns()
			require.NoError(t, err)
			require.Len(t, listed, 1)
			assert.Equal(t, []string{".txt", ".md"}, listed[0].Extensions)
			listed[0].Extensions[1] = ".changed"

			again, err := s.GetRun("run-1")
			require.NoError(t, err)
			assert.Equal(t, []string{".txt", ".md"}, again.Extensions)
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AddRun(sampleRun("persisted", time.Now())))
	require.NoError(t, s.AddResult("persisted", types.EntryResult{Name: "a.txt", Status: types.StatusFailed, Reason: "boom"}))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	results, err := s.GetResults("persisted")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "boom", results[0].Reason)
	assert.True(t, results[0].ContentID.IsZero())
}
