package ziptext

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/ziptext/internal/testutil"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExtract_Defaults(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	archive := testutil.WriteZip(t, dir, "documents.zip",
		testutil.File{Name: "docs/readme.txt", Content: testutil.Text(60 * 1024)},
		testutil.File{Name: "notes.md", Content: testutil.Text(10 * 1024)},
		testutil.File{Name: "image.png", Content: testutil.Text(80 * 1024)},
	)
	output := filepath.Join(dir, "extracted_data.csv")

	// Act
	summary, err := Extract(context.Background(), archive, output, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Entries)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	rows := readRows(t, output)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Document_Name", "Text_Content"}, rows[0])
	assert.Equal(t, "readme.txt", rows[1][0])
}

func TestExtract_Options(t *testing.T) {
	dir := t.TempDir()
	archive := testutil.WriteZip(t, dir, "a.zip",
		testutil.File{Name: "drafts/old.md", Content: testutil.Text(2 * 1024)},
		testutil.File{Name: "notes.md", Content: testutil.Text(2 * 1024)},
		testutil.File{Name: "data.csv", Content: testutil.Text(2 * 1024)},
		testutil.File{Name: "small.md", Content: testutil.Text(512)},
		testutil.File{Name: "latin.txt", Content: append(testutil.Text(2*1024), 0xe9)},
	)
	output := filepath.Join(dir, "out.csv")

	var logs bytes.Buffer
	var seen []EntryResult
	summary, err := Extract(context.Background(), archive, output,
		WithMinSizeKB(1),
		WithExtensions(".md", ".csv", ".txt"),
		WithExclude("drafts/"),
		WithEncoding("latin1"),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithObserver(func(r EntryResult) { seen = append(seen, r) }),
	)
	require.NoError(t, err)

	require.Len(t, seen, 5)
	assert.Equal(t, StatusSkippedExcluded, seen[0].Status)
	assert.Equal(t, StatusExtracted, seen[1].Status)
	assert.Equal(t, StatusExtracted, seen[2].Status)
	assert.Equal(t, StatusSkippedSize, seen[3].Status)
	assert.Equal(t, StatusExtracted, seen[4].Status)
	assert.Equal(t, summary.Results, seen)

	rows := readRows(t, output)
	require.Len(t, rows, 4)
	assert.Equal(t, "notes.md", rows[1][0])
	assert.Equal(t, "data.csv", rows[2][0])
	assert.Equal(t, "latin.txt", rows[3][0])
	assert.Equal(t, "é", rows[3][1][len(rows[3][1])-2:])
	assert.Contains(t, logs.String(), "extraction complete")
}

func TestExtract_FatalErrors(t *testing.T) {
	dir := t.TempDir()
	archive := testutil.WriteZip(t, dir, "a.zip",
		testutil.File{Name: "big.txt", Content: testutil.Text(60 * 1024)},
	)
	quiet := WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	_, err := Extract(context.Background(), filepath.Join(dir, "missing.zip"), filepath.Join(dir, "out.csv"), quiet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpenArchive))
	assert.NoFileExists(t, filepath.Join(dir, "out.csv"))

	_, err = Extract(context.Background(), archive, filepath.Join(dir, "missing", "out.csv"), quiet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCreateOutput))
}

func TestExtract_FailedEntryIsSkipped(t *testing.T) {
	dir := t.TempDir()
	archive := testutil.WriteZip(t, dir, "a.zip",
		testutil.File{Name: "bad.txt", Content: testutil.InvalidUTF8(60*1024, 10)},
		testutil.File{Name: "good.txt", Content: testutil.Text(60 * 1024)},
	)
	output := filepath.Join(dir, "out.csv")

	summary, err := Extract(context.Background(), archive, output,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Extracted)
	failures := summary.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "bad.txt", failures[0].Name)

	rows := readRows(t, output)
	require.Len(t, rows, 2)
	assert.Equal(t, "good.txt", rows[1][0])
}
