// Package testutil builds archive fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// File is one member of a fixture archive. Members whose name ends in "/"
// are written as directories.
type File struct {
	Name    string
	Content []byte
}

// WriteZip writes files, in order, to a new ZIP archive at dir/name and returns its path.
func WriteZip(t testing.TB, dir, name string, files ...File) string {
	t.Helper()

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, f := range files {
		if strings.HasSuffix(f.Name, "/") {
			_, err := zw.Create(f.Name)
			require.NoError(t, err)
			continue
		}
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

// Text returns n bytes of valid, line-broken ASCII text.
func Text(n int) []byte {
	const line = "The quick brown fox jumps over the lazy dog, again.\n"
	var buf bytes.Buffer
	for buf.Len() < n {
		buf.WriteString(line)
	}
	return buf.Bytes()[:n]
}

// InvalidUTF8 returns n bytes of text with an invalid UTF-8 byte at offset.
func InvalidUTF8(n, offset int) []byte {
	b := Text(n)
	b[offset] = 0xff
	return b
}
