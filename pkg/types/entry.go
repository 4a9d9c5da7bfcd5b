package types

import (
	"io"
	"path"
	"strings"
)

// Entry is a single member of an archive.
type Entry struct {
	// Name is the member path exactly as stored in the archive ("docs/readme.md").
	Name string

	// Size is the uncompressed size in bytes as recorded by the archive.
	Size int64

	// IsDir marks directory members.
	IsDir bool

	// Open returns a reader over the member's uncompressed bytes.
	Open func() (io.ReadCloser, error)
}

// SizeKB returns the size in kilobytes (bytes / 1024, fractional).
func (e Entry) SizeKB() float64 {
	return float64(e.Size) / 1024
}

// BaseName returns the last path component of the member name.
// Archive names always use forward slashes, so path (not filepath) is correct here.
func (e Entry) BaseName() string {
	return path.Base(strings.TrimSuffix(e.Name, "/"))
}
