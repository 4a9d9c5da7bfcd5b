package enum

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// Enumerator yields the members of an archive.
type Enumerator interface {
	// Enumerate calls fn once per member, in the order the archive stores them.
	// Returning an error from fn stops enumeration and returns that error.
	Enumerate(ctx context.Context, fn func(types.Entry) error) error

	// Close releases the underlying file handle.
	Close() error
}

// Format identifies an archive container format.
type Format string

const (
	FormatZip      Format = "zip"
	FormatSevenZip Format = "7z"
)

var sevenZipMagic = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}

// DetectFormat sniffs the leading bytes of the file at path.
// Anything that is not 7z is treated as zip; the zip reader rejects non-archives.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, len(sevenZipMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	if n == len(sevenZipMagic) && bytes.Equal(head, sevenZipMagic) {
		return FormatSevenZip, nil
	}
	return FormatZip, nil
}

// Open opens the archive at path with the enumerator matching its format.
func Open(path string) (Enumerator, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatSevenZip:
		return OpenSevenZip(path)
	case FormatZip:
		return OpenZip(path)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", format)
	}
}

// Collect drains an enumerator into a slice. Intended for tests and small archives.
func Collect(ctx context.Context, e Enumerator) ([]types.Entry, error) {
	var entries []types.Entry
	err := e.Enumerate(ctx, func(entry types.Entry) error {
		entries = append(entries, entry)
		return nil
	})
	return entries, err
}
