package enum

import (
	"context"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// SevenZipEnumerator enumerates members of a 7z archive.
type SevenZipEnumerator struct {
	path   string
	reader *sevenzip.ReadCloser
}

// OpenSevenZip opens a 7z archive for enumeration.
func OpenSevenZip(path string) (*SevenZipEnumerator, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening 7z %s: %w", path, err)
	}
	return &SevenZipEnumerator{path: path, reader: r}, nil
}

// Enumerate yields members in header order.
// Solid 7z archives decompress sequentially, so reading members in this order is cheapest.
func (s *SevenZipEnumerator) Enumerate(ctx context.Context, fn func(types.Entry) error) error {
	for _, file := range s.reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := file
		entry := types.Entry{
			Name:  f.Name,
			Size:  int64(f.UncompressedSize),
			IsDir: f.FileInfo().IsDir(),
			Open: func() (io.ReadCloser, error) {
				return f.Open()
			},
		}

		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the archive.
func (s *SevenZipEnumerator) Close() error {
	return s.reader.Close()
}
