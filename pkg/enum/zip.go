package enum

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// ZipEnumerator enumerates members of a ZIP archive.
type ZipEnumerator struct {
	path   string
	reader *zip.ReadCloser
}

// OpenZip opens a ZIP archive for enumeration.
func OpenZip(path string) (*ZipEnumerator, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip %s: %w", path, err)
	}
	return &ZipEnumerator{path: path, reader: r}, nil
}

// Enumerate yields members in central directory order.
func (z *ZipEnumerator) Enumerate(ctx context.Context, fn func(types.Entry) error) error {
	for _, file := range z.reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := file
		entry := types.Entry{
			Name:  f.Name,
			Size:  int64(f.UncompressedSize64),
			IsDir: f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"),
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
func (z *ZipEnumerator) Close() error {
	return z.reader.Close()
}
