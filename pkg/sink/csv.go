// Package sink writes extraction records to a CSV file.
//
// Output goes to a temporary file beside the destination and is renamed into
// place on Commit, so a failed run never leaves a half-written CSV behind.
// Symlinked destinations are resolved first and the link itself is kept.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// CSV is an output sink holding a header row followed by zero or more records.
type CSV struct {
	path   string
	dest   string
	tmp    *os.File
	writer *csv.Writer
	rows   int
	done   bool

	// copyBack is set when the destination directory is not writable; Commit
	// then copies into the existing file instead of renaming over it.
	copyBack bool
}

// Create opens a sink for path and writes the header row.
// The destination directory must already exist. When path is a symlink the
// file it points to is written; an existing file keeps its permissions.
func Create(path string) (*CSV, error) {
	dest, info, err := resolve(path)
	if err != nil {
		return nil, err
	}

	s := &CSV{path: path, dest: dest}

	s.tmp, err = createTemp(filepath.Dir(dest), filepath.Base(dest))
	if err != nil {
		if info == nil {
			return nil, err
		}
		// The file exists but its directory refuses new entries.
		f, werr := os.OpenFile(dest, os.O_WRONLY, 0)
		if werr != nil {
			return nil, err
		}
		f.Close()
		if s.tmp, err = os.CreateTemp("", "ziptext-*.csv.tmp"); err != nil {
			return nil, fmt.Errorf("creating temp output: %w", err)
		}
		s.copyBack = true
	}

	if info != nil && !s.copyBack {
		if err := s.tmp.Chmod(info.Mode().Perm()); err != nil {
			s.discard()
			return nil, fmt.Errorf("setting output mode: %w", err)
		}
	}

	s.writer = csv.NewWriter(s.tmp)
	if err := s.writer.Write(types.Header); err != nil {
		s.Abort()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	return s, nil
}

// resolve follows symlinks from path to the file that will be written.
// info is nil when that file does not exist yet.
func resolve(path string) (string, os.FileInfo, error) {
	const maxLinks = 40

	p := path
	for range maxLinks {
		info, err := os.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil, nil
		}
		if err != nil {
			return "", nil, fmt.Errorf("inspecting output: %w", err)
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return "", nil, fmt.Errorf("reading output link: %w", err)
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(p), target)
			}
			p = target
		case info.IsDir():
			return "", nil, fmt.Errorf("output %s is a directory", path)
		default:
			return p, info, nil
		}
	}
	return "", nil, fmt.Errorf("output %s: too many levels of symbolic links", path)
}

// createTemp creates a hidden temp file in dir. Unlike os.CreateTemp it asks
// for 0666, so the umask decides the final permissions of a new output.
func createTemp(dir, base string) (*os.File, error) {
	name := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return nil, fmt.Errorf("creating temp output in %s: %w", dir, err)
	}
	return f, nil
}

// Path returns the destination path.
func (s *CSV) Path() string {
	return s.path
}

// Rows returns the number of records written, excluding the header.
func (s *CSV) Rows() int {
	return s.rows
}

// Write appends one record.
func (s *CSV) Write(r types.Record) error {
	if s.done {
		return errors.New("sink already closed")
	}
	if err := s.writer.Write(r.Row()); err != nil {
		return fmt.Errorf("writing row for %s: %w", r.DocumentName, err)
	}
	s.rows++
	return nil
}

// Commit flushes the output and moves it over the destination path.
func (s *CSV) Commit() error {
	if s.done {
		return errors.New("sink already closed")
	}
	s.done = true

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.discard()
		return fmt.Errorf("flushing csv: %w", err)
	}
	if s.copyBack {
		err := s.copyInto()
		s.discard()
		return err
	}

	if err := s.tmp.Close(); err != nil {
		os.Remove(s.tmp.Name())
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(s.tmp.Name(), s.dest); err != nil {
		os.Remove(s.tmp.Name())
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}

// copyInto overwrites the existing destination with the temp file's contents.
func (s *CSV) copyInto() error {
	if _, err := s.tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding output: %w", err)
	}

	out, err := os.OpenFile(s.dest, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	if _, err := io.Copy(out, s.tmp); err != nil {
		out.Close()
		return fmt.Errorf("copying output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// Abort discards the output. It is a no-op after Commit, so it is safe to defer.
func (s *CSV) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.discard()
}

func (s *CSV) discard() error {
	s.tmp.Close()
	if err := os.Remove(s.tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temp output: %w", err)
	}
	return nil
}
