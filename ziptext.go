// Package ziptext converts the text documents inside an archive into a CSV file.
//
// Each archive member whose name ends in an allowed extension (".txt" and ".md"
// by default) and whose size is strictly greater than a threshold (50 KB by
// default) is decoded as UTF-8 and written as one row of a two-column CSV:
// Document_Name (the member's base file name) and Text_Content.
//
// # Basic Usage
//
//	summary, err := ziptext.Extract(ctx, "documents.zip", "extracted_data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d extracted, %d skipped, %d failed\n",
//	    summary.Extracted, summary.Skipped, summary.Failed)
//
// # Failure Handling
//
// Members that cannot be read or decoded are logged, recorded in the summary
// with StatusFailed, and skipped. Only two faults stop a run: the archive cannot
// be opened (ErrOpenArchive) or the output cannot be written (ErrCreateOutput).
//
//	_, err := ziptext.Extract(ctx, path, out, ziptext.WithMinSizeKB(10))
//	if errors.Is(err, ziptext.ErrOpenArchive) {
//	    // not a readable archive
//	}
package ziptext

import (
	"context"
	"log/slog"

	"github.com/praetorian-inc/ziptext/pkg/extract"
	"github.com/praetorian-inc/ziptext/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/ziptext" without subpackages.
type (
	// Summary is the aggregate outcome of one extraction run.
	Summary = types.Summary

	// EntryResult records what happened to one archive member.
	EntryResult = types.EntryResult

	// Record is one CSV row.
	Record = types.Record

	// Status is the outcome of processing one archive member.
	Status = types.Status
)

// Re-export entry status constants.
const (
	StatusExtracted        = types.StatusExtracted
	StatusSkippedExtension = types.StatusSkippedExtension
	StatusSkippedSize      = types.StatusSkippedSize
	StatusSkippedExcluded  = types.StatusSkippedExcluded
	StatusSkippedDirectory = types.StatusSkippedDirectory
	StatusFailed           = types.StatusFailed
)

// Fatal errors; test with errors.Is.
var (
	ErrOpenArchive  = extract.ErrOpenArchive
	ErrCreateOutput = extract.ErrCreateOutput
)

// extractConfig holds Extract settings.
type extractConfig struct {
	cfg     extract.Config
	logger  *slog.Logger
	observe func(EntryResult)
}

// Option configures Extract.
type Option func(*extractConfig)

// WithMinSizeKB sets the size threshold. Only members strictly larger than kb
// kilobytes (bytes/1024) are extracted. Default is 50.
func WithMinSizeKB(kb float64) Option {
	return func(c *extractConfig) {
		c.cfg.MinSizeKB = kb
	}
}

// WithExtensions replaces the allowed name suffixes. Matching is case-sensitive.
func WithExtensions(exts ...string) Option {
	return func(c *extractConfig) {
		c.cfg.AllowedExtensions = exts
	}
}

// WithExclude adds gitignore-style patterns of members to leave out.
func WithExclude(patterns ...string) Option {
	return func(c *extractConfig) {
		c.cfg.Exclude = append(c.cfg.Exclude, patterns...)
	}
}

// WithEncoding sets the text encoding of archive members by IANA name.
// Default is "utf-8"; output is always UTF-8.
func WithEncoding(name string) Option {
	return func(c *extractConfig) {
		c.cfg.Encoding = name
	}
}

// WithLogger sets the logger for progress and diagnostics.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *extractConfig) {
		c.logger = l
	}
}

// WithObserver registers fn to receive each entry result as it is produced.
func WithObserver(fn func(EntryResult)) Option {
	return func(c *extractConfig) {
		c.observe = fn
	}
}

// Extract converts the archive at archivePath into a CSV file at outputPath.
// An existing output file is replaced only when the run succeeds.
func Extract(ctx context.Context, archivePath, outputPath string, opts ...Option) (*Summary, error) {
	c := &extractConfig{cfg: extract.DefaultConfig(archivePath, outputPath)}
	for _, opt := range opts {
		opt(c)
	}

	var extractOpts []extract.Option
	if c.logger != nil {
		extractOpts = append(extractOpts, extract.WithLogger(c.logger))
	}
	if c.observe != nil {
		extractOpts = append(extractOpts, extract.WithObserver(c.observe))
	}

	return extract.Run(ctx, c.cfg, extractOpts...)
}
