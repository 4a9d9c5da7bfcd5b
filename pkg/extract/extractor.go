package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/praetorian-inc/ziptext/pkg/enum"
	"github.com/praetorian-inc/ziptext/pkg/sink"
	"github.com/praetorian-inc/ziptext/pkg/types"
)

// Extractor runs one archive-to-CSV conversion.
type Extractor struct {
	cfg      Config
	filter   *Filter
	decoders decoderSet
	logger   *slog.Logger
	observe  func(types.EntryResult)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger for progress and diagnostics. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers fn to be called with each entry result as it is produced.
func WithObserver(fn func(types.EntryResult)) Option {
	return func(e *Extractor) {
		e.observe = fn
	}
}

// WithDecoder overrides the decoder used for text members.
func WithDecoder(d Decoder) Option {
	return func(e *Extractor) {
		e.decoders.text = d
	}
}

// New validates cfg and returns an Extractor.
func New(cfg Config, opts ...Option) (*Extractor, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	text, err := NewTextDecoder(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		cfg:      cfg,
		filter:   NewFilter(cfg),
		decoders: decoderSet{text: text, pdf: PDFDecoder{}, office: OfficeDecoder{}},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the effective configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Run performs the conversion. Per-entry problems are reported in the
// summary; the returned error is set only for fatal faults (see ErrOpenArchive,
// ErrCreateOutput) or cancellation, in which case the output path is untouched.
func (e *Extractor) Run(ctx context.Context) (*types.Summary, error) {
	// The archive is opened first so a bad archive never produces an output file.
	archive, err := enum.Open(e.cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenArchive, err)
	}
	defer archive.Close()

	out, err := sink.Create(e.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCreateOutput, e.cfg.OutputPath, err)
	}
	defer out.Abort()

	summary := &types.Summary{
		ArchivePath: e.cfg.ArchivePath,
		OutputPath:  e.cfg.OutputPath,
	}

	err = archive.Enumerate(ctx, func(entry types.Entry) error {
		result, record := e.process(entry)

		if record != nil {
			if err := out.Write(*record); err != nil {
				return fmt.Errorf("%w %s: %w", ErrCreateOutput, e.cfg.OutputPath, err)
			}
		}

		summary.Add(result)
		if e.observe != nil {
			e.observe(result)
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("extracting %s: %w", e.cfg.ArchivePath, err)
	}

	if err := out.Commit(); err != nil {
		return summary, fmt.Errorf("%w %s: %w", ErrCreateOutput, e.cfg.OutputPath, err)
	}

	e.logger.Info("extraction complete",
		"archive", e.cfg.ArchivePath,
		"output", e.cfg.OutputPath,
		"entries", summary.Entries,
		"rows", out.Rows(),
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	return summary, nil
}

// process classifies one entry and, when eligible, reads and decodes it.
// A nil record means no row is written for the entry.
func (e *Extractor) process(entry types.Entry) (types.EntryResult, *types.Record) {
	result := types.EntryResult{
		Name: entry.Name,
		Size: entry.Size,
	}
	sizeKB := fmt.Sprintf("%.2f", entry.SizeKB())

	if skip := e.filter.Skip(entry); skip != "" {
		result.Status = skip
		switch skip {
		case types.StatusSkippedSize:
			result.Reason = fmt.Sprintf("size %s KB is not above %g KB", sizeKB, e.cfg.MinSizeKB)
			e.logger.Info("skipping entry below size threshold", "entry", entry.Name, "size_kb", sizeKB)
		default:
			e.logger.Debug("skipping entry", "entry", entry.Name, "reason", string(skip))
		}
		return result, nil
	}

	e.logger.Info("extracting content", "entry", entry.Name, "size_kb", sizeKB)

	data, err := readEntry(entry)
	if err != nil {
		return e.fail(result, err), nil
	}
	result.ContentID = types.ComputeContentID(data)

	text, err := e.decoders.forName(entry.Name).Decode(entry.Name, data)
	if err != nil {
		return e.fail(result, err), nil
	}

	result.Status = types.StatusExtracted
	result.DocumentName = entry.BaseName()
	result.TextLength = len(text)

	return result, &types.Record{
		DocumentName: result.DocumentName,
		TextContent:  text,
	}
}

func (e *Extractor) fail(result types.EntryResult, err error) types.EntryResult {
	result.Status = types.StatusFailed
	result.Reason = err.Error()
	e.logger.Warn("could not read entry", "entry", result.Name, "error", err)
	return result
}

func readEntry(entry types.Entry) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	return data, nil
}

// Run is a convenience wrapper around New and Extractor.Run.
func Run(ctx context.Context, cfg Config, opts ...Option) (*types.Summary, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
