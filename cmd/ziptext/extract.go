package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/ziptext/internal/config"
	"github.com/praetorian-inc/ziptext/pkg/extract"
	"github.com/praetorian-inc/ziptext/pkg/store"
	"github.com/praetorian-inc/ziptext/pkg/types"
)

var (
	extractMinSizeKB  float64
	extractExtensions []string
	extractExclude    []string
	extractEncoding   string
	extractLedger     string
	extractFormat     string
	extractColor      string
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive> <output.csv>",
	Short: "Extract text members of an archive into a CSV file",
	Long: `Extract every archive member whose name ends in an allowed extension and whose
size is strictly greater than --min-size-kb, writing one (Document_Name,
Text_Content) row per member. Document_Name is the member's base file name.

Members that cannot be read or decoded are logged and skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	registerExtractFlags(extractCmd)
}

func registerExtractFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&extractMinSizeKB, "min-size-kb", extract.DefaultMinSizeKB, "Only extract members strictly larger than this many KB")
	cmd.Flags().StringSliceVar(&extractExtensions, "ext", extract.DefaultExtensions(), "Allowed file name suffixes (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&extractExclude, "exclude", nil, "Gitignore-style patterns of members to leave out")
	cmd.Flags().StringVar(&extractEncoding, "encoding", extract.DefaultEncoding, "Text encoding of archive members (IANA name)")
	cmd.Flags().StringVar(&extractLedger, "ledger", "", "Record the run in this SQLite ledger")
	cmd.Flags().StringVar(&extractFormat, "format", "human", "Summary format: human, json")
	cmd.Flags().StringVar(&extractColor, "color", "auto", "Color mode: auto, always, never")
}

func runExtract(cmd *cobra.Command, args []string) error {
	archivePath, outputPath := args[0], args[1]

	if extractFormat != "human" && extractFormat != "json" {
		return fmt.Errorf("unknown format: %s (use human or json)", extractFormat)
	}

	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(fileCfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := extractConfig(cmd, fileCfg, archivePath, outputPath)
	opts := []extract.Option{extract.WithLogger(logger)}

	ledgerPath := extractLedger
	if ledgerPath == "" {
		ledgerPath = fileCfg.Ledger
	}

	var rec *store.Recorder
	if ledgerPath != "" {
		s, err := store.New(store.Config{Path: ledgerPath})
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}
		defer s.Close()

		rec, err = store.StartRun(s, types.Run{
			ArchivePath: cfg.ArchivePath,
			OutputPath:  cfg.OutputPath,
			MinSizeKB:   cfg.MinSizeKB,
			Extensions:  cfg.AllowedExtensions,
		})
		if err != nil {
			return err
		}
		opts = append(opts, extract.WithObserver(rec.Observe))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := extract.Run(ctx, cfg, opts...)
	if err != nil {
		logger.Error("extraction failed", "archive", archivePath, "error", err)
		return err
	}

	if rec != nil {
		if err := rec.Finish(summary.Counts); err != nil {
			// The CSV is already in place; a ledger fault does not undo it.
			logger.Warn("could not record run", "ledger", ledgerPath, "error", err)
		} else {
			logger.Debug("run recorded", "ledger", ledgerPath, "run_id", rec.RunID())
		}
	}

	if extractFormat == "json" {
		return outputSummaryJSON(cmd.OutOrStdout(), summary, rec)
	}
	out := cmd.OutOrStdout()
	outputSummaryHuman(out, summary, rec, newStyles(colorEnabled(extractColor, out)))
	return nil
}

// extractConfig merges the config file with explicitly set flags.
func extractConfig(cmd *cobra.Command, fileCfg *config.File, archivePath, outputPath string) extract.Config {
	cfg := fileCfg.ExtractConfig(archivePath, outputPath)

	flags := cmd.Flags()
	if flags.Changed("min-size-kb") {
		cfg.MinSizeKB = extractMinSizeKB
	}
	if flags.Changed("ext") {
		cfg.AllowedExtensions = extractExtensions
	}
	if flags.Changed("exclude") {
		cfg.Exclude = extractExclude
	}
	if flags.Changed("encoding") {
		cfg.Encoding = extractEncoding
	}
	return cfg
}

type summaryJSON struct {
	RunID string `json:"run_id,omitempty"`
	*types.Summary
}

func outputSummaryJSON(w io.Writer, summary *types.Summary, rec *store.Recorder) error {
	doc := summaryJSON{Summary: summary}
	if rec != nil {
		doc.RunID = rec.RunID()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func outputSummaryHuman(w io.Writer, summary *types.Summary, rec *store.Recorder, s *styles) {
	fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Archive:"), s.path.Sprint(summary.ArchivePath))
	fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Output:"), s.path.Sprint(summary.OutputPath))
	if rec != nil {
		fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Run:"), s.id.Sprint(rec.RunID()))
	}
	fmt.Fprintf(w, "\n%d entries: %s, %s, %s\n",
		summary.Entries,
		s.extracted.Sprintf("%d extracted", summary.Extracted),
		s.skipped.Sprintf("%d skipped", summary.Skipped),
		s.failed.Sprintf("%d failed", summary.Failed))

	failures := summary.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", s.heading.Sprint("Failed entries:"))
	for _, r := range failures {
		fmt.Fprintf(w, "  %s: %s\n", r.Name, r.Reason)
	}
}
