package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/ziptext/pkg/store"
	"github.com/praetorian-inc/ziptext/pkg/types"
)

var (
	reportLedger string
	reportRunID  string
	reportList   bool
	reportFormat string
	reportColor  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recorded extraction runs",
	Long:  "Display the per-entry results of a run stored in a ledger (the latest run by default)",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	registerReportFlags(reportCmd)
}

func registerReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&reportLedger, "ledger", "", "Path to ledger database")
	cmd.Flags().StringVar(&reportRunID, "run", "", "Run ID to show (default: latest)")
	cmd.Flags().BoolVar(&reportList, "list", false, "List all runs instead of one run's entries")
	cmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	cmd.Flags().StringVar(&reportColor, "color", "auto", "Color mode: auto, always, never")
}

// runReport is the RunE handler; separated for testing.
func runReport(cmd *cobra.Command, args []string) error {
	if reportFormat != "human" && reportFormat != "json" {
		return fmt.Errorf("unknown format: %s (use human or json)", reportFormat)
	}

	ledgerPath := reportLedger
	if ledgerPath == "" {
		fileCfg, err := loadConfig()
		if err != nil {
			return err
		}
		ledgerPath = fileCfg.Ledger
	}
	if ledgerPath == "" {
		return fmt.Errorf("no ledger given (use --ledger or set ledger in the config file)")
	}
	// store.New would create an empty database; a typo should be an error instead.
	if _, err := os.Stat(ledgerPath); err != nil {
		return fmt.Errorf("ledger not found: %s", ledgerPath)
	}

	s, err := store.New(store.Config{Path: ledgerPath})
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	st := newStyles(colorEnabled(reportColor, out))

	if reportList {
		runs, err := s.ListRuns()
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if reportFormat == "json" {
			return writeJSON(out, runs)
		}
		outputRunsHuman(out, runs, st)
		return nil
	}

	run, err := loadRun(s, reportRunID)
	if err != nil {
		return err
	}
	results, err := s.GetResults(run.ID)
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}

	if reportFormat == "json" {
		return writeJSON(out, runReportJSON{Run: run, Results: results})
	}
	outputRunHuman(out, run, results, st)
	return nil
}

func loadRun(s store.Store, id string) (*types.Run, error) {
	var (
		run *types.Run
		err error
	)
	if id == "" {
		run, err = s.LatestRun()
	} else {
		run, err = s.GetRun(id)
	}

	if errors.Is(err, store.ErrNotFound) {
		if id == "" {
			return nil, fmt.Errorf("ledger has no runs")
		}
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	return run, nil
}

type runReportJSON struct {
	Run     *types.Run          `json:"run"`
	Results []types.EntryResult `json:"results"`
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputRunHuman(w io.Writer, run *types.Run, results []types.EntryResult, s *styles) {
	fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Run"), s.id.Sprint(run.ID))
	fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Archive:"), s.path.Sprint(run.ArchivePath))
	fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Output:"), s.path.Sprint(run.OutputPath))
	fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Started:"), run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if !run.Finished() {
		fmt.Fprintf(w, "%s %s\n", s.heading.Sprint("Status:"), s.failed.Sprint("incomplete"))
	}
	fmt.Fprintln(w)

	for _, r := range results {
		line := fmt.Sprintf("  %-18s %s (%.2f KB)", string(r.Status), r.Name, r.SizeKB())
		if r.Reason != "" {
			line += ": " + r.Reason
		}
		fmt.Fprintln(w, s.status(r.Status).Sprint(line))
	}

	c := run.Counts
	fmt.Fprintf(w, "\n%d entries: %s, %s, %s\n",
		c.Entries,
		s.extracted.Sprintf("%d extracted", c.Extracted),
		s.skipped.Sprintf("%d skipped", c.Skipped),
		s.failed.Sprintf("%d failed", c.Failed))
}

func outputRunsHuman(w io.Writer, runs []*types.Run, s *styles) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  %s -> %s  (%d extracted, %d skipped, %d failed)\n",
			s.id.Sprint(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.path.Sprint(run.ArchivePath),
			s.path.Sprint(run.OutputPath),
			run.Counts.Extracted, run.Counts.Skipped, run.Counts.Failed)
	}
}
