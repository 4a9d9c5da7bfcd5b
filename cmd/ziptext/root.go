package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/ziptext/internal/config"
	"github.com/praetorian-inc/ziptext/internal/logging"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "ziptext",
	Short: "ziptext - extract text documents from archives into CSV",
	Long: `ziptext reads a ZIP (or 7z) archive, keeps the text members that match the
configured extensions and are larger than a size threshold, and writes each one
as a (Document_Name, Text_Content) row of a CSV file.

Members that cannot be read or decoded are reported and skipped; only a missing
or invalid archive, or an unwritable output, fails the command.`,
	SilenceUsage: true,
}

func init() {
	registerGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

func registerGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig returns the config file named by --config, or the defaults.
func loadConfig() (*config.File, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Flags win over the config file;
// --verbose and --quiet win over both.
func newLogger(cfg *config.File, stderr io.Writer) (*slog.Logger, func() error, error) {
	logCfg := cfg.Log
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	if logFile != "" {
		logCfg.FilePath = logFile
	}
	switch {
	case verbose:
		logCfg.Level = "debug"
	case quiet:
		logCfg.Level = "error"
	}

	logger, cleanup, err := logging.New(logCfg, stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	return logger, cleanup, nil
}
