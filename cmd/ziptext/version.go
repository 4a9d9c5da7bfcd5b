package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=..." for release builds.
var (
	version = "dev"
	commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

// buildInfo is what the version command reports.
type buildInfo struct {
	Version  string
	Commit   string
	Modified bool
	Module   string
	Go       string
}

// readBuildInfo fills in anything not set at link time from the binary's
// embedded module and VCS metadata.
func readBuildInfo() buildInfo {
	bi := buildInfo{
		Version: version,
		Commit:  commit,
		Go:      runtime.Version(),
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}

	bi.Module = info.Main.Path
	if bi.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		bi.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "" {
				bi.Commit = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	return bi
}

func runVersion(cmd *cobra.Command, args []string) error {
	bi := readBuildInfo()
	out := cmd.OutOrStdout()

	commitLine := bi.Commit
	if commitLine == "" {
		commitLine = "unknown"
	} else if bi.Modified {
		commitLine += " (modified)"
	}

	fmt.Fprintf(out, "ziptext %s\n", bi.Version)
	if bi.Module != "" {
		fmt.Fprintf(out, "Module: %s\n", bi.Module)
	}
	fmt.Fprintf(out, "Commit: %s\n", commitLine)
	fmt.Fprintf(out, "Go version: %s\n", bi.Go)
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
