package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// styles holds color formatters for human-readable output.
type styles struct {
	heading   *color.Color
	id        *color.Color
	path      *color.Color
	extracted *color.Color
	skipped   *color.Color
	failed    *color.Color
}

// newStyles creates color formatters; enabled=false yields plain text.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:   color.New(color.Bold),
		id:        color.New(color.FgHiGreen),
		path:      color.New(color.FgHiBlue),
		extracted: color.New(color.FgGreen),
		skipped:   color.New(color.FgYellow),
		failed:    color.New(color.Bold, color.FgRed),
	}

	// color.NoColor is global; each formatter is set explicitly.
	for _, c := range []*color.Color{s.heading, s.id, s.path, s.extracted, s.skipped, s.failed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// status returns the formatter for an entry status.
func (s *styles) status(st types.Status) *color.Color {
	switch {
	case st == types.StatusExtracted:
		return s.extracted
	case st == types.StatusFailed:
		return s.failed
	default:
		return s.skipped
	}
}

// colorEnabled resolves an --color mode ("auto", "always", "never") for out.
// Auto enables color only for terminals and honors NO_COLOR.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
