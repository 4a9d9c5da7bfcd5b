package extract

import (
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/praetorian-inc/ziptext/pkg/types"
)

// Filter decides which archive members are eligible for extraction.
type Filter struct {
	extensions []string
	minSizeKB  float64
	exclude    *gitignore.GitIgnore
}

// NewFilter builds a filter from the eligibility fields of cfg.
func NewFilter(cfg Config) *Filter {
	cfg = cfg.withDefaults()

	f := &Filter{
		extensions: append([]string(nil), cfg.AllowedExtensions...),
		minSizeKB:  cfg.MinSizeKB,
	}
	if len(cfg.Exclude) > 0 {
		f.exclude = gitignore.CompileIgnoreLines(cfg.Exclude...)
	}
	return f
}

// Skip returns why e is not eligible, or "" when it is.
// Checks run in order: directory, extension, exclude patterns, size.
func (f *Filter) Skip(e types.Entry) types.Status {
	if e.IsDir {
		return types.StatusSkippedDirectory
	}
	if !f.hasAllowedExtension(e.Name) {
		return types.StatusSkippedExtension
	}
	if f.exclude != nil && f.exclude.MatchesPath(e.Name) {
		return types.StatusSkippedExcluded
	}
	if e.SizeKB() <= f.minSizeKB {
		return types.StatusSkippedSize
	}
	return ""
}

// Eligible reports whether e should be extracted.
func (f *Filter) Eligible(e types.Entry) bool {
	return f.Skip(e) == ""
}

func (f *Filter) hasAllowedExtension(name string) bool {
	for _, ext := range f.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
