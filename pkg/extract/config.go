package extract

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultMinSizeKB is the size a member must strictly exceed to be extracted.
	DefaultMinSizeKB = 50.0

	// DefaultEncoding is the decode scheme for text members.
	DefaultEncoding = "utf-8"
)

// DefaultExtensions returns the name suffixes extracted when none are configured.
func DefaultExtensions() []string {
	return []string{".txt", ".md"}
}

// Config for an extraction run.
type Config struct {
	// ArchivePath is the ZIP (or 7z) archive to read.
	ArchivePath string

	// OutputPath is the CSV file to create or overwrite.
	OutputPath string

	// AllowedExtensions are case-sensitive suffixes a member name must end with.
	AllowedExtensions []string

	// MinSizeKB is the threshold in kilobytes (bytes/1024); a member must be strictly larger.
	MinSizeKB float64

	// Exclude holds gitignore-style patterns matched against member names.
	Exclude []string

	// Encoding is the IANA name of the text decode scheme.
	Encoding string
}

// DefaultConfig returns a Config with defaults for everything but the paths.
func DefaultConfig(archivePath, outputPath string) Config {
	return Config{
		ArchivePath:       archivePath,
		OutputPath:        outputPath,
		AllowedExtensions: DefaultExtensions(),
		MinSizeKB:         DefaultMinSizeKB,
		Encoding:          DefaultEncoding,
	}
}

// withDefaults fills unset fields. A zero MinSizeKB is a legitimate threshold, so it is left alone.
func (c Config) withDefaults() Config {
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = DefaultExtensions()
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	return c
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.ArchivePath == "" {
		return errors.New("archive path is required")
	}
	if c.OutputPath == "" {
		return errors.New("output path is required")
	}
	if math.IsNaN(c.MinSizeKB) || math.IsInf(c.MinSizeKB, 0) {
		return fmt.Errorf("minimum size must be a finite number, got %g", c.MinSizeKB)
	}
	if c.MinSizeKB < 0 {
		return fmt.Errorf("minimum size must not be negative, got %g", c.MinSizeKB)
	}
	for _, ext := range c.AllowedExtensions {
		if strings.TrimSpace(ext) == "" {
			return errors.New("allowed extensions must not contain empty values")
		}
	}
	if _, err := NewTextDecoder(c.Encoding); err != nil {
		return err
	}
	return nil
}
