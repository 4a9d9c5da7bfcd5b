// Package config loads ziptext settings from a YAML file.
//
// Example:
//
//	extract:
//	  min_size_kb: 50
//	  extensions: [".txt", ".md"]
//	  exclude: ["drafts/", "*.bak.txt"]
//	  encoding: utf-8
//	ledger: ziptext.db
//	log:
//	  level: info
//	  file: /var/log/ziptext.log
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/ziptext/internal/logging"
	"github.com/praetorian-inc/ziptext/pkg/extract"
)

// File is the on-disk configuration.
type File struct {
	Extract Extract        `yaml:"extract"`
	Ledger  string         `yaml:"ledger"`
	Log     logging.Config `yaml:"log"`
}

// Extract holds extraction defaults. A nil MinSizeKB means "not set".
type Extract struct {
	MinSizeKB  *float64 `yaml:"min_size_kb"`
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude"`
	Encoding   string   `yaml:"encoding"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	minSize := extract.DefaultMinSizeKB
	return &File{
		Extract: Extract{
			MinSizeKB:  &minSize,
			Extensions: extract.DefaultExtensions(),
			Encoding:   extract.DefaultEncoding,
		},
		Log: logging.DefaultConfig(),
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*File, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Extract.MinSizeKB == nil {
		minSize := extract.DefaultMinSizeKB
		cfg.Extract.MinSizeKB = &minSize
	}
	if math.IsNaN(*cfg.Extract.MinSizeKB) || math.IsInf(*cfg.Extract.MinSizeKB, 0) {
		return nil, fmt.Errorf("extract.min_size_kb must be a finite number")
	}
	if *cfg.Extract.MinSizeKB < 0 {
		return nil, fmt.Errorf("extract.min_size_kb must not be negative")
	}

	return cfg, nil
}

// ExtractConfig builds an extraction config for the given paths.
func (f *File) ExtractConfig(archivePath, outputPath string) extract.Config {
	cfg := extract.DefaultConfig(archivePath, outputPath)
	if f.Extract.MinSizeKB != nil {
		cfg.MinSizeKB = *f.Extract.MinSizeKB
	}
	if len(f.Extract.Extensions) > 0 {
		cfg.AllowedExtensions = append([]string(nil), f.Extract.Extensions...)
	}
	cfg.Exclude = append([]string(nil), f.Extract.Exclude...)
	if f.Extract.Encoding != "" {
		cfg.Encoding = f.Extract.Encoding
	}
	return cfg
}
