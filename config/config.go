// Package config loads engine settings from YAML or TOML files.
//
// Files are decoded onto engine.DefaultConfig, so a file only needs the keys
// it changes. The format is chosen by extension: .yaml/.yml or .toml.
//
//	# matchcycle.yaml
//	recency_window: 2
//	parity_policy: carry_over
//	exclude_same_attribute: [team]
//	hard_exclusion_pairs:
//	  - [alice@example.com, bob@example.com]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/matchcycle/engine"
)

// ErrUnsupportedFormat is returned for file extensions other than YAML/TOML.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Format identifies a config encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf maps a path to its Format by extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Load reads path and returns the validated engine configuration.
// An empty path yields the defaults.
func Load(path string) (engine.Config, error) {
	if path == "" {
		return engine.DefaultConfig(), nil
	}
	format, err := FormatOf(path)
	if err != nil {
		return engine.Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes data onto the defaults and validates the result.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte, format Format) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return engine.Config{}, fmt.Errorf("config: parse YAML: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return engine.Config{}, fmt.Errorf("config: parse TOML: %w", err)
		}
	default:
		return engine.Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}
