package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/schema"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat parses "toml" or "yaml" (or "yml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want toml or yaml)", s)
}

// FormatOf picks the format from the file extension; anything that is not
// YAML is read as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads a configuration file into a layer. It returns warnings for keys
// that are not understood. A missing file yields an error matching
// os.ErrNotExist.
func Load(path string) (*Layer, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &tsdlerrors.ConfigError{Path: path, Cause: err}
	}
	layer, warnings, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, nil, &tsdlerrors.ConfigError{Path: path, Cause: err}
	}
	return layer, warnings, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte, format Format) (*Layer, []string, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, nil, err
	}

	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to convert config for validation: %w", err)
	}
	if err := schema.ValidateConfig(doc); err != nil {
		return nil, nil, err
	}

	var layer Layer
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &layer)
	default:
		err = toml.Unmarshal(data, &layer)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &layer, detectUnknownFields(raw), nil
}

// decodeRaw decodes the document into generic maps for schema validation and
// unknown field detection.
func decodeRaw(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = toml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Resolve folds the defaults, the file at path and the command-line layer,
// later sources winning field by field. A missing file leaves the defaults in
// place. The returned warnings concern the file.
func Resolve(defaults Config, path string, cli *Layer) (*Config, []string, error) {
	cfg := defaults
	cfg.Parsers = make(map[string]ParserSpec, len(defaults.Parsers))
	for name, spec := range defaults.Parsers {
		cfg.Parsers[name] = spec
	}

	var warnings []string
	if path != "" {
		file, warns, err := Load(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, nil, err
		default:
			cfg.Apply(file)
			warnings = warns
		}
	}
	cfg.Apply(cli)

	if len(cfg.Parsers) == 0 {
		cfg.Parsers = nil
	}
	if err := Validate(&cfg); err != nil {
		return nil, warnings, &tsdlerrors.ConfigError{Path: path, Cause: err}
	}
	return &cfg, warnings, nil
}

// Marshal renders cfg in the given format.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
