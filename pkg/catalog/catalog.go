// Package catalog loads field-set declarations from JSON, YAML, TOML and HCL files.
//
// A field set is the ordered list of property declarations of one configurable
// entity. Declaration order is preserved exactly as written, since the engine
// uses it to break dependency cycles.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dlovans/fieldset/pkg/fieldset"
)

// Format identifies a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FieldSet is the complete collection of property declarations for one entity.
type FieldSet struct {
	Name        string                  `json:"name" yaml:"name" toml:"name"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Properties  []*fieldset.Declaration `json:"properties" yaml:"properties" toml:"properties"`
}

// ParseError reports a catalog file that could not be decoded.
type ParseError struct {
	Path   string
	Format Format
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s field set %s: %v", e.Format, e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to parse %s field set: %v", e.Format, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("unsupported field set extension %q (want .json, .yaml, .yml, .toml or .hcl)", filepath.Ext(path))
	}
}

// Load reads a single field set from path. HCL files must contain exactly one field_set block.
func Load(path string) (*FieldSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field set: %w", err)
	}

	fs, err := parse(data, format, path)
	if err != nil {
		return nil, err
	}
	if fs.Name == "" {
		fs.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return fs, nil
}

// Parse decodes a field set from data in the given format.
func Parse(data []byte, format Format) (*FieldSet, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, path string) (*FieldSet, error) {
	var fs FieldSet
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &fs)
	case FormatYAML:
		err = yaml.Unmarshal(data, &fs)
	case FormatTOML:
		err = toml.Unmarshal(data, &fs)
	case FormatHCL:
		var sets []*FieldSet
		sets, err = parseHCL(data, path)
		if err == nil {
			if len(sets) != 1 {
				err = fmt.Errorf("expected exactly one field_set block, found %d", len(sets))
			} else {
				fs = *sets[0]
			}
		}
	default:
		return nil, fmt.Errorf("unsupported field set format %q", format)
	}

	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Cause: err}
	}
	return &fs, nil
}

// LoadState reads a form state from a JSON or YAML file.
func LoadState(path string) (fieldset.FormState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state := make(fieldset.FormState)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &state)
	default:
		err = json.Unmarshal(data, &state)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return state, nil
}
