// Package specfile loads validation spec lists from YAML or JSON files.
package specfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docvet/docvet/internal/domain"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .yaml/.yml/.json.
var ErrUnsupportedFormat = fmt.Errorf("unsupported spec file format")

// ErrNoSpecs is returned when a file decodes cleanly but yields zero specs,
// such as an empty list or a misspelled envelope key.
var ErrNoSpecs = fmt.Errorf("spec file contains no specs")

// document accepts both a bare spec list and a wrapped {"specs": [...]}.
type document struct {
	Specs []domain.ValidationSpec `json:"specs" yaml:"specs"`
}

// Load reads a spec list from path, decoding by file extension, and
// validates it (at least one spec, non-empty fields, unique names). Order
// in the file is evaluation order.
func Load(path string) ([]domain.ValidationSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}

	specs, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return specs, nil
}

// Decode parses raw spec data in the format implied by ext (".yaml", ".yml"
// or ".json").
func Decode(data []byte, ext string) ([]domain.ValidationSpec, error) {
	var (
		specs []domain.ValidationSpec
		err   error
	)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		specs, err = decodeYAML(data)
	case ".json":
		specs, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, ErrNoSpecs
	}

	if err := domain.ValidateSpecList(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func decodeYAML(data []byte) ([]domain.ValidationSpec, error) {
	var specs []domain.ValidationSpec
	if err := yaml.Unmarshal(data, &specs); err == nil {
		return specs, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Specs, nil
}

func decodeJSON(data []byte) ([]domain.ValidationSpec, error) {
	var specs []domain.ValidationSpec
	if err := json.Unmarshal(data, &specs); err == nil {
		return specs, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Specs, nil
}
