// Package loader reads deployment-package parameter sets from YAML and JSON
// files and expands the glob patterns used to select them.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/primitive"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Formats
// =============================================================================

// Format is the encoding of a parameter file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// =============================================================================
// Decoding
// =============================================================================

// rawFile mirrors the on-disk layout. Required is decoded loosely so that
// string tokens like "yes" can be resolved with a boolean vocabulary.
type rawFile struct {
	Parameters []rawParameter `json:"parameters" yaml:"parameters"`
}

type rawParameter struct {
	Name     string         `json:"name" yaml:"name"`
	Type     string         `json:"type" yaml:"type"`
	Value    any            `json:"value" yaml:"value"`
	Required any            `json:"required" yaml:"required"`
	Options  domain.Options `json:"options" yaml:"options"`
}

// Decode parses a parameter set. The required flag of each parameter must be
// a boolean or a token recognized by vocab. Values and bounds must be scalars.
// JSON numbers are kept as json.Number so large integers stay exact.
func Decode(data []byte, format Format, vocab primitive.BoolVocabulary) ([]domain.Parameter, error) {
	var raw rawFile

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	if len(raw.Parameters) == 0 {
		return nil, ErrNoParameters
	}

	params := make([]domain.Parameter, 0, len(raw.Parameters))
	for i, rp := range raw.Parameters {
		required, err := decodeRequired(rp.Required, vocab)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", paramLabel(i, rp.Name), err)
		}
		p := domain.Parameter{
			Name:     rp.Name,
			Type:     domain.ParameterType(rp.Type),
			Value:    rp.Value,
			Required: required,
			Options:  rp.Options,
		}
		if err := p.CheckValues(); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", paramLabel(i, rp.Name), err)
		}
		params = append(params, p)
	}

	return params, nil
}

func decodeRequired(v any, vocab primitive.BoolVocabulary) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	}
	b, ok := vocab.ToBoolean(v)
	if !ok {
		return false, fmt.Errorf("%w, got %q", ErrInvalidRequired, primitive.Text(v))
	}
	return b, nil
}

func paramLabel(i int, name string) string {
	if name == "" {
		return fmt.Sprintf("#%d", i)
	}
	return fmt.Sprintf("%q", name)
}
