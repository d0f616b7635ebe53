// Package domain contains the core parameter types.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/paramcheck/internal/core/primitive"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// Parameter definition errors
	ErrParameterNameRequired = errors.New("parameter name is required")
	ErrParameterDuplicate    = errors.New("duplicate parameter name")
	ErrParameterInvalidType  = errors.New("invalid parameter type")
	ErrParameterEnumValues   = errors.New("enum values required for enum type")

	// Parameter value errors
	ErrParameterInvalidValue = errors.New("value must be text, a number or a boolean")
)

// =============================================================================
// Parameter Types
// =============================================================================

// ParameterType is the declared type of a deployment-package parameter.
type ParameterType string

const (
	TypeNumber ParameterType = "number"
	TypeString ParameterType = "string"
	TypeList   ParameterType = "list"
	TypeEnum   ParameterType = "enum"
	TypeBool   ParameterType = "bool"
)

// ParameterTypes lists every recognized parameter type.
var ParameterTypes = []ParameterType{TypeNumber, TypeString, TypeList, TypeEnum, TypeBool}

// IsValid checks if the parameter type is recognized.
func (pt ParameterType) IsValid() bool {
	switch pt {
	case TypeNumber, TypeString, TypeList, TypeEnum, TypeBool:
		return true
	default:
		return false
	}
}

func (pt ParameterType) String() string {
	return string(pt)
}

// =============================================================================
// Parameter
// =============================================================================

// Options holds type-specific constraints.
//
// MinValue and MaxValue are kept as raw values; they are coerced to numbers
// only when compared, so a malformed bound fails comparison rather than
// decoding. A nil bound means no constraint.
type Options struct {
	MinValue   any    `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue   any    `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	EnumValues string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
}

// Parameter describes a single deployment-package parameter to validate.
// Name is used for reporting only.
type Parameter struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type     ParameterType `json:"type" yaml:"type"`
	Value    any           `json:"value" yaml:"value"`
	Required bool          `json:"required" yaml:"required"`
	Options  Options       `json:"options,omitempty" yaml:"options,omitempty"`
}

// EnumChoices splits EnumValues on commas and trims each choice.
// Empty choices are dropped.
func (o Options) EnumChoices() []string {
	if strings.TrimSpace(o.EnumValues) == "" {
		return nil
	}
	var choices []string
	for _, c := range strings.Split(o.EnumValues, ",") {
		if c = strings.TrimSpace(c); c != "" {
			choices = append(choices, c)
		}
	}
	return choices
}

// CheckValues rejects sequences and mappings in the value and bounds.
// Only scalars have a textual form the validation rules can match.
func (p Parameter) CheckValues() error {
	fields := []struct {
		name  string
		value any
	}{
		{"value", p.Value},
		{"minValue", p.Options.MinValue},
		{"maxValue", p.Options.MaxValue},
	}
	for _, f := range fields {
		if !primitive.IsScalar(f.value) {
			return fmt.Errorf("%s: %w", f.name, ErrParameterInvalidValue)
		}
	}
	return nil
}

// =============================================================================
// Definition Checks (Pure)
// =============================================================================

// DefinitionError ties a definition problem to the parameter it was found on.
type DefinitionError struct {
	Index int
	Name  string
	Err   error
}

func (e *DefinitionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("parameter #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("parameter %q: %v", e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// CheckDefinitions inspects the shape of a parameter set, as opposed to the
// values it carries. It reports missing or duplicate names, unrecognized
// types and enum parameters without choices. Returns all problems found.
//
// These findings never change validation results: an unrecognized type still
// validates with zero errors. Callers decide whether to log or reject them.
func CheckDefinitions(params []Parameter) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, p := range params {
		if p.Name == "" {
			errs = append(errs, &DefinitionError{Index: i, Err: ErrParameterNameRequired})
		} else if seen[p.Name] {
			errs = append(errs, &DefinitionError{Index: i, Name: p.Name, Err: ErrParameterDuplicate})
			continue
		}
		seen[p.Name] = true

		if !p.Type.IsValid() {
			errs = append(errs, &DefinitionError{Index: i, Name: p.Name, Err: ErrParameterInvalidType})
			continue
		}

		if p.Type == TypeEnum && len(p.Options.EnumChoices()) == 0 {
			errs = append(errs, &DefinitionError{Index: i, Name: p.Name, Err: ErrParameterEnumValues})
		}
	}

	return errs
}
