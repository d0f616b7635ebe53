package validation

import (
	"slices"

	"github.com/artpar/paramcheck/internal/core/domain"
)

// =============================================================================
// Engine
// =============================================================================

// Engine applies an ordered rule set to parameter descriptors.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over a copy of rules.
//
// Example:
//
//	rules := append(validation.DefaultRules(), myPortRule)
//	engine := validation.NewEngine(rules)
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: slices.Clone(rules)}
}

var defaultEngine = NewEngine(defaultRules)

// DefaultEngine returns the engine over the default registry.
func DefaultEngine() *Engine {
	return defaultEngine
}

// Rules returns a copy of the engine's rule set.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// Tags derives the constraint tag set for a parameter: its declared type,
// plus TagRequired when Required is set.
func Tags(p domain.Parameter) []Tag {
	tags := []Tag{TypeTag(p.Type)}
	if p.Required {
		tags = append(tags, TagRequired)
	}
	return tags
}

// Validate runs every rule whose tag is in the parameter's tag set, in
// registry order, and returns the messages of the rules that fail.
// All applicable rules run; a passing parameter yields an empty, non-nil slice.
func (e *Engine) Validate(p domain.Parameter) []string {
	tags := Tags(p)
	errs := make([]string, 0)

	for _, rule := range e.rules {
		if !slices.Contains(tags, rule.AppliesTo) {
			continue
		}
		if msg, failed := rule.Apply(p.Value, p.Options); failed {
			errs = append(errs, msg)
		}
	}

	return errs
}

// ValidateDeploymentPackageParameter validates a parameter with the default
// rules and returns the ordered error messages.
//
// Example:
//
//	errs := ValidateDeploymentPackageParameter(domain.Parameter{
//	    Type:     domain.TypeBool,
//	    Value:    " ",
//	    Required: true,
//	})
//	// errs: required message, then the bool format message
func ValidateDeploymentPackageParameter(p domain.Parameter) []string {
	return defaultEngine.Validate(p)
}
