// Package validation provides the rule registry and engine that validate
// deployment-package parameter values.
//
// This package contains the functional core logic for checking a parameter
// descriptor against the rules that apply to it. All functions are pure
// (no I/O, no side effects) and safe for concurrent use.
//
// # Rules
//
// A Rule is data: the Tag it applies to, a CheckFunc that reports whether a
// value is valid, and a MessageFunc that formats the error when it is not.
// The default registry holds, in order:
//
//   - required: value must not be blank
//   - number: format, minValue bound, maxValue bound
//   - string: single-line text without leading or trailing whitespace
//   - list: comma-separated, non-empty items
//   - bool: boolean-like token
//
// The enum type has no rule of its own, and a type with no rules validates
// with zero errors.
//
// # Functions
//
//   - ValidateDeploymentPackageParameter: Validate one parameter with the default rules
//   - ValidateParameters: Validate a parameter set into a Report
//   - NewEngine / DefaultEngine: Run a custom or the default rule set
//
// # Usage
//
//	errs := validation.ValidateDeploymentPackageParameter(domain.Parameter{
//	    Type:    domain.TypeNumber,
//	    Value:   "10.3",
//	    Options: domain.Options{MaxValue: 10},
//	})
//	// errs == []string{"Value should be less than 10."}
package validation
