package validation

import "github.com/artpar/paramcheck/internal/core/domain"

// =============================================================================
// Report
// =============================================================================

// Result is the outcome of validating one parameter.
type Result struct {
	Name   string               `json:"name"`
	Type   domain.ParameterType `json:"type"`
	Errors []string             `json:"errors"`
}

// Valid reports whether the parameter passed every rule.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Report holds one Result per parameter, in input order.
type Report struct {
	Results []Result `json:"results"`
}

// Valid reports whether every parameter passed.
func (r Report) Valid() bool {
	for _, res := range r.Results {
		if !res.Valid() {
			return false
		}
	}
	return true
}

// ErrorCount returns the total number of error messages across all results.
func (r Report) ErrorCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Errors)
	}
	return n
}

// Failed returns the results that carry at least one error.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Valid() {
			failed = append(failed, res)
		}
	}
	return failed
}

// ValidateParameters validates every parameter in the set.
func (e *Engine) ValidateParameters(params []domain.Parameter) Report {
	report := Report{Results: make([]Result, 0, len(params))}
	for _, p := range params {
		report.Results = append(report.Results, Result{
			Name:   p.Name,
			Type:   p.Type,
			Errors: e.Validate(p),
		})
	}
	return report
}

// ValidateParameters validates a parameter set with the default rules.
func ValidateParameters(params []domain.Parameter) Report {
	return defaultEngine.ValidateParameters(params)
}
