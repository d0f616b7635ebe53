package api

import (
	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/validation"
)

// =============================================================================
// Request Types
// =============================================================================

// ValidateRequest is the request body for validating a parameter set.
type ValidateRequest struct {
	Parameters []domain.Parameter `json:"parameters"`
}

// =============================================================================
// Response Types
// =============================================================================

// ValidateResponse is the response for parameter set validation.
type ValidateResponse struct {
	ID         string              `json:"id"`
	Valid      bool                `json:"valid"`
	ErrorCount int                 `json:"error_count"`
	Results    []validation.Result `json:"results"`
}

// ValidateOneResponse is the response for single parameter validation.
type ValidateOneResponse struct {
	ID     string   `json:"id"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ErrorResponse is the error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}
