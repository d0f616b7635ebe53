package loader

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	ErrUnsupportedFormat = errors.New("unsupported parameter file format")
	ErrNoMatches         = errors.New("pattern matched no files")
	ErrInvalidPattern    = errors.New("invalid glob pattern")
	ErrInvalidRequired   = errors.New("required must be a boolean")
	ErrNoParameters      = errors.New("file defines no parameters")
)

// LoadError wraps errors with the file or pattern that caused them.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(path string, err error) *LoadError {
	return &LoadError{Path: path, Err: err}
}
