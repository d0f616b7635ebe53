// Paramcheck validates deployment-package parameters.
//
// Usage:
//
//	# Validate every parameter file under deploy/
//	paramcheck check 'deploy/**/*.yaml'
//
//	# Re-validate on every change, with a JSON report
//	paramcheck check --watch --format json params.json
//
//	# Serve the validation API
//	paramcheck serve --config paramcheck.yaml
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitInvalid         = 1
	ExitConfigError     = 2
	ExitLoadError       = 3
	ExitHTTPServerError = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "paramcheck: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

// exitCode maps a command error to a process exit code. Errors that carry no
// code are usage or configuration problems.
func exitCode(err error) int {
	var sErr *ServerError
	if errors.As(err, &sErr) {
		return sErr.ExitCode
	}
	return ExitConfigError
}

// =============================================================================
// Server Error
// =============================================================================

// ServerError represents an error during command operation.
type ServerError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *ServerError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
