package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/artpar/paramcheck/internal/core/validation"
	"github.com/artpar/paramcheck/internal/shell/loader"
	"github.com/artpar/paramcheck/internal/shell/watcher"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Output formats for check.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidParameters is returned when at least one parameter fails validation.
var ErrInvalidParameters = errors.New("parameters failed validation")

func newCheckCmd(opts *options) *cobra.Command {
	var (
		format string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "check [flags] PATTERN...",
		Short: "Validate parameter files",
		Long: `Validate every YAML or JSON parameter file matched by the given patterns.

Patterns support ** to match any number of directories. The command exits with
status 1 when any parameter is invalid. With --watch the files are checked again
whenever one of them changes, until interrupted.`,
		Example: `  paramcheck check params.yaml
  paramcheck check --format json 'deploy/**/*.yaml' 'deploy/**/*.json'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != FormatText && format != FormatJSON {
				return &ServerError{
					Op:       "check",
					Err:      fmt.Errorf("unknown format %q, want %s or %s", format, FormatText, FormatJSON),
					ExitCode: ExitConfigError,
				}
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			// Reports go to stdout, logs to stderr.
			logger := SetupLogger(cfg, opts.stderr)
			vocab, err := cfg.Coerce.Vocabulary()
			if err != nil {
				return &ServerError{Op: "check", Err: err, ExitCode: ExitConfigError}
			}

			c := &checker{
				loader: loader.NewLoader(vocab, logger),
				engine: validation.DefaultEngine(),
				format: format,
				out:    opts.stdout,
				logger: logger,
			}

			if !watch {
				return c.check(args)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.watch(ctx, args, cfg.Watch)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format (text, json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check when a matched file changes")

	return cmd
}

// =============================================================================
// Checker
// =============================================================================

// checker loads parameter files, validates them and writes a report.
type checker struct {
	loader *loader.Loader
	engine *validation.Engine
	format string
	out    io.Writer
	logger *slog.Logger

	mu sync.Mutex
}

// RunReport is the outcome of one check run.
type RunReport struct {
	ID         string       `json:"id"`
	Valid      bool         `json:"valid"`
	ErrorCount int          `json:"error_count"`
	Files      []FileReport `json:"files"`
}

// FileReport is the validation report of one parameter file.
type FileReport struct {
	Path       string              `json:"path"`
	Valid      bool                `json:"valid"`
	ErrorCount int                 `json:"error_count"`
	Results    []validation.Result `json:"results"`
}

// check runs one check and maps the outcome to a command error.
func (c *checker) check(patterns []string) error {
	report, err := c.run(patterns)
	if err != nil {
		return &ServerError{Op: "check", Err: err, ExitCode: ExitLoadError}
	}
	if !report.Valid {
		return &ServerError{Op: "check", Err: ErrInvalidParameters, ExitCode: ExitInvalid}
	}
	return nil
}

// run loads and validates the matched files and writes the report.
func (c *checker) run(patterns []string) (RunReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	files, err := c.loader.Load(patterns)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{
		ID:    "run_" + uuid.New().String()[:8],
		Valid: true,
		Files: make([]FileReport, 0, len(files)),
	}
	for _, f := range files {
		r := c.engine.ValidateParameters(f.Parameters)
		fr := FileReport{
			Path:       f.Path,
			Valid:      r.Valid(),
			ErrorCount: r.ErrorCount(),
			Results:    r.Results,
		}
		report.Files = append(report.Files, fr)
		report.ErrorCount += fr.ErrorCount
		report.Valid = report.Valid && fr.Valid
	}

	c.logger.Debug("check complete",
		"run_id", report.ID,
		"files", len(report.Files),
		"errors", report.ErrorCount,
		"duration", time.Since(start),
	)

	if err := c.write(report); err != nil {
		return RunReport{}, fmt.Errorf("failed to write report: %w", err)
	}
	return report, nil
}

// watch checks once, then again after every change to a matched file, until
// ctx is cancelled. The set of watched files is fixed by the first expansion.
// Returns the outcome of the last run.
func (c *checker) watch(ctx context.Context, patterns []string, cfg WatchConfig) error {
	paths, err := loader.Expand(patterns)
	if err != nil {
		return &ServerError{Op: "check", Err: err, ExitCode: ExitLoadError}
	}

	w, err := watcher.New(cfg.Watcher(paths), c.logger)
	if err != nil {
		return &ServerError{Op: "check", Err: err, ExitCode: ExitLoadError}
	}

	var (
		lastMu sync.Mutex
		last   = c.check(patterns)
	)
	c.logFailure(last)

	err = w.Watch(ctx, func() {
		result := c.check(patterns)
		c.logFailure(result)
		lastMu.Lock()
		last = result
		lastMu.Unlock()
	})
	if err != nil {
		return &ServerError{Op: "watch", Err: err, ExitCode: ExitLoadError}
	}

	lastMu.Lock()
	defer lastMu.Unlock()
	return last
}

// logFailure logs a run that could not produce a report. Invalid parameters
// are already in the report.
func (c *checker) logFailure(err error) {
	if err != nil && !errors.Is(err, ErrInvalidParameters) {
		c.logger.Error("check failed", "error", err)
	}
}

// =============================================================================
// Output
// =============================================================================

func (c *checker) write(report RunReport) error {
	if c.format == FormatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeText(c.out, report)
}

// writeText renders a report for terminals:
//
//	deploy/app.yaml: 1 of 4 parameters invalid
//	  replicas (number): Value should be less than 10.
//	deploy/db.yaml: ok (2 parameters)
//	checked 2 files, 6 parameters: 1 invalid, 1 error
func writeText(w io.Writer, report RunReport) error {
	params, invalid := 0, 0

	for _, f := range report.Files {
		failed := 0
		for _, res := range f.Results {
			if !res.Valid() {
				failed++
			}
		}
		params += len(f.Results)
		invalid += failed

		if failed == 0 {
			if _, err := fmt.Fprintf(w, "%s: ok (%s)\n", f.Path, plural(len(f.Results), "parameter")); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "%s: %d of %s invalid\n", f.Path, failed, plural(len(f.Results), "parameter")); err != nil {
			return err
		}
		for i, res := range f.Results {
			name := res.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			for _, msg := range res.Errors {
				if _, err := fmt.Fprintf(w, "  %s (%s): %s\n", name, res.Type, msg); err != nil {
					return err
				}
			}
		}
	}

	_, err := fmt.Fprintf(w, "checked %s, %s: %d invalid, %s\n",
		plural(len(report.Files), "file"),
		plural(params, "parameter"),
		invalid,
		plural(report.ErrorCount, "error"),
	)
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
