package main

import (
	"io"

	"github.com/spf13/cobra"
)

// options holds the global flags and output streams shared by subcommands.
type options struct {
	configPath string
	logLevel   string
	logFormat  string

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "paramcheck",
		Short: "Validate deployment-package parameters",
		Long: `Paramcheck validates deployment-package parameters against their declared
type, required flag and bounds.

It checks parameter files from the command line or serves the same rules over HTTP:
  - check: validate YAML or JSON parameter files, optionally re-checking on change
  - serve: run the validation API with health, metrics and OpenAPI endpoints`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (json, text)")

	cmd.AddCommand(
		newCheckCmd(opts),
		newServeCmd(opts),
		newVersionCmd(opts),
	)

	return cmd
}

// loadConfig loads and validates the configuration, applying flag overrides.
func (o *options) loadConfig() (*Config, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return nil, &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}
	return cfg, nil
}
