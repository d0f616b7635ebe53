package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information (set by build)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.stdout, "paramcheck %s (built %s)\n", Version, BuildTime)
			fmt.Fprintf(opts.stdout, "Git Commit: %s\n", GitCommit)
			fmt.Fprintf(opts.stdout, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(opts.stdout, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
