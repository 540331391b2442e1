// Package cmd implements the mdcheck command line.
package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/ezerfernandes/mdcheck/internal/ctxlog"
	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

const appName = "mdcheck"

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := rootCmd(&options{})

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	if !errors.Is(err, errFailed) {
		fmt.Fprintln(stderr, "Error:", err)
	}

	return 1
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:   appName,
		Short: "Run the code blocks of Markdown documents",
		Long:  rootHelp,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := ctxlog.New(cmd.ErrOrStderr(), opts.verbose)
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))

			opts.createStatus(cmd.ErrOrStderr())

			return nil
		},

		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress messages")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	root.PersistentFlags().StringVar(&opts.config, "config", "", "configuration file (default: "+configHint+")")

	root.AddCommand(
		checkCmd(opts),
		extractCmd(opts),
		listCmd(opts),
		lintCmd(opts),
	)

	return root
}

// errFailed reports failing blocks. They were printed already, so Execute
// only turns it into the exit code.
var errFailed = errors.New("blocks failed")
