package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/ezerfernandes/mdcheck/internal/report"
	"github.com/spf13/cobra"
)

//go:embed help/lint.md
var lintHelp string

func lintCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "lint [flags] [filename]",
		Short: "Report code blocks that renderers and mdcheck read differently",
		Long:  lintHelp,
		Args:  checkargs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd, source(args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := source(args)

			src, err := os.ReadFile(filename)
			if err != nil {
				return err
			}

			findings, err := mdcode.Lint(src, opts.lang)
			if err != nil {
				return err
			}

			if len(findings) == 0 {
				opts.status("%s: no findings\n", filename)

				return nil
			}

			report.NewWithColor(cmd.OutOrStdout(), false).Findings(filename, findings)

			return fmt.Errorf("%w: %d finding(s)", errFailed, len(findings))
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)

	return cmd
}
