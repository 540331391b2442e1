package cmd

import (
	_ "embed"
	"fmt"

	"github.com/ezerfernandes/mdcheck/internal/check"
	"github.com/spf13/cobra"
)

//go:embed help/extract.md
var extractHelp string

func extractCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "extract [flags] [filename]",
		Aliases: []string{"e"},
		Short:   "Write the code blocks of a Markdown file to a directory",
		Long:    extractHelp,
		Args:    checkargs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd, source(args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := source(args)

			eopts := opts.checkOptions(filename)

			ext, err := check.Extract(cmd.Context(), eopts)
			if err != nil {
				return err
			}

			opts.status("extracted %d block(s) to %s (%d skipped)\n", len(ext.Files), ext.Dir, len(ext.Skipped))

			for _, file := range ext.Files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}

			return nil
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	extFlag(cmd, opts)
	headerFlag(cmd, opts)
	dirFlag(cmd, opts, "output directory (default: .mdcheck-<name> next to the Markdown file)")

	return cmd
}
