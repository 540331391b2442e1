package cmd

import (
	_ "embed"

	"github.com/ezerfernandes/mdcheck/internal/check"
	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/ezerfernandes/mdcheck/internal/report"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [filename]",
		Aliases: []string{"l"},
		Short:   "List the code blocks of a Markdown file",
		Long:    listHelp,
		Args:    checkargs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd, source(args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := source(args)

			blocks, err := check.Blocks(cmd.Context(), opts.checkOptions(filename))
			if err != nil {
				return err
			}

			ext := opts.ext
			if len(ext) == 0 {
				ext = opts.lang
			}

			report.NewWithColor(cmd.OutOrStdout(), false).Blocks(blocks, mdcode.Stem(filename), mdcode.Extension(ext))

			return nil
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	extFlag(cmd, opts)

	return cmd
}
