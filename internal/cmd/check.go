package cmd

import (
	_ "embed"
	"fmt"

	"github.com/ezerfernandes/mdcheck/internal/check"
	"github.com/ezerfernandes/mdcheck/internal/ctxlog"
	"github.com/ezerfernandes/mdcheck/internal/report"
	"github.com/spf13/cobra"
)

//go:embed help/check.md
var checkHelp string

func checkCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "check [flags] [filename]",
		Aliases: []string{"c"},
		Short:   "Run the code blocks of a Markdown file and report failures",
		Long:    checkHelp,
		Args:    checkargs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd, source(args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkRun(cmd, source(args), opts)
		},

		DisableAutoGenTag: true,
	}

	langFlag(cmd, opts)
	extFlag(cmd, opts)
	headerFlag(cmd, opts)
	dirFlag(cmd, opts, "run the files of this directory instead of extracting the blocks")

	cmd.Flags().StringVar(&opts.run, "run", "", "command run for every block, {} is the extracted file")
	cmd.Flags().BoolVarP(&opts.keep, "keep", "k", false, "don't remove extracted files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "maximum number of concurrent blocks (0 = no limit)")
	cmd.Flags().StringVarP(&opts.mark, "mark", "m", check.DefaultMark, "comment prefix of output assertions in shell blocks")
	cmd.Flags().StringVar(&opts.args, "args", "", "arguments passed to every block")
	cmd.Flags().BoolVar(&opts.inMemory, "in-memory", false, "extract shell blocks in memory instead of on disk")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "time limit of a single block (0 = no limit)")

	return cmd
}

func checkRun(cmd *cobra.Command, filename string, opts *options) error {
	ctx := cmd.Context()
	files := opts.store()

	exec, err := opts.executor(files)
	if err != nil {
		return err
	}

	copts := opts.checkOptions(filename)
	copts.Store = files
	copts.Executor = exec
	copts.Custom = cmd.Flag("dir").Changed

	ctxlog.FromContext(ctx).Debug("checking", "file", filename, "lang", copts.Lang, "custom", copts.Custom)

	rep, err := check.Run(ctx, copts)
	if err != nil {
		return err
	}

	printer := report.New(cmd.ErrOrStderr())

	printer.Failures(rep, readLines(filename))
	printer.Summary(rep.Summary, "Blocks")

	if !rep.OK() {
		return fmt.Errorf("%w: %d of %d", errFailed, rep.Summary.Failed, rep.Summary.Total)
	}

	return nil
}
