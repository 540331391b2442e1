package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/ezerfernandes/mdcheck/internal/check"
	"github.com/ezerfernandes/mdcheck/internal/config"
	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/ezerfernandes/mdcheck/internal/store"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

const (
	defaultSource = "README.md"
	configHint    = config.FileName + " next to the Markdown file or in the working directory"
)

type statusFunc func(format string, args ...interface{})

type options struct {
	quiet   bool
	verbose bool
	config  string

	lang     string
	ext      string
	dir      string
	header   string
	run      string
	mark     string
	args     string
	argList  []string
	keep     bool
	inMemory bool
	jobs     int
	timeout  time.Duration

	status statusFunc
}

func (opts *options) createStatus(w io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	var mu sync.Mutex

	opts.status = func(format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(w, format, args...)
	}
}

// loadConfig reads the configuration for filename and lets it fill every
// flag the user did not set.
func (opts *options) loadConfig(cmd *cobra.Command, filename string) error {
	var (
		cfg *config.Config
		err error
	)

	if len(opts.config) > 0 {
		cfg, err = config.Load(opts.config)
	} else {
		cfg, err = config.Find(filename)
	}

	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed

	if !changed("lang") {
		opts.lang = cfg.Lang
	}

	if !changed("ext") && len(cfg.Ext) > 0 {
		opts.ext = cfg.Ext
	}

	if !changed("header") && len(cfg.Header) > 0 {
		opts.header = cfg.Resolve(cfg.Header)
	}

	if !changed("run") && len(cfg.Run) > 0 {
		opts.run = cfg.Run
	}

	if !changed("mark") && cfg.Mark != nil {
		opts.mark = *cfg.Mark
	}

	if !changed("keep") && cfg.Keep {
		opts.keep = true
	}

	if !changed("jobs") && cfg.Jobs > 0 {
		opts.jobs = cfg.Jobs
	}

	if !changed("timeout") && cfg.Timeout > 0 {
		opts.timeout = cfg.Timeout
	}

	if changed("args") {
		if opts.argList, err = shlex.Split(opts.args); err != nil {
			return fmt.Errorf("--args: %w", err)
		}
	} else {
		opts.argList = cfg.Args
	}

	return nil
}

func (opts *options) store() store.Store {
	if opts.inMemory {
		return store.NewMemory()
	}

	return store.OS{}
}

func (opts *options) executor(files store.Store) (check.Executor, error) {
	if len(opts.run) > 0 {
		if opts.inMemory {
			return nil, errInMemoryCommand
		}

		return &check.CommandExecutor{Command: opts.run}, nil
	}

	if slices.Contains(check.ShellLangs, opts.lang) {
		return &check.ShellExecutor{Files: files, Mark: opts.mark}, nil
	}

	return nil, fmt.Errorf("%w %q: set a command with --run", check.ErrNoExecutor, opts.lang)
}

func (opts *options) checkOptions(filename string) check.Options {
	return check.Options{
		File:    filename,
		Lang:    opts.lang,
		Ext:     opts.ext,
		Dir:     opts.dir,
		Header:  opts.header,
		Keep:    opts.keep,
		Jobs:    opts.jobs,
		Timeout: opts.timeout,
		Args:    opts.argList,
		Status:  opts.status,
	}
}

func langFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "sh", "fence tag of the checked code blocks")
}

func dirFlag(cmd *cobra.Command, opts *options, usage string) {
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", usage)
}

func extFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.ext, "ext", "", "extension of extracted files (default: the fence tag)")
}

func headerFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.header, "header", "", "header file prepended to every block (default: <name>.header.<lang>)")
}

func checkargs(cmd *cobra.Command, args []string) error {
	return cobra.MaximumNArgs(1)(cmd, args)
}

func source(args []string) string {
	if len(args) == 0 {
		return defaultSource
	}

	return args[0]
}

// readLines returns the lines of the Markdown file for failure excerpts; a
// file that cannot be read only loses the excerpts.
func readLines(filename string) []string {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}

	return mdcode.SplitLines(src)
}

var errInMemoryCommand = errors.New("--in-memory cannot be used with --run: commands need files on disk")
