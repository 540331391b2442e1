package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ezerfernandes/mdcheck/internal/ctxlog"
	"github.com/ezerfernandes/mdcheck/internal/header"
	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/ezerfernandes/mdcheck/internal/store"
	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
)

// Options configures extraction and runs.
type Options struct {
	// File is the Markdown document.
	File string
	// Lang is the fence tag of the checked blocks.
	Lang string
	// Ext is the extension of extracted files. Defaults to Lang.
	Ext string
	// Dir is the extraction directory. Defaults to [DefaultDir].
	Dir string
	// Custom runs the files already present in Dir instead of extracting.
	Custom bool
	// Pattern selects the files run in custom mode. Defaults to "*.<Ext>".
	Pattern string
	// Header is the header file. Defaults to [header.Path].
	Header string
	// Keep leaves the extraction directory in place after a run.
	Keep bool
	// Jobs limits concurrent executions; 0 means no limit.
	Jobs int
	// Timeout bounds each execution; 0 means no limit.
	Timeout time.Duration
	// Args are passed to every block.
	Args []string

	Store    store.Store
	Executor Executor
	Status   func(format string, args ...interface{})
}

// DefaultDir is the extraction directory of a Markdown file:
// docs/README.md extracts to docs/.mdcheck-README.
func DefaultDir(mdFile string) string {
	return filepath.Join(filepath.Dir(mdFile), ".mdcheck-"+mdcode.Stem(mdFile))
}

func (o Options) withDefaults() Options {
	if len(o.Ext) == 0 {
		o.Ext = o.Lang
	}

	o.Ext = mdcode.Extension(o.Ext)

	if len(o.Dir) == 0 {
		o.Dir = DefaultDir(o.File)
	}

	if len(o.Pattern) == 0 {
		o.Pattern = "*." + o.Ext
	}

	if len(o.Header) == 0 {
		o.Header = header.Path(o.File, o.Lang)
	}

	if o.Store == nil {
		o.Store = store.OS{}
	}

	if o.Status == nil {
		o.Status = func(string, ...interface{}) {}
	}

	return o
}

// Extraction lists the files written for a Markdown document.
type Extraction struct {
	Dir string
	// Files are the store paths of the extracted files, in block order.
	Files       []string
	Blocks      []mdcode.CodeBlock
	Skipped     []mdcode.CodeBlock
	HeaderLines int
}

// Extract writes one file per retained block of opts.File into the
// extraction directory, which is emptied first.
func Extract(ctx context.Context, opts Options) (*Extraction, error) {
	opts = opts.withDefaults()

	unlock, err := opts.Store.Lock(opts.Dir)
	if err != nil {
		return nil, err
	}
	defer release(ctx, unlock)

	return extract(ctx, opts)
}

// Blocks reads opts.File and returns every block of opts.Lang, skipped ones
// included, without writing anything.
func Blocks(ctx context.Context, opts Options) ([]mdcode.CodeBlock, error) {
	opts = opts.withDefaults()

	src, err := os.ReadFile(opts.File)
	if err != nil {
		return nil, err
	}

	blocks := mdcode.Extract(mdcode.SplitLines(src), opts.Lang)

	ctxlog.FromContext(ctx).Debug("blocks found", "file", opts.File, "lang", opts.Lang, "count", len(blocks))

	return blocks, nil
}

func extract(ctx context.Context, opts Options) (*Extraction, error) {
	log := ctxlog.FromContext(ctx)

	blocks, err := Blocks(ctx, opts)
	if err != nil {
		return nil, err
	}

	head, err := header.Load(ctx, opts.Header, opts.Lang)
	if err != nil {
		return nil, err
	}

	kept, skipped := mdcode.Retain(blocks)
	inject := mdcode.InjectHeader(head)

	if err := guard(opts.Dir, opts.File); err != nil {
		return nil, err
	}

	if err := opts.Store.Reset(opts.Dir); err != nil {
		return nil, fmt.Errorf("reset %s: %w", opts.Dir, err)
	}

	ext := &Extraction{Dir: opts.Dir, Skipped: skipped, HeaderLines: len(head)}
	base := mdcode.Stem(opts.File)

	for i, block := range kept {
		block = inject(block)

		path := filepath.Join(opts.Dir, mdcode.EncodeName(base, i, block.StartIndex, opts.Ext))
		data := []byte(strings.Join(block.Data, "\n") + "\n")

		if err := opts.Store.WriteFile(path, data); err != nil {
			return nil, fmt.Errorf("write block at L%d: %w", block.Line(), err)
		}

		ext.Files = append(ext.Files, path)
		ext.Blocks = append(ext.Blocks, block)
	}

	log.Debug("blocks extracted", "dir", opts.Dir, "files", len(ext.Files), "skipped", len(skipped))

	return ext, nil
}

// Run checks every block of opts.File, or every file of opts.Dir in custom
// mode. Failing blocks are reported in the Report; the error return is for
// runs that could not happen at all.
func Run(ctx context.Context, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	log := ctxlog.FromContext(ctx)

	if opts.Executor == nil {
		return nil, ErrNoExecutor
	}

	unlock, err := opts.Store.Lock(opts.Dir)
	if err != nil {
		return nil, err
	}
	defer release(ctx, unlock)

	var (
		files       []string
		skipped     []int
		headerLines int
	)

	if opts.Custom {
		files, headerLines, err = existing(ctx, opts)
		if err != nil {
			return nil, err
		}
	} else {
		ext, err := extract(ctx, opts)
		if err != nil {
			return nil, err
		}

		if !opts.Keep {
			defer func() {
				if err := opts.Store.RemoveAll(opts.Dir); err != nil {
					log.Warn("cannot remove extraction directory", "dir", opts.Dir, "err", err)
				}
			}()
		}

		files, headerLines = ext.Files, ext.HeaderLines

		for _, block := range ext.Skipped {
			skipped = append(skipped, block.Line())
		}
	}

	results, err := execute(ctx, opts, files, headerLines)
	if err != nil {
		return nil, err
	}

	return &Report{
		Summary: summarize(results, len(skipped)),
		Results: results,
		Skipped: skipped,
	}, nil
}

// existing lists the files of a custom extraction directory. The header is
// loaded only to learn how many lines it added to each file.
func existing(ctx context.Context, opts Options) ([]string, int, error) {
	pattern, err := glob.Compile(opts.Pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("pattern %q: %w", opts.Pattern, err)
	}

	names, err := opts.Store.List(opts.Dir)
	if err != nil {
		return nil, 0, err
	}

	var files []string

	for _, name := range names {
		if pattern.Match(name) {
			files = append(files, filepath.Join(opts.Dir, name))
		}
	}

	head, err := header.Load(ctx, opts.Header, opts.Lang)
	if err != nil {
		return nil, 0, err
	}

	return files, len(head), nil
}

func execute(ctx context.Context, opts Options, files []string, headerLines int) ([]Result, error) {
	mdDir, err := filepath.Abs(filepath.Dir(opts.File))
	if err != nil {
		return nil, err
	}

	resolve := DirResolver(mdDir)
	results := make([]Result, len(files))

	var group errgroup.Group
	if opts.Jobs > 0 {
		group.SetLimit(opts.Jobs)
	}

	for i, file := range files {
		i, file := i, file
		name := filepath.Base(file)

		group.Go(func() error {
			runCtx := ctx

			if opts.Timeout > 0 {
				var cancel context.CancelFunc

				runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}

			out, err := opts.Executor.Execute(runCtx, Request{Path: file, Name: name, Resolve: resolve, Args: opts.Args})
			if err != nil {
				return fmt.Errorf("execute %s: %w", name, err)
			}

			res := Correct(opts.File, name, headerLines)(out)
			results[i] = res

			if res.Pass {
				opts.Status("ok   %s:%d\n", res.FileName, res.LineNumber)
			} else {
				opts.Status("FAIL %s:%d\n", res.FileName, res.LineNumber)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// guard refuses an extraction directory that holds the Markdown file, since
// extraction empties the directory first.
func guard(dir, mdFile string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	absFile, err := filepath.Abs(mdFile)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(absDir, absFile)
	if err != nil {
		return nil
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}

	return fmt.Errorf("%w: %s holds %s", ErrSourceInDir, dir, mdFile)
}

func release(ctx context.Context, unlock func() error) {
	if err := unlock(); err != nil {
		ctxlog.FromContext(ctx).Warn("cannot release extraction directory", "err", err)
	}
}

// ErrSourceInDir is returned when the extraction directory contains the
// Markdown file.
var ErrSourceInDir = errors.New("extraction directory contains the Markdown file")

// ErrNoExecutor is returned by [Run] without an executor.
var ErrNoExecutor = errors.New("no executor for the checked language")
