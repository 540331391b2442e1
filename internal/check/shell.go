package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ezerfernandes/mdcheck/internal/ctxlog"
	"github.com/ezerfernandes/mdcheck/internal/store"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultMark introduces an output assertion in a shell comment:
//
//	echo $((1 + 2)) #=> 3
const DefaultMark = "=>"

// ShellLangs are the fence tags the shell executor understands.
var ShellLangs = []string{"sh", "bash", "shell"}

// ShellExecutor runs blocks with the in-process POSIX shell interpreter. Each
// block gets its own runner, so blocks never share variables, functions or
// working directory.
type ShellExecutor struct {
	Files store.Store
	// Mark enables output assertions; empty disables them.
	Mark string
}

var _ Executor = (*ShellExecutor)(nil)

func (e *ShellExecutor) Execute(ctx context.Context, req Request) (Outcome, error) {
	log := ctxlog.FromContext(ctx)

	src, err := e.Files.ReadFile(req.Path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read %s: %w", req.Path, err)
	}

	file, err := syntax.NewParser(syntax.KeepComments(true)).Parse(bytes.NewReader(src), req.Name)
	if err != nil {
		return parseFailure(req.Name, err), nil
	}

	var stdout, stderr bytes.Buffer

	runner, err := interp.New(e.options(req, &stdout, &stderr)...)
	if err != nil {
		return Outcome{}, err
	}

	assertions := e.assertions(file)

	if line, ok := strayAssertion(assertions, file.Stmts); ok {
		msg := fmt.Sprintf("assertion %q does not follow a top-level command", assertions[line])

		return failed(req.Name, msg, line, 1, ""), nil
	}

	for _, stmt := range file.Stmts {
		start := stdout.Len()

		err := runner.Run(ctx, stmt)
		if err != nil {
			log.Debug("statement failed", "file", req.Name, "line", stmt.Pos().Line(), "err", err)

			return failed(req.Name, runError(err, stderr.String()), stmt.Pos().Line(), stmt.Pos().Col(), stdout.String()), nil
		}

		if runner.Exited() {
			break
		}

		expected, ok := assertions[stmt.End().Line()]
		if !ok {
			continue
		}

		got := strings.TrimSpace(stdout.String()[start:])
		if got != expected {
			msg := fmt.Sprintf("output %q does not match %q", got, expected)

			return failed(req.Name, msg, stmt.End().Line(), stmt.Pos().Col(), stdout.String()), nil
		}
	}

	return passed(stdout.String()), nil
}

func (e *ShellExecutor) options(req Request, stdout, stderr io.Writer) []interp.RunnerOption {
	resolve := req.Resolve
	if resolve == nil {
		resolve = func(ref string) string { return ref }
	}

	opts := []interp.RunnerOption{
		interp.Dir(resolve(".")),
		interp.StdIO(strings.NewReader(""), stdout, stderr),
	}

	if len(req.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, req.Args...)...))
	}

	return opts
}

// assertions maps a line number to the output expected from the statement
// ending on that line.
func (e *ShellExecutor) assertions(file *syntax.File) map[uint]string {
	found := make(map[uint]string)

	if len(e.Mark) == 0 {
		return found
	}

	syntax.Walk(file, func(node syntax.Node) bool {
		if c, ok := node.(*syntax.Comment); ok {
			if text := strings.TrimSpace(c.Text); strings.HasPrefix(text, e.Mark) {
				found[c.Hash.Line()] = strings.TrimSpace(strings.TrimPrefix(text, e.Mark))
			}
		}

		return true
	})

	return found
}

// strayAssertion returns the first assertion line on which no top-level
// statement ends. Such assertions would never be compared.
func strayAssertion(assertions map[uint]string, stmts []*syntax.Stmt) (uint, bool) {
	ends := make(map[uint]bool, len(stmts))
	for _, stmt := range stmts {
		ends[stmt.End().Line()] = true
	}

	var first uint

	for line := range assertions {
		if !ends[line] && (first == 0 || line < first) {
			first = line
		}
	}

	return first, first > 0
}

func parseFailure(name string, err error) Outcome {
	var perr syntax.ParseError
	if errors.As(err, &perr) {
		return failed(name, "syntax error: "+perr.Text, perr.Pos.Line(), perr.Pos.Col(), "")
	}

	var lerr syntax.LangError
	if errors.As(err, &lerr) {
		// Error() starts with the position, which must stay out of the
		// first stack line.
		msg := lerr.Error()
		if _, text, found := strings.Cut(msg, lerr.Pos.String()+": "); found {
			msg = text
		}

		return failed(name, "syntax error: "+msg, lerr.Pos.Line(), lerr.Pos.Col(), "")
	}

	return Outcome{LineNumber: -1, Err: &ExecError{Message: err.Error()}}
}

func runError(err error, stderr string) string {
	msg := err.Error()
	if status, ok := interp.IsExitStatus(err); ok {
		msg = fmt.Sprintf("exit status %d", status)
	}

	if tail := lastLine(stderr); len(tail) > 0 {
		return tail + " (" + msg + ")"
	}

	return msg
}
