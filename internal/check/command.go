package check

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// CommandExecutor runs each extracted file with an external command, e.g.
// "node {}". The command line is interpreted by the in-process shell with
// these placeholders expanded:
//
//	{}      absolute path of the extracted file
//	{name}  file name of the extracted file
//	{dir}   directory of the Markdown file
//
// Extra arguments are available to the command as "$@". The command must
// exit with 0 for the block to pass; on failure its standard error is the
// stack searched for the failing line.
type CommandExecutor struct {
	Command string
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Execute(ctx context.Context, req Request) (Outcome, error) {
	resolve := req.Resolve
	if resolve == nil {
		resolve = func(ref string) string { return ref }
	}

	dir := resolve(".")

	// The command runs in the Markdown directory, so a relative path would
	// point at the wrong file.
	path, err := filepath.Abs(req.Path)
	if err != nil {
		return Outcome{}, err
	}

	script := strings.NewReplacer(
		"{}", quote(path),
		"{name}", quote(req.Name),
		"{dir}", quote(dir),
	).Replace(e.Command)

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return Outcome{}, fmt.Errorf("parse command %q: %w", e.Command, err)
	}

	var stdout, stderr bytes.Buffer

	opts := []interp.RunnerOption{
		interp.Dir(dir),
		interp.StdIO(strings.NewReader(""), &stdout, &stderr),
	}

	if len(req.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, req.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return Outcome{}, err
	}

	err = runner.Run(ctx, file)
	if err == nil {
		return passed(stdout.String()), nil
	}

	msg := messageLine(stderr.String(), req.Name)
	if len(msg) == 0 {
		msg = err.Error()
		if status, ok := interp.IsExitStatus(err); ok {
			msg = fmt.Sprintf("exit status %d", status)
		}
	}

	return Outcome{
		LineNumber: StackLine(stderr.String(), req.Name),
		Err:        &ExecError{Message: msg, Stack: stderr.String()},
		Output:     stdout.String(),
	}, nil
}

// quote single-quotes s for the shell.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var reErrorLine = regexp.MustCompile(`^\w*(Error|Exception)\b`)

// messageLine picks the line of stderr that names the error, such as
// "SyntaxError: missing ) after argument list", or else the first line that
// is not a location.
func messageLine(stderr, name string) string {
	lines := strings.Split(stderr, "\n")

	for _, line := range lines {
		if line = strings.TrimSpace(line); reErrorLine.MatchString(line) {
			return line
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 0 && !strings.Contains(line, name) && strings.Trim(line, "^~ ") != "" {
			return line
		}
	}

	return firstLine(stderr)
}
