package check

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Resolver maps a relative reference made by a block to the path it must be
// read from. Executors start every block in Resolve("."), so relative paths
// follow the Markdown file the block comes from, not the extraction
// directory or the process working directory.
type Resolver func(ref string) string

// DirResolver resolves relative references against dir.
func DirResolver(dir string) Resolver {
	return func(ref string) string {
		if filepath.IsAbs(ref) {
			return ref
		}

		return filepath.Join(dir, ref)
	}
}

// Request asks an executor to run one extracted file.
type Request struct {
	// Path locates the file in the run's store.
	Path string
	// Name is the file name executors report in stacks.
	Name string
	// Resolve is the scoped resolution override for the block.
	Resolve Resolver
	// Args are positional parameters passed to the block.
	Args []string
}

// Executor runs an extracted file. A failing block is a normal Outcome with
// Pass unset; the error return is reserved for failures of the executor
// itself, such as an unreadable file.
type Executor interface {
	Execute(ctx context.Context, req Request) (Outcome, error)
}

func passed(output string) Outcome {
	return Outcome{Pass: true, LineNumber: 1, Output: output}
}

// failed builds a failure whose stack has a single frame pointing at
// name:line:col, and reads the line back from that stack.
func failed(name, message string, line, col uint, output string) Outcome {
	stack := fmt.Sprintf("%s\n    at %s:%d:%d", message, name, line, col)

	return Outcome{
		LineNumber: StackLine(stack, name),
		Err:        &ExecError{Message: message, Stack: stack},
		Output:     output,
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")

	return strings.TrimSpace(lines[len(lines)-1])
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if line, _, found := strings.Cut(s, "\n"); found {
		return strings.TrimSpace(line)
	}

	return s
}
