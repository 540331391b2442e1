// Package report prints check results for humans.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezerfernandes/mdcheck/internal/check"
	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rodaine/table"
)

const (
	linesBefore = 3
	linesAfter  = 1
)

// Printer writes reports, in color when its writer is a terminal.
type Printer struct {
	w io.Writer

	fail *color.Color
	warn *color.Color
	ok   *color.Color
	path *color.Color
	dim  *color.Color
	bold *color.Color

	failCount *color.Color
	skipCount *color.Color
	passCount *color.Color
}

// New returns a Printer for w.
func New(w io.Writer) *Printer {
	return NewWithColor(w, isTerminal(w))
}

// NewWithColor returns a Printer for w with colors forced on or off.
func NewWithColor(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:    w,
		fail: color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		ok:   color.New(color.FgGreen),
		path: color.New(color.FgBlue),
		dim:  color.New(color.FgHiBlack),
		bold: color.New(color.FgWhite, color.Bold),

		failCount: color.New(color.FgRed, color.Bold),
		skipCount: color.New(color.FgYellow, color.Bold),
		passCount: color.New(color.FgGreen, color.Bold),
	}

	for _, c := range []*color.Color{p.fail, p.warn, p.ok, p.path, p.dim, p.bold, p.failCount, p.skipCount, p.passCount} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Failures prints every failed result. source holds the Markdown lines and
// may be nil.
func (p *Printer) Failures(rep *check.Report, source []string) {
	for _, res := range rep.Failures() {
		p.failure(res, source)
	}
}

func (p *Printer) failure(res check.Result, source []string) {
	location := p.path.Sprint(res.FileName)
	if res.LineNumber > 0 {
		location += p.dim.Sprint(":", res.LineNumber)
	}

	fmt.Fprintf(p.w, "%s %s\n", p.fail.Sprint("!!!"), location)

	if res.Err != nil {
		fmt.Fprintf(p.w, "%s: %s\n", p.fail.Sprint("Error"), res.Err.Message)
	}

	if out := strings.TrimRight(res.Output, "\n"); len(out) > 0 {
		fmt.Fprintln(p.w, p.dim.Sprint("  output:"))

		for _, line := range strings.Split(out, "\n") {
			fmt.Fprintf(p.w, "    %s\n", line)
		}
	}

	if len(source) > 0 && res.LineNumber > 0 {
		fmt.Fprintln(p.w)
		p.sourceAround(source, "    ", res.LineNumber)
	}

	fmt.Fprintln(p.w)
}

// sourceAround prints the lines around the 1-based line, marking it with '>'.
func (p *Printer) sourceAround(lines []string, padding string, line int) {
	start := max(line-1-linesBefore, 0)
	end := min(line+linesAfter, len(lines))

	for i := start; i < end; i++ {
		marker := " "
		if i+1 == line {
			marker = ">"
		}

		text := fmt.Sprintf("%s%s%5d | %s", padding, marker, i+1, lines[i])
		if i+1 == line {
			text = p.bold.Sprint(text)
		}

		fmt.Fprintln(p.w, text)
	}
}

// Summary prints the counts of a run, e.g. "Blocks: 1 failed, 2 passed, 3 total".
func (p *Printer) Summary(sum check.Summary, label string) {
	var parts []string

	if sum.Failed > 0 {
		parts = append(parts, p.failCount.Sprintf("%d failed", sum.Failed))
	}

	if sum.Skipped > 0 {
		parts = append(parts, p.skipCount.Sprintf("%d skipped", sum.Skipped))
	}

	if sum.Passed > 0 {
		parts = append(parts, p.passCount.Sprintf("%d passed", sum.Passed))
	}

	parts = append(parts, fmt.Sprintf("%d total", sum.Total))

	fmt.Fprintf(p.w, "%s:\t%s\n", label, strings.Join(parts, ", "))
}

// Blocks prints a table of the blocks of a document.
func (p *Printer) Blocks(blocks []mdcode.CodeBlock, base, ext string) {
	tbl := table.New("#", "Line", "Lines", "Skip", "File").
		WithWriter(p.w).
		WithHeaderFormatter(p.bold.SprintfFunc())

	seq := 0

	for i, block := range blocks {
		file := "-"
		if !block.Skip {
			file = mdcode.EncodeName(base, seq, block.StartIndex, ext)
			seq++
		}

		tbl.AddRow(i, block.Line(), len(block.Data), block.Skip, file)
	}

	tbl.Print()
}

// Findings prints lint findings.
func (p *Printer) Findings(file string, findings []mdcode.Finding) {
	for _, f := range findings {
		fmt.Fprintf(p.w, "%s%s %s\n", p.path.Sprint(file), p.dim.Sprint(":", f.Line), p.warn.Sprint(f.Message))
	}
}
