package mdcode

import (
	"fmt"
	"sort"
	"strings"
)

// Finding is a disagreement between the line scanner and goldmark.
type Finding struct {
	Line    int
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("L%d: %s", f.Line, f.Message)
}

// Lint compares the blocks [Extract] finds for tag with the fenced code
// blocks a CommonMark renderer finds. Blocks that only one of them sees are
// reported, so authors notice examples that are rendered but never checked,
// or checked but never rendered as code.
func Lint(source []byte, tag string) ([]Finding, error) {
	fences, err := ParseFences(source)
	if err != nil {
		return nil, err
	}

	scanned := make(map[int]bool)
	for _, block := range Extract(SplitLines(source), tag) {
		scanned[block.StartIndex] = true
	}

	var findings []Finding

	rendered := make(map[int]bool)

	for _, fence := range fences {
		if fence.Lang != tag || len(fence.Code) == 0 {
			continue
		}

		// StartLine is 1-based, so it is also the 0-based index of the
		// first content line.
		rendered[fence.StartLine] = true

		if scanned[fence.StartLine] {
			continue
		}

		findings = append(findings, Finding{Line: fence.StartLine, Message: reason(fence, tag)})
	}

	for start := range scanned {
		if !rendered[start] {
			findings = append(findings, Finding{
				Line:    start,
				Message: fmt.Sprintf("%q block is not a fenced code block for Markdown renderers", tag),
			})
		}
	}

	sortFindings(findings)

	return findings, nil
}

func reason(fence *Fence, tag string) string {
	switch {
	case fence.Tilde:
		return fmt.Sprintf("%q block uses a tilde fence and is not checked", tag)
	case fence.Nested:
		return fmt.Sprintf("%q block is nested in a quote or list and is not checked", tag)
	case len(fence.Meta) > 0:
		return fmt.Sprintf("%q block has attributes (%s) and is not checked", tag, strings.Join(fence.Meta.Keys(), ", "))
	default:
		return fmt.Sprintf("%q block is not checked", tag)
	}
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Line < findings[j].Line
	})
}
