package mdcode

import (
	"regexp"
	"strings"
)

// FenceMarker opens and closes a code block.
const FenceMarker = "```"

var reSkip = regexp.MustCompile(`^\s*<!--\s*(skip|skip-example)\s*-->\s*$`)

type state int

const (
	noBlock state = iota
	awaitingFirstLine
	inBlock
)

// Machine is the line scanner behind [Extract]. It is fed one line at a time,
// so callers may stream a document through it.
type Machine struct {
	open  string
	state state
	index int
	skip  bool
	block CodeBlock
}

// NewMachine returns a scanner that recognizes blocks opened by "```"+tag.
func NewMachine(tag string) *Machine {
	return &Machine{open: FenceMarker + tag}
}

// Step consumes the next document line. It returns the block closed by that
// line, if any.
func (m *Machine) Step(line string) (CodeBlock, bool) {
	index := m.index
	m.index++

	trimmed := strings.TrimSpace(line)

	switch m.state {
	case noBlock:
		switch {
		case trimmed == m.open:
			m.state = awaitingFirstLine
			m.block = CodeBlock{StartIndex: index + 1, Skip: m.skip}
		case trimmed == FenceMarker:
			m.skip = false
		case reSkip.MatchString(line):
			m.skip = true
		}

	case awaitingFirstLine:
		if trimmed == FenceMarker {
			m.reset()

			return CodeBlock{}, false
		}

		m.state = inBlock
		m.block.Data = append(m.block.Data, line)

	case inBlock:
		if trimmed == FenceMarker {
			block := m.block
			m.reset()

			return block, true
		}

		m.block.Data = append(m.block.Data, line)
	}

	return CodeBlock{}, false
}

func (m *Machine) reset() {
	m.state = noBlock
	m.skip = false
	m.block = CodeBlock{}
}

// Extract returns the blocks opened by "```"+tag in document order. Empty
// blocks and blocks left open at the end of lines are not returned. Blocks
// preceded by a skip comment are returned with Skip set.
func Extract(lines []string, tag string) []CodeBlock {
	var blocks []CodeBlock

	m := NewMachine(tag)

	for _, line := range lines {
		if block, ok := m.Step(line); ok {
			blocks = append(blocks, block)
		}
	}

	return blocks
}

// Retain splits blocks into the ones to execute and the skipped ones.
func Retain(blocks []CodeBlock) ([]CodeBlock, []CodeBlock) {
	var kept, skipped []CodeBlock

	for _, block := range blocks {
		if block.Skip {
			skipped = append(skipped, block)
		} else {
			kept = append(kept, block)
		}
	}

	return kept, skipped
}

// SplitLines splits src into lines. A trailing "\r" is removed from every line
// and a final newline does not produce an extra empty line.
func SplitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}

	lines := strings.Split(string(src), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
