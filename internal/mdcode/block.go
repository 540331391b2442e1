package mdcode

// CodeBlock is a fenced code block of the checked language, as found by the
// line scanner.
type CodeBlock struct {
	// StartIndex is the 0-based index, within the Markdown document, of the
	// line following the opening fence. Header injection never changes it.
	StartIndex int
	// Data holds the block lines verbatim, without line terminators.
	Data []string
	// Skip is set when a skip comment preceded the block.
	Skip bool
	// HeaderLines is the number of injected header lines at the top of Data.
	HeaderLines int
}

// ContentStart returns the 1-based line, within Data, of the first line that
// came from the Markdown document.
func (b CodeBlock) ContentStart() int {
	return b.HeaderLines + 1
}

// Line returns the 1-based Markdown line of the first content line.
func (b CodeBlock) Line() int {
	return b.StartIndex + 1
}

// Fence is a fenced code block as seen by the goldmark parser.
type Fence struct {
	Lang      string
	Info      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int
	Tilde     bool
	Nested    bool
}

type Fences []*Fence
