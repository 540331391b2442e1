package mdcode

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var reInfo = regexp.MustCompile(`^\s*([\w+#.-]+)\s*(.*?)\s*$`)

// ParseFences parses a Markdown document with goldmark and returns every
// fenced code block a Markdown renderer would show, in document order.
func ParseFences(source []byte) (Fences, error) {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var fences Fences

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		fence, err := extractFence(fcb, source)
		if err != nil {
			return ast.WalkStop, err
		}

		fences = append(fences, fence)

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func extractFence(fcb *ast.FencedCodeBlock, source []byte) (*Fence, error) {
	fence := &Fence{Code: extractCode(fcb, source)}

	if fcb.Info != nil {
		fence.Info = string(fcb.Info.Text(source))

		var err error

		fence.Lang, fence.Meta, err = parseInfo(fence.Info)
		if err != nil {
			return nil, err
		}

		prefix := bytes.TrimRight(linePrefix(source, fcb.Info.Segment.Start), " \t")
		fence.Tilde = bytes.HasSuffix(prefix, []byte("~"))
		fence.Nested = len(bytes.TrimSpace(bytes.TrimRight(prefix, "`~"))) > 0
	}

	fence.StartLine, fence.EndLine = extractLines(fcb, source)

	return fence, nil
}

// linePrefix returns the bytes between the start of the line holding offset
// and offset itself.
func linePrefix(source []byte, offset int) []byte {
	if offset > len(source) {
		offset = len(source)
	}

	start := bytes.LastIndexByte(source[:offset], '\n') + 1

	return source[start:offset]
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var startLine, endLine int

	lines := fcb.Lines()

	if fcb.Info != nil {
		startLine = lineAt(source, fcb.Info.Segment.Start)
	} else if lines.Len() > 0 {
		startLine = lineAt(source, lines.At(0).Start) - 1
	}

	if lines.Len() > 0 {
		endLine = lineAt(source, lines.At(lines.Len()-1).Start)
	} else if startLine > 0 {
		endLine = startLine
	}

	return startLine, endLine
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte("\n")) + 1
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	return buff.Bytes()
}

func parseInfo(info string) (string, Meta, error) {
	all := reInfo.FindStringSubmatch(info)
	if all == nil {
		return "", Meta{}, nil
	}

	meta, err := parseMeta(all[2])

	return all[1], meta, err
}
