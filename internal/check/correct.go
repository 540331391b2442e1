package check

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ezerfernandes/mdcheck/internal/mdcode"
)

// Correct returns a function mapping an outcome of the extracted file
// extractedName onto the Markdown file mdName.
//
// The executor reports lines of the extracted file, which starts with
// headerLines injected lines. The file name carries the 0-based index of the
// block's first Markdown line, so
//
//	reported = max(local-headerLines, 1) + origin
//
// An unknown local line (-1) and a line inside the header both report the
// first line of the block.
func Correct(mdName, extractedName string, headerLines int) func(Outcome) Result {
	origin := mdcode.DecodeName(extractedName)
	if origin < 0 {
		origin = 0
	}

	return func(out Outcome) Result {
		return Result{
			FileName:   mdName,
			LineNumber: max(out.LineNumber-headerLines, 1) + origin,
			Pass:       out.Pass,
			Err:        out.Err,
			Output:     out.Output,
			Source:     extractedName,
		}
	}
}

var reLineSuffix = regexp.MustCompile(`:(\d+)(?::\d+)?\)?\s*$`)

// StackLine finds the first line of stack mentioning fileName and returns the
// line number of its ":line" or ":line:column" suffix, or -1.
func StackLine(stack, fileName string) int {
	if len(fileName) == 0 {
		return -1
	}

	for _, frame := range strings.Split(stack, "\n") {
		if !strings.Contains(frame, fileName) {
			continue
		}

		return frameLine(frame)
	}

	return -1
}

func frameLine(frame string) int {
	subs := reLineSuffix.FindStringSubmatch(frame)
	if subs == nil {
		return -1
	}

	line, err := strconv.Atoi(subs[1])
	if err != nil {
		return -1
	}

	return line
}
