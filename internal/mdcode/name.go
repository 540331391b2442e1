package mdcode

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const nameSeparator = "-"

var reStartIndex = regexp.MustCompile(`_(\d+)\.[^./\\]+$`)

// EncodeName builds the file name of an extracted block. The name carries the
// block's StartIndex so that it survives a round trip through a directory:
//
//	README-0003_41.sh
//
// The "_41" segment is omitted when start is -1. seq only orders the files.
func EncodeName(base string, seq, start int, ext string) string {
	var b strings.Builder

	b.WriteString(filepath.Base(filepath.FromSlash(base)))
	b.WriteString(nameSeparator)
	fmt.Fprintf(&b, "%04d", seq)

	if start >= 0 {
		b.WriteString("_")
		b.WriteString(strconv.Itoa(start))
	}

	b.WriteString(".")
	b.WriteString(Extension(ext))

	return b.String()
}

// DecodeName returns the StartIndex encoded in name by [EncodeName], or -1.
func DecodeName(name string) int {
	subs := reStartIndex.FindStringSubmatch(name)
	if subs == nil {
		return -1
	}

	start, err := strconv.Atoi(subs[1])
	if err != nil {
		return -1
	}

	return start
}

// Extension normalizes a file extension for [EncodeName].
func Extension(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	ext = strings.NewReplacer(".", "-", "/", "-", `\`, "-").Replace(ext)

	if len(ext) == 0 {
		return "txt"
	}

	return ext
}

// Stem returns the Markdown file name without directory and extension.
func Stem(filename string) string {
	base := filepath.Base(filename)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
