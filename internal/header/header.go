// Package header loads the lines prepended to every extracted code block.
package header

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/mdcheck/internal/ctxlog"
	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/ezerfernandes/mdcheck/internal/region"
)

// Path returns the conventional header file of a Markdown file:
// docs/README.md checked as sh uses docs/README.header.sh.
func Path(mdFile, tag string) string {
	name := mdcode.Stem(mdFile) + ".header." + mdcode.Extension(tag)

	return filepath.Join(filepath.Dir(mdFile), name)
}

// Load reads the header file at path. A missing file is an empty header.
// When the file has a region named after tag, only that region is used.
func Load(ctx context.Context, path, tag string) ([]string, error) {
	log := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no header file", "path", path)

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	lines := mdcode.SplitLines(src)

	section, found, err := region.Read(lines, tag)
	if err != nil {
		return nil, fmt.Errorf("header %s: %w", path, err)
	}

	if found {
		lines = section
	}

	log.Debug("header loaded", "path", path, "lines", len(lines), "region", found)

	return lines, nil
}
