// Package region selects named #region/#endregion sections in line-oriented
// source, such as a header file shared by several languages.
package region

import (
	"errors"
	"regexp"
)

const (
	reSpec  = `[!"#$%&'()*+,\-./:;<=>?@[\\\]^_{|}~]`
	reBlank = `[[:blank:]]*`
)

var (
	reStart = regexp.MustCompile(`^` + reBlank + reSpec + `+` + reBlank + `#region[[:blank:]]+([\w.+-]+)` + reBlank + reSpec + `*` + reBlank + `$`)
	reEnd   = regexp.MustCompile(`^` + reBlank + reSpec + `+` + reBlank + `#endregion(?:[[:blank:]]+([\w.+-]+))?` + reBlank + reSpec + `*` + reBlank + `$`)
)

// Section is a named region. Start and End are 0-based indices of the
// marker lines.
type Section struct {
	Name  string
	Start int
	End   int
}

// Sections lists the regions of lines in order. Regions do not nest.
func Sections(lines []string) ([]Section, error) {
	var (
		sections []Section
		open     *Section
	)

	for i, line := range lines {
		if open == nil {
			if subs := reStart.FindStringSubmatch(line); subs != nil {
				open = &Section{Name: subs[1], Start: i}
			}

			continue
		}

		subs := reEnd.FindStringSubmatch(line)
		if subs == nil {
			continue
		}

		if name := subs[1]; name != "" && name != open.Name {
			continue
		}

		open.End = i
		sections = append(sections, *open)
		open = nil
	}

	if open != nil {
		return nil, ErrMissingEndregion
	}

	return sections, nil
}

// Read returns the lines between the markers of the named region. The bool
// result reports whether the region exists.
func Read(lines []string, name string) ([]string, bool, error) {
	sections, err := Sections(lines)
	if err != nil {
		return nil, false, err
	}

	for _, s := range sections {
		if s.Name == name {
			return lines[s.Start+1 : s.End], true, nil
		}
	}

	return nil, false, nil
}

// ErrMissingEndregion is returned when a #region marker has no matching
// #endregion.
var ErrMissingEndregion = errors.New("missing #endregion")
