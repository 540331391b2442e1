package mdcode

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// Meta holds the attributes written after the language in a fence info
// string, e.g. `sh title="setup" skip`.
type Meta map[string]string

// Keys returns the attribute names in sorted order.
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Has reports whether the attribute is present, with or without a value.
func (m Meta) Has(name string) bool {
	_, ok := m[name]

	return ok
}

var (
	reJSON     = regexp.MustCompile(`^\s*{\s*["}]`)
	reBrackets = regexp.MustCompile(`^\s*{(.*)}$`)
)

// parseMeta accepts a JSON object, a brace-wrapped attribute list or a bare
// shell-quoted attribute list. Words without '=' are flags with value "true".
func parseMeta(input string) (Meta, error) {
	meta := make(Meta)

	if len(strings.TrimSpace(input)) == 0 {
		return meta, nil
	}

	if reJSON.MatchString(input) {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(input), &raw); err != nil {
			return nil, err
		}

		for k, v := range raw {
			meta[k] = jsonString(v)
		}

		return meta, nil
	}

	if subs := reBrackets.FindStringSubmatch(input); subs != nil {
		input = subs[1]
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, err
	}

	for _, word := range words {
		if name, value, found := strings.Cut(word, "="); found {
			meta[name] = value
		} else {
			meta[word] = "true"
		}
	}

	return meta, nil
}

func jsonString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return string(data)
}
