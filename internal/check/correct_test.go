package check

import (
	"testing"

	"github.com/ezerfernandes/mdcheck/internal/mdcode"
	"github.com/stretchr/testify/assert"
)

func TestCorrect(t *testing.T) {
	t.Parallel()

	name := mdcode.EncodeName("README", 0, 10, "js")
	boom := &ExecError{Message: "boom"}

	tests := []struct {
		name        string
		file        string
		headerLines int
		outcome     Outcome
		want        int
	}{
		{"failure below header", name, 2, Outcome{LineNumber: 5, Err: boom}, 13},
		{"failure without header", name, 0, Outcome{LineNumber: 5, Err: boom}, 15},
		{"failure inside header", name, 2, Outcome{LineNumber: 1, Err: boom}, 11},
		{"unknown line", name, 2, Outcome{LineNumber: -1, Err: boom}, 11},
		{"pass", name, 3, Outcome{Pass: true, LineNumber: 1}, 11},
		{"name without start", "README-0000.js", 2, Outcome{LineNumber: 5, Err: boom}, 3},
		{"foreign name", "snippet.js", 0, Outcome{LineNumber: 4, Err: boom}, 4},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Correct("docs/README.md", tt.file, tt.headerLines)(tt.outcome)

			assert.Equal(t, tt.want, res.LineNumber)
			assert.Equal(t, "docs/README.md", res.FileName)
			assert.Equal(t, tt.file, res.Source)
			assert.Equal(t, tt.outcome.Pass, res.Pass)
			assert.Equal(t, tt.outcome.Err, res.Err)
		})
	}
}

func TestFrameLine(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"file.xy:123":              123,
		"./tmp/file-20_30:1.xyz:2": 2,
		"_.js:1":                   1,
		"file.xy:122:45":           122,
		"at f (/tmp/a.js:9:2)  ":   9,
		"at /tmp/a.js:9)":          9,
		"file_.xy:":                -1,
		"file.x":                   -1,
		"123":                      -1,
		"":                         -1,
	}

	for frame, want := range tests {
		assert.Equal(t, want, frameLine(frame), frame)
	}
}

const syntaxStack = `examples/example-1_hh/_example-1_0004_76.js:7
    console.log("hu!";
                ^^^^^

    SyntaxError: missing ) after argument list
        at new Script (node:vm:116:7)
        at createScript (node:vm:268:10)
        at Object.runInContext (node:vm:299:10)
        at doCheck (/home/user/hoohoo/src/code-test-service.js:25:8)
        at async Promise.all (index 3)`

const requireStack = `- /home/user/hoohoo/src/code-test-service.js
    - /home/user/hoohoo/src/main.js
        at Module._resolveFilename (node:internal/modules/cjs/loader:1143:15)
        at require (/home/user/hoohoo/src/code-test-service.js:53:12)
        at examples/example-1_hh/_example-1_0004_76.js:5:13
        at Script.runInContext (node:vm:148:12)
        at async Promise.all (index 3) {`

func TestStackLine(t *testing.T) {
	t.Parallel()

	const name = "_example-1_0004_76.js"

	assert.Equal(t, 7, StackLine(syntaxStack, name))
	assert.Equal(t, 5, StackLine(requireStack, name))
	assert.Equal(t, -1, StackLine("- /home/user/hoohoo/src/code-test-service.js", name))
	assert.Equal(t, -1, StackLine("", name))
	assert.Equal(t, -1, StackLine(syntaxStack, ""))
	assert.Equal(t, -1, StackLine("Error in _example-1_0004_76.js\n    at _example-1_0004_76.js:3", name),
		"only the first frame naming the file counts")
	assert.Equal(t, 3, StackLine("boom\n    at README-0001_3.sh:3:1\n", "README-0001_3.sh"))
}

func TestReport(t *testing.T) {
	t.Parallel()

	results := []Result{{Pass: true}, {Pass: false, LineNumber: 4}, {Pass: true}}
	report := &Report{Summary: summarize(results, 2), Results: results}

	assert.Equal(t, Summary{Total: 5, Passed: 2, Failed: 1, Skipped: 2}, report.Summary)
	assert.False(t, report.OK())
	assert.Equal(t, []Result{{Pass: false, LineNumber: 4}}, report.Failures())

	skippedOnly := &Report{Summary: summarize(nil, 3)}
	assert.True(t, skippedOnly.OK())
}
