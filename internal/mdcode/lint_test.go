package mdcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFences(t *testing.T) {
	t.Parallel()

	source := []byte("text\n\n```sh {\"a\":1}\necho hi\n```\n\n```go skip title=\"x y\"\npackage main\n```\n")

	fences, err := ParseFences(source)
	require.NoError(t, err)
	require.Len(t, fences, 2)

	assert.Equal(t, "sh", fences[0].Lang)
	assert.Equal(t, Meta{"a": "1"}, fences[0].Meta)
	assert.Equal(t, 3, fences[0].StartLine)
	assert.Equal(t, 4, fences[0].EndLine)
	assert.Equal(t, "echo hi\n", string(fences[0].Code))
	assert.False(t, fences[0].Tilde)
	assert.False(t, fences[0].Nested)

	assert.Equal(t, "go", fences[1].Lang)
	assert.Equal(t, Meta{"skip": "true", "title": "x y"}, fences[1].Meta)
	assert.True(t, fences[1].Meta.Has("skip"))
	assert.Equal(t, []string{"skip", "title"}, fences[1].Meta.Keys())
}

func TestLint(t *testing.T) {
	t.Parallel()

	source := []byte("# Title\n\n```sh\necho ok\n```\n\n~~~sh\necho tilde\n~~~\n\n> ```sh\n> echo quoted\n> ```\n\n```sh title=x\necho meta\n```\n")

	findings, err := Lint(source, "sh")
	require.NoError(t, err)
	require.Len(t, findings, 3)

	assert.Equal(t, 7, findings[0].Line)
	assert.Contains(t, findings[0].Message, "tilde")
	assert.Equal(t, 11, findings[1].Line)
	assert.Contains(t, findings[1].Message, "nested")
	assert.Equal(t, 15, findings[2].Line)
	assert.Contains(t, findings[2].Message, "attributes (title)")
}

func TestLintBlockInsideHTML(t *testing.T) {
	t.Parallel()

	findings, err := Lint([]byte("<details>\n```sh\necho hi\n```\n</details>\n"), "sh")
	require.NoError(t, err)
	require.Len(t, findings, 1)

	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, `L2: "sh" block is not a fenced code block for Markdown renderers`, findings[0].String())
}

func TestLintClean(t *testing.T) {
	t.Parallel()

	findings, err := Lint([]byte("```sh\necho 1\n```\n\n```js\nx\n```\n"), "sh")
	require.NoError(t, err)
	assert.Empty(t, findings)
}
