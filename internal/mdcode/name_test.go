package mdcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "README-0003_41.sh", EncodeName("README", 3, 41, "sh"))
	assert.Equal(t, "README-0003.sh", EncodeName("README", 3, -1, "sh"))
	assert.Equal(t, "guide-0000_0.js", EncodeName("docs/guide", 0, 0, ".js"))
	assert.Equal(t, "x-0012_7.txt", EncodeName("x", 12, 7, ""))
	assert.Equal(t, "x-0001_7.test-js", EncodeName("x", 1, 7, "test.js"))
}

func TestNameRoundTrip(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"README", "file_12", "v1.2", "a_1.b", "dir/_example-1"} {
		for _, start := range []int{-1, 0, 1, 9, 76, 123456} {
			for _, ext := range []string{"sh", "js", "", "tar.gz"} {
				name := EncodeName(base, 4, start, ext)
				assert.Equal(t, start, DecodeName(name), name)
			}
		}
	}
}

func TestDecodeName(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"file_123.xy":                    123,
		"./tmp/file-20_30_1.xyz":         1,
		"_1.js":                          1,
		"/tmp/.mdcheck/README-0001_0.sh": 0,
		"file_.xy":                       -1,
		"file.x":                         -1,
		"123":                            -1,
		"":                               -1,
		"README-0004.sh":                 -1,
		"file_99999999999999999999.sh":   -1,
	}

	for name, want := range tests {
		assert.Equal(t, want, DecodeName(name), name)
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "README", Stem("docs/README.md"))
	assert.Equal(t, "notes", Stem("notes"))
}
