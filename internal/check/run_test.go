package check

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezerfernandes/mdcheck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readme = "# Example\n" +
	"\n" +
	"<!-- skip -->\n" +
	"```sh\n" +
	"exit 1\n" +
	"```\n" +
	"\n" +
	"```sh\n" +
	"echo ok\n" +
	"false\n" +
	"```\n" +
	"\n" +
	"```sh\n" +
	"echo fine #=> fine\n" +
	"```\n"

func writeDoc(t *testing.T, doc, head string) string {
	t.Helper()

	dir := t.TempDir()
	file := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o600))

	if len(head) > 0 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.header.sh"), []byte(head), 0o600))
	}

	return file
}

func memOptions(file string) (Options, *store.Memory) {
	mem := store.NewMemory()

	return Options{
		File:     file,
		Lang:     "sh",
		Store:    mem,
		Executor: &ShellExecutor{Files: mem, Mark: DefaultMark},
	}, mem
}

func TestRun(t *testing.T) {
	t.Parallel()

	for name, head := range map[string]string{"no header": "", "header": "set -u\nGREETING=hi\n"} {
		head := head

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			file := writeDoc(t, readme, head)
			opts, mem := memOptions(file)

			report, err := Run(context.Background(), opts)
			require.NoError(t, err)

			assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 1, Skipped: 1}, report.Summary)
			assert.False(t, report.OK())
			assert.Equal(t, []int{5}, report.Skipped)

			require.Len(t, report.Results, 2)

			failed := report.Results[0]
			assert.False(t, failed.Pass)
			assert.Equal(t, 10, failed.LineNumber)
			assert.Equal(t, file, failed.FileName)
			assert.Equal(t, "README-0000_8.sh", failed.Source)
			assert.Equal(t, "ok\n", failed.Output)

			passed := report.Results[1]
			assert.True(t, passed.Pass)
			assert.Equal(t, 14, passed.LineNumber)

			_, err = mem.List(DefaultDir(file))
			assert.Error(t, err, "extraction directory is removed")
		})
	}
}

func TestRunHeaderIsVisibleToBlocks(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, "text\n```sh\n[ \"$GREETING\" = hi ]\n```\n", "GREETING=hi\n")
	opts, _ := memOptions(file)

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 1, report.Summary.Passed)
}

func TestRunThrowingBlockWithHeader(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, "a\nb\n```sh\ntrue\ntrue\nexit 4\n```\n", "A=1\nB=2\nC=3\n")
	opts, _ := memOptions(file)
	opts.Jobs = 1

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	// "exit 4" is line 3 of the block, whose first line is line 4.
	assert.Equal(t, 6, report.Results[0].LineNumber)
	assert.Equal(t, "exit status 4", report.Results[0].Err.Message)
}

func TestRunKeepAndCustomDir(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, readme, "")
	opts, mem := memOptions(file)
	opts.Keep = true

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	names, err := mem.List(DefaultDir(file))
	require.NoError(t, err)
	assert.Equal(t, []string{"README-0000_8.sh", "README-0001_13.sh"}, names)

	require.NoError(t, mem.WriteFile(filepath.Join(DefaultDir(file), "notes.txt"), []byte("x")))

	opts.Custom = true

	report, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 2, Passed: 1, Failed: 1}, report.Summary)
	assert.Equal(t, 10, report.Results[0].LineNumber)
	assert.Equal(t, 14, report.Results[1].LineNumber)
}

func TestExtract(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, readme, "set -e\n")
	opts, mem := memOptions(file)

	ext, err := Extract(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, DefaultDir(file), ext.Dir)
	assert.Equal(t, 1, ext.HeaderLines)
	require.Len(t, ext.Skipped, 1)
	require.Len(t, ext.Blocks, 2)
	assert.Equal(t, 8, ext.Blocks[0].StartIndex)
	assert.Equal(t, 2, ext.Blocks[0].ContentStart())

	data, err := mem.ReadFile(ext.Files[0])
	require.NoError(t, err)
	assert.Equal(t, "set -e\necho ok\nfalse\n", string(data))
}

func TestExtractWritesToDisk(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, readme, "")

	ext, err := Extract(context.Background(), Options{File: file, Lang: "sh", Ext: ".bash"})
	require.NoError(t, err)
	require.Len(t, ext.Files, 2)

	assert.Equal(t, filepath.Join(DefaultDir(file), "README-0001_13.bash"), ext.Files[1])

	data, err := os.ReadFile(ext.Files[1])
	require.NoError(t, err)
	assert.Equal(t, "echo fine #=> fine\n", string(data))

	unlock, err := store.OS{}.Lock(DefaultDir(file))
	require.NoError(t, err, "lock is released")
	require.NoError(t, unlock())

	_, err = Extract(context.Background(), Options{File: file, Lang: "sh"})
	require.NoError(t, err, "an extraction directory can be extracted to again")

	assert.FileExists(t, filepath.Join(DefaultDir(file), store.Marker))
}

func TestExtractRefusesForeignDir(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, readme, "")
	dir := filepath.Join(filepath.Dir(file), "out")
	notes := filepath.Join(dir, "notes.txt")

	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(notes, []byte("mine"), 0o600))

	_, err := Extract(context.Background(), Options{File: file, Lang: "sh", Dir: dir})
	assert.ErrorIs(t, err, store.ErrNotOwned)
	assert.FileExists(t, notes)
}

func TestExtractRefusesSourceDir(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, readme, "")

	opts, _ := memOptions(file)
	opts.Dir = filepath.Dir(file)

	_, err := Extract(context.Background(), opts)
	assert.ErrorIs(t, err, ErrSourceInDir)

	_, err = Extract(context.Background(), Options{File: file, Lang: "sh", Dir: filepath.Dir(file)})
	assert.ErrorIs(t, err, ErrSourceInDir)
	assert.FileExists(t, file)
}

func TestGuard(t *testing.T) {
	t.Parallel()

	doc := filepath.FromSlash("/docs/README.md")

	assert.ErrorIs(t, guard(filepath.FromSlash("/docs"), doc), ErrSourceInDir)
	assert.ErrorIs(t, guard(filepath.FromSlash("/"), doc), ErrSourceInDir)
	assert.NoError(t, guard(filepath.FromSlash("/docs/.mdcheck-README"), doc))
	assert.NoError(t, guard(filepath.FromSlash("/other"), doc))
	assert.NoError(t, guard(filepath.FromSlash("/docs/..docs"), doc))
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	file := writeDoc(t, readme, "")

	opts, _ := memOptions(file)
	opts.Executor = nil

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoExecutor)

	opts, _ = memOptions(filepath.Join(filepath.Dir(file), "missing.md"))
	_, err = Run(context.Background(), opts)
	assert.Error(t, err)

	opts, mem := memOptions(file)
	unlock, err := mem.Lock(DefaultDir(file))
	require.NoError(t, err)
	defer unlock() //nolint:errcheck

	_, err = Run(context.Background(), opts)
	assert.ErrorIs(t, err, store.ErrLocked)
}

func TestBlocks(t *testing.T) {
	t.Parallel()

	blocks, err := Blocks(context.Background(), Options{File: writeDoc(t, readme, ""), Lang: "sh"})
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.True(t, blocks[0].Skip)
}
