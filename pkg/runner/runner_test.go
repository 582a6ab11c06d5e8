package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/pkg/event"
	"github.com/yaklabco/gomdrender/pkg/fsutil"
	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser"
	"github.com/yaklabco/gomdrender/pkg/runner"
)

func eventsOf(t *testing.T, src string, opts parser.Options) int {
	t.Helper()
	return event.Count(event.NewEmitter(nil).Document(parser.Parse([]byte(src), opts)))
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "# Title\n\nSome *text*.\n", "a.md", "docs/b.md")
	writeTree(t, dir, "", "empty.md")

	opts := runner.Options{WorkingDir: dir, Parse: parser.DefaultOptions(), Jobs: 2}
	result, err := runner.New(nil).Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, []string{"a.md", "docs/b.md", "empty.md"}, relative(t, dir, []string{
		result.Files[0].Path, result.Files[1].Path, result.Files[2].Path,
	}))

	want := eventsOf(t, "# Title\n\nSome *text*.\n", parser.DefaultOptions())
	assert.Equal(t, want, result.Files[0].Events)
	assert.Equal(t, want, result.Files[1].Events)
	assert.Zero(t, result.Files[2].Events)

	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 2*want, result.Stats.EventsTotal)
	assert.False(t, result.HasFailures())
	assert.False(t, result.HasWarnings())
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
}

func TestRunner_Run_Hooks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "<div>x</div>\n\nText\n", "a.md")

	hooks := event.Hooks{
		mdast.NodeHTMLBlock: func(*mdast.Node) event.HookResult { return event.HookUnsupported },
	}
	result, err := runner.New(hooks).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, 1, result.Files[0].Warnings)
	assert.Equal(t, 1, result.Stats.FilesWithWarnings)
	assert.True(t, result.HasWarnings())
}

func TestRunner_Run_UnreadableFile(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	dir := t.TempDir()
	writeTree(t, dir, "x", "ok.md", "locked.md")
	require.NoError(t, os.Chmod(filepath.Join(dir, "locked.md"), 0o000))

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.True(t, result.HasFailures())
	require.ErrorIs(t, result.Files[0].Error, fsutil.ErrPermissionDenied)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "x", "a.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(nil).Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 20 {
		writeTree(t, dir, "- item\n- [x] done\n\n> quote "+string(rune('a'+i))+"\n", filepath.Join("d", string(rune('a'+i))+".md"))
	}

	serial, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	parallel, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestRunner_CountEvents(t *testing.T) {
	t.Parallel()

	opts := parser.DefaultOptions()
	sources := [][]byte{
		[]byte("# A\n"),
		[]byte(""),
		[]byte("- a\n- b\n\n| x |\n|---|\n| 1 |\n"),
		[]byte(":::tab\n@tab One\nx\n:::\n"),
	}

	counts := runner.New(nil).CountEvents(sources, opts, 3)
	require.Len(t, counts, len(sources))
	for i, src := range sources {
		assert.Equal(t, eventsOf(t, string(src), opts), counts[i], "source %d", i)
	}

	assert.Empty(t, runner.New(nil).CountEvents(nil, opts, 0))
}
