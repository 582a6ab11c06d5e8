package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/pkg/fsutil"
)

func TestReadSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0o644))

	content, src, err := fsutil.ReadSource(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(content))
	assert.Equal(t, int64(8), src.Size)
	assert.Equal(t, path, src.Path)

	_, _, err = fsutil.ReadSource(context.Background(), filepath.Join(dir, "missing.md"), nil)
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadSource(context.Background(), dir, nil)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadSource(ctx, path, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadSource_Stdin(t *testing.T) {
	t.Parallel()

	content, src, err := fsutil.ReadSource(context.Background(), fsutil.StdinPath, strings.NewReader("*hi*"))
	require.NoError(t, err)
	assert.Equal(t, "*hi*", string(content))

	changed, err := fsutil.Changed(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	_, src, err := fsutil.ReadSource(ctx, path, nil)
	require.NoError(t, err)

	changed, err := fsutil.Changed(ctx, src)
	require.NoError(t, err)
	assert.False(t, changed)

	// Same size, later mod time.
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	later := src.ModTime.Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	changed, err = fsutil.Changed(ctx, src)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.Remove(path))
	changed, err = fsutil.Changed(ctx, src)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = fsutil.Changed(ctx, nil)
	require.ErrorIs(t, err, fsutil.ErrNilSource)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "nested", "doc.html")

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("<p>a</p>\n"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, fsutil.WriteAtomic(cancelled, path, nil, 0), context.Canceled)
}

func TestWriteIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.html")

	written, err := fsutil.WriteIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteIfChanged(ctx, path, []byte("a"), 0)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteIfChanged(ctx, path, []byte("b"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	base := filepath.FromSlash("/work")
	out := filepath.FromSlash("/site")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"top level", "/work/README.md", "/site/README.html"},
		{"nested", "/work/docs/guide/intro.markdown", "/site/docs/guide/intro.html"},
		{"outside base", "/elsewhere/notes.md", "/site/notes.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := fsutil.OutputPath(out, base, filepath.FromSlash(tt.source))
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.html")

	created, err := fsutil.Backup(ctx, path)
	require.NoError(t, err)
	assert.False(t, created, "nothing to back up")

	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	created, err = fsutil.Backup(ctx, path)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(path, []byte("newer"), 0o600))
	created, err = fsutil.Backup(ctx, path)
	require.NoError(t, err)
	assert.False(t, created, "existing backup is kept")

	got, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	info, err := os.Stat(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("<p>hello</p>\n"))
	f.Add([]byte("\x00\x01\x02\x03"))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "out.html")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, content, 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})
}
