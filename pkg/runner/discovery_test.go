package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/pkg/runner"
)

// writeTree creates files under dir, each holding content.
func writeTree(t *testing.T, dir, content string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relative returns the discovered paths relative to dir, slash separated.
func relative(t *testing.T, dir string, files []string) []string {
	t.Helper()
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := []string{
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/.secret.md",
		"vendor/pkg/doc.md",
		"node_modules/lib/readme.md",
		".git/config.md",
		".hidden.md",
		"src/main.go",
		"notes.txt",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "directory with default extensions",
			opts: runner.Options{},
			want: []string{
				"docs/api.markdown", "docs/guide.md", "node_modules/lib/readme.md", "readme.md", "vendor/pkg/doc.md",
			},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".TXT"}},
			want: []string{"notes.txt"},
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "**/node_modules"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "readme.md"},
		},
		{
			name: "exclude by base name",
			opts: runner.Options{ExcludeGlobs: []string{"readme.md"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "vendor/pkg/doc.md"},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/api.markdown", "docs/guide.md"},
		},
		{
			name: "multiple paths",
			opts: runner.Options{Paths: []string{"docs", "vendor"}},
			want: []string{"docs/api.markdown", "docs/guide.md", "vendor/pkg/doc.md"},
		},
		{
			name: "duplicates removed",
			opts: runner.Options{Paths: []string{"readme.md", "./readme.md", "readme.md"}},
			want: []string{"readme.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeTree(t, dir, "# x\n", tree...)

			opts := tt.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relative(t, dir, files))
		})
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "# Test", "readme.md")
	mdFile := filepath.Join(dir, "readme.md")

	files, err := runner.Discover(context.Background(), runner.Options{Paths: []string{mdFile}, WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{mdFile}, files)
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{Paths: []string{"nonexistent"}, WorkingDir: dir})
	require.Error(t, err)

	_, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, ExcludeGlobs: []string{"[unclosed"}})
	require.ErrorContains(t, err, "invalid glob")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DeterministicOrdering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "content", "z.md", "a.md", "m.md", "b.md")

	first, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md", "m.md", "z.md"}, relative(t, dir, first))

	for range 4 {
		again, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "content", "real/doc.md")

	external := t.TempDir()
	writeTree(t, external, "external", "external.md")

	if err := os.Symlink(filepath.Join(dir, "real", "doc.md"), filepath.Join(dir, "link.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(external, filepath.Join(dir, "linked")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"link.md", "real/doc.md"}, relative(t, dir, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.True(t, slices.ContainsFunc(files, func(f string) bool { return filepath.Base(f) == "external.md" }))
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t, []string{".md", ".markdown"}, runner.DefaultExtensions())
}
