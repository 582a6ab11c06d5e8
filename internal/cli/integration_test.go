package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/internal/cli"
	"github.com/yaklabco/gomdrender/pkg/fsutil"
	"github.com/yaklabco/gomdrender/pkg/reporter"
)

// run executes the root command with args and stdin, returning stdout,
// stderr and the exit code.
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), cli.ExitCode(err)
}

func writeDoc(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender_Stdin(t *testing.T) {
	t.Parallel()

	out, _, code := run(t, "# Hello\n\nSome *text*.\n", "render", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, `<h1 id="hello">`)
	assert.Contains(t, out, "<p>Some <em>text</em>.</p>")
	assert.NotContains(t, out, "<!DOCTYPE html>")
}

func TestRender_NoAnchors(t *testing.T) {
	t.Parallel()

	out, _, code := run(t, "# Plain\n", "render", "--no-anchors", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "<h1>Plain</h1>")
}

func TestRender_DocumentFormat(t *testing.T) {
	t.Parallel()

	out, _, code := run(t, "# Hi & bye\n\nbody\n", "render", "--format", "document", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Hi &amp; bye</title>")
	assert.Contains(t, out, "<p>body</p>")
	assert.Contains(t, out, "</html>")
}

func TestRender_Sanitizing(t *testing.T) {
	t.Parallel()

	input := "<div onclick=\"steal()\">x</div>\n"

	safe, _, code := run(t, input, "render", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.NotContains(t, safe, "onclick")

	raw, _, code := run(t, input, "render", "--unsafe", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, raw, `onclick="steal()"`)
}

func TestRender_Flavor(t *testing.T) {
	t.Parallel()

	input := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	gfm, _, code := run(t, input, "render", "--flavor", "gfm", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, gfm, "<table>")

	plain, _, code := run(t, input, "render", "--flavor", "commonmark", "-")
	require.Equal(t, cli.ExitSuccess, code)
	assert.NotContains(t, plain, "<table>")
}

func TestRender_OutDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeDoc(t, filepath.Join(dir, "a.md"), "# A\n")
	b := writeDoc(t, filepath.Join(dir, "sub", "b.md"), "# B\n")
	outDir := filepath.Join(dir, "out")

	_, _, code := run(t, "", "render", "--out", outDir, a, b)
	require.Equal(t, cli.ExitSuccess, code)

	// Sources outside the working directory keep only their base name.
	gotA, err := os.ReadFile(filepath.Join(outDir, "a.html"))
	require.NoError(t, err)
	assert.Contains(t, string(gotA), "<h1 id=\"a\">")
	gotB, err := os.ReadFile(filepath.Join(outDir, "b.html"))
	require.NoError(t, err)
	assert.Contains(t, string(gotB), "<h1 id=\"b\">")

	_, err = os.Stat(fsutil.BackupPath(filepath.Join(outDir, "a.html")))
	assert.True(t, os.IsNotExist(err))
}

func TestRender_Backup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeDoc(t, filepath.Join(dir, "doc.md"), "first\n")
	outDir := filepath.Join(dir, "site")
	target := filepath.Join(outDir, "doc.html")

	_, _, code := run(t, "", "render", "--out", outDir, "--backup", src)
	require.Equal(t, cli.ExitSuccess, code)

	writeDoc(t, src, "second\n")
	_, _, code = run(t, "", "render", "--out", outDir, "--backup", src)
	require.Equal(t, cli.ExitSuccess, code)

	current, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<p>second</p>\n", string(current))

	backup, err := os.ReadFile(fsutil.BackupPath(target))
	require.NoError(t, err)
	assert.Equal(t, "<p>first</p>\n", string(backup))
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  int
	}{
		{
			name:  "out with stdin",
			stdin: "x\n",
			args:  []string{"render", "--out", filepath.Join(dir, "out"), "-"},
			want:  cli.ExitInvalidUsage,
		},
		{
			name: "missing file",
			args: []string{"render", filepath.Join(dir, "missing.md")},
			want: cli.ExitIOError,
		},
		{
			name:  "unknown extension",
			stdin: "x\n",
			args:  []string{"render", "--enable", "bad", "-"},
			want:  cli.ExitConfigError,
		},
		{
			name: "unknown flag",
			args: []string{"render", "--bogus"},
			want: cli.ExitInvalidUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, code := run(t, tt.stdin, tt.args...)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestEvents(t *testing.T) {
	t.Parallel()

	out, _, code := run(t, "a\n", "events", "--width", "0")
	require.Equal(t, cli.ExitSuccess, code)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Start(Paragraph)"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), `Text("a")`))
	assert.True(t, strings.HasPrefix(lines[2], "End(Paragraph)"))
}

func TestEvents_Pipeline(t *testing.T) {
	t.Parallel()

	upper, _, code := run(t, "a\n", "events", "--width", "0", "--upper")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, upper, `Text("A")`)

	dropped, _, code := run(t, "a\n", "events", "--width", "0", "--drop", "text")
	require.Equal(t, cli.ExitSuccess, code)
	assert.NotContains(t, dropped, "Text(")
	assert.Contains(t, dropped, "Start(Paragraph)")

	_, _, code = run(t, "a\n", "events", "--drop", "Bogus")
	assert.Equal(t, cli.ExitInvalidUsage, code)
}

func TestBatch_Formats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "a.md"), "# A\n\ntext\n")
	writeDoc(t, filepath.Join(dir, "nested", "b.markdown"), "- one\n- two\n")
	writeDoc(t, filepath.Join(dir, "notes.txt"), "ignored\n")

	text, _, code := run(t, "", "batch", dir)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, text, "a.md\t")
	assert.Contains(t, text, "b.markdown\t")
	assert.NotContains(t, text, "notes.txt")
	assert.Contains(t, text, "(2 files processed)")

	table, _, code := run(t, "", "batch", "--format", "table", dir)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, table, "FILE")
	assert.Contains(t, table, "STATUS")
	assert.Contains(t, table, "2 files")

	summary, _, code := run(t, "", "batch", "--format", "summary", "--jobs", "1", dir)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, summary, "Files processed:")
	assert.Contains(t, summary, "All documents parsed cleanly")

	raw, _, code := run(t, "", "batch", "--format", "json", dir)
	require.Equal(t, cli.ExitSuccess, code)
	var report reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &report))
	assert.Len(t, report.Files, 2)
	assert.Equal(t, 2, report.Summary.FilesProcessed)

	_, _, code = run(t, "", "batch", "--format", "xml", dir)
	assert.Equal(t, cli.ExitInvalidUsage, code)
}

func TestBatch_Unsupported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "raw.md"), "<div>\nx\n</div>\n")

	out, _, code := run(t, "", "batch", "--unsupported", "HTMLBlock", dir)
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out, "1 findings")

	_, _, code = run(t, "", "batch", "--unsupported", "HTMLBlock", "--strict", dir)
	assert.Equal(t, cli.ExitFindings, code)

	_, _, code = run(t, "", "batch", "--skip", "Nope", dir)
	assert.Equal(t, cli.ExitInvalidUsage, code)
}

func TestInit(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "conf.yml")

	_, _, code := run(t, "", "init", "--output", target)
	require.Equal(t, cli.ExitSuccess, code)
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "render:")

	_, _, code = run(t, "", "init", "--output", target)
	assert.Equal(t, cli.ExitInvalidUsage, code)

	_, _, code = run(t, "", "init", "--output", target, "--force", "--full")
	assert.Equal(t, cli.ExitSuccess, code)

	_, _, code = run(t, "", "init", "--output", target, "--format", "toml")
	assert.Equal(t, cli.ExitInvalidUsage, code)
}
