package pretty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdrender/internal/ui/pretty"
	"github.com/yaklabco/gomdrender/pkg/runner"
)

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stats    runner.Stats
		contains []string
		excludes []string
	}{
		{
			name:     "clean run",
			stats:    runner.Stats{FilesProcessed: 5, EventsTotal: 120, BytesTotal: 900},
			contains: []string{"Summary", "Files processed:     5", "Events:              120", "All documents parsed cleanly"},
			excludes: []string{"Files with findings", "Files unreadable"},
		},
		{
			name:     "findings",
			stats:    runner.Stats{FilesProcessed: 3, FilesWithWarnings: 2, WarningsTotal: 4},
			contains: []string{"Files with findings: 2", "Findings:            4", "Parsed with findings"},
		},
		{
			name:     "unreadable files win",
			stats:    runner.Stats{FilesProcessed: 1, FilesErrored: 1, WarningsTotal: 1},
			contains: []string{"Files unreadable:    1", "Some files could not be read"},
		},
	}

	styles := pretty.NewStyles(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := styles.FormatSummary(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "1 event, no findings (1 file processed)\n",
		styles.FormatSummaryOneLine(runner.Stats{FilesProcessed: 1, EventsTotal: 1}))

	assert.Equal(t, "40 events, 3 findings in 1 file, 2 unreadable (4 files processed)\n",
		styles.FormatSummaryOneLine(runner.Stats{
			FilesProcessed: 4, FilesWithWarnings: 1, FilesErrored: 2, EventsTotal: 40, WarningsTotal: 3,
		}))
}

func TestTableFormatter(t *testing.T) {
	t.Parallel()

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "docs/a.md", Bytes: 120, Events: 30},
			{Path: "docs/b.md", Bytes: 64, Events: 12, Warnings: 2},
			{Path: "docs/c.md", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{FilesProcessed: 2, FilesErrored: 1, EventsTotal: 42, WarningsTotal: 2},
	}

	table := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	out := table.FormatTable(result)

	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "FINDINGS")
	assert.Regexp(t, `docs/a\.md\s+120\s+30\s+0\s+ok`, out)
	assert.Regexp(t, `docs/b\.md\s+64\s+12\s+2\s+findings`, out)
	assert.Regexp(t, `docs/c\.md\s+0\s+0\s+0\s+error`, out)
	assert.Contains(t, out, "Legend:")

	assert.Empty(t, table.FormatTable(nil))
	assert.Empty(t, table.FormatTable(&runner.Result{}))

	summary := table.FormatTableSummary(result.Stats, "12ms")
	assert.Equal(t, " 2 files | 42 events | 2 findings | 1 unreadable | 12ms", summary)
}

func TestTableFormatter_TruncatesLongPaths(t *testing.T) {
	t.Parallel()

	long := "very/deeply/nested/directory/structure/that/keeps/going/and/going/notes.md"
	table := pretty.NewTableFormatter(pretty.NewStyles(false), false, 60)
	out := table.FormatTable(&runner.Result{Files: []runner.FileOutcome{{Path: long, Events: 1}}})

	assert.Contains(t, out, "...")
	assert.Contains(t, out, "notes.md")
	assert.NotContains(t, out, "very/deeply")
}
