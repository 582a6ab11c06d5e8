package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdrender/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "120 events, 3 findings in 2 files (5 files processed)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d %s", stats.EventsTotal, plural(stats.EventsTotal, "event", "events")))

	if stats.WarningsTotal == 0 {
		parts = append(parts, s.Success.Render("no findings"))
	} else {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", stats.WarningsTotal,
			plural(stats.WarningsTotal, "finding", "findings")))+
			fmt.Sprintf(" in %d %s", stats.FilesWithWarnings, plural(stats.FilesWithWarnings, wordFile, wordFiles)))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	line := strings.Join(parts, ", ")
	line += s.Dim.Render(fmt.Sprintf(" (%d %s processed)", stats.FilesProcessed,
		plural(stats.FilesProcessed, wordFile, wordFiles)))
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files processed:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files unreadable:    " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	if stats.FilesWithWarnings > 0 {
		builder.WriteString("  Files with findings: " +
			s.Warning.Render(strconv.Itoa(stats.FilesWithWarnings)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Bytes:               " +
		s.SummaryValue.Render(strconv.Itoa(stats.BytesTotal)) + "\n")
	builder.WriteString("  Events:              " +
		s.SummaryValue.Render(strconv.Itoa(stats.EventsTotal)) + "\n")
	builder.WriteString("  Findings:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.WarningsTotal)) + "\n")

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Some files could not be read"))
	case stats.WarningsTotal > 0:
		builder.WriteString(s.Warning.Render("Parsed with findings"))
	default:
		builder.WriteString(s.Success.Render("All documents parsed cleanly"))
	}
	builder.WriteString("\n")

	return builder.String()
}
