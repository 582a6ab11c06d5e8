package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gomdrender/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 5 // FILE, BYTES, EVENTS, FINDINGS, STATUS
	minFileWidth     = 20
	numberWidth      = 8
	statusWidth      = 10
	heavySeparator   = "="
	defaultTermWidth = 100

	statusOK       = "ok"
	statusFindings = "findings"
	statusError    = "error"
)

// TableRow represents a single row in the batch table.
type TableRow struct {
	File     string
	Bytes    int
	Events   int
	Findings int
	Status   string
}

// TableFormatter formats batch results as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// OutcomeToTableRow converts a file outcome to a table row.
func OutcomeToTableRow(outcome runner.FileOutcome) TableRow {
	row := TableRow{
		File:     outcome.Path,
		Bytes:    outcome.Bytes,
		Events:   outcome.Events,
		Findings: outcome.Warnings,
		Status:   statusOK,
	}
	switch {
	case outcome.Error != nil:
		row.Status = statusError
	case outcome.Warnings > 0:
		row.Status = statusFindings
	}
	return row
}

// FormatTable formats runner results as a styled table.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	rows := make([]TableRow, 0, len(result.Files))
	for _, outcome := range result.Files {
		rows = append(rows, OutcomeToTableRow(outcome))
	}

	fileWidth := t.fileColumnWidth(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(fileWidth))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(fileWidth))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, fileWidth))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(fileWidth))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// fileColumnWidth sizes the FILE column to its longest entry within the
// terminal width.
func (t *TableFormatter) fileColumnWidth(rows []TableRow) int {
	width := minFileWidth
	for _, row := range rows {
		width = max(width, len(row.File))
	}

	fixed := numberWidth*3 + statusWidth + tablePadding*tableColumnCount
	if width+fixed > t.termWidth {
		width = max(minFileWidth, t.termWidth-fixed)
	}
	return width
}

func (t *TableFormatter) formatHeader(fileWidth int) string {
	header := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %-*s",
		fileWidth, "FILE",
		numberWidth, "BYTES",
		numberWidth, "EVENTS",
		numberWidth, "FINDINGS",
		statusWidth, "STATUS",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(fileWidth int) string {
	width := fileWidth + numberWidth*3 + statusWidth + tablePadding*tableColumnCount
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, width))
}

func (t *TableFormatter) formatRow(row TableRow, fileWidth int) string {
	file := truncateFilePath(row.File, fileWidth)

	content := fmt.Sprintf(" %-*s  %*s  %*s  %*s  %-*s",
		fileWidth, file,
		numberWidth, strconv.Itoa(row.Bytes),
		numberWidth, strconv.Itoa(row.Events),
		numberWidth, strconv.Itoa(row.Findings),
		statusWidth, row.Status,
	)

	return t.rowStyle(row.Status).Render(content)
}

func (t *TableFormatter) rowStyle(status string) lipgloss.Style {
	switch status {
	case statusError:
		return t.styles.TableErrorRow
	case statusFindings:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: findings = warnings or unsupported nodes | error = unreadable")
	}

	warnSample := t.styles.TableWarnRow.Render(" findings ")
	errorSample := t.styles.TableErrorRow.Render(" error ")
	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s = warnings or unsupported nodes  %s = unreadable", warnSample, errorSample),
	)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d files", stats.FilesProcessed))
	parts = append(parts, fmt.Sprintf("%d events", stats.EventsTotal))

	if stats.WarningsTotal > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d findings", stats.WarningsTotal)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
