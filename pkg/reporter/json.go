// Package reporter encodes batch results for machine consumption.
package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/gomdrender/pkg/runner"
)

// SchemaVersion identifies the layout of JSONOutput.
const SchemaVersion = "1.0.0"

const bufWriterSize = 32 * 1024

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path     string `json:"path"`
	Bytes    int    `json:"bytes"`
	Events   int    `json:"events"`
	Findings int    `json:"findings"`
	Error    string `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered   int `json:"filesDiscovered"`
	FilesProcessed    int `json:"filesProcessed"`
	FilesErrored      int `json:"filesErrored"`
	FilesWithFindings int `json:"filesWithFindings"`
	TotalBytes        int `json:"totalBytes"`
	TotalEvents       int `json:"totalEvents"`
	TotalFindings     int `json:"totalFindings"`
}

// JSONReporter writes batch results as JSON.
type JSONReporter struct {
	bw      *bufio.Writer
	compact bool
}

// NewJSONReporter creates a reporter writing to w. Compact output puts the
// whole document on one line.
func NewJSONReporter(w io.Writer, compact bool) *JSONReporter {
	return &JSONReporter{
		bw:      bufio.NewWriterSize(w, bufWriterSize),
		compact: compact,
	}
}

// Report encodes result and returns the number of findings it holds.
func (r *JSONReporter) Report(result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalFindings, nil
}

// BuildOutput converts result into its JSON form. A nil result yields an
// empty report.
func BuildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: SchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:     file.Path,
			Bytes:    file.Bytes,
			Events:   file.Events,
			Findings: file.Warnings,
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered:   stats.FilesDiscovered,
		FilesProcessed:    stats.FilesProcessed,
		FilesErrored:      stats.FilesErrored,
		FilesWithFindings: stats.FilesWithWarnings,
		TotalBytes:        stats.BytesTotal,
		TotalEvents:       stats.EventsTotal,
		TotalFindings:     stats.WarningsTotal,
	}
	return output
}
