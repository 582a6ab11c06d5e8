// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Configuration fields.
	FieldFlavor     = "flavor"
	FieldFormat     = "format"
	FieldJobs       = "jobs"
	FieldMaxNesting = "max_nesting"

	// Document fields.
	FieldNode   = "node"
	FieldLine   = "line"
	FieldColumn = "column"
	FieldBytes  = "bytes"
	FieldEvents = "events"
	FieldKind   = "kind"

	// Statistics fields.
	FieldFilesDiscovered   = "files_discovered"
	FieldFilesProcessed    = "files_processed"
	FieldFilesErrored      = "files_errored"
	FieldFilesWithWarnings = "files_with_warnings"
	FieldEventsTotal       = "events_total"
	FieldWarningsTotal     = "warnings_total"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
