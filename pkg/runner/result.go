package runner

// FileOutcome is what a worker reports for one file. It carries counts
// only; the parsed tree never leaves the worker.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Bytes is the size of the source.
	Bytes int

	// Events is the number of events the document produces.
	Events int

	// Warnings is the number of distinct warning and error findings.
	Warnings int

	// Error is set if the file could not be read.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully parsed.
	FilesProcessed int

	// FilesErrored is the number of files that could not be read.
	FilesErrored int

	// FilesWithWarnings is the number of files with at least one finding.
	FilesWithWarnings int

	// EventsTotal is the sum of event counts across all files.
	EventsTotal int

	// WarningsTotal is the sum of findings across all files.
	WarningsTotal int

	// BytesTotal is the total source size.
	BytesTotal int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// HasWarnings reports whether any document produced a finding.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.WarningsTotal > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.EventsTotal += outcome.Events
	r.Stats.WarningsTotal += outcome.Warnings
	r.Stats.BytesTotal += outcome.Bytes
	if outcome.Warnings > 0 {
		r.Stats.FilesWithWarnings++
	}
}
