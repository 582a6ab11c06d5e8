package mdast

// ParsedDocument is the result of parsing one Markdown source.
type ParsedDocument struct {
	// Path is the file path, empty for in-memory input.
	Path string

	// Content is the raw source bytes.
	Content []byte

	// Lines is the line index for Content.
	Lines []LineInfo

	// Root is the NodeDocument at the top of the tree.
	Root *Node

	// References maps normalized labels to link reference definitions.
	// The first definition of a label wins.
	References map[string]*LinkAttrs

	// Warnings lists structural problems found and repaired while
	// parsing.
	Warnings []Warning
}

// Warning is a recovered structural problem at a source position.
type Warning struct {
	Pos     SourcePos
	Kind    NodeKind
	Message string
}

// LineInfo holds metadata about a single line in the file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewParsedDocument creates a document with its line index built and an
// empty root.
func NewParsedDocument(path string, content []byte) *ParsedDocument {
	return &ParsedDocument{
		Path:       path,
		Content:    content,
		Lines:      BuildLines(content),
		Root:       NewDocument(),
		References: make(map[string]*LinkAttrs),
	}
}

// Reference looks up a normalized label.
func (d *ParsedDocument) Reference(label string) (*LinkAttrs, bool) {
	if d == nil || d.References == nil {
		return nil, false
	}
	ref, ok := d.References[label]
	return ref, ok
}
