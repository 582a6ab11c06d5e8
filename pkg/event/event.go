// Package event projects a parsed tree onto a flat stream of events.
//
// Container nodes produce a Start and an End event around the events of
// their children; leaves produce a single event. The stream can be
// transformed with a Pipeline and observed with Diagnostics.
package event

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Kind classifies an event.
type Kind uint8

// Event kinds.
const (
	KindStart Kind = iota
	KindEnd
	KindText
	KindCode
	KindInlineMath
	KindDisplayMath
	KindHTML
	KindInlineHTML
	KindSoftBreak
	KindHardBreak
	KindRule
	KindTaskMarker
	KindFootnoteReference
	KindEmoji
	KindMention

	// Diagnostic events carry a message in Text.
	KindError
	KindWarning
	KindUnsupported

	kindCount
)

//nolint:gochecknoglobals // lookup table
var kindNames = [kindCount]string{
	KindStart:             "Start",
	KindEnd:               "End",
	KindText:              "Text",
	KindCode:              "Code",
	KindInlineMath:        "InlineMath",
	KindDisplayMath:       "DisplayMath",
	KindHTML:              "Html",
	KindInlineHTML:        "InlineHtml",
	KindSoftBreak:         "SoftBreak",
	KindHardBreak:         "HardBreak",
	KindRule:              "Rule",
	KindTaskMarker:        "TaskMarker",
	KindFootnoteReference: "FootnoteReference",
	KindEmoji:             "Emoji",
	KindMention:           "Mention",
	KindError:             "Error",
	KindWarning:           "Warning",
	KindUnsupported:       "Unsupported",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// IsDiagnostic returns true for error, warning and unsupported events.
func (k Kind) IsDiagnostic() bool {
	return k >= KindError && k < kindCount
}

// Tag identifies the node opened by a Start event or closed by an End
// event.
type Tag struct {
	// Node is the kind of the tree node.
	Node mdast.NodeKind

	// Level is the heading level of heading tags.
	Level int

	// Custom is set for custom tag blocks.
	Custom *CustomTag
}

// CustomTag describes a block kind the event model has no dedicated tag
// for. Consumers that do not know Name can still pass it through.
type CustomTag struct {
	Name  string
	Data  map[string]string
	Attrs *mdast.Attributes
}

// String returns the tag name, with the custom name or heading level
// when present.
func (t Tag) String() string {
	switch {
	case t.Custom != nil:
		return "Custom(" + t.Custom.Name + ")"
	case t.Level > 0:
		return t.Node.String() + "(" + strconv.Itoa(t.Level) + ")"
	default:
		return t.Node.String()
	}
}

// Event is one element of the stream.
type Event struct {
	Kind Kind

	// Tag is set on Start and End events.
	Tag Tag

	// Text holds the payload of leaf and diagnostic events.
	Text string

	// Checked is the state of a task marker.
	Checked bool

	Pos   mdast.SourcePos
	Attrs *mdast.Attributes

	// Node is the tree node the event was produced from, nil for
	// synthetic events.
	Node *mdast.Node
}

// String formats the event for listings.
func (e Event) String() string {
	var body string
	switch e.Kind {
	case KindStart, KindEnd:
		body = e.Kind.String() + "(" + e.Tag.String() + ")"
	case KindTaskMarker:
		body = fmt.Sprintf("TaskMarker(%t)", e.Checked)
	case KindSoftBreak, KindHardBreak, KindRule:
		body = e.Kind.String()
	default:
		body = e.Kind.String() + "(" + strconv.Quote(e.Text) + ")"
	}
	if e.Pos.IsValid() {
		body += " @" + e.Pos.String()
	}
	return body
}

// Diagnostic creates a diagnostic event.
func Diagnostic(kind Kind, message string, pos mdast.SourcePos) Event {
	return Event{Kind: kind, Text: message, Pos: pos}
}
