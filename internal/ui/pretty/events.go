package pretty

import (
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/gomdrender/pkg/event"
)

const (
	eventIndent   = "  "
	truncatedTail = "..."
	minEventWidth = 20
)

// EventLister formats an event stream as an indented listing, one event
// per line. Start events indent the lines that follow until the matching
// End event.
type EventLister struct {
	styles *Styles
	width  int
	depth  int
}

// NewEventLister creates a lister. Lines wider than width are truncated;
// width <= 0 disables truncation.
func NewEventLister(styles *Styles, width int) *EventLister {
	if width > 0 {
		width = max(width, minEventWidth)
	}
	return &EventLister{styles: styles, width: width}
}

// Format returns the listing line for ev.
func (l *EventLister) Format(ev event.Event) string {
	if ev.Kind == event.KindEnd && l.depth > 0 {
		l.depth--
	}

	indent := strings.Repeat(eventIndent, l.depth)
	line := indent + l.styleEvent(ev)
	if l.width > 0 {
		line = truncate.StringWithTail(line, uint(l.width), truncatedTail) //nolint:gosec // width is positive
	}

	if ev.Kind == event.KindStart {
		l.depth++
	}
	return line
}

func (l *EventLister) styleEvent(ev event.Event) string {
	text := ev.String()
	switch {
	case ev.Kind.IsDiagnostic():
		return l.styles.FormatKind(ev.Kind) + " " + l.styles.Message.Render(ev.Text) + l.position(ev)
	case ev.Kind == event.KindStart:
		return l.styles.EventStart.Render(text)
	case ev.Kind == event.KindEnd:
		return l.styles.EventEnd.Render(text)
	case ev.Text != "":
		return l.styles.EventLeaf.Render(text)
	default:
		return l.styles.EventText.Render(text)
	}
}

func (l *EventLister) position(ev event.Event) string {
	if !ev.Pos.IsValid() {
		return ""
	}
	return l.styles.Dim.Render(" @" + ev.Pos.String())
}
