package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdrender/pkg/event"
	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// FormatFinding formats a single diagnostic finding for terminal output.
func (s *Styles) FormatFinding(path string, finding event.Finding, showContext bool, sourceLine string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("  %s  %s  %s",
		s.formatLocation(path, finding.Pos),
		s.FormatKind(finding.Kind),
		s.Message.Render(finding.Message),
	))
	if finding.Count > 1 {
		builder.WriteString("  " + s.Repeat.Render(fmt.Sprintf("(x%d)", finding.Count)))
	}
	builder.WriteString("\n")

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, finding.Pos.Column))
	}

	return builder.String()
}

// FormatRenderWarning formats a structural problem reported by the
// renderer or the parser.
func (s *Styles) FormatRenderWarning(path string, warning mdast.Warning) string {
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		s.formatLocation(path, warning.Pos),
		s.Warning.Render("warning"),
		s.Message.Render(warning.Message),
		s.Dim.Render("("+warning.Kind.String()+")"),
	)
}

func (s *Styles) formatLocation(path string, pos mdast.SourcePos) string {
	if !pos.IsValid() {
		return s.FilePath.Render(path)
	}
	return fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), pos.Line, pos.Column)
}

// FormatKind returns a styled diagnostic kind.
func (s *Styles) FormatKind(kind event.Kind) string {
	switch kind {
	case event.KindError:
		return s.Error.Render("error")
	case event.KindWarning:
		return s.Warning.Render("warning")
	case event.KindUnsupported:
		return s.Unsupported.Render("unsupported")
	default:
		return kind.String()
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, findingCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case findingCount == 1:
		header += s.Dim.Render(" (1 finding)")
	case findingCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d findings)", findingCount))
	}
	return header
}
