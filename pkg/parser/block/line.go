package block

import (
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

const tabStop = 4

// line is one source line with the prefixes of enclosing containers
// removed.
type line struct {
	text string

	// num is the 1-based source line.
	num int

	// col is the 1-based source byte column of text[0].
	col int

	// vcol is the 0-based visual column of text[0], used for tab stops.
	vcol int

	// lazy marks a paragraph continuation line that lacked the prefix of
	// its container.
	lazy bool
}

func (l line) blank() bool {
	return strings.TrimLeft(l.text, " \t") == ""
}

// indent returns the visual width of the leading whitespace.
func (l line) indent() int {
	vcol := l.vcol
	for i := 0; i < len(l.text); i++ {
		switch l.text[i] {
		case ' ':
			vcol++
		case '\t':
			vcol += tabStop - vcol%tabStop
		default:
			return vcol - l.vcol
		}
	}
	return vcol - l.vcol
}

// strip removes up to n columns of leading whitespace. A tab that spans
// the cut is replaced by the spaces left over.
func (l line) strip(n int) line {
	vcol := l.vcol
	removed := 0
	idx := 0

	for idx < len(l.text) && removed < n {
		switch l.text[idx] {
		case ' ':
			removed++
			vcol++
			idx++
		case '\t':
			width := tabStop - vcol%tabStop
			if removed+width > n {
				rest := removed + width - n
				return line{
					text: strings.Repeat(" ", rest) + l.text[idx+1:],
					num:  l.num,
					col:  l.col + idx,
					vcol: vcol + n - removed,
					lazy: l.lazy,
				}
			}
			removed += width
			vcol += width
			idx++
		default:
			return l.advance(idx, vcol)
		}
	}
	return l.advance(idx, vcol)
}

// trimIndent removes all leading whitespace.
func (l line) trimIndent() line {
	return l.strip(l.indent())
}

// cut removes n bytes that are not whitespace, such as a container marker.
func (l line) cut(n int) line {
	return l.advance(n, l.vcol+n)
}

func (l line) advance(idx, vcol int) line {
	return line{text: l.text[idx:], num: l.num, col: l.col + idx, vcol: vcol, lazy: l.lazy}
}

func (l line) pos() mdast.SourcePos {
	return mdast.SourcePos{Line: l.num, Column: l.col}
}

// firstPos returns the position of the first non-whitespace byte.
func (l line) firstPos() mdast.SourcePos {
	lead := len(l.text) - len(strings.TrimLeft(l.text, " \t"))
	return mdast.SourcePos{Line: l.num, Column: l.col + lead}
}

// rawContent joins lines into inline source, dropping leading whitespace
// of every line and trailing whitespace of the last.
func rawContent(lines []line) *mdast.RawContent {
	var sb strings.Builder
	lm := make(mdast.LineMap, 0, len(lines))

	for idx, l := range lines {
		if idx > 0 {
			sb.WriteByte('\n')
		}
		trimmed := strings.TrimLeft(l.text, " \t")
		lead := len(l.text) - len(trimmed)
		lm = append(lm, mdast.LineSegment{
			Offset: sb.Len(),
			Pos:    mdast.SourcePos{Line: l.num, Column: l.col + lead},
		})
		sb.WriteString(trimmed)
	}

	return &mdast.RawContent{
		Text: strings.TrimRight(sb.String(), " \t"),
		Map:  lm,
	}
}

// rawText returns a raw content of a single piece of text.
func rawText(text string, pos mdast.SourcePos) *mdast.RawContent {
	return &mdast.RawContent{
		Text: text,
		Map:  mdast.LineMap{{Offset: 0, Pos: pos}},
	}
}

// joinLines joins line texts, terminating each with a newline.
func joinLines(lines []line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
