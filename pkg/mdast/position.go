package mdast

import (
	"fmt"
	"sort"
)

// SourcePos is a 1-based line and column in the source.
// Column counts bytes, not runes.
type SourcePos struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p SourcePos) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String formats the position as line:column.
func (p SourcePos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Advance returns the position n bytes further along the same line.
func (p SourcePos) Advance(n int) SourcePos {
	if !p.IsValid() {
		return p
	}
	return SourcePos{Line: p.Line, Column: p.Column + n}
}

// LineSegment maps the start of one source line inside a block's joined
// inline content back to its source position.
type LineSegment struct {
	// Offset is the byte offset of the segment in the joined content.
	Offset int

	// Pos is where Offset sits in the source.
	Pos SourcePos
}

// LineMap translates offsets in joined inline content to source positions.
// Segments are sorted by Offset.
type LineMap []LineSegment

// Pos returns the source position of a byte offset in the joined content.
// It returns the zero position for an empty map.
func (m LineMap) Pos(offset int) SourcePos {
	if len(m) == 0 {
		return SourcePos{}
	}

	idx := sort.Search(len(m), func(i int) bool {
		return m[i].Offset > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}

	seg := m[idx]
	return seg.Pos.Advance(offset - seg.Offset)
}

// Shift returns a copy of the map with the first n bytes of content
// removed.
func (m LineMap) Shift(n int) LineMap {
	out := make(LineMap, 0, len(m))
	for i, seg := range m {
		end := -1
		if i+1 < len(m) {
			end = m[i+1].Offset
		}
		if end >= 0 && end <= n {
			continue
		}
		if seg.Offset < n {
			seg.Pos = seg.Pos.Advance(n - seg.Offset)
			seg.Offset = n
		}
		seg.Offset -= n
		out = append(out, seg)
	}
	return out
}

// RawContent is the unparsed inline text of a leaf block.
type RawContent struct {
	Text string
	Map  LineMap
}
