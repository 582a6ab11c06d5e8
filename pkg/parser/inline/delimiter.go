package inline

import (
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Delimiter is an entry of the delimiter stack: a run of '*', '_' or '~'
// whose text node may later become part of an emphasis span.
type Delimiter struct {
	Char byte

	// Count is the number of delimiter characters still unused;
	// OrigCount is the length of the run as written.
	Count     int
	OrigCount int

	CanOpen  bool
	CanClose bool

	// Node is the text node holding the run.
	Node *mdast.Node

	// Active is false once the delimiter has been consumed or removed.
	Active bool
}

// classifyRun computes whether a delimiter run can open and close
// emphasis from the characters around it.
func classifyRun(src string, start, end int, char byte) (bool, bool) {
	before := ' '
	if start > 0 {
		before, _ = utf8.DecodeLastRuneInString(src[:start])
	}
	after := ' '
	if end < len(src) {
		after, _ = utf8.DecodeRuneInString(src[end:])
	}

	spaceBefore, spaceAfter := isUnicodeSpace(before), isUnicodeSpace(after)
	punctBefore, punctAfter := isUnicodePunct(before), isUnicodePunct(after)

	leftFlanking := !spaceAfter && (!punctAfter || spaceBefore || punctBefore)
	rightFlanking := !spaceBefore && (!punctBefore || spaceAfter || punctAfter)

	if char == '_' {
		return leftFlanking && (!rightFlanking || punctBefore),
			rightFlanking && (!leftFlanking || punctAfter)
	}
	return leftFlanking, rightFlanking
}

func isUnicodeSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || unicode.Is(unicode.Zs, r)
}

func isUnicodePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

type openerKey struct {
	char      byte
	canOpen   bool
	remainder int
}

// processEmphasis pairs delimiters above stackBottom into emphasis,
// strong and strikethrough spans, then deactivates every delimiter above
// stackBottom.
func (s *state) processEmphasis(stackBottom int) {
	delims := s.delims
	openersBottom := make(map[openerKey]int)

	for closerIdx := stackBottom; closerIdx < len(delims); closerIdx++ {
		closer := delims[closerIdx]
		if !closer.Active || !closer.CanClose {
			continue
		}

		key := openerKey{char: closer.Char}
		if closer.Char != '~' {
			key.canOpen = closer.CanOpen
			key.remainder = closer.OrigCount % 3
		}
		bottom := stackBottom
		if b, ok := openersBottom[key]; ok && b > bottom {
			bottom = b
		}

		openerIdx := -1
		for idx := closerIdx - 1; idx >= bottom; idx-- {
			opener := delims[idx]
			if !opener.Active || opener.Char != closer.Char || !opener.CanOpen {
				continue
			}
			if closer.Char == '~' {
				if opener.Count != closer.Count {
					continue
				}
			} else if oddMatch(opener, closer) {
				continue
			}
			openerIdx = idx
			break
		}

		if openerIdx < 0 {
			openersBottom[key] = closerIdx
			if !closer.CanOpen {
				closer.Active = false
			}
			continue
		}

		opener := delims[openerIdx]
		s.insertSpan(opener, closer)

		for idx := openerIdx + 1; idx < closerIdx; idx++ {
			delims[idx].Active = false
		}
		if opener.Count == 0 {
			mdast.Unlink(opener.Node)
			opener.Active = false
		}
		if closer.Count == 0 {
			mdast.Unlink(closer.Node)
			closer.Active = false
		} else {
			// Let the remaining characters close another span.
			closerIdx--
		}
	}

	for idx := stackBottom; idx < len(delims); idx++ {
		delims[idx].Active = false
	}
	s.delims = delims[:stackBottom]
}

// oddMatch implements the rule of 3: when either side can both open and
// close, the run lengths may not sum to a multiple of 3 unless both are
// multiples of 3.
func oddMatch(opener, closer *Delimiter) bool {
	if !(opener.CanOpen && opener.CanClose) && !(closer.CanOpen && closer.CanClose) {
		return false
	}
	return (opener.OrigCount+closer.OrigCount)%3 == 0 &&
		!(opener.OrigCount%3 == 0 && closer.OrigCount%3 == 0)
}

// insertSpan wraps the nodes between opener and closer in a new span and
// consumes the delimiter characters it uses.
func (s *state) insertSpan(opener, closer *Delimiter) {
	kind := mdast.NodeEmphasis
	use := 1
	switch {
	case opener.Char == '~':
		kind = mdast.NodeStrikethrough
		use = closer.Count
	case opener.Count >= 2 && closer.Count >= 2:
		kind = mdast.NodeStrong
		use = 2
	}

	opener.Count -= use
	closer.Count -= use
	opener.Node.Literal = opener.Node.Literal[:opener.Count]
	closer.Node.Literal = closer.Node.Literal[use:]

	span := mdast.NewNode(kind)
	span.Pos = opener.Node.Pos.Advance(opener.Count)
	span.Inline = &mdast.InlineAttrs{EmphasisLevel: use, Delimiter: opener.Char}
	if kind == mdast.NodeStrikethrough {
		span.Inline.EmphasisLevel = 0
	}
	mdast.WrapRange(opener.Node, closer.Node, span)
	closer.Node.Pos = closer.Node.Pos.Advance(use)
}
