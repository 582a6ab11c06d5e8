package block

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser/inline"
)

const maxOrderedDigits = 9

// quoteStrip removes a block quote marker and one optional space.
func quoteStrip(l line) (line, bool) {
	if l.indent() >= tabStop {
		return l, false
	}
	t := l.trimIndent()
	if t.text == "" || t.text[0] != '>' {
		return l, false
	}
	t = t.cut(1)
	if t.text != "" && (t.text[0] == ' ' || t.text[0] == '\t') {
		t = t.strip(1)
	}
	return t, true
}

func (p *Parser) parseBlockquote(parent *mdast.Node, lines []line, idx, depth int, sc scope) int {
	node := mdast.NewNode(mdast.NodeBlockquote)
	node.Pos = lines[idx].firstPos()

	tracker := paragraphOpen{p: p, sc: sc}
	var content []line

	for idx < len(lines) {
		if inner, ok := quoteStrip(lines[idx]); ok {
			content = append(content, inner)
			tracker.add(inner)
			idx++
			continue
		}

		l := lines[idx]
		if !tracker.continues(l) {
			break
		}
		l.lazy = true
		content = append(content, l)
		idx++
	}

	mdast.AppendChild(parent, node)
	p.parseBlocks(node, content, depth+1, sc)

	return idx
}

// listMarker describes the marker that starts a list item.
type listMarker struct {
	ordered bool
	bullet  byte
	delim   byte
	start   int

	// indent is the width of the whitespace before the marker.
	indent int

	// width is the marker length in bytes.
	width int

	// content is the column of the item content, relative to the line.
	content int

	// empty marks an item with nothing after its marker.
	empty bool
}

func parseListMarker(l line) (listMarker, bool) {
	indent := l.indent()
	if indent >= tabStop {
		return listMarker{}, false
	}

	t := l.trimIndent()
	text := t.text
	m := listMarker{indent: indent}

	switch {
	case text == "":
		return listMarker{}, false
	case text[0] == '-' || text[0] == '+' || text[0] == '*':
		m.bullet = text[0]
		m.width = 1
	default:
		digits := 0
		for digits < len(text) && digits <= maxOrderedDigits && text[digits] >= '0' && text[digits] <= '9' {
			digits++
		}
		if digits == 0 || digits > maxOrderedDigits || digits >= len(text) {
			return listMarker{}, false
		}
		if text[digits] != '.' && text[digits] != ')' {
			return listMarker{}, false
		}
		start, err := strconv.Atoi(text[:digits])
		if err != nil {
			return listMarker{}, false
		}
		m.ordered = true
		m.delim = text[digits]
		m.start = start
		m.width = digits + 1
	}

	rest := t.cut(m.width)
	if rest.text != "" && rest.text[0] != ' ' && rest.text[0] != '\t' {
		return listMarker{}, false
	}

	if rest.blank() {
		m.empty = true
		m.content = indent + m.width + 1
		return m, true
	}

	spaces := rest.indent()
	if spaces > tabStop {
		// Content starting with indented code.
		spaces = 1
	}
	m.content = indent + m.width + spaces

	return m, true
}

func (m listMarker) sameList(other listMarker) bool {
	if m.ordered != other.ordered {
		return false
	}
	if m.ordered {
		return m.delim == other.delim
	}
	return m.bullet == other.bullet
}

// firstLine returns the content of the marker's line.
func (m listMarker) firstLine(l line) line {
	t := l.trimIndent().cut(m.width)
	if m.empty {
		return line{num: t.num, col: t.col + len(t.text), vcol: t.vcol, lazy: t.lazy}
	}
	return t.strip(m.content - m.indent - m.width)
}

func (p *Parser) parseList(parent *mdast.Node, lines []line, idx, depth int, sc scope) int {
	first, _ := parseListMarker(lines[idx])

	list := mdast.NewNode(mdast.NodeList)
	list.Pos = lines[idx].firstPos()
	attrs := &mdast.ListAttrs{
		Ordered:      first.ordered,
		BulletMarker: first.bullet,
		StartNumber:  first.start,
		Delimiter:    first.delim,
	}
	list.Block = mdast.NewBlockAttrs().WithList(attrs)
	mdast.AppendChild(parent, list)

	loose := false
	for idx < len(lines) {
		marker, ok := parseListMarker(lines[idx])
		if !ok || !first.sameList(marker) || isThematicBreak(lines[idx].trimIndent().text) {
			break
		}

		item, next, trailing, itemLoose := p.parseListItem(lines, idx, marker, depth, sc)
		mdast.AppendChild(list, item)
		loose = loose || itemLoose
		idx = next

		if idx >= len(lines) {
			idx -= trailing
			break
		}
		following, ok := parseListMarker(lines[idx])
		if !ok || !first.sameList(following) || isThematicBreak(lines[idx].trimIndent().text) {
			idx -= trailing
			break
		}
		if trailing > 0 {
			loose = true
		}
	}

	attrs.Tight = !loose
	return idx
}

// parseListItem parses the item whose marker is on lines[idx]. It returns
// the item, the index after it including trailing blank lines, the count
// of those blank lines and whether blank lines separate its blocks.
func (p *Parser) parseListItem(lines []line, idx int, m listMarker, depth int, sc scope) (*mdast.Node, int, int, bool) {
	item := mdast.NewNode(mdast.NodeListItem)
	item.Pos = lines[idx].firstPos()

	tracker := paragraphOpen{p: p, sc: sc}
	var content []line
	if !m.empty {
		head := m.firstLine(lines[idx])
		content = append(content, head)
		tracker.add(head)
	}
	idx++

	pending := 0
	for idx < len(lines) {
		l := lines[idx]

		if l.blank() {
			if len(content) == 0 {
				// An empty item ends at its first blank line. The blank
				// run still counts as trailing so the list can go on.
				for idx < len(lines) && lines[idx].blank() {
					pending++
					idx++
				}
				break
			}
			pending++
			idx++
			continue
		}

		if l.indent() >= m.content {
			for _, blank := range lines[idx-pending : idx] {
				stripped := blank.strip(m.content)
				content = append(content, stripped)
				tracker.add(stripped)
			}
			pending = 0

			stripped := l.strip(m.content)
			content = append(content, stripped)
			tracker.add(stripped)
			idx++
			continue
		}

		if pending == 0 && tracker.continues(l) {
			l.lazy = true
			content = append(content, l)
			idx++
			continue
		}

		break
	}

	if p.opts.TaskLists && len(content) > 0 {
		if checked, rest, ok := taskMarker(content[0]); ok {
			item.Block = &mdast.BlockAttrs{Task: &mdast.TaskAttrs{Checked: checked}}
			content[0] = rest
		}
	}

	blankBetween := p.parseBlocks(item, content, depth+1, sc)
	return item, idx, pending, blankBetween
}

// taskMarker recognizes "[ ]", "[x]" or "[X]" followed by whitespace or
// the end of the line.
func taskMarker(l line) (bool, line, bool) {
	text := l.text
	if len(text) < 3 || text[0] != '[' || text[2] != ']' {
		return false, l, false
	}
	var checked bool
	switch text[1] {
	case ' ':
	case 'x', 'X':
		checked = true
	default:
		return false, l, false
	}
	if len(text) > 3 && text[3] != ' ' && text[3] != '\t' {
		return false, l, false
	}

	rest := l.cut(3)
	if rest.text != "" {
		rest = rest.strip(1)
	}
	return checked, rest, true
}

// footnoteDefinitionStart recognizes "[^label]:" and returns the label and
// the marker length.
func footnoteDefinitionStart(text string) (string, int, bool) {
	if !strings.HasPrefix(text, "[^") {
		return "", 0, false
	}
	end := strings.Index(text, "]:")
	if end < 3 {
		return "", 0, false
	}
	label := text[2:end]
	if strings.ContainsAny(label, " \t[]") {
		return "", 0, false
	}
	return label, end + 2, true
}

func (p *Parser) parseFootnoteDefinition(parent *mdast.Node, lines []line, idx, depth int, sc scope) (int, bool) {
	head := lines[idx].trimIndent()
	label, width, ok := footnoteDefinitionStart(head.text)
	if !ok {
		return 0, false
	}

	node := mdast.NewNode(mdast.NodeFootnoteDefinition)
	node.Pos = head.pos()
	node.Block = &mdast.BlockAttrs{Label: inline.NormalizeLabel(label)}

	tracker := paragraphOpen{p: p, sc: sc}
	var content []line
	if first := head.cut(width).trimIndent(); !first.blank() {
		content = append(content, first)
		tracker.add(first)
	}
	idx++

	pending := 0
	for idx < len(lines) {
		l := lines[idx]

		if l.blank() {
			pending++
			idx++
			continue
		}

		if l.indent() >= tabStop {
			for _, blank := range lines[idx-pending : idx] {
				content = append(content, blank.strip(tabStop))
			}
			pending = 0

			stripped := l.strip(tabStop)
			content = append(content, stripped)
			tracker.add(stripped)
			idx++
			continue
		}

		if pending == 0 && tracker.continues(l) {
			l.lazy = true
			content = append(content, l)
			idx++
			continue
		}

		break
	}

	mdast.AppendChild(parent, node)
	p.parseBlocks(node, content, depth+1, sc)

	return idx - pending, true
}
