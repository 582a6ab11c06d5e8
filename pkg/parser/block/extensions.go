package block

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser/inline"
)

const (
	colonFence = ":::"
	tabName    = "tab"
	tabHeader  = "@tab"
	slideStart = "@slidestart"
	slideEnd   = "@slideend"
	slideTimer = ":t"
)

// colonOpener parses a ":::name rest" line. A bare ":::" has an empty name.
func colonOpener(text string) (string, string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimRight(text, " \t"), colonFence)
	if !ok || strings.HasPrefix(rest, ":") {
		return "", "", false
	}
	rest = strings.TrimLeft(rest, " \t")

	end := 0
	for end < len(rest) {
		c := rest[end]
		if !isASCIIAlpha(c) && (c < '0' || c > '9') && c != '-' && c != '_' {
			break
		}
		end++
	}

	name, tail := rest[:end], strings.TrimSpace(rest[end:])
	if name == "" && tail != "" {
		return "", "", false
	}
	return name, tail, true
}

func isTabOpener(text string) bool {
	name, _, ok := colonOpener(text)
	return ok && name == tabName
}

// isColonBlockStart reports whether text opens a named ::: block.
func isColonBlockStart(text string) bool {
	name, _, ok := colonOpener(text)
	return ok && name != ""
}

// scanColonBody finds the ":::" that closes a block opened before lines[from].
// Nested ::: blocks and fenced code are skipped. visit sees every other
// line at the block's own level.
func scanColonBody(lines []line, from int, visit func(idx int, text string)) (int, bool) {
	depth := 0
	var open *fence

	for idx := from; idx < len(lines); idx++ {
		l := lines[idx]
		if open != nil {
			if open.closes(l) {
				open = nil
			}
			continue
		}
		if f, ok := parseFenceOpen(l); ok {
			open = &f
			continue
		}
		if l.indent() >= tabStop {
			continue
		}

		text := l.trimIndent().text
		if name, _, ok := colonOpener(text); ok {
			if name != "" {
				depth++
				continue
			}
			if depth == 0 {
				return idx, true
			}
			depth--
			continue
		}

		if depth == 0 && visit != nil {
			visit(idx, text)
		}
	}

	return 0, false
}

func (p *Parser) parseColonBlock(parent *mdast.Node, lines []line, idx, depth int, sc scope) (int, bool) {
	head := lines[idx]
	name, tail, ok := colonOpener(head.trimIndent().text)
	if !ok || name == "" {
		return 0, false
	}

	if name == tabName {
		if !p.opts.Tabs || sc.inTabs {
			return 0, false
		}
		return p.parseTabGroup(parent, lines, idx, depth, sc)
	}

	if !p.opts.CustomBlocks {
		return 0, false
	}
	end, ok := scanColonBody(lines, idx+1, nil)
	if !ok {
		return 0, false
	}

	node := mdast.NewNode(mdast.NodeCustomTagBlock)
	node.Pos = head.firstPos()
	node.Block = &mdast.BlockAttrs{TagName: name}
	if p.opts.Attributes && strings.HasPrefix(tail, "{") {
		node.Attrs, _ = mdast.ParseAttributes(tail)
	}

	indent := head.indent()
	content := make([]line, 0, end-idx-1)
	for _, l := range lines[idx+1 : end] {
		content = append(content, l.strip(indent))
	}
	node.Literal = joinLines(content)

	mdast.AppendChild(parent, node)
	return end + 1, true
}

// tabTitle parses an "@tab Title" header. A header with no title is
// reported as invalid.
func tabTitle(text string) (title string, header, valid bool) {
	rest, ok := strings.CutPrefix(text, tabHeader)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return "", false, false
	}
	title = strings.TrimSpace(rest)
	return title, true, title != ""
}

func (p *Parser) parseTabGroup(parent *mdast.Node, lines []line, idx, depth int, sc scope) (int, bool) {
	type tabItem struct {
		title  string
		header int
		end    int
	}

	var items []tabItem
	valid := true
	end, ok := scanColonBody(lines, idx+1, func(at int, text string) {
		title, header, ok := tabTitle(text)
		if !header {
			return
		}
		if !ok {
			valid = false
			return
		}
		if n := len(items); n > 0 {
			items[n-1].end = at
		}
		items = append(items, tabItem{title: title, header: at})
	})
	if !ok || !valid || len(items) == 0 {
		return 0, false
	}
	items[len(items)-1].end = end

	group := mdast.NewNode(mdast.NodeTabGroup)
	group.Pos = lines[idx].firstPos()
	mdast.AppendChild(parent, group)

	inner := scope{inTabs: true, inSlides: sc.inSlides}
	for n, it := range items {
		item := mdast.NewNode(mdast.NodeTabItem)
		item.Pos = lines[it.header].firstPos()
		item.Block = &mdast.BlockAttrs{Title: it.title}
		mdast.AppendChild(group, item)

		var content []line
		if n == 0 {
			// Lines before the first header belong to the first panel.
			content = append(content, lines[idx+1:it.header]...)
		}
		content = append(content, lines[it.header+1:it.end]...)
		p.parseBlocks(item, content, depth+1, inner)
	}

	return end + 1, true
}

// slideTimerSeconds parses "@slidestart" or "@slidestart:tN".
func slideTimerSeconds(text string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimRight(text, " \t"), slideStart)
	if !ok {
		return 0, false
	}
	if rest == "" {
		return 0, true
	}

	digits, ok := strings.CutPrefix(rest, slideTimer)
	if !ok || digits == "" || strings.Trim(digits, "0123456789") != "" {
		return 0, false
	}
	secs, err := strconv.Atoi(digits)
	if err != nil || secs <= 0 {
		return 0, false
	}
	return secs, true
}

func isSlideStart(text string) bool {
	_, ok := slideTimerSeconds(text)
	return ok
}

// slideSpan is the line range of one slide.
type slideSpan struct {
	start, end int
	vertical   bool
}

func (p *Parser) parseSliderDeck(parent *mdast.Node, lines []line, idx, depth int, sc scope) (int, bool) {
	timer, ok := slideTimerSeconds(lines[idx].trimIndent().text)
	if !ok {
		return 0, false
	}

	var slides []slideSpan
	current := slideSpan{start: idx + 1}
	var open *fence

	for at := idx + 1; at < len(lines); at++ {
		l := lines[at]
		if open != nil {
			if open.closes(l) {
				open = nil
			}
			continue
		}
		if f, ok := parseFenceOpen(l); ok {
			open = &f
			continue
		}
		if l.indent() >= tabStop {
			continue
		}

		switch marker := strings.TrimSpace(l.text); marker {
		case slideEnd:
			current.end = at
			slides = append(slides, current)
			p.buildSliderDeck(parent, lines, idx, timer, slides, depth, sc)
			return at + 1, true
		case "---", "--":
			current.end = at
			slides = append(slides, current)
			current = slideSpan{start: at + 1, vertical: marker == "--"}
		}
	}

	return 0, false
}

func (p *Parser) buildSliderDeck(parent *mdast.Node, lines []line, idx, timer int, slides []slideSpan, depth int, sc scope) {
	deck := mdast.NewNode(mdast.NodeSliderDeck)
	deck.Pos = lines[idx].firstPos()
	deck.Block = &mdast.BlockAttrs{TimerSeconds: timer}
	mdast.AppendChild(parent, deck)

	inner := scope{inTabs: sc.inTabs, inSlides: true}
	for _, s := range slides {
		node := mdast.NewNode(mdast.NodeSlide)
		node.Block = &mdast.BlockAttrs{Vertical: s.vertical}
		node.Pos = lines[s.start-1].pos()
		if s.start < s.end {
			node.Pos = lines[s.start].pos()
		}
		mdast.AppendChild(deck, node)
		p.parseBlocks(node, lines[s.start:s.end], depth+1, inner)
	}
}

// convertAdmonitions turns top-level block quotes that start with an
// alert marker into admonitions.
func (p *Parser) convertAdmonitions(root *mdast.Node) {
	for node := root.FirstChild; node != nil; node = node.Next {
		if node.Kind != mdast.NodeBlockquote {
			continue
		}
		para := node.FirstChild
		if para == nil || para.Kind != mdast.NodeParagraph || para.Raw == nil {
			continue
		}

		text := para.Raw.Text
		first, _, _ := strings.Cut(text, "\n")
		attrs, ok := p.admonitionMarker(strings.TrimSpace(first))
		if !ok {
			continue
		}

		node.Kind = mdast.NodeAdmonition
		node.Block = mdast.NewBlockAttrs().WithAdmonition(attrs)

		if len(first) >= len(text) {
			mdast.RemoveChild(node, para)
			continue
		}
		off := len(first) + 1
		para.Raw = &mdast.RawContent{Text: text[off:], Map: para.Raw.Map.Shift(off)}
		para.Pos = para.Raw.Map.Pos(0)
	}
}

//nolint:gochecknoglobals // lookup table
var alertKinds = map[string]mdast.AdmonitionKind{
	"NOTE":      mdast.AdmonitionNote,
	"TIP":       mdast.AdmonitionTip,
	"IMPORTANT": mdast.AdmonitionImportant,
	"WARNING":   mdast.AdmonitionWarning,
	"CAUTION":   mdast.AdmonitionCaution,
}

// admonitionMarker recognizes "[!KIND] optional title" and the quote
// style "[icon Title]".
func (p *Parser) admonitionMarker(text string) (*mdast.AdmonitionAttrs, bool) {
	if !strings.HasPrefix(text, "[") {
		return nil, false
	}
	closeIdx := strings.IndexByte(text, ']')
	if closeIdx < 0 {
		return nil, false
	}
	inner := strings.TrimSpace(text[1:closeIdx])
	rest := strings.TrimSpace(text[closeIdx+1:])

	if name, ok := strings.CutPrefix(inner, "!"); ok {
		kind, known := alertKinds[strings.ToUpper(name)]
		if !known {
			return nil, false
		}
		return &mdast.AdmonitionAttrs{Kind: kind, Title: rest}, true
	}

	if rest != "" {
		return nil, false
	}
	if _, defined := p.refs[inline.NormalizeLabel(inner)]; defined {
		return nil, false
	}
	icon, title, ok := strings.Cut(inner, " ")
	title = strings.TrimSpace(title)
	if !ok || icon == "" || title == "" {
		return nil, false
	}
	return &mdast.AdmonitionAttrs{Kind: mdast.AdmonitionQuote, Title: title, Icon: icon}, true
}
