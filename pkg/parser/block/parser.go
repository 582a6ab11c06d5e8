// Package block builds the block structure of a Markdown document.
//
// The parser works by recursive descent over lines: a container block
// collects the lines that belong to it, strips its own prefix from them
// and parses the result as a nested document. Leaf blocks that hold
// inline content keep it unparsed in Node.Raw for the inline pass.
package block

import (
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// DefaultMaxNesting bounds container depth when Options.MaxNesting is 0.
const DefaultMaxNesting = 64

// Options selects the block extensions to recognize.
type Options struct {
	Tables       bool
	TaskLists    bool
	Footnotes    bool
	Math         bool
	Admonitions  bool
	Tabs         bool
	Sliders      bool
	CustomBlocks bool
	Attributes   bool

	// BlankLines keeps blank lines as NodeBlankLine children.
	BlankLines bool

	// MaxNesting is the deepest container nesting parsed as structure.
	// Deeper content becomes paragraph text.
	MaxNesting int
}

// Result is the block tree of a document.
type Result struct {
	Root *mdast.Node

	// References maps normalized labels to link reference definitions.
	References map[string]*mdast.LinkAttrs
}

// scope carries the extension blocks that enclose the lines being parsed.
type scope struct {
	inTabs   bool
	inSlides bool
}

// Parser holds the state of one block parse.
type Parser struct {
	opts Options
	refs map[string]*mdast.LinkAttrs
}

// Parse builds the block tree of content.
func Parse(content []byte, opts Options) *Result {
	if opts.MaxNesting <= 0 {
		opts.MaxNesting = DefaultMaxNesting
	}

	p := &Parser{opts: opts, refs: make(map[string]*mdast.LinkAttrs)}

	texts := mdast.SplitLines(content)
	lines := make([]line, len(texts))
	for idx, text := range texts {
		lines[idx] = line{text: strings.ReplaceAll(text, "\x00", "\uFFFD"), num: idx + 1, col: 1}
	}

	root := mdast.NewDocument()
	root.Pos = mdast.SourcePos{Line: 1, Column: 1}
	p.parseBlocks(root, lines, 0, scope{})

	if opts.Admonitions {
		p.convertAdmonitions(root)
	}

	return &Result{Root: root, References: p.refs}
}

// parseBlocks appends the blocks of lines to parent. It reports whether a
// blank line separated two of the blocks.
func (p *Parser) parseBlocks(parent *mdast.Node, lines []line, depth int, sc scope) bool {
	if depth > p.opts.MaxNesting {
		p.flatParagraph(parent, lines)
		return false
	}

	blankBetween := false
	sawBlank := false
	hasChild := false

	for idx := 0; idx < len(lines); {
		if lines[idx].blank() {
			if p.opts.BlankLines {
				node := mdast.NewNode(mdast.NodeBlankLine)
				node.Pos = lines[idx].pos()
				mdast.AppendChild(parent, node)
			}
			sawBlank = sawBlank || hasChild
			idx++
			continue
		}

		next := p.parseBlock(parent, lines, idx, depth, sc)
		if next <= idx {
			// Every block consumes at least one line.
			next = idx + 1
		}
		idx = next

		if sawBlank {
			blankBetween = true
		}
		hasChild = true
		sawBlank = false
	}

	return blankBetween
}

// parseBlock parses the block starting at lines[idx] and returns the index
// of the first line after it.
func (p *Parser) parseBlock(parent *mdast.Node, lines []line, idx, depth int, sc scope) int {
	l := lines[idx]

	if l.indent() >= tabStop {
		return p.parseIndentedCode(parent, lines, idx)
	}

	text := l.trimIndent().text

	switch text[0] {
	case '`', '~':
		if next, ok := p.parseFencedCode(parent, lines, idx); ok {
			return next
		}
	case '$':
		if p.opts.Math {
			if next, ok := p.parseMathBlock(parent, lines, idx); ok {
				return next
			}
		}
	case ':':
		if next, ok := p.parseColonBlock(parent, lines, idx, depth, sc); ok {
			return next
		}
	case '@':
		if p.opts.Sliders && !sc.inSlides {
			if next, ok := p.parseSliderDeck(parent, lines, idx, depth, sc); ok {
				return next
			}
		}
	case '#':
		if next, ok := p.parseATXHeading(parent, lines, idx); ok {
			return next
		}
	case '>':
		return p.parseBlockquote(parent, lines, idx, depth, sc)
	case '<':
		if next, ok := p.parseHTMLBlock(parent, lines, idx, false); ok {
			return next
		}
	case '[':
		if p.opts.Footnotes {
			if next, ok := p.parseFootnoteDefinition(parent, lines, idx, depth, sc); ok {
				return next
			}
		}
	}

	if isThematicBreak(text) {
		node := mdast.NewNode(mdast.NodeThematicBreak)
		node.Pos = l.firstPos()
		mdast.AppendChild(parent, node)
		return idx + 1
	}

	if _, ok := parseListMarker(l); ok {
		return p.parseList(parent, lines, idx, depth, sc)
	}

	if p.opts.Tables {
		if next, ok := p.parseTable(parent, lines, idx); ok {
			return next
		}
	}

	return p.parseParagraph(parent, lines, idx, sc)
}

// interrupts reports whether l starts a block that ends an open paragraph.
func (p *Parser) interrupts(l line, sc scope) bool {
	return p.opensBlock(l, sc, true)
}

// opensBlock reports whether l starts a block. Outside a paragraph, HTML
// tag blocks, footnote definitions, empty list items and ordered lists of
// any start count too.
func (p *Parser) opensBlock(l line, sc scope, inParagraph bool) bool {
	if l.blank() || l.indent() >= tabStop {
		return false
	}

	text := l.trimIndent().text
	switch text[0] {
	case '#':
		_, _, ok := atxHeading(text)
		return ok
	case '>':
		return true
	case '`', '~':
		_, ok := parseFenceOpen(l)
		return ok
	case '<':
		kind := htmlBlockKind(text)
		return kind > 0 && (kind < htmlKindTag || !inParagraph)
	case '$':
		return p.opts.Math && strings.TrimSpace(text) == mathFence
	case ':':
		if isTabOpener(text) {
			return p.opts.Tabs && !sc.inTabs
		}
		return p.opts.CustomBlocks && isColonBlockStart(text)
	case '@':
		return p.opts.Sliders && !sc.inSlides && isSlideStart(text)
	case '[':
		if !inParagraph && p.opts.Footnotes {
			if _, _, ok := footnoteDefinitionStart(text); ok {
				return true
			}
		}
	}

	if isThematicBreak(text) {
		return true
	}

	marker, ok := parseListMarker(l)
	if !ok {
		return false
	}
	if !inParagraph {
		return true
	}
	return !marker.empty && (!marker.ordered || marker.start == 1)
}

// flatParagraph keeps content nested too deeply as paragraph text.
func (p *Parser) flatParagraph(parent *mdast.Node, lines []line) {
	var content []line
	for _, l := range lines {
		if !l.blank() {
			content = append(content, l)
		}
	}
	if len(content) == 0 {
		return
	}

	node := mdast.NewNode(mdast.NodeParagraph)
	node.Pos = content[0].firstPos()
	node.Raw = rawContent(content)
	mdast.AppendChild(parent, node)
}

// paragraphOpen tracks whether the last of a run of lines leaves a
// paragraph open, which decides if a following line may continue lazily.
type paragraphOpen struct {
	p     *Parser
	sc    scope
	open  bool
	fence *fence
}

func (t *paragraphOpen) add(l line) {
	if t.fence != nil {
		if t.fence.closes(l) {
			t.fence = nil
		}
		t.open = false
		return
	}

	switch {
	case l.blank():
		t.open = false
	case l.indent() >= tabStop:
		// Indented code unless it continues a paragraph.
	default:
		text := l.trimIndent().text
		if f, ok := parseFenceOpen(l); ok {
			t.fence = &f
			t.open = false
			return
		}
		if t.open && isSetextUnderline(text) {
			t.open = false
			return
		}
		if isThematicBreak(text) {
			t.open = false
			return
		}
		if _, _, ok := atxHeading(text); ok {
			t.open = false
			return
		}
		if htmlBlockKind(text) > 0 {
			t.open = false
			return
		}
		if marker, ok := parseListMarker(l); ok && marker.empty {
			t.open = false
			return
		}
		t.open = true
	}
}

// continues reports whether l is a lazy continuation of the open paragraph.
// The line did not match its container, so any block start ends the
// paragraph.
func (t *paragraphOpen) continues(l line) bool {
	return t.open && !l.blank() && !t.p.opensBlock(l, t.sc, false)
}
