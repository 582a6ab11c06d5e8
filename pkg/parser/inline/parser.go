// Package inline turns the raw text of leaf blocks into inline nodes.
//
// Parsing follows the CommonMark delimiter-stack algorithm: delimiter runs
// and brackets become literal text nodes first, and are rewritten into
// emphasis, links and images once their closers are seen.
package inline

import (
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Options selects the extensions recognized in inline content.
type Options struct {
	Strikethrough    bool
	Math             bool
	Emoji            bool
	Mentions         bool
	TaskCheckboxes   bool
	Footnotes        bool
	AutolinkLiterals bool
	Attributes       bool
}

// References resolves normalized link labels.
type References interface {
	Reference(label string) (*mdast.LinkAttrs, bool)
}

// EmojiLookup maps a shortcode without colons to its characters.
type EmojiLookup func(shortcode string) (string, bool)

// Parser parses inline content. It holds no per-call state and may be
// reused.
type Parser struct {
	opts  Options
	refs  References
	emoji EmojiLookup
}

// NewParser creates a parser. refs and emoji may be nil.
func NewParser(opts Options, refs References, emoji EmojiLookup) *Parser {
	return &Parser{opts: opts, refs: refs, emoji: emoji}
}

// bracket is an entry of the bracket stack.
type bracket struct {
	// node is the literal "[", "![" or "^[" text node.
	node *mdast.Node

	image    bool
	footnote bool

	// start is the offset just after the opening bracket.
	start int

	// delimBottom is the height of the delimiter stack when the bracket
	// was pushed.
	delimBottom int

	active       bool
	bracketAfter bool
}

// state is owned by a single Parse call.
type state struct {
	p        *Parser
	src      string
	lm       mdast.LineMap
	lexer    *Lexer
	parent   *mdast.Node
	delims   []*Delimiter
	brackets []*bracket
}

// Parse parses raw and appends the resulting inlines to parent. lm maps
// offsets of raw back to source positions.
func (p *Parser) Parse(parent *mdast.Node, raw string, lm mdast.LineMap) {
	s := &state{
		p:      p,
		src:    raw,
		lm:     lm,
		lexer:  NewLexer(raw),
		parent: parent,
	}

	for {
		tok, ok := s.lexer.Next()
		if !ok {
			break
		}
		s.handle(tok)
	}

	s.processEmphasis(0)
}

func (s *state) pos(offset int) mdast.SourcePos {
	return s.lm.Pos(offset)
}

func (s *state) appendNode(kind mdast.NodeKind, offset int) *mdast.Node {
	node := mdast.NewNode(kind)
	node.Pos = s.pos(offset)
	mdast.AppendChild(s.parent, node)
	return node
}

func (s *state) appendText(text string, offset int) *mdast.Node {
	node := mdast.NewText(text, s.pos(offset))
	mdast.AppendChild(s.parent, node)
	return node
}

func (s *state) handle(tok Token) {
	opts := s.p.opts

	switch tok.Kind {
	case TokText:
		s.handleText(tok)
	case TokStar, TokUnderscore:
		s.pushDelimiter(tok)
	case TokTilde:
		if opts.Strikethrough && tok.Count <= 2 {
			s.pushDelimiter(tok)
		} else {
			s.appendText(tok.Literal(s.src), tok.Start)
		}
	case TokBacktick:
		s.handleCodeSpan(tok)
	case TokDollar:
		s.handleMath(tok)
	case TokOpenBracket:
		s.handleOpenBracket(tok)
	case TokBang:
		if tok.End < len(s.src) && s.src[tok.End] == '[' {
			node := s.appendText("![", tok.Start)
			s.pushBracket(node, tok.End+1, true, false)
			s.lexer.Reset(tok.End + 1)
			return
		}
		s.appendText("!", tok.Start)
	case TokCloseBracket:
		s.handleCloseBracket(tok)
	case TokBackslash:
		s.appendText(string(tok.Char), tok.Start)
	case TokEntity:
		s.appendText(decodeEntity(tok.Literal(s.src)), tok.Start)
	case TokHTML:
		s.handleHTML(tok)
	case TokAttributeBlock:
		s.handleAttributes(tok)
	case TokSoftBreak:
		s.appendNode(mdast.NodeSoftBreak, tok.Start)
	case TokHardBreak:
		s.appendNode(mdast.NodeHardBreak, tok.Start)
	default:
		s.appendText(tok.Literal(s.src), tok.Start)
	}
}

func (s *state) pushDelimiter(tok Token) {
	node := s.appendText(tok.Literal(s.src), tok.Start)
	char := s.src[tok.Start]
	canOpen, canClose := classifyRun(s.src, tok.Start, tok.End, char)

	s.delims = append(s.delims, &Delimiter{
		Char:      char,
		Count:     tok.Count,
		OrigCount: tok.Count,
		CanOpen:   canOpen,
		CanClose:  canClose,
		Node:      node,
		Active:    true,
	})
}

func (s *state) handleCodeSpan(tok Token) {
	end, closeStart, ok := findRun(s.src, tok.End, '`', tok.Count)
	if !ok {
		s.appendText(tok.Literal(s.src), tok.Start)
		return
	}

	node := s.appendNode(mdast.NodeCodeSpan, tok.Start)
	node.Literal = normalizeCodeSpan(s.src[tok.End:closeStart])
	s.lexer.Reset(end)
}

// findRun finds the next run of exactly count chars at or after from.
// It returns the offset after the run and the offset where it starts.
func findRun(src string, from int, char byte, count int) (int, int, bool) {
	for idx := from; idx < len(src); {
		rel := strings.IndexByte(src[idx:], char)
		if rel < 0 {
			return 0, 0, false
		}
		start := idx + rel
		end := start
		for end < len(src) && src[end] == char {
			end++
		}
		if end-start == count {
			return end, start, true
		}
		idx = end
	}
	return 0, 0, false
}

// normalizeCodeSpan converts line endings to spaces and strips one
// leading and trailing space when both are present and the content is
// not all spaces.
func normalizeCodeSpan(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' &&
		strings.Trim(content, " ") != "" {
		content = content[1 : len(content)-1]
	}
	return content
}

func (s *state) handleMath(tok Token) {
	if !s.p.opts.Math || tok.Count > 2 {
		s.appendText(tok.Literal(s.src), tok.Start)
		return
	}

	end, closeStart, ok := findRun(s.src, tok.End, '$', tok.Count)
	if ok {
		content := s.src[tok.End:closeStart]
		ok = validMath(content, tok.Count == 2, s.src, end)
		if ok {
			node := s.appendNode(mdast.NodeMath, tok.Start)
			node.Literal = content
			node.Inline = &mdast.InlineAttrs{Display: tok.Count == 2}
			s.lexer.Reset(end)
			return
		}
	}

	s.appendText(tok.Literal(s.src), tok.Start)
}

func validMath(content string, display bool, src string, end int) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	if display {
		return true
	}
	first, last := content[0], content[len(content)-1]
	if first == ' ' || first == '\n' || last == ' ' || last == '\n' {
		return false
	}
	return end >= len(src) || !isDigit(src[end])
}

func (s *state) handleHTML(tok Token) {
	lit := tok.Literal(s.src)
	if !tok.Autolink {
		node := s.appendNode(mdast.NodeHTMLInline, tok.Start)
		node.Literal = lit
		return
	}

	target := lit[1 : len(lit)-1]
	dest := target
	if tok.Email {
		dest = "mailto:" + target
	}
	s.appendLink(tok.Start, target, &mdast.LinkAttrs{
		Destination:    dest,
		ReferenceStyle: mdast.RefStyleAutolink,
		Email:          tok.Email,
	})
}

func (s *state) appendLink(offset int, text string, link *mdast.LinkAttrs) *mdast.Node {
	node := s.appendNode(mdast.NodeAutolink, offset)
	node.Inline = mdast.NewInlineAttrs().WithLink(link)
	mdast.AppendChild(node, mdast.NewText(text, node.Pos))
	return node
}

func (s *state) handleAttributes(tok Token) {
	lit := tok.Literal(s.src)
	prev := s.parent.LastChild

	if s.p.opts.Attributes && prev != nil {
		switch prev.Kind {
		case mdast.NodeLink, mdast.NodeImage, mdast.NodeAutolink, mdast.NodeCodeSpan, mdast.NodeMath:
			if attrs, ok := mdast.ParseAttributes(lit); ok {
				if prev.Attrs == nil {
					prev.Attrs = attrs
				} else {
					prev.Attrs.Merge(attrs)
				}
				return
			}
		}
	}

	s.appendText(lit, tok.Start)
}

func (s *state) handleOpenBracket(tok Token) {
	if s.p.opts.TaskCheckboxes {
		if checked, ok := s.scanCheckbox(tok.Start); ok {
			node := s.appendNode(mdast.NodeTaskCheckbox, tok.Start)
			node.Inline = &mdast.InlineAttrs{Checked: checked}
			s.lexer.Reset(tok.Start + 3)
			return
		}
	}

	node := s.appendText("[", tok.Start)
	s.pushBracket(node, tok.End, false, false)
}

// scanCheckbox recognizes a free-standing "[ ]", "[x]" or "[X]".
func (s *state) scanCheckbox(start int) (bool, bool) {
	src := s.src
	if start+3 > len(src) || src[start+2] != ']' {
		return false, false
	}
	if start > 0 && !isUnicodeSpace(rune(src[start-1])) {
		return false, false
	}
	if start+3 < len(src) && !isUnicodeSpace(rune(src[start+3])) {
		return false, false
	}

	switch src[start+1] {
	case ' ':
		return false, true
	case 'x', 'X':
		if s.p.refs != nil {
			if _, isRef := s.p.refs.Reference(NormalizeLabel(src[start+1 : start+2])); isRef {
				return false, false
			}
		}
		return true, true
	default:
		return false, false
	}
}

func (s *state) pushBracket(node *mdast.Node, start int, image, footnote bool) {
	if n := len(s.brackets); n > 0 {
		s.brackets[n-1].bracketAfter = true
	}
	s.brackets = append(s.brackets, &bracket{
		node:        node,
		image:       image,
		footnote:    footnote,
		start:       start,
		delimBottom: len(s.delims),
		active:      true,
	})
}

func (s *state) popBracket() {
	s.brackets = s.brackets[:len(s.brackets)-1]
}

func (s *state) handleCloseBracket(tok Token) {
	if len(s.brackets) == 0 {
		s.appendText("]", tok.Start)
		return
	}

	opener := s.brackets[len(s.brackets)-1]
	if !opener.active {
		s.popBracket()
		s.appendText("]", tok.Start)
		return
	}

	content := s.src[opener.start:tok.Start]

	if opener.footnote {
		node := mdast.NewNode(mdast.NodeInlineFootnote)
		s.finishBracket(opener, node)
		return
	}

	if s.p.opts.Footnotes && !opener.image {
		if label, ok := footnoteLabel(content); ok {
			node := mdast.NewNode(mdast.NodeFootnoteReference)
			node.Literal = label
			node.Inline = &mdast.InlineAttrs{Label: NormalizeLabel(label)}
			s.finishBracket(opener, node)
			for child := node.FirstChild; child != nil; child = node.FirstChild {
				mdast.RemoveChild(node, child)
			}
			return
		}
	}

	link, end, ok := s.scanLinkTail(tok.End, content, opener.bracketAfter)
	if !ok {
		s.popBracket()
		s.appendText("]", tok.Start)
		return
	}

	kind := mdast.NodeLink
	if opener.image {
		kind = mdast.NodeImage
	}
	node := mdast.NewNode(kind)
	node.Inline = mdast.NewInlineAttrs().WithLink(link)
	s.finishBracket(opener, node)
	s.lexer.Reset(end)

	if !opener.image {
		// Links may not contain other links.
		for _, b := range s.brackets {
			if !b.image && !b.footnote {
				b.active = false
			}
		}
	}
}

// finishBracket moves everything after the opener into node, resolves the
// emphasis inside it and replaces the opener's literal with node.
func (s *state) finishBracket(opener *bracket, node *mdast.Node) {
	node.Pos = opener.node.Pos
	for child := opener.node.Next; child != nil; {
		next := child.Next
		mdast.AppendChild(node, child)
		child = next
	}
	mdast.InsertAfter(opener.node, node)
	s.processEmphasis(opener.delimBottom)
	mdast.Unlink(opener.node)
	s.popBracket()
}

// scanLinkTail tries the inline, full, collapsed and shortcut forms after
// a closing bracket at offset after.
func (s *state) scanLinkTail(after int, content string, bracketAfter bool) (*mdast.LinkAttrs, int, bool) {
	src := s.src

	if after < len(src) && src[after] == '(' {
		if dest, title, end, ok := scanInlineLink(src, after+1); ok {
			return &mdast.LinkAttrs{
				Destination:    dest,
				Title:          title,
				ReferenceStyle: mdast.RefStyleInline,
			}, end, true
		}
	}

	if s.p.refs == nil {
		return nil, 0, false
	}

	label, style, end := "", mdast.RefStyleShortcut, after
	if labelEnd, full, ok := ScanLinkLabel(src, after); ok {
		label, style, end = full, mdast.RefStyleFull, labelEnd
	} else if strings.HasPrefix(src[after:], "[]") {
		label, style, end = content, mdast.RefStyleCollapsed, after+2
	} else if !bracketAfter {
		label = content
	}

	if label == "" || len(label) > maxLabelLength {
		return nil, 0, false
	}

	ref, ok := s.p.refs.Reference(NormalizeLabel(label))
	if !ok {
		return nil, 0, false
	}

	return &mdast.LinkAttrs{
		Destination:    ref.Destination,
		Title:          ref.Title,
		ReferenceLabel: label,
		ReferenceStyle: style,
	}, end, true
}

// scanInlineLink scans "dest "title")" starting just after the '('.
func scanInlineLink(src string, start int) (string, string, int, bool) {
	idx := skipLinkSpace(src, start)
	if idx < len(src) && src[idx] == ')' {
		return "", "", idx + 1, true
	}

	end, dest, ok := ScanLinkDestination(src, idx)
	if !ok {
		return "", "", 0, false
	}
	idx = end

	title := ""
	spaced := skipLinkSpace(src, idx)
	if spaced > idx {
		if titleEnd, t, ok := ScanLinkTitle(src, spaced); ok {
			title = t
			idx = skipLinkSpace(src, titleEnd)
		} else {
			idx = spaced
		}
	}

	if idx < len(src) && src[idx] == ')' {
		return dest, title, idx + 1, true
	}
	return "", "", 0, false
}

// footnoteLabel returns the label of "^label" bracket content.
func footnoteLabel(content string) (string, bool) {
	if len(content) < 2 || content[0] != '^' {
		return "", false
	}
	label := content[1:]
	if strings.ContainsAny(label, " \t\n[]") {
		return "", false
	}
	return label, true
}
