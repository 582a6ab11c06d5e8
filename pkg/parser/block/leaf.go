package block

import (
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser/inline"
)

const (
	maxHeadingLevel = 6
	minFenceLength  = 3
	mathFence       = "$$"
)

func isThematicBreak(text string) bool {
	var char byte
	count := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
		case char == 0 && (c == '*' || c == '-' || c == '_'):
			char = c
			count++
		case c == char:
			count++
		default:
			return false
		}
	}
	return count >= 3
}

func isSetextUnderline(text string) (ok bool) {
	_, ok = setextLevel(text)
	return ok
}

func setextLevel(text string) (int, bool) {
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == "" {
		return 0, false
	}
	char := trimmed[0]
	if char != '=' && char != '-' {
		return 0, false
	}
	if strings.Trim(trimmed, string(char)) != "" {
		return 0, false
	}
	if char == '=' {
		return 1, true
	}
	return 2, true
}

// atxHeading parses an ATX heading line without indentation. It returns
// the level and the content with the closing sequence removed.
func atxHeading(text string) (int, string, bool) {
	level := 0
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	if level < len(text) && text[level] != ' ' && text[level] != '\t' {
		return 0, "", false
	}

	content := strings.TrimSpace(text[level:])
	end := len(content)
	for end > 0 && content[end-1] == '#' {
		end--
	}
	switch {
	case end == 0:
		content = ""
	case end < len(content) && (content[end-1] == ' ' || content[end-1] == '\t'):
		content = strings.TrimRight(content[:end], " \t")
	}

	return level, content, true
}

// trailingAttributes splits a trailing {...} block off text.
func trailingAttributes(text string) (string, *mdast.Attributes) {
	if !strings.HasSuffix(text, "}") {
		return text, nil
	}
	open := strings.LastIndexByte(text, '{')
	if open < 0 {
		return text, nil
	}
	attrs, ok := mdast.ParseAttributes(text[open:])
	if !ok {
		return text, nil
	}
	return strings.TrimRight(text[:open], " \t"), attrs
}

func (p *Parser) parseATXHeading(parent *mdast.Node, lines []line, idx int) (int, bool) {
	l := lines[idx].trimIndent()
	level, content, ok := atxHeading(l.text)
	if !ok {
		return 0, false
	}

	node := mdast.NewNode(mdast.NodeHeading)
	node.Pos = l.pos()
	node.Block = mdast.NewBlockAttrs().WithHeadingLevel(level)

	if p.opts.Attributes {
		content, node.Attrs = trailingAttributes(content)
	}

	contentCol := l.col + level
	if content != "" {
		contentCol = l.col + strings.Index(l.text, content)
	}
	node.Raw = rawText(content, mdast.SourcePos{Line: l.num, Column: contentCol})

	mdast.AppendChild(parent, node)
	return idx + 1, true
}

func (p *Parser) parseIndentedCode(parent *mdast.Node, lines []line, idx int) int {
	start := idx
	end := idx
	for idx < len(lines) {
		l := lines[idx]
		if l.blank() {
			idx++
			continue
		}
		if l.indent() < tabStop {
			break
		}
		idx++
		end = idx
	}

	content := make([]line, 0, end-start)
	for _, l := range lines[start:end] {
		content = append(content, l.strip(tabStop))
	}

	node := mdast.NewNode(mdast.NodeIndentedCodeBlock)
	node.Pos = lines[start].strip(tabStop).pos()
	node.Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{})
	node.Literal = joinLines(content)
	mdast.AppendChild(parent, node)

	return end
}

// fence describes an opening code fence.
type fence struct {
	char   byte
	length int
	indent int
	info   string
}

func parseFenceOpen(l line) (fence, bool) {
	indent := l.indent()
	if indent >= tabStop {
		return fence{}, false
	}
	text := l.trimIndent().text
	if text == "" || (text[0] != '`' && text[0] != '~') {
		return fence{}, false
	}

	char := text[0]
	length := 0
	for length < len(text) && text[length] == char {
		length++
	}
	if length < minFenceLength {
		return fence{}, false
	}

	info := strings.TrimSpace(text[length:])
	if char == '`' && strings.IndexByte(info, '`') >= 0 {
		return fence{}, false
	}

	return fence{char: char, length: length, indent: indent, info: info}, true
}

func (f fence) closes(l line) bool {
	if l.indent() >= tabStop {
		return false
	}
	text := strings.TrimRight(l.trimIndent().text, " \t")
	if len(text) < f.length {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] != f.char {
			return false
		}
	}
	return true
}

func (p *Parser) parseFencedCode(parent *mdast.Node, lines []line, idx int) (int, bool) {
	open, ok := parseFenceOpen(lines[idx])
	if !ok {
		return 0, false
	}

	node := mdast.NewNode(mdast.NodeFencedCodeBlock)
	node.Pos = lines[idx].firstPos()

	var content []line
	idx++
	for idx < len(lines) {
		l := lines[idx]
		idx++
		if open.closes(l) {
			break
		}
		content = append(content, l.strip(min(open.indent, l.indent())))
	}

	info := inline.Unescape(open.info)
	if p.opts.Attributes {
		info, node.Attrs = trailingAttributes(info)
	}
	language := info
	if i := strings.IndexAny(language, " \t"); i >= 0 {
		language = language[:i]
	}

	node.Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{
		FenceChar:   open.char,
		FenceLength: open.length,
		Info:        info,
		Language:    language,
	})
	node.Literal = joinLines(content)
	mdast.AppendChild(parent, node)

	return idx, true
}

func (p *Parser) parseMathBlock(parent *mdast.Node, lines []line, idx int) (int, bool) {
	if strings.TrimSpace(lines[idx].text) != mathFence {
		return 0, false
	}

	for end := idx + 1; end < len(lines); end++ {
		if strings.TrimSpace(lines[end].text) != mathFence {
			continue
		}

		node := mdast.NewNode(mdast.NodeMathBlock)
		node.Pos = lines[idx].firstPos()
		node.Literal = strings.TrimSuffix(joinLines(lines[idx+1:end]), "\n")
		mdast.AppendChild(parent, node)
		return end + 1, true
	}

	return 0, false
}

// HTML block kinds, numbered as in CommonMark.
const (
	htmlKindRaw = iota + 1
	htmlKindComment
	htmlKindInstruction
	htmlKindDeclaration
	htmlKindCDATA
	htmlKindBlock
	htmlKindTag
)

//nolint:gochecknoglobals // lookup table
var rawHTMLTags = []string{"script", "pre", "style", "textarea"}

//nolint:gochecknoglobals // lookup table
var blockHTMLTags = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true, "basefont": true,
	"blockquote": true, "body": true, "caption": true, "center": true, "col": true,
	"colgroup": true, "dd": true, "details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "frame": true, "frameset": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true, "header": true, "hr": true,
	"html": true, "iframe": true, "legend": true, "li": true, "link": true, "main": true,
	"menu": true, "menuitem": true, "nav": true, "noframes": true, "ol": true,
	"optgroup": true, "option": true, "p": true, "param": true, "search": true,
	"section": true, "summary": true, "table": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "title": true, "tr": true, "track": true,
	"ul": true,
}

// htmlBlockKind returns the CommonMark HTML block kind that text starts,
// or 0.
func htmlBlockKind(text string) int {
	if len(text) < 2 || text[0] != '<' {
		return 0
	}
	lower := strings.ToLower(text)

	for _, tag := range rawHTMLTags {
		if rest, ok := strings.CutPrefix(lower, "<"+tag); ok {
			if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '>' {
				return htmlKindRaw
			}
		}
	}

	switch {
	case strings.HasPrefix(text, "<!--"):
		return htmlKindComment
	case strings.HasPrefix(text, "<?"):
		return htmlKindInstruction
	case strings.HasPrefix(text, "<![CDATA["):
		return htmlKindCDATA
	case strings.HasPrefix(text, "<!") && len(text) > 2 && isASCIIAlpha(text[2]):
		return htmlKindDeclaration
	}

	name := lower[1:]
	name = strings.TrimPrefix(name, "/")
	end := 0
	for end < len(name) && (isASCIIAlpha(name[end]) || (end > 0 && (name[end] >= '0' && name[end] <= '9' || name[end] == '-'))) {
		end++
	}
	if end > 0 && blockHTMLTags[name[:end]] {
		rest := name[end:]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '>' || strings.HasPrefix(rest, "/>") {
			return htmlKindBlock
		}
	}

	if tagEnd, ok := inline.ScanHTMLTag(text, 0); ok && strings.TrimSpace(text[tagEnd:]) == "" &&
		!strings.HasPrefix(text, "<!") && !strings.HasPrefix(text, "<?") {
		return htmlKindTag
	}

	return 0
}

func htmlBlockEnds(kind int, text string) bool {
	lower := strings.ToLower(text)
	switch kind {
	case htmlKindRaw:
		for _, tag := range rawHTMLTags {
			if strings.Contains(lower, "</"+tag+">") {
				return true
			}
		}
		return false
	case htmlKindComment:
		return strings.Contains(text, "-->")
	case htmlKindInstruction:
		return strings.Contains(text, "?>")
	case htmlKindDeclaration:
		return strings.Contains(text, ">")
	case htmlKindCDATA:
		return strings.Contains(text, "]]>")
	default:
		return false
	}
}

func (p *Parser) parseHTMLBlock(parent *mdast.Node, lines []line, idx int, inParagraph bool) (int, bool) {
	first := lines[idx]
	kind := htmlBlockKind(first.trimIndent().text)
	if kind == 0 || (inParagraph && kind == htmlKindTag) {
		return 0, false
	}

	start := idx
	if kind >= htmlKindBlock {
		for idx < len(lines) && !lines[idx].blank() {
			idx++
		}
	} else {
		for idx < len(lines) {
			ends := htmlBlockEnds(kind, lines[idx].text)
			idx++
			if ends {
				break
			}
		}
	}

	node := mdast.NewNode(mdast.NodeHTMLBlock)
	node.Pos = first.firstPos()
	node.Literal = joinLines(lines[start:idx])
	mdast.AppendChild(parent, node)

	return idx, true
}

func (p *Parser) parseParagraph(parent *mdast.Node, lines []line, idx int, sc scope) int {
	start := idx
	idx++

	setext := 0
	for idx < len(lines) {
		l := lines[idx]
		if l.blank() {
			break
		}
		if !l.lazy {
			if l.indent() < tabStop {
				if level, ok := setextLevel(l.trimIndent().text); ok {
					setext = level
					break
				}
			}
			if p.interrupts(l, sc) {
				break
			}
			if p.opts.Tables && idx+1 < len(lines) && isTableStart(l, lines[idx+1]) {
				break
			}
		}
		idx++
	}

	raw := rawContent(lines[start:idx])
	raw = p.extractReferences(parent, raw)
	if raw == nil {
		// Only definitions; an underline is parsed again on its own.
		return idx
	}

	node := mdast.NewNode(mdast.NodeParagraph)
	if setext > 0 {
		node.Kind = mdast.NodeHeading
		node.Block = mdast.NewBlockAttrs().WithHeadingLevel(setext)
		node.Block.Setext = true
		idx++
	}
	node.Pos = raw.Map.Pos(0)
	node.Raw = raw
	mdast.AppendChild(parent, node)

	return idx
}

// extractReferences consumes link reference definitions at the start of
// a paragraph. It returns the remaining content, or nil when nothing is
// left.
func (p *Parser) extractReferences(parent *mdast.Node, raw *mdast.RawContent) *mdast.RawContent {
	text := raw.Text
	off := 0

	for off < len(text) && text[off] == '[' {
		end, label, link, ok := scanReferenceDefinition(text, off)
		if !ok {
			break
		}

		key := inline.NormalizeLabel(label)
		if _, exists := p.refs[key]; !exists {
			p.refs[key] = link
		}

		node := mdast.NewNode(mdast.NodeLinkReferenceDefinition)
		node.Pos = raw.Map.Pos(off)
		node.Block = &mdast.BlockAttrs{Label: key, Link: link}
		mdast.AppendChild(parent, node)

		off = end
	}

	if off == 0 {
		return raw
	}
	if off >= len(text) {
		return nil
	}
	return &mdast.RawContent{Text: text[off:], Map: raw.Map.Shift(off)}
}

// scanReferenceDefinition parses [label]: destination "title" at off and
// returns the offset of the next line.
func scanReferenceDefinition(text string, off int) (int, string, *mdast.LinkAttrs, bool) {
	labelEnd, label, ok := inline.ScanLinkLabel(text, off)
	if !ok || labelEnd >= len(text) || text[labelEnd] != ':' {
		return 0, "", nil, false
	}

	idx := skipDefinitionSpace(text, labelEnd+1)
	destEnd, dest, ok := inline.ScanLinkDestination(text, idx)
	if !ok {
		return 0, "", nil, false
	}

	link := &mdast.LinkAttrs{Destination: dest, ReferenceLabel: label, ReferenceStyle: mdast.RefStyleFull}

	titleStart := skipDefinitionSpace(text, destEnd)
	if titleStart > destEnd {
		if titleEnd, title, ok := inline.ScanLinkTitle(text, titleStart); ok {
			if lineEnd, atEnd := restOfLineBlank(text, titleEnd); atEnd {
				link.Title = title
				return lineEnd, label, link, true
			}
		}
	}

	lineEnd, atEnd := restOfLineBlank(text, destEnd)
	if !atEnd {
		return 0, "", nil, false
	}
	return lineEnd, label, link, true
}

// skipDefinitionSpace skips spaces, tabs and at most one line ending.
func skipDefinitionSpace(text string, idx int) int {
	newline := false
	for idx < len(text) {
		switch text[idx] {
		case ' ', '\t':
		case '\n':
			if newline {
				return idx
			}
			newline = true
		default:
			return idx
		}
		idx++
	}
	return idx
}

// restOfLineBlank reports whether only whitespace follows idx on its line
// and returns the offset of the next line.
func restOfLineBlank(text string, idx int) (int, bool) {
	for idx < len(text) {
		switch text[idx] {
		case ' ', '\t':
			idx++
		case '\n':
			return idx + 1, true
		default:
			return 0, false
		}
	}
	return idx, true
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
