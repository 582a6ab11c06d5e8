package html

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Renderer turns parsed documents into HTML. It keeps no state between
// calls and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts.withDefaults()}
}

// Result is the output of one render pass.
type Result struct {
	HTML string

	// Warnings lists the structural problems the renderer worked around.
	Warnings []mdast.Warning
}

// Render renders doc to a string.
func Render(doc *mdast.ParsedDocument, opts Options) (string, error) {
	result, err := New(opts).Render(doc)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// Render renders doc.
func (r *Renderer) Render(doc *mdast.ParsedDocument) (*Result, error) {
	var buf bytes.Buffer
	warnings, err := r.RenderTo(&buf, doc)
	if err != nil {
		return nil, err
	}
	return &Result{HTML: buf.String(), Warnings: warnings}, nil
}

// RenderTo renders doc to w and returns the warnings of the pass.
func (r *Renderer) RenderTo(w io.Writer, doc *mdast.ParsedDocument) ([]mdast.Warning, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrNilDocument
	}

	ctx := newRenderContext(r.opts, doc)
	ctx.children(doc.Root)
	ctx.footnoteSection()

	if _, err := w.Write(ctx.buf.Bytes()); err != nil {
		return ctx.warnings, fmt.Errorf("write html: %w", err)
	}
	return ctx.warnings, nil
}

// renderContext is the mutable state of a single render pass.
type renderContext struct {
	opts     Options
	doc      *mdast.ParsedDocument
	buf      bytes.Buffer
	warnings []mdast.Warning

	notes       *footnotes
	tabGroups   int
	sliderDecks int
	slugs       map[string]int
	lower       cases.Caser
	depth       int
}

func newRenderContext(opts Options, doc *mdast.ParsedDocument) *renderContext {
	return &renderContext{
		opts:  opts,
		doc:   doc,
		notes: collectFootnotes(doc.Root),
		slugs: make(map[string]int),
		lower: cases.Lower(language.Und),
	}
}

func (c *renderContext) warn(n *mdast.Node, msg string) {
	c.warnings = append(c.warnings, mdast.Warning{Pos: n.Pos, Kind: n.Kind, Message: msg})
	c.opts.Logger.Warn(msg, "node", n.Kind.String(), "line", n.Pos.Line, "column", n.Pos.Column)
}

func (c *renderContext) write(s string) {
	c.buf.WriteString(s)
}

func (c *renderContext) escape(s string) {
	c.buf.Write(util.EscapeHTML([]byte(s)))
}

// class prefixes one of the renderer's own CSS classes.
func (c *renderContext) class(name string) string {
	return c.opts.ClassPrefix + name
}

// classes prefixes several classes and joins them.
func (c *renderContext) classes(names ...string) string {
	for i, name := range names {
		names[i] = c.class(name)
	}
	return strings.Join(names, " ")
}

// attrs writes the id, classes and key/value pairs of a node. extra
// classes come first.
func (c *renderContext) attrs(attrs *mdast.Attributes, extra ...string) {
	if attrs != nil && attrs.ID != "" {
		c.write(` id="`)
		c.escape(attrs.ID)
		c.write(`"`)
	}

	all := extra
	if attrs != nil {
		all = append(append([]string(nil), extra...), attrs.Classes...)
	}
	if len(all) > 0 {
		c.write(` class="`)
		c.escape(strings.Join(all, " "))
		c.write(`"`)
	}

	if attrs == nil {
		return
	}
	for _, pair := range attrs.Pairs {
		if !validAttrName(pair.Key) {
			continue
		}
		if c.opts.SanitizeHTML && unsafeAttr(pair.Key, pair.Value) {
			continue
		}
		c.write(" " + pair.Key + `="`)
		c.escape(pair.Value)
		c.write(`"`)
	}
}

func validAttrName(name string) bool {
	if name == "" || name == "id" || name == "class" {
		return false
	}
	for i := range len(name) {
		ch := name[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '_' || ch == ':' {
			continue
		}
		return false
	}
	return true
}

// node renders one node of any kind.
func (c *renderContext) node(n *mdast.Node) {
	if n.IsContainer() && n.Kind != mdast.NodeDocument {
		c.depth++
		defer func() { c.depth-- }()
		if c.depth > c.opts.MaxNesting {
			c.warn(n, "container nested too deeply, rendered as text")
			c.write("<p>")
			c.escape(mdast.TextContent(n))
			c.write("</p>\n")
			return
		}
	}

	if n.IsBlock() {
		c.block(n)
		return
	}
	c.inline(n)
}

func (c *renderContext) children(n *mdast.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		c.node(child)
	}
}

func (c *renderContext) block(n *mdast.Node) {
	switch n.Kind {
	case mdast.NodeDocument:
		c.children(n)
	case mdast.NodeParagraph:
		c.paragraph(n)
	case mdast.NodeHeading:
		c.heading(n)
	case mdast.NodeBlockquote:
		c.write("<blockquote>\n")
		c.children(n)
		c.write("</blockquote>\n")
	case mdast.NodeList:
		c.list(n)
	case mdast.NodeListItem:
		c.orphanListItem(n)
	case mdast.NodeIndentedCodeBlock, mdast.NodeFencedCodeBlock:
		c.codeBlock(n)
	case mdast.NodeThematicBreak:
		c.write("<hr>\n")
	case mdast.NodeHTMLBlock:
		c.rawHTML(n.Literal)
	case mdast.NodeTable:
		c.table(n)
	case mdast.NodeTableRow, mdast.NodeTableCell, mdast.NodeTableCaption:
		c.orphanTablePart(n)
	case mdast.NodeMathBlock:
		c.write(`<div class="` + c.classes("math", "math-display") + `">`)
		c.escape(n.Literal)
		c.write("</div>\n")
	case mdast.NodeCustomTagBlock:
		c.customBlock(n)
	case mdast.NodeAdmonition:
		c.admonition(n)
	case mdast.NodeTabGroup:
		c.tabGroup(n)
	case mdast.NodeTabItem:
		c.warn(n, "tab outside a tab group")
		c.write(`<div class="marco-tabs__panel">` + "\n")
		c.children(n)
		c.write("</div>\n")
	case mdast.NodeSliderDeck:
		c.sliderDeck(n)
	case mdast.NodeSlide:
		c.warn(n, "slide outside a slider deck")
		c.write(`<section class="marco-sliders__slide">` + "\n")
		c.children(n)
		c.write("</section>\n")
	case mdast.NodeFootnoteDefinition, mdast.NodeLinkReferenceDefinition, mdast.NodeBlankLine:
		// Footnotes are written at the end; the others have no output.
	default:
		c.warn(n, "unknown block "+n.Kind.String())
		c.children(n)
	}
}
