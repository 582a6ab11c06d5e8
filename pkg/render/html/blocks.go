package html

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/yaklabco/gomdrender/pkg/highlight"
	"github.com/yaklabco/gomdrender/pkg/mdast"
)

func (c *renderContext) paragraph(n *mdast.Node) {
	c.write("<p>")
	c.children(n)
	c.write("</p>\n")
}

func (c *renderContext) heading(n *mdast.Node) {
	level := 1
	if n.Block != nil {
		level = min(max(n.Block.HeadingLevel, 1), 6)
	}
	tag := "h" + strconv.Itoa(level)

	attrs := n.Attrs.Clone()
	if c.opts.HeadingAnchors {
		if attrs == nil {
			attrs = &mdast.Attributes{}
		}
		attrs.ID = c.headingID(n, attrs.ID)
	}

	c.write("<" + tag)
	c.attrs(attrs)
	c.write(">")
	c.children(n)
	if c.opts.HeadingAnchors {
		c.write(`<a class="marco-heading-anchor" href="#`)
		c.escape(attrs.ID)
		c.write(`" aria-label="Link to this heading">` + headingAnchorIcon + `</a>`)
	}
	c.write("</" + tag + ">\n")
}

// headingID returns explicit, or a slug of the heading text that no
// earlier heading of this pass has used.
func (c *renderContext) headingID(n *mdast.Node, explicit string) string {
	if explicit != "" {
		c.slugs[explicit]++
		return explicit
	}

	base := c.slugify(mdast.TextContent(n))
	id := base
	for seen := c.slugs[base]; c.slugs[id] > 0; seen++ {
		id = base + "-" + strconv.Itoa(seen)
	}
	c.slugs[base]++
	if id != base {
		c.slugs[id]++
	}
	return id
}

// slugify lower-cases text, turns spaces into hyphens and drops
// punctuation.
func (c *renderContext) slugify(text string) string {
	var sb strings.Builder
	for _, r := range c.lower.String(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte('-')
		}
	}
	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}

func (c *renderContext) list(n *mdast.Node) {
	attrs := n.Block
	ordered := attrs != nil && attrs.List != nil && attrs.List.Ordered
	tight := attrs != nil && attrs.List != nil && attrs.List.Tight

	tag := "ul"
	if ordered {
		tag = "ol"
	}

	c.write("<" + tag)
	if ordered && attrs.List.StartNumber != 1 {
		c.write(` start="` + strconv.Itoa(attrs.List.StartNumber) + `"`)
	}
	if hasTaskItem(n) {
		c.write(` class="contains-task-list"`)
	}
	c.write(">\n")

	for item := n.FirstChild; item != nil; item = item.Next {
		if item.Kind == mdast.NodeBlankLine {
			continue
		}
		if item.Kind != mdast.NodeListItem {
			c.warn(item, item.Kind.String()+" directly inside a list")
			c.node(item)
			continue
		}
		c.listItem(item, tight)
	}
	c.write("</" + tag + ">\n")
}

func hasTaskItem(list *mdast.Node) bool {
	for item := list.FirstChild; item != nil; item = item.Next {
		if item.Block != nil && item.Block.Task != nil {
			return true
		}
	}
	return false
}

func (c *renderContext) listItem(n *mdast.Node, tight bool) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.opts.MaxNesting {
		c.warn(n, "container nested too deeply, rendered as text")
		c.write("<li>")
		c.escape(mdast.TextContent(n))
		c.write("</li>\n")
		return
	}

	var task *mdast.TaskAttrs
	if n.Block != nil {
		task = n.Block.Task
	}

	first := n.FirstChild
	firstIsParagraph := first != nil && first.Kind == mdast.NodeParagraph

	if task != nil {
		c.write(`<li class="task-list-item">`)
	} else {
		c.write("<li>")
	}

	child := first
	switch {
	case task != nil && firstIsParagraph && tight:
		c.checkbox(task.Checked)
		c.children(first)
		if first.Next != nil {
			c.write("\n")
		}
		child = first.Next
	case task != nil && firstIsParagraph:
		c.write("\n<p>")
		c.checkbox(task.Checked)
		c.children(first)
		c.write("</p>\n")
		child = first.Next
	case task != nil:
		c.checkbox(task.Checked)
		if first != nil {
			c.write("\n")
		}
	case first != nil && !(tight && firstIsParagraph):
		c.write("\n")
	}

	for ; child != nil; child = child.Next {
		if tight && child.Kind == mdast.NodeParagraph {
			c.children(child)
			if child.Next != nil {
				c.write("\n")
			}
			continue
		}
		c.node(child)
	}
	c.write("</li>\n")
}

func (c *renderContext) orphanListItem(n *mdast.Node) {
	c.warn(n, "list item outside a list")
	c.write("<ul>\n")
	c.listItem(n, false)
	c.write("</ul>\n")
}

func (c *renderContext) codeBlock(n *mdast.Node) {
	lang := ""
	if n.Block != nil && n.Block.CodeBlock != nil {
		lang = n.Block.CodeBlock.Language
	}
	if lang == "" && n.Kind == mdast.NodeFencedCodeBlock && c.opts.DetectCodeLanguage {
		if guess := highlight.Detect(n.Literal); guess != highlight.LangText {
			lang = guess
		}
	}

	c.write("<pre><code")
	if lang != "" {
		c.attrs(n.Attrs, "language-"+lang)
	} else {
		c.attrs(n.Attrs)
	}
	c.write(">")

	if html, ok := c.highlight(n, lang); ok {
		c.write(html)
	} else {
		c.escape(n.Literal)
	}
	c.write("</code></pre>\n")
}

// highlight runs the highlighter and turns a panic in it into a
// warning and a plain rendering.
func (c *renderContext) highlight(n *mdast.Node, lang string) (html string, ok bool) {
	if !c.opts.SyntaxHighlighting || c.opts.Highlighter == nil || lang == "" {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			c.warn(n, fmt.Sprintf("highlighter failed for %q: %v", lang, r))
			html, ok = "", false
		}
	}()

	html, ok = c.opts.Highlighter.Highlight(n.Literal, lang)
	if ok && c.opts.SanitizeHTML {
		html = Sanitize(html)
	}
	return html, ok
}

func (c *renderContext) rawHTML(literal string) {
	if c.opts.SanitizeHTML {
		c.write(Sanitize(literal))
		return
	}
	c.write(literal)
}

func (c *renderContext) table(n *mdast.Node) {
	var caption *mdast.Node
	var header, body, other []*mdast.Node

	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case mdast.NodeTableCaption:
			if caption == nil {
				caption = child
			} else {
				other = append(other, child)
			}
		case mdast.NodeTableRow:
			switch {
			case child.Block == nil:
				c.warn(child, "table row is neither header nor body, rendered as body")
				body = append(body, child)
			case child.Block.Header:
				header = append(header, child)
			default:
				body = append(body, child)
			}
		case mdast.NodeBlankLine:
		default:
			other = append(other, child)
		}
	}

	c.write("<table>\n")
	if caption != nil {
		c.write("<caption>")
		c.children(caption)
		c.write("</caption>\n")
	}
	if len(header) > 0 {
		c.write("<thead>\n")
		for _, row := range header {
			c.tableRow(row, true)
		}
		c.write("</thead>\n")
	}
	if len(body) > 0 {
		c.write("<tbody>\n")
		for _, row := range body {
			c.tableRow(row, false)
		}
		c.write("</tbody>\n")
	}
	c.write("</table>\n")

	for _, child := range other {
		c.warn(child, child.Kind.String()+" directly inside a table")
		c.node(child)
	}
}

func (c *renderContext) tableRow(row *mdast.Node, header bool) {
	tag := "td"
	if header {
		tag = "th"
	}

	c.write("<tr>\n")
	for cell := row.FirstChild; cell != nil; cell = cell.Next {
		if cell.Kind != mdast.NodeTableCell {
			c.warn(cell, cell.Kind.String()+" directly inside a table row")
			c.write("<" + tag + ">")
			c.node(cell)
			c.write("</" + tag + ">\n")
			continue
		}

		c.write("<" + tag)
		if cell.Block != nil && cell.Block.Align != mdast.AlignNone {
			c.write(` style="text-align:` + cell.Block.Align.String() + `"`)
		}
		c.write(">")
		c.children(cell)
		c.write("</" + tag + ">\n")
	}
	c.write("</tr>\n")
}

func (c *renderContext) orphanTablePart(n *mdast.Node) {
	switch n.Kind {
	case mdast.NodeTableRow:
		c.warn(n, "table row outside a table")
		c.write("<table>\n<tbody>\n")
		c.tableRow(n, false)
		c.write("</tbody>\n</table>\n")
	case mdast.NodeTableCell:
		c.warn(n, "table cell outside a table row")
		c.paragraph(n)
	default:
		c.warn(n, "table caption outside a table")
		c.paragraph(n)
	}
}

func (c *renderContext) customBlock(n *mdast.Node) {
	name := ""
	if n.Block != nil {
		name = n.Block.TagName
	}

	c.write("<div")
	c.attrs(n.Attrs, c.class("custom-block"))
	c.write(` data-tag="`)
	c.escape(name)
	c.write(`">`)
	c.escape(n.Literal)
	c.write("</div>\n")
}
