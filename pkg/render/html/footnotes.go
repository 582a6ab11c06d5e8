package html

import (
	"strconv"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// footnote is a definition that has been referenced at least once.
type footnote struct {
	number int
	body   *mdast.Node
	inline bool
	refs   int
}

// footnotes numbers definitions in the order they are first referenced.
type footnotes struct {
	defs    map[string]*mdast.Node
	byLabel map[string]*footnote
	order   []*footnote
}

// collectFootnotes indexes the definitions of a tree. The first
// definition of a label wins.
func collectFootnotes(root *mdast.Node) *footnotes {
	notes := &footnotes{
		defs:    make(map[string]*mdast.Node),
		byLabel: make(map[string]*footnote),
	}
	for _, def := range mdast.FindByKind(root, mdast.NodeFootnoteDefinition) {
		label := ""
		if def.Block != nil {
			label = def.Block.Label
		}
		if _, seen := notes.defs[label]; !seen {
			notes.defs[label] = def
		}
	}
	return notes
}

// reference records a reference to label. It returns nil when no
// definition exists.
func (f *footnotes) reference(label string) *footnote {
	if note, ok := f.byLabel[label]; ok {
		note.refs++
		return note
	}
	def, ok := f.defs[label]
	if !ok {
		return nil
	}
	note := &footnote{number: len(f.order) + 1, body: def, refs: 1}
	f.byLabel[label] = note
	f.order = append(f.order, note)
	return note
}

// inline records an inline footnote, which is its own definition.
func (f *footnotes) inline(body *mdast.Node) *footnote {
	note := &footnote{number: len(f.order) + 1, body: body, inline: true, refs: 1}
	f.order = append(f.order, note)
	return note
}

func refID(number, ref int) string {
	id := "fnref" + strconv.Itoa(number)
	if ref > 1 {
		id += "-" + strconv.Itoa(ref)
	}
	return id
}

func (c *renderContext) footnoteReference(n *mdast.Node) {
	label := ""
	if n.Inline != nil {
		label = n.Inline.Label
	}

	note := c.notes.reference(label)
	if note == nil {
		c.escape("[^" + n.Literal + "]")
		return
	}
	c.writeReference(note)
}

func (c *renderContext) inlineFootnote(n *mdast.Node) {
	c.writeReference(c.notes.inline(n))
}

func (c *renderContext) writeReference(note *footnote) {
	number := strconv.Itoa(note.number)
	c.write(`<sup class="` + c.class("footnote-ref") + `"><a href="#fn` + number +
		`" id="` + refID(note.number, note.refs) + `">` + number + `</a></sup>`)
}

// footnoteSection writes the referenced definitions. Definitions may
// reference further notes, which are appended while the list is written.
func (c *renderContext) footnoteSection() {
	if len(c.notes.order) == 0 {
		return
	}

	c.write(`<section class="` + c.class("footnotes") + `">` + "\n<ol>\n")
	for i := 0; i < len(c.notes.order); i++ {
		note := c.notes.order[i]
		c.write(`<li id="fn` + strconv.Itoa(note.number) + `">` + "\n")
		if note.inline {
			c.write("<p>")
			c.children(note.body)
			c.backrefs(note)
			c.write("</p>\n")
		} else {
			c.footnoteBody(note)
		}
		c.write("</li>\n")
	}
	c.write("</ol>\n</section>\n")
}

// footnoteBody places the back-references inside a trailing paragraph,
// or after the body when it does not end with one.
func (c *renderContext) footnoteBody(note *footnote) {
	last := note.body.LastChild
	for child := note.body.FirstChild; child != nil; child = child.Next {
		if child == last && child.Kind == mdast.NodeParagraph {
			c.write("<p>")
			c.children(child)
			c.backrefs(note)
			c.write("</p>\n")
			return
		}
		c.node(child)
	}
	c.backrefs(note)
	c.write("\n")
}

func (c *renderContext) backrefs(note *footnote) {
	refs := note.refs
	for ref := 1; ref <= refs; ref++ {
		c.write(` <a href="#` + refID(note.number, ref) + `" class="` + c.class("footnote-backref") +
			`" aria-label="Back to reference">↩</a>`)
	}
}
