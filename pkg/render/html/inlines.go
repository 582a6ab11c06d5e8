package html

import (
	"fmt"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

func (c *renderContext) inline(n *mdast.Node) {
	switch n.Kind {
	case mdast.NodeText:
		c.escape(n.Literal)
	case mdast.NodeSoftBreak:
		c.write("\n")
	case mdast.NodeHardBreak:
		c.write("<br>\n")
	case mdast.NodeCodeSpan:
		c.write("<code")
		c.attrs(n.Attrs)
		c.write(">")
		c.escape(n.Literal)
		c.write("</code>")
	case mdast.NodeEmphasis:
		c.wrap("em", n)
	case mdast.NodeStrong:
		c.wrap("strong", n)
	case mdast.NodeStrikethrough:
		c.wrap("del", n)
	case mdast.NodeLink:
		c.link(n)
	case mdast.NodeImage:
		c.image(n)
	case mdast.NodeAutolink:
		c.autolink(n)
	case mdast.NodeHTMLInline:
		c.rawHTML(n.Literal)
	case mdast.NodeMath:
		c.math(n)
	case mdast.NodeEmoji:
		c.emoji(n)
	case mdast.NodeMention:
		c.mention(n)
	case mdast.NodeTaskCheckbox:
		if n.Parent != nil && n.Parent.IsContainer() {
			c.warn(n, "task checkbox outside inline content")
		}
		c.checkbox(n.Inline != nil && n.Inline.Checked)
	case mdast.NodeFootnoteReference:
		c.footnoteReference(n)
	case mdast.NodeInlineFootnote:
		c.inlineFootnote(n)
	case mdast.NodeRaw:
		c.warn(n, "unparsed inline content")
		if n.Raw != nil {
			c.escape(n.Raw.Text)
		} else {
			c.escape(n.Literal)
		}
	default:
		c.warn(n, "unknown inline "+n.Kind.String())
		c.children(n)
	}
}

func (c *renderContext) wrap(tag string, n *mdast.Node) {
	c.write("<" + tag + ">")
	c.children(n)
	c.write("</" + tag + ">")
}

func linkAttrs(n *mdast.Node) *mdast.LinkAttrs {
	if n.Inline != nil && n.Inline.Link != nil {
		return n.Inline.Link
	}
	return &mdast.LinkAttrs{}
}

// url writes an escaped href or src value.
func (c *renderContext) url(dest string) {
	if c.opts.SanitizeHTML && unsafeURL(dest) {
		dest = "#"
	}
	c.buf.Write(util.EscapeHTML(util.URLEscape([]byte(dest), false)))
}

func (c *renderContext) link(n *mdast.Node) {
	link := linkAttrs(n)

	c.write(`<a href="`)
	c.url(link.Destination)
	c.write(`"`)
	if link.Title != "" {
		c.write(` title="`)
		c.escape(link.Title)
		c.write(`"`)
	}
	c.attrs(n.Attrs)
	c.write(">")
	c.children(n)
	c.write("</a>")
}

func (c *renderContext) autolink(n *mdast.Node) {
	link := linkAttrs(n)
	if link.ReferenceStyle == mdast.RefStyleLiteral && !c.opts.AutoLinks {
		c.children(n)
		return
	}

	c.write(`<a href="`)
	c.url(link.Destination)
	c.write(`"`)
	c.attrs(n.Attrs)
	c.write(">")
	c.children(n)
	c.write("</a>")
}

func (c *renderContext) image(n *mdast.Node) {
	link := linkAttrs(n)
	alt := mdast.TextContent(n)

	if c.opts.YouTubeEmbed {
		if id, ok := youTubeID(link.Destination); ok {
			c.write(`<span class="` + c.class("video-embed") + `">`)
			c.write(`<iframe src="https://www.youtube.com/embed/` + id + `" title="`)
			c.escape(alt)
			c.write(`" frameborder="0" allow="accelerometer; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy"></iframe></span>`)
			return
		}
	}

	c.write(`<img src="`)
	c.url(link.Destination)
	c.write(`" alt="`)
	c.escape(alt)
	c.write(`"`)
	if link.Title != "" {
		c.write(` title="`)
		c.escape(link.Title)
		c.write(`"`)
	}
	c.attrs(n.Attrs)
	c.write(">")
}

func (c *renderContext) math(n *mdast.Node) {
	class := "math-inline"
	if n.Inline != nil && n.Inline.Display {
		class = "math-display"
	}
	c.write("<span")
	c.attrs(n.Attrs, c.class("math"), c.class(class))
	c.write(">")
	c.escape(n.Literal)
	c.write("</span>")
}

func (c *renderContext) emoji(n *mdast.Node) {
	name := ""
	if n.Inline != nil {
		name = n.Inline.Shortcode
	}
	c.write(`<span class="` + c.class("emoji") + `" role="img" aria-label="`)
	c.escape(name)
	c.write(`">`)
	c.escape(n.Literal)
	c.write("</span>")
}

func (c *renderContext) mention(n *mdast.Node) {
	var m mdast.MentionAttrs
	if n.Inline != nil && n.Inline.Mention != nil {
		m = *n.Inline.Mention
	}
	label := m.Display
	if label == "" {
		label = "@" + m.Username
	}

	href, ok := c.profileURL(n, m.Platform, m.Username)
	if !ok {
		c.write(`<span class="` + c.classes("mention", "mention-unknown") + `" data-platform="`)
		c.escape(m.Platform)
		c.write(`" title="Unknown platform">`)
		c.escape(label)
		c.write("</span>")
		return
	}

	c.write(`<a class="` + c.class("mention") + `" href="`)
	c.url(href)
	c.write(`" data-platform="`)
	c.escape(m.Platform)
	c.write(`">`)
	c.escape(label)
	c.write("</a>")
}

// profileURL calls the mention resolver and turns a panic in it into a
// warning and an unresolved mention.
func (c *renderContext) profileURL(n *mdast.Node, platform, username string) (href string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.warn(n, fmt.Sprintf("mention resolver failed for %q: %v", platform, r))
			href, ok = "", false
		}
	}()
	return c.opts.Mentions.ProfileURL(platform, username)
}

func (c *renderContext) checkbox(checked bool) {
	state, icon := "false", taskIconUnchecked
	if checked {
		state, icon = "true", taskIconChecked
	}
	c.write(`<span class="task-list-item-checkbox" role="checkbox" aria-checked="` + state +
		`" aria-disabled="true">` + icon + `</span>`)
}
