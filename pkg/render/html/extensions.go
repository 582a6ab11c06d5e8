package html

import (
	"strconv"
	"strings"

	"github.com/yaklabco/gomdrender/pkg/emoji"
	"github.com/yaklabco/gomdrender/pkg/mdast"
)

func (c *renderContext) admonition(n *mdast.Node) {
	attrs := &mdast.AdmonitionAttrs{}
	if n.Block != nil && n.Block.Admonition != nil {
		attrs = n.Block.Admonition
	}
	slug := attrs.Kind.Slug()

	class := "markdown-alert admonition"
	if attrs.Kind != mdast.AdmonitionQuote {
		class = "markdown-alert markdown-alert-" + slug + " admonition admonition-" + slug
	}

	title := attrs.Title
	if title == "" {
		title = attrs.Kind.Title()
	}

	c.write(`<div class="` + class + `" role="note">` + "\n")
	c.write(`<p class="markdown-alert-title"><span class="markdown-alert-icon">`)
	c.admonitionIcon(attrs)
	c.write("</span>")
	c.escape(title)
	c.write("</p>\n")
	c.children(n)
	c.write("</div>\n")
}

// admonitionIcon writes a caller-supplied icon, resolving :shortcode:
// names, or the built-in icon of the kind.
func (c *renderContext) admonitionIcon(attrs *mdast.AdmonitionAttrs) {
	if attrs.Icon == "" {
		c.write(admonitionIcons[attrs.Kind])
		return
	}
	if name, ok := strings.CutPrefix(attrs.Icon, ":"); ok {
		if name, ok = strings.CutSuffix(name, ":"); ok {
			if chars, found := emoji.Lookup(name); found {
				c.write(chars)
				return
			}
		}
	}
	c.escape(attrs.Icon)
}

func (c *renderContext) tabGroup(n *mdast.Node) {
	c.tabGroups++
	name := "marco-tabs-" + strconv.Itoa(c.tabGroups)

	items, others := partition(n, mdast.NodeTabItem)

	c.write(`<div class="marco-tabs">` + "\n")
	c.write(`<div class="marco-tabs__tablist" role="tablist">` + "\n")
	for i, item := range items {
		id := name + "-" + strconv.Itoa(i+1)
		c.write(`<input class="marco-tabs__radio" type="radio" name="` + name + `" id="` + id + `"`)
		if i == 0 {
			c.write(" checked")
		}
		c.write(">\n")
		c.write(`<label class="marco-tabs__tab" for="` + id + `" id="` + id + `-tab" role="tab" aria-controls="` +
			id + `-panel">`)
		if item.Block != nil {
			c.escape(item.Block.Title)
		}
		c.write("</label>\n")
	}
	c.write("</div>\n")

	c.write(`<div class="marco-tabs__panels">` + "\n")
	for i, item := range items {
		id := name + "-" + strconv.Itoa(i+1)
		c.write(`<div class="marco-tabs__panel" id="` + id + `-panel" role="tabpanel" aria-labelledby="` +
			id + `-tab" data-tab="` + strconv.Itoa(i+1) + `">` + "\n")
		c.container(item)
		c.write("</div>\n")
	}
	c.write("</div>\n</div>\n")
	c.strays(n, others)
}

func (c *renderContext) sliderDeck(n *mdast.Node) {
	c.sliderDecks++
	id := "marco-sliders-" + strconv.Itoa(c.sliderDecks)

	slides, others := partition(n, mdast.NodeSlide)

	c.write(`<div class="marco-sliders" id="` + id + `" aria-roledescription="carousel"`)
	if n.Block != nil && n.Block.TimerSeconds > 0 {
		c.write(` data-timer-seconds="` + strconv.Itoa(n.Block.TimerSeconds) + `"`)
	}
	c.write(">\n")

	c.write(`<div class="marco-sliders__viewport">` + "\n")
	total := strconv.Itoa(len(slides))
	for i, slide := range slides {
		class := "marco-sliders__slide"
		if slide.Block != nil && slide.Block.Vertical {
			class += " marco-sliders__slide--vertical"
		}
		if i == 0 {
			class += " is-active"
		}
		c.write(`<section class="` + class + `" data-index="` + strconv.Itoa(i) +
			`" aria-roledescription="slide" aria-label="` + strconv.Itoa(i+1) + " of " + total + `"`)
		if i > 0 {
			c.write(` aria-hidden="true"`)
		}
		c.write(">\n")
		c.container(slide)
		c.write("</section>\n")
	}
	c.write("</div>\n")

	c.write(`<div class="marco-sliders__controls">` + "\n")
	c.write(`<button type="button" class="marco-sliders__btn" data-action="prev" aria-controls="` + id +
		`" aria-label="Previous slide">` + sliderPrevIcon + "</button>\n")
	c.write(`<button type="button" class="marco-sliders__btn marco-sliders__btn--toggle" data-action="toggle" aria-controls="` +
		id + `" aria-label="Play or pause">` + sliderPlayIcon + sliderPauseIcon + "</button>\n")
	c.write(`<button type="button" class="marco-sliders__btn" data-action="next" aria-controls="` + id +
		`" aria-label="Next slide">` + sliderNextIcon + "</button>\n")
	c.write("</div>\n")

	c.write(`<div class="marco-sliders__dots" role="tablist">` + "\n")
	for i := range slides {
		selected, tabindex := "false", "-1"
		if i == 0 {
			selected, tabindex = "true", "0"
		}
		c.write(`<button type="button" class="marco-sliders__dot" data-action="goto" data-index="` +
			strconv.Itoa(i) + `" role="tab" aria-selected="` + selected + `" tabindex="` + tabindex +
			`" aria-label="Go to slide ` + strconv.Itoa(i+1) + `">` + sliderDotIcons + "</button>\n")
	}
	c.write("</div>\n</div>\n")
	c.strays(n, others)
}

// partition splits the children of n into those of kind and the rest.
func partition(n *mdast.Node, kind mdast.NodeKind) (matching, others []*mdast.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case kind:
			matching = append(matching, child)
		case mdast.NodeBlankLine:
		default:
			others = append(others, child)
		}
	}
	return matching, others
}

// strays renders children that do not belong in parent after it.
func (c *renderContext) strays(parent *mdast.Node, nodes []*mdast.Node) {
	for _, n := range nodes {
		c.warn(n, n.Kind.String()+" directly inside a "+parent.Kind.String())
		c.node(n)
	}
}

// container renders the children of a tab or slide, which count towards
// the nesting limit like any other container.
func (c *renderContext) container(n *mdast.Node) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.opts.MaxNesting {
		c.warn(n, "container nested too deeply, rendered as text")
		c.write("<p>")
		c.escape(mdast.TextContent(n))
		c.write("</p>\n")
		return
	}
	c.children(n)
}
