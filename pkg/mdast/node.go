// Package mdast defines the Markdown syntax tree shared by the parser, the
// normalizer, the event emitter and the HTML renderer.
package mdast

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds for container blocks, leaf blocks and inlines.
const (
	NodeDocument NodeKind = iota

	// Container blocks.
	NodeBlockquote
	NodeList
	NodeListItem
	NodeFootnoteDefinition
	NodeAdmonition
	NodeTabGroup
	NodeTabItem
	NodeSliderDeck
	NodeSlide

	// Leaf blocks.
	NodeParagraph
	NodeHeading
	NodeIndentedCodeBlock
	NodeFencedCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeTable
	NodeTableRow
	NodeTableCell
	NodeTableCaption
	NodeMathBlock
	NodeCustomTagBlock
	NodeLinkReferenceDefinition
	NodeBlankLine

	// Inlines.
	NodeText
	NodeCodeSpan
	NodeEmphasis
	NodeStrong
	NodeStrikethrough
	NodeLink
	NodeImage
	NodeAutolink
	NodeHTMLInline
	NodeSoftBreak
	NodeHardBreak
	NodeMath
	NodeEmoji
	NodeMention
	NodeTaskCheckbox
	NodeFootnoteReference
	NodeInlineFootnote

	// Fallback for content no other kind describes.
	NodeRaw

	nodeKindCount
)

//nolint:gochecknoglobals // lookup table
var nodeKindNames = [nodeKindCount]string{
	NodeDocument:                "Document",
	NodeBlockquote:              "Blockquote",
	NodeList:                    "List",
	NodeListItem:                "ListItem",
	NodeFootnoteDefinition:      "FootnoteDefinition",
	NodeAdmonition:              "Admonition",
	NodeTabGroup:                "TabGroup",
	NodeTabItem:                 "TabItem",
	NodeSliderDeck:              "SliderDeck",
	NodeSlide:                   "Slide",
	NodeParagraph:               "Paragraph",
	NodeHeading:                 "Heading",
	NodeIndentedCodeBlock:       "IndentedCodeBlock",
	NodeFencedCodeBlock:         "FencedCodeBlock",
	NodeThematicBreak:           "ThematicBreak",
	NodeHTMLBlock:               "HTMLBlock",
	NodeTable:                   "Table",
	NodeTableRow:                "TableRow",
	NodeTableCell:               "TableCell",
	NodeTableCaption:            "TableCaption",
	NodeMathBlock:               "MathBlock",
	NodeCustomTagBlock:          "CustomTagBlock",
	NodeLinkReferenceDefinition: "LinkReferenceDefinition",
	NodeBlankLine:               "BlankLine",
	NodeText:                    "Text",
	NodeCodeSpan:                "CodeSpan",
	NodeEmphasis:                "Emphasis",
	NodeStrong:                  "Strong",
	NodeStrikethrough:           "Strikethrough",
	NodeLink:                    "Link",
	NodeImage:                   "Image",
	NodeAutolink:                "Autolink",
	NodeHTMLInline:              "HTMLInline",
	NodeSoftBreak:               "SoftBreak",
	NodeHardBreak:               "HardBreak",
	NodeMath:                    "Math",
	NodeEmoji:                   "Emoji",
	NodeMention:                 "Mention",
	NodeTaskCheckbox:            "TaskCheckbox",
	NodeFootnoteReference:       "FootnoteReference",
	NodeInlineFootnote:          "InlineFootnote",
	NodeRaw:                     "Raw",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node represents a single node in the Markdown AST.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Pos is where the node starts in the source. Synthetic nodes have
	// the zero position.
	Pos SourcePos

	// Literal holds the text of leaf content: text runs, code, raw HTML,
	// math and custom tag bodies.
	Literal string

	// Attrs holds {#id .class key=value} attributes attached to the node.
	Attrs *Attributes

	// Block holds attributes for block-level nodes.
	Block *BlockAttrs

	// Inline holds attributes for inline-level nodes.
	Inline *InlineAttrs

	// Raw holds unparsed inline content of a leaf block between block
	// parsing and inline parsing. It is nil on finished trees.
	Raw *RawContent
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.Kind < NodeText
}

// IsContainer returns true if the node may hold block children.
func (n *Node) IsContainer() bool {
	return n.Kind <= NodeSlide
}

// IsLeafBlock returns true if the node is a block that holds inline
// content or literal text only.
func (n *Node) IsLeafBlock() bool {
	return n.Kind >= NodeParagraph && n.Kind < NodeText
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.Kind >= NodeText && n.Kind < NodeRaw
}

// IsLiteral returns true for kinds whose content lives in Literal and
// which must never carry children.
func (n *Node) IsLiteral() bool {
	switch n.Kind {
	case NodeText, NodeCodeSpan, NodeHTMLInline, NodeMath, NodeEmoji,
		NodeIndentedCodeBlock, NodeFencedCodeBlock, NodeHTMLBlock,
		NodeMathBlock, NodeCustomTagBlock, NodeRaw:
		return true
	default:
		return false
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Depth returns the number of ancestors of the node.
func (n *Node) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// HasAncestor reports whether any ancestor of n has the given kind.
func (n *Node) HasAncestor(kind NodeKind) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return true
		}
	}
	return false
}
