package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// Setext is true for headings written with an underline.
	Setext bool

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// Task is set on list items that start with a task marker.
	Task *TaskAttrs

	// CodeBlock holds code block attributes for code block nodes.
	CodeBlock *CodeBlockAttrs

	// Table holds column alignments for NodeTable.
	Table *TableAttrs

	// Header is true for the header row of a table and its cells.
	Header bool

	// Align is the alignment of a table cell.
	Align Alignment

	// Admonition holds callout attributes for NodeAdmonition.
	Admonition *AdmonitionAttrs

	// Title is the label of a NodeTabItem.
	Title string

	// Vertical is true for slides introduced by a vertical separator.
	Vertical bool

	// TimerSeconds is the autoplay interval of a slider deck, 0 for none.
	TimerSeconds int

	// Label is the normalized label of a footnote or link reference
	// definition.
	Label string

	// Link holds the target of a NodeLinkReferenceDefinition.
	Link *LinkAttrs

	// TagName is the name of a NodeCustomTagBlock.
	TagName string
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// BulletMarker is the bullet character used ('-', '+', '*').
	BulletMarker byte

	// StartNumber is the starting number for ordered lists.
	StartNumber int

	// Delimiter is the delimiter for ordered lists ('.' or ')').
	Delimiter byte

	// Tight is true if this is a tight list (no blank lines between items).
	Tight bool
}

// TaskAttrs holds the state of a task list item.
type TaskAttrs struct {
	Checked bool
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	// FenceChar is the fence character ('`' or '~').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the info string (language identifier, etc.).
	Info string

	// Language is the first word of the info string.
	Language string
}

// Alignment is the horizontal alignment of a table column.
type Alignment uint8

// Column alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the CSS text-align value, or "" for AlignNone.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// TableAttrs holds attributes for table nodes.
type TableAttrs struct {
	// Alignments has one entry per column.
	Alignments []Alignment

	// HasHeader is false for tables that start with the delimiter row.
	HasHeader bool
}

// AdmonitionKind is the semantic kind of a callout.
type AdmonitionKind uint8

// Callout kinds. AdmonitionQuote is the custom quote style.
const (
	AdmonitionNote AdmonitionKind = iota
	AdmonitionTip
	AdmonitionImportant
	AdmonitionWarning
	AdmonitionCaution
	AdmonitionQuote
)

// Slug returns the lowercase name used in CSS classes.
func (k AdmonitionKind) Slug() string {
	switch k {
	case AdmonitionNote:
		return "note"
	case AdmonitionTip:
		return "tip"
	case AdmonitionImportant:
		return "important"
	case AdmonitionWarning:
		return "warning"
	case AdmonitionCaution:
		return "caution"
	default:
		return "quote"
	}
}

// Title returns the default display title.
func (k AdmonitionKind) Title() string {
	switch k {
	case AdmonitionNote:
		return "Note"
	case AdmonitionTip:
		return "Tip"
	case AdmonitionImportant:
		return "Important"
	case AdmonitionWarning:
		return "Warning"
	case AdmonitionCaution:
		return "Caution"
	default:
		return "Quote"
	}
}

// AdmonitionAttrs holds attributes for callout blocks.
type AdmonitionAttrs struct {
	Kind AdmonitionKind

	// Title overrides the kind's default title when set.
	Title string

	// Icon overrides the kind's default icon when set.
	Icon string
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Link holds link attributes for NodeLink, NodeImage and NodeAutolink.
	Link *LinkAttrs

	// EmphasisLevel indicates emphasis strength (1 for emphasis, 2 for strong).
	EmphasisLevel int

	// Delimiter is the character that produced an emphasis-like span.
	Delimiter byte

	// Display is true for $$ math.
	Display bool

	// Shortcode is the emoji name without colons.
	Shortcode string

	// Mention holds the parts of a NodeMention.
	Mention *MentionAttrs

	// Checked is the state of a NodeTaskCheckbox.
	Checked bool

	// Label is the normalized footnote label of a NodeFootnoteReference.
	Label string
}

// MentionAttrs holds the parts of @user[platform](Display).
type MentionAttrs struct {
	Username string
	Platform string
	Display  string
}

// ReferenceStyle indicates the syntax style of a link or image reference.
type ReferenceStyle uint8

const (
	// RefStyleInline represents inline links: [text](url) or ![alt](url).
	RefStyleInline ReferenceStyle = iota

	// RefStyleFull represents full reference links: [text][label] or ![alt][label].
	RefStyleFull

	// RefStyleCollapsed represents collapsed reference links: [label][] or ![label][].
	RefStyleCollapsed

	// RefStyleShortcut represents shortcut reference links: [label] or ![label].
	RefStyleShortcut

	// RefStyleAutolink represents autolinks: <https://example.com>.
	RefStyleAutolink

	// RefStyleLiteral represents bare URLs recognized in text.
	RefStyleLiteral
)

// String returns a human-readable name for the reference style.
func (s ReferenceStyle) String() string {
	switch s {
	case RefStyleInline:
		return "inline"
	case RefStyleFull:
		return "full"
	case RefStyleCollapsed:
		return "collapsed"
	case RefStyleShortcut:
		return "shortcut"
	case RefStyleAutolink:
		return "autolink"
	case RefStyleLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL.
	Destination string

	// Title is the optional link title.
	Title string

	// ReferenceLabel is the label for reference-style links.
	// Empty for inline links and autolinks.
	ReferenceLabel string

	// ReferenceStyle indicates the syntax style used.
	ReferenceStyle ReferenceStyle

	// Email is true for autolinks whose destination got a mailto: prefix.
	Email bool
}

// NewBlockAttrs creates a new BlockAttrs with default values.
func NewBlockAttrs() *BlockAttrs {
	return &BlockAttrs{}
}

// NewInlineAttrs creates a new InlineAttrs with default values.
func NewInlineAttrs() *InlineAttrs {
	return &InlineAttrs{}
}

// WithHeadingLevel sets the heading level and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithHeadingLevel(level int) *BlockAttrs {
	a.HeadingLevel = level
	return a
}

// WithList sets list attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithList(attrs *ListAttrs) *BlockAttrs {
	a.List = attrs
	return a
}

// WithCodeBlock sets code block attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithCodeBlock(attrs *CodeBlockAttrs) *BlockAttrs {
	a.CodeBlock = attrs
	return a
}

// WithTable sets table attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithTable(attrs *TableAttrs) *BlockAttrs {
	a.Table = attrs
	return a
}

// WithAdmonition sets callout attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithAdmonition(attrs *AdmonitionAttrs) *BlockAttrs {
	a.Admonition = attrs
	return a
}

// WithLink sets link attributes and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithLink(attrs *LinkAttrs) *InlineAttrs {
	a.Link = attrs
	return a
}

// WithMention sets mention parts and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithMention(attrs *MentionAttrs) *InlineAttrs {
	a.Mention = attrs
	return a
}
