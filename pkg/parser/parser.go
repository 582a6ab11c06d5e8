// Package parser turns Markdown source into a ParsedDocument.
//
// Parsing runs in three passes: the block pass builds the document
// structure and collects link reference definitions, the inline pass
// parses the text of paragraphs, headings and table cells, and a final
// normalization pass cleans up the tree. Parsing never fails; any input
// produces a document.
package parser

import (
	"bytes"

	"github.com/yaklabco/gomdrender/pkg/emoji"
	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/normalize"
	"github.com/yaklabco/gomdrender/pkg/parser/block"
	"github.com/yaklabco/gomdrender/pkg/parser/inline"
)

// DefaultMaxNesting bounds container depth.
const DefaultMaxNesting = block.DefaultMaxNesting

// Options selects the extensions the parser recognizes. The zero value
// parses plain CommonMark.
type Options struct {
	Tables           bool
	Strikethrough    bool
	TaskLists        bool
	TaskCheckboxes   bool
	Footnotes        bool
	AutolinkLiterals bool
	Math             bool
	Admonitions      bool
	Tabs             bool
	Sliders          bool
	CustomBlocks     bool
	Emoji            bool
	Mentions         bool
	Attributes       bool

	// BlankLines keeps blank lines in the tree as NodeBlankLine.
	BlankLines bool

	// MaxNesting is the deepest container nesting parsed as structure.
	// Zero means DefaultMaxNesting.
	MaxNesting int
}

// DefaultOptions enables every extension.
func DefaultOptions() Options {
	return Options{
		Tables:           true,
		Strikethrough:    true,
		TaskLists:        true,
		TaskCheckboxes:   true,
		Footnotes:        true,
		AutolinkLiterals: true,
		Math:             true,
		Admonitions:      true,
		Tabs:             true,
		Sliders:          true,
		CustomBlocks:     true,
		Emoji:            true,
		Mentions:         true,
		Attributes:       true,
		MaxNesting:       DefaultMaxNesting,
	}
}

// GFMOptions enables the GitHub Flavored Markdown extensions only.
func GFMOptions() Options {
	return Options{
		Tables:           true,
		Strikethrough:    true,
		TaskLists:        true,
		Footnotes:        true,
		AutolinkLiterals: true,
	}
}

func (o Options) blockOptions() block.Options {
	return block.Options{
		Tables:       o.Tables,
		TaskLists:    o.TaskLists,
		Footnotes:    o.Footnotes,
		Math:         o.Math,
		Admonitions:  o.Admonitions,
		Tabs:         o.Tabs,
		Sliders:      o.Sliders,
		CustomBlocks: o.CustomBlocks,
		Attributes:   o.Attributes,
		BlankLines:   o.BlankLines,
		MaxNesting:   o.MaxNesting,
	}
}

func (o Options) inlineOptions() inline.Options {
	return inline.Options{
		Strikethrough:    o.Strikethrough,
		Math:             o.Math,
		Emoji:            o.Emoji,
		Mentions:         o.Mentions,
		TaskCheckboxes:   o.TaskCheckboxes,
		Footnotes:        o.Footnotes,
		AutolinkLiterals: o.AutolinkLiterals,
		Attributes:       o.Attributes,
	}
}

// Parser parses Markdown with a fixed set of options. It holds no
// per-document state and is safe for concurrent use.
type Parser struct {
	opts Options
}

// New creates a parser.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Options returns the options the parser was created with.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse parses content. path is recorded on the document and may be
// empty.
func (p *Parser) Parse(path string, content []byte) *mdast.ParsedDocument {
	doc := mdast.NewParsedDocument(path, bytes.Clone(content))

	result := block.Parse(doc.Content, p.opts.blockOptions())
	doc.Root = result.Root
	doc.References = result.References

	var lookup inline.EmojiLookup
	if p.opts.Emoji {
		lookup = emoji.Lookup
	}
	inlines := inline.NewParser(p.opts.inlineOptions(), doc, lookup)

	pending := mdast.FindAll(doc.Root, func(n *mdast.Node) bool {
		return n.Raw != nil
	})
	for _, n := range pending {
		raw := n.Raw
		n.Raw = nil
		inlines.Parse(n, raw.Text, raw.Map)
	}

	report := normalize.Normalize(doc.Root)
	doc.Warnings = append(doc.Warnings, report.Warnings...)

	return doc
}

// Parse parses content with opts.
func Parse(content []byte, opts Options) *mdast.ParsedDocument {
	return New(opts).Parse("", content)
}
