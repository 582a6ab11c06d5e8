package block_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser/block"
)

func allOptions() block.Options {
	return block.Options{
		Tables:       true,
		TaskLists:    true,
		Footnotes:    true,
		Math:         true,
		Admonitions:  true,
		Tabs:         true,
		Sliders:      true,
		CustomBlocks: true,
		Attributes:   true,
	}
}

func parse(src string) *block.Result {
	return block.Parse([]byte(src), allOptions())
}

// outline renders the block structure as Kind[child,child].
func outline(n *mdast.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if n.HasChildren() {
		sb.WriteByte('[')
		for child := n.FirstChild; child != nil; child = child.Next {
			if child != n.FirstChild {
				sb.WriteByte(',')
			}
			sb.WriteString(outline(child))
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "Document"},
		{"whitespace only", "   \n\t\n", "Document"},
		{"heading and paragraph", "# Title\n\nText", "Document[Heading,Paragraph]"},
		{"lazy blockquote", "> quote\nlazy", "Document[Blockquote[Paragraph]]"},
		{"nested blockquote", "> > deep", "Document[Blockquote[Blockquote[Paragraph]]]"},
		{"thematic break", "***", "Document[ThematicBreak]"},
		{"setext heading", "Title\n=====", "Document[Heading]"},
		{"fenced code", "```go\ncode\n```", "Document[FencedCodeBlock]"},
		{"unclosed fence", "```\ncode", "Document[FencedCodeBlock]"},
		{"indented code", "    code\n", "Document[IndentedCodeBlock]"},
		{"html block", "<div>\nhi\n</div>", "Document[HTMLBlock]"},
		{"html tag block", "<span>", "Document[HTMLBlock]"},
		{"html tag cannot interrupt", "para\n<span>", "Document[Paragraph]"},
		{"math block", "$$\nx^2\n$$", "Document[MathBlock]"},
		{"unclosed math block", "$$\nx^2", "Document[Paragraph]"},
		{"bullet list", "- a\n- b", "Document[List[ListItem[Paragraph],ListItem[Paragraph]]]"},
		{"list changes bullet", "- a\n+ b", "Document[List[ListItem[Paragraph]],List[ListItem[Paragraph]]]"},
		{"empty item start", "-\n  foo", "Document[List[ListItem[Paragraph]]]"},
		{"ordered cannot interrupt", "text\n2. item", "Document[Paragraph]"},
		{"ordered one interrupts", "text\n1. item", "Document[Paragraph,List[ListItem[Paragraph]]]"},
		{"nested list", "- a\n  - b", "Document[List[ListItem[Paragraph,List[ListItem[Paragraph]]]]]"},
		{"table", "| a | b |\n|:--|--:|\n| 1 | 2 |", "Document[Table[TableRow[TableCell,TableCell],TableRow[TableCell,TableCell]]]"},
		{"headerless table", "|--|--|\n| a | b |\n", "Document[Table[TableRow[TableCell,TableCell]]]"},
		{"table caption", "| a |\n|---|\n| 1 |\nTable: Totals", "Document[Table[TableRow[TableCell],TableRow[TableCell],TableCaption]]"},
		{"footnote definition", "[^1]: Note.", "Document[FootnoteDefinition[Paragraph]]"},
		{"reference definition", "[foo]: /url\n\n[foo]", "Document[LinkReferenceDefinition,Paragraph]"},
		{"custom block", ":::details\nraw\n:::", "Document[CustomTagBlock]"},
		{"unclosed custom block", ":::details\nraw", "Document[Paragraph]"},
		{"admonition", "> [!NOTE]\n> Body", "Document[Admonition[Paragraph]]"},
		{"admonition marker only", "> [!TIP]", "Document[Admonition]"},
		{"unknown alert", "> [!FOO]\n> Body", "Document[Blockquote[Paragraph]]"},
		{"nested alert stays quote", "- > [!NOTE]\n  > x", "Document[List[ListItem[Blockquote[Paragraph]]]]"},
		{"unclosed slider", "@slidestart\nA", "Document[Paragraph]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := parse(tt.input)
			assert.Equal(t, tt.want, outline(result.Root))
		})
	}
}

func TestParse_ListTightness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		tight bool
	}{
		{"tight", "- a\n- b\n- c", true},
		{"blank between items", "- a\n- b\n\n- c", false},
		{"blank inside item", "- a\n\n  more\n- b", false},
		{"blank in nested list only", "- a\n  - b\n\n  - c\n- d", true},
		{"trailing blank", "- a\n- b\n\n", true},
		{"empty item before blank", "* a\n*\n\n* c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := parse(tt.input)
			list := result.Root.FirstChild
			require.NotNil(t, list)
			require.Equal(t, mdast.NodeList, list.Kind)
			assert.Equal(t, tt.tight, list.Block.List.Tight)
		})
	}
}

func TestParse_EmptyItemFollowedByBlank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Document[List[ListItem[Paragraph],ListItem,ListItem[Paragraph]]]", outline(parse("* a\n*\n\n* c").Root))
	assert.Equal(t, "Document[List[ListItem],Paragraph]", outline(parse("-\n\n  foo").Root))
}

func TestParse_OrderedList(t *testing.T) {
	t.Parallel()

	result := parse("3) three\n4) four")
	list := result.Root.FirstChild
	require.NotNil(t, list)

	attrs := list.Block.List
	assert.True(t, attrs.Ordered)
	assert.Equal(t, 3, attrs.StartNumber)
	assert.Equal(t, byte(')'), attrs.Delimiter)
	assert.Equal(t, 2, list.ChildCount())
}

func TestParse_TaskItems(t *testing.T) {
	t.Parallel()

	result := parse("- [x] done\n- [ ] todo\n- [y] plain")
	items := mdast.FindByKind(result.Root, mdast.NodeListItem)
	require.Len(t, items, 3)

	require.NotNil(t, items[0].Block)
	assert.True(t, items[0].Block.Task.Checked)
	assert.Equal(t, "done", items[0].FirstChild.Raw.Text)

	require.NotNil(t, items[1].Block)
	assert.False(t, items[1].Block.Task.Checked)
	assert.Equal(t, "todo", items[1].FirstChild.Raw.Text)

	assert.Nil(t, items[2].Block)
	assert.Equal(t, "[y] plain", items[2].FirstChild.Raw.Text)
}

func TestParse_CodeBlocks(t *testing.T) {
	t.Parallel()

	t.Run("fenced", func(t *testing.T) {
		t.Parallel()

		result := parse("~~~ go {.numbered}\nfmt.Println()\n  indented\n~~~")
		code := result.Root.FirstChild
		require.Equal(t, mdast.NodeFencedCodeBlock, code.Kind)
		assert.Equal(t, "fmt.Println()\n  indented\n", code.Literal)
		assert.Equal(t, "go", code.Block.CodeBlock.Language)
		assert.Equal(t, byte('~'), code.Block.CodeBlock.FenceChar)
		require.NotNil(t, code.Attrs)
		assert.Equal(t, []string{"numbered"}, code.Attrs.Classes)
	})

	t.Run("fence indentation removed", func(t *testing.T) {
		t.Parallel()

		result := parse("  ```\n  a\n    b\n c\n  ```")
		assert.Equal(t, "a\n  b\nc\n", result.Root.FirstChild.Literal)
	})

	t.Run("indented trailing blanks", func(t *testing.T) {
		t.Parallel()

		result := parse("    one\n\n    two\n\n\nafter")
		code := result.Root.FirstChild
		require.Equal(t, mdast.NodeIndentedCodeBlock, code.Kind)
		assert.Equal(t, "one\n\ntwo\n", code.Literal)
	})

	t.Run("backtick info with backtick", func(t *testing.T) {
		t.Parallel()

		result := parse("``` a`b\ncode\n```")
		assert.Equal(t, mdast.NodeParagraph, result.Root.FirstChild.Kind)
	})
}

func TestParse_Headings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		level int
		text  string
	}{
		{"# One", 1, "One"},
		{"###### Six", 6, "Six"},
		{"## Closed ##", 2, "Closed"},
		{"# Hash#tag", 1, "Hash#tag"},
		{"#", 1, ""},
		{"Setext\n---", 2, "Setext"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			heading := parse(tt.input).Root.FirstChild
			require.NotNil(t, heading)
			require.Equal(t, mdast.NodeHeading, heading.Kind)
			assert.Equal(t, tt.level, heading.Block.HeadingLevel)
			assert.Equal(t, tt.text, heading.Raw.Text)
		})
	}

	t.Run("seven hashes is a paragraph", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, mdast.NodeParagraph, parse("####### Seven").Root.FirstChild.Kind)
	})

	t.Run("trailing attributes", func(t *testing.T) {
		t.Parallel()

		heading := parse("# Intro {#start .lead}").Root.FirstChild
		assert.Equal(t, "Intro", heading.Raw.Text)
		require.NotNil(t, heading.Attrs)
		assert.Equal(t, "start", heading.Attrs.ID)
		assert.Equal(t, []string{"lead"}, heading.Attrs.Classes)
	})
}

func TestParse_References(t *testing.T) {
	t.Parallel()

	result := parse("[Foo Bar]: /url \"title\"\n[foo bar]: /other\n[baz]:\n  <my url>\n\ntext")

	require.Contains(t, result.References, "foo bar")
	assert.Equal(t, "/url", result.References["foo bar"].Destination)
	assert.Equal(t, "title", result.References["foo bar"].Title)

	require.Contains(t, result.References, "baz")
	assert.Equal(t, "my url", result.References["baz"].Destination)

	defs := mdast.FindByKind(result.Root, mdast.NodeLinkReferenceDefinition)
	assert.Len(t, defs, 3)
}

func TestParse_ReferenceThenText(t *testing.T) {
	t.Parallel()

	result := parse("[a]: /x\nstill text")
	require.Contains(t, result.References, "a")

	para := mdast.FindByKind(result.Root, mdast.NodeParagraph)
	require.Len(t, para, 1)
	assert.Equal(t, "still text", para[0].Raw.Text)
	assert.Equal(t, mdast.SourcePos{Line: 2, Column: 1}, para[0].Pos)
}

func TestParse_Tables(t *testing.T) {
	t.Parallel()

	t.Run("alignments", func(t *testing.T) {
		t.Parallel()

		table := parse("| a | b | c | d |\n|:--|--:|:-:|---|\n| 1 | 2 |").Root.FirstChild
		require.Equal(t, mdast.NodeTable, table.Kind)
		assert.Equal(t, []mdast.Alignment{
			mdast.AlignLeft, mdast.AlignRight, mdast.AlignCenter, mdast.AlignNone,
		}, table.Block.Table.Alignments)
		assert.True(t, table.Block.Table.HasHeader)

		body := table.FirstChild.Next
		assert.Equal(t, 4, body.ChildCount(), "short rows are padded")
	})

	t.Run("escaped pipe", func(t *testing.T) {
		t.Parallel()

		table := parse("| a |\n|---|\n| x \\| y |").Root.FirstChild
		cell := table.LastChild.FirstChild
		assert.Equal(t, "x | y", cell.Raw.Text)
	})

	t.Run("header mismatch is a paragraph", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Document[Paragraph]", outline(parse("| a | b |\n|---|").Root))
	})

	t.Run("headerless", func(t *testing.T) {
		t.Parallel()

		table := parse("|--|--|\n| a | b |\n").Root.FirstChild
		require.Equal(t, mdast.NodeTable, table.Kind)
		assert.False(t, table.Block.Table.HasHeader)
		assert.False(t, table.FirstChild.Block.Header)
	})

	t.Run("cell positions", func(t *testing.T) {
		t.Parallel()

		table := parse("| a | bc |\n|---|----|").Root.FirstChild
		cells := mdast.FindByKind(table, mdast.NodeTableCell)
		require.Len(t, cells, 2)
		assert.Equal(t, mdast.SourcePos{Line: 1, Column: 3}, cells[0].Pos)
		assert.Equal(t, mdast.SourcePos{Line: 1, Column: 7}, cells[1].Pos)
	})
}

func TestParse_TabGroups(t *testing.T) {
	t.Parallel()

	t.Run("two tabs", func(t *testing.T) {
		t.Parallel()

		result := parse(":::tab\n@tab A\nHello\n\n@tab B\nWorld\n:::")
		assert.Equal(t, "Document[TabGroup[TabItem[Paragraph],TabItem[Paragraph]]]", outline(result.Root))

		items := mdast.FindByKind(result.Root, mdast.NodeTabItem)
		assert.Equal(t, "A", items[0].Block.Title)
		assert.Equal(t, "B", items[1].Block.Title)
	})

	t.Run("nested group stays literal", func(t *testing.T) {
		t.Parallel()

		result := parse(":::tab\n@tab Outer\n\n:::tab\n@tab Inner\nInner\n\n:::\n\n:::")
		assert.Len(t, mdast.FindByKind(result.Root, mdast.NodeTabGroup), 1)

		para := mdast.FindFirst(result.Root, func(n *mdast.Node) bool { return n.Kind == mdast.NodeParagraph })
		require.NotNil(t, para)
		assert.True(t, strings.HasPrefix(para.Raw.Text, ":::tab"))
	})

	t.Run("fence hides markers", func(t *testing.T) {
		t.Parallel()

		result := parse(":::tab\n@tab Code\n```\n@tab no\n:::\n```\n:::")
		assert.Len(t, mdast.FindByKind(result.Root, mdast.NodeTabItem), 1)
		assert.Len(t, mdast.FindByKind(result.Root, mdast.NodeFencedCodeBlock), 1)
	})

	t.Run("no tabs is literal", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, mdast.FindByKind(parse(":::tab\ntext\n:::").Root, mdast.NodeTabGroup))
	})
}

func TestParse_SliderDecks(t *testing.T) {
	t.Parallel()

	result := parse("@slidestart:t5\nA\n\n---\nB\n\n--\nC\n@slideend")
	deck := result.Root.FirstChild
	require.Equal(t, mdast.NodeSliderDeck, deck.Kind)
	assert.Equal(t, 5, deck.Block.TimerSeconds)

	slides := mdast.FindByKind(deck, mdast.NodeSlide)
	require.Len(t, slides, 3)
	assert.False(t, slides[0].Block.Vertical)
	assert.False(t, slides[1].Block.Vertical)
	assert.True(t, slides[2].Block.Vertical)

	t.Run("nested deck stays literal", func(t *testing.T) {
		t.Parallel()

		nested := parse("@slidestart\n@slidestart\nA\n@slideend")
		assert.Len(t, mdast.FindByKind(nested.Root, mdast.NodeSliderDeck), 1)
	})

	t.Run("zero timer is rejected", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, mdast.FindByKind(parse("@slidestart:t0\nA\n@slideend").Root, mdast.NodeSliderDeck))
	})
}

func TestParse_Admonitions(t *testing.T) {
	t.Parallel()

	t.Run("alert", func(t *testing.T) {
		t.Parallel()

		node := parse("> [!warning] Careful\n> Body").Root.FirstChild
		require.Equal(t, mdast.NodeAdmonition, node.Kind)
		assert.Equal(t, mdast.AdmonitionWarning, node.Block.Admonition.Kind)
		assert.Equal(t, "Careful", node.Block.Admonition.Title)
		assert.Equal(t, "Body", node.FirstChild.Raw.Text)
		assert.Equal(t, 2, node.FirstChild.Pos.Line)
	})

	t.Run("quote style", func(t *testing.T) {
		t.Parallel()

		node := parse("> [🔥 Fire Alert]\n> text").Root.FirstChild
		require.Equal(t, mdast.NodeAdmonition, node.Kind)
		attrs := node.Block.Admonition
		assert.Equal(t, mdast.AdmonitionQuote, attrs.Kind)
		assert.Equal(t, "🔥", attrs.Icon)
		assert.Equal(t, "Fire Alert", attrs.Title)
	})

	t.Run("defined reference is not a marker", func(t *testing.T) {
		t.Parallel()

		node := parse("[my link]: /x\n\n> [my link]\n> text").Root.LastChild
		assert.Equal(t, mdast.NodeBlockquote, node.Kind)
	})
}

func TestParse_CustomBlock(t *testing.T) {
	t.Parallel()

	node := parse(":::details {.wide}\nraw *text*\n:::").Root.FirstChild
	require.Equal(t, mdast.NodeCustomTagBlock, node.Kind)
	assert.Equal(t, "details", node.Block.TagName)
	assert.Equal(t, "raw *text*\n", node.Literal)
	require.NotNil(t, node.Attrs)
	assert.Equal(t, []string{"wide"}, node.Attrs.Classes)
}

func TestParse_FootnoteDefinition(t *testing.T) {
	t.Parallel()

	result := parse("[^Note]: First\n    second para line\n\n    Second para\n\nOutside")
	def := result.Root.FirstChild
	require.Equal(t, mdast.NodeFootnoteDefinition, def.Kind)
	assert.Equal(t, "note", def.Block.Label)
	assert.Equal(t, 2, def.ChildCount())
	assert.Equal(t, mdast.NodeParagraph, result.Root.LastChild.Kind)
}

func TestParse_AdjacentFootnoteDefinitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		labels []string
	}{
		{"two", "[^a]: first\n[^b]: second", []string{"a", "b"}},
		{"duplicate then other", "[^a]: A1\n[^a]: A2\n[^b]: B", []string{"a", "a", "b"}},
		{"after continuation", "[^a]: first\n    more\n[^b]: second", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := parse(tt.input)
			var labels []string
			for def := result.Root.FirstChild; def != nil; def = def.Next {
				require.Equal(t, mdast.NodeFootnoteDefinition, def.Kind)
				require.Equal(t, 1, def.ChildCount())
				labels = append(labels, def.Block.Label)
			}
			assert.Equal(t, tt.labels, labels)
		})
	}
}

func TestParse_FootnoteDefinitionDoesNotInterruptParagraph(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Document[Paragraph]", outline(parse("text\n[^a]: not a definition").Root))
}

func TestParse_Positions(t *testing.T) {
	t.Parallel()

	result := parse("# Head\n\n  para\n\n> quoted")
	heading := result.Root.FirstChild
	para := heading.Next
	quote := para.Next

	assert.Equal(t, mdast.SourcePos{Line: 1, Column: 1}, heading.Pos)
	assert.Equal(t, mdast.SourcePos{Line: 1, Column: 3}, heading.Raw.Map.Pos(0))
	assert.Equal(t, mdast.SourcePos{Line: 3, Column: 3}, para.Pos)
	assert.Equal(t, mdast.SourcePos{Line: 5, Column: 1}, quote.Pos)
	assert.Equal(t, mdast.SourcePos{Line: 5, Column: 3}, quote.FirstChild.Pos)
}

func TestParse_BlankLines(t *testing.T) {
	t.Parallel()

	opts := allOptions()
	opts.BlankLines = true
	result := block.Parse([]byte("a\n\nb"), opts)
	assert.Equal(t, "Document[Paragraph,BlankLine,Paragraph]", outline(result.Root))
}

func TestParse_MaxNesting(t *testing.T) {
	t.Parallel()

	opts := allOptions()
	opts.MaxNesting = 10
	result := block.Parse([]byte(strings.Repeat(">", 100)+" deep"), opts)

	assert.Len(t, mdast.FindByKind(result.Root, mdast.NodeBlockquote), 11)
	assert.Len(t, mdast.FindByKind(result.Root, mdast.NodeParagraph), 1)
}

func TestParse_DeepInputDoesNotOverflow(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		block.Parse([]byte(strings.Repeat("> ", 20000)+"x"), allOptions())
		block.Parse([]byte(strings.Repeat("- ", 20000)+"x"), allOptions())
	})
}

func TestParse_ExtensionsDisabled(t *testing.T) {
	t.Parallel()

	result := block.Parse([]byte("| a |\n|---|\n\n> [!NOTE]\n\n$$\nx\n$$"), block.Options{})
	assert.Equal(t, "Document[Paragraph,Blockquote[Paragraph],Paragraph]", outline(result.Root))
}
