package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

func kinds(nodes []*mdast.Node) []mdast.NodeKind {
	out := make([]mdast.NodeKind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func TestAppendAndPrependChild(t *testing.T) {
	t.Parallel()

	parent := mdast.NewDocument()
	para := mdast.NewNode(mdast.NodeParagraph)
	heading := mdast.NewNode(mdast.NodeHeading)

	mdast.AppendChild(parent, para)
	mdast.PrependChild(parent, heading)

	assert.Equal(t, []mdast.NodeKind{mdast.NodeHeading, mdast.NodeParagraph}, kinds(parent.Children()))
	assert.Same(t, parent, para.Parent)
	assert.Same(t, heading, para.Prev)
	assert.Nil(t, parent.FirstChild.Prev)
	assert.Nil(t, parent.LastChild.Next)
}

func TestAppendChild_MovesFromPreviousParent(t *testing.T) {
	t.Parallel()

	first := mdast.NewDocument()
	second := mdast.NewDocument()
	child := mdast.NewNode(mdast.NodeParagraph)

	mdast.AppendChild(first, child)
	mdast.AppendChild(second, child)

	assert.False(t, first.HasChildren())
	assert.Same(t, second, child.Parent)
}

func TestInsertRemoveReplace(t *testing.T) {
	t.Parallel()

	parent := mdast.NewDocument()
	para := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChild(parent, para)

	mdast.InsertBefore(para, mdast.NewNode(mdast.NodeHeading))
	mdast.InsertAfter(para, mdast.NewNode(mdast.NodeFencedCodeBlock))
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeHeading, mdast.NodeParagraph, mdast.NodeFencedCodeBlock,
	}, kinds(parent.Children()))

	rule := mdast.NewNode(mdast.NodeThematicBreak)
	mdast.ReplaceChild(parent, para, rule)
	assert.Nil(t, para.Parent)
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeHeading, mdast.NodeThematicBreak, mdast.NodeFencedCodeBlock,
	}, kinds(parent.Children()))

	mdast.Unlink(rule)
	mdast.RemoveChild(parent, parent.FirstChild)
	assert.Equal(t, []mdast.NodeKind{mdast.NodeFencedCodeBlock}, kinds(parent.Children()))
}

func TestWrapRange(t *testing.T) {
	t.Parallel()

	para := mdast.NewNode(mdast.NodeParagraph)
	open := mdast.NewText("*", mdast.SourcePos{})
	inner := mdast.NewText("a", mdast.SourcePos{})
	brk := mdast.NewNode(mdast.NodeSoftBreak)
	closer := mdast.NewText("*", mdast.SourcePos{})
	for _, n := range []*mdast.Node{open, inner, brk, closer} {
		mdast.AppendChild(para, n)
	}

	emph := mdast.NewNode(mdast.NodeEmphasis)
	mdast.WrapRange(open, closer, emph)

	require.Equal(t, 3, para.ChildCount())
	assert.Same(t, emph, open.Next)
	assert.Same(t, closer, emph.Next)
	assert.Equal(t, []*mdast.Node{inner, brk}, emph.Children())

	target := mdast.NewNode(mdast.NodeStrong)
	mdast.MoveChildren(emph, target)
	assert.False(t, emph.HasChildren())
	assert.Equal(t, 2, target.ChildCount())
}
