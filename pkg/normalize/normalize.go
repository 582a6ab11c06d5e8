// Package normalize cleans up a parsed tree before it is emitted or
// rendered.
//
// Normalization merges adjacent text, drops empty spans and flattens
// children that ended up under nodes that only carry literal content.
package normalize

import (
	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Report summarizes the changes made by Normalize.
type Report struct {
	Merged    int
	Removed   int
	Flattened int
	Warnings  []mdast.Warning
}

// Normalize rewrites the tree under root in place.
func Normalize(root *mdast.Node) Report {
	var report Report
	if root == nil {
		return report
	}

	// Children are processed before their parent so empty spans produced
	// by merging and removal are seen.
	for _, n := range postOrder(root) {
		switch {
		case n.IsLiteral() && n.HasChildren():
			flatten(n, &report)
		case n.Kind == mdast.NodeText && n.Literal == "" && n.Parent != nil:
			mdast.RemoveChild(n.Parent, n)
			report.Removed++
		case isSpan(n.Kind) && !n.HasChildren() && n.Parent != nil:
			mdast.RemoveChild(n.Parent, n)
			report.Removed++
		default:
			mergeText(n, &report)
		}
	}

	return report
}

// postOrder lists the subtree of root children first, without recursion.
func postOrder(root *mdast.Node) []*mdast.Node {
	type frame struct {
		node    *mdast.Node
		visited bool
	}

	var order []*mdast.Node
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.visited {
			order = append(order, top.node)
			continue
		}
		stack = append(stack, frame{node: top.node, visited: true})
		for child := top.node.LastChild; child != nil; child = child.Prev {
			stack = append(stack, frame{node: child})
		}
	}
	return order
}

func isSpan(kind mdast.NodeKind) bool {
	switch kind {
	case mdast.NodeEmphasis, mdast.NodeStrong, mdast.NodeStrikethrough:
		return true
	default:
		return false
	}
}

// mergeText joins runs of adjacent text children of n.
func mergeText(n *mdast.Node, report *Report) {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind != mdast.NodeText {
			continue
		}
		for next := child.Next; next != nil && next.Kind == mdast.NodeText; next = child.Next {
			child.Literal += next.Literal
			mdast.RemoveChild(n, next)
			report.Merged++
		}
	}
}

// flatten folds the children of a literal node into its text.
func flatten(n *mdast.Node, report *Report) {
	for child := n.FirstChild; child != nil; child = n.FirstChild {
		n.Literal += mdast.TextContent(child)
		mdast.RemoveChild(n, child)
	}

	report.Flattened++
	report.Warnings = append(report.Warnings, mdast.Warning{
		Pos:     n.Pos,
		Kind:    n.Kind,
		Message: "nested content inside " + n.Kind.String() + " flattened to text",
	})
}
