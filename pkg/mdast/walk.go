package mdast

import (
	"errors"
	"strings"
)

// WalkStatus tells Walk how to continue after a callback.
type WalkStatus uint8

const (
	// WalkContinue visits the children of the current node.
	WalkContinue WalkStatus = iota

	// WalkSkipChildren skips the children of the current node.
	WalkSkipChildren

	// WalkStop ends the walk.
	WalkStop
)

// WalkFunc is called twice per node: on entering (before the children)
// and on leaving (after them). The status returned on leaving is only
// checked for WalkStop. Return a non-nil error to stop the walk.
type WalkFunc func(n *Node, entering bool) (WalkStatus, error)

// Walk performs a depth-first traversal of the AST starting at root.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}
	_, err := walk(root, walkFunc)
	return err
}

func walk(n *Node, walkFunc WalkFunc) (WalkStatus, error) {
	status, err := walkFunc(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}

	if status != WalkSkipChildren {
		for child := n.FirstChild; child != nil; {
			// Callbacks may unlink the child.
			next := child.Next
			if st, err := walk(child, walkFunc); err != nil || st == WalkStop {
				return WalkStop, err
			}
			child = next
		}
	}

	status, err = walkFunc(n, false)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}

// Inspect calls fn for every node in pre-order. Returning false skips
// the node's children.
func Inspect(root *Node, fn func(n *Node) bool) {
	//nolint:errcheck,revive // callback never returns an error
	Walk(root, func(n *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		if !fn(n) {
			return WalkSkipChildren, nil
		}
		return WalkContinue, nil
	})
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	Inspect(root, func(node *Node) bool {
		if predicate(node) {
			result = append(result, node)
		}
		return true
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node, entering bool) (WalkStatus, error) {
		if entering && predicate(node) {
			found = node
			return WalkStop, errStopWalk
		}
		return WalkContinue, nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// TextContent returns the plain text of a subtree: literals of text-like
// inlines, with breaks rendered as spaces.
func TextContent(root *Node) string {
	var sb strings.Builder

	Inspect(root, func(n *Node) bool {
		switch n.Kind {
		case NodeText, NodeCodeSpan, NodeMath, NodeEmoji:
			sb.WriteString(n.Literal)
		case NodeSoftBreak, NodeHardBreak:
			sb.WriteByte(' ')
		case NodeMention:
			if n.Inline != nil && n.Inline.Mention != nil {
				sb.WriteByte('@')
				sb.WriteString(n.Inline.Mention.Username)
			}
		}
		return true
	})

	return sb.String()
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = errors.New("stop walk")
