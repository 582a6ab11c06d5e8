package event

import (
	"iter"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// HookResult tells the emitter what to do with a node after its hook ran.
type HookResult uint8

const (
	// HookContinue emits the node as usual.
	HookContinue HookResult = iota

	// HookSkip emits nothing for the node or its subtree.
	HookSkip

	// HookUnsupported replaces the node and its subtree with an
	// Unsupported diagnostic.
	HookUnsupported
)

// Hook is called in pre-order for nodes of the kind it is registered for.
type Hook func(n *mdast.Node) HookResult

// Hooks maps node kinds to the hook called before they are emitted.
type Hooks map[mdast.NodeKind]Hook

// Emitter walks a tree and produces its events. The walk uses an
// explicit stack, so tree depth does not grow the goroutine stack.
type Emitter struct {
	hooks Hooks
}

// NewEmitter creates an emitter. hooks may be nil.
func NewEmitter(hooks Hooks) *Emitter {
	return &Emitter{hooks: hooks}
}

type frame struct {
	node    *mdast.Node
	leaving bool
}

// Events returns the events of the subtree under root in document order.
func (e *Emitter) Events(root *mdast.Node) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if root == nil {
			return
		}

		stack := arraystack.New()
		stack.Push(frame{node: root})

		for !stack.Empty() {
			top, _ := stack.Pop()
			current, _ := top.(frame)
			node := current.node

			if current.leaving {
				if !yield(endEvent(node)) {
					return
				}
				continue
			}

			descend, wrap := true, true
			var events []Event
			switch e.hook(node) {
			case HookSkip:
				continue
			case HookUnsupported:
				events = []Event{unsupported(node)}
				descend = false
			default:
				events, descend, wrap = e.enter(node)
			}

			for _, ev := range events {
				if !yield(ev) {
					return
				}
			}
			if !descend {
				continue
			}

			if wrap {
				stack.Push(frame{node: node, leaving: true})
			}
			for child := node.LastChild; child != nil; child = child.Prev {
				stack.Push(frame{node: child})
			}
		}
	}
}

// Document returns the events of doc followed by a warning event for each
// problem recorded while parsing.
func (e *Emitter) Document(doc *mdast.ParsedDocument) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if doc == nil {
			return
		}
		for ev := range e.Events(doc.Root) {
			if !yield(ev) {
				return
			}
		}
		for _, warning := range doc.Warnings {
			if !yield(Diagnostic(KindWarning, warning.Message, warning.Pos)) {
				return
			}
		}
	}
}

func (e *Emitter) hook(n *mdast.Node) HookResult {
	if e.hooks == nil {
		return HookContinue
	}
	if hook, ok := e.hooks[n.Kind]; ok && hook != nil {
		return hook(n)
	}
	return HookContinue
}

// enter returns the events emitted before the children of n, whether the
// children are visited and whether an End event follows them.
func (e *Emitter) enter(n *mdast.Node) ([]Event, bool, bool) {
	leaf := func(kind Kind, text string) ([]Event, bool, bool) {
		return []Event{{Kind: kind, Text: text, Pos: n.Pos, Attrs: n.Attrs, Node: n}}, false, false
	}

	switch n.Kind {
	case mdast.NodeDocument:
		return nil, true, false

	case mdast.NodeLinkReferenceDefinition, mdast.NodeBlankLine:
		return nil, false, false

	case mdast.NodeText:
		return leaf(KindText, n.Literal)
	case mdast.NodeCodeSpan:
		return leaf(KindCode, n.Literal)
	case mdast.NodeMath:
		if n.Inline != nil && n.Inline.Display {
			return leaf(KindDisplayMath, n.Literal)
		}
		return leaf(KindInlineMath, n.Literal)
	case mdast.NodeMathBlock:
		return leaf(KindDisplayMath, n.Literal)
	case mdast.NodeHTMLBlock:
		return leaf(KindHTML, n.Literal)
	case mdast.NodeHTMLInline:
		return leaf(KindInlineHTML, n.Literal)
	case mdast.NodeSoftBreak:
		return leaf(KindSoftBreak, "")
	case mdast.NodeHardBreak:
		return leaf(KindHardBreak, "")
	case mdast.NodeThematicBreak:
		return leaf(KindRule, "")
	case mdast.NodeEmoji:
		return leaf(KindEmoji, n.Literal)
	case mdast.NodeFootnoteReference:
		return leaf(KindFootnoteReference, n.Literal)
	case mdast.NodeMention:
		username := ""
		if n.Inline != nil && n.Inline.Mention != nil {
			username = n.Inline.Mention.Username
		}
		return leaf(KindMention, username)
	case mdast.NodeTaskCheckbox:
		events, _, _ := leaf(KindTaskMarker, "")
		events[0].Checked = n.Inline != nil && n.Inline.Checked
		return events, false, false

	case mdast.NodeIndentedCodeBlock, mdast.NodeFencedCodeBlock, mdast.NodeCustomTagBlock:
		start := startEvent(n)
		text := Event{Kind: KindText, Text: n.Literal, Pos: n.Pos, Node: n}
		end := endEvent(n)
		return []Event{start, text, end}, false, false

	case mdast.NodeRaw:
		return []Event{unsupported(n)}, false, false
	}

	events := []Event{startEvent(n)}
	if n.Kind == mdast.NodeListItem && n.Block != nil && n.Block.Task != nil {
		events = append(events, Event{
			Kind:    KindTaskMarker,
			Checked: n.Block.Task.Checked,
			Pos:     n.Pos,
			Node:    n,
		})
	}
	return events, true, true
}

// TagOf returns the tag a Start or End event of n carries.
func TagOf(n *mdast.Node) Tag {
	tag := Tag{Node: n.Kind}
	switch n.Kind {
	case mdast.NodeHeading:
		if n.Block != nil {
			tag.Level = n.Block.HeadingLevel
		}
	case mdast.NodeCustomTagBlock:
		custom := &CustomTag{Attrs: n.Attrs}
		if n.Block != nil {
			custom.Name = n.Block.TagName
		}
		if n.Attrs != nil && len(n.Attrs.Pairs) > 0 {
			custom.Data = make(map[string]string, len(n.Attrs.Pairs))
			for _, pair := range n.Attrs.Pairs {
				custom.Data[pair.Key] = pair.Value
			}
		}
		tag.Custom = custom
	}
	return tag
}

func startEvent(n *mdast.Node) Event {
	return Event{Kind: KindStart, Tag: TagOf(n), Pos: n.Pos, Attrs: n.Attrs, Node: n}
}

func endEvent(n *mdast.Node) Event {
	return Event{Kind: KindEnd, Tag: TagOf(n), Pos: n.Pos, Attrs: n.Attrs, Node: n}
}

func unsupported(n *mdast.Node) Event {
	return Event{
		Kind: KindUnsupported,
		Text: "unsupported node " + n.Kind.String(),
		Pos:  n.Pos,
		Node: n,
	}
}

// Collect gathers a stream into a slice.
func Collect(seq iter.Seq[Event]) []Event {
	var events []Event
	for ev := range seq {
		events = append(events, ev)
	}
	return events
}

// Count returns the number of events in a stream.
func Count(seq iter.Seq[Event]) int {
	count := 0
	for range seq {
		count++
	}
	return count
}
