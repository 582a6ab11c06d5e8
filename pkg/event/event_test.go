package event_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdrender/pkg/event"
	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser"
)

// names lists events without positions.
func names(events []event.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		ev.Pos = mdast.SourcePos{}
		out[i] = ev.String()
	}
	return out
}

func emit(t *testing.T, src string) []event.Event {
	t.Helper()
	doc := parser.Parse([]byte(src), parser.DefaultOptions())
	return event.Collect(event.NewEmitter(nil).Document(doc))
}

func TestEmitter_Streams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "heading with emphasis",
			input: "# Hi *x*\n",
			want: []string{
				"Start(Heading(1))", `Text("Hi ")`, "Start(Emphasis)", `Text("x")`,
				"End(Emphasis)", "End(Heading(1))",
			},
		},
		{
			name:  "task list",
			input: "- [x] a\n",
			want: []string{
				"Start(List)", "Start(ListItem)", "TaskMarker(true)", "Start(Paragraph)",
				`Text("a")`, "End(Paragraph)", "End(ListItem)", "End(List)",
			},
		},
		{
			name:  "code block and rule",
			input: "```go\nx := 1\n```\n\n---\n",
			want: []string{
				"Start(FencedCodeBlock)", `Text("x := 1\n")`, "End(FencedCodeBlock)", "Rule",
			},
		},
		{
			name:  "breaks and inline code",
			input: "a\nb  \n`c`\n",
			want: []string{
				"Start(Paragraph)", `Text("a")`, "SoftBreak", `Text("b")`, "HardBreak",
				`Code("c")`, "End(Paragraph)",
			},
		},
		{
			name:  "math",
			input: "$a$ $$b$$\n\n$$\nc\n$$\n",
			want: []string{
				"Start(Paragraph)", `InlineMath("a")`, `Text(" ")`, `DisplayMath("b")`,
				"End(Paragraph)", `DisplayMath("c")`,
			},
		},
		{
			name:  "custom tag",
			input: ":::note {kind=x}\nbody\n:::\n",
			want: []string{
				"Start(Custom(note))", `Text("body\n")`, "End(Custom(note))",
			},
		},
		{
			name:  "reference definitions produce nothing",
			input: "[a]: /b\n",
			want:  []string{},
		},
		{
			name:  "extensions",
			input: "hi :smile: @bob[github] x[^1]\n\n[^1]: n\n",
			want: []string{
				"Start(Paragraph)", `Text("hi ")`, `Emoji("😄")`, `Text(" ")`, `Mention("bob")`,
				`Text(" x")`, `FootnoteReference("1")`, "End(Paragraph)",
				"Start(FootnoteDefinition)", "Start(Paragraph)", `Text("n")`, "End(Paragraph)",
				"End(FootnoteDefinition)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := names(emit(t, tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("event stream mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmitter_Balanced(t *testing.T) {
	t.Parallel()

	src := "> [!NOTE]\n> text\n\n:::tab\n@tab A\n- a\n- b\n:::\n\n| x |\n|---|\n| y |\n"
	depth := 0
	for _, ev := range emit(t, src) {
		switch ev.Kind {
		case event.KindStart:
			depth++
		case event.KindEnd:
			depth--
		}
		require.GreaterOrEqual(t, depth, 0)
	}
	assert.Zero(t, depth)
}

func TestEmitter_CustomTagData(t *testing.T) {
	t.Parallel()

	events := emit(t, ":::note {#n .c kind=x}\nbody\n:::\n")
	require.NotEmpty(t, events)
	custom := events[0].Tag.Custom
	require.NotNil(t, custom)
	assert.Equal(t, "note", custom.Name)
	assert.Equal(t, map[string]string{"kind": "x"}, custom.Data)
	assert.Equal(t, "n", custom.Attrs.ID)
}

func TestEmitter_Hooks(t *testing.T) {
	t.Parallel()

	doc := parser.Parse([]byte("a *b* `c`\n"), parser.DefaultOptions())
	emitter := event.NewEmitter(event.Hooks{
		mdast.NodeEmphasis: func(*mdast.Node) event.HookResult { return event.HookSkip },
		mdast.NodeCodeSpan: func(*mdast.Node) event.HookResult { return event.HookUnsupported },
	})

	got := names(event.Collect(emitter.Events(doc.Root)))
	want := []string{
		"Start(Paragraph)", `Text("a ")`, `Text(" ")`,
		`Unsupported("unsupported node CodeSpan")`, "End(Paragraph)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event stream mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitter_EarlyStop(t *testing.T) {
	t.Parallel()

	doc := parser.Parse([]byte("a\n\nb\n\nc\n"), parser.DefaultOptions())
	seen := 0
	for range event.NewEmitter(nil).Events(doc.Root) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
	assert.Equal(t, 9, event.Count(event.NewEmitter(nil).Events(doc.Root)))
	assert.Zero(t, event.Count(event.NewEmitter(nil).Events(nil)))
}

func TestEmitter_DeepTree(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	parent := root
	const depth = 100000
	for range depth {
		next := mdast.NewNode(mdast.NodeBlockquote)
		mdast.AppendChild(parent, next)
		parent = next
	}

	assert.Equal(t, 2*depth, event.Count(event.NewEmitter(nil).Events(root)))
}

func TestEmitter_DocumentWarnings(t *testing.T) {
	t.Parallel()

	doc := mdast.NewParsedDocument("", nil)
	doc.Warnings = []mdast.Warning{{Pos: mdast.SourcePos{Line: 2, Column: 1}, Message: "flattened"}}

	events := event.Collect(event.NewEmitter(nil).Document(doc))
	require.Len(t, events, 1)
	assert.Equal(t, event.KindWarning, events[0].Kind)
	assert.Equal(t, `Warning("flattened") @2:1`, events[0].String())
}

func TestPipeline(t *testing.T) {
	t.Parallel()

	doc := parser.Parse([]byte("# ab *cd*\n"), parser.DefaultOptions())
	pipeline := event.NewPipeline().
		Map(event.UpperCaseMapper()).
		Filter(event.DropTags(mdast.NodeEmphasis)).
		Filter(event.DropKinds(event.KindSoftBreak))

	got := names(event.Collect(pipeline.Apply(event.NewEmitter(nil).Events(doc.Root))))
	want := []string{"Start(Heading(1))", `Text("AB ")`, `Text("CD")`, "End(Heading(1))"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event stream mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_FilterShortCircuits(t *testing.T) {
	t.Parallel()

	calls := 0
	pipeline := event.NewPipeline().
		Map(event.MapperFunc(func(ev *event.Event) { ev.Text += "!" })).
		Filter(event.FilterFunc(func(ev event.Event) bool { return ev.Text != "drop!" })).
		Filter(event.FilterFunc(func(event.Event) bool { calls++; return true }))

	out, keep := pipeline.Process(event.Event{Kind: event.KindText, Text: "drop"})
	assert.False(t, keep)
	assert.Equal(t, "drop!", out.Text)
	assert.Zero(t, calls)

	out, keep = pipeline.Process(event.Event{Kind: event.KindText, Text: "keep"})
	assert.True(t, keep)
	assert.Equal(t, "keep!", out.Text)
	assert.Equal(t, 1, calls)
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var intercepted []string
	diags := event.NewDiagnostics(event.InterceptorFunc(func(ev event.Event) {
		intercepted = append(intercepted, ev.Text)
	}))

	pos := mdast.SourcePos{Line: 1, Column: 1}
	stream := []event.Event{
		{Kind: event.KindText, Text: "plain"},
		event.Diagnostic(event.KindWarning, "orphan row", pos),
		event.Diagnostic(event.KindWarning, "orphan row", pos),
		event.Diagnostic(event.KindError, "broken", pos),
		event.Diagnostic(event.KindUnsupported, "raw", pos),
	}
	seq := func(yield func(event.Event) bool) {
		for _, ev := range stream {
			if !yield(ev) {
				return
			}
		}
	}

	passed := event.Collect(diags.Watch(seq))
	assert.Equal(t, stream, passed)

	require.Len(t, diags.Warnings(), 1)
	assert.Equal(t, 2, diags.Warnings()[0].Count)
	assert.Len(t, diags.Errors(), 1)
	assert.Len(t, diags.Unsupported(), 1)
	assert.True(t, diags.HasErrors())
	assert.Len(t, diags.Findings(), 3)
	assert.Equal(t, []string{"orphan row", "orphan row", "broken", "raw"}, intercepted)
}

func TestLogInterceptor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	interceptor := event.LogInterceptor(logger)

	interceptor.Intercept(event.Diagnostic(event.KindWarning, "lone cell", mdast.SourcePos{Line: 3, Column: 2}))
	interceptor.Intercept(event.Diagnostic(event.KindUnsupported, "raw node", mdast.SourcePos{Line: 4, Column: 1}))

	out := buf.String()
	assert.Contains(t, out, "lone cell")
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "raw node")
	assert.Equal(t, 2, strings.Count(out, "\n"), strconv.Quote(out))
}
