package html_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	nethtml "golang.org/x/net/html"

	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser"
	"github.com/yaklabco/gomdrender/pkg/render/html"
)

func quietOptions() html.Options {
	opts := html.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	return opts
}

func renderWith(t *testing.T, src string, opts html.Options) *html.Result {
	t.Helper()
	doc := parser.Parse([]byte(src), parser.DefaultOptions())
	result, err := html.New(opts).Render(doc)
	require.NoError(t, err)
	return result
}

func render(t *testing.T, src string) string {
	t.Helper()
	return renderWith(t, src, quietOptions()).HTML
}

func query(t *testing.T, out, selector string) []*nethtml.Node {
	t.Helper()
	root, err := nethtml.Parse(strings.NewReader(out))
	require.NoError(t, err)
	return cascadia.MustCompile(selector).MatchAll(root)
}

func text(n *nethtml.Node) string {
	var sb strings.Builder
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRender_MatchesCommonMarkReference(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"# Title\n\nPara *em* **strong** `code`.\n",
		"Setext\n===\n\nSub\n---\n",
		"- a\n- b\n\n1. x\n2. y\n",
		"3. three\n4. four\n",
		"- a\n\n- b\n",
		"- a\n  - b\n",
		"* a\n*\n\n* c\n",
		"-\n\n  foo\n",
		"> quote\n> more\n",
		"```go\nfmt.Println(1)\n```\n",
		"    indented\n    code\n",
		"[link](/url \"title\") ![img](/i.png)\n",
		"a  \nb\nc\\\nd\n",
		"***\n",
		"foo &amp; bar &copy; <>\n",
		"<https://example.com> and <me@example.com>\n",
		"[ref]\n\n[ref]: /target 'T'\n",
		"*a **b** c*\n",
		"***both***\n",
		"*unclosed and_intra_word_\n",
	}

	reference := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			var want bytes.Buffer
			require.NoError(t, reference.Convert([]byte(input), &want))

			doc := parser.Parse([]byte(input), parser.Options{})
			got, err := html.Render(doc, html.Options{Logger: log.New(io.Discard)})
			require.NoError(t, err)
			assert.Equal(t, want.String(), got)
		})
	}
}

func TestRender_UnmatchedDelimiterIsLiteral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<p>*unclosed</p>\n", render(t, "*unclosed"))
}

func TestRender_HeaderlessTable(t *testing.T) {
	t.Parallel()

	out := render(t, "|--|--|\n| a | b |\n")
	assert.Contains(t, out, "<tbody>")
	assert.NotContains(t, out, "<thead>")
	assert.Len(t, query(t, out, "tbody td"), 2)
	assert.Empty(t, query(t, out, "th"))
}

func TestRender_Table(t *testing.T) {
	t.Parallel()

	out := render(t, "| a | b | c |\n|:--|:-:|--:|\n| 1 | 2 | 3 |\nTable: Totals\n")

	headers := query(t, out, "thead th")
	require.Len(t, headers, 3)
	assert.Equal(t, "text-align:left", attr(headers[0], "style"))
	assert.Equal(t, "text-align:center", attr(headers[1], "style"))
	assert.Equal(t, "text-align:right", attr(headers[2], "style"))
	assert.Len(t, query(t, out, "tbody td"), 3)

	caption := query(t, out, "table > caption")
	require.Len(t, caption, 1)
	assert.Equal(t, "Totals", text(caption[0]))
	assert.Less(t, strings.Index(out, "<caption>"), strings.Index(out, "<thead>"))
}

func TestRender_TableWithoutAlignmentHasNoStyle(t *testing.T) {
	t.Parallel()

	out := render(t, "| a |\n|---|\n| 1 |\n")
	assert.NotContains(t, out, "style=")
}

func TestRender_Footnotes(t *testing.T) {
	t.Parallel()

	out := render(t, "Text footnote[^1].\n\n[^1]: Note.\n")

	refs := query(t, out, "sup.footnote-ref")
	require.Len(t, refs, 1)
	assert.Equal(t, "#fn1", attr(refs[0].FirstChild, "href"))
	assert.Equal(t, "fnref1", attr(refs[0].FirstChild, "id"))

	items := query(t, out, "section.footnotes li#fn1")
	require.Len(t, items, 1)
	assert.Contains(t, text(items[0]), "Note.")

	backrefs := query(t, out, "li#fn1 p a.footnote-backref")
	require.Len(t, backrefs, 1)
	assert.Equal(t, "#fnref1", attr(backrefs[0], "href"))
}

func TestRender_AdjacentFootnoteDefinitions(t *testing.T) {
	t.Parallel()

	out := render(t, "A[^a] B[^b]\n\n[^a]: first\n[^b]: second\n")

	assert.NotContains(t, out, "[^b]")
	refs := query(t, out, "sup.footnote-ref")
	require.Len(t, refs, 2)

	items := query(t, out, "section.footnotes > ol > li")
	require.Len(t, items, 2)
	assert.Contains(t, text(items[0]), "first")
	assert.NotContains(t, text(items[0]), "second")
	assert.Contains(t, text(items[1]), "second")
	assert.Empty(t, query(t, out, "li#fn1 sup.footnote-ref"))
}

func TestRender_FootnoteNumbering(t *testing.T) {
	t.Parallel()

	src := "b[^b] a[^a] again[^b] inline^[Quick note].\n\n[^a]: A.\n\n[^b]: B.\n\n[^a]: Duplicate.\n\n[^unused]: Unused.\n"
	out := render(t, src)

	items := query(t, out, "section.footnotes > ol > li")
	require.Len(t, items, 3)
	assert.Equal(t, "fn1", attr(items[0], "id"))
	assert.Contains(t, text(items[0]), "B.")
	assert.Contains(t, text(items[1]), "A.")
	assert.NotContains(t, text(items[1]), "Duplicate")
	assert.Contains(t, text(items[2]), "Quick note")

	assert.Len(t, query(t, out, "li#fn1 a.footnote-backref"), 2)
	assert.Len(t, query(t, out, "sup a#fnref1-2"), 1)
	assert.NotContains(t, out, "Unused")
}

func TestRender_UnresolvedFootnote(t *testing.T) {
	t.Parallel()

	out := render(t, "See [^missing].\n")
	assert.Equal(t, "<p>See [^missing].</p>\n", out)
	assert.NotContains(t, out, "footnotes")
}

func TestRender_TaskListTight(t *testing.T) {
	t.Parallel()

	out := render(t, "- [x] done\n- [ ] todo\n")
	assert.NotContains(t, out, "<p>")
	assert.Len(t, query(t, out, "ul.contains-task-list > li.task-list-item"), 2)

	first := query(t, out, "li.task-list-item > span.task-list-item-checkbox:first-child")
	require.Len(t, first, 2)
	assert.Equal(t, "true", attr(first[0], "aria-checked"))
	assert.Equal(t, "false", attr(first[1], "aria-checked"))
	assert.Len(t, query(t, out, "svg.marco-task-icon"), 2)
	assert.NotContains(t, out, "[x]")
}

func TestRender_TaskListLoose(t *testing.T) {
	t.Parallel()

	out := render(t, "- [x] done\n\n- [ ] todo\n")
	icons := query(t, out, "li.task-list-item > p > span.task-list-item-checkbox:first-child")
	require.Len(t, icons, 2)
	assert.Equal(t, "done", strings.TrimSpace(text(icons[0].Parent)))
}

func TestRender_InlineCheckbox(t *testing.T) {
	t.Parallel()

	out := render(t, "Ship it [x] now\n")
	assert.Len(t, query(t, out, "p > span.task-list-item-checkbox"), 1)
	assert.NotContains(t, out, "[x]")
}

func TestRender_HeadingAnchors(t *testing.T) {
	t.Parallel()

	out := render(t, "# Hello World\n\n# Hello World\n\n## Café, Déjà vu!\n\n## Named {#custom .lead}\n")

	headings := query(t, out, "h1, h2")
	require.Len(t, headings, 4)
	assert.Equal(t, "hello-world", attr(headings[0], "id"))
	assert.Equal(t, "hello-world-1", attr(headings[1], "id"))
	assert.Equal(t, "café-déjà-vu", attr(headings[2], "id"))
	assert.Equal(t, "custom", attr(headings[3], "id"))
	assert.Equal(t, "lead", attr(headings[3], "class"))

	anchors := query(t, out, "h1 > a.marco-heading-anchor")
	require.Len(t, anchors, 2)
	assert.Equal(t, "#hello-world-1", attr(anchors[1], "href"))
}

func TestRender_HeadingAnchorsOff(t *testing.T) {
	t.Parallel()

	opts := quietOptions()
	opts.HeadingAnchors = false
	out := renderWith(t, "# Plain\n\n## Named {#n}\n", opts).HTML
	assert.Equal(t, "<h1>Plain</h1>\n<h2 id=\"n\">Named</h2>\n", out)
}

func TestRender_CodeBlocks(t *testing.T) {
	t.Parallel()

	t.Run("highlighted", func(t *testing.T) {
		t.Parallel()
		out := render(t, "```go\nfunc main() {}\n```\n")
		assert.Len(t, query(t, out, "pre > code.language-go span.hl-kd"), 1)
	})

	t.Run("unknown language is escaped", func(t *testing.T) {
		t.Parallel()
		out := render(t, "```cobolish\na < b\n```\n")
		assert.Equal(t, "<pre><code class=\"language-cobolish\">a &lt; b\n</code></pre>\n", out)
	})

	t.Run("highlighting disabled", func(t *testing.T) {
		t.Parallel()
		opts := quietOptions()
		opts.SyntaxHighlighting = false
		out := renderWith(t, "```go\nfunc main() {}\n```\n", opts).HTML
		assert.Equal(t, "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n", out)
	})

	t.Run("detected language", func(t *testing.T) {
		t.Parallel()
		out := render(t, "```\npackage main\n```\n")
		assert.Len(t, query(t, out, "code.language-go"), 1)
	})

	t.Run("highlighter panic falls back", func(t *testing.T) {
		t.Parallel()
		opts := quietOptions()
		opts.Highlighter = highlighterFunc(func(string, string) (string, bool) { panic("boom") })
		result := renderWith(t, "```go\nx\n```\n", opts)
		assert.Equal(t, "<pre><code class=\"language-go\">x\n</code></pre>\n", result.HTML)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0].Message, "boom")
	})
}

type highlighterFunc func(code, lang string) (string, bool)

func (f highlighterFunc) Highlight(code, lang string) (string, bool) { return f(code, lang) }

func TestRender_InlineExtensions(t *testing.T) {
	t.Parallel()

	out := render(t, "Hi :smile: @octocat[github] and @bob[nowhere](Bob) $x<y$ $$z$$ ~~old~~\n")

	emoji := query(t, out, "span.emoji")
	require.Len(t, emoji, 1)
	assert.Equal(t, "😄", text(emoji[0]))
	assert.Equal(t, "smile", attr(emoji[0], "aria-label"))

	mentions := query(t, out, "a.mention")
	require.Len(t, mentions, 1)
	assert.Equal(t, "https://github.com/octocat", attr(mentions[0], "href"))
	assert.Equal(t, "@octocat", text(mentions[0]))

	unknown := query(t, out, "span.mention.mention-unknown")
	require.Len(t, unknown, 1)
	assert.Equal(t, "Bob", text(unknown[0]))

	math := query(t, out, "span.math.math-inline")
	require.Len(t, math, 1)
	assert.Equal(t, "x<y", text(math[0]))
	assert.Contains(t, out, "x&lt;y")
	assert.Len(t, query(t, out, "span.math.math-display"), 1)
	assert.Len(t, query(t, out, "del"), 1)
}

func TestRender_MentionResolverPanic(t *testing.T) {
	t.Parallel()

	opts := quietOptions()
	opts.Mentions = resolverFunc(func(string, string) (string, bool) { panic("down") })
	result := renderWith(t, "@a[github]\n", opts)
	assert.Len(t, query(t, result.HTML, "span.mention-unknown"), 1)
	assert.Len(t, result.Warnings, 1)
}

type resolverFunc func(platform, user string) (string, bool)

func (f resolverFunc) ProfileURL(platform, user string) (string, bool) { return f(platform, user) }

func TestRender_AutoLinks(t *testing.T) {
	t.Parallel()

	src := "Visit https://example.com/a or <https://example.org>.\n"

	out := render(t, src)
	links := query(t, out, "a")
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/a", attr(links[0], "href"))

	opts := quietOptions()
	opts.AutoLinks = false
	out = renderWith(t, src, opts).HTML
	links = query(t, out, "a")
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.org", attr(links[0], "href"))
	assert.Contains(t, out, "Visit https://example.com/a or")
}

func TestRender_YouTube(t *testing.T) {
	t.Parallel()

	src := "![Demo](https://www.youtube.com/watch?v=dQw4w9WgXcQ) ![short](https://youtu.be/dQw4w9WgXcQ)\n"

	out := render(t, src)
	frames := query(t, out, "span.video-embed > iframe")
	require.Len(t, frames, 2)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", attr(frames[0], "src"))
	assert.Equal(t, "Demo", attr(frames[0], "title"))

	opts := quietOptions()
	opts.YouTubeEmbed = false
	out = renderWith(t, src, opts).HTML
	assert.Empty(t, query(t, out, "iframe"))
	assert.Len(t, query(t, out, "img"), 2)
}

func TestRender_ClassPrefix(t *testing.T) {
	t.Parallel()

	opts := quietOptions()
	opts.ClassPrefix = "md-"
	out := renderWith(t, "a[^1] :smile:\n\n- [x] t\n\n[^1]: n\n", opts).HTML

	assert.Len(t, query(t, out, "sup.md-footnote-ref"), 1)
	assert.Len(t, query(t, out, "section.md-footnotes"), 1)
	assert.Len(t, query(t, out, "span.md-emoji"), 1)
	assert.Len(t, query(t, out, "li.task-list-item"), 1)
	assert.Empty(t, query(t, out, ".footnote-ref"))
}

func TestRender_AttributesOnInlines(t *testing.T) {
	t.Parallel()

	out := render(t, "[x](/y){#l .btn data-k=v onclick=bad} `c`{.hl}\n")

	links := query(t, out, "a#l.btn")
	require.Len(t, links, 1)
	assert.Equal(t, "v", attr(links[0], "data-k"))
	assert.Empty(t, attr(links[0], "onclick"))
	assert.Len(t, query(t, out, "code.hl"), 1)
}

func TestRender_CustomBlock(t *testing.T) {
	t.Parallel()

	out := render(t, ":::note {#n .wide}\n<b>raw</b>\n:::\n")
	blocks := query(t, out, "div.custom-block#n.wide")
	require.Len(t, blocks, 1)
	assert.Equal(t, "note", attr(blocks[0], "data-tag"))
	assert.Contains(t, out, "&lt;b&gt;raw&lt;/b&gt;")
}

func TestRender_MathBlock(t *testing.T) {
	t.Parallel()

	out := render(t, "$$\na<b\n$$\n")
	assert.Equal(t, "<div class=\"math math-display\">a&lt;b</div>\n", out)
}

func TestRender_NilDocument(t *testing.T) {
	t.Parallel()

	_, err := html.Render(nil, quietOptions())
	require.ErrorIs(t, err, html.ErrNilDocument)
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestRender_WriterError(t *testing.T) {
	t.Parallel()

	doc := parser.Parse([]byte("x"), parser.DefaultOptions())
	_, err := html.New(quietOptions()).RenderTo(failingWriter{}, doc)
	require.ErrorIs(t, err, errDiskFull)
}

func TestRender_OrphanNodes(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	for _, kind := range []mdast.NodeKind{
		mdast.NodeTableCell, mdast.NodeTableRow, mdast.NodeListItem, mdast.NodeTabItem, mdast.NodeSlide,
	} {
		node := mdast.NewNode(kind)
		holder := node
		if kind == mdast.NodeTableRow {
			holder = mdast.NewNode(mdast.NodeTableCell)
			mdast.AppendChild(node, holder)
		}
		mdast.AppendChild(holder, mdast.NewText(kind.String()+"-content", mdast.SourcePos{Line: 1, Column: 1}))
		mdast.AppendChild(root, node)
	}
	doc := &mdast.ParsedDocument{Root: root}

	var logs bytes.Buffer
	opts := quietOptions()
	opts.Logger = log.New(&logs)

	result, err := html.New(opts).Render(doc)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 5)
	for _, kind := range []string{"TableCell", "TableRow", "ListItem", "TabItem", "Slide"} {
		assert.Contains(t, result.HTML, kind+"-content")
	}
	assert.Contains(t, logs.String(), "outside")
}

func TestRender_MaxNesting(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	parent := root
	for range 10 {
		quote := mdast.NewNode(mdast.NodeBlockquote)
		mdast.AppendChild(parent, quote)
		parent = quote
	}
	para := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChild(para, mdast.NewText("deep", mdast.SourcePos{}))
	mdast.AppendChild(parent, para)

	opts := quietOptions()
	opts.MaxNesting = 3
	result, err := html.New(opts).Render(&mdast.ParsedDocument{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(result.HTML, "<blockquote>"))
	assert.Contains(t, result.HTML, "<p>deep</p>")
	assert.Len(t, result.Warnings, 1)
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	renderer := html.New(quietOptions())
	doc := parser.Parse([]byte(":::tab\n@tab A\na\n:::\n\n# T\n\nx[^1]\n\n[^1]: y\n"), parser.DefaultOptions())
	want, err := renderer.Render(doc)
	require.NoError(t, err)

	done := make(chan string, 8)
	for range 8 {
		go func() {
			got, _ := renderer.Render(doc)
			done <- got.HTML
		}()
	}
	for range 8 {
		assert.Equal(t, want.HTML, <-done)
	}
}

func FuzzRender(f *testing.F) {
	for _, seed := range []string{
		"", "*a", "[^x]", "| a |\n|---|", "> [!NOTE]\n> x", ":::tab\n@tab A\nx\n:::",
		"@slidestart\nA\n---\nB\n@slideend", "<script>x</script>", "- [ ] a\n\n- [x] b",
	} {
		f.Add(seed)
	}

	renderer := html.New(quietOptions())
	f.Fuzz(func(t *testing.T, src string) {
		doc := parser.Parse([]byte(src), parser.DefaultOptions())
		if _, err := renderer.Render(doc); err != nil {
			t.Fatalf("render failed: %v", err)
		}
	})
}
