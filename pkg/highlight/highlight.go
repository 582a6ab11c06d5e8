package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns code into an HTML fragment for the inside of a
// <code> element. ok is false when it cannot handle the language; the
// renderer then writes the code escaped.
type Highlighter interface {
	Highlight(code, language string) (html string, ok bool)
}

// Func adapts a function to Highlighter.
type Func func(code, language string) (string, bool)

// Highlight calls f.
func (f Func) Highlight(code, language string) (string, bool) {
	return f(code, language)
}

// ClassPrefix is prepended to every CSS class Chroma writes, e.g.
// "hl-k" for keywords.
const ClassPrefix = "hl-"

// Chroma highlights code with the chroma lexers, writing CSS classes
// rather than inline styles. It is safe for concurrent use.
type Chroma struct {
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewChroma creates the built-in highlighter.
func NewChroma() *Chroma {
	return &Chroma{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithAllClasses(true),
			chromahtml.ClassPrefix(ClassPrefix),
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Fallback,
	}
}

// Highlight implements Highlighter. Languages without a lexer, and plain
// text, are left to the caller.
func (c *Chroma) Highlight(code, language string) (string, bool) {
	lang := Canonical(language)
	if lang == "" || lang == LangText {
		return "", false
	}

	lexer := lexers.Get(lang)
	if lexer == nil || lexer.Config().Name == "plaintext" {
		return "", false
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var sb strings.Builder
	sb.Grow(len(code) * 3)
	if err := c.formatter.Format(&sb, c.style, iterator); err != nil {
		return "", false
	}
	return sb.String(), true
}
