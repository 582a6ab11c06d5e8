// Package html renders parsed Markdown documents to HTML.
package html

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdrender/pkg/highlight"
	"github.com/yaklabco/gomdrender/pkg/mention"
)

// DefaultMaxNesting bounds the container depth the renderer descends into.
// Deeper containers are written as flat text.
const DefaultMaxNesting = 64

// ErrNilDocument is returned when Render is given no document.
var ErrNilDocument = errors.New("nil document")

// Options configures a Renderer.
type Options struct {
	// SyntaxHighlighting passes fenced code through Highlighter.
	SyntaxHighlighting bool

	// SanitizeHTML filters raw HTML and neutralizes unsafe link schemes.
	SanitizeHTML bool

	// YouTubeEmbed renders images pointing at YouTube videos as players.
	YouTubeEmbed bool

	// AutoLinks renders bare URLs and emails as links. Angle-bracket
	// autolinks are always links.
	AutoLinks bool

	// ClassPrefix is prepended to the renderer's own CSS classes.
	ClassPrefix string

	// HeadingAnchors gives every heading an id and an anchor link.
	HeadingAnchors bool

	// DetectCodeLanguage guesses the language of fences without an info
	// string.
	DetectCodeLanguage bool

	// MaxNesting bounds container depth. Zero means DefaultMaxNesting.
	MaxNesting int

	// Highlighter highlights code blocks. Nil disables highlighting.
	Highlighter highlight.Highlighter

	// Mentions resolves profile links. Nil means mention.Default.
	Mentions mention.Resolver

	// Logger receives structural warnings. Nil means log.Default().
	Logger *log.Logger
}

// DefaultOptions returns options with every feature enabled and the
// built-in highlighter and mention resolver.
func DefaultOptions() Options {
	return Options{
		SyntaxHighlighting: true,
		SanitizeHTML:       true,
		YouTubeEmbed:       true,
		AutoLinks:          true,
		HeadingAnchors:     true,
		DetectCodeLanguage: true,
		MaxNesting:         DefaultMaxNesting,
		Highlighter:        highlight.NewChroma(),
		Mentions:           mention.Default,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxNesting < 1 {
		o.MaxNesting = DefaultMaxNesting
	}
	if o.Mentions == nil {
		o.Mentions = mention.Default
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
