// Package config defines configuration types for gomdrender.
// These types are pure data with YAML tags; discovery and merging live in
// the configloader package.
package config

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdrender/pkg/parser"
	"github.com/yaklabco/gomdrender/pkg/render/html"
)

// Flavor names a preset of parser extensions.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
	FlavorFull       Flavor = "full"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM, FlavorFull:
		return true
	default:
		return false
	}
}

// OutputFormat selects what the render command writes.
type OutputFormat string

const (
	FormatHTML     OutputFormat = "html"
	FormatDocument OutputFormat = "document"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	return f == FormatHTML || f == FormatDocument
}

// RenderConfig holds the HTML renderer switches.
type RenderConfig struct {
	SyntaxHighlighting bool   `mapstructure:"syntax_highlighting" yaml:"syntax_highlighting"`
	SanitizeHTML       bool   `mapstructure:"sanitize_html" yaml:"sanitize_html"`
	YouTubeEmbed       bool   `mapstructure:"youtube_embed" yaml:"youtube_embed"`
	AutoLinks          bool   `mapstructure:"auto_links" yaml:"auto_links"`
	ClassPrefix        string `mapstructure:"class_prefix" yaml:"class_prefix"`
	HeadingAnchors     bool   `mapstructure:"heading_anchors" yaml:"heading_anchors"`
	DetectCodeLanguage bool   `mapstructure:"detect_code_language" yaml:"detect_code_language"`
}

// ExtensionsConfig selects the syntax the parser recognizes beyond
// CommonMark.
type ExtensionsConfig struct {
	Tables           bool `mapstructure:"tables" yaml:"tables"`
	Strikethrough    bool `mapstructure:"strikethrough" yaml:"strikethrough"`
	TaskLists        bool `mapstructure:"task_lists" yaml:"task_lists"`
	TaskCheckboxes   bool `mapstructure:"task_checkboxes" yaml:"task_checkboxes"`
	Footnotes        bool `mapstructure:"footnotes" yaml:"footnotes"`
	AutolinkLiterals bool `mapstructure:"autolink_literals" yaml:"autolink_literals"`
	Math             bool `mapstructure:"math" yaml:"math"`
	Admonitions      bool `mapstructure:"admonitions" yaml:"admonitions"`
	Tabs             bool `mapstructure:"tabs" yaml:"tabs"`
	Sliders          bool `mapstructure:"sliders" yaml:"sliders"`
	CustomBlocks     bool `mapstructure:"custom_blocks" yaml:"custom_blocks"`
	Emoji            bool `mapstructure:"emoji" yaml:"emoji"`
	Mentions         bool `mapstructure:"mentions" yaml:"mentions"`
	Attributes       bool `mapstructure:"attributes" yaml:"attributes"`
}

// ExtensionsFor returns the extension set of a flavor.
func ExtensionsFor(flavor Flavor) (ExtensionsConfig, bool) {
	switch flavor {
	case FlavorCommonMark:
		return ExtensionsConfig{}, true
	case FlavorGFM:
		return extensionsOf(parser.GFMOptions()), true
	case FlavorFull:
		return extensionsOf(parser.DefaultOptions()), true
	default:
		return ExtensionsConfig{}, false
	}
}

func extensionsOf(opts parser.Options) ExtensionsConfig {
	return ExtensionsConfig{
		Tables:           opts.Tables,
		Strikethrough:    opts.Strikethrough,
		TaskLists:        opts.TaskLists,
		TaskCheckboxes:   opts.TaskCheckboxes,
		Footnotes:        opts.Footnotes,
		AutolinkLiterals: opts.AutolinkLiterals,
		Math:             opts.Math,
		Admonitions:      opts.Admonitions,
		Tabs:             opts.Tabs,
		Sliders:          opts.Sliders,
		CustomBlocks:     opts.CustomBlocks,
		Emoji:            opts.Emoji,
		Mentions:         opts.Mentions,
		Attributes:       opts.Attributes,
	}
}

// Config is the root configuration structure.
type Config struct {
	// Render configures the HTML output.
	Render RenderConfig `mapstructure:"render" yaml:"render"`

	// Extensions selects the parser extensions.
	Extensions ExtensionsConfig `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Jobs is the number of parallel workers. 0 means one per CPU.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// MaxNesting bounds container depth for parsing and rendering.
	MaxNesting int `mapstructure:"max_nesting" yaml:"max_nesting"`

	// CLI-level options (not persisted to config files).

	// Format selects the render output.
	Format OutputFormat `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with every extension and renderer feature on.
func NewConfig() *Config {
	extensions, _ := ExtensionsFor(FlavorFull)
	return &Config{
		Render: RenderConfig{
			SyntaxHighlighting: true,
			SanitizeHTML:       true,
			YouTubeEmbed:       true,
			AutoLinks:          true,
			HeadingAnchors:     true,
			DetectCodeLanguage: true,
		},
		Extensions: extensions,
		Jobs:       0,
		LogLevel:   "warn",
		MaxNesting: parser.DefaultMaxNesting,
		Format:     FormatHTML,
	}
}

// ParseOptions projects the configuration onto parser options.
func (c *Config) ParseOptions() parser.Options {
	e := c.Extensions
	return parser.Options{
		Tables:           e.Tables,
		Strikethrough:    e.Strikethrough,
		TaskLists:        e.TaskLists,
		TaskCheckboxes:   e.TaskCheckboxes,
		Footnotes:        e.Footnotes,
		AutolinkLiterals: e.AutolinkLiterals,
		Math:             e.Math,
		Admonitions:      e.Admonitions,
		Tabs:             e.Tabs,
		Sliders:          e.Sliders,
		CustomBlocks:     e.CustomBlocks,
		Emoji:            e.Emoji,
		Mentions:         e.Mentions,
		Attributes:       e.Attributes,
		MaxNesting:       c.MaxNesting,
	}
}

// RenderOptions projects the configuration onto renderer options. The
// built-in highlighter and mention table are used; logger may be nil.
func (c *Config) RenderOptions(logger *log.Logger) html.Options {
	opts := html.DefaultOptions()
	r := c.Render
	opts.SyntaxHighlighting = r.SyntaxHighlighting
	opts.SanitizeHTML = r.SanitizeHTML
	opts.YouTubeEmbed = r.YouTubeEmbed
	opts.AutoLinks = r.AutoLinks
	opts.ClassPrefix = r.ClassPrefix
	opts.HeadingAnchors = r.HeadingAnchors
	opts.DetectCodeLanguage = r.DetectCodeLanguage
	opts.MaxNesting = c.MaxNesting
	opts.Logger = logger
	return opts
}
