package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every setting with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// settingDoc documents one key of the full template.
type settingDoc struct {
	key         string
	description string
}

//nolint:gochecknoglobals // read-only documentation table
var renderDocs = []settingDoc{
	{"syntax_highlighting", "Highlight fenced code blocks with a known language"},
	{"sanitize_html", "Filter raw HTML and neutralize javascript:, vbscript: and non-image data: links"},
	{"youtube_embed", "Render images that point at YouTube videos as embedded players"},
	{"auto_links", "Turn bare URLs and email addresses into links"},
	{"class_prefix", "Prefix for the renderer's own CSS classes, for example \"md-\""},
	{"heading_anchors", "Give every heading an id and a self link"},
	{"detect_code_language", "Guess the language of fences that have no info string"},
}

//nolint:gochecknoglobals // read-only documentation table
var extensionDocs = []settingDoc{
	{"tables", "Pipe tables with alignment and an optional \"Table:\" caption line"},
	{"strikethrough", "~~deleted~~ text"},
	{"task_lists", "- [ ] and - [x] list items"},
	{"task_checkboxes", "[ ] and [x] checkboxes inside paragraphs"},
	{"footnotes", "[^label] references, their definitions and ^[inline] notes"},
	{"autolink_literals", "Bare https://, www. and email literals"},
	{"math", "$inline$, $$display$$ and $$ fenced math blocks"},
	{"admonitions", "> [!NOTE] alerts and > [icon Title] callouts"},
	{"tabs", ":::tab blocks with @tab titles"},
	{"sliders", "@slidestart decks split by --- and --"},
	{"custom_blocks", ":::name blocks kept as raw content"},
	{"emoji", ":shortcode: emoji"},
	{"mentions", "@user[platform] profile mentions"},
	{"attributes", "{#id .class key=value} attribute blocks"},
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Renderer switches
render:
  sanitize_html: true
  # class_prefix: "md-"

# Parser extensions; everything is enabled by default
# extensions:
#   sliders: false
#   tabs: false

# Number of parallel workers for batch runs (0 = auto)
# jobs: 0

# Log level: debug, info, warn or error
# log_level: warn

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`)

	return buf.Bytes()
}

func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# This template lists every setting with its default value.

`)

	writeSection(&buf, "render", renderDocs, func(key string) any { return renderValue(&cfg.Render, key) })
	writeSection(&buf, "extensions", extensionDocs, func(key string) any { return extensionValue(&cfg.Extensions, key) })

	fmt.Fprintf(&buf, "\n# Number of parallel workers for batch runs (0 = auto)\njobs: %d\n", cfg.Jobs)
	fmt.Fprintf(&buf, "\n# Log level: debug, info, warn or error\nlog_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(&buf, "\n# Deepest container nesting parsed and rendered as structure\nmax_nesting: %d\n", cfg.MaxNesting)
	buf.WriteString("\n# File patterns to ignore (glob patterns)\nignore:\n  - \"vendor/**\"\n  - \"node_modules/**\"\n")

	// The template must load back into a valid configuration.
	if _, err := FromYAML(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("generated template is invalid: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, name string, docs []settingDoc, value func(string) any) {
	fmt.Fprintf(buf, "%s:\n", name)
	for _, doc := range docs {
		fmt.Fprintf(buf, "  # %s\n", wrapComment(doc.description, commentWrapWidth))
		switch v := value(doc.key).(type) {
		case string:
			fmt.Fprintf(buf, "  %s: %q\n", doc.key, v)
		default:
			fmt.Fprintf(buf, "  %s: %v\n", doc.key, v)
		}
	}
	buf.WriteByte('\n')
}

func renderValue(r *RenderConfig, key string) any {
	switch key {
	case "syntax_highlighting":
		return r.SyntaxHighlighting
	case "sanitize_html":
		return r.SanitizeHTML
	case "youtube_embed":
		return r.YouTubeEmbed
	case "auto_links":
		return r.AutoLinks
	case "class_prefix":
		return r.ClassPrefix
	case "heading_anchors":
		return r.HeadingAnchors
	default:
		return r.DetectCodeLanguage
	}
}

func extensionValue(e *ExtensionsConfig, key string) bool {
	values := map[string]bool{
		"tables":            e.Tables,
		"strikethrough":     e.Strikethrough,
		"task_lists":        e.TaskLists,
		"task_checkboxes":   e.TaskCheckboxes,
		"footnotes":         e.Footnotes,
		"autolink_literals": e.AutolinkLiterals,
		"math":              e.Math,
		"admonitions":       e.Admonitions,
		"tabs":              e.Tabs,
		"sliders":           e.Sliders,
		"custom_blocks":     e.CustomBlocks,
		"emoji":             e.Emoji,
		"mentions":          e.Mentions,
		"attributes":        e.Attributes,
	}
	return values[key]
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON writes the default configuration as JSON, keyed like the
// YAML form.
func templateToJSON() ([]byte, error) {
	yamlBytes, err := NewConfig().ToYAML()
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(yamlBytes, &generic); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gomdrender configuration
# See: https://github.com/yaklabco/gomdrender`
}
