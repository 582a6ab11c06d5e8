package configloader

import (
	"fmt"

	"github.com/yaklabco/gomdrender/pkg/config"
)

// Overrides are settings from CLI flags. Nil fields leave the loaded
// value alone, so an explicit false can still win over a config file.
type Overrides struct {
	Flavor     *config.Flavor
	Extensions map[string]bool
	Jobs       *int
	LogLevel   *string
	MaxNesting *int
	Format     *config.OutputFormat
	Ignore     []string

	SyntaxHighlighting *bool
	SanitizeHTML       *bool
	YouTubeEmbed       *bool
	AutoLinks          *bool
	ClassPrefix        *string
	HeadingAnchors     *bool
	DetectCodeLanguage *bool
}

// apply writes the set fields of o onto cfg. A flavor replaces the whole
// extension set before individual extension switches are applied.
func (o *Overrides) apply(cfg *config.Config) error {
	if o == nil {
		return nil
	}

	if o.Flavor != nil {
		extensions, ok := config.ExtensionsFor(*o.Flavor)
		if !ok {
			return &ValidationError{Field: "flavor", Value: *o.Flavor,
				Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm, full", *o.Flavor)}
		}
		cfg.Extensions = extensions
	}
	for name, enabled := range o.Extensions {
		if !setExtension(&cfg.Extensions, name, enabled) {
			return &ValidationError{Field: "extensions." + name, Value: name, Message: "unknown extension"}
		}
	}

	setIfNotNil(&cfg.Jobs, o.Jobs)
	setIfNotNil(&cfg.LogLevel, o.LogLevel)
	setIfNotNil(&cfg.MaxNesting, o.MaxNesting)
	setIfNotNil(&cfg.Format, o.Format)
	if o.Ignore != nil {
		cfg.Ignore = append(cfg.Ignore, o.Ignore...)
	}

	r := &cfg.Render
	setIfNotNil(&r.SyntaxHighlighting, o.SyntaxHighlighting)
	setIfNotNil(&r.SanitizeHTML, o.SanitizeHTML)
	setIfNotNil(&r.YouTubeEmbed, o.YouTubeEmbed)
	setIfNotNil(&r.AutoLinks, o.AutoLinks)
	setIfNotNil(&r.ClassPrefix, o.ClassPrefix)
	setIfNotNil(&r.HeadingAnchors, o.HeadingAnchors)
	setIfNotNil(&r.DetectCodeLanguage, o.DetectCodeLanguage)

	return nil
}

func setIfNotNil[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// setExtension switches the extension with the given YAML key. It
// reports false for unknown names.
func setExtension(e *config.ExtensionsConfig, name string, enabled bool) bool {
	fields := map[string]*bool{
		"tables":            &e.Tables,
		"strikethrough":     &e.Strikethrough,
		"task_lists":        &e.TaskLists,
		"task_checkboxes":   &e.TaskCheckboxes,
		"footnotes":         &e.Footnotes,
		"autolink_literals": &e.AutolinkLiterals,
		"math":              &e.Math,
		"admonitions":       &e.Admonitions,
		"tabs":              &e.Tabs,
		"sliders":           &e.Sliders,
		"custom_blocks":     &e.CustomBlocks,
		"emoji":             &e.Emoji,
		"mentions":          &e.Mentions,
		"attributes":        &e.Attributes,
	}
	field, ok := fields[name]
	if ok {
		*field = enabled
	}
	return ok
}
