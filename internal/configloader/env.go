package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdrender/pkg/config"
)

// envVarPrefix is the prefix for all gomdrender environment variables.
const envVarPrefix = "GOMDRENDER_"

// envMapping binds one environment variable to a config field.
type envMapping struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

func boolField(get func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q (expected true/false/1/0)", value)
		}
		*get(cfg) = b
		return nil
	}
}

func intField(get func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%q (expected an integer)", value)
		}
		*get(cfg) = i
		return nil
	}
}

func stringField(get func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*get(cfg) = value
		return nil
	}
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SYNTAX_HIGHLIGHTING": {
		"Highlight fenced code: true or false",
		boolField(func(c *config.Config) *bool { return &c.Render.SyntaxHighlighting }),
	},
	"SANITIZE_HTML": {
		"Filter raw HTML and unsafe links: true or false",
		boolField(func(c *config.Config) *bool { return &c.Render.SanitizeHTML }),
	},
	"YOUTUBE_EMBED": {
		"Embed YouTube videos: true or false",
		boolField(func(c *config.Config) *bool { return &c.Render.YouTubeEmbed }),
	},
	"AUTO_LINKS": {
		"Link bare URLs: true or false",
		boolField(func(c *config.Config) *bool { return &c.Render.AutoLinks }),
	},
	"CLASS_PREFIX": {
		"Prefix for generated CSS classes",
		stringField(func(c *config.Config) *string { return &c.Render.ClassPrefix }),
	},
	"HEADING_ANCHORS": {
		"Add heading ids and anchors: true or false",
		boolField(func(c *config.Config) *bool { return &c.Render.HeadingAnchors }),
	},
	"JOBS": {
		"Number of parallel workers (0 = auto)",
		intField(func(c *config.Config) *int { return &c.Jobs }),
	},
	"MAX_NESTING": {
		"Deepest container nesting kept as structure",
		intField(func(c *config.Config) *int { return &c.MaxNesting }),
	},
	"LOG_LEVEL": {
		"Log level: debug, info, warn or error",
		stringField(func(c *config.Config) *string { return &c.LogLevel }),
	},
	"IGNORE": {
		"Comma-separated list of ignore patterns",
		func(c *config.Config, value string) error {
			c.Ignore = parseSliceValue(value)
			return nil
		},
	},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOMDRENDER_ (e.g., GOMDRENDER_JOBS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + suffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if err := envMappings[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envVar, err)
		}
	}

	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
