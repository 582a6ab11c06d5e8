package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gomdrender/internal/configloader"
	"github.com/yaklabco/gomdrender/internal/logging"
	"github.com/yaklabco/gomdrender/pkg/config"
)

// engineFlags are the parser and renderer switches shared by the render,
// events and batch commands. Only flags the user set become overrides.
type engineFlags struct {
	flavor     string
	enable     []string
	disable    []string
	maxNesting int

	noHighlight   bool
	noSanitize    bool
	noYouTube     bool
	noAutoLinks   bool
	noAnchors     bool
	noDetect      bool
	classPrefix   string
	renderEnabled bool
}

// register adds the flags to fs. Render switches are only registered when
// withRender is set.
func (f *engineFlags) register(fs *pflag.FlagSet, withRender bool) {
	fs.StringVar(&f.flavor, "flavor", "full", "extension preset: commonmark, gfm, full")
	fs.StringSliceVar(&f.enable, "enable", nil, "extensions to enable (e.g. math,tabs)")
	fs.StringSliceVar(&f.disable, "disable", nil, "extensions to disable")
	fs.IntVar(&f.maxNesting, "max-nesting", 0, "deepest container nesting kept as structure")

	f.renderEnabled = withRender
	if !withRender {
		return
	}
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "do not highlight fenced code")
	fs.BoolVar(&f.noSanitize, "unsafe", false, "pass raw HTML and link schemes through unfiltered")
	fs.BoolVar(&f.noYouTube, "no-youtube", false, "render YouTube images as plain images")
	fs.BoolVar(&f.noAutoLinks, "no-autolinks", false, "render bare URLs as text")
	fs.BoolVar(&f.noAnchors, "no-anchors", false, "omit heading ids and anchors")
	fs.BoolVar(&f.noDetect, "no-detect", false, "do not guess the language of unlabeled fences")
	fs.StringVar(&f.classPrefix, "class-prefix", "", "prefix for generated CSS classes")
}

// overrides converts the changed flags of fs into configuration overrides.
func (f *engineFlags) overrides(fs *pflag.FlagSet) *configloader.Overrides {
	o := &configloader.Overrides{}

	if fs.Changed("flavor") {
		flavor := config.Flavor(f.flavor)
		o.Flavor = &flavor
	}
	if len(f.enable)+len(f.disable) > 0 {
		o.Extensions = make(map[string]bool, len(f.enable)+len(f.disable))
		for _, name := range f.enable {
			o.Extensions[extensionKey(name)] = true
		}
		for _, name := range f.disable {
			o.Extensions[extensionKey(name)] = false
		}
	}
	if fs.Changed("max-nesting") {
		o.MaxNesting = &f.maxNesting
	}

	if !f.renderEnabled {
		return o
	}
	o.SyntaxHighlighting = negated(fs, "no-highlight", f.noHighlight)
	o.SanitizeHTML = negated(fs, "unsafe", f.noSanitize)
	o.YouTubeEmbed = negated(fs, "no-youtube", f.noYouTube)
	o.AutoLinks = negated(fs, "no-autolinks", f.noAutoLinks)
	o.HeadingAnchors = negated(fs, "no-anchors", f.noAnchors)
	o.DetectCodeLanguage = negated(fs, "no-detect", f.noDetect)
	if fs.Changed("class-prefix") {
		o.ClassPrefix = &f.classPrefix
	}
	return o
}

// negated returns the inverse of a "--no-x" flag, or nil if it was not set.
func negated(fs *pflag.FlagSet, name string, value bool) *bool {
	if !fs.Changed(name) {
		return nil
	}
	enabled := !value
	return &enabled
}

// extensionKey accepts extension names in flag style (task-lists) as well
// as config style (task_lists).
func extensionKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// loadConfig resolves the configuration for cmd: config files, environment
// and the given overrides. It applies the configured log level and returns
// a context carrying the logger.
func loadConfig(cmd *cobra.Command, overrides *configloader.Overrides) (context.Context, *config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Overrides:    overrides,
	})
	if err != nil {
		return nil, nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	cfg := result.Config
	logger := logging.Default()
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		logging.SetLevel(cfg.LogLevel)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, result.LoadedFrom)
	}
	logger.Debug("configuration resolved",
		logging.FieldJobs, cfg.Jobs,
		logging.FieldMaxNesting, cfg.MaxNesting,
		logging.FieldFormat, cfg.Format,
	)

	return logging.WithLogger(ctx, logger), cfg, nil
}

// quietLogger discards everything. It is handed to the renderer when the
// command prints the render warnings itself.
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
