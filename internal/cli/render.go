package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	xhtml "golang.org/x/net/html"
	"golang.org/x/term"

	"github.com/yaklabco/gomdrender/internal/logging"
	"github.com/yaklabco/gomdrender/internal/ui/pretty"
	"github.com/yaklabco/gomdrender/pkg/config"
	"github.com/yaklabco/gomdrender/pkg/fsutil"
	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser"
	"github.com/yaklabco/gomdrender/pkg/render/html"
	"github.com/yaklabco/gomdrender/pkg/runner"
)

// ErrNoInput is returned when no paths are given and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass Markdown paths or pipe a document to stdin")

// ErrSourceChanged is returned when a source file changes while it is rendered.
var ErrSourceChanged = errors.New("source changed during render")

type renderFlags struct {
	engine engineFlags
	out    string
	format string
	backup bool
	quiet  bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...|-]",
		Short: "Render Markdown to HTML",
		Long: `Render Markdown documents to HTML.

Each path may be a file, a directory (searched for .md and .markdown files)
or "-" for standard input. Without paths, standard input is read unless it
is a terminal.

Without --out the HTML of every document is written to stdout in order.
With --out every file is written to DIR, keeping its path relative to the
working directory, with an .html extension. Outputs are replaced atomically
and left untouched when their content is unchanged.`,
		Example: `  gomdrender render README.md
  cat notes.md | gomdrender render --format document > notes.html
  gomdrender render docs/ --out site/ --backup
  gomdrender render --flavor gfm --enable math post.md`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	flags.engine.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write rendered files to this directory")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatHTML), "output format: html, document")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a .gomdrender.bak copy of replaced outputs")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "do not print render warnings")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	overrides := flags.engine.overrides(cmd.Flags())
	if cmd.Flags().Changed("format") {
		format := config.OutputFormat(flags.format)
		overrides.Format = &format
	}

	ctx, cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	sources, err := resolveSources(ctx, args, workDir, cfg, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if flags.out != "" && containsStdin(sources) {
		return fmt.Errorf("%w: --out needs file paths, not stdin", ErrInvalidUsage)
	}

	colorMode, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.ErrOrStderr()))

	p := parser.New(cfg.ParseOptions())
	renderer := html.New(cfg.RenderOptions(quietLogger()))

	var written, unchanged int
	for _, source := range sources {
		content, src, err := fsutil.ReadSource(ctx, source, cmd.InOrStdin())
		if err != nil {
			return err
		}

		doc := p.Parse(displayPath(source, workDir), content)
		result, err := renderer.Render(doc)
		if err != nil {
			return fmt.Errorf("render %s: %w", source, err)
		}

		if !flags.quiet {
			printWarnings(cmd.ErrOrStderr(), styles, doc.Path, doc.Warnings, result.Warnings)
		}

		output := []byte(result.HTML)
		if cfg.Format == config.FormatDocument {
			output = wrapDocument(documentTitle(doc, source), output)
		}

		if flags.out == "" {
			if _, err := cmd.OutOrStdout().Write(output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		changed, err := fsutil.Changed(ctx, src)
		if err != nil {
			return err
		}
		if changed {
			return fmt.Errorf("%w: %s", ErrSourceChanged, source)
		}

		target := fsutil.OutputPath(flags.out, workDir, source)
		wrote, err := writeOutput(ctx, target, output, flags.backup)
		if err != nil {
			return err
		}
		if wrote {
			written++
			logger.Info("wrote", logging.FieldInput, doc.Path, logging.FieldOutput, target)
		} else {
			unchanged++
			logger.Debug("unchanged", logging.FieldOutput, target)
		}
	}

	if flags.out != "" {
		logger.Info("render complete", "written", written, "unchanged", unchanged)
	}
	return nil
}

// writeOutput replaces target with content, backing up the previous file
// first when requested.
func writeOutput(ctx context.Context, target string, content []byte, backup bool) (bool, error) {
	if backup {
		existing, err := os.ReadFile(target)
		if err == nil && !bytes.Equal(existing, content) {
			if _, err := fsutil.Backup(ctx, target); err != nil {
				return false, err
			}
		}
	}

	wrote, err := fsutil.WriteIfChanged(ctx, target, content, 0)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	return wrote, nil
}

// resolveSources expands the command arguments into the sources to render:
// directories are searched for Markdown files, files and "-" are kept.
func resolveSources(ctx context.Context, args []string, workDir string, cfg *config.Config, stdin io.Reader) ([]string, error) {
	if len(args) == 0 {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, ErrNoInput
		}
		return []string{fsutil.StdinPath}, nil
	}

	var sources []string
	for _, arg := range args {
		if arg == fsutil.StdinPath {
			sources = append(sources, arg)
			continue
		}

		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", fsutil.ErrNotFound, arg)
		}
		if !info.IsDir() {
			sources = append(sources, path)
			continue
		}

		found, err := runner.Discover(ctx, runner.Options{
			Paths:        []string{path},
			WorkingDir:   workDir,
			ExcludeGlobs: cfg.Ignore,
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", arg, err)
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

func containsStdin(sources []string) bool {
	for _, s := range sources {
		if s == fsutil.StdinPath {
			return true
		}
	}
	return false
}

// displayPath shortens absolute paths under workDir for messages.
func displayPath(path, workDir string) string {
	if rel, err := filepath.Rel(workDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func printWarnings(w io.Writer, styles *pretty.Styles, path string, groups ...[]mdast.Warning) {
	for _, warnings := range groups {
		for _, warning := range warnings {
			_, _ = io.WriteString(w, styles.FormatRenderWarning(path, warning))
		}
	}
}

// documentTitle is the text of the first heading, or the file name.
func documentTitle(doc *mdast.ParsedDocument, source string) string {
	heading := mdast.FindFirst(doc.Root, func(n *mdast.Node) bool { return n.Kind == mdast.NodeHeading })
	if heading != nil {
		if title := strings.TrimSpace(mdast.TextContent(heading)); title != "" {
			return title
		}
	}
	if source == fsutil.StdinPath {
		return "Document"
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// wrapDocument embeds rendered HTML in a standalone HTML5 page.
func wrapDocument(title string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	buf.WriteString("<title>" + xhtml.EscapeString(title) + "</title>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
