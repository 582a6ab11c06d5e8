package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdrender/internal/logging"
	"github.com/yaklabco/gomdrender/internal/ui/pretty"
	"github.com/yaklabco/gomdrender/pkg/event"
	"github.com/yaklabco/gomdrender/pkg/fsutil"
	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/parser"
)

type eventsFlags struct {
	engine    engineFlags
	width     int
	noContext bool
	upper     bool
	drop      []string
	strict    bool
}

func newEventsCommand() *cobra.Command {
	flags := &eventsFlags{}

	cmd := &cobra.Command{
		Use:   "events [path|-]",
		Short: "List the event stream of a Markdown document",
		Long: `Parse one Markdown document and list its event stream, one event per
line, indented by nesting depth. Diagnostics found in the stream are
printed afterwards with their source line.

Long lines are truncated to the terminal width; use --width 0 to keep them.`,
		Example: `  gomdrender events README.md
  echo '*hi* there' | gomdrender events -
  gomdrender events --drop SoftBreak,Text notes.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, args, flags)
		},
	}

	flags.engine.register(cmd.Flags(), false)
	cmd.Flags().IntVar(&flags.width, "width", -1, "truncate lines to this width (default: terminal width, 0 = never)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source lines under diagnostics")
	cmd.Flags().BoolVar(&flags.upper, "upper", false, "upper-case text payloads")
	cmd.Flags().StringSliceVar(&flags.drop, "drop", nil, "event kinds to leave out (e.g. SoftBreak,Text)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero on warnings, not only errors")

	return cmd
}

func runEvents(cmd *cobra.Command, args []string, flags *eventsFlags) error {
	ctx, cfg, err := loadConfig(cmd, flags.engine.overrides(cmd.Flags()))
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	pipeline := event.NewPipeline()
	if flags.upper {
		pipeline.Map(event.UpperCaseMapper())
	}
	if len(flags.drop) > 0 {
		kinds, err := parseKinds(flags.drop)
		if err != nil {
			return err
		}
		pipeline.Filter(event.DropKinds(kinds...))
	}

	source := fsutil.StdinPath
	if len(args) == 1 {
		source = args[0]
	} else if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ErrNoInput
	}

	content, _, err := fsutil.ReadSource(ctx, source, cmd.InOrStdin())
	if err != nil {
		return err
	}
	doc := parser.New(cfg.ParseOptions()).Parse(source, content)

	colorMode, _ := cmd.Flags().GetString("color")
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
	lister := pretty.NewEventLister(styles, listingWidth(flags.width, out))

	diagnostics := event.NewDiagnostics(nil)
	stream := pipeline.Apply(diagnostics.Watch(event.NewEmitter(nil).Document(doc)))

	count := 0
	for ev := range stream {
		count++
		if _, err := fmt.Fprintln(out, lister.Format(ev)); err != nil {
			return fmt.Errorf("write listing: %w", err)
		}
	}
	logger.Debug("listed events", logging.FieldPath, source, logging.FieldEvents, count)

	errOut := cmd.ErrOrStderr()
	findings := diagnostics.Findings()
	if len(findings)+len(doc.Warnings) > 0 {
		_, _ = fmt.Fprintln(errOut, styles.FormatFileHeader(source, len(findings)+len(doc.Warnings)))
	}
	for _, finding := range findings {
		line := ""
		if !flags.noContext {
			line = string(doc.LineContent(finding.Pos.Line))
		}
		_, _ = io.WriteString(errOut, styles.FormatFinding(source, finding, !flags.noContext, line))
	}
	printWarnings(errOut, styles, source, doc.Warnings)

	if diagnostics.HasErrors() || (flags.strict && len(findings) > 0) {
		return ErrFindingsReported
	}
	return nil
}

// listingWidth resolves the --width flag: negative means the width of w
// when it is a terminal, otherwise no truncation.
func listingWidth(width int, w io.Writer) int {
	if width >= 0 {
		return width
	}
	return terminalWidth(w)
}

// parseKinds resolves event kind names case-insensitively.
func parseKinds(names []string) ([]event.Kind, error) {
	kinds := make([]event.Kind, 0, len(names))
	for _, name := range names {
		kind, ok := kindByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown event kind %q", ErrInvalidUsage, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func kindByName(name string) (event.Kind, bool) {
	for k := event.KindStart; k.String() != "Unknown"; k++ {
		if strings.EqualFold(k.String(), strings.TrimSpace(name)) {
			return k, true
		}
	}
	return 0, false
}

// nodeKindByName resolves node kind names case-insensitively.
func nodeKindByName(name string) (mdast.NodeKind, bool) {
	for k := mdast.NodeKind(0); k.String() != "Unknown"; k++ {
		if strings.EqualFold(k.String(), strings.TrimSpace(name)) {
			return k, true
		}
	}
	return 0, false
}
