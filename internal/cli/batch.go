package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdrender/internal/logging"
	"github.com/yaklabco/gomdrender/internal/ui/pretty"
	"github.com/yaklabco/gomdrender/pkg/event"
	"github.com/yaklabco/gomdrender/pkg/mdast"
	"github.com/yaklabco/gomdrender/pkg/reporter"
	"github.com/yaklabco/gomdrender/pkg/runner"
)

// ErrFilesFailed is returned when some files of a batch could not be read.
var ErrFilesFailed = errors.New("some files could not be processed")

type batchFlags struct {
	engine      engineFlags
	format      string
	jobs        int
	ignore      []string
	include     []string
	follow      bool
	unsupported []string
	skip        []string
	strict      bool
}

func newBatchCommand() *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Parse many Markdown files in parallel and report event counts",
		Long: `Parse every Markdown file under the given paths on a pool of workers
and report, per file, its size, the number of events it produces and the
number of distinct findings in its stream.

By default the current directory is searched for .md and .markdown files.`,
		Example: `  gomdrender batch
  gomdrender batch docs/ --jobs 4 --format table
  gomdrender batch --unsupported HtmlBlock,HtmlInline --strict
  gomdrender batch --format json > report.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, flags)
		},
	}

	flags.engine.register(cmd.Flags(), false)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, summary, json")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns a file must match")
	cmd.Flags().BoolVar(&flags.follow, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().StringSliceVar(&flags.unsupported, "unsupported", nil, "node kinds reported as unsupported")
	cmd.Flags().StringSliceVar(&flags.skip, "skip", nil, "node kinds left out of the stream")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when any finding is reported")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string, flags *batchFlags) error {
	switch flags.format {
	case "text", "table", "summary", "json":
	default:
		return fmt.Errorf("%w: invalid format %q: must be text, table, summary or json", ErrInvalidUsage, flags.format)
	}

	overrides := flags.engine.overrides(cmd.Flags())
	if cmd.Flags().Changed("jobs") {
		overrides.Jobs = &flags.jobs
	}
	overrides.Ignore = flags.ignore

	ctx, cfg, err := loadConfig(cmd, overrides)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	hooks, err := batchHooks(flags.unsupported, flags.skip)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.follow,
		Jobs:           cfg.Jobs,
		Parse:          cfg.ParseOptions(),
	}
	logger.Debug("starting batch",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	start := time.Now()
	result, err := runner.New(hooks).Run(ctx, opts)
	if err != nil {
		return errors.Join(errors.New("batch run failed"), err)
	}
	elapsed := time.Since(start).Round(time.Millisecond)

	logger.Debug("batch finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldEventsTotal, result.Stats.EventsTotal,
		logging.FieldWarningsTotal, result.Stats.WarningsTotal,
	)

	colorMode, _ := cmd.Flags().GetString("color")
	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(colorMode, out)
	styles := pretty.NewStyles(colorEnabled)

	if err := reportBatch(out, styles, colorEnabled, flags.format, result, workDir, elapsed); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	for _, file := range result.Files {
		if file.Error != nil {
			logger.Error("file failed", logging.FieldPath, displayPath(file.Path, workDir), logging.FieldError, file.Error)
		}
	}

	switch ExitCodeFromResult(result, flags.strict) {
	case ExitIOError:
		return ErrFilesFailed
	case ExitFindings:
		return ErrFindingsReported
	default:
		return nil
	}
}

func reportBatch(w io.Writer, styles *pretty.Styles, colorEnabled bool, format string,
	result *runner.Result, workDir string, elapsed time.Duration,
) error {
	for i := range result.Files {
		result.Files[i].Path = displayPath(result.Files[i].Path, workDir)
	}

	var text string
	switch format {
	case "json":
		_, err := reporter.NewJSONReporter(w, false).Report(result)
		return err
	case "table":
		table := pretty.NewTableFormatter(styles, colorEnabled, terminalWidth(w))
		text = table.FormatTable(result) + table.FormatTableSummary(result.Stats, elapsed.String()) + "\n"
	case "summary":
		text = styles.FormatSummary(result.Stats)
	default:
		for _, file := range result.Files {
			text += fmt.Sprintf("%s\t%d events\t%d findings\n", file.Path, file.Events, file.Warnings)
		}
		text += styles.FormatSummaryOneLine(result.Stats)
	}

	_, err := io.WriteString(w, text)
	return err
}

// batchHooks builds the emitter hooks for the --unsupported and --skip
// node kinds.
func batchHooks(unsupported, skip []string) (event.Hooks, error) {
	if len(unsupported)+len(skip) == 0 {
		return nil, nil
	}

	hooks := make(event.Hooks, len(unsupported)+len(skip))
	add := func(names []string, result event.HookResult) error {
		for _, name := range names {
			kind, ok := nodeKindByName(name)
			if !ok {
				return fmt.Errorf("%w: unknown node kind %q", ErrInvalidUsage, name)
			}
			hooks[kind] = func(*mdast.Node) event.HookResult { return result }
		}
		return nil
	}

	if err := add(unsupported, event.HookUnsupported); err != nil {
		return nil, err
	}
	if err := add(skip, event.HookSkip); err != nil {
		return nil, err
	}
	return hooks, nil
}

// terminalWidth returns the column count of w, or 0 when it is not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
