package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/gomdrender/pkg/event"
	"github.com/yaklabco/gomdrender/pkg/fsutil"
	"github.com/yaklabco/gomdrender/pkg/parser"
)

// Runner parses batches of documents.
type Runner struct {
	// Hooks are applied by the emitter of every document.
	Hooks event.Hooks
}

// New creates a Runner.
func New(hooks event.Hooks) *Runner {
	return &Runner{Hooks: hooks}
}

// Run discovers files under opts.Paths and parses them concurrently.
// It returns one FileOutcome per file, in path order, and aggregate stats.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := workerCount(opts.Jobs, len(files))
	p := parser.New(opts.Parse)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, p, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, p *parser.Parser, workCh <-chan string, outCh chan<- FileOutcome) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path}

		content, _, err := fsutil.ReadSource(ctx, path, nil)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Bytes = len(content)
			outcome.Events, outcome.Warnings = r.count(p, path, content)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// count parses one document and reduces it to its event and finding
// counts.
func (r *Runner) count(p *parser.Parser, path string, content []byte) (events, findings int) {
	doc := p.Parse(path, content)
	diagnostics := event.NewDiagnostics(nil)
	events = event.Count(diagnostics.Watch(event.NewEmitter(r.Hooks).Document(doc)))
	return events, len(diagnostics.Findings())
}

// CountEvents parses every source on a pool of jobs workers and returns
// the event count of each, in input order. jobs <= 0 means one worker
// per CPU.
func (r *Runner) CountEvents(sources [][]byte, opts parser.Options, jobs int) []int {
	counts := make([]int, len(sources))
	if len(sources) == 0 {
		return counts
	}

	type tally struct {
		index  int
		events int
	}

	p := parser.New(opts)
	workCh := make(chan int)
	outCh := make(chan tally)

	var wg sync.WaitGroup
	for range workerCount(jobs, len(sources)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				events, _ := r.count(p, "", sources[i])
				outCh <- tally{index: i, events: events}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for i := range sources {
			workCh <- i
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	for t := range outCh {
		counts[t.index] = t.events
	}
	return counts
}

func workerCount(jobs, items int) int {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return min(jobs, items)
}
