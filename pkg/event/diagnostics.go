package event

import (
	"iter"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Finding is a diagnostic collected from the stream. Identical findings
// are counted rather than repeated.
type Finding struct {
	Kind    Kind
	Message string
	Pos     mdast.SourcePos
	Count   int
}

// Interceptor is told about every diagnostic event Diagnostics observes.
type Interceptor interface {
	Intercept(ev Event)
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(ev Event)

// Intercept calls f.
func (f InterceptorFunc) Intercept(ev Event) { f(ev) }

type findingKey struct {
	kind    Kind
	message string
	pos     mdast.SourcePos
}

// Diagnostics collects the error, warning and unsupported events of a
// stream. It never changes the stream it observes.
type Diagnostics struct {
	interceptor Interceptor
	index       map[findingKey]int
	findings    []Finding
}

// NewDiagnostics creates a collector. interceptor may be nil.
func NewDiagnostics(interceptor Interceptor) *Diagnostics {
	return &Diagnostics{
		interceptor: interceptor,
		index:       make(map[findingKey]int),
	}
}

// Observe records ev if it is a diagnostic.
func (d *Diagnostics) Observe(ev Event) {
	if !ev.Kind.IsDiagnostic() {
		return
	}

	if d.interceptor != nil {
		d.interceptor.Intercept(ev)
	}

	key := findingKey{kind: ev.Kind, message: ev.Text, pos: ev.Pos}
	if idx, ok := d.index[key]; ok {
		d.findings[idx].Count++
		return
	}
	d.index[key] = len(d.findings)
	d.findings = append(d.findings, Finding{Kind: ev.Kind, Message: ev.Text, Pos: ev.Pos, Count: 1})
}

// Watch returns seq unchanged while observing every event that passes.
func (d *Diagnostics) Watch(seq iter.Seq[Event]) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for ev := range seq {
			d.Observe(ev)
			if !yield(ev) {
				return
			}
		}
	}
}

// Findings returns every finding in the order first seen.
func (d *Diagnostics) Findings() []Finding {
	return d.findings
}

// Errors returns the error findings.
func (d *Diagnostics) Errors() []Finding {
	return d.byKind(KindError)
}

// Warnings returns the warning findings.
func (d *Diagnostics) Warnings() []Finding {
	return d.byKind(KindWarning)
}

// Unsupported returns the unsupported findings.
func (d *Diagnostics) Unsupported() []Finding {
	return d.byKind(KindUnsupported)
}

// HasErrors returns true if an error was observed.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors()) > 0
}

func (d *Diagnostics) byKind(kind Kind) []Finding {
	var out []Finding
	for _, f := range d.findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// LogInterceptor writes diagnostics to a charmbracelet logger: errors at
// error level, warnings at warn level and unsupported nodes at debug
// level. A nil logger uses the default logger.
func LogInterceptor(logger *log.Logger) Interceptor {
	if logger == nil {
		logger = log.Default()
	}
	return InterceptorFunc(func(ev Event) {
		keyvals := []any{"line", ev.Pos.Line, "column", ev.Pos.Column}
		switch ev.Kind {
		case KindError:
			logger.Error(ev.Text, keyvals...)
		case KindWarning:
			logger.Warn(ev.Text, keyvals...)
		default:
			logger.Debug(ev.Text, keyvals...)
		}
	})
}
