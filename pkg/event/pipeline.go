package event

import (
	"iter"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// Mapper rewrites an event in place.
type Mapper interface {
	Map(ev *Event)
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(ev *Event)

// Map calls f.
func (f MapperFunc) Map(ev *Event) { f(ev) }

// Filter decides whether an event stays in the stream.
type Filter interface {
	Keep(ev Event) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(ev Event) bool

// Keep calls f.
func (f FilterFunc) Keep(ev Event) bool { return f(ev) }

// Pipeline applies mappers and then filters to every event. Mappers run in
// registration order; filters run in registration order and the first
// rejection drops the event.
type Pipeline struct {
	mappers []Mapper
	filters []Filter
}

// NewPipeline creates an empty pipeline, which passes events through
// unchanged.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Map appends a mapper and returns the pipeline.
func (p *Pipeline) Map(m Mapper) *Pipeline {
	p.mappers = append(p.mappers, m)
	return p
}

// Filter appends a filter and returns the pipeline.
func (p *Pipeline) Filter(f Filter) *Pipeline {
	p.filters = append(p.filters, f)
	return p
}

// Process runs one event through the pipeline. It returns false when a
// filter rejected the event.
func (p *Pipeline) Process(ev Event) (Event, bool) {
	for _, m := range p.mappers {
		m.Map(&ev)
	}
	for _, f := range p.filters {
		if !f.Keep(ev) {
			return ev, false
		}
	}
	return ev, true
}

// Apply returns the stream of events that pass the pipeline.
func (p *Pipeline) Apply(seq iter.Seq[Event]) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for ev := range seq {
			out, keep := p.Process(ev)
			if !keep {
				continue
			}
			if !yield(out) {
				return
			}
		}
	}
}

// UpperCaseMapper upper-cases the payload of text events. The mapper is
// not safe for concurrent use.
func UpperCaseMapper() Mapper {
	caser := cases.Upper(language.Und)
	return MapperFunc(func(ev *Event) {
		if ev.Kind == KindText {
			ev.Text = caser.String(ev.Text)
		}
	})
}

// DropKinds rejects events of the given kinds.
func DropKinds(kinds ...Kind) Filter {
	return FilterFunc(func(ev Event) bool {
		return !slices.Contains(kinds, ev.Kind)
	})
}

// DropTags rejects the Start and End events of the given node kinds. The
// events between them are kept.
func DropTags(nodes ...mdast.NodeKind) Filter {
	return FilterFunc(func(ev Event) bool {
		if ev.Kind != KindStart && ev.Kind != KindEnd {
			return true
		}
		return !slices.Contains(nodes, ev.Tag.Node)
	})
}
