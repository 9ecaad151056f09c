package pipeline

import (
	"context"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/stream"
)

// Pipeline is an ordered sequence of elements composed into one lazy
// sequence transform. It implements element.Element, so a Pipeline can be
// nested as a stage inside another Pipeline or inside a fork branch.
//
// The element list is immutable in length and order once constructed.
type Pipeline struct {
	elements    []element.Element
	ids         []string
	stopOnError bool
	log         *logger.Logger
	wrap        func(id string, el element.Element) element.Element
	stats       *Stats
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithStopOnError sets the error policy. When true (the default), the first
// failure halts the whole pipeline; when false, failed items are skipped
// and a failed element's remaining output is treated as empty for the run.
func WithStopOnError(stop bool) Option {
	return func(p *Pipeline) { p.stopOnError = stop }
}

// WithElementWrapper installs a decorator applied to every element as it is
// created, e.g. WithTracing or WithLogging.
func WithElementWrapper(wrap func(id string, el element.Element) element.Element) Option {
	return func(p *Pipeline) { p.wrap = wrap }
}

// New builds a pipeline from stage descriptors, instantiating each element
// through the registry. Construction errors are fatal and carry the
// identifier of the element that failed.
func New(descs []element.Descriptor, reg *element.Registry, log *logger.Logger, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		stopOnError: true,
		log:         log.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, desc := range descs {
		id, err := desc.ID()
		if err != nil {
			return nil, err
		}
		p.log.Debug("creating element", logger.Fields(logger.FieldElement, id))
		el, err := reg.Create(desc)
		if err != nil {
			p.log.Error("error creating element", logger.Fields(logger.FieldElement, id, logger.FieldError, err.Error()))
			return nil, err
		}
		if p.wrap != nil {
			el = p.wrap(id, el)
		}
		p.elements = append(p.elements, el)
		p.ids = append(p.ids, id)
	}
	return p, nil
}

// Len returns the number of elements in the pipeline.
func (p *Pipeline) Len() int { return len(p.elements) }

// At returns the i-th element.
func (p *Pipeline) At(i int) element.Element { return p.elements[i] }

// IDs returns the element identifiers in pipeline order.
func (p *Pipeline) IDs() []string {
	ids := make([]string, len(p.ids))
	copy(ids, p.ids)
	return ids
}

// StopOnError reports the pipeline's error policy.
func (p *Pipeline) StopOnError() bool { return p.stopOnError }

// Stats returns the stats aggregate of the most recent Process call. It is
// finalized once the output sequence is exhausted, aborted, or closed.
func (p *Pipeline) Stats() *Stats { return p.stats }

// Input reports the pipeline's declared input shape. Pipelines accept any
// record; coercion happens per element inside.
func (p *Pipeline) Input() element.Shape { return element.Untyped() }

// Process chains all elements into one lazy sequence over the input. Each
// element's feed flattens nested list-valued records and coerces every
// record to the element's declared shape before it is observed.
func (p *Pipeline) Process(ctx context.Context, in stream.Iterator) stream.Iterator {
	stats := newStats(p.ids)
	p.stats = stats

	cur := in
	for i, el := range p.elements {
		cur = p.elementStream(ctx, el, p.ids[i], cur, stats.Elements[i])
	}
	return &statsIter{src: cur, stats: stats}
}

// Run drains the pipeline over the given seed input and returns the last
// record it produced, along with any halting error.
func (p *Pipeline) Run(ctx context.Context, input []any) (any, error) {
	var last any
	err := stream.Drain(ctx, p.Process(ctx, stream.FromSlice(input)), func(_ context.Context, v any) error {
		last = v
		return nil
	})
	return last, err
}

// Collect drains the pipeline over the given seed input and returns every
// record it produced.
func (p *Pipeline) Collect(ctx context.Context, input []any) ([]any, error) {
	return stream.Collect(ctx, p.Process(ctx, stream.FromSlice(input)))
}

func (p *Pipeline) elementStream(ctx context.Context, el element.Element, id string, upstream stream.Iterator, em *ElementMetrics) stream.Iterator {
	feed := &coerceIter{
		src:         &flattenIter{src: upstream},
		shape:       el.Input(),
		id:          id,
		log:         p.log,
		stopOnError: p.stopOnError,
	}
	out := el.Process(ctx, feed)
	return &policyIter{
		src:         &meterIter{src: out, metrics: em},
		id:          id,
		log:         p.log,
		stopOnError: p.stopOnError,
	}
}
