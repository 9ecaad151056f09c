package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/stream"
)

// ForkConfig declares the named branch pipelines of a fork element. Each
// path is a full stage descriptor list compiled into its own pipeline.
type ForkConfig struct {
	Paths map[string][]element.Descriptor `mapstructure:"paths" validate:"required"`
}

// Fork is the branching element: every input record is driven through all
// named branch pipelines, and the fork emits one composite record per input
// mapping each branch name to that branch's first result (nil when a branch
// produced nothing).
//
// The fork is a per-item synchronization barrier: it never emits the
// composite for record N before every branch finished record N.
type Fork struct {
	element.Base

	cfg ForkConfig
	reg *element.Registry
	log *logger.Logger

	mu       sync.RWMutex
	branches map[string]*Pipeline
	order    []string
}

// NewFork creates an unconfigured fork bound to the registry its branch
// stages resolve through.
func NewFork(reg *element.Registry, log *logger.Logger) *Fork {
	return &Fork{reg: reg, log: log}
}

// Config returns the fork's configuration struct for parameter binding.
func (f *Fork) Config() any { return &f.cfg }

// Init compiles the configured branch pipelines. Called at build time, so
// branch construction errors are fatal.
func (f *Fork) Init() error { return f.SetBranches(f.cfg.Paths) }

// SetBranches compiles a new branch table and swaps it in atomically: a
// compilation failure in any branch leaves the previous table untouched.
// Branch pipelines halt on the first failure inside the branch.
func (f *Fork) SetBranches(paths map[string][]element.Descriptor) error {
	if len(paths) == 0 {
		return errors.InvalidPipeline("fork requires at least one path")
	}

	branches := make(map[string]*Pipeline, len(paths))
	order := make([]string, 0, len(paths))
	for name, descs := range paths {
		branch, err := New(descs, f.reg, f.log, WithStopOnError(true))
		if err != nil {
			if e, ok := errors.As(err); ok {
				return e.WithDetail("path", name)
			}
			return err
		}
		branches[name] = branch
		order = append(order, name)
	}
	sort.Strings(order)

	f.mu.Lock()
	f.branches, f.order = branches, order
	f.mu.Unlock()
	return nil
}

// Paths returns the branch names in emit order.
func (f *Fork) Paths() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Branch returns the compiled pipeline for a path name.
func (f *Fork) Branch(name string) (*Pipeline, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.branches[name]
	return b, ok
}

// Input accepts any record; each branch coerces per its own first stage.
func (f *Fork) Input() element.Shape { return element.Untyped() }

// Process emits one composite record per input record, lazily: the next
// input is not pulled until the previous composite was consumed.
func (f *Fork) Process(ctx context.Context, in stream.Iterator) stream.Iterator {
	return stream.Func(func(ctx context.Context) (any, bool, error) {
		item, ok, err := in.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		out, err := f.processOne(ctx, item)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	}, in.Close)
}

func (f *Fork) processOne(ctx context.Context, item any) (map[string]any, error) {
	f.mu.RLock()
	branches, order := f.branches, f.order
	f.mu.RUnlock()

	out := make(map[string]any, len(order))
	for _, name := range order {
		branch := branches[name]
		val, ok, err := stream.First(ctx, branch.Process(ctx, stream.Single(item)))
		if err != nil {
			if e, isEngine := errors.As(err); isEngine {
				return nil, e.WithDetail("path", name)
			}
			return nil, err
		}
		if !ok {
			out[name] = nil
			continue
		}
		out[name] = val
	}
	return out, nil
}

// NestedConfig declares the stage list of an inline sub-pipeline element.
type NestedConfig struct {
	Elements    []element.Descriptor `mapstructure:"elements" validate:"required"`
	StopOnError *bool                `mapstructure:"stop_on_error"`
}

// Nested wraps a whole pipeline as a single element, so a serialized
// pipeline can embed another pipeline as one of its stages.
type Nested struct {
	element.Base

	cfg  NestedConfig
	reg  *element.Registry
	log  *logger.Logger
	pipe *Pipeline
}

// NewNested creates an unconfigured inline sub-pipeline element.
func NewNested(reg *element.Registry, log *logger.Logger) *Nested {
	return &Nested{reg: reg, log: log}
}

func (n *Nested) Config() any { return &n.cfg }

// Init compiles the inner pipeline. Without an explicit stop_on_error the
// inner pipeline halts on the first failure.
func (n *Nested) Init() error {
	stop := true
	if n.cfg.StopOnError != nil {
		stop = *n.cfg.StopOnError
	}
	pipe, err := New(n.cfg.Elements, n.reg, n.log, WithStopOnError(stop))
	if err != nil {
		return err
	}
	n.pipe = pipe
	return nil
}

// Inner returns the compiled sub-pipeline.
func (n *Nested) Inner() *Pipeline { return n.pipe }

func (n *Nested) Input() element.Shape { return element.Untyped() }

func (n *Nested) Process(ctx context.Context, in stream.Iterator) stream.Iterator {
	return n.pipe.Process(ctx, in)
}
