// Package element defines the stage contract of the pipeline engine: the
// Element interface every processing stage implements, the structural input
// Shape an element declares, the per-instance Defaults table, and the
// Registry that resolves descriptor identifiers to constructed elements.
package element

import (
	"context"

	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/stream"
)

// Element is one processing stage in a pipeline. Process lazily transforms
// an input sequence into an output sequence; it may consume its input
// eagerly (sort, groupby) or lazily, one record per pull.
type Element interface {
	// Input reports the structural shape of the per-item records this
	// element consumes. Records crossing the stage boundary are coerced to
	// this shape before Process observes them.
	Input() Shape

	// Process transforms the input sequence. The returned sequence is
	// single-pass and non-restartable; errors surface through its Next.
	Process(ctx context.Context, in stream.Iterator) stream.Iterator
}

// Configurable is implemented by elements that accept constructor
// parameters. Config returns a pointer to the element's configuration
// struct, pre-populated with its defaults; the registry decodes descriptor
// parameters into it.
type Configurable interface {
	Config() any
}

// DefaultsAware is implemented by elements that keep a per-instance defaults
// table for per-item fallback. The registry installs the resolved
// construction parameters after binding.
type DefaultsAware interface {
	SetDefaults(Defaults)
}

// PropertySetter is implemented by elements that accept open-ended extra
// configuration. Descriptor keys the configuration struct did not consume
// are applied through it after construction.
type PropertySetter interface {
	SetProperty(name string, value any) error
}

// Initializer is implemented by elements that need a post-configuration
// build step (e.g. fork compiling its branch pipelines). Init errors are
// fatal at pipeline-build time.
type Initializer interface {
	Init() error
}

// IDKey is the descriptor key holding the element identifier.
const IDKey = "id"

// Descriptor is one stage entry from a serialized pipeline configuration:
// a mandatory identifier plus arbitrary named parameters.
type Descriptor map[string]any

// ID returns the element identifier of the descriptor.
func (d Descriptor) ID() (string, error) {
	raw, ok := d[IDKey]
	if !ok {
		return "", errors.InvalidPipeline("element descriptor is missing the \"id\" field")
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", errors.InvalidPipeline("element descriptor \"id\" must be a non-empty string")
	}
	return id, nil
}

// Params returns a copy of the descriptor's parameters without the identifier.
func (d Descriptor) Params() map[string]any {
	params := make(map[string]any, len(d))
	for k, v := range d {
		if k == IDKey {
			continue
		}
		params[k] = v
	}
	return params
}

// Base carries the per-instance defaults table shared by built-in elements.
// Embed it and the registry fills the table from the resolved configuration.
type Base struct {
	defaults Defaults
}

// SetDefaults installs the per-instance defaults table.
func (b *Base) SetDefaults(d Defaults) { b.defaults = d }

// Defaults returns the per-instance defaults table.
func (b *Base) Defaults() Defaults { return b.defaults }

// Apply fills unset fields of a per-item record from the defaults table.
func (b *Base) Apply(item any) { b.defaults.Apply(item) }
