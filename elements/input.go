package elements

import (
	"context"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// InputConfig configures the input source element.
type InputConfig struct {
	// Data is the list of records this element emits.
	Data []any `mapstructure:"data"`
}

// Input is a source element: it ignores the upstream sequence and emits its
// configured records in order.
type Input struct {
	element.Base
	cfg InputConfig
}

func NewInput() *Input { return &Input{} }

func (e *Input) Config() any { return &e.cfg }

func (e *Input) Input() element.Shape { return element.Untyped() }

func (e *Input) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	items := make([]any, len(e.cfg.Data))
	copy(items, e.cfg.Data)
	idx := 0
	return stream.Func(func(_ context.Context) (any, bool, error) {
		if idx >= len(items) {
			return nil, false, nil
		}
		v := items[idx]
		idx++
		return v, true, nil
	}, in.Close)
}
