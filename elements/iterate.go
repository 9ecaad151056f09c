package elements

import (
	"context"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// IterateConfig configures the iterate element.
type IterateConfig struct {
	// Count is the default number of times each record is repeated.
	Count int `mapstructure:"count"`
}

// IterateInput is the per-item input of the iterate element.
type IterateInput struct {
	Input any  `mapstructure:"input" validate:"required"`
	Count *int `mapstructure:"count"`
}

// Iterate repeats each record a configurable number of times.
type Iterate struct {
	element.Base
	cfg IterateConfig
}

func NewIterate() *Iterate {
	return &Iterate{cfg: IterateConfig{Count: 1}}
}

func (e *Iterate) Config() any { return &e.cfg }

func (e *Iterate) Input() element.Shape {
	return element.NewShape(func() any { return &IterateInput{} })
}

func (e *Iterate) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return flatEach(in, func(_ context.Context, item any) ([]any, error) {
		req := perItem[IterateInput](item)
		e.Apply(req)
		count := e.cfg.Count
		if req.Count != nil {
			count = *req.Count
		}
		out := make([]any, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, req.Input)
		}
		return out, nil
	})
}
