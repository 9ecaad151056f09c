package elements

import (
	"context"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// ExtractConfig configures the extract element.
type ExtractConfig struct {
	// Path is the default dot-notation path to pull out of each record,
	// e.g. "a", "0.name", "stats.level".
	Path string `mapstructure:"path" validate:"required"`
}

// ExtractInput is the per-item input of the extract element.
type ExtractInput struct {
	Input any     `mapstructure:"input" validate:"required"`
	Path  *string `mapstructure:"path"`
}

// Extract pulls a nested value out of each record by path. Useful for
// picking one branch out of a fork composite.
type Extract struct {
	element.Base
	cfg ExtractConfig
}

func NewExtract() *Extract { return &Extract{} }

func (e *Extract) Config() any { return &e.cfg }

func (e *Extract) Input() element.Shape {
	return element.NewShape(func() any { return &ExtractInput{} })
}

func (e *Extract) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(_ context.Context, item any) (any, error) {
		req := perItem[ExtractInput](item)
		e.Apply(req)
		path := e.cfg.Path
		if req.Path != nil {
			path = *req.Path
		}
		return extractPath(req.Input, path)
	})
}
