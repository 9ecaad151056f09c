package elements

import (
	"context"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// Identity passes every record through unchanged.
type Identity struct{}

func NewIdentity() *Identity { return &Identity{} }

func (e *Identity) Input() element.Shape { return element.Untyped() }

func (e *Identity) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return in
}

// Empty maps every record to an empty map, discarding its content. Useful
// as a neutral seed for elements that only read their defaults.
type Empty struct{}

func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) Input() element.Shape { return element.Untyped() }

func (e *Empty) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(_ context.Context, _ any) (any, error) {
		return map[string]any{}, nil
	})
}
