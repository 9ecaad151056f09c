package elements

import (
	"context"

	"github.com/kbukum/conduit/stream"
)

// perItem normalizes a coerced record to a pointer to its input struct.
// Identity pass-through may deliver either the value or the pointer form.
func perItem[T any](item any) *T {
	if p, ok := item.(*T); ok {
		return p
	}
	if v, ok := item.(T); ok {
		return &v
	}
	return new(T)
}

// mapEach applies fn to every record, one output per input.
func mapEach(in stream.Iterator, fn func(context.Context, any) (any, error)) stream.Iterator {
	return stream.Func(func(ctx context.Context) (any, bool, error) {
		item, ok, err := in.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		out, err := fn(ctx, item)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	}, in.Close)
}

// flatEach applies fn to every record and yields its outputs one at a time.
// An empty result for one record pulls the next record.
func flatEach(in stream.Iterator, fn func(context.Context, any) ([]any, error)) stream.Iterator {
	var pending []any
	return stream.Func(func(ctx context.Context) (any, bool, error) {
		for {
			if len(pending) > 0 {
				v := pending[0]
				pending = pending[1:]
				return v, true, nil
			}
			item, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return nil, false, err
			}
			pending, err = fn(ctx, item)
			if err != nil {
				return nil, false, err
			}
		}
	}, in.Close)
}

// eager materializes the whole input before producing output. Aggregations
// (sort, groupby) need the full record set.
func eager(in stream.Iterator, fn func(context.Context, []any) ([]any, error)) stream.Iterator {
	var pending []any
	collected := false
	return stream.Func(func(ctx context.Context) (any, bool, error) {
		if !collected {
			items, err := stream.Collect(ctx, in)
			if err != nil {
				return nil, false, err
			}
			pending, err = fn(ctx, items)
			if err != nil {
				return nil, false, err
			}
			collected = true
		}
		if len(pending) == 0 {
			return nil, false, nil
		}
		v := pending[0]
		pending = pending[1:]
		return v, true, nil
	}, in.Close)
}
