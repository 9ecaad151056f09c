// Package stream provides the pull-based lazy sequence primitive records
// flow through between pipeline elements.
//
// Sequences are lazy: no work happens until values are pulled via Next,
// Collect, or Drain. Each stage pulls from the previous stage on demand, so
// an infinite upstream never requires materialization unless a consumer is
// deliberately eager. Records are untyped because only structural shape
// matters between elements; the coerce package reshapes them per element.
package stream

import "context"

// Iterator provides pull-based sequential access to a stream of records.
// A sequence is single-pass and non-restartable.
type Iterator interface {
	// Next returns the next record. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) (any, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// --- Constructors ---

// FromSlice creates an iterator over a slice of records.
func FromSlice(items []any) Iterator {
	return &sliceIter{items: items}
}

// Single creates an iterator that yields exactly one record.
func Single(item any) Iterator {
	return &sliceIter{items: []any{item}}
}

// Empty creates an iterator that yields nothing.
func Empty() Iterator {
	return &sliceIter{}
}

// Func wraps a pull function as an Iterator with an optional closer.
func Func(next func(ctx context.Context) (any, bool, error), closer func() error) Iterator {
	return &funcIter{next: next, closer: closer}
}

// --- Terminals ---

// Collect pulls all records and returns them as a slice.
func Collect(ctx context.Context, it Iterator) ([]any, error) {
	defer it.Close()
	var result []any
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// Drain pulls all records and calls sink for each.
func Drain(ctx context.Context, it Iterator, sink func(context.Context, any) error) error {
	defer it.Close()
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := sink(ctx, val); err != nil {
			return err
		}
	}
}

// First pulls at most one record. Returns ok=false for an empty sequence.
func First(ctx context.Context, it Iterator) (any, bool, error) {
	defer it.Close()
	return it.Next(ctx)
}

// --- Internal iterators ---

type sliceIter struct {
	items []any
	index int
}

func (it *sliceIter) Next(_ context.Context) (any, bool, error) {
	if it.index >= len(it.items) {
		return nil, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter) Close() error { return nil }

type funcIter struct {
	next   func(ctx context.Context) (any, bool, error)
	closer func() error
	done   bool
}

func (it *funcIter) Next(ctx context.Context) (any, bool, error) {
	if it.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	val, ok, err := it.next(ctx)
	if err != nil || !ok {
		it.done = true
	}
	return val, ok, err
}

func (it *funcIter) Close() error {
	it.done = true
	if it.closer != nil {
		return it.closer()
	}
	return nil
}
