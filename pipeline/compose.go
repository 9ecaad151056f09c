package pipeline

import (
	"context"
	"reflect"

	"github.com/kbukum/conduit/coerce"
	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
	"github.com/kbukum/conduit/logger"
	"github.com/kbukum/conduit/stream"
)

// flattenIter expands nested list-valued upstream records one item at a
// time. Strings and byte slices are never flattened; arrays (the tuple
// analogue) stay intact for positional coercion.
type flattenIter struct {
	src   stream.Iterator
	stack [][]any
}

func (it *flattenIter) Next(ctx context.Context) (any, bool, error) {
	for {
		for len(it.stack) > 0 {
			top := &it.stack[len(it.stack)-1]
			if len(*top) == 0 {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			item := (*top)[0]
			*top = (*top)[1:]
			if nested, ok := flattenable(item); ok {
				it.stack = append(it.stack, nested)
				continue
			}
			return item, true, nil
		}

		item, ok, err := it.src.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		if nested, ok := flattenable(item); ok {
			it.stack = append(it.stack, nested)
			continue
		}
		return item, true, nil
	}
}

func (it *flattenIter) Close() error { return it.src.Close() }

func flattenable(item any) ([]any, bool) {
	switch v := item.(type) {
	case string, []byte:
		return nil, false
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out, true
	}
	rv := reflect.ValueOf(item)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// coerceIter reshapes each record to the downstream element's declared
// input shape. Coercion failures are per-item: with stop_on_error the
// failure halts the stream, otherwise the item is skipped.
type coerceIter struct {
	src         stream.Iterator
	shape       element.Shape
	id          string
	log         *logger.Logger
	stopOnError bool
}

func (it *coerceIter) Next(ctx context.Context) (any, bool, error) {
	for {
		item, ok, err := it.src.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		coerced, cerr := coerce.Coerce(item, it.shape)
		if cerr != nil {
			it.log.Error("error converting item", logger.Fields(
				logger.FieldElement, it.id,
				logger.FieldError, cerr.Error(),
			))
			if it.stopOnError {
				if e, isEngine := errors.As(cerr); isEngine {
					return nil, false, e.WithDetail("element", it.id)
				}
				return nil, false, cerr
			}
			continue
		}
		return coerced, true, nil
	}
}

func (it *coerceIter) Close() error { return it.src.Close() }

// meterIter records per-element metrics as records flow: start on the
// first observed item, item counts, and final status.
type meterIter struct {
	src     stream.Iterator
	metrics *ElementMetrics
}

func (it *meterIter) Next(ctx context.Context) (any, bool, error) {
	val, ok, err := it.src.Next(ctx)
	if err != nil {
		it.metrics.fail(err)
		return nil, false, err
	}
	if !ok {
		it.metrics.complete()
		return nil, false, nil
	}
	it.metrics.observe()
	return val, true, nil
}

func (it *meterIter) Close() error {
	it.metrics.complete()
	return it.src.Close()
}

// policyIter applies the stop_on_error policy to element execution
// failures. Recovery means treating the element's remaining output for this
// run as empty, not resuming mid-stream.
type policyIter struct {
	src         stream.Iterator
	id          string
	log         *logger.Logger
	stopOnError bool
	done        bool
}

func (it *policyIter) Next(ctx context.Context) (any, bool, error) {
	if it.done {
		return nil, false, nil
	}
	val, ok, err := it.src.Next(ctx)
	if err != nil {
		it.done = true
		// Coercion failures propagating under stop_on_error were already
		// logged and attributed where they happened. With stop_on_error off
		// they can still arrive here out of a nested pipeline (a fork branch
		// halts on its own failures); those recover like any element error.
		if it.stopOnError && errors.Is(err, errors.ErrCodeCoercionFailed) {
			return nil, false, err
		}
		it.log.Error("error in element", logger.Fields(
			logger.FieldElement, it.id,
			logger.FieldError, err.Error(),
		))
		if it.stopOnError {
			if _, isEngine := errors.As(err); isEngine {
				return nil, false, err
			}
			return nil, false, errors.ElementFailed(it.id, err)
		}
		it.log.Warn("continuing pipeline despite error in element", logger.Fields(logger.FieldElement, it.id))
		return nil, false, nil
	}
	return val, ok, nil
}

func (it *policyIter) Close() error {
	it.done = true
	return it.src.Close()
}

// statsIter counts records yielded at the outermost sequence and finalizes
// the stats aggregate on exhaustion, failure, or close.
type statsIter struct {
	src   stream.Iterator
	stats *Stats
}

func (it *statsIter) Next(ctx context.Context) (any, bool, error) {
	val, ok, err := it.src.Next(ctx)
	if err != nil || !ok {
		it.stats.finalize()
		return nil, false, err
	}
	it.stats.Items++
	return val, true, nil
}

func (it *statsIter) Close() error {
	it.stats.finalize()
	return it.src.Close()
}
