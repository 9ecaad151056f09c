package elements

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// SortConfig configures the sort element.
type SortConfig struct {
	// Key is the dot-notation path of the sort key. Empty sorts by the
	// record itself.
	Key string `mapstructure:"key"`
	// Reverse sorts descending when true.
	Reverse bool `mapstructure:"reverse"`
}

// SortInput is the per-item input of the sort element.
type SortInput struct {
	Input   any     `mapstructure:"input" validate:"required"`
	Key     *string `mapstructure:"key"`
	Reverse *bool   `mapstructure:"reverse"`
}

// Sort orders the whole record set by a key path. Eager: all input is
// materialized before the first output record.
type Sort struct {
	element.Base
	cfg SortConfig
}

func NewSort() *Sort { return &Sort{} }

func (e *Sort) Config() any { return &e.cfg }

func (e *Sort) Input() element.Shape {
	return element.NewShape(func() any { return &SortInput{} })
}

func (e *Sort) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return eager(in, func(_ context.Context, items []any) ([]any, error) {
		type entry struct {
			value any
			key   any
		}
		entries := make([]entry, 0, len(items))
		reverse := e.cfg.Reverse
		for _, item := range items {
			req := perItem[SortInput](item)
			e.Apply(req)
			key := e.cfg.Key
			if req.Key != nil {
				key = *req.Key
			}
			if req.Reverse != nil {
				reverse = *req.Reverse
			}
			k, err := extractPath(req.Input, key)
			if err != nil {
				// Unresolvable keys order by the record's string form.
				k = fmt.Sprint(req.Input)
			}
			entries = append(entries, entry{value: req.Input, key: k})
		}

		sort.SliceStable(entries, func(i, j int) bool {
			if reverse {
				i, j = j, i
			}
			return lessValue(entries[i].key, entries[j].key)
		})

		out := make([]any, len(entries))
		for i, en := range entries {
			out[i] = en.value
		}
		return out, nil
	})
}

// lessValue compares sort keys: numerically when both sides are numeric,
// lexically on the string form otherwise.
func lessValue(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
