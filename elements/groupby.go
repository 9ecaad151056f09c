package elements

import (
	"context"
	"fmt"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// GroupByConfig configures the groupby element.
type GroupByConfig struct {
	// Key is the dot-notation path of the grouping key.
	Key string `mapstructure:"key" validate:"required"`
	// Value optionally selects a path to collect instead of whole records.
	Value string `mapstructure:"value"`
}

// GroupByInput is the per-item input of the groupby element.
type GroupByInput struct {
	Input any     `mapstructure:"input" validate:"required"`
	Key   *string `mapstructure:"key"`
	Value *string `mapstructure:"value"`
}

// GroupBy buckets the whole record set by a key path and emits one
// {key, values} record per group, in first-seen order. Eager.
type GroupBy struct {
	element.Base
	cfg GroupByConfig
}

func NewGroupBy() *GroupBy { return &GroupBy{} }

func (e *GroupBy) Config() any { return &e.cfg }

func (e *GroupBy) Input() element.Shape {
	return element.NewShape(func() any { return &GroupByInput{} })
}

func (e *GroupBy) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return eager(in, func(_ context.Context, items []any) ([]any, error) {
		groups := make(map[string][]any)
		var order []string
		for _, item := range items {
			req := perItem[GroupByInput](item)
			e.Apply(req)
			keyPath := e.cfg.Key
			if req.Key != nil {
				keyPath = *req.Key
			}
			valuePath := e.cfg.Value
			if req.Value != nil {
				valuePath = *req.Value
			}

			k, err := extractPath(req.Input, keyPath)
			if err != nil {
				return nil, err
			}
			key := "null"
			if k != nil {
				key = fmt.Sprint(k)
			}

			value := req.Input
			if valuePath != "" {
				if v, err := extractPath(req.Input, valuePath); err == nil {
					value = v
				}
			}

			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], value)
		}

		out := make([]any, 0, len(order))
		for _, key := range order {
			out = append(out, map[string]any{
				"key":    key,
				"values": groups[key],
			})
		}
		return out, nil
	})
}
