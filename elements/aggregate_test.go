package elements_test

import (
	"testing"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
)

func TestSortByKey(t *testing.T) {
	got := run(t, []element.Descriptor{{"id": "sort", "key": "size"}}, []any{
		map[string]any{"input": map[string]any{"name": "b", "size": 30}},
		map[string]any{"input": map[string]any{"name": "a", "size": 10}},
		map[string]any{"input": map[string]any{"name": "c", "size": 20}},
	})
	names := make([]string, len(got))
	for i, v := range got {
		names[i] = v.(map[string]any)["name"].(string)
	}
	if names[0] != "a" || names[1] != "c" || names[2] != "b" {
		t.Fatalf("unexpected order: %v", names)
	}
}

func TestSortReverse(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "sort", "key": "size", "reverse": true},
	}, []any{
		map[string]any{"input": map[string]any{"size": 1}},
		map[string]any{"input": map[string]any{"size": 3}},
		map[string]any{"input": map[string]any{"size": 2}},
	})
	sizes := make([]int, len(got))
	for i, v := range got {
		sizes[i] = v.(map[string]any)["size"].(int)
	}
	if sizes[0] != 3 || sizes[1] != 2 || sizes[2] != 1 {
		t.Fatalf("unexpected order: %v", sizes)
	}
}

func TestSortScalarsNumeric(t *testing.T) {
	got := run(t, []element.Descriptor{{"id": "sort"}}, []any{10, 2, 33})
	if got[0] != 2 || got[1] != 10 || got[2] != 33 {
		t.Fatalf("expected numeric order, got %v", got)
	}
}

func TestSortStringsLexical(t *testing.T) {
	got := run(t, []element.Descriptor{{"id": "sort"}}, []any{"pear", "apple", "fig"})
	if got[0] != "apple" || got[1] != "fig" || got[2] != "pear" {
		t.Fatalf("expected lexical order, got %v", got)
	}
}

func TestGroupBy(t *testing.T) {
	got := run(t, []element.Descriptor{{"id": "groupby", "key": "kind"}}, []any{
		map[string]any{"input": map[string]any{"kind": "fruit", "name": "apple"}},
		map[string]any{"input": map[string]any{"kind": "veg", "name": "leek"}},
		map[string]any{"input": map[string]any{"kind": "fruit", "name": "pear"}},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %v", got)
	}
	// Groups come out in first-seen order.
	first := got[0].(map[string]any)
	if first["key"] != "fruit" {
		t.Fatalf("unexpected group order: %v", got)
	}
	if values := first["values"].([]any); len(values) != 2 {
		t.Fatalf("expected 2 fruit records, got %v", values)
	}
}

func TestGroupByValuePath(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "groupby", "key": "kind", "value": "name"},
	}, []any{
		map[string]any{"input": map[string]any{"kind": "fruit", "name": "apple"}},
		map[string]any{"input": map[string]any{"kind": "fruit", "name": "pear"}},
	})
	values := got[0].(map[string]any)["values"].([]any)
	if len(values) != 2 || values[0] != "apple" || values[1] != "pear" {
		t.Fatalf("expected names collected, got %v", values)
	}
}

func TestGroupByRequiresKey(t *testing.T) {
	_, err := runErr(t, []element.Descriptor{{"id": "groupby"}}, nil)
	if !errors.Is(err, errors.ErrCodeMissingArgument) {
		t.Fatalf("expected missing-argument, got %v", err)
	}
}
