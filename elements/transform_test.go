package elements_test

import (
	"testing"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
)

func TestFormatScalar(t *testing.T) {
	got := run(t, []element.Descriptor{{"id": "format"}}, []any{42})
	if got[0] != "42" {
		t.Fatalf("expected default template to render the input, got %v", got)
	}
}

func TestFormatMapFields(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "format", "template": "{{.name}} is {{.age}}"},
	}, []any{map[string]any{"name": "ada", "age": 36}})
	if got[0] != "ada is 36" {
		t.Fatalf("unexpected rendering: %v", got)
	}
}

func TestFormatPerItemTemplate(t *testing.T) {
	got := run(t, []element.Descriptor{{"id": "format"}}, []any{
		map[string]any{"input": "x", "template": "<{{.input}}>"},
	})
	if got[0] != "<x>" {
		t.Fatalf("expected per-item template to win, got %v", got)
	}
}

func TestFormatMissingVariableRendersZero(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "format", "template": "[{{.missing}}]"},
	}, []any{map[string]any{"name": "a"}})
	if got[0] != "[<no value>]" && got[0] != "[]" {
		t.Fatalf("expected missing variable tolerated, got %q", got[0])
	}
}

func TestReplace(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "replace", "pattern": "[0-9]+", "replacement": "#"},
	}, []any{map[string]any{"text": "a1b22c"}})
	if got[0] != "a#b#c" {
		t.Fatalf("unexpected replacement: %v", got)
	}
}

func TestReplaceGroupRefs(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "replace", "pattern": `(\w+)@(\w+)`, "replacement": "$2.$1"},
	}, []any{map[string]any{"text": "user@host"}})
	if got[0] != "host.user" {
		t.Fatalf("unexpected replacement: %v", got)
	}
}

func TestReplaceScalarTextInput(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "replace", "pattern": "l", "replacement": "L"},
	}, []any{"hello"})
	if got[0] != "heLLo" {
		t.Fatalf("unexpected replacement: %v", got)
	}
}

func TestReplaceBadDefaultPatternFailsBuild(t *testing.T) {
	_, err := runErr(t, []element.Descriptor{
		{"id": "replace", "pattern": "("},
	}, nil)
	if err == nil {
		t.Fatal("expected build failure for invalid pattern")
	}
}

func TestExtractMapPath(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "extract", "path": "stats.level"},
	}, []any{map[string]any{"input": map[string]any{"stats": map[string]any{"level": 7}}}})
	if got[0] != 7 {
		t.Fatalf("unexpected extraction: %v", got)
	}
}

func TestExtractIndexPath(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "extract", "path": "items.1"},
	}, []any{map[string]any{"input": map[string]any{"items": []any{"a", "b"}}}})
	if got[0] != "b" {
		t.Fatalf("unexpected extraction: %v", got)
	}
}

func TestExtractForkBranch(t *testing.T) {
	got := run(t, []element.Descriptor{
		{"id": "fork", "paths": map[string]any{
			"double": []element.Descriptor{{"id": "iterate", "count": 2}},
			"single": []element.Descriptor{{"id": "identity"}},
		}},
		{"id": "extract", "path": "single"},
	}, []any{"x"})
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected the single branch picked out, got %v", got)
	}
}

func TestExtractRequiresPath(t *testing.T) {
	_, err := runErr(t, []element.Descriptor{{"id": "extract"}}, nil)
	if !errors.Is(err, errors.ErrCodeMissingArgument) {
		t.Fatalf("expected missing-argument, got %v", err)
	}
}

func TestExtractMissingKeyFailsRecord(t *testing.T) {
	_, err := runErr(t, []element.Descriptor{
		{"id": "extract", "path": "nope"},
	}, []any{map[string]any{"input": map[string]any{"a": 1}}})
	if err == nil {
		t.Fatal("expected unresolvable path to fail the record")
	}
}
