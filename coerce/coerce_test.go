package coerce_test

import (
	"testing"

	"github.com/kbukum/conduit/coerce"
	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
)

type wantText struct {
	Text string `mapstructure:"text" validate:"required"`
}

type wantPair struct {
	Name string `mapstructure:"name" validate:"required"`
	Size int    `mapstructure:"size"`
}

type wantInput struct {
	Input any `mapstructure:"input" validate:"required"`
}

func shapeOf[T any]() element.Shape {
	return element.NewShape(func() any { return new(T) })
}

func TestUntypedPassThrough(t *testing.T) {
	got, err := coerce.Coerce(42, element.Untyped())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestExactTypePassThrough(t *testing.T) {
	item := &wantText{Text: "hi"}
	got, err := coerce.Coerce(item, shapeOf[wantText]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != item {
		t.Fatal("expected identity pass-through for matching type")
	}
}

func TestSubsetCopyFromMap(t *testing.T) {
	got, err := coerce.Coerce(map[string]any{"name": "a", "size": 3, "extra": true}, shapeOf[wantPair]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair := got.(*wantPair)
	if pair.Name != "a" || pair.Size != 3 {
		t.Fatalf("unexpected result: %+v", pair)
	}
}

func TestSubsetCopyFromStruct(t *testing.T) {
	type upstream struct {
		Name  string `mapstructure:"name"`
		Size  int    `mapstructure:"size"`
		Other string `mapstructure:"other"`
	}
	got, err := coerce.Coerce(&upstream{Name: "b", Size: 7, Other: "x"}, shapeOf[wantPair]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair := got.(*wantPair)
	if pair.Name != "b" || pair.Size != 7 {
		t.Fatalf("unexpected result: %+v", pair)
	}
}

func TestScalarWrapsIntoInputField(t *testing.T) {
	got, err := coerce.Coerce("hello", shapeOf[wantInput]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(*wantInput).Input != "hello" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestWholeMapFallsBackToInputField(t *testing.T) {
	// No declared field matches, so the whole record lands in input.
	item := map[string]any{"a": 1, "b": 2}
	got, err := coerce.Coerce(item, shapeOf[wantInput]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, ok := got.(*wantInput).Input.(map[string]any)
	if !ok || in["a"] != 1 {
		t.Fatalf("expected whole map in input, got %+v", got)
	}
}

func TestMissingRequiredField(t *testing.T) {
	_, err := coerce.Coerce(map[string]any{"size": 3}, shapeOf[wantPair]())
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	if !errors.Is(err, errors.ErrCodeCoercionFailed) {
		t.Fatalf("expected coercion error, got %v", err)
	}
}

func TestArrayGetsPositionalKeys(t *testing.T) {
	type positional struct {
		First  string `mapstructure:"_0" validate:"required"`
		Second string `mapstructure:"_1"`
	}
	got, err := coerce.Coerce([2]string{"a", "b"}, shapeOf[positional]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := got.(*positional)
	if p.First != "a" || p.Second != "b" {
		t.Fatalf("unexpected result: %+v", p)
	}
}

func TestCoercionIdempotent(t *testing.T) {
	shape := shapeOf[wantPair]()
	once, err := coerce.Coerce(map[string]any{"name": "a"}, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := coerce.Coerce(once, shape)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if twice != once {
		t.Fatal("expected second coercion to be the identity")
	}
}

func TestAsMapString(t *testing.T) {
	m := coerce.AsMap("text")
	if m[coerce.InputField] != "text" {
		t.Fatalf("expected string wrapped as input, got %v", m)
	}
}

func TestAsMapStruct(t *testing.T) {
	m := coerce.AsMap(wantPair{Name: "n", Size: 1})
	if m["name"] != "n" || m["size"] != 1 {
		t.Fatalf("unexpected map: %v", m)
	}
}
