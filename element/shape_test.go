package element_test

import (
	"testing"

	"github.com/kbukum/conduit/element"
)

type sampleInput struct {
	Text  string  `mapstructure:"text" validate:"required"`
	Count *int    `mapstructure:"count"`
	Plain string  `mapstructure:"-"`
	Bare  float64 // no tag, wire name is the lowercased field name
}

func TestShapeFields(t *testing.T) {
	s := element.NewShape(func() any { return &sampleInput{} })
	if s.Untyped() {
		t.Fatal("expected typed shape")
	}

	fields := s.Fields()
	byName := make(map[string]element.Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	if f, ok := byName["text"]; !ok || !f.Required {
		t.Fatalf("expected required text field, got %+v", byName)
	}
	if f, ok := byName["count"]; !ok || f.Required {
		t.Fatalf("expected optional count field, got %+v", byName)
	}
	if !s.HasField("bare") {
		t.Fatal("expected untagged field under its lowercased name")
	}
}

func TestUntypedShape(t *testing.T) {
	s := element.Untyped()
	if !s.Untyped() {
		t.Fatal("expected untyped shape")
	}
	if len(s.Fields()) != 0 {
		t.Fatalf("expected no fields, got %v", s.Fields())
	}
}

func TestShapeNew(t *testing.T) {
	s := element.NewShape(func() any { return &sampleInput{} })
	v := s.New()
	if _, ok := v.(*sampleInput); !ok {
		t.Fatalf("expected fresh *sampleInput, got %T", v)
	}
}

func TestEmbeddedFieldsFlattened(t *testing.T) {
	type Base struct {
		ID string `mapstructure:"id"`
	}
	type extended struct {
		Base `mapstructure:",squash"`
		Name string `mapstructure:"name"`
	}
	s := element.NewShape(func() any { return &extended{} })
	if !s.HasField("id") || !s.HasField("name") {
		t.Fatalf("expected embedded fields flattened, got %v", s.Fields())
	}
}
