package element

import (
	"reflect"
	"strings"
)

// Field describes one declared input field of an element.
type Field struct {
	// Name is the wire name of the field (mapstructure tag or lowercased
	// struct field name).
	Name string
	// Required marks fields that must be present in the incoming record;
	// optional fields fall back to the element's defaults table.
	Required bool
}

// Shape is the static structural metadata an element declares for its
// per-item input. The zero value is the untyped shape: records pass through
// coercion unchanged.
type Shape struct {
	proto  func() any
	rtype  reflect.Type
	fields []Field
}

// Untyped returns the shape that accepts any record unmodified.
func Untyped() Shape { return Shape{} }

// NewShape builds a Shape from a prototype constructor returning a pointer
// to a fresh per-item input struct. Field metadata is enumerated once, at
// shape construction, from the struct's mapstructure and validate tags.
func NewShape(proto func() any) Shape {
	t := reflect.TypeOf(proto())
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Shape{proto: proto, rtype: t, fields: enumerateFields(t)}
}

// Untyped reports whether the shape accepts any record.
func (s Shape) Untyped() bool { return s.proto == nil }

// New returns a pointer to a fresh zero value of the declared input type.
func (s Shape) New() any { return s.proto() }

// Type returns the declared input struct type.
func (s Shape) Type() reflect.Type { return s.rtype }

// Fields returns the declared field list.
func (s Shape) Fields() []Field { return s.fields }

// HasField reports whether the shape declares a field with the given name.
func (s Shape) HasField(name string) bool {
	for _, f := range s.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func enumerateFields(t reflect.Type) []Field {
	if t.Kind() != reflect.Struct {
		return nil
	}
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous {
			fields = append(fields, enumerateFields(sf.Type)...)
			continue
		}
		fields = append(fields, Field{
			Name:     FieldName(sf),
			Required: strings.Contains(sf.Tag.Get("validate"), "required"),
		})
	}
	return fields
}

// FieldName returns the wire name of a struct field: the mapstructure tag
// when present, the lowercased field name otherwise.
func FieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("mapstructure")
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag != "" && tag != "-" {
		return tag
	}
	return strings.ToLower(sf.Name)
}
