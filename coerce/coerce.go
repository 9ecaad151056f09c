// Package coerce implements structural type coercion between pipeline
// elements. Records are matched structurally, never nominally: whatever a
// stage emits is reshaped into whatever the next stage declares it needs.
//
// Coercion proceeds through an ordered set of strategies, first match wins:
//
//  1. Identity pass-through: the declared shape is untyped, or the record
//     already has the declared type.
//  2. Structural subset copy: the declared field set is a subset of the
//     record's field set; needed fields are copied by name.
//  3. Generic reshape: the record is converted to a keyed map (maps pass
//     through, sequences become positionally-keyed "_0".."_n" maps,
//     anything else wraps as a single "input" field), and the declared
//     shape is built from whichever fields are present. When nothing
//     matches and the shape declares an "input" field, the entire original
//     record lands in it.
package coerce

import (
	"fmt"
	"reflect"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/errors"
)

// InputField is the fallback field name that receives the whole record when
// no declared field matches.
const InputField = "input"

// Coerce reshapes a single record into an element's declared input shape.
// Failures are per-item: an error for one record never affects siblings.
func Coerce(item any, shape element.Shape) (any, error) {
	// Untyped shapes receive every record completely unmodified.
	if shape.Untyped() {
		return item, nil
	}

	if matchesShape(item, shape) {
		return item, nil
	}

	m := AsMap(item)

	picked := make(map[string]any, len(shape.Fields()))
	for _, f := range shape.Fields() {
		if v, ok := m[f.Name]; ok {
			picked[f.Name] = v
		}
	}

	// Scalar or opaque upstream outputs flow into a shape that just wants
	// "the input value".
	if len(picked) == 0 && shape.HasField(InputField) {
		picked[InputField] = item
	}

	for _, f := range shape.Fields() {
		if !f.Required {
			continue
		}
		if _, ok := picked[f.Name]; !ok {
			return nil, errors.CoercionFailed(item, fmt.Sprintf("missing required field %q for shape %s", f.Name, shape.Type()))
		}
	}

	target := shape.New()
	if err := element.Decode(picked, target); err != nil {
		return nil, errors.CoercionFailed(item, fmt.Sprintf("cannot build %s", shape.Type())).WithCause(err)
	}
	return target, nil
}

// matchesShape reports whether the record already is an instance of the
// declared input type.
func matchesShape(item any, shape element.Shape) bool {
	t := reflect.TypeOf(item)
	if t == nil {
		return false
	}
	if t == shape.Type() {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Elem() == shape.Type()
}

// AsMap converts an arbitrary record into a keyed map representation.
// Maps pass through (string-keyed maps as-is), structs expose their fields
// by wire name, sequences become positionally-keyed maps with synthetic
// "_0".."_n" keys, and anything else wraps as a single "input" field.
// Strings and byte slices are never treated as sequences.
func AsMap(item any) map[string]any {
	switch v := item.(type) {
	case map[string]any:
		return v
	case string, []byte, nil:
		return map[string]any{InputField: item}
	}

	rv := reflect.ValueOf(item)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return m
	case reflect.Struct:
		return structMap(rv)
	case reflect.Slice, reflect.Array:
		m := make(map[string]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			m[fmt.Sprintf("_%d", i)] = rv.Index(i).Interface()
		}
		return m
	default:
		return map[string]any{InputField: item}
	}
}

func structMap(rv reflect.Value) map[string]any {
	t := rv.Type()
	m := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous {
			for k, v := range structMap(rv.Field(i)) {
				m[k] = v
			}
			continue
		}
		m[element.FieldName(sf)] = rv.Field(i).Interface()
	}
	return m
}
