package elements

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kbukum/conduit/element"
)

// extractPath resolves a dot-notation path against a record: numeric parts
// index sequences, named parts look up map keys or struct fields. An empty
// path resolves to the record itself.
func extractPath(obj any, path string) (any, error) {
	if path == "" {
		return obj, nil
	}
	current := obj
	for _, part := range strings.Split(path, ".") {
		next, err := extractPart(current, part)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve %q in path %q: %w", part, path, err)
		}
		current = next
	}
	return current, nil
}

func extractPart(obj any, part string) (any, error) {
	if idx, err := strconv.Atoi(part); err == nil {
		rv := reflect.ValueOf(obj)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("cannot index %T", obj)
		}
		if idx < 0 || idx >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range (len %d)", idx, rv.Len())
		}
		return rv.Index(idx).Interface(), nil
	}

	if m, ok := obj.(map[string]any); ok {
		v, ok := m[part]
		if !ok {
			return nil, fmt.Errorf("no key %q", part)
		}
		return v, nil
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		v := rv.MapIndex(reflect.ValueOf(part))
		if !v.IsValid() {
			return nil, fmt.Errorf("no key %q", part)
		}
		return v.Interface(), nil
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			if element.FieldName(sf) == part || sf.Name == part {
				return rv.Field(i).Interface(), nil
			}
		}
		return nil, fmt.Errorf("no field %q on %s", part, t)
	default:
		return nil, fmt.Errorf("cannot access %q on %T", part, obj)
	}
}
