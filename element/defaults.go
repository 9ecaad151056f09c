package element

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Defaults is an element's per-instance default-parameter table, captured
// once at construction from the resolved configuration. It models global
// configuration with per-datum override: construction parameters are
// defaults, and unset per-item fields fall back to them.
type Defaults map[string]any

// DefaultsOf captures the defaults table from a configuration struct.
func DefaultsOf(cfg any) Defaults {
	var m map[string]any
	if err := Decode(cfg, &m); err != nil {
		return Defaults{}
	}
	return Defaults(m)
}

// Get returns the default for a parameter name.
func (d Defaults) Get(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// Apply fills unset fields of item (a pointer to a per-item input struct)
// from the defaults table. A field is unset when it is a nil pointer, nil
// interface, or nil map/slice; value-typed fields are left untouched.
func (d Defaults) Apply(item any) {
	if len(d) == 0 || item == nil {
		return
	}
	v := reflect.ValueOf(item)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return
	}
	sv := v.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		fv := sv.Field(i)
		if !unset(fv) {
			continue
		}
		def, ok := d[FieldName(sf)]
		if !ok || def == nil {
			continue
		}
		setField(fv, def)
	}
}

func unset(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func setField(fv reflect.Value, def any) {
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		if Decode(def, p.Interface()) == nil {
			fv.Set(p)
		}
		return
	}
	p := reflect.New(fv.Type())
	if Decode(def, p.Interface()) == nil {
		fv.Set(p.Elem())
	}
}

// Decode decodes source into target with weak typing, so YAML/JSON numeric
// and string variants bind cleanly.
func Decode(source, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(source)
}
