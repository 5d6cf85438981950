package clasp

import (
	"fmt"
	"reflect"
)

// Bind copies resolved values into a struct by `clasp:"id"` field tags.
// Untagged fields fall back to the lowercased field name. Supported field
// types are string, bool, int64, int, float64, []string and any; a resolved
// identifier with no matching field is simply skipped.
func (r *ResolvedValues) Bind(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("clasp: bind target must be a pointer to struct, got %T", target)
	}
	sv := rv.Elem()
	st := sv.Type()

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}
		id := field.Tag.Get("clasp")
		if id == "-" {
			continue
		}
		if id == "" {
			id = lowerFirst(field.Name)
		}
		val, ok := r.Get(id)
		if !ok {
			continue
		}
		if err := setField(sv.Field(i), field.Name, val); err != nil {
			return err
		}
	}
	return nil
}

func setField(fv reflect.Value, name string, val any) error {
	switch fv.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			fv.SetString(s)
			return nil
		}
	case reflect.Bool:
		if b, ok := val.(bool); ok {
			fv.SetBool(b)
			return nil
		}
	case reflect.Int, reflect.Int64:
		if n, ok := val.(int64); ok {
			fv.SetInt(n)
			return nil
		}
	case reflect.Float64:
		if f, ok := val.(float64); ok {
			fv.SetFloat(f)
			return nil
		}
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.String {
			if vs, ok := val.([]any); ok {
				out := make([]string, 0, len(vs))
				for _, v := range vs {
					s, ok := v.(string)
					if !ok {
						return fmt.Errorf("clasp: field %s: element %T is not a string", name, v)
					}
					out = append(out, s)
				}
				fv.Set(reflect.ValueOf(out))
				return nil
			}
		}
	case reflect.Interface:
		fv.Set(reflect.ValueOf(val))
		return nil
	}
	return fmt.Errorf("clasp: cannot assign %T to field %s (%s)", val, name, fv.Type())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
