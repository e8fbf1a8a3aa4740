package postgres

import (
	"reflect"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// Embedded structs are walked recursively; fields tagged "-" are skipped.
// It is called once per repository at construction time.
//
// Usage:
//
//	columns := ExtractDBColumns[catalog_repo.unitRow]()
//	// Returns: ["id", "code", "name_ar", "name_en", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return extractColumnsFromType(reflect.TypeOf(zero))
}

func extractColumnsFromType(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}

	return cols
}

// StructToMap returns column -> value for every "db"-tagged field of v.
// v must be a struct or a pointer to one.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]any, rv.NumField())
	collectColumns(rv, out)
	return out
}

func collectColumns(rv reflect.Value, out map[string]any) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			fv := rv.Field(i)
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				collectColumns(fv, out)
			}
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" || !field.IsExported() {
			continue
		}
		out[tag] = rv.Field(i).Interface()
	}
}
