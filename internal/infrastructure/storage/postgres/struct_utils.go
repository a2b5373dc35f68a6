package postgres

import (
	"reflect"
	"sync"
)

// column describes one db-tagged struct field. Embedded structs are
// flattened when the metadata is built, so index is a full traversal path
// usable with reflect.Value.FieldByIndex.
type column struct {
	name  string
	index []int
}

// columnCache holds per-type column metadata. Reflection runs once per
// type; every later call reuses the cached slice.
var columnCache sync.Map // map[reflect.Type][]column

func columnsOf(t reflect.Type) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}
	cols := walkColumns(t, nil)
	columnCache.Store(t, cols)
	return cols
}

func walkColumns(t reflect.Type, path []int) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		idx := append(append([]int(nil), path...), i)

		// Embedded structs (entity.Base and friends) contribute their
		// columns in place.
		if field.Anonymous {
			cols = append(cols, walkColumns(field.Type, idx)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		cols = append(cols, column{name: tag, index: idx})
	}
	return cols
}

// ExtractDBColumns lists the column names declared through "db" tags on T,
// in declaration order with embedded structs flattened in place.
//
// Usage:
//
//	columns := ExtractDBColumns[product.Product]()
//	// Returns: ["id", "deletion_mark", "created_at", "updated_at", "name", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	cols := columnsOf(reflect.TypeOf(zero))
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap converts a struct to a column map using "db" tags. Fields
// without a tag, or tagged "-", are skipped. Columns named in omit are
// dropped from the result; INSERTs use this to keep generated key columns
// out of the SetMap.
func StructToMap(v any, omit ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	for _, name := range omit {
		delete(res, name)
	}
	return res
}
