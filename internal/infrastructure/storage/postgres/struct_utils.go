package postgres

import (
	"reflect"
	"sync"
	"time"
)

// column is a "db"-tagged field reached through an index path, so fields of
// embedded structs are addressed directly.
type column struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []column

func columnsOf(t reflect.Type) []column {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}
	var cols []column
	if t.Kind() == reflect.Struct {
		cols = walkColumns(t, nil)
	}
	columnCache.Store(t, cols)
	return cols
}

// walkColumns keeps declaration order and inlines embedded structs where they
// appear. Untagged and "-" fields are skipped, which keeps relation slices out.
func walkColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			cols = append(cols, walkColumns(f.Type, path)...)
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, column{name: tag, index: path})
	}
	return cols
}

// ExtractDBColumns lists the "db" column names of T in declaration order.
// Repositories call it once per type at package init.
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap converts a struct (or pointer to one) to a column map keyed by
// "db" tags. Anything else yields nil.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
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
	return res
}

// Timestamp columns maintained by the repositories.
const (
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)

// InsertMap is StructToMap with zero created_at and updated_at replaced by now.
func InsertMap(v any, now time.Time) map[string]any {
	data := StructToMap(v)
	for _, col := range []string{ColCreatedAt, ColUpdatedAt} {
		if ts, ok := data[col].(time.Time); ok && ts.IsZero() {
			data[col] = now
		}
	}
	return data
}

// UpdateMap is StructToMap without the immutable id and the timestamps; the
// caller sets updated_at itself.
func UpdateMap(v any) map[string]any {
	data := StructToMap(v)
	delete(data, "id")
	delete(data, ColCreatedAt)
	delete(data, ColUpdatedAt)
	return data
}
