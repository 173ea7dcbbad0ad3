package postgres

import (
	"reflect"
	"sync"
)

// Columns returns the "db" tagged column names of T in field order,
// descending into embedded structs such as entity.Catalog.
//
//	cols := Columns[item.Item]()
//	// ["id", "version", "created_at", "updated_at", "name", "disabled", "item_name", ...]
func Columns[T any]() []string {
	var zero T
	return fieldsOf(reflect.TypeOf(zero)).columns()
}

type column struct {
	path []int
	name string
}

type columnSet []column

func (s columnSet) columns() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.name
	}
	return out
}

// Reflection results per struct type.
var columnCache sync.Map // map[reflect.Type]columnSet

func fieldsOf(t reflect.Type) columnSet {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.(columnSet)
	}

	var set columnSet
	if t.Kind() == reflect.Struct {
		set = collect(t, nil)
	}
	columnCache.Store(t, set)
	return set
}

func collect(t reflect.Type, prefix []int) columnSet {
	var set columnSet
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			set = append(set, collect(f.Type, path)...)
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		set = append(set, column{path: path, name: tag})
	}
	return set
}

// ToRow maps the "db" tagged fields of v to column values. Fields tagged
// "-" are skipped. When only is non-empty the result is restricted to those
// columns.
func ToRow(v any, only ...string) map[string]any {
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

	var keep map[string]struct{}
	if len(only) > 0 {
		keep = make(map[string]struct{}, len(only))
		for _, c := range only {
			keep[c] = struct{}{}
		}
	}

	set := fieldsOf(rv.Type())
	row := make(map[string]any, len(set))
	for _, c := range set {
		if keep != nil {
			if _, ok := keep[c.name]; !ok {
				continue
			}
		}
		row[c.name] = rv.FieldByIndex(c.path).Interface()
	}
	return row
}
