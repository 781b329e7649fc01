package typer

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

// indirect follows pointers. The result is invalid for nil.
func indirect(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// elements returns the elements of a synchronous array.
func elements(v any) ([]any, bool) {
	if it, ok := v.(kind.Iterable); ok {
		return slices.Collect(it.All()), true
	}
	rv := indirect(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// field returns the value stored under name in an object, or nil when the
// object has no such key. Struct fields match by name or by json tag.
func field(obj reflect.Value, name string) any {
	switch obj.Kind() {
	case reflect.Map:
		kt := obj.Type().Key()
		if kt.Kind() == reflect.String {
			mv := obj.MapIndex(reflect.ValueOf(name).Convert(kt))
			if !mv.IsValid() {
				return nil
			}
			return mv.Interface()
		}
		iter := obj.MapRange()
		for iter.Next() {
			if fmt.Sprint(iter.Key().Interface()) == name {
				return iter.Value().Interface()
			}
		}
	case reflect.Struct:
		t := obj.Type()
		for i := range t.NumField() {
			sf := t.Field(i)
			if hidden(sf) {
				continue
			}
			if sf.Name == name || jsonName(sf) == name {
				return obj.Field(i).Interface()
			}
		}
	}
	return nil
}

type entry struct {
	key   string
	value any
}

// entries lists the keys of an object as strings, sorted ascending.
func entries(obj reflect.Value) []entry {
	var out []entry
	switch obj.Kind() {
	case reflect.Map:
		iter := obj.MapRange()
		for iter.Next() {
			out = append(out, entry{key: fmt.Sprint(iter.Key().Interface()), value: iter.Value().Interface()})
		}
	case reflect.Struct:
		t := obj.Type()
		for i := range t.NumField() {
			sf := t.Field(i)
			if hidden(sf) {
				continue
			}
			name := sf.Name
			if tag := jsonName(sf); tag != "" {
				name = tag
			}
			out = append(out, entry{key: name, value: obj.Field(i).Interface()})
		}
	}
	slices.SortFunc(out, func(a, b entry) int { return strings.Compare(a.key, b.key) })
	return out
}

// hidden reports whether encoding/json would skip sf.
func hidden(sf reflect.StructField) bool {
	return !sf.IsExported() || sf.Tag.Get("json") == "-"
}

func jsonName(sf reflect.StructField) string {
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	return tag
}
