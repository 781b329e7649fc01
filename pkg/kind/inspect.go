package kind

import (
	"math/big"
	"reflect"
)

// facts is everything the predicates need to know about one value.
type facts struct {
	label   Label
	sync    bool // ranged over synchronously
	async   bool // delivered over a channel
	literal bool // underlying kind is slice
	length  int  // element count for arrays
	keys    int  // key count for objects
}

// maxDepth bounds how many pointers inspect follows. Longer chains,
// including pointer cycles, classify as objects.
const maxDepth = 64

func inspect(v any) facts {
	for range maxDepth {
		f, next, done := inspectOne(v)
		if done {
			return f
		}
		v = next
	}
	return facts{label: LabelObject}
}

// inspectOne classifies v, or returns the pointee to classify instead when
// v is a pointer with nothing of its own to report.
func inspectOne(v any) (facts, any, bool) {
	if v == nil {
		return facts{label: LabelUndefined}, nil, true
	}
	switch v.(type) {
	case Null:
		return facts{label: LabelNull}, nil, true
	case Symbol:
		return facts{label: LabelSymbol}, nil, true
	case big.Int:
		return facts{label: LabelBigInt}, nil, true
	case big.Float, big.Rat:
		return facts{label: LabelNumber}, nil, true
	}

	rv := reflect.ValueOf(v)
	if isNilRef(rv) {
		return facts{label: LabelNull}, nil, true
	}

	switch v.(type) {
	case *big.Int:
		return facts{label: LabelBigInt}, nil, true
	case *big.Float, *big.Rat:
		return facts{label: LabelNumber}, nil, true
	}

	if _, ok := v.(Constructor); ok {
		return facts{label: LabelClass}, nil, true
	}
	// Methods promoted through a pointer do not make a string iterable.
	if baseKind(rv) != reflect.String {
		if f, ok := inspectIterable(v, rv); ok {
			return f, nil, true
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return facts{label: LabelBoolean}, nil, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return facts{label: LabelNumber}, nil, true
	case reflect.String:
		return facts{label: LabelString, length: rv.Len()}, nil, true
	case reflect.Func:
		return facts{label: LabelFunction}, nil, true
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			return facts{label: LabelObject}, nil, true
		}
		return facts{label: LabelArray, async: true, length: rv.Len()}, nil, true
	case reflect.Slice:
		return facts{label: LabelArray, sync: true, literal: true, length: rv.Len()}, nil, true
	case reflect.Array:
		return facts{label: LabelArray, sync: true, length: rv.Len()}, nil, true
	case reflect.Map:
		return facts{label: LabelObject, keys: rv.Len()}, nil, true
	case reflect.Struct:
		return facts{label: LabelObject, keys: exportedFields(rv.Type())}, nil, true
	case reflect.Pointer:
		return facts{}, rv.Elem().Interface(), false
	default:
		return facts{label: LabelObject}, nil, true
	}
}

// baseKind follows non-nil pointers and interfaces from rv, at most
// maxDepth steps, and returns the kind it stops at.
func baseKind(rv reflect.Value) reflect.Kind {
	for range maxDepth {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return rv.Kind()
			}
			rv = rv.Elem()
		default:
			return rv.Kind()
		}
	}
	return rv.Kind()
}

// inspectIterable reports the facts for values implementing Iterable or
// AsyncIterable.
func inspectIterable(v any, rv reflect.Value) (facts, bool) {
	it, isSync := v.(Iterable)
	ait, isAsync := v.(AsyncIterable)
	if !isSync && !isAsync {
		return facts{}, false
	}
	f := facts{
		label:   LabelArray,
		sync:    isSync || rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array,
		async:   isAsync,
		literal: rv.Kind() == reflect.Slice,
	}
	if isSync {
		f.length = it.Len()
	} else {
		f.length = ait.Len()
	}
	return f, true
}

// isNilRef reports whether rv is a nil reference. Nil slices are not
// included: they are empty arrays.
func isNilRef(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func exportedFields(t reflect.Type) int {
	n := 0
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			n++
		}
	}
	return n
}
