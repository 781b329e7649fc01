// Reference helpers: identity comparison and shallow copies.

package kind

import (
	"math"
	"math/big"
	"reflect"
)

// RefEqual reports whether a and b are the same reference. Pointers, maps,
// channels, funcs and slices compare by identity, so two distinct maps with
// identical contents are not equal. Floats follow same-value semantics: NaN
// equals NaN and +0 differs from -0. Other comparable values compare with ==.
//
// Func identity is the code pointer; two closures built from the same
// literal compare equal.
//
// Non-nil slices with zero capacity and pointers to zero-size values have
// no storage to identify them and never compare equal, not even to
// themselves. Two nil slices or nil pointers of the same type are equal.
func RefEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer:
		if zeroSized(ra) || zeroSized(rb) {
			return false
		}
		return ra.Pointer() == rb.Pointer()
	case reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		if zeroSized(ra) || zeroSized(rb) {
			return false
		}
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len() && ra.Cap() == rb.Cap()
	case reflect.Float32, reflect.Float64:
		return sameFloat(ra.Float(), rb.Float())
	case reflect.Complex64, reflect.Complex128:
		x, y := ra.Complex(), rb.Complex()
		return sameFloat(real(x), real(y)) && sameFloat(imag(x), imag(y))
	}
	if ra.Comparable() && rb.Comparable() {
		return ra.Equal(rb)
	}
	return false
}

// zeroSized reports whether rv is a non-nil pointer or slice without
// storage of its own. Go may place every zero-size allocation at the same
// address, so such values carry no identity.
func zeroSized(rv reflect.Value) bool {
	if rv.IsNil() {
		return false
	}
	if rv.Kind() == reflect.Slice && rv.Cap() == 0 {
		return true
	}
	return rv.Type().Elem().Size() == 0
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	return x == y && math.Signbit(x) == math.Signbit(y)
}

// NewRef returns a shallow copy of v that shares no top-level storage with
// it.
//
// Slices and maps get a fresh backing store, structs are copied, and
// pointers to objects or slices are copied into a new allocation. Extended
// arrays, channels, functions, classes, symbols, big integers and nullish
// values are returned unchanged. Other primitives are unwrapped: through
// Primitive when implemented, otherwise converted to their underlying
// predeclared type.
func NewRef(v any) any {
	f := inspect(v)
	switch f.label {
	case LabelUndefined, LabelNull, LabelFunction, LabelClass, LabelSymbol, LabelBigInt:
		return v
	case LabelArray:
		if !f.literal {
			return v
		}
		return shallowCopy(reflect.ValueOf(v), 0).Interface()
	case LabelObject:
		return shallowCopy(reflect.ValueOf(v), 0).Interface()
	}
	return unwrapPrimitive(v)
}

// shallowCopy copies rv one level deep. Pointer chains are copied up to
// maxDepth links; past that the remaining pointer is shared.
func shallowCopy(rv reflect.Value, depth int) reflect.Value {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() || depth >= maxDepth {
			return rv
		}
		p := reflect.New(rv.Type().Elem())
		p.Elem().Set(shallowCopy(rv.Elem(), depth+1))
		return p
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		s := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(s, rv)
		return s
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		m := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), iter.Value())
		}
		return m
	default:
		c := reflect.New(rv.Type()).Elem()
		c.Set(rv)
		return c
	}
}

var predeclared = map[reflect.Kind]reflect.Type{
	reflect.Bool:       reflect.TypeFor[bool](),
	reflect.Int:        reflect.TypeFor[int](),
	reflect.Int8:       reflect.TypeFor[int8](),
	reflect.Int16:      reflect.TypeFor[int16](),
	reflect.Int32:      reflect.TypeFor[int32](),
	reflect.Int64:      reflect.TypeFor[int64](),
	reflect.Uint:       reflect.TypeFor[uint](),
	reflect.Uint8:      reflect.TypeFor[uint8](),
	reflect.Uint16:     reflect.TypeFor[uint16](),
	reflect.Uint32:     reflect.TypeFor[uint32](),
	reflect.Uint64:     reflect.TypeFor[uint64](),
	reflect.Uintptr:    reflect.TypeFor[uintptr](),
	reflect.Float32:    reflect.TypeFor[float32](),
	reflect.Float64:    reflect.TypeFor[float64](),
	reflect.Complex64:  reflect.TypeFor[complex64](),
	reflect.Complex128: reflect.TypeFor[complex128](),
	reflect.String:     reflect.TypeFor[string](),
}

func unwrapPrimitive(v any) any {
	if p, ok := v.(Primitive); ok {
		return p.Primitive()
	}
	switch v.(type) {
	case big.Float, *big.Float, big.Rat, *big.Rat:
		return v
	}
	rv := reflect.ValueOf(v)
	for i := 0; rv.Kind() == reflect.Pointer && i < maxDepth; i++ {
		rv = rv.Elem()
	}
	if p, ok := rv.Interface().(Primitive); ok {
		return p.Primitive()
	}
	if t, ok := predeclared[rv.Kind()]; ok && rv.Type() != t {
		return rv.Convert(t).Interface()
	}
	return rv.Interface()
}
