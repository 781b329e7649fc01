package typer

import (
	"slices"
	"strconv"

	"github.com/mesh-intelligence/kindof/pkg/kind"
)

// Validator checks one value. It returns nil on success and a
// *ValidationError on failure.
type Validator func(v any) error

func expect(want kind.Label) Validator {
	return func(v any) error {
		if got := kind.Of(v); got != want {
			return failf("expected %s, but got %s", want, got)
		}
		return nil
	}
}

// String accepts values of string kind.
func String() Validator { return expect(kind.LabelString) }

// Number accepts every numeric kind.
func Number() Validator { return expect(kind.LabelNumber) }

// Boolean accepts values of bool kind.
func Boolean() Validator { return expect(kind.LabelBoolean) }

// Any accepts every value, including nil.
func Any() Validator {
	return func(any) error { return nil }
}

// Custom accepts the values pred holds for. name appears in the error.
func Custom(name string, pred func(any) bool) Validator {
	return func(v any) error {
		if !pred(v) {
			return failf("expected %s, but got %s", name, kind.Of(v))
		}
		return nil
	}
}

// FieldSpec pairs an object key with its validator.
type FieldSpec struct {
	Name      string
	Validator Validator
}

// Field declares one field for Object.
func Field(name string, v Validator) FieldSpec {
	return FieldSpec{Name: name, Validator: v}
}

// Object accepts objects whose fields satisfy the given validators. Fields
// are checked in the order given and the first failure is returned. Keys not
// named in fields are ignored; a missing key is passed to its validator as
// nil.
func Object(fields ...FieldSpec) Validator {
	return func(v any) error {
		if got := kind.Of(v); got != kind.LabelObject {
			return failf("expected object, but got %s", got)
		}
		obj := indirect(v)
		for _, f := range fields {
			if err := f.Validator(field(obj, f.Name)); err != nil {
				return within(f.Name, err)
			}
		}
		return nil
	}
}

// Array accepts synchronous arrays whose elements all satisfy elem.
func Array(elem Validator) Validator {
	return func(v any) error {
		items, ok := elements(v)
		if !ok {
			return notArray(v)
		}
		for i, item := range items {
			if err := elem(item); err != nil {
				return within(strconv.Itoa(i), err)
			}
		}
		return nil
	}
}

func notArray(v any) error {
	if kind.IsAsyncArray(v) {
		return failf("expected array, but got async array")
	}
	return failf("expected array, but got %s", kind.Of(v))
}

// Tuple accepts arrays with exactly len(types) elements, each satisfying the
// validator at the same position.
func Tuple(types ...Validator) Validator {
	return func(v any) error {
		items, ok := elements(v)
		if !ok {
			return notArray(v)
		}
		if len(items) != len(types) {
			return failf("array length mismatch: expected %d, got %d", len(types), len(items))
		}
		for i, item := range items {
			if err := types[i](item); err != nil {
				return within(strconv.Itoa(i), err)
			}
		}
		return nil
	}
}

// Record accepts objects whose every key satisfies key and every value
// satisfies value. Keys are visited in ascending order; an empty object is
// accepted.
func Record(key, value Validator) Validator {
	return func(v any) error {
		if got := kind.Of(v); got != kind.LabelObject {
			return failf("expected object, but got %s", got)
		}
		for _, e := range entries(indirect(v)) {
			if err := key(e.key); err != nil {
				return within(e.key, err)
			}
			if err := value(e.value); err != nil {
				return within(e.key, err)
			}
		}
		return nil
	}
}

// Enum accepts strings equal to one of values.
func Enum(values ...string) Validator {
	return func(v any) error {
		rv := indirect(v)
		if kind.Of(v) != kind.LabelString || !slices.Contains(values, rv.String()) {
			return failf("value is not a valid enum: %v", v)
		}
		return nil
	}
}

// Or accepts values that satisfy at least one validator. The errors of the
// failing validators are discarded.
func Or(validators ...Validator) Validator {
	return func(v any) error {
		for _, val := range validators {
			if val(v) == nil {
				return nil
			}
		}
		return failf("value does not match any of the validators")
	}
}

// And accepts values that satisfy every validator and returns the first
// failure otherwise.
func And(validators ...Validator) Validator {
	return func(v any) error {
		for _, val := range validators {
			if err := val(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Optional accepts nil and delegates everything else to v. kind.Nil is a
// value, not an absence, and is delegated.
func Optional(val Validator) Validator {
	return func(v any) error {
		if v == nil {
			return nil
		}
		return val(v)
	}
}

// WithTyper adapts val to a predicate. The predicate reports (true, nil) on
// success and (false, err) with the validator's error on failure.
func WithTyper[T any](val Validator) func(T) (bool, error) {
	return func(v T) (bool, error) {
		if err := val(v); err != nil {
			return false, err
		}
		return true, nil
	}
}
