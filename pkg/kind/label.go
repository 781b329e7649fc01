package kind

import (
	"errors"
	"fmt"
	"slices"
)

// Label is the finest-grained classification Of returns.
type Label string

// Labels returned by Of.
const (
	LabelUndefined Label = "undefined"
	LabelNull      Label = "null"
	LabelBoolean   Label = "boolean"
	LabelNumber    Label = "number"
	LabelString    Label = "string"
	LabelBigInt    Label = "bigint"
	LabelSymbol    Label = "symbol"
	LabelFunction  Label = "function"
	LabelClass     Label = "class"
	LabelObject    Label = "object"
	LabelArray     Label = "array"
)

// ErrUnknownLabel is returned by ParseLabel for names outside the closed set.
var ErrUnknownLabel = errors.New("unknown label")

var labels = []Label{
	LabelUndefined,
	LabelNull,
	LabelBoolean,
	LabelNumber,
	LabelString,
	LabelBigInt,
	LabelSymbol,
	LabelFunction,
	LabelClass,
	LabelObject,
	LabelArray,
}

// Labels returns every label in declaration order.
func Labels() []Label {
	return slices.Clone(labels)
}

// Valid reports whether l is one of the declared labels.
func (l Label) Valid() bool {
	return slices.Contains(labels, l)
}

func (l Label) String() string {
	return string(l)
}

// ParseLabel converts a label name to a Label.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return l, nil
}

// Of returns the label of v. It refines the object case into null, array
// and object, and the func case into class and function.
func Of(v any) Label {
	return inspect(v).label
}
