package kind

import (
	"context"
	"iter"
)

// Iterable is implemented by containers that can be ranged over
// synchronously. Values implementing it classify as arrays.
type Iterable interface {
	Len() int
	All() iter.Seq[any]
}

// AsyncIterable is implemented by containers that deliver their elements
// over a channel. Values implementing it classify as async arrays.
type AsyncIterable interface {
	Len() int
	Stream(ctx context.Context) <-chan any
}

// Constructor marks a value as a class: something that builds instances.
type Constructor interface {
	New() any
}

// ConstructorFunc declares a plain func as a class.
type ConstructorFunc func() any

// New calls f.
func (f ConstructorFunc) New() any {
	return f()
}

type class[T any] struct{}

func (class[T]) New() any {
	return new(T)
}

// ClassOf returns a Constructor that allocates a new *T on each call.
func ClassOf[T any]() Constructor {
	return class[T]{}
}

// Primitive is implemented by values that unwrap to a primitive. NewRef
// returns the result of Primitive instead of the value itself.
type Primitive interface {
	Primitive() any
}
