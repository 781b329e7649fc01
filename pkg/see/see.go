package see

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Predicate checks a value. It passes only when it returns (true, nil).
type Predicate[T any] func(T) (bool, error)

// AsyncPredicate is a Predicate that may block; it should return when ctx
// is done.
type AsyncPredicate[T any] func(context.Context, T) (bool, error)

// Transform maps a value to a new one.
type Transform[T, U any] func(T) (U, error)

// AsyncTransform is a Transform that may block.
type AsyncTransform[T, U any] func(context.Context, T) (U, error)

// See is one pipeline over one value.
type See[T any] struct {
	maker *Maker
	value T
	err   error
}

// From starts a pipeline over v configured by m.
func From[T any](m *Maker, v T) *See[T] {
	if m == nil {
		m = NewMaker()
	}
	return &See[T]{maker: m, value: v}
}

// New starts a pipeline over v with its own Maker.
func New[T any](v T, opts ...Option) *See[T] {
	return From(NewMaker(opts...), v)
}

// Raw returns the value, whatever the state of the pipeline.
func (s *See[T]) Raw() T {
	return s.value
}

// Err returns the stored failure, or nil while the pipeline is alive.
func (s *See[T]) Err() error {
	return s.err
}

// Failed reports whether a step has failed.
func (s *See[T]) Failed() bool {
	return s.err != nil
}

// Value returns the value and the stored failure.
func (s *See[T]) Value() (T, error) {
	return s.value, s.err
}

// Check runs pred against the value. A false result, an error or a panic
// fails the pipeline. The value is never changed.
func (s *See[T]) Check(pred Predicate[T]) *See[T] {
	if s.err != nil {
		return s
	}
	ok, err := callPredicate(pred, s.value)
	s.settle("check", ok, err)
	return s
}

// CheckAsync runs pred on its own goroutine and waits for it or for ctx.
// If ctx is done first the pipeline fails with ctx.Err().
func (s *See[T]) CheckAsync(ctx context.Context, pred AsyncPredicate[T]) *See[T] {
	if s.err != nil {
		return s
	}
	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := callPredicate(func(v T) (bool, error) { return pred(ctx, v) }, s.value)
		done <- result{ok, err}
	}()
	select {
	case r := <-done:
		s.settle("checkAsync", r.ok, r.err)
	case <-ctx.Done():
		s.err = s.maker.fail("checkAsync", s.value, ctx.Err())
	}
	return s
}

// CheckAll runs every predicate concurrently. The first failure cancels the
// context passed to the others and fails the pipeline.
func (s *See[T]) CheckAll(ctx context.Context, preds ...AsyncPredicate[T]) *See[T] {
	if s.err != nil {
		return s
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, pred := range preds {
		g.Go(func() error {
			ok, err := callPredicate(func(v T) (bool, error) { return pred(gctx, v) }, s.value)
			if err != nil {
				return err
			}
			if !ok {
				return &TypeError{Value: s.value}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.err = s.maker.fail("checkAll", s.value, err)
	}
	return s
}

func (s *See[T]) settle(step string, ok bool, err error) {
	switch {
	case err != nil:
		s.err = s.maker.fail(step, s.value, err)
	case !ok:
		s.err = s.maker.fail(step, s.value, &TypeError{Value: s.value})
	}
}

// Into applies fn and starts a new pipeline over the result with the same
// Maker. If s has failed, fn is not called and the new pipeline carries the
// same failure.
func Into[T, U any](s *See[T], fn Transform[T, U]) *See[U] {
	next := &See[U]{maker: s.maker}
	if s.err != nil {
		next.err = s.err
		return next
	}
	v, err := callTransform(fn, s.value)
	if err != nil {
		next.err = s.maker.fail("into", s.value, err)
		return next
	}
	next.value = v
	return next
}

// IntoAsync is Into for a transform that may block. It waits for fn or for
// ctx, whichever finishes first.
func IntoAsync[T, U any](ctx context.Context, s *See[T], fn AsyncTransform[T, U]) *See[U] {
	next := &See[U]{maker: s.maker}
	if s.err != nil {
		next.err = s.err
		return next
	}
	type result struct {
		v   U
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := callTransform(func(v T) (U, error) { return fn(ctx, v) }, s.value)
		done <- result{v, err}
	}()
	select {
	case r := <-done:
		if r.err != nil {
			next.err = s.maker.fail("intoAsync", s.value, r.err)
			return next
		}
		next.value = r.v
	case <-ctx.Done():
		next.err = s.maker.fail("intoAsync", s.value, ctx.Err())
	}
	return next
}

func callPredicate[T any](pred func(T) (bool, error), v T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("predicate panicked: %v", r)
		}
	}()
	return pred(v)
}

func callTransform[T, U any](fn func(T) (U, error), v T) (out U, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panicked: %v", r)
		}
	}()
	return fn(v)
}
