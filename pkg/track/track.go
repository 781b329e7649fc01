// Package track holds a single value and notifies listeners when it is set.
//
// Listeners are compared by pointer: register a *Listener and keep it to
// remove it later. The same Listener may be registered more than once and
// is then called once per registration.
package track

import "sync"

// Listener receives every value passed to Set after it is registered.
type Listener[T any] struct {
	fn func(T)
}

// registration is one entry in the listener registry. While Observe is
// delivering the current value, values from concurrent or re-entrant Set
// calls queue in backlog and are delivered after it, in order.
type registration[T any] struct {
	l *Listener[T]

	mu      sync.Mutex
	pending bool
	backlog []T
}

func (r *registration[T]) deliver(v T) {
	r.mu.Lock()
	if r.pending {
		r.backlog = append(r.backlog, v)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.l.fn(v)
}

// drain delivers queued values until none are left, then lets Set deliver
// directly.
func (r *registration[T]) drain() {
	for {
		r.mu.Lock()
		queued := r.backlog
		r.backlog = nil
		if len(queued) == 0 {
			r.pending = false
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
		for _, v := range queued {
			r.l.fn(v)
		}
	}
}

// NewListener wraps fn.
func NewListener[T any](fn func(T)) *Listener[T] {
	return &Listener[T]{fn: fn}
}

// Option configures a Track.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity limits the number of registrations. Registrations beyond n
// are dropped without error. n <= 0 means unlimited.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// Track is a value with listeners. It is safe for concurrent use;
// listeners run outside the lock, on the goroutine that calls Set or, for
// values that arrive while Observe is delivering, on the Observe goroutine.
type Track[T any] struct {
	mu        sync.Mutex
	value     T
	listeners []*registration[T]
	capacity  int
}

// New returns a Track holding v.
func New[T any](v T, opts ...Option) *Track[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 0 {
		o.capacity = 0
	}
	return &Track[T]{value: v, capacity: o.capacity}
}

// Value returns the current value.
func (t *Track[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Set stores v and calls every listener with it in registration order.
// Listeners are called even if v equals the previous value.
func (t *Track[T]) Set(v T) {
	t.mu.Lock()
	t.value = v
	snapshot := make([]*registration[T], len(t.listeners))
	copy(snapshot, t.listeners)
	t.mu.Unlock()

	for _, r := range snapshot {
		r.deliver(v)
	}
}

// Watch registers l for future values. It reports whether l was
// registered.
func (t *Track[T]) Watch(l *Listener[T]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.add(l, false) != nil
}

// Observe calls l with the current value and registers it for future
// values. Values set while the first call runs are delivered after it, so
// l never sees a value older than one it has already seen from the same
// Set goroutine. Nothing happens if the Track is saturated.
func (t *Track[T]) Observe(l *Listener[T]) bool {
	t.mu.Lock()
	r := t.add(l, true)
	if r == nil {
		t.mu.Unlock()
		return false
	}
	v := t.value
	t.mu.Unlock()

	l.fn(v)
	r.drain()
	return true
}

func (t *Track[T]) add(l *Listener[T], pending bool) *registration[T] {
	if l == nil || l.fn == nil || t.saturated() {
		return nil
	}
	r := &registration[T]{l: l, pending: pending}
	t.listeners = append(t.listeners, r)
	return r
}

// Has reports whether l is registered.
func (t *Track[T]) Has(l *Listener[T]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.listeners {
		if r.l == l {
			return true
		}
	}
	return false
}

// Remove drops every registration of l and returns how many were dropped.
func (t *Track[T]) Remove(l *Listener[T]) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.listeners[:0]
	for _, r := range t.listeners {
		if r.l != l {
			kept = append(kept, r)
		}
	}
	removed := len(t.listeners) - len(kept)
	clear(t.listeners[len(kept):])
	t.listeners = kept
	return removed
}

// RemoveAll drops every registration.
func (t *Track[T]) RemoveAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = nil
}

// Len returns the number of registrations.
func (t *Track[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// Cap returns the registration limit, 0 when unlimited.
func (t *Track[T]) Cap() int {
	return t.capacity
}

// Saturated reports whether further registrations will be dropped.
func (t *Track[T]) Saturated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saturated()
}

func (t *Track[T]) saturated() bool {
	return t.capacity > 0 && len(t.listeners) >= t.capacity
}
