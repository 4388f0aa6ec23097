package rbind

import (
	"errors"

	"github.com/gordian-engine/ripple"
)

// Bound is a registry value tracked for the lifetime of a [Scope].
type Bound[T any] struct {
	state    T
	rebuilds int
}

// Use subscribes to reg for the lifetime of s.
//
// The returned Bound starts with reg's stored value.
// Every publish to reg updates the Bound's state and then calls rebuild,
// which may be nil.
// The subscription is removed when s is disposed,
// and rebuild is never called after Dispose returns.
//
// Use panics if s is already disposed.
func Use[T any](s *Scope, reg *ripple.Registry[T], rebuild func(T)) *Bound[T] {
	if s.Disposed() {
		panic(errors.New("BUG: Use called on disposed scope"))
	}

	b := &Bound[T]{
		state: reg.Value(),
	}

	sub := reg.Subscribe(func(current, _ T) {
		b.state = current
		b.rebuilds++
		if rebuild != nil {
			rebuild(current)
		}
	})
	s.OnDispose(sub.Unsubscribe)

	return b
}

// State returns the most recent value the scope was notified of.
func (b *Bound[T]) State() T {
	return b.state
}

// Rebuilds returns how many notifications the scope has received.
func (b *Bound[T]) Rebuilds() int {
	return b.rebuilds
}
