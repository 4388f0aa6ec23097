package rbind

import "errors"

// Scope is a lifecycle that ends with [*Scope.Dispose].
// Scope is not safe for concurrent use.
type Scope struct {
	onDispose []func()
	disposed  bool
}

// NewScope returns a mounted scope.
func NewScope() *Scope {
	return new(Scope)
}

// OnDispose registers fn to run when the scope is disposed.
// Functions run in the reverse order of registration.
//
// OnDispose panics if the scope is already disposed.
func (s *Scope) OnDispose(fn func()) {
	if s.disposed {
		panic(errors.New("BUG: OnDispose called on disposed scope"))
	}
	s.onDispose = append(s.onDispose, fn)
}

// Dispose runs the registered dispose functions.
// Calling Dispose more than once has no effect.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	for i := len(s.onDispose) - 1; i >= 0; i-- {
		s.onDispose[i]()
	}
	s.onDispose = nil
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	return s.disposed
}
