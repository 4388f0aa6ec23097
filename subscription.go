package ripple

// Subscription is returned from [*Registry.Subscribe].
// Calling its Unsubscribe method removes exactly one subscriber.
type Subscription struct {
	// unlink is cleared on first use,
	// which makes every later Unsubscribe a no-op.
	unlink func()
}

// Unsubscribe removes the subscriber from its registry in constant time.
//
// It is safe to call from inside a handler, including the handler being removed.
// If the removed subscriber had not yet been reached by an in-progress publish,
// that publish will not call it.
//
// Calling Unsubscribe more than once, or on a nil Subscription, has no effect.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.unlink == nil {
		return
	}

	s.unlink()
	s.unlink = nil
}

// Active reports whether Unsubscribe has not yet been called.
func (s *Subscription) Active() bool {
	return s != nil && s.unlink != nil
}

// Notifier is the subset of [*Registry] needed by code
// that reacts to changes without caring about the published type.
type Notifier interface {
	Notify(fn func()) *Subscription
}

var _ Notifier = (*Registry[int])(nil)
