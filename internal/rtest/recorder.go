package rtest

// Observation is one handler invocation.
type Observation[T any] struct {
	Current, Previous T
}

// Recorder collects every invocation of its Handle method.
type Recorder[T any] struct {
	Observations []Observation[T]

	// OnHandle, if set, runs after the observation is recorded.
	OnHandle func(current, previous T)
}

// Handle records the call.
// Its signature matches ripple.Handler, so r.Handle can be subscribed directly.
func (r *Recorder[T]) Handle(current, previous T) {
	r.Observations = append(r.Observations, Observation[T]{
		Current:  current,
		Previous: previous,
	})

	if r.OnHandle != nil {
		r.OnHandle(current, previous)
	}
}

// Currents returns the current values observed, in order.
func (r *Recorder[T]) Currents() []T {
	out := make([]T, len(r.Observations))
	for i, o := range r.Observations {
		out[i] = o.Current
	}
	return out
}

// Previouses returns the previous values observed, in order.
func (r *Recorder[T]) Previouses() []T {
	out := make([]T, len(r.Observations))
	for i, o := range r.Observations {
		out[i] = o.Previous
	}
	return out
}

// Calls returns how many times Handle was called.
func (r *Recorder[T]) Calls() int {
	return len(r.Observations)
}
