package ripple

import (
	"errors"
	"log/slog"

	"github.com/fogfish/opts"
)

// Handler is called for every publish with the newly published value
// and the value that was stored immediately before that publish.
type Handler[T any] func(current, previous T)

// Registry holds a value and synchronously notifies its subscribers
// every time a new value is published.
//
// Subscribers are notified in subscription order.
// A subscriber may publish again while it is being notified;
// the inner publish starts a fresh traversal from the first subscriber,
// and the outer publish stops as soon as control returns to it,
// so that no subscriber observes a stale value after a newer one.
//
// Registry is not safe for concurrent use.
// All calls must happen on a single goroutine.
type Registry[T any] struct {
	log *slog.Logger

	// head is the sentinel; it never carries a handler
	// and is never removed.
	head node[T]

	stored    T
	hasStored bool

	// gen identifies the stored value.
	// It changes on every Publish, even when the same value is published twice.
	gen uint64
}

// node is one entry in the subscriber list.
type node[T any] struct {
	// handler is nil for the sentinel and for removed nodes.
	handler Handler[T]

	prev, next *node[T]
}

// Config is the configuration for [New].
// It is normally populated through options such as [WithSeed] and [WithLogger].
type Config[T any] struct {
	Log *slog.Logger

	Seed    T
	HasSeed bool
}

// WithSeed sets the initial stored value of the registry.
func WithSeed[T any](seed T) opts.Option[Config[T]] {
	return opts.Type[Config[T]](func(c *Config[T]) error {
		c.Seed = seed
		c.HasSeed = true
		return nil
	})
}

// WithLogger sets the logger used for debug output.
// Without this option, log output is discarded.
func WithLogger[T any](log *slog.Logger) opts.Option[Config[T]] {
	return opts.Type[Config[T]](func(c *Config[T]) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		c.Log = log
		return nil
	})
}

// New returns a new Registry configured by the given options.
//
// Without [WithSeed], the registry has no stored value until the first publish:
// [*Registry.Value] returns the zero value and [*Registry.Load] reports false.
//
// New panics if any option fails to apply.
func New[T any](options ...opts.Option[Config[T]]) *Registry[T] {
	var cfg Config[T]
	if err := opts.Apply(&cfg, options); err != nil {
		panic(err)
	}

	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Registry[T]{
		log: log,

		stored:    cfg.Seed,
		hasStored: cfg.HasSeed,
	}
}

// NewSeeded is shorthand for New with [WithSeed].
func NewSeeded[T any](seed T, options ...opts.Option[Config[T]]) *Registry[T] {
	return New(append([]opts.Option[Config[T]]{WithSeed(seed)}, options...)...)
}

// Subscribe appends h to the end of the subscriber list.
//
// The same handler may be subscribed more than once;
// each call produces an independent subscription.
//
// Subscribing is safe while a publish is in progress,
// but whether that publish reaches the new subscriber is unspecified.
//
// Subscribe panics if h is nil.
func (r *Registry[T]) Subscribe(h Handler[T]) *Subscription {
	if h == nil {
		panic(errors.New("BUG: Subscribe called with nil handler"))
	}

	tail := &r.head
	for tail.next != nil {
		tail = tail.next
	}

	n := &node[T]{
		handler: h,
		prev:    tail,
	}
	tail.next = n

	return &Subscription{unlink: n.unlink}
}

// Notify subscribes fn, discarding the published values.
// It satisfies [Notifier].
func (r *Registry[T]) Notify(fn func()) *Subscription {
	if fn == nil {
		panic(errors.New("BUG: Notify called with nil function"))
	}
	return r.Subscribe(func(T, T) { fn() })
}

// Publish stores v and then calls every subscriber with v
// and the value stored before this call.
//
// The new value is stored before the first subscriber runs,
// so subscribers reading [*Registry.Value] observe v.
//
// If a subscriber publishes again, directly or through other registries,
// this call returns as soon as that subscriber returns,
// without notifying the remaining subscribers;
// the nested publish has already notified them of the newer value.
//
// Every nested publish interrupts the outer one,
// including a nested publish of a value equal to the one being delivered:
// interruption tracks publish calls, not value equality.
//
// A panicking subscriber is not recovered.
// The panic reaches the caller with the subscriber list unchanged.
func (r *Registry[T]) Publish(v T) {
	previous := r.stored

	r.stored = v
	r.hasStored = true
	r.gen++
	gen := r.gen

	for n := r.head.next; n != nil; n = n.next {
		if n.handler == nil {
			// Removed while the traversal was positioned before it;
			// its next pointer still leads back into the live list.
			continue
		}

		n.handler(v, previous)

		if r.gen != gen {
			r.log.Debug(
				"Publish interrupted by nested publish",
				"generation", gen,
				"superseded_by", r.gen,
			)
			return
		}
	}
}

// Value returns the stored value,
// or the zero value if the registry was not seeded and never published to.
func (r *Registry[T]) Value() T {
	return r.stored
}

// Load returns the stored value and whether one exists.
func (r *Registry[T]) Load() (T, bool) {
	return r.stored, r.hasStored
}

// Len returns the number of live subscriptions.
// It walks the list, so it is linear in the number of subscribers.
func (r *Registry[T]) Len() int {
	c := 0
	for n := r.head.next; n != nil; n = n.next {
		c++
	}
	return c
}

// Funcs returns the registry's publish, subscribe, and get operations
// as plain functions.
// The unsubscribe function returned by subscribe is idempotent.
func (r *Registry[T]) Funcs() (
	publish func(T),
	subscribe func(Handler[T]) (unsubscribe func()),
	get func() T,
) {
	return r.Publish,
		func(h Handler[T]) func() {
			return r.Subscribe(h).Unsubscribe
		},
		r.Value
}

// unlink removes n from the list it belongs to.
//
// n keeps its own next pointer, so a traversal currently positioned on n
// can still advance to the rest of the list.
func (n *node[T]) unlink() {
	n.prev.next = n.next
	if n.next != nil {
		n.next.prev = n.prev
	}

	n.handler = nil
}
