package rderive

import (
	"errors"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/ripple"
)

// Derived is a registry driven by one or more sources.
//
// Create an instance with [New].
type Derived[T any] struct {
	log *slog.Logger

	reg     *ripple.Registry[T]
	compute func() T

	subs []*ripple.Subscription

	// Set bits are sources that have published at least once.
	// Only consulted when requireAll is set.
	seen       *bitset.BitSet
	requireAll bool
}

// Config is the configuration for [New].
type Config[T any] struct {
	// Sources whose publications trigger a recomputation.
	Sources []ripple.Notifier

	// Compute returns the derived value.
	// It is called once during New to seed the derived registry,
	// and again after every source publication.
	Compute func() T

	// If set, source publications are ignored
	// until every source has published at least once.
	// The seed computed in New is still stored.
	RequireAll bool
}

// New subscribes to every source in cfg
// and returns the Derived value seeded with cfg.Compute().
//
// New panics if log is nil, cfg has no sources, or cfg.Compute is nil.
func New[T any](log *slog.Logger, cfg Config[T]) *Derived[T] {
	if log == nil {
		panic(errors.New("BUG: log must not be nil"))
	}
	if len(cfg.Sources) == 0 {
		panic(errors.New("BUG: Config.Sources must not be empty"))
	}
	if cfg.Compute == nil {
		panic(errors.New("BUG: Config.Compute must not be nil"))
	}

	d := &Derived[T]{
		log: log,

		reg:     ripple.NewSeeded(cfg.Compute(), ripple.WithLogger[T](log)),
		compute: cfg.Compute,

		subs: make([]*ripple.Subscription, len(cfg.Sources)),

		seen:       bitset.New(uint(len(cfg.Sources))),
		requireAll: cfg.RequireAll,
	}

	for i, src := range cfg.Sources {
		d.subs[i] = src.Notify(func() {
			d.handleSource(uint(i))
		})
	}

	return d
}

func (d *Derived[T]) handleSource(idx uint) {
	d.seen.Set(idx)

	if d.requireAll && d.seen.Count() < uint(len(d.subs)) {
		d.log.Debug(
			"Deferring derived publish until all sources have published",
			"source", idx,
			"pending", d.seen.Len()-d.seen.Count(),
		)
		return
	}

	d.reg.Publish(d.compute())
}

// Registry returns the derived registry,
// for subscribing to or reading the derived value.
func (d *Derived[T]) Registry() *ripple.Registry[T] {
	return d.reg
}

// Value returns the most recently derived value.
func (d *Derived[T]) Value() T {
	return d.reg.Value()
}

// Pending returns the indices of sources that have not yet published,
// in ascending order.
func (d *Derived[T]) Pending() []int {
	var out []int
	for i := range uint(len(d.subs)) {
		if !d.seen.Test(i) {
			out = append(out, int(i))
		}
	}
	return out
}

// Close unsubscribes from every source.
// The derived registry keeps its last value.
// Close may be called more than once.
func (d *Derived[T]) Close() {
	for _, s := range d.subs {
		s.Unsubscribe()
	}
}
