// Package rcatalog looks up [ripple.Registry] values by name,
// creating each registry on first use.
package rcatalog

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/alphadose/haxmap"
	"github.com/gordian-engine/ripple"
)

// Catalog is a set of named registries sharing a value type.
//
// Looking registries up is safe from multiple goroutines,
// but each registry is still single-goroutine.
type Catalog[T any] struct {
	log *slog.Logger

	regs *haxmap.Map[string, *ripple.Registry[T]]
}

// New returns an empty Catalog.
// New panics if log is nil.
func New[T any](log *slog.Logger) *Catalog[T] {
	if log == nil {
		panic(errors.New("BUG: log must not be nil"))
	}

	return &Catalog[T]{
		log:  log,
		regs: haxmap.New[string, *ripple.Registry[T]](),
	}
}

// Registry returns the registry named name,
// creating an unseeded one if it does not yet exist.
func (c *Catalog[T]) Registry(name string) *ripple.Registry[T] {
	reg, loaded := c.regs.GetOrCompute(name, func() *ripple.Registry[T] {
		return ripple.New(ripple.WithLogger[T](c.log.With("registry", name)))
	})
	if !loaded {
		c.log.Debug("Created registry", "registry", name)
	}
	return reg
}

// Lookup returns the registry named name, if it exists.
func (c *Catalog[T]) Lookup(name string) (*ripple.Registry[T], bool) {
	return c.regs.Get(name)
}

// Delete forgets the registry named name.
// Existing references to the registry and its subscriptions remain usable.
func (c *Catalog[T]) Delete(name string) {
	c.regs.Del(name)
}

// Names returns the names of all registries, sorted.
func (c *Catalog[T]) Names() []string {
	names := make([]string, 0, int(c.regs.Len()))
	c.regs.ForEach(func(name string, _ *ripple.Registry[T]) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}
