package rdraft

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
	"github.com/gordian-engine/ripple"
)

// Cloner is implemented by values that know how to deep copy themselves.
// When the stored type implements Cloner,
// [Store] uses it instead of the JSON round trip.
type Cloner[T any] interface {
	Clone() T
}

// Store publishes into a registry through draft mutation.
type Store[T any] struct {
	reg   *ripple.Registry[T]
	clone func(T) (T, error)
}

// Config is the configuration for [New].
type Config[T any] struct {
	// Clone produces an independent copy of a stored value.
	// If nil, values implementing [Cloner] are cloned through that method,
	// and all other values are deep copied by a JSON round trip.
	// The round trip is only permitted for types it copies losslessly:
	// [New] panics when T has unexported struct fields,
	// or interface, func, or chan values,
	// unless those sit behind a type with its own JSON marshaling.
	Clone func(T) (T, error)
}

// New returns a Store publishing into reg.
//
// New panics if cfg.Clone is nil and T can be neither cloned through [Cloner]
// nor copied losslessly by the JSON round trip.
func New[T any](reg *ripple.Registry[T], cfg Config[T]) *Store[T] {
	if reg == nil {
		panic(fmt.Errorf("BUG: rdraft.New called with nil registry"))
	}

	clone := cfg.Clone
	if clone == nil {
		if !implementsCloner[T]() {
			if err := checkJSONCopyable(reflect.TypeFor[T]()); err != nil {
				panic(fmt.Errorf(
					"BUG: rdraft.New for %s requires Config.Clone or Cloner: %w",
					reflect.TypeFor[T](), err,
				))
			}
		}
		clone = defaultClone[T]
	}

	return &Store[T]{
		reg:   reg,
		clone: clone,
	}
}

// Update copies the stored value into a draft,
// passes the draft to mutate,
// and publishes the mutated draft.
//
// If the stored value cannot be copied, nothing is published.
func (s *Store[T]) Update(mutate func(draft *T)) error {
	draft, err := s.clone(s.reg.Value())
	if err != nil {
		return fmt.Errorf("failed to copy stored value into draft: %w", err)
	}

	mutate(&draft)

	s.reg.Publish(draft)
	return nil
}

// Subscribe subscribes h to the underlying registry.
func (s *Store[T]) Subscribe(h ripple.Handler[T]) *ripple.Subscription {
	return s.reg.Subscribe(h)
}

// Value returns the stored value of the underlying registry.
// Callers must not mutate it; use [*Store.Update] instead.
func (s *Store[T]) Value() T {
	return s.reg.Value()
}

// Registry returns the underlying registry.
func (s *Store[T]) Registry() *ripple.Registry[T] {
	return s.reg
}

func defaultClone[T any](v T) (T, error) {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone(), nil
	}

	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("failed to marshal: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal: %w", err)
	}
	return out, nil
}
