package rdraft

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
)

var (
	marshalerType   = reflect.TypeFor[json.Marshaler]()
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
)

func implementsCloner[T any]() bool {
	return reflect.TypeFor[T]().Implements(reflect.TypeFor[Cloner[T]]())
}

// checkJSONCopyable reports the first part of t
// that a JSON round trip would drop or change.
func checkJSONCopyable(t reflect.Type) error {
	return checkType(t, make(map[reflect.Type]struct{}))
}

func checkType(t reflect.Type, seen map[reflect.Type]struct{}) error {
	if _, ok := seen[t]; ok {
		// Recursive type already being checked.
		return nil
	}
	seen[t] = struct{}{}

	// Types owning their encoding are trusted to round trip, e.g. time.Time.
	if ownsJSON(t) {
		return nil
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Errorf("%s values cannot be copied through JSON", t)

	case reflect.Pointer, reflect.Slice, reflect.Array:
		return checkType(t.Elem(), seen)

	case reflect.Map:
		if err := checkType(t.Key(), seen); err != nil {
			return err
		}
		return checkType(t.Elem(), seen)

	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				return fmt.Errorf("unexported field %s.%s would be zeroed", t, f.Name)
			}
			if f.Tag.Get("json") == "-" {
				return fmt.Errorf("field %s.%s is excluded from JSON", t, f.Name)
			}
			if err := checkType(f.Type, seen); err != nil {
				return err
			}
		}
	}

	return nil
}

func ownsJSON(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return (t.Implements(marshalerType) || pt.Implements(marshalerType)) &&
		pt.Implements(unmarshalerType)
}
