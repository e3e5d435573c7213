package safecontext

import (
	"reflect"

	diag "github.com/vango-dev/safecontext/internal/errors"
)

// Entry names one context of a Map.
type Entry struct {
	Key    string
	Source Source
}

// Map is an ordered set of named contexts. Its order is the order in which
// the contexts are resolved on every render.
type Map []Entry

// Validate reports an empty key, a duplicate key or a nil source.
func (m Map) Validate() error {
	seen := make(map[string]struct{}, len(m))
	for i, e := range m {
		if e.Key == "" {
			return contractError(diag.CodeInvalidContexts, "", "", "entry %d has an empty key", i)
		}
		if _, dup := seen[e.Key]; dup {
			return contractError(diag.CodeInvalidContexts, "", e.Key, "duplicate key")
		}
		seen[e.Key] = struct{}{}
		if e.Source == nil {
			return contractError(diag.CodeInvalidContexts, "", e.Key, "nil context source")
		}
	}
	return nil
}

// Keys returns the keys in resolution order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// types maps each key to the value type of its context. Interface-typed
// contexts are left out: only their dynamic values can be checked.
func (m Map) types() PropTypes {
	types := make(PropTypes, len(m))
	for _, e := range m {
		if t := e.Source.valueType(); t.Kind() != reflect.Interface {
			types[e.Key] = t
		}
	}
	return types
}

// Values holds the resolved value of every key of a Map.
// The zero Values is empty.
type Values struct {
	keys []string
	vals map[string]any
}

// Len returns the number of resolved keys.
func (v Values) Len() int {
	return len(v.keys)
}

// Keys returns the resolved keys in resolution order.
func (v Values) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Value returns the raw value resolved for key.
func (v Values) Value(key string) (any, bool) {
	val, ok := v.vals[key]
	return val, ok
}

// equal is shallow equality over two resolutions of the same Map.
func (v Values) equal(o Values) bool {
	if len(v.keys) != len(o.keys) {
		return false
	}
	for _, k := range v.keys {
		ov, ok := o.vals[k]
		if !ok || !same(v.vals[k], ov) {
			return false
		}
	}
	return true
}

// Lookup returns the value resolved for key as a T.
// ok is false when key is absent or holds another type.
func Lookup[T any](v Values, key string) (value T, ok bool) {
	raw, found := v.vals[key]
	if !found {
		return value, false
	}
	value, ok = raw.(T)
	return value, ok
}

// Get returns the value resolved for key, or the zero T.
func Get[T any](v Values, key string) T {
	value, _ := Lookup[T](v, key)
	return value
}
