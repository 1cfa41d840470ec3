// Package env implements the insertion-ordered, copy-on-append environment
// used by the simple type checker and the MDP translator to track
// identifier bindings. It mirrors environment_t in the original pml
// implementation: append never mutates the receiver, and re-binding a name
// replaces its value while the rest of the order is preserved.
package env

// Env is an immutable, insertion-ordered map from identifier name to a
// bound value of type T. The zero value is an empty environment.
type Env[T any] struct {
	names []string
	elems map[string]T
}

// Append returns a new Env with name bound to val. If name is already bound,
// the new environment replaces its value in place; the binding does not
// move to the end of the order.
func (e Env[T]) Append(name string, val T) Env[T] {
	next := Env[T]{
		names: make([]string, len(e.names)),
		elems: make(map[string]T, len(e.elems)+1),
	}
	copy(next.names, e.names)
	for k, v := range e.elems {
		next.elems[k] = v
	}
	if _, ok := next.elems[name]; !ok {
		next.names = append(next.names, name)
	}
	next.elems[name] = val
	return next
}

// Lookup returns the value bound to name and whether it was found.
func (e Env[T]) Lookup(name string) (T, bool) {
	v, ok := e.elems[name]
	return v, ok
}

// Names returns the bound names in insertion order.
func (e Env[T]) Names() []string {
	return e.names
}
