// Package match compiles patterns into executable matchers and runs them
// against subjects, producing name bindings.
package match

// Bindings holds the names captured by a successful match. A failed match
// never exposes bindings, partial or otherwise.
type Bindings map[string]any

// Get returns the bound value for name.
func (b Bindings) Get(name string) (any, bool) {
	v, ok := b[name]
	return v, ok
}

// Has reports whether name was bound.
func (b Bindings) Has(name string) bool {
	_, ok := b[name]
	return ok
}
