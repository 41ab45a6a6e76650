package shape

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry maps pattern-visible tag names to tags. The pattern parser
// resolves every deconstructor name through a registry at compile time.
//
// Thread-safe: all methods can be called concurrently.
type Registry struct {
	mu   sync.RWMutex
	tags map[string]*Tag
}

// NewRegistry creates a registry pre-populated with the builtin tags:
// the primitive scalar and container tags plus the reserved callable tag.
func NewRegistry() *Registry {
	r := &Registry{tags: make(map[string]*Tag)}
	for _, t := range builtinTags {
		r.tags[t.Name()] = t
	}
	return r
}

// Register adds a tag. Registering a name twice is an error; use Replace to
// redefine a tag deliberately.
func (r *Registry) Register(t *Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tags[t.Name()]; ok {
		return fmt.Errorf("shape: tag %q already registered", t.Name())
	}
	r.tags[t.Name()] = t
	return nil
}

// MustRegister is Register panicking on a duplicate name.
func (r *Registry) MustRegister(t *Tag) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Replace adds or redefines a tag unconditionally.
func (r *Registry) Replace(t *Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[t.Name()] = t
}

// Lookup resolves a tag name.
func (r *Registry) Lookup(name string) (*Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[name]
	return t, ok
}

// Names returns the registered tag names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tags))
	for name := range r.tags {
		names = append(names, name)
	}
	return names
}

// Builtin tags. The primitive tags deconstruct to the candidate itself
// wrapped in a one-element sequence, so a bare tag composes with an inner
// constraint: `int(x)` binds the int it just type-checked.
var builtinTags = []*Tag{
	NewTag("bool", withKinds(reflect.Bool)),
	NewTag("int", withKinds(
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	)),
	NewTag("float", withKinds(reflect.Float32, reflect.Float64)),
	NewTag("complex", withKinds(reflect.Complex64, reflect.Complex128)),
	NewTag("string", withKinds(reflect.String)),
	NewTag("list", withKinds(reflect.Slice, reflect.Array)),
	NewTag("map", withKinds(reflect.Map)),
	Callable,
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when no explicit
// registry is configured.
func DefaultRegistry() *Registry { return defaultRegistry }
