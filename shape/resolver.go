package shape

import (
	"reflect"
	"sync"

	"go.uber.org/atomic"
)

// Extractor deconstructs a candidate object into its ordered parts. The
// second result is false when the object does not fit the shape; that is the
// ordinary non-match outcome, never an error.
type Extractor func(obj any) ([]any, bool)

// Resolver owns the process-wide shape cache. Resolution runs at most once
// per tag; concurrent readers are never blocked by a resolved entry. The
// cache has no invalidation policy: a tag whose capabilities are mutated
// after first resolution keeps its stale extractor until ClearCache.
type Resolver struct {
	mu    sync.RWMutex
	cache map[*Tag]Extractor

	hits   atomic.Int64
	misses atomic.Int64
}

// NewResolver creates a resolver with an empty cache.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[*Tag]Extractor)}
}

var defaultResolver = NewResolver()

// DefaultResolver returns the process-wide resolver used when no explicit
// resolver is configured.
func DefaultResolver() *Resolver { return defaultResolver }

// Resolve returns the extractor for a tag, building and caching it on first
// use.
func (r *Resolver) Resolve(tag *Tag) Extractor {
	r.mu.RLock()
	ex, ok := r.cache[tag]
	r.mu.RUnlock()
	if ok {
		r.hits.Inc()
		return ex
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Double check: another goroutine may have resolved the tag while we
	// waited for the write lock. At most one resolution per tag.
	if ex, ok := r.cache[tag]; ok {
		r.hits.Inc()
		return ex
	}
	r.misses.Inc()
	ex = build(tag)
	r.cache[tag] = ex
	return ex
}

// ClearCache drops every cached extractor. Intended for tests and for hosts
// that redefine tag capabilities at runtime.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[*Tag]Extractor)
}

// Stats reports cache hit and miss counts since process start.
func (r *Resolver) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

// strategy is one automatic deconstruction rule. The list below is ordered;
// the first applicable strategy wins. Strategies run after the instance-of
// gate, so their extract functions may assume the candidate already passed
// the tag's nominal test.
type strategy struct {
	name    string
	applies func(*Tag) bool
	extract func(*Tag, any) ([]any, bool)
}

var strategies = []strategy{
	{
		// Primitive scalar and container types are not deconstructable;
		// they yield themselves so the tag check composes with an inner
		// constraint. An explicit field or parameter list overrides this,
		// letting map-typed tags deconstruct by key.
		name:    "primitive",
		applies: func(t *Tag) bool {
			if len(t.fieldNames) > 0 || len(t.ctorParams) > 0 {
				return false
			}
			return len(t.kinds) > 0 || isPrimitiveType(t.typ)
		},
		extract: func(_ *Tag, obj any) ([]any, bool) { return []any{obj}, true },
	},
	{
		name:    "field-list",
		applies: func(t *Tag) bool { return len(t.fieldNames) > 0 },
		extract: func(t *Tag, obj any) ([]any, bool) {
			parts := make([]any, 0, len(t.fieldNames))
			for _, name := range t.fieldNames {
				if internalName(name) {
					continue
				}
				v, ok := Attr(obj, name)
				if !ok {
					return nil, false
				}
				parts = append(parts, v)
			}
			return parts, true
		},
	},
	{
		// The type's own declared fields, in declaration order, unexported
		// names skipped.
		name:    "declared-fields",
		applies: func(t *Tag) bool { return len(structFieldNames(t.typ)) > 0 },
		extract: func(t *Tag, obj any) ([]any, bool) {
			parts := make([]any, 0, 4)
			for _, name := range structFieldNames(t.typ) {
				v, ok := Attr(obj, name)
				if !ok {
					return nil, false
				}
				parts = append(parts, v)
			}
			return parts, true
		},
	},
	{
		// Constructor parameters are not an accurate account of the fields
		// actually present, so a missing attribute substitutes the Absent
		// marker instead of rejecting the candidate.
		name:    "constructor-params",
		applies: func(t *Tag) bool { return len(t.ctorParams) > 0 },
		extract: func(t *Tag, obj any) ([]any, bool) {
			parts := make([]any, 0, len(t.ctorParams))
			for _, name := range t.ctorParams {
				if internalName(name) || gatherName(name) {
					continue
				}
				if v, ok := Attr(obj, name); ok {
					parts = append(parts, v)
				} else {
					parts = append(parts, Absent)
				}
			}
			return parts, true
		},
	},
	{
		// Pure tag check: nothing to extract.
		name:    "bare",
		applies: func(*Tag) bool { return true },
		extract: func(*Tag, any) ([]any, bool) { return []any{}, true },
	},
}

// build composes a tag's extractor: the optional custom Unapplier first,
// then the instance-of gate, then the first applicable automatic strategy.
// The strategy choice depends only on the tag, so it is decided here, once,
// and baked into the returned closure.
func build(tag *Tag) Extractor {
	if tag.callable {
		return func(obj any) ([]any, bool) {
			if !tag.instanceOf(obj) {
				return nil, false
			}
			return []any{}, true
		}
	}

	var auto func(any) ([]any, bool)
	for _, s := range strategies {
		if s.applies(tag) {
			strat := s
			auto = func(obj any) ([]any, bool) { return strat.extract(tag, obj) }
			break
		}
	}

	custom := tag.extractor
	return func(obj any) ([]any, bool) {
		if custom != nil {
			parts, outcome := custom.Unapply(obj)
			switch outcome {
			case Extracted:
				return parts, true
			case NoMatch:
				return nil, false
			}
			// Declined: fall through to the automatic strategies.
		}
		if !tag.instanceOf(obj) {
			return nil, false
		}
		return auto(obj)
	}
}

func internalName(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

func gatherName(name string) bool {
	return len(name) > 3 && name[len(name)-3:] == "..."
}

func isPrimitiveType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func structFieldNames(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() {
			names = append(names, f.Name)
		}
	}
	return names
}
