// Package shape determines how runtime values decompose into ordered parts.
//
// A Tag names a deconstructable type and carries the capabilities a pattern
// may use against it: a custom extractor, a nominal Go type, an explicit
// ordered field-name list, or declared constructor parameter names. The
// Resolver turns a tag into an Extractor through a prioritized strategy
// chain and caches the result for the process lifetime.
package shape

import (
	"reflect"
)

// Outcome is the result category of a custom extractor.
type Outcome int

const (
	// Extracted means the extractor produced the ordered parts.
	Extracted Outcome = iota
	// NoMatch means the candidate does not fit this shape; the whole
	// deconstruction fails with no further strategy tried.
	NoMatch
	// Declined means the extractor abstains and the automatic strategies
	// take over.
	Declined
)

// Unapplier is the custom extractor capability a tag may carry. Unapply
// inspects the candidate and returns the extracted parts together with an
// Outcome. Anything the extractor panics with propagates to the caller; the
// engine only interprets the declared outcomes.
type Unapplier interface {
	Unapply(obj any) ([]any, Outcome)
}

// UnapplyFunc adapts a plain function to the Unapplier interface.
type UnapplyFunc func(obj any) ([]any, Outcome)

func (f UnapplyFunc) Unapply(obj any) ([]any, Outcome) {
	return f(obj)
}

type absentType struct{}

func (absentType) String() string { return "<absent>" }

// Absent is the marker substituted for a constructor parameter whose
// attribute is missing on the candidate. It is distinct from nil.
var Absent any = absentType{}

// IsAbsent reports whether v is the Absent marker.
func IsAbsent(v any) bool {
	_, ok := v.(absentType)
	return ok
}

// Tag identifies a deconstructable type inside patterns. Tags are immutable
// after construction; build them with NewTag or For and register them so the
// pattern parser can resolve their names.
type Tag struct {
	name       string
	typ        reflect.Type
	kinds      []reflect.Kind
	extractor  Unapplier
	fieldNames []string
	ctorParams []string
	callable   bool
}

// TagOption configures a Tag under construction.
type TagOption func(*Tag)

// WithGoType sets the nominal Go type the instance test checks against.
func WithGoType(t reflect.Type) TagOption {
	return func(tag *Tag) { tag.typ = t }
}

// WithSample sets the nominal type from a sample value. If the sample
// implements Unapplier and no extractor was set explicitly, it becomes the
// tag's custom extractor.
func WithSample(v any) TagOption {
	return func(tag *Tag) {
		tag.typ = reflect.TypeOf(v)
		if u, ok := v.(Unapplier); ok && tag.extractor == nil {
			tag.extractor = u
		}
	}
}

// WithExtractor attaches a custom extractor, tried before every automatic
// strategy.
func WithExtractor(u Unapplier) TagOption {
	return func(tag *Tag) { tag.extractor = u }
}

// WithUnapply attaches a custom extractor function.
func WithUnapply(f func(obj any) ([]any, Outcome)) TagOption {
	return func(tag *Tag) { tag.extractor = UnapplyFunc(f) }
}

// WithFieldNames declares the ordered field-name list read during
// extraction. Any absent attribute makes the deconstruction a non-match.
func WithFieldNames(names ...string) TagOption {
	return func(tag *Tag) { tag.fieldNames = names }
}

// WithConstructorParams declares the ordered constructor parameter names.
// Names starting with an underscore and names ending in "..." (the gather
// parameter) are skipped; a missing attribute substitutes Absent instead of
// failing the extraction.
func WithConstructorParams(names ...string) TagOption {
	return func(tag *Tag) { tag.ctorParams = names }
}

func withKinds(kinds ...reflect.Kind) TagOption {
	return func(tag *Tag) { tag.kinds = kinds }
}

// NewTag builds a tag named name with the given capabilities.
func NewTag(name string, opts ...TagOption) *Tag {
	tag := &Tag{name: name}
	for _, opt := range opts {
		opt(tag)
	}
	return tag
}

// For builds a tag whose instance test checks against the Go type T.
// T may be an interface type; the test then checks interface satisfaction.
func For[T any](name string, opts ...TagOption) *Tag {
	tag := NewTag(name, opts...)
	tag.typ = reflect.TypeOf((*T)(nil)).Elem()
	return tag
}

// Name returns the tag's pattern-visible name.
func (t *Tag) Name() string { return t.name }

// GoType returns the tag's nominal Go type, or nil if it has none.
func (t *Tag) GoType() reflect.Type { return t.typ }

// Callable is the reserved tag matching any value of Func kind. It tests
// invokability only and takes no part in the strategy chain.
var Callable = &Tag{name: "callable", callable: true}

// instanceOf is the is-instance-of structural/nominal test of the strategy
// chain's second step.
func (t *Tag) instanceOf(obj any) bool {
	if t.callable {
		return obj != nil && reflect.TypeOf(obj).Kind() == reflect.Func
	}
	if obj == nil {
		return false
	}
	ot := reflect.TypeOf(obj)
	if len(t.kinds) > 0 {
		k := ot.Kind()
		for _, want := range t.kinds {
			if k == want {
				return true
			}
		}
		return false
	}
	if t.typ == nil {
		// Extractor-only tags have no nominal type to test against.
		return false
	}
	if t.typ.Kind() == reflect.Interface {
		return ot.Implements(t.typ)
	}
	return ot == t.typ || ot.AssignableTo(t.typ)
}
