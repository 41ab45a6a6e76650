package match

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"martianoff/pama/pattern"
	"martianoff/pama/shape"
)

// step is one compiled test-and-bind closure. It reports whether v fits and
// records any captured names into b. Steps never partially succeed: callers
// discard b wholesale when the overall match fails.
type step func(v any, b Bindings) bool

// Matcher is a compiled pattern, safe for concurrent use.
type Matcher struct {
	pat pattern.Pattern
	run step
	log *zap.Logger
}

// Compile lowers a pattern tree into a Matcher. Range members are expanded
// first, so hand-built trees may still contain them.
func Compile(p pattern.Pattern, opts ...Option) (*Matcher, error) {
	s := newSettings(opts)
	expanded := pattern.Expand(p)
	run, err := compile(expanded, s)
	if err != nil {
		return nil, err
	}
	return &Matcher{pat: expanded, run: run, log: s.log}, nil
}

// CompileString parses a pattern template and compiles it.
func CompileString(src string, opts ...Option) (*Matcher, error) {
	s := newSettings(opts)
	p, err := pattern.ParseString(src, s.reg)
	if err != nil {
		return nil, err
	}
	return Compile(p, opts...)
}

// Pattern returns the compiled (expanded) pattern tree.
func (m *Matcher) Pattern() pattern.Pattern { return m.pat }

// Match runs the matcher against subject. On success it returns the
// captured bindings; on failure the bindings are nil, with nothing captured
// along the failed attempt leaking out.
func (m *Matcher) Match(subject any) (Bindings, bool) {
	scratch := make(Bindings)
	if !m.run(subject, scratch) {
		return nil, false
	}
	m.log.Debug("pattern matched",
		zap.String("pattern", m.pat.String()),
		zap.Int("bindings", len(scratch)))
	return scratch, true
}

// Matches reports whether subject fits without exposing bindings.
func (m *Matcher) Matches(subject any) bool {
	_, ok := m.Match(subject)
	return ok
}

func compile(p pattern.Pattern, s *settings) (step, error) {
	switch n := p.(type) {
	case *pattern.Wildcard:
		return func(any, Bindings) bool { return true }, nil

	case *pattern.Binding:
		sub, err := compile(n.Sub, s)
		if err != nil {
			return nil, err
		}
		name := n.Name
		return func(v any, b Bindings) bool {
			if !sub(v, b) {
				return false
			}
			b[name] = v
			return true
		}, nil

	case *pattern.Literal:
		want := n.Value
		return func(v any, b Bindings) bool {
			return literalEqual(want, v)
		}, nil

	case *pattern.Alternation:
		members := make([]step, 0, len(n.Members))
		for _, m := range n.Members {
			sub, err := compile(m, s)
			if err != nil {
				return nil, err
			}
			members = append(members, sub)
		}
		return func(v any, b Bindings) bool {
			for _, member := range members {
				if member(v, b) {
					return true
				}
			}
			return false
		}, nil

	case *pattern.Deconstruct:
		return compileDeconstruct(n, s)

	case *pattern.Sequence:
		return compileSequence(n, s)

	case *pattern.Map:
		return compileMap(n, s)

	case *pattern.Rest:
		// Rests are consumed by compileSequence; one anywhere else means a
		// hand-built tree bypassed the parser's validation.
		return nil, fmt.Errorf("match: rest-pattern outside a sequence")

	case *pattern.Range:
		return nil, fmt.Errorf("match: unexpanded range in pattern")
	}
	return nil, fmt.Errorf("match: unknown pattern node %T", p)
}

func compileDeconstruct(n *pattern.Deconstruct, s *settings) (step, error) {
	extract := s.res.Resolve(n.Tag)

	if len(n.Fields) > 0 {
		fields := make([]struct {
			name string
			sub  step
		}, 0, len(n.Fields))
		for _, f := range n.Fields {
			sub, err := compile(f.Sub, s)
			if err != nil {
				return nil, err
			}
			fields = append(fields, struct {
				name string
				sub  step
			}{f.Name, sub})
		}
		// Named slots ignore the extracted positions; the extractor still
		// runs as the shape gate.
		return func(v any, b Bindings) bool {
			if _, ok := extract(v); !ok {
				return false
			}
			for _, f := range fields {
				attr, ok := shape.Attr(v, f.name)
				if !ok {
					return false
				}
				if !f.sub(attr, b) {
					return false
				}
			}
			return true
		}, nil
	}

	slots := make([]step, 0, len(n.Slots))
	for _, slot := range n.Slots {
		sub, err := compile(slot, s)
		if err != nil {
			return nil, err
		}
		slots = append(slots, sub)
	}
	return func(v any, b Bindings) bool {
		parts, ok := extract(v)
		if !ok {
			return false
		}
		// Fewer slots than parts is fine: the pattern constrains a prefix.
		if len(slots) > len(parts) {
			return false
		}
		for i, slot := range slots {
			if !slot(parts[i], b) {
				return false
			}
		}
		return true
	}, nil
}

func compileMap(n *pattern.Map, s *settings) (step, error) {
	entries := make([]struct {
		key any
		sub step
	}, 0, len(n.Entries))
	for _, e := range n.Entries {
		sub, err := compile(e.Sub, s)
		if err != nil {
			return nil, err
		}
		entries = append(entries, struct {
			key any
			sub step
		}{e.Key, sub})
	}
	return func(v any, b Bindings) bool {
		mv := reflect.ValueOf(v)
		if !mv.IsValid() || mv.Kind() != reflect.Map {
			return false
		}
		keyType := mv.Type().Key()
		for _, e := range entries {
			kv := reflect.ValueOf(e.key)
			if !kv.Type().AssignableTo(keyType) {
				if !kv.Type().ConvertibleTo(keyType) {
					return false
				}
				kv = kv.Convert(keyType)
			}
			entry := mv.MapIndex(kv)
			if !entry.IsValid() {
				return false
			}
			if !e.sub(entry.Interface(), b) {
				return false
			}
		}
		return true
	}, nil
}

// literalEqual compares a pattern literal against a subject value. Numeric
// literals compare across Go's numeric types, so the template `2` matches
// int8(2) and 2.0 alike.
func literalEqual(want, got any) bool {
	if want == nil {
		return got == nil
	}
	if got == nil {
		return false
	}
	switch w := want.(type) {
	case bool:
		g, ok := got.(bool)
		return ok && g == w
	case string:
		g, ok := got.(string)
		return ok && g == w
	}
	if isNumeric(want) && isNumeric(got) {
		wf, werr := cast.ToFloat64E(want)
		gf, gerr := cast.ToFloat64E(got)
		return werr == nil && gerr == nil && wf == gf
	}
	return reflect.DeepEqual(want, got)
}

func isNumeric(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
