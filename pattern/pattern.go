// Package pattern defines the pattern tree and builds it from template
// syntax. Node kinds form a closed enumeration; the matcher compiler
// dispatches over Kind exhaustively. Patterns are immutable once parsed.
package pattern

import (
	"fmt"
	"sort"
	"strings"

	"martianoff/pama/shape"
)

// Kind identifies a pattern node variant.
type Kind int

const (
	KindWildcard Kind = iota
	KindBinding
	KindLiteral
	KindAlternation
	KindRange
	KindDeconstruct
	KindSequence
	KindRest
	KindMap
)

// Pattern is a node of the pattern tree.
type Pattern interface {
	Kind() Kind
	String() string
}

// Wildcard matches anything and binds nothing.
type Wildcard struct{}

// Binding matches iff Sub matches and records Name → matched value.
type Binding struct {
	Name string
	Sub  Pattern
}

// Literal matches iff the candidate equals Value; numeric equality crosses
// numeric types.
type Literal struct {
	Value any
}

// Alternation matches iff any member matches, first success wins. Members
// never contain bindings or wildcards.
type Alternation struct {
	Members []Pattern
}

// RangeDomain is the ordinal domain of a range alternation.
type RangeDomain int

const (
	IntRange RangeDomain = iota
	CharRange
)

// Range is an unexpanded `low | ... | high` member of an alternation. The
// expander rewrites it into explicit literals before compilation.
type Range struct {
	Domain RangeDomain
	Low    any // int64 or single-character string
	High   any
}

// Deconstruct tests the candidate against Tag's shape. Slots (positional)
// and Fields (named) are mutually exclusive.
type Deconstruct struct {
	Tag    *shape.Tag
	Slots  []Pattern
	Fields []Field
}

// Field is one named slot of a deconstruction.
type Field struct {
	Name string
	Sub  Pattern
}

// Sequence matches ordered containers element-wise. Elements may include
// Rest nodes capturing variable-length runs.
type Sequence struct {
	Elements []Pattern
}

// Rest captures a contiguous run of container elements. Name is empty for
// the anonymous `*_` / `...` forms.
type Rest struct {
	Name string
}

// Map matches candidates that carry every listed key with a matching value;
// extra keys are ignored.
type Map struct {
	Entries []MapEntry
}

// MapEntry is one key → sub-pattern requirement of a Map pattern.
type MapEntry struct {
	Key any
	Sub Pattern
}

func (*Wildcard) Kind() Kind    { return KindWildcard }
func (*Binding) Kind() Kind     { return KindBinding }
func (*Literal) Kind() Kind     { return KindLiteral }
func (*Alternation) Kind() Kind { return KindAlternation }
func (*Range) Kind() Kind       { return KindRange }
func (*Deconstruct) Kind() Kind { return KindDeconstruct }
func (*Sequence) Kind() Kind    { return KindSequence }
func (*Rest) Kind() Kind        { return KindRest }
func (*Map) Kind() Kind         { return KindMap }

func (*Wildcard) String() string { return "_" }

func (p *Binding) String() string {
	if _, ok := p.Sub.(*Wildcard); ok {
		return p.Name
	}
	return fmt.Sprintf("%s @ %s", p.Name, p.Sub)
}

func (p *Literal) String() string {
	if s, ok := p.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", p.Value)
}

func (p *Alternation) String() string {
	parts := make([]string, len(p.Members))
	for i, m := range p.Members {
		parts[i] = m.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func (p *Range) String() string {
	if p.Domain == CharRange {
		return fmt.Sprintf("%q | ... | %q", p.Low, p.High)
	}
	return fmt.Sprintf("%v | ... | %v", p.Low, p.High)
}

func (p *Deconstruct) String() string {
	var parts []string
	for _, s := range p.Slots {
		parts = append(parts, s.String())
	}
	for _, f := range p.Fields {
		parts = append(parts, fmt.Sprintf("%s=%s", f.Name, f.Sub))
	}
	return fmt.Sprintf("%s(%s)", p.Tag.Name(), strings.Join(parts, ", "))
}

func (p *Sequence) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (p *Rest) String() string {
	if p.Name == "" {
		return "*_"
	}
	return "*" + p.Name
}

func (p *Map) String() string {
	parts := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		key := fmt.Sprintf("%v", e.Key)
		if s, ok := e.Key.(string); ok {
			key = fmt.Sprintf("%q", s)
		}
		parts[i] = fmt.Sprintf("%s: %s", key, e.Sub)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// BoundNames returns the sorted set of names the pattern binds on success.
func BoundNames(p Pattern) []string {
	var names []string
	collectNames(p, &names)
	sort.Strings(names)
	return names
}

func collectNames(p Pattern, names *[]string) {
	switch n := p.(type) {
	case *Binding:
		*names = append(*names, n.Name)
		collectNames(n.Sub, names)
	case *Alternation:
		for _, m := range n.Members {
			collectNames(m, names)
		}
	case *Deconstruct:
		for _, s := range n.Slots {
			collectNames(s, names)
		}
		for _, f := range n.Fields {
			collectNames(f.Sub, names)
		}
	case *Sequence:
		for _, e := range n.Elements {
			collectNames(e, names)
		}
	case *Rest:
		if n.Name != "" {
			*names = append(*names, n.Name)
		}
	case *Map:
		for _, e := range n.Entries {
			collectNames(e.Sub, names)
		}
	}
}
