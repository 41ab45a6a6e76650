package pattern

// Expand rewrites every Range member in the tree into explicit Literal
// members of its enclosing alternation. An empty or inverted range
// contributes no members at all, so `7 | ... | 3` on its own becomes an
// alternation that can never match. All other nodes are rebuilt with their
// children expanded.
func Expand(p Pattern) Pattern {
	switch n := p.(type) {
	case *Alternation:
		members := make([]Pattern, 0, len(n.Members))
		for _, m := range n.Members {
			if rng, ok := m.(*Range); ok {
				members = append(members, expandRange(rng)...)
				continue
			}
			members = append(members, Expand(m))
		}
		return &Alternation{Members: members}
	case *Binding:
		return &Binding{Name: n.Name, Sub: Expand(n.Sub)}
	case *Deconstruct:
		out := &Deconstruct{Tag: n.Tag}
		for _, s := range n.Slots {
			out.Slots = append(out.Slots, Expand(s))
		}
		for _, f := range n.Fields {
			out.Fields = append(out.Fields, Field{Name: f.Name, Sub: Expand(f.Sub)})
		}
		return out
	case *Sequence:
		out := &Sequence{Elements: make([]Pattern, 0, len(n.Elements))}
		for _, e := range n.Elements {
			out.Elements = append(out.Elements, Expand(e))
		}
		return out
	case *Map:
		out := &Map{Entries: make([]MapEntry, 0, len(n.Entries))}
		for _, e := range n.Entries {
			out.Entries = append(out.Entries, MapEntry{Key: e.Key, Sub: Expand(e.Sub)})
		}
		return out
	case *Range:
		// A range outside an alternation only arises when callers build
		// trees by hand; wrap it so the members splice somewhere.
		return &Alternation{Members: expandRange(n)}
	}
	return p
}

// expandRange enumerates the inclusive [Low, High] interval.
func expandRange(rng *Range) []Pattern {
	var members []Pattern
	switch rng.Domain {
	case IntRange:
		low, high := rng.Low.(int64), rng.High.(int64)
		for v := low; v <= high; v++ {
			members = append(members, &Literal{Value: v})
		}
	case CharRange:
		low, high := firstRune(rng.Low.(string)), firstRune(rng.High.(string))
		for v := low; v <= high; v++ {
			members = append(members, &Literal{Value: string(v)})
		}
	}
	return members
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
