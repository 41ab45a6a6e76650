package match

import (
	"reflect"

	"martianoff/pama/pattern"
)

// Seq lets container types outside the built-in slice, array and string set
// take part in sequence matching.
type Seq interface {
	// Size returns the number of elements.
	Size() int
	// Get returns the element at position i.
	Get(i int) any
	// Slice returns the sub-sequence [i, j) as a value of the container's
	// own choosing; it is what rest-patterns capture.
	Slice(i, j int) any
}

// seqView is a uniform random-access view over a sequence subject.
type seqView struct {
	size  int
	at    func(i int) any
	slice func(i, j int) any
}

// newSeqView adapts a subject for sequence matching. Strings are viewed rune
// by rune, each element a one-character string and each captured rest a
// substring. Arrays are copied into a slice once so captures stay typed.
func newSeqView(subject any) (*seqView, bool) {
	if s, ok := subject.(Seq); ok {
		return &seqView{size: s.Size(), at: s.Get, slice: s.Slice}, true
	}
	switch rv := reflect.ValueOf(subject); rv.Kind() {
	case reflect.String:
		runes := []rune(rv.String())
		return &seqView{
			size:  len(runes),
			at:    func(i int) any { return string(runes[i]) },
			slice: func(i, j int) any { return string(runes[i:j]) },
		}, true
	case reflect.Array:
		sl := reflect.MakeSlice(reflect.SliceOf(rv.Type().Elem()), rv.Len(), rv.Len())
		reflect.Copy(sl, rv)
		rv = sl
		fallthrough
	case reflect.Slice:
		return &seqView{
			size:  rv.Len(),
			at:    func(i int) any { return rv.Index(i).Interface() },
			slice: func(i, j int) any { return rv.Slice(i, j).Interface() },
		}, true
	}
	return nil, false
}

// seqProgram is a compiled sequence pattern, segmented at its rest-patterns:
// fixed leading and trailing elements match by direct indexing, interior
// groups are located by a greedy left-to-right anchor scan, and each rest
// captures the gap left between its neighbors. No backtracking: the first
// position where a group fits is final.
type seqProgram struct {
	leading   []step
	trailing  []step
	groups    [][]step // between consecutive rests
	restNames []string // one per rest, "" when anonymous
	minLen    int
}

func compileSequence(n *pattern.Sequence, s *settings) (step, error) {
	var prog seqProgram
	segments := [][]step{nil}
	for _, elt := range n.Elements {
		if rest, ok := elt.(*pattern.Rest); ok {
			prog.restNames = append(prog.restNames, rest.Name)
			segments = append(segments, nil)
			continue
		}
		sub, err := compile(elt, s)
		if err != nil {
			return nil, err
		}
		segments[len(segments)-1] = append(segments[len(segments)-1], sub)
	}

	prog.leading = segments[0]
	if len(prog.restNames) > 0 {
		prog.trailing = segments[len(segments)-1]
		prog.groups = segments[1 : len(segments)-1]
	}
	prog.minLen = len(prog.leading) + len(prog.trailing)
	for _, g := range prog.groups {
		prog.minLen += len(g)
	}

	return prog.match, nil
}

func (p *seqProgram) match(subject any, b Bindings) bool {
	view, ok := newSeqView(subject)
	if !ok {
		return false
	}
	n := view.size
	if len(p.restNames) == 0 {
		if n != len(p.leading) {
			return false
		}
		return matchAt(p.leading, view, 0, b)
	}
	if n < p.minLen {
		return false
	}

	if !matchAt(p.leading, view, 0, b) {
		return false
	}
	maxI := n - len(p.trailing)
	if !matchAt(p.trailing, view, maxI, b) {
		return false
	}

	// Space the groups after each one still need, for the scan bound.
	tailNeed := make([]int, len(p.groups)+1)
	for g := len(p.groups) - 1; g >= 0; g-- {
		tailNeed[g] = tailNeed[g+1] + len(p.groups[g])
	}

	cursor := len(p.leading)
	for g, group := range p.groups {
		limit := maxI - tailNeed[g+1]
		start := scanGroup(group, view, cursor, limit, b)
		if start < 0 {
			return false
		}
		p.bindRest(g, view, cursor, start, b)
		cursor = start + len(group)
	}
	p.bindRest(len(p.groups), view, cursor, maxI, b)
	return true
}

// scanGroup finds the leftmost position in [cursor, limit-len(group)] where
// every step of the group matches, or -1. A position that fails may leave
// bindings behind; the accepting position rewrites all of them, and if no
// position accepts the whole match fails and the bindings are discarded.
func scanGroup(group []step, view *seqView, cursor, limit int, b Bindings) int {
	for start := cursor; start+len(group) <= limit; start++ {
		if matchAt(group, view, start, b) {
			return start
		}
	}
	return -1
}

func matchAt(steps []step, view *seqView, offset int, b Bindings) bool {
	for i, st := range steps {
		if !st(view.at(offset+i), b) {
			return false
		}
	}
	return true
}

func (p *seqProgram) bindRest(idx int, view *seqView, i, j int, b Bindings) {
	if name := p.restNames[idx]; name != "" {
		b[name] = view.slice(i, j)
	}
}
