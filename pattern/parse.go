package pattern

import (
	"fmt"

	"martianoff/pama/pamaerr"
	"martianoff/pama/shape"
	"martianoff/pama/syntax"
)

// Parse builds a Pattern from an already-parsed template tree. Deconstructor
// names resolve through reg. It returns a pamaerr.SyntaxError for template
// constructs outside the pattern sub-grammar and a pamaerr.ValidationError
// for invariant violations (duplicate bound names, bindings inside
// alternations, mixed slot forms, un-anchored adjacent rest-patterns).
func Parse(node syntax.Node, reg *shape.Registry) (Pattern, error) {
	if reg == nil {
		reg = shape.DefaultRegistry()
	}
	p := &treeParser{reg: reg, bound: make(map[string]bool)}
	return p.convert(node)
}

// ParseString runs the syntax front end and Parse in one step.
func ParseString(src string, reg *shape.Registry) (Pattern, error) {
	node, err := syntax.Parse(src)
	if err != nil {
		return nil, err
	}
	return Parse(node, reg)
}

type treeParser struct {
	reg   *shape.Registry
	bound map[string]bool
	// altDepth > 0 while converting alternation members; bindings are
	// rejected there, transitively.
	altDepth int
}

func (p *treeParser) convert(node syntax.Node) (Pattern, error) {
	switch n := node.(type) {
	case *syntax.Ident:
		return p.convertName(n)
	case *syntax.BasicLit:
		return &Literal{Value: n.Value}, nil
	case *syntax.Binary:
		if n.Op == syntax.OpOr {
			return p.convertOr(n)
		}
		return p.convertBind(n)
	case *syntax.Rest:
		return p.convertRest(n)
	case *syntax.EllipsisTok:
		return nil, syntaxErrAt(n.Pos(), "'...' is only allowed inside sequences and range alternatives")
	case *syntax.Call:
		return p.convertCall(n)
	case *syntax.ListExpr:
		return p.convertSeq(n.Pos(), n.Elts)
	case *syntax.TupleExpr:
		return p.convertSeq(n.Pos(), n.Elts)
	case *syntax.MapExpr:
		return p.convertMap(n)
	}
	return nil, syntaxErrAt(node.Pos(), fmt.Sprintf("%T is not supported in pattern matching", node))
}

// convertName maps a bare name: `_` is the wildcard, a dotted name is a
// zero-arity deconstruction reference, anything else is binding sugar.
func (p *treeParser) convertName(n *syntax.Ident) (Pattern, error) {
	if n.Name == "_" {
		return &Wildcard{}, nil
	}
	if isDotted(n.Name) {
		return p.deconstructRef(n)
	}
	if err := p.declare(n.Name, n.Pos()); err != nil {
		return nil, err
	}
	return &Binding{Name: n.Name, Sub: &Wildcard{}}, nil
}

func (p *treeParser) deconstructRef(n *syntax.Ident) (Pattern, error) {
	tag, ok := p.reg.Lookup(n.Name)
	if !ok {
		return nil, validationErr(fmt.Sprintf("unknown deconstructor %q", n.Name))
	}
	return &Deconstruct{Tag: tag}, nil
}

// convertBind handles `name @ pattern`.
func (p *treeParser) convertBind(n *syntax.Binary) (Pattern, error) {
	target, ok := n.X.(*syntax.Ident)
	if !ok || isDotted(target.Name) {
		return nil, syntaxErrAt(n.X.Pos(), "the target of a binding must be a valid name")
	}
	var sub Pattern
	var err error
	// `a @ b` reads the bare name b as a zero-arity deconstruction, the
	// same as `a @ b()`.
	if ident, isIdent := n.Y.(*syntax.Ident); isIdent && ident.Name != "_" {
		sub, err = p.deconstructRef(ident)
	} else {
		sub, err = p.convert(n.Y)
	}
	if err != nil {
		return nil, err
	}
	return p.makeBinding(target, sub)
}

func (p *treeParser) makeBinding(target *syntax.Ident, sub Pattern) (Pattern, error) {
	if target.Name == "_" {
		// The wildcard is never a binding target.
		return sub, nil
	}
	if sub.Kind() == KindBinding {
		return nil, syntaxErrAt(target.Pos(), "binding value to more than one name")
	}
	if err := p.declare(target.Name, target.Pos()); err != nil {
		return nil, err
	}
	return &Binding{Name: target.Name, Sub: sub}, nil
}

// convertOr flattens a `|` chain, folds `low | ... | high` triples into
// Range members, and validates the alternation restrictions.
func (p *treeParser) convertOr(n *syntax.Binary) (Pattern, error) {
	elts := flattenOr(n)

	// `x @ 2 | 3` is read as `x @ (2 | 3)`: the binding targets the whole
	// alternation, not its first member.
	if bind, ok := elts[0].(*syntax.Binary); ok && bind.Op == syntax.OpBind {
		target, isIdent := bind.X.(*syntax.Ident)
		if !isIdent || isDotted(target.Name) {
			return nil, syntaxErrAt(bind.X.Pos(), "the target of a binding must be a valid name")
		}
		elts[0] = bind.Y
		alt, err := p.convertMembers(n, elts)
		if err != nil {
			return nil, err
		}
		return p.makeBinding(target, alt)
	}

	return p.convertMembers(n, elts)
}

func (p *treeParser) convertMembers(n *syntax.Binary, elts []syntax.Node) (Pattern, error) {
	p.altDepth++
	defer func() { p.altDepth-- }()

	var members []Pattern
	for i := 0; i < len(elts); i++ {
		if ell, ok := elts[i].(*syntax.EllipsisTok); ok {
			if i == 0 || i+1 == len(elts) {
				return nil, syntaxErrAt(ell.Pos(), "'...' cannot be the first or last element in alternatives")
			}
			rng, popLow, err := p.foldRange(members, elts[i+1], ell.Pos())
			if err != nil {
				return nil, err
			}
			if popLow {
				members = members[:len(members)-1]
			}
			members = append(members, rng)
			i++ // the high bound is part of the range
			continue
		}
		member, err := p.convertAltMember(elts[i])
		if err != nil {
			return nil, err
		}
		if member.Kind() == KindWildcard || member.Kind() == KindRest {
			return nil, validationErr("wildcards not allowed in alternatives")
		}
		members = append(members, member)
	}
	return &Alternation{Members: members}, nil
}

// convertAltMember converts one top-level alternation member. A bare name in
// member position is a type tag and matches as a zero-arity deconstruction;
// deeper down, bare names are binding sugar and rejected like any binding.
func (p *treeParser) convertAltMember(node syntax.Node) (Pattern, error) {
	if ident, ok := node.(*syntax.Ident); ok && ident.Name != "_" {
		return p.deconstructRef(ident)
	}
	return p.convert(node)
}

// foldRange turns the `low | ... | high` triple into a Range member. The low
// bound is the previously converted member, which the range subsumes; a
// chained `a | ... | b | ... | c` reuses the preceding range's high bound
// instead. popLow reports whether the caller must drop the last member.
func (p *treeParser) foldRange(members []Pattern, highNode syntax.Node, pos syntax.Pos) (rng *Range, popLow bool, err error) {
	badBounds := syntaxErrAt(pos, "'...' can only be applied to int or single-character string literals")
	highLit, ok := highNode.(*syntax.BasicLit)
	if !ok {
		return nil, false, badBounds
	}
	var low any
	switch prev := members[len(members)-1].(type) {
	case *Literal:
		low = prev.Value
		popLow = true
	case *Range:
		low = prev.High
	default:
		return nil, false, badBounds
	}

	switch lowVal := low.(type) {
	case int64:
		highVal, ok := highLit.Value.(int64)
		if !ok {
			return nil, false, syntaxErrAt(pos, "'...' bounds must have the same type")
		}
		rng = &Range{Domain: IntRange, Low: lowVal, High: highVal}
	case string:
		highVal, ok := highLit.Value.(string)
		if !ok {
			return nil, false, syntaxErrAt(pos, "'...' bounds must have the same type")
		}
		if runeCount(lowVal) != 1 || runeCount(highVal) != 1 {
			return nil, false, badBounds
		}
		rng = &Range{Domain: CharRange, Low: lowVal, High: highVal}
	default:
		return nil, false, badBounds
	}
	return rng, popLow, nil
}

func (p *treeParser) convertRest(n *syntax.Rest) (Pattern, error) {
	ident := n.X
	if ident.Name == "_" {
		return &Rest{}, nil
	}
	if err := p.declare(ident.Name, ident.Pos()); err != nil {
		return nil, err
	}
	return &Rest{Name: ident.Name}, nil
}

// convertCall maps `Tag(a, b)` and `Tag(name=p)` deconstruction syntax.
func (p *treeParser) convertCall(n *syntax.Call) (Pattern, error) {
	if len(n.Args) > 0 && len(n.Kwargs) > 0 {
		return nil, validationErr("cannot mix positional and keyword arguments for deconstructor")
	}
	tag, ok := p.reg.Lookup(n.Fun.Name)
	if !ok {
		return nil, validationErr(fmt.Sprintf("unknown deconstructor %q", n.Fun.Name))
	}
	dec := &Deconstruct{Tag: tag}
	for _, arg := range n.Args {
		sub, err := p.convert(arg)
		if err != nil {
			return nil, err
		}
		dec.Slots = append(dec.Slots, sub)
	}
	seen := make(map[string]bool, len(n.Kwargs))
	for _, kw := range n.Kwargs {
		if seen[kw.Name] {
			return nil, validationErr(fmt.Sprintf("duplicate field %q in deconstructor %q", kw.Name, n.Fun.Name))
		}
		seen[kw.Name] = true
		sub, err := p.convert(kw.Value)
		if err != nil {
			return nil, err
		}
		dec.Fields = append(dec.Fields, Field{Name: kw.Name, Sub: sub})
	}
	return dec, nil
}

// convertSeq maps list and tuple templates and validates rest-pattern
// placement: every region between two rests needs a non-wildcard anchor, and
// a plain wildcard may not sit directly against a rest.
func (p *treeParser) convertSeq(pos syntax.Pos, elts []syntax.Node) (Pattern, error) {
	seq := &Sequence{Elements: make([]Pattern, 0, len(elts))}
	for _, elt := range elts {
		var sub Pattern
		var err error
		if _, isEllipsis := elt.(*syntax.EllipsisTok); isEllipsis {
			sub = &Rest{}
		} else {
			sub, err = p.convert(elt)
		}
		if err != nil {
			return nil, err
		}
		seq.Elements = append(seq.Elements, sub)
	}
	if err := validateSequence(seq); err != nil {
		return nil, err
	}
	return seq, nil
}

func validateSequence(seq *Sequence) error {
	groups, nRest := splitAtRests(seq.Elements)
	if nRest == 0 {
		return nil
	}
	left := groups[0]
	right := groups[len(groups)-1]
	interior := groups[1 : len(groups)-1]

	if len(left) > 0 && isPlainWildcard(left[len(left)-1]) {
		return validationErr("invalid wildcards in sequence")
	}
	if len(right) > 0 && isPlainWildcard(right[0]) {
		return validationErr("invalid wildcards in sequence")
	}
	for _, group := range interior {
		// An empty region between two rests cannot be segmented
		// unambiguously; a region of nothing but wildcards cannot anchor
		// the scan.
		if len(group) == 0 {
			return validationErr("invalid wildcards in sequence")
		}
		if isPlainWildcard(group[0]) || isPlainWildcard(group[len(group)-1]) {
			return validationErr("invalid wildcards in sequence")
		}
		allWild := true
		for _, elt := range group {
			if !isWildcardLike(elt) {
				allWild = false
				break
			}
		}
		if allWild {
			return validationErr("invalid wildcards in sequence")
		}
	}
	return nil
}

// splitAtRests partitions sequence elements into the runs of fixed elements
// around each rest. The result always has one more group than rests.
func splitAtRests(elements []Pattern) (groups [][]Pattern, nRest int) {
	groups = [][]Pattern{nil}
	for _, elt := range elements {
		if elt.Kind() == KindRest {
			groups = append(groups, nil)
			nRest++
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], elt)
	}
	return groups, nRest
}

func isPlainWildcard(p Pattern) bool {
	return p.Kind() == KindWildcard
}

// isWildcardLike also treats a binding of a wildcard (a bare name) as a
// wildcard: it constrains nothing and cannot anchor a scan.
func isWildcardLike(p Pattern) bool {
	switch n := p.(type) {
	case *Wildcard:
		return true
	case *Binding:
		return isWildcardLike(n.Sub)
	}
	return false
}

func (p *treeParser) convertMap(n *syntax.MapExpr) (Pattern, error) {
	m := &Map{Entries: make([]MapEntry, 0, len(n.Entries))}
	seen := make(map[any]bool, len(n.Entries))
	for _, entry := range n.Entries {
		key := entry.Key.Value
		if seen[key] {
			return nil, validationErr(fmt.Sprintf("duplicate key %v in map pattern", key))
		}
		seen[key] = true
		sub, err := p.convert(entry.Value)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, MapEntry{Key: key, Sub: sub})
	}
	return m, nil
}

func (p *treeParser) declare(name string, pos syntax.Pos) error {
	if p.altDepth > 0 {
		return validationErr("bindings not allowed in alternatives")
	}
	if p.bound[name] {
		return validationErr(fmt.Sprintf("redefinition of name %s", name))
	}
	p.bound[name] = true
	return nil
}

func flattenOr(n *syntax.Binary) []syntax.Node {
	if left, ok := n.X.(*syntax.Binary); ok && left.Op == syntax.OpOr {
		return append(flattenOr(left), n.Y)
	}
	return []syntax.Node{n.X, n.Y}
}

func isDotted(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return true
		}
	}
	return false
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func syntaxErrAt(pos syntax.Pos, msg string) error {
	return pamaerr.NewSyntaxErrorAt(pos.Line, pos.Col, msg)
}

func validationErr(msg string) error {
	return pamaerr.NewValidationError(msg)
}
