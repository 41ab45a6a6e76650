// Package syntax is the pattern template front end: a lexer and a small
// recursive-descent parser producing the expression-shaped template tree that
// the pattern package consumes. The front end knows nothing about pattern
// semantics; it only enforces the expression grammar.
package syntax

// Pos is a 1-based source position inside a pattern template.
type Pos struct {
	Line int
	Col  int
}

// Node is a template tree node.
type Node interface {
	Pos() Pos
}

// Ident is a bare, possibly dotted, name such as `x`, `_` or `ast.BinOp`.
type Ident struct {
	NamePos Pos
	Name    string
}

// LitKind distinguishes literal flavors where the Go value alone is not
// enough (a single-quoted char lexes to a string value).
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
	CharLit
	BoolLit
	NilLit
)

// BasicLit is a literal value: int64, float64, string, bool or nil.
type BasicLit struct {
	ValuePos Pos
	Kind     LitKind
	Value    any
}

// Op is a binary operator inside a template.
type Op int

const (
	OpOr   Op = iota // "|", alternation
	OpBind           // "@", name binding
)

// Binary is a binary operation `X op Y`.
type Binary struct {
	OpPos Pos
	Op    Op
	X     Node
	Y     Node
}

// Rest is a `*name` or `*_` sequence element.
type Rest struct {
	StarPos Pos
	X       *Ident
}

// EllipsisTok is the reserved `...` token: an any-length skip inside a
// sequence, or the middle marker of a range alternation.
type EllipsisTok struct {
	TokPos Pos
}

// Kwarg is a `name=pattern` argument of a deconstruction call.
type Kwarg struct {
	NamePos Pos
	Name    string
	Value   Node
}

// Call is deconstruction syntax `Tag(args…)` or `Tag(name=pattern…)`.
type Call struct {
	Fun    *Ident
	Args   []Node
	Kwargs []Kwarg
}

// ListExpr is a bracketed sequence `[a, b, c]`.
type ListExpr struct {
	OpenPos Pos
	Elts    []Node
}

// TupleExpr is a parenthesized sequence `(a, b, c)`.
type TupleExpr struct {
	OpenPos Pos
	Elts    []Node
}

// MapEntry is one `key: pattern` pair of a map template.
type MapEntry struct {
	Key   *BasicLit
	Value Node
}

// MapExpr is a braced map template `{key: pattern, …}`.
type MapExpr struct {
	OpenPos Pos
	Entries []MapEntry
}

func (n *Ident) Pos() Pos       { return n.NamePos }
func (n *BasicLit) Pos() Pos    { return n.ValuePos }
func (n *Binary) Pos() Pos      { return n.X.Pos() }
func (n *Rest) Pos() Pos        { return n.StarPos }
func (n *EllipsisTok) Pos() Pos { return n.TokPos }
func (n *Call) Pos() Pos        { return n.Fun.Pos() }
func (n *ListExpr) Pos() Pos    { return n.OpenPos }
func (n *TupleExpr) Pos() Pos   { return n.OpenPos }
func (n *MapExpr) Pos() Pos     { return n.OpenPos }
