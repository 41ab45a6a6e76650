package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/pama/pamaerr"
)

func mustParse(t *testing.T, src string) Node {
	t.Helper()
	node, err := Parse(src)
	require.NoError(t, err)
	return node
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		kind     LitKind
		expected any
	}{
		{name: "int", src: "42", kind: IntLit, expected: int64(42)},
		{name: "negative int", src: "-7", kind: IntLit, expected: int64(-7)},
		{name: "float", src: "2.5", kind: FloatLit, expected: 2.5},
		{name: "negative float", src: "-2.5", kind: FloatLit, expected: -2.5},
		{name: "string", src: `"abc"`, kind: StringLit, expected: "abc"},
		{name: "char", src: "'z'", kind: CharLit, expected: "z"},
		{name: "true", src: "true", kind: BoolLit, expected: true},
		{name: "false", src: "false", kind: BoolLit, expected: false},
		{name: "nil", src: "nil", kind: NilLit, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, ok := mustParse(t, tt.src).(*BasicLit)
			require.True(t, ok)
			assert.Equal(t, tt.kind, lit.Kind)
			assert.Equal(t, tt.expected, lit.Value)
		})
	}
}

func TestParseOrChainNestsLeft(t *testing.T) {
	node := mustParse(t, "1 | 2 | 3")

	outer, ok := node.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpOr, outer.Op)

	inner, ok := outer.X.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpOr, inner.Op)
	assert.Equal(t, int64(1), inner.X.(*BasicLit).Value)
	assert.Equal(t, int64(2), inner.Y.(*BasicLit).Value)
	assert.Equal(t, int64(3), outer.Y.(*BasicLit).Value)
}

func TestParseBindBindsTighterThanOr(t *testing.T) {
	// `x @ 2 | 3` parses as (x @ 2) | 3; the pattern layer redistributes
	// the binding over the alternatives.
	node := mustParse(t, "x @ 2 | 3")

	outer, ok := node.(*Binary)
	require.True(t, ok)
	require.Equal(t, OpOr, outer.Op)

	bind, ok := outer.X.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpBind, bind.Op)
	assert.Equal(t, "x", bind.X.(*Ident).Name)
}

func TestParseEllipsisAlternative(t *testing.T) {
	node := mustParse(t, "1 | ... | 4")

	outer := node.(*Binary)
	inner := outer.X.(*Binary)
	_, ok := inner.Y.(*EllipsisTok)
	assert.True(t, ok)
}

func TestParseCallForms(t *testing.T) {
	t.Run("positional", func(t *testing.T) {
		call, ok := mustParse(t, "Point(x, 0)").(*Call)
		require.True(t, ok)
		assert.Equal(t, "Point", call.Fun.Name)
		require.Len(t, call.Args, 2)
		assert.Empty(t, call.Kwargs)
		assert.Equal(t, "x", call.Args[0].(*Ident).Name)
	})

	t.Run("keyword", func(t *testing.T) {
		call, ok := mustParse(t, "Point(x=1, y=_)").(*Call)
		require.True(t, ok)
		assert.Empty(t, call.Args)
		require.Len(t, call.Kwargs, 2)
		assert.Equal(t, "x", call.Kwargs[0].Name)
		assert.Equal(t, "y", call.Kwargs[1].Name)
	})

	t.Run("dotted name", func(t *testing.T) {
		call, ok := mustParse(t, "geo.Point(1, 2)").(*Call)
		require.True(t, ok)
		assert.Equal(t, "geo.Point", call.Fun.Name)
	})

	t.Run("nested", func(t *testing.T) {
		call, ok := mustParse(t, "Circle(Point(0, 0), r)").(*Call)
		require.True(t, ok)
		_, ok = call.Args[0].(*Call)
		assert.True(t, ok)
	})
}

func TestParseParenthesesAndTuples(t *testing.T) {
	t.Run("grouping is transparent", func(t *testing.T) {
		lit, ok := mustParse(t, "(42)").(*BasicLit)
		require.True(t, ok)
		assert.Equal(t, int64(42), lit.Value)
	})

	t.Run("trailing comma makes a one-tuple", func(t *testing.T) {
		tup, ok := mustParse(t, "(42,)").(*TupleExpr)
		require.True(t, ok)
		assert.Len(t, tup.Elts, 1)
	})

	t.Run("empty tuple", func(t *testing.T) {
		tup, ok := mustParse(t, "()").(*TupleExpr)
		require.True(t, ok)
		assert.Empty(t, tup.Elts)
	})

	t.Run("many elements", func(t *testing.T) {
		tup, ok := mustParse(t, "(a, *rest, 3)").(*TupleExpr)
		require.True(t, ok)
		require.Len(t, tup.Elts, 3)
		rest, ok := tup.Elts[1].(*Rest)
		require.True(t, ok)
		assert.Equal(t, "rest", rest.X.Name)
	})
}

func TestParseRestElements(t *testing.T) {
	list, ok := mustParse(t, "[*init, 9, *_]").(*ListExpr)
	require.True(t, ok)
	require.Len(t, list.Elts, 3)

	named, ok := list.Elts[0].(*Rest)
	require.True(t, ok)
	assert.Equal(t, "init", named.X.Name)

	anon, ok := list.Elts[2].(*Rest)
	require.True(t, ok)
	assert.Equal(t, "_", anon.X.Name)
}

func TestParseList(t *testing.T) {
	list, ok := mustParse(t, "[1, ..., 9]").(*ListExpr)
	require.True(t, ok)
	require.Len(t, list.Elts, 3)
	_, ok = list.Elts[1].(*EllipsisTok)
	assert.True(t, ok)
}

func TestParseMap(t *testing.T) {
	m, ok := mustParse(t, `{"k": v, 1: _, true: 0, -2: x}`).(*MapExpr)
	require.True(t, ok)
	require.Len(t, m.Entries, 4)
	assert.Equal(t, "k", m.Entries[0].Key.Value)
	assert.Equal(t, int64(1), m.Entries[1].Key.Value)
	assert.Equal(t, true, m.Entries[2].Key.Value)
	assert.Equal(t, int64(-2), m.Entries[3].Key.Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty input", src: ""},
		{name: "trailing garbage", src: "1 2"},
		{name: "unclosed call", src: "Point(1"},
		{name: "unclosed list", src: "[1, 2"},
		{name: "star without a name", src: "*1"},
		{name: "minus without a number", src: `-"a"`},
		{name: "float map key", src: "{1.5: x}"},
		{name: "nil map key", src: "{nil: x}"},
		{name: "empty map", src: "{}"},
		{name: "map key must be a literal", src: "{x: 1}"},
		{name: "dangling or", src: "1 |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.True(t, pamaerr.IsSyntax(err), "expected a syntax error, got %v", err)
		})
	}
}
