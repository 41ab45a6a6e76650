package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/pama/pamaerr"
)

func tokenTypes(toks []Token) []TokenType {
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	return types
}

func TestLexerTokenStream(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []TokenType
	}{
		{
			name:     "deconstruction call",
			src:      "Point(x, 0)",
			expected: []TokenType{IDENT, LPAREN, IDENT, COMMA, INT, RPAREN, EOF},
		},
		{
			name:     "alternation with range",
			src:      "1 | ... | 4",
			expected: []TokenType{INT, OR, ELLIPSIS, OR, INT, EOF},
		},
		{
			name:     "binding and rest",
			src:      "[head, *tail] @ all",
			expected: []TokenType{LBRACKET, IDENT, COMMA, STAR, IDENT, RBRACKET, AT, IDENT, EOF},
		},
		{
			name:     "map literal",
			src:      `{"k": v}`,
			expected: []TokenType{LBRACE, STRING, COLON, IDENT, RBRACE, EOF},
		},
		{
			name:     "keywords",
			src:      "true false nil",
			expected: []TokenType{TRUE, FALSE, NIL, EOF},
		},
		{
			name:     "dotted name",
			src:      "geo.Point",
			expected: []TokenType{IDENT, DOT, IDENT, EOF},
		},
		{
			name:     "keyword argument",
			src:      "Point(x=1)",
			expected: []TokenType{IDENT, LPAREN, IDENT, ASSIGN, INT, RPAREN, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := NewLexer(tt.src).Tokens()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokenTypes(toks))
		})
	}
}

func TestLexerLiteralValues(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		typ      TokenType
		expected any
	}{
		{name: "int", src: "42", typ: INT, expected: int64(42)},
		{name: "float", src: "3.5", typ: FLOAT, expected: 3.5},
		{name: "double-quoted string", src: `"hi\n"`, typ: STRING, expected: "hi\n"},
		{name: "single-quoted string", src: "'a'", typ: CHAR, expected: "a"},
		{name: "escaped quote", src: `"say \"hi\""`, typ: STRING, expected: `say "hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := NewLexer(tt.src).Tokens()
			require.NoError(t, err)
			require.Len(t, toks, 2) // literal plus EOF
			assert.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.expected, toks[0].Literal)
		})
	}
}

// An integer followed by `...` must not swallow the first dot as a fraction:
// `1...4` is the range form INT ELLIPSIS INT.
func TestLexerIntBeforeEllipsis(t *testing.T) {
	toks, err := NewLexer("1...4").Tokens()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{INT, ELLIPSIS, INT, EOF}, tokenTypes(toks))
}

func TestLexerPositions(t *testing.T) {
	toks, err := NewLexer("a |\n  b").Tokens()
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[2].Col)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated string", src: `"abc`},
		{name: "bad escape", src: `"\q"`},
		{name: "stray character", src: "a ~ b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.src).Tokens()
			require.Error(t, err)
			assert.True(t, pamaerr.IsSyntax(err))
		})
	}
}
