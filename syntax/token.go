package syntax

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COMMA    // ","
	COLON    // ":"
	DOT      // "."
	ELLIPSIS // "..."

	// Operators
	OR     // "|"
	AT     // "@"
	STAR   // "*"
	MINUS  // "-"
	ASSIGN // "="

	// Literals & identifiers
	IDENT
	INT
	FLOAT
	STRING
	CHAR

	// Keywords
	TRUE
	FALSE
	NIL
)

var tokenNames = map[TokenType]string{
	EOF:      "EOF",
	ILLEGAL:  "ILLEGAL",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",
	COMMA:    ",",
	COLON:    ":",
	DOT:      ".",
	ELLIPSIS: "...",
	OR:       "|",
	AT:       "@",
	STAR:     "*",
	MINUS:    "-",
	ASSIGN:   "=",
	IDENT:    "identifier",
	INT:      "integer",
	FLOAT:    "float",
	STRING:   "string",
	CHAR:     "char",
	TRUE:     "true",
	FALSE:    "false",
	NIL:      "nil",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token with an optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string // raw text slice
	Literal any    // parsed value for literals
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"nil":   NIL,
}
