package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"martianoff/pama/pamaerr"
)

// Lexer turns a pattern template source string into tokens. The template
// sub-language is a single expression; newlines are treated as ordinary
// whitespace.
type Lexer struct {
	src    string
	offset int // byte offset of the next rune
	line   int
	col    int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokens scans the whole input and returns the token stream terminated by an
// EOF token, or the first scan error.
func (l *Lexer) Tokens() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()
	line, col := l.line, l.col
	if l.offset >= len(l.src) {
		return Token{Type: EOF, Line: line, Col: col}, nil
	}

	r := l.peek()
	switch {
	case isIdentStart(r):
		return l.scanIdent(line, col), nil
	case unicode.IsDigit(r):
		return l.scanNumber(line, col)
	}

	l.advance()
	switch r {
	case '(':
		return Token{Type: LPAREN, Lexeme: "(", Line: line, Col: col}, nil
	case ')':
		return Token{Type: RPAREN, Lexeme: ")", Line: line, Col: col}, nil
	case '[':
		return Token{Type: LBRACKET, Lexeme: "[", Line: line, Col: col}, nil
	case ']':
		return Token{Type: RBRACKET, Lexeme: "]", Line: line, Col: col}, nil
	case '{':
		return Token{Type: LBRACE, Lexeme: "{", Line: line, Col: col}, nil
	case '}':
		return Token{Type: RBRACE, Lexeme: "}", Line: line, Col: col}, nil
	case ',':
		return Token{Type: COMMA, Lexeme: ",", Line: line, Col: col}, nil
	case ':':
		return Token{Type: COLON, Lexeme: ":", Line: line, Col: col}, nil
	case '|':
		return Token{Type: OR, Lexeme: "|", Line: line, Col: col}, nil
	case '@':
		return Token{Type: AT, Lexeme: "@", Line: line, Col: col}, nil
	case '*':
		return Token{Type: STAR, Lexeme: "*", Line: line, Col: col}, nil
	case '-':
		return Token{Type: MINUS, Lexeme: "-", Line: line, Col: col}, nil
	case '=':
		return Token{Type: ASSIGN, Lexeme: "=", Line: line, Col: col}, nil
	case '.':
		if strings.HasPrefix(l.src[l.offset:], "..") {
			l.advance()
			l.advance()
			return Token{Type: ELLIPSIS, Lexeme: "...", Line: line, Col: col}, nil
		}
		return Token{Type: DOT, Lexeme: ".", Line: line, Col: col}, nil
	case '"':
		return l.scanString(line, col, '"')
	case '\'':
		return l.scanString(line, col, '\'')
	}

	return Token{}, pamaerr.NewSyntaxErrorAt(line, col, "unexpected character "+strconv.QuoteRune(r))
}

func (l *Lexer) skipSpace() {
	for l.offset < len(l.src) {
		r := l.peek()
		if !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) peek() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) scanIdent(line, col int) Token {
	start := l.offset
	for l.offset < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.src[start:l.offset]
	if kw, ok := keywords[text]; ok {
		tok := Token{Type: kw, Lexeme: text, Line: line, Col: col}
		switch kw {
		case TRUE:
			tok.Literal = true
		case FALSE:
			tok.Literal = false
		}
		return tok
	}
	return Token{Type: IDENT, Lexeme: text, Line: line, Col: col}
}

func (l *Lexer) scanNumber(line, col int) (Token, error) {
	start := l.offset
	for l.offset < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	// A '.' starts a fraction only when followed by a digit; "1..." must lex
	// as the integer 1 followed by an ellipsis.
	if l.offset+1 < len(l.src) && l.src[l.offset] == '.' && unicode.IsDigit(rune(l.src[l.offset+1])) {
		isFloat = true
		l.advance()
		for l.offset < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	text := l.src[start:l.offset]
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, pamaerr.NewSyntaxErrorAt(line, col, "invalid number "+strconv.Quote(text))
		}
		return Token{Type: FLOAT, Lexeme: text, Literal: v, Line: line, Col: col}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, pamaerr.NewSyntaxErrorAt(line, col, "invalid number "+strconv.Quote(text))
	}
	return Token{Type: INT, Lexeme: text, Literal: v, Line: line, Col: col}, nil
}

func (l *Lexer) scanString(line, col int, quote rune) (Token, error) {
	var sb strings.Builder
	for {
		if l.offset >= len(l.src) {
			return Token{}, pamaerr.NewSyntaxErrorAt(line, col, "unterminated string literal")
		}
		r := l.advance()
		if r == quote {
			break
		}
		if r == '\\' {
			if l.offset >= len(l.src) {
				return Token{}, pamaerr.NewSyntaxErrorAt(line, col, "unterminated string literal")
			}
			e := l.advance()
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteRune(e)
			default:
				return Token{}, pamaerr.NewSyntaxErrorAt(l.line, l.col, "invalid escape sequence \\"+string(e))
			}
			continue
		}
		sb.WriteRune(r)
	}
	typ := STRING
	text := sb.String()
	if quote == '\'' {
		typ = CHAR
	}
	return Token{Type: typ, Lexeme: text, Literal: text, Line: line, Col: col}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
