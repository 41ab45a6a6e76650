package syntax

import (
	"fmt"

	"martianoff/pama/pamaerr"
)

// Parse lexes and parses a full pattern template. The input must contain
// exactly one expression.
func Parse(src string) (Node, error) {
	toks, err := NewLexer(src).Tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != EOF {
		return nil, p.errorf("unexpected %s after pattern", p.cur().Type)
	}
	return node, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) peek() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t TokenType) (Token, error) {
	if p.cur().Type != t {
		return Token{}, p.errorf("expected %s, found %s", t, p.describe(p.cur()))
	}
	return p.next(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	tok := p.cur()
	return pamaerr.NewSyntaxErrorAt(tok.Line, tok.Col, fmt.Sprintf(format, args...))
}

func (p *parser) describe(tok Token) string {
	if tok.Type == EOF {
		return "end of pattern"
	}
	if tok.Lexeme != "" {
		return fmt.Sprintf("%q", tok.Lexeme)
	}
	return tok.Type.String()
}

// parseExpr := bindExpr { '|' (bindExpr | '...') }
// The '|' chain is kept flat by left-nesting Binary nodes; the pattern
// package flattens them again. An ellipsis may appear as a member (range
// marker); its placement is validated there, not here.
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseBind()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == OR {
		opTok := p.next()
		var right Node
		if p.cur().Type == ELLIPSIS {
			tok := p.next()
			right = &EllipsisTok{TokPos: Pos{tok.Line, tok.Col}}
		} else {
			right, err = p.parseBind()
			if err != nil {
				return nil, err
			}
		}
		left = &Binary{OpPos: Pos{opTok.Line, opTok.Col}, Op: OpOr, X: left, Y: right}
	}
	return left, nil
}

// parseBind := term [ '@' term ]
func (p *parser) parseBind() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != AT {
		return left, nil
	}
	opTok := p.next()
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &Binary{OpPos: Pos{opTok.Line, opTok.Col}, Op: OpBind, X: left, Y: right}, nil
}

// parseTerm := '*' IDENT | '...' | ['-'] primary
func (p *parser) parseTerm() (Node, error) {
	switch p.cur().Type {
	case STAR:
		starTok := p.next()
		identTok, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		return &Rest{
			StarPos: Pos{starTok.Line, starTok.Col},
			X:       &Ident{NamePos: Pos{identTok.Line, identTok.Col}, Name: identTok.Lexeme},
		}, nil
	case ELLIPSIS:
		tok := p.next()
		return &EllipsisTok{TokPos: Pos{tok.Line, tok.Col}}, nil
	case MINUS:
		tok := p.next()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		switch v := lit.Value.(type) {
		case int64:
			lit.Value = -v
		case float64:
			lit.Value = -v
		default:
			return nil, pamaerr.NewSyntaxErrorAt(tok.Line, tok.Col, "'-' must be followed by a numeric literal")
		}
		lit.ValuePos = Pos{tok.Line, tok.Col}
		return lit, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.cur()
	switch tok.Type {
	case INT, FLOAT, STRING, CHAR, TRUE, FALSE, NIL:
		return p.parseLiteral()
	case IDENT:
		return p.parseNameOrCall()
	case LPAREN:
		return p.parseTuple()
	case LBRACKET:
		return p.parseList()
	case LBRACE:
		return p.parseMap()
	}
	return nil, p.errorf("unexpected %s in pattern", p.describe(tok))
}

func (p *parser) parseLiteral() (*BasicLit, error) {
	tok := p.next()
	lit := &BasicLit{ValuePos: Pos{tok.Line, tok.Col}, Value: tok.Literal}
	switch tok.Type {
	case INT:
		lit.Kind = IntLit
	case FLOAT:
		lit.Kind = FloatLit
	case STRING:
		lit.Kind = StringLit
	case CHAR:
		lit.Kind = CharLit
	case TRUE, FALSE:
		lit.Kind = BoolLit
	case NIL:
		lit.Kind = NilLit
	default:
		return nil, pamaerr.NewSyntaxErrorAt(tok.Line, tok.Col, "expected a literal, found "+p.describe(tok))
	}
	return lit, nil
}

// parseNameOrCall := dottedName [ '(' args ')' ]
func (p *parser) parseNameOrCall() (Node, error) {
	first, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	name := first.Lexeme
	for p.cur().Type == DOT {
		p.next()
		part, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		name += "." + part.Lexeme
	}
	ident := &Ident{NamePos: Pos{first.Line, first.Col}, Name: name}
	if p.cur().Type != LPAREN {
		return ident, nil
	}
	p.next()
	call := &Call{Fun: ident}
	for p.cur().Type != RPAREN {
		if p.cur().Type == IDENT && p.peek().Type == ASSIGN {
			kwTok := p.next()
			p.next() // '='
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Kwargs = append(call.Kwargs, Kwarg{
				NamePos: Pos{kwTok.Line, kwTok.Col},
				Name:    kwTok.Lexeme,
				Value:   value,
			})
		} else {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		if p.cur().Type != COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

// parseTuple := '(' [expr {',' expr} [',']] ')'
// A single parenthesized expression without a trailing comma is grouping,
// not a one-element sequence.
func (p *parser) parseTuple() (Node, error) {
	open := p.next()
	if p.cur().Type == RPAREN {
		p.next()
		return &TupleExpr{OpenPos: Pos{open.Line, open.Col}}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == RPAREN {
		p.next()
		return first, nil
	}
	elts := []Node{first}
	for p.cur().Type == COMMA {
		p.next()
		if p.cur().Type == RPAREN {
			break
		}
		elt, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &TupleExpr{OpenPos: Pos{open.Line, open.Col}, Elts: elts}, nil
}

func (p *parser) parseList() (Node, error) {
	open := p.next()
	var elts []Node
	for p.cur().Type != RBRACKET {
		elt, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
		if p.cur().Type != COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	return &ListExpr{OpenPos: Pos{open.Line, open.Col}, Elts: elts}, nil
}

// parseMap := '{' entry {',' entry} [','] '}' with entry := literal ':' expr
func (p *parser) parseMap() (Node, error) {
	open := p.next()
	var entries []MapEntry
	for p.cur().Type != RBRACE {
		var key *BasicLit
		var err error
		if p.cur().Type == MINUS {
			minus := p.next()
			key, err = p.parseLiteral()
			if err != nil {
				return nil, err
			}
			iv, ok := key.Value.(int64)
			if !ok {
				return nil, pamaerr.NewSyntaxErrorAt(minus.Line, minus.Col, "'-' must be followed by a numeric literal")
			}
			key.Value = -iv
		} else {
			key, err = p.parseLiteral()
			if err != nil {
				return nil, err
			}
		}
		if key.Kind == FloatLit || key.Kind == NilLit {
			return nil, pamaerr.NewSyntaxErrorAt(key.ValuePos.Line, key.ValuePos.Col,
				"only keys of type string, int or bool are supported in map patterns")
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: value})
		if p.cur().Type != COMMA {
			break
		}
		p.next()
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, pamaerr.NewSyntaxErrorAt(open.Line, open.Col, "empty map pattern makes no sense here")
	}
	return &MapExpr{OpenPos: Pos{open.Line, open.Col}, Entries: entries}, nil
}
