package parser

import (
	"lumen/internal/ast"
	"lumen/internal/lexer"
	"lumen/internal/source"
)

// Expression grammar, precedence climbing, loosest to tightest:
//
//	expression   = equality
//	equality     = relational (("==" | "!=") relational)*
//	relational   = additive (("<" | "<=" | ">" | ">=") additive)*
//	additive     = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = unary (("*" | "/" | "%") unary)*
//	unary        = ("+" | "-" | "!" | "&" | "*") unary | postfix
//	postfix      = primary ("[" expression "]")*
//	primary      = INT | CHAR | STRING | "true" | "false"
//	             | IDENT "(" args ")" | IDENT | "(" cast-or-group ")"
func (p *Parser) parseExpression() ast.Expr {
	return p.parseEquality()
}

func (p *Parser) parseEquality() ast.Expr {
	lhs := p.parseRelational()
	for {
		var op ast.BinOpKind
		switch p.peek().Type {
		case lexer.EQ:
			op = ast.Eq
		case lexer.NE:
			op = ast.Ne
		default:
			return lhs
		}
		begin := p.peek()
		p.advance()
		rhs := p.parseRelational()
		lhs = binOp(lhs, op, rhs, begin)
	}
}

func (p *Parser) parseRelational() ast.Expr {
	lhs := p.parseAdditive()
	for {
		var op ast.BinOpKind
		switch p.peek().Type {
		case lexer.LT:
			op = ast.Lt
		case lexer.LE:
			op = ast.Le
		case lexer.GT:
			op = ast.Gt
		case lexer.GE:
			op = ast.Ge
		default:
			return lhs
		}
		begin := p.peek()
		p.advance()
		rhs := p.parseAdditive()
		lhs = binOp(lhs, op, rhs, begin)
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	lhs := p.parseMultiplicative()
	for {
		var op ast.BinOpKind
		switch p.peek().Type {
		case lexer.PLUS:
			op = ast.Add
		case lexer.MINUS:
			op = ast.Sub
		default:
			return lhs
		}
		begin := p.peek()
		p.advance()
		rhs := p.parseMultiplicative()
		lhs = binOp(lhs, op, rhs, begin)
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	lhs := p.parseUnary()
	for {
		var op ast.BinOpKind
		switch p.peek().Type {
		case lexer.STAR:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		case lexer.PERCENT:
			op = ast.Mod
		default:
			return lhs
		}
		begin := p.peek()
		p.advance()
		rhs := p.parseUnary()
		lhs = binOp(lhs, op, rhs, begin)
	}
}

func binOp(lhs ast.Expr, op ast.BinOpKind, rhs ast.Expr, opTok lexer.Token) ast.Expr {
	n := &ast.BinOp{Lhs: lhs, Op: op, Rhs: rhs}
	n.SetPos(source.Range{Begin: lhs.Range().Begin, End: rhs.Range().End})
	_ = opTok
	return n
}

func (p *Parser) parseUnary() ast.Expr {
	begin := p.peek()
	switch p.peek().Type {
	case lexer.PLUS:
		p.advance()
		rhs := p.parseUnary()
		n := &ast.UnaryOp{Op: ast.Pos, Rhs: rhs}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.MINUS:
		p.advance()
		rhs := p.parseUnary()
		n := &ast.UnaryOp{Op: ast.Neg, Rhs: rhs}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.NOT:
		p.advance()
		rhs := p.parseUnary()
		n := &ast.UnaryOp{Op: ast.Not, Rhs: rhs}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.AMP:
		p.advance()
		rhs := p.parseUnary()
		n := &ast.UnaryOp{Op: ast.Addr, Rhs: rhs}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.STAR:
		p.advance()
		rhs := p.parseUnary()
		n := &ast.UnaryOp{Op: ast.Deref, Rhs: rhs}
		n.SetPos(p.rangeFrom(begin))
		return n
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	begin := p.peek()
	e := p.parsePrimary()
	for p.check(lexer.LBRACKET) {
		p.advance()
		idx := p.parseExpression()
		p.expect(lexer.RBRACKET)
		sub := &ast.Subscript{Ident: e, Index: idx}
		sub.SetPos(p.rangeFrom(begin))
		e = sub
	}
	return e
}

// parsePrimary handles literals, identifiers, calls, and both grouping
// parens and cast parens. A `(` is a cast when the very next tokens start
// with a builtin type keyword, `[`, `&` or `*`, spell a type annotation and
// are immediately followed by `)`; otherwise it is a grouping, so a bare
// class or union name in parens is never read as a cast.
func (p *Parser) parsePrimary() ast.Expr {
	begin := p.peek()
	switch p.peek().Type {
	case lexer.INT:
		return p.parseIntLit()
	case lexer.TRUE:
		p.advance()
		n := &ast.BoolLit{Value: true}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.FALSE:
		p.advance()
		n := &ast.BoolLit{Value: false}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.CHAR:
		tok := p.advance()
		r := []rune(tok.Lexeme)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		n := &ast.CharLit{Value: v}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.STRING:
		tok := p.advance()
		n := &ast.StringLit{Value: []rune(tok.Lexeme)}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.IDENT:
		name := p.advance()
		if p.check(lexer.LPAREN) {
			return p.parseCall(begin, name.Lexeme)
		}
		n := &ast.Ident{Name: name.Lexeme}
		n.SetPos(p.rangeFrom(begin))
		return n
	case lexer.LPAREN:
		if p.isCastAhead() {
			p.advance()
			t := p.parseType()
			p.expect(lexer.RPAREN)
			lhs := p.parseUnary()
			n := &ast.Cast{Lhs: lhs, Type: t}
			n.SetPos(p.rangeFrom(begin))
			return n
		}
		p.advance()
		e := p.parseExpression()
		p.expect(lexer.RPAREN)
		return e
	default:
		p.errorf(p.peek(), "expected an expression, found %s", p.peek().Type)
		panic("unreachable")
	}
}

// isCastAhead reports whether the tokens following the current `(` spell a
// type annotation immediately closed by `)`, without consuming anything.
func (p *Parser) isCastAhead() bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.advance() // the '('
	if !p.isTypeStart() {
		return false
	}
	func() {
		defer func() { recover() }()
		p.parseType()
	}()
	return p.check(lexer.RPAREN)
}

func (p *Parser) parseCall(begin lexer.Token, callee string) ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for !p.check(lexer.RPAREN) {
		args = append(args, p.parseExpression())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN)
	n := &ast.Call{Callee: callee, Args: args}
	n.SetPos(p.rangeFrom(begin))
	return n
}

func (p *Parser) parseIntLit() ast.Expr {
	begin := p.peek()
	tok := p.advance()
	lexeme := tok.Lexeme
	unsigned := false
	if len(lexeme) > 0 && (lexeme[len(lexeme)-1] == 'u' || lexeme[len(lexeme)-1] == 'U') {
		unsigned = true
		lexeme = lexeme[:len(lexeme)-1]
	}
	val := parseIntLexeme(lexeme)

	kind := ast.LitI32
	switch {
	case unsigned && val > uint64(^uint32(0)):
		kind = ast.LitU64
	case unsigned:
		kind = ast.LitU32
	case val > uint64(^uint32(0)>>1):
		kind = ast.LitI64
	}

	n := &ast.IntLit{Value: val, Kind: kind, IsUnsigned: unsigned}
	n.SetPos(p.rangeFrom(begin))
	return n
}

func parseIntLexeme(s string) uint64 {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		var n uint64
		for _, r := range s[2:] {
			n *= 16
			switch {
			case r >= '0' && r <= '9':
				n += uint64(r - '0')
			case r >= 'a' && r <= 'f':
				n += uint64(r-'a') + 10
			case r >= 'A' && r <= 'F':
				n += uint64(r-'A') + 10
			}
		}
		return n
	}
	var n uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + uint64(r-'0')
	}
	return n
}
