package parser

import (
	"lumen/internal/ast"
	"lumen/internal/lexer"
)

func (p *Parser) parseCompound() *ast.Compound {
	begin := p.expect(lexer.LBRACE)
	var stmts []ast.Stmt
	for !p.check(lexer.RBRACE) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(lexer.RBRACE)
	c := &ast.Compound{Stmts: stmts}
	c.SetPos(p.rangeFrom(begin))
	return c
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Type {
	case lexer.LBRACE:
		return p.parseCompound()
	case lexer.LET:
		return p.parseVarDef()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.LOOP:
		return p.parseLoop()
	case lexer.BREAK:
		begin := p.advance()
		p.expect(lexer.SEMICOLON)
		s := &ast.Break{}
		s.SetPos(p.rangeFrom(begin))
		return s
	case lexer.CONTINUE:
		begin := p.advance()
		p.expect(lexer.SEMICOLON)
		s := &ast.Continue{}
		s.SetPos(p.rangeFrom(begin))
		return s
	case lexer.SEMICOLON:
		begin := p.advance()
		s := &ast.NilStmt{}
		s.SetPos(p.rangeFrom(begin))
		return s
	default:
		return p.parseSimpleStmt(true)
	}
}

func (p *Parser) parseVarDef() *ast.VarDef {
	begin := p.expect(lexer.LET)
	qual := ast.Immutable
	if p.match(lexer.MUTABLE) {
		qual = ast.Mutable
	}
	name := p.expect(lexer.IDENT)

	var typ *ast.Type
	if p.match(lexer.COLON) {
		t := p.parseType()
		typ = &t
	}

	var init ast.Initializer
	if p.match(lexer.ASSIGN) {
		init = p.parseInitializer()
	}
	p.expect(lexer.SEMICOLON)

	def := &ast.VarDef{Qualifier: qual, Name: name.Lexeme, Type: typ, Init: init}
	def.SetPos(p.rangeFrom(begin))
	return def
}

func (p *Parser) parseInitializer() ast.Initializer {
	if p.check(lexer.LBRACE) {
		begin := p.advance()
		var elems []ast.Expr
		for !p.check(lexer.RBRACE) {
			elems = append(elems, p.parseExpression())
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.RBRACE)
		return ast.InitList{Elements: elems, Pos: p.rangeFrom(begin)}
	}
	return ast.ExprInit{Expr: p.parseExpression()}
}

func (p *Parser) parseReturn() *ast.Return {
	begin := p.expect(lexer.RETURN)
	var e ast.Expr
	if !p.check(lexer.SEMICOLON) {
		e = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)
	r := &ast.Return{Expr: e}
	r.SetPos(p.rangeFrom(begin))
	return r
}

func (p *Parser) parseIf() *ast.If {
	begin := p.expect(lexer.IF)
	cond := p.parseExpression()
	then := p.parseCompound()
	var els ast.Stmt
	if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			els = p.parseIf()
		} else {
			els = p.parseCompound()
		}
	}
	n := &ast.If{Cond: cond, Then: then, Else: els}
	n.SetPos(p.rangeFrom(begin))
	return n
}

func (p *Parser) parseWhile() *ast.While {
	begin := p.expect(lexer.WHILE)
	cond := p.parseExpression()
	body := p.parseCompound()
	n := &ast.While{Cond: cond, Body: body}
	n.SetPos(p.rangeFrom(begin))
	return n
}

func (p *Parser) parseLoop() *ast.Loop {
	begin := p.expect(lexer.LOOP)
	body := p.parseCompound()
	n := &ast.Loop{Body: body}
	n.SetPos(p.rangeFrom(begin))
	return n
}

// parseFor parses a C-style `for init?; cond?; step? { body }`, where init
// and step are not terminated by the for-header's own semicolons but parsed
// as bare simple statements (no trailing `;` consumed by parseSimpleStmt
// itself).
func (p *Parser) parseFor() *ast.For {
	begin := p.expect(lexer.FOR)

	var init ast.Stmt
	if !p.check(lexer.SEMICOLON) {
		init = p.parseSimpleStmt(false)
	}
	p.expect(lexer.SEMICOLON)

	var cond ast.Expr
	if !p.check(lexer.SEMICOLON) {
		cond = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)

	var step ast.Stmt
	if !p.check(lexer.LBRACE) {
		step = p.parseSimpleStmt(false)
	}

	body := p.parseCompound()
	n := &ast.For{Init: init, Cond: cond, Step: step, Body: body}
	n.SetPos(p.rangeFrom(begin))
	return n
}

// parseSimpleStmt parses a short var-decl (`name := expr`), a pre-increment
// or pre-decrement (`++x` / `--x`), a plain or compound assignment, or a
// bare expression statement. If consumeSemicolon is true (top-level
// statement position), it also consumes the trailing `;`; for-loop headers
// call with false since the `;` there belongs to the for-grammar itself.
func (p *Parser) parseSimpleStmt(consumeSemicolon bool) ast.Stmt {
	begin := p.peek()

	if p.check(lexer.PLUS_PLUS) || p.check(lexer.MINUS_MINUS) {
		op := ast.PreInc
		if p.peek().Type == lexer.MINUS_MINUS {
			op = ast.PreDec
		}
		p.advance()
		rhs := p.parseUnary()
		if consumeSemicolon {
			p.expect(lexer.SEMICOLON)
		}
		s := &ast.PreIncDec{Op: op, Rhs: rhs}
		s.SetPos(p.rangeFrom(begin))
		return s
	}

	if p.check(lexer.IDENT) && p.peekIsColonAssign() {
		name := p.advance()
		p.expect(lexer.COLON_ASSIGN)
		init := p.parseExpression()
		if consumeSemicolon {
			p.expect(lexer.SEMICOLON)
		}
		def := &ast.VarDef{Qualifier: ast.Mutable, Name: name.Lexeme, Init: ast.ExprInit{Expr: init}}
		def.SetPos(p.rangeFrom(begin))
		return def
	}

	lhs := p.parseExpression()

	if op, ok := assignOpFor(p.peek().Type); ok {
		p.advance()
		rhs := p.parseExpression()
		if consumeSemicolon {
			p.expect(lexer.SEMICOLON)
		}
		s := &ast.Assign{Lhs: lhs, Op: op, Rhs: rhs}
		s.SetPos(p.rangeFrom(begin))
		return s
	}

	if consumeSemicolon {
		p.expect(lexer.SEMICOLON)
	}
	s := &ast.ExprStmt{Expr: lhs}
	s.SetPos(p.rangeFrom(begin))
	return s
}

func (p *Parser) peekIsColonAssign() bool {
	return p.peekAt(1).Type == lexer.COLON_ASSIGN
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func assignOpFor(tt lexer.TokenType) (ast.AssignOpKind, bool) {
	switch tt {
	case lexer.ASSIGN:
		return ast.AssignSet, true
	case lexer.PLUS_ASSIGN:
		return ast.AssignAdd, true
	case lexer.MINUS_ASSIGN:
		return ast.AssignSub, true
	case lexer.STAR_ASSIGN:
		return ast.AssignMul, true
	case lexer.SLASH_ASSIGN:
		return ast.AssignDiv, true
	case lexer.PERCENT_ASSIGN:
		return ast.AssignMod, true
	default:
		return 0, false
	}
}
