package parser

import (
	"ox/internal/ast"
	"ox/internal/lexer"
)

// statement parses a non-declaration, block-level construct. Nested
// function/class/enum/bitfield declarations are still accepted here
// since OX allows them inside a block (spec.md §4.3).
func (p *Parser) statement() ast.Stmt {
	tok := p.peek()
	doc := p.docOf(tok)

	switch {
	case p.check(lexer.TokLBrace):
		return p.parseBlock()
	case p.match(lexer.TokIf):
		return p.ifStmt()
	case p.match(lexer.TokDo):
		return p.doWhileStmt()
	case p.match(lexer.TokWhile):
		return p.whileStmt()
	case p.match(lexer.TokFor):
		return p.forStmt()
	case p.match(lexer.TokSched):
		return p.schedStmt()
	case p.match(lexer.TokCase):
		return p.caseStmt()
	case p.match(lexer.TokTry):
		return p.tryStmt()
	case p.match(lexer.TokReturn):
		return p.returnStmt()
	case p.match(lexer.TokThrow):
		return p.throwStmt()
	case p.match(lexer.TokBreak):
		return &ast.BreakStmt{Pos: p.pos(tok)}
	case p.match(lexer.TokContinue):
		return &ast.ContinueStmt{Pos: p.pos(tok)}
	case p.match(lexer.TokFunc):
		return p.funcDecl(false, doc)
	case p.match(lexer.TokClass):
		return p.classDecl(false, doc)
	case p.match(lexer.TokEnum):
		return p.enumDecl(false, doc)
	case p.match(lexer.TokBitfield):
		return p.bitfieldDecl(false, doc)
	case p.check(lexer.TokConst):
		p.advance()
		return p.varStmt(DeclConst, false, doc)
	case p.check(lexer.TokVar):
		p.advance()
		return p.varStmt(DeclVar, false, doc)
	case p.check(lexer.TokRef):
		p.advance()
		return p.varStmt(DeclRef, false, doc)
	case p.match(lexer.TokTextdomain):
		return p.textdomainStmt()
	default:
		expr := p.expression()
		return &ast.ExprStmt{Expr: expr, Pos: p.pos(tok)}
	}
}

// safeStmt recovers from a parseSignal raised while parsing one
// statement inside a block, synchronizing to the next statement
// boundary so one malformed line doesn't abort the whole block.
func (p *Parser) safeStmt() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*parseSignal); ok {
				p.Errors = append(p.Errors, se.err)
				p.synchronize(lexer.TokSemicolon, lexer.TokRBrace)
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.statement()
}

func (p *Parser) parseBlock() *ast.Block {
	open := p.consume(lexer.TokLBrace, "'{' to start block")
	var stmts []ast.Stmt
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		if s := p.safeStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(lexer.TokRBrace, "'}' to close block")
	return &ast.Block{Stmts: stmts, Pos: p.pos(open)}
}

func (p *Parser) ifStmt() ast.Stmt {
	tok := p.prev
	cond := p.expression()
	var then *ast.Block
	if p.check(lexer.TokLBrace) {
		then = p.parseBlock()
	} else {
		body := p.statement()
		then = &ast.Block{Stmts: []ast.Stmt{body}, Pos: p.pos(tok)}
	}
	var elifs []ast.ElifClause
	for p.match(lexer.TokElif) {
		c := p.expression()
		b := p.parseBlock()
		elifs = append(elifs, ast.ElifClause{Cond: c, Body: b})
	}
	var els *ast.Block
	if p.match(lexer.TokElse) {
		els = p.parseBlock()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Elifs: elifs, Else: els, Pos: p.pos(tok)}
}

func (p *Parser) doWhileStmt() ast.Stmt {
	tok := p.prev
	body := p.parseBlock()
	p.consume(lexer.TokWhile, "'while' after 'do' block")
	cond := p.expression()
	return &ast.DoWhileStmt{Body: body, Cond: cond, Pos: p.pos(tok)}
}

func (p *Parser) whileStmt() ast.Stmt {
	tok := p.prev
	cond := p.expression()
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: p.pos(tok)}
}

// forStmt disambiguates the three `for` shapes: infinite (`for { }`),
// classic C-style (`for (init; cond; post) { }`), and `for-as`
// iteration (`for name as iterable { }`) per spec.md §4.3.
func (p *Parser) forStmt() ast.Stmt {
	tok := p.prev

	if p.check(lexer.TokLBrace) {
		body := p.parseBlock()
		return &ast.ForStmt{Body: body, Pos: p.pos(tok)}
	}

	if p.match(lexer.TokLParen) {
		var init ast.Stmt
		if !p.check(lexer.TokSemicolon) {
			init = p.forInit()
		}
		p.consume(lexer.TokSemicolon, "';' after for-init")
		var cond ast.Expr
		if !p.check(lexer.TokSemicolon) {
			cond = p.expression()
		}
		p.consume(lexer.TokSemicolon, "';' after for-condition")
		var post ast.Stmt
		if !p.check(lexer.TokRParen) {
			post = &ast.ExprStmt{Expr: p.expression(), Pos: p.pos(p.peek())}
		}
		p.consume(lexer.TokRParen, "')' after for-clauses")
		body := p.parseBlock()
		return &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Pos: p.pos(tok)}
	}

	isDecl := p.match(lexer.TokVar) || p.match(lexer.TokConst)
	nameTok := p.consume(lexer.TokIdent, "loop variable name")
	if isDecl {
		p.declareName(nameTok.Lexeme, DeclVar, p.pos(nameTok))
	}
	p.consume(lexer.TokAs, "'as' in for-as loop")
	iterable := p.expression()
	body := p.parseBlock()
	return &ast.ForAsStmt{VarName: nameTok.Lexeme, IsDecl: isDecl, Iterable: iterable, Body: body, Pos: p.pos(tok)}
}

func (p *Parser) forInit() ast.Stmt {
	switch {
	case p.check(lexer.TokConst):
		p.advance()
		return p.varStmt(DeclConst, false, nil)
	case p.check(lexer.TokVar):
		p.advance()
		return p.varStmt(DeclVar, false, nil)
	case p.check(lexer.TokRef):
		p.advance()
		return p.varStmt(DeclRef, false, nil)
	default:
		tok := p.peek()
		return &ast.ExprStmt{Expr: p.expression(), Pos: p.pos(tok)}
	}
}

func (p *Parser) schedStmt() ast.Stmt {
	tok := p.prev
	body := p.parseBlock()
	return &ast.SchedStmt{Body: body, Pos: p.pos(tok)}
}

// caseStmt parses OX's `case subject { v1, v2 => { } else => { } }`
// multi-way branch (spec.md §4.3).
func (p *Parser) caseStmt() ast.Stmt {
	tok := p.prev
	subject := p.expression()
	p.consume(lexer.TokLBrace, "'{' to start case body")

	var clauses []ast.CaseClause
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		if p.match(lexer.TokElse) {
			p.consume(lexer.TokArrow, "'=>' after 'else'")
			body := p.parseBlock()
			clauses = append(clauses, ast.CaseClause{Body: body})
			continue
		}
		var vals []ast.Expr
		vals = append(vals, p.assignment())
		for p.match(lexer.TokComma) {
			vals = append(vals, p.assignment())
		}
		p.consume(lexer.TokArrow, "'=>' after case values")
		body := p.parseBlock()
		clauses = append(clauses, ast.CaseClause{Values: vals, Body: body})
	}
	p.consume(lexer.TokRBrace, "'}' after case body")
	if len(clauses) == 0 {
		p.fail(tok, "'case' requires at least one clause")
	}
	return &ast.CaseStmt{Subject: subject, Clauses: clauses, Pos: p.pos(tok)}
}

func (p *Parser) tryStmt() ast.Stmt {
	tok := p.prev
	tryBlock := p.parseBlock()

	var catchName string
	var catchBlock *ast.Block
	if p.match(lexer.TokCatch) {
		if p.check(lexer.TokIdent) {
			catchName = p.advance().Lexeme
		}
		catchBlock = p.parseBlock()
	}
	var finallyBlock *ast.Block
	if p.match(lexer.TokFinally) {
		finallyBlock = p.parseBlock()
	}
	if catchBlock == nil && finallyBlock == nil {
		p.fail(p.peek(), "expected 'catch' or 'finally' after 'try' block")
	}
	return &ast.TryStmt{
		Try: tryBlock, CatchName: catchName, Catch: catchBlock,
		Finally: finallyBlock, Pos: p.pos(tok),
	}
}

func (p *Parser) returnStmt() ast.Stmt {
	tok := p.prev
	var val ast.Expr
	if !p.atExprTerminator() {
		val = p.expression()
	}
	return &ast.ReturnStmt{Value: val, Pos: p.pos(tok)}
}

func (p *Parser) throwStmt() ast.Stmt {
	tok := p.prev
	val := p.expression()
	return &ast.ThrowStmt{Value: val, Pos: p.pos(tok)}
}
