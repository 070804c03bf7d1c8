package parser

import (
	"ox/internal/ast"
	"ox/internal/langerr"
	"ox/internal/lexer"
)

// topLevel parses one top-level construct: a block-level doc comment
// standing alone, a declaration (`public`, `func`, `class`, `enum`,
// `bitfield`, `const`/`var`/`ref`, `textdomain`), or a plain statement.
func (p *Parser) topLevel() ast.Stmt {
	t := p.peek()
	if t.Doc != "" && isBlockDocCommand(docCommand(t.Doc)) {
		doc := p.docOf(t)
		p.buf[0].Doc = ""
		return &ast.DocStmt{Doc: doc, Pos: p.pos(t)}
	}
	return p.declarationOrStatement()
}

func (p *Parser) declarationOrStatement() ast.Stmt {
	first := p.peek()
	doc := p.docOf(first)

	public := false
	if p.match(lexer.TokPublic) {
		public = true
	}

	switch {
	case p.match(lexer.TokFunc):
		return p.funcDecl(public, doc)
	case p.match(lexer.TokClass):
		return p.classDecl(public, doc)
	case p.match(lexer.TokEnum):
		return p.enumDecl(public, doc)
	case p.match(lexer.TokBitfield):
		return p.bitfieldDecl(public, doc)
	case p.match(lexer.TokTextdomain):
		return p.textdomainStmt()
	case p.check(lexer.TokConst):
		p.advance()
		return p.varStmt(DeclConst, public, doc)
	case p.check(lexer.TokVar):
		p.advance()
		return p.varStmt(DeclVar, public, doc)
	case p.check(lexer.TokRef):
		p.advance()
		return p.varStmt(DeclRef, public, doc)
	default:
		if public {
			p.fail(p.peek(), "expected a declaration after \"public\"")
		}
		return p.statement()
	}
}

func (p *Parser) declareName(name string, kind DeclKind, pos ast.Pos) {
	if err := p.scope.declare(name, kind, pos); err != nil {
		p.Errors = append(p.Errors, langerr.New(langerr.ReferenceError, err.Error()).At(p.file, pos.Line, pos.Column))
	}
}

func (p *Parser) funcDecl(public bool, doc *ast.Doc) *ast.FuncDecl {
	nameTok := p.consume(lexer.TokIdent, "function name")
	fs := newFunctionScope(p.scope, p.nextFuncIndex())
	fs.Flags |= FlagReturn
	if public {
		fs.Flags |= FlagPublic
	}
	p.declareName(nameTok.Lexeme, DeclVar, p.pos(nameTok))

	outer := p.scope
	p.scope = fs
	params := p.parseParams(fs)
	body := p.parseBlock()
	p.scope = outer

	return &ast.FuncDecl{
		Name: nameTok.Lexeme, Params: params, Body: body,
		Public: public, Doc: doc, Pos: p.pos(nameTok), Scope: fs,
	}
}

// parseParams parses a `(a, b = default, ...rest)` parameter list,
// declaring each plain name as DeclParam in fs.
func (p *Parser) parseParams(fs *FunctionScope) []ast.Param {
	p.consume(lexer.TokLParen, "'(' to start parameter list")
	var params []ast.Param
	if !p.check(lexer.TokRParen) {
		for {
			params = append(params, p.parseParam(fs))
			if !p.match(lexer.TokComma) {
				break
			}
		}
	}
	p.consume(lexer.TokRParen, "')' after parameters")
	return params
}

func (p *Parser) parseParam(fs *FunctionScope) ast.Param {
	tok := p.peek()
	if p.match(lexer.TokEllipsis) {
		nameTok := p.consume(lexer.TokIdent, "rest parameter name")
		fs.declare(nameTok.Lexeme, DeclParam, p.pos(nameTok))
		return ast.Param{Name: nameTok.Lexeme, Rest: true, Pos: p.pos(tok)}
	}
	if p.check(lexer.TokLBracket) || p.check(lexer.TokLBrace) {
		pat := p.parsePattern()
		p.declarePatternNames(pat, fs)
		var def ast.Expr
		if p.match(lexer.TokAssign) {
			def = p.assignment()
		}
		return ast.Param{Pattern: pat, Default: def, Pos: p.pos(tok)}
	}
	nameTok := p.consume(lexer.TokIdent, "parameter name")
	fs.declare(nameTok.Lexeme, DeclParam, p.pos(nameTok))
	var def ast.Expr
	if p.match(lexer.TokAssign) {
		def = p.assignment()
	}
	return ast.Param{Name: nameTok.Lexeme, Default: def, Pos: p.pos(nameTok)}
}

// isAccessorStart reports whether the parser is looking at `get name(...)`
// or `set name(...)`: a contextual keyword (a plain identifier lexeme)
// followed by a second identifier (the property name) rather than `(`
// directly, which would mean a method literally named "get"/"set".
func (p *Parser) isAccessorStart() bool {
	t := p.peek()
	if t.Kind != lexer.TokIdent {
		return false
	}
	if t.Lexeme != "get" && t.Lexeme != "set" {
		return false
	}
	return p.peekNext().Kind == lexer.TokIdent
}

func (p *Parser) classDecl(public bool, doc *ast.Doc) *ast.ClassDecl {
	nameTok := p.consume(lexer.TokIdent, "class name")
	p.declareName(nameTok.Lexeme, DeclVar, p.pos(nameTok))

	var super string
	var interfaces []string
	if p.match(lexer.TokColon) {
		super = p.consume(lexer.TokIdent, "superclass name").Lexeme
		for p.match(lexer.TokComma) {
			interfaces = append(interfaces, p.consume(lexer.TokIdent, "interface name").Lexeme)
		}
	}

	p.consume(lexer.TokLBrace, "'{' to start class body")
	var members []ast.ClassMember
	accessorIdx := map[string]int{}
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		mTok := p.peek()
		mDoc := p.docOf(mTok)
		switch {
		case p.match(lexer.TokConst):
			members = append(members, p.fieldMember("const", mDoc))
		case p.match(lexer.TokVar):
			members = append(members, p.fieldMember("var", mDoc))
		case p.match(lexer.TokRef):
			members = append(members, p.fieldMember("ref", mDoc))
		case p.isAccessorStart():
			kind := p.advance().Lexeme
			nameTok2 := p.consume(lexer.TokIdent, "accessor name")
			fn := p.methodLike(nameTok2)
			if idx, ok := accessorIdx[nameTok2.Lexeme]; ok {
				if kind == "get" {
					members[idx].Getter = fn
				} else {
					members[idx].Setter = fn
				}
			} else {
				cm := ast.ClassMember{Kind: "accessor", Name: nameTok2.Lexeme, Doc: mDoc}
				if kind == "get" {
					cm.Getter = fn
				} else {
					cm.Setter = fn
				}
				members = append(members, cm)
				accessorIdx[nameTok2.Lexeme] = len(members) - 1
			}
		default:
			nameTok2 := p.consume(lexer.TokIdent, "method name")
			fn := p.methodLike(nameTok2)
			members = append(members, ast.ClassMember{Kind: "method", Name: nameTok2.Lexeme, Method: fn, Doc: mDoc})
		}
	}
	p.consume(lexer.TokRBrace, "'}' after class body")

	return &ast.ClassDecl{
		Name: nameTok.Lexeme, Super: super, Interfaces: interfaces,
		Members: members, Public: public, Doc: doc, Pos: p.pos(nameTok),
	}
}

// methodLike parses a `(params) { body }` suffix shared by methods,
// getters, and setters, each getting its own FunctionScope.
func (p *Parser) methodLike(nameTok lexer.Token) *ast.FuncDecl {
	fs := newFunctionScope(p.scope, p.nextFuncIndex())
	fs.Flags |= FlagReturn
	outer := p.scope
	p.scope = fs
	params := p.parseParams(fs)
	body := p.parseBlock()
	p.scope = outer
	return &ast.FuncDecl{Name: nameTok.Lexeme, Params: params, Body: body, Pos: p.pos(nameTok), Scope: fs}
}

func (p *Parser) fieldMember(kind string, doc *ast.Doc) ast.ClassMember {
	nameTok := p.consume(lexer.TokIdent, "field name")
	var init ast.Expr
	if p.match(lexer.TokAssign) {
		init = p.assignment()
	}
	return ast.ClassMember{Kind: "field", FieldKind: kind, Name: nameTok.Lexeme, Init: init, Doc: doc}
}

func (p *Parser) enumDecl(public bool, doc *ast.Doc) *ast.EnumDecl {
	nameTok := p.consume(lexer.TokIdent, "enum name")
	p.declareName(nameTok.Lexeme, DeclConst, p.pos(nameTok))
	p.consume(lexer.TokLBrace, "'{' to start enum body")
	var members []ast.EnumMember
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		mTok := p.peek()
		mDoc := p.docOf(mTok)
		mName := p.consume(lexer.TokIdent, "enum member name")
		var val ast.Expr
		if p.match(lexer.TokAssign) {
			val = p.assignment()
		}
		members = append(members, ast.EnumMember{Name: mName.Lexeme, Value: val, Doc: mDoc})
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.consume(lexer.TokRBrace, "'}' after enum body")
	return &ast.EnumDecl{Name: nameTok.Lexeme, Members: members, Public: public, Doc: doc, Pos: p.pos(nameTok)}
}

func (p *Parser) bitfieldDecl(public bool, doc *ast.Doc) *ast.BitfieldDecl {
	nameTok := p.consume(lexer.TokIdent, "bitfield name")
	p.declareName(nameTok.Lexeme, DeclConst, p.pos(nameTok))
	p.consume(lexer.TokLBrace, "'{' to start bitfield body")
	var members []ast.BitfieldMember
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		mTok := p.peek()
		mDoc := p.docOf(mTok)
		mName := p.consume(lexer.TokIdent, "bitfield member name")
		var val ast.Expr
		if p.match(lexer.TokAssign) {
			val = p.assignment()
		}
		members = append(members, ast.BitfieldMember{Name: mName.Lexeme, Value: val, Doc: mDoc})
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.consume(lexer.TokRBrace, "'}' after bitfield body")
	return &ast.BitfieldDecl{Name: nameTok.Lexeme, Members: members, Public: public, Doc: doc, Pos: p.pos(nameTok)}
}

func (p *Parser) textdomainStmt() ast.Stmt {
	nameTok := p.consume(lexer.TokString, "text domain name")
	p.scope.Flags |= FlagTextdomain
	return &ast.TextdomainStmt{Name: nameTok.Lexeme, Pos: p.pos(nameTok)}
}

func (p *Parser) varStmt(kind DeclKind, public bool, doc *ast.Doc) *ast.VarStmt {
	tok := p.prev
	var targets []ast.Expr
	var inits []ast.Expr
	for {
		targets = append(targets, p.parseDeclTarget(kind))
		var init ast.Expr
		if p.match(lexer.TokAssign) {
			init = p.assignment()
		}
		inits = append(inits, init)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	return &ast.VarStmt{Kind: string(kind), Targets: targets, Inits: inits, Public: public, Doc: doc, Pos: p.pos(tok)}
}

func (p *Parser) parseDeclTarget(kind DeclKind) ast.Expr {
	if p.check(lexer.TokLBracket) || p.check(lexer.TokLBrace) {
		pat := p.parsePattern()
		p.declarePatternNamesKind(pat, kind)
		return pat
	}
	nameTok := p.consume(lexer.TokIdent, "declaration name")
	p.declareName(nameTok.Lexeme, kind, p.pos(nameTok))
	return &ast.Ident{Name: nameTok.Lexeme, Pos: p.pos(nameTok)}
}

// declarePatternNamesKind declares every leaf identifier of a
// destructuring pattern with kind (used by const/var/ref statements).
func (p *Parser) declarePatternNamesKind(pat ast.Expr, kind DeclKind) {
	switch n := pat.(type) {
	case *ast.Ident:
		p.declareName(n.Name, kind, n.Pos)
	case *ast.ArrayPattern:
		for _, e := range n.Elements {
			p.declarePatternNamesKind(e.Target, kind)
		}
	case *ast.ObjectPattern:
		for _, pr := range n.Props {
			p.declarePatternNamesKind(pr.Target, kind)
		}
	}
}

// declarePatternNames declares a destructuring parameter pattern's leaf
// names as DeclParam in fs.
func (p *Parser) declarePatternNames(pat ast.Expr, fs *FunctionScope) {
	switch n := pat.(type) {
	case *ast.Ident:
		fs.declare(n.Name, DeclParam, n.Pos)
	case *ast.ArrayPattern:
		for _, e := range n.Elements {
			p.declarePatternNames(e.Target, fs)
		}
	case *ast.ObjectPattern:
		for _, pr := range n.Props {
			p.declarePatternNames(pr.Target, fs)
		}
	}
}
