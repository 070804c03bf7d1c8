package parser

import (
	"strconv"
	"strings"

	"ox/internal/ast"
	"ox/internal/lexer"
)

// expression parses the comma operator, the loosest of the 16
// precedence levels spec.md §4.3 lists.
func (p *Parser) expression() ast.Expr {
	first := p.assignment()
	if !p.check(lexer.TokComma) {
		return first
	}
	exprs := []ast.Expr{first}
	for p.match(lexer.TokComma) {
		exprs = append(exprs, p.assignment())
	}
	return &ast.SequenceExpr{Exprs: exprs, Pos: exprPos(first)}
}

func (p *Parser) assignment() ast.Expr {
	left := p.conditional()
	if p.peek().IsAssignOp() {
		opTok := p.advance()
		value := p.assignment()
		return &ast.AssignExpr{Op: opTok.Lexeme, Target: left, Value: value, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) conditional() ast.Expr {
	cond := p.nullCoalesce()
	if p.match(lexer.TokQuestion) {
		then := p.assignment()
		p.consume(lexer.TokColon, "':' in conditional expression")
		els := p.assignment()
		return &ast.ConditionalExpr{Cond: cond, Then: then, Else: els, Pos: exprPos(cond)}
	}
	return cond
}

func (p *Parser) nullCoalesce() ast.Expr {
	left := p.logicalOr()
	for p.match(lexer.TokNullCoalesce) {
		right := p.logicalOr()
		left = &ast.LogicalExpr{Op: "??", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) logicalOr() ast.Expr {
	left := p.logicalAnd()
	for p.match(lexer.TokOrOr) {
		right := p.logicalAnd()
		left = &ast.LogicalExpr{Op: "||", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) logicalAnd() ast.Expr {
	left := p.bitOr()
	for p.match(lexer.TokAndAnd) {
		right := p.bitOr()
		left = &ast.LogicalExpr{Op: "&&", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) bitOr() ast.Expr {
	left := p.bitXor()
	for p.match(lexer.TokOr) {
		right := p.bitXor()
		left = &ast.BinaryExpr{Op: "|", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) bitXor() ast.Expr {
	left := p.bitAnd()
	for p.match(lexer.TokCaret) {
		right := p.bitAnd()
		left = &ast.BinaryExpr{Op: "^", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) bitAnd() ast.Expr {
	left := p.equality()
	for p.match(lexer.TokAnd) {
		right := p.equality()
		left = &ast.BinaryExpr{Op: "&", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) equality() ast.Expr {
	left := p.relational()
	for {
		var op string
		switch {
		case p.match(lexer.TokEq):
			op = "=="
		case p.match(lexer.TokNe):
			op = "!="
		default:
			return left
		}
		right := p.relational()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: exprPos(left)}
	}
}

func (p *Parser) relational() ast.Expr {
	left := p.shift()
	for {
		var op string
		switch {
		case p.match(lexer.TokLt):
			op = "<"
		case p.match(lexer.TokGt):
			op = ">"
		case p.match(lexer.TokLe):
			op = "<="
		case p.match(lexer.TokGe):
			op = ">="
		default:
			return left
		}
		right := p.shift()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: exprPos(left)}
	}
}

func (p *Parser) shift() ast.Expr {
	left := p.additive()
	for {
		var op string
		switch {
		case p.match(lexer.TokShl):
			op = "<<"
		case p.match(lexer.TokShr):
			op = ">>"
		default:
			return left
		}
		right := p.additive()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: exprPos(left)}
	}
}

func (p *Parser) additive() ast.Expr {
	left := p.multiplicative()
	for {
		var op string
		switch {
		case p.match(lexer.TokPlus):
			op = "+"
		case p.match(lexer.TokMinus):
			op = "-"
		default:
			return left
		}
		right := p.multiplicative()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: exprPos(left)}
	}
}

func (p *Parser) multiplicative() ast.Expr {
	left := p.power()
	for {
		var op string
		switch {
		case p.match(lexer.TokStar):
			op = "*"
		case p.match(lexer.TokSlash):
			op = "/"
		case p.match(lexer.TokPercent):
			op = "%"
		default:
			return left
		}
		right := p.power()
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Pos: exprPos(left)}
	}
}

// power is right-associative: `2 ** 3 ** 2 == 2 ** (3 ** 2)`.
func (p *Parser) power() ast.Expr {
	left := p.unary()
	if p.match(lexer.TokPow) {
		right := p.power()
		return &ast.BinaryExpr{Op: "**", Left: left, Right: right, Pos: exprPos(left)}
	}
	return left
}

func (p *Parser) unary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokBang:
		p.advance()
		return &ast.UnaryExpr{Op: "!", Operand: p.unary(), Prefix: true, Pos: p.pos(tok)}
	case lexer.TokMinus:
		p.advance()
		return &ast.UnaryExpr{Op: "-", Operand: p.unary(), Prefix: true, Pos: p.pos(tok)}
	case lexer.TokPlus:
		p.advance()
		return &ast.UnaryExpr{Op: "+", Operand: p.unary(), Prefix: true, Pos: p.pos(tok)}
	case lexer.TokTilde:
		p.advance()
		return &ast.UnaryExpr{Op: "~", Operand: p.unary(), Prefix: true, Pos: p.pos(tok)}
	case lexer.TokIncr:
		p.advance()
		return &ast.UnaryExpr{Op: "++", Operand: p.unary(), Prefix: true, Pos: p.pos(tok)}
	case lexer.TokDecr:
		p.advance()
		return &ast.UnaryExpr{Op: "--", Operand: p.unary(), Prefix: true, Pos: p.pos(tok)}
	case lexer.TokYield:
		p.advance()
		p.scope.Flags |= FlagFiber
		var val ast.Expr
		if !p.atExprTerminator() && !p.check(lexer.TokComma) {
			val = p.assignment()
		}
		return &ast.YieldExpr{Value: val, Pos: p.pos(tok)}
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() ast.Expr {
	expr := p.callOrMember(p.primary())
	for {
		switch {
		case p.check(lexer.TokIncr):
			t := p.advance()
			expr = &ast.UnaryExpr{Op: "++", Operand: expr, Prefix: false, Pos: p.pos(t)}
		case p.check(lexer.TokDecr):
			t := p.advance()
			expr = &ast.UnaryExpr{Op: "--", Operand: expr, Prefix: false, Pos: p.pos(t)}
		default:
			return expr
		}
	}
}

// callOrMember chains `.`/`?.`, `(...)`/`?(...)`, and `[...]`/`?[...]`
// suffixes onto expr (spec.md §4.3's "postfix" level).
func (p *Parser) callOrMember(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.match(lexer.TokDot):
			nameTok := p.consumeMemberName()
			expr = &ast.MemberExpr{Object: expr, Name: nameTok.Lexeme, Pos: exprPos(expr)}
		case p.match(lexer.TokOptDot):
			nameTok := p.consumeMemberName()
			expr = &ast.MemberExpr{Object: expr, Name: nameTok.Lexeme, Optional: true, Pos: exprPos(expr)}
		case p.match(lexer.TokLParen):
			args := p.parseArgs()
			expr = &ast.CallExpr{Callee: expr, Args: args, Pos: exprPos(expr)}
		case p.match(lexer.TokOptCall):
			args := p.parseArgs()
			expr = &ast.CallExpr{Callee: expr, Args: args, Optional: true, Pos: exprPos(expr)}
		case p.match(lexer.TokLBracket):
			idx := p.expression()
			p.consume(lexer.TokRBracket, "']' after index expression")
			expr = &ast.IndexExpr{Object: expr, Index: idx, Pos: exprPos(expr)}
		case p.match(lexer.TokOptIndex):
			idx := p.expression()
			p.consume(lexer.TokRBracket, "']' after optional index expression")
			expr = &ast.IndexExpr{Object: expr, Index: idx, Optional: true, Pos: exprPos(expr)}
		default:
			return expr
		}
	}
}

// consumeMemberName allows keywords to appear as a property name after
// `.`, matching how object-model property names are typically free-form
// identifiers in the original (spec.md §4.4).
func (p *Parser) consumeMemberName() lexer.Token {
	t := p.peek()
	if t.Kind == lexer.TokIdent || t.Kind == lexer.TokPrivateIdent {
		return p.advance()
	}
	p.fail(t, "expected property name after '.'")
	return t
}

// parseArgs parses a comma-separated argument list (with optional
// `...spread` arguments) up to and including the closing `)`.
func (p *Parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	if !p.check(lexer.TokRParen) {
		for {
			if tok := p.peek(); tok.Kind == lexer.TokEllipsis {
				p.advance()
				v := p.assignment()
				args = append(args, &ast.SpreadExpr{Value: v, Pos: p.pos(tok)})
			} else {
				args = append(args, p.assignment())
			}
			if !p.match(lexer.TokComma) {
				break
			}
		}
	}
	p.consume(lexer.TokRParen, "')' after arguments")
	return args
}

func (p *Parser) primary() ast.Expr {
	tok := p.advance()
	switch tok.Kind {
	case lexer.TokNumber:
		return &ast.Literal{Value: parseNumberLiteral(tok.Lexeme), Pos: p.pos(tok)}
	case lexer.TokChar:
		r := []rune(tok.Lexeme)
		var v float64
		if len(r) > 0 {
			v = float64(r[0])
		}
		return &ast.Literal{Value: v, Pos: p.pos(tok)}
	case lexer.TokString:
		return &ast.StringLit{Parts: []ast.StringPart{{Text: tok.Lexeme}}, Pos: p.pos(tok)}
	case lexer.TokStringHead:
		return p.finishStringLit(tok)
	case lexer.TokTrue:
		return &ast.Literal{Value: true, Pos: p.pos(tok)}
	case lexer.TokFalse:
		return &ast.Literal{Value: false, Pos: p.pos(tok)}
	case lexer.TokNull:
		return &ast.Literal{Value: nil, Pos: p.pos(tok)}
	case lexer.TokThis:
		return &ast.ThisExpr{Pos: p.pos(tok)}
	case lexer.TokIdent:
		return p.identOrLambda(tok)
	case lexer.TokPrivateIdent:
		return &ast.PrivateIdent{Name: tok.Lexeme, Pos: p.pos(tok)}
	case lexer.TokOuterIdent:
		return &ast.OuterIdent{Name: tok.Lexeme, Pos: p.pos(tok)}
	case lexer.TokRegex:
		pattern, flags := splitRegexLexeme(tok.Lexeme)
		return &ast.RegexLit{Pattern: pattern, Flags: flags, Pos: p.pos(tok)}
	case lexer.TokLParen:
		expr := p.expression()
		p.consume(lexer.TokRParen, "')' after parenthesized expression")
		return expr
	case lexer.TokLBracket:
		return p.finishArrayLit(tok)
	case lexer.TokLBrace:
		return p.finishObjectLit(tok)
	case lexer.TokFunc:
		return p.finishFuncExpr(tok)
	default:
		p.fail(tok, "unexpected token %q in expression", tok.Lexeme)
		return nil
	}
}

// identOrLambda handles the single-parameter arrow sugar `x => expr`;
// any other identifier is a plain variable reference.
func (p *Parser) identOrLambda(tok lexer.Token) ast.Expr {
	if !p.check(lexer.TokArrow) {
		return &ast.Ident{Name: tok.Lexeme, Pos: p.pos(tok)}
	}
	p.advance()
	fs := newFunctionScope(p.scope, p.nextFuncIndex())
	fs.declare(tok.Lexeme, DeclParam, p.pos(tok))
	outer := p.scope
	p.scope = fs
	body := p.arrowBody()
	p.scope = outer
	return &ast.FuncExpr{
		Params: []ast.Param{{Name: tok.Lexeme, Pos: p.pos(tok)}},
		Body:   body, IsArrow: true, Pos: p.pos(tok), Scope: fs,
	}
}

func (p *Parser) arrowBody() *ast.Block {
	if p.check(lexer.TokLBrace) {
		return p.parseBlock()
	}
	tok := p.peek()
	val := p.assignment()
	return &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: val, Pos: p.pos(tok)}}, Pos: p.pos(tok)}
}

// finishFuncExpr parses an anonymous `func(...) { }` or `func(...) => expr`
// expression, the token "func" already consumed.
func (p *Parser) finishFuncExpr(tok lexer.Token) ast.Expr {
	fs := newFunctionScope(p.scope, p.nextFuncIndex())
	fs.Flags |= FlagReturn
	outer := p.scope
	p.scope = fs
	params := p.parseParams(fs)
	var body *ast.Block
	isArrow := false
	if p.match(lexer.TokArrow) {
		isArrow = true
		val := p.assignment()
		body = &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: val, Pos: exprPos(val)}}, Pos: p.pos(tok)}
	} else {
		body = p.parseBlock()
	}
	p.scope = outer
	return &ast.FuncExpr{Params: params, Body: body, IsArrow: isArrow, Pos: p.pos(tok), Scope: fs}
}

// finishStringLit assembles an embedded-expression string from its
// head token plus the mid/tail segments the scanner resumes scanning
// once the parser has consumed each embedded expression's closing `}`
// (lexer.scanStringContinuation, spec.md §4.2/§9).
func (p *Parser) finishStringLit(head lexer.Token) ast.Expr {
	parts := []ast.StringPart{{Text: head.Lexeme}}
	for {
		expr := p.expression()
		parts = append(parts, ast.StringPart{Expr: expr})
		next := p.advance()
		switch next.Kind {
		case lexer.TokStringMid:
			parts = append(parts, ast.StringPart{Text: next.Lexeme})
		case lexer.TokStringTail:
			parts = append(parts, ast.StringPart{Text: next.Lexeme})
			return &ast.StringLit{Parts: parts, Pos: p.pos(head)}
		default:
			p.fail(next, "expected continuation of interpolated string")
			return &ast.StringLit{Parts: parts, Pos: p.pos(head)}
		}
	}
}

func (p *Parser) finishArrayLit(tok lexer.Token) ast.Expr {
	var items []ast.ArrayItem
	for !p.check(lexer.TokRBracket) && !p.check(lexer.TokEOF) {
		if p.match(lexer.TokEllipsis) {
			v := p.assignment()
			items = append(items, ast.ArrayItem{Value: v, Spread: true})
		} else {
			v := p.assignment()
			var cond ast.Expr
			if p.match(lexer.TokIf) {
				cond = p.expression()
			}
			items = append(items, ast.ArrayItem{Value: v, Cond: cond})
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.consume(lexer.TokRBracket, "']' after array literal")
	return &ast.ArrayLit{Items: items, Pos: p.pos(tok)}
}

func (p *Parser) finishObjectLit(tok lexer.Token) ast.Expr {
	var props []ast.ObjectProp
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		if p.match(lexer.TokEllipsis) {
			v := p.assignment()
			props = append(props, ast.ObjectProp{Spread: true, Value: v})
			if !p.match(lexer.TokComma) {
				break
			}
			continue
		}

		var key ast.Expr
		computed := false
		switch {
		case p.match(lexer.TokLBracket):
			key = p.expression()
			p.consume(lexer.TokRBracket, "']' after computed property key")
			computed = true
		case p.check(lexer.TokString):
			kt := p.advance()
			key = &ast.StringLit{Parts: []ast.StringPart{{Text: kt.Lexeme}}, Pos: p.pos(kt)}
		case p.check(lexer.TokNumber):
			kt := p.advance()
			key = &ast.Literal{Value: parseNumberLiteral(kt.Lexeme), Pos: p.pos(kt)}
		default:
			kt := p.consume(lexer.TokIdent, "object literal key")
			key = &ast.Ident{Name: kt.Lexeme, Pos: p.pos(kt)}
		}

		p.consume(lexer.TokColon, "':' after object literal key")
		val := p.assignment()
		var cond ast.Expr
		if p.match(lexer.TokIf) {
			cond = p.expression()
		}
		props = append(props, ast.ObjectProp{Key: key, Computed: computed, Value: val, Cond: cond})
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.consume(lexer.TokRBrace, "'}' after object literal")
	return &ast.ObjectLit{Props: props, Pos: p.pos(tok)}
}

// ---- destructuring patterns ----

func (p *Parser) parsePattern() ast.Expr {
	switch {
	case p.check(lexer.TokLBracket):
		return p.parseArrayPattern()
	case p.check(lexer.TokLBrace):
		return p.parseObjectPattern()
	default:
		nameTok := p.consume(lexer.TokIdent, "pattern target")
		return &ast.Ident{Name: nameTok.Lexeme, Pos: p.pos(nameTok)}
	}
}

func (p *Parser) parseArrayPattern() ast.Expr {
	tok := p.consume(lexer.TokLBracket, "'[' to start array pattern")
	var elems []ast.PatternElem
	for !p.check(lexer.TokRBracket) && !p.check(lexer.TokEOF) {
		if p.match(lexer.TokEllipsis) {
			target := p.parsePattern()
			elems = append(elems, ast.PatternElem{Target: target, Rest: true})
		} else {
			target := p.parsePattern()
			var def ast.Expr
			if p.match(lexer.TokAssign) {
				def = p.assignment()
			}
			elems = append(elems, ast.PatternElem{Target: target, Default: def})
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.consume(lexer.TokRBracket, "']' after array pattern")
	return &ast.ArrayPattern{Elements: elems, Pos: p.pos(tok)}
}

func (p *Parser) parseObjectPattern() ast.Expr {
	tok := p.consume(lexer.TokLBrace, "'{' to start object pattern")
	var props []ast.PatternProp
	for !p.check(lexer.TokRBrace) && !p.check(lexer.TokEOF) {
		if p.match(lexer.TokEllipsis) {
			nameTok := p.consume(lexer.TokIdent, "rest pattern name")
			props = append(props, ast.PatternProp{
				Key: nameTok.Lexeme, Target: &ast.Ident{Name: nameTok.Lexeme, Pos: p.pos(nameTok)}, Rest: true,
			})
		} else {
			keyTok := p.consume(lexer.TokIdent, "object pattern key")
			var target ast.Expr = &ast.Ident{Name: keyTok.Lexeme, Pos: p.pos(keyTok)}
			if p.match(lexer.TokColon) {
				target = p.parsePattern()
			}
			var def ast.Expr
			if p.match(lexer.TokAssign) {
				def = p.assignment()
			}
			props = append(props, ast.PatternProp{Key: keyTok.Lexeme, Target: target, Default: def})
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.consume(lexer.TokRBrace, "'}' after object pattern")
	return &ast.ObjectPattern{Props: props, Pos: p.pos(tok)}
}

// ---- literal helpers ----

// atExprTerminator reports whether the current token can't possibly
// start an expression, used to detect a bare `return`/`yield` with no
// value.
func (p *Parser) atExprTerminator() bool {
	switch p.peek().Kind {
	case lexer.TokRBrace, lexer.TokSemicolon, lexer.TokEOF, lexer.TokRParen, lexer.TokRBracket:
		return true
	}
	return false
}

func splitRegexLexeme(s string) (pattern, flags string) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// parseNumberLiteral converts a lexer-produced number lexeme (decimal,
// hex/octal/binary integer, or float with an optional exponent) into
// its float64 value.
func parseNumberLiteral(s string) float64 {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		n, _ := strconv.ParseUint(lower[2:], 16, 64)
		return float64(n)
	case strings.HasPrefix(lower, "0o"):
		n, _ := strconv.ParseUint(lower[2:], 8, 64)
		return float64(n)
	case strings.HasPrefix(lower, "0b"):
		n, _ := strconv.ParseUint(lower[2:], 2, 64)
		return float64(n)
	default:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
}

// exprPos recovers a node's Pos without a shared accessor; the AST
// favors plain structs over a common interface method for this field.
func exprPos(e ast.Expr) ast.Pos {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Pos
	case *ast.StringLit:
		return n.Pos
	case *ast.Ident:
		return n.Pos
	case *ast.PrivateIdent:
		return n.Pos
	case *ast.OuterIdent:
		return n.Pos
	case *ast.ThisExpr:
		return n.Pos
	case *ast.RegexLit:
		return n.Pos
	case *ast.ArrayLit:
		return n.Pos
	case *ast.ObjectLit:
		return n.Pos
	case *ast.FuncExpr:
		return n.Pos
	case *ast.CallExpr:
		return n.Pos
	case *ast.IndexExpr:
		return n.Pos
	case *ast.MemberExpr:
		return n.Pos
	case *ast.UnaryExpr:
		return n.Pos
	case *ast.BinaryExpr:
		return n.Pos
	case *ast.LogicalExpr:
		return n.Pos
	case *ast.AssignExpr:
		return n.Pos
	case *ast.ConditionalExpr:
		return n.Pos
	case *ast.SequenceExpr:
		return n.Pos
	case *ast.SpreadExpr:
		return n.Pos
	case *ast.YieldExpr:
		return n.Pos
	case *ast.ArrayPattern:
		return n.Pos
	case *ast.ObjectPattern:
		return n.Pos
	default:
		return ast.Pos{}
	}
}
