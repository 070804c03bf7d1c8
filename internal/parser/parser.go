// Package parser implements a recursive-descent, Pratt-style parser
// over internal/lexer's token stream, producing internal/ast trees for
// the full OX grammar (spec.md §4.3).
//
// Grounded on the teacher's internal/parser/parser.go match/check/
// consume/advance idiom, generalized from the teacher's reduced
// grammar to declarations (func/class/enum/bitfield/public/ref/
// textdomain), the full statement set, and 16 levels of expression
// precedence including conditional chains, destructuring, and fiber
// `yield`. Declaration conflict rules and synchronized error recovery
// are grounded on original_source/src/lib/ox_parser.c's declaration
// table and sync-token handling (the largest file in the original,
// consistent with spec.md §2's 14% share estimate).
package parser

import (
	"fmt"

	"ox/internal/ast"
	"ox/internal/langerr"
	"ox/internal/lexer"
)

// Parser drives lexer.Scanner with 2-token lookahead, feeding back
// regex-allowed state after every token the way spec.md §4.2 requires.
type Parser struct {
	scanner *lexer.Scanner
	file    string

	buf    []lexer.Token // lookahead buffer, at most 2 tokens
	prev   lexer.Token

	Errors []error

	scope     *FunctionScope
	funcCount int
}

func New(scanner *lexer.Scanner, file string) *Parser {
	p := &Parser{scanner: scanner, file: file}
	p.scope = newFunctionScope(nil, p.nextFuncIndex())
	return p
}

func (p *Parser) nextFuncIndex() int {
	i := p.funcCount
	p.funcCount++
	return i
}

// ParseProgram parses a whole source file: a sequence of top-level
// statements/declarations plus any block-level doc comments that never
// attached to a following declaration.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.check(lexer.TokEOF) {
		stmt := p.safeTopLevel()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
			if ds, ok := stmt.(*ast.DocStmt); ok {
				prog.TopDocs = append(prog.TopDocs, ds.Doc)
			}
		}
	}
	return prog
}

func (p *Parser) safeTopLevel() (stmt ast.Stmt) {
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
	return p.topLevel()
}

// parseSignal unwinds the recursive descent to the nearest recovery
// point without tearing down the whole parse (spec.md §4.3 "Error
// recovery").
type parseSignal struct{ err error }

func (p *Parser) fail(tok lexer.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	err := langerr.New(langerr.SyntaxError, msg).At(p.file, tok.Line, tok.Column)
	panic(&parseSignal{err: err})
}

// synchronize advances past tokens until one of the requested
// categories (or EOF), tracking bracket balance so it never stops
// inside nested structure it hasn't yet closed (spec.md §4.3).
func (p *Parser) synchronize(stops ...lexer.TokenKind) {
	depth := 0
	for {
		t := p.peek()
		if t.Kind == lexer.TokEOF {
			return
		}
		switch t.Kind {
		case lexer.TokLBrace, lexer.TokLParen, lexer.TokLBracket:
			depth++
		case lexer.TokRBrace, lexer.TokRParen, lexer.TokRBracket:
			if depth == 0 {
				for _, s := range stops {
					if t.Kind == s {
						return
					}
				}
			} else {
				depth--
			}
		}
		if depth == 0 {
			for _, s := range stops {
				if t.Kind == s {
					return
				}
			}
		}
		p.advance()
	}
}

// ---- token stream plumbing ----

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.scanner.Next())
	}
}

func (p *Parser) peek() lexer.Token {
	p.fill(0)
	return p.buf[0]
}

func (p *Parser) peekNext() lexer.Token {
	p.fill(1)
	return p.buf[1]
}

// regexAllowedAfter reports whether `/` following tok should be read as
// a regex literal (spec.md §4.2: tracked by the parser after each
// token). Division is expected right after a value-producing token;
// everything else (operators, keywords, open brackets) allows a regex.
func regexAllowedAfter(k lexer.TokenKind) bool {
	switch k {
	case lexer.TokIdent, lexer.TokNumber, lexer.TokString, lexer.TokChar,
		lexer.TokRParen, lexer.TokRBracket, lexer.TokThis, lexer.TokStringTail:
		return false
	}
	return true
}

func (p *Parser) advance() lexer.Token {
	p.fill(0)
	t := p.buf[0]
	p.buf = p.buf[1:]
	p.prev = t
	p.scanner.SetRegexAllowed(regexAllowedAfter(t.Kind))
	return t
}

func (p *Parser) check(k lexer.TokenKind) bool { return p.peek().Kind == k }

func (p *Parser) checkNext(k lexer.TokenKind) bool { return p.peekNext().Kind == k }

func (p *Parser) match(k lexer.TokenKind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(k lexer.TokenKind, what string) lexer.Token {
	if p.check(k) {
		return p.advance()
	}
	t := p.peek()
	p.fail(t, "expected %s, got %q", what, t.Lexeme)
	return t // unreachable, fail panics
}

func (p *Parser) pos(t lexer.Token) ast.Pos { return ast.Pos{Line: t.Line, Column: t.Column} }

func (p *Parser) docOf(t lexer.Token) *ast.Doc {
	if t.Doc == "" {
		return nil
	}
	return &ast.Doc{Text: t.Doc, Command: docCommand(t.Doc), Pos: p.pos(t)}
}

func docCommand(text string) string {
	if len(text) == 0 || text[0] != '@' {
		return ""
	}
	i := 1
	for i < len(text) && text[i] != ' ' && text[i] != '\n' && text[i] != '\t' {
		i++
	}
	return text[:i]
}

// isBlockDocCommand reports whether a doc command is a script-level
// construct (spec.md §4.3's "@package, @module, @lib, …") rather than
// one attached to the next declaration.
func isBlockDocCommand(cmd string) bool {
	switch cmd {
	case "@package", "@module", "@lib", "@exe":
		return true
	}
	return false
}
