package parser

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/ast"
	"ox/internal/lexer"
)

func parseString(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	scanner := lexer.NewScanner(lexer.NewStringInput(src), "<test>")
	p := New(scanner, "<test>")
	prog := p.ParseProgram()
	return prog, p
}

func assertParseSuccess(t *testing.T, src, description string) *ast.Program {
	t.Helper()
	prog, p := parseString(t, src)
	require.Emptyf(t, p.Errors, "%s: unexpected parse errors: %v", description, p.Errors)
	require.NotNil(t, prog)
	return prog
}

func assertParseError(t *testing.T, src, description string) {
	t.Helper()
	_, p := parseString(t, src)
	assert.NotEmptyf(t, p.Errors, "%s: expected parse errors, got none", description)
}

func TestVariableDeclarations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"const with init", "const x = 1"},
		{"var with init", "var y = 2"},
		{"ref with init", "ref z = y"},
		{"multiple targets", "var a = 1, b = 2"},
		{"no initializer", "var a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := assertParseSuccess(t, tt.src, tt.name)
			require.Len(t, prog.Stmts, 1)
			vs, ok := prog.Stmts[0].(*ast.VarStmt)
			require.Truef(t, ok, "expected *ast.VarStmt, got %T", prog.Stmts[0])
			assert.Equal(t, len(vs.Targets), len(vs.Inits))
		})
	}
}

func TestRedeclareRules(t *testing.T) {
	assertParseError(t, "const x = 1\nconst x = 2", "const redeclare must fail")
	assertParseError(t, "ref x = y\nref x = z", "ref redeclare must fail")
	assertParseSuccess(t, "var x = 1\nvar x = 2", "var redeclare is a no-op")
}

func TestStringLiterals(t *testing.T) {
	prog := assertParseSuccess(t, `var s = "hello"`, "plain string")
	vs := prog.Stmts[0].(*ast.VarStmt)
	lit, ok := vs.Inits[0].(*ast.StringLit)
	require.True(t, ok)
	require.Len(t, lit.Parts, 1)
	assert.Equal(t, "hello", lit.Parts[0].Text)
}

func TestInterpolatedStrings(t *testing.T) {
	prog := assertParseSuccess(t, `var s = "a {b} c"`, "interpolated string")
	vs := prog.Stmts[0].(*ast.VarStmt)
	lit, ok := vs.Inits[0].(*ast.StringLit)
	require.True(t, ok)
	require.Len(t, lit.Parts, 3)
	assert.Equal(t, "a ", lit.Parts[0].Text)
	require.NotNil(t, lit.Parts[1].Expr)
	ident, ok := lit.Parts[1].Expr.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "b", ident.Name)
	assert.Equal(t, " c", lit.Parts[2].Text)
}

func TestFunctionDeclarations(t *testing.T) {
	prog := assertParseSuccess(t, `func add(a, b) { return a + b }`, "simple function")
	require.Len(t, prog.Stmts, 1)
	fd, ok := prog.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fd.Name)
	require.Len(t, fd.Params, 2)
	assert.Equal(t, "a", fd.Params[0].Name)
	assert.Equal(t, "b", fd.Params[1].Name)
}

func TestFunctionRestAndDefaultParams(t *testing.T) {
	prog := assertParseSuccess(t, `func f(a, b = 2, ...rest) { return a }`, "default and rest params")
	fd := prog.Stmts[0].(*ast.FuncDecl)
	require.Len(t, fd.Params, 3)
	assert.NotNil(t, fd.Params[1].Default)
	assert.True(t, fd.Params[2].Rest)
}

func TestArrowLambdas(t *testing.T) {
	prog := assertParseSuccess(t, `var double = x => x * 2`, "single-param arrow")
	vs := prog.Stmts[0].(*ast.VarStmt)
	fn, ok := vs.Inits[0].(*ast.FuncExpr)
	require.True(t, ok)
	assert.True(t, fn.IsArrow)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
}

func TestForLoops(t *testing.T) {
	assertParseSuccess(t, `for (var i = 0; i < 10; i++) { }`, "classic for")
	assertParseSuccess(t, `for x as items { }`, "for-as")
	assertParseSuccess(t, `for { break }`, "infinite for")
}

func TestIfElifElse(t *testing.T) {
	prog := assertParseSuccess(t, `if a { } elif b { } else { }`, "if/elif/else")
	ifs := prog.Stmts[0].(*ast.IfStmt)
	require.Len(t, ifs.Elifs, 1)
	require.NotNil(t, ifs.Else)
}

func TestTryCatchFinally(t *testing.T) {
	assertParseSuccess(t, `try { } catch e { } finally { }`, "try/catch/finally")
	assertParseError(t, `try { }`, "try without catch or finally must fail")
}

func TestCaseStmt(t *testing.T) {
	prog := assertParseSuccess(t, `case x { 1, 2 => { } else => { } }`, "case with default")
	cs := prog.Stmts[0].(*ast.CaseStmt)
	require.Len(t, cs.Clauses, 2)
	assert.Len(t, cs.Clauses[0].Values, 2)
	assert.Empty(t, cs.Clauses[1].Values)
	assertParseError(t, `case x { }`, "case with no clauses must fail")
}

func TestClassDecl(t *testing.T) {
	src := `class Point {
		var x = 0
		var y = 0
		length() { return x }
		get magnitude() { return x }
		set magnitude(v) { x = v }
	}`
	prog := assertParseSuccess(t, src, "class with fields, method, accessor")
	cd := prog.Stmts[0].(*ast.ClassDecl)
	assert.Equal(t, "Point", cd.Name)
	var sawAccessor bool
	for _, m := range cd.Members {
		if m.Kind == "accessor" {
			sawAccessor = true
			assert.NotNil(t, m.Getter)
			assert.NotNil(t, m.Setter)
		}
	}
	assert.True(t, sawAccessor, "getter/setter pair should merge into one accessor member")
}

func TestClassInheritance(t *testing.T) {
	prog := assertParseSuccess(t, `class Square: Shape, Drawable { }`, "class with super and interfaces")
	cd := prog.Stmts[0].(*ast.ClassDecl)
	assert.Equal(t, "Shape", cd.Super)
	assert.Equal(t, []string{"Drawable"}, cd.Interfaces)
}

func TestEnumAndBitfield(t *testing.T) {
	assertParseSuccess(t, `enum Color { Red, Green, Blue = 5 }`, "enum")
	assertParseSuccess(t, `bitfield Perm { Read = 1, Write = 2 }`, "bitfield")
}

func TestDestructuring(t *testing.T) {
	assertParseSuccess(t, `var [a, b, ...rest] = list`, "array pattern")
	assertParseSuccess(t, `var {a, b: renamed} = obj`, "object pattern")
}

func TestRegexLiteral(t *testing.T) {
	prog := assertParseSuccess(t, `var r = /a+b*/i`, "regex literal")
	vs := prog.Stmts[0].(*ast.VarStmt)
	re, ok := vs.Inits[0].(*ast.RegexLit)
	require.True(t, ok)
	assert.Equal(t, "a+b*", re.Pattern)
	assert.Equal(t, "i", re.Flags)
}

func TestOptionalChaining(t *testing.T) {
	prog := assertParseSuccess(t, `var v = a?.b?[0]?(1)`, "optional member/index/call chain")
	vs := prog.Stmts[0].(*ast.VarStmt)
	_, ok := vs.Inits[0].(*ast.CallExpr)
	require.True(t, ok)
}

func TestYieldInFiberFunction(t *testing.T) {
	prog := assertParseSuccess(t, `func gen() { yield 1 yield }`, "yield with and without value")
	fd := prog.Stmts[0].(*ast.FuncDecl)
	fs, ok := fd.Scope.(*FunctionScope)
	require.True(t, ok)
	assert.NotZero(t, fs.Flags&FlagFiber)
}

func TestOperatorPrecedence(t *testing.T) {
	prog := assertParseSuccess(t, `var v = 1 + 2 * 3`, "multiplicative binds tighter than additive")
	vs := prog.Stmts[0].(*ast.VarStmt)
	bin := vs.Inits[0].(*ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
	_, rightIsMul := bin.Right.(*ast.BinaryExpr)
	assert.True(t, rightIsMul)
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog := assertParseSuccess(t, `var v = 2 ** 3 ** 2`, "right-associative power")
	vs := prog.Stmts[0].(*ast.VarStmt)
	bin := vs.Inits[0].(*ast.BinaryExpr)
	assert.Equal(t, "**", bin.Op)
	_, rightIsPow := bin.Right.(*ast.BinaryExpr)
	assert.True(t, rightIsPow)
}

func TestErrorRecoveryReportsIncompleteInitializer(t *testing.T) {
	_, p := parseString(t, "var x = \nvar y = 2")
	assert.NotEmpty(t, p.Errors)
}

func TestDocCommentAttachment(t *testing.T) {
	src := "/*? greets the world */\nfunc greet() { }"
	prog := assertParseSuccess(t, src, "doc comment attaches to following func")
	fd := prog.Stmts[0].(*ast.FuncDecl)
	require.NotNil(t, fd.Doc)
	assert.Contains(t, fd.Doc.Text, "greets the world")
}

func TestBlockDocCommentFloatsFree(t *testing.T) {
	src := "/*? @package demo */\nfunc f() { }"
	prog := assertParseSuccess(t, src, "@package doc floats to TopDocs")
	require.Len(t, prog.TopDocs, 1)
	assert.Equal(t, "@package", prog.TopDocs[0].Command)
}

// TestParseIsDeterministic covers the round-trip testable property
// (spec.md §8) at the scope this module actually implements: there is
// no pretty-printer/unparser here (out of this core's module map), but
// parsing the same source twice must still produce an AST equal up to
// doc attachment every time. pretty.Diff renders a field-by-field dump
// of the first mismatch on failure, the way the teacher's fixture-heavy
// tests lean on kr/pretty instead of a hand-rolled diff.
func TestParseIsDeterministic(t *testing.T) {
	srcs := []string{
		`class C { f() { return 1 } }`,
		`func g() { for x as [1,2,3] { if (x==2) throw "stop" } }`,
		`var v = a?.b?[0]?(1) + 2 * 3`,
	}
	for _, src := range srcs {
		first := assertParseSuccess(t, src, src)
		second := assertParseSuccess(t, src, src)
		if diff := pretty.Diff(first, second); len(diff) > 0 {
			t.Fatalf("parse of %q was not deterministic:\n%s", src, pretty.Sprint(diff))
		}
	}
}

func BenchmarkParseSimpleProgram(b *testing.B) {
	src := `func add(a, b) { return a + b }`
	for i := 0; i < b.N; i++ {
		scanner := lexer.NewScanner(lexer.NewStringInput(src), "<bench>")
		New(scanner, "<bench>").ParseProgram()
	}
}

func BenchmarkParseComplexProgram(b *testing.B) {
	src := `
	class Shape {
		var sides = 0
		area() { return 0 }
	}
	class Square: Shape {
		area() { return sides * sides }
	}
	func main() {
		var s = Square()
		for i as range(10) {
			if s.area() > i { break } else { continue }
		}
	}`
	for i := 0; i < b.N; i++ {
		scanner := lexer.NewScanner(lexer.NewStringInput(src), "<bench>")
		New(scanner, "<bench>").ParseProgram()
	}
}
