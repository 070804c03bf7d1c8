package parser

import "ox/internal/ast"

// DeclKind is the kind a name is declared with inside a function scope
// (spec.md §4.3).
type DeclKind string

const (
	DeclConst DeclKind = "const"
	DeclParam DeclKind = "param"
	DeclVar   DeclKind = "var"
	DeclRef   DeclKind = "ref"
	DeclOuter DeclKind = "outer"
)

// DeclInfo is one entry of a FunctionScope's declarations map.
type DeclInfo struct {
	Kind DeclKind
	Pos  ast.Pos
}

// ContextFlag gates which productions are allowed in the current
// function/block context (spec.md §4.3: "a context-flags word gating
// which productions are allowed").
type ContextFlag uint16

const (
	FlagReturn ContextFlag = 1 << iota
	FlagBreak
	FlagContinue
	FlagPublic
	FlagOwned
	FlagTextdomain
	FlagInArrayPattern
	FlagInObjectPattern
	FlagFiber // set once a `yield` is seen in this function
)

// FunctionScope is the parser's per-function bookkeeping: a
// declarations map plus an ordered declarations list, a context-flags
// word, an outer-function link for closures, and a dense index into
// the script's function array (spec.md §4.3).
type FunctionScope struct {
	Declarations map[string]*DeclInfo
	Order        []string
	Flags        ContextFlag
	Outer        *FunctionScope
	Index        int
}

func newFunctionScope(outer *FunctionScope, index int) *FunctionScope {
	return &FunctionScope{
		Declarations: make(map[string]*DeclInfo),
		Outer:        outer,
		Index:        index,
	}
}

// declare applies spec.md §4.3's conflict rules: redeclaring as a
// different kind is an error except var→param (upgrade) and same-kind
// no-op; redeclaring const/ref is always an error. Returns a non-nil
// error citing both the new site and the previous declaration.
func (fs *FunctionScope) declare(name string, kind DeclKind, pos ast.Pos) error {
	existing, ok := fs.Declarations[name]
	if !ok {
		fs.Declarations[name] = &DeclInfo{Kind: kind, Pos: pos}
		fs.Order = append(fs.Order, name)
		return nil
	}

	if existing.Kind == DeclConst || existing.Kind == DeclRef ||
		kind == DeclConst || kind == DeclRef {
		return &redeclareError{name, kind, existing, pos}
	}
	if existing.Kind == kind {
		return nil
	}
	if existing.Kind == DeclVar && kind == DeclParam {
		existing.Kind = DeclParam
		return nil
	}
	return &redeclareError{name, kind, existing, pos}
}

type redeclareError struct {
	name     string
	kind     DeclKind
	previous *DeclInfo
	pos      ast.Pos
}

func (e *redeclareError) Error() string {
	return "cannot redeclare \"" + e.name + "\" as " + string(e.kind) +
		"; previously declared as " + string(e.previous.Kind)
}
