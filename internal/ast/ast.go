// Package ast defines the tagged syntax tree internal/parser builds:
// declarations, statements, and expressions for the full OX grammar
// (spec.md §4.3), plus the doc-comment nodes §4.2/§6 describe.
//
// Grounded on the teacher's internal/parser/ast.go + stmt.go Accept
// double-dispatch idiom, generalized from the teacher's reduced
// expression/statement set to the full declaration/expression grammar
// (classes, enums, bitfields, destructuring, try/catch/finally, throw,
// fiber yield, doc capture) spec.md §4.3 calls for.
package ast

// Pos pins a node to a source position for diagnostics.
type Pos struct {
	Line   int
	Column int
}

// Doc is a captured `/*? … */` / `//? …` comment, spec.md §4.2/§6.
// Command is the leading `@tag` (package/module/lib/exe/func/class/
// const/var/object/callback/otype) when present, empty otherwise.
type Doc struct {
	Text    string
	Command string
	Pos     Pos
}

// Expr is any expression node.
type Expr interface {
	Accept(v ExprVisitor) any
	exprNode()
}

// Stmt is any statement or declaration that can appear in a block.
type Stmt interface {
	Accept(v StmtVisitor) any
	stmtNode()
}

// Program is a whole parsed source file: its top-level statements plus
// any block-level doc nodes not attached to a following declaration
// (spec.md §4.3 "Documentation capture").
type Program struct {
	Stmts    []Stmt
	TopDocs  []*Doc
}

// ---- Expressions ----

type Literal struct {
	Value any // nil, bool, float64
	Pos   Pos
}

func (*Literal) exprNode() {}

// StringPart is either literal text or an embedded expression, the
// lowering of the lexer's head/mid/tail token split (spec.md §4.2,
// §9 "Embedded-expression strings").
type StringPart struct {
	Text string
	Expr Expr // nil when Text is the live field
}

type StringLit struct {
	Parts []StringPart
	Pos   Pos
}

func (*StringLit) exprNode() {}

type Ident struct {
	Name string
	Pos  Pos
}

func (*Ident) exprNode() {}

// PrivateIdent is `#id`; OuterIdent is `@id` (spec.md §4.2).
type PrivateIdent struct {
	Name string
	Pos  Pos
}

func (*PrivateIdent) exprNode() {}

type OuterIdent struct {
	Name string
	Pos  Pos
}

func (*OuterIdent) exprNode() {}

type ThisExpr struct{ Pos Pos }

func (*ThisExpr) exprNode() {}

type RegexLit struct {
	Pattern string
	Flags   string
	Pos     Pos
}

func (*RegexLit) exprNode() {}

// ArrayItem is one element of an array literal: a plain value, a
// `...spread`, or an `if`/`case`/enum-conditional item (spec.md §4.3).
type ArrayItem struct {
	Value  Expr
	Spread bool
	Cond   Expr // non-nil: "value if Cond"
}

type ArrayLit struct {
	Items []ArrayItem
	Pos   Pos
}

func (*ArrayLit) exprNode() {}

// ObjectProp is one property of an object literal: `key: value`,
// `...spread`, a computed `[expr]: value`, or a conditional item.
type ObjectProp struct {
	Key      Expr
	Computed bool
	Value    Expr
	Spread   bool
	Cond     Expr
}

type ObjectLit struct {
	Props []ObjectProp
	Pos   Pos
}

func (*ObjectLit) exprNode() {}

// Param is one function/lambda parameter: a plain name, a destructuring
// pattern, a default value, or a rest (`...name`) parameter.
type Param struct {
	Name    string
	Pattern Expr // ArrayPattern/ObjectPattern when destructuring
	Default Expr
	Rest    bool
	Pos     Pos
}

// FuncExpr is a function value: a named/anonymous closure, a `=>` arrow
// lambda, or a fiber generator body (distinguished only by whether the
// body contains `yield`, resolved by the consumer, not the parser).
type FuncExpr struct {
	Name    string // empty for an anonymous lambda
	Params  []Param
	Body    *Block // arrow bodies are wrapped in a synthetic single-return block
	IsArrow bool
	Pos     Pos

	// Scope carries the parser's per-function declaration bookkeeping
	// (spec.md §4.3) as an opaque value so internal/ast has no import
	// back onto internal/parser.
	Scope any
}

func (*FuncExpr) exprNode() {}

type CallExpr struct {
	Callee   Expr
	Args     []Expr
	Optional bool // `?(...)`
	Pos      Pos
}

func (*CallExpr) exprNode() {}

type IndexExpr struct {
	Object   Expr
	Index    Expr
	Optional bool // `?[...]`
	Pos      Pos
}

func (*IndexExpr) exprNode() {}

type MemberExpr struct {
	Object   Expr
	Name     string
	Optional bool // `?.`
	Pos      Pos
}

func (*MemberExpr) exprNode() {}

type UnaryExpr struct {
	Op      string
	Operand Expr
	Prefix  bool
	Pos     Pos
}

func (*UnaryExpr) exprNode() {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (*BinaryExpr) exprNode() {}

// LogicalExpr is `&&`/`||`/`??`, kept distinct from BinaryExpr because
// these short-circuit (the original generalizes this the same way).
type LogicalExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (*LogicalExpr) exprNode() {}

type AssignExpr struct {
	Op     string // "=", "+=", "??=", ...
	Target Expr
	Value  Expr
	Pos    Pos
}

func (*AssignExpr) exprNode() {}

type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (*ConditionalExpr) exprNode() {}

// SequenceExpr is the comma operator, spec.md §4.3's lowest of the 16
// precedence levels.
type SequenceExpr struct {
	Exprs []Expr
	Pos   Pos
}

func (*SequenceExpr) exprNode() {}

type SpreadExpr struct {
	Value Expr
	Pos   Pos
}

func (*SpreadExpr) exprNode() {}

type YieldExpr struct {
	Value Expr // nil for a bare `yield`
	Pos   Pos
}

func (*YieldExpr) exprNode() {}

// PatternElem is one element of an ArrayPattern.
type PatternElem struct {
	Target  Expr // Ident, ArrayPattern, or ObjectPattern
	Default Expr
	Rest    bool
}

type ArrayPattern struct {
	Elements []PatternElem
	Pos      Pos
}

func (*ArrayPattern) exprNode() {}

// PatternProp is one property of an ObjectPattern: `{name}`, `{key: target}`,
// or `{...rest}`.
type PatternProp struct {
	Key     string
	Target  Expr
	Default Expr
	Rest    bool
}

type ObjectPattern struct {
	Props []PatternProp
	Pos   Pos
}

func (*ObjectPattern) exprNode() {}

// ---- Statements & declarations ----

type Block struct {
	Stmts []Stmt
	Pos   Pos
}

func (*Block) stmtNode() {}

type ExprStmt struct {
	Expr Expr
	Pos  Pos
}

func (*ExprStmt) stmtNode() {}

// VarStmt is a `const`/`var`/`ref` declaration statement; Targets and
// Inits run in parallel (destructuring assigns one init per target, a
// plain declaration assigns index-for-index).
type VarStmt struct {
	Kind    string // "const", "var", "ref"
	Targets []Expr // Ident or ArrayPattern/ObjectPattern
	Inits   []Expr
	Public  bool
	Doc     *Doc
	Pos     Pos
}

func (*VarStmt) stmtNode() {}

type ElifClause struct {
	Cond Expr
	Body *Block
}

type IfStmt struct {
	Cond  Expr
	Then  *Block
	Elifs []ElifClause
	Else  *Block
	Pos   Pos
}

func (*IfStmt) stmtNode() {}

type DoWhileStmt struct {
	Body *Block
	Cond Expr
	Pos  Pos
}

func (*DoWhileStmt) stmtNode() {}

type WhileStmt struct {
	Cond Expr
	Body *Block
	Pos  Pos
}

func (*WhileStmt) stmtNode() {}

type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Stmt
	Body *Block
	Pos  Pos
}

func (*ForStmt) stmtNode() {}

// ForAsStmt is `for x as expr { ... }`, driving the iterator protocol
// (spec.md §4.4).
type ForAsStmt struct {
	VarName  string
	IsDecl   bool // `for var x as expr` (or const) vs `for x as expr`
	Iterable Expr
	Body     *Block
	Pos      Pos
}

func (*ForAsStmt) stmtNode() {}

// SchedStmt brackets a block that runs with the context's scheduling
// counter adjusted (spec.md §4.7's "sched" status-stack entry).
type SchedStmt struct {
	Body *Block
	Pos  Pos
}

func (*SchedStmt) stmtNode() {}

type CaseClause struct {
	Values []Expr // empty means default
	Body   *Block
}

type CaseStmt struct {
	Subject Expr
	Clauses []CaseClause
	Pos     Pos
}

func (*CaseStmt) stmtNode() {}

type TryStmt struct {
	Try       *Block
	CatchName string
	Catch     *Block // nil if no catch clause
	Finally   *Block // nil if no finally clause
	Pos       Pos
}

func (*TryStmt) stmtNode() {}

type ReturnStmt struct {
	Value Expr
	Pos   Pos
}

func (*ReturnStmt) stmtNode() {}

type ThrowStmt struct {
	Value Expr
	Pos   Pos
}

func (*ThrowStmt) stmtNode() {}

type BreakStmt struct{ Pos Pos }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ Pos Pos }

func (*ContinueStmt) stmtNode() {}

// FuncDecl is a named function/method declaration (top-level, or a
// class member when embedded in ClassMember.Method).
type FuncDecl struct {
	Name   string
	Params []Param
	Body   *Block
	Public bool
	Doc    *Doc
	Pos    Pos

	Scope any // parser.FunctionScope, see FuncExpr.Scope
}

func (*FuncDecl) stmtNode() {}

// ClassMember is one member of a class body: a method, a const/var/ref
// field, or an accessor (getter with optional setter).
type ClassMember struct {
	Kind      string // "method", "field", "accessor"
	FieldKind string // "const", "var", "ref" — only when Kind == "field"
	Name      string
	Method    *FuncDecl // Kind == "method"
	Init      Expr      // Kind == "field"
	Getter    *FuncDecl // Kind == "accessor"
	Setter    *FuncDecl // Kind == "accessor", may be nil
	Doc       *Doc
}

type ClassDecl struct {
	Name       string
	Super      string
	Interfaces []string
	Members    []ClassMember
	Public     bool
	Doc        *Doc
	Pos        Pos
}

func (*ClassDecl) stmtNode() {}

type EnumMember struct {
	Name  string
	Value Expr // nil: auto-increment
	Doc   *Doc
}

type EnumDecl struct {
	Name    string
	Members []EnumMember
	Public  bool
	Doc     *Doc
	Pos     Pos
}

func (*EnumDecl) stmtNode() {}

type BitfieldMember struct {
	Name  string
	Value Expr // bit position or explicit mask expression
	Doc   *Doc
}

type BitfieldDecl struct {
	Name    string
	Members []BitfieldMember
	Public  bool
	Doc     *Doc
	Pos     Pos
}

func (*BitfieldDecl) stmtNode() {}

type TextdomainStmt struct {
	Name string
	Pos  Pos
}

func (*TextdomainStmt) stmtNode() {}

// DocStmt is a block-level doc comment (`@package`, `@module`, `@lib`,
// ...) not attached to a following declaration; the parser appends
// these to Program.TopDocs as well as leaving one here in place
// (spec.md §4.3 "Documentation capture").
type DocStmt struct {
	Doc *Doc
	Pos Pos
}

func (*DocStmt) stmtNode() {}

type ImportStmt struct {
	Path  string
	Alias string
	Pos   Pos
}

func (*ImportStmt) stmtNode() {}

type ExportStmt struct {
	Decl Stmt
	Pos  Pos
}

func (*ExportStmt) stmtNode() {}

// ---- Visitors ----

type ExprVisitor interface {
	VisitLiteral(*Literal) any
	VisitStringLit(*StringLit) any
	VisitIdent(*Ident) any
	VisitPrivateIdent(*PrivateIdent) any
	VisitOuterIdent(*OuterIdent) any
	VisitThisExpr(*ThisExpr) any
	VisitRegexLit(*RegexLit) any
	VisitArrayLit(*ArrayLit) any
	VisitObjectLit(*ObjectLit) any
	VisitFuncExpr(*FuncExpr) any
	VisitCallExpr(*CallExpr) any
	VisitIndexExpr(*IndexExpr) any
	VisitMemberExpr(*MemberExpr) any
	VisitUnaryExpr(*UnaryExpr) any
	VisitBinaryExpr(*BinaryExpr) any
	VisitLogicalExpr(*LogicalExpr) any
	VisitAssignExpr(*AssignExpr) any
	VisitConditionalExpr(*ConditionalExpr) any
	VisitSequenceExpr(*SequenceExpr) any
	VisitSpreadExpr(*SpreadExpr) any
	VisitYieldExpr(*YieldExpr) any
	VisitArrayPattern(*ArrayPattern) any
	VisitObjectPattern(*ObjectPattern) any
}

type StmtVisitor interface {
	VisitBlock(*Block) any
	VisitExprStmt(*ExprStmt) any
	VisitVarStmt(*VarStmt) any
	VisitIfStmt(*IfStmt) any
	VisitDoWhileStmt(*DoWhileStmt) any
	VisitWhileStmt(*WhileStmt) any
	VisitForStmt(*ForStmt) any
	VisitForAsStmt(*ForAsStmt) any
	VisitSchedStmt(*SchedStmt) any
	VisitCaseStmt(*CaseStmt) any
	VisitTryStmt(*TryStmt) any
	VisitReturnStmt(*ReturnStmt) any
	VisitThrowStmt(*ThrowStmt) any
	VisitBreakStmt(*BreakStmt) any
	VisitContinueStmt(*ContinueStmt) any
	VisitFuncDecl(*FuncDecl) any
	VisitClassDecl(*ClassDecl) any
	VisitEnumDecl(*EnumDecl) any
	VisitBitfieldDecl(*BitfieldDecl) any
	VisitTextdomainStmt(*TextdomainStmt) any
	VisitDocStmt(*DocStmt) any
	VisitImportStmt(*ImportStmt) any
	VisitExportStmt(*ExportStmt) any
}

func (n *Literal) Accept(v ExprVisitor) any          { return v.VisitLiteral(n) }
func (n *StringLit) Accept(v ExprVisitor) any        { return v.VisitStringLit(n) }
func (n *Ident) Accept(v ExprVisitor) any            { return v.VisitIdent(n) }
func (n *PrivateIdent) Accept(v ExprVisitor) any     { return v.VisitPrivateIdent(n) }
func (n *OuterIdent) Accept(v ExprVisitor) any       { return v.VisitOuterIdent(n) }
func (n *ThisExpr) Accept(v ExprVisitor) any         { return v.VisitThisExpr(n) }
func (n *RegexLit) Accept(v ExprVisitor) any         { return v.VisitRegexLit(n) }
func (n *ArrayLit) Accept(v ExprVisitor) any         { return v.VisitArrayLit(n) }
func (n *ObjectLit) Accept(v ExprVisitor) any        { return v.VisitObjectLit(n) }
func (n *FuncExpr) Accept(v ExprVisitor) any         { return v.VisitFuncExpr(n) }
func (n *CallExpr) Accept(v ExprVisitor) any         { return v.VisitCallExpr(n) }
func (n *IndexExpr) Accept(v ExprVisitor) any        { return v.VisitIndexExpr(n) }
func (n *MemberExpr) Accept(v ExprVisitor) any       { return v.VisitMemberExpr(n) }
func (n *UnaryExpr) Accept(v ExprVisitor) any        { return v.VisitUnaryExpr(n) }
func (n *BinaryExpr) Accept(v ExprVisitor) any       { return v.VisitBinaryExpr(n) }
func (n *LogicalExpr) Accept(v ExprVisitor) any      { return v.VisitLogicalExpr(n) }
func (n *AssignExpr) Accept(v ExprVisitor) any       { return v.VisitAssignExpr(n) }
func (n *ConditionalExpr) Accept(v ExprVisitor) any  { return v.VisitConditionalExpr(n) }
func (n *SequenceExpr) Accept(v ExprVisitor) any     { return v.VisitSequenceExpr(n) }
func (n *SpreadExpr) Accept(v ExprVisitor) any       { return v.VisitSpreadExpr(n) }
func (n *YieldExpr) Accept(v ExprVisitor) any        { return v.VisitYieldExpr(n) }
func (n *ArrayPattern) Accept(v ExprVisitor) any     { return v.VisitArrayPattern(n) }
func (n *ObjectPattern) Accept(v ExprVisitor) any    { return v.VisitObjectPattern(n) }

func (n *Block) Accept(v StmtVisitor) any           { return v.VisitBlock(n) }
func (n *ExprStmt) Accept(v StmtVisitor) any        { return v.VisitExprStmt(n) }
func (n *VarStmt) Accept(v StmtVisitor) any         { return v.VisitVarStmt(n) }
func (n *IfStmt) Accept(v StmtVisitor) any          { return v.VisitIfStmt(n) }
func (n *DoWhileStmt) Accept(v StmtVisitor) any     { return v.VisitDoWhileStmt(n) }
func (n *WhileStmt) Accept(v StmtVisitor) any       { return v.VisitWhileStmt(n) }
func (n *ForStmt) Accept(v StmtVisitor) any         { return v.VisitForStmt(n) }
func (n *ForAsStmt) Accept(v StmtVisitor) any       { return v.VisitForAsStmt(n) }
func (n *SchedStmt) Accept(v StmtVisitor) any       { return v.VisitSchedStmt(n) }
func (n *CaseStmt) Accept(v StmtVisitor) any        { return v.VisitCaseStmt(n) }
func (n *TryStmt) Accept(v StmtVisitor) any         { return v.VisitTryStmt(n) }
func (n *ReturnStmt) Accept(v StmtVisitor) any      { return v.VisitReturnStmt(n) }
func (n *ThrowStmt) Accept(v StmtVisitor) any       { return v.VisitThrowStmt(n) }
func (n *BreakStmt) Accept(v StmtVisitor) any       { return v.VisitBreakStmt(n) }
func (n *ContinueStmt) Accept(v StmtVisitor) any    { return v.VisitContinueStmt(n) }
func (n *FuncDecl) Accept(v StmtVisitor) any        { return v.VisitFuncDecl(n) }
func (n *ClassDecl) Accept(v StmtVisitor) any       { return v.VisitClassDecl(n) }
func (n *EnumDecl) Accept(v StmtVisitor) any        { return v.VisitEnumDecl(n) }
func (n *BitfieldDecl) Accept(v StmtVisitor) any    { return v.VisitBitfieldDecl(n) }
func (n *TextdomainStmt) Accept(v StmtVisitor) any  { return v.VisitTextdomainStmt(n) }
func (n *DocStmt) Accept(v StmtVisitor) any         { return v.VisitDocStmt(n) }
func (n *ImportStmt) Accept(v StmtVisitor) any      { return v.VisitImportStmt(n) }
func (n *ExportStmt) Accept(v StmtVisitor) any      { return v.VisitExportStmt(n) }
