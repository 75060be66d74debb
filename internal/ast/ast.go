// Package ast defines the compiler's value-only abstract syntax tree:
// three independent sum types for expressions, statements, and top-level
// declarations, each variant tagged with a source.Range for diagnostics.
// The tree is built by internal/parser, owned by the driver for the
// duration of a single translation unit, and read-only during code
// generation, grounded on original_source/src/ast/ast.cpp and the
// teacher's pkg/compiler/ast.go shape.
package ast

import "lumen/internal/source"

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
	Range() source.Range
}

type exprBase struct{ Pos source.Range }

func (exprBase) exprNode()               {}
func (e exprBase) Range() source.Range   { return e.Pos }
func (e *exprBase) SetPos(r source.Range) { e.Pos = r }

// Nil is the empty expression, used where the grammar allows an optional
// expression to be absent (e.g. a bare `return;`).
type Nil struct{ exprBase }

// IntLit is an integer literal. Kind records the smallest width/signedness
// combination the literal's written form implies, per spec §4.3: the
// smallest of {i32, u32, i64, u64} that holds the value, preserving written
// signedness (a 'u' suffix, or a magnitude exceeding an i32/i64).
type IntLit struct {
	exprBase
	Value      uint64
	Kind       IntLitKind
	IsUnsigned bool
}

type IntLitKind int

const (
	LitI32 IntLitKind = iota
	LitU32
	LitI64
	LitU64
)

// BoolLit is `true` or `false`.
type BoolLit struct {
	exprBase
	Value bool
}

// StringLit is a string literal, decoded to UTF-32 code points at parse
// time (spec §3.3: `StringLit(utf32)`), lowered to a pointer to a constant
// char array by internal/codegen.
type StringLit struct {
	exprBase
	Value []rune
}

// CharLit is a single Unicode code point literal.
type CharLit struct {
	exprBase
	Value rune
}

// Ident is a bare identifier reference.
type Ident struct {
	exprBase
	Name string
}

// BinOpKind enumerates binary operators. `>` maps to Gt (spec §9 resolves
// the "typo" open question in favor of the non-buggy mapping).
type BinOpKind int

const (
	Add BinOpKind = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

// BinOp is a binary operation. Op is carried as the source text at parse
// time and mapped to a BinOpKind by internal/parser.
type BinOp struct {
	exprBase
	Lhs Expr
	Op  BinOpKind
	Rhs Expr
}

// UnaryOpKind enumerates unary operators.
type UnaryOpKind int

const (
	Pos UnaryOpKind = iota // +x, identity
	Neg                    // -x
	Not                    // !x
	Addr                   // &x, address-of
	Deref                  // *x, indirection
)

type UnaryOp struct {
	exprBase
	Op  UnaryOpKind
	Rhs Expr
}

// Subscript is `ident[index]`.
type Subscript struct {
	exprBase
	Ident Expr
	Index Expr
}

// Call is `callee(args...)`.
type Call struct {
	exprBase
	Callee string
	Args   []Expr
}

// Cast is `(type) lhs`.
type Cast struct {
	exprBase
	Lhs  Expr
	Type Type
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	Range() source.Range
}

type stmtBase struct{ Pos source.Range }

func (stmtBase) stmtNode()               {}
func (s stmtBase) Range() source.Range   { return s.Pos }
func (s *stmtBase) SetPos(r source.Range) { s.Pos = r }

// NilStmt is the empty statement.
type NilStmt struct{ stmtBase }

// Compound is `{ stmt... }`.
type Compound struct {
	stmtBase
	Stmts []Stmt
}

// ExprStmt evaluates an expression and discards the result.
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// Return is `return expr?;`.
type Return struct {
	stmtBase
	Expr Expr // nil if bare `return;`
}

// Qualifier marks a VarDef's mutability. The zero value is Immutable.
type Qualifier int

const (
	Immutable Qualifier = iota
	Mutable
)

// Initializer is either a single expression or an initializer list, spec
// §3.3.
type Initializer interface {
	initNode()
	Range() source.Range
}

type ExprInit struct{ Expr Expr }

func (ExprInit) initNode()               {}
func (e ExprInit) Range() source.Range   { return e.Expr.Range() }

type InitList struct {
	Elements []Expr
	Pos      source.Range
}

func (InitList) initNode()             {}
func (l InitList) Range() source.Range { return l.Pos }

// VarDef is `let [mutable] name[: type] [= init];`. Type and Init are each
// optional but not both: spec §4.5 requires at least one.
type VarDef struct {
	stmtBase
	Qualifier Qualifier
	Name      string
	Type      *Type // nil if inferred
	Init      Initializer // nil if absent
}

// AssignOpKind enumerates simple and compound assignment operators.
type AssignOpKind int

const (
	AssignSet AssignOpKind = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

type Assign struct {
	stmtBase
	Lhs Expr
	Op  AssignOpKind
	Rhs Expr
}

// PreIncDecKind distinguishes ++x from --x.
type PreIncDecKind int

const (
	PreInc PreIncDecKind = iota
	PreDec
)

type PreIncDec struct {
	stmtBase
	Op  PreIncDecKind
	Rhs Expr
}

type Break struct{ stmtBase }
type Continue struct{ stmtBase }

type If struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// Loop is the unconditional `loop { body }` form.
type Loop struct {
	stmtBase
	Body Stmt
}

type While struct {
	stmtBase
	Cond Expr
	Body Stmt
}

// For is a C-style for loop; Init, Cond, and Step are each independently
// optional.
type For struct {
	stmtBase
	Init Stmt // nil, an Assign, or a VarDef
	Cond Expr // nil means "always true"
	Step Stmt // nil, an Assign, or a PreIncDec
	Body Stmt
}

// TopLevel is implemented by every top-level declaration.
type TopLevel interface {
	topLevelNode()
	Range() source.Range
}

type topLevelBase struct{ Pos source.Range }

func (topLevelBase) topLevelNode()           {}
func (t topLevelBase) Range() source.Range   { return t.Pos }
func (t *topLevelBase) SetPos(r source.Range) { t.Pos = r }

type NilTopLevel struct{ topLevelBase }

// Param is a function parameter: a name and a type. IsVararg marks the
// (always-last) `...` parameter, which accepts any suffix of call
// arguments per spec §4.3.
type Param struct {
	Name      string
	Type      Type
	IsVararg  bool
}

// Linkage marks a function declaration's external-linkage keyword, if any.
type Linkage int

const (
	LinkageInternal Linkage = iota
	LinkageExternal
)

// FunctionDecl is a function signature, optionally `extern`.
type FunctionDecl struct {
	topLevelBase
	Linkage    Linkage
	Name       string
	Params     []Param
	ReturnType Type
}

// FunctionDef pairs a declaration with a body.
type FunctionDef struct {
	topLevelBase
	Decl *FunctionDecl
	Body *Compound
}

// StructDecl introduces a class type with its members, at top level (an
// addition SPEC_FULL makes explicit, following original_source's
// ClassType member registration; spec.md's [MODULE] Types section already
// requires this shape via UserDefined/Class).
type StructDecl struct {
	topLevelBase
	Name    string
	Members []Param
}

// UnionDecl introduces a tagged union type at top level.
type UnionDecl struct {
	topLevelBase
	Name  string
	Tags  []Param
}

// Program is the top-level result of parsing one translation unit.
type Program struct {
	File  string
	Decls []TopLevel
}
