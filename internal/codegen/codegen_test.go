package codegen

import (
	"testing"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/mangle"
	"lumen/internal/source"
	"lumen/internal/types"
)

func i32Type() ast.Type { return ast.Type{Builtin: "i32"} }

func addFunction() *ast.FunctionDef {
	return &ast.FunctionDef{
		Decl: &ast.FunctionDecl{
			Name:       "add",
			Params:     []ast.Param{{Name: "a", Type: i32Type()}, {Name: "b", Type: i32Type()}},
			ReturnType: i32Type(),
		},
		Body: &ast.Compound{Stmts: []ast.Stmt{
			&ast.Return{Expr: &ast.BinOp{Lhs: &ast.Ident{Name: "a"}, Op: ast.Add, Rhs: &ast.Ident{Name: "b"}}},
		}},
	}
}

func newTestContext() *Context {
	return New(source.NewFile("test.lm", ""))
}

func TestLowerProgramDeclaresMangledFunction(t *testing.T) {
	c := newTestContext()
	def := addFunction()
	c.LowerProgram(&ast.Program{File: "test", Decls: []ast.TopLevel{def}})

	want := mangle.New().MangleFunction(nil, "add", []types.Type{
		types.NewBuiltin(types.I32, false), types.NewBuiltin(types.I32, false),
	}, c)

	fn, ok := c.FuncByMangled(want)
	if !ok {
		t.Fatalf("expected function mangled as %q to be declared", want)
	}
	if len(fn.Blocks) < 2 {
		t.Fatalf("expected at least an entry and an end block, got %d", len(fn.Blocks))
	}
	for i, b := range fn.Blocks {
		if b.Term == nil {
			t.Errorf("block %d has no terminator", i)
		}
	}
}

func TestExternFunctionKeepsWrittenName(t *testing.T) {
	c := newTestContext()
	decl := &ast.FunctionDecl{
		Linkage:    ast.LinkageExternal,
		Name:       "puts",
		Params:     []ast.Param{{Name: "s", Type: ast.Type{Builtin: "char", PointerLevels: 1}}},
		ReturnType: i32Type(),
	}
	c.LowerProgram(&ast.Program{Decls: []ast.TopLevel{decl}})

	if _, ok := c.FuncByMangled("puts"); !ok {
		t.Fatalf("expected extern function to be registered under its unmangled name")
	}
}

func TestVariadicNonExternFunctionDeclares(t *testing.T) {
	c := newTestContext()
	def := &ast.FunctionDef{
		Decl: &ast.FunctionDecl{
			Name:       "f",
			Params:     []ast.Param{{Name: "a", Type: i32Type()}, {IsVararg: true}},
			ReturnType: i32Type(),
		},
		Body: &ast.Compound{Stmts: []ast.Stmt{
			&ast.Return{Expr: &ast.Ident{Name: "a"}},
		}},
	}
	c.LowerProgram(&ast.Program{Decls: []ast.TopLevel{def}})

	want := mangle.New().MangleFunction(nil, "f", []types.Type{
		types.NewBuiltin(types.I32, false),
	}, c)
	fn, ok := c.FuncByMangled(want)
	if !ok {
		t.Fatalf("expected function mangled as %q to be declared", want)
	}
	if !fn.Sig.Variadic {
		t.Fatalf("expected the declared function to be variadic")
	}
}

func TestRedefinitionOfFunctionRaisesDiagnostic(t *testing.T) {
	c := newTestContext()
	def := addFunction()

	defer func() {
		r := recover()
		d := diag.Recover(r)
		if d == nil {
			t.Fatalf("expected a diagnostic panic, got none")
		}
		if d.Kind != diag.Redefinition {
			t.Fatalf("expected Redefinition, got %s", d.Kind)
		}
	}()

	c.LowerProgram(&ast.Program{Decls: []ast.TopLevel{def, addFunction()}})
}

func TestBreakOutsideLoopRaisesDiagnostic(t *testing.T) {
	c := newTestContext()
	def := &ast.FunctionDef{
		Decl: &ast.FunctionDecl{Name: "f", ReturnType: ast.Type{Builtin: "void"}},
		Body: &ast.Compound{Stmts: []ast.Stmt{&ast.Break{}}},
	}

	defer func() {
		r := recover()
		d := diag.Recover(r)
		if d == nil || d.Kind != diag.BreakContinueOutsideLoop {
			t.Fatalf("expected BreakContinueOutsideLoop, got %v", d)
		}
	}()

	c.LowerProgram(&ast.Program{Decls: []ast.TopLevel{def}})
}

func TestWhileLoopClosesAllBlocks(t *testing.T) {
	c := newTestContext()
	def := &ast.FunctionDef{
		Decl: &ast.FunctionDecl{
			Name:       "count",
			Params:     []ast.Param{{Name: "n", Type: i32Type()}},
			ReturnType: ast.Type{Builtin: "void"},
		},
		Body: &ast.Compound{Stmts: []ast.Stmt{
			&ast.While{
				Cond: &ast.BinOp{Lhs: &ast.Ident{Name: "n"}, Op: ast.Gt, Rhs: &ast.IntLit{Kind: ast.LitI32}},
				Body: &ast.Compound{Stmts: []ast.Stmt{&ast.Break{}}},
			},
			&ast.Return{},
		}},
	}
	c.LowerProgram(&ast.Program{Decls: []ast.TopLevel{def}})

	want := mangle.New().MangleFunction(nil, "count", []types.Type{types.NewBuiltin(types.I32, false)}, c)
	fn, ok := c.FuncByMangled(want)
	if !ok {
		t.Fatalf("expected function %q to be declared", want)
	}
	for i, b := range fn.Blocks {
		if b.Term == nil {
			t.Errorf("block %d left unterminated by while-loop lowering", i)
		}
	}
}

func TestVarDefRejectsSameScopeRedefinition(t *testing.T) {
	c := newTestContext()
	def := &ast.FunctionDef{
		Decl: &ast.FunctionDecl{Name: "f", ReturnType: ast.Type{Builtin: "void"}},
		Body: &ast.Compound{Stmts: []ast.Stmt{
			&ast.VarDef{Name: "x", Type: &ast.Type{Builtin: "i32"}, Init: ast.ExprInit{Expr: &ast.IntLit{Kind: ast.LitI32}}},
			&ast.VarDef{Name: "x", Type: &ast.Type{Builtin: "i32"}, Init: ast.ExprInit{Expr: &ast.IntLit{Kind: ast.LitI32}}},
		}},
	}

	defer func() {
		r := recover()
		d := diag.Recover(r)
		if d == nil || d.Kind != diag.Redefinition {
			t.Fatalf("expected Redefinition, got %v", d)
		}
	}()

	c.LowerProgram(&ast.Program{Decls: []ast.TopLevel{def}})
}
