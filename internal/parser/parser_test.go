package parser

import (
	"strings"
	"testing"

	"lumen/internal/ast"
	"lumen/internal/source"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	file := source.NewFile("test.lm", src)
	prog, err := Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseReturnLiteral(t *testing.T) {
	prog := parseSrc(t, `fn main() -> i32 { return 42; }`)
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(prog.Decls))
	}
	def, ok := prog.Decls[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("expected *ast.FunctionDef, got %T", prog.Decls[0])
	}
	if def.Decl.Name != "main" {
		t.Fatalf("got name %q", def.Decl.Name)
	}
	if len(def.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(def.Body.Stmts))
	}
	ret, ok := def.Body.Stmts[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", def.Body.Stmts[0])
	}
	lit, ok := ret.Expr.(*ast.IntLit)
	if !ok || lit.Value != 42 {
		t.Fatalf("expected IntLit(42), got %#v", ret.Expr)
	}
}

func TestParseForLoopSummation(t *testing.T) {
	prog := parseSrc(t, `fn main() -> i32 {
		let mutable x: i32 = 0;
		for i := 0; i < 10; ++i { x += i; }
		return x;
	}`)
	def := prog.Decls[0].(*ast.FunctionDef)
	if len(def.Body.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(def.Body.Stmts))
	}
	forStmt, ok := def.Body.Stmts[1].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", def.Body.Stmts[1])
	}
	init, ok := forStmt.Init.(*ast.VarDef)
	if !ok || init.Name != "i" {
		t.Fatalf("expected short var-decl `i`, got %#v", forStmt.Init)
	}
	if _, ok := forStmt.Cond.(*ast.BinOp); !ok {
		t.Fatalf("expected a BinOp condition, got %#v", forStmt.Cond)
	}
	if _, ok := forStmt.Step.(*ast.PreIncDec); !ok {
		t.Fatalf("expected a PreIncDec step, got %#v", forStmt.Step)
	}
}

func TestParseFunctionCall(t *testing.T) {
	prog := parseSrc(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	def := prog.Decls[0].(*ast.FunctionDef)
	if len(def.Decl.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(def.Decl.Params))
	}
	ret := def.Body.Stmts[0].(*ast.Return)
	bin, ok := ret.Expr.(*ast.BinOp)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("expected Add BinOp, got %#v", ret.Expr)
	}
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	prog := parseSrc(t, `fn main() -> i32 {
		let a: [i32; 3] = {1, 2, 3};
		return a[2];
	}`)
	def := prog.Decls[0].(*ast.FunctionDef)
	varDef := def.Body.Stmts[0].(*ast.VarDef)
	if varDef.Type == nil || len(varDef.Type.ArraySizes) != 1 || varDef.Type.ArraySizes[0] != 3 {
		t.Fatalf("expected array type of size 3, got %#v", varDef.Type)
	}
	initList, ok := varDef.Init.(ast.InitList)
	if !ok || len(initList.Elements) != 3 {
		t.Fatalf("expected an InitList of 3 elements, got %#v", varDef.Init)
	}
	ret := def.Body.Stmts[1].(*ast.Return)
	sub, ok := ret.Expr.(*ast.Subscript)
	if !ok {
		t.Fatalf("expected *ast.Subscript, got %#v", ret.Expr)
	}
	if _, ok := sub.Ident.(*ast.Ident); !ok {
		t.Fatalf("expected subscript base to be an Ident, got %#v", sub.Ident)
	}
}

func TestParseExternDeclHasNoBody(t *testing.T) {
	prog := parseSrc(t, `extern fn puts(s: *char) -> i32;`)
	decl, ok := prog.Decls[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Decls[0])
	}
	if decl.Linkage != ast.LinkageExternal {
		t.Fatalf("expected external linkage")
	}
	if decl.Params[0].Type.PointerLevels != 1 || decl.Params[0].Type.Builtin != "char" {
		t.Fatalf("expected *char param type, got %#v", decl.Params[0].Type)
	}
}

func TestParseStructDecl(t *testing.T) {
	prog := parseSrc(t, `struct Point { x: i32, y: i32 }`)
	decl, ok := prog.Decls[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", prog.Decls[0])
	}
	if decl.Name != "Point" || len(decl.Members) != 2 {
		t.Fatalf("got %#v", decl)
	}
}

func TestParseCastExpression(t *testing.T) {
	prog := parseSrc(t, `fn main() -> i32 { return (i32) 1; }`)
	def := prog.Decls[0].(*ast.FunctionDef)
	ret := def.Body.Stmts[0].(*ast.Return)
	if _, ok := ret.Expr.(*ast.Cast); !ok {
		t.Fatalf("expected *ast.Cast, got %#v", ret.Expr)
	}
}

func TestParseErrorReportsLocation(t *testing.T) {
	file := source.NewFile("bad.lm", `fn main() -> i32 { return }`)
	_, err := Parse(file)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	if !strings.Contains(err.Error(), "bad.lm:1:27:") {
		t.Fatalf("expected the error to point at bad.lm:1:27, got %q", err.Error())
	}
}
