package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/mangle"
	"lumen/internal/symtable"
	"lumen/internal/types"
)

// LowerProgram lowers every top-level declaration of one translation unit
// into c's module, in source order. Struct and union declarations are
// registered first so forward references within function bodies resolve
// regardless of textual order, then function declarations are declared
// (so mutually recursive calls resolve), then function bodies are lowered.
func (c *Context) LowerProgram(p *ast.Program) {
	for _, d := range p.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			c.lowerStructDecl(n)
		case *ast.UnionDecl:
			c.lowerUnionDecl(n)
		}
	}
	for _, d := range p.Decls {
		switch n := d.(type) {
		case *ast.FunctionDecl:
			c.declareFunction(n)
		case *ast.FunctionDef:
			c.declareFunction(n.Decl)
		}
	}
	for _, d := range p.Decls {
		if def, ok := d.(*ast.FunctionDef); ok {
			c.defineFunction(def)
		}
	}
}

func (c *Context) lowerStructDecl(n *ast.StructDecl) {
	members := make([]types.MemberVariable, len(n.Members))
	for i, m := range n.Members {
		members[i] = types.MemberVariable{Name: m.Name, Type: c.CreateType(m.Type, false)}
	}
	c.DefineClass(n.Name, members, n.Range())
}

func (c *Context) lowerUnionDecl(n *ast.UnionDecl) {
	tags := make([]struct {
		Tag  string
		Type types.Type
	}, len(n.Tags))
	for i, t := range n.Tags {
		tags[i] = struct {
			Tag  string
			Type types.Type
		}{Tag: t.Name, Type: c.CreateType(t.Type, false)}
	}
	c.DefineUnion(types.NewUnion(n.Name, tags), n.Range())
}

// mangledNameOf computes the call-site symbol for a function declaration,
// honoring extern linkage: an externally linked declaration keeps its
// written name verbatim (spec §4.4: extern functions interoperate with
// code outside this translation unit and must not be mangled).
func (c *Context) mangledNameOf(decl *ast.FunctionDecl) string {
	if decl.Linkage == ast.LinkageExternal {
		return decl.Name
	}
	params := make([]types.Type, 0, len(decl.Params))
	for _, p := range decl.Params {
		if p.IsVararg {
			continue
		}
		params = append(params, c.CreateType(p.Type, false))
	}
	return c.Mangler.MangleFunction(c.Namespace, decl.Name, params, c)
}

func (c *Context) declareFunction(decl *ast.FunctionDecl) {
	mangled := c.mangledNameOf(decl)
	if _, exists := c.FuncByMangled(mangled); exists {
		diag.Raise(diag.Redefinition, decl.Range(), "redefinition of function %q", decl.Name)
	}

	ret := c.CreateType(decl.ReturnType, false)
	llParams := make([]*ir.Param, 0, len(decl.Params))
	for _, p := range decl.Params {
		if p.IsVararg {
			continue
		}
		llParams = append(llParams, ir.NewParam(p.Name, c.LowerType(c.CreateType(p.Type, false))))
	}

	fn := c.Module.NewFunc(mangled, c.LowerType(ret), llParams...)
	if len(decl.Params) > 0 && decl.Params[len(decl.Params)-1].IsVararg {
		fn.Sig.Variadic = true
	}
	if decl.Linkage == ast.LinkageExternal {
		fn.Linkage = enum.LinkageExternal
	}

	c.DeclareFunc(mangled, fn, ret)
}

func (c *Context) defineFunction(def *ast.FunctionDef) {
	decl := def.Decl
	mangled := c.mangledNameOf(decl)
	fn, ok := c.FuncByMangled(mangled)
	if !ok {
		diag.Raise(diag.InternalError, decl.Range(), "function %q was not declared before its definition", decl.Name)
	}

	entry := fn.NewBlock("entry")
	endBB := fn.NewBlock("end")

	scope := symtable.New()
	for i, p := range decl.Params {
		if p.IsVararg {
			continue
		}
		pt := c.CreateType(p.Type, true)
		alloc := entry.NewAlloca(c.LowerType(pt))
		entry.NewStore(fn.Params[i], alloc)
		scope.Register(p.Name, symtable.Variable{
			Type:    pt,
			Storage: alloc,
			Mutable: true,
			Signed:  pt.SignKind(c) == types.SignSigned,
		})
	}

	ret := c.ReturnTypeOfOrVoid(mangled)
	ctx := StmtContext{EndBB: endBB, RetType: ret}
	if !ret.IsVoid(c) {
		ctx.RetVar = entry.NewAlloca(c.LowerType(ret))
	}

	_, bodyEnd := c.LowerStmt(scope, fn, entry, ctx, def.Body)
	if bodyEnd.Term == nil {
		bodyEnd.NewBr(endBB)
	}

	if ret.IsVoid(c) {
		endBB.NewRet(nil)
	} else {
		endBB.NewRet(endBB.NewLoad(c.LowerType(ret), ctx.RetVar))
	}
}

// ReturnTypeOfOrVoid is ReturnTypeOf with a void fallback, used where a
// missing entry would otherwise be a nil-pointer bug rather than a
// meaningful diagnostic (declareFunction always populates this table before
// defineFunction runs).
func (c *Context) ReturnTypeOfOrVoid(mangled string) types.Type {
	if t, ok := c.ReturnTypeOf(mangled); ok {
		return t
	}
	return types.NewBuiltin(types.Void, false)
}

// PushNamespaceForClass is a convenience used while lowering a class's
// member functions, matching mangle.NamespaceFrame{IsClass: true}.
func (c *Context) PushNamespaceForClass(name string) {
	c.PushNamespace(mangle.NamespaceFrame{Name: name, IsClass: true})
}
