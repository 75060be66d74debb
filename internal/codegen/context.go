// Package codegen is the code generator core: a visitor over internal/ast
// that manages lexical scopes, enforces static typing, builds a
// control-flow graph for if/while/for/loop, and drives the IR builder
// façade (github.com/llir/llvm) to produce an *ir.Module. Grounded on
// original_source/lib/src/codegen/stmt.cpp and
// original_source/.../codegen/common.hpp, generalized from LLVM's C++ IR
// builder to llir/llvm's pure-Go equivalent.
package codegen

import (
	"github.com/llir/llvm/ir"

	"lumen/internal/diag"
	"lumen/internal/mangle"
	"lumen/internal/source"
	"lumen/internal/symtable"
	"lumen/internal/types"
)

// Context is the process-wide (per translation unit) code-generation
// state: spec §3.5's "code-gen context". It owns the IR module being
// populated, the struct/union/return-type tables, the namespace stack
// used for mangling, and the mangler itself. It implements
// types.Resolver so UserDefined type nodes can resolve themselves without
// the types package depending on codegen.
type Context struct {
	File *source.File

	Module *ir.Module

	classes map[string]*types.ClassType
	unions  map[string]*types.UnionType

	// funcs maps a mangled symbol to its declared llvm function.
	funcs map[string]*ir.Func
	// returnTypes maps a mangled symbol to its declared return type, spec
	// §3.5's return_type_table.
	returnTypes map[string]types.Type

	Namespace []mangle.NamespaceFrame
	Mangler   mangle.Mangler

	// Warnings accumulates non-fatal diagnostics (spec §5's additive
	// Warning severity for pointer<->integer casts); errors instead
	// panic with *diag.Diagnostic and unwind to the driver.
	Warnings []*diag.Diagnostic
}

// New returns an empty code-generation context for the translation unit
// whose source is file.
func New(file *source.File) *Context {
	return &Context{
		File:        file,
		Module:      ir.NewModule(),
		classes:     map[string]*types.ClassType{},
		unions:      map[string]*types.UnionType{},
		funcs:       map[string]*ir.Func{},
		returnTypes: map[string]types.Type{},
	}
}

// LookupClass implements types.Resolver.
func (c *Context) LookupClass(name string) (*types.ClassType, bool) {
	t, ok := c.classes[name]
	return t, ok
}

// LookupUnion implements types.Resolver.
func (c *Context) LookupUnion(name string) (*types.UnionType, bool) {
	t, ok := c.unions[name]
	return t, ok
}

// DeclareOpaqueClass registers a forward-declared class. It raises
// diag.Redefinition if a class or union with that name already exists:
// class and union names are globally unique within a compilation unit
// (spec §3.2).
func (c *Context) DeclareOpaqueClass(name string, r source.Range) *types.ClassType {
	c.checkNameFree(name, r)
	cls := types.NewOpaqueClass(name)
	c.classes[name] = cls
	return cls
}

// DefineClass registers (or completes an opaque) class with its members.
func (c *Context) DefineClass(name string, members []types.MemberVariable, r source.Range) *types.ClassType {
	if existing, ok := c.classes[name]; ok && existing.Opaque {
		existing.SetBody(members)
		return existing
	}
	c.checkNameFree(name, r)
	cls := types.NewClass(name, members)
	c.classes[name] = cls
	return cls
}

// DefineUnion registers a union type.
func (c *Context) DefineUnion(u *types.UnionType, r source.Range) *types.UnionType {
	c.checkNameFree(u.Name, r)
	c.unions[u.Name] = u
	return u
}

func (c *Context) checkNameFree(name string, r source.Range) {
	if _, ok := c.classes[name]; ok {
		diag.Raise(diag.Redefinition, r, "type %q is already defined in this compilation unit", name)
	}
	if _, ok := c.unions[name]; ok {
		diag.Raise(diag.Redefinition, r, "type %q is already defined in this compilation unit", name)
	}
}

// DeclareFunc records (or reuses) the llvm function for a mangled symbol
// and its declared return type.
func (c *Context) DeclareFunc(mangled string, fn *ir.Func, ret types.Type) {
	c.funcs[mangled] = fn
	c.returnTypes[mangled] = ret
}

// FuncByMangled returns the previously declared function for a mangled
// symbol, if any.
func (c *Context) FuncByMangled(mangled string) (*ir.Func, bool) {
	fn, ok := c.funcs[mangled]
	return fn, ok
}

// ReturnTypeOf returns the declared return type for a mangled symbol.
func (c *Context) ReturnTypeOf(mangled string) (types.Type, bool) {
	t, ok := c.returnTypes[mangled]
	return t, ok
}

// Warn appends a non-fatal diagnostic instead of raising one, used for the
// "should emit a warning" pointer<->integer cast case (spec §9).
func (c *Context) Warn(kind diag.Kind, r source.Range, format string, args ...any) {
	c.Warnings = append(c.Warnings, diag.New(kind, r, format, args...))
}

// PushNamespace / PopNamespace bracket a namespace or class scope while
// lowering its member declarations, used by the mangler's namespace
// stack (spec §4.4).
func (c *Context) PushNamespace(frame mangle.NamespaceFrame) { c.Namespace = append(c.Namespace, frame) }
func (c *Context) PopNamespace()                             { c.Namespace = c.Namespace[:len(c.Namespace)-1] }

// Scope is a convenience re-export so callers of this package do not need
// to import internal/symtable directly just to spell its type.
type Scope = symtable.Table
