package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/symtable"
	"lumen/internal/types"
)

var stringLitCount int

// LowerExpr lowers an expression to a Value inside the current block. None
// of the operators spec §4.3 lists short-circuit, so expression lowering
// never needs to introduce new basic blocks; it only ever appends
// instructions to blk.
func (c *Context) LowerExpr(scope *symtable.Table, blk *ir.Block, e ast.Expr) Value {
	switch n := e.(type) {
	case *ast.IntLit:
		return c.lowerIntLit(n)
	case *ast.BoolLit:
		return Value{Val: constant.NewBool(n.Value), Type: types.NewBuiltin(types.Bool, false)}
	case *ast.CharLit:
		return Value{Val: constant.NewInt(lltypes.I32, int64(n.Value)), Type: types.NewBuiltin(types.Char, false)}
	case *ast.StringLit:
		return c.lowerStringLit(blk, n)
	case *ast.Ident:
		return c.lowerIdent(scope, blk, n)
	case *ast.BinOp:
		return c.lowerBinOp(scope, blk, n)
	case *ast.UnaryOp:
		return c.lowerUnaryOp(scope, blk, n)
	case *ast.Subscript:
		lv := c.lowerSubscriptLValue(scope, blk, n)
		return Value{Val: blk.NewLoad(c.LowerType(lv.Type), lv.Ptr), Type: lv.Type, Signed: lv.Signed}
	case *ast.Call:
		return c.lowerCall(scope, blk, n)
	case *ast.Cast:
		return c.lowerCast(scope, blk, n)
	default:
		diag.Raise(diag.InternalError, e.Range(), "unhandled expression node %T", e)
		return Value{}
	}
}

func (c *Context) lowerIntLit(n *ast.IntLit) Value {
	var kind types.BuiltinKind
	switch n.Kind {
	case ast.LitI32:
		kind = types.I32
	case ast.LitU32:
		kind = types.U32
	case ast.LitI64:
		kind = types.I64
	case ast.LitU64:
		kind = types.U64
	}
	t := types.NewBuiltin(kind, false)
	lt := c.LowerType(t).(*lltypes.IntType)
	return Value{Val: constant.NewInt(lt, int64(n.Value)), Type: t, Signed: !n.IsUnsigned}
}

// lowerStringLit materializes a UTF-32 string literal as a file-scope
// global constant array of i32 code points and returns a pointer to its
// first element, spec §3.3's "lowered to a pointer to a constant char
// array" contract.
func (c *Context) lowerStringLit(blk *ir.Block, n *ast.StringLit) Value {
	elems := make([]constant.Constant, len(n.Value)+1)
	for i, r := range n.Value {
		elems[i] = constant.NewInt(lltypes.I32, int64(r))
	}
	elems[len(n.Value)] = constant.NewInt(lltypes.I32, 0)

	arrTy := lltypes.NewArray(uint64(len(elems)), lltypes.I32)
	stringLitCount++
	g := c.Module.NewGlobalDef(".str", constant.NewArray(arrTy, elems...))
	g.Immutable = true

	zero := constant.NewInt(lltypes.I32, 0)
	ptr := blk.NewGetElementPtr(arrTy, g, zero, zero)
	charTy := types.NewBuiltin(types.Char, false)
	return Value{Val: ptr, Type: types.NewPointer(charTy, false)}
}

func (c *Context) lowerIdent(scope *symtable.Table, blk *ir.Block, n *ast.Ident) Value {
	v, ok := scope.Lookup(n.Name)
	if !ok {
		diag.Raise(diag.UnknownName, n.Range(), "undefined identifier %q", n.Name)
	}
	loaded := blk.NewLoad(c.LowerType(v.Type), v.Storage)
	return Value{Val: loaded, Type: v.Type, Signed: v.Signed}
}

func (c *Context) lowerBinOp(scope *symtable.Table, blk *ir.Block, n *ast.BinOp) Value {
	lhs := c.LowerExpr(scope, blk, n.Lhs)
	rhs := c.LowerExpr(scope, blk, n.Rhs)

	if !types.Equal(c, lhs.Type, rhs.Type) {
		diag.Raise(diag.TypeMismatch, n.Range(), "operands of %s have different types: %s and %s",
			binOpSymbol(n.Op), lhs.Type.String(), rhs.Type.String())
	}

	floating := types.Underlying(c, lhs.Type).IsFloating(c)
	signed := lhs.Signed

	switch n.Op {
	case ast.Add:
		if floating {
			return Value{Val: blk.NewFAdd(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		return Value{Val: blk.NewAdd(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
	case ast.Sub:
		if floating {
			return Value{Val: blk.NewFSub(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		return Value{Val: blk.NewSub(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
	case ast.Mul:
		if floating {
			return Value{Val: blk.NewFMul(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		return Value{Val: blk.NewMul(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
	case ast.Div:
		if floating {
			return Value{Val: blk.NewFDiv(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		if signed {
			return Value{Val: blk.NewSDiv(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		return Value{Val: blk.NewUDiv(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
	case ast.Mod:
		if floating {
			return Value{Val: blk.NewFRem(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		if signed {
			return Value{Val: blk.NewSRem(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
		}
		return Value{Val: blk.NewURem(lhs.Val, rhs.Val), Type: lhs.Type, Signed: signed}
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		boolTy := types.NewBuiltin(types.Bool, false)
		if floating {
			return Value{Val: blk.NewFCmp(floatPredicate(n.Op), lhs.Val, rhs.Val), Type: boolTy}
		}
		return Value{Val: blk.NewICmp(intPredicate(n.Op, signed), lhs.Val, rhs.Val), Type: boolTy}
	default:
		diag.Raise(diag.InvalidOperator, n.Range(), "unhandled binary operator")
		return Value{}
	}
}

func binOpSymbol(op ast.BinOpKind) string {
	switch op {
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	case ast.Mod:
		return "%"
	case ast.Eq:
		return "=="
	case ast.Ne:
		return "!="
	case ast.Lt:
		return "<"
	case ast.Le:
		return "<="
	case ast.Gt:
		return ">"
	case ast.Ge:
		return ">="
	default:
		return "?"
	}
}

// intPredicate maps a comparison operator to its integer predicate. `>`
// resolves to Gt (strictly greater-than), not the swapped Ge mapping some
// distillations of this grammar carry as a transcription error.
func intPredicate(op ast.BinOpKind, signed bool) enum.IPred {
	switch op {
	case ast.Eq:
		return enum.IPredEQ
	case ast.Ne:
		return enum.IPredNE
	case ast.Lt:
		if signed {
			return enum.IPredSLT
		}
		return enum.IPredULT
	case ast.Le:
		if signed {
			return enum.IPredSLE
		}
		return enum.IPredULE
	case ast.Gt:
		if signed {
			return enum.IPredSGT
		}
		return enum.IPredUGT
	case ast.Ge:
		if signed {
			return enum.IPredSGE
		}
		return enum.IPredUGE
	default:
		return enum.IPredEQ
	}
}

func floatPredicate(op ast.BinOpKind) enum.FPred {
	switch op {
	case ast.Eq:
		return enum.FPredOEQ
	case ast.Ne:
		return enum.FPredONE
	case ast.Lt:
		return enum.FPredOLT
	case ast.Le:
		return enum.FPredOLE
	case ast.Gt:
		return enum.FPredOGT
	case ast.Ge:
		return enum.FPredOGE
	default:
		return enum.FPredOEQ
	}
}

func (c *Context) lowerUnaryOp(scope *symtable.Table, blk *ir.Block, n *ast.UnaryOp) Value {
	switch n.Op {
	case ast.Addr:
		lv := c.lowerLValue(scope, blk, n.Rhs)
		return Value{Val: lv.Ptr, Type: types.NewPointer(lv.Type, lv.Mutable)}
	case ast.Deref:
		v := c.LowerExpr(scope, blk, n.Rhs)
		if !types.Underlying(c, v.Type).IsPointer(c) {
			diag.Raise(diag.TypeMismatch, n.Range(), "cannot dereference non-pointer type %s", v.Type.String())
		}
		pointee := types.Pointee(c, types.Underlying(c, v.Type))
		return Value{Val: blk.NewLoad(c.LowerType(pointee), v.Val), Type: pointee, Signed: pointee.SignKind(c) == types.SignSigned}
	case ast.Pos:
		return c.LowerExpr(scope, blk, n.Rhs)
	case ast.Neg:
		v := c.LowerExpr(scope, blk, n.Rhs)
		if types.Underlying(c, v.Type).IsFloating(c) {
			return Value{Val: blk.NewFNeg(v.Val), Type: v.Type, Signed: v.Signed}
		}
		if !v.Signed {
			diag.Raise(diag.InvalidOperator, n.Range(), "unary - on unsigned type %s", v.Type.String())
		}
		zero := constant.NewInt(c.LowerType(v.Type).(*lltypes.IntType), 0)
		return Value{Val: blk.NewSub(zero, v.Val), Type: v.Type, Signed: v.Signed}
	case ast.Not:
		v := c.LowerExpr(scope, blk, n.Rhs)
		return Value{Val: blk.NewXor(v.Val, constant.NewBool(true)), Type: v.Type}
	default:
		diag.Raise(diag.InvalidOperator, n.Range(), "unhandled unary operator")
		return Value{}
	}
}

func (c *Context) lowerSubscriptLValue(scope *symtable.Table, blk *ir.Block, n *ast.Subscript) lvalue {
	return c.lowerLValue(scope, blk, n)
}

// lowerLValue lowers an expression to its address form: a pointer to
// storage plus the type stored there. Only identifiers, subscripts, and
// dereferences are valid lvalues (spec §4.5's InvalidLValue check).
func (c *Context) lowerLValue(scope *symtable.Table, blk *ir.Block, e ast.Expr) lvalue {
	switch n := e.(type) {
	case *ast.Ident:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			diag.Raise(diag.UnknownName, n.Range(), "undefined identifier %q", n.Name)
		}
		return lvalue{Ptr: v.Storage, Type: v.Type, Mutable: v.Mutable, Signed: v.Signed}
	case *ast.Subscript:
		base := c.lowerLValue(scope, blk, n.Ident)
		idx := c.LowerExpr(scope, blk, n.Index)
		underlying := types.Underlying(c, base.Type)
		var elemType types.Type
		var ptr = base.Ptr
		if underlying.IsArray(c) {
			elemType = types.Element(c, underlying)
			zero := constant.NewInt(lltypes.I32, 0)
			ptr = blk.NewGetElementPtr(c.LowerType(underlying), ptr, zero, idx.Val)
		} else if underlying.IsPointer(c) {
			elemType = types.Pointee(c, underlying)
			loaded := blk.NewLoad(c.LowerType(underlying), ptr)
			ptr = blk.NewGetElementPtr(c.LowerType(elemType), loaded, idx.Val)
		} else {
			diag.Raise(diag.TypeMismatch, n.Range(), "cannot index non-array, non-pointer type %s", base.Type.String())
		}
		return lvalue{Ptr: ptr, Type: elemType, Mutable: base.Mutable, Signed: elemType.SignKind(c) == types.SignSigned}
	case *ast.UnaryOp:
		if n.Op != ast.Deref {
			break
		}
		v := c.LowerExpr(scope, blk, n.Rhs)
		underlying := types.Underlying(c, v.Type)
		if !underlying.IsPointer(c) {
			diag.Raise(diag.TypeMismatch, n.Range(), "cannot dereference non-pointer type %s", v.Type.String())
		}
		pointee := types.Pointee(c, underlying)
		return lvalue{Ptr: v.Val, Type: pointee, Mutable: underlying.(*types.Pointer).Mutable, Signed: pointee.SignKind(c) == types.SignSigned}
	}
	diag.Raise(diag.InvalidLValue, e.Range(), "expression is not assignable")
	return lvalue{}
}

func (c *Context) lowerCall(scope *symtable.Table, blk *ir.Block, n *ast.Call) Value {
	args := make([]Value, len(n.Args))
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.LowerExpr(scope, blk, a)
		argTypes[i] = args[i].Type
	}

	candidates := c.Mangler.CandidatesForCall(c.Namespace, n.Callee, argTypes, c)
	var fn *ir.Func
	var mangled string
	for _, cand := range candidates {
		if f, ok := c.FuncByMangled(cand); ok {
			fn, mangled = f, cand
			break
		}
	}
	// A variadic function is declared under its fixed parameters alone, so a
	// call passing extra arguments retries with shorter argument prefixes.
	for k := len(argTypes) - 1; fn == nil && k >= 0; k-- {
		for _, cand := range c.Mangler.CandidatesForCall(c.Namespace, n.Callee, argTypes[:k], c) {
			if f, ok := c.FuncByMangled(cand); ok && f.Sig.Variadic {
				fn, mangled = f, cand
				break
			}
		}
	}
	// An extern function is declared under its written, unmangled name.
	if f, ok := c.FuncByMangled(n.Callee); fn == nil && ok && f.Linkage == enum.LinkageExternal {
		fn, mangled = f, n.Callee
	}
	if fn == nil {
		diag.Raise(diag.UnknownName, n.Range(), "no matching function for call to %q", n.Callee)
	}

	llArgs := make([]value.Value, len(args))
	for i, a := range args {
		llArgs[i] = a.Val
	}
	call := blk.NewCall(fn, llArgs...)
	ret, _ := c.ReturnTypeOf(mangled)
	return Value{Val: call, Type: ret, Signed: ret != nil && ret.SignKind(c) == types.SignSigned}
}

func (c *Context) lowerCast(scope *symtable.Table, blk *ir.Block, n *ast.Cast) Value {
	v := c.LowerExpr(scope, blk, n.Lhs)
	target := c.CreateType(n.Type, false)
	llTarget := c.LowerType(target)

	srcFloat := types.Underlying(c, v.Type).IsFloating(c)
	dstFloat := types.Underlying(c, target).IsFloating(c)
	srcPtr := types.Underlying(c, v.Type).IsPointer(c)
	dstPtr := types.Underlying(c, target).IsPointer(c)
	srcInt := types.Underlying(c, v.Type).IsInteger(c)
	dstInt := types.Underlying(c, target).IsInteger(c)

	switch {
	case srcPtr && dstPtr:
		return Value{Val: blk.NewBitCast(v.Val, llTarget), Type: target}
	case srcPtr && dstInt:
		c.Warn(diag.Warning, n.Range(), "cast from pointer to integer")
		return Value{Val: blk.NewPtrToInt(v.Val, llTarget), Type: target, Signed: target.SignKind(c) == types.SignSigned}
	case srcInt && dstPtr:
		c.Warn(diag.Warning, n.Range(), "cast from integer to pointer")
		return Value{Val: blk.NewIntToPtr(v.Val, llTarget), Type: target}
	case srcFloat && dstFloat:
		return castFloatToFloat(c, blk, v, llTarget, target)
	case srcInt && dstFloat:
		if v.Signed {
			return Value{Val: blk.NewSIToFP(v.Val, llTarget), Type: target}
		}
		return Value{Val: blk.NewUIToFP(v.Val, llTarget), Type: target}
	case srcFloat && dstInt:
		signed := target.SignKind(c) == types.SignSigned
		if signed {
			return Value{Val: blk.NewFPToSI(v.Val, llTarget), Type: target, Signed: true}
		}
		return Value{Val: blk.NewFPToUI(v.Val, llTarget), Type: target}
	case srcInt && dstInt:
		return castIntToInt(blk, v, llTarget, target, c)
	default:
		diag.Raise(diag.TypeMismatch, n.Range(), "cannot cast %s to %s", v.Type.String(), target.String())
		return Value{}
	}
}

func castFloatToFloat(r types.Resolver, blk *ir.Block, v Value, llTarget lltypes.Type, target types.Type) Value {
	srcWide := types.Underlying(r, v.Type).(*types.Builtin).Kind == types.F64
	dstWide := types.Underlying(r, target).(*types.Builtin).Kind == types.F64
	switch {
	case dstWide && !srcWide:
		return Value{Val: blk.NewFPExt(v.Val, llTarget), Type: target}
	case !dstWide && srcWide:
		return Value{Val: blk.NewFPTrunc(v.Val, llTarget), Type: target}
	default:
		return Value{Val: v.Val, Type: target}
	}
}

func castIntToInt(blk *ir.Block, v Value, llTarget lltypes.Type, target types.Type, r types.Resolver) Value {
	srcBits := v.Val.Type().(*lltypes.IntType).BitSize
	dstBits := llTarget.(*lltypes.IntType).BitSize
	signed := target.SignKind(r) == types.SignSigned
	switch {
	case dstBits > srcBits:
		if v.Signed {
			return Value{Val: blk.NewSExt(v.Val, llTarget), Type: target, Signed: signed}
		}
		return Value{Val: blk.NewZExt(v.Val, llTarget), Type: target, Signed: signed}
	case dstBits < srcBits:
		return Value{Val: blk.NewTrunc(v.Val, llTarget), Type: target, Signed: signed}
	default:
		return Value{Val: v.Val, Type: target, Signed: signed}
	}
}
