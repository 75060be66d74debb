package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/symtable"
	"lumen/internal/types"
)

// StmtContext threads the four cursors a statement's lowering needs by
// value rather than through context-global state, spec §4.5's explicit
// (retvar, end_bb, break_bb, continue_bb) tuple: RetVar is nil for a void
// function, and Break/ContinueBB are nil outside any loop.
type StmtContext struct {
	RetVar      *ir.InstAlloca
	RetType     types.Type
	EndBB       *ir.Block
	BreakBB     *ir.Block
	ContinueBB  *ir.Block
}

// LowerStmt lowers one statement starting at blk, returning the block
// execution continues in afterward. The returned block may already carry
// a terminator (Return/Break/Continue); callers must stop emitting further
// statements into it.
func (c *Context) LowerStmt(scope *symtable.Table, fn *ir.Func, blk *ir.Block, ctx StmtContext, s ast.Stmt) (*symtable.Table, *ir.Block) {
	if s == nil {
		return scope, blk
	}

	switch n := s.(type) {
	case *ast.NilStmt:
		return scope, blk

	case *ast.Compound:
		inner := scope.Enter()
		cur := blk
		for _, stmt := range n.Stmts {
			if cur.Term != nil {
				break
			}
			inner, cur = c.LowerStmt(inner, fn, cur, ctx, stmt)
		}
		return scope, cur

	case *ast.ExprStmt:
		c.LowerExpr(scope, blk, n.Expr)
		return scope, blk

	case *ast.Return:
		if n.Expr == nil {
			blk.NewRet(nil)
			return scope, blk
		}
		v := c.LowerExpr(scope, blk, n.Expr)
		if ctx.RetVar == nil {
			diag.Raise(diag.TypeMismatch, n.Range(), "returning a value from a function declared void")
		}
		if !types.Equal(c, v.Type, ctx.RetType) {
			diag.Raise(diag.TypeMismatch, n.Range(), "return type mismatch: expected %s, got %s", ctx.RetType.String(), v.Type.String())
		}
		blk.NewStore(v.Val, ctx.RetVar)
		blk.NewBr(ctx.EndBB)
		return scope, blk

	case *ast.VarDef:
		return c.lowerVarDef(scope, blk, n), blk

	case *ast.Assign:
		c.lowerAssign(scope, blk, n)
		return scope, blk

	case *ast.PreIncDec:
		c.lowerPreIncDec(scope, blk, n)
		return scope, blk

	case *ast.Break:
		if ctx.BreakBB == nil {
			diag.Raise(diag.BreakContinueOutsideLoop, n.Range(), "break outside of a loop")
		}
		blk.NewBr(ctx.BreakBB)
		return scope, blk

	case *ast.Continue:
		if ctx.ContinueBB == nil {
			diag.Raise(diag.BreakContinueOutsideLoop, n.Range(), "continue outside of a loop")
		}
		blk.NewBr(ctx.ContinueBB)
		return scope, blk

	case *ast.If:
		return scope, c.lowerIf(scope, fn, blk, ctx, n)

	case *ast.Loop:
		return scope, c.lowerLoop(scope, fn, blk, ctx, n)

	case *ast.While:
		return scope, c.lowerWhile(scope, fn, blk, ctx, n)

	case *ast.For:
		return scope, c.lowerFor(scope, fn, blk, ctx, n)

	default:
		diag.Raise(diag.InternalError, s.Range(), "unhandled statement node %T", s)
		return scope, blk
	}
}

func (c *Context) lowerVarDef(scope *symtable.Table, blk *ir.Block, n *ast.VarDef) *symtable.Table {
	if scope.ExistsInScope(n.Name) {
		diag.Raise(diag.Redefinition, n.Range(), "redefinition of %q in this scope", n.Name)
	}

	var declared types.Type
	if n.Type != nil {
		declared = c.CreateType(*n.Type, n.Qualifier == ast.Mutable)
	}

	var init Value
	hasInit := n.Init != nil
	if hasInit {
		switch initNode := n.Init.(type) {
		case ast.ExprInit:
			init = c.LowerExpr(scope, blk, initNode.Expr)
		case ast.InitList:
			init = c.lowerInitList(scope, blk, declared, initNode)
		}
	}

	if declared == nil {
		if !hasInit {
			diag.Raise(diag.IncompleteType, n.Range(), "variable %q needs a type annotation or an initializer", n.Name)
		}
		declared = init.Type
	} else if hasInit && !types.Equal(c, declared, init.Type) {
		diag.Raise(diag.TypeMismatch, n.Range(), "cannot initialize %q of type %s from %s", n.Name, declared.String(), init.Type.String())
	}

	alloc := blk.NewAlloca(c.LowerType(declared))
	if hasInit {
		blk.NewStore(init.Val, alloc)
	}

	scope.Register(n.Name, symtable.Variable{
		Type:    declared,
		Storage: alloc,
		Mutable: n.Qualifier == ast.Mutable,
		Signed:  declared.SignKind(c) == types.SignSigned,
	})
	return scope
}

// lowerInitList stores each element through a GEP into a temporary alloca
// of the declared array type, rather than ever building the aggregate as an
// SSA value via a chain of insertvalue, then loads the completed aggregate;
// lowerVarDef stores that loaded value into the variable's own storage.
func (c *Context) lowerInitList(scope *symtable.Table, blk *ir.Block, declared types.Type, n ast.InitList) Value {
	if declared == nil {
		diag.Raise(diag.IncompleteType, n.Range(), "an initializer list requires an explicit array type annotation")
	}
	arr, ok := types.Underlying(c, declared).(*types.Array)
	if !ok {
		diag.Raise(diag.TypeMismatch, n.Range(), "an initializer list may only initialize an array type")
	}
	if uint64(len(n.Elements)) != arr.Size {
		diag.Raise(diag.ArityOrArgType, n.Range(), "initializer list has %d elements, array has %d", len(n.Elements), arr.Size)
	}

	alloc := blk.NewAlloca(c.LowerType(declared))
	for i, elemExpr := range n.Elements {
		ev := c.LowerExpr(scope, blk, elemExpr)
		if !types.Equal(c, ev.Type, arr.ElementType) {
			diag.Raise(diag.TypeMismatch, elemExpr.Range(), "initializer element has type %s, array element type is %s", ev.Type.String(), arr.ElementType.String())
		}
		zero := constant.NewInt(llI32, 0)
		idx := constant.NewInt(llI32, int64(i))
		ptr := blk.NewGetElementPtr(c.LowerType(declared), alloc, zero, idx)
		blk.NewStore(ev.Val, ptr)
	}
	loaded := blk.NewLoad(c.LowerType(declared), alloc)
	return Value{Val: loaded, Type: declared}
}

func (c *Context) lowerAssign(scope *symtable.Table, blk *ir.Block, n *ast.Assign) {
	lv := c.lowerLValue(scope, blk, n.Lhs)
	if !lv.Mutable {
		diag.Raise(diag.InvalidLValue, n.Range(), "cannot assign to an immutable binding")
	}
	rhs := c.LowerExpr(scope, blk, n.Rhs)

	if n.Op == ast.AssignSet {
		if !types.Equal(c, lv.Type, rhs.Type) {
			diag.Raise(diag.TypeMismatch, n.Range(), "cannot assign %s to %s", rhs.Type.String(), lv.Type.String())
		}
		blk.NewStore(rhs.Val, lv.Ptr)
		return
	}

	current := blk.NewLoad(c.LowerType(lv.Type), lv.Ptr)
	if !types.Equal(c, lv.Type, rhs.Type) {
		diag.Raise(diag.TypeMismatch, n.Range(), "cannot combine %s with %s", lv.Type.String(), rhs.Type.String())
	}
	floating := types.Underlying(c, lv.Type).IsFloating(c)
	var result value.Value = current
	switch n.Op {
	case ast.AssignAdd:
		if floating {
			result = blk.NewFAdd(current, rhs.Val)
		} else {
			result = blk.NewAdd(current, rhs.Val)
		}
	case ast.AssignSub:
		if floating {
			result = blk.NewFSub(current, rhs.Val)
		} else {
			result = blk.NewSub(current, rhs.Val)
		}
	case ast.AssignMul:
		if floating {
			result = blk.NewFMul(current, rhs.Val)
		} else {
			result = blk.NewMul(current, rhs.Val)
		}
	case ast.AssignDiv:
		switch {
		case floating:
			result = blk.NewFDiv(current, rhs.Val)
		case lv.Signed:
			result = blk.NewSDiv(current, rhs.Val)
		default:
			result = blk.NewUDiv(current, rhs.Val)
		}
	case ast.AssignMod:
		switch {
		case floating:
			result = blk.NewFRem(current, rhs.Val)
		case lv.Signed:
			result = blk.NewSRem(current, rhs.Val)
		default:
			result = blk.NewURem(current, rhs.Val)
		}
	}
	blk.NewStore(result, lv.Ptr)
}

func (c *Context) lowerPreIncDec(scope *symtable.Table, blk *ir.Block, n *ast.PreIncDec) {
	lv := c.lowerLValue(scope, blk, n.Rhs)
	if !lv.Mutable {
		diag.Raise(diag.InvalidLValue, n.Range(), "cannot increment or decrement an immutable binding")
	}
	current := blk.NewLoad(c.LowerType(lv.Type), lv.Ptr)
	one := constant.NewInt(c.LowerType(lv.Type).(*llIntType), 1)
	var result value.Value = current
	if n.Op == ast.PreInc {
		result = blk.NewAdd(current, one)
	} else {
		result = blk.NewSub(current, one)
	}
	blk.NewStore(result, lv.Ptr)
}

// toCondBool converts a lowered condition value to an i1 by comparing it
// not-equal to zero (spec §4.5), the same coercion the ground-truth
// original inserts before every conditional branch. cond must already be
// an integer or boolean value; anything else is not a valid condition.
func (c *Context) toCondBool(blk *ir.Block, r source.Range, cond Value) value.Value {
	it, ok := cond.Val.Type().(*llIntType)
	if !ok {
		diag.Raise(diag.TypeMismatch, r, "condition must be an integer or boolean expression, got %s", cond.Type.String())
	}
	zero := constant.NewInt(it, 0)
	return blk.NewICmp(enum.IPredNE, cond.Val, zero)
}

func (c *Context) lowerIf(scope *symtable.Table, fn *ir.Func, blk *ir.Block, ctx StmtContext, n *ast.If) *ir.Block {
	cond := c.LowerExpr(scope, blk, n.Cond)
	condBool := c.toCondBool(blk, n.Cond.Range(), cond)

	thenBB := fn.NewBlock("")
	mergeBB := fn.NewBlock("")

	if n.Else == nil {
		blk.NewCondBr(condBool, thenBB, mergeBB)
		_, thenEnd := c.LowerStmt(scope, fn, thenBB, ctx, n.Then)
		if thenEnd.Term == nil {
			thenEnd.NewBr(mergeBB)
		}
		return mergeBB
	}

	elseBB := fn.NewBlock("")
	blk.NewCondBr(condBool, thenBB, elseBB)

	_, thenEnd := c.LowerStmt(scope, fn, thenBB, ctx, n.Then)
	if thenEnd.Term == nil {
		thenEnd.NewBr(mergeBB)
	}
	_, elseEnd := c.LowerStmt(scope, fn, elseBB, ctx, n.Else)
	if elseEnd.Term == nil {
		elseEnd.NewBr(mergeBB)
	}
	return mergeBB
}

func (c *Context) lowerLoop(scope *symtable.Table, fn *ir.Func, blk *ir.Block, ctx StmtContext, n *ast.Loop) *ir.Block {
	bodyBB := fn.NewBlock("")
	afterBB := fn.NewBlock("")
	blk.NewBr(bodyBB)

	innerCtx := ctx
	innerCtx.BreakBB, innerCtx.ContinueBB = afterBB, bodyBB
	_, bodyEnd := c.LowerStmt(scope, fn, bodyBB, innerCtx, n.Body)
	if bodyEnd.Term == nil {
		bodyEnd.NewBr(bodyBB)
	}
	return afterBB
}

func (c *Context) lowerWhile(scope *symtable.Table, fn *ir.Func, blk *ir.Block, ctx StmtContext, n *ast.While) *ir.Block {
	condBB := fn.NewBlock("")
	bodyBB := fn.NewBlock("")
	afterBB := fn.NewBlock("")
	blk.NewBr(condBB)

	cond := c.LowerExpr(scope, condBB, n.Cond)
	condBB.NewCondBr(c.toCondBool(condBB, n.Cond.Range(), cond), bodyBB, afterBB)

	innerCtx := ctx
	innerCtx.BreakBB, innerCtx.ContinueBB = afterBB, condBB
	_, bodyEnd := c.LowerStmt(scope, fn, bodyBB, innerCtx, n.Body)
	if bodyEnd.Term == nil {
		bodyEnd.NewBr(condBB)
	}
	return afterBB
}

func (c *Context) lowerFor(scope *symtable.Table, fn *ir.Func, blk *ir.Block, ctx StmtContext, n *ast.For) *ir.Block {
	loopScope := scope.Enter()
	cur := blk
	if n.Init != nil {
		loopScope, cur = c.LowerStmt(loopScope, fn, cur, ctx, n.Init)
	}

	condBB := fn.NewBlock("")
	bodyBB := fn.NewBlock("")
	stepBB := fn.NewBlock("")
	afterBB := fn.NewBlock("")
	cur.NewBr(condBB)

	if n.Cond != nil {
		cond := c.LowerExpr(loopScope, condBB, n.Cond)
		condBB.NewCondBr(c.toCondBool(condBB, n.Cond.Range(), cond), bodyBB, afterBB)
	} else {
		condBB.NewBr(bodyBB)
	}

	innerCtx := ctx
	innerCtx.BreakBB, innerCtx.ContinueBB = afterBB, stepBB
	_, bodyEnd := c.LowerStmt(loopScope, fn, bodyBB, innerCtx, n.Body)
	if bodyEnd.Term == nil {
		bodyEnd.NewBr(stepBB)
	}

	if n.Step != nil {
		_, stepEnd := c.LowerStmt(loopScope, fn, stepBB, ctx, n.Step)
		if stepEnd.Term == nil {
			stepEnd.NewBr(condBB)
		}
	} else {
		stepBB.NewBr(condBB)
	}

	return afterBB
}
