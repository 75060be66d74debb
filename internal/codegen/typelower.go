package codegen

import (
	lltypes "github.com/llir/llvm/ir/types"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/source"
	"lumen/internal/types"
)

var builtinByName = map[string]types.BuiltinKind{
	"void": types.Void,
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
	"bool": types.Bool, "char": types.Char,
	"f32": types.F32, "f64": types.F64,
	"isize": types.ISize, "usize": types.USize,
}

// CreateType lowers an AST-level type annotation into the semantic type
// system, resolving named types against c's class/union tables. This is
// spec §4.1's createType: builtin keyword, or a bare name deferred through
// types.UserDefined, with pointer/reference/array wrapping applied
// outside-in per the AST's PointerLevels/IsReference/ArraySizes.
func (c *Context) CreateType(t ast.Type, mutable bool) types.Type {
	var base types.Type
	if t.Builtin != "" {
		kind, ok := builtinByName[t.Builtin]
		if !ok {
			diag.Raise(diag.InternalError, t.Pos, "unknown builtin type %q", t.Builtin)
		}
		base = types.NewBuiltin(kind, mutable)
	} else {
		ud := types.NewUserDefined(t.Name, mutable)
		if _, ok := ud.Resolve(c); !ok {
			diag.Raise(diag.UnknownName, t.Pos, "unknown type name %q", t.Name)
		}
		base = ud
	}

	for i := 0; i < t.PointerLevels; i++ {
		base = types.NewPointer(base, mutable)
	}
	for i := len(t.ArraySizes) - 1; i >= 0; i-- {
		base = types.NewArray(base, t.ArraySizes[i], mutable)
	}
	if t.IsReference {
		return types.NewReference(base, mutable)
	}
	return base
}

// LowerType maps a semantic type onto its llir/llvm representation, the IR
// builder façade's own type system (spec §4.1's IR-lowering capability).
// isize/usize assume a 64-bit target, matching the original's target
// data layout default.
func (c *Context) LowerType(t types.Type) lltypes.Type {
	switch v := t.(type) {
	case *types.Builtin:
		switch v.Kind {
		case types.Void:
			return lltypes.Void
		case types.I8, types.U8:
			return lltypes.I8
		case types.I16, types.U16:
			return lltypes.I16
		case types.I32, types.U32:
			return lltypes.I32
		case types.I64, types.U64, types.ISize, types.USize:
			return lltypes.I64
		case types.Bool:
			return lltypes.I1
		case types.Char:
			return lltypes.I32
		case types.F32:
			return lltypes.Float
		case types.F64:
			return lltypes.Double
		}
	case *types.Pointer:
		return lltypes.NewPointer(c.LowerType(v.PointeeType))
	case *types.Reference:
		return lltypes.NewPointer(c.LowerType(v.RefeeType))
	case *types.Array:
		return lltypes.NewArray(v.Size, c.LowerType(v.ElementType))
	case *types.ClassType:
		return c.lowerClass(v)
	case *types.UnionType:
		return c.lowerUnion(v)
	case *types.UserDefined:
		return c.LowerType(types.Underlying(c, v))
	}
	diag.Raise(diag.InternalError, source.Range{}, "cannot lower type %s to an IR type", t.String())
	return nil
}

func (c *Context) lowerClass(cls *types.ClassType) lltypes.Type {
	if cls.Opaque {
		diag.Raise(diag.IncompleteType, source.Range{}, "class %q is incomplete", cls.Name)
	}
	fields := make([]lltypes.Type, len(cls.Members))
	for i, m := range cls.Members {
		fields[i] = c.LowerType(m.Type)
	}
	return lltypes.NewStruct(fields...)
}

// lowerUnion lays a tagged union out as {i32 tag, <widest payload>}, the
// widest variant chosen by an approximate byte size over the semantic type
// (not the lowered LLVM type, which exposes no portable size query without a
// target data layout). Only this layout is produced; no access to a union's
// tag or payload is lowered in this package.
func (c *Context) lowerUnion(u *types.UnionType) lltypes.Type {
	var widestType types.Type = types.NewBuiltin(types.I8, false)
	widestSize := 0
	for _, v := range u.Variants {
		if sz := approxByteSize(c, v.Payload); sz > widestSize {
			widestSize, widestType = sz, v.Payload
		}
	}
	return lltypes.NewStruct(lltypes.I32, c.LowerType(widestType))
}

// approxByteSize estimates a semantic type's storage size, only precise
// enough to pick the widest union variant; it is never used to compute an
// actual memory offset (those come from GEP indices, not raw byte math).
func approxByteSize(r types.Resolver, t types.Type) int {
	switch v := types.Underlying(r, t).(type) {
	case *types.Builtin:
		switch v.Kind {
		case types.Void:
			return 0
		case types.I8, types.U8, types.Bool:
			return 1
		case types.I16, types.U16:
			return 2
		case types.I32, types.U32, types.Char, types.F32:
			return 4
		default:
			return 8
		}
	case *types.Pointer, *types.Reference:
		return 8
	case *types.Array:
		return int(v.Size) * approxByteSize(r, v.ElementType)
	case *types.ClassType:
		total := 0
		for _, m := range v.Members {
			total += approxByteSize(r, m.Type)
		}
		return total
	default:
		return 8
	}
}
