package codegen

import (
	"github.com/llir/llvm/ir/value"

	"lumen/internal/types"
)

// Value is the result of lowering one expression: the IR value itself, its
// semantic type, and whether arithmetic on it should be treated as signed,
// spec §4.3's per-expression contract (kind, IR value, signedness).
type Value struct {
	Val    value.Value
	Type   types.Type
	Signed bool
}

// lvalue is the address form of an expression that may appear on the left
// of an assignment, behind &, or as the operand of ++/--: a pointer to
// storage, the type stored there, and whether writing through it is
// allowed.
type lvalue struct {
	Ptr     value.Value
	Type    types.Type
	Mutable bool
	Signed  bool
}
