package codegen

import lltypes "github.com/llir/llvm/ir/types"

// llIntType and llI32 are local spellings used by call sites that need a
// concrete *lltypes.IntType for constant construction (GEP indices,
// ++/-- literals) without repeating the import alias everywhere.
type llIntType = lltypes.IntType

var llI32 = lltypes.I32
