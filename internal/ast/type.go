package ast

import "lumen/internal/source"

// Type is the AST-level spelling of a type annotation, as written in
// source: a builtin keyword or a bare name referring to a class or union,
// with an optional leading `&` or run of leading `*`, wrapped in `[T; N]`
// array brackets. internal/codegen's CreateType
// lowers this into an internal/types.Type, resolving named types against
// the code-gen context's class/union tables (spec §4.1's `createType`).
type Type struct {
	Pos source.Range

	// Exactly one of the following describes the base type; PointerLevels
	// and ArraySizes may stack on top of it (leftmost is outermost).
	Builtin string // "" if not a builtin; else "i32", "bool", "char", ...
	Name    string // class/union name, when Builtin == ""

	PointerLevels int  // number of leading '*'
	IsReference   bool // a leading '&' — mutually exclusive with pointer levels
	ArraySizes    []uint64 // outermost first, e.g. [N][M] -> {N, M}
}

func (t Type) Range() source.Range { return t.Pos }
