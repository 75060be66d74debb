// Package symtable implements the lexically nested name -> variable
// binding used by internal/codegen, grounded on original_source's
// maple::codegen::SymbolTable (lib/include/codegen/common.hpp) and the
// teacher's pkg/compiler/symtable.go scope-stacking shape.
//
// Scopes are immutably snapshotted on entry to a compound statement: each
// child receives a copy-on-write view of its parent, so mutations in the
// child never leak out (spec §3.4, §4.2). This is implemented as a chain
// of per-scope frames, each holding only its own bindings and looked up
// innermost first, rather than a literal deep copy per block: the
// cheaper of the two equivalent strategies spec.md's
// design notes call out (§9: "frames are cheaper when the symbol table is
// large").
package symtable

import (
	"github.com/llir/llvm/ir/value"

	"lumen/internal/types"
)

// Variable is one binding: its declared type, the storage it denotes (a
// pointer value - the alloca instruction that backs it), whether it may be
// written through, and whether arithmetic on it is signed.
type Variable struct {
	Type    types.Type
	Storage value.Value
	Mutable bool
	Signed  bool
}

// Table is one lexical scope. The zero value is a valid, empty root scope.
type Table struct {
	parent *Table
	names  map[string]Variable
}

// New returns an empty root scope.
func New() *Table {
	return &Table{names: map[string]Variable{}}
}

// Enter returns a fresh child scope snapshotting t: lookups fall through
// to t and its ancestors, but Register only ever mutates the child's own
// map, so bindings made inside never escape to the parent.
func (t *Table) Enter() *Table {
	return &Table{parent: t, names: map[string]Variable{}}
}

// Lookup searches the current scope and its ancestors, innermost first.
func (t *Table) Lookup(name string) (Variable, bool) {
	for s := t; s != nil; s = s.parent {
		if v, ok := s.names[name]; ok {
			return v, true
		}
	}
	return Variable{}, false
}

// Register binds name in the current scope only. It reports false if name
// is already bound in *this* scope (a shadowing redefinition in the
// immediately enclosing scope is not an error; the caller is expected to
// raise diag.Redefinition only on a same-scope collision, per spec §4.2).
func (t *Table) Register(name string, v Variable) bool {
	if _, exists := t.names[name]; exists {
		return false
	}
	if t.names == nil {
		t.names = map[string]Variable{}
	}
	t.names[name] = v
	return true
}

// ExistsInScope reports whether name is already bound in this exact scope
// (not an ancestor), the redefinition check spec §4.2 requires.
func (t *Table) ExistsInScope(name string) bool {
	_, ok := t.names[name]
	return ok
}
