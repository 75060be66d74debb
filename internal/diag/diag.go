// Package diag implements the compiler's structured diagnostics: a kind, a
// source range, and a human-readable message, per spec §7. Diagnostics are
// surfaced, never recovered, inside a translation unit — codegen raises
// one by panicking with *Diagnostic, and the driver recovers it at the
// translation-unit boundary, formats it via source.File.Format, and moves
// on to the next unit.
package diag

import (
	"fmt"

	"lumen/internal/source"
)

// Kind enumerates the error kinds spec §7 names, plus the additive
// Warning severity SPEC_FULL introduces for pointer<->integer casts.
type Kind int

const (
	TypeMismatch Kind = iota
	UnknownName
	Redefinition
	InvalidLValue
	IncompleteType
	ArityOrArgType
	InvalidOperator
	BreakContinueOutsideLoop
	InternalError
	Warning
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UnknownName:
		return "UnknownName"
	case Redefinition:
		return "Redefinition"
	case InvalidLValue:
		return "InvalidLValue"
	case IncompleteType:
		return "IncompleteType"
	case ArityOrArgType:
		return "ArityOrArgType"
	case InvalidOperator:
		return "InvalidOperator"
	case BreakContinueOutsideLoop:
		return "BreakContinueOutsideLoop"
	case InternalError:
		return "InternalError"
	case Warning:
		return "Warning"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single compiler error or warning, always carrying the
// source range of the AST node that triggered it.
type Diagnostic struct {
	Kind    Kind
	Range   source.Range
	Message string
}

func (d *Diagnostic) Error() string { return d.Kind.String() + ": " + d.Message }

// New constructs a Diagnostic. Codegen calls panic(diag.New(...)) to unwind
// to the driver; there is no other control-flow path out of a mid-lowering
// error, matching spec §7's "abort-on-first-error" policy.
func New(kind Kind, r source.Range, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Range: r, Message: fmt.Sprintf(format, args...)}
}

// Raise panics with a new Diagnostic. Kept as a one-line wrapper so codegen
// call sites read as `diag.Raise(diag.TypeMismatch, pos, "...")` rather than
// `panic(diag.New(...))`.
func Raise(kind Kind, r source.Range, format string, args ...any) {
	panic(New(kind, r, format, args...))
}

// Recover turns a panic value produced by Raise into a *Diagnostic, returns
// nil for a nil value, and re-panics anything else (a genuine programming
// error should not be swallowed as a diagnostic).
func Recover(recovered any) *Diagnostic {
	if recovered == nil {
		return nil
	}
	if d, ok := recovered.(*Diagnostic); ok {
		return d
	}
	panic(recovered)
}
