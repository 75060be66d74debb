// Package types implements the compiler's tagged type hierarchy: builtin
// scalars, pointers, references, arrays, user-defined names, class types,
// and tagged unions. Every variant supports cloning, sign-kind queries,
// mangled-name generation, structural queries, and mutability
// propagation, grounded on the capability set described by
// original_source's codegen/type.hpp. Lowering to an IR type is done
// outside this package, by internal/codegen's LowerType.
package types

import "strconv"

// SignKind classifies a type for the purposes of signed/unsigned operator
// lowering. Composite types that carry no sign of their own (classes,
// unions, arrays) report SignNone.
type SignKind int

const (
	SignNone SignKind = iota
	SignSigned
	SignUnsigned
)

// Accessibility mirrors the original ClassType::MemberVariable access level.
type Accessibility int

const (
	Public Accessibility = iota
	Private
)

// Resolver looks up the real type behind a named forward reference. A
// code-generation context implements this; the types package itself never
// owns a class/union table, keeping UserDefined a pure indirection instead
// of something that could intern itself and create a cycle.
type Resolver interface {
	LookupClass(name string) (*ClassType, bool)
	LookupUnion(name string) (*UnionType, bool)
}

// Type is the capability set every type variant implements:
// {clone, sign kind, mangled name, structural queries, mutability}. The
// structural accessors below (Pointee, Refee, Element, ...) panic with
// ErrUnsupported on a variant that lacks the component rather than
// silently returning a zero value — an invariant violation there is a
// code-generator bug, not recoverable input.
type Type interface {
	Clone() Type
	SignKind(r Resolver) SignKind
	MangledName(r Resolver) string

	IsVoid(r Resolver) bool
	IsInteger(r Resolver) bool
	IsFloating(r Resolver) bool
	IsPointer(r Resolver) bool
	IsReference(r Resolver) bool
	IsArray(r Resolver) bool
	IsClass(r Resolver) bool
	IsUnion(r Resolver) bool
	IsOpaque(r Resolver) bool
	IsUserDefined() bool

	IsMutable() bool
	SetMutable(r Resolver, mutable bool)

	// String renders the type the way it would appear in a diagnostic.
	String() string
}

// ErrUnsupported panics when a structural accessor is invoked on a type
// variant that does not support it (e.g. Pointee() on a Builtin). Callers
// must check the relevant predicate (IsPointer, IsArray, ...) first.
type ErrUnsupported struct {
	Op   string
	Type string
}

func (e *ErrUnsupported) Error() string {
	return "internal error: " + e.Op + " is not supported on type " + e.Type
}

func unsupported(op string, t Type) {
	panic(&ErrUnsupported{Op: op, Type: t.String()})
}

// Pointee returns the pointee type of a Pointer, panicking on any other
// variant (except UserDefined, which forwards to its resolved real type).
func Pointee(r Resolver, t Type) Type {
	switch v := t.(type) {
	case *Pointer:
		return v.PointeeType
	case *UserDefined:
		return Pointee(r, v.real(r))
	default:
		unsupported("Pointee", t)
		return nil
	}
}

// Refee returns the referenced type of a Reference.
func Refee(r Resolver, t Type) Type {
	switch v := t.(type) {
	case *Reference:
		return v.RefeeType
	case *UserDefined:
		return Refee(r, v.real(r))
	default:
		unsupported("Refee", t)
		return nil
	}
}

// Element returns the element type of an Array.
func Element(r Resolver, t Type) Type {
	switch v := t.(type) {
	case *Array:
		return v.ElementType
	case *UserDefined:
		return Element(r, v.real(r))
	default:
		unsupported("Element", t)
		return nil
	}
}

// ArraySize returns the fixed element count of an Array.
func ArraySize(r Resolver, t Type) uint64 {
	switch v := t.(type) {
	case *Array:
		return v.Size
	case *UserDefined:
		return ArraySize(r, v.real(r))
	default:
		unsupported("ArraySize", t)
		return 0
	}
}

// ClassName returns the declared name of a Class type.
func ClassName(r Resolver, t Type) string {
	switch v := t.(type) {
	case *ClassType:
		return v.Name
	case *UserDefined:
		return ClassName(r, v.real(r))
	default:
		unsupported("ClassName", t)
		return ""
	}
}

// UnionVariantsOf returns the tag/payload list of a Union type.
func UnionVariantsOf(r Resolver, t Type) []UnionVariant {
	switch v := t.(type) {
	case *UnionType:
		return v.Variants
	case *UserDefined:
		return UnionVariantsOf(r, v.real(r))
	default:
		unsupported("UnionVariants", t)
		return nil
	}
}

// Equal reports whether two lowered types are structurally identical.
// BinOp lowering requires this (spec §4.3: "both operands... must have
// identical lowered types - no implicit conversions").
func Equal(r Resolver, a, b Type) bool {
	a, b = Underlying(r, a), Underlying(r, b)
	switch av := a.(type) {
	case *Builtin:
		bv, ok := b.(*Builtin)
		return ok && av.Kind == bv.Kind
	case *Pointer:
		bv, ok := b.(*Pointer)
		return ok && Equal(r, av.PointeeType, bv.PointeeType)
	case *Reference:
		bv, ok := b.(*Reference)
		return ok && Equal(r, av.RefeeType, bv.RefeeType)
	case *Array:
		bv, ok := b.(*Array)
		return ok && av.Size == bv.Size && Equal(r, av.ElementType, bv.ElementType)
	case *ClassType:
		bv, ok := b.(*ClassType)
		return ok && av.Name == bv.Name
	case *UnionType:
		bv, ok := b.(*UnionType)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}

// Underlying strips UserDefined indirection, returning the real type node.
// It never strips Pointer/Reference/Array composites.
func Underlying(r Resolver, t Type) Type {
	if ud, ok := t.(*UserDefined); ok {
		return Underlying(r, ud.real(r))
	}
	return t
}

func quoteLen(s string) string {
	return strconv.Itoa(len(s)) + s
}
