package types

// BuiltinKind enumerates the scalar types: void, the eight fixed-width
// integers, bool, char (a 32-bit Unicode code point), the two floats, and
// the pointer-width isize/usize pair.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Bool
	Char
	F32
	F64
	ISize
	USize
)

var builtinNames = map[BuiltinKind]string{
	Void: "void", I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	Bool: "bool", Char: "char", F32: "f32", F64: "f64",
	ISize: "isize", USize: "usize",
}

// builtinMangle assigns each builtin a single stable ASCII letter. The
// mapping is otherwise arbitrary (spec: "implementer-chosen; must be stable
// within a unit") but must stay injective so distinct types never collide.
var builtinMangle = map[BuiltinKind]byte{
	Void: 'v',
	I8:   'a', I16: 's', I32: 'i', I64: 'l',
	U8: 'h', U16: 't', U32: 'j', U64: 'm',
	Bool: 'b', Char: 'c', F32: 'f', F64: 'd',
	ISize: 'x', USize: 'y',
}

// Builtin is a scalar type: void, an integer width, bool, char, or a float.
type Builtin struct {
	Kind    BuiltinKind
	Mutable bool
}

func NewBuiltin(kind BuiltinKind, mutable bool) *Builtin {
	return &Builtin{Kind: kind, Mutable: mutable}
}

func (b *Builtin) Clone() Type { c := *b; return &c }

func (b *Builtin) SignKind(Resolver) SignKind {
	switch b.Kind {
	case I8, I16, I32, I64, ISize:
		return SignSigned
	case U8, U16, U32, U64, USize:
		return SignUnsigned
	default:
		return SignNone
	}
}

func (b *Builtin) MangledName(Resolver) string { return string(builtinMangle[b.Kind]) }

func (b *Builtin) IsVoid(Resolver) bool { return b.Kind == Void }

func (b *Builtin) IsInteger(Resolver) bool {
	switch b.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64, ISize, USize, Bool, Char:
		return true
	default:
		return false
	}
}

// IsBool reports whether this builtin is specifically the boolean type, used
// by callers that need to tell bool apart from the other integer kinds (e.g.
// the BoolLit/CharLit expression contracts in internal/codegen).
func (b *Builtin) IsBool() bool { return b.Kind == Bool }

// IsChar reports whether this builtin is specifically the char type.
func (b *Builtin) IsChar() bool { return b.Kind == Char }

func (b *Builtin) IsFloating(Resolver) bool   { return b.Kind == F32 || b.Kind == F64 }
func (b *Builtin) IsPointer(Resolver) bool    { return false }
func (b *Builtin) IsReference(Resolver) bool  { return false }
func (b *Builtin) IsArray(Resolver) bool      { return false }
func (b *Builtin) IsClass(Resolver) bool      { return false }
func (b *Builtin) IsUnion(Resolver) bool      { return false }
func (b *Builtin) IsOpaque(Resolver) bool     { return false }
func (b *Builtin) IsUserDefined() bool        { return false }
func (b *Builtin) IsMutable() bool            { return b.Mutable }
func (b *Builtin) SetMutable(_ Resolver, m bool) { b.Mutable = m }
func (b *Builtin) String() string             { return builtinNames[b.Kind] }
