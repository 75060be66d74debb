package types

// UnionVariant is one tagged alternative of a UnionType: a discriminant tag,
// its 0-based offset among the union's variants, and the concrete payload
// type paired with that discriminant, grounded on the original's
// UnionVariant{tag, offset, type, element_type}.
type UnionVariant struct {
	Tag     string
	Offset  int
	Payload Type
}

// UnionType is a discriminated union: a name plus an ordered set of tagged
// variants. Like ClassType, union names are globally unique within a
// compilation unit.
type UnionType struct {
	Name     string
	Variants []UnionVariant
	Mutable  bool
}

// NewUnion builds a union from tag/type pairs, assigning offsets by
// position the same way ClassType assigns member offsets.
func NewUnion(name string, tags []struct {
	Tag  string
	Type Type
}) *UnionType {
	variants := make([]UnionVariant, len(tags))
	for i, t := range tags {
		variants[i] = UnionVariant{Tag: t.Tag, Offset: i, Payload: t.Type}
	}
	return &UnionType{Name: name, Variants: variants}
}

// VariantByTag returns the variant with the given tag, or false if none
// matches.
func (u *UnionType) VariantByTag(tag string) (UnionVariant, bool) {
	for _, v := range u.Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return UnionVariant{}, false
}

func (u *UnionType) Clone() Type {
	cp := *u
	cp.Variants = append([]UnionVariant(nil), u.Variants...)
	return &cp
}

func (u *UnionType) SignKind(Resolver) SignKind    { return SignNone }
func (u *UnionType) MangledName(Resolver) string   { return quoteLen(u.Name) }
func (u *UnionType) IsVoid(Resolver) bool          { return false }
func (u *UnionType) IsInteger(Resolver) bool       { return false }
func (u *UnionType) IsFloating(Resolver) bool      { return false }
func (u *UnionType) IsPointer(Resolver) bool       { return false }
func (u *UnionType) IsReference(Resolver) bool     { return false }
func (u *UnionType) IsArray(Resolver) bool         { return false }
func (u *UnionType) IsClass(Resolver) bool         { return false }
func (u *UnionType) IsUnion(Resolver) bool         { return true }
func (u *UnionType) IsOpaque(Resolver) bool        { return false }
func (u *UnionType) IsUserDefined() bool           { return false }
func (u *UnionType) IsMutable() bool               { return u.Mutable }
func (u *UnionType) SetMutable(_ Resolver, m bool) { u.Mutable = m }
func (u *UnionType) String() string                { return "union " + u.Name }
