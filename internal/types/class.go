package types

// MemberVariable is one field of a ClassType. Offsets are derived from
// position in the Members slice, not stored explicitly.
type MemberVariable struct {
	Name          string
	Type          Type
	Accessibility Accessibility
}

// ClassType is a named aggregate of member variables. It may be opaque
// (forward-declared with no members yet): code that queries members of an
// opaque class must raise diag.IncompleteType, which internal/codegen does
// by checking IsOpaque before any member access. Class names are globally
// unique within a compilation unit; the codegen context's class table
// enforces that at registration time, not here.
type ClassType struct {
	Name    string
	Members []MemberVariable
	Opaque  bool
	Mutable bool
}

// NewOpaqueClass declares a class with no known members yet. A later call
// to SetBody fills them in once the definition is parsed — the two-phase
// registration the original calls createOpaqueClass / setBody.
func NewOpaqueClass(name string) *ClassType {
	return &ClassType{Name: name, Opaque: true}
}

// NewClass declares a class with its members already known.
func NewClass(name string, members []MemberVariable) *ClassType {
	return &ClassType{Name: name, Members: members}
}

// SetBody populates an opaque class's members, completing it.
func (c *ClassType) SetBody(members []MemberVariable) {
	c.Members = members
	c.Opaque = false
}

// OffsetOf returns the index of the named member, or -1 if there is none.
func (c *ClassType) OffsetOf(name string) int {
	for i, m := range c.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func (c *ClassType) Clone() Type {
	cp := *c
	cp.Members = append([]MemberVariable(nil), c.Members...)
	return &cp
}

func (c *ClassType) SignKind(Resolver) SignKind      { return SignNone }
func (c *ClassType) MangledName(Resolver) string     { return quoteLen(c.Name) }
func (c *ClassType) IsVoid(Resolver) bool            { return false }
func (c *ClassType) IsInteger(Resolver) bool         { return false }
func (c *ClassType) IsFloating(Resolver) bool        { return false }
func (c *ClassType) IsPointer(Resolver) bool         { return false }
func (c *ClassType) IsReference(Resolver) bool       { return false }
func (c *ClassType) IsArray(Resolver) bool           { return false }
func (c *ClassType) IsClass(Resolver) bool           { return true }
func (c *ClassType) IsUnion(Resolver) bool           { return false }
func (c *ClassType) IsOpaque(Resolver) bool          { return c.Opaque }
func (c *ClassType) IsUserDefined() bool             { return false }
func (c *ClassType) IsMutable() bool                 { return c.Mutable }
func (c *ClassType) SetMutable(_ Resolver, m bool)   { c.Mutable = m }
func (c *ClassType) String() string                  { return "class " + c.Name }
