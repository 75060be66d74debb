package types

import "testing"

type fakeResolver struct {
	classes map[string]*ClassType
	unions  map[string]*UnionType
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{classes: map[string]*ClassType{}, unions: map[string]*UnionType{}}
}

func (f *fakeResolver) LookupClass(name string) (*ClassType, bool) {
	c, ok := f.classes[name]
	return c, ok
}

func (f *fakeResolver) LookupUnion(name string) (*UnionType, bool) {
	u, ok := f.unions[name]
	return u, ok
}

func TestBuiltinMangledNamesAreInjective(t *testing.T) {
	r := newFakeResolver()
	seen := map[string]BuiltinKind{}
	for kind := range builtinNames {
		m := NewBuiltin(kind, false).MangledName(r)
		if other, ok := seen[m]; ok {
			t.Fatalf("mangled name %q collides between %v and %v", m, other, kind)
		}
		seen[m] = kind
	}
}

func TestCloneMangleRoundTrip(t *testing.T) {
	r := newFakeResolver()
	orig := NewPointer(NewArray(NewBuiltin(I32, false), 4, false), true)
	clone := orig.Clone()
	if orig.MangledName(r) != clone.MangledName(r) {
		t.Fatalf("clone mangled name diverged: %q vs %q", orig.MangledName(r), clone.MangledName(r))
	}
}

func TestSetMutablePropagatesThroughComposites(t *testing.T) {
	r := newFakeResolver()
	elem := NewBuiltin(I32, false)
	arr := NewArray(elem, 3, false)
	ptr := NewPointer(arr, false)

	ptr.SetMutable(r, true)

	if !ptr.IsMutable() || !arr.IsMutable() || !elem.IsMutable() {
		t.Fatalf("SetMutable did not propagate: ptr=%v arr=%v elem=%v", ptr.IsMutable(), arr.IsMutable(), elem.IsMutable())
	}
}

func TestSetMutableDoesNotAliasAcrossUnrelatedBindings(t *testing.T) {
	r := newFakeResolver()
	shared := NewBuiltin(I32, false)
	a := NewPointer(shared.Clone(), false)
	b := NewPointer(shared.Clone(), false)

	a.SetMutable(r, true)

	if b.IsMutable() {
		t.Fatalf("mutating a's pointee leaked into b, which was cloned independently")
	}
}

func TestUserDefinedResolvesToRegisteredClass(t *testing.T) {
	r := newFakeResolver()
	r.classes["Point"] = NewClass("Point", []MemberVariable{
		{Name: "x", Type: NewBuiltin(I32, false)},
		{Name: "y", Type: NewBuiltin(I32, false)},
	})

	ud := NewUserDefined("Point", false)
	if !ud.IsClass(r) {
		t.Fatalf("expected UserDefined(Point) to resolve to a class")
	}
	if ClassName(r, ud) != "Point" {
		t.Fatalf("ClassName() = %q, want Point", ClassName(r, ud))
	}
}

func TestUserDefinedUnknownNamePanics(t *testing.T) {
	r := newFakeResolver()
	ud := NewUserDefined("Nope", false)

	defer func() {
		if rec := recover(); rec == nil {
			t.Fatalf("expected panic resolving an unknown user-defined type")
		}
	}()
	_ = ud.IsClass(r)
}

func TestUserDefinedResolveDoesNotPanic(t *testing.T) {
	r := newFakeResolver()
	ud := NewUserDefined("Nope", false)
	if _, ok := ud.Resolve(r); ok {
		t.Fatalf("expected Resolve to report false for an unregistered name")
	}
}

func TestOpaqueClassRejectsMemberQueriesUntilSetBody(t *testing.T) {
	r := newFakeResolver()
	c := NewOpaqueClass("Node")
	if !c.IsOpaque(r) {
		t.Fatalf("freshly declared class should be opaque")
	}
	c.SetBody([]MemberVariable{{Name: "value", Type: NewBuiltin(I32, false)}})
	if c.IsOpaque(r) {
		t.Fatalf("class should no longer be opaque after SetBody")
	}
	if c.OffsetOf("value") != 0 {
		t.Fatalf("OffsetOf(value) = %d, want 0", c.OffsetOf("value"))
	}
}

func TestEqualRequiresIdenticalStructure(t *testing.T) {
	r := newFakeResolver()
	a := NewPointer(NewBuiltin(I32, false), false)
	b := NewPointer(NewBuiltin(I32, false), true) // mutability differs, shape doesn't
	c := NewPointer(NewBuiltin(U32, false), false)

	if !Equal(r, a, b) {
		t.Fatalf("Equal should ignore mutability")
	}
	if Equal(r, a, c) {
		t.Fatalf("Equal should distinguish signed and unsigned element types")
	}
}

func TestArrayMangling(t *testing.T) {
	r := newFakeResolver()
	arr := NewArray(NewBuiltin(I32, false), 4, false)
	if got, want := arr.MangledName(r), "A4_i"; got != want {
		t.Fatalf("MangledName() = %q, want %q", got, want)
	}
}
