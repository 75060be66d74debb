package symtable

import (
	"testing"

	"lumen/internal/types"
)

func TestLookupFindsOuterScopeBinding(t *testing.T) {
	root := New()
	root.Register("x", Variable{Type: types.NewBuiltin(types.I32, false)})

	child := root.Enter()
	if _, ok := child.Lookup("x"); !ok {
		t.Fatalf("expected child scope to see parent binding")
	}
}

func TestChildBindingsDoNotEscapeToParent(t *testing.T) {
	root := New()
	child := root.Enter()
	child.Register("y", Variable{Type: types.NewBuiltin(types.I32, false)})

	if _, ok := root.Lookup("y"); ok {
		t.Fatalf("binding registered in child scope leaked into parent")
	}
	if _, ok := child.Lookup("y"); !ok {
		t.Fatalf("expected child scope to see its own binding")
	}
}

func TestRegisterRejectsSameScopeRedefinition(t *testing.T) {
	s := New()
	if !s.Register("x", Variable{}) {
		t.Fatalf("first registration should succeed")
	}
	if s.Register("x", Variable{}) {
		t.Fatalf("second registration in the same scope should fail")
	}
}

func TestShadowingInChildScopeIsNotARedefinition(t *testing.T) {
	root := New()
	root.Register("x", Variable{})
	child := root.Enter()
	if !child.Register("x", Variable{}) {
		t.Fatalf("shadowing a parent binding in a child scope is allowed")
	}
}

func TestSiblingScopesAreIsolated(t *testing.T) {
	root := New()
	a := root.Enter()
	b := root.Enter()
	a.Register("x", Variable{})

	if _, ok := b.Lookup("x"); ok {
		t.Fatalf("sibling scope should not see another sibling's binding")
	}
}
