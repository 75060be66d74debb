package mangle

import (
	"testing"

	"lumen/internal/types"
)

type fakeResolver struct{}

func (fakeResolver) LookupClass(string) (*types.ClassType, bool) { return nil, false }
func (fakeResolver) LookupUnion(string) (*types.UnionType, bool) { return nil, false }

func TestMangleFunctionIsInjective(t *testing.T) {
	m := New()
	r := fakeResolver{}

	cases := []struct {
		ns     []NamespaceFrame
		name   string
		params []types.Type
	}{
		{nil, "add", []types.Type{types.NewBuiltin(types.I32, false), types.NewBuiltin(types.I32, false)}},
		{nil, "add", []types.Type{types.NewBuiltin(types.I32, false)}},
		{nil, "add", []types.Type{types.NewBuiltin(types.U32, false), types.NewBuiltin(types.I32, false)}},
		{[]NamespaceFrame{{Name: "math"}}, "add", []types.Type{types.NewBuiltin(types.I32, false), types.NewBuiltin(types.I32, false)}},
		{[]NamespaceFrame{{Name: "geo", IsClass: true}}, "add", []types.Type{types.NewBuiltin(types.I32, false), types.NewBuiltin(types.I32, false)}},
	}

	seen := map[string]int{}
	for i, c := range cases {
		got := m.MangleFunction(c.ns, c.name, c.params, r)
		if j, ok := seen[got]; ok {
			t.Fatalf("case %d and %d both mangled to %q", i, j, got)
		}
		seen[got] = i
	}
}

func TestMangleFunctionIsDeterministic(t *testing.T) {
	m := New()
	r := fakeResolver{}
	params := []types.Type{types.NewBuiltin(types.I32, false)}

	a := m.MangleFunction(nil, "f", params, r)
	b := m.MangleFunction(nil, "f", params, r)
	if a != b {
		t.Fatalf("mangling the same input twice produced %q then %q", a, b)
	}
}

func TestMangleMemberFunctionPrependsClassFrame(t *testing.T) {
	m := New()
	r := fakeResolver{}
	params := []types.Type{}

	plain := m.MangleFunction(nil, "area", params, r)
	member := m.MangleMemberFunction(nil, "Circle", "area", params, r)

	if plain == member {
		t.Fatalf("member-function mangling should differ from the free-function form")
	}
}

func TestCandidatesForCallOrdersMostSpecificFirst(t *testing.T) {
	m := New()
	r := fakeResolver{}
	params := []types.Type{}
	ns := []NamespaceFrame{{Name: "outer"}, {Name: "inner"}}

	got := m.CandidatesForCall(ns, "f", params, r)
	want := []string{
		m.MangleFunction(ns, "f", params, r),
		m.MangleFunction(ns[:1], "f", params, r),
		m.MangleFunction(nil, "f", params, r),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}
