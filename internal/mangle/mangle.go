// Package mangle implements the deterministic mangled-name grammar spec
// §4.4 requires, grounded on original_source's maple::mangle::Mangler
// (include/maple/mangle/mangler.hpp): a string function of
// (namespace stack, function name, parameter type list) of the shape
//
//	_Z <namespace?> <len><name> <param-types-mangled> E
//
// For member functions an additional <len><class-name> frame is prepended
// to the namespace stack (mangleMemberFunctionCall in the original).
package mangle

import (
	"strconv"
	"strings"

	"lumen/internal/types"
)

// NamespaceFrame is one link of the enclosing-namespace chain used both to
// mangle a declaration and to generate call-site candidates. IsClass marks
// a frame introduced by a class's member functions, as opposed to a plain
// named-namespace scope.
type NamespaceFrame struct {
	Name    string
	IsClass bool
}

// Mangler is stateless: every method is a pure function of its arguments,
// matching the original's boost::noncopyable, side-effect-free Mangler.
type Mangler struct{}

// New returns a ready-to-use Mangler. It carries no state.
func New() Mangler { return Mangler{} }

// MangleFunction produces the defining mangled symbol for a function
// declared inside the given namespace stack, e.g. for `fn add(a: i32, b:
// i32) -> i32` at the top level: "_Z3addii E" with the trailing E glued on
// (no space in the real output — shown spaced here only for readability).
func (Mangler) MangleFunction(ns []NamespaceFrame, name string, params []types.Type, r types.Resolver) string {
	var b strings.Builder
	b.WriteString("_Z")
	b.WriteString(mangleNamespace(ns))
	b.WriteString(lenName(name))
	for _, p := range params {
		b.WriteString(p.MangledName(r))
	}
	b.WriteByte('E')
	return b.String()
}

// MangleMemberFunction is MangleFunction with an additional <len><class>
// frame prepended to ns, the original's mangleMemberFunctionCall shape.
func (m Mangler) MangleMemberFunction(ns []NamespaceFrame, className, name string, params []types.Type, r types.Resolver) string {
	frames := append(append([]NamespaceFrame(nil), ns...), NamespaceFrame{Name: className, IsClass: true})
	return m.MangleFunction(frames, name, params, r)
}

// CandidatesForCall enumerates the mangled names a call site tries, most
// specific first: (1) the current, fully-closed namespace, (2) each
// enclosing namespace stripped one level at a time, (3) the empty
// namespace — spec §4.4's exact call-site resolution order.
func (m Mangler) CandidatesForCall(ns []NamespaceFrame, name string, params []types.Type, r types.Resolver) []string {
	candidates := make([]string, 0, len(ns)+1)
	for i := len(ns); i >= 0; i-- {
		candidates = append(candidates, m.MangleFunction(ns[:i], name, params, r))
	}
	return candidates
}

func mangleNamespace(ns []NamespaceFrame) string {
	var b strings.Builder
	for _, f := range ns {
		b.WriteString(lenName(f.Name))
	}
	return b.String()
}

func lenName(name string) string {
	return strconv.Itoa(len(name)) + name
}
