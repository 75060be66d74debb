package driver

import (
	"context"
	"os"
	"strings"
	"testing"

	"lumen/internal/diag"
)

// These mirror spec §8's seven end-to-end scenarios. Scenarios 1-4 assert
// on the shape of the lowered module (a `define i32`, a `br`, a `call`,
// and a `getelementptr` respectively); JIT execution itself depends on an
// external `lli`, per internal/backend, and is not exercised here.

func mustCompile(t *testing.T, src string) *Driver {
	t.Helper()
	d := New("scenario.lm", src)
	if err := d.Compile(); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	return d
}

func TestScenarioReturnLiteral(t *testing.T) {
	d := mustCompile(t, `fn main() -> i32 { return 42; }`)
	ir := d.Ctx.Module.String()
	if !strings.Contains(ir, "define i32") {
		t.Fatalf("expected a defined i32 function, got:\n%s", ir)
	}
}

func TestScenarioForLoopSummation(t *testing.T) {
	d := mustCompile(t, `fn main() -> i32 {
		let mutable x: i32 = 0;
		for i := 0; i < 10; ++i { x += i; }
		return x;
	}`)
	ir := d.Ctx.Module.String()
	if !strings.Contains(ir, "br") {
		t.Fatalf("expected loop branching in lowered IR, got:\n%s", ir)
	}
}

func TestScenarioFunctionCall(t *testing.T) {
	d := mustCompile(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }
		fn main() -> i32 { return add(2, 3); }`)
	ir := d.Ctx.Module.String()
	if !strings.Contains(ir, "call") {
		t.Fatalf("expected a call instruction in lowered IR, got:\n%s", ir)
	}
}

func TestScenarioArrayLiteralIndex(t *testing.T) {
	d := mustCompile(t, `fn main() -> i32 {
		let a: [i32; 3] = {1, 2, 3};
		return a[2];
	}`)
	ir := d.Ctx.Module.String()
	if !strings.Contains(ir, "getelementptr") {
		t.Fatalf("expected a getelementptr in lowered IR, got:\n%s", ir)
	}
}

func TestScenarioRedefinitionIsAnError(t *testing.T) {
	d := New("scenario.lm", `fn main() -> i32 { let x: i32 = 1; let x: i32 = 2; return x; }`)
	err := d.Compile()
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	dg, ok := err.(*diag.Diagnostic)
	if !ok || dg.Kind != diag.Redefinition {
		t.Fatalf("expected diag.Redefinition, got %v", err)
	}
}

func TestScenarioTypeMismatchOnReturn(t *testing.T) {
	d := New("scenario.lm", `fn main() -> i32 { return true; }`)
	err := d.Compile()
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	dg, ok := err.(*diag.Diagnostic)
	if !ok || dg.Kind != diag.TypeMismatch {
		t.Fatalf("expected diag.TypeMismatch, got %v", err)
	}
}

func TestScenarioBreakOutsideLoop(t *testing.T) {
	d := New("scenario.lm", `fn main() -> i32 { break; return 0; }`)
	err := d.Compile()
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	dg, ok := err.(*diag.Diagnostic)
	if !ok || dg.Kind != diag.BreakContinueOutsideLoop {
		t.Fatalf("expected diag.BreakContinueOutsideLoop, got %v", err)
	}
}

func TestCompileAllRunsIndependentDrivers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/a.lm", `fn main() -> i32 { return 1; }`)
	writeFile(t, dir+"/b.lm", `fn main() -> i32 { return 2; }`)

	drivers, err := CompileAll(context.Background(), []string{dir + "/a.lm", dir + "/b.lm"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drivers) != 2 || drivers[0] == nil || drivers[1] == nil {
		t.Fatalf("expected 2 compiled drivers, got %#v", drivers)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
