package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func trivialModule() *ir.Module {
	m := ir.NewModule()
	fn := m.NewFunc("main", types.I32)
	blk := fn.NewBlock("entry")
	blk.NewRet(constant.NewInt(types.I32, 42))
	return m
}

func TestEmitLLVMWritesModuleText(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.ll")

	b := New(0, RelocationStatic)
	if err := b.EmitLLVM(trivialModule(), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty IR text")
	}
}
