// Package backend is the thin façade over the external object/assembly
// writer and JIT engine spec.md §1 and §2 name as assumed collaborators:
// this module builds `*ir.Module` values with github.com/llir/llvm and
// hands them to the system's `llc`/`lli` toolchain to turn into artifacts
// or a running process, the same division of labor the teacher's compiler
// keeps between code generation (pkg/compiler) and its own external
// collaborators. Grounded on original_source/src/driver/cmd.cpp, which
// shells out to the underlying LLVM tools rather than linking against
// them directly.
package backend

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
)

// Emit is the artifact kind requested by --emit (spec §6.1).
type Emit string

const (
	EmitLLVM Emit = "llvm"
	EmitAsm  Emit = "asm"
	EmitObj  Emit = "obj"
)

// RelocationModel is --relocation-model (spec §6.1), forwarded to llc for
// non-LLVM artifacts.
type RelocationModel string

const (
	RelocationStatic RelocationModel = "static"
	RelocationPIC    RelocationModel = "pic"
)

// toolchain holds the discovered paths of the external llc/lli binaries.
// Discovery happens once per process via discoverOnce: spec §5's one
// shared resource across concurrently compiled translation units.
type toolchain struct {
	llcPath  string
	llcErr   error
	lliPath  string
	lliErr   error
	linkPath string
	linkErr  error
}

var (
	discoverOnce sync.Once
	tc           toolchain
)

func discover() {
	discoverOnce.Do(func() {
		tc.llcPath, tc.llcErr = exec.LookPath("llc")
		tc.lliPath, tc.lliErr = exec.LookPath("lli")
		tc.linkPath, tc.linkErr = exec.LookPath("llvm-link")
	})
}

// Backend turns a compiled module into an on-disk artifact or a running
// process. It carries no per-module state; every method is safe to call
// concurrently across independently-owned modules (spec §5).
type Backend struct {
	Opt   int             // --Opt/-O, 0..3
	Reloc RelocationModel // --relocation-model
}

// New returns a Backend configured from the CLI's optimization level and
// relocation model.
func New(opt int, reloc RelocationModel) *Backend {
	return &Backend{Opt: opt, Reloc: reloc}
}

// EmitLLVM writes m's textual IR verbatim to outPath. No external tool is
// needed: github.com/llir/llvm's *ir.Module already renders valid LLVM IR
// text via String().
func (b *Backend) EmitLLVM(m *ir.Module, outPath string) error {
	if err := os.WriteFile(outPath, []byte(m.String()), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", outPath)
	}
	return nil
}

// EmitAsm runs `llc -filetype=asm` over m's textual IR, writing outPath.
func (b *Backend) EmitAsm(m *ir.Module, outPath string) error {
	return b.runLLC(m, "asm", outPath)
}

// EmitObj runs `llc -filetype=obj` over m's textual IR, writing outPath.
func (b *Backend) EmitObj(m *ir.Module, outPath string) error {
	return b.runLLC(m, "obj", outPath)
}

func (b *Backend) runLLC(m *ir.Module, filetype, outPath string) error {
	discover()
	if tc.llcErr != nil {
		return errors.Wrap(tc.llcErr, "locating llc")
	}
	args := []string{
		fmt.Sprintf("-filetype=%s", filetype),
		fmt.Sprintf("-O=%d", b.Opt),
		"-o", outPath,
	}
	if b.Reloc != "" {
		args = append(args, fmt.Sprintf("-relocation-model=%s", b.Reloc))
	}
	cmd := exec.Command(tc.llcPath, args...)
	cmd.Stdin = bytes.NewReader([]byte(m.String()))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "llc: %s", stderr.String())
	}
	return nil
}

// JIT links every module in mods in memory via `lli` and runs the combined
// program's entry function, returning its exit code (spec §6.1's
// `--JIT`, "link all inputs in memory; call the entry function; exit with
// its i32 return"). A single module is handed to `lli` directly; more than
// one is first combined with `llvm-link`, since `lli` itself only accepts
// one already-linked module.
func (b *Backend) JIT(ctx context.Context, mods []*ir.Module, args []string) (exitCode int, err error) {
	discover()
	if tc.lliErr != nil {
		return 0, errors.Wrap(tc.lliErr, "locating lli")
	}

	irText, err := b.link(ctx, mods)
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, tc.lliPath, append([]string{"-"}, args...)...)
	cmd.Stdin = bytes.NewReader(irText)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	if runErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, errors.Wrap(runErr, "lli")
}

// link returns the textual IR of mods combined into a single module. A
// lone module needs no linking; several are combined with `llvm-link`,
// each written to a temp file since it takes file arguments rather than
// stdin for more than one input.
func (b *Backend) link(ctx context.Context, mods []*ir.Module) ([]byte, error) {
	if len(mods) == 1 {
		return []byte(mods[0].String()), nil
	}
	if tc.linkErr != nil {
		return nil, errors.Wrap(tc.linkErr, "locating llvm-link")
	}

	dir, err := os.MkdirTemp("", "lumen-link")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp dir for linking")
	}
	defer os.RemoveAll(dir)

	paths := make([]string, len(mods))
	for i, m := range mods {
		p := filepath.Join(dir, fmt.Sprintf("mod%d.ll", i))
		if err := os.WriteFile(p, []byte(m.String()), 0o644); err != nil {
			return nil, errors.Wrapf(err, "writing %s", p)
		}
		paths[i] = p
	}

	cmd := exec.CommandContext(ctx, tc.linkPath, append([]string{"-S"}, paths...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "llvm-link: %s", stderr.String())
	}
	return stdout.Bytes(), nil
}
