// Package driver owns one parsed translation unit and its code-generation
// context, and drives either artifact emission or JIT execution, per
// spec §5 ("compile driver... owns a parsed program and a code-gen
// context; drives emission or JIT") — grounded on the teacher's
// cmd/ccompiler/main.go pipeline (lex -> parse -> codegen -> output),
// generalized from a single hard-coded source string into a reusable
// per-file driver that internal/driver.CompileAll can run concurrently.
package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"lumen/internal/backend"
	"lumen/internal/codegen"
	"lumen/internal/diag"
	"lumen/internal/parser"
	"lumen/internal/source"
)

// Driver owns exactly one translation unit: its source file and, once
// lowering succeeds, the code-generation context. The parsed AST is held
// only for the duration of Compile and is not kept on the Driver.
type Driver struct {
	File *source.File

	Ctx      *codegen.Context
	Warnings []*diag.Diagnostic

	// Err is set by CompileAll when this driver's own Compile call failed,
	// so callers can find and format the offending unit's error without
	// depending on errgroup's arbitrary first-error selection.
	Err error
}

// New returns a driver over path's already-loaded contents.
func New(path, src string) *Driver {
	return &Driver{File: source.NewFile(path, src)}
}

// Compile lexes, parses, and lowers the driver's file. A syntax error
// (from internal/parser) is returned as a plain error; a semantic error
// (from internal/codegen) is returned as a *diag.Diagnostic, recovered
// from the panic internal/codegen raises on the first error found (spec
// §7's abort-on-first-error policy).
func (d *Driver) Compile() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if dg := diag.Recover(r); dg != nil {
				err = dg
				return
			}
			panic(r)
		}
	}()

	prog, perr := parser.Parse(d.File)
	if perr != nil {
		return perr
	}

	d.Ctx = codegen.New(d.File)
	d.Ctx.LowerProgram(prog)
	d.Warnings = d.Ctx.Warnings
	return nil
}

// FormatDiagnostic renders err the way the driver reports it to the user:
// a *diag.Diagnostic gets the caret-annotated source.File.Format
// treatment; any other error (I/O, syntax) is printed as-is.
func (d *Driver) FormatDiagnostic(err error) string {
	if dg, ok := err.(*diag.Diagnostic); ok {
		return d.File.Format(dg.Range, dg.Message)
	}
	return err.Error()
}

// PrintWarnings writes every accumulated non-fatal diagnostic to w.
func (d *Driver) PrintWarnings(w *os.File) {
	for _, wd := range d.Warnings {
		fmt.Fprintln(w, d.File.FormatWarning(wd.Range, wd.Message))
	}
}

// Emit writes one compiled artifact for this driver's module to outPath,
// per spec §6.3.
func (d *Driver) Emit(be *backend.Backend, kind backend.Emit, outPath string) error {
	switch kind {
	case backend.EmitLLVM:
		return be.EmitLLVM(d.Ctx.Module, outPath)
	case backend.EmitAsm:
		return be.EmitAsm(d.Ctx.Module, outPath)
	case backend.EmitObj:
		return be.EmitObj(d.Ctx.Module, outPath)
	default:
		return errors.Errorf("unknown emit kind %q", kind)
	}
}

// JITAll links every driver's module together in memory and runs the
// combined program's entry function, returning the process's exit code
// (spec §6.1's `--JIT`, "link all inputs in memory").
func JITAll(ctx context.Context, be *backend.Backend, drivers []*Driver, args []string) (int, error) {
	mods := make([]*ir.Module, len(drivers))
	for i, d := range drivers {
		mods[i] = d.Ctx.Module
	}
	return be.JIT(ctx, mods, args)
}

// CompileAll compiles every path in paths concurrently, one Driver per
// file, bounded by runtime.GOMAXPROCS(0) (spec §5's "multiple translation
// units may be compiled concurrently by constructing independent
// drivers"; SPEC_FULL §6 pins the concurrency bound). It returns as soon
// as every unit has finished; the first error any unit returned (in
// completion order, not path order) is returned alongside the partial
// results.
func CompileAll(ctx context.Context, paths []string) ([]*Driver, error) {
	drivers := make([]*Driver, len(paths))
	g, _ := errgroup.WithContext(ctx)
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}
			d := New(path, string(data))
			drivers[i] = d
			if err := d.Compile(); err != nil {
				d.Err = err
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return drivers, err
	}
	return drivers, nil
}

// FormatCLIError renders a command-line-level error (option parsing, I/O)
// the way original_source/src/driver/cmd.cpp's formatError does:
// "<argv0>: error: <message>".
func FormatCLIError(argv0 string, err error) string {
	return fmt.Sprintf("%s: error: %s", argv0, err)
}
