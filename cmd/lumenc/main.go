// Command lumenc is the compiler's command-line front end: it parses the
// option surface of spec §6.1, drives internal/driver to lex, parse, and
// lower every input file, then either emits an artifact per file or JITs
// the linked program and exits with its return code. Grounded on the
// teacher's cmd/ccompiler/main.go pipeline shape and
// original_source/src/driver/cmd.cpp's option surface
// (boost::program_options, ported to github.com/jessevdk/go-flags).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"lumen/internal/backend"
	"lumen/internal/driver"
	"lumen/internal/objpath"
)

const version = "lumenc 0.1.0"

// options is the CLI surface of spec §6.1.
type options struct {
	Version bool   `short:"v" long:"version" description:"Print version information."`
	JIT     bool   `long:"JIT" description:"Link all inputs in memory and run the entry function."`
	Emit    string `long:"emit" choice:"llvm" choice:"asm" choice:"obj" default:"obj" description:"Artifact kind per input."`
	Opt     int    `short:"O" long:"Opt" default:"0" description:"Optimization level forwarded to the back-end (0-3)."`
	Reloc   string `long:"relocation-model" choice:"static" choice:"pic" description:"Relocation model for non-LLVM artifacts."`
	Inputs  []string `long:"input-file" description:"Equivalent to positional arguments."`

	Args struct {
		Files []string `positional-arg-name:"files"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	argv0 := argv[0]
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "lumenc"

	if len(argv) == 1 {
		parser.WriteHelp(os.Stderr)
		return 0
	}

	if _, err := parser.ParseArgs(argv[1:]); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, driver.FormatCLIError(argv0, err))
		return 2
	}

	if opts.Version {
		fmt.Println(version)
		return 0
	}

	rawFiles := append(append([]string{}, opts.Inputs...), opts.Args.Files...)
	if len(rawFiles) == 0 {
		fmt.Fprintln(os.Stderr, driver.FormatCLIError(argv0, fmt.Errorf("no input files")))
		return 2
	}

	files := make([]string, len(rawFiles))
	for i, f := range rawFiles {
		abs, _, err := objpath.Resolve(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, driver.FormatCLIError(argv0, err))
			return 2
		}
		files[i] = abs
	}

	drivers, err := driver.CompileAll(context.Background(), files)
	if err != nil {
		for _, d := range drivers {
			if d != nil && d.Err != nil {
				fmt.Fprintln(os.Stderr, d.FormatDiagnostic(d.Err))
			}
		}
		return 1
	}

	for _, d := range drivers {
		d.PrintWarnings(os.Stderr)
	}

	if opts.JIT {
		be := backend.New(opts.Opt, backend.RelocationModel(opts.Reloc))
		code, err := driver.JITAll(context.Background(), be, drivers, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, driver.FormatCLIError(argv0, err))
			return 1
		}
		return code
	}

	be := backend.New(opts.Opt, backend.RelocationModel(opts.Reloc))
	emit := backend.Emit(opts.Emit)
	ext := map[backend.Emit]string{backend.EmitLLVM: "ll", backend.EmitAsm: "s", backend.EmitObj: "o"}[emit]
	for i, d := range drivers {
		out := objpath.ArtifactPath(files[i], ext)
		if err := d.Emit(be, emit, out); err != nil {
			fmt.Fprintln(os.Stderr, driver.FormatCLIError(argv0, err))
			return 1
		}
	}
	return 0
}
