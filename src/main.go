package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sysyc/src/ast"
	"sysyc/src/backend/riscv"
	"sysyc/src/build"
	"sysyc/src/frontend"
	"sysyc/src/info"
	"sysyc/src/koopa"
	"sysyc/src/util"
)

// stage times and reports one pipeline phase when -vb is set, matching the teacher's
// per-stage verbose timing convention without the teacher's goroutine-fanned listener.
func stage(opt util.Options, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if opt.Verbose {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, time.Since(start))
	}
	return err
}

// run drives the compiler end to end: read source, parse, lower to IR, emit either
// textual Koopa IR or RISC-V assembly, depending on opt.Mode.
func run(opt util.Options) error {
	src, err := util.ReadSource(opt)
	if err != nil {
		return err
	}

	var cu *ast.CompUnit
	if err := stage(opt, "parse", func() error {
		var perr error
		cu, perr = frontend.Parse(src)
		return perr
	}); err != nil {
		return err
	}

	var prog *koopa.Program
	var in *info.Info
	if err := stage(opt, "build", func() error {
		var berr error
		prog, in, berr = build.Build(cu)
		return berr
	}); err != nil {
		return err
	}

	out, closeOut, err := util.OpenOutput(opt)
	if err != nil {
		return err
	}
	defer closeOut()

	w := util.NewWriter(out)
	if opt.Mode == util.ModeKoopa {
		err = stage(opt, "emit", func() error {
			var sb strings.Builder
			prog.Print(&sb)
			w.WriteString(sb.String())
			return nil
		})
	} else {
		err = stage(opt, "emit", func() error {
			riscv.Emit(prog, in, w)
			return nil
		})
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		if ce, ok := err.(*util.CompileError); ok {
			fmt.Fprintf(os.Stderr, "%s: %s\n", ce.Kind, ce.Error())
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}
