// Package riscv implements the second compiler stage: koopa.Program -> RISC-V 32-bit
// assembly text (spec.md §4.10). Every function-local value is given a dedicated stack
// slot; a small write-through register cache sits on top, evicting the entry with the
// oldest touch when it runs out of temps, mirroring the teacher's seq-stamped
// registerFile LRU (hhramberg-go-vslc backend/riscv/riscv.go's lruI/lruF) with a local
// monotonic counter standing in for the teacher's per-register sequence number.
package riscv

import (
	"fmt"

	"sysyc/src/info"
	"sysyc/src/koopa"
	"sysyc/src/util"
)

// Integer registers named directly by the code generator.
const (
	zero = "zero"
	ra   = "ra"
	sp   = "sp"
	fp   = "fp"
	a0   = "a0"
)

// argRegs names the eight integer argument/return registers, in order.
var argRegs = []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}

// cacheRegs are the registers the value cache allocates from, in fixed preference order.
var cacheRegs = []string{"t0", "t1", "t2", "t3", "t4", "t5"}

// scratch is never cached; used to materialize addresses and oversized immediates, so it
// never competes with the value cache for a slot.
const scratch = "t6"

// Bounds on a 12-bit signed immediate, as accepted by addi/lw/sw (spec.md §4.10).
const (
	maxImm = 2047
	minImm = -2048
)

const stackAlign = 16
const wordSize = 4

// fits12 reports whether n is representable as a RISC-V 12-bit signed immediate.
func fits12(n int) bool {
	return n >= minImm && n <= maxImm
}

// Emit lowers prog to RISC-V assembly text, writing it through w. in is consulted only
// for its zero-array records (IsZeroArray); the register cache's eviction uses its own
// touch counter, not in's liveness intervals.
func Emit(prog *koopa.Program, in *info.Info, w *util.Writer) {
	e := &emitter{prog: prog, info: in, w: w}
	e.emitGlobals()
	w.Directive(".text")
	for _, fn := range prog.Functions() {
		if fn.Declared {
			continue // Runtime library declarations have no body to emit.
		}
		e.emitFunction(fn)
	}
}

// emitter holds the cross-function state of one Emit call: the program/liveness being
// read, and the writer being appended to. Per-function state lives in frame/cache instead.
type emitter struct {
	prog *koopa.Program
	info *info.Info
	w    *util.Writer
}

func (e *emitter) emitGlobals() {
	globals := e.prog.Globals()
	if len(globals) == 0 {
		return
	}
	e.w.Directive(".data")
	for _, g := range globals {
		e.emitGlobal(g)
	}
}

func (e *emitter) emitGlobal(g koopa.Value) {
	name := e.prog.GlobalName(g)
	t := e.prog.AllocType(g)
	e.w.Directive(".globl %s", name)
	e.w.Label(name)
	if e.info.IsZeroArray(g) {
		e.w.Directive(".zero %d", t.Size())
		return
	}
	init := e.prog.GlobalInit(g)
	if init == koopa.NoValue {
		e.w.Directive(".zero %d", t.Size())
		return
	}
	e.emitInitData(init)
}

// emitInitData recursively lowers an Integer/ZeroInit/Aggregate initializer to .word/.zero
// directives, in flattened row-major order (spec.md §4.9's printed Aggregate grammar).
func (e *emitter) emitInitData(v koopa.Value) {
	switch e.prog.Kind(v) {
	case koopa.KIntegerConst:
		e.w.Directive(".word %d", e.prog.IntegerValue(v))
	case koopa.KZeroInit:
		e.w.Directive(".zero %d", e.prog.TypeOf(v).Size())
	case koopa.KAggregate:
		for _, el := range e.prog.AggregateElems(v) {
			e.emitInitData(el)
		}
	default:
		panic(util.Fatalf(util.LoweringError, "unhandled global initializer kind %v", e.prog.Kind(v)))
	}
}

func funcLabel(fn *koopa.FunctionData, blockName string) string {
	return fmt.Sprintf("%s_%s", fn.Name, blockName)
}
