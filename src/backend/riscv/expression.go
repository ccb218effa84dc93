// This file lowers individual instructions (loads, stores, arithmetic, address
// computation, calls) to RISC-V assembly, driven by emitInst's dispatch over koopa.Kind.

package riscv

import (
	"sysyc/src/koopa"
	"sysyc/src/util"
)

func (fc *funcCodegen) emitInst(v koopa.Value) {
	switch fc.prog.Kind(v) {
	case koopa.KAlloc:
		// No code: the slot exists by construction; its address is rematerialized on
		// demand wherever it's referenced.
	case koopa.KLoad:
		fc.emitLoad(v)
	case koopa.KStore:
		fc.emitStore(v)
	case koopa.KBinary:
		fc.emitBinary(v)
	case koopa.KGetElemPtr, koopa.KGetPtr:
		fc.emitIndex(v)
	case koopa.KCall:
		fc.emitCall(v)
	case koopa.KBranch, koopa.KJump, koopa.KReturn:
		fc.emitTerminator(v)
	default:
		panic(util.Fatalf(util.LoweringError, "riscv: unhandled instruction kind %v", fc.prog.Kind(v)))
	}
}

// materialize returns a register holding v's value (for Alloc/GlobalAlloc, its address),
// reusing a cache-resident copy when available and otherwise recomputing it in a freshly
// acquired register. protect names registers this call must not choose as an eviction
// victim (operands the caller already materialized and still needs).
func (fc *funcCodegen) materialize(v koopa.Value, protect ...string) string {
	key := cacheKey(v)
	if reg, ok := fc.cache.lookup(key); ok {
		return reg
	}
	reg := fc.cache.acquireExcluding(key, protect...)
	fc.fill(reg, v)
	return reg
}

func (fc *funcCodegen) fill(reg string, v koopa.Value) {
	switch fc.prog.Kind(v) {
	case koopa.KIntegerConst:
		fc.w.Write("\tli\t%s, %d\n", reg, fc.prog.IntegerValue(v))
	case koopa.KAlloc:
		fc.addrOf(reg, fc.frame.offsetOf(v))
	case koopa.KGlobalAlloc:
		fc.w.Ins2("la", reg, fc.prog.GlobalName(v))
	case koopa.KFuncArg:
		fc.funcArgReg(fc.prog.FuncArgIndex(v), reg)
	default:
		fc.loadOffset(reg, fc.frame.offsetOf(v))
	}
}

// addrOf materializes sp+off (a local's address) into reg.
func (fc *funcCodegen) addrOf(reg string, off int) {
	if fits12(off) {
		fc.w.Ins2imm("addi", reg, sp, off)
		return
	}
	fc.w.Write("\tli\t%s, %d\n", reg, off)
	fc.w.Ins3("add", reg, reg, sp)
}

// store writes reg through to v's slot, keeping the cache binding it already has (called
// immediately after computing v's result into reg via an acquire).
func (fc *funcCodegen) store(reg string, v koopa.Value) {
	fc.storeOffset(reg, fc.frame.offsetOf(v))
}

func (fc *funcCodegen) emitLoad(v koopa.Value) {
	ptr := fc.prog.LoadPtr(v)
	ptrReg := fc.materialize(ptr)
	dst := fc.cache.acquireExcluding(cacheKey(v), ptrReg)
	fc.w.LoadStore("lw", dst, 0, ptrReg)
	fc.store(dst, v)
}

func (fc *funcCodegen) emitStore(v koopa.Value) {
	src, ptr := fc.prog.StoreOperands(v)
	srcReg := fc.materialize(src)
	ptrReg := fc.materialize(ptr, srcReg)
	fc.w.LoadStore("sw", srcReg, 0, ptrReg)
}

var binMnemonic = map[koopa.BinOp]string{
	koopa.BAdd: "add",
	koopa.BSub: "sub",
	koopa.BMul: "mul",
	koopa.BDiv: "div",
	koopa.BMod: "rem", // Koopa's textual "mod" normalizes to RISC-V's rem instruction.
	koopa.BAnd: "and",
	koopa.BOr:  "or",
}

func (fc *funcCodegen) emitBinary(v koopa.Value) {
	op, lhs, rhs := fc.prog.BinaryOperands(v)
	l := fc.materialize(lhs)
	r := fc.materialize(rhs, l)
	dst := fc.cache.acquireExcluding(cacheKey(v), l, r)

	switch op {
	case koopa.BEq:
		fc.w.Ins3("sub", dst, l, r)
		fc.w.Ins2("seqz", dst, dst)
	case koopa.BNotEq:
		fc.w.Ins3("sub", dst, l, r)
		fc.w.Ins2("snez", dst, dst)
	case koopa.BLt:
		fc.w.Ins3("slt", dst, l, r)
	case koopa.BGt:
		fc.w.Ins3("slt", dst, r, l)
	case koopa.BLe:
		fc.w.Ins3("slt", dst, r, l)
		fc.w.Ins2imm("xori", dst, dst, 1)
	case koopa.BGe:
		fc.w.Ins3("slt", dst, l, r)
		fc.w.Ins2imm("xori", dst, dst, 1)
	default:
		mnemonic, ok := binMnemonic[op]
		if !ok {
			panic(util.Fatalf(util.LoweringError, "riscv: unhandled binary opcode %v", op))
		}
		fc.w.Ins3(mnemonic, dst, l, r)
	}
	fc.store(dst, v)
}

// emitIndex lowers GetElemPtr/GetPtr to base + index*stride, where stride is the byte
// size of one element of the pointee (spec.md §4.5/§4.10).
func (fc *funcCodegen) emitIndex(v koopa.Value) {
	base, idx := fc.prog.PtrIndexOperands(v)
	baseReg := fc.materialize(base)
	idxReg := fc.materialize(idx, baseReg)
	dst := fc.cache.acquireExcluding(cacheKey(v), baseReg, idxReg)

	stride := fc.elemStride(v)
	fc.w.Write("\tli\t%s, %d\n", scratch, stride)
	fc.w.Ins3("mul", dst, idxReg, scratch)
	fc.w.Ins3("add", dst, dst, baseReg)
	fc.store(dst, v)
}

func (fc *funcCodegen) elemStride(v koopa.Value) int {
	switch fc.prog.Kind(v) {
	case koopa.KGetElemPtr:
		// base has type Pointer(Array(elem, n)); one step moves by one elem.
		base, _ := fc.prog.PtrIndexOperands(v)
		arr := *fc.prog.TypeOf(base).Base
		return arr.Base.Size()
	default: // KGetPtr: base has type Pointer(T); one step moves by one T.
		base, _ := fc.prog.PtrIndexOperands(v)
		return fc.prog.TypeOf(base).Base.Size()
	}
}

// emitCall marshals arguments into a0-a7 (spilling any beyond 8 into the callee's
// incoming stack-argument area, reserved statically in this function's own frame), calls,
// and — for a non-void callee — binds the result into v's slot.
func (fc *funcCodegen) emitCall(v koopa.Value) {
	callee, args := fc.prog.CallOperands(v)
	for i1, a := range args {
		reg := fc.materialize(a)
		if i1 < len(argRegs) {
			if reg != argRegs[i1] {
				fc.w.Ins2("mv", argRegs[i1], reg)
			}
			continue
		}
		fc.storeOffset(reg, wordSize*(i1-len(argRegs)))
	}

	fc.w.Ins1("call", callee)
	fc.cache.reset() // call may clobber any of t0-t5; memory already holds every live value.

	if fc.prog.TypeOf(v).Kind == koopa.KindUnit {
		return
	}
	dst := fc.cache.acquire(cacheKey(v))
	if dst != a0 {
		fc.w.Ins2("mv", dst, a0)
	}
	fc.store(dst, v)
}
