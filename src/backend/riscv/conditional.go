// This file lowers the three terminator instructions: conditional branch, unconditional
// jump, and return (spec.md §3 Invariants — every block ends in exactly one of these).

package riscv

import "sysyc/src/koopa"

func (fc *funcCodegen) emitTerminator(v koopa.Value) {
	switch fc.prog.Kind(v) {
	case koopa.KBranch:
		fc.emitBranch(v)
	case koopa.KJump:
		fc.emitJump(v)
	case koopa.KReturn:
		fc.emitReturn(v)
	}
}

func (fc *funcCodegen) emitBranch(v koopa.Value) {
	cond, trueBB, falseBB := fc.prog.BranchOperands(v)
	reg := fc.materialize(cond)
	trueLabel := funcLabel(fc.fn, fc.fn.Block(trueBB).Name)
	falseLabel := funcLabel(fc.fn, fc.fn.Block(falseBB).Name)
	fc.w.Ins2("bnez", reg, trueLabel)
	fc.w.Ins1("j", falseLabel)
}

func (fc *funcCodegen) emitJump(v koopa.Value) {
	target := fc.prog.JumpTarget(v)
	fc.w.Ins1("j", funcLabel(fc.fn, fc.fn.Block(target).Name))
}

func (fc *funcCodegen) emitReturn(v koopa.Value) {
	val, has := fc.prog.ReturnOperand(v)
	if has {
		reg := fc.materialize(val)
		if reg != a0 {
			fc.w.Ins2("mv", a0, reg)
		}
	}
	fc.emitEpilogue()
}
