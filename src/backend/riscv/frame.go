package riscv

import (
	"sysyc/src/koopa"
	"sysyc/src/util"
)

// frame describes one function's stack layout: every Alloc gets a slot sized to its
// allocated type; every other value-producing instruction (Load, Binary, GetElemPtr,
// GetPtr, a non-void Call) gets a single word slot. Outgoing stack arguments for calls
// with more than 8 arguments are carried in a reserved region at the bottom of the frame,
// so a call never needs to touch sp beyond what the prologue already reserved — mirroring
// the teacher's fixed caller-saved carve-out in hhramberg-go-vslc's genFunctionCall, but
// sized per-function instead of a constant 76 bytes.
type frame struct {
	slot    map[koopa.Value]int // Byte offset from sp.
	size    int                 // Total frame size, 16-byte aligned.
	raOff   int
	fpOff   int
	outArgs int // Bytes reserved for outgoing stack arguments.
}

func buildFrame(prog *koopa.Program, fn *koopa.FunctionData) *frame {
	fr := &frame{slot: make(map[koopa.Value]int)}

	maxExtra := 0
	type pendingSlot struct {
		v     koopa.Value
		bytes int
	}
	var pending []pendingSlot

	for _, blk := range fn.Blocks {
		for _, v := range blk.Instructions() {
			switch prog.Kind(v) {
			case koopa.KAlloc:
				pending = append(pending, pendingSlot{v, prog.AllocType(v).Size()})
			case koopa.KLoad, koopa.KBinary, koopa.KGetElemPtr, koopa.KGetPtr:
				pending = append(pending, pendingSlot{v, wordSize})
			case koopa.KCall:
				_, args := prog.CallOperands(v)
				if extra := len(args) - len(argRegs); extra > maxExtra {
					maxExtra = extra
				}
				if prog.TypeOf(v).Kind != koopa.KindUnit {
					pending = append(pending, pendingSlot{v, wordSize})
				}
			}
		}
	}

	fr.outArgs = maxExtra * wordSize
	cursor := fr.outArgs
	for _, p := range pending {
		fr.slot[p.v] = cursor
		cursor += align(p.bytes, wordSize)
	}

	raw := cursor + 8 // + saved ra, saved fp
	fr.size = align(raw, stackAlign)
	fr.raOff = fr.size - wordSize
	fr.fpOff = fr.size - 2*wordSize
	return fr
}

func align(n, a int) int {
	if r := n % a; r != 0 {
		n += a - r
	}
	return n
}

// offsetOf returns v's byte offset from sp: for an Alloc, the start of its allocated
// region; for any other instruction-produced value, its one-word result slot.
// GlobalAlloc and FuncArg values have no slot and are not expected here.
func (fr *frame) offsetOf(v koopa.Value) int {
	off, ok := fr.slot[v]
	if !ok {
		panic(util.Fatalf(util.LoweringError, "riscv: value has no stack slot"))
	}
	return off
}
