package build

import (
	"sysyc/src/ast"
	"sysyc/src/koopa"
	"sysyc/src/scope"
)

// lowerFuncDef lowers one function definition: signature, entry block, parameter
// binding, and body (spec.md §4.3). Every function starts with a mandatory %entry block
// (spec.md §3 Invariants) that allocates an addressable slot for each parameter and
// immediately stores the incoming bound value into it, so the rest of the body can treat
// parameters exactly like local variables.
func (b *builder) lowerFuncDef(fd *ast.FuncDef) {
	paramTypes := make([]koopa.Type, len(fd.Params))
	for i1, p := range fd.Params {
		paramTypes[i1] = b.paramType(p)
	}
	retType := koopa.Unit
	if fd.Ret == ast.RetInt {
		retType = koopa.Int32
	}

	fdata := b.prog.NewFunction(fd.Ident, paramTypes, retType, false)
	fe := &scope.FuncEntry{Data: fdata, RetKind: int(fd.Ret), ArgTypes: paramTypes}
	b.sc.NewFunc(fd.Ident, fe)
	b.sc.SetCurFunc(fe)

	entry := b.prog.NewBlock("entry")
	b.prog.SetBlock(entry)
	b.sc.SetCurBlock(entry)

	b.sc.Enter()
	for i1, p := range fd.Params {
		arg := b.emitV(b.prog.FuncArg(i1, paramTypes[i1]))
		slot := b.emitV(b.prog.Alloc(paramTypes[i1]))
		b.tick(arg, slot)
		b.prog.Store(arg, slot)
		b.sc.NewValue(p.Ident, &scope.Entry{Val: slot, Typ: b.prog.TypeOf(slot)})
	}

	b.lowerBlockBody(fd.Body)

	if !b.prog.Terminated() {
		if fd.Ret == ast.RetInt {
			zero := b.newInt(0)
			b.tick(zero)
			b.prog.Return(zero, true)
		} else {
			b.prog.Return(koopa.NoValue, false)
		}
	}

	b.sc.Exit()
	b.sc.SetCurFunc(nil)
}

// paramType computes the IR type of parameter p: Int32 for a scalar, or a pointer to the
// (possibly nested) array type built from its dimensions-after-the-first for an array
// parameter (spec.md §4.3, §4.5 — the implicit first dimension decays to a bare pointer).
func (b *builder) paramType(p ast.Param) koopa.Type {
	if !p.IsArray() {
		return koopa.Int32
	}
	dims := b.evalDims(p.Dims)
	return koopa.NewPointer(arrayType(dims))
}
