package build

import (
	"sysyc/src/ast"
	"sysyc/src/koopa"
)

// lowerLValAddr resolves an l-value to the address it should be written to (spec.md §4.5's
// case table, assignment-target rows only: scalar, array element, or pointer-parameter
// element — always fully indexed, never the array-slice decay case, which is rvalue-only).
func (b *builder) lowerLValAddr(lv *ast.LValExpr) koopa.Value {
	entry := b.sc.Lookup(lv.Ident)
	if len(lv.Indices) == 0 {
		return entry.Val
	}

	isPtrParam := entry.Typ.Base.IsPointer()
	base := entry.Val
	if isPtrParam {
		base = b.load(base)
	}
	for i1, idxExpr := range lv.Indices {
		idx := b.lowerExpr(idxExpr)
		if i1 == 0 && isPtrParam {
			base = b.emitV(b.prog.GetPtr(base, idx), base, idx)
		} else {
			base = b.emitV(b.prog.GetElemPtr(base, idx), base, idx)
		}
	}
	return base
}

// lowerLValRead resolves an l-value for use as an rvalue, implementing all four rows of
// spec.md §4.5's case table: a scalar loads directly; a fully-indexed array element or
// pointer-parameter element loads the addressed word; a partially- or un-indexed array (or
// pointer-parameter whose pointee is still an array after indexing) decays to a pointer via
// one trailing `getelemptr ..., 0`.
func (b *builder) lowerLValRead(lv *ast.LValExpr) koopa.Value {
	entry := b.sc.Lookup(lv.Ident)
	if entry.Const && entry.Scalar {
		return b.newInt(entry.ConstVal)
	}

	pointee := *entry.Typ.Base
	if pointee.IsPointer() {
		ptrVal := b.load(entry.Val)
		base := ptrVal
		for i1, idxExpr := range lv.Indices {
			idx := b.lowerExpr(idxExpr)
			if i1 == 0 {
				base = b.emitV(b.prog.GetPtr(base, idx), base, idx)
			} else {
				base = b.emitV(b.prog.GetElemPtr(base, idx), base, idx)
			}
		}
		if len(lv.Indices) == 0 {
			return base
		}
		return b.decayOrLoad(base)
	}

	if pointee.IsArray() {
		base := entry.Val
		for _, idxExpr := range lv.Indices {
			idx := b.lowerExpr(idxExpr)
			base = b.emitV(b.prog.GetElemPtr(base, idx), base, idx)
		}
		return b.decayOrLoad(base)
	}

	// Plain scalar variable.
	return b.load(entry.Val)
}

// decayOrLoad finishes an l-value read: if base still points to an array (fewer indices
// than declared dimensions, or a bare array name), it decays to a
// pointer to the first sub-array via one more getelemptr; otherwise the addressed word is
// loaded.
func (b *builder) decayOrLoad(base koopa.Value) koopa.Value {
	if b.prog.TypeOf(base).Base.IsArray() {
		zero := b.newInt(0)
		return b.emitV(b.prog.GetElemPtr(base, zero), base, zero)
	}
	return b.load(base)
}
