package build

import (
	"sysyc/src/ast"
	"sysyc/src/eval"
	"sysyc/src/koopa"
	"sysyc/src/scope"
	"sysyc/src/util"
)

// lowerDecl lowers a const/var declaration, at either file scope or inside a function
// body (spec.md §4.2, §4.4). The two contexts share the dimension/initializer handling
// but diverge on how a Def's backing storage and initial value are realized.
func (b *builder) lowerDecl(d *ast.Decl) {
	for _, def := range d.Defs {
		dims := b.evalDims(def.Dims)
		if len(dims) == 0 {
			b.lowerScalarDef(d.Kind, def)
		} else {
			b.lowerArrayDef(d.Kind, def, dims)
		}
	}
}

// evalDims evaluates a Def's array dimension expressions, which must all be compile-time
// constants (spec.md §4.1).
func (b *builder) evalDims(dimExprs []ast.Expr) []int {
	dims := make([]int, len(dimExprs))
	for i1, e := range dimExprs {
		v, ok := eval.Eval(e, b.sc)
		if !ok {
			panic(util.Fatalf(util.LoweringError, "array dimension is not a compile-time constant"))
		}
		dims[i1] = int(v)
	}
	return dims
}

func (b *builder) lowerScalarDef(kind ast.DeclKind, def ast.Def) {
	if kind == ast.DeclConst {
		if def.Init == nil {
			panic(util.Fatalf(util.LoweringError, "const %s requires an initializer", def.Ident))
		}
		v := b.constScalarInit(def.Init)
		b.sc.NewValue(def.Ident, &scope.Entry{Const: true, Scalar: true, ConstVal: v})
		return
	}

	if b.sc.IsGlobal() {
		var init koopa.Value
		if def.Init != nil {
			v := b.constScalarInit(def.Init)
			init = b.prog.Integer(v)
		} else {
			init = b.prog.ZeroInit(koopa.Int32)
		}
		slot := b.prog.GlobalAlloc(def.Ident, koopa.Int32, init)
		b.sc.NewValue(def.Ident, &scope.Entry{Val: slot, Typ: b.prog.TypeOf(slot)})
		return
	}

	slot := b.emitV(b.prog.Alloc(koopa.Int32))
	b.sc.NewValue(def.Ident, &scope.Entry{Val: slot, Typ: b.prog.TypeOf(slot)})
	if def.Init != nil {
		v := b.lowerExpr(initExprValue(def.Init))
		b.tick(v, slot)
		b.prog.Store(v, slot)
	}
}

// constScalarInit evaluates a scalar initializer as a compile-time constant, aborting
// fatally if it isn't one (required for const defs and for every global initializer).
func (b *builder) constScalarInit(init ast.Initializer) int32 {
	v, ok := eval.Eval(initExprValue(init), b.sc)
	if !ok {
		panic(util.Fatalf(util.LoweringError, "initializer is not a compile-time constant"))
	}
	return v
}

// initExprValue unwraps a scalar (non-list) Initializer to its expression.
func initExprValue(init ast.Initializer) ast.Expr {
	ie, ok := init.(ast.InitExpr)
	if !ok {
		panic(util.Fatalf(util.LoweringError, "expected a scalar initializer, got a brace list"))
	}
	return ie.Value
}

func (b *builder) lowerArrayDef(kind ast.DeclKind, def ast.Def, dims []int) {
	total := product(dims)
	var flat []ast.Expr
	if def.Init != nil {
		flat = flattenInit(def.Init, dims)
	} else {
		flat = make([]ast.Expr, total)
	}

	t := arrayType(dims)
	isConst := kind == ast.DeclConst

	if b.sc.IsGlobal() {
		var init koopa.Value
		if allZero(flat) {
			init = b.prog.ZeroInit(t)
		} else {
			init = b.buildGlobalInit(flat, dims)
		}
		slot := b.prog.GlobalAlloc(def.Ident, t, init)
		if allZero(flat) {
			b.info.MarkZeroArray(slot)
		}
		b.sc.NewValue(def.Ident, &scope.Entry{Const: isConst, Val: slot, Typ: koopa.NewPointer(t)})
		return
	}

	slot := b.emitV(b.prog.Alloc(t))
	b.sc.NewValue(def.Ident, &scope.Entry{Const: isConst, Val: slot, Typ: b.prog.TypeOf(slot)})
	for i1, e := range flat {
		var v koopa.Value
		if e == nil {
			v = b.newInt(0)
		} else {
			v = b.lowerExpr(e)
		}
		addr := b.arrayElemAddr(slot, dims, i1)
		b.tick(v, addr)
		b.prog.Store(v, addr)
	}
}

// buildGlobalInit recursively nests Aggregate values matching dims, per spec.md §4.4's
// flattening output. Every leaf must be a compile-time constant.
func (b *builder) buildGlobalInit(flat []ast.Expr, dims []int) koopa.Value {
	if len(dims) == 0 {
		if flat[0] == nil {
			return b.prog.Integer(0)
		}
		v, ok := eval.Eval(flat[0], b.sc)
		if !ok {
			panic(util.Fatalf(util.LoweringError, "global array initializer element is not a compile-time constant"))
		}
		return b.prog.Integer(v)
	}
	n := dims[0]
	stride := product(dims[1:])
	elems := make([]koopa.Value, n)
	for i1 := 0; i1 < n; i1++ {
		elems[i1] = b.buildGlobalInit(flat[i1*stride:(i1+1)*stride], dims[1:])
	}
	return b.prog.Aggregate(arrayType(dims), elems)
}

// arrayElemAddr computes the address of the flatIndex'th element (row-major) of an array
// value living at base, via a chain of getelemptr instructions (spec.md §4.5).
func (b *builder) arrayElemAddr(base koopa.Value, dims []int, flatIndex int) koopa.Value {
	prods := dimProducts(dims)
	ptr := base
	rem := flatIndex
	for i1 := range dims {
		idx := rem / prods[i1+1]
		rem %= prods[i1+1]
		iv := b.newInt(int32(idx))
		ptr = b.emitV(b.prog.GetElemPtr(ptr, iv), iv)
	}
	return ptr
}

// arrayType builds the nested Array(...) type for dims, Int32-based, outermost first.
func arrayType(dims []int) koopa.Type {
	t := koopa.Int32
	for i1 := len(dims) - 1; i1 >= 0; i1-- {
		t = koopa.NewArray(t, dims[i1])
	}
	return t
}
