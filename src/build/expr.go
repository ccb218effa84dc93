package build

import (
	"sysyc/src/ast"
	"sysyc/src/eval"
	"sysyc/src/koopa"
	"sysyc/src/util"
)

// lowerExpr lowers expr to a Value. It always attempts constant folding first (spec.md
// §4.1), at every level of the recursion — so a partially-constant subexpression folds to
// a single Integer even when its enclosing expression does not.
func (b *builder) lowerExpr(expr ast.Expr) koopa.Value {
	if v, ok := eval.Eval(expr, b.sc); ok {
		return b.newInt(v)
	}
	switch e := expr.(type) {
	case *ast.NumExpr:
		return b.newInt(e.Value)
	case *ast.LValExpr:
		return b.lowerLValRead(e)
	case *ast.UnaryExpr:
		return b.lowerUnary(e)
	case *ast.BinaryExpr:
		return b.lowerBinary(e)
	case *ast.CallExpr:
		return b.lowerCall(e)
	default:
		panic(util.Fatalf(util.LoweringError, "unhandled expression %T", expr))
	}
}

func (b *builder) lowerUnary(e *ast.UnaryExpr) koopa.Value {
	x := b.lowerExpr(e.X)
	switch e.Op {
	case ast.UnPlus:
		return x
	case ast.UnMinus:
		zero := b.newInt(0)
		return b.emitV(b.prog.Binary(koopa.BSub, zero, x), zero, x)
	case ast.UnNot:
		return b.boolify(x, koopa.BEq)
	default:
		panic(util.Fatalf(util.LoweringError, "unhandled unary operator %v", e.Op))
	}
}

// boolify normalizes v to 0/1 by comparing it against zero with cmp (BEq for "!v",
// BNotEq for "v is truthy").
func (b *builder) boolify(v koopa.Value, cmp koopa.BinOp) koopa.Value {
	zero := b.newInt(0)
	return b.emitV(b.prog.Binary(cmp, v, zero), v, zero)
}

var binOpTable = map[ast.BinOp]koopa.BinOp{
	ast.OpEq:  koopa.BEq,
	ast.OpNe:  koopa.BNotEq,
	ast.OpLt:  koopa.BLt,
	ast.OpGt:  koopa.BGt,
	ast.OpLe:  koopa.BLe,
	ast.OpGe:  koopa.BGe,
	ast.OpAdd: koopa.BAdd,
	ast.OpSub: koopa.BSub,
	ast.OpMul: koopa.BMul,
	ast.OpDiv: koopa.BDiv,
	ast.OpMod: koopa.BMod,
}

func (b *builder) lowerBinary(e *ast.BinaryExpr) koopa.Value {
	switch e.Op {
	case ast.OpAnd:
		return b.lowerShortCircuit(e, false)
	case ast.OpOr:
		return b.lowerShortCircuit(e, true)
	}
	op, ok := binOpTable[e.Op]
	if !ok {
		panic(util.Fatalf(util.LoweringError, "unhandled binary operator %v", e.Op))
	}
	l := b.lowerExpr(e.L)
	r := b.lowerExpr(e.R)
	return b.emitV(b.prog.Binary(op, l, r), l, r)
}

// lowerShortCircuit lowers && and || via a one-word stack slot (spec.md §4.6): the left
// operand is always evaluated; the right operand is only reached on the branch where it's
// needed, so it is never evaluated when the result is already decided.
func (b *builder) lowerShortCircuit(e *ast.BinaryExpr, isOr bool) koopa.Value {
	tmp := b.emitV(b.prog.Alloc(koopa.Int32))

	l := b.lowerExpr(e.L)
	lb := b.boolify(l, koopa.BNotEq)

	rhsName, shortName, endName := b.sc.IfLabels()
	rhsBB := b.prog.NewBlock(rhsName)
	shortBB := b.prog.NewBlock(shortName)
	endBB := b.prog.NewBlock(endName)
	if isOr {
		b.prog.Branch(lb, shortBB, rhsBB)
	} else {
		b.prog.Branch(lb, rhsBB, shortBB)
	}
	b.tick(lb)

	b.prog.SetBlock(shortBB)
	b.sc.SetCurBlock(shortBB)
	shortVal := int32(0)
	if isOr {
		shortVal = 1
	}
	sv := b.newInt(shortVal)
	b.tick(sv, tmp)
	b.prog.Store(sv, tmp)
	b.prog.Jump(endBB)

	b.prog.SetBlock(rhsBB)
	b.sc.SetCurBlock(rhsBB)
	r := b.lowerExpr(e.R)
	rb := b.boolify(r, koopa.BNotEq)
	b.tick(rb, tmp)
	b.prog.Store(rb, tmp)
	b.prog.Jump(endBB)

	b.prog.SetBlock(endBB)
	b.sc.SetCurBlock(endBB)
	return b.load(tmp)
}

func (b *builder) lowerCall(e *ast.CallExpr) koopa.Value {
	fe := b.sc.Func(e.Ident)
	args := make([]koopa.Value, len(e.Args))
	for i1, a := range e.Args {
		args[i1] = b.lowerExpr(a)
	}
	retType := fe.Data.RetType
	v := b.prog.Call(e.Ident, args, retType)
	if retType.Kind == koopa.KindUnit {
		b.tick(args...)
		return koopa.NoValue
	}
	return b.emitV(v, args...)
}
