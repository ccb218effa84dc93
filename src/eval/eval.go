// Package eval implements the constant evaluator described in spec.md §4.1: a pure,
// side-effect-free interpreter over the constant subset of SysY expressions, used both to
// fold constants at IR-emit time and to realize ConstExp in array dimensions and constant
// initializers.
package eval

import (
	"sysyc/src/ast"
	"sysyc/src/scope"
)

// Eval attempts to evaluate expr as a compile-time constant under sc's current bindings.
// The second return value is false if expr is not evaluable (e.g. it reads a non-const
// l-value, or calls a function).
func Eval(expr ast.Expr, sc *scope.Scope) (int32, bool) {
	switch e := expr.(type) {
	case *ast.NumExpr:
		return e.Value, true

	case *ast.LValExpr:
		if len(e.Indices) > 0 {
			// Constant folding of indexed array reads is not attempted; only scalar
			// const bindings fold (spec.md §4.1, resolved as a scalar-only rule — see
			// DESIGN.md's eval entry).
			return 0, false
		}
		entry := sc.Lookup(e.Ident)
		if entry.Const && entry.Scalar {
			return entry.ConstVal, true
		}
		return 0, false

	case *ast.UnaryExpr:
		v, ok := Eval(e.X, sc)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case ast.UnPlus:
			return v, true
		case ast.UnMinus:
			return -v, true
		case ast.UnNot:
			return boolTo32(v == 0), true
		}
		return 0, false

	case *ast.BinaryExpr:
		return evalBinary(e, sc)

	case *ast.CallExpr:
		// Calls are never constant (spec.md §4.1).
		return 0, false

	default:
		return 0, false
	}
}

func evalBinary(e *ast.BinaryExpr, sc *scope.Scope) (int32, bool) {
	// Short-circuit: LAnd yields 0 when its left side is 0 without evaluating the right;
	// LOr yields 1 when its left side is nonzero, also without evaluating the right.
	if e.Op == ast.OpAnd {
		l, ok := Eval(e.L, sc)
		if !ok {
			return 0, false
		}
		if l == 0 {
			return 0, true
		}
		r, ok := Eval(e.R, sc)
		if !ok {
			return 0, false
		}
		return boolTo32(r != 0), true
	}
	if e.Op == ast.OpOr {
		l, ok := Eval(e.L, sc)
		if !ok {
			return 0, false
		}
		if l != 0 {
			return 1, true
		}
		r, ok := Eval(e.R, sc)
		if !ok {
			return 0, false
		}
		return boolTo32(r != 0), true
	}

	l, ok := Eval(e.L, sc)
	if !ok {
		return 0, false
	}
	r, ok := Eval(e.R, sc)
	if !ok {
		return 0, false
	}

	switch e.Op {
	case ast.OpEq:
		return boolTo32(l == r), true
	case ast.OpNe:
		return boolTo32(l != r), true
	case ast.OpLt:
		return boolTo32(l < r), true
	case ast.OpGt:
		return boolTo32(l > r), true
	case ast.OpLe:
		return boolTo32(l <= r), true
	case ast.OpGe:
		return boolTo32(l >= r), true
	case ast.OpAdd:
		return l + r, true
	case ast.OpSub:
		return l - r, true
	case ast.OpMul:
		return l * r, true
	case ast.OpDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true // Go's / on int32 already wraps/truncates toward zero, matching C semantics.
	case ast.OpMod:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	default:
		return 0, false
	}
}

func boolTo32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
