// array.go implements the array initializer flattening algorithm, spec.md §4.4 — the
// subtlest algorithm in the front end. Given outer dimensions [d1, ..., dk], flattening
// produces a slice of length d1*...*dk. A nil entry in the returned slice denotes a zero
// hole (left for the caller to materialize as a shared literal or a fresh IR zero,
// depending on global/local context).
package build

import (
	"sysyc/src/ast"
	"sysyc/src/util"

	"golang.org/x/exp/slices"
)

// product returns the product of dims, or 1 for an empty slice.
func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// flattenInit flattens initializer init against dims, returning a slice of length
// product(dims). nil entries denote zero holes.
func flattenInit(init ast.Initializer, dims []int) []ast.Expr {
	switch it := init.(type) {
	case ast.InitExpr:
		// A bare scalar initializer for a (necessarily 0-dimensional) definition.
		return []ast.Expr{it.Value}
	case ast.InitList:
		return flattenList(it.Items, dims)
	default:
		panic(util.Fatalf(util.LoweringError, "unhandled initializer %T", init))
	}
}

// flattenList implements the recursive algorithm of spec.md §4.4 over items, against the
// (possibly already-sliced) dimension vector dims.
func flattenList(items []ast.Initializer, dims []int) []ast.Expr {
	base := dims[len(dims)-1]
	total := product(dims)
	count := 0
	result := make([]ast.Expr, 0, total)

	for _, child := range items {
		switch c := child.(type) {
		case ast.InitExpr:
			result = append(result, c.Value)
			count++
		case ast.InitList:
			if count%base != 0 {
				// Pad with zeros up to the next multiple of base.
				pad := base - count%base
				for i1 := 0; i1 < pad; i1++ {
					result = append(result, nil)
				}
				count += pad
			}
			begin, width := suffixFor(dims, count)
			sub := flattenList(c.Items, dims[begin:])
			result = append(result, sub...)
			count += width
		default:
			panic(util.Fatalf(util.LoweringError, "unhandled initializer element %T", child))
		}
	}

	// Pad with zeros up to the full product.
	for count < total {
		result = append(result, nil)
		count++
	}
	return result
}

// suffixFor computes the largest proper suffix of dims (i.e. begin in [1, len(dims)-1])
// whose product divides count, returning its starting index and product. A nested
// initializer list is interpreted against this suffix (spec.md §4.4). Falls back to the
// innermost single dimension for malformed input whose nesting exceeds the declared
// dimensionality.
func suffixFor(dims []int, count int) (begin, width int) {
	if len(dims) <= 1 {
		return 0, product(dims)
	}
	for b := 1; b < len(dims); b++ {
		w := product(dims[b:])
		if w == 0 || count%w == 0 {
			return b, w
		}
	}
	return len(dims) - 1, dims[len(dims)-1]
}

// dimProducts returns, for each index i, the product of dims[i:] — used by
// arrayElemAddr to split a flat element index into per-dimension indices.
func dimProducts(dims []int) []int {
	out := make([]int, len(dims)+1)
	out[len(dims)] = 1
	for i1 := len(dims) - 1; i1 >= 0; i1-- {
		out[i1] = out[i1+1] * dims[i1]
	}
	return out
}

// allZero reports whether every element of flat is a zero hole (nil).
func allZero(flat []ast.Expr) bool {
	return !slices.ContainsFunc(flat, func(e ast.Expr) bool { return e != nil })
}
