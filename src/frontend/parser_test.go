package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/src/ast"
)

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	toks, err := tokenize("int main ( ) { return 0 ; }")
	require.NoError(t, err)
	kinds := make([]tokenKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.kind)
	}
	assert.Equal(t, []tokenKind{
		tInt, tIdent, tLParen, tRParen, tLBrace, tReturn, tNumber, tSemi, tRBrace, tEOF,
	}, kinds)
}

func TestTokenizeHexAndOctalLiterals(t *testing.T) {
	toks, err := tokenize("0x1A 010 0")
	require.NoError(t, err)
	require.Len(t, toks, 4) // three numbers plus tEOF
	assert.EqualValues(t, 26, toks[0].ival)
	assert.EqualValues(t, 8, toks[1].ival)
	assert.EqualValues(t, 0, toks[2].ival)
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks, err := tokenize("int x; // trailing\n/* block\ncomment */ int y;")
	require.NoError(t, err)
	var idents []string
	for _, tok := range toks {
		if tok.kind == tIdent {
			idents = append(idents, tok.text)
		}
	}
	assert.Equal(t, []string{"x", "y"}, idents)
}

func TestTokenizeRejectsUnknownCharacter(t *testing.T) {
	_, err := tokenize("int x = 1 @ 2;")
	require.Error(t, err)
}

func TestParseEmptyFunction(t *testing.T) {
	cu, err := Parse("int main() { return 0; }")
	require.NoError(t, err)
	require.Len(t, cu.Items, 1)
	fn, ok := cu.Items[0].(*ast.FuncDef)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Ident)
	assert.Equal(t, ast.RetInt, fn.Ret)
	require.Len(t, fn.Body.Items, 1)
	ret, ok := fn.Body.Items[0].(*ast.ReturnStmt)
	require.True(t, ok)
	num, ok := ret.Value.(*ast.NumExpr)
	require.True(t, ok)
	assert.EqualValues(t, 0, num.Value)
}

func TestParseGlobalConstArray(t *testing.T) {
	cu, err := Parse("const int a[2] = {1, 2};")
	require.NoError(t, err)
	require.Len(t, cu.Items, 1)
	decl, ok := cu.Items[0].(*ast.Decl)
	require.True(t, ok)
	assert.Equal(t, ast.DeclConst, decl.Kind)
	require.Len(t, decl.Defs, 1)
	assert.Equal(t, "a", decl.Defs[0].Ident)
	require.Len(t, decl.Defs[0].Dims, 1)
	list, ok := decl.Defs[0].Init.(ast.InitList)
	require.True(t, ok)
	assert.Len(t, list.Items, 2)
}

func TestParseFunctionWithArrayParamAndCall(t *testing.T) {
	cu, err := Parse(`
		int sum(int a[], int n) {
			int i = 0;
			int s = 0;
			while (i < n) {
				s = s + a[i];
				i = i + 1;
			}
			return s;
		}
		int main() {
			int xs[3] = {1, 2, 3};
			return sum(xs, 3);
		}
	`)
	require.NoError(t, err)
	require.Len(t, cu.Items, 2)

	sum := cu.Items[0].(*ast.FuncDef)
	assert.Equal(t, "sum", sum.Ident)
	require.Len(t, sum.Params, 2)
	assert.True(t, sum.Params[0].IsArray())
	assert.False(t, sum.Params[1].IsArray())

	main := cu.Items[1].(*ast.FuncDef)
	last := main.Body.Items[len(main.Body.Items)-1].(*ast.ReturnStmt)
	call, ok := last.Value.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "sum", call.Ident)
	assert.Len(t, call.Args, 2)
}

func TestParseIfElseAndShortCircuit(t *testing.T) {
	cu, err := Parse(`
		int main() {
			int x = 1;
			if (x > 0 && x < 10 || x == 5) {
				x = x - 1;
			} else {
				x = x + 1;
			}
			return x;
		}
	`)
	require.NoError(t, err)
	fn := cu.Items[0].(*ast.FuncDef)
	var ifStmt *ast.IfStmt
	for _, item := range fn.Body.Items {
		if s, ok := item.(*ast.IfStmt); ok {
			ifStmt = s
		}
	}
	require.NotNil(t, ifStmt)
	require.NotNil(t, ifStmt.Else)

	or, ok := ifStmt.Cond.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, or.Op)
	and, ok := or.L.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, and.Op)
}

func TestParseOperatorPrecedence(t *testing.T) {
	cu, err := Parse("int main() { return 1 + 2 * 3; }")
	require.NoError(t, err)
	fn := cu.Items[0].(*ast.FuncDef)
	ret := fn.Body.Items[0].(*ast.ReturnStmt)
	add, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, add.Op)
	_, ok = add.L.(*ast.NumExpr)
	require.True(t, ok)
	mul, ok := add.R.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, mul.Op)
}

func TestParseUnaryMinusOnCall(t *testing.T) {
	cu, err := Parse("int main() { return -getint(); }")
	require.NoError(t, err)
	fn := cu.Items[0].(*ast.FuncDef)
	ret := fn.Body.Items[0].(*ast.ReturnStmt)
	un, ok := ret.Value.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.UnMinus, un.Op)
	_, ok = un.X.(*ast.CallExpr)
	require.True(t, ok)
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	_, err := Parse("int main() { return 0 }")
	require.Error(t, err)
}
