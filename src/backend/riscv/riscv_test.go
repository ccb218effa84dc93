package riscv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/src/backend/riscv"
	"sysyc/src/build"
	"sysyc/src/frontend"
	"sysyc/src/util"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	cu, err := frontend.Parse(src)
	require.NoError(t, err)
	prog, in, err := build.Build(cu)
	require.NoError(t, err)
	var sb strings.Builder
	w := util.NewWriter(&sb)
	riscv.Emit(prog, in, w)
	require.NoError(t, w.Flush())
	return sb.String()
}

func TestEmitSimpleFunctionHasPrologueAndEpilogue(t *testing.T) {
	asm := emit(t, `
		int main() {
			int x = 1;
			return x;
		}
	`)
	assert.Contains(t, asm, ".globl main")
	assert.Contains(t, asm, "main:")
	assert.Contains(t, asm, "addi\tsp, sp,")
	assert.Contains(t, asm, "ret")
}

func TestEmitGlobalZeroArrayUsesZeroDirective(t *testing.T) {
	asm := emit(t, `
		int a[100];
		int main() {
			return a[0];
		}
	`)
	assert.Contains(t, asm, ".data")
	assert.Contains(t, asm, ".zero 400")
}

func TestEmitFunctionCallMaterializesArgsAndCalls(t *testing.T) {
	asm := emit(t, `
		int add(int a, int b) { return a + b; }
		int main() { return add(1, 2); }
	`)
	assert.Contains(t, asm, "call\tadd")
	assert.Contains(t, asm, "add:")
}

func TestEmitManyArgumentsSpillsToStack(t *testing.T) {
	asm := emit(t, `
		int f(int a, int b, int c, int d, int e, int g, int h, int i, int j, int k) {
			return a + k;
		}
		int main() {
			return f(1, 2, 3, 4, 5, 6, 7, 8, 9, 10);
		}
	`)
	// Two arguments beyond the eight register slots must be stored at the bottom of the
	// caller's frame rather than moved into an argument register.
	assert.Contains(t, asm, "sw\t")
}

func TestEmitDivisionAndModulusUseDivAndRem(t *testing.T) {
	asm := emit(t, `
		int main() {
			int x = 7;
			int y = 2;
			return x / y + x % y;
		}
	`)
	assert.Contains(t, asm, "div\t")
	assert.Contains(t, asm, "rem\t")
}

func TestEmitComparisonLoweringIsBranchFree(t *testing.T) {
	asm := emit(t, `
		int main() {
			int x = 1;
			int y = 2;
			return x < y;
		}
	`)
	assert.Contains(t, asm, "slt\t")
}
