package build_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyc/src/build"
	"sysyc/src/frontend"
)

// compile parses and lowers src, returning its textual Koopa IR.
func compile(t *testing.T, src string) string {
	t.Helper()
	cu, err := frontend.Parse(src)
	require.NoError(t, err)
	prog, _, err := build.Build(cu)
	require.NoError(t, err)
	var sb strings.Builder
	prog.Print(&sb)
	return sb.String()
}

func TestConstantFoldingInlinesLiteral(t *testing.T) {
	ir := compile(t, `
		int main() {
			const int a = 1 + 2 * 3;
			return a;
		}
	`)
	// A fully const-folded scalar never reaches an alloc/load: it returns the literal directly.
	assert.Contains(t, ir, "ret 7")
	assert.NotContains(t, ir, "alloc i32")
}

func TestScopeShadowingUsesInnerBinding(t *testing.T) {
	ir := compile(t, `
		int main() {
			int x = 1;
			{
				int x = 2;
				return x;
			}
		}
	`)
	// Two distinct allocs for the two "x" bindings; the inner block's return loads its own.
	assert.Equal(t, 2, strings.Count(ir, "= alloc i32"))
}

func TestShortCircuitAndLowersToBranches(t *testing.T) {
	ir := compile(t, `
		int f() { return 1; }
		int main() {
			int x = 0;
			if (x > 0 && f()) {
				x = 1;
			}
			return x;
		}
	`)
	assert.Contains(t, ir, "br ")
	assert.Contains(t, ir, "call @f()")
}

func TestGlobalArrayInitializerFlattensAndZeroPads(t *testing.T) {
	ir := compile(t, `
		int a[4] = {1, 2};
		int main() {
			return a[3];
		}
	`)
	assert.Contains(t, ir, "global @a")
	// Explicit elements are preserved; the remaining two trailing slots are padded with 0.
	assert.Contains(t, ir, "1, 2")
}

func TestEveryBlockHasExactlyOneTerminator(t *testing.T) {
	ir := compile(t, `
		int main() {
			int i = 0;
			while (i < 10) {
				if (i == 5) {
					break;
				}
				i = i + 1;
			}
			return i;
		}
	`)
	term := 0
	for _, l := range strings.Split(ir, "\n") {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "%") && strings.HasSuffix(l, ":") {
			assert.LessOrEqual(t, term, 1, "previous block had more than one terminator")
			term = 0
			continue
		}
		if strings.HasPrefix(l, "br ") || strings.HasPrefix(l, "jump ") || strings.HasPrefix(l, "ret") {
			term++
		}
	}
	assert.LessOrEqual(t, term, 1, "final block had more than one terminator")
}

func TestFunctionCallArgumentsLowerInOrder(t *testing.T) {
	ir := compile(t, `
		int add(int a, int b) { return a + b; }
		int main() { return add(1, 2); }
	`)
	assert.Contains(t, ir, "call @add(1, 2)")
}
