// Package koopa implements the mid-level, Koopa-IR-inspired intermediate representation:
// a Program owning an arena of instructions addressed by opaque integer handles (Value),
// grouped into FunctionData/Block layouts. Values are never referenced by direct Go
// pointer (spec.md §9 Design Notes: "model as opaque handles into an arena... never as
// direct pointers"), so they stay trivially comparable and usable as map keys.
package koopa

// Value is an opaque handle into Program's value arena, starting at 0. The sentinel
// NoValue (-1) means "no value" (e.g. a void Call's discarded result, or a Return with no
// operand).
type Value int

// NoValue is the sentinel handle meaning "no value produced/supplied".
const NoValue Value = -1

// Kind enumerates the instruction/value kinds used by this IR, per spec.md §3.
type Kind int

// Value kinds.
const (
	KIntegerConst Kind = iota
	KZeroInit
	KAggregate
	KAlloc
	KGlobalAlloc
	KLoad
	KStore
	KBinary
	KBranch
	KJump
	KReturn
	KCall
	KGetElemPtr
	KGetPtr
	KFuncArg // a bound function parameter value (read-only reference to its slot's value).
)

// BinOp enumerates the binary instruction opcodes.
type BinOp int

// Binary opcodes. Named to match the textual IR emitter (§4.9) and the RISC-V lowering
// table (§4.10): comparisons lower to slt/seqz/snez compositions, arithmetic lowers 1:1.
const (
	BNotEq BinOp = iota
	BEq
	BGt
	BLt
	BGe
	BLe
	BAdd
	BSub
	BMul
	BDiv
	BMod
	BAnd
	BOr
)

// String returns the Koopa-like mnemonic for op. BMod prints "mod"; the RISC-V backend
// normalizes it to the `rem` instruction (spec.md §9 Open Questions).
func (op BinOp) String() string {
	switch op {
	case BNotEq:
		return "ne"
	case BEq:
		return "eq"
	case BGt:
		return "gt"
	case BLt:
		return "lt"
	case BGe:
		return "ge"
	case BLe:
		return "le"
	case BAdd:
		return "add"
	case BSub:
		return "sub"
	case BMul:
		return "mul"
	case BDiv:
		return "div"
	case BMod:
		return "mod"
	case BAnd:
		return "and"
	case BOr:
		return "or"
	default:
		return "?"
	}
}

// valueData is the arena record backing a single Value handle.
type valueData struct {
	kind Kind
	typ  Type
	name string // KGlobalAlloc: declared identifier, printed as "@name". Locals are named by the printer.

	intVal int32 // KIntegerConst

	allocType Type  // KAlloc / KGlobalAlloc: the allocated type (value itself has type Pointer(allocType)).
	init      Value // KGlobalAlloc: initializer value (Integer/ZeroInit/Aggregate). NoValue if none.

	elems []Value // KAggregate: nested elements (Integer or nested Aggregate).

	ptr Value // KLoad: pointer operand. KStore: destination pointer. KGetElemPtr/KGetPtr: base pointer.
	src Value // KStore: source value.

	op       BinOp // KBinary
	lhs, rhs Value // KBinary operands. KGetElemPtr/KGetPtr: rhs is the index operand.

	cond             Value    // KBranch
	trueBB, falseBB  BlockID  // KBranch targets
	target           BlockID  // KJump target

	retVal Value // KReturn operand. NoValue for a bare `ret`.
	hasRet bool  // KReturn: true if retVal is meaningful.

	callee string  // KCall
	args   []Value // KCall

	argIndex int // KFuncArg: the parameter's ordinal position.
}
