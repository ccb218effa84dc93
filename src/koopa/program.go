package koopa

import (
	"github.com/dolthub/swiss"

	"sysyc/src/util"
)

// Program owns the arena of all Values created during IR construction, the set of global
// allocations (in declaration order) and the function table. It is exclusively mutated by
// the current builder invocation, in a strict single-threaded pre-order AST walk
// (spec.md §5, §9 Design Notes). The function table is a swiss.Map, the same hot-lookup
// table scope.Scope uses for identifiers.
type Program struct {
	values  []valueData
	globals []Value
	funcs   []*FunctionData
	funcOf  *swiss.Map[string, *FunctionData]
	cur     *FunctionData

	names      map[Value]string // Printer-assigned register names, populated per function just before printing it.
	printFunc  *FunctionData     // Function currently being printed; used to resolve block names.
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{funcOf: swiss.NewMap[string, *FunctionData](8)}
}

// ---------------------------------------------------------------------------
// Arena bookkeeping
// ---------------------------------------------------------------------------

func (p *Program) alloc(v valueData) Value {
	p.values = append(p.values, v)
	return Value(len(p.values) - 1)
}

func (p *Program) data(v Value) *valueData {
	return &p.values[v]
}

// Kind returns the instruction kind of v.
func (p *Program) Kind(v Value) Kind {
	return p.data(v).kind
}

// TypeOf returns the static type of v.
func (p *Program) TypeOf(v Value) Type {
	return p.data(v).typ
}

// Globals returns all GlobalAlloc handles in declaration order.
func (p *Program) Globals() []Value {
	return p.globals
}

// Functions returns all function table entries in declaration order.
func (p *Program) Functions() []*FunctionData {
	return p.funcs
}

// Func looks up a function by name.
func (p *Program) Func(name string) (*FunctionData, bool) {
	return p.funcOf.Get(name)
}

// CurFunc returns the function currently being built, or nil at file scope.
func (p *Program) CurFunc() *FunctionData {
	return p.cur
}

// ---------------------------------------------------------------------------
// Function / block construction
// ---------------------------------------------------------------------------

// NewFunction declares a function (with or without a body; runtime library declarations
// have Declared=true and no blocks). A function with a body (declared=false) becomes the
// current function; a declaration leaves the current function unchanged.
func (p *Program) NewFunction(name string, paramTypes []Type, retType Type, declared bool) *FunctionData {
	f := &FunctionData{
		Name:       name,
		ParamTypes: paramTypes,
		RetType:    retType,
		Declared:   declared,
		blockOf:    make(map[string]BlockID),
	}
	p.funcs = append(p.funcs, f)
	p.funcOf.Put(name, f)
	if !declared {
		p.cur = f
	}
	return f
}

// NewBlock appends a new, empty block named name to the current function's layout and
// returns its id. It does not switch the current block.
func (p *Program) NewBlock(name string) BlockID {
	f := p.cur
	id := BlockID(len(f.Blocks))
	f.Blocks = append(f.Blocks, &Block{Name: name})
	f.blockOf[name] = id
	return id
}

// SetBlock switches the current block that subsequent instructions are appended to.
func (p *Program) SetBlock(id BlockID) {
	p.cur.cur = id
}

// CurBlock returns the current function's current block id.
func (p *Program) CurBlock() BlockID {
	return p.cur.cur
}

// Terminated reports whether the current block already has a terminator.
func (p *Program) Terminated() bool {
	return p.cur.Blocks[p.cur.cur].terminated
}

// push appends v to the current block, unless the block is already terminated, per the
// invariant that any sequence of values after a terminator is discarded (spec.md §3).
func (p *Program) push(v Value) {
	b := p.cur.Blocks[p.cur.cur]
	if b.terminated {
		return
	}
	b.Insts = append(b.Insts, v)
}

// MarkDead marks block id as unreachable (reachable only from a dead branch); the printer
// and code generator skip dead blocks.
func (p *Program) MarkDead(id BlockID) {
	p.cur.Blocks[id].dead = true
}

// ---------------------------------------------------------------------------
// Value constructors — data
// ---------------------------------------------------------------------------

// Integer creates (but does not place in any block) an Integer constant value.
func (p *Program) Integer(n int32) Value {
	return p.alloc(valueData{kind: KIntegerConst, typ: Int32, intVal: n})
}

// ZeroInit creates a ZeroInit value of type t.
func (p *Program) ZeroInit(t Type) Value {
	return p.alloc(valueData{kind: KZeroInit, typ: t})
}

// Aggregate creates an Aggregate value of type t from elems (each an Integer, ZeroInit or
// nested Aggregate).
func (p *Program) Aggregate(t Type, elems []Value) Value {
	return p.alloc(valueData{kind: KAggregate, typ: t, elems: elems})
}

// Alloc creates a local Alloc of type t (producing a value of type Pointer(t)) and places
// it in the current block.
func (p *Program) Alloc(t Type) Value {
	v := p.alloc(valueData{kind: KAlloc, typ: NewPointer(t), allocType: t})
	p.push(v)
	return v
}

// GlobalAlloc creates a global allocation named name of type t with initializer init (an
// Integer/ZeroInit/Aggregate handle, or NoValue for an implicit zero initializer). Global
// allocations are not placed in any block; they're recorded on Program.Globals().
func (p *Program) GlobalAlloc(name string, t Type, init Value) Value {
	v := p.alloc(valueData{kind: KGlobalAlloc, typ: NewPointer(t), name: name, allocType: t, init: init})
	p.globals = append(p.globals, v)
	return v
}

// FuncArg creates the bound reference value for parameter idx of the current function,
// of type t (the parameter's declared type, before the entry-block alloc+store that gives
// it an addressable slot — spec.md §4.3).
func (p *Program) FuncArg(idx int, t Type) Value {
	v := p.alloc(valueData{kind: KFuncArg, typ: t, argIndex: idx})
	p.cur.Params = append(p.cur.Params, v)
	return v
}

// ---------------------------------------------------------------------------
// Value constructors — memory & arithmetic
// ---------------------------------------------------------------------------

// Load emits a load of the value pointed to by ptr (ptr must have Pointer type).
func (p *Program) Load(ptr Value) Value {
	t := p.TypeOf(ptr)
	if !t.IsPointer() {
		panic(util.Fatalf(util.LoweringError, "load: operand is not a pointer"))
	}
	v := p.alloc(valueData{kind: KLoad, typ: *t.Base, ptr: ptr})
	p.push(v)
	return v
}

// Store emits a store of src into the memory pointed to by ptr.
func (p *Program) Store(src, ptr Value) {
	v := p.alloc(valueData{kind: KStore, typ: Unit, src: src, ptr: ptr})
	p.push(v)
}

// Binary emits a binary instruction combining l and r with op.
func (p *Program) Binary(op BinOp, l, r Value) Value {
	v := p.alloc(valueData{kind: KBinary, typ: Int32, op: op, lhs: l, rhs: r})
	p.push(v)
	return v
}

// GetElemPtr emits base[idx] addressing for a pointer to an array, stripping one array
// dimension (spec.md §4.5: array element indexing). base must have type Pointer(Array(b,n)).
func (p *Program) GetElemPtr(base, idx Value) Value {
	t := p.TypeOf(base)
	if !t.IsPointer() || !t.Base.IsArray() {
		panic(util.Fatalf(util.LoweringError, "getelemptr: base is not a pointer to array"))
	}
	res := NewPointer(*t.Base.Base)
	v := p.alloc(valueData{kind: KGetElemPtr, typ: res, ptr: base, rhs: idx})
	p.push(v)
	return v
}

// GetPtr emits pointer arithmetic on a plain pointer value (spec.md §4.5: first index of a
// pointer-to-array parameter). base must have Pointer type; the result has the same type.
func (p *Program) GetPtr(base, idx Value) Value {
	t := p.TypeOf(base)
	if !t.IsPointer() {
		panic(util.Fatalf(util.LoweringError, "getptr: base is not a pointer"))
	}
	v := p.alloc(valueData{kind: KGetPtr, typ: t, ptr: base, rhs: idx})
	p.push(v)
	return v
}

// Call emits a call to calleeName with args, returning a value of type retType (Unit for
// void calls, in which case the returned handle should not be used as an operand).
func (p *Program) Call(calleeName string, args []Value, retType Type) Value {
	v := p.alloc(valueData{kind: KCall, typ: retType, callee: calleeName, args: args})
	p.push(v)
	return v
}

// ---------------------------------------------------------------------------
// Terminators
// ---------------------------------------------------------------------------

// Jump emits an unconditional jump to target and terminates the current block.
func (p *Program) Jump(target BlockID) {
	b := p.cur.Blocks[p.cur.cur]
	if b.terminated {
		return
	}
	v := p.alloc(valueData{kind: KJump, typ: Unit, target: target})
	b.Insts = append(b.Insts, v)
	b.terminated = true
}

// Branch emits a conditional branch to trueBB or falseBB and terminates the current block.
func (p *Program) Branch(cond Value, trueBB, falseBB BlockID) {
	b := p.cur.Blocks[p.cur.cur]
	if b.terminated {
		return
	}
	v := p.alloc(valueData{kind: KBranch, typ: Unit, cond: cond, trueBB: trueBB, falseBB: falseBB})
	b.Insts = append(b.Insts, v)
	b.terminated = true
}

// Return emits a return of val (or a bare return if hasVal is false) and terminates the
// current block.
func (p *Program) Return(val Value, hasVal bool) {
	b := p.cur.Blocks[p.cur.cur]
	if b.terminated {
		return
	}
	v := p.alloc(valueData{kind: KReturn, typ: Unit, retVal: val, hasRet: hasVal})
	b.Insts = append(b.Insts, v)
	b.terminated = true
}
