package koopa

// accessors.go exposes read-only views of arena records to the IR printer, the liveness
// tracker and the RISC-V backend, keeping valueData's fields themselves unexported.

// IntegerValue returns the literal value of an Integer constant.
func (p *Program) IntegerValue(v Value) int32 {
	return p.data(v).intVal
}

// AllocType returns the allocated type of an Alloc/GlobalAlloc (the type pointed to by v,
// i.e. v's type with one Pointer layer stripped).
func (p *Program) AllocType(v Value) Type {
	return p.data(v).allocType
}

// GlobalName returns the declared identifier of a GlobalAlloc.
func (p *Program) GlobalName(v Value) string {
	return p.data(v).name
}

// GlobalInit returns the initializer handle of a GlobalAlloc, or NoValue if none.
func (p *Program) GlobalInit(v Value) Value {
	return p.data(v).init
}

// AggregateElems returns the element handles of an Aggregate value.
func (p *Program) AggregateElems(v Value) []Value {
	return p.data(v).elems
}

// LoadPtr returns the pointer operand of a Load.
func (p *Program) LoadPtr(v Value) Value {
	return p.data(v).ptr
}

// StoreOperands returns the (source, destination-pointer) operands of a Store.
func (p *Program) StoreOperands(v Value) (src, ptr Value) {
	d := p.data(v)
	return d.src, d.ptr
}

// BinaryOperands returns the opcode and operands of a Binary instruction.
func (p *Program) BinaryOperands(v Value) (op BinOp, lhs, rhs Value) {
	d := p.data(v)
	return d.op, d.lhs, d.rhs
}

// PtrIndexOperands returns the (base, index) operands of a GetElemPtr/GetPtr.
func (p *Program) PtrIndexOperands(v Value) (base, index Value) {
	d := p.data(v)
	return d.ptr, d.rhs
}

// BranchOperands returns the condition and targets of a Branch.
func (p *Program) BranchOperands(v Value) (cond Value, trueBB, falseBB BlockID) {
	d := p.data(v)
	return d.cond, d.trueBB, d.falseBB
}

// JumpTarget returns the target block of a Jump.
func (p *Program) JumpTarget(v Value) BlockID {
	return p.data(v).target
}

// ReturnOperand returns the operand of a Return and whether it's meaningful.
func (p *Program) ReturnOperand(v Value) (val Value, has bool) {
	d := p.data(v)
	return d.retVal, d.hasRet
}

// CallOperands returns the callee name and argument handles of a Call.
func (p *Program) CallOperands(v Value) (callee string, args []Value) {
	d := p.data(v)
	return d.callee, d.args
}

// FuncArgIndex returns the ordinal position of a bound parameter value.
func (p *Program) FuncArgIndex(v Value) int {
	return p.data(v).argIndex
}
