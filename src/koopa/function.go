package koopa

// FunctionData describes one function's signature and basic-block layout. Parameters and
// instructions are Value handles into the owning Program's arena; FunctionData itself
// only holds the layout (spec.md §3: "Program: owns global allocations and
// FunctionData").
type FunctionData struct {
	Name       string
	ParamTypes []Type
	Params     []Value // KFuncArg handles, one per parameter, in declaration order.
	RetType    Type
	Declared   bool // true for runtime library declarations with no body (spec.md §4.3 item 1).

	Blocks  []*Block
	blockOf map[string]BlockID
	cur     BlockID
}

// Block returns the block at id.
func (f *FunctionData) Block(id BlockID) *Block {
	return f.Blocks[id]
}

// CurBlock returns the id of the block currently being appended to.
func (f *FunctionData) CurBlock() BlockID {
	return f.cur
}

// EntryBlock returns the id of the function's first block ("%entry", spec.md §3 Invariants).
func (f *FunctionData) EntryBlock() BlockID {
	return 0
}
