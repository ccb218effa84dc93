package koopa

// BlockID identifies a basic block within a FunctionData's layout.
type BlockID int

// Block is an ordered list of instruction Values sharing one basic block, terminated by
// exactly one of {Return, Jump, Branch} (spec.md §3 Invariants).
type Block struct {
	Name       string
	Insts      []Value
	terminated bool
	dead       bool // true if the block is only reachable through a dead branch; skipped at print/codegen time.
}

// Instructions returns the block's ordered instruction handles.
func (b *Block) Instructions() []Value {
	return b.Insts
}

// Terminated reports whether the block already ends in a terminator.
func (b *Block) Terminated() bool {
	return b.terminated
}

// Dead reports whether the block was marked unreachable.
func (b *Block) Dead() bool {
	return b.dead
}
