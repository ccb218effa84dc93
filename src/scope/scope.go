// Package scope implements the front-end scope described in spec.md §3 and §4.2: nested
// name -> Entry tables, a flat function table, current-function/current-block cursors, a
// loop-target stack for break/continue, a pending array-dimension scratch for the
// initializer walker, and a two-counter label generator. Identifier tables are backed by
// swiss-table maps (github.com/dolthub/swiss, via its github.com/mna/swiss fork), the
// same hash map the pack's mna-nenuphar interpreter uses for its own identifier lookups.
package scope

import (
	"fmt"

	"github.com/dolthub/swiss"

	"sysyc/src/koopa"
	"sysyc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Entry binds an identifier to either a compile-time constant or an IR-backed value.
// Const applies to both const scalars and const arrays (forbidding assignment); only
// const scalars are evaluable at compile time (Scalar && Const), per spec.md §4.1.
type Entry struct {
	Const    bool
	Scalar   bool
	ConstVal int32       // Valid when Const && Scalar.
	Val      koopa.Value // Valid otherwise: the backing Alloc/GlobalAlloc/bound-parameter value.
	Typ      koopa.Type  // Static type of Val (always Pointer(_) for IR-backed entries).
}

// FuncEntry records a declared function's signature and IR handle.
type FuncEntry struct {
	Data     *koopa.FunctionData
	RetKind  int // ast.RetKind as a plain int, set for user-defined functions; left zero for runtime-library declarations.
	ArgTypes []koopa.Type
}

// LoopTarget is the (continue, break) target pair pushed for each enclosing while loop.
type LoopTarget struct {
	Continue koopa.BlockID
	Break    koopa.BlockID
}

// Scope is the front-end's single mutable cursor over the program being lowered. It is
// visited in lock-step with a strict pre-order AST walk (spec.md §5); no locking needed.
type Scope struct {
	tables []*swiss.Map[string, *Entry]
	funcs  *swiss.Map[string, *FuncEntry]

	curFunc *FuncEntry
	curBB   koopa.BlockID

	loops util.Stack[LoopTarget]

	arrayInfo []int // Dimension vector scratch (spec.md §4.4); build's initializer flattening passes dims explicitly instead.

	ifSeq   int
	loopSeq int
}

// New returns an empty Scope with one (file) level already pushed.
func New() *Scope {
	s := &Scope{funcs: swiss.NewMap[string, *FuncEntry](8)}
	s.Enter()
	return s
}

// ---------------------------------------------------------------------------
// Nested identifier tables
// ---------------------------------------------------------------------------

// Enter pushes a new, empty name table.
func (s *Scope) Enter() {
	s.tables = append(s.tables, swiss.NewMap[string, *Entry](8))
}

// Exit pops the innermost name table, restoring the outer binding for any shadowed name.
func (s *Scope) Exit() {
	s.tables = s.tables[:len(s.tables)-1]
}

// NewValue binds id to e in the innermost table. Shadowing is permitted: if id is already
// bound in the innermost table, the new binding silently replaces it.
func (s *Scope) NewValue(id string, e *Entry) {
	s.tables[len(s.tables)-1].Put(id, e)
}

// Lookup walks the name tables innermost-to-outermost. It aborts fatally on miss, per
// spec.md §4.2 ("lookups ... fail fatally on miss") — SysY identifier resolution failures
// are a lowering invariant violation, not a recoverable condition.
func (s *Scope) Lookup(id string) *Entry {
	for i1 := len(s.tables) - 1; i1 >= 0; i1-- {
		if e, ok := s.tables[i1].Get(id); ok {
			return e
		}
	}
	panic(util.Fatalf(util.LoweringError, "undeclared identifier: %s", id))
}

// IsGlobal reports whether lowering is currently at file scope (no current function).
func (s *Scope) IsGlobal() bool {
	return s.curFunc == nil
}

// ---------------------------------------------------------------------------
// Function table
// ---------------------------------------------------------------------------

// NewFunc registers a function declaration in the flat, process-lifetime function table.
func (s *Scope) NewFunc(id string, fe *FuncEntry) {
	s.funcs.Put(id, fe)
}

// Func looks up a declared function by name, aborting fatally if undeclared.
func (s *Scope) Func(id string) *FuncEntry {
	fe, ok := s.funcs.Get(id)
	if !ok {
		panic(util.Fatalf(util.LoweringError, "call to undeclared function: %s", id))
	}
	return fe
}

// SetCurFunc sets the function currently being lowered.
func (s *Scope) SetCurFunc(fe *FuncEntry) {
	s.curFunc = fe
}

// CurFunc returns the function currently being lowered, or nil at file scope.
func (s *Scope) CurFunc() *FuncEntry {
	return s.curFunc
}

// SetCurBlock sets the basic block instructions are currently being appended to.
func (s *Scope) SetCurBlock(bb koopa.BlockID) {
	s.curBB = bb
}

// CurBlock returns the current basic block.
func (s *Scope) CurBlock() koopa.BlockID {
	return s.curBB
}

// ---------------------------------------------------------------------------
// Loop-target stack
// ---------------------------------------------------------------------------

// PushLoop pushes the (continue, break) targets of an entered while loop.
func (s *Scope) PushLoop(lt LoopTarget) {
	s.loops.Push(lt)
}

// PopLoop pops the innermost loop's targets on loop exit.
func (s *Scope) PopLoop() {
	s.loops.Pop()
}

// CurLoop returns the innermost loop's targets. Panics (a lowering invariant violation)
// if break/continue appears outside any loop — the front end is assumed to reject that,
// but a defensive check here keeps the builder total.
func (s *Scope) CurLoop() LoopTarget {
	lt, ok := s.loops.Peek()
	if !ok {
		panic(util.Fatalf(util.LoweringError, "break/continue outside of loop"))
	}
	return lt
}

// ---------------------------------------------------------------------------
// Array dimension scratch (spec.md §4.4)
// ---------------------------------------------------------------------------

// SetArrayInfo sets the pending dimension vector. The build package's initializer
// flattening does not read it; it receives the dimensions as an argument.
func (s *Scope) SetArrayInfo(dims []int) {
	s.arrayInfo = dims
}

// ArrayInfo returns the pending dimension vector.
func (s *Scope) ArrayInfo() []int {
	return s.arrayInfo
}

// ---------------------------------------------------------------------------
// Label generator — two independent counters (spec.md §4.2)
// ---------------------------------------------------------------------------

// IfLabels returns a fresh %Then_n / %Else_n / %End_n triple.
func (s *Scope) IfLabels() (then, els, end string) {
	n := s.ifSeq
	s.ifSeq++
	return fmt.Sprintf("Then_%d", n), fmt.Sprintf("Else_%d", n), fmt.Sprintf("End_%d", n)
}

// LoopLabels returns a fresh %Entry_n / %Body_n / %While_End_n triple.
func (s *Scope) LoopLabels() (entry, body, end string) {
	n := s.loopSeq
	s.loopSeq++
	return fmt.Sprintf("Entry_%d", n), fmt.Sprintf("Body_%d", n), fmt.Sprintf("While_End_%d", n)
}
