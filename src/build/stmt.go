package build

import (
	"fmt"

	"sysyc/src/ast"
	"sysyc/src/koopa"
	"sysyc/src/scope"
	"sysyc/src/util"
)

// lowerBlockBody lowers a Block's items into the current block without opening a new
// scope level — used for a function body, whose parameter bindings and top-level locals
// share one scope (spec.md §4.2). Nested blocks go through lowerBlock instead.
func (b *builder) lowerBlockBody(blk *ast.Block) {
	for _, item := range blk.Items {
		b.lowerBlockItem(item)
	}
}

// lowerBlock lowers a nested block, opening and closing its own scope level.
func (b *builder) lowerBlock(blk *ast.Block) {
	b.sc.Enter()
	b.lowerBlockBody(blk)
	b.sc.Exit()
}

func (b *builder) lowerBlockItem(item ast.BlockItem) {
	switch it := item.(type) {
	case *ast.Decl:
		b.lowerDecl(it)
	case ast.Stmt:
		b.lowerStmt(it)
	default:
		panic(util.Fatalf(util.LoweringError, "unhandled block item %T", item))
	}
}

func (b *builder) lowerStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		if st.Value != nil {
			v := b.lowerExpr(st.Value)
			b.tick(v)
			b.prog.Return(v, true)
		} else {
			b.prog.Return(koopa.NoValue, false)
		}
		b.startUnreachableBlock()

	case *ast.AssignStmt:
		if b.sc.Lookup(st.LVal.Ident).Const {
			panic(util.Fatalf(util.LoweringError, "cannot assign to const %s", st.LVal.Ident))
		}
		v := b.lowerExpr(st.Value)
		addr := b.lowerLValAddr(st.LVal)
		b.tick(v, addr)
		b.prog.Store(v, addr)

	case *ast.ExpStmt:
		if st.Value != nil {
			b.lowerExpr(st.Value)
		}

	case *ast.BlockStmt:
		b.lowerBlock(st.Body)

	case *ast.IfStmt:
		b.lowerIf(st)

	case *ast.WhileStmt:
		b.lowerWhile(st)

	case *ast.BreakStmt:
		lt := b.sc.CurLoop()
		b.prog.Jump(lt.Break)
		b.startUnreachableBlock()

	case *ast.ContinueStmt:
		lt := b.sc.CurLoop()
		b.prog.Jump(lt.Continue)
		b.startUnreachableBlock()

	default:
		panic(util.Fatalf(util.LoweringError, "unhandled statement %T", s))
	}
}

func (b *builder) lowerIf(st *ast.IfStmt) {
	thenName, elseName, endName := b.sc.IfLabels()
	cond := b.lowerExpr(st.Cond)
	b.tick(cond)

	thenBB := b.prog.NewBlock(thenName)
	var elseBB koopa.BlockID
	if st.Else != nil {
		elseBB = b.prog.NewBlock(elseName)
	}
	endBB := b.prog.NewBlock(endName)

	if st.Else != nil {
		b.prog.Branch(cond, thenBB, elseBB)
	} else {
		b.prog.Branch(cond, thenBB, endBB)
	}

	b.prog.SetBlock(thenBB)
	b.sc.SetCurBlock(thenBB)
	b.lowerStmt(st.Then)
	if !b.prog.Terminated() {
		b.prog.Jump(endBB)
	}

	if st.Else != nil {
		b.prog.SetBlock(elseBB)
		b.sc.SetCurBlock(elseBB)
		b.lowerStmt(st.Else)
		if !b.prog.Terminated() {
			b.prog.Jump(endBB)
		}
	}

	b.prog.SetBlock(endBB)
	b.sc.SetCurBlock(endBB)
}

func (b *builder) lowerWhile(st *ast.WhileStmt) {
	entryName, bodyName, endName := b.sc.LoopLabels()
	entryBB := b.prog.NewBlock(entryName)
	b.prog.Jump(entryBB)

	b.prog.SetBlock(entryBB)
	b.sc.SetCurBlock(entryBB)
	cond := b.lowerExpr(st.Cond)
	b.tick(cond)

	bodyBB := b.prog.NewBlock(bodyName)
	endBB := b.prog.NewBlock(endName)
	b.prog.Branch(cond, bodyBB, endBB)

	b.sc.PushLoop(scope.LoopTarget{Continue: entryBB, Break: endBB})
	b.prog.SetBlock(bodyBB)
	b.sc.SetCurBlock(bodyBB)
	b.lowerStmt(st.Body)
	if !b.prog.Terminated() {
		b.prog.Jump(entryBB)
	}
	b.sc.PopLoop()

	b.prog.SetBlock(endBB)
	b.sc.SetCurBlock(endBB)
}

// startUnreachableBlock opens and switches into a fresh, dead block so that any
// statements lexically following a terminator (return/break/continue) have somewhere to
// lower into without being silently discarded mid-traversal; the printer and code
// generator skip dead blocks (spec.md §3 Invariants: "discard anything after the
// terminator").
func (b *builder) startUnreachableBlock() {
	b.deadSeq++
	id := b.prog.NewBlock(fmt.Sprintf("unreachable_%d", b.deadSeq))
	b.prog.SetBlock(id)
	b.sc.SetCurBlock(id)
	b.prog.MarkDead(id)
}
