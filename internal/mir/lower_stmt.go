package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/hir"
)

// lowerStmts lowers a statement list into the current block, stopping
// early once the block has been terminated (e.g. by a return) so dead
// trailing statements are never appended to an already-closed block.
func (lo *Lowering) lowerStmts(stmts []hir.Stmt) {
	for i := range stmts {
		if lo.b.f.Block(lo.cur).Terminated() {
			return
		}
		lo.lowerStmt(&stmts[i])
	}
}

// exitInnerScope emits the innermost scope's own destructor/defer
// cleanups, in LIFO order, if control can still fall through to it —
// the "LIFO at scope exit" half of spec.md §4.7 (the other half, every
// return, is handled by emitCleanupsAll in lowerFunc/lowerStmt).
func (lo *Lowering) exitInnerScope() {
	if lo.b.f.Block(lo.cur).Terminated() {
		return
	}
	s := lo.scopes[len(lo.scopes)-1]
	for j := len(s.cleanups) - 1; j >= 0; j-- {
		lo.emitOneCleanup(s.cleanups[j])
	}
}

func (lo *Lowering) lowerStmt(s *hir.Stmt) {
	switch s.Kind {
	case hir.StmtLet:
		lo.lowerLet(s)
	case hir.StmtAssign:
		lo.lowerAssign(s)
	case hir.StmtReturn:
		lo.lowerReturn(s)
	case hir.StmtIf:
		lo.lowerIf(s)
	case hir.StmtWhile:
		lo.lowerWhile(s)
	case hir.StmtFor:
		lo.lowerFor(s)
	case hir.StmtLoop:
		lo.lowerLoop(s)
	case hir.StmtSwitch:
		lo.lowerSwitch(s)
	case hir.StmtBreak:
		lo.lowerBreak(s)
	case hir.StmtContinue:
		lo.lowerContinue(s)
	case hir.StmtBlock:
		d := s.Data.(hir.BlockData)
		lo.pushScope()
		lo.lowerStmts(d.Body)
		lo.exitInnerScope()
		lo.popScope()
	case hir.StmtDefer:
		d := s.Data.(hir.DeferData)
		lo.registerDefer(d.Body)
	case hir.StmtAsm:
		lo.lowerAsm(s)
	case hir.StmtMust:
		d := s.Data.(hir.MustData)
		wasMust := lo.inMustBlock
		lo.inMustBlock = true
		lo.lowerStmts(d.Body)
		lo.inMustBlock = wasMust
	case hir.StmtExpr:
		d := s.Data.(hir.ExprStmtData)
		lo.lowerExpr(d.Value)
	}
}

func (lo *Lowering) lowerLet(s *hir.Stmt) {
	d := s.Data.(hir.LetData)
	bearing := lo.isDestructorBearing(d.Type)
	id := lo.b.newLocal(Local{Name: d.Name, Type: d.Type, Destructors: bearing, Span: s.Span})
	lo.bind(d.Name, id)
	if d.Init != nil {
		val := lo.lowerExpr(d.Init)
		lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueUse, Use: val})
	}
	if bearing {
		lo.registerDestructor(id, lo.Types.String(d.Type))
	}
}

// lowerAssign builds the target place exactly once via buildPlace, then
// reads/writes it — this is the single-evaluation fix for compound
// assignment (spec.md §8/§9): `a[f()] += 1` calls f() only once.
func (lo *Lowering) lowerAssign(s *hir.Stmt) {
	d := s.Data.(hir.AssignData)
	place := lo.buildPlace(d.Target)
	if !d.IsCompound {
		val := lo.lowerExpr(d.Value)
		lo.b.emitAssign(lo.cur, place, RValue{Kind: RValueUse, Use: val})
		return
	}
	cur := lo.readPlace(place, d.Target.Type)
	rhs := lo.lowerExpr(d.Value)
	id := lo.b.newTemp(Local{Type: d.Target.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueBinary, Binary: struct {
		Op          BinOp
		Left, Right Operand
	}{Op: binOpTable[d.CompoundOp], Left: cur, Right: rhs}})
	lo.b.emitAssign(lo.cur, place, RValue{Kind: RValueUse, Use: lo.readPlace(RootPlace(id), d.Target.Type)})
}

func (lo *Lowering) lowerReturn(s *hir.Stmt) {
	d := s.Data.(hir.ReturnData)
	var val Operand
	hasVal := d.Value != nil
	if hasVal {
		val = lo.lowerExpr(d.Value)
	}
	lo.emitCleanupsAll()
	lo.b.terminate(lo.cur, Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: hasVal, Value: val}})
}

func (lo *Lowering) lowerIf(s *hir.Stmt) {
	d := s.Data.(hir.IfData)
	cond := lo.lowerExpr(d.Cond)
	thenBlock := lo.b.newBlock()
	elseBlock := lo.b.newBlock()
	joinBlock := lo.b.newBlock()
	lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: thenBlock, Else: elseBlock}})

	lo.cur = thenBlock
	lo.pushScope()
	lo.lowerStmts(d.Then)
	lo.exitInnerScope()
	lo.popScope()
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBlock}})
	}

	lo.cur = elseBlock
	lo.pushScope()
	lo.lowerStmts(d.Else)
	lo.exitInnerScope()
	lo.popScope()
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBlock}})
	}

	lo.cur = joinBlock
}

func (lo *Lowering) lowerWhile(s *hir.Stmt) {
	d := s.Data.(hir.WhileData)
	headBlock := lo.b.newBlock()
	bodyBlock := lo.b.newBlock()
	exitBlock := lo.b.newBlock()
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headBlock}})

	lo.cur = headBlock
	cond := lo.lowerExpr(d.Cond)
	lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: bodyBlock, Else: exitBlock}})

	lo.cur = bodyBlock
	lo.loops = append(lo.loops, loopFrame{breakTarget: exitBlock, continueTarget: headBlock, scopeDepth: len(lo.scopes)})
	lo.pushScope()
	lo.lowerStmts(d.Body)
	lo.exitInnerScope()
	lo.popScope()
	lo.loops = lo.loops[:len(lo.loops)-1]
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headBlock}})
	}

	lo.cur = exitBlock
}

func (lo *Lowering) lowerFor(s *hir.Stmt) {
	d := s.Data.(hir.ForData)
	lo.pushScope()
	if d.Init != nil {
		lo.lowerStmt(d.Init)
	}
	headBlock := lo.b.newBlock()
	bodyBlock := lo.b.newBlock()
	updateBlock := lo.b.newBlock()
	exitBlock := lo.b.newBlock()
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headBlock}})

	lo.cur = headBlock
	if d.Cond != nil {
		cond := lo.lowerExpr(d.Cond)
		lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: bodyBlock, Else: exitBlock}})
	} else {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: bodyBlock}})
	}

	lo.cur = bodyBlock
	lo.loops = append(lo.loops, loopFrame{breakTarget: exitBlock, continueTarget: updateBlock, scopeDepth: len(lo.scopes)})
	lo.pushScope()
	lo.lowerStmts(d.Body)
	lo.exitInnerScope()
	lo.popScope()
	lo.loops = lo.loops[:len(lo.loops)-1]
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: updateBlock}})
	}

	lo.cur = updateBlock
	if d.Update != nil {
		lo.lowerStmt(d.Update)
	}
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headBlock}})
	}

	// The init-scope's own cleanups (e.g. a destructor-bearing loop
	// counter) run once flow reaches exitBlock, whether it got there via
	// the head's cond-false edge or via a `break` inside the body.
	lo.cur = exitBlock
	lo.exitInnerScope()
	lo.popScope()
}

func (lo *Lowering) lowerLoop(s *hir.Stmt) {
	d := s.Data.(hir.LoopData)
	bodyBlock := lo.b.newBlock()
	exitBlock := lo.b.newBlock()
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: bodyBlock}})

	lo.cur = bodyBlock
	lo.loops = append(lo.loops, loopFrame{breakTarget: exitBlock, continueTarget: bodyBlock, scopeDepth: len(lo.scopes)})
	lo.pushScope()
	lo.lowerStmts(d.Body)
	lo.exitInnerScope()
	lo.popScope()
	lo.loops = lo.loops[:len(lo.loops)-1]
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: bodyBlock}})
	}

	lo.cur = exitBlock
}

// lowerSwitch desugars into a chain of equality tests against the
// scrutinee, mirroring the ternary-chain match desugaring HIR already
// performs for value-producing match (spec.md §4.2) but as statements.
func (lo *Lowering) lowerSwitch(s *hir.Stmt) {
	d := s.Data.(hir.SwitchData)
	scrut := lo.lowerExpr(d.Expr)
	exitBlock := lo.b.newBlock()

	var defaultCase *hir.SwitchCase
	for i := range d.Cases {
		c := &d.Cases[i]
		if c.Value == nil {
			defaultCase = c
			continue
		}
		caseVal := lo.lowerExpr(c.Value)
		eqID := lo.b.newTemp(Local{Type: lo.Types.Builtins().Bool})
		lo.b.emitAssign(lo.cur, RootPlace(eqID), RValue{Kind: RValueBinary, Binary: struct {
			Op          BinOp
			Left, Right Operand
		}{Op: BinEq, Left: scrut, Right: caseVal}})

		thenBlock := lo.b.newBlock()
		nextBlock := lo.b.newBlock()
		lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: lo.readPlace(RootPlace(eqID), lo.Types.Builtins().Bool), Then: thenBlock, Else: nextBlock}})

		lo.cur = thenBlock
		lo.pushScope()
		lo.lowerStmts(c.Body)
		lo.exitInnerScope()
		lo.popScope()
		if !lo.b.f.Block(lo.cur).Terminated() {
			lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: exitBlock}})
		}

		lo.cur = nextBlock
	}

	if defaultCase != nil {
		lo.pushScope()
		lo.lowerStmts(defaultCase.Body)
		lo.exitInnerScope()
		lo.popScope()
	}
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: exitBlock}})
	}

	lo.cur = exitBlock
}

func (lo *Lowering) lowerBreak(s *hir.Stmt) {
	if len(lo.loops) == 0 {
		lo.Diags.Fatalf(lo.b.f.Name, int(lo.cur), "break outside of a loop")
		return
	}
	frame := lo.loops[len(lo.loops)-1]
	lo.emitCleanupsDownTo(frame.scopeDepth)
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: frame.breakTarget}})
}

func (lo *Lowering) lowerContinue(s *hir.Stmt) {
	if len(lo.loops) == 0 {
		lo.Diags.Fatalf(lo.b.f.Name, int(lo.cur), "continue outside of a loop")
		return
	}
	frame := lo.loops[len(lo.loops)-1]
	lo.emitCleanupsDownTo(frame.scopeDepth)
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: frame.continueTarget}})
}

func (lo *Lowering) lowerAsm(s *hir.Stmt) {
	d := s.Data.(hir.AsmData)
	operands := make([]AsmOperand, len(d.Operands))
	for i, op := range d.Operands {
		place := Place{Root: NoLocalID}
		if id, ok := lo.lookupLocal(op.Name); ok {
			place = RootPlace(id)
		}
		operands[i] = AsmOperand{Name: op.Name, Constraint: op.Constraint, Place: place}
	}
	lo.b.emit(lo.cur, Instr{Kind: InstrAsm, Asm: AsmInstr{Code: d.Code, Operands: operands, Clobbers: d.Clobbers}})
}
