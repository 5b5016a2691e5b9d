package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/hir"
	"github.com/shadowlink0122/Cm-sub000/internal/symbols"
)

// registerDestructor records that local (already known destructor-bearing)
// owes a Type__dtor call when its scope exits, spec.md §4.7.
func (lo *Lowering) registerDestructor(local LocalID, typeName string) {
	s := lo.scopes[len(lo.scopes)-1]
	s.cleanups = append(s.cleanups, cleanup{
		kind: cleanupDestructor, local: local, dtorName: symbols.MangleDtor(typeName),
	})
}

// registerDefer records a defer body to run (in addition to, not instead
// of, destructor calls) at scope exit and at every return, spec.md §4.7.
func (lo *Lowering) registerDefer(body []hir.Stmt) {
	s := lo.scopes[len(lo.scopes)-1]
	s.cleanups = append(s.cleanups, cleanup{kind: cleanupDefer, body: body})
}

// emitCleanupsAll runs every outstanding defer and destructor across the
// whole scope stack, innermost scope first, each scope's own cleanups in
// LIFO registration order — the ordering spec.md §4.7 requires at a
// function's implicit or explicit return.
func (lo *Lowering) emitCleanupsAll() {
	lo.emitCleanupsDownTo(0)
}

// emitCleanupsDownTo runs cleanups for every scope from the innermost down
// to (and including) index depth, used both for a full function return
// (depth 0) and for break/continue unwinding only the scopes inside a loop.
func (lo *Lowering) emitCleanupsDownTo(depth int) {
	for i := len(lo.scopes) - 1; i >= depth; i-- {
		s := lo.scopes[i]
		for j := len(s.cleanups) - 1; j >= 0; j-- {
			lo.emitOneCleanup(s.cleanups[j])
		}
	}
}

func (lo *Lowering) emitOneCleanup(c cleanup) {
	if lo.b.f.Block(lo.cur).Terminated() {
		return
	}
	switch c.kind {
	case cleanupDestructor:
		self := Operand{Kind: OperandCopy, Place: RootPlace(c.local)}
		lo.b.emitCall(lo.cur, Callee{Kind: CalleeDirect, Name: c.dtorName}, []Operand{self})
	case cleanupDefer:
		lo.lowerStmts(c.body)
	}
}
