package mir

import (
	"fmt"

	"github.com/shadowlink0122/Cm-sub000/internal/rtsig"
)

// ValidationError names one CFG well-formedness violation (spec.md §8).
type ValidationError struct {
	Func    string
	Block   int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: block %d: %s", e.Func, e.Block, e.Message)
}

// Validate checks every function in p against the CFG invariants spec.md
// §8 names: every block has a terminator, every jump target resolves to a
// real block in the same function, every assignment destination's root
// local and non-constant index locals lie inside the function's local
// table, and every direct call to a known runtime symbol has the arity
// internal/rtsig records. Field projections are not range-checked. It
// returns every violation found
// rather than stopping at the first, so a single bad function doesn't
// hide problems elsewhere in the program.
func Validate(p *Program) []error {
	var errs []error
	for _, f := range p.Funcs {
		errs = append(errs, validateFunc(f)...)
	}
	return errs
}

func validateFunc(f *Func) []error {
	var errs []error
	if f.Extern {
		if len(f.Blocks) != 0 {
			errs = append(errs, &ValidationError{Func: f.Name, Block: -1, Message: "extern function must not have a body"})
		}
		return errs
	}
	if len(f.Blocks) == 0 {
		errs = append(errs, &ValidationError{Func: f.Name, Block: -1, Message: "function body has no blocks"})
		return errs
	}
	if f.Entry == NoBlockID || int(f.Entry) >= len(f.Blocks) {
		errs = append(errs, &ValidationError{Func: f.Name, Block: -1, Message: "invalid entry block"})
	}

	for _, blk := range f.Blocks {
		if blk.Term.Kind == TermNone {
			errs = append(errs, &ValidationError{Func: f.Name, Block: int(blk.ID), Message: "block has no terminator"})
			continue
		}
		switch blk.Term.Kind {
		case TermGoto:
			if !validBlock(f, blk.Term.Goto.Target) {
				errs = append(errs, &ValidationError{Func: f.Name, Block: int(blk.ID), Message: "goto targets an unresolvable block"})
			}
		case TermIf:
			if !validBlock(f, blk.Term.If.Then) || !validBlock(f, blk.Term.If.Else) {
				errs = append(errs, &ValidationError{Func: f.Name, Block: int(blk.ID), Message: "if targets an unresolvable block"})
			}
		}
		for _, instr := range blk.Instrs {
			if instr.Kind == InstrAssign {
				if err := validatePlace(f, blk.ID, instr.Assign.Dst); err != nil {
					errs = append(errs, err)
				}
			}
			if instr.Kind == InstrCall && instr.Call.Callee.Kind == CalleeDirect &&
				!rtsig.Arity(instr.Call.Callee.Name, len(instr.Call.Args)) {
				errs = append(errs, &ValidationError{Func: f.Name, Block: int(blk.ID),
					Message: fmt.Sprintf("wrong arity in call to runtime symbol %s", instr.Call.Callee.Name)})
			}
		}
	}
	return errs
}

func validBlock(f *Func, id BlockID) bool {
	return int(id) >= 0 && int(id) < len(f.Blocks)
}

func validatePlace(f *Func, block BlockID, p Place) error {
	if p.Root == NoLocalID {
		return nil // global root, indexed separately from locals
	}
	if int(p.Root) < 0 || int(p.Root) >= len(f.Locals) {
		return &ValidationError{Func: f.Name, Block: int(block), Message: "place names a local outside the function's local table"}
	}
	for _, proj := range p.Proj {
		if proj.Kind == ProjIndex && !proj.IsConst {
			if int(proj.IndexLocal) < 0 || int(proj.IndexLocal) >= len(f.Locals) {
				return &ValidationError{Func: f.Name, Block: int(block), Message: "index projection names a local outside the function's local table"}
			}
		}
	}
	return nil
}
