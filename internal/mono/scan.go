// Package mono implements monomorphization (spec.md §4.8): scanning MIR
// for call sites to generic functions, inferring each call's concrete
// type arguments, cloning and specializing the generic definition once
// per distinct instantiation, rewriting call sites to the specialized
// name, and finally removing the now-dead generic originals — the round
// trip spec.md §8 requires: "every call to g rewritten to g_T... after
// monomorphization, g is absent from the program."
package mono

import (
	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// callSite names one direct call to a generic function, located precisely
// enough that Monomorphize can patch its Callee.Name in place.
type callSite struct {
	funcIdx, blockIdx, instrIdx int
	genericName                 string
}

// scanCallSites walks every instruction of every function in prog looking
// for a direct call whose callee is a generic function definition.
func scanCallSites(prog *mir.Program) []callSite {
	var sites []callSite
	for fi, f := range prog.Funcs {
		for bi := range f.Blocks {
			for ii, instr := range f.Blocks[bi].Instrs {
				if instr.Kind != mir.InstrCall || instr.Call.Callee.Kind != mir.CalleeDirect {
					continue
				}
				callee := prog.FuncNamed(instr.Call.Callee.Name)
				if callee == nil || !callee.IsGeneric {
					continue
				}
				sites = append(sites, callSite{funcIdx: fi, blockIdx: bi, instrIdx: ii, genericName: instr.Call.Callee.Name})
			}
		}
	}
	return sites
}

// argOperandTypes returns the operand types at a call site, in argument
// order, used by inference to unify against the generic function's
// parameter types.
func argOperandTypes(instr *mir.Instr) []types.TypeID {
	out := make([]types.TypeID, len(instr.Call.Args))
	for i, a := range instr.Call.Args {
		out[i] = a.Type
	}
	return out
}
