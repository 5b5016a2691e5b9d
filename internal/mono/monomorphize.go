package mono

import (
	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// Monomorphize runs spec.md §4.8 end to end: scan every call site for a
// reference to a generic function, infer its type arguments, clone and
// specialize the generic definition once per distinct instantiation,
// rewrite every such call site to the specialized name, and finally
// remove the generic originals — satisfying the round-trip law of spec.md
// §8 ("every call to g rewritten to g_T... after monomorphization, g is
// absent from the program").
func Monomorphize(prog *mir.Program, ti *types.Interner) *mir.Program {
	known := map[string]bool{} // mangled names already cloned this run
	genericNames := map[string]bool{}

	// Fixpoint: a freshly cloned specialization keeps whatever calls its
	// generic body makes to other generic functions, so the scan repeats
	// after every pass and stops once a pass neither adds a specialization
	// nor rewrites a call site.
	for {
		sites := scanCallSites(prog)
		if len(sites) == 0 {
			break
		}
		progressed := false
		for _, site := range sites {
			f := prog.Funcs[site.funcIdx]
			instr := &f.Blocks[site.blockIdx].Instrs[site.instrIdx]
			generic := prog.FuncNamed(site.genericName)
			if generic == nil {
				continue
			}
			genericNames[generic.Name] = true

			argTypes := argOperandTypes(instr)
			typeArgs := inferTypeArgs(ti, generic, argTypes)
			mangled := ti.Mangle(generic.Name, typeArgs)

			if mangled == generic.Name {
				// No type parameter could be bound at all (arity-0 generic
				// edge case); leave the call alone rather than loop forever.
				continue
			}
			if !known[mangled] {
				bindings := bindingsOf(generic.TypeParams, typeArgs)
				clone := cloneFunc(ti, generic, bindings, mangled)
				prog.AddFunc(clone)
				known[mangled] = true
				progressed = true
			}
			if instr.Call.Callee.Name != mangled {
				instr.Call.Callee.Name = mangled
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	// Generic originals that no call site named are removed as well.
	for _, f := range prog.Funcs {
		if f.IsGeneric {
			genericNames[f.Name] = true
		}
	}
	if len(genericNames) > 0 {
		prog.RemoveFuncsNamed(genericNames)
	}
	return prog
}

func bindingsOf(names []string, args []types.TypeID) map[string]types.TypeID {
	out := make(map[string]types.TypeID, len(names))
	for i, n := range names {
		if i < len(args) {
			out[n] = args[i]
		}
	}
	return out
}
