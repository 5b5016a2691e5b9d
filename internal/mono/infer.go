package mono

import (
	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// inferTypeArgs binds each of genericFunc.TypeParams to a concrete TypeID
// by structurally unifying its parameter types (which may mention a
// KindGeneric placeholder anywhere in their structure) against the
// argument operand types actually supplied at one call site.
//
// A type parameter that unification never touches — one that only
// appears in the return type, never in any parameter — falls back to
// `int`. This is the spec.md §9 Open Question resolution: the
// distillation left call-site inference underspecified for that case, and
// defaulting to the most common concrete instantiation keeps
// monomorphization total instead of leaving such calls unspecialized.
func inferTypeArgs(ti *types.Interner, genericFunc *mir.Func, argTypes []types.TypeID) []types.TypeID {
	bindings := map[string]types.TypeID{}
	for i, p := range genericFunc.Params {
		if i >= len(argTypes) {
			break
		}
		unify(ti, p.Type, argTypes[i], bindings)
	}
	out := make([]types.TypeID, len(genericFunc.TypeParams))
	for i, name := range genericFunc.TypeParams {
		if bound, ok := bindings[name]; ok {
			out[i] = bound
		} else {
			out[i] = ti.Builtins().Int
		}
	}
	return out
}

func unify(ti *types.Interner, param, arg types.TypeID, bindings map[string]types.TypeID) {
	if ti.IsGeneric(param) {
		info, ok := ti.GenericInfo(param)
		if !ok {
			return
		}
		name := ti.Strings.Lookup(info.Name)
		if _, bound := bindings[name]; !bound {
			bindings[name] = arg
		}
		return
	}
	pt, pok := ti.Lookup(param)
	at, aok := ti.Lookup(arg)
	if !pok || !aok {
		return
	}
	switch pt.Kind {
	case types.KindPointer:
		if at.Kind == types.KindPointer {
			unify(ti, pt.Elem, at.Elem, bindings)
		}
	case types.KindArray:
		if at.Kind == types.KindArray {
			unify(ti, pt.Elem, at.Elem, bindings)
		}
	case types.KindStruct:
		if at.Kind != types.KindStruct {
			return
		}
		pinfo, pok2 := ti.StructInfo(param)
		ainfo, aok2 := ti.StructInfo(arg)
		if !pok2 || !aok2 || len(pinfo.TypeArgs) != len(ainfo.TypeArgs) {
			return
		}
		for i := range pinfo.TypeArgs {
			unify(ti, pinfo.TypeArgs[i], ainfo.TypeArgs[i], bindings)
		}
	}
}
