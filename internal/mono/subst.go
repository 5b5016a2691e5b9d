package mono

import "github.com/shadowlink0122/Cm-sub000/internal/types"

// substType replaces every generic placeholder reachable from id with its
// binding, reinterning the result. Structs that themselves carry generic
// type arguments are left unsubstituted inside their own TypeArgs — full
// nested struct specialization is beyond what this pass needs for
// spec.md's generic *functions*, which bind only pointer/array/bare
// parameter shapes; a struct literal's own generic arguments are already
// concrete by the time a function call site is reached (the typechecker
// resolved them upstream).
func substType(ti *types.Interner, id types.TypeID, bindings map[string]types.TypeID) types.TypeID {
	if ti.IsGeneric(id) {
		info, ok := ti.GenericInfo(id)
		if !ok {
			return id
		}
		if bound, ok := bindings[ti.Strings.Lookup(info.Name)]; ok {
			return bound
		}
		return id
	}
	t, ok := ti.Lookup(id)
	if !ok {
		return id
	}
	switch t.Kind {
	case types.KindPointer:
		elem := substType(ti, t.Elem, bindings)
		if elem == t.Elem {
			return id
		}
		return ti.Pointer(elem)
	case types.KindArray:
		elem := substType(ti, t.Elem, bindings)
		if elem == t.Elem {
			return id
		}
		return ti.Array(elem, t.Count)
	default:
		return id
	}
}
