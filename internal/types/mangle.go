package types

import "strings"

// Mangle implements the mangling scheme of spec.md §3/§4.8: the canonical
// name of a monomorphized struct `Pair<int, string>` is `Pair__int__string`.
func (in *Interner) Mangle(base string, args []TypeID) string {
	if len(args) == 0 {
		return base
	}
	if strings.Contains(base, "__") {
		// spec.md §4.8 "Struct specialization": avoid double-mangling when
		// the incoming name already contains "__".
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	for _, a := range args {
		b.WriteString("__")
		b.WriteString(in.String(a))
	}
	return b.String()
}

// MangledStructName returns the canonical mangled name for a struct TypeID.
func (in *Interner) MangledStructName(id TypeID) string {
	info := in.structInfo(id)
	if info == nil {
		return "<struct>"
	}
	base := in.Strings.Lookup(info.Name)
	if len(info.TypeArgs) == 0 {
		return base
	}
	return in.Mangle(base, info.TypeArgs)
}

// SplitMangled parses a mangled name "Base__T1__T2" back into its base and
// component type-name strings. Spec.md §9 flags this as fragile — name
// based recovery is a fallback only, never the primary inference path (see
// internal/mono, which carries type_args structurally wherever possible).
func SplitMangled(name string) (base string, argNames []string) {
	parts := strings.Split(name, "__")
	if len(parts) == 1 {
		return name, nil
	}
	return parts[0], parts[1:]
}
