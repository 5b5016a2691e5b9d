package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// GenericInfo names a generic(name) parameter placeholder, e.g. the `T` in
// `struct Pair<T>` before it is substituted by monomorphization.
type GenericInfo struct {
	Name  source.StringID
	Owner source.StringID // enclosing struct/function name, for diagnostics
}

// RegisterGeneric interns a fresh generic parameter placeholder.
func (in *Interner) RegisterGeneric(name, owner source.StringID) TypeID {
	slot, err := safecast.Conv[uint32](len(in.generics))
	if err != nil {
		panic(fmt.Errorf("types: generic table overflow: %w", err))
	}
	in.generics = append(in.generics, GenericInfo{Name: name, Owner: owner})
	return in.internRaw(Type{Kind: KindGeneric, Payload: slot})
}

// GenericInfo returns the metadata for a generic TypeID.
func (in *Interner) GenericInfo(id TypeID) (*GenericInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindGeneric || int(t.Payload) >= len(in.generics) {
		return nil, false
	}
	return &in.generics[t.Payload], true
}

// IsGeneric reports whether id is a bare generic parameter.
func (in *Interner) IsGeneric(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindGeneric
}

// ContainsGeneric reports whether id mentions a generic parameter anywhere
// in its structure (used to decide whether a call site needs inference).
func (in *Interner) ContainsGeneric(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindGeneric:
		return true
	case KindPointer, KindArray:
		return in.ContainsGeneric(t.Elem)
	case KindStruct:
		info := in.structInfo(id)
		if info == nil {
			return false
		}
		for _, arg := range info.TypeArgs {
			if in.ContainsGeneric(arg) {
				return true
			}
		}
		return false
	case KindFunction:
		info, ok := in.FnInfo(id)
		if !ok {
			return false
		}
		if in.ContainsGeneric(info.Result) {
			return true
		}
		for _, p := range info.Params {
			if in.ContainsGeneric(p) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
