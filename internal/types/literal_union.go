package types

import (
	"fmt"

	"fortio.org/safecast"
)

// LiteralUnionInfo is the out-of-line metadata for a literal_union(lit*)
// type: a type narrowed to a fixed set of literal values, e.g. the return
// type of a typed-constant macro before it collapses to its dominant
// primitive (spec.md §3, §4.1).
type LiteralUnionInfo struct {
	Dominant LiteralKind
	Count    int
}

// RegisterLiteralUnion interns a literal_union narrowed to dominant.
func (in *Interner) RegisterLiteralUnion(dominant LiteralKind, count int) TypeID {
	slot, err := safecast.Conv[uint32](len(in.litUnions))
	if err != nil {
		panic(fmt.Errorf("types: literal union table overflow: %w", err))
	}
	in.litUnions = append(in.litUnions, LiteralUnionInfo{Dominant: dominant, Count: count})
	return in.internRaw(Type{Kind: KindLiteralUnion, Payload: slot})
}

// LiteralUnionInfo returns the metadata for a literal_union TypeID.
func (in *Interner) LiteralUnionInfo(id TypeID) (*LiteralUnionInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindLiteralUnion || int(t.Payload) >= len(in.litUnions) {
		return nil, false
	}
	return &in.litUnions[t.Payload], true
}

// ResolveLiteralUnion returns the concrete base primitive a literal_union
// narrows to, per spec.md §4.1: "Literal-union types resolve to their
// dominant literal kind (string/int/double)."
func (in *Interner) ResolveLiteralUnion(id TypeID) TypeID {
	info, ok := in.LiteralUnionInfo(id)
	if !ok {
		return id
	}
	switch info.Dominant {
	case LitString:
		return in.builtins.String
	case LitInt:
		return in.builtins.Int
	case LitDouble:
		return in.builtins.Double
	case LitBool:
		return in.builtins.Bool
	default:
		return in.builtins.Int
	}
}
