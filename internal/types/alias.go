package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// AliasInfo is the out-of-line metadata for a typedef.
type AliasInfo struct {
	Name   source.StringID
	Decl   source.Span
	Target TypeID
}

// RegisterAlias allocates a typedef slot whose target is filled in later
// (typedefs may be mutually forward-referencing within a module).
func (in *Interner) RegisterAlias(name source.StringID, decl source.Span) TypeID {
	slot, err := safecast.Conv[uint32](len(in.aliases))
	if err != nil {
		panic(fmt.Errorf("types: alias table overflow: %w", err))
	}
	in.aliases = append(in.aliases, AliasInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindAlias, Payload: slot})
}

func (in *Interner) aliasInfo(id TypeID) *AliasInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindAlias || int(t.Payload) >= len(in.aliases) {
		return nil
	}
	return &in.aliases[t.Payload]
}

// AliasInfo returns the metadata for an alias TypeID.
func (in *Interner) AliasInfo(id TypeID) (*AliasInfo, bool) {
	info := in.aliasInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// SetAliasTarget fills in the typedef's target type.
func (in *Interner) SetAliasTarget(id, target TypeID) {
	if info := in.aliasInfo(id); info != nil {
		info.Target = target
	}
}

// Resolve follows typedef chains by recursive substitution until a
// non-alias type is reached (spec.md §4.1: "Typedefs are resolved by
// recursive substitution until a non-alias is reached"). A cycle (malformed
// input) resolves to Invalid rather than looping forever.
func (in *Interner) Resolve(id TypeID) TypeID {
	seen := make(map[TypeID]struct{}, 4)
	for {
		t, ok := in.Lookup(id)
		if !ok {
			return in.builtins.Invalid
		}
		if t.Kind != KindAlias {
			return id
		}
		if _, cyc := seen[id]; cyc {
			return in.builtins.Invalid
		}
		seen[id] = struct{}{}
		info := in.aliasInfo(id)
		if info == nil || info.Target == NoTypeID {
			return in.builtins.Invalid
		}
		id = info.Target
	}
}
