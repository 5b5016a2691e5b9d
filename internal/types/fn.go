package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FnInfo is the out-of-line metadata for a function(params*, return,
// variadic?) type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// RegisterFn interns a function type, deduplicating structurally identical
// signatures the same way the teacher's RegisterFn does.
func (in *Interner) RegisterFn(params []TypeID, result TypeID, variadic bool) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		t := in.types[id]
		if t.Kind != KindFunction || t.Variadic != variadic {
			continue
		}
		if int(t.Payload) >= len(in.fns) {
			continue
		}
		info := in.fns[t.Payload]
		if info.Result == result && slices.Equal(info.Params, params) {
			return id
		}
	}
	slot, err := safecast.Conv[uint32](len(in.fns))
	if err != nil {
		panic(fmt.Errorf("types: fn table overflow: %w", err))
	}
	in.fns = append(in.fns, FnInfo{Params: cloneIDs(params), Result: result})
	return in.internRaw(Type{Kind: KindFunction, Payload: slot, Variadic: variadic})
}

// FnInfo returns the metadata for a function TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindFunction || int(t.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[t.Payload], true
}
