package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// InterfaceMethod names one method in an interface's declared method list.
// Order is significant: it is the vtable slot order (spec.md §4.4/§9 —
// "keep that order deterministic: declaration order").
type InterfaceMethod struct {
	Name   source.StringID
	Params []TypeID
	Result TypeID
}

// InterfaceInfo is the out-of-line metadata for an interface(name) type.
type InterfaceInfo struct {
	Name       source.StringID
	Decl       source.Span
	Methods    []InterfaceMethod
	TypeParams []TypeID
}

// RegisterInterface allocates a new interface type.
func (in *Interner) RegisterInterface(name source.StringID, decl source.Span) TypeID {
	slot, err := safecast.Conv[uint32](len(in.interfaces))
	if err != nil {
		panic(fmt.Errorf("types: interface table overflow: %w", err))
	}
	in.interfaces = append(in.interfaces, InterfaceInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindInterface, Payload: slot})
}

func (in *Interner) interfaceInfo(id TypeID) *InterfaceInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindInterface || t.Payload == 0 || int(t.Payload) >= len(in.interfaces) {
		return nil
	}
	return &in.interfaces[t.Payload]
}

// InterfaceInfo returns the metadata for an interface TypeID.
func (in *Interner) InterfaceInfo(id TypeID) (*InterfaceInfo, bool) {
	info := in.interfaceInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// SetInterfaceMethods records the method list in declaration order.
func (in *Interner) SetInterfaceMethods(id TypeID, methods []InterfaceMethod) {
	info := in.interfaceInfo(id)
	if info == nil {
		return
	}
	info.Methods = append([]InterfaceMethod(nil), methods...)
}

// MethodIndex returns the declaration-order vtable slot of a method, or -1.
func (in *Interner) MethodIndex(id TypeID, name source.StringID) int {
	info := in.interfaceInfo(id)
	if info == nil {
		return -1
	}
	for i, m := range info.Methods {
		if m.Name == name {
			return i
		}
	}
	return -1
}
