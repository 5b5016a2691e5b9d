package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// StructField describes one field of a struct type.
type StructField struct {
	Name source.StringID
	Type TypeID
}

// StructInfo is the out-of-line metadata for a struct(name, type_args*) type.
type StructInfo struct {
	Name       source.StringID
	Decl       source.Span
	Fields     []StructField
	TypeParams []TypeID // generic parameters of the definition
	TypeArgs   []TypeID // concrete arguments of this instantiation, if any
	AutoImpls  []source.StringID
	IsCSS      bool // domain marker: struct auto-implements a CSS-style interface set
}

// RegisterStruct allocates a new nominal struct type (generic definition or
// non-generic struct) and returns its TypeID.
func (in *Interner) RegisterStruct(name source.StringID, decl source.Span) TypeID {
	slot := in.appendStruct(StructInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// RegisterStructInstance allocates a struct instantiation struct(name, args).
func (in *Interner) RegisterStructInstance(name source.StringID, decl source.Span, args []TypeID) TypeID {
	slot := in.appendStruct(StructInfo{Name: name, Decl: decl, TypeArgs: cloneIDs(args)})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

func (in *Interner) appendStruct(info StructInfo) uint32 {
	info.Fields = cloneFields(info.Fields)
	info.TypeParams = cloneIDs(info.TypeParams)
	info.TypeArgs = cloneIDs(info.TypeArgs)
	in.structs = append(in.structs, info)
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("types: struct table overflow: %w", err))
	}
	return slot
}

func (in *Interner) structInfo(id TypeID) *StructInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStruct || t.Payload == 0 || int(t.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[t.Payload]
}

// StructInfo returns the metadata for a struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	info := in.structInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// SetStructFields records resolved field descriptors.
func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	if info := in.structInfo(id); info != nil {
		info.Fields = cloneFields(fields)
	}
}

// SetStructTypeParams records the generic parameters of a struct definition.
func (in *Interner) SetStructTypeParams(id TypeID, params []TypeID) {
	if info := in.structInfo(id); info != nil {
		info.TypeParams = cloneIDs(params)
	}
}

// SetStructAutoImpls records the interfaces a struct auto-implements and
// computes the is_css domain marker (spec.md §4.2: "auto_impls ... compute
// is_css from the auto-impl list").
func (in *Interner) SetStructAutoImpls(id TypeID, impls []source.StringID) {
	info := in.structInfo(id)
	if info == nil {
		return
	}
	info.AutoImpls = append([]source.StringID(nil), impls...)
	info.IsCSS = false
	for _, name := range impls {
		if in.Strings.Lookup(name) == "CSS" {
			info.IsCSS = true
			break
		}
	}
}

// StructFields returns the field list of a struct TypeID.
func (in *Interner) StructFields(id TypeID) []StructField {
	info := in.structInfo(id)
	if info == nil {
		return nil
	}
	return cloneFields(info.Fields)
}

// FieldIndex returns the 0-based index of a named field, or -1.
func (in *Interner) FieldIndex(id TypeID, name source.StringID) int {
	info := in.structInfo(id)
	if info == nil {
		return -1
	}
	for i, f := range info.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func cloneFields(fields []StructField) []StructField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]StructField, len(fields))
	copy(out, fields)
	return out
}

func cloneIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}
