// Package types implements the canonical type model described in spec.md
// §3/§4.1: immutable, structurally-equal value terms interned behind a
// stable TypeID, exactly the way the teacher's internal/types package
// interns its own type terms.
package types

import "fmt"

// TypeID is a stable handle into an Interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the type constructors named in spec.md §3.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindChar
	KindInteger // Tiny/Short/Int/Long, signed or unsigned — see IntKind/Unsigned
	KindFloat
	KindDouble
	KindString
	KindVoid
	KindError
	KindPointer
	KindArray // Count set => fixed array; CountValid false => slice
	KindFunction
	KindStruct
	KindInterface
	KindGeneric
	KindLiteralUnion
	KindAlias // typedef: resolved by recursive substitution, §4.1
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindError:
		return "error"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindGeneric:
		return "generic"
	case KindLiteralUnion:
		return "literal_union"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IntKind distinguishes the four integer widths named in spec.md §3.
type IntKind uint8

const (
	IntTiny IntKind = iota // 1 byte
	IntShort               // 2 bytes
	IntInt                 // 4 bytes
	IntLong                // 8 bytes
)

func (w IntKind) String() string {
	switch w {
	case IntTiny:
		return "tiny"
	case IntShort:
		return "short"
	case IntInt:
		return "int"
	case IntLong:
		return "long"
	default:
		return "int"
	}
}

// LiteralKind is the dominant literal kind a literal_union resolves to.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitInt
	LitDouble
	LitBool
)

// ArrayDynamicLength marks a slice (dynamically sized array).
const ArrayDynamicLength = ^uint32(0)

// Type is a compact structural descriptor. Two Types with equal fields
// denote the same type; the Interner guarantees a single TypeID per unique
// descriptor.
type Type struct {
	Kind     Kind
	Elem     TypeID // pointer/array element; alias target payload index instead (Payload)
	Count    uint32 // array size; ArrayDynamicLength for slices
	IntKind  IntKind
	Unsigned bool
	Variadic bool   // function types only
	Payload  uint32 // index into the interner's nominal-info table for Kind
}

func (in *Interner) String(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindInteger:
		prefix := ""
		if t.Unsigned {
			prefix = "u"
		}
		return prefix + t.IntKind.String()
	case KindPointer:
		return "*" + in.String(t.Elem)
	case KindArray:
		if t.Count == ArrayDynamicLength {
			return in.String(t.Elem) + "[]"
		}
		return fmt.Sprintf("%s[%d]", in.String(t.Elem), t.Count)
	case KindStruct:
		return in.MangledStructName(id)
	case KindInterface:
		info, _ := in.InterfaceInfo(id)
		if info == nil {
			return "interface"
		}
		return in.Strings.Lookup(info.Name)
	case KindGeneric:
		info, _ := in.GenericInfo(id)
		if info == nil {
			return "generic"
		}
		return in.Strings.Lookup(info.Name)
	case KindFunction:
		return "fn"
	case KindLiteralUnion:
		return "literal_union"
	case KindAlias:
		info, _ := in.AliasInfo(id)
		if info == nil {
			return "alias"
		}
		return in.Strings.Lookup(info.Name)
	default:
		return t.Kind.String()
	}
}
