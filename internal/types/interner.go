package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// Builtins holds the TypeIDs of every primitive, seeded once at
// construction so call sites never re-intern them.
type Builtins struct {
	Invalid TypeID
	Bool    TypeID
	Char    TypeID
	Tiny    TypeID
	Short   TypeID
	Int     TypeID
	Long    TypeID
	UTiny   TypeID
	UShort  TypeID
	UInt    TypeID
	ULong   TypeID
	Float   TypeID
	Double  TypeID
	String  TypeID
	Void    TypeID
	Error   TypeID
}

// Interner assigns stable TypeIDs to structurally-unique Type descriptors
// and owns the out-of-line metadata tables for nominal types (struct,
// interface, generic, literal_union, alias) and function signatures.
type Interner struct {
	types []Type
	index map[Type]TypeID

	builtins Builtins

	Strings *source.Interner

	structs    []StructInfo
	interfaces []InterfaceInfo
	generics   []GenericInfo
	litUnions  []LiteralUnionInfo
	fns        []FnInfo
	aliases    []AliasInfo

	destructors map[string]bool // registered destructor base names, §4.7
}

// NewInterner returns an interner pre-seeded with every primitive type.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		index:       make(map[Type]TypeID, 64),
		Strings:     strings,
		destructors: make(map[string]bool),
	}
	// Reserve slot 0 in every nominal table so Payload==0 reads as "none".
	in.structs = append(in.structs, StructInfo{})
	in.interfaces = append(in.interfaces, InterfaceInfo{})
	in.generics = append(in.generics, GenericInfo{})
	in.litUnions = append(in.litUnions, LiteralUnionInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.aliases = append(in.aliases, AliasInfo{})

	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.Tiny = in.Intern(Type{Kind: KindInteger, IntKind: IntTiny})
	in.builtins.Short = in.Intern(Type{Kind: KindInteger, IntKind: IntShort})
	in.builtins.Int = in.Intern(Type{Kind: KindInteger, IntKind: IntInt})
	in.builtins.Long = in.Intern(Type{Kind: KindInteger, IntKind: IntLong})
	in.builtins.UTiny = in.Intern(Type{Kind: KindInteger, IntKind: IntTiny, Unsigned: true})
	in.builtins.UShort = in.Intern(Type{Kind: KindInteger, IntKind: IntShort, Unsigned: true})
	in.builtins.UInt = in.Intern(Type{Kind: KindInteger, IntKind: IntInt, Unsigned: true})
	in.builtins.ULong = in.Intern(Type{Kind: KindInteger, IntKind: IntLong, Unsigned: true})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.Double = in.Intern(Type{Kind: KindDouble})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Error = in.Intern(Type{Kind: KindError})
	return in
}

// Builtins returns the primitive TypeID table.
func (in *Interner) Builtins() Builtins { return in.builtins }

// Intern returns the stable TypeID for t, assigning a fresh one on first sight.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return in.builtins.Invalid
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: interner overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup returns the descriptor for id, panicking if id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// Pointer interns pointer(elem).
func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindPointer, Elem: elem})
}

// Array interns array(elem, count); pass ArrayDynamicLength for a slice.
func (in *Interner) Array(elem TypeID, count uint32) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Count: count})
}

// Slice interns the dynamically-sized array(elem).
func (in *Interner) Slice(elem TypeID) TypeID {
	return in.Array(elem, ArrayDynamicLength)
}

// IsSlice reports whether id is an array type with no fixed size.
func (in *Interner) IsSlice(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindArray && t.Count == ArrayDynamicLength
}
