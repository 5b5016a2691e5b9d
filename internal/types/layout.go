package types

// Layout is a size/alignment pair in bytes, used to evaluate the compile
// time `sizeof(T)`/`alignof(T)` primitives (spec.md §4.2).
type Layout struct {
	Size  uint32
	Align uint32
}

func intLayout(k IntKind) Layout {
	switch k {
	case IntTiny:
		return Layout{1, 1}
	case IntShort:
		return Layout{2, 2}
	case IntInt:
		return Layout{4, 4}
	case IntLong:
		return Layout{8, 8}
	default:
		return Layout{4, 4}
	}
}

// pointerLayout is the width of any pointer-sized value on the target
// backend: raw pointers, and (by convention of this frontend) the
// {data,len} header of a dynamically-sized string/slice is twice that.
const pointerWidth = 8

// SizeAlign computes the layout of id using the size/align table of
// spec.md §4.2: primitives 1/1, 2/2, 4/4, 8/8; pointer 8/8; struct: sum of
// field sizes with field alignment; array: element_size × count (slices
// use the pointer-sized {data,len} header layout instead, since their
// element count is not known until runtime).
func (in *Interner) SizeAlign(id TypeID) Layout {
	id = in.Resolve(id)
	t, ok := in.Lookup(id)
	if !ok {
		return Layout{0, 1}
	}
	switch t.Kind {
	case KindBool, KindChar:
		return Layout{1, 1}
	case KindInteger:
		return intLayout(t.IntKind)
	case KindFloat:
		return Layout{4, 4}
	case KindDouble:
		return Layout{8, 8}
	case KindVoid:
		return Layout{0, 1}
	case KindError, KindString:
		return Layout{pointerWidth * 2, pointerWidth}
	case KindPointer:
		return Layout{pointerWidth, pointerWidth}
	case KindArray:
		if t.Count == ArrayDynamicLength {
			return Layout{pointerWidth * 2, pointerWidth} // slice header {data,len}
		}
		elem := in.SizeAlign(t.Elem)
		return Layout{elem.Size * t.Count, elem.Align}
	case KindStruct:
		return in.structLayout(id)
	case KindInterface:
		return Layout{pointerWidth * 2, pointerWidth} // fat pointer {data_ptr,vtable_ptr}
	case KindLiteralUnion:
		return in.SizeAlign(in.ResolveLiteralUnion(id))
	case KindFunction:
		return Layout{pointerWidth, pointerWidth}
	default:
		return Layout{0, 1}
	}
}

func (in *Interner) structLayout(id TypeID) Layout {
	fields := in.StructFields(id)
	var size, align uint32 = 0, 1
	for _, f := range fields {
		fl := in.SizeAlign(f.Type)
		if fl.Align == 0 {
			fl.Align = 1
		}
		if rem := size % fl.Align; rem != 0 {
			size += fl.Align - rem
		}
		size += fl.Size
		if fl.Align > align {
			align = fl.Align
		}
	}
	return Layout{size, align}
}

// Sizeof evaluates sizeof(T) for the `sizeof` compile-time primitive.
func (in *Interner) Sizeof(id TypeID) uint32 { return in.SizeAlign(id).Size }

// Alignof evaluates alignof(T) for the `alignof` compile-time primitive.
func (in *Interner) Alignof(id TypeID) uint32 { return in.SizeAlign(id).Align }
