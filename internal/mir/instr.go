package mir

import "github.com/shadowlink0122/Cm-sub000/internal/types"

// OperandKind distinguishes how an Operand's value is produced.
type OperandKind uint8

const (
	OperandConst OperandKind = iota
	OperandCopy              // read a place; place's type must be Copy-safe (no move)
	OperandMove              // consume a place (ownership transfer)
)

// ConstKind distinguishes literal constant kinds carried by an Operand.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstBool
	ConstString
	ConstVoid
	ConstFuncRef // a direct reference to a (possibly not-yet-monomorphized) function
)

// Const is a compile-time constant value.
type Const struct {
	Kind     ConstKind
	Int      int64
	Unsigned bool
	Float    float64
	Bool     bool
	Str      string
	FuncName string // ConstFuncRef
}

// Operand is the three-address-form right-hand operand: either a constant
// or a read of a place (by copy or by move).
type Operand struct {
	Kind  OperandKind
	Type  types.TypeID
	Const Const
	Place Place
}

// BinOp mirrors hir.BinaryOp's arithmetic/comparison/bitwise operator set.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
)

// UnOp mirrors hir.UnaryOp's value-producing operators (pre/post inc/dec
// are lowered to an explicit read-modify-write sequence instead, §4.4).
type UnOp uint8

const (
	UnNeg UnOp = iota
	UnNot
	UnAddr
	UnDeref
)

// RValueKind distinguishes the shapes a single assignment's right-hand
// side can take, spec.md §4.4.
type RValueKind uint8

const (
	RValueUse RValueKind = iota
	RValueUnary
	RValueBinary
	RValueCast
	RValueStructLit
	RValueArrayLit
	RValueFieldOf // read-only field projection materialized as a value (used when the field itself isn't addressed)
	RValueIndexOf
	RValueEnumConstruct
	RValueEnumPayload
	RValueEnumTagTest
	RValueFatPtr     // construct an interface fat pointer {data_ptr, vtable_ptr}
	RValueVTableLoad // load a method pointer out of a fat pointer's vtable slot
	RValueFormatCall // cm_format_string/cm_println_format/cm_print_format, §4.4
	RValueLambdaRef
)

// StructLitField is one resolved field initializer of a struct literal
// RValue.
type StructLitField struct {
	Idx   int
	Value Operand
}

// RValue is the right-hand side of an AssignInstr. It is a tagged struct
// with one field per variant (mirrors the teacher's mir.RValue layout):
// only the field matching Kind is meaningful.
type RValue struct {
	Kind RValueKind

	Use    Operand
	Unary  struct {
		Op  UnOp
		Val Operand
	}
	Binary struct {
		Op          BinOp
		Left, Right Operand
	}
	Cast struct {
		Val    Operand
		Target types.TypeID
	}
	StructLit struct {
		Type   types.TypeID
		Fields []StructLitField
	}
	ArrayLit struct {
		Elem  types.TypeID
		Elems []Operand
	}
	FieldOf struct {
		Object   Operand
		FieldIdx int
	}
	IndexOf struct {
		Object Operand
		Index  Operand
	}
	EnumConstruct struct {
		EnumName, VariantName string
		Tag                   int64
		Args                  []Operand
	}
	EnumPayload struct {
		Value      Operand
		FieldIndex int
	}
	EnumTagTest struct {
		Value Operand
		Tag   int64
	}
	FatPtr struct {
		Data   Operand
		VTable string // mangled vtable symbol name: Interface__Type__vtable
	}
	VTableLoad struct {
		FatPtr Operand
		Slot   int
	}
	FormatCall struct {
		Template string
		Args     []Operand
		Println  bool
		Print    bool
	}
	LambdaRef struct {
		FuncName string
	}
}

// CalleeKind distinguishes a direct (by-name) call from an indirect
// (function-value) call.
type CalleeKind uint8

const (
	CalleeDirect CalleeKind = iota
	CalleeIndirect
	CalleeVTable // dispatch through a loaded vtable slot, §4.4/§9
)

// Callee names a call target.
type Callee struct {
	Kind  CalleeKind
	Name  string  // CalleeDirect
	Value Operand // CalleeIndirect
	Slot  int     // CalleeVTable
}

// InstrKind enumerates MIR instruction kinds.
type InstrKind uint8

const (
	InstrAssign InstrKind = iota
	InstrCall             // call with a discarded or no result, e.g. destructor/defer/print calls
	InstrAsm
)

// CallInstr is a call, optionally assigning its result to Dst. Calls whose
// result is discarded (destructor/defer calls, println-style builtins)
// leave HasResult false.
type CallInstr struct {
	Callee    Callee
	Args      []Operand
	HasResult bool
	Dst       Place
}

// AsmInstr carries a raw assembly block through unchanged, clobber list
// included for the allocator to respect (spec.md SUPPLEMENTED FEATURES:
// must-block asm clobber propagation).
type AsmInstr struct {
	Code     string
	Operands []AsmOperand
	Clobbers []string
}

// AsmOperand names one named asm operand and its register/memory
// constraint string.
type AsmOperand struct {
	Name       string
	Constraint string
	Place      Place
}

// Instr is one MIR instruction within a basic block.
type Instr struct {
	Assign AssignInstr
	Call   CallInstr
	Asm    AsmInstr
	Kind   InstrKind
}

// AssignInstr is `place := rvalue`.
type AssignInstr struct {
	Dst Place
	Src RValue
}
