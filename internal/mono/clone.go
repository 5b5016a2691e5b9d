package mono

import (
	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// cloneFunc deep-copies a generic function, substituting every reachable
// type with its binding and renaming self-recursive calls to the clone's
// own mangled name, producing one concrete specialization (spec.md §4.8
// "Specialization/cloning").
func cloneFunc(ti *types.Interner, src *mir.Func, bindings map[string]types.TypeID, mangledName string) *mir.Func {
	out := &mir.Func{
		Name:       mangledName,
		Span:       src.Span,
		Result:     substType(ti, src.Result, bindings),
		Extern:     src.Extern,
		Export:     false, // a specialization is an implementation detail, never re-exported
		TypeParams: nil,
		IsGeneric:  false,
		Entry:      src.Entry,
	}
	out.Params = make([]mir.Param, len(src.Params))
	for i, p := range src.Params {
		out.Params[i] = mir.Param{Local: p.Local, Name: p.Name, Type: substType(ti, p.Type, bindings)}
	}
	if src.Self != nil {
		self := mir.Param{Local: src.Self.Local, Name: src.Self.Name, Type: substType(ti, src.Self.Type, bindings)}
		out.Self = &self
	}

	out.Locals = make([]mir.Local, len(src.Locals))
	for i, l := range src.Locals {
		out.Locals[i] = l
		out.Locals[i].Type = substType(ti, l.Type, bindings)
	}

	out.Blocks = make([]mir.Block, len(src.Blocks))
	for i, b := range src.Blocks {
		out.Blocks[i] = cloneBlock(ti, b, bindings, src.Name, mangledName)
	}
	return out
}

func cloneBlock(ti *types.Interner, b mir.Block, bindings map[string]types.TypeID, selfName, mangledName string) mir.Block {
	out := mir.Block{ID: b.ID, Term: b.Term}
	out.Instrs = make([]mir.Instr, len(b.Instrs))
	for i, instr := range b.Instrs {
		out.Instrs[i] = cloneInstr(ti, instr, bindings, selfName, mangledName)
	}
	return out
}

func cloneInstr(ti *types.Interner, instr mir.Instr, bindings map[string]types.TypeID, selfName, mangledName string) mir.Instr {
	out := instr
	switch instr.Kind {
	case mir.InstrAssign:
		out.Assign.Dst = clonePlace(ti, instr.Assign.Dst, bindings)
		out.Assign.Src = cloneRValue(ti, instr.Assign.Src, bindings, selfName, mangledName)
	case mir.InstrCall:
		out.Call.Args = cloneOperands(ti, instr.Call.Args, bindings)
		out.Call.Callee = cloneCallee(instr.Call.Callee, selfName, mangledName)
		if instr.Call.HasResult {
			out.Call.Dst = clonePlace(ti, instr.Call.Dst, bindings)
		}
	case mir.InstrAsm:
		ops := make([]mir.AsmOperand, len(instr.Asm.Operands))
		for i, op := range instr.Asm.Operands {
			ops[i] = mir.AsmOperand{Name: op.Name, Constraint: op.Constraint, Place: clonePlace(ti, op.Place, bindings)}
		}
		out.Asm.Operands = ops
	}
	return out
}

func cloneCallee(c mir.Callee, selfName, mangledName string) mir.Callee {
	if c.Kind == mir.CalleeDirect && c.Name == selfName {
		c.Name = mangledName
	}
	return c
}

func clonePlace(ti *types.Interner, p mir.Place, bindings map[string]types.TypeID) mir.Place {
	if len(p.Proj) == 0 {
		return p
	}
	proj := make([]mir.Proj, len(p.Proj))
	for i, pr := range p.Proj {
		proj[i] = pr
		proj[i].Type = substType(ti, pr.Type, bindings)
	}
	return mir.Place{Root: p.Root, Proj: proj}
}

func cloneOperand(ti *types.Interner, op mir.Operand, bindings map[string]types.TypeID) mir.Operand {
	op.Type = substType(ti, op.Type, bindings)
	op.Place = clonePlace(ti, op.Place, bindings)
	return op
}

func cloneOperands(ti *types.Interner, ops []mir.Operand, bindings map[string]types.TypeID) []mir.Operand {
	out := make([]mir.Operand, len(ops))
	for i, op := range ops {
		out[i] = cloneOperand(ti, op, bindings)
	}
	return out
}

func cloneRValue(ti *types.Interner, rv mir.RValue, bindings map[string]types.TypeID, selfName, mangledName string) mir.RValue {
	out := rv
	switch rv.Kind {
	case mir.RValueUse:
		out.Use = cloneOperand(ti, rv.Use, bindings)
	case mir.RValueUnary:
		out.Unary.Val = cloneOperand(ti, rv.Unary.Val, bindings)
	case mir.RValueBinary:
		out.Binary.Left = cloneOperand(ti, rv.Binary.Left, bindings)
		out.Binary.Right = cloneOperand(ti, rv.Binary.Right, bindings)
	case mir.RValueCast:
		out.Cast.Val = cloneOperand(ti, rv.Cast.Val, bindings)
		out.Cast.Target = substType(ti, rv.Cast.Target, bindings)
	case mir.RValueStructLit:
		out.StructLit.Type = substType(ti, rv.StructLit.Type, bindings)
		fields := make([]mir.StructLitField, len(rv.StructLit.Fields))
		for i, f := range rv.StructLit.Fields {
			fields[i] = mir.StructLitField{Idx: f.Idx, Value: cloneOperand(ti, f.Value, bindings)}
		}
		out.StructLit.Fields = fields
	case mir.RValueArrayLit:
		out.ArrayLit.Elem = substType(ti, rv.ArrayLit.Elem, bindings)
		out.ArrayLit.Elems = cloneOperands(ti, rv.ArrayLit.Elems, bindings)
	case mir.RValueFieldOf:
		out.FieldOf.Object = cloneOperand(ti, rv.FieldOf.Object, bindings)
	case mir.RValueIndexOf:
		out.IndexOf.Object = cloneOperand(ti, rv.IndexOf.Object, bindings)
		out.IndexOf.Index = cloneOperand(ti, rv.IndexOf.Index, bindings)
	case mir.RValueEnumConstruct:
		out.EnumConstruct.Args = cloneOperands(ti, rv.EnumConstruct.Args, bindings)
	case mir.RValueEnumPayload:
		out.EnumPayload.Value = cloneOperand(ti, rv.EnumPayload.Value, bindings)
	case mir.RValueFatPtr:
		out.FatPtr.Data = cloneOperand(ti, rv.FatPtr.Data, bindings)
	case mir.RValueVTableLoad:
		out.VTableLoad.FatPtr = cloneOperand(ti, rv.VTableLoad.FatPtr, bindings)
	case mir.RValueFormatCall:
		out.FormatCall.Args = cloneOperands(ti, rv.FormatCall.Args, bindings)
	}
	return out
}
