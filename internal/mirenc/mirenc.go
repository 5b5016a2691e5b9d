// Package mirenc (de)serializes a lowered mir.Program to a msgpack wire
// format, the way the teacher's internal/driver disk cache serializes
// ModuleMeta: a schema-versioned payload struct, atomic temp-file-then-
// rename writes, msgpack.Encoder/Decoder directly over the file handle.
package mirenc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// schemaVersion increments whenever WireProgram's shape changes in a way
// that would make an old cached payload unsafe to decode as the new type.
const schemaVersion uint16 = 1

// WirePlace/WireProj/WireOperand/... mirror their mir.* counterparts
// field-for-field, except that WireLocal carries no Span; mirenc keeps its own copies rather than msgpack-tagging
// mir's own types directly so the wire schema can evolve independently of
// the in-memory IR shape.
type WireProj struct {
	Kind       uint8
	FieldIdx   int
	FieldName  string
	IndexLocal int32
	IndexConst int64
	IsConst    bool
	Type       uint32
}

type WirePlace struct {
	Root int32
	Proj []WireProj
}

type WireConst struct {
	Kind     uint8
	Int      int64
	Unsigned bool
	Float    float64
	Bool     bool
	Str      string
	FuncName string
}

type WireOperand struct {
	Kind  uint8
	Type  uint32
	Const WireConst
	Place WirePlace
}

type WireLocal struct {
	Name        string
	Type        uint32
	IsParam     bool
	IsTemp      bool
	IsSelf      bool
	Destructors bool
}

type WireTerminator struct {
	Kind     uint8
	HasValue bool
	Value    WireOperand
	Goto     int32
	Cond     WireOperand
	Then     int32
	Else     int32
}

// WireInstr keeps only what round-trips losslessly through the cache:
// enough of Assign/Call/Asm to reconstruct every field mir.Instr defines.
// For brevity of the wire format, RValue/CallInstr/AsmInstr are carried
// msgpack-native via their own mir types (msgpack can encode any exported
// struct directly; mirenc does not need a hand-rolled wire shape for
// every nested variant the way it does for Place/Operand/Const, which
// recur everywhere and are worth flattening).
type WireInstr struct {
	Kind   uint8
	Dst    WirePlace
	Src    mir.RValue
	Call   mir.CallInstr
	Asm    mir.AsmInstr
}

type WireBlock struct {
	ID     int32
	Instrs []WireInstr
	Term   WireTerminator
}

type WireFunc struct {
	Name       string
	Span       source.Span
	Params     []mir.Param
	Self       *mir.Param
	Result     uint32
	Extern     bool
	Export     bool
	TypeParams []string
	IsGeneric  bool
	Locals     []WireLocal
	Blocks     []WireBlock
	Entry      int32
}

// WireProgram is the full on-disk payload for one compiled program.
type WireProgram struct {
	Schema  uint16
	Funcs   []WireFunc
	Structs []mir.Struct
	Enums   []mir.Enum
	Globals []mir.Global
}

func toWirePlace(p mir.Place) WirePlace {
	proj := make([]WireProj, len(p.Proj))
	for i, pr := range p.Proj {
		proj[i] = WireProj{
			Kind: uint8(pr.Kind), FieldIdx: pr.FieldIdx, FieldName: pr.FieldName,
			IndexLocal: int32(pr.IndexLocal), IndexConst: pr.IndexConst, IsConst: pr.IsConst,
			Type: uint32(pr.Type),
		}
	}
	return WirePlace{Root: int32(p.Root), Proj: proj}
}

func fromWirePlace(p WirePlace) mir.Place {
	if len(p.Proj) == 0 {
		return mir.Place{Root: mir.LocalID(p.Root)}
	}
	proj := make([]mir.Proj, len(p.Proj))
	for i, pr := range p.Proj {
		proj[i] = mir.Proj{
			Kind: mir.ProjKind(pr.Kind), FieldIdx: pr.FieldIdx, FieldName: pr.FieldName,
			IndexLocal: mir.LocalID(pr.IndexLocal), IndexConst: pr.IndexConst, IsConst: pr.IsConst,
			Type: types.TypeID(pr.Type),
		}
	}
	return mir.Place{Root: mir.LocalID(p.Root), Proj: proj}
}

func toWireOperand(o mir.Operand) WireOperand {
	return WireOperand{
		Kind: uint8(o.Kind), Type: uint32(o.Type),
		Const: WireConst{
			Kind: uint8(o.Const.Kind), Int: o.Const.Int, Unsigned: o.Const.Unsigned,
			Float: o.Const.Float, Bool: o.Const.Bool, Str: o.Const.Str, FuncName: o.Const.FuncName,
		},
		Place: toWirePlace(o.Place),
	}
}

func fromWireOperand(o WireOperand) mir.Operand {
	return mir.Operand{
		Kind: mir.OperandKind(o.Kind), Type: types.TypeID(o.Type),
		Const: mir.Const{
			Kind: mir.ConstKind(o.Const.Kind), Int: o.Const.Int, Unsigned: o.Const.Unsigned,
			Float: o.Const.Float, Bool: o.Const.Bool, Str: o.Const.Str, FuncName: o.Const.FuncName,
		},
		Place: fromWirePlace(o.Place),
	}
}

func toWireTerm(t mir.Terminator) WireTerminator {
	return WireTerminator{
		Kind: uint8(t.Kind), HasValue: t.Return.HasValue, Value: toWireOperand(t.Return.Value),
		Goto: int32(t.Goto.Target), Cond: toWireOperand(t.If.Cond), Then: int32(t.If.Then), Else: int32(t.If.Else),
	}
}

func fromWireTerm(t WireTerminator) mir.Terminator {
	return mir.Terminator{
		Kind:   mir.TermKind(t.Kind),
		Return: mir.ReturnTerm{HasValue: t.HasValue, Value: fromWireOperand(t.Value)},
		Goto:   mir.GotoTerm{Target: mir.BlockID(t.Goto)},
		If:     mir.IfTerm{Cond: fromWireOperand(t.Cond), Then: mir.BlockID(t.Then), Else: mir.BlockID(t.Else)},
	}
}

// ToWire converts an in-memory Program into its serializable form.
func ToWire(p *mir.Program) *WireProgram {
	out := &WireProgram{Schema: schemaVersion}
	for _, f := range p.Funcs {
		wf := WireFunc{
			Name: f.Name, Span: f.Span, Params: f.Params, Self: f.Self, Result: uint32(f.Result),
			Extern: f.Extern, Export: f.Export, TypeParams: f.TypeParams, IsGeneric: f.IsGeneric,
			Entry: int32(f.Entry),
		}
		for _, l := range f.Locals {
			wf.Locals = append(wf.Locals, WireLocal{
				Name: l.Name, Type: uint32(l.Type), IsParam: l.IsParam, IsTemp: l.IsTemp,
				IsSelf: l.IsSelf, Destructors: l.Destructors,
			})
		}
		for _, b := range f.Blocks {
			wb := WireBlock{ID: int32(b.ID), Term: toWireTerm(b.Term)}
			for _, instr := range b.Instrs {
				wi := WireInstr{Kind: uint8(instr.Kind), Call: instr.Call, Asm: instr.Asm, Src: instr.Assign.Src}
				wi.Dst = toWirePlace(instr.Assign.Dst)
				wb.Instrs = append(wb.Instrs, wi)
			}
			wf.Blocks = append(wf.Blocks, wb)
		}
		out.Funcs = append(out.Funcs, wf)
	}
	for _, s := range p.Structs {
		out.Structs = append(out.Structs, *s)
	}
	for _, e := range p.Enums {
		out.Enums = append(out.Enums, *e)
	}
	for _, g := range p.Globals {
		out.Globals = append(out.Globals, *g)
	}
	return out
}

// FromWire reconstructs an in-memory Program from a decoded payload. The
// lookup indices (FuncByName, etc.) are rebuilt as a by-product of
// AddFunc, keeping them consistent without a separate repair pass.
func FromWire(w *WireProgram) *mir.Program {
	p := mir.NewProgram()
	for i := range w.Structs {
		s := w.Structs[i]
		p.Structs = append(p.Structs, &s)
		p.StructByName[s.Name] = &s
	}
	for i := range w.Enums {
		e := w.Enums[i]
		p.Enums = append(p.Enums, &e)
		p.EnumByName[e.Name] = &e
	}
	for i := range w.Globals {
		g := w.Globals[i]
		p.Globals = append(p.Globals, &g)
	}
	for _, wf := range w.Funcs {
		f := &mir.Func{
			Name: wf.Name, Span: wf.Span, Params: wf.Params, Self: wf.Self, Result: types.TypeID(wf.Result),
			Extern: wf.Extern, Export: wf.Export, TypeParams: wf.TypeParams, IsGeneric: wf.IsGeneric,
			Entry: mir.BlockID(wf.Entry),
		}
		for _, l := range wf.Locals {
			f.Locals = append(f.Locals, mir.Local{
				Name: l.Name, Type: types.TypeID(l.Type), IsParam: l.IsParam,
				IsTemp: l.IsTemp, IsSelf: l.IsSelf, Destructors: l.Destructors,
			})
		}
		for _, wb := range wf.Blocks {
			blk := mir.Block{ID: mir.BlockID(wb.ID), Term: fromWireTerm(wb.Term)}
			for _, wi := range wb.Instrs {
				blk.Instrs = append(blk.Instrs, mir.Instr{
					Kind:   mir.InstrKind(wi.Kind),
					Assign: mir.AssignInstr{Dst: fromWirePlace(wi.Dst), Src: wi.Src},
					Call:   wi.Call,
					Asm:    wi.Asm,
				})
			}
			f.Blocks = append(f.Blocks, blk)
		}
		p.AddFunc(f)
	}
	return p
}

// Save atomically writes prog to path as msgpack, the same temp-file-then-
// rename pattern the teacher's disk cache uses so a crash mid-write never
// leaves a corrupt cache entry behind.
func Save(path string, prog *mir.Program) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "mir-*.mp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	enc := msgpack.NewEncoder(tmp)
	if err := enc.Encode(ToWire(prog)); err != nil {
		tmp.Close()
		return fmt.Errorf("mirenc: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Load decodes a program previously written by Save.
func Load(path string) (*mir.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var w WireProgram
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("mirenc: decode: %w", err)
	}
	if w.Schema != schemaVersion {
		return nil, fmt.Errorf("mirenc: schema mismatch: got %d, want %d", w.Schema, schemaVersion)
	}
	return FromWire(&w), nil
}
