package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// Field mirrors hir.Field at the MIR level.
type Field struct {
	Name string
	Type types.TypeID
}

// Struct is a lowered struct definition, generic or not. Monomorphization
// removes generic functions only; struct definitions stay in the program
// (RemoveStructsNamed exists but nothing calls it).
type Struct struct {
	Name       string
	Export     bool
	Fields     []Field
	TypeParams []string
	AutoImpls  []string
	IsCSS      bool
	Span       source.Span
}

// InterfaceMethod names one vtable slot; Index is the slot order, which is
// declaration order and must stay deterministic (spec.md §4.4/§9).
type InterfaceMethod struct {
	Name   string
	Index  int
	Params []types.TypeID
	Result types.TypeID
}

// Interface is a lowered interface definition, consulted by expression
// lowering to build the fat-pointer vtable layout for a given
// type-implements-interface pair.
type Interface struct {
	Name    string
	Export  bool
	Methods []InterfaceMethod
	Span    source.Span
}

// EnumVariant mirrors hir.EnumVariant.
type EnumVariant struct {
	Name    string
	Tag     int64
	Payload []types.TypeID
}

// Enum is a lowered enum (tagged union) definition.
type Enum struct {
	Name     string
	Export   bool
	Variants []EnumVariant
	Span     source.Span
}

// Global is a lowered global variable, initialized once at program start.
type Global struct {
	ID      GlobalID
	Name    string
	Export  bool
	Type    types.TypeID
	IsConst bool
	Init    *InitExpr
	Span    source.Span
}

// InitExpr is a constant-foldable initializer for a Global: MIR keeps
// global initializers as a tiny constant-only expression tree rather than
// a function body, since spec.md's Non-goals exclude a general constant
// evaluator beyond literal folding.
type InitExpr struct {
	Const Const
}

// Import mirrors hir.Import.
type Import struct {
	CanonicalPath string
	Alias         string
	Span          source.Span
}

// ExternFunc mirrors hir.ExternFunc at the MIR level.
type ExternFunc struct {
	Name   string
	Params []types.TypeID
	Result types.TypeID
}

// ExternBlock mirrors hir.ExternBlock.
type ExternBlock struct {
	ABI   string
	Funcs []ExternFunc
	Span  source.Span
}

// Program is the complete lowered MIR for one module, the output of
// Program Assembly (spec.md §4.6 tail / §2 "Program Assembly").
type Program struct {
	Funcs      []*Func
	Structs    []*Struct
	Interfaces []*Interface
	Enums      []*Enum
	Globals    []*Global
	Imports    []*Import
	ExternBlocks []*ExternBlock

	FuncByName      map[string]FuncID
	StructByName    map[string]*Struct
	InterfaceByName map[string]*Interface
	EnumByName      map[string]*Enum
}

// NewProgram returns an empty Program with its lookup indices initialized.
func NewProgram() *Program {
	return &Program{
		FuncByName:      map[string]FuncID{},
		StructByName:    map[string]*Struct{},
		InterfaceByName: map[string]*Interface{},
		EnumByName:      map[string]*Enum{},
	}
}

// AddFunc appends f, assigning it a fresh FuncID and indexing it by name.
func (p *Program) AddFunc(f *Func) FuncID {
	id := FuncID(len(p.Funcs))
	f.ID = id
	p.Funcs = append(p.Funcs, f)
	p.FuncByName[f.Name] = id
	return id
}

// Func returns the function descriptor for id.
func (p *Program) Func(id FuncID) *Func {
	if int(id) < 0 || int(id) >= len(p.Funcs) {
		return nil
	}
	return p.Funcs[id]
}

// FuncNamed looks up a function by its mangled name.
func (p *Program) FuncNamed(name string) *Func {
	id, ok := p.FuncByName[name]
	if !ok {
		return nil
	}
	return p.Func(id)
}

// RemoveFuncsNamed deletes every function whose name is in names, used by
// monomorphization's cleanup pass to drop original generic definitions
// once every call site has been rewritten to a concrete instantiation
// (spec.md §4.8, §8 round-trip law).
func (p *Program) RemoveFuncsNamed(names map[string]bool) {
	kept := p.Funcs[:0]
	for _, f := range p.Funcs {
		if names[f.Name] {
			delete(p.FuncByName, f.Name)
			continue
		}
		kept = append(kept, f)
	}
	p.Funcs = kept
	for i, f := range p.Funcs {
		f.ID = FuncID(i)
		p.FuncByName[f.Name] = f.ID
	}
}

// RemoveStructsNamed deletes every struct definition whose name is in
// names (the generic definitions monomorphization specialized away).
func (p *Program) RemoveStructsNamed(names map[string]bool) {
	kept := p.Structs[:0]
	for _, s := range p.Structs {
		if names[s.Name] {
			delete(p.StructByName, s.Name)
			continue
		}
		kept = append(kept, s)
	}
	p.Structs = kept
}
