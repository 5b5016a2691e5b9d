package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// Param describes one formal parameter by its local slot.
type Param struct {
	Local LocalID
	Name  string
	Type  types.TypeID
}

// Func is a single lowered MIR function.
type Func struct {
	ID   FuncID
	Name string // already mangled, as produced by HIR lowering
	Span source.Span

	Params []Param
	Self   *Param
	Result types.TypeID
	Extern bool
	Export bool

	// TypeParams/IsGeneric mirror hir.Func: a generic definition is kept
	// in the Program until monomorphization clones and rewrites every
	// call site, then removed (spec.md §4.8, §8 round-trip law).
	TypeParams []string
	IsGeneric  bool

	Locals []Local
	Blocks []Block
	Entry  BlockID
}

// Local returns the local slot descriptor for id.
func (f *Func) Local(id LocalID) *Local {
	if int(id) < 0 || int(id) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[id]
}

// Block returns the block descriptor for id.
func (f *Func) Block(id BlockID) *Block {
	if int(id) < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}
