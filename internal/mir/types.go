// Package mir implements the MIR node taxonomy and the HIR→MIR lowering
// passes of spec.md §4.3-§4.7: a three-address, CFG-shaped IR with explicit
// places/projections, single-terminator basic blocks, expression lowering
// (temp materialization, string-interpolation call emission, interface
// dispatch, short-circuit control flow), lvalue place construction, and
// destructor/defer emission.
package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// FuncID identifies a function within a Program.
type FuncID int32

// BlockID identifies a basic block within a Func.
type BlockID int32

// LocalID identifies a local variable (including parameters) within a Func.
type LocalID int32

// GlobalID identifies a global variable within a Program.
type GlobalID int32

const (
	NoFuncID   FuncID   = -1
	NoBlockID  BlockID  = -1
	NoLocalID  LocalID  = -1
	NoGlobalID GlobalID = -1
)

// Local is one local slot (parameter, let-binding, or compiler-introduced
// temporary) of a Func.
type Local struct {
	Name        string
	Type        types.TypeID
	IsParam     bool
	IsTemp      bool
	IsSelf      bool
	Destructors bool // type is destructor-bearing, §4.7
	Span        source.Span
}

// ProjKind distinguishes the kinds of place projection spec.md §4.1/§4.5
// names: field(i), index(local), deref.
type ProjKind uint8

const (
	ProjField ProjKind = iota
	ProjIndex
	ProjDeref
)

// Proj is one projection step applied to a place's root local.
type Proj struct {
	Kind       ProjKind
	FieldIdx   int      // ProjField
	FieldName  string   // ProjField, retained for diagnostics
	IndexLocal LocalID  // ProjIndex: the local holding the index value
	IndexConst int64    // ProjIndex: set when the index is a compile-time constant
	IsConst    bool     // ProjIndex: IndexConst is meaningful
	Type       types.TypeID
}

// Place is `(root_local, projection_list)`, spec.md §4.1: every lvalue is
// represented this way instead of a raw pointer into the IR, so a place can
// be constructed once and shared between a read and a write (the fix for
// the compound-assignment double-evaluation bug of §8/§9).
type Place struct {
	Root LocalID
	Proj []Proj
}

// IsValid reports whether p names a real local.
func (p Place) IsValid() bool { return p.Root != NoLocalID }

// RootPlace returns the whole-local place for root with no projections.
func RootPlace(root LocalID) Place { return Place{Root: root} }
