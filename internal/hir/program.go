package hir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

type Param struct {
	Name string
	Type types.TypeID
}

// Func is a lowered function declaration. Name is already the fully
// mangled/flattened name (namespace-flattened, or Type__method for impl
// methods, §4.2).
type Func struct {
	Name       string
	ModulePath string
	Export     bool
	Extern     bool
	Variadic   bool
	Params     []Param
	Self       *Param
	Result     types.TypeID
	TypeParams []string
	IsGeneric  bool
	Body       []Stmt
	Span       source.Span
}

type Field struct {
	Name string
	Type types.TypeID
}

type Struct struct {
	Name       string
	Export     bool
	Fields     []Field
	TypeParams []string
	AutoImpls  []string
	IsCSS      bool
	Span       source.Span
}

type InterfaceMethod struct {
	Name   string
	Params []Param
	Result types.TypeID
}

type Interface struct {
	Name       string
	Export     bool
	Methods    []InterfaceMethod
	TypeParams []string
	Span       source.Span
}

type EnumVariant struct {
	Name    string
	Tag     int64
	Payload []types.TypeID
}

type Enum struct {
	Name       string
	Export     bool
	Variants   []EnumVariant
	TypeParams []string
	Span       source.Span
}

type Typedef struct {
	Name   string
	Target types.TypeID
	Span   source.Span
}

type GlobalVar struct {
	Name    string
	Export  bool
	Type    types.TypeID
	Init    *Expr
	IsConst bool
	Span    source.Span
}

type Import struct {
	CanonicalPath string
	Alias         string
	Span          source.Span
}

type ExternFunc struct {
	Name   string
	Params []Param
	Result types.TypeID
}

type ExternBlock struct {
	ABI   string
	Funcs []ExternFunc
	Span  source.Span
}

// Program is the complete lowered HIR for one module (spec.md §3).
type Program struct {
	Functions    []*Func
	Structs      []*Struct
	Interfaces   []*Interface
	Enums        []*Enum
	Typedefs     []*Typedef
	Globals      []*GlobalVar
	Imports      []*Import
	ExternBlocks []*ExternBlock
}
