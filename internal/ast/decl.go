package ast

import (
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// DeclKind enumerates the top-level declaration kinds of spec.md §3.
type DeclKind uint8

const (
	DeclFunction DeclKind = iota
	DeclStruct
	DeclInterface
	DeclImpl
	DeclEnum
	DeclTypedef
	DeclGlobalVar
	DeclImport
	DeclExternBlock
	DeclNamespace
	DeclMacro
)

// Decl is one top-level (or namespace-nested) declaration.
type Decl struct {
	Kind    DeclKind
	Name    string
	Export  bool
	Span    source.Span
	Data    DeclData
	Nested  []Decl // DeclNamespace only
}

type DeclData interface{ isDeclData() }

type Param struct {
	Name string
	Type types.TypeID
}

type FunctionDecl struct {
	Params     []Param
	Result     types.TypeID
	Body       []Stmt
	TypeParams []string
	IsExtern   bool
	IsVariadic bool
	Self       *Param // non-nil for methods lowered from an impl block
}

func (FunctionDecl) isDeclData() {}

type FieldDecl struct {
	Name string
	Type types.TypeID
}

type StructDecl struct {
	Fields     []FieldDecl
	TypeParams []string
	AutoImpls  []string
}

func (StructDecl) isDeclData() {}

type InterfaceMethodDecl struct {
	Name   string
	Params []Param
	Result types.TypeID
	IsOp   bool // operator signature, mangled Type__op_<opcode> on impl
}

type InterfaceDecl struct {
	Methods    []InterfaceMethodDecl
	TypeParams []string
}

func (InterfaceDecl) isDeclData() {}

type ImplMethod struct {
	Name   string
	Params []Param
	Result types.TypeID
	Body   []Stmt
	IsCtor bool
	IsDtor bool
	IsOp   bool
	Opcode string // set when IsOp
}

type ImplDecl struct {
	TypeName      string
	InterfaceName string // "" for an inherent impl
	Methods       []ImplMethod
}

func (ImplDecl) isDeclData() {}

type EnumVariant struct {
	Name    string
	Tag     int64
	Payload []types.TypeID // empty => no payload, resolves to plain int
}

type EnumDecl struct {
	Variants   []EnumVariant
	TypeParams []string
}

func (EnumDecl) isDeclData() {}

type TypedefDecl struct{ Target types.TypeID }

func (TypedefDecl) isDeclData() {}

type GlobalVarDecl struct {
	Type    types.TypeID
	Init    *Expr
	IsConst bool
}

func (GlobalVarDecl) isDeclData() {}

// ImportDecl models both `import std::io::println;` (which is registered
// in the import-alias table) and `use` FFI blocks, per spec.md §4.2.
type ImportDecl struct {
	CanonicalPath string // e.g. "std::io::println"
	Alias         string // short name bound in this scope
	IsFFI         bool
	ABI           string // "C" for FFI use blocks
}

func (ImportDecl) isDeclData() {}

type ExternFunc struct {
	Name   string
	Params []Param
	Result types.TypeID
}

type ExternBlockDecl struct {
	ABI   string
	Funcs []ExternFunc
}

func (ExternBlockDecl) isDeclData() {}

// MacroKind distinguishes constant-valued macros (registered into a
// const-value map and emitted as a global const) from lambda-valued macros
// (emitted as ordinary functions), per spec.md §4.2.
type MacroKind uint8

const (
	MacroConstInt MacroKind = iota
	MacroConstString
	MacroConstBool
	MacroLambda
)

type MacroDecl struct {
	Kind        MacroKind
	ConstInt    int64
	ConstString string
	ConstBool   bool
	Lambda      *FunctionDecl
}

func (MacroDecl) isDeclData() {}

// Program is the root of a typed AST for a single module/compilation unit.
type Program struct {
	Decls []Decl
}
