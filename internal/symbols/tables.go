// Package symbols holds the declaration-level tables HIR lowering pass 1
// populates by walking the AST once before any expression is lowered
// (spec.md §4.2 "Pass 1 — collect declarations").
package symbols

import (
	"strings"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// FuncInfo records a collected function declaration before lowering.
type FuncInfo struct {
	Name       string
	Mangled    string
	Params     []types.TypeID
	Result     types.TypeID
	TypeParams []types.TypeID
	IsGeneric  bool
	IsExtern   bool
	IsExport   bool
	Span       source.Span
}

// ImplInfo maps a type's interface implementations to their mangled impl
// function names (spec.md §4.2: "impl_info[type_name→{interface→mangled-impl-name}]").
type ImplInfo struct {
	ByInterface map[string]string
}

// Table is the full set of symbol tables collected in HIR lowering pass 1.
type Table struct {
	StructDefs        map[string]types.TypeID
	FuncDefs          map[string]*FuncInfo
	EnumValues        map[string]int64 // "EnumName::Variant" -> tag
	TypesWithCtor     map[string]bool  // types with a default (zero-arg) constructor
	ImplInfo          map[string]*ImplInfo
	ImportAliases     map[string]string // short name -> canonical builtin name
	ConstInt          map[string]int64
	ConstString       map[string]string
	ConstBool         map[string]bool
	Destructors       map[string]bool // registered destructor-bearing type names, §4.7
	Namespaces        map[string]bool // flattened "a::b" namespace prefixes seen
	genericFuncByName map[string]bool
}

// NewTable returns an empty, ready-to-populate symbol table.
func NewTable() *Table {
	return &Table{
		StructDefs:        make(map[string]types.TypeID),
		FuncDefs:          make(map[string]*FuncInfo),
		EnumValues:        make(map[string]int64),
		TypesWithCtor:     make(map[string]bool),
		ImplInfo:          make(map[string]*ImplInfo),
		ImportAliases:     make(map[string]string),
		ConstInt:          make(map[string]int64),
		ConstString:       make(map[string]string),
		ConstBool:         make(map[string]bool),
		Destructors:       make(map[string]bool),
		Namespaces:        make(map[string]bool),
		genericFuncByName: make(map[string]bool),
	}
}

// FlattenNamespace implements spec.md §4.2's namespace flattening: a
// function `f` inside namespace `a::b` becomes `a::b::f`.
func FlattenNamespace(path []string, name string) string {
	if len(path) == 0 {
		return name
	}
	return strings.Join(path, "::") + "::" + name
}

// RegisterGenericFunc records that name is a generic function, consulted by
// monomorphization's call-site scan (spec.md §4.8).
func (t *Table) RegisterGenericFunc(name string) { t.genericFuncByName[name] = true }

// IsGenericFunc reports whether name was declared with generic parameters.
func (t *Table) IsGenericFunc(name string) bool { return t.genericFuncByName[name] }

// MangleMethod implements spec.md §4.2's impl method mangling: "Method
// names are mangled as Type__method; constructors as Type__ctor or
// Type__ctor_N for arity N; destructors as Type__dtor."
func MangleMethod(typeName, method string) string { return typeName + "__" + method }

func MangleCtor(typeName string, arity int) string {
	if arity == 0 {
		return typeName + "__ctor"
	}
	return typeName + "__ctor_" + itoa(arity)
}

func MangleDtor(typeName string) string { return typeName + "__dtor" }

// MangleOperator implements: "Operator implementations are emitted as
// functions named Type__op_<opcode>."
func MangleOperator(typeName, opcode string) string { return typeName + "__op_" + opcode }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// IsDestructorBearing implements spec.md §4.7: "A type is declared
// destructor-bearing if either the nominal name is registered, or a
// mangled form Base__<args> has the same base registered, or the generic
// form Base<T>/Base<K,V> is registered." Base<T> registrations are stored
// under their bare name ("Base"), so the lookup degrades to a base-name
// prefix match.
func (t *Table) IsDestructorBearing(typeName string) (registeredName string, ok bool) {
	if t.Destructors[typeName] {
		return typeName, true
	}
	base, _ := types.SplitMangled(typeName)
	if base != typeName && t.Destructors[base] {
		return base, true
	}
	return "", false
}

// RegisterDestructor marks typeName (a bare or generic base name) as
// destructor-bearing.
func (t *Table) RegisterDestructor(typeName string) { t.Destructors[typeName] = true }
