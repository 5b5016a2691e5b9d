package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/diag"
	"github.com/shadowlink0122/Cm-sub000/internal/hir"
	"github.com/shadowlink0122/Cm-sub000/internal/symbols"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// cleanupKind distinguishes the two things a scope can owe at exit.
type cleanupKind uint8

const (
	cleanupDestructor cleanupKind = iota
	cleanupDefer
)

type cleanup struct {
	kind     cleanupKind
	local    LocalID    // cleanupDestructor
	dtorName string     // cleanupDestructor: mangled Type__dtor symbol
	body     []hir.Stmt // cleanupDefer
}

// scope is one lexical block's worth of bookkeeping: the names visible in
// it and the cleanups (destructor calls, defer bodies) owed when control
// leaves it, in registration order (LIFO on exit, spec.md §4.7).
type scope struct {
	names    map[string]LocalID
	cleanups []cleanup
}

// loopFrame records the jump targets `break`/`continue` resolve to, plus
// the scope depth they must unwind down to (the depth just before the
// loop body's own scope was pushed).
type loopFrame struct {
	breakTarget    BlockID
	continueTarget BlockID
	scopeDepth     int
}

// Lowering is the HIR→MIR lowering context for a single function: scope
// stack, loop stack, and the in-progress builder (spec.md §4.3 "MIR
// Lowering Context").
type Lowering struct {
	Types *types.Interner
	Table *symbols.Table
	Diags *diag.Bag

	prog    *Program
	globals map[string]GlobalID

	b      *builder
	cur    BlockID
	scopes []*scope
	loops  []loopFrame

	// inMustBlock is set while the body of a `must { ... }` block is being
	// lowered and restored afterwards. Nothing else reads it: emitted
	// instructions carry no flag recording that they came from a `must`
	// block.
	inMustBlock bool
}

// Lower runs Program Assembly (spec.md §4.6): every HIR declaration is
// converted to its MIR counterpart, and every function body is lowered by
// a fresh Lowering context.
func Lower(hp *hir.Program, ti *types.Interner, table *symbols.Table, diags *diag.Bag) *Program {
	prog := NewProgram()

	for _, s := range hp.Structs {
		prog.Structs = append(prog.Structs, lowerStructDecl(s))
		prog.StructByName[s.Name] = prog.Structs[len(prog.Structs)-1]
	}
	for _, i := range hp.Interfaces {
		prog.Interfaces = append(prog.Interfaces, lowerInterfaceDecl(i))
		prog.InterfaceByName[i.Name] = prog.Interfaces[len(prog.Interfaces)-1]
	}
	for _, e := range hp.Enums {
		prog.Enums = append(prog.Enums, lowerEnumDecl(e))
		prog.EnumByName[e.Name] = prog.Enums[len(prog.Enums)-1]
	}
	for _, im := range hp.Imports {
		prog.Imports = append(prog.Imports, &Import{CanonicalPath: im.CanonicalPath, Alias: im.Alias, Span: im.Span})
	}
	for _, eb := range hp.ExternBlocks {
		prog.ExternBlocks = append(prog.ExternBlocks, lowerExternBlockDecl(eb))
	}

	globals := map[string]GlobalID{}
	for _, g := range hp.Globals {
		id := GlobalID(len(prog.Globals))
		globals[g.Name] = id
		prog.Globals = append(prog.Globals, &Global{
			ID: id, Name: g.Name, Export: g.Export, Type: g.Type,
			IsConst: g.IsConst, Init: foldGlobalInit(g.Init), Span: g.Span,
		})
	}

	for _, hf := range hp.Functions {
		lo := &Lowering{Types: ti, Table: table, Diags: diags, prog: prog, globals: globals}
		prog.AddFunc(lo.lowerFunc(hf))
	}
	return prog
}

func lowerStructDecl(s *hir.Struct) *Struct {
	fields := make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = Field{Name: f.Name, Type: f.Type}
	}
	return &Struct{
		Name: s.Name, Export: s.Export, Fields: fields,
		TypeParams: s.TypeParams, AutoImpls: s.AutoImpls, IsCSS: s.IsCSS, Span: s.Span,
	}
}

func lowerInterfaceDecl(i *hir.Interface) *Interface {
	methods := make([]InterfaceMethod, len(i.Methods))
	for idx, m := range i.Methods {
		params := make([]types.TypeID, len(m.Params))
		for j, p := range m.Params {
			params[j] = p.Type
		}
		methods[idx] = InterfaceMethod{Name: m.Name, Index: idx, Params: params, Result: m.Result}
	}
	return &Interface{Name: i.Name, Export: i.Export, Methods: methods, Span: i.Span}
}

func lowerEnumDecl(e *hir.Enum) *Enum {
	variants := make([]EnumVariant, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = EnumVariant{Name: v.Name, Tag: v.Tag, Payload: v.Payload}
	}
	return &Enum{Name: e.Name, Export: e.Export, Variants: variants, Span: e.Span}
}

func lowerExternBlockDecl(eb *hir.ExternBlock) *ExternBlock {
	funcs := make([]ExternFunc, len(eb.Funcs))
	for i, f := range eb.Funcs {
		params := make([]types.TypeID, len(f.Params))
		for j, p := range f.Params {
			params[j] = p.Type
		}
		funcs[i] = ExternFunc{Name: f.Name, Params: params, Result: f.Result}
	}
	return &ExternBlock{ABI: eb.ABI, Funcs: funcs, Span: eb.Span}
}

// foldGlobalInit only folds the literal-constant case; anything richer is
// outside spec.md's Non-goals-excluded general constant evaluator.
func foldGlobalInit(e *hir.Expr) *InitExpr {
	if e == nil || e.Kind != hir.ExprLiteral {
		return nil
	}
	lit := e.Data.(hir.LiteralData)
	c := Const{}
	switch lit.Kind {
	case hir.LitBool:
		c.Kind, c.Bool = ConstBool, lit.Bool
	case hir.LitChar, hir.LitInt:
		c.Kind, c.Int, c.Unsigned = ConstInt, lit.Int, lit.Unsigned
	case hir.LitFloat, hir.LitDouble:
		c.Kind, c.Float = ConstFloat, lit.Float64
	case hir.LitString:
		c.Kind, c.Str = ConstString, lit.Str
	}
	return &InitExpr{Const: c}
}

func (lo *Lowering) lowerFunc(hf *hir.Func) *Func {
	lo.b = newBuilder(hf.Name, hf.Span)
	f := lo.b.f
	f.Export = hf.Export
	f.Extern = hf.Extern
	f.Result = hf.Result
	f.TypeParams = hf.TypeParams
	f.IsGeneric = hf.IsGeneric

	lo.pushScope()
	if hf.Self != nil {
		id := lo.b.newLocal(Local{Name: hf.Self.Name, Type: hf.Self.Type, IsParam: true, IsSelf: true})
		lo.bind(hf.Self.Name, id)
		f.Self = &Param{Local: id, Name: hf.Self.Name, Type: hf.Self.Type}
	}
	for _, p := range hf.Params {
		id := lo.b.newLocal(Local{Name: p.Name, Type: p.Type, IsParam: true, Destructors: lo.isDestructorBearing(p.Type)})
		lo.bind(p.Name, id)
		f.Params = append(f.Params, Param{Local: id, Name: p.Name, Type: p.Type})
	}

	if hf.Extern {
		lo.popScope()
		return lo.b.finish()
	}

	entry := lo.b.newBlock()
	lo.cur = entry
	lo.lowerStmts(hf.Body)
	if !lo.b.f.Block(lo.cur).Terminated() {
		lo.emitCleanupsAll()
		lo.b.terminate(lo.cur, Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: false}})
	}
	lo.popScope()
	return lo.b.finish()
}

func (lo *Lowering) pushScope() {
	lo.scopes = append(lo.scopes, &scope{names: map[string]LocalID{}})
}

// popScope discards the innermost scope's bookkeeping. Its cleanups have
// already been emitted by whichever exit path (fallthrough, break,
// continue, return) triggered them.
func (lo *Lowering) popScope() {
	lo.scopes = lo.scopes[:len(lo.scopes)-1]
}

func (lo *Lowering) bind(name string, id LocalID) {
	lo.scopes[len(lo.scopes)-1].names[name] = id
}

func (lo *Lowering) lookupLocal(name string) (LocalID, bool) {
	for i := len(lo.scopes) - 1; i >= 0; i-- {
		if id, ok := lo.scopes[i].names[name]; ok {
			return id, true
		}
	}
	return NoLocalID, false
}

func (lo *Lowering) lookupGlobal(name string) (GlobalID, bool) {
	id, ok := lo.globals[name]
	return id, ok
}

func (lo *Lowering) isDestructorBearing(t types.TypeID) bool {
	ty, ok := lo.Types.Lookup(t)
	if !ok || ty.Kind != types.KindStruct {
		return false
	}
	info, ok := lo.Types.StructInfo(t)
	if !ok {
		return false
	}
	name := lo.Types.Strings.Lookup(info.Name)
	_, bearing := lo.Table.IsDestructorBearing(name)
	return bearing
}
