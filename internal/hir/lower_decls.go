package hir

import (
	"strings"

	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/symbols"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// stdImportAliases is the canonical-name table spec.md §4.2 describes for
// `import std::io::...` declarations.
var stdImportAliases = map[string]string{
	"std::io::println": "__println__",
	"std::io::print":    "__print__",
}

// collectDecls is pass 1 of spec.md §4.2: walk top-level declarations and
// populate struct_defs, func_defs, enum_values, types_with_default_ctor,
// and impl_info, flattening namespaces as we go.
func (lo *Lowerer) collectDecls(decls []ast.Decl, path []string) {
	for _, d := range decls {
		switch d.Kind {
		case ast.DeclNamespace:
			lo.Table.Namespaces[mangleQualified(path, d.Name)] = true
			lo.collectDecls(d.Nested, append(append([]string{}, path...), d.Name))
		case ast.DeclFunction:
			fd := d.Data.(ast.FunctionDecl)
			qualified := mangleQualified(path, d.Name)
			lo.Table.FuncDefs[qualified] = &symbols.FuncInfo{
				Name:      qualified,
				Mangled:   qualified,
				Result:    fd.Result,
				IsGeneric: len(fd.TypeParams) > 0,
				IsExtern:  fd.IsExtern,
				IsExport:  d.Export,
				Span:      d.Span,
			}
			for _, p := range fd.Params {
				lo.Table.FuncDefs[qualified].Params = append(lo.Table.FuncDefs[qualified].Params, p.Type)
			}
			if len(fd.TypeParams) > 0 {
				lo.Table.RegisterGenericFunc(qualified)
			}
		case ast.DeclStruct:
			sd := d.Data.(ast.StructDecl)
			qualified := mangleQualified(path, d.Name)
			tid := lo.Types.RegisterStruct(lo.Types.Strings.Intern(qualified), d.Span)
			lo.Table.StructDefs[qualified] = tid
			if len(sd.Fields) == 0 {
				lo.Table.TypesWithCtor[qualified] = true
			}
		case ast.DeclEnum:
			ed := d.Data.(ast.EnumDecl)
			qualified := mangleQualified(path, d.Name)
			for _, v := range ed.Variants {
				lo.Table.EnumValues[qualified+"::"+v.Name] = v.Tag
			}
		case ast.DeclImpl:
			id := d.Data.(ast.ImplDecl)
			info, ok := lo.Table.ImplInfo[id.TypeName]
			if !ok {
				info = &symbols.ImplInfo{ByInterface: map[string]string{}}
				lo.Table.ImplInfo[id.TypeName] = info
			}
			if id.InterfaceName != "" {
				info.ByInterface[id.InterfaceName] = symbols.MangleMethod(id.TypeName, id.InterfaceName)
			}
			for _, m := range id.Methods {
				switch {
				case m.IsCtor && len(m.Params) == 0:
					lo.Table.TypesWithCtor[id.TypeName] = true
				case m.IsDtor:
					lo.Table.RegisterDestructor(id.TypeName)
				}
			}
		case ast.DeclImport:
			im := d.Data.(ast.ImportDecl)
			alias := im.Alias
			if alias == "" {
				parts := strings.Split(im.CanonicalPath, "::")
				alias = parts[len(parts)-1]
			}
			if canon, ok := stdImportAliases[im.CanonicalPath]; ok {
				lo.Table.ImportAliases[alias] = canon
			} else {
				lo.Table.ImportAliases[alias] = im.CanonicalPath
			}
		case ast.DeclMacro:
			md := d.Data.(ast.MacroDecl)
			switch md.Kind {
			case ast.MacroConstInt:
				lo.Table.ConstInt[d.Name] = md.ConstInt
			case ast.MacroConstString:
				lo.Table.ConstString[d.Name] = md.ConstString
			case ast.MacroConstBool:
				lo.Table.ConstBool[d.Name] = md.ConstBool
			}
		}
	}
}

// lowerDecls is pass 2 of spec.md §4.2: lower each declaration into the
// corresponding HIR node, appending into out.
func (lo *Lowerer) lowerDecls(decls []ast.Decl, path []string, out *Program) {
	for _, d := range decls {
		switch d.Kind {
		case ast.DeclNamespace:
			lo.lowerDecls(d.Nested, append(append([]string{}, path...), d.Name), out)
		case ast.DeclFunction:
			out.Functions = append(out.Functions, lo.lowerFunction(d, path))
		case ast.DeclStruct:
			out.Structs = append(out.Structs, lo.lowerStruct(d, path))
		case ast.DeclInterface:
			out.Interfaces = append(out.Interfaces, lo.lowerInterface(d, path))
		case ast.DeclImpl:
			out.Functions = append(out.Functions, lo.lowerImpl(d, path)...)
		case ast.DeclEnum:
			out.Enums = append(out.Enums, lo.lowerEnum(d, path))
		case ast.DeclTypedef:
			td := d.Data.(ast.TypedefDecl)
			out.Typedefs = append(out.Typedefs, &Typedef{Name: mangleQualified(path, d.Name), Target: td.Target, Span: d.Span})
		case ast.DeclGlobalVar:
			gv := d.Data.(ast.GlobalVarDecl)
			out.Globals = append(out.Globals, &GlobalVar{
				Name: mangleQualified(path, d.Name), Export: d.Export, Type: gv.Type,
				Init: lo.lowerExprOpt(gv.Init), IsConst: gv.IsConst, Span: d.Span,
			})
		case ast.DeclImport:
			im := d.Data.(ast.ImportDecl)
			alias := im.Alias
			if alias == "" {
				parts := strings.Split(im.CanonicalPath, "::")
				alias = parts[len(parts)-1]
			}
			out.Imports = append(out.Imports, &Import{CanonicalPath: im.CanonicalPath, Alias: alias, Span: d.Span})
			if im.IsFFI {
				out.ExternBlocks = append(out.ExternBlocks, &ExternBlock{ABI: im.ABI, Span: d.Span})
			}
		case ast.DeclExternBlock:
			eb := d.Data.(ast.ExternBlockDecl)
			block := &ExternBlock{ABI: eb.ABI, Span: d.Span}
			for _, f := range eb.Funcs {
				block.Funcs = append(block.Funcs, ExternFunc{Name: f.Name, Params: lo.lowerParams(f.Params), Result: f.Result})
			}
			out.ExternBlocks = append(out.ExternBlocks, block)
		case ast.DeclMacro:
			md := d.Data.(ast.MacroDecl)
			if md.Kind == ast.MacroLambda && md.Lambda != nil {
				out.Functions = append(out.Functions, lo.lowerFunctionDecl(mangleQualified(path, d.Name), d.Export, d.Span, *md.Lambda))
			}
		}
	}
}

func (lo *Lowerer) lowerParams(ps []ast.Param) []Param {
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Name: p.Name, Type: p.Type}
	}
	return out
}

func (lo *Lowerer) lowerFunction(d ast.Decl, path []string) *Func {
	fd := d.Data.(ast.FunctionDecl)
	return lo.lowerFunctionDecl(mangleQualified(path, d.Name), d.Export, d.Span, fd)
}

// lowerFunctionDecl lowers one function body, establishing the self/locals
// lowering context lowerIdent consults for implicit-self rewriting.
func (lo *Lowerer) lowerFunctionDecl(name string, export bool, span source.Span, fd ast.FunctionDecl) *Func {
	prevSelf, prevLocals := lo.self, lo.locals
	lo.locals = make(map[string]bool, len(fd.Params)+1)
	for _, p := range fd.Params {
		lo.locals[p.Name] = true
	}
	lo.self = nil
	if fd.Self != nil {
		lo.self = &Param{Name: fd.Self.Name, Type: fd.Self.Type}
		lo.locals[fd.Self.Name] = true
	}

	f := &Func{
		Name:       name,
		Export:     export,
		Extern:     fd.IsExtern,
		Variadic:   fd.IsVariadic,
		Params:     lo.lowerParams(fd.Params),
		Self:       lo.self,
		Result:     fd.Result,
		TypeParams: fd.TypeParams,
		IsGeneric:  len(fd.TypeParams) > 0,
		Span:       span,
	}
	f.Body = lo.lowerStmts(fd.Body)

	lo.self, lo.locals = prevSelf, prevLocals
	return f
}

func (lo *Lowerer) lowerStruct(d ast.Decl, path []string) *Struct {
	sd := d.Data.(ast.StructDecl)
	qualified := mangleQualified(path, d.Name)
	s := &Struct{Name: qualified, Export: d.Export, TypeParams: sd.TypeParams, AutoImpls: sd.AutoImpls, Span: d.Span}
	for _, f := range sd.Fields {
		s.Fields = append(s.Fields, Field{Name: f.Name, Type: f.Type})
	}
	for _, name := range sd.AutoImpls {
		if name == "CSS" {
			s.IsCSS = true
		}
	}
	if tid, ok := lo.Table.StructDefs[qualified]; ok {
		fieldInfos := make([]types.StructField, 0, len(s.Fields))
		for _, f := range s.Fields {
			fieldInfos = append(fieldInfos, types.StructField{Name: lo.Types.Strings.Intern(f.Name), Type: f.Type})
		}
		lo.Types.SetStructFields(tid, fieldInfos)
		lo.Types.SetStructAutoImpls(tid, internAll(lo.Types, sd.AutoImpls))
	}
	return s
}

func (lo *Lowerer) lowerInterface(d ast.Decl, path []string) *Interface {
	id := d.Data.(ast.InterfaceDecl)
	qualified := mangleQualified(path, d.Name)
	iface := &Interface{Name: qualified, Export: d.Export, TypeParams: id.TypeParams, Span: d.Span}
	for _, m := range id.Methods {
		iface.Methods = append(iface.Methods, InterfaceMethod{Name: m.Name, Params: lo.lowerParams(m.Params), Result: m.Result})
	}

	tid := lo.Types.RegisterInterface(lo.Types.Strings.Intern(qualified), d.Span)
	methodInfos := make([]types.InterfaceMethod, 0, len(iface.Methods))
	for _, m := range iface.Methods {
		ptypes := make([]types.TypeID, len(m.Params))
		for i, p := range m.Params {
			ptypes[i] = p.Type
		}
		methodInfos = append(methodInfos, types.InterfaceMethod{Name: lo.Types.Strings.Intern(m.Name), Params: ptypes, Result: m.Result})
	}
	lo.Types.SetInterfaceMethods(tid, methodInfos)
	return iface
}

func (lo *Lowerer) lowerEnum(d ast.Decl, path []string) *Enum {
	ed := d.Data.(ast.EnumDecl)
	qualified := mangleQualified(path, d.Name)
	e := &Enum{Name: qualified, Export: d.Export, TypeParams: ed.TypeParams, Span: d.Span}
	for _, v := range ed.Variants {
		e.Variants = append(e.Variants, EnumVariant{Name: v.Name, Tag: v.Tag, Payload: v.Payload})
	}
	return e
}

// lowerImpl lowers every method of an impl block into a free Func, mangled
// per spec.md §4.2 (Type__method / Type__ctor[_N] / Type__dtor /
// Type__op_<opcode>), with an implicit `self *Type` parameter prepended.
func (lo *Lowerer) lowerImpl(d ast.Decl, path []string) []*Func {
	id := d.Data.(ast.ImplDecl)
	selfType := lo.Table.StructDefs[id.TypeName]

	out := make([]*Func, 0, len(id.Methods))
	for _, m := range id.Methods {
		var name string
		switch {
		case m.IsCtor:
			name = symbols.MangleCtor(id.TypeName, len(m.Params))
		case m.IsDtor:
			name = symbols.MangleDtor(id.TypeName)
		case m.IsOp:
			name = symbols.MangleOperator(id.TypeName, m.Opcode)
		default:
			name = symbols.MangleMethod(id.TypeName, m.Name)
		}

		prevSelf, prevLocals := lo.self, lo.locals
		lo.self = &Param{Name: "self", Type: lo.Types.Pointer(selfType)}
		lo.locals = make(map[string]bool, len(m.Params)+1)
		lo.locals["self"] = true
		for _, p := range m.Params {
			lo.locals[p.Name] = true
		}

		f := &Func{
			Name:   name,
			Export: d.Export,
			Params: lo.lowerParams(m.Params),
			Self:   lo.self,
			Result: m.Result,
			Span:   d.Span,
		}
		f.Body = lo.lowerStmts(m.Body)
		out = append(out, f)

		lo.self, lo.locals = prevSelf, prevLocals
	}
	return out
}

func internAll(ti *types.Interner, names []string) []source.StringID {
	out := make([]source.StringID, len(names))
	for i, n := range names {
		out[i] = ti.Strings.Intern(n)
	}
	return out
}
