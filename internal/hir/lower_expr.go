package hir

import (
	"strings"

	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/symbols"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// builtinArrayMethods and builtinStringMethods name the slice/string
// built-in methods spec.md §4.2 rewrites to a direct runtime call instead of
// Type__method dispatch (there is no user-defined impl block backing them).
var builtinArrayMethods = map[string]bool{
	"length": true, "push": true, "pop": true, "forEach": true,
	"map": true, "filter": true, "indexOf": true, "slice": true,
}

var builtinStringMethods = map[string]bool{
	"length": true, "substring": true, "toUpper": true, "toLower": true,
	"split": true, "trim": true, "indexOf": true, "charAt": true,
}

func (lo *Lowerer) lowerStmts(stmts []ast.Stmt) []Stmt {
	if len(stmts) == 0 {
		return nil
	}
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, lo.lowerStmt(s))
	}
	return out
}

func (lo *Lowerer) lowerStmt(s ast.Stmt) Stmt {
	switch s.Kind {
	case ast.StmtLet:
		d := s.Data.(ast.LetData)
		if lo.locals != nil {
			lo.locals[d.Name] = true
		}
		return Stmt{Kind: StmtLet, Span: s.Span, Data: LetData{
			Name: d.Name, Type: d.Type, Init: lo.lowerExprOpt(d.Init),
			IsConst: d.IsConst, IsStatic: d.IsStatic, IsMove: d.IsMove,
		}}
	case ast.StmtAssign:
		d := s.Data.(ast.AssignData)
		return Stmt{Kind: StmtAssign, Span: s.Span, Data: AssignData{
			CompoundOp: d.Op, IsCompound: d.IsCompound,
			Target: lo.lowerExpr(d.Target), Value: lo.lowerExpr(d.Value),
		}}
	case ast.StmtReturn:
		d := s.Data.(ast.ReturnData)
		return Stmt{Kind: StmtReturn, Span: s.Span, Data: ReturnData{Value: lo.lowerExprOpt(d.Value)}}
	case ast.StmtIf:
		d := s.Data.(ast.IfData)
		return Stmt{Kind: StmtIf, Span: s.Span, Data: IfData{
			Cond: lo.lowerExpr(d.Cond), Then: lo.lowerStmts(d.Then), Else: lo.lowerStmts(d.Else),
		}}
	case ast.StmtWhile:
		d := s.Data.(ast.WhileData)
		return Stmt{Kind: StmtWhile, Span: s.Span, Data: WhileData{Cond: lo.lowerExpr(d.Cond), Body: lo.lowerStmts(d.Body)}}
	case ast.StmtFor:
		d := s.Data.(ast.ForData)
		var init, update *Stmt
		if d.Init != nil {
			ls := lo.lowerStmt(*d.Init)
			init = &ls
		}
		if d.Update != nil {
			us := lo.lowerStmt(*d.Update)
			update = &us
		}
		return Stmt{Kind: StmtFor, Span: s.Span, Data: ForData{
			Init: init, Cond: lo.lowerExprOpt(d.Cond), Update: update, Body: lo.lowerStmts(d.Body),
		}}
	case ast.StmtLoop:
		d := s.Data.(ast.LoopData)
		return Stmt{Kind: StmtLoop, Span: s.Span, Data: LoopData{Body: lo.lowerStmts(d.Body)}}
	case ast.StmtSwitch:
		d := s.Data.(ast.SwitchData)
		cases := make([]SwitchCase, len(d.Cases))
		for i, c := range d.Cases {
			cases[i] = SwitchCase{Value: lo.lowerExprOpt(c.Value), Body: lo.lowerStmts(c.Body)}
		}
		return Stmt{Kind: StmtSwitch, Span: s.Span, Data: SwitchData{Expr: lo.lowerExpr(d.Expr), Cases: cases}}
	case ast.StmtBreak:
		return Stmt{Kind: StmtBreak, Span: s.Span, Data: BreakData{}}
	case ast.StmtContinue:
		return Stmt{Kind: StmtContinue, Span: s.Span, Data: ContinueData{}}
	case ast.StmtBlock:
		d := s.Data.(ast.BlockData)
		return Stmt{Kind: StmtBlock, Span: s.Span, Data: BlockData{Body: lo.lowerStmts(d.Body)}}
	case ast.StmtDefer:
		d := s.Data.(ast.DeferData)
		return Stmt{Kind: StmtDefer, Span: s.Span, Data: DeferData{Body: lo.lowerStmts(d.Body)}}
	case ast.StmtAsm:
		d := s.Data.(ast.AsmData)
		ops := make([]AsmOperand, len(d.Operands))
		for i, o := range d.Operands {
			ops[i] = AsmOperand{Name: o.Name, Constraint: o.Constraint}
		}
		return Stmt{Kind: StmtAsm, Span: s.Span, Data: AsmData{
			Code: d.Code, Operands: ops, Clobbers: append([]string(nil), d.Clobbers...), IsMust: d.IsMust,
		}}
	case ast.StmtMust:
		d := s.Data.(ast.MustData)
		return Stmt{Kind: StmtMust, Span: s.Span, Data: MustData{Body: lo.lowerStmts(d.Body)}}
	case ast.StmtExpr:
		d := s.Data.(ast.ExprStmtData)
		return Stmt{Kind: StmtExpr, Span: s.Span, Data: ExprStmtData{Value: lo.lowerExpr(d.Value)}}
	default:
		return Stmt{Kind: StmtExpr, Span: s.Span, Data: ExprStmtData{}}
	}
}

func (lo *Lowerer) lowerExprOpt(e *ast.Expr) *Expr {
	if e == nil {
		return nil
	}
	return lo.lowerExpr(e)
}

// lowerExpr is the central recursive AST→HIR expression dispatch of
// spec.md §4.2.
func (lo *Lowerer) lowerExpr(e *ast.Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprLiteral:
		d := e.Data.(ast.LiteralData)
		return &Expr{Kind: ExprLiteral, Type: e.Type, Span: e.Span, Data: LiteralData{
			Kind: LiteralKind(d.Kind), Bool: d.Bool, Char: d.Char, Int: d.Int,
			Unsigned: d.Unsigned, Float64: d.Float64, Str: d.Str,
		}}
	case ast.ExprIdent:
		d := e.Data.(ast.IdentData)
		return lo.lowerIdent(d.Name, e.Type, e.Span)
	case ast.ExprEnumPath:
		d := e.Data.(ast.EnumPathData)
		tag := lo.Table.EnumValues[d.Enum+"::"+d.Variant]
		return &Expr{Kind: ExprEnumConstruct, Type: e.Type, Span: e.Span, Data: EnumConstructData{EnumName: d.Enum, VariantName: d.Variant, Tag: tag}}
	case ast.ExprBinary:
		d := e.Data.(ast.BinaryData)
		return &Expr{Kind: ExprBinaryOp, Type: e.Type, Span: e.Span, Data: BinaryOpData{Op: d.Op, Left: lo.lowerExpr(d.Left), Right: lo.lowerExpr(d.Right)}}
	case ast.ExprUnary:
		d := e.Data.(ast.UnaryData)
		return &Expr{Kind: ExprUnaryOp, Type: e.Type, Span: e.Span, Data: UnaryOpData{Op: d.Op, Operand: lo.lowerExpr(d.Operand)}}
	case ast.ExprCall:
		return lo.lowerCall(e)
	case ast.ExprIndex:
		return lo.lowerIndex(e)
	case ast.ExprSlice:
		d := e.Data.(ast.SliceData)
		return &Expr{Kind: ExprSlice, Type: e.Type, Span: e.Span, Data: SliceData{
			Object: lo.lowerExpr(d.Object), Start: lo.lowerExprOpt(d.Start), End: lo.lowerExprOpt(d.End), Step: lo.lowerExprOpt(d.Step),
		}}
	case ast.ExprMember:
		return lo.lowerMember(e)
	case ast.ExprTernary:
		d := e.Data.(ast.TernaryData)
		return &Expr{Kind: ExprTernary, Type: e.Type, Span: e.Span, Data: TernaryData{
			Cond: lo.lowerExpr(d.Cond), Then: lo.lowerExpr(d.Then), Else: lo.lowerExpr(d.Else),
		}}
	case ast.ExprMatch:
		d := e.Data.(ast.MatchData)
		return lo.lowerMatch(d, e.Type, e.Span)
	case ast.ExprStructLit:
		d := e.Data.(ast.StructLitData)
		fields := make([]StructLitField, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = StructLitField{Name: f.Name, Value: lo.lowerExpr(f.Value)}
		}
		return &Expr{Kind: ExprStructLit, Type: e.Type, Span: e.Span, Data: StructLitData{TypeName: d.TypeName, Fields: fields}}
	case ast.ExprArrayLit:
		d := e.Data.(ast.ArrayLitData)
		elems := make([]*Expr, len(d.Elements))
		for i, el := range d.Elements {
			elems[i] = lo.lowerExpr(el)
		}
		return &Expr{Kind: ExprArrayLit, Type: e.Type, Span: e.Span, Data: ArrayLitData{Elements: elems}}
	case ast.ExprSizeof:
		d := e.Data.(ast.SizeofData)
		size := lo.Types.Sizeof(d.Target)
		return &Expr{Kind: ExprLiteral, Type: lo.Types.Builtins().Int, Span: e.Span, Data: LiteralData{Kind: LitInt, Int: int64(size)}}
	case ast.ExprAlignof:
		d := e.Data.(ast.AlignofData)
		align := lo.Types.Alignof(d.Target)
		return &Expr{Kind: ExprLiteral, Type: lo.Types.Builtins().Int, Span: e.Span, Data: LiteralData{Kind: LitInt, Int: int64(align)}}
	case ast.ExprTypeof:
		d := e.Data.(ast.TypeofData)
		operand := lo.lowerExpr(d.Operand)
		return &Expr{Kind: ExprLiteral, Type: lo.Types.Builtins().String, Span: e.Span, Data: LiteralData{Kind: LitString, Str: lo.Types.String(operand.Type)}}
	case ast.ExprTypenameOf:
		d := e.Data.(ast.TypenameOfData)
		return &Expr{Kind: ExprLiteral, Type: lo.Types.Builtins().String, Span: e.Span, Data: LiteralData{Kind: LitString, Str: lo.Types.String(d.Target)}}
	case ast.ExprCast:
		d := e.Data.(ast.CastData)
		return &Expr{Kind: ExprCast, Type: e.Type, Span: e.Span, Data: CastData{Operand: lo.lowerExpr(d.Operand), Target: d.Target}}
	case ast.ExprLambda:
		d := e.Data.(ast.LambdaData)
		params := make([]LambdaParam, len(d.Params))
		for i, p := range d.Params {
			params[i] = LambdaParam{Name: p.Name, Type: p.Type}
		}
		prevSelf, prevLocals := lo.self, lo.locals
		captured := make(map[string]bool, len(lo.locals)+len(d.Params))
		for k := range lo.locals {
			captured[k] = true
		}
		for _, p := range d.Params {
			captured[p.Name] = true
		}
		lo.locals = captured
		body := lo.lowerStmts(d.Body)
		lo.self, lo.locals = prevSelf, prevLocals
		return &Expr{Kind: ExprLambda, Type: e.Type, Span: e.Span, Data: LambdaData{Params: params, Result: d.Result, Body: body}}
	case ast.ExprInterpString:
		return lo.lowerInterp(e)
	default:
		return &Expr{Kind: ExprLiteral, Type: e.Type, Span: e.Span, Data: LiteralData{}}
	}
}

// lowerIdent implements spec.md §4.2's resolution order for a bare
// identifier that the typechecker left as a plain ExprIdent (enum paths are
// already resolved to ExprEnumPath upstream): import-alias/function-ref,
// then a name bound in the current local scope, then — if neither matched
// and we are lowering a method body — an implicit `self.<name>` rewrite.
func (lo *Lowerer) lowerIdent(name string, typ types.TypeID, span source.Span) *Expr {
	if canon, ok := lo.Table.ImportAliases[name]; ok {
		return &Expr{Kind: ExprVarRef, Type: typ, Span: span, Data: VarRefData{Name: canon, IsFunctionRef: true}}
	}
	if lo.Table.FuncDefs[name] != nil || lo.Table.IsGenericFunc(name) {
		return &Expr{Kind: ExprVarRef, Type: typ, Span: span, Data: VarRefData{Name: name, IsFunctionRef: true}}
	}
	if lo.locals[name] {
		return &Expr{Kind: ExprVarRef, Type: typ, Span: span, Data: VarRefData{Name: name}}
	}
	if lo.self != nil {
		return &Expr{Kind: ExprVarRef, Type: typ, Span: span, Data: VarRefData{Name: name, ImplicitSelf: true}}
	}
	return &Expr{Kind: ExprVarRef, Type: typ, Span: span, Data: VarRefData{Name: name}}
}

// lowerCall distinguishes a payload-bearing enum-variant constructor call
// (`Enum::Variant(args)`, parsed by the typechecker as a plain CallData
// whose FuncName is the qualified variant path) from an ordinary direct or
// indirect call.
func (lo *Lowerer) lowerCall(e *ast.Expr) *Expr {
	d := e.Data.(ast.CallData)
	if !d.IsIndirect {
		if tag, ok := lo.Table.EnumValues[d.FuncName]; ok {
			args := make([]*Expr, len(d.Args))
			for i, a := range d.Args {
				args[i] = lo.lowerExpr(a)
			}
			enumName, variantName := "", d.FuncName
			if parts := strings.SplitN(d.FuncName, "::", 2); len(parts) == 2 {
				enumName, variantName = parts[0], parts[1]
			}
			return &Expr{Kind: ExprEnumConstruct, Type: e.Type, Span: e.Span, Data: EnumConstructData{
				EnumName: enumName, VariantName: variantName, Tag: tag, Args: args,
			}}
		}
	}
	args := make([]*Expr, len(d.Args))
	for i, a := range d.Args {
		args[i] = lo.lowerExpr(a)
	}
	var fn *Expr
	if d.IsIndirect {
		fn = lo.lowerExpr(d.Func)
	}
	return &Expr{Kind: ExprCall, Type: e.Type, Span: e.Span, Data: CallData{FuncName: d.FuncName, Func: fn, Args: args, IsIndirect: d.IsIndirect}}
}

// lowerIndex collapses a chain of single-level a[i][j][k] index
// applications into one IndexData carrying every index in order, so the
// MIR lvalue-place builder can build a single place with multiple index
// projections instead of materializing an intermediate place per level
// (spec.md §4.5/§9 "Multi-dim index collapsing").
func (lo *Lowerer) lowerIndex(e *ast.Expr) *Expr {
	base, astIndices := collectIndexChain(e)
	obj := lo.lowerExpr(base)
	indices := make([]*Expr, len(astIndices))
	for i, ix := range astIndices {
		indices[i] = lo.lowerExpr(ix)
	}
	var first *Expr
	if len(indices) > 0 {
		first = indices[0]
	}
	return &Expr{Kind: ExprIndex, Type: e.Type, Span: e.Span, Data: IndexData{Object: obj, Index: first, Indices: indices}}
}

func collectIndexChain(e *ast.Expr) (*ast.Expr, []*ast.Expr) {
	var idxs []*ast.Expr
	cur := e
	for cur.Kind == ast.ExprIndex {
		d := cur.Data.(ast.IndexData)
		idxs = append([]*ast.Expr{d.Index}, idxs...)
		cur = d.Object
	}
	return cur, idxs
}

// lowerMember dispatches a `.field`/`.method(args)` AST node either to a
// plain field-access node or, for a method call, to lowerMemberCall.
func (lo *Lowerer) lowerMember(e *ast.Expr) *Expr {
	d := e.Data.(ast.MemberData)
	if d.IsMethodCall {
		return lo.lowerMemberCall(d, e.Type, e.Span)
	}
	obj := lo.lowerExpr(d.Object)
	idx := -1
	if t, ok := lo.Types.Lookup(obj.Type); ok && t.Kind == types.KindStruct {
		idx = lo.Types.FieldIndex(obj.Type, lo.Types.Strings.Intern(d.Field))
	}
	return &Expr{Kind: ExprFieldAccess, Type: e.Type, Span: e.Span, Data: FieldAccessData{Object: obj, FieldName: d.Field, FieldIdx: idx}}
}

// lowerMemberCall resolves `obj.method(args)` per spec.md §4.4: a known
// builtin slice/string method rewrites to a direct `__builtin_*` call name;
// otherwise it mangles to Type__method against the object's declared type,
// with the object itself passed as the implicit first (self) argument.
// Interface dispatch is not decided here — whether Type__method resolves to
// a direct call or a vtable load happens in MIR expression lowering, which
// inspects the declared static type of the first argument.
func (lo *Lowerer) lowerMemberCall(m ast.MemberData, resultType types.TypeID, span source.Span) *Expr {
	obj := lo.lowerExpr(m.Object)
	args := make([]*Expr, 0, len(m.Args)+1)
	args = append(args, obj)
	for _, a := range m.Args {
		args = append(args, lo.lowerExpr(a))
	}

	var funcName string
	objType, _ := lo.Types.Lookup(obj.Type)
	switch {
	case lo.Types.IsSlice(obj.Type) && builtinArrayMethods[m.Field]:
		funcName = "__builtin_array_" + m.Field
	case objType.Kind == types.KindString && builtinStringMethods[m.Field]:
		funcName = "__builtin_string_" + m.Field
	default:
		funcName = symbols.MangleMethod(lo.Types.String(obj.Type), m.Field)
	}
	return &Expr{Kind: ExprCall, Type: resultType, Span: span, Data: CallData{FuncName: funcName, Args: args}}
}

// lowerInterp restructures an already-scanned interpolation literal
// (parsed upstream by the typechecker into literal/expression parts) into
// the template+args shape MIR's expression lowering emits
// cm_format_string/cm_println_format/cm_print_format calls from
// (spec.md §4.4).
func (lo *Lowerer) lowerInterp(e *ast.Expr) *Expr {
	d := e.Data.(ast.InterpStringData)
	var b strings.Builder
	args := make([]InterpArg, 0, len(d.Parts))
	for _, p := range d.Parts {
		if p.IsExpr {
			b.WriteString("{}")
			args = append(args, InterpArg{Value: lo.lowerExpr(p.Expr), Spec: p.Spec})
		} else {
			b.WriteString(p.Literal)
		}
	}
	return &Expr{Kind: ExprStringInterp, Type: e.Type, Span: e.Span, Data: StringInterpData{
		Template: b.String(), Args: args, IsPrintln: d.IsPrintln, IsPrint: d.IsPrint,
	}}
}
