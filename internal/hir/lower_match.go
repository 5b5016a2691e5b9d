package hir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// lowerMatch desugars `match scrutinee { arms... }` into a right-associated
// ternary chain, per spec.md §4.2 and the §8 testable scenario that a match
// over a boolean-like pattern set compiles straight to
// `ternary(cond, then, else)`. A pattern's bound name (PatVariable, or the
// payload name of a PatEnumVariant arm) is never turned into a new HIR
// binding form — it is resolved by substituting every reference to it in
// the arm's guard and body with the corresponding scrutinee (sub-)
// expression once that arm has been lowered.
func (lo *Lowerer) lowerMatch(d ast.MatchData, resultType types.TypeID, span source.Span) *Expr {
	scrutinee := lo.lowerExpr(d.Scrutinee)
	return lo.lowerMatchArms(scrutinee, d.Arms, resultType, span)
}

func (lo *Lowerer) lowerMatchArms(scrutinee *Expr, arms []ast.MatchArm, resultType types.TypeID, span source.Span) *Expr {
	if len(arms) == 0 {
		// No arm matched and the typechecker accepted the match as
		// exhaustive-at-this-point anyway (e.g. an open wildcard tail was
		// already consumed); fall back to the type's zero literal.
		return &Expr{Kind: ExprLiteral, Type: resultType, Span: span, Data: LiteralData{}}
	}
	arm := arms[0]
	cond := lo.patternCond(scrutinee, arm.Pattern, span)

	var bound *Expr
	boundName := arm.Pattern.Name
	switch arm.Pattern.Kind {
	case ast.PatVariable:
		bound = scrutinee
	case ast.PatEnumVariant:
		if boundName != "" {
			bound = &Expr{Kind: ExprEnumPayload, Type: resultType, Span: span, Data: EnumPayloadData{
				Scrutinee: scrutinee, VariantName: arm.Pattern.Variant, FieldIndex: 0,
			}}
		}
	default:
		boundName = ""
	}

	lo.pushLocal(boundName)
	body := lo.lowerExpr(arm.Body)
	var guard *Expr
	if arm.Guard != nil {
		guard = lo.lowerExpr(arm.Guard)
	}
	lo.popLocal(boundName)

	if boundName != "" {
		body = substituteVarRef(body, boundName, bound)
		guard = substituteVarRef(guard, boundName, bound)
	}
	if guard != nil {
		cond = &Expr{Kind: ExprBinaryOp, Type: lo.Types.Builtins().Bool, Span: span, Data: BinaryOpData{Op: OpAnd, Left: cond, Right: guard}}
	}

	elseExpr := lo.lowerMatchArms(scrutinee, arms[1:], resultType, span)
	return &Expr{Kind: ExprTernary, Type: resultType, Span: span, Data: TernaryData{Cond: cond, Then: body, Else: elseExpr}}
}

// patternCond builds the boolean condition a match arm's pattern reduces
// to. PatEnumVariant compares a synthetic `__tag` field projection of the
// scrutinee against the variant's registered tag, mirroring how MIR later
// projects the tag field of a tagged-union place (spec.md §4.1).
func (lo *Lowerer) patternCond(scrutinee *Expr, pat ast.Pattern, span source.Span) *Expr {
	boolT := lo.Types.Builtins().Bool
	switch pat.Kind {
	case ast.PatLiteral:
		lit := lo.lowerExpr(pat.Literal)
		return &Expr{Kind: ExprBinaryOp, Type: boolT, Span: span, Data: BinaryOpData{Op: OpEq, Left: scrutinee, Right: lit}}
	case ast.PatEnumVariant:
		tag := lo.Table.EnumValues[pat.Enum+"::"+pat.Variant]
		longT := lo.Types.Builtins().Long
		tagField := &Expr{Kind: ExprFieldAccess, Type: longT, Span: span, Data: FieldAccessData{Object: scrutinee, FieldName: "__tag", FieldIdx: -1}}
		tagLit := &Expr{Kind: ExprLiteral, Type: longT, Span: span, Data: LiteralData{Kind: LitInt, Int: tag}}
		return &Expr{Kind: ExprBinaryOp, Type: boolT, Span: span, Data: BinaryOpData{Op: OpEq, Left: tagField, Right: tagLit}}
	default: // PatVariable, PatWildcard: always matches, only binds a name
		return &Expr{Kind: ExprLiteral, Type: boolT, Span: span, Data: LiteralData{Kind: LitBool, Bool: true}}
	}
}

func (lo *Lowerer) pushLocal(name string) {
	if name == "" {
		return
	}
	if lo.locals == nil {
		lo.locals = map[string]bool{}
	}
	lo.locals[name] = true
}

func (lo *Lowerer) popLocal(name string) {
	if name == "" || lo.locals == nil {
		return
	}
	delete(lo.locals, name)
}

// substituteVarRef deep-copies e, replacing every non-function VarRef named
// name with repl. Used to resolve match-arm pattern bindings (see
// lowerMatchArms) without introducing a dedicated HIR let-binding node.
func substituteVarRef(e *Expr, name string, repl *Expr) *Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprVarRef:
		d := e.Data.(VarRefData)
		if d.Name == name && !d.IsFunctionRef {
			return repl
		}
		return e
	case ExprUnaryOp:
		d := e.Data.(UnaryOpData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: UnaryOpData{Op: d.Op, Operand: substituteVarRef(d.Operand, name, repl)}}
	case ExprBinaryOp:
		d := e.Data.(BinaryOpData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: BinaryOpData{
			Op: d.Op, Left: substituteVarRef(d.Left, name, repl), Right: substituteVarRef(d.Right, name, repl),
		}}
	case ExprCall:
		d := e.Data.(CallData)
		args := make([]*Expr, len(d.Args))
		for i, a := range d.Args {
			args[i] = substituteVarRef(a, name, repl)
		}
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: CallData{
			FuncName: d.FuncName, Func: substituteVarRef(d.Func, name, repl), Args: args, IsIndirect: d.IsIndirect,
		}}
	case ExprFieldAccess:
		d := e.Data.(FieldAccessData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: FieldAccessData{
			Object: substituteVarRef(d.Object, name, repl), FieldName: d.FieldName, FieldIdx: d.FieldIdx,
		}}
	case ExprIndex:
		d := e.Data.(IndexData)
		indices := make([]*Expr, len(d.Indices))
		for i, ix := range d.Indices {
			indices[i] = substituteVarRef(ix, name, repl)
		}
		var first *Expr
		if len(indices) > 0 {
			first = indices[0]
		}
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: IndexData{
			Object: substituteVarRef(d.Object, name, repl), Index: first, Indices: indices,
		}}
	case ExprSlice:
		d := e.Data.(SliceData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: SliceData{
			Object: substituteVarRef(d.Object, name, repl), Start: substituteVarRef(d.Start, name, repl),
			End: substituteVarRef(d.End, name, repl), Step: substituteVarRef(d.Step, name, repl),
		}}
	case ExprStructLit:
		d := e.Data.(StructLitData)
		fields := make([]StructLitField, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = StructLitField{Name: f.Name, Value: substituteVarRef(f.Value, name, repl)}
		}
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: StructLitData{TypeName: d.TypeName, Fields: fields}}
	case ExprArrayLit:
		d := e.Data.(ArrayLitData)
		elems := make([]*Expr, len(d.Elements))
		for i, el := range d.Elements {
			elems[i] = substituteVarRef(el, name, repl)
		}
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: ArrayLitData{Elements: elems}}
	case ExprTernary:
		d := e.Data.(TernaryData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: TernaryData{
			Cond: substituteVarRef(d.Cond, name, repl), Then: substituteVarRef(d.Then, name, repl), Else: substituteVarRef(d.Else, name, repl),
		}}
	case ExprCast:
		d := e.Data.(CastData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: CastData{Operand: substituteVarRef(d.Operand, name, repl), Target: d.Target}}
	case ExprEnumConstruct:
		d := e.Data.(EnumConstructData)
		args := make([]*Expr, len(d.Args))
		for i, a := range d.Args {
			args[i] = substituteVarRef(a, name, repl)
		}
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: EnumConstructData{
			EnumName: d.EnumName, VariantName: d.VariantName, Tag: d.Tag, Args: args,
		}}
	case ExprEnumPayload:
		d := e.Data.(EnumPayloadData)
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: EnumPayloadData{
			Scrutinee: substituteVarRef(d.Scrutinee, name, repl), VariantName: d.VariantName, FieldIndex: d.FieldIndex,
		}}
	case ExprStringInterp:
		d := e.Data.(StringInterpData)
		args := make([]InterpArg, len(d.Args))
		for i, a := range d.Args {
			args[i] = InterpArg{Value: substituteVarRef(a.Value, name, repl), Spec: a.Spec}
		}
		return &Expr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: StringInterpData{
			Template: d.Template, Args: args, IsPrintln: d.IsPrintln, IsPrint: d.IsPrint,
		}}
	default:
		return e
	}
}
