package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/hir"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

var binOpTable = map[hir.BinaryOp]BinOp{
	hir.OpAdd: BinAdd, hir.OpSub: BinSub, hir.OpMul: BinMul, hir.OpDiv: BinDiv, hir.OpMod: BinMod,
	hir.OpEq: BinEq, hir.OpNe: BinNe, hir.OpLt: BinLt, hir.OpLe: BinLe, hir.OpGt: BinGt, hir.OpGe: BinGe,
	hir.OpBitAnd: BinBitAnd, hir.OpBitOr: BinBitOr, hir.OpBitXor: BinBitXor, hir.OpShl: BinShl, hir.OpShr: BinShr,
}

// lowerExpr is the central recursive expression-lowering function of
// spec.md §4.4: it walks one hir.Expr and returns the Operand that names
// its value, materializing temporaries and emitting instructions into the
// current block as needed.
func (lo *Lowering) lowerExpr(e *hir.Expr) Operand {
	switch e.Kind {
	case hir.ExprLiteral:
		return lo.lowerLiteral(e)
	case hir.ExprVarRef:
		return lo.lowerVarRef(e)
	case hir.ExprUnaryOp:
		return lo.lowerUnary(e)
	case hir.ExprBinaryOp:
		return lo.lowerBinary(e)
	case hir.ExprCall:
		return lo.lowerCall(e)
	case hir.ExprFieldAccess:
		return lo.readPlace(lo.buildPlace(e), e.Type)
	case hir.ExprIndex:
		return lo.readPlace(lo.buildPlace(e), e.Type)
	case hir.ExprSlice:
		return lo.lowerSlice(e)
	case hir.ExprStructLit:
		return lo.lowerStructLit(e)
	case hir.ExprArrayLit:
		return lo.lowerArrayLit(e)
	case hir.ExprTernary:
		return lo.lowerTernary(e)
	case hir.ExprCast:
		return lo.lowerCast(e)
	case hir.ExprEnumConstruct:
		return lo.lowerEnumConstruct(e)
	case hir.ExprEnumPayload:
		return lo.lowerEnumPayload(e)
	case hir.ExprStringInterp:
		return lo.lowerStringInterp(e)
	case hir.ExprLambda:
		return lo.lowerLambda(e)
	}
	return Operand{Kind: OperandConst, Type: e.Type, Const: Const{Kind: ConstVoid}}
}

func (lo *Lowering) lowerLiteral(e *hir.Expr) Operand {
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
	return Operand{Kind: OperandConst, Type: e.Type, Const: c}
}

func (lo *Lowering) lowerVarRef(e *hir.Expr) Operand {
	d := e.Data.(hir.VarRefData)
	if d.IsFunctionRef {
		return Operand{Kind: OperandConst, Type: e.Type, Const: Const{Kind: ConstFuncRef, FuncName: d.Name}}
	}
	return lo.readPlace(lo.buildPlace(e), e.Type)
}

// readPlace reads a place's current value by copy. A Root==NoLocalID place
// names a global (see lower_place.go); everything else is a local read.
func (lo *Lowering) readPlace(p Place, t types.TypeID) Operand {
	return Operand{Kind: OperandCopy, Type: t, Place: p}
}

func (lo *Lowering) lowerUnary(e *hir.Expr) Operand {
	d := e.Data.(hir.UnaryOpData)
	switch d.Op {
	case hir.OpAddr:
		place := lo.buildPlace(d.Operand)
		val := lo.readPlace(place, d.Operand.Type)
		id := lo.b.newTemp(Local{Type: e.Type})
		lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueUnary, Unary: struct {
			Op  UnOp
			Val Operand
		}{Op: UnAddr, Val: val}})
		return lo.readPlace(RootPlace(id), e.Type)

	case hir.OpDeref:
		return lo.readPlace(lo.buildPlace(e), e.Type)

	case hir.OpPreInc, hir.OpPreDec, hir.OpPostInc, hir.OpPostDec:
		return lo.lowerIncDec(e, d)

	default: // OpNeg, OpNot
		val := lo.lowerExpr(d.Operand)
		op := UnNeg
		if d.Op == hir.OpNot {
			op = UnNot
		}
		id := lo.b.newTemp(Local{Type: e.Type})
		lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueUnary, Unary: struct {
			Op  UnOp
			Val Operand
		}{Op: op, Val: val}})
		return lo.readPlace(RootPlace(id), e.Type)
	}
}

// lowerIncDec desugars pre/post inc/dec into an explicit read-modify-write
// over a place built exactly once (spec.md §4.4/§9).
func (lo *Lowering) lowerIncDec(e *hir.Expr, d hir.UnaryOpData) Operand {
	place := lo.buildPlace(d.Operand)
	old := lo.readPlace(place, e.Type)
	oldID := lo.materializeToLocal(old)

	one := Operand{Kind: OperandConst, Type: e.Type, Const: Const{Kind: ConstInt, Int: 1}}
	op := BinAdd
	if d.Op == hir.OpPreDec || d.Op == hir.OpPostDec {
		op = BinSub
	}
	newID := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(newID), RValue{Kind: RValueBinary, Binary: struct {
		Op          BinOp
		Left, Right Operand
	}{Op: op, Left: lo.readPlace(RootPlace(oldID), e.Type), Right: one}})
	lo.b.emitAssign(lo.cur, place, RValue{Kind: RValueUse, Use: lo.readPlace(RootPlace(newID), e.Type)})

	if d.Op == hir.OpPreInc || d.Op == hir.OpPreDec {
		return lo.readPlace(RootPlace(newID), e.Type)
	}
	return lo.readPlace(RootPlace(oldID), e.Type)
}

func (lo *Lowering) lowerBinary(e *hir.Expr) Operand {
	d := e.Data.(hir.BinaryOpData)
	if d.Op == hir.OpAnd || d.Op == hir.OpOr {
		return lo.lowerShortCircuit(e, d)
	}
	left := lo.lowerExpr(d.Left)
	right := lo.lowerExpr(d.Right)
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueBinary, Binary: struct {
		Op          BinOp
		Left, Right Operand
	}{Op: binOpTable[d.Op], Left: left, Right: right}})
	return lo.readPlace(RootPlace(id), e.Type)
}

// lowerShortCircuit builds the 3-block diamond for `&&`/`||`: evaluate the
// left operand; only evaluate the right operand along the branch where it
// can change the result.
func (lo *Lowering) lowerShortCircuit(e *hir.Expr, d hir.BinaryOpData) Operand {
	result := lo.b.newTemp(Local{Type: e.Type})
	left := lo.lowerExpr(d.Left)

	rhsBlock := lo.b.newBlock()
	joinBlock := lo.b.newBlock()
	shortBlock := lo.b.newBlock()

	if d.Op == hir.OpAnd {
		lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: left, Then: rhsBlock, Else: shortBlock}})
	} else {
		lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: left, Then: shortBlock, Else: rhsBlock}})
	}

	lo.cur = shortBlock
	lo.b.emitAssign(lo.cur, RootPlace(result), RValue{Kind: RValueUse, Use: Operand{Kind: OperandConst, Type: e.Type, Const: Const{Kind: ConstBool, Bool: d.Op == hir.OpOr}}})
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBlock}})

	lo.cur = rhsBlock
	right := lo.lowerExpr(d.Right)
	lo.b.emitAssign(lo.cur, RootPlace(result), RValue{Kind: RValueUse, Use: right})
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBlock}})

	lo.cur = joinBlock
	return lo.readPlace(RootPlace(result), e.Type)
}

func (lo *Lowering) lowerCall(e *hir.Expr) Operand {
	d := e.Data.(hir.CallData)

	if d.IsIndirect {
		fn := lo.lowerExpr(d.Func)
		args := lo.lowerArgs(d.Args)
		return lo.emitCallResult(e.Type, Callee{Kind: CalleeIndirect, Value: fn}, args)
	}

	args := lo.lowerArgs(d.Args)

	if len(args) > 0 {
		recv, ok := lo.Types.Lookup(d.Args[0].Type)
		if ok && recv.Kind == types.KindInterface {
			if base, method, isMethod := splitTypeMethod(d.FuncName); isMethod {
				_ = base
				ifaceName := lo.Types.String(d.Args[0].Type)
				if iface := lo.prog.InterfaceByName[ifaceName]; iface != nil {
					slot := -1
					for _, m := range iface.Methods {
						if m.Name == method {
							slot = m.Index
							break
						}
					}
					if slot >= 0 {
						callee := Callee{Kind: CalleeVTable, Value: args[0], Slot: slot}
						return lo.emitCallResult(e.Type, callee, args)
					}
				}
			}
		}
	}

	return lo.emitCallResult(e.Type, Callee{Kind: CalleeDirect, Name: d.FuncName}, args)
}

// splitTypeMethod undoes symbols.MangleMethod's "Type__method" scheme,
// used only to recover the method name for interface vtable lookup.
func splitTypeMethod(mangled string) (typeName, method string, ok bool) {
	for i := 0; i+1 < len(mangled); i++ {
		if mangled[i] == '_' && mangled[i+1] == '_' {
			return mangled[:i], mangled[i+2:], true
		}
	}
	return "", "", false
}

func (lo *Lowering) lowerArgs(exprs []*hir.Expr) []Operand {
	out := make([]Operand, len(exprs))
	for i, a := range exprs {
		out[i] = lo.lowerExpr(a)
	}
	return out
}

func (lo *Lowering) emitCallResult(resultType types.TypeID, callee Callee, args []Operand) Operand {
	builtins := lo.Types.Builtins()
	if resultType == builtins.Void || resultType == types.NoTypeID {
		lo.b.emitCall(lo.cur, callee, args)
		return Operand{Kind: OperandConst, Type: builtins.Void, Const: Const{Kind: ConstVoid}}
	}
	id := lo.b.newTemp(Local{Type: resultType})
	lo.b.emitCallAssign(lo.cur, RootPlace(id), callee, args)
	return lo.readPlace(RootPlace(id), resultType)
}

func (lo *Lowering) lowerSlice(e *hir.Expr) Operand {
	d := e.Data.(hir.SliceData)
	obj := lo.lowerExpr(d.Object)
	args := []Operand{obj}
	if d.Start != nil {
		args = append(args, lo.lowerExpr(d.Start))
	}
	if d.End != nil {
		args = append(args, lo.lowerExpr(d.End))
	}
	if d.Step != nil {
		args = append(args, lo.lowerExpr(d.Step))
	}
	return lo.emitCallResult(e.Type, Callee{Kind: CalleeDirect, Name: "cm_slice_make"}, args)
}

func (lo *Lowering) lowerStructLit(e *hir.Expr) Operand {
	d := e.Data.(hir.StructLitData)
	fields := make([]StructLitField, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = StructLitField{Idx: i, Value: lo.lowerExpr(f.Value)}
	}
	// The temp holding a struct-literal rvalue is not itself registered for
	// destruction: ownership (and the destructor obligation) transfers to
	// whichever named local the literal is ultimately assigned into
	// (StmtLet / parameter binding already register those).
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueStructLit, StructLit: struct {
		Type   types.TypeID
		Fields []StructLitField
	}{Type: e.Type, Fields: fields}})
	return lo.readPlace(RootPlace(id), e.Type)
}

func (lo *Lowering) lowerArrayLit(e *hir.Expr) Operand {
	d := e.Data.(hir.ArrayLitData)
	elems := lo.lowerArgs(d.Elements)
	elemType := types.NoTypeID
	if len(d.Elements) > 0 {
		elemType = d.Elements[0].Type
	}
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueArrayLit, ArrayLit: struct {
		Elem  types.TypeID
		Elems []Operand
	}{Elem: elemType, Elems: elems}})
	return lo.readPlace(RootPlace(id), e.Type)
}

// lowerTernary builds the 3-block diamond for a conditional-value
// expression; match arms reach here already desugared by HIR (spec.md
// §4.2).
func (lo *Lowering) lowerTernary(e *hir.Expr) Operand {
	d := e.Data.(hir.TernaryData)
	cond := lo.lowerExpr(d.Cond)
	result := lo.b.newTemp(Local{Type: e.Type})

	thenBlock := lo.b.newBlock()
	elseBlock := lo.b.newBlock()
	joinBlock := lo.b.newBlock()
	lo.b.terminate(lo.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: thenBlock, Else: elseBlock}})

	lo.cur = thenBlock
	thenVal := lo.lowerExpr(d.Then)
	lo.b.emitAssign(lo.cur, RootPlace(result), RValue{Kind: RValueUse, Use: thenVal})
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBlock}})

	lo.cur = elseBlock
	elseVal := lo.lowerExpr(d.Else)
	lo.b.emitAssign(lo.cur, RootPlace(result), RValue{Kind: RValueUse, Use: elseVal})
	lo.b.terminate(lo.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBlock}})

	lo.cur = joinBlock
	return lo.readPlace(RootPlace(result), e.Type)
}

func (lo *Lowering) lowerCast(e *hir.Expr) Operand {
	d := e.Data.(hir.CastData)
	val := lo.lowerExpr(d.Operand)
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueCast, Cast: struct {
		Val    Operand
		Target types.TypeID
	}{Val: val, Target: d.Target}})
	return lo.readPlace(RootPlace(id), e.Type)
}

func (lo *Lowering) lowerEnumConstruct(e *hir.Expr) Operand {
	d := e.Data.(hir.EnumConstructData)
	args := lo.lowerArgs(d.Args)
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueEnumConstruct, EnumConstruct: struct {
		EnumName, VariantName string
		Tag                   int64
		Args                  []Operand
	}{EnumName: d.EnumName, VariantName: d.VariantName, Tag: d.Tag, Args: args}})
	return lo.readPlace(RootPlace(id), e.Type)
}

func (lo *Lowering) lowerEnumPayload(e *hir.Expr) Operand {
	d := e.Data.(hir.EnumPayloadData)
	val := lo.lowerExpr(d.Scrutinee)
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueEnumPayload, EnumPayload: struct {
		Value      Operand
		FieldIndex int
	}{Value: val, FieldIndex: d.FieldIndex}})
	return lo.readPlace(RootPlace(id), e.Type)
}

// lowerStringInterp emits the cm_format_string/cm_println_format/
// cm_print_format runtime call spec.md §4.4 names for interpolated
// strings, materializing every placeholder argument first.
func (lo *Lowering) lowerStringInterp(e *hir.Expr) Operand {
	d := e.Data.(hir.StringInterpData)
	args := make([]Operand, len(d.Args))
	for i, a := range d.Args {
		args[i] = lo.lowerExpr(a.Value)
	}
	if d.IsPrintln || d.IsPrint {
		name := "cm_print_format"
		if d.IsPrintln {
			name = "cm_println_format"
		}
		templateArg := Operand{Kind: OperandConst, Const: Const{Kind: ConstString, Str: d.Template}}
		lo.b.emitCall(lo.cur, Callee{Kind: CalleeDirect, Name: name}, append([]Operand{templateArg}, args...))
		return Operand{Kind: OperandConst, Type: lo.Types.Builtins().Void, Const: Const{Kind: ConstVoid}}
	}
	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueFormatCall, FormatCall: struct {
		Template string
		Args     []Operand
		Println  bool
		Print    bool
	}{Template: d.Template, Args: args}})
	return lo.readPlace(RootPlace(id), e.Type)
}

// lowerLambda lifts a lambda body into its own Func (registered on the
// enclosing Program) and returns a reference to it; capture analysis is
// out of scope (spec.md Non-goals: no heap-allocated closures), so a
// lambda may only use its own parameters.
func (lo *Lowering) lowerLambda(e *hir.Expr) Operand {
	d := e.Data.(hir.LambdaData)
	name := lambdaName(len(lo.prog.Funcs))

	inner := &Lowering{Types: lo.Types, Table: lo.Table, Diags: lo.Diags, prog: lo.prog, globals: lo.globals}
	inner.b = newBuilder(name, e.Span)
	inner.pushScope()
	for _, p := range d.Params {
		id := inner.b.newLocal(Local{Name: p.Name, Type: p.Type, IsParam: true})
		inner.bind(p.Name, id)
		inner.b.f.Params = append(inner.b.f.Params, Param{Local: id, Name: p.Name, Type: p.Type})
	}
	inner.b.f.Result = d.Result
	entry := inner.b.newBlock()
	inner.cur = entry
	inner.lowerStmts(d.Body)
	if !inner.b.f.Block(inner.cur).Terminated() {
		inner.emitCleanupsAll()
		inner.b.terminate(inner.cur, Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: false}})
	}
	inner.popScope()
	lo.prog.AddFunc(inner.b.finish())

	id := lo.b.newTemp(Local{Type: e.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueLambdaRef, LambdaRef: struct{ FuncName string }{FuncName: name}})
	return lo.readPlace(RootPlace(id), e.Type)
}

func lambdaName(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "$lambda0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n%10]
		n /= 10
	}
	return "$lambda" + string(buf[i:])
}
