// Package hir implements the HIR node taxonomy and the AST→HIR lowering
// passes of spec.md §3/§4.2: namespace/import resolution, operator-syntax
// expansion, method-dispatch mangling, compile-time primitive expansion,
// string-interpolation rewriting, and match desugaring into ternary
// chains.
package hir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// ExprKind enumerates HIR expression kinds. `match` has no dedicated kind:
// spec.md §4.2 desugars every match expression into a ternary chain during
// HIR lowering, so by the time an Expr tree exists, ExprTernary is the only
// conditional-value node. Likewise sizeof/alignof/typeof/typename-of never
// survive into HIR — they fold to ExprLiteral at lower-time.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprVarRef
	ExprUnaryOp
	ExprBinaryOp
	ExprCall
	ExprFieldAccess
	ExprIndex
	ExprSlice
	ExprStructLit
	ExprArrayLit
	ExprTernary
	ExprCast
	ExprEnumConstruct
	ExprEnumPayload
	ExprStringInterp
	ExprLambda
)

func (k ExprKind) String() string {
	names := [...]string{
		"Literal", "VarRef", "UnaryOp", "BinaryOp", "Call", "FieldAccess",
		"Index", "Slice", "StructLit", "ArrayLit", "Ternary", "Cast",
		"EnumConstruct", "EnumPayload", "StringInterp", "Lambda",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Expr is a typed, span-tagged HIR expression node.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

type ExprData interface{ isExprData() }

type LiteralKind uint8

const (
	LitBool LiteralKind = iota
	LitChar
	LitInt
	LitFloat
	LitDouble
	LitString
)

type LiteralData struct {
	Kind     LiteralKind
	Bool     bool
	Char     rune
	Int      int64
	Unsigned bool
	Float64  float64
	Str      string
}

func (LiteralData) isExprData() {}

// VarRefData is a resolved reference to a local/param/global/function.
type VarRefData struct {
	Name         string
	IsFunctionRef bool
	IsClosure     bool
	// ImplicitSelf records that the bare name failed local/global/function
	// resolution and was rewritten to `self.<name>` (spec.md §4.2/§9).
	ImplicitSelf bool
}

func (VarRefData) isExprData() {}

type UnaryOp = ast.UnaryOp

const (
	OpNeg     = ast.OpNeg
	OpNot     = ast.OpNot
	OpAddr    = ast.OpAddr
	OpDeref   = ast.OpDeref
	OpPreInc  = ast.OpPreInc
	OpPreDec  = ast.OpPreDec
	OpPostInc = ast.OpPostInc
	OpPostDec = ast.OpPostDec
)

type UnaryOpData struct {
	Op      UnaryOp
	Operand *Expr
}

func (UnaryOpData) isExprData() {}

type BinaryOp = ast.BinaryOp

const (
	OpAdd    = ast.OpAdd
	OpSub    = ast.OpSub
	OpMul    = ast.OpMul
	OpDiv    = ast.OpDiv
	OpMod    = ast.OpMod
	OpEq     = ast.OpEq
	OpNe     = ast.OpNe
	OpLt     = ast.OpLt
	OpLe     = ast.OpLe
	OpGt     = ast.OpGt
	OpGe     = ast.OpGe
	OpAnd    = ast.OpAnd
	OpOr     = ast.OpOr
	OpBitAnd = ast.OpBitAnd
	OpBitOr  = ast.OpBitOr
	OpBitXor = ast.OpBitXor
	OpShl    = ast.OpShl
	OpShr    = ast.OpShr
)

type BinaryOpData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryOpData) isExprData() {}

// CallData is a resolved call. Interface/virtual dispatch is not decided in
// HIR — it is decided by MIR expression lowering (§4.4) by inspecting the
// first argument's declared type, so CallData carries only the plain
// direct-call shape; builtin-name rewriting (e.g. `arr.forEach(f)` →
// `__builtin_array_forEach(...)`) has already happened by the time a CallData
// reaches MIR.
type CallData struct {
	FuncName   string
	Func       *Expr
	Args       []*Expr
	IsIndirect bool
}

func (CallData) isExprData() {}

type FieldAccessData struct {
	Object    *Expr
	FieldName string
	FieldIdx  int
}

func (FieldAccessData) isExprData() {}

type IndexData struct {
	Object *Expr
	Index  *Expr
	// Indices collects consecutive index applications of a[i][j][k] so the
	// lvalue-place builder can collapse them into one place with multiple
	// index projections (spec.md §4.5, §9 "Multi-dim index collapsing").
	Indices []*Expr
}

func (IndexData) isExprData() {}

type SliceData struct {
	Object *Expr
	Start  *Expr
	End    *Expr
	Step   *Expr
}

func (SliceData) isExprData() {}

type StructLitField struct {
	Name  string
	Value *Expr
}

type StructLitData struct {
	TypeName string
	Fields   []StructLitField
}

func (StructLitData) isExprData() {}

type ArrayLitData struct{ Elements []*Expr }

func (ArrayLitData) isExprData() {}

type TernaryData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (TernaryData) isExprData() {}

type CastData struct {
	Operand *Expr
	Target  types.TypeID
}

func (CastData) isExprData() {}

// EnumConstructData builds a tagged-union value for a payload-bearing enum
// variant, or folds to a plain int literal at use time when the variant
// carries no payload (spec.md §4.1/§4.2).
type EnumConstructData struct {
	EnumName    string
	VariantName string
	Tag         int64
	Args        []*Expr
}

func (EnumConstructData) isExprData() {}

// EnumPayloadData extracts one payload field from a tagged-union value.
type EnumPayloadData struct {
	Scrutinee   *Expr
	VariantName string
	FieldIndex  int
}

func (EnumPayloadData) isExprData() {}

// InterpArg is one resolved placeholder inside an interpolated string.
type InterpArg struct {
	Value *Expr
	Spec  string // retained format spec text after ':', "" if absent
}

// StringInterpData holds a scanned interpolation literal: Template has
// every `{...}` placeholder replaced by a bare `{}` (escaped `{{`/`}}`
// collapsed to a literal brace), and Args holds the resolved expression for
// each placeholder in left-to-right order (spec.md §4.4).
type StringInterpData struct {
	Template string
	Args     []InterpArg
	// IsPrintln/IsPrint mark that this interpolation is the sole argument
	// to println/print, which route through the _format runtime entries
	// directly instead of materializing an intermediate string (§4.4).
	IsPrintln bool
	IsPrint   bool
}

func (StringInterpData) isExprData() {}

type LambdaParam struct {
	Name string
	Type types.TypeID
}

type LambdaData struct {
	Params []LambdaParam
	Result types.TypeID
	Body   []Stmt
}

func (LambdaData) isExprData() {}
