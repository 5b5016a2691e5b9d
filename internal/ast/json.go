package ast

import (
	"encoding/json"
	"fmt"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// Expr/Stmt/Decl carry a closed-sum Data field typed as an interface, so
// they need explicit (Un)marshalJSON: encoding/json can't allocate a
// concrete value for a non-empty interface on its own, and the typed-AST
// JSON files internal/loader reads are produced and consumed only through
// these methods (spec.md §6 "typed AST ... as JSON").

type wireExpr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data json.RawMessage
}

func (e *Expr) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, fmt.Errorf("ast: marshal expr data (kind %d): %w", e.Kind, err)
	}
	return json.Marshal(wireExpr{Kind: e.Kind, Type: e.Type, Span: e.Span, Data: data})
}

func (e *Expr) UnmarshalJSON(b []byte) error {
	var w wireExpr
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	e.Kind = w.Kind
	e.Span = w.Span
	e.Type = w.Type

	var target ExprData
	switch w.Kind {
	case ExprLiteral:
		target = new(LiteralData)
	case ExprIdent:
		target = new(IdentData)
	case ExprEnumPath:
		target = new(EnumPathData)
	case ExprBinary:
		target = new(BinaryData)
	case ExprUnary:
		target = new(UnaryData)
	case ExprCall:
		target = new(CallData)
	case ExprIndex:
		target = new(IndexData)
	case ExprSlice:
		target = new(SliceData)
	case ExprMember:
		target = new(MemberData)
	case ExprTernary:
		target = new(TernaryData)
	case ExprMatch:
		target = new(MatchData)
	case ExprStructLit:
		target = new(StructLitData)
	case ExprArrayLit:
		target = new(ArrayLitData)
	case ExprSizeof:
		target = new(SizeofData)
	case ExprAlignof:
		target = new(AlignofData)
	case ExprTypeof:
		target = new(TypeofData)
	case ExprTypenameOf:
		target = new(TypenameOfData)
	case ExprCast:
		target = new(CastData)
	case ExprLambda:
		target = new(LambdaData)
	case ExprInterpString:
		target = new(InterpStringData)
	default:
		return fmt.Errorf("ast: unknown expr kind %d", w.Kind)
	}
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, target); err != nil {
			return fmt.Errorf("ast: unmarshal expr data (kind %d): %w", w.Kind, err)
		}
	}
	e.Data = derefExprData(target)
	return nil
}

// derefExprData unwraps the pointer json.Unmarshal populated back to the
// value type every isExprData() marker method is defined on, so Data holds
// the same concrete type Marshal was given.
func derefExprData(p ExprData) ExprData {
	switch v := p.(type) {
	case *LiteralData:
		return *v
	case *IdentData:
		return *v
	case *EnumPathData:
		return *v
	case *BinaryData:
		return *v
	case *UnaryData:
		return *v
	case *CallData:
		return *v
	case *IndexData:
		return *v
	case *SliceData:
		return *v
	case *MemberData:
		return *v
	case *TernaryData:
		return *v
	case *MatchData:
		return *v
	case *StructLitData:
		return *v
	case *ArrayLitData:
		return *v
	case *SizeofData:
		return *v
	case *AlignofData:
		return *v
	case *TypeofData:
		return *v
	case *TypenameOfData:
		return *v
	case *CastData:
		return *v
	case *LambdaData:
		return *v
	case *InterpStringData:
		return *v
	default:
		return p
	}
}

type wireStmt struct {
	Kind StmtKind
	Span source.Span
	Data json.RawMessage
}

func (s *Stmt) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("ast: marshal stmt data (kind %d): %w", s.Kind, err)
	}
	return json.Marshal(wireStmt{Kind: s.Kind, Span: s.Span, Data: data})
}

func (s *Stmt) UnmarshalJSON(b []byte) error {
	var w wireStmt
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Kind = w.Kind
	s.Span = w.Span

	var target StmtData
	switch w.Kind {
	case StmtLet:
		target = new(LetData)
	case StmtAssign:
		target = new(AssignData)
	case StmtReturn:
		target = new(ReturnData)
	case StmtIf:
		target = new(IfData)
	case StmtWhile:
		target = new(WhileData)
	case StmtFor:
		target = new(ForData)
	case StmtLoop:
		target = new(LoopData)
	case StmtSwitch:
		target = new(SwitchData)
	case StmtBreak:
		target = new(BreakData)
	case StmtContinue:
		target = new(ContinueData)
	case StmtBlock:
		target = new(BlockData)
	case StmtDefer:
		target = new(DeferData)
	case StmtAsm:
		target = new(AsmData)
	case StmtMust:
		target = new(MustData)
	case StmtExpr:
		target = new(ExprStmtData)
	default:
		return fmt.Errorf("ast: unknown stmt kind %d", w.Kind)
	}
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, target); err != nil {
			return fmt.Errorf("ast: unmarshal stmt data (kind %d): %w", w.Kind, err)
		}
	}
	s.Data = derefStmtData(target)
	return nil
}

func derefStmtData(p StmtData) StmtData {
	switch v := p.(type) {
	case *LetData:
		return *v
	case *AssignData:
		return *v
	case *ReturnData:
		return *v
	case *IfData:
		return *v
	case *WhileData:
		return *v
	case *ForData:
		return *v
	case *LoopData:
		return *v
	case *SwitchData:
		return *v
	case *BreakData:
		return *v
	case *ContinueData:
		return *v
	case *BlockData:
		return *v
	case *DeferData:
		return *v
	case *AsmData:
		return *v
	case *MustData:
		return *v
	case *ExprStmtData:
		return *v
	default:
		return p
	}
}

type wireDecl struct {
	Kind   DeclKind
	Name   string
	Export bool
	Span   source.Span
	Data   json.RawMessage
	Nested []Decl
}

func (d *Decl) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(d.Data)
	if err != nil {
		return nil, fmt.Errorf("ast: marshal decl data (kind %d, name %q): %w", d.Kind, d.Name, err)
	}
	return json.Marshal(wireDecl{
		Kind: d.Kind, Name: d.Name, Export: d.Export, Span: d.Span,
		Data: data, Nested: d.Nested,
	})
}

func (d *Decl) UnmarshalJSON(b []byte) error {
	var w wireDecl
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	d.Kind = w.Kind
	d.Name = w.Name
	d.Export = w.Export
	d.Span = w.Span
	d.Nested = w.Nested

	var target DeclData
	switch w.Kind {
	case DeclFunction:
		target = new(FunctionDecl)
	case DeclStruct:
		target = new(StructDecl)
	case DeclInterface:
		target = new(InterfaceDecl)
	case DeclImpl:
		target = new(ImplDecl)
	case DeclEnum:
		target = new(EnumDecl)
	case DeclTypedef:
		target = new(TypedefDecl)
	case DeclGlobalVar:
		target = new(GlobalVarDecl)
	case DeclImport:
		target = new(ImportDecl)
	case DeclExternBlock:
		target = new(ExternBlockDecl)
	case DeclNamespace:
		// no payload: children live in Nested.
		return nil
	case DeclMacro:
		target = new(MacroDecl)
	default:
		return fmt.Errorf("ast: unknown decl kind %d", w.Kind)
	}
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, target); err != nil {
			return fmt.Errorf("ast: unmarshal decl data (kind %d, name %q): %w", w.Kind, w.Name, err)
		}
	}
	d.Data = derefDeclData(target)
	return nil
}

func derefDeclData(p DeclData) DeclData {
	switch v := p.(type) {
	case *FunctionDecl:
		return *v
	case *StructDecl:
		return *v
	case *InterfaceDecl:
		return *v
	case *ImplDecl:
		return *v
	case *EnumDecl:
		return *v
	case *TypedefDecl:
		return *v
	case *GlobalVarDecl:
		return *v
	case *ImportDecl:
		return *v
	case *ExternBlockDecl:
		return *v
	case *MacroDecl:
		return *v
	default:
		return p
	}
}
