package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

func TestExprRoundTripNested(t *testing.T) {
	one := &ast.Expr{Kind: ast.ExprLiteral, Type: types.TypeID(1), Data: ast.LiteralData{Kind: ast.LitInt, Int: 1}}
	two := &ast.Expr{Kind: ast.ExprLiteral, Type: types.TypeID(1), Data: ast.LiteralData{Kind: ast.LitInt, Int: 2}}
	sum := &ast.Expr{Kind: ast.ExprBinary, Type: types.TypeID(1), Data: ast.BinaryData{Op: ast.OpAdd, Left: one, Right: two}}

	data, err := json.Marshal(sum)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got ast.Expr
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(*sum, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclRoundTripFunctionWithBody(t *testing.T) {
	ret := ast.Stmt{Kind: ast.StmtReturn, Data: ast.ReturnData{
		Value: &ast.Expr{Kind: ast.ExprLiteral, Data: ast.LiteralData{Kind: ast.LitInt, Int: 1}},
	}}
	decl := ast.Decl{
		Kind:   ast.DeclFunction,
		Name:   "main",
		Export: true,
		Data: ast.FunctionDecl{
			Result: types.TypeID(5),
			Body:   []ast.Stmt{ret},
		},
	}

	data, err := json.Marshal(decl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got ast.Decl
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(decl, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramRoundTripPreservesNamespaceNesting(t *testing.T) {
	prog := ast.Program{
		Decls: []ast.Decl{
			{
				Kind: ast.DeclNamespace,
				Name: "io",
				Nested: []ast.Decl{
					{Kind: ast.DeclFunction, Name: "helper", Data: ast.FunctionDecl{Result: types.TypeID(2)}},
				},
			},
		},
	}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got ast.Program
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(prog, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
