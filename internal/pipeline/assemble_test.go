package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/loader"
	"github.com/shadowlink0122/Cm-sub000/internal/pipeline"
	"github.com/shadowlink0122/Cm-sub000/internal/trace"
)

// writeTypedAST writes a single-function module ("fn main() -> int {
// return 1; }") the way an external typechecker would hand typed-AST JSON
// to cmlower (spec.md §6).
func writeTypedAST(t *testing.T) string {
	t.Helper()
	prog := ast.Program{
		Decls: []ast.Decl{
			{
				Kind:   ast.DeclFunction,
				Name:   "main",
				Export: true,
				Data: ast.FunctionDecl{
					Body: []ast.Stmt{
						{Kind: ast.StmtReturn, Data: ast.ReturnData{
							Value: &ast.Expr{Kind: ast.ExprLiteral, Data: ast.LiteralData{Kind: ast.LitInt, Int: 1}},
						}},
					},
				},
			},
		},
	}
	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("marshal typed AST: %v", err)
	}
	path := filepath.Join(t.TempDir(), "main.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write typed AST: %v", err)
	}
	return path
}

func TestAssembleEndToEnd(t *testing.T) {
	path := writeTypedAST(t)
	ring := trace.NewRing(64)

	res, err := pipeline.Assemble(context.Background(), []string{path}, loader.Options{Jobs: 1}, ring, true)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.ValidationErrors) != 0 {
		t.Fatalf("unexpected validation errors: %v", res.ValidationErrors)
	}

	f := res.Program.FuncNamed("main")
	if f == nil {
		t.Fatal("expected a lowered \"main\" function")
	}
	if f.Entry < 0 || int(f.Entry) >= len(f.Blocks) {
		t.Fatalf("invalid entry block %d (have %d blocks)", f.Entry, len(f.Blocks))
	}

	// Every pipeline stage must have recorded a begin/end pair.
	seen := map[string]int{}
	for _, ev := range ring.Snapshot() {
		seen[ev.Phase]++
	}
	for _, phase := range []string{"load", "hir-lower", "mir-lower", "monomorphize", "verify"} {
		if seen[phase] != 2 {
			t.Fatalf("phase %q: expected 2 trace events (begin+end), got %d", phase, seen[phase])
		}
	}
}

func TestAssemblePropagatesLoadErrors(t *testing.T) {
	ring := trace.NewRing(16)
	_, err := pipeline.Assemble(context.Background(), []string{filepath.Join(t.TempDir(), "missing.json")}, loader.Options{}, ring, true)
	if err == nil {
		t.Fatal("expected an error for a missing typed-AST file")
	}
}

func TestAssembleSkipsMonomorphizeWhenNotRequested(t *testing.T) {
	path := writeTypedAST(t)
	ring := trace.NewRing(64)

	res, err := pipeline.Assemble(context.Background(), []string{path}, loader.Options{Jobs: 1}, ring, false)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Program.FuncNamed("main") == nil {
		t.Fatal("expected a lowered \"main\" function even without monomorphizing")
	}

	for _, ev := range ring.Snapshot() {
		if ev.Phase == "monomorphize" {
			t.Fatal("monomorphize phase must not run when monomorphize=false")
		}
	}
}
