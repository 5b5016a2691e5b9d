package loader_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/loader"
)

func writeModule(t *testing.T, dir, name, declName string) string {
	t.Helper()
	prog := ast.Program{Decls: []ast.Decl{{Kind: ast.DeclFunction, Name: declName}}}
	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"c.json", "a.json", "b.json"}
	var paths []string
	for i, n := range names {
		paths = append(paths, writeModule(t, dir, n, names[i]))
	}

	mods, err := loader.Load(context.Background(), paths, loader.Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(mods) != len(paths) {
		t.Fatalf("got %d modules, want %d", len(mods), len(paths))
	}
	for i, m := range mods {
		if m.Path != paths[i] {
			t.Fatalf("module %d out of order: got %s, want %s", i, m.Path, paths[i])
		}
		if len(m.Program.Decls) != 1 || m.Program.Decls[0].Name != names[i] {
			t.Fatalf("module %d content mismatch: %+v", i, m.Program)
		}
	}
}

func TestLoadReturnsErrorOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeModule(t, dir, "ok.json", "ok")
	missing := filepath.Join(dir, "does-not-exist.json")

	_, err := loader.Load(context.Background(), []string{good, missing}, loader.Options{})
	if err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestLoadEmptyPathsReturnsNil(t *testing.T) {
	mods, err := loader.Load(context.Background(), nil, loader.Options{})
	if err != nil || mods != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", mods, err)
	}
}
