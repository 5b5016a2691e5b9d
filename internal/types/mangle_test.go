package types_test

import (
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

func TestMangleAppendsTypeArgs(t *testing.T) {
	ti := types.NewInterner(nil)
	got := ti.Mangle("Pair", []types.TypeID{ti.Builtins().Int, ti.Builtins().String})
	want := "Pair__" + ti.String(ti.Builtins().Int) + "__" + ti.String(ti.Builtins().String)
	if got != want {
		t.Fatalf("Mangle: got %q, want %q", got, want)
	}
}

func TestMangleNoArgsReturnsBase(t *testing.T) {
	ti := types.NewInterner(nil)
	if got := ti.Mangle("Pair", nil); got != "Pair" {
		t.Fatalf("Mangle with no args: got %q", got)
	}
}

func TestMangleAvoidsDoubleMangling(t *testing.T) {
	ti := types.NewInterner(nil)
	already := "Pair__int__string"
	if got := ti.Mangle(already, []types.TypeID{ti.Builtins().Bool}); got != already {
		t.Fatalf("Mangle should leave an already-mangled name alone, got %q", got)
	}
}

func TestSplitMangledRoundTrip(t *testing.T) {
	base, args := types.SplitMangled("Pair__int__string")
	if base != "Pair" {
		t.Fatalf("base: got %q", base)
	}
	if len(args) != 2 || args[0] != "int" || args[1] != "string" {
		t.Fatalf("args: got %v", args)
	}
}

func TestSplitMangledUnmangledNameIsBase(t *testing.T) {
	base, args := types.SplitMangled("int")
	if base != "int" || args != nil {
		t.Fatalf("unmangled name: got base=%q args=%v", base, args)
	}
}
