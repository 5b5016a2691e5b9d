package symbols_test

import (
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/symbols"
)

// IsDestructorBearing's base-name matching is the channel/destructor
// supplemented feature recovered from original_source/.
func TestIsDestructorBearingMatchesMangledBase(t *testing.T) {
	tbl := symbols.NewTable()
	tbl.RegisterDestructor("Box")

	if name, ok := tbl.IsDestructorBearing("Box"); !ok || name != "Box" {
		t.Fatalf("exact match: got %q, %v", name, ok)
	}
	if name, ok := tbl.IsDestructorBearing("Box__int"); !ok || name != "Box" {
		t.Fatalf("mangled match: got %q, %v", name, ok)
	}
	if _, ok := tbl.IsDestructorBearing("Other__int"); ok {
		t.Fatal("unrelated mangled name must not match")
	}
}

func TestFlattenNamespacePrependsPath(t *testing.T) {
	if got := symbols.FlattenNamespace(nil, "f"); got != "f" {
		t.Fatalf("empty path: got %q", got)
	}
	if got := symbols.FlattenNamespace([]string{"a", "b"}, "f"); got != "a::b::f" {
		t.Fatalf("nested path: got %q", got)
	}
}

func TestMangleHelpers(t *testing.T) {
	if got := symbols.MangleDtor("Box"); got != "Box__dtor" {
		t.Fatalf("MangleDtor: got %q", got)
	}
	if got := symbols.MangleMethod("Box", "open"); got != "Box__open" {
		t.Fatalf("MangleMethod: got %q", got)
	}
	if got := symbols.MangleCtor("Box", 2); got == "" {
		t.Fatal("MangleCtor returned empty name")
	}
}
