package rtsig_test

import (
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/rtsig"
)

func TestLookupKnownAndUnknownSymbols(t *testing.T) {
	sym, ok := rtsig.Lookup("cm_channel_send")
	if !ok || sym.Arity != 2 {
		t.Fatalf("cm_channel_send: got %+v, ok=%v", sym, ok)
	}
	if _, ok := rtsig.Lookup("not_a_runtime_symbol"); ok {
		t.Fatal("expected an unknown symbol to miss")
	}
}

func TestArityVariadicAlwaysMatches(t *testing.T) {
	for _, argc := range []int{0, 1, 5} {
		if !rtsig.Arity("cm_format_string", argc) {
			t.Fatalf("variadic symbol should accept argc=%d", argc)
		}
	}
}

func TestArityFixedArityMismatch(t *testing.T) {
	if !rtsig.Arity("__builtin_array_len", 1) {
		t.Fatal("__builtin_array_len should accept exactly 1 arg")
	}
	if rtsig.Arity("__builtin_array_len", 2) {
		t.Fatal("__builtin_array_len should reject argc=2")
	}
}

func TestArityUnknownSymbolIsPermissive(t *testing.T) {
	if !rtsig.Arity("not_a_runtime_symbol", 99) {
		t.Fatal("an unknown callee is not rtsig's concern and must not be rejected here")
	}
}
