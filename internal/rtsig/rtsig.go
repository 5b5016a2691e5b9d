// Package rtsig is the single source of truth for every runtime symbol
// name and arity a lowered program may call: the entry points spec.md §6
// names (string/array helpers, the print/format family) plus the
// supplemented channel primitives original_source/ implements but the
// distillation's spec.md never enumerated (spec.md's Non-goals exclude a
// full async/scheduler model, but the four blocking send/recv primitives
// themselves are plain runtime calls, no different in kind from
// cm_format_string, so they belong in the same table).
package rtsig

// Symbol describes one runtime entry point MIR may emit a direct call to.
type Symbol struct {
	Name     string
	Arity    int // -1 for variadic
	Variadic bool
}

// Table is the fixed set of runtime symbols known to the lowering
// pipeline, keyed by name for O(1) arity/shape checks; mir.Validate
// checks every direct call against it.
var Table = buildTable()

func buildTable() map[string]Symbol {
	syms := []Symbol{
		// string/format family, spec.md §4.4.
		{Name: "cm_format_string", Variadic: true},
		{Name: "cm_println_format", Variadic: true},
		{Name: "cm_print_format", Variadic: true},

		// builtin array/string helper dispatch, spec.md §4.2 "builtin
		// array/string method name" rewriting.
		{Name: "__builtin_array_forEach", Arity: 2},
		{Name: "__builtin_array_map", Arity: 2},
		{Name: "__builtin_array_filter", Arity: 2},
		{Name: "__builtin_array_len", Arity: 1},
		{Name: "__builtin_array_push", Arity: 2},
		{Name: "__builtin_array_pop", Arity: 1},
		{Name: "__builtin_string_len", Arity: 1},
		{Name: "__builtin_string_concat", Arity: 2},
		{Name: "__builtin_string_slice", Arity: 3},

		// slice construction, internal/mir's lowerSlice.
		{Name: "cm_slice_make", Variadic: true},

		// supplemented channel primitives (original_source/ runtime, not
		// named by spec.md itself): a channel is a plain opaque handle
		// value, send/recv block the calling fiber, try_* never block.
		{Name: "cm_channel_create", Arity: 1},
		{Name: "cm_channel_send", Arity: 2},
		{Name: "cm_channel_recv", Arity: 1},
		{Name: "cm_channel_try_send", Arity: 2},
		{Name: "cm_channel_try_recv", Arity: 1},
		{Name: "cm_channel_close", Arity: 1},
	}
	out := make(map[string]Symbol, len(syms))
	for _, s := range syms {
		out[s.Name] = s
	}
	return out
}

// Lookup returns the symbol descriptor for name, if it names a known
// runtime entry point.
func Lookup(name string) (Symbol, bool) {
	s, ok := Table[name]
	return s, ok
}

// Arity reports whether calling name with argc arguments respects its
// declared shape — a mismatch here is an internal invariant violation
// (spec.md §7 kind 5: "wrong arity in a call to a known runtime symbol"),
// not a recoverable diagnostic.
func Arity(name string, argc int) bool {
	s, ok := Table[name]
	if !ok {
		return true // unknown callee: not rtsig's concern, checked elsewhere
	}
	if s.Variadic {
		return true
	}
	return s.Arity == argc
}
