package mono_test

import (
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/mono"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// buildIdentityProgram builds `fn id<T>(x: T) -> T { return x; }` plus a
// caller that invokes id(1) (an int argument), hand-assembled at the MIR
// level since there is no parser in this repo to go through.
func buildIdentityProgram(ti *types.Interner) *mir.Program {
	generic := ti.RegisterGeneric(ti.Strings.Intern("T"), ti.Strings.Intern("id"))

	idFunc := &mir.Func{
		Name:       "id",
		Params:     []mir.Param{{Local: 0, Name: "x", Type: generic}},
		Result:     generic,
		TypeParams: []string{"T"},
		IsGeneric:  true,
		Locals: []mir.Local{
			{Name: "x", Type: generic, IsParam: true},
		},
		Blocks: []mir.Block{
			{ID: 0, Term: mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{
				HasValue: true,
				Value: mir.Operand{
					Kind:  mir.OperandCopy,
					Type:  generic,
					Place: mir.Place{Root: 0},
				},
			}}},
		},
		Entry: 0,
	}

	callerFunc := &mir.Func{
		Name:   "main",
		Result: ti.Builtins().Int,
		Locals: []mir.Local{
			{Name: "r", Type: ti.Builtins().Int},
		},
		Blocks: []mir.Block{
			{ID: 0, Instrs: []mir.Instr{
				{
					Kind: mir.InstrCall,
					Call: mir.CallInstr{
						Callee: mir.Callee{Kind: mir.CalleeDirect, Name: "id"},
						Args: []mir.Operand{
							{Kind: mir.OperandConst, Type: ti.Builtins().Int, Const: mir.Const{Kind: mir.ConstInt, Int: 1}},
						},
						HasResult: true,
						Dst:       mir.Place{Root: 0},
					},
				},
			}, Term: mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{
				HasValue: true,
				Value: mir.Operand{
					Kind:  mir.OperandCopy,
					Type:  ti.Builtins().Int,
					Place: mir.Place{Root: 0},
				},
			}}},
		},
		Entry: 0,
	}

	prog := mir.NewProgram()
	prog.AddFunc(idFunc)
	prog.AddFunc(callerFunc)
	return prog
}

func TestMonomorphizeSpecializesAndRemovesGeneric(t *testing.T) {
	ti := types.NewInterner(nil)
	prog := buildIdentityProgram(ti)

	mono.Monomorphize(prog, ti)

	if prog.FuncNamed("id") != nil {
		t.Fatal("generic definition id must be removed after monomorphization (round-trip law)")
	}

	want := ti.Mangle("id", []types.TypeID{ti.Builtins().Int})
	spec := prog.FuncNamed(want)
	if spec == nil {
		t.Fatalf("expected specialization %q to exist", want)
	}
	if spec.IsGeneric {
		t.Fatalf("specialization %q must not itself be marked generic", want)
	}

	caller := prog.FuncNamed("main")
	if caller == nil {
		t.Fatal("main missing")
	}
	call := caller.Blocks[0].Instrs[0]
	if call.Call.Callee.Name != want {
		t.Fatalf("call site not rewritten: got %q, want %q", call.Call.Callee.Name, want)
	}
}

func TestMonomorphizeIsIdempotentOnNonGenericProgram(t *testing.T) {
	ti := types.NewInterner(nil)
	prog := mir.NewProgram()
	prog.AddFunc(&mir.Func{
		Name:   "plain",
		Result: ti.Builtins().Void,
		Blocks: []mir.Block{{ID: 0, Term: mir.Terminator{Kind: mir.TermReturn}}},
		Entry:  0,
	})

	out := mono.Monomorphize(prog, ti)
	if len(out.Funcs) != 1 || out.FuncNamed("plain") == nil {
		t.Fatalf("non-generic program must pass through unchanged, got %d funcs", len(out.Funcs))
	}
}
