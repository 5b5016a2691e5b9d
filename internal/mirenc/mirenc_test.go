package mirenc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/mirenc"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

func sampleProgram(ti *types.Interner) *mir.Program {
	prog := mir.NewProgram()
	prog.Structs = append(prog.Structs, &mir.Struct{
		Name:   "Res",
		Fields: []mir.Field{{Name: "handle", Type: ti.Builtins().Int}},
	})
	prog.StructByName["Res"] = prog.Structs[0]

	prog.AddFunc(&mir.Func{
		Name:   "main",
		Result: ti.Builtins().Int,
		Locals: []mir.Local{
			{Name: "r", Type: ti.Builtins().Int, Destructors: true},
		},
		Blocks: []mir.Block{
			{
				ID: 0,
				Instrs: []mir.Instr{
					{
						Kind: mir.InstrAssign,
						Assign: mir.AssignInstr{
							Dst: mir.Place{Root: 0},
							Src: mir.RValue{Kind: mir.RValueUse, Use: mir.Operand{
								Kind: mir.OperandConst,
								Type: ti.Builtins().Int,
								Const: mir.Const{Kind: mir.ConstInt, Int: 42},
							}},
						},
					},
					{
						Kind: mir.InstrCall,
						Call: mir.CallInstr{
							Callee: mir.Callee{Kind: mir.CalleeDirect, Name: "Res__dtor"},
							Args:   []mir.Operand{{Kind: mir.OperandMove, Type: ti.Builtins().Int, Place: mir.Place{Root: 0}}},
						},
					},
				},
				Term: mir.Terminator{
					Kind: mir.TermReturn,
					Return: mir.ReturnTerm{
						HasValue: true,
						Value: mir.Operand{
							Kind:  mir.OperandCopy,
							Type:  ti.Builtins().Int,
							Place: mir.Place{Root: 0},
						},
					},
				},
			},
		},
		Entry: 0,
	})
	return prog
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ti := types.NewInterner(nil)
	prog := sampleProgram(ti)

	path := filepath.Join(t.TempDir(), "out.mp")
	if err := mirenc.Save(path, prog); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := mirenc.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts := cmp.Options{
		cmp.Comparer(func(a, b *mir.Struct) bool {
			if a == nil || b == nil {
				return a == b
			}
			return a.Name == b.Name && len(a.Fields) == len(b.Fields)
		}),
	}
	if diff := cmp.Diff(prog.Funcs, got.Funcs, opts); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
	if len(got.Structs) != 1 || got.Structs[0].Name != "Res" {
		t.Fatalf("struct table not preserved: %+v", got.Structs)
	}
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.mp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w := mirenc.WireProgram{Schema: 255}
	if err := msgpack.NewEncoder(f).Encode(&w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	if _, err := mirenc.Load(path); err == nil {
		t.Fatal("expected a schema mismatch error, got nil")
	}
}
