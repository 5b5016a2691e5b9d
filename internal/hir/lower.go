package hir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/ast"
	"github.com/shadowlink0122/Cm-sub000/internal/diag"
	"github.com/shadowlink0122/Cm-sub000/internal/symbols"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// Lowerer carries the mutable state for AST→HIR lowering of one module:
// the symbol tables populated by pass 1, the shared type interner, and the
// diagnostics sink warnings/errors are reported to (spec.md §4.2, §7).
//
// self and locals track the lowering context of whichever function body is
// currently being walked, so bare identifier lowering (lowerIdent) can
// decide between a plain local/global reference and the implicit-self
// rewrite spec.md §4.2/§9 describes for unresolved names inside a method.
type Lowerer struct {
	Types   *types.Interner
	Table   *symbols.Table
	Diags   *diag.Bag
	modPath []string // current namespace path, for FlattenNamespace

	self   *Param
	locals map[string]bool
}

// NewLowerer returns a Lowerer ready to run LowerProgram.
func NewLowerer(ti *types.Interner, diags *diag.Bag) *Lowerer {
	return &Lowerer{Types: ti, Table: symbols.NewTable(), Diags: diags}
}

// LowerProgram runs both lowering passes of spec.md §4.2 over prog and
// returns the resulting HIR program.
func (lo *Lowerer) LowerProgram(prog *ast.Program) *Program {
	lo.collectDecls(prog.Decls, nil)
	out := &Program{}
	lo.lowerDecls(prog.Decls, nil, out)
	return out
}

func mangleQualified(path []string, name string) string {
	return symbols.FlattenNamespace(path, name)
}
