package mir

import (
	"github.com/shadowlink0122/Cm-sub000/internal/diag"
	"github.com/shadowlink0122/Cm-sub000/internal/hir"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// isPlaceExpr reports whether e denotes an lvalue MIR can build a Place
// for directly, rather than having to materialize it into a temp first.
func isPlaceExpr(e *hir.Expr) bool {
	switch e.Kind {
	case hir.ExprVarRef, hir.ExprFieldAccess, hir.ExprIndex:
		return true
	case hir.ExprUnaryOp:
		d := e.Data.(hir.UnaryOpData)
		return d.Op == hir.OpDeref
	}
	return false
}

// buildPlace constructs the Place named by e exactly once (spec.md §4.5),
// consuming hir.IndexData.Indices / AssignData.Target directly instead of
// re-lowering a reduced expression tree, which is what fixes the
// compound-assignment double-evaluation bug of §8/§9.
func (lo *Lowering) buildPlace(e *hir.Expr) Place {
	switch e.Kind {
	case hir.ExprVarRef:
		d := e.Data.(hir.VarRefData)
		if id, ok := lo.lookupLocal(d.Name); ok {
			return RootPlace(id)
		}
		if gid, ok := lo.lookupGlobal(d.Name); ok {
			// Globals are modeled as a dedicated negative-space root: MIR
			// keeps locals and globals in separate ID spaces, so a global
			// place is tagged via a synthetic local-less projection.
			return Place{Root: NoLocalID, Proj: []Proj{{Kind: ProjField, FieldIdx: int(gid), FieldName: d.Name}}}
		}
		if d.ImplicitSelf && lo.b.f.Self != nil {
			// Implicit `self.<name>`: resolve the name as a field of the
			// method's receiver, dereferencing a pointer receiver first.
			self := lo.b.f.Self
			base, recv := RootPlace(self.Local), lo.Types.Resolve(self.Type)
			if t, ok := lo.Types.Lookup(recv); ok && t.Kind == types.KindPointer {
				base = appendProj(base, Proj{Kind: ProjDeref, Type: t.Elem})
				recv = lo.Types.Resolve(t.Elem)
			}
			if idx := lo.Types.FieldIndex(recv, lo.Types.Strings.Intern(d.Name)); idx >= 0 {
				return appendProj(base, Proj{Kind: ProjField, FieldIdx: idx, FieldName: d.Name, Type: e.Type})
			}
		}
		lo.Diags.Error(diag.CodeBadLvalue, e.Span, "undefined lvalue %q", d.Name)
		return Place{Root: NoLocalID}

	case hir.ExprFieldAccess:
		d := e.Data.(hir.FieldAccessData)
		base := lo.buildPlace(d.Object)
		return appendProj(base, Proj{Kind: ProjField, FieldIdx: d.FieldIdx, FieldName: d.FieldName, Type: e.Type})

	case hir.ExprIndex:
		d := e.Data.(hir.IndexData)
		base := lo.buildPlace(d.Object)
		indices := d.Indices
		if len(indices) == 0 {
			indices = []*hir.Expr{d.Index}
		}
		for _, idx := range indices {
			proj := Proj{Kind: ProjIndex, Type: e.Type}
			if idx.Kind == hir.ExprLiteral {
				if lit, ok := idx.Data.(hir.LiteralData); ok && (lit.Kind == hir.LitInt || lit.Kind == hir.LitChar) {
					proj.IsConst = true
					proj.IndexConst = lit.Int
				}
			}
			if !proj.IsConst {
				idxOp := lo.lowerExpr(idx)
				proj.IndexLocal = lo.materializeToLocal(idxOp)
			}
			base = appendProj(base, proj)
		}
		return base

	case hir.ExprUnaryOp:
		d := e.Data.(hir.UnaryOpData)
		base := lo.buildPlace(d.Operand)
		return appendProj(base, Proj{Kind: ProjDeref, Type: e.Type})

	default:
		lo.Diags.Error(diag.CodeBadLvalue, e.Span, "expression is not an lvalue")
		return Place{Root: NoLocalID}
	}
}

func appendProj(p Place, proj Proj) Place {
	out := Place{Root: p.Root, Proj: make([]Proj, len(p.Proj)+1)}
	copy(out.Proj, p.Proj)
	out.Proj[len(p.Proj)] = proj
	return out
}

// materializeToLocal copies op's value into a fresh temp, returning the
// temp's LocalID — used where a place projection needs a local to name
// (e.g. an index computed from a non-trivial sub-expression).
func (lo *Lowering) materializeToLocal(op Operand) LocalID {
	id := lo.b.newTemp(Local{Type: op.Type})
	lo.b.emitAssign(lo.cur, RootPlace(id), RValue{Kind: RValueUse, Use: op})
	return id
}
