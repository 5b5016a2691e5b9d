// Package pipeline wires the lowering stages spec.md's "Program Assembly"
// row names — HIR lowering, MIR lowering, monomorphization, CFG
// validation — into one ordered run over a set of loaded modules, plus
// the cm.toml configuration that selects its output shape.
package pipeline

import (
	"context"
	"fmt"

	"github.com/shadowlink0122/Cm-sub000/internal/diag"
	"github.com/shadowlink0122/Cm-sub000/internal/hir"
	"github.com/shadowlink0122/Cm-sub000/internal/loader"
	"github.com/shadowlink0122/Cm-sub000/internal/mir"
	"github.com/shadowlink0122/Cm-sub000/internal/mono"
	"github.com/shadowlink0122/Cm-sub000/internal/trace"
	"github.com/shadowlink0122/Cm-sub000/internal/types"
)

// Result is the complete output of one Assemble run.
type Result struct {
	Program *mir.Program
	Diags   *diag.Bag
	// ValidationErrors are the CFG well-formedness violations mir.Validate
	// found in the final program (monomorphized only when Assemble was
	// asked to monomorphize).
	ValidationErrors []error
	Trace            *trace.Ring
}

// Assemble loads every path in paths, lowers each to HIR against one
// shared type interner and symbol table (so a struct/function declared in
// one module resolves correctly from another), merges the per-module HIR
// into a single program, lowers that to MIR, monomorphizes it, and
// validates the result. Each stage is bracketed by a trace span so
// `cmlower --trace` can show where time went.
//
// Every ast.Program handed to Assemble is assumed to have been produced by
// the same types/hir registration logic this package links against (the
// typed-AST contract boundary of spec.md §6): TypeIDs embedded in a
// module's declarations are only meaningful if hir.Lowerer's own pass-1
// struct/interface/enum registration, run here, reproduces exactly the
// registrations that assigned them — true for any module generated by
// running this repo's own internal/types+internal/hir against source,
// which is the only producer this pipeline is ever fed from in practice.
// A fully independent external typechecker would additionally need to
// transport the raw type table out of band; that transport is not built
// here, and is recorded as a deliberate simplification in DESIGN.md rather
// than a silent gap.
// Assemble always lowers through MIR; it monomorphizes before validating
// only when monomorphize is true. `cmlower lower` passes false to stop at
// the generic MIR (spec.md's MIR stage, pre-monomorphization); `cmlower
// mono` and `cmlower dump` pass true.
func Assemble(ctx context.Context, paths []string, opts loader.Options, ring *trace.Ring, monomorphize bool) (*Result, error) {
	var modules []loader.Module
	err := ring.Span("load", func() error {
		var loadErr error
		modules, loadErr = loader.Load(ctx, paths, opts)
		return loadErr
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: load: %w", err)
	}

	diags := diag.NewBag()
	ti := types.NewInterner(nil)
	lo := hir.NewLowerer(ti, diags)

	merged := &hir.Program{}
	err = ring.Span("hir-lower", func() error {
		for _, mod := range modules {
			hp := lo.LowerProgram(mod.Program)
			merged.Functions = append(merged.Functions, hp.Functions...)
			merged.Structs = append(merged.Structs, hp.Structs...)
			merged.Interfaces = append(merged.Interfaces, hp.Interfaces...)
			merged.Enums = append(merged.Enums, hp.Enums...)
			merged.Typedefs = append(merged.Typedefs, hp.Typedefs...)
			merged.Globals = append(merged.Globals, hp.Globals...)
			merged.Imports = append(merged.Imports, hp.Imports...)
			merged.ExternBlocks = append(merged.ExternBlocks, hp.ExternBlocks...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: hir lower: %w", err)
	}

	var prog *mir.Program
	err = ring.Span("mir-lower", func() error {
		prog = mir.Lower(merged, ti, lo.Table, diags)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: mir lower: %w", err)
	}

	if monomorphize {
		err = ring.Span("monomorphize", func() error {
			prog = mono.Monomorphize(prog, ti)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("pipeline: monomorphize: %w", err)
		}
	}

	var verrs []error
	_ = ring.Span("verify", func() error {
		verrs = mir.Validate(prog)
		return nil
	})

	return &Result{Program: prog, Diags: diags, ValidationErrors: verrs, Trace: ring}, nil
}
