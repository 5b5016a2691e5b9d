// Package diag collects diagnostics raised while lowering. Per the error
// handling design: ill-typed expressions, unresolved identifiers, ill-formed
// lvalues, and missing monomorphization inputs are recoverable and degrade
// to a placeholder value; internal invariant violations are fatal and abort
// the pipeline for the function in which they occur.
package diag

import (
	"fmt"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	Warning Severity = iota
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Code is a stable identifier for a diagnostic class.
type Code string

const (
	CodeIllTyped        Code = "E_ILL_TYPED"
	CodeUnresolvedIdent Code = "E_UNRESOLVED_IDENT"
	CodeBadLvalue       Code = "E_BAD_LVALUE"
	CodeMonoFallback    Code = "E_MONO_FALLBACK"
	CodeInvariant       Code = "E_INVARIANT"
	CodeUnknownBuiltin  Code = "W_UNKNOWN_BUILTIN"
	CodeEnumTagCollide  Code = "W_ENUM_TAG_COLLIDE"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one recorded finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Msg      string
	Span     source.Span
	Notes    []Note
}

// FatalError signals an internal invariant violation (spec §7 kind 5): an
// unknown place projection, wrong arity in a call to a known runtime
// symbol, or a nonexistent terminator target. It names the responsible
// function and block so the caller can abort the program-level pipeline.
type FatalError struct {
	Func  string
	Block int
	Msg   string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("internal error in function %q block %d: %s", e.Func, e.Block, e.Msg)
}

// Bag is an ordered, append-only collector of diagnostics for one pipeline
// run. It is not safe for concurrent use — the pipeline has exactly one
// writer.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Warn records a non-fatal warning; lowering continues.
func (b *Bag) Warn(code Code, span source.Span, format string, args ...any) {
	b.items = append(b.items, Diagnostic{Severity: Warning, Code: code, Msg: fmt.Sprintf(format, args...), Span: span})
}

// Error records a recoverable error (a placeholder value was substituted).
func (b *Bag) Error(code Code, span source.Span, format string, args ...any) {
	b.items = append(b.items, Diagnostic{Severity: Error, Code: code, Msg: fmt.Sprintf(format, args...), Span: span})
}

// Fatalf records a fatal diagnostic and returns the corresponding error so
// the caller can unwind out of the current function's lowering.
func (b *Bag) Fatalf(funcName string, blockID int, format string, args ...any) *FatalError {
	msg := fmt.Sprintf(format, args...)
	b.items = append(b.items, Diagnostic{Severity: Fatal, Code: CodeInvariant, Msg: msg})
	return &FatalError{Func: funcName, Block: blockID, Msg: msg}
}

// Items returns the recorded diagnostics in emission order.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any Error or Fatal diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error || d.Severity == Fatal {
			return true
		}
	}
	return false
}
