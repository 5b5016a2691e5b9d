// Package ui renders the final run summary of a cmlower invocation, styled
// with github.com/charmbracelet/lipgloss the way cmd/surge/ui_runner.go
// styles its build/run output. A batch lowering pass has no interactive
// loop to drive, so this package only ever renders one summary block per
// run — a full bubbletea program (the teacher's interactive progress
// model) has nothing here to animate and is left unwired; see DESIGN.md.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Summary is the set of counters cmlower reports after one run.
type Summary struct {
	Funcs          int
	Specializations int
	Warnings       int
	Errors         int
	Elapsed        string
}

// Render formats s as a multi-line, optionally-colored summary block.
func Render(title string, s Summary, useColor bool) string {
	style := func(st lipgloss.Style, text string) string {
		if !useColor {
			return text
		}
		return st.Render(text)
	}

	var b strings.Builder
	fmt.Fprintln(&b, style(titleStyle, title))
	fmt.Fprintf(&b, "  functions lowered   : %d\n", s.Funcs)
	fmt.Fprintf(&b, "  specializations     : %d\n", s.Specializations)

	status := style(okStyle, "ok")
	switch {
	case s.Errors > 0:
		status = style(errStyle, fmt.Sprintf("%d error(s)", s.Errors))
	case s.Warnings > 0:
		status = style(warnStyle, fmt.Sprintf("%d warning(s)", s.Warnings))
	}
	fmt.Fprintf(&b, "  status              : %s\n", status)
	fmt.Fprintf(&b, "  %s\n", style(dimStyle, "elapsed "+s.Elapsed))
	return b.String()
}
