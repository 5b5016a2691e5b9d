package main

import (
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether f is attached to a TTY, the same check the
// teacher's cmd/surge uses to decide "auto" color mode.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
