package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"

	"github.com/shadowlink0122/Cm-sub000/internal/source"
)

// severityColor maps a severity to the color used to render it, matching
// the teacher's convention of coloring only the severity label.
func severityColor(s Severity) *color.Color {
	switch s {
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	case Error, Fatal:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New()
	}
}

// displayWidth measures the terminal column width of s, falling back to
// golang.org/x/text/width's East-Asian-width classification for runes
// go-runewidth reports as ambiguous (width -1 is never returned by
// RuneWidth, but narrow/ambiguous CJK punctuation needs the fallback table
// to render carets correctly under combining marks).
func displayWidth(s string) int {
	total := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 1 && width.LookupRune(r).Kind() == width.EastAsianAmbiguous {
			w = 2
		}
		total += w
	}
	return total
}

// RenderLine formats a single diagnostic as a one-line, optionally colored
// message suitable for CLI output: "<sev>[<code>]: <msg> (<span>)".
func RenderLine(d Diagnostic, useColor bool) string {
	sev := d.Severity.String()
	if useColor {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	return fmt.Sprintf("%s[%s]: %s (%s)", sev, d.Code, d.Msg, d.Span)
}

// RenderSnippet renders the offending line from fs with a caret underline
// below the span, accounting for display width so multi-byte identifiers
// line up correctly.
func RenderSnippet(fs *source.FileSet, d Diagnostic) string {
	f, ok := fs.Get(d.Span.File)
	if !ok {
		return ""
	}
	line, col := fs.LineCol(d.Span.File, d.Span.Start)
	lineStart, lineEnd := 0, len(f.Contents)
	count := 1
	for i, c := range f.Contents {
		if c == '\n' {
			if count == line {
				lineEnd = i
				break
			}
			lineStart = i + 1
			count++
		}
	}
	text := f.Contents[lineStart:lineEnd]
	prefix := text
	if col-1 <= len(text) {
		prefix = text[:col-1]
	}
	pad := strings.Repeat(" ", displayWidth(prefix))
	caretLen := int(d.Span.Len())
	if caretLen <= 0 {
		caretLen = 1
	}
	return fmt.Sprintf("%s\n%s%s", text, pad, strings.Repeat("^", caretLen))
}
