package ui_test

import (
	"strings"
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/ui"
)

func TestRenderPlainReportsStatus(t *testing.T) {
	out := ui.Render("cmlower", ui.Summary{Funcs: 3, Specializations: 2}, false)
	if !strings.Contains(out, "functions lowered   : 3") {
		t.Fatalf("missing func count: %q", out)
	}
	if !strings.Contains(out, "status              : ok") {
		t.Fatalf("expected ok status with no warnings/errors: %q", out)
	}
}

func TestRenderReportsErrorsOverWarnings(t *testing.T) {
	out := ui.Render("cmlower", ui.Summary{Warnings: 2, Errors: 1}, false)
	if !strings.Contains(out, "1 error(s)") {
		t.Fatalf("expected error count to take priority over warnings: %q", out)
	}
}

func TestRenderNoColorOmitsEscapeCodes(t *testing.T) {
	out := ui.Render("cmlower", ui.Summary{Funcs: 1}, false)
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("useColor=false must not emit ANSI escapes: %q", out)
	}
}
