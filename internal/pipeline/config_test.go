package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowlink0122/Cm-sub000/internal/pipeline"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cm.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeManifest(t, `
[package]
name = "demo"
`)
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Package.Name != "demo" {
		t.Fatalf("got package name %q", cfg.Package.Name)
	}
	if cfg.Lower.Output != "mir" {
		t.Fatalf("expected default output \"mir\", got %q", cfg.Lower.Output)
	}
	if cfg.Lower.Color != "auto" {
		t.Fatalf("expected default color \"auto\", got %q", cfg.Lower.Color)
	}
}

func TestLoadConfigHonorsExplicitLowerSection(t *testing.T) {
	path := writeManifest(t, `
[package]
name = "demo"

[lower]
max_mono_depth = 8
fold_constants = true
output = "msgpack"
color = "off"
`)
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Lower.MaxMonoDepth != 8 || !cfg.Lower.FoldConstants {
		t.Fatalf("unexpected lower config: %+v", cfg.Lower)
	}
	if cfg.Lower.Output != "msgpack" || cfg.Lower.Color != "off" {
		t.Fatalf("explicit values not honored: %+v", cfg.Lower)
	}
}

func TestLoadConfigRejectsMissingPackageName(t *testing.T) {
	path := writeManifest(t, `
[lower]
output = "mir"
`)
	if _, err := pipeline.LoadConfig(path); err == nil {
		t.Fatal("expected an error for a manifest with no [package].name")
	}
}

func TestLoadConfigRejectsUnparsableToml(t *testing.T) {
	path := writeManifest(t, "not valid toml [[[")
	if _, err := pipeline.LoadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
