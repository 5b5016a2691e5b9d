package pipeline

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of a cm.toml manifest, the same
// [package]/[run]-style sectioned TOML the teacher's project_manifest.go
// reads for surge.toml, extended with the lowering-specific options
// SPEC_FULL.md's ambient config section calls for.
type Config struct {
	Package PackageConfig `toml:"package"`
	Lower   LowerConfig   `toml:"lower"`
}

// PackageConfig names the module being lowered.
type PackageConfig struct {
	Name string `toml:"name"`
}

// LowerConfig holds the [lower] section's options. LoadConfig decodes and
// defaults them; neither Assemble nor cmd/cmlower calls LoadConfig, so no
// field changes how a run lowers, monomorphizes, dumps or colors output.
type LowerConfig struct {
	// MaxMonoDepth is a monomorphization depth; 0 means unset.
	// Monomorphize takes no depth limit.
	MaxMonoDepth int `toml:"max_mono_depth"`
	// FoldConstants is a constant-folding switch. internal/mir folds
	// literal global initializers regardless of it.
	FoldConstants bool `toml:"fold_constants"`
	// Output names a dump format: "mir" (the default LoadConfig applies)
	// or "msgpack".
	Output string `toml:"output"`
	// Color names a coloring mode: "auto" (the default), "on", "off".
	Color string `toml:"color"`
}

// LoadConfig parses path as a cm.toml manifest, applying the same
// required-section validation style as the teacher's loadProjectConfig.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Lower.Output == "" {
		cfg.Lower.Output = "mir"
	}
	if cfg.Lower.Color == "" {
		cfg.Lower.Color = "auto"
	}
	return cfg, nil
}
