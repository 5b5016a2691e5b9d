// Package loader fans out reads of pre-lowered, JSON-encoded typed-AST
// files named on the command line, handing the pipeline a single ordered
// slice of already-decoded modules. The lowering core downstream is
// strictly single-threaded; all concurrency here happens before it ever
// sees a module, grounded on the teacher's internal/driver parallel file
// loading (errgroup.WithContext + SetLimit + an index-ordered results
// slice so fan-out doesn't reorder output).
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/shadowlink0122/Cm-sub000/internal/ast"
)

// Module is one loaded compilation unit: its source path and decoded
// typed AST.
type Module struct {
	Path    string
	Program *ast.Program
}

// Options controls the loader's concurrency.
type Options struct {
	// Jobs bounds how many files are decoded concurrently. Zero or
	// negative means GOMAXPROCS(0), matching the teacher's DiagnoseDir.
	Jobs int
}

// Load reads and JSON-decodes every path in paths concurrently, returning
// the modules in the same order paths were given regardless of which
// goroutine finishes first.
func Load(ctx context.Context, paths []string, opts Options) ([]Module, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	out := make([]Module, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				prog, err := loadOne(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				out[i] = Module{Path: path, Program: prog}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func loadOne(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	var prog ast.Program
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, fmt.Errorf("failed to decode typed AST: %w", err)
	}
	return &prog, nil
}
