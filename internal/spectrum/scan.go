package spectrum

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Match reports whether a file name contains pattern. An empty pattern
// matches every name.
func Match(name, pattern string) bool {
	return strings.Contains(filepath.Base(name), pattern)
}

// Discover lists the regular files directly under dir whose names match
// pattern, sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list spectra: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !Match(entry.Name(), pattern) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ParseMany parses every path concurrently, at most workers at a time
// (NumCPU when workers < 1). The first failure cancels the rest and is
// returned with its path.
func ParseMany(ctx context.Context, workers int, paths ...string) ([]*Table, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	tables := make([]*Table, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := ParseFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Outcome is the parse result for one path.
type Outcome struct {
	Path  string
	Table *Table
	Err   error
}

// ParseEach parses every path concurrently like ParseMany but keeps going
// past failures, reporting each file's outcome in path order.
func ParseEach(ctx context.Context, workers int, paths ...string) []Outcome {
	outcomes := make([]Outcome, len(paths))
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i].Path = path
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Table, outcomes[i].Err = ParseFile(path)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
