package preflight

import (
	"strings"

	"gggkit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for every configured path.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if strings.TrimSpace(cfg.Paths.DataDir) != "" {
		results = append(results, CheckReadableDirectory("Spectrum directory", cfg.Paths.DataDir))
	}
	if strings.TrimSpace(cfg.Paths.CatalogPath) != "" {
		results = append(results, CheckOutputWritable("Catalog database", cfg.Paths.CatalogPath))
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
