package preflight

import (
	"context"

	"slidedeck/internal/config"
)

// MinFreeBytes is the free space below which the data directory check fails.
const MinFreeBytes uint64 = 256 << 20

// Check names the status command looks up.
const (
	LibraryLockCheck = "Library lock"
	CatalogCheck     = "Search catalog"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The catalog check only runs when the catalog is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckFreeSpace("Free space", cfg.Paths.DataDir, MinFreeBytes),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckLibraryLock(cfg.LockPath()),
	}
	if cfg.Catalog.Enabled {
		results = append(results, CheckCatalog(ctx, cfg.Paths.CatalogPath))
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
