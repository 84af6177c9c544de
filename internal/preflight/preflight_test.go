package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"slidedeck/internal/catalog"
	"slidedeck/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass with a 1 byte minimum, got: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, ^uint64(0)); result.Passed {
		t.Fatal("expected failure with an impossible minimum")
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckLibraryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".slidedeck.lock")
	if result := CheckLibraryLock(lockPath); !result.Passed {
		t.Fatalf("expected free lock, got: %s", result.Detail)
	}

	holder := flock.New(lockPath)
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	result := CheckLibraryLock(lockPath)
	if result.Passed {
		t.Fatal("expected failure while another holder has the lock")
	}
}

func TestCheckCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")
	if result := CheckCatalog(ctx, path); !result.Passed || !strings.Contains(result.Detail, "not created") {
		t.Fatalf("expected pass for missing catalog, got: %+v", result)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("check must not create the catalog, stat err=%v", err)
	}

	c, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	_ = c.Close()
	if result := CheckCatalog(ctx, path); !result.Passed {
		t.Fatalf("expected pass for fresh catalog, got: %s", result.Detail)
	}

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("definitely not sqlite, just some text padding it out"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCatalog(ctx, garbage); result.Passed {
		t.Fatal("expected failure for a corrupt catalog")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Catalog.Enabled = false

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed && r.Name != "Free space" {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesCatalogWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.CatalogPath = filepath.Join(cfg.Paths.DataDir, "catalog.db")
	cfg.Catalog.Enabled = true

	results := RunAll(context.Background(), &cfg)
	found := false
	for _, r := range results {
		if r.Name == "Search catalog" {
			found = true
			if !r.Passed {
				t.Errorf("catalog check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected catalog check in results")
	}
	if failed := Failed([]Result{{Name: "a", Passed: true}, {Name: "b"}}); len(failed) != 1 || failed[0].Name != "b" {
		t.Fatalf("unexpected failed results %+v", failed)
	}
}
