package testsupport

import (
	"testing"

	"slidedeck/internal/config"
	"slidedeck/internal/library"
	"slidedeck/internal/logging"
)

// MustOpenLibrary opens the library described by cfg and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Library {
	t.Helper()

	lib, err := library.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() {
		_ = lib.Close()
	})
	return lib
}
