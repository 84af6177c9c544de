package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"slidedeck/internal/library"
	"slidedeck/internal/store"
)

func main() {
	// A .env next to the working directory may carry SLIDEDECK_DATA_DIR.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to distinct statuses so scripts can tell a missing
// document from a conflict or a busy library.
func exitCode(err error) int {
	if errors.Is(err, library.ErrLibraryBusy) {
		return 5
	}
	switch store.Kind(err) {
	case store.KindValidation:
		return 2
	case store.KindNotFound:
		return 3
	case store.KindConflict:
		return 4
	default:
		return 1
	}
}
