// Package paths maps entity identifiers to document and thumbnail locations.
//
// Paths are derived from the immutable identifier rather than the display
// name, so renames never move files and names never need escaping.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ThumbnailDir is the fixed side-car subdirectory inside each kind directory.
const ThumbnailDir = "_thumbs"

// ThumbnailExt is the extension of every side-car thumbnail.
const ThumbnailExt = ".png"

// ErrInvalidID reports an identifier that cannot be used as a file name.
var ErrInvalidID = errors.New("invalid identifier")

// Resolver computes locations for one resource kind (for example "slides")
// under a base directory.
type Resolver struct {
	base string
	kind string
	ext  string
}

// New builds a resolver for documents with extension ext (with or without
// the leading dot) stored in base/kind.
func New(base, kind, ext string) *Resolver {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Resolver{base: base, kind: kind, ext: ext}
}

// Kind returns the resource kind subdirectory name.
func (r *Resolver) Kind() string { return r.kind }

// Ext returns the document extension including the leading dot.
func (r *Resolver) Ext() string { return r.ext }

// Dir returns the document directory.
func (r *Resolver) Dir() string { return filepath.Join(r.base, r.kind) }

// ThumbnailsDir returns the side-car thumbnail directory.
func (r *Resolver) ThumbnailsDir() string { return filepath.Join(r.Dir(), ThumbnailDir) }

// Path returns the document path for id.
func (r *Resolver) Path(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(r.Dir(), id+r.ext), nil
}

// ThumbnailPath returns the side-car thumbnail path for id.
func (r *Resolver) ThumbnailPath(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(r.ThumbnailsDir(), id+ThumbnailExt), nil
}

// RelativePath returns the slash-separated path of id relative to the base
// directory. Archive entries use it as their name.
func (r *Resolver) RelativePath(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return path.Join(r.kind, id+r.ext), nil
}

// IDFromPath extracts the identifier from a document path or archive entry
// name. It reports false for thumbnails and foreign extensions.
func (r *Resolver) IDFromPath(p string) (string, bool) {
	p = filepath.ToSlash(p)
	if strings.Contains(p, "/"+ThumbnailDir+"/") || strings.HasPrefix(p, ThumbnailDir+"/") {
		return "", false
	}
	base := path.Base(p)
	if r.ext != "" && !strings.HasSuffix(base, r.ext) {
		return "", false
	}
	id := strings.TrimSuffix(base, r.ext)
	if ValidateID(id) != nil {
		return "", false
	}
	return id, true
}

// Initialize creates the document and thumbnail directories. It is safe to
// call repeatedly.
func (r *Resolver) Initialize() error {
	if err := os.MkdirAll(r.ThumbnailsDir(), 0o755); err != nil {
		return fmt.Errorf("create %s directories: %w", r.kind, err)
	}
	return nil
}

// ValidateID rejects identifiers that are empty or could escape the
// document directory.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: empty", ErrInvalidID)
	case id == "." || id == ".." || strings.Contains(id, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	case strings.ContainsAny(id, `/\:`) || strings.ContainsRune(id, 0):
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
