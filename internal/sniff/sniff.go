// Package sniff detects content types from bytes rather than file names.
package sniff

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Well-known content types returned by Detect.
const (
	ZIP   = "application/zip"
	JSON  = "application/json"
	XML   = "text/xml"
	Plain = "text/plain"
)

// Type is a detected content type with its ancestry, for example
// application/vnd.openxmlformats... -> application/zip.
type Type struct {
	mime *mimetype.MIME
}

// String returns the media type without parameters.
func (t Type) String() string {
	if t.mime == nil {
		return "application/octet-stream"
	}
	return stripParams(t.mime.String())
}

// Is reports whether the type or any ancestor equals contentType.
func (t Type) Is(contentType string) bool {
	want := stripParams(contentType)
	for m := t.mime; m != nil; m = m.Parent() {
		if m.Is(want) || stripParams(m.String()) == want {
			return true
		}
	}
	return false
}

// IsZip reports whether the content is a zip container of any flavour.
func (t Type) IsZip() bool { return t.Is(ZIP) }

// Detect inspects a byte buffer.
func Detect(data []byte) Type {
	return Type{mime: mimetype.Detect(data)}
}

// DetectFile inspects the head of a file.
func DetectFile(path string) (Type, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return Type{}, fmt.Errorf("detect content type of %s: %w", path, err)
	}
	return Type{mime: m}, nil
}

func stripParams(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
