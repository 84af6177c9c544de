package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// FormatName identifies native documents.
	FormatName = "slidedeck"
	// Version is written into every document. Readers accept any version
	// with the same major number.
	Version = "1.0.0"

	TypeSlide = "slide"
	TypeShow  = "show"
)

var (
	// ErrUnknownType reports a discriminator tag with no registered decoder.
	ErrUnknownType = errors.New("unknown document type")
	// ErrNotDocument reports JSON that is not a native document.
	ErrNotDocument = errors.New("not a slidedeck document")
	// ErrUnsupportedVersion reports a document from an incompatible major version.
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Header carries the envelope fields shared by every document.
type Header struct {
	Format     string    `json:"format"`
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

func newHeader(typ, id, name string, created, modified time.Time) Header {
	return Header{
		Format:     FormatName,
		Version:    Version,
		Type:       typ,
		ID:         id,
		Name:       name,
		CreatedAt:  created.UTC(),
		ModifiedAt: modified.UTC(),
	}
}

// ReadHeader decodes and validates only the envelope of data.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if err := json.Unmarshal(data, &h); err != nil {
		return Header{}, fmt.Errorf("decode header: %w", err)
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func (h Header) validate() error {
	if h.Format != FormatName {
		return fmt.Errorf("%w: format %q", ErrNotDocument, h.Format)
	}
	major, _, _ := strings.Cut(h.Version, ".")
	wantMajor, _, _ := strings.Cut(Version, ".")
	if major != wantMajor {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, h.Version)
	}
	switch h.Type {
	case TypeSlide, TypeShow:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrNotDocument)
	}
	return nil
}

// IsDocument reports whether data parses as a native document envelope of
// the given type.
func IsDocument(data []byte, typ string) bool {
	h, err := ReadHeader(data)
	return err == nil && h.Type == typ
}

func millis(d time.Duration) int64 {
	if d < 0 {
		return -1
	}
	return d.Milliseconds()
}

func duration(ms int64) time.Duration {
	if ms < 0 {
		return -1
	}
	return time.Duration(ms) * time.Millisecond
}
