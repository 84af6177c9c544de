package format

import (
	"errors"
	"io"
	"slices"
	"strings"
)

// Format names a serialization format.
type Format string

const (
	// Native is the slidedeck JSON document format.
	Native Format = "slidedeck"
	// LegacyXML is the read-only XML slide format of older installations.
	LegacyXML Format = "legacy-xml"
)

// ErrWriteUnsupported reports a provider that can only read.
var ErrWriteUnsupported = errors.New("format does not support writing")

// ParseFormat resolves a user-supplied format name.
func ParseFormat(value string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case Native, "native", "json":
		return Native, true
	case LegacyXML, "xml":
		return LegacyXML, true
	default:
		return "", false
	}
}

// ReadItem is one document produced by a provider plus any non-fatal notes
// about content it could not represent.
type ReadItem[T any] struct {
	Data     T
	Warnings []string
}

// Provider is a codec for one format and one entity type.
//
// SupportsPath is the fast path for top-level files and may open the file.
// SupportsContentType is a coarse filter on sniffed archive entries, and
// SupportsContent is the finer check on buffered bytes before Read.
type Provider[T any] interface {
	Format() Format
	SupportsPath(path string) bool
	SupportsContentType(contentType string) bool
	SupportsContent(name string, data []byte) bool
	Read(name string, r io.Reader) ([]ReadItem[T], error)
	Write(w io.Writer, item T) error
}

// Registry holds providers in registration order. Lookups by content type
// preserve that order so earlier providers are tried first.
type Registry[T any] struct {
	providers []Provider[T]
}

// NewRegistry returns a registry holding providers.
func NewRegistry[T any](providers ...Provider[T]) *Registry[T] {
	r := &Registry[T]{}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any provider for the same format.
func (r *Registry[T]) Register(p Provider[T]) {
	if i := slices.IndexFunc(r.providers, func(q Provider[T]) bool { return q.Format() == p.Format() }); i >= 0 {
		r.providers[i] = p
		return
	}
	r.providers = append(r.providers, p)
}

// Get returns the provider for f.
func (r *Registry[T]) Get(f Format) (Provider[T], bool) {
	for _, p := range r.providers {
		if p.Format() == f {
			return p, true
		}
	}
	return nil, false
}

// Providers returns every provider in registration order.
func (r *Registry[T]) Providers() []Provider[T] {
	return slices.Clone(r.providers)
}

// ForPath returns the providers that recognize the file at path directly.
func (r *Registry[T]) ForPath(path string) []Provider[T] {
	var out []Provider[T]
	for _, p := range r.providers {
		if p.SupportsPath(path) {
			out = append(out, p)
		}
	}
	return out
}

// ForContentType returns the providers that accept contentType.
func (r *Registry[T]) ForContentType(contentType string) []Provider[T] {
	var out []Provider[T]
	for _, p := range r.providers {
		if p.SupportsContentType(contentType) {
			out = append(out, p)
		}
	}
	return out
}

// Formats lists the registered formats.
func (r *Registry[T]) Formats() []Format {
	out := make([]Format, len(r.providers))
	for i, p := range r.providers {
		out[i] = p.Format()
	}
	return out
}
