package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"slidedeck/internal/document"
	"slidedeck/internal/sniff"
	"slidedeck/internal/slide"
)

// NativeExt is the file extension of native documents.
const NativeExt = ".json"

// maxProbeBytes bounds how much of a top-level file SupportsPath reads.
const maxProbeBytes = 16 << 20

type nativeProvider[T any] struct {
	docType   string
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
}

// NativeSlides reads and writes native slide documents.
func NativeSlides() Provider[*slide.Slide] {
	return &nativeProvider[*slide.Slide]{
		docType:   document.TypeSlide,
		marshal:   document.MarshalSlide,
		unmarshal: document.UnmarshalSlide,
	}
}

// NativeShows reads and writes native show documents.
func NativeShows() Provider[*slide.Show] {
	return &nativeProvider[*slide.Show]{
		docType:   document.TypeShow,
		marshal:   document.MarshalShow,
		unmarshal: document.UnmarshalShow,
	}
}

func (p *nativeProvider[T]) Format() Format { return Native }

func (p *nativeProvider[T]) SupportsPath(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), NativeExt) {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxProbeBytes))
	if err != nil {
		return false
	}
	return document.IsDocument(data, p.docType)
}

func (p *nativeProvider[T]) SupportsContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, sniff.JSON) || strings.HasPrefix(ct, sniff.Plain)
}

func (p *nativeProvider[T]) SupportsContent(_ string, data []byte) bool {
	return document.IsDocument(data, p.docType)
}

func (p *nativeProvider[T]) Read(name string, r io.Reader) ([]ReadItem[T], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	item, err := p.unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return []ReadItem[T]{{Data: item}}, nil
}

func (p *nativeProvider[T]) Write(w io.Writer, item T) error {
	data, err := p.marshal(item)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
