package document

import (
	"encoding/json"
	"fmt"
)

// decodeFunc turns the raw JSON of one tagged object into a domain value.
type decodeFunc[T any] func(raw json.RawMessage) (T, error)

// registry maps discriminator tags to decoders for one variant family.
type registry[T any] struct {
	family   string
	decoders map[string]decodeFunc[T]
}

func newRegistry[T any](family string) *registry[T] {
	return &registry[T]{family: family, decoders: make(map[string]decodeFunc[T])}
}

func (r *registry[T]) register(tag string, fn decodeFunc[T]) {
	if _, exists := r.decoders[tag]; exists {
		panic(fmt.Sprintf("document: duplicate %s tag %q", r.family, tag))
	}
	r.decoders[tag] = fn
}

// decode dispatches raw to the decoder registered for tag.
func (r *registry[T]) decode(tag string, raw json.RawMessage) (T, error) {
	fn, ok := r.decoders[tag]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownType, r.family, tag)
	}
	v, err := fn(raw)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s %q: %w", r.family, tag, err)
	}
	return v, nil
}

// decodeTagged reads the inline "type" field of raw and dispatches on it.
func (r *registry[T]) decodeTagged(raw json.RawMessage) (T, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s tag: %w", r.family, err)
	}
	return r.decode(probe.Type, raw)
}

// into builds a decoder that unmarshals into the DTO D and converts it.
func into[D any, T any](convert func(D) (T, error)) decodeFunc[T] {
	return func(raw json.RawMessage) (T, error) {
		var dto D
		if err := json.Unmarshal(raw, &dto); err != nil {
			var zero T
			return zero, err
		}
		return convert(dto)
	}
}
