// Package thumbnail renders side-car previews for stored documents.
//
// The renderer contract is deliberately small: the store asks for a raster
// of a fixed size and writes it as PNG next to the document. SlideRenderer is
// a schematic renderer (backdrop plus one box per component) that stands in
// for the full compositing engine.
package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"slidedeck/internal/slide"
)

// ErrInvalidSize reports a non-positive thumbnail dimension.
var ErrInvalidSize = errors.New("invalid thumbnail size")

// Renderer turns an entity into a raster of exactly width x height.
type Renderer[T any] interface {
	Render(item T, width, height int) (image.Image, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc[T any] func(item T, width, height int) (image.Image, error)

// Render calls f.
func (f RendererFunc[T]) Render(item T, width, height int) (image.Image, error) {
	return f(item, width, height)
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}

// SlideRenderer draws a schematic preview of a slide.
type SlideRenderer struct{}

var (
	placeholderTint = color.NRGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff}
	mediaTint       = color.NRGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}
	textTint        = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

// Render implements Renderer.
func (SlideRenderer) Render(s *slide.Slide, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if s == nil {
		return nil, errors.New("render thumbnail: nil slide")
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	backdrop := paintColor(s.Background, color.NRGBA{A: 0xff})
	draw.Draw(img, img.Bounds(), image.NewUniform(backdrop), image.Point{}, draw.Src)

	if s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		return img, nil
	}
	sx := float64(width) / s.Bounds.Width
	sy := float64(height) / s.Bounds.Height
	for _, c := range s.Components {
		r := image.Rect(
			int(math.Floor(c.Bounds.X*sx)),
			int(math.Floor(c.Bounds.Y*sy)),
			int(math.Ceil((c.Bounds.X+c.Bounds.Width)*sx)),
			int(math.Ceil((c.Bounds.Y+c.Bounds.Height)*sy)),
		).Intersect(img.Bounds())
		if r.Empty() {
			continue
		}
		fill := withOpacity(paintColor(c.Background, bodyTint(c.Body)), c.Opacity)
		draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
	}
	return img, nil
}

func bodyTint(body slide.Body) color.NRGBA {
	switch body.(type) {
	case *slide.ImageBody, *slide.VideoBody, *slide.AudioBody:
		return mediaTint
	case *slide.PlaceholderBody:
		return placeholderTint
	default:
		return textTint
	}
}

// paintColor approximates p with a single colour: gradients use their first
// stop and media paints fall back.
func paintColor(p slide.Paint, fallback color.NRGBA) color.NRGBA {
	switch v := p.(type) {
	case *slide.Color:
		return toNRGBA(*v)
	case *slide.LinearGradient:
		if len(v.Stops) > 0 {
			return toNRGBA(v.Stops[0].Color)
		}
	case *slide.RadialGradient:
		if len(v.Stops) > 0 {
			return toNRGBA(v.Stops[0].Color)
		}
	}
	return fallback
}

func toNRGBA(c slide.Color) color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A) * math.Min(math.Max(opacity, 0), 1))
	return c
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}
