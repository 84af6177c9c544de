package slide

import "slices"

// PaintKind discriminates the Paint variants.
type PaintKind string

const (
	PaintColor          PaintKind = "color"
	PaintLinearGradient PaintKind = "linear-gradient"
	PaintRadialGradient PaintKind = "radial-gradient"
	PaintMedia          PaintKind = "media"
)

// Paint fills a region or stroke. Implementations are *Color,
// *LinearGradient, *RadialGradient and *MediaPaint. A nil Paint paints
// nothing.
type Paint interface {
	Kind() PaintKind
	sealedPaint()
}

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

func (*Color) Kind() PaintKind { return PaintColor }
func (*Color) sealedPaint()    {}

// RGBA returns an opaque-or-translucent colour paint.
func RGBA(r, g, b, a float64) *Color {
	return &Color{R: r, G: g, B: b, A: a}
}

// Stop is one colour position along a gradient.
type Stop struct {
	Offset float64
	Color  Color
}

// CycleMethod controls how a gradient fills outside its start and end.
type CycleMethod string

const (
	CycleNone    CycleMethod = "none"
	CycleReflect CycleMethod = "reflect"
	CycleRepeat  CycleMethod = "repeat"
)

// LinearGradient interpolates stops along a line in proportional coordinates.
type LinearGradient struct {
	StartX, StartY float64
	EndX, EndY     float64
	Cycle          CycleMethod
	Stops          []Stop
}

func (*LinearGradient) Kind() PaintKind { return PaintLinearGradient }
func (*LinearGradient) sealedPaint()    {}

// RadialGradient interpolates stops outward from a centre point.
type RadialGradient struct {
	CenterX, CenterY float64
	Radius           float64
	Cycle            CycleMethod
	Stops            []Stop
}

func (*RadialGradient) Kind() PaintKind { return PaintRadialGradient }
func (*RadialGradient) sealedPaint()    {}

// Scaling controls how media fits its region.
type Scaling string

const (
	ScaleNone    Scaling = "none"
	ScaleFit     Scaling = "fit"
	ScaleFill    Scaling = "fill"
	ScaleStretch Scaling = "stretch"
)

// MediaPaint fills a region with an image or video from the media library.
type MediaPaint struct {
	MediaID string
	Scaling Scaling
}

func (*MediaPaint) Kind() PaintKind { return PaintMedia }
func (*MediaPaint) sealedPaint()    {}

// ClonePaint deep-copies p.
func ClonePaint(p Paint) Paint {
	switch v := p.(type) {
	case nil:
		return nil
	case *Color:
		c := *v
		return &c
	case *LinearGradient:
		g := *v
		g.Stops = slices.Clone(v.Stops)
		return &g
	case *RadialGradient:
		g := *v
		g.Stops = slices.Clone(v.Stops)
		return &g
	case *MediaPaint:
		m := *v
		return &m
	default:
		panic("slide: unknown paint type")
	}
}

// EqualPaint compares two paints by value. Two nil paints are equal.
func EqualPaint(a, b Paint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Color:
		y, ok := b.(*Color)
		return ok && *x == *y
	case *LinearGradient:
		y, ok := b.(*LinearGradient)
		return ok && x.StartX == y.StartX && x.StartY == y.StartY &&
			x.EndX == y.EndX && x.EndY == y.EndY && x.Cycle == y.Cycle &&
			slices.Equal(x.Stops, y.Stops)
	case *RadialGradient:
		y, ok := b.(*RadialGradient)
		return ok && x.CenterX == y.CenterX && x.CenterY == y.CenterY &&
			x.Radius == y.Radius && x.Cycle == y.Cycle &&
			slices.Equal(x.Stops, y.Stops)
	case *MediaPaint:
		y, ok := b.(*MediaPaint)
		return ok && *x == *y
	default:
		return false
	}
}

// StrokeStyle places a border relative to the region edge.
type StrokeStyle string

const (
	StrokeCentered StrokeStyle = "centered"
	StrokeInside   StrokeStyle = "inside"
	StrokeOutside  StrokeStyle = "outside"
)

// Stroke is a region border.
type Stroke struct {
	Paint  Paint
	Style  StrokeStyle
	Width  float64
	Radius float64
}

// Clone deep-copies the stroke; nil stays nil.
func (s *Stroke) Clone() *Stroke {
	if s == nil {
		return nil
	}
	out := *s
	out.Paint = ClonePaint(s.Paint)
	return &out
}

// Equal compares strokes by value; two nil strokes are equal.
func (s *Stroke) Equal(other *Stroke) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return s.Style == other.Style && s.Width == other.Width &&
		s.Radius == other.Radius && EqualPaint(s.Paint, other.Paint)
}

// EffectKind distinguishes drop shadows from inner shadows.
type EffectKind string

const (
	EffectOuter EffectKind = "outer"
	EffectInner EffectKind = "inner"
)

// Effect describes a shadow or glow.
type Effect struct {
	Kind    EffectKind
	Color   Color
	OffsetX float64
	OffsetY float64
	Radius  float64
	Spread  float64
}

// Clone copies the effect; nil stays nil.
func (e *Effect) Clone() *Effect {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}
