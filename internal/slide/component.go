package slide

import (
	"slices"
	"time"

	"slidedeck/internal/placeholder"
)

// Kind discriminates component bodies.
type Kind string

const (
	KindText        Kind = "text"
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindPlaceholder Kind = "placeholder"
	KindDateTime    Kind = "datetime"
	KindCountdown   Kind = "countdown"
)

// Body is the kind-specific payload of a component. The implementations are
// *TextBody, *ImageBody, *VideoBody, *AudioBody, *PlaceholderBody,
// *DateTimeBody and *CountdownBody; switches over Body are expected to be
// exhaustive.
type Body interface {
	Kind() Kind
	sealedBody()
}

// Alignment positions text inside its region.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
)

// Font selects the typeface of text bodies.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// TextStyle is shared by every body that draws text.
type TextStyle struct {
	Font        Font
	Fill        Paint
	Stroke      *Stroke
	HAlign      Alignment
	VAlign      Alignment
	Padding     float64
	LineSpacing float64
	Wrap        bool
}

func (s TextStyle) clone() TextStyle {
	out := s
	out.Fill = ClonePaint(s.Fill)
	out.Stroke = s.Stroke.Clone()
	return out
}

func (s TextStyle) collectMedia(set map[string]struct{}) {
	addPaintMedia(set, s.Fill)
	if s.Stroke != nil {
		addPaintMedia(set, s.Stroke.Paint)
	}
}

// TextBody is authored static text.
type TextBody struct {
	Text  string
	Style TextStyle
}

func (*TextBody) Kind() Kind  { return KindText }
func (*TextBody) sealedBody() {}

// ImageBody shows an image from the media library.
type ImageBody struct {
	MediaID string
	Scaling Scaling
}

func (*ImageBody) Kind() Kind  { return KindImage }
func (*ImageBody) sealedBody() {}

// VideoBody plays a video from the media library.
type VideoBody struct {
	MediaID string
	Scaling Scaling
	Loop    bool
	Mute    bool
}

func (*VideoBody) Kind() Kind  { return KindVideo }
func (*VideoBody) sealedBody() {}

// AudioBody plays audio; it has no visual output beyond its region paint.
type AudioBody struct {
	MediaID string
	Loop    bool
}

func (*AudioBody) Kind() Kind  { return KindAudio }
func (*AudioBody) sealedBody() {}

// PlaceholderBody is text resolved from the slide's placeholder data.
//
// Style.Font.Size is the configured size. SizeOverride is set during
// resolution when the source item carries its own size and is never
// persisted.
type PlaceholderBody struct {
	Type         placeholder.Type
	Variant      placeholder.Variant
	Text         string
	Style        TextStyle
	SizeOverride float64
}

func (*PlaceholderBody) Kind() Kind  { return KindPlaceholder }
func (*PlaceholderBody) sealedBody() {}

// FontSize is the size the renderer should use.
func (b *PlaceholderBody) FontSize() float64 {
	if b.SizeOverride > 0 {
		return b.SizeOverride
	}
	return b.Style.Font.Size
}

func (b *PlaceholderBody) resolve(data placeholder.Data) {
	item, ok := placeholder.Lookup(data, b.Type, b.Variant)
	if !ok {
		b.Text = ""
		b.SizeOverride = 0
		return
	}
	b.Text = item.Text
	b.SizeOverride = 0
	if item.FontSize > 0 {
		b.SizeOverride = item.FontSize
	}
}

// DateTimeBody renders the current wall clock with a Go time layout.
type DateTimeBody struct {
	Layout string
	Style  TextStyle
}

func (*DateTimeBody) Kind() Kind  { return KindDateTime }
func (*DateTimeBody) sealedBody() {}

// CountdownBody renders the time remaining until Target.
type CountdownBody struct {
	Target time.Time
	Layout string
	Style  TextStyle
}

func (*CountdownBody) Kind() Kind  { return KindCountdown }
func (*CountdownBody) sealedBody() {}

// Remaining returns the time left at now, floored at zero.
func (b *CountdownBody) Remaining(now time.Time) time.Duration {
	return max(b.Target.Sub(now), 0)
}

// Component is a placeable unit on a slide.
type Component struct {
	Region
	Shadow     *Effect
	Glow       *Effect
	Animations []Animation
	Body       Body
}

// NewComponent creates a component with a fresh identifier.
func NewComponent(name string, bounds Rect, body Body) *Component {
	return &Component{Region: newRegion(name, bounds), Body: body}
}

// ReferencedMedia returns the sorted media identifiers the component depends
// on through its region paints, text paints and media body.
func (c *Component) ReferencedMedia() []string {
	set := make(map[string]struct{})
	c.collectMedia(set)
	return sortedKeys(set)
}

func (c *Component) collectMedia(set map[string]struct{}) {
	c.Region.collectMedia(set)
	switch b := c.Body.(type) {
	case *TextBody:
		b.Style.collectMedia(set)
	case *ImageBody:
		addMediaID(set, b.MediaID)
	case *VideoBody:
		addMediaID(set, b.MediaID)
	case *AudioBody:
		addMediaID(set, b.MediaID)
	case *PlaceholderBody:
		b.Style.collectMedia(set)
	case *DateTimeBody:
		b.Style.collectMedia(set)
	case *CountdownBody:
		b.Style.collectMedia(set)
	case nil:
	}
}

// IsPlaceholder reports whether the component takes its text from
// placeholder data.
func (c *Component) IsPlaceholder() bool {
	_, ok := c.Body.(*PlaceholderBody)
	return ok
}

// Snapshot deep-copies the component keeping its identifier.
func (c *Component) Snapshot() *Component {
	out := &Component{
		Region:     c.Region.clone(),
		Shadow:     c.Shadow.Clone(),
		Glow:       c.Glow.Clone(),
		Animations: slices.Clone(c.Animations),
		Body:       cloneBody(c.Body),
	}
	return out
}

// Duplicate deep-copies the component under a new identifier.
func (c *Component) Duplicate() *Component {
	out := c.Snapshot()
	out.ID = NewID()
	return out
}

func cloneBody(body Body) Body {
	switch b := body.(type) {
	case nil:
		return nil
	case *TextBody:
		out := *b
		out.Style = b.Style.clone()
		return &out
	case *ImageBody:
		out := *b
		return &out
	case *VideoBody:
		out := *b
		return &out
	case *AudioBody:
		out := *b
		return &out
	case *PlaceholderBody:
		out := *b
		out.Style = b.Style.clone()
		return &out
	case *DateTimeBody:
		out := *b
		out.Style = b.Style.clone()
		return &out
	case *CountdownBody:
		out := *b
		out.Style = b.Style.clone()
		return &out
	default:
		panic("slide: unknown component body")
	}
}

func addMediaID(set map[string]struct{}, id string) {
	if id != "" {
		set[id] = struct{}{}
	}
}
