package document

import (
	"encoding/json"
	"fmt"
	"time"

	"slidedeck/internal/placeholder"
	"slidedeck/internal/slide"
)

type rectDTO struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type effectDTO struct {
	Kind    string   `json:"kind"`
	Color   colorDTO `json:"color"`
	OffsetX float64  `json:"offsetX,omitempty"`
	OffsetY float64  `json:"offsetY,omitempty"`
	Radius  float64  `json:"radius,omitempty"`
	Spread  float64  `json:"spread,omitempty"`
}

type animationDTO struct {
	Effect      string `json:"effect"`
	DurationMS  int64  `json:"durationMs"`
	DelayMS     int64  `json:"delayMs,omitempty"`
	RepeatCount int    `json:"repeatCount,omitempty"`
	AutoReverse bool   `json:"autoReverse,omitempty"`
	Easing      string `json:"easing,omitempty"`
}

type fontDTO struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
}

type textStyleDTO struct {
	Font        fontDTO         `json:"font"`
	Fill        json.RawMessage `json:"fill,omitempty"`
	Stroke      *strokeDTO      `json:"stroke,omitempty"`
	HAlign      string          `json:"hAlign,omitempty"`
	VAlign      string          `json:"vAlign,omitempty"`
	Padding     float64         `json:"padding,omitempty"`
	LineSpacing float64         `json:"lineSpacing,omitempty"`
	Wrap        bool            `json:"wrap,omitempty"`
}

// componentDTO is one component: the "type" tag names the body kind and the
// body payload sits under "body".
type componentDTO struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Bounds     rectDTO         `json:"bounds"`
	Background json.RawMessage `json:"background,omitempty"`
	Border     *strokeDTO      `json:"border,omitempty"`
	Opacity    float64         `json:"opacity"`
	Shadow     *effectDTO      `json:"shadow,omitempty"`
	Glow       *effectDTO      `json:"glow,omitempty"`
	Animations []animationDTO  `json:"animations,omitempty"`
	Body       json.RawMessage `json:"body"`
}

type textBodyDTO struct {
	Text  string       `json:"text"`
	Style textStyleDTO `json:"style"`
}

type mediaBodyDTO struct {
	MediaID string `json:"mediaId"`
	Scaling string `json:"scaling,omitempty"`
	Loop    bool   `json:"loop,omitempty"`
	Mute    bool   `json:"mute,omitempty"`
}

type placeholderBodyDTO struct {
	PlaceholderType string       `json:"placeholderType"`
	Variant         string       `json:"variant"`
	Style           textStyleDTO `json:"style"`
}

type dateTimeBodyDTO struct {
	Layout string       `json:"layout"`
	Style  textStyleDTO `json:"style"`
}

type countdownBodyDTO struct {
	Target time.Time    `json:"target"`
	Layout string       `json:"layout,omitempty"`
	Style  textStyleDTO `json:"style"`
}

var bodies = newRegistry[slide.Body]("component")

func init() {
	bodies.register(string(slide.KindText), into(func(d textBodyDTO) (slide.Body, error) {
		style, err := decodeTextStyle(d.Style)
		return &slide.TextBody{Text: d.Text, Style: style}, err
	}))
	bodies.register(string(slide.KindImage), into(func(d mediaBodyDTO) (slide.Body, error) {
		return &slide.ImageBody{MediaID: d.MediaID, Scaling: slide.Scaling(d.Scaling)}, nil
	}))
	bodies.register(string(slide.KindVideo), into(func(d mediaBodyDTO) (slide.Body, error) {
		return &slide.VideoBody{MediaID: d.MediaID, Scaling: slide.Scaling(d.Scaling), Loop: d.Loop, Mute: d.Mute}, nil
	}))
	bodies.register(string(slide.KindAudio), into(func(d mediaBodyDTO) (slide.Body, error) {
		return &slide.AudioBody{MediaID: d.MediaID, Loop: d.Loop}, nil
	}))
	bodies.register(string(slide.KindPlaceholder), into(func(d placeholderBodyDTO) (slide.Body, error) {
		typ, err := placeholder.ParseType(d.PlaceholderType)
		if err != nil {
			return nil, err
		}
		variant, err := placeholder.ParseVariant(d.Variant)
		if err != nil {
			return nil, err
		}
		style, err := decodeTextStyle(d.Style)
		return &slide.PlaceholderBody{Type: typ, Variant: variant, Style: style}, err
	}))
	bodies.register(string(slide.KindDateTime), into(func(d dateTimeBodyDTO) (slide.Body, error) {
		style, err := decodeTextStyle(d.Style)
		return &slide.DateTimeBody{Layout: d.Layout, Style: style}, err
	}))
	bodies.register(string(slide.KindCountdown), into(func(d countdownBodyDTO) (slide.Body, error) {
		style, err := decodeTextStyle(d.Style)
		return &slide.CountdownBody{Target: d.Target, Layout: d.Layout, Style: style}, err
	}))
}

func encodeComponent(c *slide.Component) (componentDTO, error) {
	if c.Body == nil {
		return componentDTO{}, fmt.Errorf("component %s has no body", c.ID)
	}
	body, err := encodeBody(c.Body)
	if err != nil {
		return componentDTO{}, fmt.Errorf("component %s: %w", c.ID, err)
	}
	background, err := encodePaint(c.Background)
	if err != nil {
		return componentDTO{}, err
	}
	border, err := encodeStroke(c.Border)
	if err != nil {
		return componentDTO{}, err
	}
	return componentDTO{
		Type:       string(c.Body.Kind()),
		ID:         c.ID,
		Name:       c.Name,
		Bounds:     rectToDTO(c.Bounds),
		Background: background,
		Border:     border,
		Opacity:    c.Opacity,
		Shadow:     effectToDTO(c.Shadow),
		Glow:       effectToDTO(c.Glow),
		Animations: animationsToDTO(c.Animations),
		Body:       body,
	}, nil
}

func decodeComponent(d componentDTO) (*slide.Component, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("component without id")
	}
	body, err := bodies.decode(d.Type, d.Body)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", d.ID, err)
	}
	background, err := decodePaint(d.Background)
	if err != nil {
		return nil, fmt.Errorf("component %s background: %w", d.ID, err)
	}
	border, err := decodeStroke(d.Border)
	if err != nil {
		return nil, fmt.Errorf("component %s border: %w", d.ID, err)
	}
	c := &slide.Component{
		Shadow:     effectFromDTO(d.Shadow),
		Glow:       effectFromDTO(d.Glow),
		Animations: animationsFromDTO(d.Animations),
		Body:       body,
	}
	c.Region = slide.Region{
		ID:         d.ID,
		Name:       d.Name,
		Bounds:     rectFromDTO(d.Bounds),
		Background: background,
		Border:     border,
		Opacity:    d.Opacity,
	}
	return c, nil
}

func encodeBody(body slide.Body) (json.RawMessage, error) {
	var dto any
	switch b := body.(type) {
	case *slide.TextBody:
		style, err := encodeTextStyle(b.Style)
		if err != nil {
			return nil, err
		}
		dto = textBodyDTO{Text: b.Text, Style: style}
	case *slide.ImageBody:
		dto = mediaBodyDTO{MediaID: b.MediaID, Scaling: string(b.Scaling)}
	case *slide.VideoBody:
		dto = mediaBodyDTO{MediaID: b.MediaID, Scaling: string(b.Scaling), Loop: b.Loop, Mute: b.Mute}
	case *slide.AudioBody:
		dto = mediaBodyDTO{MediaID: b.MediaID, Loop: b.Loop}
	case *slide.PlaceholderBody:
		style, err := encodeTextStyle(b.Style)
		if err != nil {
			return nil, err
		}
		dto = placeholderBodyDTO{PlaceholderType: string(b.Type), Variant: string(b.Variant), Style: style}
	case *slide.DateTimeBody:
		style, err := encodeTextStyle(b.Style)
		if err != nil {
			return nil, err
		}
		dto = dateTimeBodyDTO{Layout: b.Layout, Style: style}
	case *slide.CountdownBody:
		style, err := encodeTextStyle(b.Style)
		if err != nil {
			return nil, err
		}
		dto = countdownBodyDTO{Target: b.Target.UTC(), Layout: b.Layout, Style: style}
	default:
		return nil, fmt.Errorf("%w: body %T", ErrUnknownType, body)
	}
	return json.Marshal(dto)
}

func encodeTextStyle(s slide.TextStyle) (textStyleDTO, error) {
	fill, err := encodePaint(s.Fill)
	if err != nil {
		return textStyleDTO{}, err
	}
	stroke, err := encodeStroke(s.Stroke)
	if err != nil {
		return textStyleDTO{}, err
	}
	return textStyleDTO{
		Font:        fontDTO{Family: s.Font.Family, Size: s.Font.Size, Bold: s.Font.Bold, Italic: s.Font.Italic},
		Fill:        fill,
		Stroke:      stroke,
		HAlign:      string(s.HAlign),
		VAlign:      string(s.VAlign),
		Padding:     s.Padding,
		LineSpacing: s.LineSpacing,
		Wrap:        s.Wrap,
	}, nil
}

func decodeTextStyle(d textStyleDTO) (slide.TextStyle, error) {
	fill, err := decodePaint(d.Fill)
	if err != nil {
		return slide.TextStyle{}, fmt.Errorf("text fill: %w", err)
	}
	stroke, err := decodeStroke(d.Stroke)
	if err != nil {
		return slide.TextStyle{}, fmt.Errorf("text stroke: %w", err)
	}
	return slide.TextStyle{
		Font:        slide.Font{Family: d.Font.Family, Size: d.Font.Size, Bold: d.Font.Bold, Italic: d.Font.Italic},
		Fill:        fill,
		Stroke:      stroke,
		HAlign:      slide.Alignment(d.HAlign),
		VAlign:      slide.Alignment(d.VAlign),
		Padding:     d.Padding,
		LineSpacing: d.LineSpacing,
		Wrap:        d.Wrap,
	}, nil
}

func rectToDTO(r slide.Rect) rectDTO {
	return rectDTO{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rectFromDTO(d rectDTO) slide.Rect {
	return slide.Rect{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
}

func effectToDTO(e *slide.Effect) *effectDTO {
	if e == nil {
		return nil
	}
	return &effectDTO{
		Kind:    string(e.Kind),
		Color:   colorToDTO(e.Color),
		OffsetX: e.OffsetX,
		OffsetY: e.OffsetY,
		Radius:  e.Radius,
		Spread:  e.Spread,
	}
}

func effectFromDTO(d *effectDTO) *slide.Effect {
	if d == nil {
		return nil
	}
	return &slide.Effect{
		Kind:    slide.EffectKind(d.Kind),
		Color:   colorFromDTO(d.Color),
		OffsetX: d.OffsetX,
		OffsetY: d.OffsetY,
		Radius:  d.Radius,
		Spread:  d.Spread,
	}
}

func animationToDTO(a slide.Animation) animationDTO {
	return animationDTO{
		Effect:      a.Effect,
		DurationMS:  millis(a.Duration),
		DelayMS:     millis(a.Delay),
		RepeatCount: a.RepeatCount,
		AutoReverse: a.AutoReverse,
		Easing:      string(a.Easing),
	}
}

func animationFromDTO(d animationDTO) slide.Animation {
	return slide.Animation{
		Effect:      d.Effect,
		Duration:    duration(d.DurationMS),
		Delay:       duration(d.DelayMS),
		RepeatCount: d.RepeatCount,
		AutoReverse: d.AutoReverse,
		Easing:      slide.Easing(d.Easing),
	}
}

func animationsToDTO(list []slide.Animation) []animationDTO {
	if len(list) == 0 {
		return nil
	}
	out := make([]animationDTO, len(list))
	for i, a := range list {
		out[i] = animationToDTO(a)
	}
	return out
}

func animationsFromDTO(list []animationDTO) []slide.Animation {
	if len(list) == 0 {
		return nil
	}
	out := make([]slide.Animation, len(list))
	for i, a := range list {
		out[i] = animationFromDTO(a)
	}
	return out
}
