package document

import (
	"encoding/json"
	"fmt"

	"slidedeck/internal/slide"
)

type colorDTO struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type stopDTO struct {
	Offset float64  `json:"offset"`
	Color  colorDTO `json:"color"`
}

type colorPaintDTO struct {
	Type string `json:"type"`
	colorDTO
}

type linearGradientDTO struct {
	Type   string    `json:"type"`
	StartX float64   `json:"startX"`
	StartY float64   `json:"startY"`
	EndX   float64   `json:"endX"`
	EndY   float64   `json:"endY"`
	Cycle  string    `json:"cycle,omitempty"`
	Stops  []stopDTO `json:"stops"`
}

type radialGradientDTO struct {
	Type    string    `json:"type"`
	CenterX float64   `json:"centerX"`
	CenterY float64   `json:"centerY"`
	Radius  float64   `json:"radius"`
	Cycle   string    `json:"cycle,omitempty"`
	Stops   []stopDTO `json:"stops"`
}

type mediaPaintDTO struct {
	Type    string `json:"type"`
	MediaID string `json:"mediaId"`
	Scaling string `json:"scaling,omitempty"`
}

type strokeDTO struct {
	Paint  json.RawMessage `json:"paint,omitempty"`
	Style  string          `json:"style,omitempty"`
	Width  float64         `json:"width"`
	Radius float64         `json:"radius,omitempty"`
}

var paints = newRegistry[slide.Paint]("paint")

func init() {
	paints.register(string(slide.PaintColor), into(func(d colorPaintDTO) (slide.Paint, error) {
		c := colorFromDTO(d.colorDTO)
		return &c, nil
	}))
	paints.register(string(slide.PaintLinearGradient), into(func(d linearGradientDTO) (slide.Paint, error) {
		return &slide.LinearGradient{
			StartX: d.StartX, StartY: d.StartY, EndX: d.EndX, EndY: d.EndY,
			Cycle: slide.CycleMethod(d.Cycle),
			Stops: stopsFromDTO(d.Stops),
		}, nil
	}))
	paints.register(string(slide.PaintRadialGradient), into(func(d radialGradientDTO) (slide.Paint, error) {
		return &slide.RadialGradient{
			CenterX: d.CenterX, CenterY: d.CenterY, Radius: d.Radius,
			Cycle: slide.CycleMethod(d.Cycle),
			Stops: stopsFromDTO(d.Stops),
		}, nil
	}))
	paints.register(string(slide.PaintMedia), into(func(d mediaPaintDTO) (slide.Paint, error) {
		if d.MediaID == "" {
			return nil, fmt.Errorf("media paint without mediaId")
		}
		return &slide.MediaPaint{MediaID: d.MediaID, Scaling: slide.Scaling(d.Scaling)}, nil
	}))
}

func encodePaint(p slide.Paint) (json.RawMessage, error) {
	var dto any
	switch v := p.(type) {
	case nil:
		return nil, nil
	case *slide.Color:
		dto = colorPaintDTO{Type: string(slide.PaintColor), colorDTO: colorToDTO(*v)}
	case *slide.LinearGradient:
		dto = linearGradientDTO{
			Type:   string(slide.PaintLinearGradient),
			StartX: v.StartX, StartY: v.StartY, EndX: v.EndX, EndY: v.EndY,
			Cycle: string(v.Cycle),
			Stops: stopsToDTO(v.Stops),
		}
	case *slide.RadialGradient:
		dto = radialGradientDTO{
			Type:    string(slide.PaintRadialGradient),
			CenterX: v.CenterX, CenterY: v.CenterY, Radius: v.Radius,
			Cycle: string(v.Cycle),
			Stops: stopsToDTO(v.Stops),
		}
	case *slide.MediaPaint:
		dto = mediaPaintDTO{Type: string(slide.PaintMedia), MediaID: v.MediaID, Scaling: string(v.Scaling)}
	default:
		return nil, fmt.Errorf("%w: paint %T", ErrUnknownType, p)
	}
	return json.Marshal(dto)
}

func decodePaint(raw json.RawMessage) (slide.Paint, error) {
	if isNull(raw) {
		return nil, nil
	}
	return paints.decodeTagged(raw)
}

func encodeStroke(s *slide.Stroke) (*strokeDTO, error) {
	if s == nil {
		return nil, nil
	}
	paint, err := encodePaint(s.Paint)
	if err != nil {
		return nil, err
	}
	return &strokeDTO{Paint: paint, Style: string(s.Style), Width: s.Width, Radius: s.Radius}, nil
}

func decodeStroke(d *strokeDTO) (*slide.Stroke, error) {
	if d == nil {
		return nil, nil
	}
	paint, err := decodePaint(d.Paint)
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	return &slide.Stroke{Paint: paint, Style: slide.StrokeStyle(d.Style), Width: d.Width, Radius: d.Radius}, nil
}

func colorToDTO(c slide.Color) colorDTO   { return colorDTO{R: c.R, G: c.G, B: c.B, A: c.A} }
func colorFromDTO(d colorDTO) slide.Color { return slide.Color{R: d.R, G: d.G, B: d.B, A: d.A} }

func stopsToDTO(stops []slide.Stop) []stopDTO {
	out := make([]stopDTO, len(stops))
	for i, s := range stops {
		out[i] = stopDTO{Offset: s.Offset, Color: colorToDTO(s.Color)}
	}
	return out
}

func stopsFromDTO(stops []stopDTO) []slide.Stop {
	if len(stops) == 0 {
		return nil
	}
	out := make([]slide.Stop, len(stops))
	for i, s := range stops {
		out[i] = slide.Stop{Offset: s.Offset, Color: colorFromDTO(s.Color)}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
