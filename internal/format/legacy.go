package format

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"slidedeck/internal/paths"
	"slidedeck/internal/sniff"
	"slidedeck/internal/slide"
)

// LegacyExt is the file extension of legacy XML slides.
const LegacyExt = ".xml"

const (
	legacyDefaultWidth  = 1920
	legacyDefaultHeight = 1080
)

type legacySlides struct {
	Slides []legacySlide `xml:"slide"`
}

type legacySlide struct {
	ID       string          `xml:"id,attr"`
	Name     string          `xml:"name,attr"`
	Width    float64         `xml:"width,attr"`
	Height   float64         `xml:"height,attr"`
	Time     *int64          `xml:"time,attr"`
	Elements []legacyElement `xml:",any"`
}

type legacyElement struct {
	XMLName xml.Name
	Name    string  `xml:"name,attr"`
	X       float64 `xml:"x,attr"`
	Y       float64 `xml:"y,attr"`
	Width   float64 `xml:"width,attr"`
	Height  float64 `xml:"height,attr"`
	Color   string  `xml:"color,attr"`
	Font    string  `xml:"font,attr"`
	Size    float64 `xml:"size,attr"`
	Align   string  `xml:"align,attr"`
	Media   string  `xml:"media,attr"`
	Scaling string  `xml:"scaling,attr"`
	Loop    bool    `xml:"loop,attr"`
	Mute    bool    `xml:"mute,attr"`
	Text    string  `xml:",chardata"`
}

type legacyProvider struct{}

// LegacySlides reads slides exported by older installations as XML, either
// a single <slide> root or a <slides> wrapper. Writing is not supported.
func LegacySlides() Provider[*slide.Slide] { return legacyProvider{} }

func (legacyProvider) Format() Format { return LegacyXML }

func (p legacyProvider) SupportsPath(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), LegacyExt) {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	root, err := rootElement(f)
	return err == nil && isLegacyRoot(root)
}

func (legacyProvider) SupportsContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, sniff.XML) || strings.HasPrefix(ct, "application/xml")
}

func (legacyProvider) SupportsContent(_ string, data []byte) bool {
	root, err := rootElement(bytes.NewReader(data))
	return err == nil && isLegacyRoot(root)
}

func (legacyProvider) Read(name string, r io.Reader) ([]ReadItem[*slide.Slide], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	root, err := rootElement(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	var slides []legacySlide
	switch root {
	case "slide":
		var s legacySlide
		if err := xml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		slides = append(slides, s)
	case "slides":
		var wrapper legacySlides
		if err := xml.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		slides = wrapper.Slides
	default:
		return nil, fmt.Errorf("parse %s: unexpected root element <%s>", name, root)
	}

	items := make([]ReadItem[*slide.Slide], 0, len(slides))
	for i, ls := range slides {
		s, warnings := ls.toSlide()
		if s.Name == "" {
			s.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
			if len(slides) > 1 {
				s.Name = fmt.Sprintf("%s %d", s.Name, i+1)
			}
		}
		items = append(items, ReadItem[*slide.Slide]{Data: s, Warnings: warnings})
	}
	return items, nil
}

func (legacyProvider) Write(io.Writer, *slide.Slide) error {
	return fmt.Errorf("%s: %w", LegacyXML, ErrWriteUnsupported)
}

func (ls legacySlide) toSlide() (*slide.Slide, []string) {
	width, height := ls.Width, ls.Height
	if width <= 0 || height <= 0 {
		width, height = legacyDefaultWidth, legacyDefaultHeight
	}
	s := slide.New(strings.TrimSpace(ls.Name), width, height)
	if paths.ValidateID(ls.ID) == nil {
		s.ID = ls.ID
	}
	if ls.Time != nil {
		if *ls.Time < 0 {
			s.Time = slide.Forever
		} else {
			s.Time = time.Duration(*ls.Time) * time.Millisecond
		}
	}

	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	for _, el := range ls.Elements {
		bounds := slide.Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
		var body slide.Body
		switch el.XMLName.Local {
		case "background":
			paint, err := parseHexColor(el.Color)
			if err != nil {
				warn("background: %v", err)
				continue
			}
			s.Background = paint
			continue
		case "text":
			style := slide.TextStyle{
				Font:   slide.Font{Family: el.Font, Size: el.Size},
				HAlign: slide.Alignment(el.Align),
				Wrap:   true,
			}
			if el.Color != "" {
				fill, err := parseHexColor(el.Color)
				if err != nil {
					warn("text %q: %v", el.Name, err)
				} else {
					style.Fill = fill
				}
			}
			body = &slide.TextBody{Text: strings.TrimSpace(el.Text), Style: style}
		case "image":
			body = &slide.ImageBody{MediaID: el.Media, Scaling: slide.Scaling(el.Scaling)}
		case "video":
			body = &slide.VideoBody{MediaID: el.Media, Scaling: slide.Scaling(el.Scaling), Loop: el.Loop, Mute: el.Mute}
		case "audio":
			body = &slide.AudioBody{MediaID: el.Media, Loop: el.Loop}
		default:
			warn("unsupported element <%s> skipped", el.XMLName.Local)
			continue
		}
		if media := mediaOf(body); media == "" && el.XMLName.Local != "text" {
			warn("<%s> without media reference skipped", el.XMLName.Local)
			continue
		}
		name := el.Name
		if name == "" {
			name = el.XMLName.Local
		}
		s.Add(slide.NewComponent(name, bounds, body))
	}
	return s, warnings
}

func mediaOf(body slide.Body) string {
	switch b := body.(type) {
	case *slide.ImageBody:
		return b.MediaID
	case *slide.VideoBody:
		return b.MediaID
	case *slide.AudioBody:
		return b.MediaID
	default:
		return ""
	}
}

func rootElement(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errors.New("no root element")
			}
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func isLegacyRoot(name string) bool {
	return name == "slide" || name == "slides"
}

// parseHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseHexColor(value string) (*slide.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("invalid color %q", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", value)
	}
	channel := func(shift uint) float64 { return float64((v>>shift)&0xff) / 255 }
	return slide.RGBA(channel(24), channel(16), channel(8), channel(0)), nil
}
