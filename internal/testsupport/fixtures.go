package testsupport

import (
	"testing"
	"time"

	"slidedeck/internal/document"
	"slidedeck/internal/slide"
)

// NewSlide builds a 1920x1080 slide with a text and an image component.
func NewSlide(name string) *slide.Slide {
	s := slide.New(name, 1920, 1080)
	s.Time = 10 * time.Second
	s.Background = slide.RGBA(0, 0, 0, 1)
	s.Add(slide.NewComponent("title", slide.Rect{X: 100, Y: 100, Width: 1720, Height: 200}, &slide.TextBody{
		Text:  name,
		Style: slide.TextStyle{Font: slide.Font{Family: "Sans", Size: 64}, Fill: slide.RGBA(1, 1, 1, 1)},
	}))
	s.Add(slide.NewComponent("logo", slide.Rect{X: 1600, Y: 900, Width: 200, Height: 100}, &slide.ImageBody{
		MediaID: "logo-" + name,
		Scaling: slide.ScaleFit,
	}))
	return s
}

// SlideJSON returns the native document for s.
func SlideJSON(t testing.TB, s *slide.Slide) []byte {
	t.Helper()

	data, err := document.MarshalSlide(s)
	if err != nil {
		t.Fatalf("marshal slide %s: %v", s.ID, err)
	}
	return data
}

// ShowJSON returns the native document for s.
func ShowJSON(t testing.TB, s *slide.Show) []byte {
	t.Helper()

	data, err := document.MarshalShow(s)
	if err != nil {
		t.Fatalf("marshal show %s: %v", s.ID, err)
	}
	return data
}
