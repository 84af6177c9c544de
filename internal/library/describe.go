package library

import (
	"strings"

	"slidedeck/internal/slide"
	"slidedeck/internal/store"
)

func describeSlide(s *slide.Slide) store.Record {
	return store.Record{
		Name:       s.Name,
		Tags:       s.Tags,
		Text:       slideText(s),
		Media:      s.ReferencedMedia(),
		ModifiedAt: s.ModifiedAt,
	}
}

func describeShow(s *slide.Show) store.Record {
	return store.Record{
		Name:       s.Name,
		Tags:       s.Tags,
		ModifiedAt: s.ModifiedAt,
	}
}

// slideText collects the searchable words of a slide: component names and
// every piece of visible text, resolved placeholders included.
func slideText(s *slide.Slide) string {
	var parts []string
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	for _, c := range s.Components {
		add(c.Name)
		switch b := c.Body.(type) {
		case *slide.TextBody:
			add(b.Text)
		case *slide.PlaceholderBody:
			add(b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
