package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"slidedeck/internal/catalog"
	"slidedeck/internal/slide"
	"slidedeck/internal/store"
)

type slideView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Components int      `json:"components"`
	TotalMs    int64    `json:"totalMs"`
	Tags       []string `json:"tags,omitempty"`
	Media      []string `json:"media,omitempty"`
	Modified   string   `json:"modifiedAt"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
}

func newSlideView(s *slide.Slide) slideView {
	return slideView{
		ID:         s.ID,
		Name:       s.Name,
		Width:      s.Bounds.Width,
		Height:     s.Bounds.Height,
		Components: len(s.Components),
		TotalMs:    durationMillis(s.TotalTime()),
		Tags:       s.Tags,
		Media:      s.ReferencedMedia(),
		Modified:   s.ModifiedAt.UTC().Format(time.RFC3339),
		Thumbnail:  s.Thumbnail,
	}
}

type showView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slides   []string `json:"slides"`
	Loop     bool     `json:"loop"`
	Tags     []string `json:"tags,omitempty"`
	Modified string   `json:"modifiedAt"`
}

func newShowView(s *slide.Show) showView {
	return showView{
		ID:       s.ID,
		Name:     s.Name,
		Slides:   s.SlideIDs(),
		Loop:     s.Loop,
		Tags:     s.Tags,
		Modified: s.ModifiedAt.UTC().Format(time.RFC3339),
	}
}

type entryView struct {
	Kind     string   `json:"kind"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
	Path     string   `json:"path"`
	Modified string   `json:"modifiedAt,omitempty"`
}

func newEntryViews(entries []catalog.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		v := entryView{Kind: e.Kind, ID: e.ID, Name: e.Name, Tags: e.Tags, Path: e.Path}
		if !e.ModifiedAt.IsZero() {
			v.Modified = e.ModifiedAt.UTC().Format(time.RFC3339)
		}
		views = append(views, v)
	}
	return views
}

func durationMillis(d time.Duration) int64 {
	if d == slide.Forever {
		return -1
	}
	return d.Milliseconds()
}

func formatDuration(d time.Duration) string {
	if d == slide.Forever {
		return "manual"
	}
	return d.Round(100 * time.Millisecond).String()
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func formatSize(w, h float64) string {
	return fmt.Sprintf("%sx%s", trimFloat(w), trimFloat(h))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func buildSlideRows(slides []*slide.Slide) [][]string {
	rows := make([][]string, 0, len(slides))
	for _, s := range slides {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			formatSize(s.Bounds.Width, s.Bounds.Height),
			strconv.Itoa(len(s.Components)),
			formatDuration(s.TotalTime()),
			formatTags(s.Tags),
			formatAge(s.ModifiedAt),
		})
	}
	return rows
}

func buildShowRows(shows []*slide.Show) [][]string {
	rows := make([][]string, 0, len(shows))
	for _, s := range shows {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			strconv.Itoa(len(s.Assignments)),
			yesNo(s.Loop),
			formatTags(s.Tags),
			formatAge(s.ModifiedAt),
		})
	}
	return rows
}

func buildEntryRows(entries []catalog.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Kind, e.ID, e.Name, formatTags(e.Tags), formatAge(e.ModifiedAt)})
	}
	return rows
}

func buildComponentRows(s *slide.Slide) [][]string {
	rows := make([][]string, 0, len(s.Components))
	for i, c := range s.Components {
		b := c.Bounds
		rows = append(rows, []string{
			strconv.Itoa(i),
			c.Name,
			string(c.Body.Kind()),
			fmt.Sprintf("%s,%s", trimFloat(b.X), trimFloat(b.Y)),
			formatSize(b.Width, b.Height),
			componentDetail(c),
		})
	}
	return rows
}

func componentDetail(c *slide.Component) string {
	switch b := c.Body.(type) {
	case *slide.TextBody:
		return truncate(b.Text, 40)
	case *slide.ImageBody:
		return b.MediaID
	case *slide.VideoBody:
		return b.MediaID
	case *slide.AudioBody:
		return b.MediaID
	case *slide.PlaceholderBody:
		return fmt.Sprintf("%s/%s %s", b.Type, b.Variant, truncate(b.Text, 30))
	case *slide.DateTimeBody:
		return b.Layout
	case *slide.CountdownBody:
		return b.Target.Format(time.RFC3339)
	default:
		return ""
	}
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

func buildWarningRows(warnings []store.Warning) [][]string {
	rows := make([][]string, 0, len(warnings))
	for _, w := range warnings {
		entry := w.Entry
		if entry == "" {
			entry = "-"
		}
		rows = append(rows, []string{entry, w.Message})
	}
	return rows
}

func buildItemErrorRows(errs []store.ItemError) [][]string {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		name := e.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{name, e.ID, e.Err.Error()})
	}
	return rows
}
