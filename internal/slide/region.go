package slide

import (
	"math"
	"sort"
)

// MinSize is the smallest width or height Resize will leave a region with.
const MinSize = 20.0

// Rect is a region's position and size in slide coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Region is the visual rectangle shared by slides and components.
//
// ID is assigned at creation and never changes. Raw field writes are not
// validated; only Resize enforces MinSize.
type Region struct {
	ID         string
	Name       string
	Bounds     Rect
	Background Paint
	Border     *Stroke
	Opacity    float64
}

func newRegion(name string, bounds Rect) Region {
	return Region{ID: NewID(), Name: name, Bounds: bounds, Opacity: 1}
}

// Resize grows or shrinks the region, clamping each dimension to MinSize.
func (r *Region) Resize(dw, dh float64) {
	r.Bounds.Width = math.Max(MinSize, r.Bounds.Width+dw)
	r.Bounds.Height = math.Max(MinSize, r.Bounds.Height+dh)
}

// Translate moves the region.
func (r *Region) Translate(dx, dy float64) {
	r.Bounds.X += dx
	r.Bounds.Y += dy
}

// Adjust rescales the region by the given factors after its slide changed
// size. Sizes round down and positions round up so repeated scaling never
// opens gaps or overlaps between neighbouring regions.
func (r *Region) Adjust(pw, ph float64) {
	r.Bounds.X = math.Ceil(r.Bounds.X * pw)
	r.Bounds.Y = math.Ceil(r.Bounds.Y * ph)
	r.Bounds.Width = math.Floor(r.Bounds.Width * pw)
	r.Bounds.Height = math.Floor(r.Bounds.Height * ph)
}

// ReferencedMedia returns the sorted media identifiers the background and
// border depend on.
func (r *Region) ReferencedMedia() []string {
	set := make(map[string]struct{})
	r.collectMedia(set)
	return sortedKeys(set)
}

func (r *Region) collectMedia(set map[string]struct{}) {
	addPaintMedia(set, r.Background)
	if r.Border != nil {
		addPaintMedia(set, r.Border.Paint)
	}
}

// sameBackdrop reports whether both regions share size, background, border
// and opacity.
func (r *Region) sameBackdrop(other *Region) bool {
	return r.Bounds.Width == other.Bounds.Width &&
		r.Bounds.Height == other.Bounds.Height &&
		r.Opacity == other.Opacity &&
		EqualPaint(r.Background, other.Background) &&
		r.Border.Equal(other.Border)
}

func (r Region) clone() Region {
	out := r
	out.Background = ClonePaint(r.Background)
	out.Border = r.Border.Clone()
	return out
}

func addPaintMedia(set map[string]struct{}, p Paint) {
	if m, ok := p.(*MediaPaint); ok && m.MediaID != "" {
		set[m.MediaID] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
