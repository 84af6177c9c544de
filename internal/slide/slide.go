package slide

import (
	"slices"
	"time"

	"slidedeck/internal/placeholder"
)

// Slide is an ordered composition of components plus timing metadata. The
// embedded Region is the slide's own size and backdrop.
//
// Components are ordered back to front: index 0 renders first.
type Slide struct {
	Region
	Components   []*Component
	Placeholders placeholder.Data
	Transition   *Animation
	Time         time.Duration
	Tags         []string
	CreatedAt    time.Time
	ModifiedAt   time.Time

	// Thumbnail is the side-car preview path filled in by the store. It is
	// derived and never serialized.
	Thumbnail string
}

// New creates an empty slide with a fresh identifier that stays up until
// advanced manually.
func New(name string, width, height float64) *Slide {
	now := time.Now().UTC()
	return &Slide{
		Region:     newRegion(name, Rect{Width: width, Height: height}),
		Time:       Forever,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Identity returns the slide identifier.
func (s *Slide) Identity() string { return s.ID }

// DisplayName returns the slide name.
func (s *Slide) DisplayName() string { return s.Name }

// Touch stamps the modification time.
func (s *Slide) Touch(now time.Time) { s.ModifiedAt = now.UTC() }

// SetThumbnail records the derived preview path.
func (s *Slide) SetThumbnail(path string) { s.Thumbnail = path }

// SetTags replaces the tag set.
func (s *Slide) SetTags(tags ...string) { s.Tags = normalizeTags(tags) }

// TotalTime is how long the slide stays up before automatic advance: the
// transition plus the longer of the own time and the slowest component
// animation. Forever wins over everything.
func (s *Slide) TotalTime() time.Duration {
	if s.Time == Forever {
		return Forever
	}
	var transition time.Duration
	if s.Transition != nil {
		transition = s.Transition.TotalTime()
		if transition == Forever {
			return Forever
		}
	}
	var longest time.Duration
	for _, c := range s.Components {
		for _, a := range c.Animations {
			if a.Infinite() {
				return Forever
			}
			longest = max(longest, a.TotalTime())
		}
	}
	return transition + max(s.Time, longest)
}

// HasPlaceholders reports whether any component is placeholder-capable.
func (s *Slide) HasPlaceholders() bool {
	return slices.ContainsFunc(s.Components, (*Component).IsPlaceholder)
}

// SetPlaceholders assigns new placeholder data and re-resolves every
// placeholder component against it.
func (s *Slide) SetPlaceholders(data placeholder.Data) {
	s.Placeholders = data
	s.ResolvePlaceholders()
}

// ResolvePlaceholders rewrites placeholder component text from the current
// placeholder data. Unmatched components are cleared.
func (s *Slide) ResolvePlaceholders() {
	for _, c := range s.Components {
		if body, ok := c.Body.(*PlaceholderBody); ok {
			body.resolve(s.Placeholders)
		}
	}
}

// Add places c in front of every existing component.
func (s *Slide) Add(c *Component) {
	s.Components = append(s.Components, c)
	if body, ok := c.Body.(*PlaceholderBody); ok {
		body.resolve(s.Placeholders)
	}
}

// Remove drops c and reports whether it was present.
func (s *Slide) Remove(c *Component) bool {
	i := s.indexOf(c)
	if i < 0 {
		return false
	}
	s.Components = slices.Delete(s.Components, i, i+1)
	return true
}

// Component finds a component by identifier.
func (s *Slide) Component(id string) (*Component, bool) {
	for _, c := range s.Components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// MoveUp swaps c with the component in front of it.
func (s *Slide) MoveUp(c *Component) bool {
	i := s.indexOf(c)
	if i < 0 || i == len(s.Components)-1 {
		return false
	}
	s.Components[i], s.Components[i+1] = s.Components[i+1], s.Components[i]
	return true
}

// MoveDown swaps c with the component behind it.
func (s *Slide) MoveDown(c *Component) bool {
	i := s.indexOf(c)
	if i <= 0 {
		return false
	}
	s.Components[i], s.Components[i-1] = s.Components[i-1], s.Components[i]
	return true
}

// MoveFront brings c in front of every other component.
func (s *Slide) MoveFront(c *Component) bool {
	i := s.indexOf(c)
	if i < 0 || i == len(s.Components)-1 {
		return false
	}
	return s.move(i, len(s.Components)-1)
}

// MoveBack sends c behind every other component.
func (s *Slide) MoveBack(c *Component) bool {
	i := s.indexOf(c)
	if i <= 0 {
		return false
	}
	return s.move(i, 0)
}

// MoveTo relocates c to index, clamped to the valid range.
func (s *Slide) MoveTo(c *Component, index int) bool {
	i := s.indexOf(c)
	if i < 0 {
		return false
	}
	index = min(max(index, 0), len(s.Components)-1)
	return s.move(i, index)
}

func (s *Slide) move(from, to int) bool {
	if from == to {
		return false
	}
	c := s.Components[from]
	s.Components = slices.Delete(s.Components, from, from+1)
	s.Components = slices.Insert(s.Components, to, c)
	return true
}

func (s *Slide) indexOf(c *Component) int {
	if c == nil {
		return -1
	}
	return slices.Index(s.Components, c)
}

// IsBackgroundTransitionRequired reports whether moving from other to s needs
// the backdrop animated: true when size, background, border or opacity
// differ.
func (s *Slide) IsBackgroundTransitionRequired(other *Slide) bool {
	if other == nil {
		return true
	}
	if s == other {
		return false
	}
	return !s.sameBackdrop(&other.Region)
}

// Fit resizes the slide and rescales every component proportionally.
func (s *Slide) Fit(width, height float64) {
	if s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		s.Bounds.Width, s.Bounds.Height = width, height
		return
	}
	pw := width / s.Bounds.Width
	ph := height / s.Bounds.Height
	s.Bounds.Width, s.Bounds.Height = width, height
	for _, c := range s.Components {
		c.Adjust(pw, ph)
	}
}

// ReferencedMedia returns the sorted media identifiers used anywhere on the
// slide.
func (s *Slide) ReferencedMedia() []string {
	set := make(map[string]struct{})
	s.Region.collectMedia(set)
	for _, c := range s.Components {
		c.collectMedia(set)
	}
	return sortedKeys(set)
}

// References reports whether the slide uses mediaID.
func (s *Slide) References(mediaID string) bool {
	_, found := slices.BinarySearch(s.ReferencedMedia(), mediaID)
	return found
}

// Snapshot deep-copies the slide and its components keeping every
// identifier, for previews and undo.
func (s *Slide) Snapshot() *Slide {
	out := &Slide{
		Region:       s.Region.clone(),
		Components:   make([]*Component, len(s.Components)),
		Placeholders: placeholder.Clone(s.Placeholders),
		Time:         s.Time,
		Tags:         slices.Clone(s.Tags),
		CreatedAt:    s.CreatedAt,
		ModifiedAt:   s.ModifiedAt,
		Thumbnail:    s.Thumbnail,
	}
	if s.Transition != nil {
		t := *s.Transition
		out.Transition = &t
	}
	for i, c := range s.Components {
		out.Components[i] = c.Snapshot()
	}
	return out
}

// Duplicate deep-copies the slide as a new entity: the slide and each
// component get fresh identifiers and the timestamps restart.
func (s *Slide) Duplicate() *Slide {
	out := s.Snapshot()
	out.ID = NewID()
	for _, c := range out.Components {
		c.ID = NewID()
	}
	now := time.Now().UTC()
	out.CreatedAt, out.ModifiedAt = now, now
	out.Thumbnail = ""
	return out
}
