package slide

import (
	"slices"
	"time"
)

// Assignment is one slot in a show. Its identifier is independent of the
// slide it references so a slide can appear more than once.
type Assignment struct {
	ID      string
	SlideID string
}

// Show is an ordered playlist of slides.
type Show struct {
	ID          string
	Name        string
	Assignments []Assignment
	// Loop tells the playback driver to wrap to the first assignment after
	// the last one.
	Loop       bool
	Tags       []string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Thumbnail  string
}

// NewShow creates an empty show with a fresh identifier.
func NewShow(name string) *Show {
	now := time.Now().UTC()
	return &Show{ID: NewID(), Name: name, CreatedAt: now, ModifiedAt: now}
}

func (s *Show) Identity() string         { return s.ID }
func (s *Show) DisplayName() string      { return s.Name }
func (s *Show) Touch(now time.Time)      { s.ModifiedAt = now.UTC() }
func (s *Show) SetThumbnail(path string) { s.Thumbnail = path }

// SetTags replaces the tag set.
func (s *Show) SetTags(tags ...string) { s.Tags = normalizeTags(tags) }

// Append adds slideID at the end of the show.
func (s *Show) Append(slideID string) Assignment {
	a := Assignment{ID: NewID(), SlideID: slideID}
	s.Assignments = append(s.Assignments, a)
	return a
}

// Insert adds slideID at index, clamped to [0, len].
func (s *Show) Insert(index int, slideID string) Assignment {
	a := Assignment{ID: NewID(), SlideID: slideID}
	index = min(max(index, 0), len(s.Assignments))
	s.Assignments = slices.Insert(s.Assignments, index, a)
	return a
}

// RemoveAssignment drops one slot by assignment identifier.
func (s *Show) RemoveAssignment(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.Assignments = slices.Delete(s.Assignments, i, i+1)
	return true
}

// RemoveSlide drops every slot referencing slideID and returns how many were
// removed.
func (s *Show) RemoveSlide(slideID string) int {
	before := len(s.Assignments)
	s.Assignments = slices.DeleteFunc(s.Assignments, func(a Assignment) bool {
		return a.SlideID == slideID
	})
	return before - len(s.Assignments)
}

// MoveTo relocates an assignment to index, clamped to the valid range.
func (s *Show) MoveTo(id string, index int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	index = min(max(index, 0), len(s.Assignments)-1)
	if i == index {
		return false
	}
	a := s.Assignments[i]
	s.Assignments = slices.Delete(s.Assignments, i, i+1)
	s.Assignments = slices.Insert(s.Assignments, index, a)
	return true
}

// SlideIDs lists the referenced slides in play order, duplicates included.
func (s *Show) SlideIDs() []string {
	ids := make([]string, len(s.Assignments))
	for i, a := range s.Assignments {
		ids[i] = a.SlideID
	}
	return ids
}

func (s *Show) indexOf(id string) int {
	return slices.IndexFunc(s.Assignments, func(a Assignment) bool { return a.ID == id })
}

// Snapshot copies the show keeping every identifier.
func (s *Show) Snapshot() *Show {
	out := *s
	out.Assignments = slices.Clone(s.Assignments)
	out.Tags = slices.Clone(s.Tags)
	return &out
}

// Duplicate copies the show as a new entity with fresh show and assignment
// identifiers.
func (s *Show) Duplicate() *Show {
	out := s.Snapshot()
	out.ID = NewID()
	for i := range out.Assignments {
		out.Assignments[i].ID = NewID()
	}
	now := time.Now().UTC()
	out.CreatedAt, out.ModifiedAt = now, now
	out.Thumbnail = ""
	return out
}
