package document

import (
	"encoding/json"
	"fmt"
	"io"

	"slidedeck/internal/slide"
)

type slideDTO struct {
	Header
	Bounds       rectDTO         `json:"bounds"`
	Background   json.RawMessage `json:"background,omitempty"`
	Border       *strokeDTO      `json:"border,omitempty"`
	Opacity      float64         `json:"opacity"`
	TimeMS       int64           `json:"timeMs"`
	Transition   *animationDTO   `json:"transition,omitempty"`
	Placeholders json.RawMessage `json:"placeholders,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Components   []componentDTO  `json:"components"`
}

type assignmentDTO struct {
	ID      string `json:"id"`
	SlideID string `json:"slideId"`
}

type showDTO struct {
	Header
	Loop        bool            `json:"loop"`
	Tags        []string        `json:"tags,omitempty"`
	Assignments []assignmentDTO `json:"assignments"`
}

// MarshalSlide encodes s as an indented native document.
func MarshalSlide(s *slide.Slide) ([]byte, error) {
	background, err := encodePaint(s.Background)
	if err != nil {
		return nil, fmt.Errorf("slide %s background: %w", s.ID, err)
	}
	border, err := encodeStroke(s.Border)
	if err != nil {
		return nil, fmt.Errorf("slide %s border: %w", s.ID, err)
	}
	placeholders, err := encodePlaceholders(s.Placeholders)
	if err != nil {
		return nil, fmt.Errorf("slide %s placeholders: %w", s.ID, err)
	}
	dto := slideDTO{
		Header:       newHeader(TypeSlide, s.ID, s.Name, s.CreatedAt, s.ModifiedAt),
		Bounds:       rectToDTO(s.Bounds),
		Background:   background,
		Border:       border,
		Opacity:      s.Opacity,
		TimeMS:       millis(s.Time),
		Placeholders: placeholders,
		Tags:         s.Tags,
		Components:   make([]componentDTO, 0, len(s.Components)),
	}
	if s.Transition != nil {
		t := animationToDTO(*s.Transition)
		dto.Transition = &t
	}
	for _, c := range s.Components {
		cd, err := encodeComponent(c)
		if err != nil {
			return nil, fmt.Errorf("slide %s: %w", s.ID, err)
		}
		dto.Components = append(dto.Components, cd)
	}
	return json.MarshalIndent(dto, "", "  ")
}

// UnmarshalSlide decodes a native slide document and resolves its
// placeholder components.
func UnmarshalSlide(data []byte) (*slide.Slide, error) {
	var dto slideDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode slide: %w", err)
	}
	if err := dto.Header.validate(); err != nil {
		return nil, err
	}
	if dto.Type != TypeSlide {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnknownType, TypeSlide, dto.Type)
	}
	background, err := decodePaint(dto.Background)
	if err != nil {
		return nil, fmt.Errorf("slide %s background: %w", dto.ID, err)
	}
	border, err := decodeStroke(dto.Border)
	if err != nil {
		return nil, fmt.Errorf("slide %s border: %w", dto.ID, err)
	}
	placeholders, err := decodePlaceholders(dto.Placeholders)
	if err != nil {
		return nil, fmt.Errorf("slide %s: %w", dto.ID, err)
	}
	s := &slide.Slide{
		Placeholders: placeholders,
		Time:         duration(dto.TimeMS),
		CreatedAt:    dto.CreatedAt,
		ModifiedAt:   dto.ModifiedAt,
		Components:   make([]*slide.Component, 0, len(dto.Components)),
	}
	s.Region = slide.Region{
		ID:         dto.ID,
		Name:       dto.Name,
		Bounds:     rectFromDTO(dto.Bounds),
		Background: background,
		Border:     border,
		Opacity:    dto.Opacity,
	}
	s.SetTags(dto.Tags...)
	if dto.Transition != nil {
		t := animationFromDTO(*dto.Transition)
		s.Transition = &t
	}
	for _, cd := range dto.Components {
		c, err := decodeComponent(cd)
		if err != nil {
			return nil, fmt.Errorf("slide %s: %w", dto.ID, err)
		}
		s.Components = append(s.Components, c)
	}
	s.ResolvePlaceholders()
	return s, nil
}

// MarshalShow encodes s as an indented native document.
func MarshalShow(s *slide.Show) ([]byte, error) {
	dto := showDTO{
		Header:      newHeader(TypeShow, s.ID, s.Name, s.CreatedAt, s.ModifiedAt),
		Loop:        s.Loop,
		Tags:        s.Tags,
		Assignments: make([]assignmentDTO, len(s.Assignments)),
	}
	for i, a := range s.Assignments {
		dto.Assignments[i] = assignmentDTO{ID: a.ID, SlideID: a.SlideID}
	}
	return json.MarshalIndent(dto, "", "  ")
}

// UnmarshalShow decodes a native show document.
func UnmarshalShow(data []byte) (*slide.Show, error) {
	var dto showDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decode show: %w", err)
	}
	if err := dto.Header.validate(); err != nil {
		return nil, err
	}
	if dto.Type != TypeShow {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnknownType, TypeShow, dto.Type)
	}
	s := &slide.Show{
		ID:          dto.ID,
		Name:        dto.Name,
		Loop:        dto.Loop,
		CreatedAt:   dto.CreatedAt,
		ModifiedAt:  dto.ModifiedAt,
		Assignments: make([]slide.Assignment, 0, len(dto.Assignments)),
	}
	s.SetTags(dto.Tags...)
	for _, a := range dto.Assignments {
		if a.ID == "" || a.SlideID == "" {
			return nil, fmt.Errorf("show %s: assignment missing id or slideId", dto.ID)
		}
		s.Assignments = append(s.Assignments, slide.Assignment{ID: a.ID, SlideID: a.SlideID})
	}
	return s, nil
}

// EncodeSlide writes s to w.
func EncodeSlide(w io.Writer, s *slide.Slide) error {
	return writeAll(w, func() ([]byte, error) { return MarshalSlide(s) })
}

// EncodeShow writes s to w.
func EncodeShow(w io.Writer, s *slide.Show) error {
	return writeAll(w, func() ([]byte, error) { return MarshalShow(s) })
}

// DecodeSlide reads a whole slide document from r.
func DecodeSlide(r io.Reader) (*slide.Slide, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read slide: %w", err)
	}
	return UnmarshalSlide(data)
}

// DecodeShow reads a whole show document from r.
func DecodeShow(r io.Reader) (*slide.Show, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read show: %w", err)
	}
	return UnmarshalShow(data)
}

func writeAll(w io.Writer, marshal func() ([]byte, error)) error {
	data, err := marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
