package document

import (
	"encoding/json"
	"fmt"

	"slidedeck/internal/placeholder"
)

type passageDTO struct {
	Variant     string  `json:"variant"`
	Translation string  `json:"translation,omitempty"`
	Reference   string  `json:"reference"`
	Text        string  `json:"text"`
	FontSize    float64 `json:"fontSize,omitempty"`
}

type lyricsDTO struct {
	Variant  string  `json:"variant"`
	Language string  `json:"language,omitempty"`
	Title    string  `json:"title,omitempty"`
	Section  string  `json:"section,omitempty"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
}

type itemDTO struct {
	ItemType string  `json:"itemType"`
	Variant  string  `json:"variant"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
}

type scriptureDTO struct {
	Type     string       `json:"type"`
	Passages []passageDTO `json:"passages"`
}

type songDTO struct {
	Type   string      `json:"type"`
	Lyrics []lyricsDTO `json:"lyrics"`
}

type staticDTO struct {
	Type    string    `json:"type"`
	Entries []itemDTO `json:"entries"`
}

var placeholderSources = newRegistry[placeholder.Data]("placeholder")

func init() {
	placeholderSources.register(string(placeholder.KindScripture), into(func(d scriptureDTO) (placeholder.Data, error) {
		out := &placeholder.Scripture{Passages: make([]placeholder.Passage, 0, len(d.Passages))}
		for _, p := range d.Passages {
			variant, err := placeholder.ParseVariant(p.Variant)
			if err != nil {
				return nil, err
			}
			out.Passages = append(out.Passages, placeholder.Passage{
				Variant:     variant,
				Translation: p.Translation,
				Reference:   p.Reference,
				Text:        p.Text,
				FontSize:    p.FontSize,
			})
		}
		return out, nil
	}))
	placeholderSources.register(string(placeholder.KindSong), into(func(d songDTO) (placeholder.Data, error) {
		out := &placeholder.Song{Lyrics: make([]placeholder.Lyrics, 0, len(d.Lyrics))}
		for _, l := range d.Lyrics {
			variant, err := placeholder.ParseVariant(l.Variant)
			if err != nil {
				return nil, err
			}
			out.Lyrics = append(out.Lyrics, placeholder.Lyrics{
				Variant:  variant,
				Language: l.Language,
				Title:    l.Title,
				Section:  l.Section,
				Text:     l.Text,
				FontSize: l.FontSize,
			})
		}
		return out, nil
	}))
	placeholderSources.register(string(placeholder.KindStatic), into(func(d staticDTO) (placeholder.Data, error) {
		out := &placeholder.Static{Entries: make([]placeholder.Item, 0, len(d.Entries))}
		for _, e := range d.Entries {
			typ, err := placeholder.ParseType(e.ItemType)
			if err != nil {
				return nil, err
			}
			variant, err := placeholder.ParseVariant(e.Variant)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, placeholder.Item{Type: typ, Variant: variant, Text: e.Text, FontSize: e.FontSize})
		}
		return out, nil
	}))
}

func encodePlaceholders(data placeholder.Data) (json.RawMessage, error) {
	var dto any
	switch d := data.(type) {
	case nil:
		return nil, nil
	case *placeholder.Scripture:
		out := scriptureDTO{Type: string(placeholder.KindScripture), Passages: make([]passageDTO, len(d.Passages))}
		for i, p := range d.Passages {
			out.Passages[i] = passageDTO{
				Variant:     string(p.Variant),
				Translation: p.Translation,
				Reference:   p.Reference,
				Text:        p.Text,
				FontSize:    p.FontSize,
			}
		}
		dto = out
	case *placeholder.Song:
		out := songDTO{Type: string(placeholder.KindSong), Lyrics: make([]lyricsDTO, len(d.Lyrics))}
		for i, l := range d.Lyrics {
			out.Lyrics[i] = lyricsDTO{
				Variant:  string(l.Variant),
				Language: l.Language,
				Title:    l.Title,
				Section:  l.Section,
				Text:     l.Text,
				FontSize: l.FontSize,
			}
		}
		dto = out
	case *placeholder.Static:
		out := staticDTO{Type: string(placeholder.KindStatic), Entries: make([]itemDTO, len(d.Entries))}
		for i, e := range d.Entries {
			out.Entries[i] = itemDTO{ItemType: string(e.Type), Variant: string(e.Variant), Text: e.Text, FontSize: e.FontSize}
		}
		dto = out
	default:
		return nil, fmt.Errorf("%w: placeholder %T", ErrUnknownType, data)
	}
	return json.Marshal(dto)
}

func decodePlaceholders(raw json.RawMessage) (placeholder.Data, error) {
	if isNull(raw) {
		return nil, nil
	}
	return placeholderSources.decodeTagged(raw)
}
