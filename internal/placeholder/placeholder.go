package placeholder

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type names which part of a source a placeholder component displays.
type Type string

const (
	TypeTitle Type = "title"
	TypeText  Type = "text"
)

// Variant selects between parallel renditions of the same source, such as two
// translations of a passage shown side by side.
type Variant string

const (
	VariantPrimary    Variant = "primary"
	VariantSecondary  Variant = "secondary"
	VariantTertiary   Variant = "tertiary"
	VariantQuaternary Variant = "quaternary"
)

// Kind discriminates the Data variants.
type Kind string

const (
	KindScripture Kind = "scripture"
	KindSong      Kind = "song"
	KindStatic    Kind = "static"
)

// Item is one resolved piece of placeholder text. FontSize <= 0 means the
// consuming component keeps its configured size.
type Item struct {
	Type     Type
	Variant  Variant
	Text     string
	FontSize float64
}

// Data is externally supplied reference text bound to a slide. The set of
// implementations is closed: Scripture, Song and Static.
type Data interface {
	Kind() Kind
	Items() []Item
	clone() Data
}

// Passage is one translation of a scripture reference.
type Passage struct {
	Variant     Variant
	Translation string
	Reference   string
	Text        string
	FontSize    float64
}

// Scripture carries one or more renditions of a bible reference.
type Scripture struct {
	Passages []Passage
}

func (*Scripture) Kind() Kind { return KindScripture }

func (s *Scripture) Items() []Item {
	items := make([]Item, 0, len(s.Passages)*2)
	for _, p := range s.Passages {
		title := strings.TrimSpace(p.Reference)
		if tr := strings.TrimSpace(p.Translation); tr != "" && title != "" {
			title = fmt.Sprintf("%s (%s)", title, tr)
		}
		items = append(items,
			Item{Type: TypeTitle, Variant: p.Variant, Text: title, FontSize: p.FontSize},
			Item{Type: TypeText, Variant: p.Variant, Text: p.Text, FontSize: p.FontSize},
		)
	}
	return items
}

func (s *Scripture) clone() Data {
	return &Scripture{Passages: append([]Passage(nil), s.Passages...)}
}

// Lyrics is one language rendition of a song section.
type Lyrics struct {
	Variant  Variant
	Language string
	Title    string
	Section  string
	Text     string
	FontSize float64
}

// Song carries the lyrics of one song section in one or more languages.
type Song struct {
	Lyrics []Lyrics
}

func (*Song) Kind() Kind { return KindSong }

// Items title-cases each rendition's title using the rules of its language.
func (s *Song) Items() []Item {
	items := make([]Item, 0, len(s.Lyrics)*2)
	for _, l := range s.Lyrics {
		tag, err := language.Parse(l.Language)
		if err != nil {
			tag = language.Und
		}
		items = append(items,
			Item{Type: TypeTitle, Variant: l.Variant, Text: cases.Title(tag).String(strings.TrimSpace(l.Title)), FontSize: l.FontSize},
			Item{Type: TypeText, Variant: l.Variant, Text: l.Text, FontSize: l.FontSize},
		)
	}
	return items
}

func (s *Song) clone() Data {
	return &Song{Lyrics: append([]Lyrics(nil), s.Lyrics...)}
}

// Static is free-form placeholder text, mostly used for templates and tests.
type Static struct {
	Entries []Item
}

func (*Static) Kind() Kind { return KindStatic }

func (s *Static) Items() []Item { return append([]Item(nil), s.Entries...) }

func (s *Static) clone() Data {
	return &Static{Entries: append([]Item(nil), s.Entries...)}
}

// Lookup returns the first item matching (typ, variant). A nil source never matches.
func Lookup(data Data, typ Type, variant Variant) (Item, bool) {
	if data == nil {
		return Item{}, false
	}
	for _, item := range data.Items() {
		if item.Type == typ && item.Variant == variant {
			return item, true
		}
	}
	return Item{}, false
}

// Clone deep-copies data; nil stays nil.
func Clone(data Data) Data {
	if data == nil {
		return nil
	}
	return data.clone()
}

// ParseType validates a placeholder type name.
func ParseType(value string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(value))); t {
	case TypeTitle, TypeText:
		return t, nil
	default:
		return "", fmt.Errorf("unknown placeholder type %q", value)
	}
}

// ParseVariant validates a placeholder variant name.
func ParseVariant(value string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(value))); v {
	case VariantPrimary, VariantSecondary, VariantTertiary, VariantQuaternary:
		return v, nil
	default:
		return "", fmt.Errorf("unknown placeholder variant %q", value)
	}
}

// CanonicalLanguage normalizes a BCP 47 tag ("EN-us" -> "en-US"). Empty input
// stays empty.
func CanonicalLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("language %q: %w", value, err)
	}
	return tag.String(), nil
}
