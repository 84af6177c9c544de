package placeholder_test

import (
	"testing"

	"slidedeck/internal/placeholder"
)

func TestLookupScripture(t *testing.T) {
	data := &placeholder.Scripture{Passages: []placeholder.Passage{
		{Variant: placeholder.VariantPrimary, Translation: "KJV", Reference: "John 3:16", Text: "For God so loved", FontSize: 40},
		{Variant: placeholder.VariantSecondary, Reference: "Jean 3:16", Text: "Car Dieu a tant aimé"},
	}}

	title, ok := placeholder.Lookup(data, placeholder.TypeTitle, placeholder.VariantPrimary)
	if !ok {
		t.Fatal("expected primary title")
	}
	if title.Text != "John 3:16 (KJV)" {
		t.Fatalf("unexpected title: got %q", title.Text)
	}
	if title.FontSize != 40 {
		t.Fatalf("unexpected font size: %v", title.FontSize)
	}

	text, ok := placeholder.Lookup(data, placeholder.TypeText, placeholder.VariantSecondary)
	if !ok || text.Text != "Car Dieu a tant aimé" {
		t.Fatalf("unexpected secondary text: %+v ok=%v", text, ok)
	}
	if secondaryTitle, _ := placeholder.Lookup(data, placeholder.TypeTitle, placeholder.VariantSecondary); secondaryTitle.Text != "Jean 3:16" {
		t.Fatalf("expected untranslated title without suffix, got %q", secondaryTitle.Text)
	}

	if _, ok := placeholder.Lookup(data, placeholder.TypeText, placeholder.VariantTertiary); ok {
		t.Fatal("expected no tertiary match")
	}
}

func TestLookupNilData(t *testing.T) {
	if _, ok := placeholder.Lookup(nil, placeholder.TypeText, placeholder.VariantPrimary); ok {
		t.Fatal("expected nil data to never match")
	}
}

func TestSongTitlesAreTitleCased(t *testing.T) {
	data := &placeholder.Song{Lyrics: []placeholder.Lyrics{
		{Variant: placeholder.VariantPrimary, Language: "en", Title: "amazing grace", Text: "Amazing grace, how sweet the sound"},
		{Variant: placeholder.VariantSecondary, Language: "not a tag!", Title: "sublime gracia", Text: "Sublime gracia"},
	}}
	title, ok := placeholder.Lookup(data, placeholder.TypeTitle, placeholder.VariantPrimary)
	if !ok || title.Text != "Amazing Grace" {
		t.Fatalf("unexpected title: %+v ok=%v", title, ok)
	}
	title, ok = placeholder.Lookup(data, placeholder.TypeTitle, placeholder.VariantSecondary)
	if !ok || title.Text != "Sublime Gracia" {
		t.Fatalf("expected fallback casing for invalid language, got %+v", title)
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := &placeholder.Static{Entries: []placeholder.Item{{Type: placeholder.TypeText, Variant: placeholder.VariantPrimary, Text: "a"}}}
	cloned := placeholder.Clone(original).(*placeholder.Static)
	cloned.Entries[0].Text = "b"
	if original.Entries[0].Text != "a" {
		t.Fatal("expected clone to be independent")
	}
	if placeholder.Clone(nil) != nil {
		t.Fatal("expected nil clone to stay nil")
	}
}

func TestParseHelpers(t *testing.T) {
	if v, err := placeholder.ParseVariant(" Secondary "); err != nil || v != placeholder.VariantSecondary {
		t.Fatalf("unexpected variant: %q err=%v", v, err)
	}
	if _, err := placeholder.ParseVariant("fifth"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
	if typ, err := placeholder.ParseType("TITLE"); err != nil || typ != placeholder.TypeTitle {
		t.Fatalf("unexpected type: %q err=%v", typ, err)
	}
	if lang, err := placeholder.CanonicalLanguage("en-us"); err != nil || lang != "en-US" {
		t.Fatalf("unexpected language: %q err=%v", lang, err)
	}
}
