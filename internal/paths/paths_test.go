package paths_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slidedeck/internal/paths"
)

func TestResolverLayout(t *testing.T) {
	base := t.TempDir()
	r := paths.New(base, "slides", "json")

	doc, err := r.Path("abc")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if want := filepath.Join(base, "slides", "abc.json"); doc != want {
		t.Fatalf("expected %q, got %q", want, doc)
	}
	thumb, err := r.ThumbnailPath("abc")
	if err != nil {
		t.Fatalf("thumbnail path: %v", err)
	}
	if want := filepath.Join(base, "slides", "_thumbs", "abc.png"); thumb != want {
		t.Fatalf("expected %q, got %q", want, thumb)
	}
	rel, err := r.RelativePath("abc")
	if err != nil {
		t.Fatalf("relative path: %v", err)
	}
	if rel != "slides/abc.json" {
		t.Fatalf("expected slash-separated entry name, got %q", rel)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	r := paths.New(t.TempDir(), "shows", ".json")
	for range 2 {
		if err := r.Initialize(); err != nil {
			t.Fatalf("initialize: %v", err)
		}
	}
	info, err := os.Stat(r.ThumbnailsDir())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected thumbnail dir, err=%v", err)
	}
}

func TestInvalidIDs(t *testing.T) {
	r := paths.New(t.TempDir(), "slides", ".json")
	for _, id := range []string{"", "  ", "..", "../etc", "a/b", `a\b`, "c:"} {
		if _, err := r.Path(id); !errors.Is(err, paths.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID for %q, got %v", id, err)
		}
	}
}

func TestIDFromPath(t *testing.T) {
	r := paths.New("/data", "slides", ".json")
	tests := []struct {
		in     string
		wantID string
		wantOK bool
	}{
		{in: "slides/abc.json", wantID: "abc", wantOK: true},
		{in: "/data/slides/abc.json", wantID: "abc", wantOK: true},
		{in: "slides/_thumbs/abc.png", wantOK: false},
		{in: "slides/readme.txt", wantOK: false},
		{in: ".json", wantOK: false},
	}
	for _, tt := range tests {
		id, ok := r.IDFromPath(tt.in)
		if ok != tt.wantOK || id != tt.wantID {
			t.Fatalf("IDFromPath(%q) = %q, %v; want %q, %v", tt.in, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
