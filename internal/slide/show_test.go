package slide_test

import (
	"slices"
	"testing"

	"slidedeck/internal/slide"
)

func TestShowAssignmentsAllowRepeats(t *testing.T) {
	show := slide.NewShow("Sunday")
	first := show.Append("s1")
	show.Append("s2")
	repeat := show.Append("s1")
	if first.ID == repeat.ID {
		t.Fatal("expected repeated slide to get its own assignment id")
	}
	if got := show.SlideIDs(); !slices.Equal(got, []string{"s1", "s2", "s1"}) {
		t.Fatalf("unexpected order %v", got)
	}

	if !show.RemoveAssignment(repeat.ID) {
		t.Fatal("expected assignment removal to succeed")
	}
	if show.RemoveAssignment(repeat.ID) {
		t.Fatal("expected second removal to be a no-op")
	}
	show.Append("s1")
	if n := show.RemoveSlide("s1"); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if got := show.SlideIDs(); !slices.Equal(got, []string{"s2"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestShowInsertAndMoveClamp(t *testing.T) {
	show := slide.NewShow("order")
	a := show.Append("a")
	show.Append("b")
	show.Insert(-3, "front")
	show.Insert(99, "back")
	if got := show.SlideIDs(); !slices.Equal(got, []string{"front", "a", "b", "back"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !show.MoveTo(a.ID, 100) {
		t.Fatal("expected move to succeed")
	}
	if got := show.SlideIDs(); !slices.Equal(got, []string{"front", "b", "back", "a"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if show.MoveTo(a.ID, 3) {
		t.Fatal("expected move to the current index to be a no-op")
	}
	if show.MoveTo("missing", 0) {
		t.Fatal("expected unknown assignment to fail")
	}
}

func TestShowDuplicate(t *testing.T) {
	show := slide.NewShow("Sunday")
	show.Loop = true
	show.SetTags("weekly")
	a := show.Append("s1")

	snap := show.Snapshot()
	snap.Assignments[0].SlideID = "changed"
	if show.Assignments[0].SlideID != "s1" {
		t.Fatal("expected snapshot assignments to be independent")
	}

	dup := show.Duplicate()
	if dup.ID == show.ID || dup.Assignments[0].ID == a.ID {
		t.Fatal("expected fresh identifiers on duplicate")
	}
	if !dup.Loop || dup.Assignments[0].SlideID != "s1" || !slices.Equal(dup.Tags, []string{"weekly"}) {
		t.Fatalf("unexpected duplicate %+v", dup)
	}
}
