package drag

import (
	"testing"

	"kanban-cli/internal/hittest"
)

var testRegions = []hittest.Region{
	{Target: hittest.Target{Kind: hittest.TargetCard, ID: "card-1"}, Rect: hittest.Rect{X: 0, Y: 0, W: 20, H: 4}},
	{Target: hittest.Target{Kind: hittest.TargetCard, ID: "card-2"}, Rect: hittest.Rect{X: 0, Y: 4, W: 20, H: 4}},
	{Target: hittest.Target{Kind: hittest.TargetColumn, ID: "col-a"}, Rect: hittest.Rect{X: 0, Y: 0, W: 20, H: 30}},
}

func TestSession_ClickBelowThresholdNeverDrags(t *testing.T) {
	var s Session
	s.Press("card-1", hittest.Point{X: 5, Y: 1})
	if _, active := s.Move(hittest.Point{X: 6, Y: 1}, testRegions); active {
		t.Fatal("1-cell move should not activate a drag")
	}
	if s.Dragging() {
		t.Fatal("session should not be dragging")
	}
	if _, ok := s.Release(hittest.Point{X: 6, Y: 1}, testRegions); ok {
		t.Fatal("sub-threshold release must not produce a drop")
	}
}

func TestSession_DragAndDrop(t *testing.T) {
	var s Session
	s.Press("card-1", hittest.Point{X: 5, Y: 1})
	preview, active := s.Move(hittest.Point{X: 5, Y: 5}, testRegions)
	if !active {
		t.Fatal("4-cell move should activate the drag")
	}
	if preview.ID != "card-2" {
		t.Fatalf("expected card-2 preview, got %+v", preview)
	}
	drop, ok := s.Release(hittest.Point{X: 5, Y: 5}, testRegions)
	if !ok {
		t.Fatal("expected a drop")
	}
	if drop.CardID != "card-1" || drop.Target.ID != "card-2" {
		t.Fatalf("unexpected drop %+v", drop)
	}
	if s.Dragging() {
		t.Fatal("session should be idle after release")
	}
}

func TestSession_DuplicateReleaseYieldsNothing(t *testing.T) {
	var s Session
	s.Press("card-1", hittest.Point{X: 5, Y: 1})
	s.Move(hittest.Point{X: 5, Y: 5}, testRegions)
	if _, ok := s.Release(hittest.Point{X: 5, Y: 5}, testRegions); !ok {
		t.Fatal("first release should drop")
	}
	if _, ok := s.Release(hittest.Point{X: 5, Y: 5}, testRegions); ok {
		t.Fatal("second release must not drop again")
	}
}

func TestSession_ReleaseOnSelfIsNoDrop(t *testing.T) {
	var s Session
	s.Press("card-2", hittest.Point{X: 5, Y: 5})
	s.Move(hittest.Point{X: 5, Y: 9}, testRegions)
	// Back over the dragged card itself.
	s.Move(hittest.Point{X: 5, Y: 5}, testRegions)
	if _, ok := s.Release(hittest.Point{X: 5, Y: 5}, testRegions); ok {
		t.Fatal("dropping a card on itself must not mutate")
	}
}

func TestSession_CancelAbandonsGesture(t *testing.T) {
	var s Session
	s.Press("card-1", hittest.Point{X: 5, Y: 1})
	s.Move(hittest.Point{X: 5, Y: 9}, testRegions)
	s.Cancel()
	if s.Dragging() {
		t.Fatal("cancel should return to idle")
	}
	if _, ok := s.Release(hittest.Point{X: 5, Y: 9}, testRegions); ok {
		t.Fatal("release after cancel must not drop")
	}
}

func TestSession_ActiveCard(t *testing.T) {
	var s Session
	if _, ok := s.ActiveCard(); ok {
		t.Fatal("idle session has no active card")
	}
	s.Press("card-1", hittest.Point{X: 0, Y: 0})
	if id, ok := s.ActiveCard(); !ok || id != "card-1" {
		t.Fatalf("expected card-1 active, got %q ok=%v", id, ok)
	}
}
