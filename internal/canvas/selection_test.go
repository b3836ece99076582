package canvas

import "testing"

func TestSelectionNormalizesBackwardsDrag(t *testing.T) {
	var s Selection
	s.Start("2026-07-16")
	s.Extend("2026-07-10")

	lo, hi := s.Range()
	if lo != "2026-07-10" || hi != "2026-07-16" {
		t.Errorf("Range() = (%q, %q)", lo, hi)
	}

	start, end, single := s.Commit()
	if single {
		t.Error("multi-day drag reported as single click")
	}
	if start != "2026-07-10" || end != "2026-07-16" {
		t.Errorf("Commit() = (%q, %q)", start, end)
	}
	if s.Active() {
		t.Error("selection still active after commit")
	}
}

func TestSelectionSingleClick(t *testing.T) {
	var s Selection
	s.Start("2026-07-10")
	start, end, single := s.Commit()
	if !single || start != "2026-07-10" || end != "2026-07-10" {
		t.Errorf("Commit() = (%q, %q, %v)", start, end, single)
	}
}

func TestSelectionContains(t *testing.T) {
	var s Selection
	if s.Contains("2026-07-10") {
		t.Error("inactive selection should contain nothing")
	}
	s.Start("2026-07-10")
	s.Extend("2026-07-16")
	if !s.Contains("2026-07-13") || !s.Contains("2026-07-10") || !s.Contains("2026-07-16") {
		t.Error("selection should contain its full inclusive range")
	}
	if s.Contains("2026-07-17") {
		t.Error("selection should not contain dates past the focus")
	}
}

func TestSelectionExtendWhenInactive(t *testing.T) {
	var s Selection
	s.Extend("2026-07-10")
	if s.Active() {
		t.Error("extend must not start a selection")
	}
}
