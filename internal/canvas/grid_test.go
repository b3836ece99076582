package canvas

import (
	"testing"

	"github.com/yearboard/core/internal/domain/entities"
)

// cellCenter returns the canvas-space center of a (month, day) cell.
func cellCenter(g *Grid, month, day int) (float64, float64) {
	x, y, w, h := g.CellRect(month, day)
	return x + w/2, y + h/2
}

func TestBoardSize(t *testing.T) {
	g := NewGrid(2026)
	w, h := g.BoardSize()
	if w != GutterWidth+31*CellWidth {
		t.Errorf("width = %f", w)
	}
	if h != HeaderHeight+12*CellHeight {
		t.Errorf("height = %f", h)
	}
}

func TestIsValidCell(t *testing.T) {
	g := NewGrid(2026)
	if !g.IsValidCell(1, 31) {
		t.Error("Jan 31 should be valid")
	}
	if g.IsValidCell(2, 29) {
		t.Error("Feb 29 2026 should be an inert placeholder")
	}
	if !NewGrid(2024).IsValidCell(2, 29) {
		t.Error("Feb 29 2024 should be valid")
	}
	if g.IsValidCell(4, 31) || g.IsValidCell(0, 1) || g.IsValidCell(13, 1) {
		t.Error("out-of-calendar cells accepted")
	}
}

func TestDateAt(t *testing.T) {
	g := NewGrid(2026)

	cx, cy := cellCenter(g, 7, 10)
	date, ok := g.DateAt(cx, cy)
	if !ok || date != "2026-07-10" {
		t.Errorf("DateAt(center of Jul 10) = (%q, %v)", date, ok)
	}

	// Gutter and header resolve to nothing.
	if _, ok := g.DateAt(GutterWidth/2, HeaderHeight+10); ok {
		t.Error("gutter should not resolve to a date")
	}
	if _, ok := g.DateAt(GutterWidth+10, HeaderHeight/2); ok {
		t.Error("header should not resolve to a date")
	}

	// Invalid placeholder cells resolve to nothing.
	cx, cy = cellCenter(g, 2, 30)
	if _, ok := g.DateAt(cx, cy); ok {
		t.Error("Feb 30 placeholder should not resolve to a date")
	}
}

func TestHitTestZones(t *testing.T) {
	g := NewGrid(2026)
	data := entities.NewAppData()
	data.Events = []entities.CalendarEvent{
		{ID: "e1", Title: "trip", StartDate: "2026-01-01", EndDate: "2026-01-03"},
	}

	x, y, w, h := g.CellRect(1, 1)

	// Body.
	hit := g.HitTest(data, x+w/2, y+h/2)
	if hit.Zone != HitBody || hit.Date != "2026-01-01" {
		t.Errorf("body hit = %+v", hit)
	}

	// Quick-add corner, top-right.
	hit = g.HitTest(data, x+w-QuickAddSize/2, y+QuickAddSize/2)
	if hit.Zone != HitQuickAdd || hit.Date != "2026-01-01" {
		t.Errorf("quick-add hit = %+v", hit)
	}

	// First event bar sits just above the cell's bottom edge.
	hit = g.HitTest(data, x+w/2, y+h-EventBarHeight/2-EventBarGap)
	if hit.Zone != HitEvent || hit.Event.ID != "e1" {
		t.Errorf("event hit = %+v", hit)
	}

	// A day the event does not cover has a plain body there.
	x2, y2, w2, h2 := g.CellRect(1, 5)
	hit = g.HitTest(data, x2+w2/2, y2+h2-EventBarHeight/2-EventBarGap)
	if hit.Zone != HitBody {
		t.Errorf("uncovered day hit = %+v", hit)
	}

	// Outside the grid entirely.
	hit = g.HitTest(data, -10, -10)
	if hit.Zone != HitNone {
		t.Errorf("outside hit = %+v", hit)
	}
}

func TestHitTestEventBarStacking(t *testing.T) {
	g := NewGrid(2026)
	data := entities.NewAppData()
	data.Events = []entities.CalendarEvent{
		{ID: "a", Title: "1", StartDate: "2026-03-10", EndDate: "2026-03-10"},
		{ID: "b", Title: "2", StartDate: "2026-03-09", EndDate: "2026-03-11"},
	}

	x, y, w, h := g.CellRect(3, 10)
	// Bars stack bottom-up in EventsOn order: "b" starts earlier so it is
	// the bottom bar.
	hit := g.HitTest(data, x+w/2, y+h-EventBarHeight/2-EventBarGap)
	if hit.Zone != HitEvent || hit.Event.ID != "b" {
		t.Errorf("bottom bar = %+v", hit)
	}
	hit = g.HitTest(data, x+w/2, y+h-EventBarHeight-EventBarGap-EventBarHeight/2-EventBarGap)
	if hit.Zone != HitEvent || hit.Event.ID != "a" {
		t.Errorf("second bar = %+v", hit)
	}
}
