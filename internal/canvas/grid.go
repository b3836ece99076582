package canvas

import (
	"github.com/yearboard/core/internal/domain/dates"
	"github.com/yearboard/core/internal/domain/entities"
)

// Grid geometry, all in canvas units at scale 1.
const (
	GutterWidth  = 110.0 // month-name column
	HeaderHeight = 36.0  // day-number row
	CellWidth    = 96.0
	CellHeight   = 64.0

	EventBarHeight = 11.0
	EventBarGap    = 2.0
	MaxEventBars   = 3
	QuickAddSize   = 16.0
)

// Grid lays out the fixed year as 12 month rows by 31 day columns and
// answers hit tests. It holds no mutable state.
type Grid struct {
	Year int
}

func NewGrid(year int) *Grid {
	return &Grid{Year: year}
}

// BoardSize returns the full board extent in canvas units.
func (g *Grid) BoardSize() (w, h float64) {
	return GutterWidth + 31*CellWidth, HeaderHeight + 12*CellHeight
}

// CellRect returns the canvas-space rectangle of the (month, day) cell.
// It does not check validity; invalid cells still occupy grid space as
// inert placeholders.
func (g *Grid) CellRect(month, day int) (x, y, w, h float64) {
	x = GutterWidth + float64(day-1)*CellWidth
	y = HeaderHeight + float64(month-1)*CellHeight
	return x, y, CellWidth, CellHeight
}

// IsValidCell reports whether (month, day) is a real date in the year.
func (g *Grid) IsValidCell(month, day int) bool {
	return month >= 1 && month <= 12 && dates.IsValidDay(month, day, g.Year)
}

func (g *Grid) daysIn(month int) int {
	return dates.DaysInMonth(month, g.Year)
}

// DateAt returns the ISO key for a valid cell under the canvas point.
func (g *Grid) DateAt(cx, cy float64) (string, bool) {
	month, day, ok := g.cellAt(cx, cy)
	if !ok {
		return "", false
	}
	return dates.Key(month, day, g.Year), true
}

func (g *Grid) cellAt(cx, cy float64) (month, day int, ok bool) {
	if cx < GutterWidth || cy < HeaderHeight {
		return 0, 0, false
	}
	day = int((cx-GutterWidth)/CellWidth) + 1
	month = int((cy-HeaderHeight)/CellHeight) + 1
	if !g.IsValidCell(month, day) {
		return 0, 0, false
	}
	return month, day, true
}

// HitZone names the interactive region of a cell under the pointer.
type HitZone int

const (
	// HitNone means the point is outside every valid cell.
	HitNone HitZone = iota
	// HitBody opens the day detail.
	HitBody
	// HitQuickAdd opens the quick add-event affordance.
	HitQuickAdd
	// HitEvent opens one event's detail.
	HitEvent
)

// Hit describes what lies under a canvas-space point.
type Hit struct {
	Zone  HitZone
	Date  string
	Event entities.CalendarEvent
}

// HitTest resolves the cell zone under a canvas point. Each zone maps to
// a distinct callback: day detail, quick add, or a specific event bar.
func (g *Grid) HitTest(data *entities.AppData, cx, cy float64) Hit {
	month, day, ok := g.cellAt(cx, cy)
	if !ok {
		return Hit{Zone: HitNone}
	}
	date := dates.Key(month, day, g.Year)
	x, y, w, _ := g.CellRect(month, day)

	// Quick-add corner.
	if cx >= x+w-QuickAddSize && cy <= y+QuickAddSize {
		return Hit{Zone: HitQuickAdd, Date: date}
	}

	// Event bars stack upward from the cell's bottom edge.
	if data != nil {
		events := data.EventsOn(date)
		for i, rect := range g.eventBarRects(month, day, len(events)) {
			if cx >= rect[0] && cx <= rect[0]+rect[2] && cy >= rect[1] && cy <= rect[1]+rect[3] {
				return Hit{Zone: HitEvent, Date: date, Event: events[i]}
			}
		}
	}

	return Hit{Zone: HitBody, Date: date}
}

// eventBarRects returns up to MaxEventBars bar rectangles for a cell, as
// {x, y, w, h}, ordered to match EventsOn.
func (g *Grid) eventBarRects(month, day, count int) [][4]float64 {
	if count > MaxEventBars {
		count = MaxEventBars
	}
	x, y, w, h := g.CellRect(month, day)
	rects := make([][4]float64, 0, count)
	for i := 0; i < count; i++ {
		barY := y + h - float64(i+1)*(EventBarHeight+EventBarGap)
		rects = append(rects, [4]float64{x + 1, barY, w - 2, EventBarHeight})
	}
	return rects
}
