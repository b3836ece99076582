package canvas

import (
	"testing"

	"github.com/yearboard/core/internal/domain/entities"
)

func TestRenderCoversBoard(t *testing.T) {
	grid := NewGrid(2026)
	r, err := NewSceneRenderer(grid)
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}

	data := entities.NewAppData()
	data.Days["2026-01-05"] = entities.DayEntry{Date: "2026-01-05", Title: "hello", Mood: entities.MoodGood}
	data.Events = []entities.CalendarEvent{
		{ID: "e1", Title: "trip", StartDate: "2026-02-01", EndDate: "2026-02-05", Category: "travel"},
	}

	img := r.Render(data, false)
	w, h := grid.BoardSize()
	bounds := img.Bounds()
	if bounds.Dx() != int(w) || bounds.Dy() != int(h) {
		t.Errorf("image is %dx%d, board is %fx%f", bounds.Dx(), bounds.Dy(), w, h)
	}
}

func TestRenderWithRectangles(t *testing.T) {
	grid := NewGrid(2026)
	r, err := NewSceneRenderer(grid)
	if err != nil {
		t.Fatal(err)
	}
	data := entities.NewAppData()
	data.Rectangles = []entities.CanvasRectangle{
		{ID: "r1", X: 150, Y: 60, Width: 400, Height: 200, Color: "#d08770", Text: "Q1 focus"},
	}

	// Rectangles only appear in export renders; the interactive overlay
	// draws them separately.
	if img := r.Render(data, true); img == nil {
		t.Fatal("nil image")
	}
}
