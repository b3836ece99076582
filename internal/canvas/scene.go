package canvas

import (
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yearboard/core/internal/domain/dates"
	"github.com/yearboard/core/internal/domain/entities"
)

var moodColors = map[entities.Mood]string{
	entities.MoodTerrible:  "#b4504f",
	entities.MoodBad:       "#c98a4b",
	entities.MoodNeutral:   "#b0b4ba",
	entities.MoodGood:      "#7fae6a",
	entities.MoodExcellent: "#4f9d8b",
}

// SceneRenderer rasterizes the board content (grid, day entries, event
// bars) into an RGBA image at scale 1. The live surface uploads the
// result to the GPU and repaints it under the camera transform, so a
// rebuild happens only when board data changes, never per frame.
type SceneRenderer struct {
	grid     *Grid
	face     font.Face
	boldFace font.Face
	small    font.Face
}

// NewSceneRenderer loads the embedded Go fonts and prepares a renderer
// for the grid's year.
func NewSceneRenderer(grid *Grid) (*SceneRenderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &SceneRenderer{
		grid:     grid,
		face:     truetype.NewFace(regular, &truetype.Options{Size: 12}),
		boldFace: truetype.NewFace(bold, &truetype.Options{Size: 13}),
		small:    truetype.NewFace(regular, &truetype.Options{Size: 10}),
	}, nil
}

// Render draws the full board. Rectangles are included only when asked
// for (PNG export); the live surface draws them as a vector overlay so
// high-frequency rectangle edits never force a scene rebuild.
func (r *SceneRenderer) Render(data *entities.AppData, includeRects bool) image.Image {
	w, h := r.grid.BoardSize()
	dc := gg.NewContext(int(w), int(h))

	dc.SetHexColor("#1d2026")
	dc.Clear()

	r.drawChrome(dc)
	for month := 1; month <= 12; month++ {
		for day := 1; day <= 31; day++ {
			r.drawCell(dc, data, month, day)
		}
	}
	if includeRects && data != nil {
		for _, rect := range data.Rectangles {
			r.drawRectangle(dc, rect)
		}
	}
	return dc.Image()
}

// drawChrome paints the month gutter and the day-number header.
func (r *SceneRenderer) drawChrome(dc *gg.Context) {
	dc.SetFontFace(r.boldFace)
	dc.SetHexColor("#c8ccd4")
	for month := 1; month <= 12; month++ {
		_, y, _, h := r.grid.CellRect(month, 1)
		name := time.Month(month).String()[:3]
		dc.DrawStringAnchored(name, GutterWidth/2, y+h/2, 0.5, 0.35)
	}
	dc.SetFontFace(r.face)
	dc.SetHexColor("#8a8f98")
	for day := 1; day <= 31; day++ {
		x, _, w, _ := r.grid.CellRect(1, day)
		dc.DrawStringAnchored(fmt.Sprintf("%d", day), x+w/2, HeaderHeight/2, 0.5, 0.35)
	}
}

func (r *SceneRenderer) drawCell(dc *gg.Context, data *entities.AppData, month, day int) {
	x, y, w, h := r.grid.CellRect(month, day)

	if !r.grid.IsValidCell(month, day) {
		// Trailing days of short months are inert placeholders.
		dc.SetHexColor("#16181d")
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		return
	}

	dc.SetHexColor("#262a32")
	dc.SetLineWidth(1)
	dc.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	dc.Stroke()

	date := dates.Key(month, day, r.grid.Year)
	if data == nil {
		return
	}

	if entry, ok := data.Days[date]; ok {
		if color, known := moodColors[entry.Mood]; known {
			dc.SetHexColor(color)
			dc.DrawCircle(x+8, y+9, 4)
			dc.Fill()
		}
		if entry.Title != "" {
			dc.SetFontFace(r.small)
			dc.SetHexColor("#d5d9e0")
			dc.DrawStringAnchored(truncate(entry.Title, 14), x+16, y+9, 0, 0.35)
		}
	}

	events := data.EventsOn(date)
	for i, bar := range r.grid.eventBarRects(month, day, len(events)) {
		ev := events[i]
		color := ev.Color
		if color == "" {
			color = entities.ColorForCategory(ev.Category)
		}
		dc.SetHexColor(color)
		dc.DrawRoundedRectangle(bar[0], bar[1], bar[2], bar[3], 2)
		dc.Fill()
		// Label the bar only on the event's first day so multi-day bars
		// read as one continuous strip.
		if ev.StartDate == date {
			dc.SetFontFace(r.small)
			dc.SetHexColor("#14161a")
			dc.DrawStringAnchored(truncate(ev.Title, 13), bar[0]+3, bar[1]+bar[3]/2, 0, 0.35)
		}
	}
}

func (r *SceneRenderer) drawRectangle(dc *gg.Context, rect entities.CanvasRectangle) {
	n := rect.Normalized()
	dc.SetHexColor(n.Color)
	dc.SetLineWidth(2)
	dc.DrawRectangle(n.X, n.Y, n.Width, n.Height)
	dc.Stroke()
	if n.Text != "" {
		dc.SetFontFace(r.face)
		dc.DrawStringAnchored(n.Text, n.X+6, n.Y+12, 0, 0.35)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
