package canvas

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/yearboard/core/internal/domain/dates"
	"github.com/yearboard/core/internal/domain/entities"
)

var (
	selectionFill = color.RGBA{R: 0x4f, G: 0x7c, B: 0xac, A: 0x50}
	handleFill    = color.RGBA{R: 0xe8, G: 0xea, B: 0xee, A: 0xff}
	hudColor      = color.RGBA{R: 0xb8, G: 0xbc, B: 0xc4, A: 0xff}
	noticeColor   = color.RGBA{R: 0xd0, G: 0x87, B: 0x70, A: 0xff}
)

// sceneCache holds the uploaded board image. It is rebuilt only when the
// board data generation changes; the camera is applied as a GeoM, so pan
// and zoom cost the same no matter how much the board holds.
type sceneCache struct {
	img *ebiten.Image
}

// Draw implements ebiten.Game.
func (s *Surface) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x14, G: 0x16, B: 0x1a, A: 0xff})

	if s.sceneDirty || s.scene.img == nil {
		s.scene.img = ebiten.NewImageFromImage(s.renderer.Render(s.data, false))
		s.sceneDirty = false
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s.transform.Scale, s.transform.Scale)
	op.GeoM.Translate(s.transform.X, s.transform.Y)
	screen.DrawImage(s.scene.img, op)

	s.drawSelection(screen)
	s.drawRectangles(screen)
	s.drawHUD(screen)
}

func (s *Surface) drawSelection(screen *ebiten.Image) {
	if !s.selection.Active() {
		return
	}
	for month := 1; month <= 12; month++ {
		for day := 1; day <= s.grid.daysIn(month); day++ {
			if !s.selection.Contains(dates.Key(month, day, s.grid.Year)) {
				continue
			}
			x, y, w, h := s.grid.CellRect(month, day)
			sx, sy := s.transform.CanvasToScreen(x, y)
			vector.DrawFilledRect(screen, float32(sx), float32(sy),
				float32(w*s.transform.Scale), float32(h*s.transform.Scale),
				selectionFill, false)
		}
	}
}

func (s *Surface) drawRectangles(screen *ebiten.Image) {
	dragging := s.gesture == gestureMove || s.gesture == gestureResize
	for _, rect := range s.data.Rectangles {
		if dragging && rect.ID == s.activeRect.ID {
			continue
		}
		s.strokeRect(screen, rect, rect.ID == s.rects.Selected())
	}
	if dragging {
		s.strokeRect(screen, s.activeRect, true)
	}
	if s.rects.Drawing() {
		s.strokeRect(screen, s.rects.Preview().Normalized(), false)
	}
}

func (s *Surface) strokeRect(screen *ebiten.Image, rect entities.CanvasRectangle, selected bool) {
	n := rect.Normalized()
	sx, sy := s.transform.CanvasToScreen(n.X, n.Y)
	sw := n.Width * s.transform.Scale
	sh := n.Height * s.transform.Scale

	width := float32(2)
	if selected {
		width = 3
	}
	vector.StrokeRect(screen, float32(sx), float32(sy), float32(sw), float32(sh),
		width, parseHexColor(n.Color), true)

	label := n.Text
	if s.rects.EditingID() == n.ID {
		label = s.rects.EditText() + "_"
	}
	if label != "" {
		text.Draw(screen, label, s.renderer.face, int(sx)+6, int(sy)+16, handleFill)
	}

	if selected {
		for _, c := range [][2]float64{
			{n.X, n.Y}, {n.X + n.Width, n.Y},
			{n.X, n.Y + n.Height}, {n.X + n.Width, n.Y + n.Height},
		} {
			hx, hy := s.transform.CanvasToScreen(c[0], c[1])
			vector.DrawFilledRect(screen, float32(hx-4), float32(hy-4), 8, 8, handleFill, false)
		}
	}
}

func (s *Surface) drawHUD(screen *ebiten.Image) {
	hud := fmt.Sprintf("%d  ·  %s  ·  %d%%", s.grid.Year, s.mode, int(s.transform.Scale*100))
	text.Draw(screen, hud, s.renderer.face, 10, 20, hudColor)
	if notice := s.currentNotice(); notice != "" {
		sh := screen.Bounds().Dy()
		text.Draw(screen, notice, s.renderer.face, 10, sh-10, noticeColor)
	}
}

// parseHexColor reads "#rrggbb"; unknown input falls back to a neutral
// border so a bad stored color never hides a rectangle.
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0x8a, G: 0x8f, B: 0x98, A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
